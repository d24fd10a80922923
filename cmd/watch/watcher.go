package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/LegacyCodeHQ/modguard/internal/mcplogdlog"
	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

// watchAndRecheck calls recheck after any of files changes, until ctx is done.
// Parent directories are watched so editors that replace files on save are seen.
func watchAndRecheck(ctx context.Context, files []string, errOut io.Writer, recheck func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(files))
	for _, f := range files {
		watched[filepath.Clean(f)] = true
	}
	if err := addWatchDirsWithAdder(parentDirs(files), watcher.Add); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantChange(event, watched) {
				continue
			}
			mcplogdlog.Debug("input changed", map[string]any{"path": event.Name, "op": event.Op.String()})

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, recheck)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			mcplogdlog.Warn("watcher error", map[string]any{"error": err.Error()})
			fmt.Fprintf(errOut, "watcher error: %v\n", err)
		}
	}
}

func isRelevantChange(event fsnotify.Event, watched map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return watched[filepath.Clean(event.Name)]
}

func parentDirs(files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// addWatchDirsWithAdder adds every directory, skipping ones that do not exist
// yet; a missing baseline directory must not stop the watch.
func addWatchDirsWithAdder(dirs []string, add func(string) error) error {
	for _, dir := range dirs {
		if err := add(dir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
