package vcs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/modguard/vcs/git"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, git, etc.)
type ContentReader func(filePath string) ([]byte, error)

// FilesystemContentReader reads files from the working tree.
func FilesystemContentReader() ContentReader {
	return os.ReadFile
}

// GitRevisionContentReader reads files as they were committed at rev.
// Relative paths are resolved against repoPath.
func GitRevisionContentReader(repoPath, rev string) (ContentReader, error) {
	absRepo, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repo path: %w", err)
	}
	if err := git.ValidateRevision(absRepo, rev); err != nil {
		return nil, err
	}

	return func(filePath string) ([]byte, error) {
		rel := filePath
		if filepath.IsAbs(filePath) {
			r, err := filepath.Rel(absRepo, filePath)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s against %s: %w", filePath, absRepo, err)
			}
			rel = r
		}
		return git.GetFileContentAtRevision(absRepo, rev, rel)
	}, nil
}
