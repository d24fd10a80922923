package git

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// GetRepositoryRoot returns the absolute path to the repository root
func GetRepositoryRoot(repoPath string) (string, error) {
	out, _, err := runGitCommand(repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ValidateRevision checks that rev resolves to a commit in the repository at repoPath.
func ValidateRevision(repoPath, rev string) error {
	if _, err := os.Stat(repoPath); os.IsNotExist(err) {
		return fmt.Errorf("repository path does not exist: %s", repoPath)
	}
	if err := validateGitRef(rev); err != nil {
		return err
	}
	if _, err := GetRepositoryRoot(repoPath); err != nil {
		return fmt.Errorf("%s is not a git repository: %w", repoPath, err)
	}
	if _, stderr, err := runGitCommand(repoPath, "rev-parse", "--verify", rev+"^{commit}"); err != nil {
		if stderr != "" {
			return fmt.Errorf("invalid revision '%s': %s", rev, stderr)
		}
		return fmt.Errorf("invalid revision '%s'", rev)
	}
	return nil
}

// GetFileContentAtRevision reads a file as it was at rev using 'git show rev:path'.
// filePath is relative to repoPath.
func GetFileContentAtRevision(repoPath, rev, filePath string) ([]byte, error) {
	if err := validateGitRef(rev); err != nil {
		return nil, err
	}
	if err := validateGitRelPath(filePath); err != nil {
		return nil, err
	}

	// "./" makes git resolve the path against repoPath rather than the repository root.
	ref := fmt.Sprintf("%s:./%s", rev, filepath.ToSlash(filepath.Clean(filePath)))
	out, stderr, err := runGitCommand(repoPath, "show", ref)
	if err != nil {
		if isMissingPath(stderr) {
			return nil, fmt.Errorf("%s at %s: %w", filePath, rev, fs.ErrNotExist)
		}
		if stderr != "" {
			return nil, fmt.Errorf("git show failed: %s", stderr)
		}
		return nil, err
	}
	return out, nil
}

func isMissingPath(stderr string) bool {
	return strings.Contains(stderr, "does not exist in") || strings.Contains(stderr, "exists on disk, but not in")
}

func validateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git reference cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("git reference cannot start with '-': %q", ref)
	}
	if strings.ContainsAny(ref, "\x00\n\r\t :") {
		return fmt.Errorf("git reference contains whitespace, ':' or NUL: %q", ref)
	}
	return nil
}

func validateGitRelPath(path string) error {
	if path == "" {
		return fmt.Errorf("git path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("git path must be relative: %q", path)
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("git path contains NUL: %q", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("git path escapes repository: %q", path)
	}
	return nil
}
