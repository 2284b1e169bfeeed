package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ClearDirectory removes the entries directly under path, except those named in skip.
// Directories are removed recursively and failures there are ignored; regular files
// are removed and failures are returned. Symlinks are classified by what they point
// to, and only the link itself is removed. A missing path is a no-op.
func ClearDirectory(path string, skip ...string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading directory %s: %w", path, err)
	}

	for _, entry := range entries {
		if slices.Contains(skip, entry.Name()) {
			continue
		}

		entryPath := filepath.Join(path, entry.Name())
		info, err := os.Stat(entryPath)
		if err != nil {
			// dangling link or removed underneath us
			continue
		}

		switch {
		case info.IsDir():
			_ = os.RemoveAll(entryPath)
		case info.Mode().IsRegular():
			if err := os.Remove(entryPath); err != nil {
				return fmt.Errorf("removing %s: %w", entryPath, err)
			}
		}
	}
	return nil
}

// ParentDirectory returns the directory containing path, ignoring any trailing
// separators on path. ParentDirectory("/a/b/") is "/a", not "/a/b".
func ParentDirectory(path string) string {
	sep := string(filepath.Separator)
	trimmed := strings.TrimRight(path, sep)
	if trimmed == "" {
		if path == "" {
			return "."
		}
		return sep
	}
	return filepath.Dir(trimmed)
}
