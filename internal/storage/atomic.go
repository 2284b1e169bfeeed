package storage

import (
	"fmt"
	"io"
	"os"

	"depot/internal/fsutil"
)

// writeAtomic copies sourcePath to destination via a temp file in destination's
// directory. verify, if non-nil, is run against the temp file before the rename;
// its error is returned unchanged. The temp file is removed on every failure, so
// destination either keeps its old content or receives the complete new file.
func writeAtomic(sourcePath, destination string, verify func(path string) error) error {
	dir := fsutil.ParentDirectory(destination)
	if err := fsutil.Mkdir(dir); err != nil {
		return err
	}

	// The handle only reserves a unique name; the copy reopens the path.
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := copyFile(sourcePath, tmpPath); err != nil {
		return err
	}

	if verify != nil {
		if err := verify(tmpPath); err != nil {
			return err
		}
	}

	if err := os.Rename(tmpPath, destination); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// copyFile copies the contents and permission bits of src over dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source is a directory: %s", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	return nil
}
