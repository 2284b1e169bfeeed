package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestMkdir(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "c")

		if err := Mkdir(path); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", path)
		}
		if got := info.Mode().Perm(); got != 0o775 {
			t.Errorf("mode = %04o, want 0775", got)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dir")

		if err := Mkdir(path); err != nil {
			t.Fatalf("first Mkdir() error = %v", err)
		}
		if err := Mkdir(path); err != nil {
			t.Fatalf("second Mkdir() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("directory missing after second Mkdir(): %v", err)
		}
	})

	t.Run("explicit mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "private")

		if err := Mkdir(path, 0o750); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if got := info.Mode().Perm(); got != 0o750 {
			t.Errorf("mode = %04o, want 0750", got)
		}
	})

	t.Run("existing file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := Mkdir(path); err == nil {
			t.Fatal("Mkdir() expected error for existing file")
		}
	})

	t.Run("parent is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := Mkdir(filepath.Join(file, "sub")); err == nil {
			t.Fatal("Mkdir() expected error when parent is a file")
		}
	})

	t.Run("permission denied", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission checks do not apply to root")
		}
		parent := filepath.Join(t.TempDir(), "locked")
		if err := os.Mkdir(parent, 0o555); err != nil {
			t.Fatal(err)
		}

		if err := Mkdir(filepath.Join(parent, "child")); !errors.Is(err, fs.ErrPermission) {
			t.Fatalf("Mkdir() error = %v, want permission error", err)
		}
	})
}
