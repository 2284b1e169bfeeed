package unit

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"depot/internal/depot"
	"depot/internal/testutil"
)

func TestNewFileUnit(t *testing.T) {
	u := NewFileUnit(testutil.NewStubIDGenerator(), "rpm", map[string]string{"name": "zsh"}, 42)

	if u.ID() != "id-1" {
		t.Errorf("ID() = %q, want %q", u.ID(), "id-1")
	}
	if u.TypeID() != "rpm" {
		t.Errorf("TypeID() = %q, want %q", u.TypeID(), "rpm")
	}
	if u.StoragePath() != "" {
		t.Errorf("StoragePath() = %q, want empty", u.StoragePath())
	}

	u.SetStoragePath("/srv/depot/x")
	if u.StoragePath() != "/srv/depot/x" {
		t.Errorf("StoragePath() = %q, want %q", u.StoragePath(), "/srv/depot/x")
	}
}

func TestFileUnit_UnitKeyAsDigest(t *testing.T) {
	a := &FileUnit{Key: map[string]string{"name": "zsh", "version": "5.9", "arch": "x86_64"}}
	b := &FileUnit{Key: map[string]string{"arch": "x86_64", "version": "5.9", "name": "zsh"}}

	da := a.UnitKeyAsDigest(sha256.New())
	db := b.UnitKeyAsDigest(sha256.New())
	if da != db {
		t.Errorf("digest depends on map order: %s != %s", da, db)
	}
	if len(da) != 64 {
		t.Errorf("len(digest) = %d, want 64", len(da))
	}

	c := &FileUnit{Key: map[string]string{"ab": "c"}}
	d := &FileUnit{Key: map[string]string{"a": "bc"}}
	if c.UnitKeyAsDigest(sha256.New()) == d.UnitKeyAsDigest(sha256.New()) {
		t.Error("different keys produced the same digest")
	}
}

func TestFileUnit_VerifySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		size    int64
		wantErr error
	}{
		{name: "matching size", size: 5},
		{name: "wrong size", size: 6, wantErr: depot.ErrVerification},
		{name: "verification disabled", size: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &FileUnit{Size: tt.size}
			err := u.VerifySize(path)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("VerifySize() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("VerifySize() error = %v, want %v", err, tt.wantErr)
			}
			var verr *depot.VerificationError
			if !errors.As(err, &verr) {
				t.Fatalf("VerifySize() error type = %T, want *depot.VerificationError", err)
			}
			if verr.Expected != tt.size || verr.Actual != 5 {
				t.Errorf("VerificationError = %+v", verr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		u := &FileUnit{Size: 1}
		if err := u.VerifySize(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("VerifySize() error = %v, want not-exist", err)
		}
	})
}
