package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minio/sha256-simd"

	"depot/internal/depot"
)

// FileStorage stores each unit's content at its own canonical path.
type FileStorage struct {
	BaseStorage
	settings depot.Settings
	logger   depot.Logger
}

// NewFileStorage creates a FileStorage rooted at settings.StorageDir().
func NewFileStorage(settings depot.Settings, logger depot.Logger) *FileStorage {
	return &FileStorage{settings: settings, logger: logger}
}

// GetPath returns the canonical path for u:
//
//	<storage_dir>/content/units/<type_id>/<digest[0:2]>/<digest[2:]>
//
// where digest is the hex SHA-256 of u's unit key.
func (s *FileStorage) GetPath(u depot.Unit) (string, error) {
	digest := u.UnitKeyAsDigest(sha256.New())
	if len(digest) < 3 {
		return "", fmt.Errorf("unit key digest too short: %q", digest)
	}
	return filepath.Join(
		s.settings.StorageDir(),
		"content",
		"units",
		u.TypeID(),
		digest[0:2],
		digest[2:],
	), nil
}

// Put copies sourcePath to u's storage path, or to location beneath it.
// The copy lands in a temp file next to the destination, is verified if u
// implements depot.SizeVerifier, and is then renamed into place. A failed
// verification removes the temp file and returns the verifier's error unchanged.
func (s *FileStorage) Put(u depot.Unit, sourcePath string, location string) error {
	destination, err := destinationFor(u, location)
	if err != nil {
		return err
	}

	var verify func(string) error
	if v, ok := u.(depot.SizeVerifier); ok {
		verify = v.VerifySize
	}

	if err := writeAtomic(sourcePath, destination, verify); err != nil {
		return err
	}

	s.logger.Debug("content stored", "unit", u.ID(), "path", destination)
	return nil
}

// Get returns u's storage path. Existence is not checked.
func (s *FileStorage) Get(u depot.Unit) (string, error) {
	return u.StoragePath(), nil
}

// destinationFor joins location, minus leading separators, onto u's storage path.
func destinationFor(u depot.Unit, location string) (string, error) {
	destination := u.StoragePath()
	if destination == "" {
		return "", fmt.Errorf("unit %s has no storage path", u.ID())
	}
	if location == "" {
		return destination, nil
	}

	rel := strings.TrimLeft(location, string(filepath.Separator))
	if rel == "" {
		return destination, nil
	}
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("location %q escapes the unit storage path", location)
	}
	return filepath.Join(destination, rel), nil
}

// Compile-time check that FileStorage implements depot.Storage
var _ depot.Storage = (*FileStorage)(nil)
