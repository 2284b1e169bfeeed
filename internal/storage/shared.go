package storage

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/minio/sha256-simd"

	"depot/internal/depot"
	"depot/internal/fsutil"
)

// SharedStorage holds one copy of content referenced by many units.
// Each unit gets a symlink named by its id in LinksDir, pointing at ContentDir.
//
// Only one writer populates ContentDir (see Store); every other caller links.
type SharedStorage struct {
	// Provider defines the storage mechanism and qualifies StorageID (e.g. "git").
	Provider string
	// StorageID is the hex SHA-256 of the caller's raw identifier.
	StorageID string

	settings depot.Settings
	logger   depot.Logger
}

// NewSharedStorage creates the shared storage identified by provider and rawID.
// rawID may be any string, such as a repository URL; it is hashed so that the
// path component is fixed-length and safe.
func NewSharedStorage(settings depot.Settings, provider, rawID string, logger depot.Logger) *SharedStorage {
	sum := sha256.Sum256([]byte(rawID))
	return &SharedStorage{
		Provider:  provider,
		StorageID: hex.EncodeToString(sum[:]),
		settings:  settings,
		logger:    logger,
	}
}

// SharedDir is <storage_dir>/content/shared/<provider>/<storage_id>.
func (s *SharedStorage) SharedDir() string {
	return filepath.Join(
		s.settings.StorageDir(),
		"content",
		"shared",
		s.Provider,
		s.StorageID,
	)
}

// ContentDir is where the shared content lives.
func (s *SharedStorage) ContentDir() string {
	return filepath.Join(s.SharedDir(), "content")
}

// LinksDir holds one symlink per unit referencing the shared content.
func (s *SharedStorage) LinksDir() string {
	return filepath.Join(s.SharedDir(), "links")
}

// Open creates ContentDir and LinksDir as needed.
func (s *SharedStorage) Open() error {
	if err := fsutil.Mkdir(s.ContentDir()); err != nil {
		return err
	}
	return fsutil.Mkdir(s.LinksDir())
}

func (s *SharedStorage) Close() error { return nil }

// Put links u to the shared content. No bytes are copied; sourcePath and
// location are ignored.
func (s *SharedStorage) Put(u depot.Unit, _ string, _ string) error {
	_, err := s.Link(u)
	return err
}

// Get returns ContentDir. Existence is not checked.
func (s *SharedStorage) Get(depot.Unit) (string, error) {
	return s.ContentDir(), nil
}

// Link creates LinksDir/<unit id> pointing at ContentDir and returns its path.
// A link that already points at ContentDir, e.g. one created by a concurrent
// caller, is accepted. Anything else at that path is a *depot.LinkConflictError
// and is left untouched.
func (s *SharedStorage) Link(u depot.Unit) (string, error) {
	id := u.ID()
	if id == "" || id == "." || filepath.Base(id) != id || !filepath.IsLocal(id) {
		return "", fmt.Errorf("%w: %q", depot.ErrInvalidUnitID, id)
	}

	target := s.ContentDir()
	link := filepath.Join(s.LinksDir(), id)

	outcome, existing, err := fsutil.SymlinkIfAbsent(target, link)
	if err != nil {
		return "", err
	}

	switch outcome {
	case fsutil.LinkCreated:
		s.logger.Debug("unit linked", "unit", id, "link", link)
	case fsutil.LinkExists:
		s.logger.Debug("unit already linked", "unit", id, "link", link)
	default:
		return "", &depot.LinkConflictError{Link: link, Expected: target, Target: existing}
	}
	return link, nil
}

// Store copies sourcePath into ContentDir at location (a relative path).
// It is the single-writer path for populating shared content; the file is
// written to a temp file and renamed into place.
func (s *SharedStorage) Store(sourcePath string, location string) error {
	if !filepath.IsLocal(location) {
		return fmt.Errorf("location %q is not a relative path inside shared content", location)
	}
	destination := filepath.Join(s.ContentDir(), location)
	if err := writeAtomic(sourcePath, destination, nil); err != nil {
		return err
	}
	s.logger.Debug("shared content stored", "provider", s.Provider, "storage_id", s.StorageID, "path", destination)
	return nil
}

// Compile-time check that SharedStorage implements depot.Storage
var _ depot.Storage = (*SharedStorage)(nil)
