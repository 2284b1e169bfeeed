package app

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"depot/internal/config"
	"depot/internal/depot"
	"depot/internal/fsutil"
	"depot/internal/storage"
	"depot/internal/unit"
)

// publishDirMode is used for directories created when publishing units.
const publishDirMode os.FileMode = 0o770

// DepotApp is the application layer between the CLI and the storage backends.
// It constructs backends from config, exposes high-level operations that accept
// raw strings, and owns the log file until Close.
type DepotApp struct {
	cfg     *config.Config
	logger  depot.Logger
	idgen   depot.IDGenerator
	logFile *os.File
}

// Options tune NewDepotApp. The zero value logs at INFO to the configured log dir.
type Options struct {
	Verbose bool
	IDGen   depot.IDGenerator
}

// NewDepotApp creates a DepotApp from the given config.
// operation identifies the CLI command being run and is stamped on every log line.
// The caller must call Close when done.
func NewDepotApp(cfg *config.Config, operation string, opts Options) (*DepotApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	opID := operation + "-" + time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.Server.LogDir, opID, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	idgen := opts.IDGen
	if idgen == nil {
		idgen = depot.UUIDGenerator{}
	}

	return &DepotApp{
		cfg:     cfg,
		logger:  &slogAdapter{l: logger},
		idgen:   idgen,
		logFile: logFile,
	}, nil
}

// newUnit builds a unit and assigns its canonical storage path.
func (a *DepotApp) newUnit(fs *storage.FileStorage, typeID string, key map[string]string, size int64) (*unit.FileUnit, error) {
	if typeID == "" {
		return nil, fmt.Errorf("unit type is required")
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("unit key is required")
	}
	u := unit.NewFileUnit(a.idgen, typeID, key, size)
	path, err := fs.GetPath(u)
	if err != nil {
		return nil, err
	}
	u.SetStoragePath(path)
	return u, nil
}

// UnitPath returns the canonical storage path for the unit with the given type and key.
func (a *DepotApp) UnitPath(typeID string, key map[string]string) (string, error) {
	fs := storage.NewFileStorage(a.cfg, a.logger)
	u, err := a.newUnit(fs, typeID, key, -1)
	if err != nil {
		return "", err
	}
	return u.StoragePath(), nil
}

// PutUnit stores sourcePath as the content of a new unit and returns the unit.
// With verify set, the stored copy is checked against the source's size before
// it becomes visible.
func (a *DepotApp) PutUnit(typeID string, key map[string]string, sourcePath, location string, verify bool) (*unit.FileUnit, error) {
	size := int64(-1)
	if verify {
		info, err := os.Stat(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("stat source: %w", err)
		}
		size = info.Size()
	}

	fs := storage.NewFileStorage(a.cfg, a.logger)
	u, err := a.newUnit(fs, typeID, key, size)
	if err != nil {
		return nil, err
	}

	err = depot.Use(fs, func(s depot.Storage) error {
		return s.Put(u, sourcePath, location)
	})
	if err != nil {
		return nil, fmt.Errorf("storing unit %s: %w", u.ID(), err)
	}

	a.logger.Info("unit stored", "unit", u.ID(), "type", typeID, "path", u.StoragePath())
	return u, nil
}

// sharedStorage resolves the provider and raw id, falling back to the config.
func (a *DepotApp) sharedStorage(provider, rawID string) (*storage.SharedStorage, error) {
	if provider == "" {
		provider = a.cfg.Storage.Provider
	}
	if rawID == "" {
		rawID = a.cfg.Storage.StorageID
	}
	sc := config.StorageConfig{Type: "shared", Provider: provider, StorageID: rawID}
	st, err := storage.NewStorageFromConfig(sc, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	return st.(*storage.SharedStorage), nil
}

// StoreShared writes sourcePath into the shared content of (provider, rawID).
// Only one process should populate a given shared storage.
func (a *DepotApp) StoreShared(provider, rawID, sourcePath, location string) (string, error) {
	ss, err := a.sharedStorage(provider, rawID)
	if err != nil {
		return "", err
	}

	err = depot.Use(ss, func(depot.Storage) error {
		return ss.Store(sourcePath, location)
	})
	if err != nil {
		return "", fmt.Errorf("storing shared content: %w", err)
	}

	a.logger.Info("shared content stored", "provider", ss.Provider, "storage_id", ss.StorageID, "location", location)
	return ss.ContentDir(), nil
}

// LinkUnits links every unit id in ids to the shared content of (provider, rawID),
// a page at a time. It stops at the first failure and returns how many units were
// linked before it.
func (a *DepotApp) LinkUnits(provider, rawID string, ids iter.Seq[string]) (int, error) {
	ss, err := a.sharedStorage(provider, rawID)
	if err != nil {
		return 0, err
	}

	linked := 0
	err = depot.Use(ss, func(s depot.Storage) error {
		for page := range fsutil.Paginate(ids, a.cfg.Storage.PageSize) {
			for _, id := range page {
				if err := s.Put(&unit.FileUnit{UnitID: id}, "", ""); err != nil {
					return fmt.Errorf("linking unit %s: %w", id, err)
				}
				linked++
			}
			a.logger.Info("page linked", "provider", ss.Provider, "units", len(page), "total", linked)
		}
		return nil
	})
	return linked, err
}

// Publish exposes a stored unit at publishPath through a symlink to its canonical
// path. An older link at publishPath is repointed; any other file there is an error.
func (a *DepotApp) Publish(typeID string, key map[string]string, publishPath string) (string, error) {
	target, err := a.UnitPath(typeID, key)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(publishPath)
	if err != nil {
		return "", fmt.Errorf("resolving publish path: %w", err)
	}

	previous, err := fsutil.ReplaceSymlink(target, abs, publishDirMode)
	if err != nil {
		return "", fmt.Errorf("publishing %s: %w", abs, err)
	}
	if previous != "" {
		a.logger.Debug("removed old link", "link", abs, "target", previous)
	}

	a.logger.Info("unit published", "link", abs, "target", target)
	return target, nil
}

// Clear removes the contents of dir, keeping entries named in skip.
func (a *DepotApp) Clear(dir string, skip []string) error {
	a.logger.Debug("clearing directory", "path", dir, "skip", skip)
	if err := fsutil.ClearDirectory(dir, skip...); err != nil {
		return fmt.Errorf("clearing %s: %w", dir, err)
	}
	a.logger.Info("directory cleared", "path", dir)
	return nil
}

// Close releases the log file.
func (a *DepotApp) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
