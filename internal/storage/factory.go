package storage

import (
	"fmt"

	"depot/internal/config"
	"depot/internal/depot"
)

// NewStorageFromConfig creates a Storage implementation based on the storage config type.
func NewStorageFromConfig(cfg config.StorageConfig, settings depot.Settings, logger depot.Logger) (depot.Storage, error) {
	switch cfg.Type {
	case "", "file":
		return NewFileStorage(settings, logger), nil
	case "shared":
		if cfg.Provider == "" {
			return nil, fmt.Errorf("shared storage requires provider to be set")
		}
		if cfg.StorageID == "" {
			return nil, fmt.Errorf("shared storage requires storage_id to be set")
		}
		return NewSharedStorage(settings, cfg.Provider, cfg.StorageID, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
