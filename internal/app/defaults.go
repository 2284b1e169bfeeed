package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - DEPOT_CONFIG_PATH: config file location (default: ~/.config/depot.toml)
//   - DEPOT_HOME: base directory for depot data (default: ~/.local/share/depot)
//
// storage_dir and log_dir are derived from the base directory and are only used
// when writing a fresh config; an existing config file always wins.
func GetDefaults() (map[string]string, error) {
	configPath, err := fromEnvOrHome("DEPOT_CONFIG_PATH", ".config", "depot.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := fromEnvOrHome("DEPOT_HOME", ".local", "share", "depot")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"storage_dir": filepath.Join(baseDir, "storage"),
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// fromEnvOrHome returns $env if set, otherwise the given path under the user's home directory.
func fromEnvOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
