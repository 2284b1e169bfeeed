package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for depot.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
}

// ServerConfig holds process-wide server settings.
type ServerConfig struct {
	StorageDir string `toml:"storage_dir"` // absolute root of all stored content
	LogDir     string `toml:"log_dir"`
}

// StorageConfig selects the storage backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type string `toml:"type"` // "file" or "shared"

	// Shared-specific fields (only used when Type == "shared")
	Provider  string `toml:"provider,omitempty"`
	StorageID string `toml:"storage_id,omitempty"` // raw identifier; hashed before use in paths

	// PageSize bounds how many units batch operations handle at once.
	PageSize int `toml:"page_size,omitempty"`
}

// NewConfig creates a new Config with file storage under baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		Server: ServerConfig{
			StorageDir: filepath.Join(baseDir, "storage"),
			LogDir:     filepath.Join(baseDir, "log"),
		},
		Storage: StorageConfig{Type: "file"},
	}
}

// StorageDir implements depot.Settings.
func (c *Config) StorageDir() string {
	return c.Server.StorageDir
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if c.Server.StorageDir == "" {
		return fmt.Errorf("server.storage_dir must be set")
	}
	if !filepath.IsAbs(c.Server.StorageDir) {
		return fmt.Errorf("server.storage_dir must be an absolute path: %s", c.Server.StorageDir)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
