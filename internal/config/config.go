package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for igpages.
type Config struct {
	// DataDir is the root of the scraped archive tree: one directory per
	// account holding media files and the profile picture.
	DataDir string `toml:"data_dir"`
	// OutputDir is where the generated site is written.
	OutputDir string `toml:"output_dir"`
	// TemplateDir optionally overrides the built-in page templates.
	TemplateDir string `toml:"template_dir,omitempty"`
	// StaticDir holds the stylesheets copied into the site.
	StaticDir string `toml:"static_dir"`
	LogDir    string `toml:"log_dir"`

	Database DatabaseConfig `toml:"database"`
	Feed     FeedConfig     `toml:"feed"`

	// ExcludeAccounts are usernames skipped during the build.
	ExcludeAccounts []string `toml:"exclude_accounts,omitempty"`
}

// DatabaseConfig represents configuration for the archive database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type string `toml:"type"`           // "sqlite" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=sqlite
}

// FeedConfig configures the cross-account monthly feed.
type FeedConfig struct {
	// Months is the feed window: posts newer than Months*30 days are included.
	Months int `toml:"months"`
}

// NewConfig creates a new Config with default paths rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		DataDir:   filepath.Join(baseDir, "data"),
		OutputDir: filepath.Join(baseDir, "site"),
		StaticDir: filepath.Join(baseDir, "static", "css"),
		LogDir:    filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: filepath.Join(baseDir, "data", "archive.sqlite"),
		},
		Feed: FeedConfig{Months: 36},
	}
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
