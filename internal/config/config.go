// Package config loads the command-line front end's TOML configuration.
// Values resolve in three layers: built-in defaults, then the config file,
// then command-line flags on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	memorydb "github.com/southvictor/memory-db"
	"github.com/southvictor/memory-db/store"
)

// DefaultPath is consulted when no config file is named explicitly.
const DefaultPath = "~/.memdb.toml"

// Config carries everything the front end needs to open a database and set
// up its logging.
type Config struct {
	// Root is the directory holding the live file and its backups.
	Root string `toml:"root"`

	// Backend selects the storage engine.
	Backend string `toml:"backend"`

	// FileName overrides the engine's default live file name.
	FileName string `toml:"file_name"`

	// MaxBackups caps how many timestamped backups are retained.
	MaxBackups int `toml:"max_backups"`

	// LogLevel selects the slog threshold: debug, info, warn, or error.
	LogLevel string `toml:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `toml:"log_format"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		Root:       "~/.memdb",
		Backend:    memorydb.DefaultBackend,
		MaxBackups: store.DefaultMaxBackups,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads a TOML config file over the defaults. An empty path falls back
// to DefaultPath, and a missing file there is not an error; a path named
// explicitly must exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = ExpandHome(DefaultPath)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Options translates the resolved configuration into database options.
func (c *Config) Options() memorydb.Options {
	return memorydb.Options{
		Backend:    c.Backend,
		Root:       ExpandHome(c.Root),
		FileName:   c.FileName,
		MaxBackups: c.MaxBackups,
	}
}

// ExpandHome resolves a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}

		return filepath.Join(home, path[2:])
	}

	return path
}
