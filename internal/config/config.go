// Package config loads t2048 settings from YAML files and environment
// variables.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config is the full application configuration.
type Config struct {
	DataDir string        `yaml:"data_dir" env:"T2048_DATA_DIR"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// StorageConfig selects where games and scores are kept.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"T2048_STORAGE_BACKEND"` // "sqlite" or "file"
	DBFile  string `yaml:"db_file" env:"T2048_DB_FILE"`         // relative to data_dir unless absolute
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level" env:"T2048_LOG_LEVEL"`
	File  string `yaml:"file" env:"T2048_LOG_FILE"` // relative to data_dir unless absolute
}

// ServerConfig defines the SSH server parameters.
type ServerConfig struct {
	Address     string        `yaml:"address" env:"T2048_SSH_ADDR"`
	HostKey     string        `yaml:"host_key" env:"T2048_SSH_HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"T2048_SSH_IDLE_TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir: "~/.t2048",
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBFile:  "t2048.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "t2048.log",
		},
		Server: ServerConfig{
			Address:     ":2048",
			HostKey:     ".ssh/t2048_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBFile == "" {
			return fmt.Errorf("config: storage.db_file must not be empty")
		}
	case BackendFile:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config: server.idle_timeout must not be negative")
	}
	return nil
}

// LogLevel returns the parsed log level, info if unset or invalid.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// DBPath returns the SQLite database path.
func (c Config) DBPath() string {
	return c.resolve(c.Storage.DBFile)
}

// LogPath returns the log file path.
func (c Config) LogPath() string {
	return c.resolve(c.Log.File)
}

// HostKeyPath returns the SSH host key path.
func (c Config) HostKeyPath() string {
	return c.resolve(c.Server.HostKey)
}

// SlotDir returns the directory for file-backed save slots.
func (c Config) SlotDir() string {
	return filepath.Join(c.DataDir, "saves")
}

func (c Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// Overrides are command line values that take precedence over files and the
// environment. Empty fields leave the loaded value alone.
type Overrides struct {
	DataDir  string
	Backend  string
	LogLevel string
}

// Apply returns c with o applied, re-validated.
func (c Config) Apply(o Overrides) (Config, error) {
	if o.DataDir != "" {
		dir, err := expandHome(o.DataDir)
		if err != nil {
			return c, err
		}
		c.DataDir = dir
	}
	if o.Backend != "" {
		c.Storage.Backend = o.Backend
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	return c, c.Validate()
}
