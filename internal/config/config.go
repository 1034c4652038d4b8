// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Default values.
const (
	DefaultStorage  = StorageFile
	DefaultDataDir  = "."
	DefaultKey      = "todos"
	DefaultTheme    = "classic"
	DefaultLogFile  = "~/.todo/todo.log"
	DefaultLogLevel = "info"

	UserConfigFile    = "~/.todo/config.toml"
	ProjectConfigFile = ".todo.toml"
)

// Config holds the full configuration for todo.
type Config struct {
	// Storage backend: "file" (one JSON file per key) or "sqlite".
	Storage string `toml:"storage"`
	// DataDir holds todos.json or todos.db.
	DataDir string `toml:"data_dir"`
	// Key is the storage key the list is kept under.
	Key string `toml:"key"`

	Theme string `toml:"theme"`

	// LogFile receives structured logs; empty disables logging.
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage:  DefaultStorage,
		DataDir:  DefaultDataDir,
		Key:      DefaultKey,
		Theme:    DefaultTheme,
		LogFile:  DefaultLogFile,
		LogLevel: DefaultLogLevel,
	}
}

// Load builds the configuration in order of precedence:
//  1. Defaults
//  2. User config file (~/.todo/config.toml)
//  3. Project config file (.todo.toml in the working directory)
//  4. Environment variables (TODO_*)
//
// When explicit is non-empty it replaces both config files and must exist.
// Flags are applied by the caller afterwards.
func Load(explicit string) (*Config, error) {
	cfg := Default()

	if explicit != "" {
		if err := loadFile(cfg, expandPath(explicit)); err != nil {
			return nil, err
		}
	} else {
		for _, p := range []string{expandPath(UserConfigFile), ProjectConfigFile} {
			if err := loadFile(cfg, p); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	ApplyEnv(cfg, os.LookupEnv)
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from TODO_* variables read through lookup.
// A variable that is set but empty clears the field, as an empty value in a
// config file does; TODO_LOG_FILE= turns logging off.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	for name, field := range map[string]*string{
		"TODO_STORAGE":   &cfg.Storage,
		"TODO_DATA_DIR":  &cfg.DataDir,
		"TODO_KEY":       &cfg.Key,
		"TODO_THEME":     &cfg.Theme,
		"TODO_LOG_FILE":  &cfg.LogFile,
		"TODO_LOG_LEVEL": &cfg.LogLevel,
	} {
		if v, ok := lookup(name); ok {
			*field = v
		}
	}
}

// Finalize normalizes values, expands paths and validates the result.
func (c *Config) Finalize() error {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	c.Key = strings.TrimSpace(c.Key)
	c.DataDir = expandPath(c.DataDir)
	c.LogFile = expandPath(c.LogFile)

	switch c.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageFile, StorageSQLite)
	}
	if c.Key == "" {
		return errors.New("storage key is empty")
	}
	if strings.ContainsAny(c.Key, `/\`) {
		return fmt.Errorf("storage key %q must not contain path separators", c.Key)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	return nil
}

// expandPath expands ~/ and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") ||
		(runtime.GOOS == "windows" && strings.HasPrefix(expanded, `~\`)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		if expanded == "~" {
			return home
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}
