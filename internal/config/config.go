// Package config loads bsplit configuration.
//
// Configuration comes from a single YAML file named by the --config flag,
// the BSPLIT_CONFIG environment variable, or the nearest bsplit.yaml above the
// working directory, in that order. Without any of them, defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keshon/bsplit/internal/chunk"
	"github.com/keshon/bsplit/internal/digest"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig   = "BSPLIT_CONFIG"
	DefaultRoot = ".bsplit"
	LedgerFile  = "sessions.db"
)

const DefaultLogLevel = "info"

var logLevels = []string{"debug", "info", "warn", "error"}

// Config is the bsplit configuration.
type Config struct {
	// Root holds one chunk directory per session plus the session ledger.
	Root string `yaml:"root"`

	// MaxChunkSize caps every chunk; larger requests are clamped.
	MaxChunkSize ByteSize `yaml:"max_chunk_size"`

	// ChunkSize is used when a command does not ask for one.
	ChunkSize ByteSize `yaml:"chunk_size"`

	// Hash names the digest algorithm (xxh3, blake3, sha256, md5).
	Hash string `yaml:"hash"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Root:         DefaultRoot,
		MaxChunkSize: ByteSize(chunk.DefaultMaxSize),
		ChunkSize:    ByteSize(chunk.DefaultMaxSize),
		Hash:         digest.Default,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads the file at path, falling back to BSPLIT_CONFIG, then to a
// discovered bsplit.yaml, then to Default.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = FindConfigFile()
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates a YAML config file. Unset keys keep their
// default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.Hash = strings.ToLower(strings.TrimSpace(cfg.Hash))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Root == "" {
		errs = append(errs, errors.New("root is required"))
	}
	if c.MaxChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("max_chunk_size must be positive, got %d", c.MaxChunkSize))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if _, err := digest.New(c.Hash); err != nil {
		errs = append(errs, fmt.Errorf("hash must be one of %v: %w", digest.Algorithms(), err))
	}
	if !contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of %v, got %q", logLevels, c.LogLevel))
	}

	return errors.Join(errs...)
}

// LedgerPath is the session ledger database file.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Root, LedgerFile)
}

// SessionDir is the chunk directory of one session.
func (c *Config) SessionDir(id string) string {
	return filepath.Join(c.Root, id)
}

func contains(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}
