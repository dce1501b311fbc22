// Package config loads the indexing run configuration and discovers the
// C++ sources it covers.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the indexing run configuration.
type Config struct {
	// Database is the output graph database path.
	Database string `yaml:"database"`

	// Paths are the directories walked for C++ sources.
	Paths []string `yaml:"paths"`

	// Files are explicit source files indexed as given, in order, before any
	// discovered paths.
	Files []string `yaml:"files"`

	// Ignore holds extra directory patterns skipped during discovery.
	Ignore []string `yaml:"ignore"`

	// Flags are the compile flags of the indexed sources, carried as run
	// metadata. The tree-sitter front end does not preprocess, so they do not
	// affect parsing.
	Flags []string `yaml:"flags"`

	// Workers is the parse worker count; 0 means one per CPU.
	Workers int `yaml:"workers"`

	// BatchSize overrides the write batch threshold; 0 keeps the default.
	BatchSize int `yaml:"batch_size"`

	// CommitEvery overrides the per-transaction operation bound; 0 keeps the
	// default.
	CommitEvery int `yaml:"commit_every"`
}

// Load reads a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration is runnable.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path is required")
	}
	if len(c.Paths) == 0 && len(c.Files) == 0 {
		return fmt.Errorf("at least one of paths or files is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	return nil
}
