// Package config handles the YAML configuration file with environment
// overrides. Command-line flags are applied on top by cmd.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/rostercard/core"
	"github.com/gaurav-prasanna/rostercard/core/roster"
)

// Config holds all rostercard configuration.
type Config struct {
	Institution string `yaml:"institution"`
	Course      string `yaml:"course"` // org context; empty means use the detected course
	Title       string `yaml:"title"` // "" writes no TITLE line

	// Columns replaces the header labels of the columns it names. Columns
	// left out keep their built-in labels.
	Columns roster.Columns `yaml:"columns"`
}

// DefaultTitle is the vCard TITLE written when neither the config nor a
// flag sets one.
const DefaultTitle = "Student"

// DefaultConfig returns a Config with the default title, no course or
// institution, and the built-in column labels.
func DefaultConfig() Config {
	return Config{Title: DefaultTitle}
}

// Load reads the YAML config file at path.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if err := c.RosterColumns().Validate(); err != nil {
		return fmt.Errorf("config: columns: %w", err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ROSTERCARD_COURSE, ROSTERCARD_INSTITUTION, ROSTERCARD_TITLE.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ROSTERCARD_COURSE"); v != "" {
		c.Course = v
	}
	if v := os.Getenv("ROSTERCARD_INSTITUTION"); v != "" {
		c.Institution = v
	}
	if v := os.Getenv("ROSTERCARD_TITLE"); v != "" {
		c.Title = v
	}
}

// RosterColumns returns the built-in column labels with the configured
// overrides applied.
func (c *Config) RosterColumns() roster.Columns {
	return roster.DefaultColumns().Merge(c.Columns)
}

// RunContext returns the per-run values copied onto every record.
func (c *Config) RunContext() core.RunContext {
	return core.RunContext{
		OrgContext:  c.Course,
		Institution: c.Institution,
		Title:       c.Title,
	}
}
