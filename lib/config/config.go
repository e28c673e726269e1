// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the compiler.
//
// Configuration is loaded from a single file specified by:
//   - NANOC_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures deterministic,
// auditable configuration with no hidden overrides.
//
// The only expansion performed on path fields is ${VAR} and
// ${VAR:-default}, resolved against ${NANOC_ROOT}, ${HOME}, and the
// environment. Environment variables never override config values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for a compilation run.
type Config struct {
	// Paths configures directory and state-file locations.
	Paths PathsConfig `yaml:"paths"`

	// Cache configures the compiled-content cache.
	Cache CacheConfig `yaml:"cache"`

	// Filters configures defaults for the built-in filters.
	Filters FiltersConfig `yaml:"filters"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for compiler state. Other paths may
	// reference it as ${NANOC_ROOT}.
	Root string `yaml:"root"`

	// Output is where compiled representations are written.
	Output string `yaml:"output"`

	// Temp is where binary filter outputs are staged.
	Temp string `yaml:"temp"`

	// Cache is where the compiled-content cache lives.
	Cache string `yaml:"cache"`

	// Checksums is the checksum store file.
	Checksums string `yaml:"checksums"`
}

// CacheConfig configures the compiled-content cache.
type CacheConfig struct {
	// Enabled controls whether snapshot content is persisted across
	// runs. Default: true.
	Enabled bool `yaml:"enabled"`
}

// FiltersConfig configures defaults for the built-in filters.
// Per-call filter arguments override these.
type FiltersConfig struct {
	// HighlightStyle is the default chroma style for the highlight
	// filter. Default: github.
	HighlightStyle string `yaml:"highlight_style"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	defaultRoot := filepath.Join(".", "tmp", "nanoc")

	return &Config{
		Paths: PathsConfig{
			Root:      defaultRoot,
			Output:    "output",
			Temp:      filepath.Join(defaultRoot, "binary_content"),
			Cache:     filepath.Join(defaultRoot, "compiled_content"),
			Checksums: filepath.Join(defaultRoot, "checksums"),
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Filters: FiltersConfig{
			HighlightStyle: "github",
		},
	}
}

// Load loads configuration from the NANOC_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if NANOC_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("NANOC_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("NANOC_CONFIG environment variable not set; " +
			"set it to the path of your nanoc.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables do not
// override config values. The only expansion performed is ${HOME} and similar
// path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"NANOC_ROOT": c.Paths.Root,
		"HOME":       os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["NANOC_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.Output = expandVars(c.Paths.Output, vars)
	c.Paths.Temp = expandVars(c.Paths.Temp, vars)
	c.Paths.Cache = expandVars(c.Paths.Cache, vars)
	c.Paths.Checksums = expandVars(c.Paths.Checksums, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}
	if c.Paths.Output == "" {
		errs = append(errs, fmt.Errorf("paths.output is required"))
	}
	if c.Paths.Temp == "" {
		errs = append(errs, fmt.Errorf("paths.temp is required"))
	}
	if c.Cache.Enabled && c.Paths.Cache == "" {
		errs = append(errs, fmt.Errorf("paths.cache is required when the cache is enabled"))
	}
	if c.Filters.HighlightStyle == "" {
		errs = append(errs, fmt.Errorf("filters.highlight_style is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates all configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.Root,
		c.Paths.Output,
		c.Paths.Temp,
		c.Paths.Cache,
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}
