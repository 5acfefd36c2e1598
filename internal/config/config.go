// Package config defines the AirGap configuration: allowed roots, blocked
// patterns, and the per-operation resource budgets. A Config is validated
// once at load time and treated as immutable afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all AirGap settings. Empty allowed_roots means deny-by-default:
// every access is refused rather than any being granted.
type Config struct {
	AllowedRoots []string `yaml:"allowed_roots"`

	MaxFileSizeBytes int `yaml:"max_file_size_bytes"`
	MaxResponseBytes int `yaml:"max_response_bytes"`
	MaxResults       int `yaml:"max_results"`
	MaxFilesScanned  int `yaml:"max_files_scanned"`

	TimeoutSeconds float64 `yaml:"timeout_seconds"`

	AuditLogPath       string `yaml:"audit_log_path"`
	RedactPathsInAudit bool   `yaml:"redact_paths_in_audit"`

	BlockedPatterns []string `yaml:"blocked_patterns"`
}

// Default returns the built-in configuration with safe limits and the
// default blocked-pattern set. No roots are allowed by default.
func Default() *Config {
	return &Config{
		MaxFileSizeBytes:   1 << 20,  // 1 MiB
		MaxResponseBytes:   512 << 10, // 512 KiB
		MaxResults:         100,
		MaxFilesScanned:    10000,
		TimeoutSeconds:     30,
		RedactPathsInAudit: true,
		BlockedPatterns:    append([]string{}, DefaultBlockedPatterns...),
	}
}

// Load reads configuration from a YAML file. Empty path falls back to
// ~/.airgap/config.yaml. Missing file returns defaults. Invalid YAML or
// invalid limits return an error.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(home, ".airgap", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on non-positive limits so that misconfiguration
// surfaces at construction, never mid-operation.
func (c *Config) Validate() error {
	if c.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("config: max_file_size_bytes must be positive, got %d", c.MaxFileSizeBytes)
	}
	if c.MaxResponseBytes <= 0 {
		return fmt.Errorf("config: max_response_bytes must be positive, got %d", c.MaxResponseBytes)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("config: max_results must be positive, got %d", c.MaxResults)
	}
	if c.MaxFilesScanned <= 0 {
		return fmt.Errorf("config: max_files_scanned must be positive, got %d", c.MaxFilesScanned)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive, got %v", c.TimeoutSeconds)
	}
	return nil
}

// Timeout returns the search budget as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}
