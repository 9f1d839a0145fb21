package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".userscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .userscan configuration file.
// It provides defaults for the scan flags; explicit flags always win.
type File struct {
	// Catalog is the default catalog path.
	Catalog string `yaml:"catalog,omitempty"`

	// Concurrency is the default task concurrency limit.
	Concurrency int `yaml:"concurrency,omitempty"`

	// ConnLimit is the default connection-pool ceiling.
	ConnLimit int `yaml:"connLimit,omitempty"`

	// Timeout is the default per-request timeout, as a duration string
	// (e.g. "10s"). YAML has no native duration type.
	Timeout string `yaml:"timeout,omitempty"`

	// Proxy is the default proxy endpoint.
	Proxy string `yaml:"proxy,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Strict disables the unreliable-site downgrade by default.
	Strict bool `yaml:"strict,omitempty"`

	// IncludeSkipped probes disabled sites by default.
	IncludeSkipped bool `yaml:"includeSkipped,omitempty"`
}

// LoadConfigFile loads scan defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q in %s", cf.Timeout, path)
		}
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file:
//  1. the explicit path, when specified
//  2. .userscan in the current directory
//  3. .userscan in the user's home directory
//
// Returns the path if found, or empty string otherwise.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies the file's non-zero defaults onto the config.
// Values already changed by flags should be re-applied by the caller
// afterwards; Apply itself overwrites unconditionally where set.
func (f *File) Apply(cfg *Config) {
	if f.Catalog != "" {
		cfg.CatalogPath = f.Catalog
	}
	if f.Concurrency > 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.ConnLimit > 0 {
		cfg.ConnLimit = f.ConnLimit
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if f.Proxy != "" {
		cfg.Proxy = f.Proxy
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Strict {
		cfg.Strict = true
	}
	if f.IncludeSkipped {
		cfg.IncludeSkipped = true
	}
}
