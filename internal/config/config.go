package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// ConfigFile is the optional per-project configuration file name.
const ConfigFile = ".depflip.yaml"

// Defaults matching the conventional CI setup.
const (
	DefaultManifest   = "Cargo.toml"
	DefaultDependency = "nucypher-core"
)

// DependencyConfig names the dependency declaration to toggle.
type DependencyConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path,omitempty"`
}

// Config is the main configuration structure for depflip.
type Config struct {
	Manifest   string           `yaml:"manifest"`
	Dependency DependencyConfig `yaml:"dependency,omitempty"`
}

// LoadConfigFn loads the configuration. It is a variable so tests can
// inject failures.
var LoadConfigFn = loadConfig

// Load resolves the effective configuration: env override, then
// .depflip.yaml, then defaults. Missing fields fall back to defaults.
func Load() (*Config, error) {
	cfg, err := LoadConfigFn()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func loadConfig() (*Config, error) {
	// Highest priority: ENV variable
	if envPath := os.Getenv("DEPFLIP_MANIFEST"); envPath != "" {
		cleanPath := filepath.Clean(envPath)
		// Reject relative paths with traversal (use absolute paths instead)
		if strings.Contains(cleanPath, "..") {
			return nil, fmt.Errorf("invalid DEPFLIP_MANIFEST: path traversal not allowed, use absolute path instead")
		}
		return &Config{Manifest: cleanPath}, nil
	}

	// Second priority: YAML file
	data, err := os.ReadFile(ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // fallback to defaults
		}
		return nil, err
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.Dependency.Name == "" {
		c.Dependency.Name = DefaultDependency
	}
	if c.Dependency.Path == "" {
		c.Dependency.Path = "../" + c.Dependency.Name
	}
}
