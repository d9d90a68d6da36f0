package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level dynexpr.yaml configuration.
type Config struct {
	// StableAssemblies lists additional assembly names whose types may be
	// kept in the delegate-type cache forever. The core library and this
	// library are always stable.
	StableAssemblies []string `yaml:"stable_assemblies,omitempty"`

	// SynthesizedAssembly is the name given to the dynamic assembly that
	// holds synthesized delegate types. Defaults to SynthesizedAssemblyName.
	SynthesizedAssembly string `yaml:"synthesized_assembly,omitempty"`

	// Cache controls the process-wide delegate-type cache.
	Cache CacheConfig `yaml:"cache"`

	// Verbose enables [delegates] diagnostics on stderr.
	Verbose bool `yaml:"verbose,omitempty"`
}

// CacheConfig configures the delegate-type cache.
type CacheConfig struct {
	// Enabled turns the cache on. A nil value means "default" (on).
	Enabled *bool `yaml:"enabled,omitempty"`
}

// CacheEnabled reports whether the delegate-type cache should be used.
func (c *Config) CacheEnabled() bool {
	if c == nil || c.Cache.Enabled == nil {
		return true
	}
	return *c.Cache.Enabled
}

// Default returns the configuration used when no dynexpr.yaml is present.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a dynexpr.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses dynexpr.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for dynexpr.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file, or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	seen := make(map[string]int)
	for i, name := range c.StableAssemblies {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s: stable_assemblies[%d]: name is empty", path, i)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%s: stable_assemblies[%d]: %q already listed at index %d", path, i, name, prev)
		}
		seen[name] = i
	}
	if c.SynthesizedAssembly != "" {
		if c.SynthesizedAssembly == CoreLibAssemblyName || c.SynthesizedAssembly == ExprLibAssemblyName {
			return fmt.Errorf("%s: synthesized_assembly %q collides with a built-in assembly", path, c.SynthesizedAssembly)
		}
		if _, ok := seen[c.SynthesizedAssembly]; ok {
			return fmt.Errorf("%s: synthesized_assembly %q cannot be listed as stable", path, c.SynthesizedAssembly)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.SynthesizedAssembly == "" {
		c.SynthesizedAssembly = SynthesizedAssemblyName
	}
}
