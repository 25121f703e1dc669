package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseURLEnv fills Config.DatabaseURL when the file leaves it empty.
const DatabaseURLEnv = "CHECKRESOURCES_DATABASE_URL"

// Default returns the built-in configuration: lint --check UnusedResources,
// matching lines tagged [UnusedResources], no timeout.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a configuration from the given YAML file path.
// After parsing, it fills any unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the first
// one found. Search order: ./checkresources.yaml, ~/.checkresources/config.yaml.
// With no file present it returns Default().
func LoadDefault() (*Config, error) {
	candidates := []string{"checkresources.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".checkresources", "config.yaml"))
	}

	for _, path := range candidates {
		_, err := os.Stat(path)
		if err == nil {
			return Load(path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	return Default(), nil
}

// TimeoutDuration parses Timeout. An empty value yields zero (no timeout).
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}

func applyDefaults(cfg *Config) {
	if cfg.Tool == "" {
		cfg.Tool = "lint"
	}
	if cfg.Check == "" {
		cfg.Check = "UnusedResources"
	}
	if cfg.Marker == "" {
		cfg.Marker = "[" + cfg.Check + "]"
	}
	if cfg.Parser == "" {
		cfg.Parser = "marker"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv(DatabaseURLEnv)
	}
}
