// Package config loads optional run defaults from a YAML file.
// Command-line flags override anything set here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds run defaults.
type Config struct {
	ResultsDir  string  `yaml:"results_dir"`
	Utilization float64 `yaml:"utilization"`
	Format      string  `yaml:"format"`
	MetricsAddr string  `yaml:"metrics_addr"`
	PushGateway string  `yaml:"push_gateway"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		ResultsDir:  "results",
		Utilization: 1.0,
		Format:      "text",
	}
}

// Load reads a YAML config file, layering it over the defaults.
// An empty path returns the defaults; a path that cannot be read or
// parsed is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
