package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the inspector settings that may come from a YAML file.
// Command-line flags override them.
type Config struct {
	Verbose   bool   `yaml:"verbose"`
	NoColor   bool   `yaml:"no_color"`
	Hex       bool   `yaml:"hex"`        // input file is a hex dump
	Steps     int    `yaml:"steps"`      // 0 walks one full cycle of the script
	MaxDepth  int    `yaml:"max_depth"`  // 0 = unlimited
	LogPrefix string `yaml:"log_prefix"` // empty uses the logger default
}

// Load reads path into a Config. An empty path yields the zero Config.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Steps < 0 || cfg.MaxDepth < 0 {
		return cfg, fmt.Errorf("config %s: steps and max_depth must not be negative", path)
	}

	return cfg, nil
}
