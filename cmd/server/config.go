package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration. Values come from defaults, then
// an optional YAML file, then explicit command-line flags, in that order
// of precedence.
type Config struct {
	Port           int    `yaml:"port"`
	ReadTimeout    string `yaml:"read_timeout"`
	WriteTimeout   string `yaml:"write_timeout"`
	MaxRequestSize int    `yaml:"max_request_size"`
	Concurrency    int    `yaml:"concurrency"`
	WarmUp         bool   `yaml:"warm_up"`
	LogFile        string `yaml:"log_file"`
	JSONLog        bool   `yaml:"json_log"`
}

// DefaultConfig returns the built-in server defaults.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		ReadTimeout:    "30s",
		WriteTimeout:   "30s",
		MaxRequestSize: 10 * 1024 * 1024, // 10MB
		Concurrency:    0,                // 0 means GOMAXPROCS
		WarmUp:         true,
		JSONLog:        true,
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.readTimeout(); err != nil {
		return cfg, fmt.Errorf("parse config: read_timeout: %w", err)
	}
	if _, err := cfg.writeTimeout(); err != nil {
		return cfg, fmt.Errorf("parse config: write_timeout: %w", err)
	}
	return cfg, nil
}

func (c Config) readTimeout() (time.Duration, error) {
	return time.ParseDuration(c.ReadTimeout)
}

func (c Config) writeTimeout() (time.Duration, error) {
	return time.ParseDuration(c.WriteTimeout)
}
