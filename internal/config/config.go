package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultServerURL = "http://127.0.0.1:8000"

// Config holds client settings persisted in ~/.pdfchat/config.yaml.
type Config struct {
	ServerURL string `yaml:"server_url"`
	Timeout   string `yaml:"timeout,omitempty"`   // request timeout, e.g. "60s"
	LogLevel  string `yaml:"log_level,omitempty"` // debug|info|warn|error
}

// Load reads the config file if present and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ServerURL: DefaultServerURL,
		Timeout:   "60s",
		LogLevel:  "info",
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if url := os.Getenv("PDFCHAT_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}
	if level := os.Getenv("PDFCHAT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("timeout %q: %w", c.Timeout, err)
		}
	}
	return nil
}

// RequestTimeout returns the parsed timeout; Validate has already
// checked it parses.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout == "" {
		return 60 * time.Second
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}
