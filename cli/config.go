package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/mwantia/assetdesk/session"
	"gopkg.in/yaml.v3"
)

// Config is the YAML file read by every assetdesk command. String values may
// reference environment variables as $NAME or ${NAME}.
type Config struct {
	Records string `yaml:"records"`
	Blobs   string `yaml:"blobs"`

	CDN CDNConfig `yaml:"cdn"`

	TypeFilter       string   `yaml:"type_filter"`
	Folders          []string `yaml:"folders"`
	DisplayWidth     int      `yaml:"display_width"`
	FetchConcurrency int      `yaml:"fetch_concurrency"`
	MaxEntrySize     int64    `yaml:"max_entry_size"`
	DownloadDir      string   `yaml:"download_dir"`

	Log   LogConfig      `yaml:"log"`
	Users []session.User `yaml:"users"`
}

type CDNConfig struct {
	URL     string `yaml:"url"`
	Project string `yaml:"project"`
	Dataset string `yaml:"dataset"`
	// Fetch downloads display payloads from the CDN instead of the blob backend.
	Fetch bool `yaml:"fetch"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	JSON       bool   `yaml:"json"`
	NoTerminal bool   `yaml:"no_terminal"`
}

func DefaultConfig() *Config {
	return &Config{
		Records:          ":memory:",
		DisplayWidth:     800,
		FetchConcurrency: 1,
		DownloadDir:      ".",
		MaxEntrySize:     64 << 20,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads path on top of DefaultConfig. A missing or empty file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.expandEnv()
	return cfg, cfg.Validate()
}

func (c *Config) expandEnv() {
	c.Records = os.ExpandEnv(c.Records)
	c.Blobs = os.ExpandEnv(c.Blobs)
	c.CDN.URL = os.ExpandEnv(c.CDN.URL)
	c.CDN.Project = os.ExpandEnv(c.CDN.Project)
	c.CDN.Dataset = os.ExpandEnv(c.CDN.Dataset)
	c.DownloadDir = os.ExpandEnv(c.DownloadDir)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

func (c *Config) Validate() error {
	if c.Records == "" {
		return fmt.Errorf("config: 'records' must name a store address")
	}
	if c.DisplayWidth <= 0 {
		return fmt.Errorf("config: 'display_width' must be positive, got %d", c.DisplayWidth)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("config: 'fetch_concurrency' must be at least 1, got %d", c.FetchConcurrency)
	}
	for i, user := range c.Users {
		if user.Email == "" || user.PasswordHash == "" {
			return fmt.Errorf("config: user %d needs 'email' and 'password_hash'", i)
		}
	}

	return nil
}
