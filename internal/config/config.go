// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gateway  string `yaml:"gateway"`
	Token    string `yaml:"token"`
	Project  int64  `yaml:"project"`
	Mode     string `yaml:"mode"`
	LogLevel string `yaml:"log_level"`

	Polling struct {
		Enabled  bool `yaml:"enabled"`
		Interval int  `yaml:"interval_seconds"`
	} `yaml:"polling"`

	Editor struct {
		Interfaces []string `yaml:"interfaces"`
		Toolbar    string   `yaml:"toolbar"`
	} `yaml:"editor"`

	Comments struct {
		Drafts bool `yaml:"drafts"`
	} `yaml:"comments"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Mode = "explore"
	cfg.LogLevel = "info"
	cfg.Polling.Interval = 30

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if gw := os.Getenv("DM_GATEWAY"); gw != "" {
		cfg.Gateway = gw
	}
	if token := os.Getenv("DM_TOKEN"); token != "" {
		cfg.Token = token
	}
	if project := os.Getenv("DM_PROJECT"); project != "" {
		if id, err := strconv.ParseInt(project, 10, 64); err == nil {
			cfg.Project = id
		}
	}
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}

	return cfg, nil
}

// Save writes the config atomically, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
