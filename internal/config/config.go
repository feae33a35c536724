package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/onboard/internal/backend"
	"github.com/alexanderramin/onboard/internal/domain"
)

// Config is the onboard client configuration.
type Config struct {
	API           APIConfig `yaml:"api"`
	AutoAdvanceMs int       `yaml:"auto_advance_ms"`
	HandoffURL    string    `yaml:"handoff_url"`
	DBPath        string    `yaml:"db_path"`
	Log           LogConfig `yaml:"log"`
}

type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	LogCalls  bool   `yaml:"log_calls"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // development, production or off
	File string `yaml:"file"`
}

// Dir returns ~/.onboard, or ./.onboard when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".onboard"
	}
	return filepath.Join(home, ".onboard")
}

// DefaultPath is the config file location: ONBOARD_CONFIG or
// ~/.onboard/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("ONBOARD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	api := backend.DefaultConfig()
	dir := Dir()
	return &Config{
		API: APIConfig{
			BaseURL:   api.BaseURL,
			TimeoutMs: api.TimeoutMs,
			LogCalls:  api.LogCalls,
		},
		AutoAdvanceMs: 1000,
		HandoffURL:    "https://app.yolearn.ai",
		DBPath:        filepath.Join(dir, "onboard.db"),
		Log: LogConfig{
			Mode: "development",
			File: filepath.Join(dir, "onboard.log"),
		},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ONBOARD_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("ONBOARD_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutMs = n
		}
	}
	if v := os.Getenv("ONBOARD_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.API.LogCalls = b
		}
	}
	if v := os.Getenv("ONBOARD_AUTO_ADVANCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.AutoAdvanceMs = n
		}
	}
	if v := os.Getenv("ONBOARD_HANDOFF_URL"); v != "" {
		c.HandoffURL = v
	}
	if v := os.Getenv("ONBOARD_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("ONBOARD_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := os.Getenv("ONBOARD_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.TimeoutMs <= 0 {
		return fmt.Errorf("api.timeout_ms must be positive, got %d", c.API.TimeoutMs)
	}
	if c.AutoAdvanceMs < 0 {
		return fmt.Errorf("auto_advance_ms must not be negative, got %d", c.AutoAdvanceMs)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	return nil
}

// Backend returns the backend client settings.
func (c *Config) Backend() backend.Config {
	return backend.Config{
		BaseURL:   c.API.BaseURL,
		TimeoutMs: c.API.TimeoutMs,
		LogCalls:  c.API.LogCalls,
	}
}

// AutoAdvance is the delay before a single-select answer is submitted.
func (c *Config) AutoAdvance() time.Duration {
	return time.Duration(c.AutoAdvanceMs) * time.Millisecond
}

// HandoffFor returns the dashboard URL a user of type t continues to.
func (c *Config) HandoffFor(t domain.UserType) string {
	return strings.TrimRight(c.HandoffURL, "/") + "/" + string(t)
}
