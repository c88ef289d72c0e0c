package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	AppName    = "Shellhost"
	AppID      = "org.shellhost.desktop"
	AppVersion = "1.0.0"

	DefaultAddr             = "127.0.0.1:3917"
	DefaultFallbackLanguage = "en-US"
)

// Config is the host configuration. Zero values are replaced by defaults.
type Config struct {
	AppName          string `toml:"app_name"`
	AppID            string `toml:"app_id"`
	Version          string `toml:"version"`
	Language         string `toml:"language"`
	FallbackLanguage string `toml:"fallback_language"`
	Dev              bool   `toml:"dev"`
	LogLevel         string `toml:"log_level"`
	JSONLogs         bool   `toml:"json_logs"`
	Addr             string `toml:"addr"`
	Platform         string `toml:"platform"`
	LocalesDir       string `toml:"locales_dir"`
	WebsiteURL       string `toml:"website_url"`
	RepoURL          string `toml:"repo_url"`
}

func Default() Config {
	return Config{
		AppName:          AppName,
		AppID:            AppID,
		Version:          AppVersion,
		FallbackLanguage: DefaultFallbackLanguage,
		LogLevel:         "info",
		Addr:             DefaultAddr,
		Platform:         "auto",
		WebsiteURL:       "https://shellhost.org",
		RepoURL:          "https://github.com/shellhost/shellhost",
	}
}

// Production turns off developer affordances and switches to JSON logs.
func Production() Config {
	c := Default()
	c.LogLevel = "warn"
	c.JSONLogs = true
	return c
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if os.Getenv("SHELLHOST_PRODUCTION") == "true" {
		cfg = Production()
	}

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}

	applyEnv(&cfg, os.Getenv)
	cfg.fillDefaults()
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("SHELLHOST_LANG"); v != "" {
		cfg.Language = v
	}
	if v := getenv("SHELLHOST_FALLBACK_LANG"); v != "" {
		cfg.FallbackLanguage = v
	}
	if v, ok := parseBool(getenv("SHELLHOST_DEV")); ok {
		cfg.Dev = v
	}
	if v := getenv("SHELLHOST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := parseBool(getenv("SHELLHOST_JSON_LOGS")); ok {
		cfg.JSONLogs = v
	}
	if v := getenv("SHELLHOST_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("SHELLHOST_PLATFORM"); v != "" {
		cfg.Platform = v
	}
	if v := getenv("SHELLHOST_LOCALES_DIR"); v != "" {
		cfg.LocalesDir = v
	}
}

func parseBool(s string) (bool, bool) {
	if s == "" {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return b, true
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.AppName == "" {
		c.AppName = d.AppName
	}
	if c.AppID == "" {
		c.AppID = d.AppID
	}
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.FallbackLanguage == "" {
		c.FallbackLanguage = d.FallbackLanguage
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Platform == "" {
		c.Platform = d.Platform
	}
}
