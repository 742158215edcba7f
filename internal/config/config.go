// Package config handles configuration for intelliwave.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/intelliwave/intelliwave/internal/models"
)

// HomeEnv relocates the configuration directory when set
const HomeEnv = "INTELLIWAVE_HOME"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// WebhookURL is the automation endpoint every message is posted to.
	WebhookURL string `json:"webhook_url"`
	// Source is sent alongside each message so the webhook can tell clients apart.
	Source string `json:"source"`
	// TimeoutSeconds bounds a single exchange at the transport level.
	TimeoutSeconds int    `json:"timeout_seconds"`
	LogLevel       string `json:"log_level"`
	// LogFile receives the chat TUI logs. Empty means <config dir>/intelliwave.log.
	LogFile         string         `json:"log_file,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// envOverrides lists the environment variables that win over the config file
type envOverrides struct {
	WebhookURL string      `env:"INTELLIWAVE_WEBHOOK_URL"`
	Source     string      `env:"INTELLIWAVE_SOURCE"`
	Timeout    envDuration `env:"INTELLIWAVE_TIMEOUT"`
	LogLevel   string      `env:"INTELLIWAVE_LOG_LEVEL"`
	LogFile    string      `env:"INTELLIWAVE_LOG_FILE"`
	TUITheme   string      `env:"INTELLIWAVE_THEME"`
}

// envDuration reads a timeout given either as bare seconds ("30") or as a Go
// duration ("90s", "1m30s")
type envDuration time.Duration

func (d *envDuration) UnmarshalText(text []byte) error {
	v := strings.TrimSpace(string(text))
	if seconds, err := strconv.Atoi(v); err == nil {
		*d = envDuration(time.Duration(seconds) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: use seconds or a duration such as 90s", v)
	}
	*d = envDuration(parsed)
	return nil
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		WebhookURL:      models.DefaultWebhookURL,
		Source:          models.DefaultSource,
		TimeoutSeconds:  60,
		LogLevel:        "info",
		CopyToClipboard: false,
		TUITheme:        "intelliwave",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the transport timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".intelliwave"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file used by the chat TUI
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "intelliwave.log"), nil
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" by default).
// Missing files are ignored; variables already set in the environment are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg, err := LoadFileConfig()
	if err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadFileConfig loads the configuration file only, without environment overrides.
// A missing file yields the defaults.
func LoadFileConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with INTELLIWAVE_* environment variables
func ApplyEnv(cfg *Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env config: %w", err)
	}

	if v := strings.TrimSpace(overrides.WebhookURL); v != "" {
		cfg.WebhookURL = v
	}
	if v := strings.TrimSpace(overrides.Source); v != "" {
		cfg.Source = v
	}
	if timeout := time.Duration(overrides.Timeout); timeout > 0 {
		cfg.TimeoutSeconds = int(timeout.Round(time.Second) / time.Second)
		if cfg.TimeoutSeconds == 0 {
			cfg.TimeoutSeconds = 1
		}
	}
	if v := strings.TrimSpace(overrides.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(overrides.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(overrides.TUITheme); v != "" {
		cfg.TUITheme = v
	}

	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the keys accepted by Set
func Keys() []string {
	return []string{
		"webhook_url",
		"source",
		"timeout_seconds",
		"log_level",
		"log_file",
		"copy_to_clipboard",
		"tui_theme",
		"markdown.style",
	}
}

// Set updates a single key of cfg from its string form
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "webhook_url":
		if err := ValidateWebhookURL(value); err != nil {
			return err
		}
		c.WebhookURL = value
	case "source":
		if value == "" {
			return fmt.Errorf("source cannot be empty")
		}
		c.Source = value
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer, got %q", value)
		}
		c.TimeoutSeconds = n
	case "log_level":
		if _, err := zerolog.ParseLevel(strings.ToLower(value)); err != nil || value == "" {
			return fmt.Errorf("invalid log level %q", value)
		}
		c.LogLevel = strings.ToLower(value)
	case "log_file":
		c.LogFile = value
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false, got %q", value)
		}
		c.CopyToClipboard = b
	case "tui_theme":
		c.TUITheme = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}

	return nil
}

// ValidateWebhookURL checks that raw is an absolute http(s) URL
func ValidateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid webhook URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid webhook URL %q: missing host", raw)
	}
	return nil
}
