// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath = "config.toml"
	DefaultHTTPAddr   = ":8080"

	// DefaultAPIKey is a deliberately insecure placeholder used when no
	// API key is configured. Startup warns whenever it is in effect.
	DefaultAPIKey = "my-secret-key"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Server     ServerConfig     `toml:"server"`
	API        APIConfig        `toml:"api"`
	Slack      SlackConfig      `toml:"slack"`
	Bot        BotConfig        `toml:"bot"`
	Databricks DatabricksConfig `toml:"databricks"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// APIConfig holds the sqrt route's API-key settings.
type APIConfig struct {
	// Key is the shared secret checked against the X-API-Key header.
	Key string `toml:"key"`
	// AuthRequired guards /sqrt with the API-key check when true.
	AuthRequired bool `toml:"auth_required"`
}

// SlackConfig holds the Slack credentials and the channel filter.
type SlackConfig struct {
	BotToken string `toml:"bot_token"`
	AppToken string `toml:"app_token"`
	// AllowedChannel restricts replies to the channel with this display
	// name. Empty means reply in any channel.
	AllowedChannel string `toml:"allowed_channel"`
}

// BotConfig selects how the bot computes square roots.
type BotConfig struct {
	// ComputeMode is "local" (in-process) or "remote" (call the HTTP API
	// with a bearer token fetched per call).
	ComputeMode string `toml:"compute_mode"`
	// APIBaseURL is the sqrt API base URL for remote mode.
	APIBaseURL string `toml:"api_base_url"`
}

// DatabricksConfig holds the credential helper settings for remote mode.
type DatabricksConfig struct {
	Host string `toml:"host"`
	// CLIPath is the databricks CLI binary; defaults to "databricks" on PATH.
	CLIPath string `toml:"cli_path"`
}

// Load reads and parses the TOML config file at path and applies default
// values for missing fields. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Bot: BotConfig{
			ComputeMode: "local",
		},
		Databricks: DatabricksConfig{
			CLIPath: "databricks",
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
