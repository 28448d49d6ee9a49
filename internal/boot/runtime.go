// Package boot resolves runtime configuration for the sqrt service.
package boot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/maad-zach/sqrt-api/internal/config"
)

// RuntimeConfig holds the settings the running process actually uses,
// after environment overrides have been applied.
type RuntimeConfig struct {
	ServerAddr     string
	APIKey         string
	APIKeyInsecure bool
	APIAuth        bool

	SlackBotToken  string
	SlackAppToken  string
	AllowedChannel string

	ComputeMode    string
	APIBaseURL     string
	DatabricksHost string
	DatabricksCLI  string
}

// envOverrides are the environment variables recognized at startup.
// They take precedence over the TOML file.
type envOverrides struct {
	SlackBotToken string `envconfig:"SLACK_BOT_TOKEN"`
	SlackAppToken string `envconfig:"SLACK_APP_TOKEN"`
	APIKey        string `envconfig:"API_KEY"`
	HTTPAddr      string `envconfig:"HTTP_ADDR"`
}

// SlackEnabled reports whether both Slack tokens are configured.
func (c *RuntimeConfig) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackAppToken != ""
}

// ProvideRuntimeConfig builds RuntimeConfig from the given config and
// applies env overrides. When no API key is configured anywhere, the
// insecure placeholder secret is used and flagged for the caller to warn
// about.
func ProvideRuntimeConfig(cfg config.Config, log *slog.Logger) (*RuntimeConfig, error) {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	ret := &RuntimeConfig{
		ServerAddr:     cfg.Server.Addr,
		APIKey:         strings.TrimSpace(cfg.API.Key),
		APIAuth:        cfg.API.AuthRequired,
		SlackBotToken:  strings.TrimSpace(cfg.Slack.BotToken),
		SlackAppToken:  strings.TrimSpace(cfg.Slack.AppToken),
		AllowedChannel: strings.TrimSpace(cfg.Slack.AllowedChannel),
		ComputeMode:    strings.ToLower(strings.TrimSpace(cfg.Bot.ComputeMode)),
		APIBaseURL:     strings.TrimRight(strings.TrimSpace(cfg.Bot.APIBaseURL), "/"),
		DatabricksHost: strings.TrimSpace(cfg.Databricks.Host),
		DatabricksCLI:  cfg.Databricks.CLIPath,
	}

	if env.HTTPAddr != "" {
		ret.ServerAddr = env.HTTPAddr
	}
	if env.SlackBotToken != "" {
		ret.SlackBotToken = env.SlackBotToken
	}
	if env.SlackAppToken != "" {
		ret.SlackAppToken = env.SlackAppToken
	}
	if env.APIKey != "" {
		ret.APIKey = env.APIKey
	}

	if ret.ComputeMode == "" {
		ret.ComputeMode = "local"
	}
	if ret.ComputeMode != "local" && ret.ComputeMode != "remote" {
		return nil, fmt.Errorf("invalid compute mode %q (want local or remote)", ret.ComputeMode)
	}
	if ret.ComputeMode == "remote" && ret.APIBaseURL == "" {
		return nil, fmt.Errorf("remote compute mode requires bot.api_base_url")
	}

	if ret.APIKey == "" {
		ret.APIKey = config.DefaultAPIKey
		ret.APIKeyInsecure = true
		if ret.APIAuth {
			log.Warn("API_KEY not set; falling back to the insecure placeholder secret")
		}
	}

	if !ret.SlackEnabled() {
		log.Warn("Slack tokens not configured, bot disabled",
			slog.Bool("bot_token_set", ret.SlackBotToken != ""),
			slog.Bool("app_token_set", ret.SlackAppToken != ""),
		)
	}

	return ret, nil
}
