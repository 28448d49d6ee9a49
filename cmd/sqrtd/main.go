// sqrtd serves the square root HTTP API and, when Slack tokens are
// configured, runs the Slack bot alongside it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/maad-zach/sqrt-api/internal/boot"
	"github.com/maad-zach/sqrt-api/internal/config"
	"github.com/maad-zach/sqrt-api/internal/databricks"
	"github.com/maad-zach/sqrt-api/internal/handlers"
	"github.com/maad-zach/sqrt-api/internal/logger"
	"github.com/maad-zach/sqrt-api/internal/server"
	"github.com/maad-zach/sqrt-api/internal/slackbot"
	"github.com/maad-zach/sqrt-api/internal/sqrtclient"
	"github.com/maad-zach/sqrt-api/internal/version"
)

func provideConfig() (config.Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideComputer(rc *boot.RuntimeConfig, log *slog.Logger) slackbot.Computer {
	if rc.ComputeMode == "remote" {
		var tokens sqrtclient.TokenSource
		if rc.DatabricksHost != "" {
			tokens = databricks.NewTokenSource(log, rc.DatabricksHost, rc.DatabricksCLI)
		}
		return sqrtclient.NewClient(log, rc.APIBaseURL, tokens)
	}
	return slackbot.LocalComputer{}
}

func provideBot(rc *boot.RuntimeConfig, log *slog.Logger, computer slackbot.Computer) *slackbot.Bot {
	if !rc.SlackEnabled() {
		return nil
	}
	return slackbot.New(log, slackbot.Config{
		BotToken:       rc.SlackBotToken,
		AppToken:       rc.SlackAppToken,
		AllowedChannel: rc.AllowedChannel,
	}, computer)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	RuntimeConfig  *boot.RuntimeConfig
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.RuntimeConfig.ServerAddr, params.ServerHandlers...)
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideSqrtHandler(rc *boot.RuntimeConfig, log *slog.Logger) *handlers.SqrtHandler {
	return handlers.NewSqrtHandler(log, rc.APIKey, rc.APIAuth)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting sqrt-api %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

func startBot(lc fx.Lifecycle, log *slog.Logger, bot *slackbot.Bot) {
	if bot == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting Slack bot")
			go func() {
				if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("slack bot stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			boot.ProvideRuntimeConfig,

			provideComputer,
			provideBot,

			provideServerHandler(provideSqrtHandler),
			provideServer,
		),
		fx.Invoke(
			startBot,
			startServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}
