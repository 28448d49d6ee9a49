// Package databricks fetches OAuth bearer tokens from the Databricks CLI.
package databricks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// commandRunner executes the CLI invocation and returns its stdout.
// Injectable for tests.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// cliToken is the JSON shape emitted by `databricks auth token`.
type cliToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expiry      time.Time `json:"expiry"`
}

// TokenSource obtains a fresh bearer token per call by invoking the
// Databricks CLI. Tokens are never cached or refreshed proactively; every
// call is one CLI round trip.
type TokenSource struct {
	host    string
	cliPath string
	runner  commandRunner
	logger  *slog.Logger
}

// NewTokenSource creates a token source for the given workspace host.
// cliPath defaults to "databricks" on PATH when empty.
func NewTokenSource(log *slog.Logger, host, cliPath string) *TokenSource {
	if cliPath == "" {
		cliPath = "databricks"
	}
	return &TokenSource{
		host:    host,
		cliPath: cliPath,
		runner:  runCommand,
		logger:  log.With(slog.String("component", "databricks")),
	}
}

// Token runs `databricks auth token --host <host>` and parses the result.
// One attempt only; retries and timeouts belong to the CLI and the caller's
// context.
func (s *TokenSource) Token(ctx context.Context) (*oauth2.Token, error) {
	if strings.TrimSpace(s.host) == "" {
		return nil, fmt.Errorf("databricks host is required")
	}

	out, err := s.runner(ctx, s.cliPath, "auth", "token", "--host", s.host)
	if err != nil {
		return nil, fmt.Errorf("databricks auth token: %w", err)
	}

	var tok cliToken
	if err := json.Unmarshal(out, &tok); err != nil {
		return nil, fmt.Errorf("parse databricks token output: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("databricks token output missing access_token")
	}

	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	s.logger.Debug("token fetched", slog.Time("expiry", tok.Expiry))

	return &oauth2.Token{
		AccessToken: tok.AccessToken,
		TokenType:   tokenType,
		Expiry:      tok.Expiry,
	}, nil
}
