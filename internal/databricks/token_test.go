package databricks

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func stubbedSource(t *testing.T, out string, err error) (*TokenSource, *[]string) {
	t.Helper()
	var calls []string
	src := NewTokenSource(slog.Default(), "https://example.cloud.databricks.com", "")
	src.runner = func(_ context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, name)
		calls = append(calls, args...)
		return []byte(out), err
	}
	return src, &calls
}

func TestToken(t *testing.T) {
	t.Parallel()

	src, calls := stubbedSource(t, `{"access_token":"abc123","token_type":"Bearer","expiry":"2026-01-02T15:04:05Z"}`, nil)
	tok, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "abc123" || tok.TokenType != "Bearer" {
		t.Fatalf("unexpected token: %#v", tok)
	}
	want := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	if !tok.Expiry.Equal(want) {
		t.Fatalf("unexpected expiry: %v", tok.Expiry)
	}

	got := *calls
	if len(got) != 5 || got[0] != "databricks" || got[1] != "auth" || got[2] != "token" || got[3] != "--host" {
		t.Fatalf("unexpected CLI invocation: %v", got)
	}
}

func TestTokenFreshPerCall(t *testing.T) {
	t.Parallel()

	src, calls := stubbedSource(t, `{"access_token":"abc123","expiry":"2026-01-02T15:04:05Z"}`, nil)
	for i := 0; i < 3; i++ {
		if _, err := src.Token(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := len(*calls) / 5; n != 3 {
		t.Fatalf("expected 3 CLI invocations, got %d", n)
	}
}

func TestTokenCLIFailure(t *testing.T) {
	t.Parallel()

	cliErr := errors.New("exit status 1")
	src, _ := stubbedSource(t, "", cliErr)
	if _, err := src.Token(context.Background()); !errors.Is(err, cliErr) {
		t.Fatalf("expected wrapped CLI error, got %v", err)
	}
}

func TestTokenBadOutput(t *testing.T) {
	t.Parallel()

	src, _ := stubbedSource(t, "not json", nil)
	if _, err := src.Token(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}

	src, _ = stubbedSource(t, `{}`, nil)
	if _, err := src.Token(context.Background()); err == nil {
		t.Fatalf("expected error for missing access_token, got nil")
	}
}

func TestTokenRequiresHost(t *testing.T) {
	t.Parallel()

	src := NewTokenSource(slog.Default(), "", "")
	if _, err := src.Token(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
