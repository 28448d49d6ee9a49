package sqrtclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type countingTokens struct {
	calls atomic.Int64
}

func (c *countingTokens) Token(context.Context) (*oauth2.Token, error) {
	c.calls.Add(1)
	return &oauth2.Token{AccessToken: "tok-123", TokenType: "Bearer"}, nil
}

func TestSqrt(t *testing.T) {
	t.Parallel()

	var lastAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/sqrt/25.0":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"number": 25.0, "sqrt": 5.0}`))
		case "/sqrt/-4.0":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail": "Cannot compute square root of a negative number"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tokens := &countingTokens{}
	client := NewClient(slog.Default(), srv.URL, tokens)

	got, err := client.Sqrt(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
	assert.Equal(t, "Bearer tok-123", lastAuth.Load())

	_, err = client.Sqrt(context.Background(), -4)
	require.Error(t, err)
	assert.Equal(t, "Cannot compute square root of a negative number", err.Error())

	// one fresh token per call, success or not
	assert.Equal(t, int64(2), tokens.calls.Load())
}

func TestSqrtWithoutTokens(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"number": 144.0, "sqrt": 12.0}`))
	}))
	defer srv.Close()

	client := NewClient(slog.Default(), srv.URL, nil)
	got, err := client.Sqrt(context.Background(), 144)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got)
}

func TestSqrtUpstreamStatusWithoutDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(slog.Default(), srv.URL, nil)
	_, err := client.Sqrt(context.Background(), 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
