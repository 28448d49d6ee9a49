// Package sqrtclient calls the square root HTTP API with bearer auth.
package sqrtclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/maad-zach/sqrt-api/internal/sqrt"
)

// TokenSource provides a bearer token for one API call.
type TokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// Client is an HTTP client for the sqrt API. Each call fetches a fresh
// token from the source; nothing is cached between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// NewClient creates a client for the API at baseURL (no trailing slash).
// tokens may be nil for an unauthenticated endpoint.
func NewClient(log *slog.Logger, baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		logger:     log.With(slog.String("component", "sqrtclient")),
	}
}

type sqrtResponse struct {
	Number float64 `json:"number"`
	Sqrt   float64 `json:"sqrt"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// Sqrt requests the square root of number from the remote API.
func (c *Client) Sqrt(ctx context.Context, number float64) (float64, error) {
	url := fmt.Sprintf("%s/sqrt/%s", c.baseURL, sqrt.Format(number))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return 0, fmt.Errorf("fetch token: %w", err)
		}
		tok.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var detail detailResponse
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
			return 0, fmt.Errorf("%s", detail.Detail)
		}
		return 0, fmt.Errorf("sqrt API returned status %d", resp.StatusCode)
	}

	var body sqrtResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode sqrt response: %w", err)
	}
	c.logger.Debug("remote sqrt", slog.Float64("number", number), slog.Float64("sqrt", body.Sqrt))
	return body.Sqrt, nil
}
