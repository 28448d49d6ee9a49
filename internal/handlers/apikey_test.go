package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAPIKey(t *testing.T) {
	t.Parallel()

	if err := VerifyAPIKey("", "secret"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if err := VerifyAPIKey("wrong", "secret"); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
	if err := VerifyAPIKey("secret", "secret"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestSqrtAPIKeyGuard(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, "test-key", true)

	rec := doGet(e, "/sqrt/16", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(e, "/sqrt/16", map[string]string{APIKeyHeader: "bogus"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doGet(e, "/sqrt/16", map[string]string{APIKeyHeader: "test-key"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body sqrtResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, sqrtResponse{Number: 16, Sqrt: 4}, body)
}

func TestAPIKeyGuardOnlyOnSqrt(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, "test-key", true)

	for _, path := range []string{"/", "/whoami", "/health"} {
		rec := doGet(e, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
