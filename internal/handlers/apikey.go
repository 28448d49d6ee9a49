package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIKeyHeader carries the shared secret for the authenticated variant.
const APIKeyHeader = "X-API-Key"

var (
	// ErrMissingAPIKey means the request carried no X-API-Key header.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrInvalidAPIKey means the header did not equal the configured secret.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// VerifyAPIKey checks the presented header value against the configured
// secret (exact byte comparison, no rotation, no rate limiting).
func VerifyAPIKey(headerValue, secret string) error {
	if headerValue == "" {
		return ErrMissingAPIKey
	}
	if headerValue != secret {
		return ErrInvalidAPIKey
	}
	return nil
}

// APIKeyMiddleware rejects requests without the secret: 401 when the
// header is missing, 403 when it does not match.
func APIKeyMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := VerifyAPIKey(c.Request().Header.Get(APIKeyHeader), secret)
			switch {
			case errors.Is(err, ErrMissingAPIKey):
				return c.JSON(http.StatusUnauthorized, detailResponse{Detail: "Missing API key"})
			case errors.Is(err, ErrInvalidAPIKey):
				return c.JSON(http.StatusForbidden, detailResponse{Detail: "Invalid API key"})
			}
			return next(c)
		}
	}
}
