package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/maad-zach/sqrt-api/internal/sqrt"
)

// NegativeNumberDetail is the error body returned for inputs below zero.
const NegativeNumberDetail = "Cannot compute square root of a negative number"

const welcomeMessage = "Welcome to the Square Root API! Use /sqrt/{number} to get a square root."

// SqrtHandler serves the square root API surface.
type SqrtHandler struct {
	logger *slog.Logger
	// apiKey guards /sqrt when authRequired is set.
	apiKey       string
	authRequired bool
}

// NewSqrtHandler creates the sqrt API handler. When authRequired is true,
// /sqrt requires the X-API-Key header to equal apiKey.
func NewSqrtHandler(log *slog.Logger, apiKey string, authRequired bool) *SqrtHandler {
	return &SqrtHandler{
		logger:       log.With(slog.String("handler", "sqrt")),
		apiKey:       apiKey,
		authRequired: authRequired,
	}
}

// Register mounts the API routes on the Echo instance.
func (h *SqrtHandler) Register(e *echo.Echo) {
	e.GET("/", h.Root)
	if h.authRequired {
		e.GET("/sqrt/:number", h.Sqrt, APIKeyMiddleware(h.apiKey))
	} else {
		e.GET("/sqrt/:number", h.Sqrt)
	}
	e.GET("/whoami", h.Whoami)
	e.GET("/health", h.Health)
}

type sqrtResponse struct {
	Number float64 `json:"number"`
	Sqrt   float64 `json:"sqrt"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type whoamiResponse struct {
	User  string `json:"user"`
	Email string `json:"email"`
}

// Root returns the static welcome payload.
func (h *SqrtHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": welcomeMessage,
	})
}

// Sqrt parses the path segment as a real number and returns its square
// root, or a 400 with a structured detail message.
func (h *SqrtHandler) Sqrt(c echo.Context) error {
	raw := c.Param("number")
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: err.Error()})
	}
	if math.IsNaN(number) || math.IsInf(number, 1) {
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "number must be a finite value"})
	}

	result, err := sqrt.Compute(number)
	if err != nil {
		var negErr *sqrt.NegativeInputError
		if errors.As(err, &negErr) {
			return c.JSON(http.StatusBadRequest, detailResponse{Detail: NegativeNumberDetail})
		}
		return c.JSON(http.StatusInternalServerError, detailResponse{Detail: err.Error()})
	}

	return c.JSON(http.StatusOK, sqrtResponse{Number: number, Sqrt: result})
}

// Whoami reflects the identity headers set by the upstream trusted proxy.
// The headers are never verified here; this route must stay behind that
// proxy.
func (h *SqrtHandler) Whoami(c echo.Context) error {
	user := c.Request().Header.Get("X-Forwarded-User")
	if user == "" {
		user = "unknown"
	}
	email := c.Request().Header.Get("X-Forwarded-Email")
	if email == "" {
		email = "unknown"
	}
	return c.JSON(http.StatusOK, whoamiResponse{User: user, Email: email})
}

// Health returns the static liveness payload.
func (h *SqrtHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"slack_bot": "running",
	})
}
