package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tasklist/tasklist-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Message    string `json:"message"`
	Path       string `json:"path"`
}

// kindStatus maps domain failure kinds to HTTP status codes.
var kindStatus = []struct {
	kind   error
	status int
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrValidation, http.StatusUnprocessableEntity},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
	{domain.ErrOperationFailed, http.StatusInternalServerError},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"statusCode","timestamp","message","path"} for every failure.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		resp := errorResponse{
			StatusCode: code,
			Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
			Message:    msg,
			Path:       c.Request().URL.RequestURI(),
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var de *domain.Error
	if errors.As(err, &de) {
		for _, ks := range kindStatus {
			if errors.Is(de.Kind, ks.kind) {
				if ks.status >= http.StatusInternalServerError {
					logUnexpected(log, c, err, de.Err)
				}
				return ks.status, de.Error()
			}
		}
	}

	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) && ks.status < http.StatusInternalServerError {
			return ks.status, err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnexpected(log, c, err, nil)
	return http.StatusInternalServerError, "internal server error"
}

func logUnexpected(log zerolog.Logger, c echo.Context, err, cause error) {
	ev := log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path())
	if cause != nil {
		ev = ev.AnErr("cause", cause)
	}
	ev.Msg("unhandled error")
}
