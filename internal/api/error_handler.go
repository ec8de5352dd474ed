package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quantiva/dashboard/internal/api/handler"
	"github.com/quantiva/dashboard/internal/core/domain"
)

// statusMapping pairs a sentinel with its HTTP status. An empty message means
// the wrapped error text is shown, which names the offending fields.
type statusMapping struct {
	err     error
	code    int
	message string
}

var statusMappings = []statusMapping{
	{err: domain.ErrValidationFailed, code: http.StatusUnprocessableEntity},
	{err: domain.ErrInvalidCredentials, code: http.StatusUnauthorized, message: "invalid credentials"},
	{err: domain.ErrOperationPending, code: http.StatusConflict, message: domain.ErrOperationPending.Error()},
	{err: domain.ErrNotRestored, code: http.StatusServiceUnavailable, message: domain.ErrNotRestored.Error()},
}

// NewHTTPErrorHandler renders every error as {"error": "<message>"}. Known
// sentinels get their mapped status; anything else is logged and answered
// with a generic 500 so nothing internal leaks. A 503 carries Retry-After.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}
		if code == http.StatusServiceUnavailable {
			c.Response().Header().Set("Retry-After", "1")
		}
		_ = c.JSON(code, handler.ErrorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range statusMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.message == "" {
			return m.code, err.Error()
		}
		return m.code, m.message
	}
	return http.StatusInternalServerError, "internal server error"
}
