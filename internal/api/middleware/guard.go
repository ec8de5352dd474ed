package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quantiva/dashboard/internal/api/metrics"
	"github.com/quantiva/dashboard/internal/core/domain"
)

// IdentityKey is the echo context key holding the authenticated domain.Identity.
const IdentityKey = "identity"

// SessionReader exposes the guard's only input.
type SessionReader interface {
	State() domain.SessionState
}

type waitingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Guard gates the protected route tree on the session state:
//   - loading: 503 waiting response, no routing decision is made.
//   - anonymous: public renders the entry surface; next never runs.
//   - authenticated: the identity is stored under IdentityKey and next runs.
func Guard(sessions SessionReader, public echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := sessions.State()
			decision := state.Route()
			metrics.GuardDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case domain.RouteWait:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, waitingResponse{
					Status:  "loading",
					Message: "Loading Quantiva...",
				})
			case domain.RoutePublic:
				return public(c)
			}

			c.Set(IdentityKey, *state.Identity)
			return next(c)
		}
	}
}
