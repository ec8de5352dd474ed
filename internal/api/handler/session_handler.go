package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quantiva/dashboard/internal/api/metrics"
	"github.com/quantiva/dashboard/internal/core/domain"
	"github.com/quantiva/dashboard/internal/core/ports"
)

// SessionHandler exposes the session operations to the browser shell.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Phase   string        `json:"phase"`
	Loading bool          `json:"loading"`
	User    *userResponse `json:"user,omitempty"`
}

// SignIn authenticates with email and password.
//
// @Summary      Sign in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /auth/signin [post]
func (h *SessionHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	start := time.Now()
	identity, err := h.sessions.SignIn(c.Request().Context(), req.Email, req.Password)
	observe("sign_in", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.authenticatedResponse(identity))
}

// SignUp creates an account and signs in with it.
//
// @Summary      Sign up
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /auth/signup [post]
func (h *SessionHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	start := time.Now()
	identity, err := h.sessions.SignUp(c.Request().Context(), req.Name, req.Email, req.Password)
	observe("sign_up", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.authenticatedResponse(identity))
}

// SignOut ends the session. Signing out twice is not an error.
//
// @Summary      Sign out
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /auth/signout [post]
func (h *SessionHandler) SignOut(c echo.Context) error {
	err := h.sessions.SignOut(c.Request().Context())
	metrics.AuthOperationsTotal.WithLabelValues("sign_out", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.State()))
}

// State reports the current session phase so the shell can decide what to
// render.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.State()))
}

func (h *SessionHandler) authenticatedResponse(identity domain.Identity) sessionResponse {
	user := toUserResponse(identity)
	return sessionResponse{Phase: string(domain.PhaseAuthenticated), User: &user}
}

func toSessionResponse(state domain.SessionState) sessionResponse {
	resp := sessionResponse{Phase: string(state.Phase()), Loading: state.Loading}
	// While loading the identity is not authoritative; do not show it.
	if !state.Loading && state.Identity != nil {
		user := toUserResponse(*state.Identity)
		resp.User = &user
	}
	return resp
}

func observe(op string, start time.Time, err error) {
	metrics.AuthOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
	metrics.AuthOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidationFailed):
		return "invalid"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "rejected"
	case errors.Is(err, domain.ErrOperationPending):
		return "pending"
	case errors.Is(err, domain.ErrNotRestored):
		return "not_ready"
	default:
		return "error"
	}
}
