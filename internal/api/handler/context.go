package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quantiva/dashboard/internal/api/middleware"
	"github.com/quantiva/dashboard/internal/core/domain"
)

// ctxIdentity returns the identity the guard stored for this request. Its
// absence means the handler was mounted outside the guard, which is a 401
// rather than a panic.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok || identity.ID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	return identity, nil
}

type userResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func toUserResponse(identity domain.Identity) userResponse {
	return userResponse{
		ID:          identity.ID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
	}
}
