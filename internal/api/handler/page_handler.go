package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Page is one entry of the protected route tree.
type Page struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Pages is the sidebar navigation, in display order. The first entry is the
// default protected route.
var Pages = []Page{
	{Key: "dashboard", Title: "Dashboard", Path: "/"},
	{Key: "watchlist", Title: "Watchlist", Path: "/watchlist"},
	{Key: "news", Title: "Market News", Path: "/news"},
	{Key: "insights", Title: "AI Insights", Path: "/insights"},
	{Key: "analytics", Title: "Analytics", Path: "/analytics"},
	{Key: "chat", Title: "AI Chat", Path: "/chat"},
	{Key: "settings", Title: "Settings", Path: "/settings"},
}

// PageHandler renders the presentational page shells.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

type pageResponse struct {
	Page       string       `json:"page"`
	Title      string       `json:"title"`
	Navigation []Page       `json:"navigation"`
	User       userResponse `json:"user"`
}

type landingResponse struct {
	Page    string   `json:"page"`
	Title   string   `json:"title"`
	Tagline string   `json:"tagline"`
	Actions []string `json:"actions"`
}

// Landing renders the public entry surface.
//
// @Summary      Landing page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  landingResponse
// @Router       / [get]
func (h *PageHandler) Landing(c echo.Context) error {
	return c.JSON(http.StatusOK, landingResponse{
		Page:    "landing",
		Title:   "Quantiva",
		Tagline: "AI-powered investment research",
		Actions: []string{"sign_in", "sign_up"},
	})
}

// Render returns the handler for a protected page.
func (h *PageHandler) Render(p Page) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := ctxIdentity(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pageResponse{
			Page:       p.Key,
			Title:      p.Title,
			Navigation: Pages,
			User:       toUserResponse(identity),
		})
	}
}

// RedirectDefault sends unmatched paths to the default protected route.
func (h *PageHandler) RedirectDefault(c echo.Context) error {
	return c.Redirect(http.StatusFound, Pages[0].Path)
}
