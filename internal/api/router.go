package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/quantiva/dashboard/docs"
	"github.com/quantiva/dashboard/internal/api/handler"
	"github.com/quantiva/dashboard/internal/api/middleware"
	"github.com/quantiva/dashboard/internal/core/ports"
)

// Dependencies are the collaborators the HTTP surface is built on.
type Dependencies struct {
	Sessions ports.SessionService
	Chat     ports.ChatService
	// Storage and Backend feed the readiness probe.
	Storage handler.Pinger
	Backend string
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "quantiva",
		Registerer: deps.Registerer,
	}))

	// --- Dependencies ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	pageHandler := handler.NewPageHandler()
	chatHandler := handler.NewChatHandler(deps.Chat)
	guard := middleware.Guard(deps.Sessions, pageHandler.Landing)

	// --- Session routes (public: they are how the user gets in and out) ---
	e.POST("/auth/signin", sessionHandler.SignIn)
	e.POST("/auth/signup", sessionHandler.SignUp)
	e.POST("/auth/signout", sessionHandler.SignOut)
	e.GET("/session", sessionHandler.State)

	// --- Protected route tree ---
	for _, p := range handler.Pages {
		e.GET(p.Path, pageHandler.Render(p), guard)
	}
	e.GET("/chat/messages", chatHandler.List, guard)
	e.POST("/chat/messages", chatHandler.Send, guard)
	// Unmatched paths are guarded too: landing when anonymous, default page otherwise.
	e.RouteNotFound("/*", pageHandler.RedirectDefault, guard)

	// --- Operational endpoints (no guard) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Backend, deps.Storage, deps.Sessions)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – restored and storage up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
