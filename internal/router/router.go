package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/tubepulse/tubepulse-go/internal/handler"
	"github.com/tubepulse/tubepulse-go/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analytics *handler.AnalyticsHandler
	Export    *handler.ExportHandler
	Health    *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (before API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	analyticsLimit := middleware.NewAnalyticsRateLimiter().Handler()
	leaderboardLimit := middleware.NewLeaderboardRateLimiter().Handler()
	exportLimit := middleware.NewExportRateLimiter().Handler()

	api := app.Group("/api/analytics")

	// Single-channel views
	api.Get("/channels/:channelId", h.Analytics.GetChannel, analyticsLimit)
	api.Get("/channels/:channelId/export", h.Export.ExportChannel, exportLimit)

	// Channel group views (aggregate or compare via ?mode=)
	api.Get("/groups/:groupId", h.Analytics.GetGroup, analyticsLimit)
	api.Get("/groups/:groupId/leaderboard", h.Analytics.Leaderboard, leaderboardLimit)
	api.Get("/groups/:groupId/export", h.Export.ExportGroup, exportLimit)

	// Organizational rollups
	api.Get("/branches/:branchId", h.Analytics.GetBranch, analyticsLimit)
	api.Get("/branches/:branchId/export", h.Export.ExportBranch, exportLimit)
	api.Get("/teams/:teamId", h.Analytics.GetTeam, analyticsLimit)
	api.Get("/teams/:teamId/export", h.Export.ExportTeam, exportLimit)
}
