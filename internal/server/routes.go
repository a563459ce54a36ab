package server

import (
	"github.com/labstack/echo/v4"

	"example.com/travel-planner/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	tripHandler *handlers.TripHandler,
	notificationHandler *handlers.NotificationHandler,
	searchRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", healthHandler.Health)

	api := e.Group("/api/v1")

	trips := api.Group("/trips")
	trips.POST("/plan", tripHandler.Plan, searchRateLimiter)
	trips.GET("", tripHandler.List)
	trips.GET("/:id", tripHandler.Get)
	trips.GET("/:id/export/text", tripHandler.ExportText)
	trips.GET("/:id/export/csv", tripHandler.ExportCSV)

	events := api.Group("/events")
	events.GET("/stream", notificationHandler.Stream)
}
