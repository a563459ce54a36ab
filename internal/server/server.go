package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/travel-planner/backend/internal/config"
	"example.com/travel-planner/backend/internal/handlers"
	"example.com/travel-planner/backend/internal/notifications"
	"example.com/travel-planner/backend/internal/planner"
	"example.com/travel-planner/backend/internal/search"
	"example.com/travel-planner/backend/internal/store"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, plans store.Store, client search.Client) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	notificationHub := notifications.NewHub()
	tripPlanner := planner.New(client, plans, notificationHub, logger)
	tripHandler := handlers.NewTripHandler(tripPlanner, plans)
	notificationHandler := handlers.NewNotificationHandler(notificationHub)
	healthHandler := handlers.NewHealthHandler(cfg.Store.Driver, notificationHub)

	registerRoutes(
		e,
		healthHandler,
		tripHandler,
		notificationHandler,
		searchRateLimiter(cfg.Search),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

// searchRateLimiter ограничивает частоту планирования: каждый запуск расходует квоту поиска.
func searchRateLimiter(cfg config.SearchConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
