package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/travel-planner/backend/internal/config"
	"example.com/travel-planner/backend/internal/database"
	"example.com/travel-planner/backend/internal/search"
	"example.com/travel-planner/backend/internal/server"
	"example.com/travel-planner/backend/internal/store"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	plans, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to open plan store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	client := search.NewTavilyClient(cfg.Search.APIKey, cfg.Search.BaseURL, cfg.Search.Timeout, cfg.Search.MaxResults)

	e := server.New(cfg, logger, plans, client)
	httpServer := server.NewHTTPServer(cfg.Server, e)

	go func() {
		logger.Info("http server started",
			slog.String("addr", httpServer.Addr),
			slog.String("store", cfg.Store.Driver),
		)
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// openStore выбирает хранилище маршрутов по STORE_DRIVER.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.Store.Driver != config.StoreDriverPostgres {
		return store.NewFileStore(cfg.Store.Path), func() {}, nil
	}

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	plans := store.NewPostgresStore(db)
	if err := plans.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return plans, db.Close, nil
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
