package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/travel-planner/backend/internal/config"
)

const (
	connectRetries = 5
	pingTimeout    = 5 * time.Second
)

// Open открывает пул подключений к PostgreSQL с ретраями и экспоненциальной паузой.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	poolConfig, cfgErr := pgxpool.ParseConfig(cfg.DSN())
	if cfgErr != nil {
		return nil, fmt.Errorf("parse database config: %w", cfgErr)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	// MaxIdleConns maps closest to MinConns in pgxpool.
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	var pool *pgxpool.Pool
	var err error

	backoff := time.Second

	for attempt := 1; attempt <= connectRetries; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err = pool.Ping(pingCtx)
			cancel()

			if err == nil {
				return pool, nil
			}
		}

		if pool != nil {
			pool.Close()
		}

		logger.Warn("database connection attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", connectRetries),
			slog.Duration("retry_in", backoff),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", connectRetries, err)
}
