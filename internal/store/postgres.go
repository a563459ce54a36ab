package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/travel-planner/backend/internal/models"
)

const schema = `CREATE TABLE IF NOT EXISTS itineraries (
	seq BIGSERIAL PRIMARY KEY,
	id UUID NOT NULL UNIQUE,
	destination TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore хранит маршруты в таблице itineraries, только добавляя строки.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore создает хранилище маршрутов в PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema создает таблицу, если ее еще нет.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create itineraries table: %w", err)
	}
	return nil
}

// Append сохраняет маршрут новой строкой.
func (s *PostgresStore) Append(ctx context.Context, itinerary models.Itinerary) error {
	if err := validate(itinerary); err != nil {
		return err
	}

	payload, err := json.Marshal(itinerary)
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO itineraries (id, destination, payload, created_at)
		 VALUES ($1, $2, $3::jsonb, $4)`,
		itinerary.ID,
		itinerary.Request.Destination,
		string(payload),
		itinerary.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert itinerary: %w", err)
	}

	return nil
}

// LoadAll возвращает маршруты в порядке вставки; строки с битым payload пропускаются.
func (s *PostgresStore) LoadAll(ctx context.Context) (LoadResult, error) {
	result := LoadResult{Itineraries: []models.Itinerary{}}

	rows, err := s.db.Query(ctx, `SELECT seq, payload::text FROM itineraries ORDER BY seq`)
	if err != nil {
		return result, fmt.Errorf("query itineraries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seq int64
		var payload string
		if err := rows.Scan(&seq, &payload); err != nil {
			return result, fmt.Errorf("scan itinerary: %w", err)
		}

		itinerary, err := decodeRecord([]byte(payload))
		if err != nil {
			result.Skipped = append(result.Skipped, RecordError{Position: seq, Err: err})
			slog.Warn("skipped malformed itinerary row", slog.Int64("seq", seq), slog.String("error", err.Error()))
			continue
		}

		result.Itineraries = append(result.Itineraries, itinerary)
	}

	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("read itineraries: %w", err)
	}

	return result, nil
}
