package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"example.com/travel-planner/backend/internal/models"
)

// Store хранит готовые маршруты в порядке создания. Записи только добавляются.
type Store interface {
	Append(ctx context.Context, itinerary models.Itinerary) error
	LoadAll(ctx context.Context) (LoadResult, error)
}

// RecordError описывает запись, которую не удалось прочитать.
type RecordError struct {
	Position int64
	Err      error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Position, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

type LoadResult struct {
	Itineraries []models.Itinerary
	Skipped     []RecordError
}

// Find ищет маршрут по идентификатору среди всех сохраненных.
func Find(ctx context.Context, s Store, id uuid.UUID) (models.Itinerary, error) {
	result, err := s.LoadAll(ctx)
	if err != nil {
		return models.Itinerary{}, err
	}

	for _, itinerary := range result.Itineraries {
		if itinerary.ID == id {
			return itinerary, nil
		}
	}

	return models.Itinerary{}, ErrNotFound
}

func validate(itinerary models.Itinerary) error {
	if itinerary.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if itinerary.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing created_at", ErrInvalid)
	}
	if !itinerary.Lodging.Complete() || !itinerary.Activities.Complete() {
		return fmt.Errorf("%w: incomplete option list", ErrInvalid)
	}
	if itinerary.Transportation != nil && !itinerary.Transportation.Complete() {
		return fmt.Errorf("%w: incomplete option list", ErrInvalid)
	}

	return nil
}
