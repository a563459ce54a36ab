package planner

import (
	"errors"
	"fmt"

	"example.com/travel-planner/backend/internal/models"
)

var ErrInvalidRequest = errors.New("invalid trip request")

// StageError сообщает, на каком этапе поиска остановилось планирование.
type StageError struct {
	Stage models.Category
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("retrieve %s details: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func invalid(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, message)
}

func invalidWrap(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}
