package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"example.com/travel-planner/backend/internal/budget"
	"example.com/travel-planner/backend/internal/currency"
	"example.com/travel-planner/backend/internal/models"
	"example.com/travel-planner/backend/internal/notifications"
	"example.com/travel-planner/backend/internal/search"
	"example.com/travel-planner/backend/internal/store"
)

type Stage string

const (
	StageStart             Stage = "start"
	StageTransportQueried  Stage = "transport_queried"
	StageLodgingQueried    Stage = "lodging_queried"
	StageActivitiesQueried Stage = "activities_queried"
	StageFormatted         Stage = "formatted"
	StagePersisted         Stage = "persisted"
	StageDone              Stage = "done"
	StageFailed            Stage = "failed"

	eventPlanningStage = "planning_stage"
)

// Publisher получает события о смене этапов планирования.
type Publisher interface {
	Publish(event notifications.Event)
}

type StageEvent struct {
	RunID    uuid.UUID       `json:"run_id"`
	Stage    Stage           `json:"stage"`
	Category models.Category `json:"category,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Outcome содержит готовый маршрут и результат его сохранения.
type Outcome struct {
	Itinerary models.Itinerary
	Saved     bool
	SaveErr   error
}

type Planner struct {
	search    search.Client
	store     store.Store
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// New создает планировщик поездок с внешними зависимостями.
func New(client search.Client, plans store.Store, publisher Publisher, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{
		search:    client,
		store:     plans,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (p *Planner) WithClock(now func() time.Time) *Planner {
	p.now = now
	return p
}

// Plan выполняет этапы поиска по очереди и сохраняет готовый маршрут.
// Ошибка любого этапа поиска прерывает планирование без частичного результата.
func (p *Planner) Plan(ctx context.Context, request models.TripRequest) (Outcome, error) {
	now := p.now()

	prepared, err := Prepare(request, now)
	if err != nil {
		return Outcome{}, err
	}

	converted, err := currency.Convert(prepared.Budget, prepared.Currency)
	if err != nil {
		return Outcome{}, invalidWrap(err)
	}

	allocation, err := budget.PolicyFor(prepared).Allocate(prepared.Budget)
	if err != nil {
		return Outcome{}, invalidWrap(err)
	}

	runID := uuid.New()
	p.publish(runID, StageStart, "", nil)

	var transportation *models.OptionList
	if prepared.TransportMode != nil {
		options, err := p.query(ctx, runID, models.CategoryTransportation, TransportQuery(prepared), prepared.Currency)
		if err != nil {
			return Outcome{}, err
		}
		transportation = &options
		p.publish(runID, StageTransportQueried, models.CategoryTransportation, nil)
	}

	lodging, err := p.query(ctx, runID, models.CategoryLodging, LodgingQuery(prepared), prepared.Currency)
	if err != nil {
		return Outcome{}, err
	}
	p.publish(runID, StageLodgingQueried, models.CategoryLodging, nil)

	activities, err := p.query(ctx, runID, models.CategoryActivities, ActivitiesQuery(prepared), prepared.Currency)
	if err != nil {
		return Outcome{}, err
	}
	p.publish(runID, StageActivitiesQueried, models.CategoryActivities, nil)

	itinerary := models.Itinerary{
		ID:              runID,
		Request:         prepared,
		ConvertedBudget: converted,
		Allocation:      allocation,
		Transportation:  transportation,
		Lodging:         lodging,
		Activities:      activities,
		Totals: models.CategoryTotals{
			Lodging:    lodging.Total(),
			Activities: activities.Total(),
		},
		CreatedAt: now.UTC(),
	}
	if transportation != nil {
		itinerary.Totals.Transportation = transportation.Total()
	}
	itinerary.PlanDetails = Render(itinerary)
	p.publish(runID, StageFormatted, "", nil)

	outcome := Outcome{Itinerary: itinerary}
	if err := p.store.Append(ctx, itinerary); err != nil {
		outcome.SaveErr = err
		p.logger.Error("failed to save itinerary",
			slog.String("itinerary_id", itinerary.ID.String()),
			slog.String("error", err.Error()),
		)
	} else {
		outcome.Saved = true
		p.publish(runID, StagePersisted, "", nil)
	}

	p.publish(runID, StageDone, "", outcome.SaveErr)
	p.logger.Info("trip planned",
		slog.String("itinerary_id", itinerary.ID.String()),
		slog.String("destination", prepared.Destination),
		slog.Bool("saved", outcome.Saved),
	)

	return outcome, nil
}

func (p *Planner) query(ctx context.Context, runID uuid.UUID, category models.Category, query, currencyCode string) (models.OptionList, error) {
	results, err := p.search.Search(ctx, query)
	if err != nil {
		p.publish(runID, StageFailed, category, err)
		p.logger.Warn("search stage failed",
			slog.String("run_id", runID.String()),
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
		return models.OptionList{}, &StageError{Stage: category, Err: err}
	}

	return Normalize(results, currencyCode, category), nil
}

func (p *Planner) publish(runID uuid.UUID, stage Stage, category models.Category, err error) {
	if p.publisher == nil {
		return
	}

	event := StageEvent{RunID: runID, Stage: stage, Category: category}
	if err != nil {
		event.Error = err.Error()
	}

	p.publisher.Publish(notifications.Event{Type: eventPlanningStage, Data: event})
}
