package planner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/travel-planner/backend/internal/budget"
	"example.com/travel-planner/backend/internal/currency"
	"example.com/travel-planner/backend/internal/models"
	"example.com/travel-planner/backend/internal/notifications"
	"example.com/travel-planner/backend/internal/search"
	"example.com/travel-planner/backend/internal/store"
)

type fakeSearch struct {
	queries []string
	results map[string][]search.Result
	fail    map[string]error
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	for prefix, err := range f.fail {
		if strings.HasPrefix(query, prefix) {
			return nil, err
		}
	}
	for prefix, results := range f.results {
		if strings.HasPrefix(query, prefix) {
			return results, nil
		}
	}
	return nil, nil
}

type memoryStore struct {
	mu          sync.Mutex
	itineraries []models.Itinerary
	err         error
}

func (s *memoryStore) Append(_ context.Context, itinerary models.Itinerary) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itineraries = append(s.itineraries, itinerary)
	return nil
}

func (s *memoryStore) LoadAll(context.Context) (store.LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.LoadResult{Itineraries: append([]models.Itinerary(nil), s.itineraries...)}, nil
}

type recordingPublisher struct {
	stages []Stage
}

func (p *recordingPublisher) Publish(event notifications.Event) {
	if data, ok := event.Data.(StageEvent); ok {
		p.stages = append(p.stages, data.Stage)
	}
}

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newTestPlanner(client search.Client, plans store.Store, publisher Publisher) *Planner {
	return New(client, plans, publisher, nil).WithClock(func() time.Time { return fixedNow })
}

func lahoreRequest() models.TripRequest {
	return models.TripRequest{
		Origin:      "Lahore",
		Destination: "lahore ",
		Budget:      decimal.NewFromInt(50000),
		Currency:    "pkr",
		TravelDate:  "2026-10-20",
		Travelers:   2,
		Tier:        models.TierMiddle,
	}
}

// TestPlanSameCitySkipsTransport проверяет сценарий без транспорта и распределение Middle.
func TestPlanSameCitySkipsTransport(t *testing.T) {
	client := &fakeSearch{results: map[string][]search.Result{
		"Find hotels": {
			{Title: "Pearl Continental", URL: "https://pc.example", Price: strPtr("PKR 15000")},
			{Title: "Avari", URL: "https://avari.example", Price: strPtr("₹9500")},
			{Title: "Hostel", URL: "https://hostel.example"},
		},
		"Suggest activities": {
			{Title: "Badshahi Mosque tour", URL: "https://tours.example", Price: strPtr("2000")},
		},
	}}
	plans := &memoryStore{}
	publisher := &recordingPublisher{}

	outcome, err := newTestPlanner(client, plans, publisher).Plan(context.Background(), lahoreRequest())
	require.NoError(t, err)
	require.True(t, outcome.Saved)
	require.NoError(t, outcome.SaveErr)

	itinerary := outcome.Itinerary
	assert.Nil(t, itinerary.Transportation)
	assert.Nil(t, itinerary.Request.TransportMode)
	assert.Equal(t, currency.PKR, itinerary.Request.Currency)

	assert.True(t, itinerary.Allocation.Transportation.Equal(decimal.NewFromInt(20000)))
	assert.True(t, itinerary.Allocation.Lodging.Equal(decimal.NewFromInt(20000)))
	assert.True(t, itinerary.Allocation.Activities.Equal(decimal.NewFromInt(10000)))
	assert.True(t, itinerary.ConvertedBudget.Equal(decimal.NewFromInt(13750000)))

	assert.True(t, itinerary.Totals.Lodging.Equal(decimal.NewFromInt(24500)))
	assert.True(t, itinerary.Totals.Activities.Equal(decimal.NewFromInt(2000)))

	require.Len(t, client.queries, 2)
	assert.True(t, strings.HasPrefix(client.queries[0], "Find hotels in lahore"))
	assert.True(t, strings.HasPrefix(client.queries[1], "Suggest activities in lahore"))

	assert.NotContains(t, itinerary.PlanDetails, "Transportation Options")
	assert.Contains(t, itinerary.PlanDetails, "Hotels:")
	assert.Contains(t, itinerary.PlanDetails, "Activities:")
	assert.Contains(t, itinerary.PlanDetails, "Total Hotel Cost: 24500.00 PKR")

	require.Len(t, plans.itineraries, 1)
	assert.Equal(t, itinerary.ID, plans.itineraries[0].ID)
	assert.Equal(t, fixedNow, itinerary.CreatedAt)

	assert.Equal(t, []Stage{StageStart, StageLodgingQueried, StageActivitiesQueried, StageFormatted, StagePersisted, StageDone}, publisher.stages)
}

// TestPlanWithTransport проверяет полный сценарий с поиском билетов.
func TestPlanWithTransport(t *testing.T) {
	mode := models.TransportTrain
	request := models.TripRequest{
		Origin:        "Karachi",
		Destination:   "Lahore",
		Budget:        decimal.NewFromInt(1000),
		Currency:      "USD",
		TravelDate:    "2026-10-16",
		Travelers:     1,
		Percentages:   &models.Percentages{Transportation: 30, Lodging: 50, Activities: 20},
		Tier:          "ignored",
		TransportMode: &mode,
	}

	client := &fakeSearch{results: map[string][]search.Result{
		"Find train": {
			{Title: "Karachi to Lahore train ticket", URL: "https://rail.example", Price: strPtr("$45")},
			{Title: "Travel blog", URL: "https://blog.example", Price: strPtr("$1")},
			{Title: "Green Line", URL: "https://booking.example/green", Price: strPtr("n/a")},
		},
	}}
	publisher := &recordingPublisher{}

	outcome, err := newTestPlanner(client, &memoryStore{}, publisher).Plan(context.Background(), request)
	require.NoError(t, err)

	itinerary := outcome.Itinerary
	require.NotNil(t, itinerary.Transportation)
	assert.Equal(t, "Karachi to Lahore train ticket", itinerary.Transportation[0].Title)
	assert.Equal(t, "Green Line", itinerary.Transportation[1].Title)
	assert.True(t, itinerary.Transportation[2].IsPlaceholder())
	assert.True(t, itinerary.Totals.Transportation.Equal(decimal.NewFromInt(45)))

	assert.True(t, itinerary.Allocation.Transportation.Equal(decimal.NewFromInt(300)))
	assert.True(t, itinerary.Allocation.Lodging.Equal(decimal.NewFromInt(500)))
	assert.True(t, itinerary.Allocation.Activities.Equal(decimal.NewFromInt(200)))
	assert.Empty(t, itinerary.Request.Tier)

	require.Len(t, client.queries, 3)
	assert.Equal(t, "Find train ticket booking options from Karachi to Lahore on 2026-10-16 within a budget of 1000 USD. Provide direct booking links.", client.queries[0])

	assert.Contains(t, itinerary.PlanDetails, "Transportation Options:\n1. Karachi to Lahore train ticket\n   Link: https://rail.example\n   Price: 45\n")
	assert.Contains(t, itinerary.PlanDetails, "Total Transportation Cost: 45.00 USD")
	assert.Equal(t, StageTransportQueried, publisher.stages[1])
}

// TestPlanDefaultsToFlight проверяет вид транспорта по умолчанию для разных городов.
func TestPlanDefaultsToFlight(t *testing.T) {
	request := lahoreRequest()
	request.Destination = "Islamabad"

	client := &fakeSearch{}
	outcome, err := newTestPlanner(client, &memoryStore{}, nil).Plan(context.Background(), request)
	require.NoError(t, err)

	require.NotNil(t, outcome.Itinerary.Request.TransportMode)
	assert.Equal(t, models.TransportFlight, *outcome.Itinerary.Request.TransportMode)
	assert.True(t, strings.HasPrefix(client.queries[0], "Find flight ticket booking options"))
}

// TestPlanStageFailures проверяет остановку на первом неудачном этапе.
func TestPlanStageFailures(t *testing.T) {
	cause := errors.New("quota exceeded")
	cases := []struct {
		name        string
		failPrefix  string
		stage       models.Category
		wantQueries int
	}{
		{name: "transport", failPrefix: "Find flight", stage: models.CategoryTransportation, wantQueries: 1},
		{name: "lodging", failPrefix: "Find hotels", stage: models.CategoryLodging, wantQueries: 2},
		{name: "activities", failPrefix: "Suggest activities", stage: models.CategoryActivities, wantQueries: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			request := lahoreRequest()
			request.Destination = "Skardu"

			client := &fakeSearch{fail: map[string]error{tc.failPrefix: cause}}
			plans := &memoryStore{}
			publisher := &recordingPublisher{}

			outcome, err := newTestPlanner(client, plans, publisher).Plan(context.Background(), request)
			require.Error(t, err)

			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tc.stage, stageErr.Stage)
			assert.ErrorIs(t, err, cause)

			assert.Len(t, client.queries, tc.wantQueries)
			assert.Empty(t, plans.itineraries)
			assert.Empty(t, outcome.Itinerary.PlanDetails)
			assert.Equal(t, StageFailed, publisher.stages[len(publisher.stages)-1])
		})
	}
}

// TestPlanSaveFailureStillReturnsItinerary проверяет, что ошибка сохранения не теряет маршрут.
func TestPlanSaveFailureStillReturnsItinerary(t *testing.T) {
	plans := &memoryStore{err: errors.New("disk full")}
	publisher := &recordingPublisher{}

	outcome, err := newTestPlanner(&fakeSearch{}, plans, publisher).Plan(context.Background(), lahoreRequest())
	require.NoError(t, err)

	assert.False(t, outcome.Saved)
	require.Error(t, outcome.SaveErr)
	assert.NotEmpty(t, outcome.Itinerary.PlanDetails)
	assert.NotContains(t, publisher.stages, StagePersisted)
	assert.Equal(t, StageDone, publisher.stages[len(publisher.stages)-1])
}

// TestPlanValidationHappensBeforeSearch проверяет, что ошибки запроса не вызывают поиск.
func TestPlanValidationHappensBeforeSearch(t *testing.T) {
	cases := map[string]func(r *models.TripRequest){
		"currency":    func(r *models.TripRequest) { r.Currency = "EUR" },
		"past date":   func(r *models.TripRequest) { r.TravelDate = "2026-10-15" },
		"bad date":    func(r *models.TripRequest) { r.TravelDate = "20-10-2026" },
		"budget":      func(r *models.TripRequest) { r.Budget = decimal.Zero },
		"huge budget": func(r *models.TripRequest) { r.Budget = decimal.New(1, 30000000) },
		"travelers":   func(r *models.TripRequest) { r.Travelers = 0 },
		"tier":        func(r *models.TripRequest) { r.Tier = "Premium" },
		"origin":      func(r *models.TripRequest) { r.Origin = " " },
		"mode":        func(r *models.TripRequest) { r.Destination = "Multan"; m := models.TransportMode("boat"); r.TransportMode = &m },
		"percentages": func(r *models.TripRequest) { r.Percentages = &models.Percentages{Transportation: 50, Lodging: 40, Activities: 20} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			request := lahoreRequest()
			mutate(&request)

			client := &fakeSearch{}
			_, err := newTestPlanner(client, &memoryStore{}, nil).Plan(context.Background(), request)
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.Empty(t, client.queries)
		})
	}
}

// TestPlanPercentageErrorKeepsCause проверяет, что причина ошибки процентов доступна вызывающему коду.
func TestPlanPercentageErrorKeepsCause(t *testing.T) {
	request := lahoreRequest()
	request.Percentages = &models.Percentages{Transportation: 10, Lodging: 10, Activities: 10}

	_, err := newTestPlanner(&fakeSearch{}, &memoryStore{}, nil).Plan(context.Background(), request)
	assert.ErrorIs(t, err, budget.ErrPercentageSum)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// TestParseTravelDate проверяет, что сегодняшняя дата допустима.
func TestParseTravelDate(t *testing.T) {
	date, err := ParseTravelDate("2026-10-16", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", date.Format(DateLayout))

	_, err = ParseTravelDate("2026-10-15", fixedNow)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// TestRenderIsDeterministic проверяет одинаковый вывод для одного маршрута.
func TestRenderIsDeterministic(t *testing.T) {
	outcome, err := newTestPlanner(&fakeSearch{}, &memoryStore{}, nil).Plan(context.Background(), lahoreRequest())
	require.NoError(t, err)

	first := Render(outcome.Itinerary)
	assert.Equal(t, first, Render(outcome.Itinerary))
	assert.Equal(t, first, outcome.Itinerary.PlanDetails)
	assert.True(t, strings.HasPrefix(first, "Trip: Lahore -> lahore on 2026-10-20\nTravelers: 2\nTotal budget: 50000.00 PKR\n"))
	assert.Equal(t, 10, strings.Count(first, models.PlaceholderTitle))
}
