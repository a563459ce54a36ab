package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/travel-planner/backend/internal/models"
	"example.com/travel-planner/backend/internal/planner"
	"example.com/travel-planner/backend/internal/store"
)

type TripHandler struct {
	Planner *planner.Planner
	Store   store.Store
}

// NewTripHandler создает обработчик планирования поездок.
func NewTripHandler(tripPlanner *planner.Planner, plans store.Store) *TripHandler {
	return &TripHandler{Planner: tripPlanner, Store: plans}
}

type PlanTripRequest struct {
	Origin             string             `json:"origin" validate:"required,max=200"`
	Destination        string             `json:"destination" validate:"required,max=200"`
	Budget             json.RawMessage    `json:"budget" validate:"required"`
	Currency           string             `json:"currency" validate:"required,max=10"`
	TravelDate         string             `json:"travel_date" validate:"required"`
	Travelers          int                `json:"travelers" validate:"gt=0"`
	Tier               string             `json:"tier" validate:"required_without=Allocation,max=20"`
	Allocation         *AllocationRequest `json:"allocation"`
	TransportationMode string             `json:"transportation_mode" validate:"max=20"`
}

type AllocationRequest struct {
	Transportation int `json:"transportation" validate:"gte=0,lte=100"`
	Lodging        int `json:"lodging" validate:"gte=0,lte=100"`
	Activities     int `json:"activities" validate:"gte=0,lte=100"`
}

type PlanTripResponse struct {
	Itinerary models.Itinerary `json:"itinerary"`
	Saved     bool             `json:"saved"`
	SaveError string           `json:"save_error,omitempty"`
}

type TripListResponse struct {
	Itineraries []models.Itinerary `json:"itineraries"`
	Skipped     int                `json:"skipped"`
}

var stageLabels = map[models.Category]string{
	models.CategoryTransportation: "transportation",
	models.CategoryLodging:        "hotel",
	models.CategoryActivities:     "activities",
}

// Plan собирает маршрут по запросу пользователя.
func (h *TripHandler) Plan(c echo.Context) error {
	var req PlanTripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tripRequest, err := toTripRequest(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	outcome, err := h.Planner.Plan(c.Request().Context(), tripRequest)
	if err != nil {
		return planError(c, err)
	}

	response := PlanTripResponse{Itinerary: outcome.Itinerary, Saved: outcome.Saved}
	if outcome.SaveErr != nil {
		response.SaveError = "failed to save travel plan"
	}

	return c.JSON(http.StatusCreated, response)
}

// List возвращает все сохраненные маршруты в порядке создания.
func (h *TripHandler) List(c echo.Context) error {
	result, err := h.Store.LoadAll(c.Request().Context())
	if err != nil {
		slog.Error("failed to load itineraries", slog.String("error", err.Error()))
		return serverError(c)
	}

	return c.JSON(http.StatusOK, TripListResponse{Itineraries: result.Itineraries, Skipped: len(result.Skipped)})
}

// Get возвращает маршрут по идентификатору.
func (h *TripHandler) Get(c echo.Context) error {
	itinerary, ok, err := h.find(c)
	if !ok {
		return err
	}

	return c.JSON(http.StatusOK, itinerary)
}

// find загружает маршрут из параметра :id. Если ok == false, ответ с ошибкой уже записан.
func (h *TripHandler) find(c echo.Context) (models.Itinerary, bool, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return models.Itinerary{}, false, badRequest(c, "invalid itinerary id")
	}

	itinerary, err := store.Find(c.Request().Context(), h.Store, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Itinerary{}, false, notFound(c, "itinerary not found")
		}
		slog.Error("failed to load itinerary", slog.String("id", id.String()), slog.String("error", err.Error()))
		return models.Itinerary{}, false, serverError(c)
	}

	return itinerary, true, nil
}

func toTripRequest(req PlanTripRequest) (models.TripRequest, error) {
	budget, err := parseBudget(req.Budget)
	if err != nil {
		return models.TripRequest{}, err
	}

	request := models.TripRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Budget:      budget,
		Currency:    req.Currency,
		TravelDate:  req.TravelDate,
		Travelers:   req.Travelers,
		Tier:        models.Tier(req.Tier),
	}

	if req.Allocation != nil {
		request.Percentages = &models.Percentages{
			Transportation: req.Allocation.Transportation,
			Lodging:        req.Allocation.Lodging,
			Activities:     req.Allocation.Activities,
		}
	}

	if mode := strings.TrimSpace(req.TransportationMode); mode != "" {
		value := models.TransportMode(mode)
		request.TransportMode = &value
	}

	return request, nil
}

// parseBudget принимает бюджет числом или строкой.
func parseBudget(raw json.RawMessage) (decimal.Decimal, error) {
	var budget decimal.Decimal
	if err := budget.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, errors.New("budget must be a valid number")
	}
	if !models.AmountInRange(budget) {
		return decimal.Zero, errors.New("budget is out of range")
	}
	if !budget.IsPositive() {
		return decimal.Zero, errors.New("budget must be greater than 0")
	}

	return budget, nil
}

func planError(c echo.Context, err error) error {
	if errors.Is(err, planner.ErrInvalidRequest) {
		return badRequest(c, err.Error())
	}

	var stageErr *planner.StageError
	if errors.As(err, &stageErr) {
		return badGateway(c, "error retrieving "+stageLabels[stageErr.Stage]+" details")
	}

	slog.Error("trip planning failed", slog.String("error", err.Error()))
	return serverError(c)
}
