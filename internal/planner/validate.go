package planner

import (
	"strings"
	"time"

	"example.com/travel-planner/backend/internal/budget"
	"example.com/travel-planner/backend/internal/currency"
	"example.com/travel-planner/backend/internal/models"
)

const DateLayout = "2006-01-02"

// ParseTravelDate разбирает дату поездки и отклоняет даты раньше сегодняшней.
func ParseTravelDate(value string, now time.Time) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), now.Location())
	if err != nil {
		return time.Time{}, invalid("travel date must use YYYY-MM-DD")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return time.Time{}, invalid("travel date has already passed")
	}

	return date, nil
}

// SamePlace сообщает, указывают ли откуда и куда на одно и то же место.
func SamePlace(origin, destination string) bool {
	return strings.EqualFold(strings.TrimSpace(origin), strings.TrimSpace(destination))
}

// Prepare проверяет запрос и возвращает его нормализованную копию.
func Prepare(request models.TripRequest, now time.Time) (models.TripRequest, error) {
	prepared := request
	prepared.Origin = strings.TrimSpace(request.Origin)
	prepared.Destination = strings.TrimSpace(request.Destination)

	if prepared.Origin == "" {
		return models.TripRequest{}, invalid("origin is required")
	}
	if prepared.Destination == "" {
		return models.TripRequest{}, invalid("destination is required")
	}
	if !models.AmountInRange(request.Budget) {
		return models.TripRequest{}, invalid("budget is out of range")
	}
	if !request.Budget.IsPositive() {
		return models.TripRequest{}, invalid("budget must be greater than 0")
	}
	if request.Travelers <= 0 {
		return models.TripRequest{}, invalid("travelers must be greater than 0")
	}

	code, err := currency.Parse(request.Currency)
	if err != nil {
		return models.TripRequest{}, invalidWrap(err)
	}
	prepared.Currency = code

	date, err := ParseTravelDate(request.TravelDate, now)
	if err != nil {
		return models.TripRequest{}, err
	}
	prepared.TravelDate = date.Format(DateLayout)

	if request.Percentages != nil {
		percentages := *request.Percentages
		prepared.Percentages = &percentages
		prepared.Tier = ""
	} else {
		tier, err := budget.ParseTier(string(request.Tier))
		if err != nil {
			return models.TripRequest{}, invalidWrap(err)
		}
		prepared.Tier = tier
	}

	mode, err := resolveTransportMode(prepared.Origin, prepared.Destination, request.TransportMode)
	if err != nil {
		return models.TripRequest{}, err
	}
	prepared.TransportMode = mode

	return prepared, nil
}

// resolveTransportMode убирает вид транспорта для поездки внутри одного места и подставляет flight по умолчанию.
func resolveTransportMode(origin, destination string, mode *models.TransportMode) (*models.TransportMode, error) {
	if SamePlace(origin, destination) {
		return nil, nil
	}

	resolved := models.TransportFlight
	if mode != nil && strings.TrimSpace(string(*mode)) != "" {
		resolved = models.TransportMode(strings.ToLower(strings.TrimSpace(string(*mode))))
	}

	switch resolved {
	case models.TransportFlight, models.TransportTrain, models.TransportBus:
		return &resolved, nil
	default:
		return nil, invalid("transportation mode must be flight, train or bus")
	}
}
