package planner

import (
	"fmt"

	"example.com/travel-planner/backend/internal/models"
)

// TransportQuery формирует запрос на поиск билетов.
func TransportQuery(request models.TripRequest) string {
	mode := models.TransportFlight
	if request.TransportMode != nil {
		mode = *request.TransportMode
	}

	return fmt.Sprintf(
		"Find %s ticket booking options from %s to %s on %s within a budget of %s %s. Provide direct booking links.",
		mode, request.Origin, request.Destination, request.TravelDate, request.Budget.String(), request.Currency,
	)
}

// LodgingQuery формирует запрос на поиск отелей.
func LodgingQuery(request models.TripRequest) string {
	return fmt.Sprintf(
		"Find hotels in %s within budget %s %s. Provide booking links.",
		request.Destination, request.Budget.String(), request.Currency,
	)
}

// ActivitiesQuery формирует запрос на поиск развлечений.
func ActivitiesQuery(request models.TripRequest) string {
	return fmt.Sprintf(
		"Suggest activities in %s for a traveler. Provide booking links if available.",
		request.Destination,
	)
}
