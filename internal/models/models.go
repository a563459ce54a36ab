package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

type Tier string

type TransportMode string

const (
	CategoryTransportation Category = "transportation"
	CategoryLodging        Category = "lodging"
	CategoryActivities     Category = "activities"

	TierLuxury Tier = "Luxury"
	TierMiddle Tier = "Middle"
	TierLow    Tier = "Low"

	TransportFlight TransportMode = "flight"
	TransportTrain  TransportMode = "train"
	TransportBus    TransportMode = "bus"
)

// Percentages задает ручное распределение бюджета в процентах.
type Percentages struct {
	Transportation int `json:"transportation"`
	Lodging        int `json:"lodging"`
	Activities     int `json:"activities"`
}

// Sum возвращает сумму трех процентов.
func (p Percentages) Sum() int {
	return p.Transportation + p.Lodging + p.Activities
}

type TripRequest struct {
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	Budget        decimal.Decimal `json:"budget"`
	Currency      string          `json:"currency"`
	TravelDate    string          `json:"travel_date"`
	Travelers     int             `json:"travelers"`
	Tier          Tier            `json:"tier,omitempty"`
	Percentages   *Percentages    `json:"allocation_percentages,omitempty"`
	TransportMode *TransportMode  `json:"transportation_mode,omitempty"`
}

type BudgetAllocation struct {
	Transportation decimal.Decimal `json:"transportation"`
	Lodging        decimal.Decimal `json:"lodging"`
	Activities     decimal.Decimal `json:"activities"`
}

// Total возвращает сумму всех категорий.
func (a BudgetAllocation) Total() decimal.Decimal {
	return a.Transportation.Add(a.Lodging).Add(a.Activities)
}

type CategoryTotals struct {
	Transportation decimal.Decimal `json:"transportation"`
	Lodging        decimal.Decimal `json:"lodging"`
	Activities     decimal.Decimal `json:"activities"`
}

type Itinerary struct {
	ID              uuid.UUID        `json:"id"`
	Request         TripRequest      `json:"request"`
	ConvertedBudget decimal.Decimal  `json:"converted_budget"`
	Allocation      BudgetAllocation `json:"allocation"`
	Transportation  *OptionList      `json:"transportation,omitempty"`
	Lodging         OptionList       `json:"lodging"`
	Activities      OptionList       `json:"activities"`
	Totals          CategoryTotals   `json:"totals"`
	PlanDetails     string           `json:"plan_details"`
	CreatedAt       time.Time        `json:"created_at"`
}
