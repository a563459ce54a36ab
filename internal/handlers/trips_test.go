package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"example.com/travel-planner/backend/internal/models"
	"example.com/travel-planner/backend/internal/planner"
)

// TestParseBudget проверяет разбор бюджета числом и строкой.
func TestParseBudget(t *testing.T) {
	value, err := parseBudget(json.RawMessage(`50000`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if value.String() != "50000" {
		t.Fatalf("unexpected budget: %s", value)
	}

	value, err = parseBudget(json.RawMessage(`"1250.75"`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if value.String() != "1250.75" {
		t.Fatalf("unexpected budget: %s", value)
	}
}

// TestParseBudgetInvalid проверяет ошибки разбора бюджета.
func TestParseBudgetInvalid(t *testing.T) {
	if _, err := parseBudget(json.RawMessage(`"abc"`)); err == nil {
		t.Fatal("expected error for non-numeric budget")
	}

	if _, err := parseBudget(json.RawMessage(`0`)); err == nil {
		t.Fatal("expected error for zero budget")
	}

	if _, err := parseBudget(json.RawMessage(`-10`)); err == nil {
		t.Fatal("expected error for negative budget")
	}

	for _, raw := range []string{`1e30000000`, `"1e30000000"`, `1e-30000000`, `12345678901234567890`} {
		if _, err := parseBudget(json.RawMessage(raw)); err == nil {
			t.Fatalf("expected error for out of range budget %s", raw)
		}
	}
}

// TestToTripRequest проверяет перенос полей запроса в модель.
func TestToTripRequest(t *testing.T) {
	req := PlanTripRequest{
		Origin:             "Karachi",
		Destination:        "Lahore",
		Budget:             json.RawMessage(`3000`),
		Currency:           "usd",
		TravelDate:         "2026-11-01",
		Travelers:          2,
		Allocation:         &AllocationRequest{Transportation: 30, Lodging: 50, Activities: 20},
		TransportationMode: " train ",
	}

	result, err := toTripRequest(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Percentages == nil || result.Percentages.Sum() != 100 {
		t.Fatalf("unexpected percentages: %+v", result.Percentages)
	}
	if result.TransportMode == nil || *result.TransportMode != models.TransportMode("train") {
		t.Fatalf("unexpected transport mode: %v", result.TransportMode)
	}
	if result.Travelers != 2 {
		t.Fatalf("unexpected travelers: %d", result.Travelers)
	}
}

// TestToTripRequestWithoutMode проверяет, что пустой режим транспорта не задается.
func TestToTripRequestWithoutMode(t *testing.T) {
	result, err := toTripRequest(PlanTripRequest{Budget: json.RawMessage(`100`), Tier: "Luxury"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.TransportMode != nil {
		t.Fatalf("expected nil transport mode, got %v", *result.TransportMode)
	}
	if result.Percentages != nil {
		t.Fatal("expected nil percentages")
	}
}

// TestPlanErrorMapping проверяет коды ответа для ошибок планирования.
func TestPlanErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "invalid request",
			err:    errors.Join(planner.ErrInvalidRequest, errors.New("budget must be greater than 0")),
			status: http.StatusBadRequest,
		},
		{
			name:   "lodging stage",
			err:    &planner.StageError{Stage: models.CategoryLodging, Err: errors.New("timeout")},
			status: http.StatusBadGateway,
			body:   "error retrieving hotel details",
		},
		{
			name:   "transport stage",
			err:    &planner.StageError{Stage: models.CategoryTransportation, Err: errors.New("timeout")},
			status: http.StatusBadGateway,
			body:   "error retrieving transportation details",
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			if err := planError(c, tc.err); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}

			if tc.body == "" {
				return
			}
			var payload map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if payload["error"] != tc.body {
				t.Fatalf("expected %q, got %q", tc.body, payload["error"])
			}
		})
	}
}
