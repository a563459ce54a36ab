package budget

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"example.com/travel-planner/backend/internal/models"
)

var (
	ErrPercentageSum = errors.New("percentages must sum to 100")
	ErrPercentage    = errors.New("percentage must be between 0 and 100")
	ErrUnknownTier   = errors.New("unknown trip tier")
)

var hundred = decimal.NewFromInt(100)

// Policy распределяет общий бюджет по категориям поездки.
type Policy interface {
	Allocate(total decimal.Decimal) (models.BudgetAllocation, error)
}

type shares struct {
	transportation decimal.Decimal
	lodging        decimal.Decimal
	activities     decimal.Decimal
}

var tierShares = map[models.Tier]shares{
	models.TierLuxury: {decimal.RequireFromString("0.5"), decimal.RequireFromString("0.3"), decimal.RequireFromString("0.2")},
	models.TierMiddle: {decimal.RequireFromString("0.4"), decimal.RequireFromString("0.4"), decimal.RequireFromString("0.2")},
	models.TierLow:    {decimal.RequireFromString("0.3"), decimal.RequireFromString("0.5"), decimal.RequireFromString("0.2")},
}

// ParseTier разбирает название уровня поездки без учета регистра.
func ParseTier(value string) (models.Tier, error) {
	trimmed := strings.TrimSpace(value)
	for tier := range tierShares {
		if strings.EqualFold(string(tier), trimmed) {
			return tier, nil
		}
	}

	return "", ErrUnknownTier
}

type TierPolicy struct {
	Tier models.Tier
}

// Allocate делит бюджет по фиксированным долям уровня поездки.
func (p TierPolicy) Allocate(total decimal.Decimal) (models.BudgetAllocation, error) {
	tier, err := ParseTier(string(p.Tier))
	if err != nil {
		return models.BudgetAllocation{}, err
	}

	s := tierShares[tier]
	return models.BudgetAllocation{
		Transportation: total.Mul(s.transportation),
		Lodging:        total.Mul(s.lodging),
		Activities:     total.Mul(s.activities),
	}, nil
}

type PercentagePolicy struct {
	Percentages models.Percentages
}

// Allocate делит бюджет по процентам пользователя; при сумме, отличной от 100, все суммы нулевые.
func (p PercentagePolicy) Allocate(total decimal.Decimal) (models.BudgetAllocation, error) {
	for _, value := range []int{p.Percentages.Transportation, p.Percentages.Lodging, p.Percentages.Activities} {
		if value < 0 || value > 100 {
			return zeroAllocation(), ErrPercentage
		}
	}

	if p.Percentages.Sum() != 100 {
		return zeroAllocation(), ErrPercentageSum
	}

	return models.BudgetAllocation{
		Transportation: share(total, p.Percentages.Transportation),
		Lodging:        share(total, p.Percentages.Lodging),
		Activities:     share(total, p.Percentages.Activities),
	}, nil
}

// PolicyFor выбирает процентную политику, если проценты заданы, иначе политику уровня.
func PolicyFor(request models.TripRequest) Policy {
	if request.Percentages != nil {
		return PercentagePolicy{Percentages: *request.Percentages}
	}

	return TierPolicy{Tier: request.Tier}
}

func share(total decimal.Decimal, percent int) decimal.Decimal {
	return total.Mul(decimal.NewFromInt(int64(percent))).Div(hundred)
}

func zeroAllocation() models.BudgetAllocation {
	return models.BudgetAllocation{
		Transportation: decimal.Zero,
		Lodging:        decimal.Zero,
		Activities:     decimal.Zero,
	}
}
