package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	USD = "USD"
	PKR = "PKR"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// rates хранит курс каждой валюты относительно доллара.
var rates = map[string]decimal.Decimal{
	USD: decimal.NewFromInt(1),
	PKR: decimal.NewFromInt(275),
}

// Parse нормализует код валюты и проверяет, что она поддерживается.
func Parse(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := rates[normalized]; !ok {
		return "", fmt.Errorf("%w %q, expected one of %s", ErrUnsupportedCurrency, code, strings.Join(Supported(), ", "))
	}

	return normalized, nil
}

// Convert пересчитывает сумму по курсу указанной валюты.
func Convert(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	normalized, err := Parse(code)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Mul(rates[normalized]), nil
}

// Supported возвращает отсортированный список поддерживаемых валют.
func Supported() []string {
	out := make([]string, 0, len(rates))
	for code := range rates {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
