package planner

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"example.com/travel-planner/backend/internal/models"
	"example.com/travel-planner/backend/internal/search"
)

var unknownTitles = map[models.Category]string{
	models.CategoryTransportation: "Unknown Option",
	models.CategoryLodging:        "Unknown Hotel",
	models.CategoryActivities:     "Unknown Activity",
}

var currencySymbols = []string{"$", "₹"}

// Normalize приводит сырые результаты поиска к списку ровно из пяти вариантов.
func Normalize(results []search.Result, currencyCode string, category models.Category) models.OptionList {
	options := make([]models.Option, 0, models.OptionListSize)
	for _, result := range results {
		if len(options) == models.OptionListSize {
			break
		}
		if category == models.CategoryTransportation && !isBookable(result) {
			continue
		}

		options = append(options, toOption(result, currencyCode, category))
	}

	return models.NewOptionList(options)
}

func isBookable(result search.Result) bool {
	return strings.Contains(strings.ToLower(result.Title), "ticket") ||
		strings.Contains(strings.ToLower(result.URL), "booking")
}

func toOption(result search.Result, currencyCode string, category models.Category) models.Option {
	title := strings.TrimSpace(result.Title)
	if title == "" {
		title = unknownTitles[category]
	}

	url := strings.TrimSpace(result.URL)
	if url == "" {
		url = models.PlaceholderURL
	}

	return models.Option{
		Title: title,
		URL:   url,
		Price: ParsePrice(result.Price, currencyCode),
	}
}

// ParsePrice убирает символ и код валюты и разбирает цену; при неудаче возвращает заглушку.
func ParsePrice(raw *string, currencyCode string) models.Price {
	if raw == nil {
		return models.UnavailablePrice()
	}

	text := *raw
	for _, symbol := range currencySymbols {
		text = strings.ReplaceAll(text, symbol, "")
	}
	if code := strings.TrimSpace(currencyCode); code != "" {
		text = regexp.MustCompile("(?i)"+regexp.QuoteMeta(code)).ReplaceAllString(text, "")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.UnavailablePrice()
	}

	amount, err := decimal.NewFromString(text)
	if err != nil || !models.AmountInRange(amount) {
		return models.UnavailablePrice()
	}

	return models.PriceOf(amount)
}
