package planner

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"example.com/travel-planner/backend/internal/models"
)

// Render строит текстовое представление маршрута. Вывод детерминирован.
func Render(itinerary models.Itinerary) string {
	request := itinerary.Request
	code := request.Currency
	allocation := itinerary.Allocation

	var b strings.Builder
	fmt.Fprintf(&b, "Trip: %s -> %s on %s\n", request.Origin, request.Destination, request.TravelDate)
	fmt.Fprintf(&b, "Travelers: %d\n", request.Travelers)
	fmt.Fprintf(&b, "Total budget: %s\n", money(request.Budget, code))
	fmt.Fprintf(&b, "Transportation budget: %s\n", money(allocation.Transportation, code))
	fmt.Fprintf(&b, "Hotel budget: %s\n", money(allocation.Lodging, code))
	fmt.Fprintf(&b, "Activities budget: %s\n", money(allocation.Activities, code))

	if itinerary.Transportation != nil {
		writeSection(&b, "Transportation Options", "Total Transportation Cost", *itinerary.Transportation, itinerary.Totals.Transportation, code)
	}
	writeSection(&b, "Hotels", "Total Hotel Cost", itinerary.Lodging, itinerary.Totals.Lodging, code)
	writeSection(&b, "Activities", "Total Activities Cost", itinerary.Activities, itinerary.Totals.Activities, code)

	return b.String()
}

func writeSection(b *strings.Builder, heading, totalLabel string, options models.OptionList, total decimal.Decimal, code string) {
	fmt.Fprintf(b, "\n%s:\n", heading)
	for i, option := range options {
		fmt.Fprintf(b, "%d. %s\n", i+1, option.Title)
		fmt.Fprintf(b, "   Link: %s\n", option.URL)
		fmt.Fprintf(b, "   Price: %s\n", option.Price)
	}
	fmt.Fprintf(b, "%s: %s\n", totalLabel, money(total, code))
}

func money(amount decimal.Decimal, code string) string {
	return amount.StringFixed(2) + " " + code
}
