package search

import "context"

// Result описывает одну запись внешнего поиска. Price равен nil, если цена не пришла.
type Result struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Price *string `json:"price,omitempty"`
}

type Client interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

func resolveMaxResults(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxResults
}
