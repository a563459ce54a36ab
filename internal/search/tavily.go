package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultMaxResults = 10

// TavilyClient calls the Tavily web search API.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results,omitempty"`
	SearchDepth string `json:"search_depth,omitempty"`
}

type tavilyResult struct {
	Title string          `json:"title"`
	URL   string          `json:"url"`
	Price json.RawMessage `json:"price,omitempty"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
	Detail  *struct {
		Error string `json:"error"`
	} `json:"detail,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewTavilyClient создает клиент Tavily с заданными параметрами.
func NewTavilyClient(apiKey, baseURL string, timeout time.Duration, maxResults int) *TavilyClient {
	trimmedURL := strings.TrimRight(baseURL, "/")
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    trimmedURL,
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search отправляет текстовый запрос в Tavily и возвращает найденные записи.
func (c *TavilyClient) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, errors.New("tavily api key is missing")
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is empty")
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:       query,
		MaxResults:  resolveMaxResults(c.maxResults),
		SearchDepth: "basic",
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/search", c.baseURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var apiErr tavilyResponse
		if err := json.Unmarshal(body, &apiErr); err == nil {
			if apiErr.Detail != nil && apiErr.Detail.Error != "" {
				return nil, fmt.Errorf("tavily api error: %s", apiErr.Detail.Error)
			}
			if apiErr.Error != "" {
				return nil, fmt.Errorf("tavily api error: %s", apiErr.Error)
			}
		}
		return nil, fmt.Errorf("tavily api error: status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		results = append(results, Result{
			Title: item.Title,
			URL:   item.URL,
			Price: rawPrice(item.Price),
		})
	}

	return results, nil
}

// rawPrice принимает цену строкой или числом и возвращает ее текст.
func rawPrice(raw json.RawMessage) *string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return &text
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err == nil {
		value := number.String()
		return &value
	}

	return nil
}
