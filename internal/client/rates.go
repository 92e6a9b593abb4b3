package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// RatesClient fetches exchange rates relative to a base currency.
type RatesClient interface {
	FetchRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

type ratesClientImpl struct {
	httpClient *http.Client
	url        string
}

func NewRatesClient(url string) RatesClient {
	return &ratesClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		url: url,
	}
}

func (c *ratesClientImpl) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rates api error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}
	if len(result.Rates) == 0 {
		return nil, fmt.Errorf("rates response has no rates")
	}

	return result.Rates, nil
}
