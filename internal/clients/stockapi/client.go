// Package stockapi fetches the ticker universe and price histories from the stock data service.
package stockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/domain"
)

// DefaultTimeout bounds every upstream request
const DefaultTimeout = 10 * time.Second

// Client for the stock data service.
// Every failure is logged and degraded to an empty result; retries belong to the next refresh.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new stock data service client
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "stockapi").Logger(),
	}
}

// GetStocks returns the ticker universe in the order the service lists it
func (c *Client) GetStocks(ctx context.Context) []domain.Stock {
	body, err := c.get(ctx, c.baseURL+"/stocks")
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to fetch stock universe")
		return []domain.Stock{}
	}

	var envelope struct {
		Stocks json.RawMessage `json:"stocks"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.log.Warn().Err(err).Msg("Failed to parse stock universe")
		return []domain.Stock{}
	}

	stocks, err := decodeUniverse(envelope.Stocks)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to parse stock universe")
		return []domain.Stock{}
	}

	c.log.Debug().Int("count", len(stocks)).Msg("Fetched stock universe")
	return stocks
}

// GetPriceHistory returns the price points for ticker over the window, oldest first
func (c *Client) GetPriceHistory(ctx context.Context, ticker string, window domain.TimeWindow) []domain.PricePoint {
	u := fmt.Sprintf("%s/stocks/%s?minutes=%d", c.baseURL, url.PathEscape(ticker), window.Minutes())

	body, err := c.get(ctx, u)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Int("minutes", window.Minutes()).
			Msg("Failed to fetch price history")
		return []domain.PricePoint{}
	}

	points, err := decodeHistory(body)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to parse price history")
		return []domain.PricePoint{}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].ObservedAt.Before(points[j].ObservedAt)
	})

	c.log.Debug().Str("ticker", ticker).Int("points", len(points)).Msg("Fetched price history")
	return points
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// decodeUniverse walks the {"Display Name": "TICKER"} object token by token so key order survives.
// Duplicate tickers keep their first display name.
func decodeUniverse(raw json.RawMessage) ([]domain.Stock, error) {
	stocks := []domain.Stock{}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return stocks, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object for stocks, got %v", tok)
	}

	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)

		var ticker string
		if err := dec.Decode(&ticker); err != nil {
			return nil, fmt.Errorf("ticker for %q: %w", name, err)
		}
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		stocks = append(stocks, domain.Stock{Name: name, Ticker: ticker})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return stocks, nil
}

// decodeHistory accepts either a JSON array of points or the {"stock": {...}} single-point form.
func decodeHistory(body []byte) ([]domain.PricePoint, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	if trimmed[0] == '[' {
		var points []domain.PricePoint
		if err := json.Unmarshal(trimmed, &points); err != nil {
			return nil, err
		}
		if points == nil {
			points = []domain.PricePoint{}
		}
		return points, nil
	}

	var single struct {
		Stock *domain.PricePoint `json:"stock"`
	}
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	if single.Stock == nil {
		return []domain.PricePoint{}, nil
	}
	return []domain.PricePoint{*single.Stock}, nil
}
