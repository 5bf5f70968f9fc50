package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selivandex/marketpulse/pkg/models"
)

// YahooProvider fetches daily close prices from the Yahoo Finance chart API
// (free, no API key needed)
type YahooProvider struct {
	baseURL  string
	dayRange string
	cacheTTL time.Duration
	client   *http.Client
	cache    map[string]cachedCloses
}

type cachedCloses struct {
	timestamp time.Time
	closes    []decimal.Decimal
}

// NewYahooProvider creates a Yahoo close-price provider. dayRange is the
// chart range parameter, e.g. "5d".
func NewYahooProvider(baseURL, dayRange string, timeout, cacheTTL time.Duration) *YahooProvider {
	return &YahooProvider{
		baseURL:  baseURL,
		dayRange: dayRange,
		cacheTTL: cacheTTL,
		client:   &http.Client{Timeout: timeout},
		cache:    make(map[string]cachedCloses),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses returns the recent daily close series for a symbol, oldest
// first. Null closes (holidays, halted sessions) are dropped.
func (y *YahooProvider) DailyCloses(ctx context.Context, symbol string) ([]decimal.Decimal, error) {
	if cached, ok := y.cache[symbol]; ok {
		if time.Since(cached.timestamp) < y.cacheTTL {
			return cached.closes, nil
		}
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		y.baseURL, url.PathEscape(symbol), y.dayRange)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "marketpulse/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", symbol, result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no chart data for %s", models.ErrDataUnavailable, symbol)
	}

	raw := result.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]decimal.Decimal, 0, len(raw))
	for _, c := range raw {
		if c == nil {
			continue
		}
		closes = append(closes, decimal.NewFromFloat(*c))
	}

	y.cache[symbol] = cachedCloses{
		closes:    closes,
		timestamp: time.Now(),
	}

	return closes, nil
}
