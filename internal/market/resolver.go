package market

import (
	"context"
	"fmt"

	"github.com/cinar/indicator"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

// CloseProvider returns recent daily close prices for a symbol,
// oldest first
type CloseProvider interface {
	DailyCloses(ctx context.Context, symbol string) ([]decimal.Decimal, error)
}

// Resolver computes the short-window price snapshot for an instrument.
// The percentage change always compares the last close against the prior
// trading day, never against the oldest point of the window.
type Resolver struct {
	provider  CloseProvider
	smaWindow int
}

// NewResolver creates a resolver over the given close-price provider
func NewResolver(provider CloseProvider, smaWindow int) *Resolver {
	if smaWindow < 2 {
		smaWindow = 3
	}
	return &Resolver{
		provider:  provider,
		smaWindow: smaWindow,
	}
}

var hundred = decimal.NewFromInt(100)

// Resolve returns the snapshot for a symbol. Fewer than two close
// observations, or any provider error, yields ErrDataUnavailable — the
// caller skips the instrument and continues the run.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	closes, err := r.provider.DailyCloses(ctx, symbol)
	if err != nil {
		logger.Warn("market data fetch failed",
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		return models.MarketSnapshot{}, fmt.Errorf("%w: %s: %v", models.ErrDataUnavailable, symbol, err)
	}

	if len(closes) < 2 {
		return models.MarketSnapshot{}, fmt.Errorf("%w: %s: need 2 closes, got %d",
			models.ErrDataUnavailable, symbol, len(closes))
	}

	last := closes[len(closes)-1]
	prev := closes[len(closes)-2]
	if prev.IsZero() {
		return models.MarketSnapshot{}, fmt.Errorf("%w: %s: zero previous close", models.ErrDataUnavailable, symbol)
	}

	pctChange := last.Sub(prev).Div(prev).Mul(hundred).Round(2)

	snapshot := models.MarketSnapshot{
		LastClose:     last,
		PreviousClose: prev,
		PctChange:     pctChange,
		Trend:         trendOf(pctChange),
		AboveShortSMA: r.aboveSMA(closes, last),
	}

	return snapshot, nil
}

// trendOf labels the direction of the change
func trendOf(pctChange decimal.Decimal) models.Trend {
	switch pctChange.Sign() {
	case 1:
		return models.TrendUp
	case -1:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

// aboveSMA reports whether the last close sits above the short moving
// average. Advisory only: it never feeds the trend label or the narrator.
func (r *Resolver) aboveSMA(closes []decimal.Decimal, last decimal.Decimal) bool {
	if len(closes) < r.smaWindow {
		return false
	}

	values := make([]float64, len(closes))
	for i, c := range closes {
		values[i], _ = c.Float64()
	}

	sma := indicator.Sma(r.smaWindow, values)
	lastFloat, _ := last.Float64()

	return lastFloat > sma[len(sma)-1]
}
