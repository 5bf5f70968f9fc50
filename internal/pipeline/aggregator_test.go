package pipeline

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/marketpulse/internal/narrative"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeResolver serves canned snapshots and fails for listed symbols
type fakeResolver struct {
	snapshots map[string]models.MarketSnapshot
	failing   map[string]bool
	calls     []string
}

func (f *fakeResolver) Resolve(_ context.Context, symbol string) (models.MarketSnapshot, error) {
	f.calls = append(f.calls, symbol)
	if f.failing[symbol] {
		return models.MarketSnapshot{}, fmt.Errorf("%w: %s", models.ErrDataUnavailable, symbol)
	}
	if snap, ok := f.snapshots[symbol]; ok {
		return snap, nil
	}
	return models.MarketSnapshot{}, fmt.Errorf("%w: %s", models.ErrDataUnavailable, symbol)
}

func snapshotUp(pct string) models.MarketSnapshot {
	return models.MarketSnapshot{
		LastClose:     decimal.NewFromInt(100),
		PreviousClose: decimal.NewFromInt(99),
		PctChange:     decimal.RequireFromString(pct),
		Trend:         models.TrendUp,
	}
}

func instrument(symbol, sector string) models.Instrument {
	return models.Instrument{Symbol: symbol, DisplayName: symbol, Sector: sector}
}

func matchOf(symbol, sector string) models.MatchResult {
	return models.MatchResult{Instrument: instrument(symbol, sector), MatchedAlias: symbol}
}

func item(headline string) models.NewsItem {
	return models.NewsItem{Headline: headline, Link: "https://example.com/" + headline}
}

func newTestAggregator(resolver SnapshotResolver, maxRecords int) *Aggregator {
	return NewAggregator(resolver, narrative.NewNarrator(1.5), maxRecords)
}

func TestAggregator_DedupFirstMatchWins(t *testing.T) {
	resolver := &fakeResolver{snapshots: map[string]models.MarketSnapshot{
		"TCS.NS":  snapshotUp("1.0"),
		"INFY.NS": snapshotUp("0.5"),
	}}
	a := newTestAggregator(resolver, 15)

	ctx := context.Background()
	a.Consume(ctx, item("TCS wins large deal"), models.SentimentPositive, []models.MatchResult{matchOf("TCS.NS", "IT")})
	a.Consume(ctx, item("TCS and Infosys in focus"), models.SentimentNeutral, []models.MatchResult{
		matchOf("TCS.NS", "IT"),
		matchOf("INFY.NS", "IT"),
	})

	records := a.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "TCS.NS", records[0].Instrument.Symbol)
	assert.Equal(t, "INFY.NS", records[1].Instrument.Symbol)

	// First occurrence retained: the TCS record keeps the first headline.
	assert.Equal(t, "TCS wins large deal", records[0].Headline)
	assert.Equal(t, models.SentimentPositive, records[0].Sentiment)
}

func TestAggregator_FailedResolutionSkipsInstrumentNotItem(t *testing.T) {
	resolver := &fakeResolver{
		snapshots: map[string]models.MarketSnapshot{"INFY.NS": snapshotUp("0.5")},
		failing:   map[string]bool{"TCS.NS": true},
	}
	a := newTestAggregator(resolver, 15)

	a.Consume(context.Background(), item("IT stocks rally"), models.SentimentPositive, []models.MatchResult{
		matchOf("TCS.NS", "IT"),
		matchOf("INFY.NS", "IT"),
	})

	records := a.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "INFY.NS", records[0].Instrument.Symbol)

	// Failed symbol is not marked seen, so a later item may retry it.
	resolver.failing["TCS.NS"] = false
	resolver.snapshots["TCS.NS"] = snapshotUp("1.0")
	a.Consume(context.Background(), item("TCS rebounds"), models.SentimentPositive, []models.MatchResult{matchOf("TCS.NS", "IT")})
	require.Len(t, a.Records(), 2)
}

func TestAggregator_RecordCap(t *testing.T) {
	resolver := &fakeResolver{snapshots: map[string]models.MarketSnapshot{
		"A.NS": snapshotUp("1.0"),
		"B.NS": snapshotUp("1.0"),
		"C.NS": snapshotUp("1.0"),
	}}
	a := newTestAggregator(resolver, 2)

	ctx := context.Background()
	a.Consume(ctx, item("one"), models.SentimentNeutral, []models.MatchResult{matchOf("A.NS", "IT")})
	a.Consume(ctx, item("two"), models.SentimentNeutral, []models.MatchResult{matchOf("B.NS", "Auto")})
	a.Consume(ctx, item("three"), models.SentimentNeutral, []models.MatchResult{matchOf("C.NS", "Pharma")})

	assert.True(t, a.Full())
	assert.Len(t, a.Records(), 2)
	// The capped item never reached the resolver.
	assert.NotContains(t, resolver.calls, "C.NS")

	// Sector tally still counts items consumed after the cap.
	tally := a.TopSectors(10)
	sectors := make([]string, 0, len(tally))
	for _, s := range tally {
		sectors = append(sectors, s.Sector)
	}
	assert.Contains(t, sectors, "Pharma")
}

func TestAggregator_SectorTallyPerItemNotPerInstrument(t *testing.T) {
	resolver := &fakeResolver{snapshots: map[string]models.MarketSnapshot{}}
	a := newTestAggregator(resolver, 15)

	ctx := context.Background()
	// One item matching two Banking instruments counts Banking once.
	a.Consume(ctx, item("banks rally"), models.SentimentPositive, []models.MatchResult{
		matchOf("HDFCBANK.NS", "Banking"),
		matchOf("ICICIBANK.NS", "Banking"),
	})

	tally := a.TopSectors(10)
	require.Len(t, tally, 1)
	assert.Equal(t, "Banking", tally[0].Sector)
	assert.Equal(t, 1, tally[0].Hits)
}

func TestAggregator_TopSectorsRanking(t *testing.T) {
	resolver := &fakeResolver{snapshots: map[string]models.MarketSnapshot{}}
	a := newTestAggregator(resolver, 15)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		a.Consume(ctx, item(fmt.Sprintf("bank news %d", i)), models.SentimentNeutral,
			[]models.MatchResult{matchOf("SBIN.NS", "Banking")})
	}
	for i := 0; i < 5; i++ {
		a.Consume(ctx, item(fmt.Sprintf("it news %d", i)), models.SentimentNeutral,
			[]models.MatchResult{matchOf("TCS.NS", "IT")})
	}
	a.Consume(ctx, item("pharma news"), models.SentimentNeutral,
		[]models.MatchResult{matchOf("CIPLA.NS", "Pharma")})

	tally := a.TopSectors(2)
	require.Len(t, tally, 2)
	assert.Equal(t, models.SectorHits{Sector: "IT", Hits: 5}, tally[0])
	assert.Equal(t, models.SectorHits{Sector: "Banking", Hits: 3}, tally[1])
}

func TestAggregator_TiesBreakByFirstSeen(t *testing.T) {
	resolver := &fakeResolver{snapshots: map[string]models.MarketSnapshot{}}
	a := newTestAggregator(resolver, 15)

	ctx := context.Background()
	a.Consume(ctx, item("energy news"), models.SentimentNeutral,
		[]models.MatchResult{matchOf("RELIANCE.NS", "Energy")})
	a.Consume(ctx, item("it news"), models.SentimentNeutral,
		[]models.MatchResult{matchOf("INFY.NS", "IT")})

	tally := a.TopSectors(10)
	require.Len(t, tally, 2)
	assert.Equal(t, "Energy", tally[0].Sector)
	assert.Equal(t, "IT", tally[1].Sector)
}
