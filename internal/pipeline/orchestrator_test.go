package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/marketpulse/internal/market"
	"github.com/selivandex/marketpulse/internal/narrative"
	"github.com/selivandex/marketpulse/internal/sentiment"
	"github.com/selivandex/marketpulse/internal/universe"
	"github.com/selivandex/marketpulse/pkg/models"
)

type fakeUniverseSource struct {
	rows []universe.Row
	err  error
}

func (f *fakeUniverseSource) FetchRows(context.Context) ([]universe.Row, error) {
	return f.rows, f.err
}

type fakeNewsSource struct {
	items []models.NewsItem
	err   error
}

func (f *fakeNewsSource) FetchItems(_ context.Context, limit int) ([]models.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

type fakeCloseProvider struct {
	closes map[string][]decimal.Decimal
}

func (f *fakeCloseProvider) DailyCloses(_ context.Context, symbol string) ([]decimal.Decimal, error) {
	series, ok := f.closes[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	return series, nil
}

func closes(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func newOrchestrator(us UniverseSource, ns NewsSource, cp market.CloseProvider, opts Options) *Orchestrator {
	return NewOrchestrator(
		us,
		ns,
		universe.NewNormalizer([]string{"ltd", "limited", "industries", "bank"}, 4),
		sentiment.NewClassifier(sentiment.NewAnalyzer(), sentiment.DefaultThreshold),
		market.NewResolver(cp, 3),
		narrative.NewNarrator(1.5),
		opts,
	)
}

func defaultOpts() Options {
	return Options{MaxHeadlines: 100, MaxRecords: 15, TopSectors: 10}
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	universeSource := &fakeUniverseSource{rows: []universe.Row{
		{CompanyName: "Reliance Industries Limited", Symbol: "RELIANCE.NS", Sector: "Energy"},
		{CompanyName: "Infosys Limited", Symbol: "INFY.NS", Sector: "IT"},
	}}
	newsSource := &fakeNewsSource{items: []models.NewsItem{
		{Headline: "Reliance shares jump on strong earnings", Link: "https://example.com/1"},
		{Headline: "Infosys faces headwinds amid slowdown", Link: "https://example.com/2"},
	}}
	closeProvider := &fakeCloseProvider{closes: map[string][]decimal.Decimal{
		"RELIANCE.NS": closes(2500, 2550),
		"INFY.NS":     closes(1480, 1450),
	}}

	o := newOrchestrator(universeSource, newsSource, closeProvider, defaultOpts())

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Records, 2)
	assert.Equal(t, 2, report.ItemsScanned)
	assert.False(t, report.FallbackUsed)

	rel := report.Records[0]
	assert.Equal(t, "RELIANCE.NS", rel.Instrument.Symbol)
	assert.Equal(t, "2.00", rel.Snapshot.PctChange.StringFixed(2))
	assert.Equal(t, models.TrendUp, rel.Snapshot.Trend)
	assert.Equal(t, models.SentimentPositive, rel.Sentiment)
	assert.NotEmpty(t, rel.Narrative)

	infy := report.Records[1]
	assert.Equal(t, "INFY.NS", infy.Instrument.Symbol)
	assert.Equal(t, "-2.03", infy.Snapshot.PctChange.StringFixed(2))
	assert.Equal(t, models.TrendDown, infy.Snapshot.Trend)

	require.Len(t, report.TopSectors, 2)
	assert.Equal(t, models.SectorHits{Sector: "Energy", Hits: 1}, report.TopSectors[0])
	assert.Equal(t, models.SectorHits{Sector: "IT", Hits: 1}, report.TopSectors[1])
}

func TestOrchestrator_MissingDataOmitsRecordOnly(t *testing.T) {
	universeSource := &fakeUniverseSource{rows: []universe.Row{
		{CompanyName: "Reliance Industries Limited", Symbol: "RELIANCE.NS", Sector: "Energy"},
		{CompanyName: "Infosys Limited", Symbol: "INFY.NS", Sector: "IT"},
	}}
	newsSource := &fakeNewsSource{items: []models.NewsItem{
		{Headline: "Reliance shares jump on strong earnings"},
		{Headline: "Infosys faces headwinds amid slowdown"},
	}}
	// Only one observation for INFY: its record must be omitted entirely.
	closeProvider := &fakeCloseProvider{closes: map[string][]decimal.Decimal{
		"RELIANCE.NS": closes(2500, 2550),
		"INFY.NS":     closes(1450),
	}}

	o := newOrchestrator(universeSource, newsSource, closeProvider, defaultOpts())

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, "RELIANCE.NS", report.Records[0].Instrument.Symbol)

	// The IT sector still shows in the tally: the headline touched it.
	require.Len(t, report.TopSectors, 2)
}

func TestOrchestrator_UniverseFallback(t *testing.T) {
	universeSource := &fakeUniverseSource{err: models.ErrSourceUnavailable}
	newsSource := &fakeNewsSource{items: []models.NewsItem{
		{Headline: "Reliance shares jump on strong earnings"},
	}}
	closeProvider := &fakeCloseProvider{closes: map[string][]decimal.Decimal{
		"RELIANCE.NS": closes(2500, 2550),
	}}

	o := newOrchestrator(universeSource, newsSource, closeProvider, defaultOpts())

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.FallbackUsed)
	require.Len(t, report.Records, 1)
	assert.Equal(t, "RELIANCE.NS", report.Records[0].Instrument.Symbol)
}

func TestOrchestrator_NewsFailureYieldsEmptyReport(t *testing.T) {
	universeSource := &fakeUniverseSource{rows: []universe.Row{
		{CompanyName: "Infosys Limited", Symbol: "INFY.NS", Sector: "IT"},
	}}
	newsSource := &fakeNewsSource{err: models.ErrSourceUnavailable}
	closeProvider := &fakeCloseProvider{closes: map[string][]decimal.Decimal{}}

	o := newOrchestrator(universeSource, newsSource, closeProvider, defaultOpts())

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Records)
	assert.Empty(t, report.TopSectors)
	assert.Zero(t, report.ItemsScanned)
}

func TestOrchestrator_HeadlineScanCap(t *testing.T) {
	universeSource := &fakeUniverseSource{rows: []universe.Row{
		{CompanyName: "Infosys Limited", Symbol: "INFY.NS", Sector: "IT"},
	}}

	items := make([]models.NewsItem, 30)
	for i := range items {
		items[i] = models.NewsItem{Headline: fmt.Sprintf("Infosys update %d", i)}
	}
	newsSource := &fakeNewsSource{items: items}
	closeProvider := &fakeCloseProvider{closes: map[string][]decimal.Decimal{
		"INFY.NS": closes(1480, 1450),
	}}

	opts := defaultOpts()
	opts.MaxHeadlines = 10

	o := newOrchestrator(universeSource, newsSource, closeProvider, opts)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, report.ItemsScanned)
	// One record despite ten matching headlines: dedup by symbol.
	assert.Len(t, report.Records, 1)
	require.Len(t, report.TopSectors, 1)
	assert.Equal(t, 10, report.TopSectors[0].Hits)
}
