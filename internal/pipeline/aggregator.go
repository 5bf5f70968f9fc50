package pipeline

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/narrative"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

// SnapshotResolver resolves the market snapshot for one symbol
type SnapshotResolver interface {
	Resolve(ctx context.Context, symbol string) (models.MarketSnapshot, error)
}

// Aggregator consumes (news item, matches) pairs in feed order and enforces
// at-most-one analysis record per symbol, first match wins. It also tallies
// sector hits per news item. All dedup state lives here.
type Aggregator struct {
	resolver   SnapshotResolver
	narrator   *narrative.Narrator
	maxRecords int

	seen        map[string]struct{}
	records     []models.AnalysisRecord
	sectorHits  map[string]int
	sectorOrder []string
}

// NewAggregator creates an aggregator capped at maxRecords analysis records
func NewAggregator(resolver SnapshotResolver, narrator *narrative.Narrator, maxRecords int) *Aggregator {
	return &Aggregator{
		resolver:   resolver,
		narrator:   narrator,
		maxRecords: maxRecords,
		seen:       make(map[string]struct{}),
		sectorHits: make(map[string]int),
	}
}

// Consume processes one news item with its matches. Sector tallying happens
// for every item regardless of the record cap or snapshot failures; record
// creation stops once the cap is reached. A failed resolution skips that
// instrument and moves on to the next match of the same item.
func (a *Aggregator) Consume(ctx context.Context, item models.NewsItem, sentiment models.Sentiment, matches []models.MatchResult) {
	a.tallySectors(matches)

	for _, m := range matches {
		if len(a.records) >= a.maxRecords {
			return
		}

		symbol := m.Instrument.Symbol
		if _, dup := a.seen[symbol]; dup {
			continue
		}

		snapshot, err := a.resolver.Resolve(ctx, symbol)
		if err != nil {
			if !errors.Is(err, models.ErrDataUnavailable) {
				logger.Error("unexpected resolver failure",
					zap.String("symbol", symbol),
					zap.Error(err),
				)
			}
			continue
		}

		a.seen[symbol] = struct{}{}
		a.records = append(a.records, models.AnalysisRecord{
			Instrument: m.Instrument,
			Headline:   item.Headline,
			Link:       item.Link,
			Sentiment:  sentiment,
			Snapshot:   snapshot,
			Narrative:  a.narrator.Narrate(snapshot.PctChange, sentiment, m.Instrument.Sector),
		})
	}
}

// tallySectors increments each distinct sector among this item's matches
// by one, once per news item
func (a *Aggregator) tallySectors(matches []models.MatchResult) {
	counted := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		sector := m.Instrument.Sector
		if sector == "" {
			continue
		}
		if _, dup := counted[sector]; dup {
			continue
		}
		counted[sector] = struct{}{}

		if _, known := a.sectorHits[sector]; !known {
			a.sectorOrder = append(a.sectorOrder, sector)
		}
		a.sectorHits[sector]++
	}
}

// Full reports whether the record cap has been reached
func (a *Aggregator) Full() bool {
	return len(a.records) >= a.maxRecords
}

// Records returns the analysis records in insertion (feed) order
func (a *Aggregator) Records() []models.AnalysisRecord {
	return a.records
}

// TopSectors returns the sector tally sorted descending by hit count,
// ties broken by first-seen order, truncated to at most n entries
func (a *Aggregator) TopSectors(n int) []models.SectorHits {
	firstSeen := make(map[string]int, len(a.sectorOrder))
	for i, sector := range a.sectorOrder {
		firstSeen[sector] = i
	}

	tally := make([]models.SectorHits, 0, len(a.sectorOrder))
	for _, sector := range a.sectorOrder {
		tally = append(tally, models.SectorHits{Sector: sector, Hits: a.sectorHits[sector]})
	}

	sort.SliceStable(tally, func(i, j int) bool {
		if tally[i].Hits != tally[j].Hits {
			return tally[i].Hits > tally[j].Hits
		}
		return firstSeen[tally[i].Sector] < firstSeen[tally[j].Sector]
	})

	if n > 0 && len(tally) > n {
		tally = tally[:n]
	}

	return tally
}
