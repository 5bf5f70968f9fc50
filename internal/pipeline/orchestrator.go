package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/match"
	"github.com/selivandex/marketpulse/internal/narrative"
	"github.com/selivandex/marketpulse/internal/sentiment"
	"github.com/selivandex/marketpulse/internal/universe"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

// UniverseSource provides the raw instrument listing for a run
type UniverseSource interface {
	FetchRows(ctx context.Context) ([]universe.Row, error)
}

// NewsSource provides the headline feed, at most limit items in
// provider order
type NewsSource interface {
	FetchItems(ctx context.Context, limit int) ([]models.NewsItem, error)
}

// Options carries run-level tuning for the orchestrator
type Options struct {
	MaxHeadlines int // news items scanned per run
	MaxRecords   int // analysis records emitted per run
	TopSectors   int // sector tally truncation
}

// Orchestrator sequences one full correlation run: universe load, feed
// scan, matching, sentiment, metric resolution, narration, sector ranking.
// Fully sequential; a run either completes or degrades, it never aborts on
// per-item failures.
type Orchestrator struct {
	universeSource UniverseSource
	newsSource     NewsSource
	normalizer     *universe.Normalizer
	classifier     *sentiment.Classifier
	resolver       SnapshotResolver
	narrator       *narrative.Narrator
	opts           Options
}

// NewOrchestrator wires the pipeline components together
func NewOrchestrator(
	universeSource UniverseSource,
	newsSource NewsSource,
	normalizer *universe.Normalizer,
	classifier *sentiment.Classifier,
	resolver SnapshotResolver,
	narrator *narrative.Narrator,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		universeSource: universeSource,
		newsSource:     newsSource,
		normalizer:     normalizer,
		classifier:     classifier,
		resolver:       resolver,
		narrator:       narrator,
		opts:           opts,
	}
}

// Run executes one pipeline run and returns the report. Only a completely
// unusable configuration (no universe and no fallback, or a nil source)
// returns an error; everything else degrades per the skip policy.
func (o *Orchestrator) Run(ctx context.Context) (*models.MarketReport, error) {
	started := time.Now()

	u, fallbackUsed, err := o.loadUniverse(ctx)
	if err != nil {
		return nil, err
	}

	items, err := o.newsSource.FetchItems(ctx, o.opts.MaxHeadlines)
	if err != nil {
		logger.Warn("news fetch failed, producing empty report", zap.Error(err))
		items = nil
	}

	matcher := match.NewMatcher(u)
	aggregator := NewAggregator(o.resolver, o.narrator, o.opts.MaxRecords)

	scanned := 0
	for _, item := range items {
		if scanned >= o.opts.MaxHeadlines {
			break
		}
		scanned++

		matches := matcher.Match(item.Headline)
		if len(matches) == 0 {
			continue
		}

		label := o.classifier.Classify(item.Headline)
		aggregator.Consume(ctx, item, label, matches)
	}

	report := &models.MarketReport{
		GeneratedAt:  time.Now(),
		Records:      aggregator.Records(),
		TopSectors:   aggregator.TopSectors(o.opts.TopSectors),
		ItemsScanned: scanned,
		FallbackUsed: fallbackUsed,
	}

	logger.Info("pipeline run completed",
		zap.Int("items_scanned", scanned),
		zap.Int("records", len(report.Records)),
		zap.Int("sectors", len(report.TopSectors)),
		zap.Duration("took", time.Since(started)),
	)

	return report, nil
}

// loadUniverse builds the instrument table, degrading to the fixed fallback
// rows when the source is unavailable or yields nothing usable
func (o *Orchestrator) loadUniverse(ctx context.Context) (*universe.Universe, bool, error) {
	rows, err := o.universeSource.FetchRows(ctx)
	fallbackUsed := false

	if err != nil || len(rows) == 0 {
		if err != nil {
			logger.Warn("universe source unavailable, using fallback table", zap.Error(err))
		}
		rows = universe.FallbackRows()
		fallbackUsed = true
	}

	u := o.normalizer.Build(rows)
	if len(u.Instruments) == 0 {
		return nil, false, fmt.Errorf("universe is empty and fallback produced no instruments")
	}

	logger.Info("universe loaded",
		zap.Int("instruments", len(u.Instruments)),
		zap.Int("aliases", len(u.Index)),
		zap.Bool("fallback", fallbackUsed),
	)

	return u, fallbackUsed, nil
}
