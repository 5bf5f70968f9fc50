package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/adapters/config"
	feedadapter "github.com/selivandex/marketpulse/internal/adapters/feed"
	marketadapter "github.com/selivandex/marketpulse/internal/adapters/market"
	"github.com/selivandex/marketpulse/internal/adapters/telegram"
	universeadapter "github.com/selivandex/marketpulse/internal/adapters/universe"
	"github.com/selivandex/marketpulse/internal/market"
	"github.com/selivandex/marketpulse/internal/narrative"
	"github.com/selivandex/marketpulse/internal/pipeline"
	"github.com/selivandex/marketpulse/internal/report"
	"github.com/selivandex/marketpulse/internal/sentiment"
	"github.com/selivandex/marketpulse/internal/universe"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/templates"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Market Pulse starting...",
		zap.Int("max_headlines", cfg.Feed.MaxItems),
		zap.Int("max_records", cfg.Analysis.MaxRecords),
	)

	orchestrator := buildPipeline(cfg)

	writer, err := initReportWriter(cfg)
	if err != nil {
		return err
	}

	notifier := initTelegramNotifier(cfg)

	runOnce := func(ctx context.Context) error {
		rep, err := orchestrator.Run(ctx)
		if err != nil {
			return err
		}

		body, path, err := writer.Write(rep)
		if err != nil {
			return err
		}
		logger.Info("✅ report generated", zap.String("path", path))

		if notifier != nil {
			if err := notifier.SendReport(body); err != nil {
				logger.Warn("failed to deliver report via telegram", zap.Error(err))
			}
		}

		return nil
	}

	if cfg.Schedule.Cron == "" {
		return runOnce(ctx)
	}

	return runScheduled(ctx, cfg.Schedule.Cron, runOnce)
}

// initConfig loads configuration and initializes logger
func initConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

// buildPipeline wires the sources and core components into an orchestrator
func buildPipeline(cfg *config.Config) *pipeline.Orchestrator {
	universeSource := universeadapter.NewCSVSource(cfg.Universe.URL, cfg.Universe.Exchange, cfg.Universe.Timeout)
	newsSource := feedadapter.NewRSSSource(cfg.Feed.URL, cfg.Feed.Timeout)
	closeProvider := marketadapter.NewYahooProvider(cfg.Market.BaseURL, cfg.Market.Range, cfg.Market.Timeout, cfg.Market.CacheTTL)

	normalizer := universe.NewNormalizer(cfg.Analysis.CorporateSuffixes, cfg.Analysis.MinAliasLength)
	classifier := sentiment.NewClassifier(sentiment.NewAnalyzer(), cfg.Analysis.SentimentThreshold)
	resolver := market.NewResolver(closeProvider, cfg.Market.SMAWindow)
	narrator := narrative.NewNarrator(cfg.Analysis.MomentumThreshold)

	return pipeline.NewOrchestrator(
		universeSource,
		newsSource,
		normalizer,
		classifier,
		resolver,
		narrator,
		pipeline.Options{
			MaxHeadlines: cfg.Feed.MaxItems,
			MaxRecords:   cfg.Analysis.MaxRecords,
			TopSectors:   cfg.Analysis.TopSectors,
		},
	)
}

// initReportWriter loads templates and creates the markdown writer
func initReportWriter(cfg *config.Config) (*report.Writer, error) {
	templateManager, err := templates.NewManager(cfg.Report.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return report.NewWriter(templateManager, cfg.Report.Dir), nil
}

// initTelegramNotifier creates the optional Telegram delivery adapter
func initTelegramNotifier(cfg *config.Config) *telegram.Notifier {
	if cfg.Telegram.BotToken == "" {
		logger.Info("telegram delivery disabled (no token provided)")
		return nil
	}

	notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		logger.Warn("failed to initialize telegram notifier", zap.Error(err))
		return nil
	}

	return notifier
}

// runScheduled runs the pipeline on a cron schedule until the context is
// cancelled. Errors from a scheduled run are logged, never fatal.
func runScheduled(ctx context.Context, spec string, runOnce func(context.Context) error) error {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(spec, func() {
		if err := runOnce(ctx); err != nil {
			logger.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	scheduler.Start()
	logger.Info("📅 scheduler started", zap.String("cron", spec))

	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	logger.Info("scheduler stopped")
	return nil
}
