package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration. The pipeline packages never
// read the environment themselves; resolved values are passed in here.
type Config struct {
	Feed     FeedConfig     `envconfig:"FEED"`
	Universe UniverseConfig `envconfig:"UNIVERSE"`
	Market   MarketConfig   `envconfig:"MARKET"`
	Analysis AnalysisConfig `envconfig:"ANALYSIS"`
	Report   ReportConfig   `envconfig:"REPORT"`
	Telegram TelegramConfig `envconfig:"TELEGRAM"`
	Schedule ScheduleConfig `envconfig:"SCHEDULE"`
	Logging  LoggingConfig  `envconfig:"LOGGING"`
}

// FeedConfig represents the news feed source
type FeedConfig struct {
	URL      string        `envconfig:"FEED_URL" default:"https://news.google.com/rss/search?q=when:1d+Indian+stock+market+business&hl=en-IN&gl=IN&ceid=IN:en"`
	MaxItems int           `envconfig:"FEED_MAX_ITEMS" default:"100"`
	Timeout  time.Duration `envconfig:"FEED_TIMEOUT" default:"10s"`
}

// UniverseConfig represents the instrument listing source
type UniverseConfig struct {
	URL      string        `envconfig:"UNIVERSE_URL" default:"https://archives.nseindia.com/content/equities/EQUITY_L.csv"`
	Exchange string        `envconfig:"UNIVERSE_EXCHANGE_SUFFIX" default:".NS"`
	Timeout  time.Duration `envconfig:"UNIVERSE_TIMEOUT" default:"10s"`
}

// MarketConfig represents the market data provider
type MarketConfig struct {
	BaseURL   string        `envconfig:"MARKET_BASE_URL" default:"https://query1.finance.yahoo.com"`
	Range     string        `envconfig:"MARKET_RANGE" default:"5d"`
	Timeout   time.Duration `envconfig:"MARKET_TIMEOUT" default:"10s"`
	CacheTTL  time.Duration `envconfig:"MARKET_CACHE_TTL" default:"5m"`
	SMAWindow int           `envconfig:"MARKET_SMA_WINDOW" default:"3"`
}

// AnalysisConfig represents pipeline tuning parameters
type AnalysisConfig struct {
	SentimentThreshold float64  `envconfig:"ANALYSIS_SENTIMENT_THRESHOLD" default:"0.1"`
	MinAliasLength     int      `envconfig:"ANALYSIS_MIN_ALIAS_LENGTH" default:"4"`
	MaxRecords         int      `envconfig:"ANALYSIS_MAX_RECORDS" default:"15"`
	TopSectors         int      `envconfig:"ANALYSIS_TOP_SECTORS" default:"10"`
	MomentumThreshold  float64  `envconfig:"ANALYSIS_MOMENTUM_THRESHOLD" default:"1.5"`
	CorporateSuffixes  []string `envconfig:"ANALYSIS_CORPORATE_SUFFIXES" default:"ltd,limited,bank,finance,industries,services,corp,corporation,company,enterprises"`
}

// ReportConfig represents markdown report output
type ReportConfig struct {
	Dir      string `envconfig:"REPORT_DIR" default:"reports"`
	Template string `envconfig:"REPORT_TEMPLATE_DIR" default:"./templates"`
}

// TelegramConfig represents optional report delivery via Telegram
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
}

// ScheduleConfig represents the optional daily run schedule
type ScheduleConfig struct {
	// Cron is a standard 5-field cron expression. Empty means run once and exit.
	Cron string `envconfig:"SCHEDULE_CRON" default:""`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:""`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed URL is required")
	}
	if c.Feed.MaxItems < 1 || c.Feed.MaxItems > 100 {
		return fmt.Errorf("feed max items must be between 1 and 100")
	}
	if c.Analysis.SentimentThreshold <= 0 || c.Analysis.SentimentThreshold >= 1 {
		return fmt.Errorf("sentiment threshold must be in (0, 1)")
	}
	if c.Analysis.MinAliasLength < 1 {
		return fmt.Errorf("min alias length must be positive")
	}
	if c.Analysis.MaxRecords < 1 {
		return fmt.Errorf("max records must be positive")
	}
	if c.Analysis.TopSectors < 1 {
		return fmt.Errorf("top sectors must be positive")
	}
	if c.Market.SMAWindow < 2 {
		return fmt.Errorf("sma window must be at least 2")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram chat_id is required when bot token is set")
	}

	return nil
}
