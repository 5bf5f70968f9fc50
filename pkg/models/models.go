package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument represents a tradeable security from the universe listing.
// Built once per run and immutable thereafter.
type Instrument struct {
	Symbol      string   // exchange-qualified, e.g. "RELIANCE.NS"
	DisplayName string   // raw company name from the listing
	Aliases     []string // normalized forms used for headline matching
	Sector      string
}

// NewsItem represents a single headline from the feed
type NewsItem struct {
	PublishedAt time.Time
	Headline    string
	Link        string
}

// MatchResult links a news item to one instrument via the alias that hit
type MatchResult struct {
	Instrument   Instrument
	MatchedAlias string
}

// Trend labels the direction of the latest daily move
type Trend string

const (
	TrendUp     Trend = "Up"
	TrendDown   Trend = "Down"
	TrendStable Trend = "Stable"
)

// Sentiment is the discrete polarity label for a headline
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// MarketSnapshot holds the latest short-window price observation for an instrument
type MarketSnapshot struct {
	LastClose     decimal.Decimal
	PreviousClose decimal.Decimal
	PctChange     decimal.Decimal // (last-prev)/prev*100, rounded to 2 decimals
	Trend         Trend
	AboveShortSMA bool // last close above the short moving average (advisory only)
}

// AnalysisRecord is one enriched (instrument, headline) result
type AnalysisRecord struct {
	Instrument Instrument
	Headline   string
	Link       string
	Sentiment  Sentiment
	Snapshot   MarketSnapshot
	Narrative  string
}

// SectorHits counts how many news items touched one sector during a run
type SectorHits struct {
	Sector string
	Hits   int
}

// MarketReport is the full output of one pipeline run, consumed read-only
// by rendering adapters
type MarketReport struct {
	GeneratedAt  time.Time
	Records      []AnalysisRecord
	TopSectors   []SectorHits
	ItemsScanned int
	FallbackUsed bool // universe source failed, fallback table substituted
}
