package narrative

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/selivandex/marketpulse/pkg/models"
)

// Narrator derives a short advisory rationale from (change, sentiment,
// sector) via a fixed decision table. Pure function, no side effects; the
// output is presentation text and never feeds downstream decisions.
type Narrator struct {
	momentumThreshold decimal.Decimal
}

// NewNarrator creates a narrator. momentumThreshold is the absolute
// percentage move treated as a decisive swing (canonically 1.5).
func NewNarrator(momentumThreshold float64) *Narrator {
	if momentumThreshold <= 0 {
		momentumThreshold = 1.5
	}
	return &Narrator{
		momentumThreshold: decimal.NewFromFloat(momentumThreshold),
	}
}

// Narrate selects the narrative for one analysis record
func (n *Narrator) Narrate(pctChange decimal.Decimal, sentiment models.Sentiment, sector string) string {
	if sector == "" {
		sector = "the sector"
	}

	switch {
	case pctChange.GreaterThan(n.momentumThreshold) && sentiment == models.SentimentPositive:
		return fmt.Sprintf("Strong upward momentum with a %s tailwind; pattern consistent with institutional buying", sector)

	case pctChange.LessThan(n.momentumThreshold.Neg()) && sentiment == models.SentimentNegative:
		return fmt.Sprintf("Heavy selling pressure in %s; the move points to a fundamental concern rather than noise", sector)

	case sentiment == models.SentimentPositive && pctChange.IsNegative():
		return fmt.Sprintf("Positive headline against a falling price in %s; classic sell-on-news divergence", sector)

	default:
		return fmt.Sprintf("No decisive move in %s yet; awaiting volume confirmation", sector)
	}
}
