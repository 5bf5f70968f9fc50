package sentiment

import (
	"github.com/selivandex/marketpulse/pkg/models"
)

// Scorer produces a polarity score in [-1, 1] for a text
type Scorer interface {
	Score(text string) float64
}

// Classifier maps headline polarity to a discrete sentiment label.
// The threshold is symmetric and strict: a score of exactly +threshold
// or -threshold stays Neutral.
type Classifier struct {
	scorer    Scorer
	threshold float64
}

// DefaultThreshold is the canonical classification threshold. Variants that
// used 0.05 should pass it explicitly instead of forking the classifier.
const DefaultThreshold = 0.1

// NewClassifier creates a classifier with the given sensitivity threshold
func NewClassifier(scorer Scorer, threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{
		scorer:    scorer,
		threshold: threshold,
	}
}

// Classify returns the sentiment label for a headline
func (c *Classifier) Classify(text string) models.Sentiment {
	score := c.scorer.Score(text)

	switch {
	case score > c.threshold:
		return models.SentimentPositive
	case score < -c.threshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
