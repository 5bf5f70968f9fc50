package sentiment

import (
	"strings"
)

// Analyzer performs simple keyword-based polarity scoring for headlines
type Analyzer struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

// NewAnalyzer creates new sentiment analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positiveWords: buildPositiveWords(),
		negativeWords: buildNegativeWords(),
	}
}

// Score analyzes text and returns a polarity score in [-1.0, 1.0]
func (a *Analyzer) Score(text string) float64 {
	if text == "" {
		return 0.0
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0.0
	}

	var score float64
	matchCount := 0

	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"")

		if weight, ok := a.positiveWords[word]; ok {
			score += weight
			matchCount++
		}

		if weight, ok := a.negativeWords[word]; ok {
			score -= weight
			matchCount++
		}
	}

	if matchCount == 0 {
		return 0.0
	}

	normalized := score / float64(len(words))

	if normalized > 1.0 {
		normalized = 1.0
	} else if normalized < -1.0 {
		normalized = -1.0
	}

	return normalized
}

// buildPositiveWords returns positive keywords for equity headlines
func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		// Price action
		"surge":    0.9,
		"surges":   0.9,
		"soar":     0.9,
		"soars":    0.9,
		"rally":    0.8,
		"rallies":  0.8,
		"jump":     0.7,
		"jumps":    0.7,
		"gain":     0.6,
		"gains":    0.6,
		"rise":     0.5,
		"rises":    0.5,
		"climb":    0.5,
		"climbs":   0.5,
		"rebound":  0.6,
		"recovery": 0.5,

		// Fundamentals
		"profit":     0.6,
		"profits":    0.6,
		"beats":      0.7,
		"record":     0.6,
		"strong":     0.5,
		"robust":     0.5,
		"growth":     0.5,
		"upgrade":    0.6,
		"upgraded":   0.6,
		"dividend":   0.4,
		"buyback":    0.5,
		"expansion":  0.5,
		"wins":       0.6,
		"order":      0.3,
		"approval":   0.5,
		"bullish":    0.9,
		"outperform": 0.6,
		"positive":   0.5,
		"high":       0.4,
	}
}

// buildNegativeWords returns negative keywords for equity headlines
func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		// Price action
		"crash":   1.0,
		"plunge":  0.9,
		"plunges": 0.9,
		"slump":   0.8,
		"slumps":  0.8,
		"tumble":  0.8,
		"tumbles": 0.8,
		"sink":    0.7,
		"sinks":   0.7,
		"fall":    0.6,
		"falls":   0.6,
		"drop":    0.6,
		"drops":   0.6,
		"slide":   0.6,
		"slides":  0.6,
		"selloff": 0.8,

		// Fundamentals
		"loss":       0.7,
		"losses":     0.7,
		"misses":     0.7,
		"weak":       0.5,
		"downgrade":  0.6,
		"downgraded": 0.6,
		"probe":      0.7,
		"fraud":      1.0,
		"default":    0.8,
		"lawsuit":    0.7,
		"penalty":    0.6,
		"headwinds":  0.7,
		"slowdown":   0.6,
		"concern":    0.5,
		"concerns":   0.5,
		"fears":      0.6,
		"bearish":    0.9,
		"pressure":   0.5,
		"negative":   0.5,
		"low":        0.4,
		"cuts":       0.5,
	}
}
