package models

import "errors"

// Failure taxonomy for external collaborators. None of these abort a run:
// sources degrade to fallback/empty, per-symbol failures skip the instrument,
// malformed rows and feed items are dropped.
var (
	// ErrSourceUnavailable means the universe or news fetch failed entirely
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrDataUnavailable means market data for one symbol could not be resolved
	ErrDataUnavailable = errors.New("instrument data unavailable")

	// ErrMalformedRecord means a universe row or feed item is missing required fields
	ErrMalformedRecord = errors.New("malformed record")
)
