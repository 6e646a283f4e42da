// Package srs implements the spaced-repetition review scheduler: the mastery
// interval table, grading, and due-set computation over a profile's cards.
// All functions are pure; callers supply the clock sample.
package srs

import (
	"time"

	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// Params defines all configurable parameters for the review scheduler.
type Params struct {
	// Intervals maps the status a card is graded into to the delay before
	// the card becomes due again.
	Intervals map[domain.CardStatus]time.Duration

	// GradePacing is the minimum interval between two grades of the same
	// deck. It mirrors the card-flip animation pacing and prevents
	// double-grading.
	GradePacing time.Duration

	// TermSelectionSize is how many terms episode generation draws from a
	// deck.
	TermSelectionSize int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance.
type ParamsConfig struct {
	StrongInterval time.Duration
	FairInterval   time.Duration
	WeakInterval   time.Duration

	GradePacing       time.Duration
	TermSelectionSize int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	const day = 24 * time.Hour
	return &Params{
		Intervals: map[domain.CardStatus]time.Duration{
			domain.CardStatusStrong: 5 * day,
			domain.CardStatusFair:   3 * day,
			domain.CardStatusWeak:   1 * day,
			domain.CardStatusNew:    0, // immediately due again
		},
		GradePacing:       600 * time.Millisecond,
		TermSelectionSize: 7,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.StrongInterval > 0 {
		params.Intervals[domain.CardStatusStrong] = config.StrongInterval
	}
	if config.FairInterval > 0 {
		params.Intervals[domain.CardStatusFair] = config.FairInterval
	}
	if config.WeakInterval > 0 {
		params.Intervals[domain.CardStatusWeak] = config.WeakInterval
	}
	if config.GradePacing > 0 {
		params.GradePacing = config.GradePacing
	}
	if config.TermSelectionSize > 0 {
		params.TermSelectionSize = config.TermSelectionSize
	}

	return params
}
