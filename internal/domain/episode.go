package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ProficiencyLevel is the CEFR-style difficulty tag attached to a generated
// episode. It controls the generation prompt, not the scheduler.
type ProficiencyLevel string

// Supported proficiency levels.
const (
	LevelBeginner     ProficiencyLevel = "A1-A2"
	LevelIntermediate ProficiencyLevel = "B1-B2"
	LevelAdvanced     ProficiencyLevel = "C1-C2"
)

// Episode-specific validation errors
var (
	// ErrEpisodeScriptEmpty is returned when an episode has no script text.
	ErrEpisodeScriptEmpty = fmt.Errorf("%w: episode script cannot be empty", ErrValidation)

	// ErrEpisodeDeckEmpty is returned when an episode names no deck.
	ErrEpisodeDeckEmpty = fmt.Errorf("%w: episode deck name cannot be empty", ErrValidation)
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Episode is the cached artifact of a deck's generated podcast: the dialogue
// script and its proficiency level. The script is the expensive-to-regenerate
// part and the only part persisted; audio is resynthesized from it on replay.
// At most one episode exists per (profile, deck) key.
type Episode struct {
	ProfileID uuid.UUID        `json:"profile_id"`
	DeckName  string           `json:"deck_name"`
	Script    string           `json:"script"`
	Level     ProficiencyLevel `json:"level"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewEpisode creates a new Episode for the given profile and deck.
// Returns an error if validation fails.
func NewEpisode(profileID uuid.UUID, deckName, script string, level ProficiencyLevel) (*Episode, error) {
	episode := &Episode{
		ProfileID: profileID,
		DeckName:  deckName,
		Script:    script,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}

	if err := episode.Validate(); err != nil {
		return nil, err
	}

	return episode, nil
}

// Validate checks if the Episode has valid data.
func (e *Episode) Validate() error {
	if e.ProfileID == uuid.Nil {
		return ErrProfileIDEmpty
	}

	if e.DeckName == "" {
		return ErrEpisodeDeckEmpty
	}

	if e.Script == "" {
		return ErrEpisodeScriptEmpty
	}

	if !IsValidLevel(e.Level) {
		return ErrInvalidLevel
	}

	return nil
}

// Key returns the storage key of this episode.
func (e *Episode) Key() string {
	return EpisodeKey(e.ProfileID, e.DeckName)
}

// EpisodeKey builds the storage key for a (profile, deck) pair: the deck name
// with whitespace runs replaced by underscores, prefixed with the profile ID.
func EpisodeKey(profileID uuid.UUID, deckName string) string {
	return profileID.String() + "_" + NormalizeDeckName(deckName)
}

// NormalizeDeckName collapses whitespace runs in a deck name to single
// underscores. Two deck names that normalize identically share one
// episode cache slot.
func NormalizeDeckName(deckName string) string {
	return whitespaceRuns.ReplaceAllString(deckName, "_")
}

// IsValidLevel checks if the given level is a supported ProficiencyLevel.
func IsValidLevel(level ProficiencyLevel) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}
