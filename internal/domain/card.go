package domain

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// CardStatus is the mastery level of a card. It drives the spaced-repetition
// delay applied when the card is graded.
type CardStatus string

// Possible card status values, from least to most mastered.
const (
	CardStatusNew    CardStatus = "new"
	CardStatusWeak   CardStatus = "weak"
	CardStatusFair   CardStatus = "fair"
	CardStatusStrong CardStatus = "strong"
)

// DefaultGeneratedDeckSize is how many cards deck generation produces
// when the caller does not ask for a specific count.
const DefaultGeneratedDeckSize = 20

// DefaultGeneratedDeckName names a generated deck when the caller
// leaves the name blank.
func DefaultGeneratedDeckName(now time.Time) string {
	return "AI Deck " + now.Format("2006-01-02")
}

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)

	// ErrCardTermEmpty is returned when a card's target term is empty.
	ErrCardTermEmpty = fmt.Errorf("%w: card term cannot be empty", ErrValidation)

	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = fmt.Errorf("%w: card front cannot be empty", ErrValidation)
)

// CardBack holds the answer side of a card: an example sentence, its
// translation, and external context links keyed by provider name.
type CardBack struct {
	Sentence            string            `json:"sentence"`
	SentenceTranslation string            `json:"sentence_pt,omitempty"`
	ContextLinks        map[string]string `json:"context_links,omitempty"`
}

// Card represents a single vocabulary flashcard. A card can appear in several
// named decks plus "All Cards" as independent copies sharing the same ID;
// copies are kept consistent by Profile.UpdateCard.
//
// Invariant: Status and NextReviewAt are only ever updated together (see
// srs.Grade). NextReviewAt == 0 means the card was never scheduled and is
// immediately due.
type Card struct {
	ID               string     `json:"id"`
	Front            string     `json:"front"`
	FrontTranslation string     `json:"front_pt,omitempty"`
	Term             string     `json:"term"`
	TermTranslation  string     `json:"term_pt,omitempty"`
	Phonetic         string     `json:"phonetic,omitempty"`
	Status           CardStatus `json:"status"`
	NextReviewAt     int64      `json:"next_review_at"` // unix milliseconds, 0 = never scheduled
	Back             CardBack   `json:"back"`
}

// NewCard creates a new Card for the given front text and target term.
// The card starts in status "new" with no scheduled review, and its context
// links are derived from the term. Returns an error if validation fails.
func NewCard(front, term string) (*Card, error) {
	card := &Card{
		ID:     uuid.New().String(),
		Front:  front,
		Term:   term,
		Status: CardStatusNew,
		Back: CardBack{
			ContextLinks: ContextLinks(term),
		},
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	if c.Term == "" {
		return ErrCardTermEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if !isValidCardStatus(c.Status) {
		return ErrInvalidCardStatus
	}

	return nil
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	clone := *c
	if c.Back.ContextLinks != nil {
		clone.Back.ContextLinks = make(map[string]string, len(c.Back.ContextLinks))
		for k, v := range c.Back.ContextLinks {
			clone.Back.ContextLinks[k] = v
		}
	}
	return &clone
}

// ContextLinks derives the external pronunciation/usage links for a term.
func ContextLinks(term string) map[string]string {
	escaped := url.QueryEscape(term)
	return map[string]string{
		"youglish": fmt.Sprintf("https://youglish.com/pronounce/%s/english", escaped),
		"yarn":     fmt.Sprintf("https://getyarn.io/yarn-find?text=%s", escaped),
	}
}

// isValidCardStatus checks if the given status is a valid CardStatus.
func isValidCardStatus(status CardStatus) bool {
	switch status {
	case CardStatusNew, CardStatusWeak, CardStatusFair, CardStatusStrong:
		return true
	default:
		return false
	}
}
