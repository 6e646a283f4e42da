package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// Common scheduler errors
var (
	ErrNilCard       = errors.New("card cannot be nil")
	ErrInvalidStatus = errors.New("invalid target status")
)

// Grade applies a review outcome to a card, returning a new copy with the
// updated mastery status and next-review timestamp. The two fields are set
// together and only together; the input card is never mutated.
//
// The next review is scheduled at now plus the interval configured for the
// new status. Grading to "new" schedules the card at now, so it is due again
// immediately.
func Grade(
	card *domain.Card,
	newStatus domain.CardStatus,
	now time.Time,
	params *Params,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	delay, ok := params.Intervals[newStatus]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	graded := card.Clone()
	graded.Status = newStatus
	graded.NextReviewAt = now.Add(delay).UnixMilli()
	return graded, nil
}

// IsDue reports whether a card's scheduled review time has arrived or was
// never set.
func IsDue(card *domain.Card, now time.Time) bool {
	return card.NextReviewAt == 0 || card.NextReviewAt <= now.UnixMilli()
}

// DueQueue returns the cards currently due for review, preserving the deck's
// original order. The result is stable: re-running with a later now never
// removes a card that was already due.
func DueQueue(cards []*domain.Card, now time.Time) []*domain.Card {
	queue := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if IsDue(c, now) {
			queue = append(queue, c)
		}
	}
	return queue
}

// CurrentCard returns the card at the cursor position within the due queue.
// The cursor wraps modulo the queue length; an empty queue yields nil rather
// than a division by zero.
func CurrentCard(queue []*domain.Card, cursor int) *domain.Card {
	if len(queue) == 0 {
		return nil
	}
	if cursor < 0 {
		cursor = 0
	}
	return queue[cursor%len(queue)]
}

// RemainingNewCount counts cards still in status "new", regardless of
// due-ness. It is a progress indicator, not a scheduling input.
func RemainingNewCount(cards []*domain.Card) int {
	count := 0
	for _, c := range cards {
		if c.Status == domain.CardStatusNew {
			count++
		}
	}
	return count
}
