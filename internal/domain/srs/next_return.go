package srs

import (
	"fmt"
	"time"

	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// ReturnKind classifies when cards of a given status come back into review.
type ReturnKind int

const (
	// ReturnNone means no card currently holds the status.
	ReturnNone ReturnKind = iota

	// ReturnReady means at least one card of the status is already due.
	ReturnReady

	// ReturnAlmostReady means the soonest card comes due in under a minute.
	ReturnAlmostReady

	// ReturnWait means the soonest card comes due after Wait.
	ReturnWait
)

// Return describes when the next card of a given status returns to review.
type Return struct {
	Kind ReturnKind
	Wait time.Duration // meaningful only for ReturnWait
}

// String renders the return as a compact human-scale label. Durations are
// floor-rounded to the largest whole unit: minutes under an hour, hours
// under a day, days beyond.
func (r Return) String() string {
	switch r.Kind {
	case ReturnReady:
		return "Ready"
	case ReturnAlmostReady:
		return "< 1m"
	case ReturnWait:
		minutes := int(r.Wait / time.Minute)
		if minutes < 60 {
			return fmt.Sprintf("%dm", minutes)
		}
		hours := minutes / 60
		if hours < 24 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dd", hours/24)
	default:
		return "-"
	}
}

// TimeUntilNextReturn reports when the next card holding the given status
// returns to the due set: ReturnNone when no card has the status, ReturnReady
// when any is already due, otherwise the wait until the soonest future
// review (ReturnAlmostReady when that wait is under a minute).
func TimeUntilNextReturn(
	cards []*domain.Card,
	status domain.CardStatus,
	now time.Time,
) Return {
	nowMillis := now.UnixMilli()

	found := false
	var soonest int64
	for _, c := range cards {
		if c.Status != status {
			continue
		}
		found = true
		if c.NextReviewAt == 0 || c.NextReviewAt <= nowMillis {
			return Return{Kind: ReturnReady}
		}
		if soonest == 0 || c.NextReviewAt < soonest {
			soonest = c.NextReviewAt
		}
	}

	if !found {
		return Return{Kind: ReturnNone}
	}

	wait := time.Duration(soonest-nowMillis) * time.Millisecond
	if wait < time.Minute {
		return Return{Kind: ReturnAlmostReady}
	}
	return Return{Kind: ReturnWait, Wait: wait}
}
