package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain/srs"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
)

// StatusReturn pairs a card status with when its next card comes due.
type StatusReturn struct {
	Status domain.CardStatus
	Return srs.Return
}

// StudySession is a snapshot of one deck's review state: the cards
// currently due in their original deck order, how many cards are still
// unlearned, and per-status return times for everything not yet due.
type StudySession struct {
	DeckName     string
	Queue        []*domain.Card
	RemainingNew int
	Returns      []StatusReturn
}

// StudyService drives review sessions: building the due queue for a
// deck and applying grades. Grading a card updates every copy across
// decks in one locked transaction.
type StudyService interface {
	// Session builds the current review snapshot for a deck.
	Session(ctx context.Context, profileID uuid.UUID, deckName string) (*StudySession, error)

	// Grade applies a review outcome to a card, rescheduling it and
	// updating every copy in the profile. A second grade of the same card
	// inside the pacing window returns ErrGradeTooSoon and leaves the
	// first grade standing.
	Grade(
		ctx context.Context,
		profileID uuid.UUID,
		cardID string,
		newStatus domain.CardStatus,
	) (*domain.Card, error)
}

// studyServiceImpl implements the StudyService interface
type studyServiceImpl struct {
	db       *sql.DB
	profiles store.ProfileStore
	params   *srs.Params
	logger   *slog.Logger
	now      func() time.Time // injectable for testing

	// lastGrade tracks the most recent grade time per card to enforce
	// the pacing window. In-memory only: after a restart the first grade
	// of each card is always accepted.
	mu        sync.Mutex
	lastGrade map[string]time.Time
}

// NewStudyService creates a new StudyService.
// It returns an error if any of the required dependencies are nil.
func NewStudyService(
	db *sql.DB,
	profiles store.ProfileStore,
	params *srs.Params,
	logger *slog.Logger,
) (StudyService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}
	if params == nil {
		params = srs.NewDefaultParams()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		db:        db,
		profiles:  profiles,
		params:    params,
		logger:    logger.With(slog.String("component", "study_service")),
		now:       time.Now,
		lastGrade: make(map[string]time.Time),
	}, nil
}

// Session implements StudyService.Session
func (s *studyServiceImpl) Session(
	ctx context.Context,
	profileID uuid.UUID,
	deckName string,
) (*StudySession, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	cards, err := profile.Deck(deckName)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &StudySession{
		DeckName:     deckName,
		Queue:        srs.DueQueue(cards, now),
		RemainingNew: srs.RemainingNewCount(cards),
	}
	for _, status := range []domain.CardStatus{
		domain.CardStatusNew,
		domain.CardStatusWeak,
		domain.CardStatusFair,
		domain.CardStatusStrong,
	} {
		session.Returns = append(session.Returns, StatusReturn{
			Status: status,
			Return: srs.TimeUntilNextReturn(cards, status, now),
		})
	}

	return session, nil
}

// Grade implements StudyService.Grade
func (s *studyServiceImpl) Grade(
	ctx context.Context,
	profileID uuid.UUID,
	cardID string,
	newStatus domain.CardStatus,
) (*domain.Card, error) {
	now := s.now()
	if err := s.checkPacing(cardID, now); err != nil {
		return nil, err
	}

	var graded *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProfiles := s.profiles.WithTx(tx)

		profile, err := txProfiles.GetForUpdate(ctx, profileID)
		if err != nil {
			return err
		}

		card := profile.FindCard(cardID)
		if card == nil {
			return fmt.Errorf("%w: card %s", store.ErrNotFound, cardID)
		}

		graded, err = srs.Grade(card, newStatus, now, s.params)
		if err != nil {
			return err
		}

		profile.UpdateCard(graded)
		return txProfiles.Update(ctx, profile)
	})
	if err != nil {
		// The grade never landed; don't hold the pacing window against
		// the caller's retry.
		s.clearPacing(cardID)
		return nil, err
	}

	s.logger.DebugContext(ctx, "card graded",
		"profile_id", profileID,
		"card_id", cardID,
		"status", string(newStatus))
	return graded, nil
}

func (s *studyServiceImpl) checkPacing(cardID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Entries outside the window can never reject a grade again; drop
	// them so the map stays bounded by recent activity.
	for id, last := range s.lastGrade {
		if now.Sub(last) >= s.params.GradePacing {
			delete(s.lastGrade, id)
		}
	}

	if last, ok := s.lastGrade[cardID]; ok && now.Sub(last) < s.params.GradePacing {
		return ErrGradeTooSoon
	}
	s.lastGrade[cardID] = now
	return nil
}

func (s *studyServiceImpl) clearPacing(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastGrade, cardID)
}
