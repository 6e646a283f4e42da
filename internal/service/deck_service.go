package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/audio"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
)

// CardEdit carries the editable fields of a card. Nil pointers leave the
// corresponding field untouched.
type CardEdit struct {
	Front               *string
	FrontTranslation    *string
	Term                *string
	TermTranslation     *string
	Phonetic            *string
	Sentence            *string
	SentenceTranslation *string
}

// DeckService provides deck and card management operations. Every
// mutation locks the profile row and rewrites the decks map in one
// transaction, preserving the "All Cards" superset invariant maintained
// by the domain methods.
type DeckService interface {
	// CreateDeck adds a new empty deck to the profile.
	CreateDeck(ctx context.Context, profileID uuid.UUID, name string) error

	// RenameDeck renames an existing deck. The "All Cards" deck cannot be
	// renamed.
	RenameDeck(ctx context.Context, profileID uuid.UUID, oldName, newName string) error

	// DeleteDeck removes a deck and prunes its cards from "All Cards".
	// The "All Cards" deck cannot be deleted.
	DeleteDeck(ctx context.Context, profileID uuid.UUID, name string) error

	// AddCard creates a card from its front text and target term and adds
	// it to the named deck (and to "All Cards").
	AddCard(ctx context.Context, profileID uuid.UUID, deckName, front, term string) (*domain.Card, error)

	// EditCard applies the given field edits to every copy of the card.
	EditCard(ctx context.Context, profileID uuid.UUID, cardID string, edit CardEdit) (*domain.Card, error)

	// RemoveCard deletes every copy of the card from the profile.
	RemoveCard(ctx context.Context, profileID uuid.UUID, cardID string) error

	// FillCard asks the language model to complete a card's empty fields
	// from its front text. Fields the model leaves empty, and all fields
	// when the model's answer cannot be parsed, keep their current values.
	FillCard(ctx context.Context, profileID uuid.UUID, cardID string) (*domain.Card, error)

	// GenerateDeck creates a new deck of generated cards about a topic at
	// the given proficiency level and returns the deck's name along with
	// the cards. A non-positive count falls back to the default deck
	// size; an empty deck name falls back to a dated default.
	GenerateDeck(
		ctx context.Context,
		profileID uuid.UUID,
		deckName, topic string,
		level domain.ProficiencyLevel,
		count int,
	) (string, []*domain.Card, error)

	// CardAudio synthesizes a card's term and example sentence as a WAV
	// file for pronunciation playback.
	CardAudio(ctx context.Context, profileID uuid.UUID, cardID string) ([]byte, error)
}

// deckServiceImpl implements the DeckService interface
type deckServiceImpl struct {
	db          *sql.DB
	profiles    store.ProfileStore
	filler      generation.CardFiller
	deckGen     generation.DeckGenerator
	synthesizer generation.SpeechSynthesizer
	logger      *slog.Logger
	now         func() time.Time // injectable for testing
}

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(
	db *sql.DB,
	profiles store.ProfileStore,
	filler generation.CardFiller,
	deckGen generation.DeckGenerator,
	synthesizer generation.SpeechSynthesizer,
	logger *slog.Logger,
) (DeckService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}
	if filler == nil || deckGen == nil || synthesizer == nil {
		return nil, fmt.Errorf("generation dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		db:          db,
		profiles:    profiles,
		filler:      filler,
		deckGen:     deckGen,
		synthesizer: synthesizer,
		logger:      logger.With(slog.String("component", "deck_service")),
		now:         time.Now,
	}, nil
}

// mutateProfile runs fn against a row-locked profile and persists the
// result in the same transaction.
func (s *deckServiceImpl) mutateProfile(
	ctx context.Context,
	profileID uuid.UUID,
	fn func(profile *domain.Profile) error,
) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProfiles := s.profiles.WithTx(tx)

		profile, err := txProfiles.GetForUpdate(ctx, profileID)
		if err != nil {
			return err
		}

		if err := fn(profile); err != nil {
			return err
		}

		return txProfiles.Update(ctx, profile)
	})
}

// CreateDeck implements DeckService.CreateDeck
func (s *deckServiceImpl) CreateDeck(ctx context.Context, profileID uuid.UUID, name string) error {
	return s.mutateProfile(ctx, profileID, func(profile *domain.Profile) error {
		return profile.CreateDeck(name)
	})
}

// RenameDeck implements DeckService.RenameDeck
func (s *deckServiceImpl) RenameDeck(
	ctx context.Context,
	profileID uuid.UUID,
	oldName, newName string,
) error {
	return s.mutateProfile(ctx, profileID, func(profile *domain.Profile) error {
		return profile.RenameDeck(oldName, newName)
	})
}

// DeleteDeck implements DeckService.DeleteDeck
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, profileID uuid.UUID, name string) error {
	return s.mutateProfile(ctx, profileID, func(profile *domain.Profile) error {
		return profile.DeleteDeck(name)
	})
}

// AddCard implements DeckService.AddCard
func (s *deckServiceImpl) AddCard(
	ctx context.Context,
	profileID uuid.UUID,
	deckName, front, term string,
) (*domain.Card, error) {
	card, err := domain.NewCard(front, term)
	if err != nil {
		return nil, err
	}

	err = s.mutateProfile(ctx, profileID, func(profile *domain.Profile) error {
		return profile.AddCard(deckName, card)
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// EditCard implements DeckService.EditCard
func (s *deckServiceImpl) EditCard(
	ctx context.Context,
	profileID uuid.UUID,
	cardID string,
	edit CardEdit,
) (*domain.Card, error) {
	var edited *domain.Card

	err := s.mutateProfile(ctx, profileID, func(profile *domain.Profile) error {
		card := profile.FindCard(cardID)
		if card == nil {
			return fmt.Errorf("%w: card %s", store.ErrNotFound, cardID)
		}

		updated := card.Clone()
		applyEdit(updated, edit)
		if updated.Term != card.Term {
			updated.Back.ContextLinks = domain.ContextLinks(updated.Term)
		}
		if err := updated.Validate(); err != nil {
			return err
		}

		profile.UpdateCard(updated)
		edited = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return edited, nil
}

// RemoveCard implements DeckService.RemoveCard
func (s *deckServiceImpl) RemoveCard(ctx context.Context, profileID uuid.UUID, cardID string) error {
	return s.mutateProfile(ctx, profileID, func(profile *domain.Profile) error {
		if profile.RemoveCard(cardID) == 0 {
			return fmt.Errorf("%w: card %s", store.ErrNotFound, cardID)
		}
		return nil
	})
}

// FillCard implements DeckService.FillCard. The model call happens
// outside the transaction; only the merge of its answer is locked.
func (s *deckServiceImpl) FillCard(
	ctx context.Context,
	profileID uuid.UUID,
	cardID string,
) (*domain.Card, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	card := profile.FindCard(cardID)
	if card == nil {
		return nil, fmt.Errorf("%w: card %s", store.ErrNotFound, cardID)
	}

	fill, err := s.filler.FillCard(ctx, card.Front)
	if err != nil {
		if errors.Is(err, generation.ErrInvalidResponse) {
			// An unparseable answer must not clobber what the user
			// already typed; hand the card back untouched.
			s.logger.WarnContext(ctx, "discarding unparseable fill response",
				"card_id", cardID, "error", err)
			return card.Clone(), nil
		}
		return nil, err
	}

	var filled *domain.Card
	err = s.mutateProfile(ctx, profileID, func(profile *domain.Profile) error {
		current := profile.FindCard(cardID)
		if current == nil {
			return fmt.Errorf("%w: card %s", store.ErrNotFound, cardID)
		}

		updated := current.Clone()
		mergeFill(updated, fill)
		if updated.Term != current.Term {
			updated.Back.ContextLinks = domain.ContextLinks(updated.Term)
		}
		if err := updated.Validate(); err != nil {
			return err
		}

		profile.UpdateCard(updated)
		filled = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return filled, nil
}

// GenerateDeck implements DeckService.GenerateDeck
func (s *deckServiceImpl) GenerateDeck(
	ctx context.Context,
	profileID uuid.UUID,
	deckName, topic string,
	level domain.ProficiencyLevel,
	count int,
) (string, []*domain.Card, error) {
	if count <= 0 {
		count = domain.DefaultGeneratedDeckSize
	}
	if deckName == "" {
		deckName = domain.DefaultGeneratedDeckName(s.now())
	}

	// Generate before touching the database: a slow model call must not
	// hold the profile row lock.
	cards, err := s.deckGen.GenerateDeck(ctx, topic, level, count)
	if err != nil {
		return "", nil, err
	}

	err = s.mutateProfile(ctx, profileID, func(profile *domain.Profile) error {
		return profile.AddCards(deckName, cards)
	})
	if err != nil {
		return "", nil, err
	}

	s.logger.InfoContext(ctx, "generated deck added",
		"profile_id", profileID,
		"deck", deckName,
		"card_count", len(cards))
	return deckName, cards, nil
}

// CardAudio implements DeckService.CardAudio
func (s *deckServiceImpl) CardAudio(
	ctx context.Context,
	profileID uuid.UUID,
	cardID string,
) ([]byte, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	card := profile.FindCard(cardID)
	if card == nil {
		return nil, fmt.Errorf("%w: card %s", store.ErrNotFound, cardID)
	}

	text := card.Term
	if card.Back.Sentence != "" {
		text += ". " + card.Back.Sentence
	}

	pcm, err := s.synthesizer.SynthesizeTerm(ctx, text)
	if err != nil {
		return nil, err
	}

	return audio.EncodeWAV(pcm, s.synthesizer.SampleRate()), nil
}

func applyEdit(card *domain.Card, edit CardEdit) {
	if edit.Front != nil {
		card.Front = *edit.Front
	}
	if edit.FrontTranslation != nil {
		card.FrontTranslation = *edit.FrontTranslation
	}
	if edit.Term != nil {
		card.Term = *edit.Term
	}
	if edit.TermTranslation != nil {
		card.TermTranslation = *edit.TermTranslation
	}
	if edit.Phonetic != nil {
		card.Phonetic = *edit.Phonetic
	}
	if edit.Sentence != nil {
		card.Back.Sentence = *edit.Sentence
	}
	if edit.SentenceTranslation != nil {
		card.Back.SentenceTranslation = *edit.SentenceTranslation
	}
}

// mergeFill copies the model's non-empty answers onto the card, leaving
// everything else as the user had it.
func mergeFill(card *domain.Card, fill *generation.CardFill) {
	if fill.FrontTranslation != "" {
		card.FrontTranslation = fill.FrontTranslation
	}
	if fill.Term != "" {
		card.Term = fill.Term
	}
	if fill.TermTranslation != "" {
		card.TermTranslation = fill.TermTranslation
	}
	if fill.Phonetic != "" {
		card.Phonetic = fill.Phonetic
	}
	if fill.Sentence != "" {
		card.Back.Sentence = fill.Sentence
	}
	if fill.SentenceTranslation != "" {
		card.Back.SentenceTranslation = fill.SentenceTranslation
	}
}
