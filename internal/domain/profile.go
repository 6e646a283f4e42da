package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AllCardsDeck is the distinguished deck that holds a copy of every card in
// the profile. Cards added to any named deck are also appended here, and
// deleting a named deck removes only its cards from this deck, by identity.
const AllCardsDeck = "All Cards"

// Profile-specific validation errors
var (
	// ErrProfileIDEmpty is returned when a profile ID is empty or nil.
	ErrProfileIDEmpty = fmt.Errorf("%w: profile ID cannot be empty", ErrValidation)

	// ErrProfileNameEmpty is returned when a profile's name is empty.
	ErrProfileNameEmpty = fmt.Errorf("%w: profile name cannot be empty", ErrValidation)

	// ErrProfilePasskeyEmpty is returned when a profile has no passkey hash.
	ErrProfilePasskeyEmpty = fmt.Errorf("%w: profile passkey hash cannot be empty", ErrValidation)
)

// Profile represents one learner. A profile owns its decks map, a cumulative
// study-duration counter, and an access passkey. The decks map is always
// read-modify-written as a whole; concurrent writers to the same profile are
// serialized at the store layer.
type Profile struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	PasskeyHash string             `json:"-"` // Never expose the passkey hash in JSON
	Decks       map[string][]*Card `json:"decks"`
	StudyTime   time.Duration      `json:"study_time"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewProfile creates a new Profile with the given name and passkey hash.
// It generates a new UUID for the profile ID, seeds the decks map with an
// empty "All Cards" deck, and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewProfile(name, passkeyHash string) (*Profile, error) {
	profile := &Profile{
		ID:          uuid.New(),
		Name:        name,
		PasskeyHash: passkeyHash,
		Decks:       map[string][]*Card{AllCardsDeck: {}},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the Profile has valid data.
// Returns an error if any field fails validation.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrProfileIDEmpty
	}

	if p.Name == "" {
		return ErrProfileNameEmpty
	}

	if p.PasskeyHash == "" {
		return ErrProfilePasskeyEmpty
	}

	return nil
}

// Deck returns the cards of the named deck.
// Returns ErrDeckNotFound if the deck does not exist.
func (p *Profile) Deck(name string) ([]*Card, error) {
	cards, ok := p.Decks[name]
	if !ok {
		return nil, ErrDeckNotFound
	}
	return cards, nil
}

// CreateDeck adds a new empty deck with the given name.
// Returns ErrDeckExists if the name is already taken.
func (p *Profile) CreateDeck(name string) error {
	if p.Decks == nil {
		p.Decks = map[string][]*Card{AllCardsDeck: {}}
	}
	if _, ok := p.Decks[name]; ok {
		return ErrDeckExists
	}
	p.Decks[name] = []*Card{}
	p.touch()
	return nil
}

// RenameDeck moves a deck under a new name, preserving its cards and order.
// The "All Cards" deck cannot be renamed.
func (p *Profile) RenameDeck(oldName, newName string) error {
	if oldName == AllCardsDeck {
		return ErrAllCardsDeck
	}
	cards, ok := p.Decks[oldName]
	if !ok {
		return ErrDeckNotFound
	}
	if _, ok := p.Decks[newName]; ok {
		return ErrDeckExists
	}
	p.Decks[newName] = cards
	delete(p.Decks, oldName)
	p.touch()
	return nil
}

// DeleteDeck removes a named deck and prunes its cards from "All Cards" by
// identity. The "All Cards" deck itself cannot be deleted.
func (p *Profile) DeleteDeck(name string) error {
	if name == AllCardsDeck {
		return ErrAllCardsDeck
	}
	cards, ok := p.Decks[name]
	if !ok {
		return ErrDeckNotFound
	}

	removed := make(map[string]bool, len(cards))
	for _, c := range cards {
		removed[c.ID] = true
	}

	kept := make([]*Card, 0, len(p.Decks[AllCardsDeck]))
	for _, c := range p.Decks[AllCardsDeck] {
		if !removed[c.ID] {
			kept = append(kept, c)
		}
	}
	p.Decks[AllCardsDeck] = kept

	delete(p.Decks, name)
	p.touch()
	return nil
}

// AddCard appends a card to the named deck and, when the deck is not
// "All Cards" itself, also appends a copy to "All Cards".
// Returns ErrDeckNotFound if the deck does not exist.
func (p *Profile) AddCard(deckName string, card *Card) error {
	if _, ok := p.Decks[deckName]; !ok {
		return ErrDeckNotFound
	}
	p.Decks[deckName] = append(p.Decks[deckName], card)
	if deckName != AllCardsDeck {
		p.Decks[AllCardsDeck] = append(p.Decks[AllCardsDeck], card.Clone())
	}
	p.touch()
	return nil
}

// AddCards appends a batch of cards to the named deck, creating the deck if
// absent, and mirrors every card into "All Cards".
func (p *Profile) AddCards(deckName string, cards []*Card) error {
	if _, ok := p.Decks[deckName]; !ok {
		if err := p.CreateDeck(deckName); err != nil {
			return err
		}
	}
	for _, card := range cards {
		if err := p.AddCard(deckName, card); err != nil {
			return err
		}
	}
	return nil
}

// UpdateCard replaces every copy of the card, across all decks, with the
// given version. Copies are matched by ID. Returns the number of copies
// replaced; zero means the card is not in this profile.
func (p *Profile) UpdateCard(card *Card) int {
	replaced := 0
	for name, cards := range p.Decks {
		for i, c := range cards {
			if c.ID == card.ID {
				p.Decks[name][i] = card.Clone()
				replaced++
			}
		}
	}
	if replaced > 0 {
		p.touch()
	}
	return replaced
}

// RemoveCard deletes every copy of the card with the given ID from every
// deck, including "All Cards". Returns the number of copies removed; zero
// means the card is not in this profile.
func (p *Profile) RemoveCard(id string) int {
	removed := 0
	for name, cards := range p.Decks {
		kept := cards[:0]
		for _, c := range cards {
			if c.ID == id {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		p.Decks[name] = kept
	}
	if removed > 0 {
		p.touch()
	}
	return removed
}

// FindCard returns the first copy of the card with the given ID, searching
// "All Cards" first. Returns nil when the profile holds no such card.
func (p *Profile) FindCard(id string) *Card {
	if cards, ok := p.Decks[AllCardsDeck]; ok {
		for _, c := range cards {
			if c.ID == id {
				return c
			}
		}
	}
	for _, cards := range p.Decks {
		for _, c := range cards {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}

// AddStudyTime accumulates a completed study session's duration.
func (p *Profile) AddStudyTime(d time.Duration) {
	if d <= 0 {
		return
	}
	p.StudyTime += d
	p.touch()
}

func (p *Profile) touch() {
	p.UpdatedAt = time.Now().UTC()
}
