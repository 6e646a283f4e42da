package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// ProfileStore defines the interface for profile data persistence.
//
// A profile's decks map is stored and rewritten as a whole on every card or
// deck mutation, so writers to the same profile must be serialized. Services
// do this by running read-modify-write cycles inside a transaction and
// loading the row with GetForUpdate.
type ProfileStore interface {
	// Create saves a new profile to the store.
	// Returns validation errors from the domain Profile if data is invalid.
	// Returns ErrProfileNameExists if the profile name is already taken.
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByID retrieves a profile by its unique ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	// NOTE: This method does NOT provide any row locking; do not use it for
	// read-modify-write cycles that need concurrency protection.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// GetByName retrieves a profile by its unique name.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByName(ctx context.Context, name string) (*domain.Profile, error)

	// GetForUpdate retrieves a profile with a row-level lock using
	// SELECT ... FOR UPDATE. Use it within a transaction when the decks map
	// is about to be rewritten, so concurrent grades of two cards in the
	// same deck cannot silently drop one update.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// List retrieves all profiles ordered by creation time.
	List(ctx context.Context) ([]*domain.Profile, error)

	// Update rewrites an existing profile, including the whole decks map.
	// Returns ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, profile *domain.Profile) error

	// Delete removes a profile from the store by its ID. The profile's
	// cached episodes are removed with it (ON DELETE CASCADE).
	// Returns ErrProfileNotFound if the profile does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProfileStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service via RunInTransaction).
	WithTx(tx *sql.Tx) ProfileStore
}

// EpisodeStore defines the interface for cached-episode persistence, keyed by
// (profile ID, normalized deck name). At most one live episode exists per
// key: Put overwrites any previous record for the same key.
type EpisodeStore interface {
	// Put saves an episode, replacing any prior episode cached for the same
	// key. Returns validation errors from the domain Episode if data is
	// invalid.
	Put(ctx context.Context, episode *domain.Episode) error

	// Get retrieves the episode cached for the given profile and deck.
	// Returns ErrEpisodeNotFound if no episode is cached for the key.
	Get(ctx context.Context, profileID uuid.UUID, deckName string) (*domain.Episode, error)

	// Delete removes the episode cached for the given profile and deck.
	// Returns ErrEpisodeNotFound if no episode is cached for the key.
	Delete(ctx context.Context, profileID uuid.UUID, deckName string) error

	// WithTx returns a new EpisodeStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) EpisodeStore
}
