package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/platform/logger"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
)

// PostgresEpisodeStore implements the store.EpisodeStore interface using
// a PostgreSQL database. Episodes are keyed by (profile_id, deck_key)
// where deck_key is the whitespace-normalized deck name, so Put is an
// upsert: one cached episode per deck per profile.
type PostgresEpisodeStore struct {
	db store.DBTX
}

// NewPostgresEpisodeStore creates a new PostgreSQL implementation of the
// EpisodeStore interface.
func NewPostgresEpisodeStore(db store.DBTX) *PostgresEpisodeStore {
	return &PostgresEpisodeStore{db: db}
}

// Ensure PostgresEpisodeStore implements store.EpisodeStore
var _ store.EpisodeStore = (*PostgresEpisodeStore)(nil)

// WithTx implements store.EpisodeStore.WithTx
func (s *PostgresEpisodeStore) WithTx(tx *sql.Tx) store.EpisodeStore {
	return NewPostgresEpisodeStore(tx)
}

// Put implements store.EpisodeStore.Put
func (s *PostgresEpisodeStore) Put(ctx context.Context, episode *domain.Episode) error {
	log := logger.FromContext(ctx)

	if err := episode.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO episodes (profile_id, deck_key, deck_name, script, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (profile_id, deck_key)
		DO UPDATE SET deck_name = $3, script = $4, level = $5, created_at = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		episode.ProfileID,
		domain.NormalizeDeckName(episode.DeckName),
		episode.DeckName,
		episode.Script,
		string(episode.Level),
		episode.CreatedAt,
	)
	if err != nil {
		log.Error("failed to save episode",
			"profile_id", episode.ProfileID,
			"deck", episode.DeckName,
			"error", err)
		return MapError(err)
	}

	return nil
}

// Get implements store.EpisodeStore.Get
func (s *PostgresEpisodeStore) Get(
	ctx context.Context,
	profileID uuid.UUID,
	deckName string,
) (*domain.Episode, error) {
	query := `
		SELECT profile_id, deck_name, script, level, created_at
		FROM episodes
		WHERE profile_id = $1 AND deck_key = $2
	`

	var (
		episode domain.Episode
		level   string
	)
	err := s.db.QueryRowContext(ctx, query, profileID, domain.NormalizeDeckName(deckName)).Scan(
		&episode.ProfileID,
		&episode.DeckName,
		&episode.Script,
		&level,
		&episode.CreatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrEpisodeNotFound
		}
		return nil, MapError(err)
	}
	episode.Level = domain.ProficiencyLevel(level)

	return &episode, nil
}

// Delete implements store.EpisodeStore.Delete
func (s *PostgresEpisodeStore) Delete(ctx context.Context, profileID uuid.UUID, deckName string) error {
	log := logger.FromContext(ctx)

	query := `DELETE FROM episodes WHERE profile_id = $1 AND deck_key = $2`
	result, err := s.db.ExecContext(ctx, query, profileID, domain.NormalizeDeckName(deckName))
	if err != nil {
		log.Error("failed to delete episode",
			"profile_id", profileID,
			"deck", deckName,
			"error", err)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrEpisodeNotFound)
}
