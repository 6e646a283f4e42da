package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/platform/logger"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface using
// a PostgreSQL database. The decks map is serialized to a single JSONB
// column and rewritten whole on every update; callers that perform
// read-modify-write cycles must lock the row with GetForUpdate inside a
// transaction.
type PostgresProfileStore struct {
	db store.DBTX
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the
// ProfileStore interface. It accepts a database connection or transaction
// that should be managed by the caller.
func NewPostgresProfileStore(db store.DBTX) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

// Ensure PostgresProfileStore implements store.ProfileStore
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return NewPostgresProfileStore(tx)
}

// Create implements store.ProfileStore.Create
func (s *PostgresProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContext(ctx)

	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	decksJSON, err := json.Marshal(profile.Decks)
	if err != nil {
		return fmt.Errorf("failed to marshal decks: %w", err)
	}

	query := `
		INSERT INTO profiles (id, name, passkey_hash, decks, study_time_ms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(ctx, query,
		profile.ID,
		profile.Name,
		profile.PasskeyHash,
		decksJSON,
		profile.StudyTime.Milliseconds(),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrProfileNameExists
		}
		log.Error("failed to create profile",
			"profile_id", profile.ID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ProfileStore.GetByID
func (s *PostgresProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT id, name, passkey_hash, decks, study_time_ms, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	return s.scanProfile(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetByName implements store.ProfileStore.GetByName
func (s *PostgresProfileStore) GetByName(ctx context.Context, name string) (*domain.Profile, error) {
	query := `
		SELECT id, name, passkey_hash, decks, study_time_ms, created_at, updated_at
		FROM profiles
		WHERE name = $1
	`
	return s.scanProfile(ctx, s.db.QueryRowContext(ctx, query, name))
}

// GetForUpdate implements store.ProfileStore.GetForUpdate
func (s *PostgresProfileStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT id, name, passkey_hash, decks, study_time_ms, created_at, updated_at
		FROM profiles
		WHERE id = $1
		FOR UPDATE
	`
	return s.scanProfile(ctx, s.db.QueryRowContext(ctx, query, id))
}

// List implements store.ProfileStore.List
func (s *PostgresProfileStore) List(ctx context.Context) ([]*domain.Profile, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, name, passkey_hash, decks, study_time_ms, created_at, updated_at
		FROM profiles
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list profiles", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []*domain.Profile
	for rows.Next() {
		profile, err := s.scanProfileRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, nil
}

// Update implements store.ProfileStore.Update
func (s *PostgresProfileStore) Update(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContext(ctx)

	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	decksJSON, err := json.Marshal(profile.Decks)
	if err != nil {
		return fmt.Errorf("failed to marshal decks: %w", err)
	}

	query := `
		UPDATE profiles
		SET name = $1, passkey_hash = $2, decks = $3, study_time_ms = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		profile.Name,
		profile.PasskeyHash,
		decksJSON,
		profile.StudyTime.Milliseconds(),
		time.Now().UTC(),
		profile.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrProfileNameExists
		}
		log.Error("failed to update profile",
			"profile_id", profile.ID,
			"error", err)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrProfileNotFound)
}

// Delete implements store.ProfileStore.Delete. Cached episodes are
// removed by the episodes table's ON DELETE CASCADE constraint.
func (s *PostgresProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete profile",
			"profile_id", id,
			"error", err)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrProfileNotFound)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresProfileStore) scanProfile(ctx context.Context, row *sql.Row) (*domain.Profile, error) {
	profile, err := s.scanProfileRow(row)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *PostgresProfileStore) scanProfileRow(row rowScanner) (*domain.Profile, error) {
	var (
		profile     domain.Profile
		decksJSON   []byte
		studyTimeMS int64
	)

	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.PasskeyHash,
		&decksJSON,
		&studyTimeMS,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}

	if err := json.Unmarshal(decksJSON, &profile.Decks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decks for profile %s: %w", profile.ID, err)
	}
	if profile.Decks == nil {
		profile.Decks = map[string][]*domain.Card{}
	}
	profile.StudyTime = time.Duration(studyTimeMS) * time.Millisecond

	return &profile, nil
}
