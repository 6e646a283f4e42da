package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service/auth"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
)

// ProfileService provides profile lifecycle and authentication operations.
type ProfileService interface {
	// Create registers a new profile with a hashed passkey. The profile
	// starts with an empty "All Cards" deck.
	Create(ctx context.Context, name, passkey string) (*domain.Profile, error)

	// Authenticate verifies a profile's passkey and issues a JWT for it.
	// Returns auth.ErrInvalidPasskey on mismatch; an unknown name reports
	// the same error so names cannot be probed.
	Authenticate(ctx context.Context, name, passkey string) (*domain.Profile, string, error)

	// Get retrieves a profile by ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// List retrieves all profiles ordered by creation time.
	List(ctx context.Context) ([]*domain.Profile, error)

	// Delete removes a profile and its cached episodes.
	Delete(ctx context.Context, id uuid.UUID) error

	// ChangePasskey replaces a profile's passkey after verifying the
	// current one. Returns auth.ErrInvalidPasskey on mismatch.
	ChangePasskey(ctx context.Context, id uuid.UUID, current, next string) error

	// RecordStudyTime adds a completed study session's duration to the
	// profile's running total.
	RecordStudyTime(ctx context.Context, id uuid.UUID, d time.Duration) error
}

// profileServiceImpl implements the ProfileService interface
type profileServiceImpl struct {
	db         *sql.DB
	profiles   store.ProfileStore
	hasher     auth.PasskeyHasher
	verifier   auth.PasskeyVerifier
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewProfileService creates a new ProfileService.
// It returns an error if any of the required dependencies are nil.
func NewProfileService(
	db *sql.DB,
	profiles store.ProfileStore,
	hasher auth.PasskeyHasher,
	verifier auth.PasskeyVerifier,
	jwtService auth.JWTService,
	logger *slog.Logger,
) (ProfileService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}
	if hasher == nil || verifier == nil {
		return nil, fmt.Errorf("passkey hasher and verifier cannot be nil")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("jwt service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &profileServiceImpl{
		db:         db,
		profiles:   profiles,
		hasher:     hasher,
		verifier:   verifier,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "profile_service")),
	}, nil
}

// Create implements ProfileService.Create
func (s *profileServiceImpl) Create(ctx context.Context, name, passkey string) (*domain.Profile, error) {
	hash, err := s.hasher.Hash(passkey)
	if err != nil {
		return nil, fmt.Errorf("failed to hash passkey: %w", err)
	}

	profile, err := domain.NewProfile(name, hash)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile created",
		"profile_id", profile.ID,
		"name", profile.Name)
	return profile, nil
}

// Authenticate implements ProfileService.Authenticate
func (s *profileServiceImpl) Authenticate(
	ctx context.Context,
	name, passkey string,
) (*domain.Profile, string, error) {
	profile, err := s.profiles.GetByName(ctx, name)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, "", auth.ErrInvalidPasskey
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(profile.PasskeyHash, passkey); err != nil {
		s.logger.WarnContext(ctx, "failed authentication attempt",
			"profile_id", profile.ID)
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(ctx, profile.ID)
	if err != nil {
		return nil, "", err
	}

	return profile, token, nil
}

// Get implements ProfileService.Get
func (s *profileServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// List implements ProfileService.List
func (s *profileServiceImpl) List(ctx context.Context) ([]*domain.Profile, error) {
	return s.profiles.List(ctx)
}

// Delete implements ProfileService.Delete
func (s *profileServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "profile deleted", "profile_id", id)
	return nil
}

// ChangePasskey implements ProfileService.ChangePasskey
func (s *profileServiceImpl) ChangePasskey(
	ctx context.Context,
	id uuid.UUID,
	current, next string,
) error {
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash passkey: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProfiles := s.profiles.WithTx(tx)

		profile, err := txProfiles.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := s.verifier.Compare(profile.PasskeyHash, current); err != nil {
			return err
		}

		profile.PasskeyHash = hash
		return txProfiles.Update(ctx, profile)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "passkey changed", "profile_id", id)
	return nil
}

// RecordStudyTime implements ProfileService.RecordStudyTime
func (s *profileServiceImpl) RecordStudyTime(
	ctx context.Context,
	id uuid.UUID,
	d time.Duration,
) error {
	if d <= 0 {
		return nil
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProfiles := s.profiles.WithTx(tx)

		profile, err := txProfiles.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		profile.AddStudyTime(d)
		return txProfiles.Update(ctx, profile)
	})
}
