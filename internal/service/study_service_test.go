package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain/srs"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProfileStore serves one profile from memory for read-only paths.
type fakeProfileStore struct {
	profile *domain.Profile
}

func (f *fakeProfileStore) Create(context.Context, *domain.Profile) error { return nil }

func (f *fakeProfileStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	if f.profile == nil || f.profile.ID != id {
		return nil, store.ErrProfileNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileStore) GetByName(_ context.Context, name string) (*domain.Profile, error) {
	if f.profile == nil || f.profile.Name != name {
		return nil, store.ErrProfileNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProfileStore) List(context.Context) ([]*domain.Profile, error) {
	return []*domain.Profile{f.profile}, nil
}

func (f *fakeProfileStore) Update(context.Context, *domain.Profile) error { return nil }
func (f *fakeProfileStore) Delete(context.Context, uuid.UUID) error       { return nil }
func (f *fakeProfileStore) WithTx(*sql.Tx) store.ProfileStore             { return f }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStudyFixture(t *testing.T) (*studyServiceImpl, *domain.Profile, *domain.Card) {
	t.Helper()

	profile, err := domain.NewProfile("lincoln", "hash")
	require.NoError(t, err)
	require.NoError(t, profile.CreateDeck("Travel"))
	card, err := domain.NewCard("the train is late", "late")
	require.NoError(t, err)
	require.NoError(t, profile.AddCard("Travel", card))

	svc, err := NewStudyService(&sql.DB{}, &fakeProfileStore{profile: profile}, nil, discardLogger())
	require.NoError(t, err)
	return svc.(*studyServiceImpl), profile, card
}

func TestSessionReportsDueQueueAndReturns(t *testing.T) {
	t.Parallel()

	svc, profile, card := newStudyFixture(t)

	session, err := svc.Session(context.Background(), profile.ID, "Travel")
	require.NoError(t, err)

	require.Len(t, session.Queue, 1, "an unscheduled card is immediately due")
	assert.Equal(t, card.ID, session.Queue[0].ID)
	assert.Equal(t, 1, session.RemainingNew)

	require.Len(t, session.Returns, 4)
	for _, r := range session.Returns {
		if r.Status == domain.CardStatusNew {
			assert.Equal(t, srs.ReturnReady, r.Return.Kind)
		} else {
			assert.Equal(t, srs.ReturnNone, r.Return.Kind)
		}
	}
}

func TestSessionUnknownDeck(t *testing.T) {
	t.Parallel()

	svc, profile, _ := newStudyFixture(t)

	_, err := svc.Session(context.Background(), profile.ID, "No Such Deck")
	assert.ErrorIs(t, err, domain.ErrDeckNotFound)
}

func TestGradePacingWindow(t *testing.T) {
	t.Parallel()

	svc, _, card := newStudyFixture(t)

	base := time.Now()
	svc.now = func() time.Time { return base }
	require.NoError(t, svc.checkPacing(card.ID, svc.now()))

	// A second grade inside the window is rejected, the first stands.
	svc.now = func() time.Time { return base.Add(100 * time.Millisecond) }
	assert.ErrorIs(t, svc.checkPacing(card.ID, svc.now()), ErrGradeTooSoon)

	// Another card is unaffected.
	assert.NoError(t, svc.checkPacing("other-card", svc.now()))

	// After the window passes, grading resumes.
	svc.now = func() time.Time { return base.Add(700 * time.Millisecond) }
	assert.NoError(t, svc.checkPacing(card.ID, svc.now()))
}

func TestGradePacingPrunesExpiredEntries(t *testing.T) {
	t.Parallel()

	svc, _, _ := newStudyFixture(t)

	base := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, svc.checkPacing(uuid.NewString(), base))
	}

	// A grade after the window expires sweeps all the stale entries.
	require.NoError(t, svc.checkPacing("fresh-card", base.Add(time.Second)))

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Len(t, svc.lastGrade, 1, "expired pacing entries must be dropped")
	assert.Contains(t, svc.lastGrade, "fresh-card")
}

func TestGradePacingClearsOnFailure(t *testing.T) {
	t.Parallel()

	svc, _, card := newStudyFixture(t)

	now := time.Now()
	require.NoError(t, svc.checkPacing(card.ID, now))
	svc.clearPacing(card.ID)
	assert.NoError(t, svc.checkPacing(card.ID, now))
}
