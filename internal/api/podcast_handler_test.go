package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service/podcast"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProfileStore serves one profile from memory.
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

// fakeEpisodeStore keeps episodes in a map keyed the same way the real
// store does.
type fakeEpisodeStore struct {
	episodes map[string]*domain.Episode
}

func newFakeEpisodeStore() *fakeEpisodeStore {
	return &fakeEpisodeStore{episodes: make(map[string]*domain.Episode)}
}

func (f *fakeEpisodeStore) Put(_ context.Context, episode *domain.Episode) error {
	f.episodes[episode.Key()] = episode
	return nil
}

func (f *fakeEpisodeStore) Get(
	_ context.Context,
	profileID uuid.UUID,
	deckName string,
) (*domain.Episode, error) {
	episode, ok := f.episodes[domain.EpisodeKey(profileID, deckName)]
	if !ok {
		return nil, store.ErrEpisodeNotFound
	}
	return episode, nil
}

func (f *fakeEpisodeStore) Delete(_ context.Context, profileID uuid.UUID, deckName string) error {
	key := domain.EpisodeKey(profileID, deckName)
	if _, ok := f.episodes[key]; !ok {
		return store.ErrEpisodeNotFound
	}
	delete(f.episodes, key)
	return nil
}

func (f *fakeEpisodeStore) WithTx(*sql.Tx) store.EpisodeStore { return f }

// fakeGenerator is a canned script writer and synthesizer.
type fakeGenerator struct {
	script string
	pcm    []byte
}

func (f *fakeGenerator) WriteScript(
	_ context.Context,
	_ []*domain.Card,
	_ domain.ProficiencyLevel,
) (string, error) {
	return f.script, nil
}

func (f *fakeGenerator) SynthesizeDialogue(context.Context, string) ([]byte, error) {
	return f.pcm, nil
}

func (f *fakeGenerator) SynthesizeTerm(context.Context, string) ([]byte, error) {
	return f.pcm, nil
}

func (f *fakeGenerator) SampleRate() int { return 24000 }

func podcastRouter(h *PodcastHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/decks/{deckName}/episode", h.Generate)
	r.Get("/decks/{deckName}/episode", h.Status)
	r.Delete("/decks/{deckName}/episode", h.Delete)
	r.Post("/decks/{deckName}/episode/play", h.Play)
	r.Get("/decks/{deckName}/episode/audio", h.Audio)
	return r
}

func newPodcastFixture(t *testing.T) (*PodcastHandler, *domain.Profile) {
	t.Helper()

	profile, err := domain.NewProfile("lincoln", "hash")
	require.NoError(t, err)
	require.NoError(t, profile.CreateDeck("Phrasal Verbs"))
	card, err := domain.NewCard("front", "give up")
	require.NoError(t, err)
	require.NoError(t, profile.AddCard("Phrasal Verbs", card))

	gen := &fakeGenerator{script: "Alice: Hello!\nBob: Hi!", pcm: []byte{1, 2, 3, 4}}
	manager, err := podcast.NewManager(
		&fakeProfileStore{profile: profile},
		newFakeEpisodeStore(),
		gen, gen, nil, testLogger())
	require.NoError(t, err)

	return NewPodcastHandler(manager, testLogger()), profile
}

func TestPodcastHandlerGenerateAndDownload(t *testing.T) {
	h, profile := newPodcastFixture(t)
	router := podcastRouter(h)

	// Without a background runner the manager generates synchronously,
	// so the accepted response already reflects the finished pipeline.
	body, _ := json.Marshal(GenerateEpisodeRequest{Level: string(domain.LevelIntermediate)})
	req := authedRequest(http.MethodPost, "/decks/Phrasal%20Verbs/episode", body, profile.ID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	var snap podcast.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, podcast.StateSaved, snap.State)
	assert.True(t, snap.HasAudio)

	req = authedRequest(http.MethodGet, "/decks/Phrasal%20Verbs/episode/audio", nil, profile.ID)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "audio/wav", rr.Header().Get("Content-Type"))
	assert.Equal(t,
		`attachment; filename="LinCast_Phrasal_Verbs_B1-B2.wav"`,
		rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "RIFF", rr.Body.String()[:4])
}

func TestPodcastHandlerGenerateRejectsBadLevel(t *testing.T) {
	h, profile := newPodcastFixture(t)

	body, _ := json.Marshal(GenerateEpisodeRequest{Level: "Z9"})
	req := authedRequest(http.MethodPost, "/decks/Phrasal%20Verbs/episode", body, profile.ID)
	rr := httptest.NewRecorder()
	podcastRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPodcastHandlerGenerateUnknownDeck(t *testing.T) {
	h, profile := newPodcastFixture(t)

	body, _ := json.Marshal(GenerateEpisodeRequest{Level: string(domain.LevelBeginner)})
	req := authedRequest(http.MethodPost, "/decks/Missing/episode", body, profile.ID)
	rr := httptest.NewRecorder()
	podcastRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPodcastHandlerStatusStartsIdle(t *testing.T) {
	h, profile := newPodcastFixture(t)

	req := authedRequest(http.MethodGet, "/decks/Phrasal%20Verbs/episode", nil, profile.ID)
	rr := httptest.NewRecorder()
	podcastRouter(h).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var snap podcast.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, podcast.StateIdle, snap.State)
	assert.False(t, snap.HasAudio)
}

func TestPodcastHandlerAudioBeforeGeneration(t *testing.T) {
	h, profile := newPodcastFixture(t)

	req := authedRequest(http.MethodGet, "/decks/Phrasal%20Verbs/episode/audio", nil, profile.ID)
	rr := httptest.NewRecorder()
	podcastRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPodcastHandlerPlayWithoutCachedEpisode(t *testing.T) {
	h, profile := newPodcastFixture(t)

	req := authedRequest(http.MethodPost, "/decks/Phrasal%20Verbs/episode/play", nil, profile.ID)
	rr := httptest.NewRecorder()
	podcastRouter(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPodcastHandlerDeleteResetsPipeline(t *testing.T) {
	h, profile := newPodcastFixture(t)
	router := podcastRouter(h)

	body, _ := json.Marshal(GenerateEpisodeRequest{Level: string(domain.LevelAdvanced)})
	req := authedRequest(http.MethodPost, "/decks/Phrasal%20Verbs/episode", body, profile.ID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	req = authedRequest(http.MethodDelete, "/decks/Phrasal%20Verbs/episode", nil, profile.ID)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	req = authedRequest(http.MethodGet, "/decks/Phrasal%20Verbs/episode", nil, profile.ID)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	var snap podcast.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, podcast.StateIdle, snap.State)
}
