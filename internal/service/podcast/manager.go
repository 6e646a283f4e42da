package podcast

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/audio"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain/srs"
	"github.com/lincolndiasramos-coder/linkards-api/internal/generation"
	"github.com/lincolndiasramos-coder/linkards-api/internal/store"
	"github.com/lincolndiasramos-coder/linkards-api/internal/task"
)

// TaskSubmitter accepts background tasks for processing. Implemented by
// task.TaskRunner.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// Manager owns the episode pipelines, one per (profile, deck) key, and
// orchestrates generation end to end: term selection, script writing,
// persistence of the script, and speech synthesis. Generation runs as a
// background task; callers poll Status and fetch Audio when it lands.
type Manager struct {
	profiles    store.ProfileStore
	episodes    store.EpisodeStore
	scripts     generation.ScriptWriter
	synthesizer generation.SpeechSynthesizer
	submitter   TaskSubmitter
	params      *srs.Params
	logger      *slog.Logger
	newRng      func() *rand.Rand // injectable for testing

	mu        sync.Mutex
	pipelines map[string]*Pipeline
}

// Ensure Manager can back episode generation tasks
var _ task.EpisodeGenerator = (*Manager)(nil)

// NewManager creates a podcast Manager.
// It returns an error if any of the required dependencies are nil.
func NewManager(
	profiles store.ProfileStore,
	episodes store.EpisodeStore,
	scripts generation.ScriptWriter,
	synthesizer generation.SpeechSynthesizer,
	params *srs.Params,
	logger *slog.Logger,
) (*Manager, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}
	if episodes == nil {
		return nil, fmt.Errorf("episode store cannot be nil")
	}
	if scripts == nil || synthesizer == nil {
		return nil, fmt.Errorf("generation dependencies cannot be nil")
	}
	if params == nil {
		params = srs.NewDefaultParams()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		profiles:    profiles,
		episodes:    episodes,
		scripts:     scripts,
		synthesizer: synthesizer,
		params:      params,
		logger:      logger.With(slog.String("component", "podcast_manager")),
		newRng: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		pipelines: make(map[string]*Pipeline),
	}, nil
}

// SetSubmitter installs the background task runner. Without one,
// RequestGeneration runs the pipeline synchronously.
func (m *Manager) SetSubmitter(s TaskSubmitter) {
	m.submitter = s
}

// pipeline returns the pipeline for a key, creating it on first use.
func (m *Manager) pipeline(profileID uuid.UUID, deckName string) *Pipeline {
	key := domain.EpisodeKey(profileID, deckName)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pipelines[key]
	if !ok {
		p = newPipeline()
		m.pipelines[key] = p
	}
	return p
}

// Status returns the observable pipeline state for a deck.
func (m *Manager) Status(profileID uuid.UUID, deckName string) Snapshot {
	return m.pipeline(profileID, deckName).Snapshot()
}

// RequestGeneration starts episode generation for a deck. It fails fast
// on an empty or missing deck, rejects concurrent generation for the
// same deck with ErrGenerationInFlight, and otherwise hands the work to
// the background runner.
func (m *Manager) RequestGeneration(
	ctx context.Context,
	profileID uuid.UUID,
	deckName string,
	level domain.ProficiencyLevel,
) error {
	if !domain.IsValidLevel(level) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidLevel, level)
	}

	profile, err := m.profiles.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	cards, err := profile.Deck(deckName)
	if err != nil {
		return err
	}

	p := m.pipeline(profileID, deckName)
	if !p.begin(StateScripting, level) {
		return ErrGenerationInFlight
	}

	if len(cards) == 0 {
		err := generation.ErrEmptyDeck
		p.fail(err)
		return err
	}

	if m.submitter == nil {
		return m.GenerateEpisode(ctx, profileID, deckName, level)
	}

	t, err := task.NewEpisodeGenerationTask(profileID, deckName, level, m)
	if err != nil {
		p.fail(err)
		return err
	}
	if err := m.submitter.Submit(ctx, t); err != nil {
		p.fail(err)
		return err
	}

	m.logger.InfoContext(ctx, "episode generation queued",
		"profile_id", profileID,
		"deck", deckName,
		"level", string(level))
	return nil
}

// GenerateEpisode runs the full pipeline for a deck: select terms, write
// the script, cache it, then synthesize audio. It implements
// task.EpisodeGenerator so recovered tasks re-enter here.
func (m *Manager) GenerateEpisode(
	ctx context.Context,
	profileID uuid.UUID,
	deckName string,
	level domain.ProficiencyLevel,
) error {
	p := m.pipeline(profileID, deckName)
	// A recovered task starts from a fresh pipeline; make the state
	// honest before doing the work.
	p.setState(StateScripting)

	err := m.generate(ctx, p, profileID, deckName, level)
	if err != nil {
		p.fail(err)
		m.logger.ErrorContext(ctx, "episode generation failed",
			"profile_id", profileID,
			"deck", deckName,
			"error", err)
		return err
	}

	m.logger.InfoContext(ctx, "episode generated",
		"profile_id", profileID,
		"deck", deckName,
		"level", string(level))
	return nil
}

func (m *Manager) generate(
	ctx context.Context,
	p *Pipeline,
	profileID uuid.UUID,
	deckName string,
	level domain.ProficiencyLevel,
) error {
	profile, err := m.profiles.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	cards, err := profile.Deck(deckName)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return generation.ErrEmptyDeck
	}

	terms := selectTerms(cards, m.params.TermSelectionSize, m.newRng())

	script, err := m.scripts.WriteScript(ctx, terms, level)
	if err != nil {
		return err
	}
	p.setScript(script)

	episode, err := domain.NewEpisode(profileID, deckName, script, level)
	if err != nil {
		return err
	}
	if err := m.episodes.Put(ctx, episode); err != nil {
		return err
	}

	p.setState(StateSynthesizing)
	pcm, err := m.synthesizer.SynthesizeDialogue(ctx, script)
	if err != nil {
		return err
	}

	p.finish(pcm)
	return nil
}

// Play makes a deck's episode audible: if audio is already loaded it
// just flips to playing, otherwise it resynthesizes the cached script,
// skipping the scripting phase entirely.
func (m *Manager) Play(ctx context.Context, profileID uuid.UUID, deckName string) error {
	p := m.pipeline(profileID, deckName)
	if p.markPlaying() {
		return nil
	}
	if p.busy() {
		return ErrGenerationInFlight
	}

	episode, err := m.episodes.Get(ctx, profileID, deckName)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrNoAudioLoaded
		}
		return err
	}

	if !p.begin(StateSynthesizing, episode.Level) {
		return ErrGenerationInFlight
	}
	p.setScript(episode.Script)

	pcm, err := m.synthesizer.SynthesizeDialogue(ctx, episode.Script)
	if err != nil {
		p.fail(err)
		return err
	}
	p.finish(pcm)

	if !p.markPlaying() {
		return ErrNoAudioLoaded
	}
	return nil
}

// Audio returns the loaded episode audio as a WAV file along with its
// proficiency level. Returns ErrNoAudioLoaded when nothing is loaded.
func (m *Manager) Audio(
	profileID uuid.UUID,
	deckName string,
) ([]byte, domain.ProficiencyLevel, error) {
	pcm, level, ok := m.pipeline(profileID, deckName).audio()
	if !ok {
		return nil, "", ErrNoAudioLoaded
	}
	return audio.EncodeWAV(pcm, m.synthesizer.SampleRate()), level, nil
}

// DeleteEpisode drops a deck's cached episode and resets its pipeline.
func (m *Manager) DeleteEpisode(ctx context.Context, profileID uuid.UUID, deckName string) error {
	if err := m.episodes.Delete(ctx, profileID, deckName); err != nil {
		return err
	}
	m.pipeline(profileID, deckName).reset()
	return nil
}

// DownloadFilename builds the attachment filename for a deck's episode.
func DownloadFilename(deckName string, level domain.ProficiencyLevel) string {
	return fmt.Sprintf("LinCast_%s_%s.wav", domain.NormalizeDeckName(deckName), level)
}
