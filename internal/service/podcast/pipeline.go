package podcast

import (
	"sync"

	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// Pipeline holds the in-memory generation state for one (profile, deck)
// pair. Synthesized PCM lives only here: the persistent layer keeps the
// script, and audio is re-rendered from it on demand.
type Pipeline struct {
	mu      sync.Mutex
	state   State
	level   domain.ProficiencyLevel
	script  string
	pcm     []byte
	lastErr string
}

func newPipeline() *Pipeline {
	return &Pipeline{state: StateIdle}
}

// Snapshot is a point-in-time copy of a pipeline's observable state.
type Snapshot struct {
	State    State                   `json:"state"`
	Level    domain.ProficiencyLevel `json:"level,omitempty"`
	HasAudio bool                    `json:"has_audio"`
	Error    string                  `json:"error,omitempty"`
}

// Snapshot returns the pipeline's current observable state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		State:    p.state,
		Level:    p.level,
		HasAudio: len(p.pcm) > 0,
		Error:    p.lastErr,
	}
}

// begin moves an idle, saved, played-out or failed pipeline into the
// given busy state. It reports false when the pipeline is already busy.
func (p *Pipeline) begin(state State, level domain.ProficiencyLevel) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Busy() {
		return false
	}
	p.state = state
	p.level = level
	p.lastErr = ""
	return true
}

func (p *Pipeline) setState(state State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
}

func (p *Pipeline) setScript(script string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script = script
}

func (p *Pipeline) finish(pcm []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pcm = pcm
	p.state = StateSaved
	p.lastErr = ""
}

func (p *Pipeline) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateError
	p.lastErr = err.Error()
}

// audio returns the loaded PCM and its level; ok is false when no audio
// is loaded.
func (p *Pipeline) audio() (pcm []byte, level domain.ProficiencyLevel, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pcm) == 0 {
		return nil, "", false
	}
	return p.pcm, p.level, true
}

// markPlaying flips a saved pipeline into the playing state; it reports
// false when no audio is loaded or when a generation is running, so
// audio left over from an earlier run cannot mask an in-flight one.
func (p *Pipeline) markPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Busy() || len(p.pcm) == 0 {
		return false
	}
	p.state = StatePlaying
	return true
}

// busy reports whether a generation is currently running.
func (p *Pipeline) busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Busy()
}

// reset clears everything back to idle.
func (p *Pipeline) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateIdle
	p.level = ""
	p.script = ""
	p.pcm = nil
	p.lastErr = ""
}
