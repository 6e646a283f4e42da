package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
)

// EpisodeGenerator runs the actual episode generation for a deck. It is
// implemented by the podcast service; the task layer only carries the
// arguments across the queue.
type EpisodeGenerator interface {
	GenerateEpisode(
		ctx context.Context,
		profileID uuid.UUID,
		deckName string,
		level domain.ProficiencyLevel,
	) error
}

// episodeGenerationPayload is the JSON shape persisted for the task.
type episodeGenerationPayload struct {
	ProfileID uuid.UUID               `json:"profile_id"`
	DeckName  string                  `json:"deck_name"`
	Level     domain.ProficiencyLevel `json:"level"`
}

// EpisodeGenerationTask generates a podcast episode for one deck in the
// background.
type EpisodeGenerationTask struct {
	id        uuid.UUID
	payload   []byte
	status    TaskStatus
	generator EpisodeGenerator
}

// Ensure EpisodeGenerationTask implements Task
var _ Task = (*EpisodeGenerationTask)(nil)

// NewEpisodeGenerationTask creates a task to generate an episode for the
// given profile's deck at the given level.
func NewEpisodeGenerationTask(
	profileID uuid.UUID,
	deckName string,
	level domain.ProficiencyLevel,
	generator EpisodeGenerator,
) (*EpisodeGenerationTask, error) {
	if profileID == uuid.Nil {
		return nil, errors.New("profile ID cannot be empty")
	}
	if deckName == "" {
		return nil, errors.New("deck name cannot be empty")
	}
	if !domain.IsValidLevel(level) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLevel, level)
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}

	payload, err := json.Marshal(episodeGenerationPayload{
		ProfileID: profileID,
		DeckName:  deckName,
		Level:     level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	return &EpisodeGenerationTask{
		id:        uuid.New(),
		payload:   payload,
		status:    TaskStatusPending,
		generator: generator,
	}, nil
}

// RehydrateEpisodeGenerationTask rebuilds a task from its persisted form
// after recovery, reattaching the generator dependency.
func RehydrateEpisodeGenerationTask(
	id uuid.UUID,
	payload []byte,
	status TaskStatus,
	generator EpisodeGenerator,
) (*EpisodeGenerationTask, error) {
	var p episodeGenerationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}

	return &EpisodeGenerationTask{
		id:        id,
		payload:   payload,
		status:    status,
		generator: generator,
	}, nil
}

// ID implements Task.ID
func (t *EpisodeGenerationTask) ID() uuid.UUID { return t.id }

// Type implements Task.Type
func (t *EpisodeGenerationTask) Type() string { return TaskTypeEpisodeGeneration }

// Payload implements Task.Payload
func (t *EpisodeGenerationTask) Payload() []byte { return t.payload }

// Status implements Task.Status
func (t *EpisodeGenerationTask) Status() TaskStatus { return t.status }

// Execute implements Task.Execute
func (t *EpisodeGenerationTask) Execute(ctx context.Context) error {
	var p episodeGenerationPayload
	if err := json.Unmarshal(t.payload, &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	return t.generator.GenerateEpisode(ctx, p.ProfileID, p.DeckName, p.Level)
}
