package task

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTaskStore keeps tasks and their statuses in memory.
type memoryTaskStore struct {
	mu       sync.Mutex
	tasks    map[uuid.UUID]Task
	statuses map[uuid.UUID]TaskStatus
	saveErr  error
}

func newMemoryTaskStore() *memoryTaskStore {
	return &memoryTaskStore{
		tasks:    make(map[uuid.UUID]Task),
		statuses: make(map[uuid.UUID]TaskStatus),
	}
}

func (s *memoryTaskStore) SaveTask(_ context.Context, t Task) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID()] = t
	s.statuses[t.ID()] = t.Status()
	return nil
}

func (s *memoryTaskStore) UpdateTaskStatus(
	_ context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	_ string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[taskID] = status
	return nil
}

func (s *memoryTaskStore) GetPendingTasks(context.Context) ([]Task, error) {
	return s.byStatus(TaskStatusPending), nil
}

func (s *memoryTaskStore) GetProcessingTasks(_ context.Context, _ time.Duration) ([]Task, error) {
	return s.byStatus(TaskStatusProcessing), nil
}

func (s *memoryTaskStore) WithTx(*sql.Tx) TaskStore { return s }

func (s *memoryTaskStore) byStatus(status TaskStatus) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Task
	for id, t := range s.tasks {
		if s.statuses[id] == status {
			out = append(out, t)
		}
	}
	return out
}

func (s *memoryTaskStore) statusOf(id uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[id]
}

// blockingGenerator signals when it runs and waits for release.
type blockingGenerator struct {
	started chan uuid.UUID
	err     error
}

func (g *blockingGenerator) GenerateEpisode(
	_ context.Context,
	profileID uuid.UUID,
	_ string,
	_ domain.ProficiencyLevel,
) error {
	if g.started != nil {
		g.started <- profileID
	}
	return g.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEpisodeTask(t *testing.T, gen EpisodeGenerator) *EpisodeGenerationTask {
	t.Helper()
	task, err := NewEpisodeGenerationTask(uuid.New(), "Phrasal Verbs", domain.LevelIntermediate, gen)
	require.NoError(t, err)
	return task
}

func waitForStatus(t *testing.T, store *memoryTaskStore, id uuid.UUID, want TaskStatus) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if store.statusOf(id) == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("Timed out waiting for status %q, got %q", want, store.statusOf(id))
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRunnerProcessesSubmittedTask(t *testing.T) {
	store := newMemoryTaskStore()
	runner := NewTaskRunner(store, TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, quietLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	gen := &blockingGenerator{started: make(chan uuid.UUID, 1)}
	task := newEpisodeTask(t, gen)
	require.NoError(t, runner.Submit(context.Background(), task))

	select {
	case <-gen.started:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the task to run")
	}
	waitForStatus(t, store, task.ID(), TaskStatusCompleted)
}

func TestRunnerMarksFailedTask(t *testing.T) {
	store := newMemoryTaskStore()
	runner := NewTaskRunner(store, TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, quietLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	gen := &blockingGenerator{err: assert.AnError}
	task := newEpisodeTask(t, gen)
	require.NoError(t, runner.Submit(context.Background(), task))

	waitForStatus(t, store, task.ID(), TaskStatusFailed)
}

func TestSubmitQueueFull(t *testing.T) {
	store := newMemoryTaskStore()
	// No workers, queue of one: the second submit must not block.
	runner := NewTaskRunner(store, TaskRunnerConfig{WorkerCount: 0, QueueSize: 1}, quietLogger())

	gen := &blockingGenerator{}
	first := newEpisodeTask(t, gen)
	second := newEpisodeTask(t, gen)

	require.NoError(t, runner.Submit(context.Background(), first))
	err := runner.Submit(context.Background(), second)
	assert.ErrorIs(t, err, ErrQueueFull)

	// The overflow task is still persisted as pending for recovery.
	assert.Equal(t, TaskStatusPending, store.statusOf(second.ID()))
}

func TestRecoverRequeuesUnfinishedTasks(t *testing.T) {
	store := newMemoryTaskStore()
	gen := &blockingGenerator{started: make(chan uuid.UUID, 2)}

	// Simulate a previous run that died mid-flight.
	pending := newEpisodeTask(t, gen)
	processing := newEpisodeTask(t, gen)
	require.NoError(t, store.SaveTask(context.Background(), pending))
	require.NoError(t, store.SaveTask(context.Background(), processing))
	require.NoError(t,
		store.UpdateTaskStatus(context.Background(), processing.ID(), TaskStatusProcessing, ""))

	runner := NewTaskRunner(store, TaskRunnerConfig{WorkerCount: 2, QueueSize: 4}, quietLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-gen.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for recovered task %d to run", i)
		}
	}
	waitForStatus(t, store, pending.ID(), TaskStatusCompleted)
	waitForStatus(t, store, processing.ID(), TaskStatusCompleted)
}

func TestNewEpisodeGenerationTaskValidation(t *testing.T) {
	gen := &blockingGenerator{}

	_, err := NewEpisodeGenerationTask(uuid.Nil, "deck", domain.LevelBeginner, gen)
	assert.Error(t, err)

	_, err = NewEpisodeGenerationTask(uuid.New(), "", domain.LevelBeginner, gen)
	assert.Error(t, err)

	_, err = NewEpisodeGenerationTask(uuid.New(), "deck", "Z9", gen)
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)

	_, err = NewEpisodeGenerationTask(uuid.New(), "deck", domain.LevelBeginner, nil)
	assert.Error(t, err)
}

func TestRehydratedTaskExecutes(t *testing.T) {
	gen := &blockingGenerator{started: make(chan uuid.UUID, 1)}
	original := newEpisodeTask(t, gen)

	rehydrated, err := RehydrateEpisodeGenerationTask(
		original.ID(), original.Payload(), TaskStatusPending, gen)
	require.NoError(t, err)
	require.Equal(t, original.ID(), rehydrated.ID())

	require.NoError(t, rehydrated.Execute(context.Background()))
	select {
	case <-gen.started:
	default:
		t.Fatal("Expected the rehydrated task to reach the generator")
	}
}
