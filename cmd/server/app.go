package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/config"
	"github.com/lincolndiasramos-coder/linkards-api/internal/domain/srs"
	"github.com/lincolndiasramos-coder/linkards-api/internal/platform/gemini"
	"github.com/lincolndiasramos-coder/linkards-api/internal/platform/postgres"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service/auth"
	"github.com/lincolndiasramos-coder/linkards-api/internal/service/podcast"
	"github.com/lincolndiasramos-coder/linkards-api/internal/task"
)

// application holds the assembled dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService     auth.JWTService
	profileService service.ProfileService
	deckService    service.DeckService
	studyService   service.StudyService
	podcastManager *podcast.Manager
	taskRunner     *task.TaskRunner
}

// buildApplication wires every component together. Migrations run first
// so the stores always see a current schema.
func buildApplication(cfg *config.Config) (*application, error) {
	logger := slog.Default()

	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	profileStore := postgres.NewPostgresProfileStore(db)
	episodeStore := postgres.NewPostgresEpisodeStore(db)
	taskStore := postgres.NewPostgresTaskStore(db)

	passkey := auth.NewBcryptPasskey(cfg.Auth.BcryptCost)
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	generator, err := gemini.NewGenerator(logger, cfg.LLM)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	params := srs.NewDefaultParams()

	profileService, err := service.NewProfileService(
		db, profileStore, passkey, passkey, jwtService, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create profile service: %w", err)
	}

	deckService, err := service.NewDeckService(
		db, profileStore, generator, generator, generator, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	studyService, err := service.NewStudyService(db, profileStore, params, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	podcastManager, err := podcast.NewManager(
		profileStore, episodeStore, generator, generator, params, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create podcast manager: %w", err)
	}

	// Recovered task rows need the manager reattached before they can
	// execute again.
	taskStore.SetRehydrator(func(
		id uuid.UUID,
		taskType string,
		payload []byte,
		status task.TaskStatus,
	) (task.Task, error) {
		if taskType != task.TaskTypeEpisodeGeneration {
			return nil, fmt.Errorf("unknown task type %q", taskType)
		}
		return task.RehydrateEpisodeGenerationTask(id, payload, status, podcastManager)
	})

	runnerCfg := task.DefaultTaskRunnerConfig()
	if cfg.Task.WorkerCount > 0 {
		runnerCfg.WorkerCount = cfg.Task.WorkerCount
	}
	if cfg.Task.QueueSize > 0 {
		runnerCfg.QueueSize = cfg.Task.QueueSize
	}
	taskRunner := task.NewTaskRunner(taskStore, runnerCfg, logger)
	podcastManager.SetSubmitter(taskRunner)

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		jwtService:     jwtService,
		profileService: profileService,
		deckService:    deckService,
		studyService:   studyService,
		podcastManager: podcastManager,
		taskRunner:     taskRunner,
	}, nil
}

// cleanup releases resources in reverse dependency order.
func (app *application) cleanup() {
	app.taskRunner.Stop()
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}
