package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	artifactservice "tripforge/contexts/trip-planning/artifact-service"
	"tripforge/contexts/trip-planning/artifact-service/adapters/generation"
	artifactpostgres "tripforge/contexts/trip-planning/artifact-service/adapters/postgres"
	artifactworkers "tripforge/contexts/trip-planning/artifact-service/application/workers"
	chatservice "tripforge/contexts/trip-planning/chat-service"
	busadapter "tripforge/contexts/trip-planning/chat-service/adapters/bus"
	chatpostgres "tripforge/contexts/trip-planning/chat-service/adapters/postgres"
	consensusservice "tripforge/contexts/trip-planning/consensus-service"
	consensuspostgres "tripforge/contexts/trip-planning/consensus-service/adapters/postgres"
	tripservice "tripforge/contexts/trip-planning/trip-service"
	trippostgres "tripforge/contexts/trip-planning/trip-service/adapters/postgres"
	"tripforge/internal/platform/config"
	"tripforge/internal/platform/db"
	"tripforge/internal/platform/httpserver"
	"tripforge/internal/platform/messaging"
	"tripforge/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server    *httpserver.Server
	postgres  *db.Postgres
	artifacts artifactservice.Module
	relay     *outbox.Relay
	trigger   *artifactworkers.ArtifactTriggerConsumer
	poll      time.Duration
	logger    *slog.Logger
}

type WorkerApp struct {
	postgres  *db.Postgres
	artifacts artifactservice.Module
	relay     outbox.Relay
	trigger   artifactworkers.ArtifactTriggerConsumer
	poll      time.Duration
	logger    *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	pg, bus, modules, err := buildModules(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &APIApp{
		server: httpserver.New(
			modules.trips,
			modules.consensus,
			modules.artifacts,
			modules.chat,
			bus,
			logger,
			normalizeAddr(cfg.HTTPPort),
		),
		postgres:  pg,
		artifacts: modules.artifacts,
		poll:      cfg.WorkerPollInterval,
		logger:    logger,
	}

	// The bus is process-local, so connected SSE clients only observe
	// persisted events when the relay drains the outbox in this process.
	if cfg.EnableOutboxRelay {
		relay := newRelay(pg, bus, cfg, logger)
		app.relay = &relay
	}
	if cfg.EnableArtifactTrigger {
		app.trigger = &artifactworkers.ArtifactTriggerConsumer{
			Subscriber: bus,
			Scheduler:  modules.artifacts.Scheduler,
			Logger:     logger,
		}
	}
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	pg, bus, modules, err := buildModules(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres:  pg,
		artifacts: modules.artifacts,
		relay:     newRelay(pg, bus, cfg, logger),
		trigger: artifactworkers.ArtifactTriggerConsumer{
			Subscriber: bus,
			Scheduler:  modules.artifacts.Scheduler,
			Logger:     logger,
		},
		poll:   cfg.WorkerPollInterval,
		logger: logger,
	}, nil
}

type builtModules struct {
	trips     tripservice.Module
	consensus consensusservice.Module
	artifacts artifactservice.Module
	chat      chatservice.Module
}

func buildModules(cfg config.Config, logger *slog.Logger) (*db.Postgres, *messaging.Bus, builtModules, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, nil, builtModules{}, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, builtModules{}, err
	}
	if cfg.AutoMigrate {
		if err := migrate(pg); err != nil {
			_ = pg.Close()
			return nil, nil, builtModules{}, err
		}
	}

	bus := messaging.NewBus(logger)

	tripRepo := trippostgres.NewRepository(pg.DB, logger)
	trips := tripservice.NewModule(tripservice.Dependencies{
		Trips:       tripRepo,
		Members:     tripRepo,
		Preferences: tripRepo,
		Outbox:      tripRepo,
		Clock:       trippostgres.SystemClock{},
		IDGen:       trippostgres.UUIDGenerator{},
		Logger:      logger,
	})

	consensusRepo := consensuspostgres.NewRepository(pg.DB, logger)
	consensus := consensusservice.NewModule(consensusservice.Dependencies{
		Votes:      consensusRepo,
		Selections: consensusRepo,
		Membership: consensusRepo,
		Candidates: consensusRepo,
		Outbox:     consensusRepo,
		Clock:      consensuspostgres.SystemClock{},
		IDGen:      consensuspostgres.UUIDGenerator{},
		Logger:     logger,
	})

	artifactRepo := artifactpostgres.NewRepository(pg.DB, logger)
	artifacts := artifactservice.NewModule(artifactservice.Dependencies{
		Artifacts:         artifactRepo,
		Candidates:        artifactRepo,
		Snapshot:          artifactRepo,
		Consensus:         artifactRepo,
		Generator:         generation.NewClient(cfg.GenerationBaseURL, cfg.GenerationTimeout, logger),
		Outbox:            artifactRepo,
		Clock:             artifactpostgres.SystemClock{},
		IDGen:             artifactpostgres.UUIDGenerator{},
		RegenDebounce:     cfg.RegenDebounce,
		GenerationTimeout: cfg.GenerationTimeout,
		Logger:            logger,
	})

	chatRepo := chatpostgres.NewRepository(pg.DB, logger)
	chat := chatservice.NewModule(chatservice.Dependencies{
		Repo:              chatRepo,
		Membership:        chatRepo,
		Idempotency:       chatRepo,
		Outbox:            chatRepo,
		Typing:            busadapter.TypingPublisher{Bus: bus},
		Clock:             chatpostgres.SystemClock{},
		IDGen:             chatpostgres.UUIDGenerator{},
		IdempotencyTTL:    7 * 24 * time.Hour,
		TypingMinInterval: cfg.TypingMinInterval,
		Logger:            logger,
	})

	return pg, bus, builtModules{
		trips:     trips,
		consensus: consensus,
		artifacts: artifacts,
		chat:      chat,
	}, nil
}

func migrate(pg *db.Postgres) error {
	var models []any
	models = append(models, db.Models()...)
	models = append(models, trippostgres.Models()...)
	models = append(models, consensuspostgres.Models()...)
	models = append(models, artifactpostgres.Models()...)
	models = append(models, chatpostgres.Models()...)
	return pg.DB.AutoMigrate(models...)
}

func newRelay(pg *db.Postgres, bus *messaging.Bus, cfg config.Config, logger *slog.Logger) outbox.Relay {
	return outbox.Relay{
		Store:     db.NewOutboxStore(pg.DB, logger),
		Publisher: bus,
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	}
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.trigger != nil {
		if err := a.trigger.Start(ctx); err != nil {
			return err
		}
	}
	if a.relay != nil {
		go a.runRelayLoop(ctx)
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) runRelayLoop(ctx context.Context) {
	ticker := time.NewTicker(a.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.relay.RunOnce(ctx); err != nil {
				a.logger.Error("outbox relay cycle failed",
					"event", "bootstrap_relay_cycle_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}
	}
}

func (a *APIApp) Close() error {
	a.artifacts.Close()
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.trigger.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.poll.String(),
	)

	for {
		if err := w.relay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	w.artifacts.Close()
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
