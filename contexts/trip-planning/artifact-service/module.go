package artifactservice

import (
	"context"
	"log/slog"
	"time"

	httpadapter "tripforge/contexts/trip-planning/artifact-service/adapters/http"
	"tripforge/contexts/trip-planning/artifact-service/adapters/memory"
	"tripforge/contexts/trip-planning/artifact-service/application/commands"
	"tripforge/contexts/trip-planning/artifact-service/application/queries"
	"tripforge/contexts/trip-planning/artifact-service/application/scheduler"
	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/contexts/trip-planning/artifact-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Scheduler *scheduler.Scheduler
	Store     *memory.Store
}

type Dependencies struct {
	Artifacts         ports.ArtifactRepository
	Candidates        ports.CandidateRepository
	Snapshot          ports.SnapshotReader
	Consensus         ports.ConsensusReader
	Generator         ports.GenerationService
	Outbox            ports.OutboxWriter
	Clock             ports.Clock
	IDGen             ports.IDGenerator
	RegenDebounce     time.Duration
	GenerationTimeout time.Duration
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	regenerateUseCase := commands.RegenerateUseCase{
		Artifacts:  deps.Artifacts,
		Candidates: deps.Candidates,
		Snapshot:   deps.Snapshot,
		Consensus:  deps.Consensus,
		Generator:  deps.Generator,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	candidatesUseCase := commands.CandidatesUseCase{
		Candidates: deps.Candidates,
		Snapshot:   deps.Snapshot,
		Consensus:  deps.Consensus,
		Generator:  deps.Generator,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	artifactUseCase := queries.ArtifactUseCase{
		Artifacts:  deps.Artifacts,
		Candidates: deps.Candidates,
	}

	run := func(ctx context.Context, tripID string, kind entities.Kind) error {
		_, err := regenerateUseCase.Regenerate(ctx, tripID, kind, false)
		return err
	}

	return Module{
		Handler: httpadapter.Handler{
			Regenerate: regenerateUseCase,
			Candidates: candidatesUseCase,
			Artifacts:  artifactUseCase,
			Logger:     deps.Logger,
		},
		Scheduler: scheduler.New(run, deps.RegenDebounce, deps.GenerationTimeout, deps.Logger),
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Artifacts:  store,
		Candidates: store,
		Snapshot:   store,
		Consensus:  store,
		Generator:  store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}

// Close stops the scheduler and waits for in-flight work.
func (m Module) Close() {
	if m.Scheduler != nil {
		m.Scheduler.Close()
	}
}
