package consensusservice

import (
	"log/slog"

	httpadapter "tripforge/contexts/trip-planning/consensus-service/adapters/http"
	"tripforge/contexts/trip-planning/consensus-service/adapters/memory"
	"tripforge/contexts/trip-planning/consensus-service/application/commands"
	"tripforge/contexts/trip-planning/consensus-service/application/queries"
	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	"tripforge/contexts/trip-planning/consensus-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Votes      ports.VoteRepository
	Selections ports.SelectionRepository
	Membership ports.MembershipReader
	Candidates ports.CandidateReader
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Votes:      deps.Votes,
		Membership: deps.Membership,
		Candidates: deps.Candidates,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	finalizeUseCase := commands.FinalizeUseCase{
		Selections: deps.Selections,
		Membership: deps.Membership,
		Candidates: deps.Candidates,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	tallyUseCase := queries.TallyUseCase{
		Votes:      deps.Votes,
		Selections: deps.Selections,
		Membership: deps.Membership,
	}
	rejectionUseCase := queries.RejectionContextUseCase{
		Votes: deps.Votes,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:      voteUseCase,
			Finalize:   finalizeUseCase,
			Tallies:    tallyUseCase,
			Rejections: rejectionUseCase,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Vote, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Votes:      store,
		Selections: store,
		Membership: store,
		Candidates: store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
