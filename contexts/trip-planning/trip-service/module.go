package tripservice

import (
	"log/slog"

	httpadapter "tripforge/contexts/trip-planning/trip-service/adapters/http"
	"tripforge/contexts/trip-planning/trip-service/adapters/memory"
	"tripforge/contexts/trip-planning/trip-service/application/commands"
	"tripforge/contexts/trip-planning/trip-service/application/queries"
	"tripforge/contexts/trip-planning/trip-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Trips       ports.TripRepository
	Members     ports.MemberRepository
	Preferences ports.PreferenceRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	tripUseCase := commands.TripUseCase{
		Trips:       deps.Trips,
		Members:     deps.Members,
		Preferences: deps.Preferences,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	queryUseCase := queries.TripUseCase{
		Trips:       deps.Trips,
		Members:     deps.Members,
		Preferences: deps.Preferences,
	}
	return Module{
		Handler: httpadapter.Handler{
			Trips:   tripUseCase,
			Queries: queryUseCase,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Trips:       store,
		Members:     store,
		Preferences: store,
		Outbox:      store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
