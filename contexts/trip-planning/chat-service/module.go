package chatservice

import (
	"log/slog"
	"time"

	httpadapter "tripforge/contexts/trip-planning/chat-service/adapters/http"
	"tripforge/contexts/trip-planning/chat-service/adapters/memory"
	"tripforge/contexts/trip-planning/chat-service/application"
	"tripforge/contexts/trip-planning/chat-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service *application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repo              ports.Repository
	Membership        ports.MembershipReader
	Idempotency       ports.IdempotencyStore
	Outbox            ports.OutboxWriter
	Typing            ports.TypingPublisher
	Clock             ports.Clock
	IDGen             ports.IDGenerator
	IdempotencyTTL    time.Duration
	TypingMinInterval time.Duration
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Repo:              deps.Repo,
		Membership:        deps.Membership,
		Idempotency:       deps.Idempotency,
		Outbox:            deps.Outbox,
		Typing:            deps.Typing,
		Clock:             deps.Clock,
		IDGen:             deps.IDGen,
		Logger:            deps.Logger,
		IdempotencyTTL:    deps.IdempotencyTTL,
		TypingMinInterval: deps.TypingMinInterval,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repo:        store,
		Membership:  store,
		Idempotency: store,
		Outbox:      store,
		Typing:      store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
