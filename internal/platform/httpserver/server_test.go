package httpserver

import (
	artifactservice "tripforge/contexts/trip-planning/artifact-service"
	chatservice "tripforge/contexts/trip-planning/chat-service"
	consensusservice "tripforge/contexts/trip-planning/consensus-service"
	tripservice "tripforge/contexts/trip-planning/trip-service"
	"tripforge/internal/platform/messaging"
)

// newTestServer wires every module on in-memory stores. Tests seed state
// through the module Store fields.
func newTestServer() *Server {
	trips := tripservice.NewInMemoryModule(nil)
	consensus := consensusservice.NewInMemoryModule(nil, nil)
	artifacts := artifactservice.NewInMemoryModule(nil)
	chat := chatservice.NewInMemoryModule(nil)
	bus := messaging.NewBus(nil)
	return New(trips, consensus, artifacts, chat, bus, nil, "")
}
