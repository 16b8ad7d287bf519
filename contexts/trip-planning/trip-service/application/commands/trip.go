package commands

import (
	"context"
	"log/slog"
	"strings"

	application "tripforge/contexts/trip-planning/trip-service/application"
	"tripforge/contexts/trip-planning/trip-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/trip-service/domain/errors"
	"tripforge/contexts/trip-planning/trip-service/ports"
)

// CreateTripCommand is the write-model input for new trips. The owner is
// enrolled as the first member in the same operation.
type CreateTripCommand struct {
	Name             string
	Destination      string
	StartDate        string
	EndDate          string
	Timezone         string
	OwnerID          string
	OwnerDisplayName string
}

// UpdateTripCommand carries the editable fields. Empty strings leave the
// current value in place; the budget bounds are pointers because zero is a
// meaningful amount.
type UpdateTripCommand struct {
	TripID      string
	ActorID     string
	Name        string
	Destination string
	StartDate   string
	EndDate     string
	Timezone    string
	BudgetMin   *int
	BudgetMax   *int
	Summary     string
}

// TripUseCase manages the trip aggregate lifecycle.
type TripUseCase struct {
	Trips       ports.TripRepository
	Members     ports.MemberRepository
	Preferences ports.PreferenceRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc TripUseCase) CreateTrip(ctx context.Context, cmd CreateTripCommand) (entities.Trip, error) {
	logger := application.ResolveLogger(uc.Logger)

	name := strings.TrimSpace(cmd.Name)
	destination := strings.TrimSpace(cmd.Destination)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	if name == "" || destination == "" || ownerID == "" {
		logger.Warn("trip create validation failed",
			"event", "trip_create_validation_failed",
			"module", "trip-planning/trip-service",
			"layer", "application",
			"owner_id", ownerID,
		)
		return entities.Trip{}, domainerrors.ErrInvalidRequest
	}

	tripID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Trip{}, err
	}
	now := uc.Clock.Now().UTC()
	trip := entities.Trip{
		TripID:      tripID,
		Name:        name,
		Destination: destination,
		StartDate:   strings.TrimSpace(cmd.StartDate),
		EndDate:     strings.TrimSpace(cmd.EndDate),
		Timezone:    strings.TrimSpace(cmd.Timezone),
		Status:      entities.StatusPlanning,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Trips.CreateTrip(ctx, trip); err != nil {
		return entities.Trip{}, err
	}

	owner := entities.Member{
		TripID:      tripID,
		MemberID:    ownerID,
		DisplayName: strings.TrimSpace(cmd.OwnerDisplayName),
		Role:        entities.RoleOwner,
		JoinedAt:    now,
	}
	if owner.DisplayName == "" {
		owner.DisplayName = ownerID
	}
	if err := uc.Members.AddMember(ctx, owner); err != nil {
		return entities.Trip{}, err
	}

	if err := uc.appendMembershipEvent(ctx, eventMemberJoined, trip.TripID, owner, now); err != nil {
		return entities.Trip{}, err
	}

	logger.Info("trip created",
		"event", "trip_created",
		"module", "trip-planning/trip-service",
		"layer", "application",
		"trip_id", trip.TripID,
		"owner_id", ownerID,
	)
	return trip, nil
}

func (uc TripUseCase) UpdateTrip(ctx context.Context, cmd UpdateTripCommand) (entities.Trip, error) {
	logger := application.ResolveLogger(uc.Logger)

	tripID := strings.TrimSpace(cmd.TripID)
	if tripID == "" {
		return entities.Trip{}, domainerrors.ErrInvalidRequest
	}
	trip, found, err := uc.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return entities.Trip{}, err
	}
	if !found {
		return entities.Trip{}, domainerrors.ErrTripNotFound
	}
	if trip.Status == entities.StatusArchived {
		return entities.Trip{}, domainerrors.ErrTripArchived
	}

	if v := strings.TrimSpace(cmd.Name); v != "" {
		trip.Name = v
	}
	if v := strings.TrimSpace(cmd.Destination); v != "" {
		trip.Destination = v
	}
	if v := strings.TrimSpace(cmd.StartDate); v != "" {
		trip.StartDate = v
	}
	if v := strings.TrimSpace(cmd.EndDate); v != "" {
		trip.EndDate = v
	}
	if v := strings.TrimSpace(cmd.Timezone); v != "" {
		trip.Timezone = v
	}
	if cmd.BudgetMin != nil {
		trip.BudgetMin = *cmd.BudgetMin
	}
	if cmd.BudgetMax != nil {
		trip.BudgetMax = *cmd.BudgetMax
	}
	if trip.BudgetMin < 0 || trip.BudgetMax < 0 || (trip.BudgetMax > 0 && trip.BudgetMin > trip.BudgetMax) {
		return entities.Trip{}, domainerrors.ErrInvalidRequest
	}
	if v := strings.TrimSpace(cmd.Summary); v != "" {
		trip.Summary = v
	}
	trip.UpdatedAt = uc.Clock.Now().UTC()

	if err := uc.Trips.UpdateTrip(ctx, trip); err != nil {
		return entities.Trip{}, err
	}

	logger.Info("trip updated",
		"event", "trip_updated",
		"module", "trip-planning/trip-service",
		"layer", "application",
		"trip_id", trip.TripID,
	)
	return trip, nil
}

// ArchiveTrip moves the trip to archived. State stays readable; writes are
// rejected from here on.
func (uc TripUseCase) ArchiveTrip(ctx context.Context, tripID string, actorID string) error {
	tripID = strings.TrimSpace(tripID)
	actorID = strings.TrimSpace(actorID)
	if tripID == "" || actorID == "" {
		return domainerrors.ErrInvalidRequest
	}
	trip, found, err := uc.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrTripNotFound
	}
	if trip.OwnerID != actorID {
		return domainerrors.ErrNotOwner
	}
	if trip.Status == entities.StatusArchived {
		return nil
	}
	trip.Status = entities.StatusArchived
	trip.UpdatedAt = uc.Clock.Now().UTC()
	return uc.Trips.UpdateTrip(ctx, trip)
}

func (uc TripUseCase) DeleteTrip(ctx context.Context, tripID string, actorID string) error {
	logger := application.ResolveLogger(uc.Logger)

	tripID = strings.TrimSpace(tripID)
	actorID = strings.TrimSpace(actorID)
	if tripID == "" || actorID == "" {
		return domainerrors.ErrInvalidRequest
	}
	trip, found, err := uc.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrTripNotFound
	}
	if trip.OwnerID != actorID {
		return domainerrors.ErrNotOwner
	}
	if err := uc.Trips.DeleteTrip(ctx, tripID); err != nil {
		return err
	}

	logger.Info("trip deleted",
		"event", "trip_deleted",
		"module", "trip-planning/trip-service",
		"layer", "application",
		"trip_id", tripID,
		"actor_id", actorID,
	)
	return nil
}
