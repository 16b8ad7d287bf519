package commands

import (
	"context"
	"encoding/json"
	"strings"

	application "tripforge/contexts/trip-planning/trip-service/application"
	"tripforge/contexts/trip-planning/trip-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/trip-service/domain/errors"
	"tripforge/internal/shared/events"
)

// UpdatePreferencesCommand upserts one member's preference payload. Ready
// marks the member done with intake; artifact regeneration keys off the
// record's update time, not the flag.
type UpdatePreferencesCommand struct {
	TripID   string
	MemberID string
	Payload  json.RawMessage
	Ready    bool
}

func (uc TripUseCase) UpdatePreferences(ctx context.Context, cmd UpdatePreferencesCommand) (entities.PreferenceRecord, error) {
	logger := application.ResolveLogger(uc.Logger)

	tripID := strings.TrimSpace(cmd.TripID)
	memberID := strings.TrimSpace(cmd.MemberID)
	if tripID == "" || memberID == "" || len(cmd.Payload) == 0 {
		return entities.PreferenceRecord{}, domainerrors.ErrInvalidRequest
	}
	if !json.Valid(cmd.Payload) {
		return entities.PreferenceRecord{}, domainerrors.ErrInvalidRequest
	}

	trip, found, err := uc.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return entities.PreferenceRecord{}, err
	}
	if !found {
		return entities.PreferenceRecord{}, domainerrors.ErrTripNotFound
	}
	if trip.Status == entities.StatusArchived {
		return entities.PreferenceRecord{}, domainerrors.ErrTripArchived
	}
	if _, exists, err := uc.Members.GetMember(ctx, tripID, memberID); err != nil {
		return entities.PreferenceRecord{}, err
	} else if !exists {
		return entities.PreferenceRecord{}, domainerrors.ErrMemberNotFound
	}

	record := entities.PreferenceRecord{
		TripID:    tripID,
		MemberID:  memberID,
		Payload:   cmd.Payload,
		Ready:     cmd.Ready,
		UpdatedAt: uc.Clock.Now().UTC(),
	}
	if err := uc.Preferences.UpsertPreference(ctx, record); err != nil {
		return entities.PreferenceRecord{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.PreferenceRecord{}, err
	}
	env, err := newTripEnvelope(eventID, events.TypePreferencesUpdated, tripID, record.UpdatedAt, map[string]any{
		"trip_id":   tripID,
		"member_id": memberID,
		"ready":     cmd.Ready,
	})
	if err != nil {
		return entities.PreferenceRecord{}, err
	}
	if err := uc.Outbox.AppendOutbox(ctx, env); err != nil {
		return entities.PreferenceRecord{}, err
	}

	logger.Info("preferences updated",
		"event", "trip_preferences_updated",
		"module", "trip-planning/trip-service",
		"layer", "application",
		"trip_id", tripID,
		"member_id", memberID,
		"ready", cmd.Ready,
	)
	return record, nil
}
