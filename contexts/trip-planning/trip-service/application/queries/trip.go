package queries

import (
	"context"
	"strings"

	"tripforge/contexts/trip-planning/trip-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/trip-service/domain/errors"
	"tripforge/contexts/trip-planning/trip-service/ports"
)

// TripUseCase serves read access to trips, members and preferences.
type TripUseCase struct {
	Trips       ports.TripRepository
	Members     ports.MemberRepository
	Preferences ports.PreferenceRepository
}

func (uc TripUseCase) GetTrip(ctx context.Context, tripID string) (entities.Trip, error) {
	tripID = strings.TrimSpace(tripID)
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
	return trip, nil
}

func (uc TripUseCase) ListMembers(ctx context.Context, tripID string) ([]entities.Member, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if _, err := uc.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return uc.Members.ListMembers(ctx, tripID)
}

func (uc TripUseCase) ListPreferences(ctx context.Context, tripID string) ([]entities.PreferenceRecord, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if _, err := uc.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return uc.Preferences.ListPreferences(ctx, tripID)
}
