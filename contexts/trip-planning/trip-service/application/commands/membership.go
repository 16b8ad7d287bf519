package commands

import (
	"context"
	"strings"
	"time"

	application "tripforge/contexts/trip-planning/trip-service/application"
	"tripforge/contexts/trip-planning/trip-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/trip-service/domain/errors"
	"tripforge/internal/shared/events"
)

const (
	eventMemberJoined = events.TypeMemberJoined
	eventMemberLeft   = events.TypeMemberLeft
)

// JoinTripCommand enrolls a member. Joining moves the unanimity bar for every
// option in the trip: tallies are computed against live membership, so a
// previously unanimous option regresses until the newcomer approves it.
type JoinTripCommand struct {
	TripID      string
	MemberID    string
	AccountID   string
	DisplayName string
}

func (uc TripUseCase) JoinTrip(ctx context.Context, cmd JoinTripCommand) (entities.Member, error) {
	logger := application.ResolveLogger(uc.Logger)

	tripID := strings.TrimSpace(cmd.TripID)
	memberID := strings.TrimSpace(cmd.MemberID)
	if tripID == "" || memberID == "" {
		return entities.Member{}, domainerrors.ErrInvalidRequest
	}

	trip, found, err := uc.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return entities.Member{}, err
	}
	if !found {
		return entities.Member{}, domainerrors.ErrTripNotFound
	}
	if trip.Status == entities.StatusArchived {
		return entities.Member{}, domainerrors.ErrTripArchived
	}

	if _, exists, err := uc.Members.GetMember(ctx, tripID, memberID); err != nil {
		return entities.Member{}, err
	} else if exists {
		return entities.Member{}, domainerrors.ErrAlreadyMember
	}

	accountID := strings.TrimSpace(cmd.AccountID)
	if accountID != "" {
		if _, exists, err := uc.Members.GetMemberByAccount(ctx, tripID, accountID); err != nil {
			return entities.Member{}, err
		} else if exists {
			return entities.Member{}, domainerrors.ErrAlreadyMember
		}
	}

	now := uc.Clock.Now().UTC()
	member := entities.Member{
		TripID:      tripID,
		MemberID:    memberID,
		AccountID:   accountID,
		DisplayName: strings.TrimSpace(cmd.DisplayName),
		Role:        entities.RoleMember,
		JoinedAt:    now,
	}
	if member.DisplayName == "" {
		member.DisplayName = memberID
	}
	if err := uc.Members.AddMember(ctx, member); err != nil {
		return entities.Member{}, err
	}
	if err := uc.appendMembershipEvent(ctx, eventMemberJoined, tripID, member, now); err != nil {
		return entities.Member{}, err
	}

	logger.Info("member joined",
		"event", "trip_member_joined",
		"module", "trip-planning/trip-service",
		"layer", "application",
		"trip_id", tripID,
		"member_id", memberID,
	)
	return member, nil
}

// LeaveTrip removes the member and their preference record. Votes the member
// cast stay in the ledger; tallies shrink because the denominator does.
func (uc TripUseCase) LeaveTrip(ctx context.Context, tripID string, memberID string) error {
	logger := application.ResolveLogger(uc.Logger)

	tripID = strings.TrimSpace(tripID)
	memberID = strings.TrimSpace(memberID)
	if tripID == "" || memberID == "" {
		return domainerrors.ErrInvalidRequest
	}

	member, found, err := uc.Members.GetMember(ctx, tripID, memberID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrMemberNotFound
	}

	if err := uc.Members.RemoveMember(ctx, tripID, memberID); err != nil {
		return err
	}
	if err := uc.Preferences.RemovePreference(ctx, tripID, memberID); err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	if err := uc.appendMembershipEvent(ctx, eventMemberLeft, tripID, member, now); err != nil {
		return err
	}

	logger.Info("member left",
		"event", "trip_member_left",
		"module", "trip-planning/trip-service",
		"layer", "application",
		"trip_id", tripID,
		"member_id", memberID,
	)
	return nil
}

func (uc TripUseCase) appendMembershipEvent(ctx context.Context, eventType string, tripID string, member entities.Member, occurredAt time.Time) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	env, err := newTripEnvelope(eventID, eventType, tripID, occurredAt, map[string]any{
		"trip_id":      tripID,
		"member_id":    member.MemberID,
		"display_name": member.DisplayName,
		"role":         string(member.Role),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, env)
}
