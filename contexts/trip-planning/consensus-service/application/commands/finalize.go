package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "tripforge/contexts/trip-planning/consensus-service/application"
	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/consensus-service/domain/errors"
	"tripforge/contexts/trip-planning/consensus-service/ports"

	"tripforge/internal/shared/events"
)

// FinalizeCommand marks an option as the group's chosen selection.
type FinalizeCommand struct {
	TripID   string
	Category entities.Category
	OptionID string
	ActorID  string
}

// FinalizeUseCase applies finalization. Exclusive categories are replaced
// transactionally in the backing store; two actors finalizing different
// options at nearly the same time race and the last write observed by the
// store wins. Neither caller sees an error.
type FinalizeUseCase struct {
	Selections ports.SelectionRepository
	Membership ports.MembershipReader
	Candidates ports.CandidateReader
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc FinalizeUseCase) Finalize(ctx context.Context, cmd FinalizeCommand) error {
	logger := application.ResolveLogger(uc.Logger)

	tripID := strings.TrimSpace(cmd.TripID)
	optionID := strings.TrimSpace(cmd.OptionID)
	actorID := strings.TrimSpace(cmd.ActorID)
	if tripID == "" || optionID == "" || actorID == "" || !cmd.Category.Valid() {
		return domainerrors.ErrInvalidRequest
	}

	if ok, err := uc.Membership.TripExists(ctx, tripID); err != nil {
		return err
	} else if !ok {
		return domainerrors.ErrTripNotFound
	}
	if ok, err := uc.Membership.MemberExists(ctx, tripID, actorID); err != nil {
		return err
	} else if !ok {
		return domainerrors.ErrMemberNotFound
	}
	if ok, err := uc.Candidates.OptionLive(ctx, tripID, cmd.Category, optionID); err != nil {
		return err
	} else if !ok {
		return domainerrors.ErrOptionNotFound
	}

	now := uc.now()
	selection := entities.FinalizedSelection{
		TripID:      tripID,
		Category:    cmd.Category,
		OptionID:    optionID,
		ActorID:     actorID,
		FinalizedAt: now,
	}

	var err error
	if cmd.Category.Exclusive() {
		err = uc.Selections.ReplaceSelection(ctx, selection)
	} else {
		err = uc.Selections.AddSelection(ctx, selection)
	}
	if err != nil {
		logger.Error("selection write failed",
			"event", "consensus_finalize_failed",
			"module", "trip-planning/consensus-service",
			"layer", "application",
			"trip_id", tripID,
			"category", string(cmd.Category),
			"option_id", optionID,
			"error", err.Error(),
		)
		return err
	}

	if err := uc.appendEvent(ctx, events.TypeSelectionFinalized, tripID, now, map[string]any{
		"trip_id":   tripID,
		"category":  string(cmd.Category),
		"option_id": optionID,
		"actor_id":  actorID,
	}); err != nil {
		return err
	}

	logger.Info("selection finalized",
		"event", "consensus_selection_finalized",
		"module", "trip-planning/consensus-service",
		"layer", "application",
		"trip_id", tripID,
		"category", string(cmd.Category),
		"option_id", optionID,
		"actor_id", actorID,
	)
	return nil
}

// Unfinalize removes the selection row. Absent rows are a no-op and still
// emit no event.
func (uc FinalizeUseCase) Unfinalize(ctx context.Context, tripID string, category entities.Category, optionID string) error {
	logger := application.ResolveLogger(uc.Logger)

	tripID = strings.TrimSpace(tripID)
	optionID = strings.TrimSpace(optionID)
	if tripID == "" || optionID == "" || !category.Valid() {
		return domainerrors.ErrInvalidRequest
	}

	selections, err := uc.Selections.ListSelections(ctx, tripID)
	if err != nil {
		return err
	}
	present := false
	for _, selection := range selections {
		if selection.Category == category && selection.OptionID == optionID {
			present = true
			break
		}
	}

	if err := uc.Selections.RemoveSelection(ctx, tripID, category, optionID); err != nil {
		return err
	}
	if !present {
		return nil
	}

	now := uc.now()
	if err := uc.appendEvent(ctx, events.TypeSelectionUnfinalized, tripID, now, map[string]any{
		"trip_id":   tripID,
		"category":  string(category),
		"option_id": optionID,
	}); err != nil {
		return err
	}

	logger.Info("selection unfinalized",
		"event", "consensus_selection_unfinalized",
		"module", "trip-planning/consensus-service",
		"layer", "application",
		"trip_id", tripID,
		"category", string(category),
		"option_id", optionID,
	)
	return nil
}

func (uc FinalizeUseCase) appendEvent(ctx context.Context, eventType string, tripID string, occurredAt time.Time, data map[string]any) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	env, err := newConsensusEnvelope(eventID, eventType, tripID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, env)
}

func (uc FinalizeUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
