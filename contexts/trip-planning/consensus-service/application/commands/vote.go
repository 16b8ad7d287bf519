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

// RecordVoteCommand is the write-model input for vote upserts.
type RecordVoteCommand struct {
	TripID   string
	MemberID string
	Category entities.Category
	OptionID string
	Approved bool
	Reason   string
}

// RecordVoteResult returns the fresh tally plus a marker telling the
// transport layer whether the write was an observable no-op.
type RecordVoteResult struct {
	Vote    entities.Vote
	Tally   entities.Tally
	Changed bool
}

// VoteUseCase upserts votes against the ledger. Tallies are recomputed from
// current rows on every call; nothing is cached.
type VoteUseCase struct {
	Votes      ports.VoteRepository
	Membership ports.MembershipReader
	Candidates ports.CandidateReader
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// RecordVote upserts the (trip, member, category, option) row. Reason is only
// kept for disapprovals. Submitting an identical vote twice is observably a
// no-op: no row change and no event.
func (uc VoteUseCase) RecordVote(ctx context.Context, cmd RecordVoteCommand) (RecordVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	tripID := strings.TrimSpace(cmd.TripID)
	memberID := strings.TrimSpace(cmd.MemberID)
	optionID := strings.TrimSpace(cmd.OptionID)
	if tripID == "" || memberID == "" || optionID == "" || !cmd.Category.Valid() {
		logger.Warn("vote record validation failed",
			"event", "consensus_vote_record_validation_failed",
			"module", "trip-planning/consensus-service",
			"layer", "application",
			"trip_id", tripID,
			"member_id", memberID,
		)
		return RecordVoteResult{}, domainerrors.ErrInvalidRequest
	}

	if ok, err := uc.Membership.TripExists(ctx, tripID); err != nil {
		return RecordVoteResult{}, err
	} else if !ok {
		return RecordVoteResult{}, domainerrors.ErrTripNotFound
	}
	if ok, err := uc.Membership.MemberExists(ctx, tripID, memberID); err != nil {
		return RecordVoteResult{}, err
	} else if !ok {
		return RecordVoteResult{}, domainerrors.ErrMemberNotFound
	}
	if ok, err := uc.Candidates.OptionLive(ctx, tripID, cmd.Category, optionID); err != nil {
		return RecordVoteResult{}, err
	} else if !ok {
		return RecordVoteResult{}, domainerrors.ErrOptionNotFound
	}

	reason := strings.TrimSpace(cmd.Reason)
	if cmd.Approved {
		reason = ""
	}

	now := uc.now()
	vote := entities.Vote{
		TripID:    tripID,
		MemberID:  memberID,
		Category:  cmd.Category,
		OptionID:  optionID,
		Approved:  cmd.Approved,
		Reason:    reason,
		UpdatedAt: now,
	}

	existing, found, err := uc.Votes.GetVote(ctx, tripID, memberID, cmd.Category, optionID)
	if err != nil {
		return RecordVoteResult{}, err
	}
	if found && existing.Approved == vote.Approved && existing.Reason == vote.Reason {
		tally, err := uc.tally(ctx, tripID, cmd.Category, optionID)
		if err != nil {
			return RecordVoteResult{}, err
		}
		logger.Debug("vote record replayed unchanged",
			"event", "consensus_vote_record_noop",
			"module", "trip-planning/consensus-service",
			"layer", "application",
			"trip_id", tripID,
			"member_id", memberID,
			"option_id", optionID,
		)
		return RecordVoteResult{Vote: existing, Tally: tally, Changed: false}, nil
	}

	if err := uc.Votes.UpsertVote(ctx, vote); err != nil {
		logger.Error("vote upsert failed",
			"event", "consensus_vote_upsert_failed",
			"module", "trip-planning/consensus-service",
			"layer", "application",
			"trip_id", tripID,
			"member_id", memberID,
			"option_id", optionID,
			"error", err.Error(),
		)
		return RecordVoteResult{}, err
	}

	tally, err := uc.tally(ctx, tripID, cmd.Category, optionID)
	if err != nil {
		return RecordVoteResult{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return RecordVoteResult{}, err
	}
	env, err := newConsensusEnvelope(eventID, events.TypeVoteRecorded, tripID, now, map[string]any{
		"trip_id":        tripID,
		"member_id":      memberID,
		"category":       string(cmd.Category),
		"option_id":      optionID,
		"approved":       cmd.Approved,
		"approved_count": tally.ApprovedCount,
		"total_members":  tally.TotalMembers,
		"unanimous":      tally.Unanimous(),
	})
	if err != nil {
		return RecordVoteResult{}, err
	}
	if err := uc.Outbox.AppendOutbox(ctx, env); err != nil {
		return RecordVoteResult{}, err
	}

	logger.Info("vote recorded",
		"event", "consensus_vote_recorded",
		"module", "trip-planning/consensus-service",
		"layer", "application",
		"trip_id", tripID,
		"member_id", memberID,
		"category", string(cmd.Category),
		"option_id", optionID,
		"approved", cmd.Approved,
		"approved_count", tally.ApprovedCount,
		"total_members", tally.TotalMembers,
	)
	return RecordVoteResult{Vote: vote, Tally: tally, Changed: true}, nil
}

func (uc VoteUseCase) tally(ctx context.Context, tripID string, category entities.Category, optionID string) (entities.Tally, error) {
	votes, err := uc.Votes.ListVotesByOption(ctx, tripID, category, optionID)
	if err != nil {
		return entities.Tally{}, err
	}
	approved := 0
	for _, vote := range votes {
		if vote.Approved {
			approved++
		}
	}
	total, err := uc.Membership.CountMembers(ctx, tripID)
	if err != nil {
		return entities.Tally{}, err
	}
	return entities.Tally{ApprovedCount: approved, TotalMembers: total}, nil
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
