package queries

import (
	"context"
	"sort"
	"strings"

	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/consensus-service/domain/errors"
	"tripforge/contexts/trip-planning/consensus-service/ports"
)

// RejectionContextUseCase aggregates free-text rejection reasons across a
// trip. It is a pure function of the vote ledger; nothing is stored.
type RejectionContextUseCase struct {
	Votes ports.VoteRepository
}

// BuildContext concatenates "category:optionId: reason" lines for every vote
// with a non-empty rejection reason, newline-joined in a stable order. The
// second return is false when no reasons exist.
func (uc RejectionContextUseCase) BuildContext(ctx context.Context, tripID string) (string, bool, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return "", false, domainerrors.ErrInvalidRequest
	}

	votes, err := uc.Votes.ListVotesByTrip(ctx, tripID)
	if err != nil {
		return "", false, err
	}

	rejected := make([]entities.Vote, 0)
	for _, vote := range votes {
		if vote.Approved || strings.TrimSpace(vote.Reason) == "" {
			continue
		}
		rejected = append(rejected, vote)
	}
	if len(rejected) == 0 {
		return "", false, nil
	}

	sort.Slice(rejected, func(i, j int) bool {
		if rejected[i].Category != rejected[j].Category {
			return rejected[i].Category < rejected[j].Category
		}
		if rejected[i].OptionID != rejected[j].OptionID {
			return rejected[i].OptionID < rejected[j].OptionID
		}
		return rejected[i].MemberID < rejected[j].MemberID
	})

	lines := make([]string, 0, len(rejected))
	for _, vote := range rejected {
		lines = append(lines, string(vote.Category)+":"+vote.OptionID+": "+strings.TrimSpace(vote.Reason))
	}
	return strings.Join(lines, "\n"), true, nil
}
