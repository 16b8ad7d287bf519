package queries

import (
	"context"
	"sort"
	"strings"

	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/consensus-service/domain/errors"
	"tripforge/contexts/trip-planning/consensus-service/ports"
)

// TallyUseCase serves consensus reads. Every value is recomputed from current
// rows; an option with no votes reports a zero tally, never an error.
type TallyUseCase struct {
	Votes      ports.VoteRepository
	Selections ports.SelectionRepository
	Membership ports.MembershipReader
}

func (uc TallyUseCase) Tally(ctx context.Context, tripID string, category entities.Category, optionID string) (entities.Tally, error) {
	tripID = strings.TrimSpace(tripID)
	optionID = strings.TrimSpace(optionID)
	if tripID == "" || optionID == "" || !category.Valid() {
		return entities.Tally{}, domainerrors.ErrInvalidRequest
	}

	if ok, err := uc.Membership.TripExists(ctx, tripID); err != nil {
		return entities.Tally{}, err
	} else if !ok {
		return entities.Tally{}, domainerrors.ErrTripNotFound
	}

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

func (uc TallyUseCase) IsUnanimous(ctx context.Context, tripID string, category entities.Category, optionID string) (bool, error) {
	tally, err := uc.Tally(ctx, tripID, category, optionID)
	if err != nil {
		return false, err
	}
	return tally.Unanimous(), nil
}

// RejectionReasons lists every disapproval with a non-empty reason for one
// option. Filtering out the caller's own reason is the caller's concern, not
// the ledger's.
func (uc TallyUseCase) RejectionReasons(ctx context.Context, tripID string, category entities.Category, optionID string) ([]entities.MemberReason, error) {
	tripID = strings.TrimSpace(tripID)
	optionID = strings.TrimSpace(optionID)
	if tripID == "" || optionID == "" || !category.Valid() {
		return nil, domainerrors.ErrInvalidRequest
	}

	votes, err := uc.Votes.ListVotesByOption(ctx, tripID, category, optionID)
	if err != nil {
		return nil, err
	}
	reasons := make([]entities.MemberReason, 0)
	for _, vote := range votes {
		if vote.Approved || strings.TrimSpace(vote.Reason) == "" {
			continue
		}
		reasons = append(reasons, entities.MemberReason{
			MemberID: vote.MemberID,
			Reason:   vote.Reason,
		})
	}
	sort.Slice(reasons, func(i, j int) bool {
		return reasons[i].MemberID < reasons[j].MemberID
	})
	return reasons, nil
}

// FinalizedSelections returns the current selection set grouped by category.
func (uc TallyUseCase) FinalizedSelections(ctx context.Context, tripID string) (map[entities.Category][]string, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	selections, err := uc.Selections.ListSelections(ctx, tripID)
	if err != nil {
		return nil, err
	}
	grouped := make(map[entities.Category][]string)
	for _, selection := range selections {
		grouped[selection.Category] = append(grouped[selection.Category], selection.OptionID)
	}
	for category := range grouped {
		sort.Strings(grouped[category])
	}
	return grouped, nil
}
