package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"tripforge/contexts/trip-planning/consensus-service/application/commands"
	"tripforge/contexts/trip-planning/consensus-service/application/queries"
	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	httptransport "tripforge/contexts/trip-planning/consensus-service/transport/http"
)

type Handler struct {
	Votes      commands.VoteUseCase
	Finalize   commands.FinalizeUseCase
	Tallies    queries.TallyUseCase
	Rejections queries.RejectionContextUseCase
	Logger     *slog.Logger
}

func (h Handler) RecordVoteHandler(
	ctx context.Context,
	tripID string,
	memberID string,
	req httptransport.RecordVoteRequest,
) (httptransport.RecordVoteResponse, error) {
	result, err := h.Votes.RecordVote(ctx, commands.RecordVoteCommand{
		TripID:   tripID,
		MemberID: memberID,
		Category: entities.Category(strings.TrimSpace(req.Category)),
		OptionID: req.OptionID,
		Approved: req.Approved,
		Reason:   req.Reason,
	})
	if err != nil {
		return httptransport.RecordVoteResponse{}, err
	}
	return httptransport.RecordVoteResponse{
		Tally: httptransport.TallyResponse{
			TripID:        result.Vote.TripID,
			Category:      string(result.Vote.Category),
			OptionID:      result.Vote.OptionID,
			ApprovedCount: result.Tally.ApprovedCount,
			TotalMembers:  result.Tally.TotalMembers,
			Unanimous:     result.Tally.Unanimous(),
		},
		Changed: result.Changed,
	}, nil
}

func (h Handler) TallyHandler(ctx context.Context, tripID string, category string, optionID string) (httptransport.TallyResponse, error) {
	tally, err := h.Tallies.Tally(ctx, tripID, entities.Category(strings.TrimSpace(category)), optionID)
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	return httptransport.TallyResponse{
		TripID:        strings.TrimSpace(tripID),
		Category:      strings.TrimSpace(category),
		OptionID:      strings.TrimSpace(optionID),
		ApprovedCount: tally.ApprovedCount,
		TotalMembers:  tally.TotalMembers,
		Unanimous:     tally.Unanimous(),
	}, nil
}

// RejectionsHandler returns others' rejection feedback. The ledger returns
// every reason; excluding the requesting member happens here at the edge.
func (h Handler) RejectionsHandler(
	ctx context.Context,
	tripID string,
	category string,
	optionID string,
	excludeMemberID string,
) (httptransport.RejectionsResponse, error) {
	reasons, err := h.Tallies.RejectionReasons(ctx, tripID, entities.Category(strings.TrimSpace(category)), optionID)
	if err != nil {
		return httptransport.RejectionsResponse{}, err
	}
	items := make([]httptransport.RejectionItem, 0, len(reasons))
	for _, reason := range reasons {
		if excludeMemberID != "" && reason.MemberID == excludeMemberID {
			continue
		}
		items = append(items, httptransport.RejectionItem{
			MemberID: reason.MemberID,
			Reason:   reason.Reason,
		})
	}
	return httptransport.RejectionsResponse{Items: items}, nil
}

func (h Handler) FinalizeHandler(ctx context.Context, tripID string, actorID string, req httptransport.FinalizeRequest) error {
	return h.Finalize.Finalize(ctx, commands.FinalizeCommand{
		TripID:   tripID,
		Category: entities.Category(strings.TrimSpace(req.Category)),
		OptionID: req.OptionID,
		ActorID:  actorID,
	})
}

func (h Handler) UnfinalizeHandler(ctx context.Context, tripID string, category string, optionID string) error {
	return h.Finalize.Unfinalize(ctx, tripID, entities.Category(strings.TrimSpace(category)), optionID)
}

func (h Handler) SelectionsHandler(ctx context.Context, tripID string) (httptransport.SelectionsResponse, error) {
	grouped, err := h.Tallies.FinalizedSelections(ctx, tripID)
	if err != nil {
		return httptransport.SelectionsResponse{}, err
	}
	selections := make(map[string][]string, len(grouped))
	for category, optionIDs := range grouped {
		selections[string(category)] = optionIDs
	}
	return httptransport.SelectionsResponse{Selections: selections}, nil
}

func (h Handler) RejectionContextHandler(ctx context.Context, tripID string) (httptransport.RejectionContextResponse, error) {
	text, present, err := h.Rejections.BuildContext(ctx, tripID)
	if err != nil {
		return httptransport.RejectionContextResponse{}, err
	}
	return httptransport.RejectionContextResponse{Context: text, Present: present}, nil
}
