package consensusservice

import (
	"context"
	"errors"
	"testing"

	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/consensus-service/domain/errors"
	httptransport "tripforge/contexts/trip-planning/consensus-service/transport/http"
)

func seededModule(t *testing.T) Module {
	t.Helper()
	module := NewInMemoryModule(nil, nil)
	module.Store.SetTrip("trip-1")
	module.Store.SetMember("trip-1", "member-1")
	module.Store.SetMember("trip-1", "member-2")
	module.Store.SetMember("trip-1", "member-3")
	module.Store.SetOption("trip-1", entities.CategoryFlight, "F1")
	module.Store.SetOption("trip-1", entities.CategoryFlight, "F2")
	module.Store.SetOption("trip-1", entities.CategoryActivity, "A1")
	module.Store.SetOption("trip-1", entities.CategoryActivity, "A2")
	return module
}

func castVote(t *testing.T, module Module, memberID string, category string, optionID string, approved bool, reason string) httptransport.RecordVoteResponse {
	t.Helper()
	resp, err := module.Handler.RecordVoteHandler(context.Background(), "trip-1", memberID, httptransport.RecordVoteRequest{
		Category: category,
		OptionID: optionID,
		Approved: approved,
		Reason:   reason,
	})
	if err != nil {
		t.Fatalf("record vote failed: %v", err)
	}
	return resp
}

func TestVoteOverwritesNotAccumulates(t *testing.T) {
	module := seededModule(t)

	castVote(t, module, "member-1", "flight", "F1", true, "")
	resp := castVote(t, module, "member-1", "flight", "F1", false, "too expensive")

	if resp.Tally.ApprovedCount != 0 {
		t.Fatalf("expected approved count 0 after overwrite, got %d", resp.Tally.ApprovedCount)
	}
	if resp.Tally.TotalMembers != 3 {
		t.Fatalf("expected 3 members, got %d", resp.Tally.TotalMembers)
	}
}

func TestIdenticalVoteIsObservableNoop(t *testing.T) {
	module := seededModule(t)

	first := castVote(t, module, "member-1", "flight", "F1", true, "")
	if !first.Changed {
		t.Fatalf("expected first vote to change state")
	}
	eventsBefore := len(module.Store.OutboxEvents())

	second := castVote(t, module, "member-1", "flight", "F1", true, "")
	if second.Changed {
		t.Fatalf("expected identical vote to be a no-op")
	}
	if len(module.Store.OutboxEvents()) != eventsBefore {
		t.Fatalf("no-op vote must not emit an event")
	}
	if second.Tally.ApprovedCount != 1 {
		t.Fatalf("expected approved count 1, got %d", second.Tally.ApprovedCount)
	}
}

func TestApprovalClearsRejectionReason(t *testing.T) {
	module := seededModule(t)

	castVote(t, module, "member-2", "flight", "F1", false, "red-eye departure")
	rejections, err := module.Handler.RejectionsHandler(context.Background(), "trip-1", "flight", "F1", "")
	if err != nil {
		t.Fatalf("rejections failed: %v", err)
	}
	if len(rejections.Items) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(rejections.Items))
	}

	castVote(t, module, "member-2", "flight", "F1", true, "stale reason must not survive")
	rejections, err = module.Handler.RejectionsHandler(context.Background(), "trip-1", "flight", "F1", "")
	if err != nil {
		t.Fatalf("rejections failed: %v", err)
	}
	if len(rejections.Items) != 0 {
		t.Fatalf("expected no rejections after approval, got %d", len(rejections.Items))
	}
}

func TestUnanimityTracksLiveMembership(t *testing.T) {
	module := seededModule(t)

	castVote(t, module, "member-1", "flight", "F1", true, "")
	castVote(t, module, "member-2", "flight", "F1", true, "")
	resp := castVote(t, module, "member-3", "flight", "F1", true, "")
	if !resp.Tally.Unanimous {
		t.Fatalf("expected unanimity with 3/3 approvals")
	}

	// A fourth member joining moves the threshold without any vote changing.
	module.Store.SetMember("trip-1", "member-4")
	tally, err := module.Handler.TallyHandler(context.Background(), "trip-1", "flight", "F1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.Unanimous {
		t.Fatalf("expected unanimity to regress after membership growth")
	}
	if tally.ApprovedCount != 3 || tally.TotalMembers != 4 {
		t.Fatalf("expected 3/4, got %d/%d", tally.ApprovedCount, tally.TotalMembers)
	}

	// Member leaving can restore unanimity the same way.
	module.Store.RemoveMember("trip-1", "member-4")
	tally, err = module.Handler.TallyHandler(context.Background(), "trip-1", "flight", "F1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if !tally.Unanimous {
		t.Fatalf("expected unanimity to return after member left")
	}
}

func TestVoteForUnknownOptionFails(t *testing.T) {
	module := seededModule(t)

	_, err := module.Handler.RecordVoteHandler(context.Background(), "trip-1", "member-1", httptransport.RecordVoteRequest{
		Category: "flight",
		OptionID: "orphaned-from-old-batch",
		Approved: true,
	})
	if !errors.Is(err, domainerrors.ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}

	_, err = module.Handler.RecordVoteHandler(context.Background(), "trip-1", "stranger", httptransport.RecordVoteRequest{
		Category: "flight",
		OptionID: "F1",
		Approved: true,
	})
	if !errors.Is(err, domainerrors.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestExclusiveFinalizeReplaces(t *testing.T) {
	module := seededModule(t)

	finalize := func(optionID string) {
		t.Helper()
		err := module.Handler.FinalizeHandler(context.Background(), "trip-1", "member-1", httptransport.FinalizeRequest{
			Category: "flight",
			OptionID: optionID,
		})
		if err != nil {
			t.Fatalf("finalize %s failed: %v", optionID, err)
		}
	}
	finalize("F1")
	finalize("F2")

	resp, err := module.Handler.SelectionsHandler(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("selections failed: %v", err)
	}
	flights := resp.Selections["flight"]
	if len(flights) != 1 || flights[0] != "F2" {
		t.Fatalf("expected exactly one finalized flight F2, got %v", flights)
	}
}

func TestActivityFinalizeAccumulates(t *testing.T) {
	module := seededModule(t)

	for _, optionID := range []string{"A1", "A2", "A1"} {
		err := module.Handler.FinalizeHandler(context.Background(), "trip-1", "member-1", httptransport.FinalizeRequest{
			Category: "activity",
			OptionID: optionID,
		})
		if err != nil {
			t.Fatalf("finalize %s failed: %v", optionID, err)
		}
	}

	resp, err := module.Handler.SelectionsHandler(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("selections failed: %v", err)
	}
	activities := resp.Selections["activity"]
	if len(activities) != 2 {
		t.Fatalf("expected two finalized activities, got %v", activities)
	}

	if err := module.Handler.UnfinalizeHandler(context.Background(), "trip-1", "activity", "A1"); err != nil {
		t.Fatalf("unfinalize failed: %v", err)
	}
	if err := module.Handler.UnfinalizeHandler(context.Background(), "trip-1", "activity", "A1"); err != nil {
		t.Fatalf("unfinalize of absent row must be a no-op, got %v", err)
	}
	resp, err = module.Handler.SelectionsHandler(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("selections failed: %v", err)
	}
	if got := resp.Selections["activity"]; len(got) != 1 || got[0] != "A2" {
		t.Fatalf("expected remaining activity A2, got %v", got)
	}
}

func TestRejectionContextAggregation(t *testing.T) {
	module := seededModule(t)

	resp, err := module.Handler.RejectionContextHandler(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("context failed: %v", err)
	}
	if resp.Present {
		t.Fatalf("expected no context without rejections")
	}

	castVote(t, module, "member-1", "flight", "F2", false, "two layovers")
	castVote(t, module, "member-2", "activity", "A1", false, "too strenuous")
	castVote(t, module, "member-3", "flight", "F1", true, "")

	resp, err = module.Handler.RejectionContextHandler(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("context failed: %v", err)
	}
	if !resp.Present {
		t.Fatalf("expected rejection context")
	}
	want := "activity:A1: too strenuous\nflight:F2: two layovers"
	if resp.Context != want {
		t.Fatalf("unexpected context:\n%s\nwant:\n%s", resp.Context, want)
	}
}

func TestRejectionsExcludeCaller(t *testing.T) {
	module := seededModule(t)

	castVote(t, module, "member-1", "flight", "F1", false, "wrong airport")
	castVote(t, module, "member-2", "flight", "F1", false, "overnight flight")

	resp, err := module.Handler.RejectionsHandler(context.Background(), "trip-1", "flight", "F1", "member-1")
	if err != nil {
		t.Fatalf("rejections failed: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].MemberID != "member-2" {
		t.Fatalf("expected only member-2's reason, got %+v", resp.Items)
	}
}
