package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"tripforge/contexts/trip-planning/trip-service/application/commands"
	"tripforge/contexts/trip-planning/trip-service/application/queries"
	"tripforge/contexts/trip-planning/trip-service/domain/entities"
	httptransport "tripforge/contexts/trip-planning/trip-service/transport/http"
)

type Handler struct {
	Trips   commands.TripUseCase
	Queries queries.TripUseCase
	Logger  *slog.Logger
}

func (h Handler) CreateTripHandler(ctx context.Context, ownerID string, req httptransport.CreateTripRequest) (httptransport.TripResponse, error) {
	trip, err := h.Trips.CreateTrip(ctx, commands.CreateTripCommand{
		Name:             req.Name,
		Destination:      req.Destination,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Timezone:         req.Timezone,
		OwnerID:          ownerID,
		OwnerDisplayName: req.OwnerDisplayName,
	})
	if err != nil {
		return httptransport.TripResponse{}, err
	}
	return toTripResponse(trip), nil
}

func (h Handler) GetTripHandler(ctx context.Context, tripID string) (httptransport.TripResponse, error) {
	trip, err := h.Queries.GetTrip(ctx, tripID)
	if err != nil {
		return httptransport.TripResponse{}, err
	}
	return toTripResponse(trip), nil
}

func (h Handler) UpdateTripHandler(ctx context.Context, tripID string, actorID string, req httptransport.UpdateTripRequest) (httptransport.TripResponse, error) {
	trip, err := h.Trips.UpdateTrip(ctx, commands.UpdateTripCommand{
		TripID:      tripID,
		ActorID:     actorID,
		Name:        req.Name,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Timezone:    req.Timezone,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Summary:     req.Summary,
	})
	if err != nil {
		return httptransport.TripResponse{}, err
	}
	return toTripResponse(trip), nil
}

func (h Handler) DeleteTripHandler(ctx context.Context, tripID string, actorID string) error {
	return h.Trips.DeleteTrip(ctx, tripID, actorID)
}

func (h Handler) JoinTripHandler(ctx context.Context, tripID string, memberID string, req httptransport.JoinTripRequest) (httptransport.MemberResponse, error) {
	member, err := h.Trips.JoinTrip(ctx, commands.JoinTripCommand{
		TripID:      tripID,
		MemberID:    memberID,
		AccountID:   req.AccountID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return toMemberResponse(member), nil
}

func (h Handler) LeaveTripHandler(ctx context.Context, tripID string, memberID string) error {
	return h.Trips.LeaveTrip(ctx, tripID, memberID)
}

func (h Handler) ListMembersHandler(ctx context.Context, tripID string) (httptransport.MembersResponse, error) {
	members, err := h.Queries.ListMembers(ctx, tripID)
	if err != nil {
		return httptransport.MembersResponse{}, err
	}
	items := make([]httptransport.MemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, toMemberResponse(member))
	}
	return httptransport.MembersResponse{Items: items}, nil
}

func (h Handler) UpdatePreferencesHandler(ctx context.Context, tripID string, memberID string, req httptransport.UpdatePreferencesRequest) (httptransport.PreferenceResponse, error) {
	record, err := h.Trips.UpdatePreferences(ctx, commands.UpdatePreferencesCommand{
		TripID:   tripID,
		MemberID: memberID,
		Payload:  req.Payload,
		Ready:    req.Ready,
	})
	if err != nil {
		return httptransport.PreferenceResponse{}, err
	}
	return toPreferenceResponse(record), nil
}

func (h Handler) ListPreferencesHandler(ctx context.Context, tripID string) (httptransport.PreferencesResponse, error) {
	records, err := h.Queries.ListPreferences(ctx, tripID)
	if err != nil {
		return httptransport.PreferencesResponse{}, err
	}
	items := make([]httptransport.PreferenceResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toPreferenceResponse(record))
	}
	return httptransport.PreferencesResponse{Items: items}, nil
}

func toTripResponse(trip entities.Trip) httptransport.TripResponse {
	return httptransport.TripResponse{
		TripID:      trip.TripID,
		Name:        trip.Name,
		Destination: trip.Destination,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Timezone:    trip.Timezone,
		BudgetMin:   trip.BudgetMin,
		BudgetMax:   trip.BudgetMax,
		Summary:     trip.Summary,
		Status:      string(trip.Status),
		OwnerID:     trip.OwnerID,
		CreatedAt:   trip.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   trip.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toMemberResponse(member entities.Member) httptransport.MemberResponse {
	return httptransport.MemberResponse{
		MemberID:    member.MemberID,
		AccountID:   member.AccountID,
		DisplayName: member.DisplayName,
		Role:        string(member.Role),
		JoinedAt:    member.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func toPreferenceResponse(record entities.PreferenceRecord) httptransport.PreferenceResponse {
	return httptransport.PreferenceResponse{
		MemberID:  record.MemberID,
		Payload:   record.Payload,
		Ready:     record.Ready,
		UpdatedAt: record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
