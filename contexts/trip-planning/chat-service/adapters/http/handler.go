package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"tripforge/contexts/trip-planning/chat-service/application"
	"tripforge/contexts/trip-planning/chat-service/ports"
	httptransport "tripforge/contexts/trip-planning/chat-service/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) PostMessageHandler(
	ctx context.Context,
	tripID string,
	memberID string,
	idempotencyKey string,
	req httptransport.PostMessageRequest,
) (httptransport.MessageResponse, error) {
	message, err := h.Service.PostMessage(ctx, idempotencyKey, ports.CreateMessageInput{
		TripID:      tripID,
		MemberID:    memberID,
		DisplayName: req.DisplayName,
		Body:        req.Body,
	})
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return toMessageResponse(message), nil
}

func (h Handler) ListMessagesHandler(ctx context.Context, tripID string, afterSequence int64, limit int) (httptransport.MessagesResponse, error) {
	messages, err := h.Service.ListMessages(ctx, ports.ListMessagesInput{
		TripID:        tripID,
		AfterSequence: afterSequence,
		Limit:         limit,
	})
	if err != nil {
		return httptransport.MessagesResponse{}, err
	}
	items := make([]httptransport.MessageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, toMessageResponse(message))
	}
	return httptransport.MessagesResponse{Items: items}, nil
}

func (h Handler) PingTypingHandler(ctx context.Context, tripID string, memberID string) error {
	return h.Service.PingTyping(ctx, tripID, memberID)
}

func toMessageResponse(message ports.Message) httptransport.MessageResponse {
	return httptransport.MessageResponse{
		MessageID:      message.MessageID,
		TripID:         message.TripID,
		MemberID:       message.MemberID,
		DisplayName:    message.DisplayName,
		Body:           message.Body,
		SequenceNumber: message.SequenceNumber,
		CreatedAt:      message.CreatedAt.UTC().Format(time.RFC3339),
	}
}
