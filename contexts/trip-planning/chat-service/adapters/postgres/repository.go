package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tripforge/contexts/trip-planning/chat-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const outboxStatusPending = "pending"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Models lists every gorm model this adapter owns, for migration wiring.
func Models() []any {
	return []any{&messageModel{}, &idempotencyModel{}}
}

const sequenceClaimAttempts = 3

// CreateMessage claims max+1 of the per-trip sequence and inserts inside one
// transaction. A unique index on (trip_id, sequence_number) turns a racing
// claim into a unique violation, which is retried with a fresh claim.
func (r *Repository) CreateMessage(ctx context.Context, input ports.CreateMessageInput, now time.Time) (ports.Message, error) {
	row := messageModel{
		MessageID:   uuid.NewString(),
		TripID:      strings.TrimSpace(input.TripID),
		MemberID:    strings.TrimSpace(input.MemberID),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Body:        strings.TrimSpace(input.Body),
		CreatedAt:   now.UTC(),
	}

	var err error
	for attempt := 0; attempt < sequenceClaimAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var last int64
			if err := tx.Model(&messageModel{}).
				Where("trip_id = ?", row.TripID).
				Select("COALESCE(MAX(sequence_number), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			row.SequenceNumber = last + 1
			return tx.Create(&row).Error
		})
		if err == nil {
			return row.toPort(), nil
		}
		if !isUniqueViolation(err) {
			break
		}
	}
	return ports.Message{}, r.logError("chat_repo_create_message_failed", err,
		"trip_id", row.TripID,
		"member_id", row.MemberID,
	)
}

func (r *Repository) ListMessages(ctx context.Context, input ports.ListMessagesInput) ([]ports.Message, error) {
	query := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(input.TripID)).
		Order("sequence_number ASC")
	if input.AfterSequence > 0 {
		query = query.Where("sequence_number > ?", input.AfterSequence)
	}
	if input.Limit > 0 {
		query = query.Limit(input.Limit)
	}

	var rows []messageModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.logError("chat_repo_list_messages_failed", err,
			"trip_id", strings.TrimSpace(input.TripID),
		)
	}
	items := make([]ports.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("chat_repo_get_idempotency_failed", err,
			"key", strings.TrimSpace(key),
		)
	}
	if now.After(row.ExpiresAt) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		Payload:     row.Payload,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: record.RequestHash,
		Payload:     record.Payload,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("chat_repo_put_idempotency_failed", create.Error,
			"key", row.Key,
		)
	}
	return nil
}

func (r *Repository) TripExists(ctx context.Context, tripID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&tripProjectionModel{}).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Count(&count).Error
	if err != nil {
		return false, r.logError("chat_repo_trip_exists_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	return count > 0, nil
}

func (r *Repository) MemberExists(ctx context.Context, tripID string, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&memberProjectionModel{}).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Count(&count).Error
	if err != nil {
		return false, r.logError("chat_repo_member_exists_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return count > 0, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, env ports.EventEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return r.logError("chat_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(env.EventID),
			"event_type", strings.TrimSpace(env.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(env.EventID),
		EventType:    strings.TrimSpace(env.EventType),
		PartitionKey: strings.TrimSpace(env.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    env.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("chat_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "trip-planning/chat-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("chat repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
