package db

import (
	"context"
	"log/slog"
	"time"

	"tripforge/internal/shared/outbox"

	"gorm.io/gorm"
)

const (
	outboxStatusPublished = "published"
	outboxStatusFailed    = "failed"
)

// OutboxStore is the relay-side view of the shared outbox table. Context
// adapters append rows inside their own transactions; the relay drains them
// here.
type OutboxStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewOutboxStore(db *gorm.DB, logger *slog.Logger) *OutboxStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutboxStore{db: db, logger: logger}
}

func (s *OutboxStore) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := s.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		s.logger.Error("outbox store list pending failed",
			"event", "outbox_store_list_pending_failed",
			"module", "internal/platform/db",
			"layer", "platform",
			"error", err.Error(),
		)
		return nil, err
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (s *OutboxStore) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		}).Error
	if err != nil {
		s.logger.Error("outbox store mark published failed",
			"event", "outbox_store_mark_published_failed",
			"module", "internal/platform/db",
			"layer", "platform",
			"outbox_id", outboxID,
			"error", err.Error(),
		)
	}
	return err
}

// MarkOutboxFailed parks a poison row so the relay can drain past it. The
// reason lands in the log stream; the row keeps its payload for inspection.
func (s *OutboxStore) MarkOutboxFailed(ctx context.Context, outboxID string, reason string) error {
	err := s.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":      outboxStatusFailed,
			"retry_count": gorm.Expr("retry_count + 1"),
		}).Error
	if err != nil {
		s.logger.Error("outbox store mark failed failed",
			"event", "outbox_store_mark_failed_failed",
			"module", "internal/platform/db",
			"layer", "platform",
			"outbox_id", outboxID,
			"reason", reason,
			"error", err.Error(),
		)
		return err
	}
	s.logger.Warn("outbox row parked",
		"event", "outbox_store_row_parked",
		"module", "internal/platform/db",
		"layer", "platform",
		"outbox_id", outboxID,
		"reason", reason,
	)
	return nil
}

// Models lists the gorm models this package owns, for migration wiring. The
// context adapters append to the same table but never migrate it.
func Models() []any {
	return []any{&outboxModel{}}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	RetryCount   int        `gorm:"column:retry_count"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "outbox_events"
}

func (m outboxModel) toMessage() outbox.Message {
	return outbox.Message{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      m.Payload,
		Status:       m.Status,
		RetryCount:   m.RetryCount,
		CreatedAt:    m.CreatedAt.UTC(),
		PublishedAt:  m.PublishedAt,
	}
}
