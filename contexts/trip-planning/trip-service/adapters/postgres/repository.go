package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tripforge/contexts/trip-planning/trip-service/domain/entities"
	"tripforge/contexts/trip-planning/trip-service/ports"

	"github.com/google/uuid"
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
	return []any{&tripModel{}, &memberModel{}, &preferenceModel{}}
}

func (r *Repository) CreateTrip(ctx context.Context, trip entities.Trip) error {
	row := tripModelFromEntity(trip)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("trip_repo_create_trip_failed", err,
			"trip_id", row.TripID,
		)
	}
	return nil
}

func (r *Repository) GetTrip(ctx context.Context, tripID string) (entities.Trip, bool, error) {
	var row tripModel
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Trip{}, false, nil
		}
		return entities.Trip{}, false, r.logError("trip_repo_get_trip_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpdateTrip(ctx context.Context, trip entities.Trip) error {
	row := tripModelFromEntity(trip)
	err := r.db.WithContext(ctx).
		Model(&tripModel{}).
		Where("trip_id = ?", row.TripID).
		Updates(map[string]any{
			"name":        row.Name,
			"destination": row.Destination,
			"start_date":  row.StartDate,
			"end_date":    row.EndDate,
			"timezone":    row.Timezone,
			"budget_min":  row.BudgetMin,
			"budget_max":  row.BudgetMax,
			"summary":     row.Summary,
			"status":      row.Status,
			"updated_at":  row.UpdatedAt,
		}).Error
	if err != nil {
		return r.logError("trip_repo_update_trip_failed", err,
			"trip_id", row.TripID,
		)
	}
	return nil
}

// DeleteTrip removes the trip with its members and preference records in one
// transaction.
func (r *Repository) DeleteTrip(ctx context.Context, tripID string) error {
	tripID = strings.TrimSpace(tripID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", tripID).Delete(&preferenceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&memberModel{}).Error; err != nil {
			return err
		}
		return tx.Where("trip_id = ?", tripID).Delete(&tripModel{}).Error
	})
	if err != nil {
		return r.logError("trip_repo_delete_trip_failed", err,
			"trip_id", tripID,
		)
	}
	return nil
}

func (r *Repository) AddMember(ctx context.Context, member entities.Member) error {
	row := memberModelFromEntity(member)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "trip_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("trip_repo_add_member_failed", create.Error,
			"trip_id", row.TripID,
			"member_id", row.MemberID,
		)
	}
	return nil
}

func (r *Repository) GetMember(ctx context.Context, tripID string, memberID string) (entities.Member, bool, error) {
	var row memberModel
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Member{}, false, nil
		}
		return entities.Member{}, false, r.logError("trip_repo_get_member_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetMemberByAccount(ctx context.Context, tripID string, accountID string) (entities.Member, bool, error) {
	var row memberModel
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Member{}, false, nil
		}
		return entities.Member{}, false, r.logError("trip_repo_get_member_by_account_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"account_id", strings.TrimSpace(accountID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) RemoveMember(ctx context.Context, tripID string, memberID string) error {
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Delete(&memberModel{}).Error
	if err != nil {
		return r.logError("trip_repo_remove_member_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return nil
}

func (r *Repository) ListMembers(ctx context.Context, tripID string) ([]entities.Member, error) {
	var rows []memberModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Order("member_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("trip_repo_list_members_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	items := make([]entities.Member, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpsertPreference(ctx context.Context, record entities.PreferenceRecord) error {
	row := preferenceModelFromEntity(record)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "member_id"}, {Name: "trip_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"payload":    row.Payload,
			"ready":      row.Ready,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("trip_repo_upsert_preference_failed", create.Error,
			"trip_id", row.TripID,
			"member_id", row.MemberID,
		)
	}
	return nil
}

func (r *Repository) ListPreferences(ctx context.Context, tripID string) ([]entities.PreferenceRecord, error) {
	var rows []preferenceModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Order("member_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("trip_repo_list_preferences_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	items := make([]entities.PreferenceRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) RemovePreference(ctx context.Context, tripID string, memberID string) error {
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Delete(&preferenceModel{}).Error
	if err != nil {
		return r.logError("trip_repo_remove_preference_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, env ports.EventEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return r.logError("trip_repo_append_outbox_marshal_failed", err,
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
		return r.logError("trip_repo_append_outbox_insert_failed", create.Error,
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
		"module", "trip-planning/trip-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("trip repository operation failed", fields...)
	return err
}
