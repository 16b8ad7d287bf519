package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	"tripforge/contexts/trip-planning/consensus-service/ports"

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
	return []any{&voteModel{}, &selectionModel{}}
}

func (r *Repository) UpsertVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "trip_id"}, {Name: "member_id"}, {Name: "category"}, {Name: "option_id"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"approved":   row.Approved,
			"reason":     row.Reason,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("consensus_repo_upsert_vote_failed", create.Error,
			"trip_id", row.TripID,
			"member_id", row.MemberID,
			"option_id", row.OptionID,
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, tripID string, memberID string, category entities.Category, optionID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Where("category = ?", string(category)).
		Where("option_id = ?", strings.TrimSpace(optionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("consensus_repo_get_vote_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesByOption(ctx context.Context, tripID string, category entities.Category, optionID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("category = ?", string(category)).
		Where("option_id = ?", strings.TrimSpace(optionID)).
		Order("member_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("consensus_repo_list_votes_by_option_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"option_id", strings.TrimSpace(optionID),
		)
	}
	return toVoteEntities(rows), nil
}

func (r *Repository) ListVotesByTrip(ctx context.Context, tripID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Order("category ASC, option_id ASC, member_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("consensus_repo_list_votes_by_trip_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	return toVoteEntities(rows), nil
}

// ReplaceSelection deletes competing rows and inserts the new one inside a
// single transaction. Two racing transactions still resolve to last write
// wins; that is documented behavior, not an error.
func (r *Repository) ReplaceSelection(ctx context.Context, selection entities.FinalizedSelection) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("trip_id = ?", strings.TrimSpace(selection.TripID)).
			Where("category = ?", string(selection.Category)).
			Delete(&selectionModel{}).Error; err != nil {
			return err
		}
		row := selectionModel{
			TripID:      strings.TrimSpace(selection.TripID),
			Category:    string(selection.Category),
			OptionID:    strings.TrimSpace(selection.OptionID),
			ActorID:     strings.TrimSpace(selection.ActorID),
			FinalizedAt: selection.FinalizedAt.UTC(),
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return r.logError("consensus_repo_replace_selection_failed", err,
			"trip_id", strings.TrimSpace(selection.TripID),
			"category", string(selection.Category),
			"option_id", strings.TrimSpace(selection.OptionID),
		)
	}
	return nil
}

func (r *Repository) AddSelection(ctx context.Context, selection entities.FinalizedSelection) error {
	row := selectionModel{
		TripID:      strings.TrimSpace(selection.TripID),
		Category:    string(selection.Category),
		OptionID:    strings.TrimSpace(selection.OptionID),
		ActorID:     strings.TrimSpace(selection.ActorID),
		FinalizedAt: selection.FinalizedAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trip_id"}, {Name: "category"}, {Name: "option_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("consensus_repo_add_selection_failed", create.Error,
			"trip_id", row.TripID,
			"category", row.Category,
			"option_id", row.OptionID,
		)
	}
	return nil
}

func (r *Repository) RemoveSelection(ctx context.Context, tripID string, category entities.Category, optionID string) error {
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("category = ?", string(category)).
		Where("option_id = ?", strings.TrimSpace(optionID)).
		Delete(&selectionModel{}).Error
	if err != nil {
		return r.logError("consensus_repo_remove_selection_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"option_id", strings.TrimSpace(optionID),
		)
	}
	return nil
}

func (r *Repository) ListSelections(ctx context.Context, tripID string) ([]entities.FinalizedSelection, error) {
	var rows []selectionModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Order("category ASC, option_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("consensus_repo_list_selections_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	items := make([]entities.FinalizedSelection, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) TripExists(ctx context.Context, tripID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&tripProjectionModel{}).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Count(&count).Error
	if err != nil {
		return false, r.logError("consensus_repo_trip_exists_failed", err,
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
		return false, r.logError("consensus_repo_member_exists_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return count > 0, nil
}

func (r *Repository) CountMembers(ctx context.Context, tripID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&memberProjectionModel{}).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Count(&count).Error
	if err != nil {
		return 0, r.logError("consensus_repo_count_members_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	return int(count), nil
}

func (r *Repository) OptionLive(ctx context.Context, tripID string, category entities.Category, optionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&candidateProjectionModel{}).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("category = ?", string(category)).
		Where("option_id = ?", strings.TrimSpace(optionID)).
		Where("live = ?", true).
		Count(&count).Error
	if err != nil {
		return false, r.logError("consensus_repo_option_live_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"option_id", strings.TrimSpace(optionID),
		)
	}
	return count > 0, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, env ports.EventEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return r.logError("consensus_repo_append_outbox_marshal_failed", err,
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
		return r.logError("consensus_repo_append_outbox_insert_failed", create.Error,
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
		"module", "trip-planning/consensus-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("consensus repository operation failed", fields...)
	return err
}
