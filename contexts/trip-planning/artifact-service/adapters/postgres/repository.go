package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/contexts/trip-planning/artifact-service/ports"

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
	return []any{&artifactModel{}, &candidateModel{}}
}

func (r *Repository) GetArtifact(ctx context.Context, tripID string, kind entities.Kind) (entities.Artifact, bool, error) {
	var row artifactModel
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("kind = ?", string(kind)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Artifact{}, false, nil
		}
		return entities.Artifact{}, false, r.logError("artifact_repo_get_artifact_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"kind", string(kind),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveArtifact(ctx context.Context, artifact entities.Artifact) error {
	row := artifactModelFromEntity(artifact)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "trip_id"}, {Name: "kind"}},
		DoUpdates: clause.Assignments(map[string]any{
			"content":      row.Content,
			"fingerprint":  row.Fingerprint,
			"generated_at": row.GeneratedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("artifact_repo_save_artifact_failed", create.Error,
			"trip_id", row.TripID,
			"kind", row.Kind,
		)
	}
	return nil
}

// ReplaceBatch unsets the live flag on the category's previous batch and
// inserts the new rows inside one transaction. Old rows stay in place so
// historical votes keep a referent.
func (r *Repository) ReplaceBatch(ctx context.Context, tripID string, category entities.Category, batchID string, options []entities.CandidateOption) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&candidateModel{}).
			Where("trip_id = ?", strings.TrimSpace(tripID)).
			Where("category = ?", string(category)).
			Where("live = ?", true).
			Update("live", false).Error; err != nil {
			return err
		}
		for _, option := range options {
			row := candidateModelFromEntity(option)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("artifact_repo_replace_batch_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"category", string(category),
			"batch_id", strings.TrimSpace(batchID),
		)
	}
	return nil
}

func (r *Repository) ListLiveOptions(ctx context.Context, tripID string, category entities.Category) ([]entities.CandidateOption, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("category = ?", string(category)).
		Where("live = ?", true).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("artifact_repo_list_live_options_failed", err,
			"trip_id", strings.TrimSpace(tripID),
			"category", string(category),
		)
	}
	items := make([]entities.CandidateOption, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CountLiveOptions(ctx context.Context, tripID string) (map[entities.Category]int, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Select("category").
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("live = ?", true).
		Find(&rows).Error; err != nil {
		return nil, r.logError("artifact_repo_count_live_options_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	counts := map[entities.Category]int{}
	for _, row := range rows {
		counts[entities.Category(row.Category)]++
	}
	return counts, nil
}

func (r *Repository) TripSnapshot(ctx context.Context, tripID string) (ports.TripSnapshot, bool, error) {
	tripID = strings.TrimSpace(tripID)

	var trip tripProjectionModel
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		First(&trip).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TripSnapshot{}, false, nil
		}
		return ports.TripSnapshot{}, false, r.logError("artifact_repo_trip_snapshot_failed", err,
			"trip_id", tripID,
		)
	}

	var members []memberProjectionModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("member_id ASC").
		Find(&members).Error; err != nil {
		return ports.TripSnapshot{}, false, r.logError("artifact_repo_snapshot_members_failed", err,
			"trip_id", tripID,
		)
	}

	var prefs []preferenceProjectionModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Find(&prefs).Error; err != nil {
		return ports.TripSnapshot{}, false, r.logError("artifact_repo_snapshot_prefs_failed", err,
			"trip_id", tripID,
		)
	}

	snapshot := ports.TripSnapshot{
		TripID:      trip.TripID,
		Destination: trip.Destination,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Timezone:    trip.Timezone,
	}
	for _, member := range members {
		snapshot.Members = append(snapshot.Members, ports.MemberAttr{
			MemberID:    member.MemberID,
			DisplayName: member.DisplayName,
		})
	}
	var latest time.Time
	for _, pref := range prefs {
		if pref.UpdatedAt.After(latest) {
			latest = pref.UpdatedAt
		}
	}
	if !latest.IsZero() {
		snapshot.PreferencesUpdatedAt = latest.UTC().Unix()
	}
	return snapshot, true, nil
}

// UnanimousOptionIDs recomputes unanimity from raw vote rows against the
// current member count. Nothing here is cached; membership changes are
// reflected on the next read.
func (r *Repository) UnanimousOptionIDs(ctx context.Context, tripID string) (map[entities.Category][]string, error) {
	tripID = strings.TrimSpace(tripID)

	var memberCount int64
	if err := r.db.WithContext(ctx).
		Model(&memberProjectionModel{}).
		Where("trip_id = ?", tripID).
		Count(&memberCount).Error; err != nil {
		return nil, r.logError("artifact_repo_unanimous_member_count_failed", err,
			"trip_id", tripID,
		)
	}
	if memberCount == 0 {
		return map[entities.Category][]string{}, nil
	}

	var votes []voteProjectionModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Where("approved = ?", true).
		Find(&votes).Error; err != nil {
		return nil, r.logError("artifact_repo_unanimous_votes_failed", err,
			"trip_id", tripID,
		)
	}

	type optionKey struct {
		category string
		optionID string
	}
	approvals := map[optionKey]int{}
	for _, vote := range votes {
		approvals[optionKey{category: vote.Category, optionID: vote.OptionID}]++
	}

	result := map[entities.Category][]string{}
	for key, count := range approvals {
		if int64(count) == memberCount {
			category := entities.Category(key.category)
			result[category] = append(result[category], key.optionID)
		}
	}
	for category := range result {
		sort.Strings(result[category])
	}
	return result, nil
}

func (r *Repository) FinalizedSelections(ctx context.Context, tripID string) (map[entities.Category][]string, error) {
	var rows []selectionProjectionModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Order("category ASC, option_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("artifact_repo_finalized_selections_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	result := map[entities.Category][]string{}
	for _, row := range rows {
		category := entities.Category(row.Category)
		result[category] = append(result[category], row.OptionID)
	}
	return result, nil
}

// RejectionContext renders rejected votes that carry a reason as one line
// per vote, ordered by category, option and member for determinism.
func (r *Repository) RejectionContext(ctx context.Context, tripID string) (string, bool, error) {
	var votes []voteProjectionModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", strings.TrimSpace(tripID)).
		Where("approved = ?", false).
		Where("reason <> ''").
		Order("category ASC, option_id ASC, member_id ASC").
		Find(&votes).Error; err != nil {
		return "", false, r.logError("artifact_repo_rejection_context_failed", err,
			"trip_id", strings.TrimSpace(tripID),
		)
	}
	if len(votes) == 0 {
		return "", false, nil
	}
	lines := make([]string, 0, len(votes))
	for _, vote := range votes {
		lines = append(lines, vote.Category+":"+vote.OptionID+": "+vote.Reason)
	}
	return strings.Join(lines, "\n"), true, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, env ports.EventEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return r.logError("artifact_repo_append_outbox_marshal_failed", err,
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
		return r.logError("artifact_repo_append_outbox_insert_failed", create.Error,
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
		"module", "trip-planning/artifact-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("artifact repository operation failed", fields...)
	return err
}
