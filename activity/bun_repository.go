package activity

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-mentors/events"
	"github.com/goliatone/go-mentors/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// RepositoryConfig wires the Bun-backed activity repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LogEntry]
	Masker     *masker.Masker
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type activityStore interface {
	repository.Repository[*LogEntry]
}

// Repository persists activity entries and serves the audit feed.
type Repository struct {
	activityStore
	masker *masker.Masker
	clock  types.Clock
	idGen  types.IDGenerator
}

// NewRepository constructs a repository that is both an EventSink and an
// ActivityRepository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("activity: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*LogEntry]{
			NewRecord: func() *LogEntry { return &LogEntry{} },
			GetID: func(entry *LogEntry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *LogEntry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	mask := cfg.Masker
	if mask == nil {
		mask = events.DefaultMasker()
	}

	return &Repository{
		activityStore: repo,
		masker:        mask,
		clock:         clock,
		idGen:         idGen,
	}, nil
}

var (
	_ types.EventSink          = (*Repository)(nil)
	_ types.ActivityRepository = (*Repository)(nil)
)

// Publish records a notification as an activity entry.
func (r *Repository) Publish(ctx context.Context, topic string, payload any) error {
	record := types.ActivityRecord{Topic: topic}
	record.ObjectType, record.ObjectID = describe(payload)
	data, err := events.SanitizePayload(r.masker, payload)
	if err != nil {
		return err
	}
	record.Data = data
	return r.Log(ctx, record)
}

// Log persists an activity record.
func (r *Repository) Log(ctx context.Context, record types.ActivityRecord) error {
	if strings.TrimSpace(record.Topic) == "" {
		return events.ErrTopicRequired
	}
	entry := toLogEntry(record)
	if entry.ID == uuid.Nil {
		entry.ID = r.idGen.UUID()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = r.clock.Now()
	}
	_, err := r.Create(ctx, entry)
	return err
}

// ListActivity returns a page of entries, newest first. A filter cursor
// switches from offset to keyset paging.
func (r *Repository) ListActivity(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	pagination := normalizePagination(filter.Pagination, defaultPageSize, maxPageSize)
	keyset := activeCursor(filter.After)
	if keyset {
		pagination.Offset = 0
	}
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr("occurred_at DESC, id DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
			return afterCursor(applyActivityFilter(q, filter), filter.After)
		},
	}

	rows, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.ActivityPage{}, err
	}
	records := make([]types.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toActivityRecord(row))
	}
	page := types.ActivityPage{
		Records:    records,
		Total:      total,
		NextOffset: pagination.Offset + len(records),
		HasMore:    pagination.Offset+len(records) < total,
	}
	if page.HasMore && len(records) > 0 {
		page.NextCursor = cursorAt(records[len(records)-1])
	}
	return page, nil
}

func applyActivityFilter(q *bun.SelectQuery, filter types.ActivityFilter) *bun.SelectQuery {
	if len(filter.Topics) > 0 {
		q = q.Where("topic IN (?)", bun.In(filter.Topics))
	}
	if filter.ObjectType != "" {
		q = q.Where("object_type = ?", filter.ObjectType)
	}
	if filter.ObjectID != "" {
		q = q.Where("object_id = ?", filter.ObjectID)
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("occurred_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("occurred_at <= ?", filter.Until)
	}
	return q
}

func describe(payload any) (string, string) {
	switch event := payload.(type) {
	case types.CategoryCreatedEvent:
		return "category", event.CategoryID.String()
	case *types.CategoryCreatedEvent:
		if event != nil {
			return "category", event.CategoryID.String()
		}
	case types.ProfileUpdatedEvent:
		return "profile", event.ProfileID.String()
	case *types.ProfileUpdatedEvent:
		if event != nil {
			return "profile", event.ProfileID.String()
		}
	}
	return "", ""
}

func toLogEntry(record types.ActivityRecord) *LogEntry {
	return &LogEntry{
		ID:         record.ID,
		Topic:      strings.TrimSpace(record.Topic),
		ObjectType: strings.TrimSpace(record.ObjectType),
		ObjectID:   strings.TrimSpace(record.ObjectID),
		Data:       cloneMap(record.Data),
		OccurredAt: record.OccurredAt,
	}
}

func toActivityRecord(entry *LogEntry) types.ActivityRecord {
	if entry == nil {
		return types.ActivityRecord{}
	}
	return types.ActivityRecord{
		ID:         entry.ID,
		Topic:      entry.Topic,
		ObjectType: entry.ObjectType,
		ObjectID:   entry.ObjectID,
		Data:       cloneMap(entry.Data),
		OccurredAt: entry.OccurredAt,
	}
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func normalizePagination(p types.Pagination, def, max int) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
