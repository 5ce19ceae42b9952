package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityRecord is one audited notification.
type ActivityRecord struct {
	ID         uuid.UUID
	Topic      string
	ObjectType string
	ObjectID   string
	Data       map[string]any
	OccurredAt time.Time
}

// Pagination is offset based paging.
type Pagination struct {
	Limit  int
	Offset int
}

// ActivityCursor points at the last record a reader has seen. Feeds read
// with a cursor resume strictly after it, so records logged meanwhile never
// shift the page window.
type ActivityCursor struct {
	OccurredAt time.Time
	ID         uuid.UUID
}

// ActivityFilter narrows activity feeds. When After is set the offset is
// ignored.
type ActivityFilter struct {
	Topics     []string
	ObjectType string
	ObjectID   string
	Since      *time.Time
	Until      *time.Time
	After      *ActivityCursor
	Pagination Pagination
}

// ActivityPage is a page of activity records, newest first. Total counts the
// matches from the page start on. NextCursor is set while HasMore is true.
type ActivityPage struct {
	Records    []ActivityRecord
	Total      int
	NextOffset int
	NextCursor *ActivityCursor
	HasMore    bool
}

// ActivityRepository reads the audit trail.
type ActivityRepository interface {
	ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}
