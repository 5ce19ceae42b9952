package activity

import (
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func activeCursor(cursor *types.ActivityCursor) bool {
	return cursor != nil && !cursor.OccurredAt.IsZero()
}

// afterCursor keeps entries strictly older than cursor in the feed order
// (occurred_at DESC, id DESC). A cursor without an id skips the whole
// timestamp.
func afterCursor(q *bun.SelectQuery, cursor *types.ActivityCursor) *bun.SelectQuery {
	if !activeCursor(cursor) {
		return q
	}
	if cursor.ID == uuid.Nil {
		return q.Where("occurred_at < ?", cursor.OccurredAt)
	}
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("occurred_at < ?", cursor.OccurredAt).
			WhereOr("occurred_at = ? AND id < ?", cursor.OccurredAt, cursor.ID)
	})
}

func cursorAt(record types.ActivityRecord) *types.ActivityCursor {
	return &types.ActivityCursor{OccurredAt: record.OccurredAt, ID: record.ID}
}
