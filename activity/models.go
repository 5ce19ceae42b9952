package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LogEntry models the persisted row in mentor_activity.
type LogEntry struct {
	bun.BaseModel `bun:"table:mentor_activity"`

	ID         uuid.UUID      `bun:",pk,type:uuid"`
	Topic      string         `bun:"topic"`
	ObjectType string         `bun:"object_type"`
	ObjectID   string         `bun:"object_id"`
	Data       map[string]any `bun:"data,type:jsonb"`
	OccurredAt time.Time      `bun:"occurred_at"`
}
