package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicCategoryCreated carries moderation requests for new categories.
	TopicCategoryCreated = "mentors.category.created"
	// TopicProfileUpdated carries profile change notifications.
	TopicProfileUpdated = "mentors.profile.updated"
)

// CategoryCreatedEvent is published the first time a category name is seen.
type CategoryCreatedEvent struct {
	CategoryID uuid.UUID     `json:"category_id"`
	Group      CategoryGroup `json:"group"`
	Name       string        `json:"name"`
	ProfileID  uuid.UUID     `json:"profile_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// ProfileUpdatedEvent is published after a profile record is persisted.
type ProfileUpdatedEvent struct {
	ProfileID  uuid.UUID     `json:"profile_id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Status     ProfileStatus `json:"status"`
	Banned     bool          `json:"banned"`
	OccurredAt time.Time     `json:"occurred_at"`
}
