package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// ProfileRepository is the durable profile store.
type ProfileRepository interface {
	// GetByID returns ErrProfileNotFound when the profile does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, profile Profile) (*Profile, error)
	// Ban marks the profile banned at the given instant. It returns nil without
	// an error when the profile is missing or already banned.
	Ban(ctx context.Context, id uuid.UUID, when time.Time) (*Profile, error)
	// ListVisible returns every public profile in search order.
	ListVisible(ctx context.Context) ([]Profile, error)
}

// CategoryRepository persists the category catalogue.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]Category, error)
	// Get returns ErrCategoryNotFound when the category does not exist.
	Get(ctx context.Context, group CategoryGroup, name string) (*Category, error)
	Upsert(ctx context.Context, category Category) (*Category, error)
}

// CategoryLinkIndex is the reverse index from a category partition to the
// profiles linked to it.
type CategoryLinkIndex interface {
	GetLinks(ctx context.Context, group CategoryGroup, name string) ([]uuid.UUID, error)
	StoreLinkChanges(ctx context.Context, group CategoryGroup, name string, changes []CategoryLinkChange) error
}

// AccountRepository resolves external identities to accounts.
type AccountRepository interface {
	GetOrCreate(ctx context.Context, provider, username string) (*AccountResult, error)
}

// EventSink publishes notifications. Delivery is fire-and-forget.
type EventSink interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID implements IDGenerator.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

// NopEventSink drops every notification.
type NopEventSink struct{}

// Publish implements EventSink.
func (NopEventSink) Publish(context.Context, string, any) error { return nil }

var (
	// ErrProfileRequired indicates a profile value was not supplied.
	ErrProfileRequired = errors.New("go-mentors: profile required")
	// ErrProfileIDRequired indicates a profile identifier was omitted.
	ErrProfileIDRequired = errors.New("go-mentors: profile id required")
	// ErrProfileNotFound is returned when a profile lookup finds nothing.
	ErrProfileNotFound = errors.New("go-mentors: profile not found")
	// ErrProfileAlreadyBanned is returned when banning a banned profile.
	ErrProfileAlreadyBanned = errors.New("go-mentors: profile already banned")
	// ErrCategoryNotFound is returned when a category lookup finds nothing.
	ErrCategoryNotFound = errors.New("go-mentors: category not found")
	// ErrCategoryGroupRequired indicates the category group was omitted or unknown.
	ErrCategoryGroupRequired = errors.New("go-mentors: category group required")
	// ErrCategoryNameRequired indicates the category name was blank.
	ErrCategoryNameRequired = errors.New("go-mentors: category name required")
	// ErrLinkChangesRequired indicates a nil link change batch.
	ErrLinkChangesRequired = errors.New("go-mentors: category link changes required")
	// ErrChangeSetRequired indicates a nil change set.
	ErrChangeSetRequired = errors.New("go-mentors: change set required")
	// ErrProviderRequired indicates the identity provider was omitted.
	ErrProviderRequired = errors.New("go-mentors: identity provider required")
	// ErrUsernameRequired indicates the provider username was omitted.
	ErrUsernameRequired = errors.New("go-mentors: username required")
	// ErrCacheKeyRequired indicates a cache operation received an empty key.
	ErrCacheKeyRequired = errors.New("go-mentors: cache key required")
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-mentors: service not ready")
	// ErrMissingProfileRepository occurs when no profile store was supplied.
	ErrMissingProfileRepository = errors.New("go-mentors: missing profile repository")
	// ErrMissingCategoryRepository occurs when no category store was supplied.
	ErrMissingCategoryRepository = errors.New("go-mentors: missing category repository")
	// ErrMissingLinkIndex occurs when no category link index was supplied.
	ErrMissingLinkIndex = errors.New("go-mentors: missing category link index")
	// ErrMissingAccountRepository occurs when no account store was supplied.
	ErrMissingAccountRepository = errors.New("go-mentors: missing account repository")
	// ErrMissingCache occurs when no cache coordinator was supplied.
	ErrMissingCache = errors.New("go-mentors: missing cache coordinator")
)
