package command

import (
	"context"
	"time"

	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
)

// ChangeExecutor applies a computed change set. changes.Processor is the
// production implementation.
type ChangeExecutor interface {
	Execute(ctx context.Context, profile types.Profile, set *types.ChangeSet) error
}

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

// loadOriginal reads the profile from the store. Change sets are always
// computed against that read, never against a cached copy. A cached entry
// for a profile the store reports as banned is dropped.
func loadOriginal(ctx context.Context, repo types.ProfileRepository, coordinator *cache.Coordinator, logger types.Logger, id uuid.UUID) (types.Profile, error) {
	profile, err := repo.GetByID(ctx, id)
	if err != nil {
		return types.Profile{}, err
	}
	if profile == nil {
		return types.Profile{}, types.ErrProfileNotFound
	}
	if coordinator != nil && profile.Banned() {
		if err := coordinator.RemoveProfile(ctx, id); err != nil {
			logger.Error("profile cache remove failed", err, "profile_id", id)
		}
	}
	return *profile, nil
}
