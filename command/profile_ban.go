package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/changes"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
)

// ProfileBanInput identifies the profile a moderator bans.
type ProfileBanInput struct {
	ProfileID uuid.UUID
	Result    *types.Profile
}

// Type implements gocommand.Message.
func (ProfileBanInput) Type() string {
	return "command.profile.ban"
}

// Validate implements gocommand.Message.
func (input ProfileBanInput) Validate() error {
	if input.ProfileID == uuid.Nil {
		return ErrProfileIDRequired
	}
	return nil
}

// ProfileBanCommand bans a profile and strips it from every category
// partition and public read model.
type ProfileBanCommand struct {
	repo      types.ProfileRepository
	cache     *cache.Coordinator
	processor ChangeExecutor
	clock     types.Clock
	logger    types.Logger
}

// NewProfileBanCommand constructs the ban handler.
func NewProfileBanCommand(cfg ProfileCommandConfig) *ProfileBanCommand {
	return &ProfileBanCommand{
		repo:      cfg.Repository,
		cache:     cfg.Cache,
		processor: cfg.Processor,
		clock:     safeClock(cfg.Clock),
		logger:    safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[ProfileBanInput] = (*ProfileBanCommand)(nil)

// Execute bans the profile. Banning an already banned profile fails with
// ErrProfileAlreadyBanned.
func (c *ProfileBanCommand) Execute(ctx context.Context, input ProfileBanInput) error {
	if c.repo == nil {
		return commandError(types.ErrMissingProfileRepository, "go-mentors: profile ban unavailable")
	}
	if c.processor == nil {
		return commandError(ErrProcessorRequired, "go-mentors: profile ban unavailable")
	}
	if err := input.Validate(); err != nil {
		return commandError(err, "go-mentors: invalid profile ban")
	}

	original, err := c.repo.GetByID(ctx, input.ProfileID)
	if err != nil {
		return commandError(err, "go-mentors: profile ban failed")
	}
	if original == nil {
		return commandError(types.ErrProfileNotFound, "go-mentors: profile ban failed")
	}
	if original.Banned() {
		return commandError(types.ErrProfileAlreadyBanned, "go-mentors: profile ban failed")
	}

	banned, err := c.repo.Ban(ctx, input.ProfileID, now(c.clock))
	if err != nil {
		return commandError(err, "go-mentors: profile ban failed")
	}
	if banned == nil {
		// Lost a race with a concurrent ban.
		return commandError(types.ErrProfileAlreadyBanned, "go-mentors: profile ban failed")
	}

	set := &types.ChangeSet{}
	if !original.Hidden() {
		set, err = changes.RemoveAllCategoryLinks(original)
		if err != nil {
			return commandError(err, "go-mentors: profile ban failed")
		}
	}
	// The store already persisted the ban.
	set.ProfileChanged = false

	if err := c.processor.Execute(ctx, *banned, set); err != nil {
		c.logger.Error("profile ban sync failed", err, "profile_id", banned.ID)
		return commandError(err, "go-mentors: profile ban failed")
	}
	c.logger.Info("profile banned", "profile_id", banned.ID, "category_changes", len(set.CategoryChanges))
	if input.Result != nil {
		*input.Result = *banned
	}
	return nil
}
