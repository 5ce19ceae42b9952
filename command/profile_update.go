package command

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/changes"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
)

// ProfileCommandConfig wires dependencies for profile commands.
type ProfileCommandConfig struct {
	Repository types.ProfileRepository
	Cache      *cache.Coordinator
	Processor  ChangeExecutor
	Clock      types.Clock
	Logger     types.Logger
}

// ProfileUpdateInput carries the owner's full edit payload. A blank Status
// keeps the current one.
type ProfileUpdateInput struct {
	ProfileID uuid.UUID
	Edits     types.ProfileEdits
	Result    *types.Profile
}

// Type implements gocommand.Message.
func (ProfileUpdateInput) Type() string {
	return "command.profile.update"
}

// Validate implements gocommand.Message.
func (input ProfileUpdateInput) Validate() error {
	if input.ProfileID == uuid.Nil {
		return ErrProfileIDRequired
	}
	edits := input.Edits
	return validation.ValidateStruct(&edits,
		validation.Field(&edits.Name, validation.Length(0, 120)),
		validation.Field(&edits.Email, is.EmailFormat),
		validation.Field(&edits.Website, is.URL),
		validation.Field(&edits.About, validation.Length(0, 4000)),
		validation.Field(&edits.Status, validation.In(
			types.ProfileStatusHidden,
			types.ProfileStatusUnavailable,
			types.ProfileStatusAvailable,
		)),
		validation.Field(&edits.BirthYear, validation.NilOrNotEmpty, validation.Min(1900)),
		validation.Field(&edits.Languages, validation.Each(validation.Length(0, 64))),
	)
}

// ProfileUpdateCommand applies owner edits and synchronizes the category
// index, caches and notifications through the change processor.
type ProfileUpdateCommand struct {
	repo      types.ProfileRepository
	cache     *cache.Coordinator
	processor ChangeExecutor
	logger    types.Logger
}

// NewProfileUpdateCommand constructs the profile update handler.
func NewProfileUpdateCommand(cfg ProfileCommandConfig) *ProfileUpdateCommand {
	return &ProfileUpdateCommand{
		repo:      cfg.Repository,
		cache:     cfg.Cache,
		processor: cfg.Processor,
		logger:    safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[ProfileUpdateInput] = (*ProfileUpdateCommand)(nil)

// Execute computes the change set between the stored profile and the edits
// and hands it to the processor. Edits that change nothing are not written.
func (c *ProfileUpdateCommand) Execute(ctx context.Context, input ProfileUpdateInput) error {
	if c.repo == nil {
		return commandError(types.ErrMissingProfileRepository, "go-mentors: profile update unavailable")
	}
	if c.processor == nil {
		return commandError(ErrProcessorRequired, "go-mentors: profile update unavailable")
	}
	if err := input.Validate(); err != nil {
		return commandError(err, "go-mentors: invalid profile update")
	}

	original, err := loadOriginal(ctx, c.repo, c.cache, c.logger, input.ProfileID)
	if err != nil {
		return commandError(err, "go-mentors: profile update failed")
	}

	edits := normalizeEdits(input.Edits)
	if edits.Status == "" {
		edits.Status = original.Status
	}
	proposed := original.WithEdits(edits)

	set, err := changes.CalculateChanges(&original, &proposed)
	if err != nil {
		return commandError(err, "go-mentors: profile update failed")
	}
	if !set.HasChanges() {
		if input.Result != nil {
			*input.Result = original
		}
		return nil
	}

	if err := c.processor.Execute(ctx, proposed, set); err != nil {
		c.logger.Error("profile update failed", err, "profile_id", proposed.ID)
		return commandError(err, "go-mentors: profile update failed")
	}
	c.logger.Info("profile updated",
		"profile_id", proposed.ID,
		"category_changes", len(set.CategoryChanges),
	)
	if input.Result != nil {
		*input.Result = proposed
	}
	return nil
}

func normalizeEdits(edits types.ProfileEdits) types.ProfileEdits {
	out := edits.Clone()
	out.Name = strings.TrimSpace(out.Name)
	out.Email = strings.TrimSpace(out.Email)
	out.Gender = strings.TrimSpace(out.Gender)
	out.Languages = trimNames(out.Languages)
	skills := out.Skills[:0:0]
	for _, skill := range out.Skills {
		skill.Name = strings.TrimSpace(skill.Name)
		if skill.Name == "" {
			continue
		}
		skills = append(skills, skill)
	}
	out.Skills = skills
	return out
}

func trimNames(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
