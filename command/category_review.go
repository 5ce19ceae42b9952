package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/pkg/types"
)

// CategoryCommandConfig wires dependencies for category moderation.
type CategoryCommandConfig struct {
	Repository types.CategoryRepository
	Cache      *cache.Coordinator
	Logger     types.Logger
}

// CategoryReviewInput records a moderator decision on a category.
type CategoryReviewInput struct {
	Group   types.CategoryGroup
	Name    string
	Visible bool
	Result  *types.Category
}

// Type implements gocommand.Message.
func (CategoryReviewInput) Type() string {
	return "command.category.review"
}

// Validate implements gocommand.Message.
func (input CategoryReviewInput) Validate() error {
	return types.ValidateCategoryRef(input.Group, input.Name)
}

// CategoryReviewCommand marks a category reviewed and sets its public
// visibility.
type CategoryReviewCommand struct {
	repo   types.CategoryRepository
	cache  *cache.Coordinator
	logger types.Logger
}

// NewCategoryReviewCommand constructs the review handler.
func NewCategoryReviewCommand(cfg CategoryCommandConfig) *CategoryReviewCommand {
	return &CategoryReviewCommand{
		repo:   cfg.Repository,
		cache:  cfg.Cache,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[CategoryReviewInput] = (*CategoryReviewCommand)(nil)

// Execute persists the decision, then evicts the cached category and the
// cached catalogue.
func (c *CategoryReviewCommand) Execute(ctx context.Context, input CategoryReviewInput) error {
	if c.repo == nil {
		return commandError(types.ErrMissingCategoryRepository, "go-mentors: category review unavailable")
	}
	if err := input.Validate(); err != nil {
		return commandError(err, "go-mentors: invalid category review")
	}

	category, err := c.repo.Get(ctx, input.Group, input.Name)
	if err != nil {
		return commandError(err, "go-mentors: category review failed")
	}
	category.Visible = input.Visible
	category.Reviewed = true

	saved, err := c.repo.Upsert(ctx, *category)
	if err != nil {
		return commandError(err, "go-mentors: category review failed")
	}
	if saved == nil {
		saved = category
	}

	if c.cache != nil {
		if err := c.cache.RemoveCategory(ctx, saved.Group, saved.Name); err != nil {
			return commandError(err, "go-mentors: category review failed")
		}
		if err := c.cache.RemoveCategories(ctx); err != nil {
			return commandError(err, "go-mentors: category review failed")
		}
	}
	c.logger.Info("category reviewed",
		"category_group", saved.Group,
		"category_name", saved.Name,
		"visible", saved.Visible,
	)
	if input.Result != nil {
		*input.Result = *saved
	}
	return nil
}
