package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-mentors/changes"
	"github.com/goliatone/go-mentors/pkg/types"
)

// CatalogueLoader returns the category catalogue snapshot, reading through
// the category cache. changes.Processor implements it.
type CatalogueLoader interface {
	LoadCatalogue(ctx context.Context) (*changes.Catalogue, error)
}

// PublicCategoriesInput optionally narrows the listing to one group.
type PublicCategoriesInput struct {
	Group types.CategoryGroup
}

// PublicCategoriesQuery lists the categories moderators made visible.
type PublicCategoriesQuery struct {
	loader CatalogueLoader
}

// NewPublicCategoriesQuery constructs the category listing.
func NewPublicCategoriesQuery(loader CatalogueLoader) *PublicCategoriesQuery {
	return &PublicCategoriesQuery{loader: loader}
}

var _ gocommand.Querier[PublicCategoriesInput, []types.Category] = (*PublicCategoriesQuery)(nil)

func (q *PublicCategoriesQuery) Query(ctx context.Context, input PublicCategoriesInput) ([]types.Category, error) {
	if q.loader == nil {
		return nil, queryError(types.ErrMissingCategoryRepository, "go-mentors: categories unavailable")
	}
	if input.Group != "" && !input.Group.Valid() {
		return nil, queryError(types.ErrCategoryGroupRequired, "go-mentors: invalid categories request")
	}
	catalogue, err := q.loader.LoadCatalogue(ctx)
	if err != nil {
		return nil, queryError(err, "go-mentors: categories failed")
	}
	visible := catalogue.Visible()
	if input.Group == "" {
		return visible, nil
	}
	out := make([]types.Category, 0, len(visible))
	for _, category := range visible {
		if category.Group == input.Group {
			out = append(out, category)
		}
	}
	return out, nil
}
