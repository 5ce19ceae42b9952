package query

import (
	"context"
	"slices"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
)

// SearchQueryConfig wires the search read model.
type SearchQueryConfig struct {
	Profiles types.ProfileRepository
	Links    types.CategoryLinkIndex
	Cache    *cache.Coordinator
	Logger   types.Logger
}

// ProfileSearchInput filters visible profiles. Every supplied term must
// match; blank terms are ignored.
type ProfileSearchInput struct {
	Gender    string
	Languages []string
	Skills    []string
}

type searchTerm struct {
	group types.CategoryGroup
	name  string
}

func (input ProfileSearchInput) terms() []searchTerm {
	var out []searchTerm
	add := func(group types.CategoryGroup, name string) {
		if strings.TrimSpace(name) != "" {
			out = append(out, searchTerm{group: group, name: strings.TrimSpace(name)})
		}
	}
	add(types.CategoryGroupGender, input.Gender)
	for _, name := range input.Languages {
		add(types.CategoryGroupLanguage, name)
	}
	for _, name := range input.Skills {
		add(types.CategoryGroupSkill, name)
	}
	return out
}

// ProfileSearchQuery narrows the cached public result set through the
// category link index.
type ProfileSearchQuery struct {
	profiles types.ProfileRepository
	links    types.CategoryLinkIndex
	cache    *cache.Coordinator
	logger   types.Logger
}

// NewProfileSearchQuery constructs the search query.
func NewProfileSearchQuery(cfg SearchQueryConfig) *ProfileSearchQuery {
	return &ProfileSearchQuery{
		profiles: cfg.Profiles,
		links:    cfg.Links,
		cache:    cfg.Cache,
		logger:   safeLogger(cfg.Logger),
	}
}

var _ gocommand.Querier[ProfileSearchInput, []types.ProfileResult] = (*ProfileSearchQuery)(nil)

func (q *ProfileSearchQuery) Query(ctx context.Context, input ProfileSearchInput) ([]types.ProfileResult, error) {
	if q.profiles == nil {
		return nil, queryError(types.ErrMissingProfileRepository, "go-mentors: search unavailable")
	}
	if q.links == nil {
		return nil, queryError(types.ErrMissingLinkIndex, "go-mentors: search unavailable")
	}

	results, err := q.results(ctx)
	if err != nil {
		return nil, queryError(err, "go-mentors: search failed")
	}
	for _, term := range input.terms() {
		if len(results) == 0 {
			break
		}
		ids, err := q.members(ctx, term)
		if err != nil {
			return nil, queryError(err, "go-mentors: search failed")
		}
		allowed := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			allowed[id] = struct{}{}
		}
		results = slices.DeleteFunc(results, func(result types.ProfileResult) bool {
			_, ok := allowed[result.ID]
			return !ok
		})
	}
	return results, nil
}

// results returns a private copy of the public result set.
func (q *ProfileSearchQuery) results(ctx context.Context) ([]types.ProfileResult, error) {
	if q.cache != nil {
		cached, ok, err := q.cache.GetProfileResults(ctx)
		if err != nil {
			q.logger.Error("profile results cache read failed", err)
		} else if ok {
			return slices.Clone(cached), nil
		}
	}

	profiles, err := q.profiles.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]types.ProfileResult, 0, len(profiles))
	for _, profile := range profiles {
		if profile.Visible() {
			results = append(results, types.ToSearchResult(profile))
		}
	}
	slices.SortFunc(results, types.CompareProfileResults)

	if q.cache != nil {
		if err := q.cache.StoreProfileResults(ctx, results); err != nil {
			q.logger.Error("profile results cache store failed", err)
		}
	}
	return slices.Clone(results), nil
}

func (q *ProfileSearchQuery) members(ctx context.Context, term searchTerm) ([]uuid.UUID, error) {
	if q.cache != nil {
		cached, ok, err := q.cache.GetCategoryLinks(ctx, term.group, term.name)
		if err != nil {
			q.logger.Error("category links cache read failed", err,
				"category_group", term.group, "category_name", term.name)
		} else if ok {
			return cached, nil
		}
	}
	ids, err := q.links.GetLinks(ctx, term.group, term.name)
	if err != nil {
		return nil, err
	}
	if q.cache != nil {
		if err := q.cache.StoreCategoryLinks(ctx, term.group, term.name, ids); err != nil {
			q.logger.Error("category links cache store failed", err,
				"category_group", term.group, "category_name", term.name)
		}
	}
	return ids, nil
}
