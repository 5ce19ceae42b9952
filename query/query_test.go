package query

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/changes"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestProfileDetailQuery_CacheAside(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProfiles()
	profile := repo.seed("Ada", types.ProfileStatusAvailable, "female", []string{"English"}, "Go")
	coordinator := cache.NewMemory()
	query := NewProfileDetailQuery(ProfileQueryConfig{Repository: repo, Cache: coordinator})

	view, err := query.Query(ctx, ProfileDetailInput{ProfileID: profile.ID})
	require.NoError(t, err)
	require.Equal(t, "Ada", view.Name)
	require.Equal(t, 1, repo.gets)

	_, err = query.Query(ctx, ProfileDetailInput{ProfileID: profile.ID})
	require.NoError(t, err)
	require.Equal(t, 1, repo.gets, "second read is served from cache")
}

func TestProfileDetailQuery_HidesInvisibleProfiles(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProfiles()
	hidden := repo.seed("Hidden", types.ProfileStatusHidden, "", nil, "")
	banned := repo.seed("Banned", types.ProfileStatusAvailable, "", nil, "")
	repo.items[banned.ID] = banned.WithBan(time.Now())
	query := NewProfileDetailQuery(ProfileQueryConfig{Repository: repo, Cache: cache.NewMemory()})

	for _, id := range []uuid.UUID{hidden.ID, banned.ID, uuid.New()} {
		_, err := query.Query(ctx, ProfileDetailInput{ProfileID: id})
		require.ErrorIs(t, err, types.ErrProfileNotFound)
		requireCategory(t, err, goerrors.CategoryNotFound)
	}

	_, err := query.Query(ctx, ProfileDetailInput{})
	requireCategory(t, err, goerrors.CategoryValidation)
}

func TestProfileExportQuery_IncludesPrivateFields(t *testing.T) {
	repo := newFakeProfiles()
	profile := repo.seed("Grace", types.ProfileStatusHidden, "", nil, "")
	stored := repo.items[profile.ID]
	stored.Email = "grace@example.com"
	repo.items[profile.ID] = stored

	export, err := NewProfileExportQuery(ProfileQueryConfig{Repository: repo}).
		Query(context.Background(), ProfileExportInput{ProfileID: profile.ID})
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", export.Email)
	require.Equal(t, "Grace", export.Name)
}

func TestPublicCategoriesQuery_FiltersVisible(t *testing.T) {
	loader := staticCatalogue{catalogue: changes.NewCatalogue([]types.Category{
		{ID: uuid.New(), Group: types.CategoryGroupSkill, Name: "Go", Visible: true},
		{ID: uuid.New(), Group: types.CategoryGroupSkill, Name: "Cobol"},
		{ID: uuid.New(), Group: types.CategoryGroupLanguage, Name: "English", Visible: true},
	})}
	query := NewPublicCategoriesQuery(loader)

	all, err := query.Query(context.Background(), PublicCategoriesInput{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	skills, err := query.Query(context.Background(), PublicCategoriesInput{Group: types.CategoryGroupSkill})
	require.NoError(t, err)
	require.Len(t, skills, 1)
	require.Equal(t, "Go", skills[0].Name)

	_, err = query.Query(context.Background(), PublicCategoriesInput{Group: "planet"})
	require.ErrorIs(t, err, types.ErrCategoryGroupRequired)
}

func TestProfileSearchQuery_IntersectsPartitions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProfiles()
	ada := repo.seed("Ada", types.ProfileStatusAvailable, "female", []string{"English"}, "Go")
	bob := repo.seed("Bob", types.ProfileStatusUnavailable, "male", []string{"English"}, "Go")
	cy := repo.seed("Cy", types.ProfileStatusAvailable, "female", []string{"French"}, "Go")
	repo.seed("Dee", types.ProfileStatusHidden, "female", []string{"English"}, "Go")

	links := fakeLinks{
		types.CategoryKey(types.CategoryGroupGender, "female"):    {ada.ID, cy.ID},
		types.CategoryKey(types.CategoryGroupLanguage, "english"): {ada.ID, bob.ID},
		types.CategoryKey(types.CategoryGroupSkill, "go"):         {ada.ID, bob.ID, cy.ID},
	}
	coordinator := cache.NewMemory()
	query := NewProfileSearchQuery(SearchQueryConfig{Profiles: repo, Links: links, Cache: coordinator})

	all, err := query.Query(ctx, ProfileSearchInput{})
	require.NoError(t, err)
	require.Equal(t, []string{"Ada", "Bob", "Cy"}, names(all))

	matched, err := query.Query(ctx, ProfileSearchInput{Gender: "Female", Languages: []string{"English"}})
	require.NoError(t, err)
	require.Equal(t, []string{"Ada"}, names(matched))

	matched, err = query.Query(ctx, ProfileSearchInput{Skills: []string{"GO", " "}})
	require.NoError(t, err)
	require.Equal(t, []string{"Ada", "Bob", "Cy"}, names(matched))

	cached, ok, err := coordinator.GetProfileResults(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, cached, 3, "filtering never mutates the cached result set")
	require.Equal(t, 1, repo.lists)

	ids, ok, err := coordinator.GetCategoryLinks(ctx, types.CategoryGroupGender, "female")
	require.NoError(t, err)
	require.True(t, ok)
	require.ElementsMatch(t, []uuid.UUID{ada.ID, cy.ID}, ids)
}

func TestActivityFeedQuery(t *testing.T) {
	repo := &fakeActivity{page: types.ActivityPage{Total: 1, Records: []types.ActivityRecord{{Topic: types.TopicCategoryCreated}}}}
	page, err := NewActivityFeedQuery(repo).Query(context.Background(), types.ActivityFilter{Topics: []string{types.TopicCategoryCreated}})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, []string{types.TopicCategoryCreated}, repo.filter.Topics)

	cursor := &types.ActivityCursor{OccurredAt: time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC), ID: uuid.New()}
	_, err = NewActivityFeedQuery(repo).Query(context.Background(), types.ActivityFilter{After: cursor})
	require.NoError(t, err)
	require.Equal(t, cursor, repo.filter.After)

	_, err = NewActivityFeedQuery(nil).Query(context.Background(), types.ActivityFilter{})
	require.ErrorIs(t, err, types.ErrServiceNotReady)
}

func requireCategory(t *testing.T, err error, category goerrors.Category) {
	t.Helper()
	require.Error(t, err)
	var richErr *goerrors.Error
	require.True(t, errors.As(err, &richErr))
	require.Equal(t, category, richErr.Category)
}

func names(results []types.ProfileResult) []string {
	out := make([]string, 0, len(results))
	for _, result := range results {
		out = append(out, result.Name)
	}
	return out
}

type staticCatalogue struct {
	catalogue *changes.Catalogue
}

func (s staticCatalogue) LoadCatalogue(context.Context) (*changes.Catalogue, error) {
	return s.catalogue, nil
}

type fakeProfiles struct {
	items map[uuid.UUID]types.Profile
	gets  int
	lists int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{items: map[uuid.UUID]types.Profile{}}
}

func (f *fakeProfiles) seed(name string, status types.ProfileStatus, gender string, languages []string, skill string) types.Profile {
	profile := types.Profile{ID: uuid.New()}
	profile.Name = name
	profile.Status = status
	profile.Gender = gender
	profile.Languages = languages
	if skill != "" {
		profile.Skills = []types.Skill{{Name: skill}}
	}
	f.items[profile.ID] = profile
	return profile
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*types.Profile, error) {
	f.gets++
	profile, ok := f.items[id]
	if !ok {
		return nil, types.ErrProfileNotFound
	}
	clone := profile.Clone()
	return &clone, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, profile types.Profile) (*types.Profile, error) {
	f.items[profile.ID] = profile.Clone()
	return &profile, nil
}

func (f *fakeProfiles) Ban(context.Context, uuid.UUID, time.Time) (*types.Profile, error) {
	return nil, nil
}

func (f *fakeProfiles) ListVisible(context.Context) ([]types.Profile, error) {
	f.lists++
	var out []types.Profile
	for _, profile := range f.items {
		if profile.Visible() {
			out = append(out, profile.Clone())
		}
	}
	return out, nil
}

type fakeLinks map[string][]uuid.UUID

func (f fakeLinks) GetLinks(_ context.Context, group types.CategoryGroup, name string) ([]uuid.UUID, error) {
	return append([]uuid.UUID{}, f[types.CategoryKey(group, name)]...), nil
}

func (f fakeLinks) StoreLinkChanges(context.Context, types.CategoryGroup, string, []types.CategoryLinkChange) error {
	return nil
}

type fakeActivity struct {
	page   types.ActivityPage
	filter types.ActivityFilter
}

func (f *fakeActivity) ListActivity(_ context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	f.filter = filter
	return f.page, nil
}
