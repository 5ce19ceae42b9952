package category

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_UpsertGetAll(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo, err := NewRepository(RepositoryConfig{DB: db, Clock: fixedClock{t: now}})
	require.NoError(t, err)

	created, err := repo.Upsert(ctx, types.Category{
		Group:     types.CategoryGroupSkill,
		Name:      "Go",
		LinkCount: 1,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.False(t, created.Visible)

	updated, err := repo.Upsert(ctx, types.Category{
		ID:        uuid.New(),
		Group:     types.CategoryGroupSkill,
		Name:      "go",
		LinkCount: 2,
		Visible:   true,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID, "rows match on case-folded name")
	require.Equal(t, 2, updated.LinkCount)

	fetched, err := repo.Get(ctx, types.CategoryGroupSkill, "GO")
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
	require.True(t, fetched.Visible)

	_, err = repo.Upsert(ctx, types.Category{Group: types.CategoryGroupGender, Name: "female"})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, types.CategoryGroupGender, all[0].Group)
	require.Equal(t, types.CategoryGroupSkill, all[1].Group)
}

func TestCategoryRepository_GetMissing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	_, err = repo.Get(ctx, types.CategoryGroupLanguage, "klingon")
	require.ErrorIs(t, err, types.ErrCategoryNotFound)

	_, err = repo.Get(ctx, types.CategoryGroupLanguage, " ")
	require.ErrorIs(t, err, types.ErrCategoryNameRequired)

	_, err = repo.Upsert(ctx, types.Category{Group: "colour", Name: "red"})
	require.ErrorIs(t, err, types.ErrCategoryGroupRequired)
}

func TestNewRepositoryRequiresBackend(t *testing.T) {
	_, err := NewRepository(RepositoryConfig{})
	require.Error(t, err)
	_, err = NewLinkIndex(LinkIndexConfig{})
	require.Error(t, err)
}
