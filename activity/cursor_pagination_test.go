package activity

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestListActivity_CursorWalksEveryRecordOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestActivityDB(t)
	applyActivityDDL(t, db)
	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	base := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	var logged []uuid.UUID
	for i := range 5 {
		id := uuid.New()
		logged = append(logged, id)
		require.NoError(t, store.Log(ctx, types.ActivityRecord{
			ID:         id,
			Topic:      types.TopicProfileUpdated,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	filter := types.ActivityFilter{Pagination: types.Pagination{Limit: 2}}
	var seen []uuid.UUID
	for pages := 0; pages < 5; pages++ {
		page, err := store.ListActivity(ctx, filter)
		require.NoError(t, err)
		for _, record := range page.Records {
			seen = append(seen, record.ID)
		}
		if !page.HasMore {
			require.Nil(t, page.NextCursor)
			break
		}
		require.NotNil(t, page.NextCursor)
		filter.After = page.NextCursor

		// a record logged between pages must not shift the window
		if pages == 0 {
			require.NoError(t, store.Log(ctx, types.ActivityRecord{
				Topic:      types.TopicProfileUpdated,
				OccurredAt: base.Add(time.Hour),
			}))
		}
	}

	require.Equal(t, []uuid.UUID{logged[4], logged[3], logged[2], logged[1], logged[0]}, seen)
}

func TestListActivity_CursorBreaksTiesWithID(t *testing.T) {
	ctx := context.Background()
	db := newTestActivityDB(t)
	applyActivityDDL(t, db)
	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	occurredAt := time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)
	idLow := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	idHigh := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	for _, id := range []uuid.UUID{idLow, idHigh} {
		require.NoError(t, store.Log(ctx, types.ActivityRecord{
			ID:         id,
			Topic:      types.TopicCategoryCreated,
			OccurredAt: occurredAt,
		}))
	}

	page, err := store.ListActivity(ctx, types.ActivityFilter{
		After:      &types.ActivityCursor{OccurredAt: occurredAt, ID: idHigh},
		Pagination: types.Pagination{Offset: 7},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.Equal(t, idLow, page.Records[0].ID)
	require.False(t, page.HasMore)

	page, err = store.ListActivity(ctx, types.ActivityFilter{
		After: &types.ActivityCursor{OccurredAt: occurredAt},
	})
	require.NoError(t, err)
	require.Empty(t, page.Records, "a cursor without an id skips the whole timestamp")
}
