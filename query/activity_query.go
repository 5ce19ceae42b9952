package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-mentors/pkg/types"
)

// ActivityFeedQuery pages through the notification audit trail.
type ActivityFeedQuery struct {
	repo types.ActivityRepository
}

// NewActivityFeedQuery constructs the feed query.
func NewActivityFeedQuery(repo types.ActivityRepository) *ActivityFeedQuery {
	return &ActivityFeedQuery{repo: repo}
}

var _ gocommand.Querier[types.ActivityFilter, types.ActivityPage] = (*ActivityFeedQuery)(nil)

func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.ActivityFilter) (types.ActivityPage, error) {
	if q.repo == nil {
		return types.ActivityPage{}, queryError(types.ErrServiceNotReady, "go-mentors: activity feed unavailable")
	}
	page, err := q.repo.ListActivity(ctx, filter)
	if err != nil {
		return types.ActivityPage{}, queryError(err, "go-mentors: activity feed failed")
	}
	return page, nil
}
