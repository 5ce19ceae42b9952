package category

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LinkIndexConfig wires the Bun-backed category link index. Repository
// overrides the default link store built on DB.
type LinkIndexConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LinkRecord]
	Clock      types.Clock
	Logger     types.Logger
}

// LinkIndex implements types.CategoryLinkIndex on the category_links table.
// Each (group, name key) pair is one partition.
type LinkIndex struct {
	db     *bun.DB
	links  repository.Repository[*LinkRecord]
	clock  types.Clock
	logger types.Logger
}

// NewLinkIndex constructs the link index.
func NewLinkIndex(cfg LinkIndexConfig) (*LinkIndex, error) {
	if cfg.DB == nil {
		return nil, errors.New("category: link index requires db")
	}
	links := cfg.Repository
	if links == nil {
		links = newLinkRepository(cfg.DB)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &LinkIndex{db: cfg.DB, links: links, clock: clock, logger: logger}, nil
}

func newLinkRepository(db *bun.DB) repository.Repository[*LinkRecord] {
	return repository.NewRepository(db, repository.ModelHandlers[*LinkRecord]{
		NewRecord: func() *LinkRecord { return &LinkRecord{} },
		GetID: func(*LinkRecord) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(*LinkRecord, uuid.UUID) {},
	})
}

var _ types.CategoryLinkIndex = (*LinkIndex)(nil)

// GetLinks returns the profiles linked to the category. A partition that has
// never been written reads as empty.
func (l *LinkIndex) GetLinks(ctx context.Context, group types.CategoryGroup, name string) ([]uuid.UUID, error) {
	if err := types.ValidateCategoryRef(group, name); err != nil {
		return nil, err
	}
	rows, _, err := l.links.List(ctx,
		repository.SelectBy("category_group", "=", string(group)),
		repository.SelectBy("name_key", "=", types.NormalizeCategoryName(name)),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("profile_id ASC")
		},
	)
	if err != nil {
		if isMissingTable(err) {
			return []uuid.UUID{}, nil
		}
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProfileID)
	}
	return ids, nil
}

// StoreLinkChanges applies removes then adds for one partition. Removing a
// missing link and re-adding a present one are both no-ops. An add that hits
// an unprovisioned table provisions it and retries once.
func (l *LinkIndex) StoreLinkChanges(ctx context.Context, group types.CategoryGroup, name string, changes []types.CategoryLinkChange) error {
	if changes == nil {
		return types.ErrLinkChangesRequired
	}
	if err := types.ValidateCategoryRef(group, name); err != nil {
		return err
	}
	key := types.NormalizeCategoryName(name)

	var adds []*LinkRecord
	var removes []uuid.UUID
	for _, change := range changes {
		if change.ProfileID == uuid.Nil {
			return types.ErrProfileIDRequired
		}
		switch change.Type {
		case types.ChangeTypeRemove:
			removes = append(removes, change.ProfileID)
		case types.ChangeTypeAdd:
			adds = append(adds, &LinkRecord{
				Group:     string(group),
				NameKey:   key,
				ProfileID: change.ProfileID,
				CreatedAt: l.clock.Now(),
			})
		default:
			return errors.New("category: unknown link change type " + string(change.Type))
		}
	}

	for _, profileID := range removes {
		if err := l.remove(ctx, group, key, profileID); err != nil {
			return err
		}
	}
	for _, rec := range adds {
		if err := l.add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (l *LinkIndex) remove(ctx context.Context, group types.CategoryGroup, key string, profileID uuid.UUID) error {
	err := l.links.DeleteWhere(ctx,
		func(q *bun.DeleteQuery) *bun.DeleteQuery {
			return q.Where("category_group = ? AND name_key = ? AND profile_id = ?",
				string(group), key, profileID)
		},
	)
	if err == nil || isMissingTable(err) || repository.IsRecordNotFound(err) {
		return nil
	}
	return err
}

func (l *LinkIndex) add(ctx context.Context, rec *LinkRecord) error {
	err := l.insert(ctx, rec)
	if err == nil || !isMissingTable(err) {
		return err
	}
	l.logger.Info("provisioning category link index",
		"category_group", rec.Group,
		"category_name", rec.NameKey,
	)
	if err := l.Provision(ctx); err != nil {
		return err
	}
	return l.insert(ctx, rec)
}

func (l *LinkIndex) insert(ctx context.Context, rec *LinkRecord) error {
	if _, err := l.links.Create(ctx, rec); err != nil {
		if repository.IsDuplicatedKey(err) {
			return nil
		}
		return err
	}
	return nil
}

// Provision creates the link table when it does not exist yet.
func (l *LinkIndex) Provision(ctx context.Context) error {
	_, err := l.db.NewCreateTable().
		Model((*LinkRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// isMissingTable reports the sqlite and postgres "table does not exist"
// errors. The repository predicates do not classify them.
func isMissingTable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") ||
		(strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"))
}
