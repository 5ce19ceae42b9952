package category

import (
	"context"
	"errors"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed category store.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type categoryStore interface {
	repository.Repository[*Record]
}

// Repository implements types.CategoryRepository.
type Repository struct {
	categoryStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default category repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("category: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = newRecordRepository(cfg.DB)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Repository{
		categoryStore: repo,
		clock:         clock,
		idGen:         idGen,
	}, nil
}

func newRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.NewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(rec *Record) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *Record, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
	})
}

var _ types.CategoryRepository = (*Repository)(nil)

// GetAll returns the whole catalogue ordered by group and name.
func (r *Repository) GetAll(ctx context.Context) ([]types.Category, error) {
	rows, _, err := r.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("category_group ASC, name_key ASC")
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, codec.FromRecord(row))
	}
	return out, nil
}

// Get returns the category matching group and name, ignoring name casing.
func (r *Repository) Get(ctx context.Context, group types.CategoryGroup, name string) (*types.Category, error) {
	if err := types.ValidateCategoryRef(group, name); err != nil {
		return nil, err
	}
	rec, err := r.findByKey(ctx, group, name)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, types.ErrCategoryNotFound
		}
		return nil, err
	}
	category := codec.FromRecord(rec)
	return &category, nil
}

// Upsert stores the category, matching existing rows by (group, name key).
// The stored id and creation time win over the supplied ones.
func (r *Repository) Upsert(ctx context.Context, category types.Category) (*types.Category, error) {
	if err := types.ValidateCategoryRef(category.Group, category.Name); err != nil {
		return nil, err
	}
	now := r.clock.Now()
	rec := codec.ToRecord(category)
	rec.UpdatedAt = now

	existing, err := r.findByKey(ctx, category.Group, category.Name)
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		updated, err := r.Update(ctx, rec)
		if err != nil {
			return nil, err
		}
		stored := codec.FromRecord(updated)
		return &stored, nil
	case repository.IsRecordNotFound(err):
		if rec.ID == uuid.Nil {
			rec.ID = r.idGen.UUID()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		created, err := r.Create(ctx, rec)
		if err != nil {
			return nil, err
		}
		stored := codec.FromRecord(created)
		return &stored, nil
	default:
		return nil, err
	}
}

func (r *Repository) findByKey(ctx context.Context, group types.CategoryGroup, name string) (*Record, error) {
	return r.categoryStore.Get(ctx,
		repository.SelectBy("category_group", "=", string(group)),
		repository.SelectBy("name_key", "=", types.NormalizeCategoryName(name)),
	)
}
