package profile

import (
	"context"
	"errors"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed profile repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
}

// Repository implements types.ProfileRepository using Bun.
type Repository struct {
	records repository.Repository[*Record]
	clock   types.Clock
}

// NewRepository constructs the default profile repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("profile: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Record]{
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

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}

	return &Repository{
		records: repo,
		clock:   clock,
	}, nil
}

var _ types.ProfileRepository = (*Repository)(nil)

// GetByID returns the stored profile or types.ErrProfileNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	if id == uuid.Nil {
		return nil, types.ErrProfileIDRequired
	}
	rec, err := r.records.Get(ctx, selectID(id))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, err
	}
	profile := codec.FromRecord(rec)
	return &profile, nil
}

// Upsert inserts or replaces the profile keyed by id.
func (r *Repository) Upsert(ctx context.Context, profile types.Profile) (*types.Profile, error) {
	if profile.ID == uuid.Nil {
		return nil, types.ErrProfileIDRequired
	}
	now := r.clock.Now()
	rec := codec.ToRecord(profile)
	rec.UpdatedAt = now

	existing, err := r.records.Get(ctx, selectID(profile.ID))
	switch {
	case err == nil:
		rec.CreatedAt = existing.CreatedAt
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if existing.BannedAt != nil {
			// bans are terminal
			rec.BannedAt = existing.BannedAt
		}
		updated, err := r.records.Update(ctx, rec)
		if err != nil {
			return nil, err
		}
		stored := codec.FromRecord(updated)
		return &stored, nil
	case repository.IsRecordNotFound(err):
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		created, err := r.records.Create(ctx, rec)
		if err != nil {
			return nil, err
		}
		stored := codec.FromRecord(created)
		return &stored, nil
	default:
		return nil, err
	}
}

// Ban stamps banned_at on the profile. A missing or already banned profile
// yields nil without an error.
func (r *Repository) Ban(ctx context.Context, id uuid.UUID, when time.Time) (*types.Profile, error) {
	if id == uuid.Nil {
		return nil, types.ErrProfileIDRequired
	}
	rec, err := r.records.Get(ctx, selectID(id))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if rec.BannedAt != nil {
		return nil, nil
	}
	ts := when.UTC()
	rec.BannedAt = &ts
	rec.UpdatedAt = r.clock.Now()
	updated, err := r.records.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	profile := codec.FromRecord(updated)
	return &profile, nil
}

// ListVisible returns unbanned, non-hidden profiles ordered by name then id.
func (r *Repository) ListVisible(ctx context.Context) ([]types.Profile, error) {
	rows, _, err := r.records.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("status <> ?", string(types.ProfileStatusHidden)).
			Where("banned_at IS NULL").
			OrderExpr("name ASC, id ASC")
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, codec.FromRecord(row))
	}
	return out, nil
}

func selectID(id uuid.UUID) repository.SelectCriteria {
	return repository.SelectBy("id", "=", id.String())
}
