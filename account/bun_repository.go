package account

import (
	"context"
	"errors"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed account store.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type accountStore interface {
	repository.Repository[*Record]
}

// Repository implements types.AccountRepository.
type Repository struct {
	accountStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the account repository. WithCache wraps the
// record store with go-repository-cache.
func NewRepository(cfg RepositoryConfig, opts ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("account: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = newRecordRepository(cfg.DB)
	}

	options := applyRepositoryOptions(opts)
	if options.CacheEnabled {
		wrapped, err := withCache(repo, options.CacheConfig)
		if err != nil {
			return nil, err
		}
		repo = wrapped
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
		accountStore: repo,
		clock:        clock,
		idGen:        idGen,
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

func withCache(repo repository.Repository[*Record], cfg *cache.Config) (repository.Repository[*Record], error) {
	if _, ok := repo.(*repositorycache.CachedRepository[*Record]); ok {
		return repo, nil
	}
	cacheCfg := cache.DefaultConfig()
	if cfg != nil {
		cacheCfg = *cfg
	}
	cacheService, err := cache.NewCacheService(cacheCfg)
	if err != nil {
		return nil, err
	}
	return repositorycache.New(repo, cacheService, cache.NewDefaultKeySerializer()), nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.AccountRepository        = (*Repository)(nil)
)

// GetOrCreate resolves the account for an external identity, creating it and
// reserving a profile id when none exists. Losing an insert race to another
// writer is not an error; the winner's row is fetched and returned.
func (r *Repository) GetOrCreate(ctx context.Context, provider, username string) (*types.AccountResult, error) {
	provider = normalize(provider)
	username = normalize(username)
	if provider == "" {
		return nil, types.ErrProviderRequired
	}
	if username == "" {
		return nil, types.ErrUsernameRequired
	}

	existing, err := r.find(ctx, provider, username)
	switch {
	case err == nil:
		return &types.AccountResult{Account: codec.FromRecord(existing)}, nil
	case !repository.IsRecordNotFound(err):
		return nil, err
	}

	rec := codec.ToRecord(types.Account{
		ID:        r.idGen.UUID(),
		Provider:  provider,
		Username:  username,
		ProfileID: r.idGen.UUID(),
		CreatedAt: r.clock.Now(),
	})
	_, err = r.Create(ctx, rec)
	isNew := err == nil
	if err != nil && !repository.IsDuplicatedKey(err) {
		return nil, err
	}

	canonical, err := r.find(ctx, provider, username)
	if err != nil {
		return nil, err
	}
	return &types.AccountResult{Account: codec.FromRecord(canonical), IsNew: isNew}, nil
}

func (r *Repository) find(ctx context.Context, provider, username string) (*Record, error) {
	return r.Get(ctx,
		repository.SelectBy("provider", "=", provider),
		repository.SelectBy("username", "=", username),
	)
}
