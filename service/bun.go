package service

import (
	"errors"

	"github.com/goliatone/go-mentors/account"
	"github.com/goliatone/go-mentors/activity"
	"github.com/goliatone/go-mentors/category"
	"github.com/goliatone/go-mentors/profile"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/uptrace/bun"
)

// BunOptions tunes the stores built by NewBunConfig.
type BunOptions struct {
	Clock  types.Clock
	IDGen  types.IDGenerator
	Logger types.Logger
	// CacheAccounts wraps the account store in go-repository-cache.
	CacheAccounts bool
	// RecordActivity keeps an audit entry for every notification.
	RecordActivity bool
}

// NewBunConfig builds the bun-backed stores on db. The caller still sets
// Cache and Events; when RecordActivity is on, the activity repository is
// returned so it can be fanned out next to the bus sink.
func NewBunConfig(db *bun.DB, opts BunOptions) (Config, *activity.Repository, error) {
	if db == nil {
		return Config{}, nil, errors.New("go-mentors: bun db required")
	}
	profiles, err := profile.NewRepository(profile.RepositoryConfig{DB: db, Clock: opts.Clock})
	if err != nil {
		return Config{}, nil, err
	}
	categories, err := category.NewRepository(category.RepositoryConfig{DB: db, Clock: opts.Clock, IDGen: opts.IDGen})
	if err != nil {
		return Config{}, nil, err
	}
	links, err := category.NewLinkIndex(category.LinkIndexConfig{DB: db, Clock: opts.Clock, Logger: opts.Logger})
	if err != nil {
		return Config{}, nil, err
	}
	accounts, err := account.NewRepository(
		account.RepositoryConfig{DB: db, Clock: opts.Clock, IDGen: opts.IDGen},
		account.WithCache(opts.CacheAccounts),
	)
	if err != nil {
		return Config{}, nil, err
	}

	cfg := Config{
		ProfileRepository:  profiles,
		CategoryRepository: categories,
		LinkIndex:          links,
		AccountRepository:  accounts,
		Clock:              opts.Clock,
		IDGenerator:        opts.IDGen,
		Logger:             opts.Logger,
	}
	if !opts.RecordActivity {
		return cfg, nil, nil
	}
	activities, err := activity.NewRepository(activity.RepositoryConfig{DB: db, Clock: opts.Clock, IDGen: opts.IDGen})
	if err != nil {
		return Config{}, nil, err
	}
	cfg.ActivityRepository = activities
	return cfg, activities, nil
}
