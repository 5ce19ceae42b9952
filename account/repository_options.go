package account

import "github.com/goliatone/go-repository-cache/cache"

// RepositoryOption configures account repository construction.
type RepositoryOption func(*RepositoryOptions)

// RepositoryOptions captures optional behavior for account persistence.
type RepositoryOptions struct {
	CacheEnabled bool
	CacheConfig  *cache.Config
}

// WithCache wraps the record store in the go-repository-cache decorator so
// repeated identity lookups skip the database.
func WithCache(enabled bool) RepositoryOption {
	return func(opts *RepositoryOptions) {
		if opts == nil {
			return
		}
		opts.CacheEnabled = enabled
	}
}

// WithCacheConfig overrides the decorator cache settings. It implies
// WithCache(true).
func WithCacheConfig(cfg cache.Config) RepositoryOption {
	return func(opts *RepositoryOptions) {
		if opts == nil {
			return
		}
		opts.CacheEnabled = true
		opts.CacheConfig = &cfg
	}
}

func applyRepositoryOptions(options []RepositoryOption) RepositoryOptions {
	var opts RepositoryOptions
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	return opts
}
