package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Class names an entity class held by the coordinator.
type Class string

const (
	ClassAccount        Class = "account"
	ClassCategory       Class = "category"
	ClassAllCategories  Class = "all_categories"
	ClassCategoryLinks  Class = "category_links"
	ClassProfile        Class = "profile"
	ClassProfileResults Class = "profile_results"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// TTLConfig holds the sliding expiration for each entity class. The
// all-categories entry shares the category TTL.
type TTLConfig struct {
	Account        time.Duration
	Category       time.Duration
	CategoryLinks  time.Duration
	Profile        time.Duration
	ProfileResults time.Duration
}

// Config wires the coordinator backends.
type Config struct {
	Backend            string
	Capacity           int
	NumShards          int
	EvictionPercentage int
	TTL                TTLConfig
	Redis              redis.Cmdable
	KeyPrefix          string
	Logger             types.Logger
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendMemory,
		Capacity:           10000,
		NumShards:          10,
		EvictionPercentage: 10,
		KeyPrefix:          "mentors",
		TTL: TTLConfig{
			Account:        5 * time.Minute,
			Category:       30 * time.Minute,
			CategoryLinks:  10 * time.Minute,
			Profile:        15 * time.Minute,
			ProfileResults: 5 * time.Minute,
		},
	}
}

var (
	// ErrInvalidConfig is returned when the coordinator configuration is unusable.
	ErrInvalidConfig = errors.New("cache: invalid configuration")
)

// Coordinator is the cache-aside layer for accounts, categories, category
// links, profiles and the public search result set. Mutations are expected
// to follow the matching durable write.
type Coordinator struct {
	prefix        string
	logger        types.Logger
	accounts      Backend[types.Account]
	categories    Backend[types.Category]
	allCategories Backend[[]types.Category]
	links         Backend[[]uuid.UUID]
	profiles      Backend[types.Profile]
	results       Backend[[]types.ProfileResult]
}

// New builds a coordinator from cfg.
func New(cfg Config) (*Coordinator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	c := &Coordinator{
		prefix: strings.TrimSuffix(cfg.KeyPrefix, ":"),
		logger: logger,
	}
	c.accounts = newBackend[types.Account](cfg, cfg.TTL.Account)
	c.categories = newBackend[types.Category](cfg, cfg.TTL.Category)
	c.allCategories = newBackend[[]types.Category](cfg, cfg.TTL.Category)
	c.links = newBackend[[]uuid.UUID](cfg, cfg.TTL.CategoryLinks)
	c.profiles = newBackend[types.Profile](cfg, cfg.TTL.Profile)
	c.results = newBackend[[]types.ProfileResult](cfg, cfg.TTL.ProfileResults)
	return c, nil
}

// NewMemory returns a coordinator using DefaultConfig.
func NewMemory() *Coordinator {
	c, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return c
}

func newBackend[T any](cfg Config, ttl time.Duration) Backend[T] {
	if cfg.Backend == BackendRedis {
		return newRedisBackend[T](cfg.Redis, ttl)
	}
	return newMemoryBackend[T](cfg, ttl)
}

func validateConfig(cfg Config) error {
	switch cfg.Backend {
	case BackendMemory, "":
		if cfg.Capacity <= 0 || cfg.NumShards <= 0 || cfg.NumShards > cfg.Capacity {
			return fmt.Errorf("%w: capacity %d with %d shards", ErrInvalidConfig, cfg.Capacity, cfg.NumShards)
		}
		if cfg.EvictionPercentage < 0 || cfg.EvictionPercentage > 100 {
			return fmt.Errorf("%w: eviction percentage %d", ErrInvalidConfig, cfg.EvictionPercentage)
		}
	case BackendRedis:
		if cfg.Redis == nil {
			return fmt.Errorf("%w: redis backend requires a client", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}
	ttls := []time.Duration{cfg.TTL.Account, cfg.TTL.Category, cfg.TTL.CategoryLinks, cfg.TTL.Profile, cfg.TTL.ProfileResults}
	for _, ttl := range ttls {
		if ttl <= 0 {
			return fmt.Errorf("%w: ttl must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

func (c *Coordinator) key(class Class, parts ...string) string {
	var b strings.Builder
	if c.prefix != "" {
		b.WriteString(c.prefix)
		b.WriteByte(':')
	}
	b.WriteString(string(class))
	for _, part := range parts {
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}

func (c *Coordinator) accountKey(provider, username string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	username = strings.ToLower(strings.TrimSpace(username))
	if provider == "" {
		return "", types.ErrProviderRequired
	}
	if username == "" {
		return "", types.ErrUsernameRequired
	}
	return c.key(ClassAccount, provider, username), nil
}

func (c *Coordinator) categoryKey(class Class, group types.CategoryGroup, name string) (string, error) {
	if err := types.ValidateCategoryRef(group, name); err != nil {
		return "", err
	}
	return c.key(class, string(group), types.NormalizeCategoryName(name)), nil
}

func (c *Coordinator) profileKey(id uuid.UUID) (string, error) {
	if id == uuid.Nil {
		return "", types.ErrProfileIDRequired
	}
	return c.key(ClassProfile, id.String()), nil
}

// GetAccount returns the cached account for an external identity.
func (c *Coordinator) GetAccount(ctx context.Context, provider, username string) (types.Account, bool, error) {
	key, err := c.accountKey(provider, username)
	if err != nil {
		return types.Account{}, false, err
	}
	return read(ctx, c, ClassAccount, key, c.accounts.Get)
}

// StoreAccount caches the account under its identity.
func (c *Coordinator) StoreAccount(ctx context.Context, account types.Account) error {
	key, err := c.accountKey(account.Provider, account.Username)
	if err != nil {
		return err
	}
	return c.accounts.Set(ctx, key, account)
}

// RemoveAccount evicts the cached account.
func (c *Coordinator) RemoveAccount(ctx context.Context, provider, username string) error {
	key, err := c.accountKey(provider, username)
	if err != nil {
		return err
	}
	return c.remove(ctx, ClassAccount, key, c.accounts.Delete)
}

// GetCategory returns the cached category-by-key entry.
func (c *Coordinator) GetCategory(ctx context.Context, group types.CategoryGroup, name string) (types.Category, bool, error) {
	key, err := c.categoryKey(ClassCategory, group, name)
	if err != nil {
		return types.Category{}, false, err
	}
	return read(ctx, c, ClassCategory, key, c.categories.Get)
}

// StoreCategory caches a single category.
func (c *Coordinator) StoreCategory(ctx context.Context, category types.Category) error {
	key, err := c.categoryKey(ClassCategory, category.Group, category.Name)
	if err != nil {
		return err
	}
	return c.categories.Set(ctx, key, category)
}

// RemoveCategory evicts the category-by-key entry.
func (c *Coordinator) RemoveCategory(ctx context.Context, group types.CategoryGroup, name string) error {
	key, err := c.categoryKey(ClassCategory, group, name)
	if err != nil {
		return err
	}
	return c.remove(ctx, ClassCategory, key, c.categories.Delete)
}

// GetCategories returns the cached catalogue.
func (c *Coordinator) GetCategories(ctx context.Context) ([]types.Category, bool, error) {
	values, ok, err := read(ctx, c, ClassAllCategories, c.key(ClassAllCategories), c.allCategories.Get)
	if !ok || err != nil {
		return nil, ok, err
	}
	return append([]types.Category(nil), values...), true, nil
}

// StoreCategories caches the full catalogue.
func (c *Coordinator) StoreCategories(ctx context.Context, categories []types.Category) error {
	if categories == nil {
		categories = []types.Category{}
	}
	return c.allCategories.Set(ctx, c.key(ClassAllCategories), append([]types.Category(nil), categories...))
}

// RemoveCategories evicts the catalogue-wide entry.
func (c *Coordinator) RemoveCategories(ctx context.Context) error {
	return c.remove(ctx, ClassAllCategories, c.key(ClassAllCategories), c.allCategories.Delete)
}

// GetCategoryLinks returns the cached link partition for a category filter.
func (c *Coordinator) GetCategoryLinks(ctx context.Context, group types.CategoryGroup, name string) ([]uuid.UUID, bool, error) {
	key, err := c.categoryKey(ClassCategoryLinks, group, name)
	if err != nil {
		return nil, false, err
	}
	ids, ok, err := read(ctx, c, ClassCategoryLinks, key, c.links.Get)
	if !ok || err != nil {
		return nil, ok, err
	}
	return append([]uuid.UUID(nil), ids...), true, nil
}

// StoreCategoryLinks caches the profile ids linked to a category filter.
func (c *Coordinator) StoreCategoryLinks(ctx context.Context, group types.CategoryGroup, name string, ids []uuid.UUID) error {
	key, err := c.categoryKey(ClassCategoryLinks, group, name)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return c.links.Set(ctx, key, append([]uuid.UUID(nil), ids...))
}

// RemoveCategoryLinks evicts the cached link partition for a category filter.
func (c *Coordinator) RemoveCategoryLinks(ctx context.Context, group types.CategoryGroup, name string) error {
	key, err := c.categoryKey(ClassCategoryLinks, group, name)
	if err != nil {
		return err
	}
	return c.remove(ctx, ClassCategoryLinks, key, c.links.Delete)
}

// GetProfile returns the cached profile-by-id entry.
func (c *Coordinator) GetProfile(ctx context.Context, id uuid.UUID) (types.Profile, bool, error) {
	key, err := c.profileKey(id)
	if err != nil {
		return types.Profile{}, false, err
	}
	profile, ok, err := read(ctx, c, ClassProfile, key, c.profiles.Get)
	if !ok || err != nil {
		return types.Profile{}, ok, err
	}
	return profile.Clone(), true, nil
}

// StoreProfile caches a profile by id.
func (c *Coordinator) StoreProfile(ctx context.Context, profile types.Profile) error {
	key, err := c.profileKey(profile.ID)
	if err != nil {
		return err
	}
	return c.profiles.Set(ctx, key, profile.Clone())
}

// RemoveProfile evicts the profile-by-id entry.
func (c *Coordinator) RemoveProfile(ctx context.Context, id uuid.UUID) error {
	key, err := c.profileKey(id)
	if err != nil {
		return err
	}
	return c.remove(ctx, ClassProfile, key, c.profiles.Delete)
}

// GetProfileResults returns the cached public search result set.
func (c *Coordinator) GetProfileResults(ctx context.Context) ([]types.ProfileResult, bool, error) {
	results, ok, err := read(ctx, c, ClassProfileResults, c.key(ClassProfileResults), c.results.Get)
	if !ok || err != nil {
		return nil, ok, err
	}
	return append([]types.ProfileResult(nil), results...), true, nil
}

// StoreProfileResults caches the public search result set.
func (c *Coordinator) StoreProfileResults(ctx context.Context, results []types.ProfileResult) error {
	if results == nil {
		results = []types.ProfileResult{}
	}
	return c.results.Set(ctx, c.key(ClassProfileResults), append([]types.ProfileResult(nil), results...))
}

// RemoveProfileResults evicts the public search result set.
func (c *Coordinator) RemoveProfileResults(ctx context.Context) error {
	return c.remove(ctx, ClassProfileResults, c.key(ClassProfileResults), c.results.Delete)
}

func read[T any](ctx context.Context, c *Coordinator, class Class, key string, get func(context.Context, string) (T, bool, error)) (T, bool, error) {
	value, ok, err := get(ctx, key)
	if err != nil {
		c.logger.Error("cache read failed", err, "cache_class", class, "key", key)
		var zero T
		return zero, false, err
	}
	if ok {
		c.logger.Debug("cache hit", "cache_class", class, "key", key)
	}
	return value, ok, nil
}

func (c *Coordinator) remove(ctx context.Context, class Class, key string, del func(context.Context, string) error) error {
	if err := del(ctx, key); err != nil {
		c.logger.Error("cache eviction failed", err, "cache_class", class, "key", key)
		return err
	}
	c.logger.Debug("cache evicted", "cache_class", class, "key", key)
	return nil
}
