// Package config loads the mentor sync configuration from YAML and the
// environment.
//
// Source priority:
//  1. explicit path passed to Load/MustLoad;
//  2. CONFIG_PATH;
//  3. ./local.yaml in the working directory;
//  4. environment variables only.
package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/pkg/types"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Events   EventsConfig   `yaml:"events"`
	Workers  WorkersConfig  `yaml:"workers"`
}

// DatabaseConfig selects the SQL driver and DSN.
type DatabaseConfig struct {
	Driver         string        `yaml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite3"`
	DSN            string        `yaml:"dsn" env:"DATABASE_DSN" env-default:"file:mentors.db?cache=shared"`
	PingTimeout    time.Duration `yaml:"ping_timeout" env:"DATABASE_PING_TIMEOUT" env-default:"5s"`
	Debug          bool          `yaml:"debug" env:"DATABASE_DEBUG"`
	OtelIdentifier string        `yaml:"otel_identifier" env:"DATABASE_OTEL_IDENTIFIER"`
}

var _ persistence.Config = DatabaseConfig{}

func (c DatabaseConfig) GetDebug() bool                { return c.Debug }
func (c DatabaseConfig) GetDriver() string             { return c.Driver }
func (c DatabaseConfig) GetServer() string             { return c.DSN }
func (c DatabaseConfig) GetPingTimeout() time.Duration { return c.PingTimeout }
func (c DatabaseConfig) GetOtelIdentifier() string     { return c.OtelIdentifier }

// CacheConfig mirrors cache.Config in loadable form.
type CacheConfig struct {
	Backend            string    `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	RedisURL           string    `yaml:"redis_url" env:"CACHE_REDIS_URL"`
	KeyPrefix          string    `yaml:"key_prefix" env:"CACHE_KEY_PREFIX" env-default:"mentors"`
	Capacity           int       `yaml:"capacity" env:"CACHE_CAPACITY" env-default:"10000"`
	NumShards          int       `yaml:"num_shards" env:"CACHE_NUM_SHARDS" env-default:"10"`
	EvictionPercentage int       `yaml:"eviction_percentage" env:"CACHE_EVICTION_PERCENTAGE" env-default:"10"`
	TTL                TTLConfig `yaml:"ttl"`
}

// TTLConfig holds the sliding expirations per entity class.
type TTLConfig struct {
	Account        time.Duration `yaml:"account" env:"CACHE_TTL_ACCOUNT" env-default:"5m"`
	Category       time.Duration `yaml:"category" env:"CACHE_TTL_CATEGORY" env-default:"30m"`
	CategoryLinks  time.Duration `yaml:"category_links" env:"CACHE_TTL_CATEGORY_LINKS" env-default:"10m"`
	Profile        time.Duration `yaml:"profile" env:"CACHE_TTL_PROFILE" env-default:"15m"`
	ProfileResults time.Duration `yaml:"profile_results" env:"CACHE_TTL_PROFILE_RESULTS" env-default:"5m"`
}

// EventsConfig names the transport topics for notifications.
type EventsConfig struct {
	CategoryCreatedTopic string `yaml:"category_created_topic" env:"EVENTS_CATEGORY_CREATED_TOPIC" env-default:"mentors.category.created"`
	ProfileUpdatedTopic  string `yaml:"profile_updated_topic" env:"EVENTS_PROFILE_UPDATED_TOPIC" env-default:"mentors.profile.updated"`
	BufferSize           int64  `yaml:"buffer_size" env:"EVENTS_BUFFER_SIZE" env-default:"64"`
	RecordActivity       bool   `yaml:"record_activity" env:"EVENTS_RECORD_ACTIVITY" env-default:"true"`
}

// WorkersConfig bounds concurrent category batch writes.
type WorkersConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" env:"WORKERS_MAX_CONCURRENCY" env-default:"4"`
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.Required, validation.In("local", "dev", "prod")),
	); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return c.Workers.Validate()
}

// Validate validates the database section.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In("sqlite3")),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.PingTimeout, validation.Min(time.Duration(0))),
	)
}

// Validate validates the cache section.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(cache.BackendMemory, cache.BackendRedis)),
		validation.Field(&c.RedisURL, validation.When(c.Backend == cache.BackendRedis, validation.Required)),
		validation.Field(&c.KeyPrefix, validation.Required),
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.EvictionPercentage, validation.Min(0), validation.Max(100)),
		validation.Field(&c.TTL),
	)
}

// Validate validates the ttl section.
func (c TTLConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Account, validation.Required),
		validation.Field(&c.Category, validation.Required),
		validation.Field(&c.CategoryLinks, validation.Required),
		validation.Field(&c.Profile, validation.Required),
		validation.Field(&c.ProfileResults, validation.Required),
	)
}

// Validate validates the events section.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CategoryCreatedTopic, validation.Required),
		validation.Field(&c.ProfileUpdatedTopic, validation.Required),
		validation.Field(&c.BufferSize, validation.Min(int64(0))),
	)
}

// Validate validates the workers section.
func (c *WorkersConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxConcurrency, validation.Required, validation.Min(1)),
	)
}

// CacheCoordinatorConfig converts the cache section into cache.Config. The
// redis client is left for the caller to attach.
func (c CacheConfig) CacheCoordinatorConfig(logger types.Logger) cache.Config {
	return cache.Config{
		Backend:            c.Backend,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		KeyPrefix:          c.KeyPrefix,
		Logger:             logger,
		TTL: cache.TTLConfig{
			Account:        c.TTL.Account,
			Category:       c.TTL.Category,
			CategoryLinks:  c.TTL.CategoryLinks,
			Profile:        c.TTL.Profile,
			ProfileResults: c.TTL.ProfileResults,
		},
	}
}

// TopicMap maps logical notification topics to the configured transport
// topics.
func (c EventsConfig) TopicMap() map[string]string {
	return map[string]string{
		types.TopicCategoryCreated: c.CategoryCreatedTopic,
		types.TopicProfileUpdated:  c.ProfileUpdatedTopic,
	}
}

// MustLoad wraps Load and panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration following the source priority.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat("local.yaml"); err == nil {
			path = "local.yaml"
		}
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
