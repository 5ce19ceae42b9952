package service

import (
	"context"

	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/changes"
	"github.com/goliatone/go-mentors/command"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/goliatone/go-mentors/query"
)

// Service is the entry point for go-mentors. It wires repositories, the
// cache coordinator, the notification sink and the command/query facades
// supplied by the host application.
type Service struct {
	cfg       Config
	processor *changes.Processor
	commands  Commands
	queries   Queries
}

// Commands exposes the service command handlers.
type Commands struct {
	ProfileUpdate       *command.ProfileUpdateCommand
	ProfileBan          *command.ProfileBanCommand
	AccountAuthenticate *command.AccountAuthenticateCommand
	CategoryReview      *command.CategoryReviewCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ProfileDetail    *query.ProfileDetailQuery
	ProfileExport    *query.ProfileExportQuery
	ProfileSearch    *query.ProfileSearchQuery
	PublicCategories *query.PublicCategoriesQuery
	ActivityFeed     *query.ActivityFeedQuery
}

// Config captures all dependencies so callers can provide their own
// instances (bun-backed stores, a redis-backed coordinator, a watermill sink).
type Config struct {
	ProfileRepository  types.ProfileRepository
	CategoryRepository types.CategoryRepository
	LinkIndex          types.CategoryLinkIndex
	AccountRepository  types.AccountRepository
	ActivityRepository types.ActivityRepository
	Cache              *cache.Coordinator
	Events             types.EventSink
	Clock              types.Clock
	IDGenerator        types.IDGenerator
	Logger             types.Logger
	MaxConcurrency     int
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)
	if norm.ActivityRepository == nil {
		if repo, ok := norm.Events.(types.ActivityRepository); ok {
			norm.ActivityRepository = repo
		}
	}
	s := &Service{cfg: norm}
	s.processor = changes.NewProcessor(changes.ProcessorConfig{
		Profiles:       norm.ProfileRepository,
		Categories:     norm.CategoryRepository,
		Links:          norm.LinkIndex,
		Cache:          norm.Cache,
		Events:         norm.Events,
		Clock:          norm.Clock,
		IDGenerator:    norm.IDGenerator,
		Logger:         norm.Logger,
		MaxConcurrency: norm.MaxConcurrency,
	})
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Events == nil {
		cfg.Events = types.NopEventSink{}
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemory()
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Processor exposes the change processor for callers that compute their own
// change sets.
func (s *Service) Processor() *changes.Processor {
	return s.processor
}

// Cache returns the coordinator shared by every command and query.
func (s *Service) Cache() *cache.Coordinator {
	if s == nil {
		return nil
	}
	return s.cfg.Cache
}

// Ready reports whether the required stores are wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.ProfileRepository != nil &&
		s.cfg.CategoryRepository != nil &&
		s.cfg.LinkIndex != nil &&
		s.cfg.AccountRepository != nil
}

// HealthCheck surfaces the first missing dependency. It also fails once ctx
// is done.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s == nil {
		return types.ErrServiceNotReady
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	switch {
	case s.cfg.ProfileRepository == nil:
		return types.ErrMissingProfileRepository
	case s.cfg.CategoryRepository == nil:
		return types.ErrMissingCategoryRepository
	case s.cfg.LinkIndex == nil:
		return types.ErrMissingLinkIndex
	case s.cfg.AccountRepository == nil:
		return types.ErrMissingAccountRepository
	}
	return nil
}

func (s *Service) buildCommands() Commands {
	profiles := command.ProfileCommandConfig{
		Repository: s.cfg.ProfileRepository,
		Cache:      s.cfg.Cache,
		Processor:  s.processor,
		Clock:      s.cfg.Clock,
		Logger:     s.cfg.Logger,
	}
	return Commands{
		ProfileUpdate: command.NewProfileUpdateCommand(profiles),
		ProfileBan:    command.NewProfileBanCommand(profiles),
		AccountAuthenticate: command.NewAccountAuthenticateCommand(command.AccountCommandConfig{
			Accounts: s.cfg.AccountRepository,
			Profiles: s.cfg.ProfileRepository,
			Cache:    s.cfg.Cache,
			Logger:   s.cfg.Logger,
		}),
		CategoryReview: command.NewCategoryReviewCommand(command.CategoryCommandConfig{
			Repository: s.cfg.CategoryRepository,
			Cache:      s.cfg.Cache,
			Logger:     s.cfg.Logger,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	profiles := query.ProfileQueryConfig{
		Repository: s.cfg.ProfileRepository,
		Cache:      s.cfg.Cache,
		Logger:     s.cfg.Logger,
	}
	return Queries{
		ProfileDetail: query.NewProfileDetailQuery(profiles),
		ProfileExport: query.NewProfileExportQuery(profiles),
		ProfileSearch: query.NewProfileSearchQuery(query.SearchQueryConfig{
			Profiles: s.cfg.ProfileRepository,
			Links:    s.cfg.LinkIndex,
			Cache:    s.cfg.Cache,
			Logger:   s.cfg.Logger,
		}),
		PublicCategories: query.NewPublicCategoriesQuery(s.processor),
		ActivityFeed:     query.NewActivityFeedQuery(s.cfg.ActivityRepository),
	}
}
