package changes

import (
	"context"
	"slices"
	"time"

	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrency = 4

// ProcessorConfig wires the stores, cache and event sink the processor
// writes through.
type ProcessorConfig struct {
	Profiles       types.ProfileRepository
	Categories     types.CategoryRepository
	Links          types.CategoryLinkIndex
	Cache          *cache.Coordinator
	Events         types.EventSink
	Clock          types.Clock
	IDGenerator    types.IDGenerator
	Logger         types.Logger
	MaxConcurrency int
}

// Processor applies a ChangeSet to the category catalogue, the link index,
// the profile store and the cached read models.
type Processor struct {
	profiles   types.ProfileRepository
	categories types.CategoryRepository
	links      types.CategoryLinkIndex
	cache      *cache.Coordinator
	events     types.EventSink
	clock      types.Clock
	ids        types.IDGenerator
	logger     types.Logger
	limit      int
}

// NewProcessor constructs a processor. Missing optional collaborators fall
// back to no-op or system defaults.
func NewProcessor(cfg ProcessorConfig) *Processor {
	limit := cfg.MaxConcurrency
	if limit <= 0 {
		limit = defaultMaxConcurrency
	}
	events := cfg.Events
	if events == nil {
		events = types.NopEventSink{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = types.UUIDGenerator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Processor{
		profiles:   cfg.Profiles,
		categories: cfg.Categories,
		links:      cfg.Links,
		cache:      cfg.Cache,
		events:     events,
		clock:      clock,
		ids:        ids,
		logger:     logger,
		limit:      limit,
	}
}

func (p *Processor) ready() error {
	switch {
	case p.profiles == nil:
		return types.ErrMissingProfileRepository
	case p.categories == nil:
		return types.ErrMissingCategoryRepository
	case p.links == nil:
		return types.ErrMissingLinkIndex
	case p.cache == nil:
		return types.ErrMissingCache
	}
	return nil
}

// Execute persists the change set for profile. Category batches are applied
// concurrently, each one durable before its cache entries are evicted. The
// profile record and search results are updated once every category batch
// has succeeded. A failed batch is not rolled back.
func (p *Processor) Execute(ctx context.Context, profile types.Profile, set *types.ChangeSet) error {
	if err := p.ready(); err != nil {
		return err
	}
	if profile.ID == uuid.Nil {
		return types.ErrProfileIDRequired
	}
	if set == nil {
		return types.ErrChangeSetRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(set.CategoryChanges) > 0 {
		if err := p.applyCategoryChanges(ctx, profile.ID, set.CategoryChanges); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if set.ProfileChanged {
		saved, err := p.profiles.Upsert(ctx, profile)
		if err != nil {
			return err
		}
		if saved != nil {
			profile = *saved
		}
		p.notify(ctx, types.TopicProfileUpdated, types.ProfileUpdatedEvent{
			ProfileID:  profile.ID,
			Name:       profile.Name,
			Email:      profile.Email,
			Status:     profile.Status,
			Banned:     profile.Banned(),
			OccurredAt: p.now(),
		})
		if !profile.Banned() {
			if err := p.cache.StoreProfile(ctx, profile); err != nil {
				return err
			}
		}
	}
	if profile.Banned() {
		if err := p.cache.RemoveProfile(ctx, profile.ID); err != nil {
			return err
		}
	}
	return p.refreshResults(ctx, profile)
}

type categoryBatch struct {
	group types.CategoryGroup
	name  string
	delta int
	links []types.CategoryLinkChange
}

func groupChanges(profileID uuid.UUID, changes []types.CategoryChange) []*categoryBatch {
	index := make(map[string]*categoryBatch, len(changes))
	var batches []*categoryBatch
	for _, change := range changes {
		key := types.CategoryKey(change.Group, change.Name)
		batch, ok := index[key]
		if !ok {
			batch = &categoryBatch{group: change.Group, name: change.Name}
			index[key] = batch
			batches = append(batches, batch)
		}
		switch change.Type {
		case types.ChangeTypeAdd:
			batch.delta++
		case types.ChangeTypeRemove:
			batch.delta--
		}
		batch.links = append(batch.links, types.CategoryLinkChange{ProfileID: profileID, Type: change.Type})
	}
	return batches
}

func (p *Processor) applyCategoryChanges(ctx context.Context, profileID uuid.UUID, changes []types.CategoryChange) error {
	for _, change := range changes {
		if err := types.ValidateCategoryRef(change.Group, change.Name); err != nil {
			return err
		}
	}
	catalogue, err := p.loadCatalogue(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)
	for _, batch := range groupChanges(profileID, changes) {
		g.Go(func() error {
			return p.applyCategory(gctx, catalogue, profileID, batch)
		})
	}
	return g.Wait()
}

// LoadCatalogue returns the category catalogue, reading through the cache.
func (p *Processor) LoadCatalogue(ctx context.Context) (*Catalogue, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	return p.loadCatalogue(ctx)
}

func (p *Processor) loadCatalogue(ctx context.Context) (*Catalogue, error) {
	cached, ok, err := p.cache.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return NewCatalogue(cached), nil
	}
	all, err := p.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.cache.StoreCategories(ctx, all); err != nil {
		return nil, err
	}
	return NewCatalogue(all), nil
}

func (p *Processor) applyCategory(ctx context.Context, catalogue *Catalogue, profileID uuid.UUID, batch *categoryBatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := p.now()
	category, found := catalogue.Find(batch.group, batch.name)
	if !found {
		category = types.Category{
			ID:        p.ids.UUID(),
			Group:     batch.group,
			Name:      batch.name,
			CreatedAt: now,
		}
	}
	category.LinkCount += batch.delta
	if category.LinkCount < 0 {
		category.LinkCount = 0
	}
	category.UpdatedAt = now

	stored := category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		saved, err := p.categories.Upsert(gctx, category)
		if err != nil {
			return err
		}
		if saved != nil {
			stored = *saved
		}
		return nil
	})
	g.Go(func() error {
		return p.links.StoreLinkChanges(gctx, batch.group, batch.name, batch.links)
	})
	if err := g.Wait(); err != nil {
		p.logger.Error("category batch failed", err,
			"profile_id", profileID,
			"category_group", batch.group,
			"category_name", batch.name,
		)
		return err
	}
	catalogue.Put(stored)

	if !found {
		p.notify(ctx, types.TopicCategoryCreated, types.CategoryCreatedEvent{
			CategoryID: stored.ID,
			Group:      stored.Group,
			Name:       stored.Name,
			ProfileID:  profileID,
			OccurredAt: now,
		})
	}

	if err := p.cache.RemoveCategories(ctx); err != nil {
		return err
	}
	if err := p.cache.RemoveCategory(ctx, batch.group, batch.name); err != nil {
		return err
	}
	if err := p.cache.RemoveCategoryLinks(ctx, batch.group, batch.name); err != nil {
		return err
	}
	p.logger.Debug("category batch applied",
		"profile_id", profileID,
		"category_group", batch.group,
		"category_name", batch.name,
		"link_count", stored.LinkCount,
	)
	return nil
}

// refreshResults patches the cached search result set in place. A cache miss
// leaves nothing to patch.
func (p *Processor) refreshResults(ctx context.Context, profile types.Profile) error {
	results, ok, err := p.cache.GetProfileResults(ctx)
	if err != nil || !ok {
		return err
	}

	next := make([]types.ProfileResult, 0, len(results)+1)
	for _, result := range results {
		if result.ID != profile.ID {
			next = append(next, result)
		}
	}
	if profile.Visible() {
		entry := types.ToSearchResult(profile)
		at, _ := slices.BinarySearchFunc(next, entry, types.CompareProfileResults)
		next = slices.Insert(next, at, entry)
	}
	if slices.EqualFunc(results, next, types.EqualProfileResults) {
		return nil
	}
	return p.cache.StoreProfileResults(ctx, next)
}

func (p *Processor) notify(ctx context.Context, topic string, payload any) {
	if err := p.events.Publish(ctx, topic, payload); err != nil {
		p.logger.Error("notification publish failed", err, "topic", topic)
	}
}

func (p *Processor) now() time.Time {
	return p.clock.Now()
}
