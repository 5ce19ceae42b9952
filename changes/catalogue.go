package changes

import (
	"sort"
	"sync"

	"github.com/goliatone/go-mentors/pkg/types"
)

// Catalogue is an in-memory snapshot of every known category, keyed by
// (group, case-folded name). It is safe for concurrent use.
type Catalogue struct {
	mu    sync.RWMutex
	items map[string]types.Category
}

// NewCatalogue indexes the supplied categories.
func NewCatalogue(categories []types.Category) *Catalogue {
	c := &Catalogue{items: make(map[string]types.Category, len(categories))}
	for _, category := range categories {
		c.items[category.Key()] = category
	}
	return c
}

// Find looks up a category ignoring name casing.
func (c *Catalogue) Find(group types.CategoryGroup, name string) (types.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	category, ok := c.items[types.CategoryKey(group, name)]
	return category, ok
}

// Put inserts or replaces a category.
func (c *Catalogue) Put(category types.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[category.Key()] = category
}

// Len returns the number of categories held.
func (c *Catalogue) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// All returns every category ordered by group then name.
func (c *Catalogue) All() []types.Category {
	return c.filter(func(types.Category) bool { return true })
}

// Visible returns the categories published to the public.
func (c *Catalogue) Visible() []types.Category {
	return c.filter(func(category types.Category) bool { return category.Visible })
}

// Group returns the categories in a single group.
func (c *Catalogue) Group(group types.CategoryGroup) []types.Category {
	return c.filter(func(category types.Category) bool { return category.Group == group })
}

func (c *Catalogue) filter(keep func(types.Category) bool) []types.Category {
	c.mu.RLock()
	out := make([]types.Category, 0, len(c.items))
	for _, category := range c.items {
		if keep(category) {
			out = append(out, category)
		}
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return types.NormalizeCategoryName(out[i].Name) < types.NormalizeCategoryName(out[j].Name)
	})
	return out
}
