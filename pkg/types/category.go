package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryGroup partitions categories by the profile field they come from.
type CategoryGroup string

const (
	CategoryGroupGender   CategoryGroup = "gender"
	CategoryGroupLanguage CategoryGroup = "language"
	CategoryGroupSkill    CategoryGroup = "skill"
)

// CategoryGroups lists the groups in diff order.
var CategoryGroups = []CategoryGroup{
	CategoryGroupGender,
	CategoryGroupLanguage,
	CategoryGroupSkill,
}

// Valid reports whether the group is known.
func (g CategoryGroup) Valid() bool {
	switch g {
	case CategoryGroupGender, CategoryGroupLanguage, CategoryGroupSkill:
		return true
	}
	return false
}

// Category is a grouped tag profiles link to.
type Category struct {
	ID        uuid.UUID
	Group     CategoryGroup
	Name      string
	LinkCount int
	Visible   bool
	Reviewed  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the case-insensitive identity of the category.
func (c Category) Key() string {
	return CategoryKey(c.Group, c.Name)
}

// CategoryKey normalizes a (group, name) pair into a lookup key.
func CategoryKey(group CategoryGroup, name string) string {
	return string(group) + ":" + NormalizeCategoryName(name)
}

// NormalizeCategoryName folds case and trims whitespace so names compare
// case-insensitively.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ChangeType is the direction of a category membership change.
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "add"
	ChangeTypeRemove ChangeType = "remove"
)

// CategoryChange is a single membership delta for a profile.
type CategoryChange struct {
	Group CategoryGroup
	Name  string
	Type  ChangeType
}

// CategoryLinkChange is an add/remove record for one category partition.
type CategoryLinkChange struct {
	ProfileID uuid.UUID
	Type      ChangeType
}

// ChangeSet is the delta between a stored profile and its proposed state.
type ChangeSet struct {
	CategoryChanges []CategoryChange
	ProfileChanged  bool
}

// HasChanges reports whether applying the change set would do anything.
func (c *ChangeSet) HasChanges() bool {
	if c == nil {
		return false
	}
	return c.ProfileChanged || len(c.CategoryChanges) > 0
}

// ValidateCategoryRef checks the group and name of a category reference.
func ValidateCategoryRef(group CategoryGroup, name string) error {
	if !group.Valid() {
		return ErrCategoryGroupRequired
	}
	if strings.TrimSpace(name) == "" {
		return ErrCategoryNameRequired
	}
	return nil
}
