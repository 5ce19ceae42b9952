package changes

import (
	"slices"
	"strings"

	"github.com/goliatone/go-mentors/pkg/types"
)

// CalculateChanges computes the category deltas and field changes between
// the stored profile and the state it is about to become. proposed is the
// full profile as it would be persisted, usually original.WithEdits(edits)
// or original.WithBan(when).
func CalculateChanges(original, proposed *types.Profile) (*types.ChangeSet, error) {
	if original == nil || proposed == nil {
		return nil, types.ErrProfileRequired
	}

	set := &types.ChangeSet{}
	switch {
	case original.Banned():
		// Banned profiles never hold links; only record whether anything moved.
		set.ProfileChanged = len(diffCategories(original, proposed, true)) > 0
	case proposed.Banned():
		if !original.Hidden() {
			set.CategoryChanges = allCategoryChanges(original, types.ChangeTypeRemove)
		}
	case !original.Hidden() && proposed.Hidden():
		set.CategoryChanges = allCategoryChanges(original, types.ChangeTypeRemove)
	case original.Hidden() && !proposed.Hidden():
		set.CategoryChanges = allCategoryChanges(proposed, types.ChangeTypeAdd)
	case original.Hidden() && proposed.Hidden():
		set.ProfileChanged = len(diffCategories(original, proposed, true)) > 0
	default:
		set.CategoryChanges = diffCategories(original, proposed, false)
	}

	if len(set.CategoryChanges) > 0 || fieldsChanged(original, proposed) {
		set.ProfileChanged = true
	}
	return set, nil
}

// RemoveAllCategoryLinks returns a change set removing every link implied by
// the profile's categories.
func RemoveAllCategoryLinks(profile *types.Profile) (*types.ChangeSet, error) {
	if profile == nil {
		return nil, types.ErrProfileRequired
	}
	removals := allCategoryChanges(profile, types.ChangeTypeRemove)
	return &types.ChangeSet{
		CategoryChanges: removals,
		ProfileChanged:  len(removals) > 0,
	}, nil
}

func allCategoryChanges(profile *types.Profile, changeType types.ChangeType) []types.CategoryChange {
	var out []types.CategoryChange
	for _, group := range types.CategoryGroups {
		for _, name := range uniqueNames(profile.CategoryNames(group)) {
			out = append(out, types.CategoryChange{Group: group, Name: name, Type: changeType})
		}
	}
	return out
}

// diffCategories walks gender, languages then skills. With stopAtFirst it
// returns as soon as a single change is found.
func diffCategories(original, proposed *types.Profile, stopAtFirst bool) []types.CategoryChange {
	var out []types.CategoryChange
	for _, group := range types.CategoryGroups {
		out = append(out, diffAxis(group, original.CategoryNames(group), proposed.CategoryNames(group), stopAtFirst)...)
		if stopAtFirst && len(out) > 0 {
			return out[:1]
		}
	}
	return out
}

func diffAxis(group types.CategoryGroup, original, proposed []string, stopAtFirst bool) []types.CategoryChange {
	before := uniqueNames(original)
	after := uniqueNames(proposed)
	beforeKeys := nameKeys(before)
	afterKeys := nameKeys(after)

	var out []types.CategoryChange
	for _, name := range before {
		if _, ok := afterKeys[types.NormalizeCategoryName(name)]; !ok {
			out = append(out, types.CategoryChange{Group: group, Name: name, Type: types.ChangeTypeRemove})
			if stopAtFirst {
				return out
			}
		}
	}
	for _, name := range after {
		if _, ok := beforeKeys[types.NormalizeCategoryName(name)]; !ok {
			out = append(out, types.CategoryChange{Group: group, Name: name, Type: types.ChangeTypeAdd})
			if stopAtFirst {
				return out
			}
		}
	}
	return out
}

// uniqueNames drops blanks and case-insensitive duplicates, keeping the first
// spelling seen.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		key := types.NormalizeCategoryName(trimmed)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func nameKeys(names []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(names))
	for _, name := range names {
		keys[types.NormalizeCategoryName(name)] = struct{}{}
	}
	return keys
}

func fieldsChanged(original, proposed *types.Profile) bool {
	a, b := original.ProfileEdits, proposed.ProfileEdits
	texts := [][2]string{
		{a.Name, b.Name},
		{a.Email, b.Email},
		{a.TimeZone, b.TimeZone},
		{a.GitHubUsername, b.GitHubUsername},
		{a.TwitterUsername, b.TwitterUsername},
		{a.Website, b.Website},
		{a.About, b.About},
		{a.Gender, b.Gender},
	}
	for _, pair := range texts {
		if !sameText(pair[0], pair[1]) {
			return true
		}
	}
	if !sameInt(a.BirthYear, b.BirthYear) || a.Status != b.Status {
		return true
	}
	if original.Banned() != proposed.Banned() {
		return true
	}
	// Casing-only edits to category names keep their links but still need
	// persisting.
	if !slices.Equal(uniqueNames(a.Languages), uniqueNames(b.Languages)) {
		return true
	}
	if !slices.Equal(uniqueNames(a.SkillNames()), uniqueNames(b.SkillNames())) {
		return true
	}
	return skillMetadataChanged(a.Skills, b.Skills)
}

func skillMetadataChanged(original, proposed []types.Skill) bool {
	byName := make(map[string]types.Skill, len(original))
	for _, skill := range original {
		key := types.NormalizeCategoryName(skill.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = skill
		}
	}
	for _, next := range proposed {
		prev, ok := byName[types.NormalizeCategoryName(next.Name)]
		if !ok {
			continue
		}
		if !sameText(prev.Level, next.Level) ||
			!sameInt(prev.YearStarted, next.YearStarted) ||
			!sameInt(prev.YearLastUsed, next.YearLastUsed) {
			return true
		}
	}
	return false
}

// sameText treats blank and whitespace-only values as "no value".
func sameText(a, b string) bool {
	blankA := strings.TrimSpace(a) == ""
	blankB := strings.TrimSpace(b) == ""
	if blankA || blankB {
		return blankA == blankB
	}
	return a == b
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
