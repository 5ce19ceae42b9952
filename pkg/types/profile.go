package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProfileStatus controls whether a profile shows up in public search.
type ProfileStatus string

const (
	ProfileStatusHidden      ProfileStatus = "hidden"
	ProfileStatusUnavailable ProfileStatus = "unavailable"
	ProfileStatusAvailable   ProfileStatus = "available"
)

// Valid reports whether the status is one of the known values.
func (s ProfileStatus) Valid() bool {
	switch s {
	case ProfileStatusHidden, ProfileStatusUnavailable, ProfileStatusAvailable:
		return true
	}
	return false
}

// Skill is a named skill with optional experience metadata.
type Skill struct {
	Name         string
	Level        string
	YearStarted  *int
	YearLastUsed *int
}

// ProfileEdits carries every field a profile owner may change.
type ProfileEdits struct {
	Name            string
	Email           string
	BirthYear       *int
	TimeZone        string
	GitHubUsername  string
	TwitterUsername string
	Website         string
	About           string
	Gender          string
	Languages       []string
	Skills          []Skill
	Status          ProfileStatus
}

// Profile is the canonical mentor profile.
type Profile struct {
	ID uuid.UUID
	ProfileEdits
	BannedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Banned reports whether the profile has been banned.
func (p Profile) Banned() bool {
	return p.BannedAt != nil
}

// Hidden reports whether the profile is hidden by its owner.
func (p Profile) Hidden() bool {
	return p.Status == ProfileStatusHidden
}

// Visible reports whether the profile belongs in public search results.
func (p Profile) Visible() bool {
	return !p.Hidden() && !p.Banned()
}

// WithEdits returns a copy of the profile carrying the supplied edits.
func (p Profile) WithEdits(edits ProfileEdits) Profile {
	next := p.Clone()
	next.ProfileEdits = edits.Clone()
	return next
}

// WithBan returns a copy of the profile banned at the supplied instant.
func (p Profile) WithBan(when time.Time) Profile {
	next := p.Clone()
	ts := when.UTC()
	next.BannedAt = &ts
	return next
}

// Clone returns a deep copy so callers can mutate slices safely.
func (p Profile) Clone() Profile {
	clone := p
	clone.ProfileEdits = p.ProfileEdits.Clone()
	if p.BannedAt != nil {
		ts := *p.BannedAt
		clone.BannedAt = &ts
	}
	return clone
}

// Clone returns a deep copy of the edits.
func (e ProfileEdits) Clone() ProfileEdits {
	clone := e
	clone.BirthYear = cloneInt(e.BirthYear)
	if e.Languages != nil {
		clone.Languages = append([]string(nil), e.Languages...)
	}
	if e.Skills != nil {
		clone.Skills = make([]Skill, len(e.Skills))
		for i, skill := range e.Skills {
			clone.Skills[i] = Skill{
				Name:         skill.Name,
				Level:        skill.Level,
				YearStarted:  cloneInt(skill.YearStarted),
				YearLastUsed: cloneInt(skill.YearLastUsed),
			}
		}
	}
	return clone
}

// SkillNames returns the skill names in declaration order.
func (e ProfileEdits) SkillNames() []string {
	names := make([]string, 0, len(e.Skills))
	for _, skill := range e.Skills {
		names = append(names, skill.Name)
	}
	return names
}

// CategoryNames returns the category names held by the profile for a group.
func (e ProfileEdits) CategoryNames(group CategoryGroup) []string {
	switch group {
	case CategoryGroupGender:
		if strings.TrimSpace(e.Gender) == "" {
			return nil
		}
		return []string{e.Gender}
	case CategoryGroupLanguage:
		return e.Languages
	case CategoryGroupSkill:
		return e.SkillNames()
	}
	return nil
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
