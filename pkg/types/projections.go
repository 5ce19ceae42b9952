package types

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicProfile is what anonymous visitors see. Contact email and ban
// metadata are never exposed.
type PublicProfile struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	BirthYear       *int          `json:"birth_year,omitempty"`
	TimeZone        string        `json:"time_zone,omitempty"`
	GitHubUsername  string        `json:"github_username,omitempty"`
	TwitterUsername string        `json:"twitter_username,omitempty"`
	Website         string        `json:"website,omitempty"`
	About           string        `json:"about,omitempty"`
	Gender          string        `json:"gender,omitempty"`
	Languages       []string      `json:"languages,omitempty"`
	Skills          []Skill       `json:"skills,omitempty"`
	Status          ProfileStatus `json:"status"`
}

// ExportProfile is the owner's full data export.
type ExportProfile struct {
	PublicProfile
	Email     string     `json:"email"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ProfileResult is one row of the public search result set.
type ProfileResult struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	BirthYear *int          `json:"birth_year,omitempty"`
	TimeZone  string        `json:"time_zone,omitempty"`
	Gender    string        `json:"gender,omitempty"`
	Languages []string      `json:"languages,omitempty"`
	Skills    []string      `json:"skills,omitempty"`
	Status    ProfileStatus `json:"status"`
}

// ToPublicView projects a profile for public display.
func ToPublicView(p Profile) PublicProfile {
	edits := p.ProfileEdits.Clone()
	return PublicProfile{
		ID:              p.ID,
		Name:            edits.Name,
		BirthYear:       edits.BirthYear,
		TimeZone:        edits.TimeZone,
		GitHubUsername:  edits.GitHubUsername,
		TwitterUsername: edits.TwitterUsername,
		Website:         edits.Website,
		About:           edits.About,
		Gender:          edits.Gender,
		Languages:       edits.Languages,
		Skills:          edits.Skills,
		Status:          edits.Status,
	}
}

// ToExportView projects every stored field for the profile owner.
func ToExportView(p Profile) ExportProfile {
	clone := p.Clone()
	return ExportProfile{
		PublicProfile: ToPublicView(clone),
		Email:         clone.Email,
		BannedAt:      clone.BannedAt,
		CreatedAt:     clone.CreatedAt,
		UpdatedAt:     clone.UpdatedAt,
	}
}

// ToSearchResult projects a profile into a search result row.
func ToSearchResult(p Profile) ProfileResult {
	edits := p.ProfileEdits.Clone()
	return ProfileResult{
		ID:        p.ID,
		Name:      edits.Name,
		BirthYear: edits.BirthYear,
		TimeZone:  edits.TimeZone,
		Gender:    edits.Gender,
		Languages: edits.Languages,
		Skills:    edits.SkillNames(),
		Status:    edits.Status,
	}
}

// CompareProfileResults orders search results by name, then id. Profile
// stores list visible profiles in the same order.
func CompareProfileResults(a, b ProfileResult) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

// EqualProfileResults reports whether two search result rows are identical.
func EqualProfileResults(a, b ProfileResult) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		sameIntPtr(a.BirthYear, b.BirthYear) &&
		a.TimeZone == b.TimeZone &&
		a.Gender == b.Gender &&
		slices.Equal(a.Languages, b.Languages) &&
		slices.Equal(a.Skills, b.Skills) &&
		a.Status == b.Status
}

func sameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
