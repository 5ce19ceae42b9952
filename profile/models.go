package profile

import (
	"time"

	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the mentor_profiles row.
type Record struct {
	bun.BaseModel `bun:"table:mentor_profiles"`

	ID              uuid.UUID     `bun:"id,pk,type:uuid"`
	Name            string        `bun:"name"`
	Email           string        `bun:"email"`
	BirthYear       *int          `bun:"birth_year"`
	TimeZone        string        `bun:"time_zone"`
	GitHubUsername  string        `bun:"github_username"`
	TwitterUsername string        `bun:"twitter_username"`
	Website         string        `bun:"website"`
	About           string        `bun:"about"`
	Gender          string        `bun:"gender"`
	Languages       []string      `bun:"languages,type:jsonb"`
	Skills          []SkillRecord `bun:"skills,type:jsonb"`
	Status          string        `bun:"status"`
	BannedAt        *time.Time    `bun:"banned_at"`
	CreatedAt       time.Time     `bun:"created_at"`
	UpdatedAt       time.Time     `bun:"updated_at"`
}

// SkillRecord is the JSON shape of one skill entry.
type SkillRecord struct {
	Name         string `json:"name"`
	Level        string `json:"level,omitempty"`
	YearStarted  *int   `json:"year_started,omitempty"`
	YearLastUsed *int   `json:"year_last_used,omitempty"`
}

type recordCodec struct{}

var codec types.Codec[types.Profile, *Record] = recordCodec{}

func (recordCodec) ToRecord(profile types.Profile) *Record {
	clone := profile.Clone()
	rec := &Record{
		ID:              clone.ID,
		Name:            clone.Name,
		Email:           clone.Email,
		BirthYear:       clone.BirthYear,
		TimeZone:        clone.TimeZone,
		GitHubUsername:  clone.GitHubUsername,
		TwitterUsername: clone.TwitterUsername,
		Website:         clone.Website,
		About:           clone.About,
		Gender:          clone.Gender,
		Languages:       clone.Languages,
		Status:          string(clone.Status),
		BannedAt:        clone.BannedAt,
		CreatedAt:       clone.CreatedAt,
		UpdatedAt:       clone.UpdatedAt,
	}
	if rec.Status == "" {
		rec.Status = string(types.ProfileStatusHidden)
	}
	if len(clone.Skills) > 0 {
		rec.Skills = make([]SkillRecord, 0, len(clone.Skills))
		for _, skill := range clone.Skills {
			rec.Skills = append(rec.Skills, SkillRecord{
				Name:         skill.Name,
				Level:        skill.Level,
				YearStarted:  skill.YearStarted,
				YearLastUsed: skill.YearLastUsed,
			})
		}
	}
	return rec
}

func (recordCodec) FromRecord(rec *Record) types.Profile {
	if rec == nil {
		return types.Profile{}
	}
	profile := types.Profile{
		ID: rec.ID,
		ProfileEdits: types.ProfileEdits{
			Name:            rec.Name,
			Email:           rec.Email,
			BirthYear:       rec.BirthYear,
			TimeZone:        rec.TimeZone,
			GitHubUsername:  rec.GitHubUsername,
			TwitterUsername: rec.TwitterUsername,
			Website:         rec.Website,
			About:           rec.About,
			Gender:          rec.Gender,
			Languages:       rec.Languages,
			Status:          types.ProfileStatus(rec.Status),
		},
		BannedAt:  rec.BannedAt,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	for _, skill := range rec.Skills {
		profile.Skills = append(profile.Skills, types.Skill{
			Name:         skill.Name,
			Level:        skill.Level,
			YearStarted:  skill.YearStarted,
			YearLastUsed: skill.YearLastUsed,
		})
	}
	return profile.Clone()
}
