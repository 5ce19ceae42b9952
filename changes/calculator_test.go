package changes

import (
	"testing"
	"time"

	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func visibleProfile() types.Profile {
	return types.Profile{
		ID: uuid.New(),
		ProfileEdits: types.ProfileEdits{
			Name:      "Grace",
			Email:     "grace@example.com",
			Gender:    "male",
			Languages: []string{"en", "fr"},
			Skills:    []types.Skill{{Name: "Go", Level: "expert", YearStarted: intPtr(2015)}},
			Status:    types.ProfileStatusAvailable,
		},
	}
}

func changesOf(set *types.ChangeSet, changeType types.ChangeType) []types.CategoryChange {
	var out []types.CategoryChange
	for _, change := range set.CategoryChanges {
		if change.Type == changeType {
			out = append(out, change)
		}
	}
	return out
}

func TestCalculateChangesRequiresBothProfiles(t *testing.T) {
	profile := visibleProfile()
	_, err := CalculateChanges(nil, &profile)
	require.ErrorIs(t, err, types.ErrProfileRequired)
	_, err = CalculateChanges(&profile, nil)
	require.ErrorIs(t, err, types.ErrProfileRequired)
	_, err = RemoveAllCategoryLinks(nil)
	require.ErrorIs(t, err, types.ErrProfileRequired)
}

func TestCalculateChangesOrdinaryDiff(t *testing.T) {
	original := visibleProfile()
	edits := original.ProfileEdits.Clone()
	edits.Gender = "female"
	edits.Languages = []string{"en", "de"}
	edits.Skills = append(edits.Skills, types.Skill{Name: "Rust"})
	proposed := original.WithEdits(edits)

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.True(t, set.ProfileChanged)
	require.Equal(t, []types.CategoryChange{
		{Group: types.CategoryGroupGender, Name: "male", Type: types.ChangeTypeRemove},
		{Group: types.CategoryGroupGender, Name: "female", Type: types.ChangeTypeAdd},
		{Group: types.CategoryGroupLanguage, Name: "fr", Type: types.ChangeTypeRemove},
		{Group: types.CategoryGroupLanguage, Name: "de", Type: types.ChangeTypeAdd},
		{Group: types.CategoryGroupSkill, Name: "Rust", Type: types.ChangeTypeAdd},
	}, set.CategoryChanges)
}

func TestCalculateChangesConverges(t *testing.T) {
	original := visibleProfile()
	edits := original.ProfileEdits.Clone()
	edits.Languages = []string{"es"}
	edits.Skills = []types.Skill{{Name: "Python"}}
	proposed := original.WithEdits(edits)

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.NotEmpty(t, set.CategoryChanges)

	again, err := CalculateChanges(&proposed, &proposed)
	require.NoError(t, err)
	require.Empty(t, again.CategoryChanges)
	require.False(t, again.ProfileChanged)
}

func TestCalculateChangesIgnoresCaseOnlyRenames(t *testing.T) {
	original := visibleProfile()
	edits := original.ProfileEdits.Clone()
	edits.Gender = "MALE"
	edits.Languages = []string{"EN", "Fr"}
	edits.Skills[0].Name = "go"
	proposed := original.WithEdits(edits)

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.Empty(t, set.CategoryChanges)
	require.True(t, set.ProfileChanged, "new spelling still needs persisting")
}

func TestCalculateChangesHideRemovesOriginalLinks(t *testing.T) {
	original := visibleProfile()
	original.Skills = nil
	edits := original.ProfileEdits.Clone()
	edits.Status = types.ProfileStatusHidden
	edits.Languages = []string{"de", "it"}
	edits.Gender = "female"
	proposed := original.WithEdits(edits)

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.Len(t, set.CategoryChanges, 3)
	require.Empty(t, changesOf(set, types.ChangeTypeAdd))
	require.ElementsMatch(t, []types.CategoryChange{
		{Group: types.CategoryGroupGender, Name: "male", Type: types.ChangeTypeRemove},
		{Group: types.CategoryGroupLanguage, Name: "en", Type: types.ChangeTypeRemove},
		{Group: types.CategoryGroupLanguage, Name: "fr", Type: types.ChangeTypeRemove},
	}, set.CategoryChanges)
	require.True(t, set.ProfileChanged)
}

func TestCalculateChangesUnhideAddsProposedLinks(t *testing.T) {
	original := types.Profile{ID: uuid.New()}
	original.Status = types.ProfileStatusHidden
	original.Languages = []string{"en"}

	edits := types.ProfileEdits{
		Gender: "female",
		Skills: []types.Skill{{Name: "go"}},
		Status: types.ProfileStatusAvailable,
	}
	proposed := original.WithEdits(edits)

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.Len(t, set.CategoryChanges, 2)
	require.Empty(t, changesOf(set, types.ChangeTypeRemove))
	require.Equal(t, types.CategoryChange{Group: types.CategoryGroupGender, Name: "female", Type: types.ChangeTypeAdd}, set.CategoryChanges[0])
	require.Equal(t, types.CategoryChange{Group: types.CategoryGroupSkill, Name: "go", Type: types.ChangeTypeAdd}, set.CategoryChanges[1])
}

func TestCalculateChangesHiddenToHiddenNeverLinks(t *testing.T) {
	original := types.Profile{ID: uuid.New()}
	original.Status = types.ProfileStatusHidden

	edits := original.ProfileEdits.Clone()
	edits.Languages = []string{"en"}
	proposed := original.WithEdits(edits)

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.Empty(t, set.CategoryChanges)
	require.True(t, set.ProfileChanged)
}

func TestCalculateChangesBannedProfileNeverLinks(t *testing.T) {
	original := visibleProfile().WithBan(time.Now())
	edits := original.ProfileEdits.Clone()
	edits.Languages = []string{"ja"}
	edits.About = "new bio"
	proposed := original.WithEdits(edits)

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.Empty(t, set.CategoryChanges)
	require.True(t, set.ProfileChanged)

	unchanged := original.Clone()
	set, err = CalculateChanges(&original, &unchanged)
	require.NoError(t, err)
	require.Empty(t, set.CategoryChanges)
	require.False(t, set.ProfileChanged)
}

func TestCalculateChangesBanRemovesLinks(t *testing.T) {
	original := visibleProfile()
	proposed := original.WithBan(time.Now())

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.Len(t, set.CategoryChanges, 4)
	require.Empty(t, changesOf(set, types.ChangeTypeAdd))
	require.True(t, set.ProfileChanged)

	hidden := visibleProfile()
	hidden.Status = types.ProfileStatusHidden
	bannedHidden := hidden.WithBan(time.Now())
	set, err = CalculateChanges(&hidden, &bannedHidden)
	require.NoError(t, err)
	require.Empty(t, set.CategoryChanges, "hidden profiles hold no links to remove")
	require.True(t, set.ProfileChanged)
}

func TestCalculateChangesScalarFields(t *testing.T) {
	original := visibleProfile()
	original.Website = ""

	edits := original.ProfileEdits.Clone()
	edits.Website = "   "
	proposed := original.WithEdits(edits)
	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.False(t, set.ProfileChanged, "blank and whitespace are both no value")

	edits.Website = "https://example.com"
	proposed = original.WithEdits(edits)
	set, err = CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.True(t, set.ProfileChanged)
	require.Empty(t, set.CategoryChanges)

	edits = original.ProfileEdits.Clone()
	edits.BirthYear = intPtr(1980)
	proposed = original.WithEdits(edits)
	set, err = CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.True(t, set.ProfileChanged)
}

func TestCalculateChangesSkillMetadata(t *testing.T) {
	original := visibleProfile()

	tests := []struct {
		name   string
		mutate func(*types.Skill)
	}{
		{name: "level", mutate: func(s *types.Skill) { s.Level = "beginner" }},
		{name: "year started", mutate: func(s *types.Skill) { s.YearStarted = intPtr(2001) }},
		{name: "year last used", mutate: func(s *types.Skill) { s.YearLastUsed = intPtr(2024) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edits := original.ProfileEdits.Clone()
			tt.mutate(&edits.Skills[0])
			proposed := original.WithEdits(edits)

			set, err := CalculateChanges(&original, &proposed)
			require.NoError(t, err)
			require.Empty(t, set.CategoryChanges)
			require.True(t, set.ProfileChanged)
		})
	}
}

func TestCalculateChangesDeduplicatesNames(t *testing.T) {
	original := visibleProfile()
	edits := original.ProfileEdits.Clone()
	edits.Languages = []string{"en", "fr", "DE", "de", " "}
	proposed := original.WithEdits(edits)

	set, err := CalculateChanges(&original, &proposed)
	require.NoError(t, err)
	require.Equal(t, []types.CategoryChange{
		{Group: types.CategoryGroupLanguage, Name: "DE", Type: types.ChangeTypeAdd},
	}, set.CategoryChanges)
}

func TestRemoveAllCategoryLinks(t *testing.T) {
	profile := visibleProfile()
	set, err := RemoveAllCategoryLinks(&profile)
	require.NoError(t, err)
	require.Len(t, set.CategoryChanges, 4)
	require.Empty(t, changesOf(set, types.ChangeTypeAdd))
	require.True(t, set.ProfileChanged)

	empty := types.Profile{ID: uuid.New()}
	set, err = RemoveAllCategoryLinks(&empty)
	require.NoError(t, err)
	require.False(t, set.HasChanges())
}
