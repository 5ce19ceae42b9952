package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-mentors/cache"
	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
)

// ProfileQueryConfig wires the profile read models.
type ProfileQueryConfig struct {
	Repository types.ProfileRepository
	Cache      *cache.Coordinator
	Logger     types.Logger
}

// ProfileDetailInput identifies a public profile.
type ProfileDetailInput struct {
	ProfileID uuid.UUID
}

// ProfileDetailQuery returns the public view of a visible profile. Hidden and
// banned profiles read as not found.
type ProfileDetailQuery struct {
	repo   types.ProfileRepository
	cache  *cache.Coordinator
	logger types.Logger
}

// NewProfileDetailQuery constructs the detail query.
func NewProfileDetailQuery(cfg ProfileQueryConfig) *ProfileDetailQuery {
	return &ProfileDetailQuery{repo: cfg.Repository, cache: cfg.Cache, logger: safeLogger(cfg.Logger)}
}

var _ gocommand.Querier[ProfileDetailInput, types.PublicProfile] = (*ProfileDetailQuery)(nil)

func (q *ProfileDetailQuery) Query(ctx context.Context, input ProfileDetailInput) (types.PublicProfile, error) {
	if q.repo == nil {
		return types.PublicProfile{}, queryError(types.ErrMissingProfileRepository, "go-mentors: profile detail unavailable")
	}
	if input.ProfileID == uuid.Nil {
		return types.PublicProfile{}, queryError(types.ErrProfileIDRequired, "go-mentors: invalid profile detail request")
	}

	profile, err := q.load(ctx, input.ProfileID)
	if err != nil {
		return types.PublicProfile{}, queryError(err, "go-mentors: profile detail failed")
	}
	if !profile.Visible() {
		return types.PublicProfile{}, queryError(types.ErrProfileNotFound, "go-mentors: profile detail failed")
	}
	return types.ToPublicView(profile), nil
}

func (q *ProfileDetailQuery) load(ctx context.Context, id uuid.UUID) (types.Profile, error) {
	if q.cache != nil {
		cached, ok, err := q.cache.GetProfile(ctx, id)
		if err != nil {
			q.logger.Error("profile cache read failed", err, "profile_id", id)
		} else if ok {
			return cached, nil
		}
	}
	profile, err := q.repo.GetByID(ctx, id)
	if err != nil {
		return types.Profile{}, err
	}
	if q.cache != nil && !profile.Banned() {
		if err := q.cache.StoreProfile(ctx, *profile); err != nil {
			q.logger.Error("profile cache store failed", err, "profile_id", id)
		}
	}
	return *profile, nil
}

// ProfileExportInput identifies the profile an owner exports.
type ProfileExportInput struct {
	ProfileID uuid.UUID
}

// ProfileExportQuery returns the owner's full data export regardless of
// visibility. It always reads the store.
type ProfileExportQuery struct {
	repo types.ProfileRepository
}

// NewProfileExportQuery constructs the export query.
func NewProfileExportQuery(cfg ProfileQueryConfig) *ProfileExportQuery {
	return &ProfileExportQuery{repo: cfg.Repository}
}

var _ gocommand.Querier[ProfileExportInput, types.ExportProfile] = (*ProfileExportQuery)(nil)

func (q *ProfileExportQuery) Query(ctx context.Context, input ProfileExportInput) (types.ExportProfile, error) {
	if q.repo == nil {
		return types.ExportProfile{}, queryError(types.ErrMissingProfileRepository, "go-mentors: profile export unavailable")
	}
	if input.ProfileID == uuid.Nil {
		return types.ExportProfile{}, queryError(types.ErrProfileIDRequired, "go-mentors: invalid profile export request")
	}
	profile, err := q.repo.GetByID(ctx, input.ProfileID)
	if err != nil {
		return types.ExportProfile{}, queryError(err, "go-mentors: profile export failed")
	}
	return types.ToExportView(*profile), nil
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}
