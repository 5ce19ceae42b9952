package migrations

import (
	"io/fs"

	mentors "github.com/goliatone/go-mentors"
)

func init() {
	coreFS, err := fs.Sub(mentors.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
