package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"sync"

	"github.com/goliatone/go-mentors/pkg/types"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var (
	mu          sync.RWMutex
	filesystems []fs.FS
)

// Register records a filesystem holding dialect-aware migrations at its root.
func Register(fsys fs.FS) {
	if fsys == nil {
		return
	}
	mu.Lock()
	filesystems = append(filesystems, fsys)
	mu.Unlock()
}

// Filesystems returns a copy of all registered migration filesystems.
func Filesystems() []fs.FS {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]fs.FS, len(filesystems))
	copy(out, filesystems)
	return out
}

// Open builds a persistence client over sqldb, registers every migration
// filesystem and migrates to the latest version. Applied versions are
// tracked by the client, so Open may run at every start.
func Open(ctx context.Context, cfg persistence.Config, sqldb *sql.DB, logger types.Logger) (*bun.DB, error) {
	if sqldb == nil {
		return nil, errors.New("migrations: db required")
	}
	if logger == nil {
		logger = types.NopLogger{}
	}

	client, err := persistence.New(cfg, sqldb, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	for _, fsys := range Filesystems() {
		client.RegisterDialectMigrations(
			fsys,
			persistence.WithDialectSourceLabel("."),
			persistence.WithValidationTargets("postgres", "sqlite"),
		)
	}

	if err := client.ValidateDialects(ctx); err != nil {
		logger.Error("migrations: dialect validation failed", err)
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	if report := client.Report(); report != nil && !report.IsZero() {
		logger.Info("migrations applied", "report", report.String())
	}

	return client.DB(), nil
}
