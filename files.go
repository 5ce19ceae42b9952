package mentors

import "embed"

// migrationsFS holds the dialect-aware migrations. Root files target
// PostgreSQL and data/sql/migrations/sqlite holds the SQLite overrides.
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var migrationsFS embed.FS

// GetMigrationsFS exposes the SQL migration files so host applications can
// hand them to a go-persistence-bun client or their own migration runner.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
