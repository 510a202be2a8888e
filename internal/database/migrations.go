package database

import "embed"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS exposes the embedded SQL migrations for the migration runner
// and the integration tests.
func MigrationsFS() embed.FS {
	return migrationsFS
}
