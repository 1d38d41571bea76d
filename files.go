package identity

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS exposes the bundled schema migrations so hosts can feed
// them to their own migration runner.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
