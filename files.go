package auth

import (
	"embed"
	"io/fs"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// DialectMigrationsFS returns the migrations for one dialect directory,
// "sqlite" or "postgres", rooted so goose can read it at ".".
func DialectMigrationsFS(dialect string) (fs.FS, error) {
	return fs.Sub(GetMigrationsFS(), "data/sql/migrations/"+dialect)
}
