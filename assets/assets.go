// Package assets embeds the files shipped inside the binary.
package assets

import "embed"

// MigrationsPath is the directory of SQLite migrations inside MigrationsFS.
const MigrationsPath = "migrations/sqlite"

//go:embed migrations/sqlite/*.sql
var MigrationsFS embed.FS
