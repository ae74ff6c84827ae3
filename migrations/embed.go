// Package migrations embeds the smart house schema migrations into the binary.
//
// Files follow the YYYYMMDD_HHMMSS_description.{up,down}.sql convention and sit
// at the root of FS, which is handed to database.(*DB).Migrate by the entry point.
package migrations

import "embed"

// FS holds every .sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
