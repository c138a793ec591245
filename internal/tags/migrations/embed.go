// Package migrations embeds the SQL schema for the SQLite tag store.
package migrations

import "embed"

// FS holds every *.sql migration, applied in version order by goose.
//
//go:embed *.sql
var FS embed.FS
