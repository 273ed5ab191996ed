// Package migrations embeds the SQL schema migrations for the attendance store.
package migrations

import "embed"

// FS contains the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
