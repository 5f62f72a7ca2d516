// Package migrations holds the SQL schema applied by cmd/migrate.
package migrations

import "embed"

// FS contains every *.sql file of this directory.
//
//go:embed *.sql
var FS embed.FS
