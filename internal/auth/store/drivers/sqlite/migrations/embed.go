// Package migrations embeds the sqlite schema migration files so the
// binary can apply them without shipping loose SQL alongside it.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
