// Package migrations embeds the Postgres schema of directory snapshots.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
