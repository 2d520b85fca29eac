// Package migrations embeds the goose SQL migrations for the blueprint store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
