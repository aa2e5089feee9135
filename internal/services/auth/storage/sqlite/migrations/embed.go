// Package migrations embeds the shadow user schema for the SQLite store.
package migrations

import "embed"

// FS holds the ordered *.sql migrations applied on open.
//
//go:embed *.sql
var FS embed.FS
