// Package migrations embeds the SQLite schema for session scoring state.
package migrations

import "embed"

// FS contains embedded SQLite migrations, applied in filename order.
//
//go:embed *.sql
var FS embed.FS
