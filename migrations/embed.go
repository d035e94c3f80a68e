// Package migrations embeds the SQL schema applied at start-up.
package migrations

import "embed"

// FS holds the numbered migration files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
