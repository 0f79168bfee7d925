// Package migrations embeds the SQL schema applied at startup.
package migrations

import "embed"

// FS holds the *.up.sql migration files, applied in filename order.
//
//go:embed *.up.sql
var FS embed.FS
