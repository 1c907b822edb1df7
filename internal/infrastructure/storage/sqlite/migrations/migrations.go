// Package migrations embeds the stub server's schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
