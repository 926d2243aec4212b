// Package migrations embeds the primary store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
