// Package migrations embeds the device-local key/value schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
