// Package migrations carries the embedded goose SQL migrations applied on
// startup.
package migrations

import "embed"

//go:embed *.sql
var Embed embed.FS
