// AngelaMos | 2026
// embed.go

// Package migrations embeds the SQL schema files for tooling and tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
