// Package migrations holds the SQL schema, applied in filename order by
// database.Migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
