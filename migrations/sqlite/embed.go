// Package sqlite embeds the SQLite migration files so they can be used by
// the goose programmatic API in tests and server bootstrap.
package sqlite

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.NewProvider with goose.DialectSQLite3.
//
//go:embed *.sql
var FS embed.FS
