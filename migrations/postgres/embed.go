// Package postgres embeds the Postgres migration files so they can be used
// by the goose programmatic API in tests and server bootstrap.
package postgres

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.NewProvider with goose.DialectPostgres.
//
//go:embed *.sql
var FS embed.FS
