// Package sqlite provides a SQLite-based implementation of the verdict,
// extraction and analysis stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. All three stores share one database connection.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.verdict/data/verdicts.db
package sqlite
