// Package postgres provides a PostgreSQL implementation of the verdict,
// extraction and analysis stores over a pgx connection pool.
//
// Results and analytics payloads are stored as JSONB. Migrations are embedded
// and applied in version order by NewStore.
package postgres
