// Package store persists lint reports in a SQL database.
//
// A report is a run (one execution of a rule file over some input,
// identified by a time ordered UUID) and the findings it produced, in
// emission order.
//
// # Drivers
//
//   - sqlite3: github.com/mattn/go-sqlite3 (cgo)
//   - sqlite:  modernc.org/sqlite (pure Go)
//   - pgx:     github.com/jackc/pgx/v5 via database/sql
//
// SQLite databases are configured with:
//   - WAL mode for concurrent reads during writes
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Queries are written with '?' placeholders and rebound to "$n" for
// PostgreSQL.
package store
