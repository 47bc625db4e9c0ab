// Package repositories implements SQLite persistence for batch runs.
//
// A SQLite export is an append-only history: every run adds one row to runs, one row per
// matched query to records and one row per unmatched query to failures.
//
// Key Implementations:
//   - [RunRepository] : run metadata with counts and interruption flag
//   - [RecordRepository] : matched records keyed by run and input position
//   - [FailureRepository] : unmatched queries with reason and error text
//   - [SQLiteExporter] : writes a whole [models.BatchResult] in one transaction
//
// Repositories accept a [Queryer] so the same code runs against a *sql.DB or inside a *sql.Tx.
package repositories
