// Package postgres provides PostgreSQL implementations of the store
// interfaces. Profiles are persisted as one row each with the decks map
// serialized to JSONB; episodes and background tasks get their own
// tables. All implementations accept a store.DBTX so they run equally
// against *sql.DB and *sql.Tx.
package postgres
