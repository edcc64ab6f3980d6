// Package postgres provides PostgreSQL implementations of the
// repository interfaces defined in internal/store. Query text is
// static or assembled from enum allow-lists; caller input only ever
// reaches the database as bound parameters.
package postgres
