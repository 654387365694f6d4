// Package store defines the database access abstractions shared by the
// Postgres-backed stores.
package store
