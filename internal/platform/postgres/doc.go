// Package postgres provides PostgreSQL-backed implementations of the
// service's storage interfaces.
package postgres
