// Package store defines the persistence interfaces and shared error
// taxonomy for the catalog. Implementations live under
// internal/platform; services depend only on the interfaces here so
// storage can be swapped for test doubles.
package store
