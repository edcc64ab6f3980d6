// Package service implements the application's use cases over the
// repository and cache abstractions: cached catalog reads, the
// fail-soft store search, and the mutations that keep the cache tiers
// coherent with committed state.
package service
