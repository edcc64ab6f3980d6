// Package cache provides the two-tier caching used by the catalog read
// paths: a byte-oriented TTL store (in-process memory by default, Redis
// optionally) and a tag-indexed read-through layer on top of it that
// supports group invalidation.
package cache
