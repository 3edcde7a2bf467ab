// Package cache stores assembled payloads per distinct query configuration.
//
// A Key is built from every field that changes the outcome of an aggregation:
// the raw query, its language, the set of requested sources, the number of
// results per source and the three model identifiers. Source order does not
// matter; everything else does.
//
// Two Store implementations are provided:
//
//   - NewLRU: an expirable LRU held in process memory (default)
//   - cache/badger.NewStore: an in-memory Badger database holding mus-encoded payloads
//
// Both evict entries older than the TTL and enforce a maximum entry count.
package cache
