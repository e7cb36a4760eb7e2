// Package cache provides a file-based page cache with TTL expiration.
//
// Each fetched page is stored as one JSON file named after a key derived from
// the list URI, cursor and page size. Keys share a per-list prefix so every
// cached page of a list can be dropped at once when the list is refreshed or
// its membership is edited.
//
// Entries older than their TTL are treated as misses and removed lazily. The
// store is safe for concurrent use.
package cache
