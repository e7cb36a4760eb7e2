package cache

import (
	"encoding/json"
	"time"
)

// CacheEntry is one cached page with TTL metadata.
//
//nolint:revive // CacheEntry is the canonical name for this exported type.
type CacheEntry struct {
	// Key is the page key (see PageKey).
	Key string `json:"key"`

	// Data is the cached page as JSON.
	Data json.RawMessage `json:"data"`

	// CreatedAt is when the page was fetched.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the entry stops being served.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewCacheEntry creates an entry that expires ttl from now.
func NewCacheEntry(key string, data json.RawMessage, ttl time.Duration) *CacheEntry {
	now := time.Now().UTC()
	return &CacheEntry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the entry is past its expiry.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns the time since the entry was created.
func (e *CacheEntry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// Decode unmarshals the cached data into v.
func (e *CacheEntry) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}
