package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// listPrefixLen is the number of hex characters of the list hash used as a key prefix.
const listPrefixLen = 16

// ListPrefix returns the key prefix shared by all pages of listURI.
func ListPrefix(listURI string) string {
	sum := sha256.Sum256([]byte(listURI))
	return hex.EncodeToString(sum[:])[:listPrefixLen]
}

// PageKey returns the cache key for one page request.
func PageKey(listURI, cursor string, limit int) string {
	sum := sha256.Sum256([]byte(cursor + "\x00" + strconv.Itoa(limit)))
	return ListPrefix(listURI) + "-" + hex.EncodeToString(sum[:])
}
