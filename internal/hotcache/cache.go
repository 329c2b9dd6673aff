// Package hotcache is an optional read-through cache in front of the
// translation memory, backed by process memory or Redis.
package hotcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores serialised translation records by key.
type Cache interface {
	// Get returns the cached value, or false when missing or expired.
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Flush drops every entry owned by the cache.
	Flush(ctx context.Context) error
}

// Key derives the cache key for a lookup from the SHA-256 of the text and
// the language pair.
func Key(text, sourceLang, targetLang string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]) + ":" + sourceLang + ":" + targetLang
}
