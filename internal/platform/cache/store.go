// Package cache provides TTL-keyed storage for remote registry responses
// and a caching decorator for the statements repository.
package cache

import (
	"context"
	"strings"
	"time"
)

// Store is a TTL-keyed byte store. Expired entries behave as misses.
// Concurrent use is safe; the last write for a key wins.
type Store interface {
	// Get returns the payload for key, or ok=false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)

	// Set stores payload under key for ttl. A non-positive ttl falls back
	// to the implementation default.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Invalidate removes a single key. Removing an absent key is not an
	// error.
	Invalidate(ctx context.Context, key string) error

	// Clear removes every entry in the store's namespace.
	Clear(ctx context.Context) error
}

// DefaultTTL is applied when a caller passes a non-positive TTL.
const DefaultTTL = time.Hour

// Fingerprint derives a deterministic cache key from request parameters.
// Parts are escaped so the separator stays unambiguous.
func Fingerprint(namespace string, parts ...string) string {
	b := strings.Builder{}
	b.WriteString(safe(namespace))
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(safe(p))
	}
	return b.String()
}

// safe escapes characters that are problematic for cache keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
