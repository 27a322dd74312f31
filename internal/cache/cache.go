package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"
)

// Cache stores serialized results. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key hashes its parts into a namespaced cache key.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "timber:v1:" + hex.EncodeToString(hash[:])
}

// Remember returns the cached value for key or computes, stores and returns
// it. Errors from fn are not cached; cache failures only cost a recompute.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if c == nil {
		return fn()
	}
	if b, ok := c.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		_ = c.Delete(ctx, key)
	}

	v, err := fn()
	if err != nil {
		return v, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.Set(ctx, key, b, ttl); err != nil {
		log.Printf("warning: cache set: %v", err)
	}
	return v, nil
}
