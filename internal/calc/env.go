// Package calc holds the environment shared by the calculation handlers.
package calc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Timber/internal/cache"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/sizing"
)

type Env struct {
	Tables sizing.Tables
	Limits loads.Limits
	// PricePerM3 is the supply price used by cost estimates.
	PricePerM3 float64
	Cache      cache.Cache
	CacheTTL   time.Duration
	// Scope separates cache entries computed from different tables.
	Scope string
}

// Cached memoizes a calculation keyed by its kind and input.
func Cached[T any](ctx context.Context, env *Env, kind string, in any, fn func() (T, error)) (T, error) {
	if env == nil || env.Cache == nil {
		return fn()
	}
	b, err := json.Marshal(in)
	if err != nil {
		return fn()
	}
	return cache.Remember(ctx, env.Cache, cache.Key(kind, env.Scope, fmt.Sprint(env.Limits, env.PricePerM3), string(b)), env.CacheTTL, fn)
}
