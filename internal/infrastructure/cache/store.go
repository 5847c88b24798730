// Package cache keeps rendered API responses for a short TTL. Redis is used
// when configured and reachable; otherwise entries live in process memory.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Store holds opaque byte values under string keys
type Store interface {
	// Get returns the value and true on a hit
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every entry this store owns
	Clear(ctx context.Context) error
	Close() error
}

// Key joins non-empty parts with ":"
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ":")
}

type skipKey struct{}

// SkipStore marks the value being loaded under ctx as degraded: Remember
// still returns it but does not cache it. It is a no-op outside a load.
func SkipStore(ctx context.Context) {
	if flag, ok := ctx.Value(skipKey{}).(*atomic.Bool); ok {
		flag.Store(true)
	}
}

// Remember returns the cached JSON under key, or calls load, marshals the
// result and stores it unless load called SkipStore. A failing cache never
// fails the call.
func Remember(ctx context.Context, s Store, key string, ttl time.Duration, load func(context.Context) (any, error)) ([]byte, bool, error) {
	if s != nil {
		if b, ok, err := s.Get(ctx, key); err == nil && ok {
			return b, true, nil
		}
	}

	skip := new(atomic.Bool)
	v, err := load(context.WithValue(ctx, skipKey{}, skip))
	if err != nil {
		return nil, false, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false, fmt.Errorf("encode cached value: %w", err)
	}
	if s != nil && !skip.Load() {
		_ = s.Set(ctx, key, b, ttl)
	}
	return b, false, nil
}
