// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// view.go caches encoded public JSON responses in Valkey. Entries are
// grouped by scope (the collection they were built from) so a change to
// one collection drops only the views that depend on it.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"revista/internal/store"
)

const (
	// viewKeyPrefix is the Valkey key prefix for cached views.
	viewKeyPrefix = "view:"

	// DefaultViewTTL is how long an encoded view stays cached.
	DefaultViewTTL = 5 * time.Minute

	// ScopeSearch groups views built from both collections.
	ScopeSearch = "search"

	invalidateTimeout = 2 * time.Second
)

// ViewCache stores encoded views. A nil *ViewCache is valid and never
// hits, so the service runs unchanged without Valkey.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache creates a view cache backed by client. A nil client yields
// a nil cache.
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultViewTTL
	}
	return &ViewCache{client: client, ttl: ttl}
}

// Key builds the cache key of a view within scope, built against store
// snapshot version.
func Key(scope string, version uint64, name string) string {
	return viewKeyPrefix + scope + ":" + strconv.FormatUint(version, 10) + ":" + name
}

// Get retrieves a cached view. Returns false on miss.
func (vc *ViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if vc == nil {
		return nil, false
	}
	val, err := vc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("view cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("view cache hit", "key", key)
	return val, true
}

// Set stores an encoded view with the configured TTL.
func (vc *ViewCache) Set(ctx context.Context, key string, body []byte) {
	if vc == nil {
		return
	}
	if err := vc.client.Set(ctx, key, body, vc.ttl).Err(); err != nil {
		slog.Warn("view cache set error", "key", key, "error", err)
	}
}

// Invalidate removes every view of scope.
func (vc *ViewCache) Invalidate(ctx context.Context, scope string) {
	if vc == nil {
		return
	}
	vc.deletePattern(ctx, viewKeyPrefix+scope+":*")
}

// InvalidateAll removes every cached view.
func (vc *ViewCache) InvalidateAll(ctx context.Context) {
	if vc == nil {
		return
	}
	vc.deletePattern(ctx, viewKeyPrefix+"*")
}

func (vc *ViewCache) deletePattern(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := vc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("view cache scan error", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := vc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("view cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("view cache invalidated", "pattern", pattern, "deleted", deleted)
	}
}

// Watch invalidates the views of a collection, and every search view,
// whenever s changes that collection. The returned func stops watching.
func (vc *ViewCache) Watch(s *store.ContentStore) func() {
	if vc == nil {
		return func() {}
	}
	return s.Subscribe(func(c store.Collection) {
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		defer cancel()
		vc.Invalidate(ctx, string(c))
		vc.Invalidate(ctx, ScopeSearch)
	})
}
