// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache for rendered public page payloads.
// When an anonymous visitor requests a published page, the assembled JSON
// response is stored in Valkey so subsequent requests skip the DB reads,
// sorting, and theme derivation entirely. Entries are invalidated whenever
// the owner publishes or changes theme, font, or profile.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached page payloads.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a cached page payload stays valid.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages public page payload caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload for a page slug. Returns false on miss.
func (pc *PageCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "slug", slug)
	return val, true
}

// Set stores an assembled payload for a page slug with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, slug string, payload []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+slug, payload, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes a single page from the cache by its slug.
func (pc *PageCache) Invalidate(ctx context.Context, slug string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+slug).Err(); err != nil {
		slog.Warn("page cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("page cache invalidated", "slug", slug)
}
