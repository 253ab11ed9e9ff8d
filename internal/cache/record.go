// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// record.go provides a Valkey-backed cache for public slug lookups.
// The reader endpoint resolves records by their full slug far more
// often than anything mutates them, so successful lookups are stored
// as JSON and invalidated on every write to the record or its slug.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"wikibase/internal/models"
)

const (
	// recordKeyPrefix is the Valkey key prefix for cached records.
	recordKeyPrefix = "record:"

	// DefaultRecordTTL is how long a cached record stays valid.
	DefaultRecordTTL = 5 * time.Minute
)

// RecordCache manages slug-keyed information records in Valkey.
type RecordCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecordCache creates a new record cache backed by the given Valkey client.
func NewRecordCache(client *redis.Client, ttl time.Duration) *RecordCache {
	if ttl == 0 {
		ttl = DefaultRecordTTL
	}
	return &RecordCache{client: client, ttl: ttl}
}

// Get retrieves a cached record by its full slug. Returns false on miss
// or decode failure.
func (rc *RecordCache) Get(ctx context.Context, slug string) (*models.Information, bool) {
	val, err := rc.client.Get(ctx, recordKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("record cache get error", "slug", slug, "error", err)
		return nil, false
	}

	var rec models.Information
	if err := json.Unmarshal(val, &rec); err != nil {
		slog.Warn("record cache decode error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("record cache hit", "slug", slug)
	return &rec, true
}

// Set stores a record under its full slug with the configured TTL.
func (rc *RecordCache) Set(ctx context.Context, rec *models.Information) {
	val, err := json.Marshal(rec)
	if err != nil {
		slog.Warn("record cache encode error", "slug", rec.Slug, "error", err)
		return
	}
	if err := rc.client.Set(ctx, recordKeyPrefix+rec.Slug, val, rc.ttl).Err(); err != nil {
		slog.Warn("record cache set error", "slug", rec.Slug, "error", err)
	}
}

// Invalidate removes the cached entries for the given slugs. An update
// that re-slugs a record passes both the old and the new slug.
func (rc *RecordCache) Invalidate(ctx context.Context, slugs ...string) {
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if err := rc.client.Del(ctx, recordKeyPrefix+slug).Err(); err != nil {
			slog.Warn("record cache invalidate error", "slug", slug, "error", err)
		}
	}
}
