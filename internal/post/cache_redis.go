// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-blog/internal/platform/constants"
	"github.com/taibuivan/yomira-blog/internal/platform/metrics"
)

// Cache lookup kinds used in keys and metric labels.
const (
	cacheKindPage  = "page"
	cacheKindCount = "count"
)

/*
CachedRepository is a read-through decorator over a [Repository].

Description: List pages ([Repository.FindMany]) and counts ([Repository.Count])
are cached in Redis under keys stamped with a generation number. Every
successful write increments the generation, which retires all cached pages at
once without scanning keys; stale generations expire through their TTL.

Point lookups are never cached, so slug uniqueness resolution and existence
checks always read the underlying store. Redis failures are logged and the
call falls through to the store.
*/
type CachedRepository struct {
	next   Repository
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with a Redis list cache.
func NewCachedRepository(next Repository, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// # Cached Reads

// FindMany serves a list page from the cache or loads and stores it.
func (repository *CachedRepository) FindMany(context context.Context, query Query) ([]*Post, error) {
	key, ok := repository.key(context, cacheKindPage, query)
	if ok {
		var posts []*Post
		if repository.load(context, cacheKindPage, key, &posts) {
			return posts, nil
		}
	}

	posts, err := repository.next.FindMany(context, query)
	if err != nil {
		return nil, err
	}

	if ok {
		repository.store(context, key, posts)
	}
	return posts, nil
}

// Count serves a total from the cache or loads and stores it.
func (repository *CachedRepository) Count(context context.Context, where Predicate) (int, error) {
	key, ok := repository.key(context, cacheKindCount, where)
	if ok {
		var total int
		if repository.load(context, cacheKindCount, key, &total) {
			return total, nil
		}
	}

	total, err := repository.next.Count(context, where)
	if err != nil {
		return 0, err
	}

	if ok {
		repository.store(context, key, total)
	}
	return total, nil
}

// # Pass-through Reads

func (repository *CachedRepository) FindByID(context context.Context, id string) (*Post, error) {
	return repository.next.FindByID(context, id)
}

func (repository *CachedRepository) FindBySlug(context context.Context, slug string) (*Post, error) {
	return repository.next.FindBySlug(context, slug)
}

// # Writes

func (repository *CachedRepository) Create(context context.Context, post NewPost) (*Post, error) {
	created, err := repository.next.Create(context, post)
	if err == nil {
		repository.bump(context)
	}
	return created, err
}

func (repository *CachedRepository) Update(context context.Context, id string, changes Changes) (*Post, error) {
	updated, err := repository.next.Update(context, id, changes)
	if err == nil {
		repository.bump(context)
	}
	return updated, err
}

func (repository *CachedRepository) Delete(context context.Context, id string) error {
	err := repository.next.Delete(context, id)
	if err == nil {
		repository.bump(context)
	}
	return err
}

// IncrementViewCount changes viewCount and updatedAt, both visible in list
// pages, so it retires the cached generation like any other write.
func (repository *CachedRepository) IncrementViewCount(context context.Context, id string, delta int) (*Post, error) {
	updated, err := repository.next.IncrementViewCount(context, id, delta)
	if err == nil {
		repository.bump(context)
	}
	return updated, err
}

// # Helpers

// key derives the cache key for a lookup under the current generation.
// It reports false when the generation cannot be read.
func (repository *CachedRepository) key(context context.Context, kind string, params any) (string, bool) {
	generation, err := repository.client.Get(context, constants.RedisKeyPostGeneration).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		repository.fail(context, kind, "post_cache_generation_failed", err)
		return "", false
	}

	return listCacheKey(generation, kind, params), true
}

// listCacheKey hashes the lookup parameters into a bounded key.
func listCacheKey(generation int64, kind string, params any) string {
	raw, _ := json.Marshal(params)
	sum := sha1.Sum(raw)
	return constants.RedisPrefixPostList + strconv.FormatInt(generation, 10) + ":" + kind + ":" + hex.EncodeToString(sum[:])
}

func (repository *CachedRepository) load(context context.Context, kind, key string, target any) bool {
	raw, err := repository.client.Get(context, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ListCacheLookups.WithLabelValues(kind, metrics.CacheMiss).Inc()
		return false
	}
	if err != nil {
		repository.fail(context, kind, "post_cache_read_failed", err)
		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		repository.fail(context, kind, "post_cache_decode_failed", err)
		return false
	}

	metrics.ListCacheLookups.WithLabelValues(kind, metrics.CacheHit).Inc()
	return true
}

func (repository *CachedRepository) store(context context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := repository.client.Set(context, key, raw, repository.ttl).Err(); err != nil {
		repository.logger.WarnContext(context, "post_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (repository *CachedRepository) bump(context context.Context) {
	if err := repository.client.Incr(context, constants.RedisKeyPostGeneration).Err(); err != nil {
		repository.logger.WarnContext(context, "post_cache_invalidate_failed", slog.Any("error", err))
	}
}

func (repository *CachedRepository) fail(context context.Context, kind, event string, err error) {
	metrics.ListCacheLookups.WithLabelValues(kind, metrics.CacheError).Inc()
	repository.logger.WarnContext(context, event, slog.Any("error", err))
}
