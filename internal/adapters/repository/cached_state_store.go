package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizreel/engagement-engine/internal/core/domain"
)

var _ domain.StateStore = (*CachedStateStore)(nil)

const cacheTTL = 30 * time.Minute

// cacheMiss marks keys Postgres confirmed absent, so repeated misses (e.g.
// legacy-key probes) don't hit the database every time.
const cacheMiss = "\x00miss"

// CachedStateStore layers redis in front of the durable store. Reads come
// from the cache when warm; writes go through to the durable store first and
// then refresh the cache. Redis failures are absorbed: the durable store is
// always the source of truth.
type CachedStateStore struct {
	next  domain.StateStore
	cache *redis.Client
}

func NewCachedStateStore(next domain.StateStore, cache *redis.Client) *CachedStateStore {
	return &CachedStateStore{
		next:  next,
		cache: cache,
	}
}

func (r *CachedStateStore) cacheKey(key string) string {
	return fmt.Sprintf("state:%s", key)
}

func (r *CachedStateStore) Get(ctx context.Context, key string) (string, error) {
	ck := r.cacheKey(key)

	val, err := r.cache.Get(ctx, ck).Result()
	if err == nil {
		if val == cacheMiss {
			return "", domain.ErrKeyNotFound
		}
		return val, nil
	}
	if err != redis.Nil {
		log.Printf("[CACHE] Redis read error for %s: %v", key, err)
	}

	val, err = r.next.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		if setErr := r.cache.Set(ctx, ck, cacheMiss, cacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error for %s: %v", key, setErr)
		}
		return "", err
	}
	if err != nil {
		return "", err
	}

	if setErr := r.cache.Set(ctx, ck, val, cacheTTL).Err(); setErr != nil {
		log.Printf("[CACHE] Redis set error for %s: %v", key, setErr)
	}

	return val, nil
}

func (r *CachedStateStore) Set(ctx context.Context, key string, value string) error {
	if err := r.next.Set(ctx, key, value); err != nil {
		return err
	}

	if err := r.cache.Set(ctx, r.cacheKey(key), value, cacheTTL).Err(); err != nil {
		log.Printf("[CACHE] Failed to refresh %s, invalidating: %v", key, err)
		r.cache.Del(ctx, r.cacheKey(key))
	}

	return nil
}

func (r *CachedStateStore) Remove(ctx context.Context, key string) error {
	if err := r.next.Remove(ctx, key); err != nil {
		return err
	}

	if err := r.cache.Del(ctx, r.cacheKey(key)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate %s: %v", key, err)
	}

	return nil
}
