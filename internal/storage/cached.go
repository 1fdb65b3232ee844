package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dharsanguruparan/Pokedex/internal/cache"
	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// CollectionCacheKey is the cache key holding the serialized collection.
const CollectionCacheKey = "pokedex:collection"

// CachedStore reads through a cache in front of another Store. Every Save
// deletes the cached copy before returning.
type CachedStore struct {
	next  Store
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

func NewCachedStore(next Store, c cache.Cache, ttl time.Duration, log *slog.Logger) *CachedStore {
	if c == nil {
		c = cache.NewNoop()
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedStore{next: next, cache: c, ttl: ttl, log: log}
}

func (s *CachedStore) Load(ctx context.Context) model.Collection {
	if raw, ok, err := s.cache.Get(ctx, CollectionCacheKey); err != nil {
		s.log.Warn("collection cache get failed", slog.String("error", err.Error()))
	} else if ok {
		var c model.Collection
		if err := json.Unmarshal(raw, &c); err == nil && c != nil {
			return c
		}
		s.log.Warn("collection cache entry invalid; reloading")
	}
	c := s.next.Load(ctx)
	if raw, err := json.Marshal(c); err == nil {
		if err := s.cache.Set(ctx, CollectionCacheKey, raw, s.ttl); err != nil {
			s.log.Warn("collection cache set failed", slog.String("error", err.Error()))
		}
	}
	return c
}

func (s *CachedStore) Save(ctx context.Context, c model.Collection) error {
	if err := s.next.Save(ctx, c); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, CollectionCacheKey); err != nil {
		s.log.Warn("collection cache invalidate failed", slog.String("error", err.Error()))
	}
	return nil
}
