package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/logger"
	"github.com/deppfellow/petclinic/internal/model"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by a Cache that holds no value for the key.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores opaque values with a TTL. Get returns ErrCacheMiss for
// absent keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache returns a Cache backed by client.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

const vetCachePrefix = "petclinic:vets"

// VetService reads vets through a cache. Cache failures only cost a trip to
// the database.
type VetService struct {
	vets  VetStore
	cache Cache
	ttl   time.Duration
}

// NewVetService caches vet listings in cache for ttl.
func NewVetService(vets VetStore, cache Cache, ttl time.Duration) *VetService {
	return &VetService{vets: vets, cache: cache, ttl: ttl}
}

// List returns every vet, from the cache when possible.
func (s *VetService) List(ctx context.Context) ([]model.Vet, error) {
	return cached(ctx, s, vetCachePrefix+":all", func() ([]model.Vet, error) {
		vets, err := s.vets.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list vets: %w", err)
		}
		return vets, nil
	})
}

// Page returns one page of vets, from the cache when possible.
func (s *VetService) Page(ctx context.Context, pageable query.Pageable) (query.Page[model.Vet], error) {
	key := fmt.Sprintf("%s:page:%d:%d", vetCachePrefix, pageable.PageNumber, pageable.PageSize)
	return cached(ctx, s, key, func() (query.Page[model.Vet], error) {
		page, err := s.vets.FindAllPaged(ctx, pageable)
		if err != nil {
			return query.Page[model.Vet]{}, fmt.Errorf("page vets: %w", err)
		}
		return page, nil
	})
}

func cached[T any](ctx context.Context, s *VetService, key string, load func() (T, error)) (T, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil && s.ttl > 0 {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			log.Warn().Str("key", key).Msg("discarding unreadable cache entry")
		case !errors.Is(err, ErrCacheMiss):
			log.Warn().Err(err).Str("key", key).Msg("vet cache unavailable")
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if s.cache != nil && s.ttl > 0 {
		if raw, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to fill vet cache")
			}
		}
	}

	return v, nil
}
