package idempotency

import (
	"context"
	"time"

	"farmgate/internal/cache"
	"farmgate/internal/errors"
)

const (
	lockSuffix = ":lock"
	dataSuffix = ":data"
	lockTTL    = 10 * time.Second   // how long a running request blocks duplicates
	dataTTL    = 24 * 7 * time.Hour // how long a finished response replays
)

type Store struct {
	cache *cache.RedisClient
}

func NewStore(c *cache.RedisClient) *Store {
	return &Store{cache: c}
}

func (s *Store) SaveResponse(ctx context.Context, key string, resp IdempotencyResponse) error {
	if err := cache.Set(s.cache, ctx, key+dataSuffix, resp, dataTTL); err != nil {
		return errors.New(errors.ErrInternal, "Internal error. Please contact support.", err)
	}

	// Drop the lock immediately so waiting requests read the stored data.
	// If the data write succeeded the operation is done either way.
	_ = cache.Del(s.cache, ctx, key+lockSuffix)
	return nil
}

func (s *Store) GetResponse(ctx context.Context, key string) (*IdempotencyResponse, bool, error) {
	return cache.Get[IdempotencyResponse](s.cache, ctx, key+dataSuffix)
}

func (s *Store) Lock(ctx context.Context, key string) (bool, error) {
	// A finished response means the lock should "fail" so the middleware
	// falls through to the replay path.
	_, found, err := s.GetResponse(ctx, key)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	return cache.SetNX(s.cache, ctx, key+lockSuffix, "1", lockTTL)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_ = cache.Del(s.cache, ctx, key+lockSuffix)
	_ = cache.Del(s.cache, ctx, key+dataSuffix)
	return nil
}
