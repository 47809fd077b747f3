package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/supportsim/internal/telemetry"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

// CachePolicy controls how one key is cached. A stored run never changes, so
// only keys that follow the latest run need RefreshOnHit.
type CachePolicy struct {
	TTL          time.Duration
	RefreshOnHit bool
}

const (
	defaultFetchTimeout = 15 * time.Second
	defaultSetTimeout   = 5 * time.Second
	maxRefreshDelay     = time.Second
)

// addTTLJitter spreads expirations by up to ±15s.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	jitter := time.Duration(rand.IntN(30)-15) * time.Second
	if ttl+jitter <= 0 {
		return ttl
	}
	return ttl + jitter
}

func storeInBackground[T any](c Cacher, key string, ttl time.Duration, logger *zap.Logger, v T) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
		defer cancel()

		ttl := addTTLJitter(ttl)
		if err := c.Set(ctx, key, v, ttl); err != nil {
			logger.Warn("failed to set cache", zap.String("key", key), zap.Error(err))
			return
		}
		logger.Debug("cache populated", zap.String("key", key), zap.Duration("ttl", ttl))
	}()
}

func triggerBackgroundRefresh[T any](
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) {
	go func() {
		time.Sleep(rand.N(maxRefreshDelay))

		_, _, _ = sf.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			defer cancel()

			value, err := fn(ctx)
			if err != nil {
				logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}
			storeInBackground(c, key, ttl, logger, value)
			return value, nil
		})
	}()
}

// FindAndCache reads key through the cache. A hit is returned immediately,
// and refreshed in the background when the policy asks for it; concurrent
// misses for the same key share one fetch. A nil cache calls fn directly.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	policy CachePolicy,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		return fn(ctx)
	}

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		telemetry.CacheLookupsTotal.WithLabelValues("hit").Inc()
		logger.Debug("cache hit", zap.String("key", key))
		if policy.RefreshOnHit {
			triggerBackgroundRefresh(c, sf, key, policy.TTL, logger, fn)
		}
		return cached, nil

	case errors.Is(err, redis.Nil):
		telemetry.CacheLookupsTotal.WithLabelValues("miss").Inc()
		logger.Debug("cache miss", zap.String("key", key))

	default:
		telemetry.CacheLookupsTotal.WithLabelValues("error").Inc()
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return zero, err
		}
		storeInBackground(c, key, policy.TTL, logger, value)
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}
	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	}
	return value, nil
}
