// Package cache provides the key-value store used to resolve session tokens.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"files-manager/internal/config"

	"go.uber.org/fx"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: key not found")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A ttl <= 0 keeps the key until it is deleted.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Alive(ctx context.Context) bool
	Close() error
}

// NewCache builds the driver selected by CACHE_DRIVER and closes it on shutdown.
func NewCache(lc fx.Lifecycle, cfg *config.Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.CacheDriver {
	case config.CacheDriverRedis:
		c = NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.CacheDriverBadger:
		c, err = NewBadgerCache(cfg.BadgerPath)
	default:
		err = fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c, nil
}
