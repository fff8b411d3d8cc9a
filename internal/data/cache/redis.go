package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis is the shared backend; bumps use INCR so concurrent writers never lose a version.
type Redis struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedis(ctx context.Context, opts RedisOptions, log *logger.Logger) (*Redis, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{log: log.With("service", "RedisCache"), rdb: rdb}, nil
}

// Client exposes the underlying client for health and metrics collectors.
func (r *Redis) Client() *goredis.Client { return r.rdb }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// Incr seeds a missing counter with 1 before incrementing, in one round trip.
func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	var incr *goredis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.SetNX(ctx, key, 1, 0)
		incr = p.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
