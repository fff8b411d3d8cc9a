// Package cache holds the read-path cache: a pluggable key/value backend, per-namespace
// version tags that make list keys self-invalidating, and point entries keyed by id.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/rehabdir-backend/internal/platform/envutil"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// Cache is the minimal backend contract. A zero ttl means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Incrementer is implemented by backends with an atomic counter. A missing key counts as 1,
// so the first Incr returns 2.
type Incrementer interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PointInvalidation selects how by-id entries react to writes.
type PointInvalidation string

const (
	// PointInvalidationTTL leaves point entries alone on update; they go stale for at most PointTTL.
	PointInvalidationTTL PointInvalidation = "ttl"
	// PointInvalidationOnWrite deletes the point entry alongside every namespace bump.
	PointInvalidationOnWrite PointInvalidation = "on_write"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Backend           string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	PointTTL          time.Duration
	ListTTL           time.Duration
	PointInvalidation PointInvalidation
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Backend:       strings.ToLower(envutil.String("CACHE_BACKEND", BackendMemory, log)),
		RedisAddr:     envutil.String("REDIS_ADDR", "", log),
		RedisPassword: envutil.String("REDIS_PASSWORD", "", nil),
		RedisDB:       envutil.Int("REDIS_DB", 0, log),
		PointTTL:      envutil.Seconds("CACHE_POINT_TTL_SECONDS", 5*time.Minute, log),
		ListTTL:       envutil.Seconds("CACHE_LIST_TTL_SECONDS", 10*time.Minute, log),
		PointInvalidation: PointInvalidation(strings.ToLower(
			envutil.String("CACHE_POINT_INVALIDATION", string(PointInvalidationTTL), log),
		)),
	}
	if cfg.PointInvalidation != PointInvalidationOnWrite {
		cfg.PointInvalidation = PointInvalidationTTL
	}
	return cfg
}

// Open builds the configured backend. The returned close func releases its resources.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (Cache, func() error, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		m := NewMemory()
		return m, func() error { m.Close(); return nil }, nil
	case BackendRedis:
		r, err := NewRedis(ctx, RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, log)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.Backend)
	}
}
