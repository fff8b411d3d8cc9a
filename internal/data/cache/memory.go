package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory is an in-process backend. Entries are copied on the way in and out.
type Memory struct {
	mu sync.Mutex
	c  *ttlcache.Cache[string, []byte]
}

func NewMemory() *Memory {
	c := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, []byte](),
		ttlcache.WithCapacity[string, []byte](100_000),
	)
	go c.Start()
	return &Memory{c: c}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := m.c.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false, nil
	}
	return append([]byte(nil), item.Value()...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.c.Set(key, append([]byte(nil), value...), toTTL(ttl))
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Incr guards the read-modify-write with a mutex; counters never expire.
func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := int64(1)
	if item := m.c.Get(key); item != nil {
		if n, err := strconv.ParseInt(string(item.Value()), 10, 64); err == nil {
			cur = n
		}
	}
	next := cur + 1
	m.c.Set(key, []byte(strconv.FormatInt(next, 10)), ttlcache.NoTTL)
	return next, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Close stops the expiry janitor.
func (m *Memory) Close() {
	m.c.Stop()
}

func toTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttlcache.NoTTL
	}
	return ttl
}
