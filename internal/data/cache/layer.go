package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/yungbote/rehabdir-backend/internal/observability"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

// Layer wraps a backend with namespace versioning and JSON entries.
// Backend failures are logged and reported as misses; they never fail the caller's read.
type Layer struct {
	c       Cache
	log     *logger.Logger
	metrics *observability.Metrics

	pointTTL     time.Duration
	listTTL      time.Duration
	invalidation PointInvalidation

	// bumpMu serializes get+set bumps for backends without Incrementer.
	bumpMu sync.Mutex
}

type LayerOptions struct {
	PointTTL          time.Duration
	ListTTL           time.Duration
	PointInvalidation PointInvalidation
	Metrics           *observability.Metrics
}

func NewLayer(c Cache, log *logger.Logger, opts LayerOptions) *Layer {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.PointTTL <= 0 {
		opts.PointTTL = 5 * time.Minute
	}
	if opts.PointInvalidation == "" {
		opts.PointInvalidation = PointInvalidationTTL
	}
	return &Layer{
		c:            c,
		log:          log.With("service", "CacheLayer"),
		metrics:      opts.Metrics,
		pointTTL:     opts.PointTTL,
		listTTL:      opts.ListTTL,
		invalidation: opts.PointInvalidation,
	}
}

func (l *Layer) Backend() Cache { return l.c }

func (l *Layer) PointInvalidation() PointInvalidation { return l.invalidation }

// Version returns the current version of ns. An unset tag reads as 1.
func (l *Layer) Version(ctx context.Context, ns string) (int64, error) {
	raw, ok, err := l.c.Get(ctx, TagKey(ns))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || n < 1 {
		return 1, nil
	}
	return n, nil
}

// Bump advances the version of ns and returns the new value.
func (l *Layer) Bump(ctx context.Context, ns string) (int64, error) {
	if inc, ok := l.c.(Incrementer); ok {
		return inc.Incr(ctx, TagKey(ns))
	}
	l.bumpMu.Lock()
	defer l.bumpMu.Unlock()
	cur, err := l.Version(ctx, ns)
	if err != nil {
		return 0, err
	}
	next := cur + 1
	if err := l.c.Set(ctx, TagKey(ns), []byte(strconv.FormatInt(next, 10)), 0); err != nil {
		return 0, err
	}
	return next, nil
}

// AfterWrite bumps ns and applies the point policy to ids. Deleted rows always drop
// their point entries.
func (l *Layer) AfterWrite(ctx context.Context, ns string, ids []string, deleted bool) {
	if _, err := l.Bump(ctx, ns); err != nil {
		l.log.Warn("cache bump failed", "namespace", ns, "error", err)
	}
	if !deleted && l.invalidation != PointInvalidationOnWrite {
		return
	}
	for _, id := range ids {
		if err := l.c.Delete(ctx, PointKey(ns, id)); err != nil {
			l.log.Warn("cache point delete failed", "namespace", ns, "id", id, "error", err)
		}
	}
}

// ListKey returns the versioned key for (ns, op, args), or "" when the version cannot be read.
func (l *Layer) ListKey(ctx context.Context, ns, op string, args any) string {
	ver, err := l.Version(ctx, ns)
	if err != nil {
		l.metrics.IncCacheLookup("list", "error")
		l.log.Warn("cache version read failed", "namespace", ns, "error", err)
		return ""
	}
	key, err := ListKey(ns, op, ver, args)
	if err != nil {
		l.log.Warn("cache key build failed", "namespace", ns, "op", op, "error", err)
		return ""
	}
	return key
}

// GetList decodes the entry at key into dst. An empty key is a miss.
func (l *Layer) GetList(ctx context.Context, key string, dst any) bool {
	if key == "" {
		return false
	}
	return l.getJSON(ctx, "list", key, dst)
}

func (l *Layer) SetList(ctx context.Context, key string, v any) {
	if key == "" {
		return
	}
	l.setJSON(ctx, key, v, l.listTTL)
}

func (l *Layer) GetPoint(ctx context.Context, ns, id string, dst any) bool {
	return l.getJSON(ctx, "point", PointKey(ns, id), dst)
}

func (l *Layer) SetPoint(ctx context.Context, ns, id string, v any) {
	l.setJSON(ctx, PointKey(ns, id), v, l.pointTTL)
}

func (l *Layer) getJSON(ctx context.Context, kind, key string, dst any) bool {
	raw, ok, err := l.c.Get(ctx, key)
	if err != nil {
		l.metrics.IncCacheLookup(kind, "error")
		l.log.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		l.metrics.IncCacheLookup(kind, "miss")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		l.metrics.IncCacheLookup(kind, "error")
		l.log.Warn("cache entry undecodable", "key", key, "error", err)
		return false
	}
	l.metrics.IncCacheLookup(kind, "hit")
	return true
}

func (l *Layer) setJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		l.log.Warn("cache entry unencodable", "key", key, "error", err)
		return
	}
	if err := l.c.Set(ctx, key, raw, ttl); err != nil {
		l.log.Warn("cache set failed", "key", key, "error", err)
	}
}

// Ping reports backend liveness when the backend supports it.
func (l *Layer) Ping(ctx context.Context) error {
	if p, ok := l.c.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
