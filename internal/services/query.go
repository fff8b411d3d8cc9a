package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
)

// Page is applied in memory after the full filtered list is loaded (and cached).
// Take <= 0 means no limit.
type Page struct {
	Skip int `json:"skip"`
	Take int `json:"take"`
}

func (p Page) validate() error {
	if p.Skip < 0 {
		return domainagg.Validation("directory.findMany", "skip", "must not be negative")
	}
	if p.Take < 0 {
		return domainagg.Validation("directory.findMany", "take", "must not be negative")
	}
	return nil
}

func paginate[T any](rows []*T, p Page) []*T {
	if p.Skip >= len(rows) {
		return []*T{}
	}
	rows = rows[p.Skip:]
	if p.Take > 0 && p.Take < len(rows) {
		rows = rows[:p.Take]
	}
	return rows
}

// findPoint serves a by-id read from the point cache, coalescing concurrent misses for
// the same key. Missing rows are not cached. A caller whose ctx ends stops waiting
// while the shared load runs on for the others.
func findPoint[T any](ctx context.Context, s *directoryService, owner types.OwnerKind, id uuid.UUID, load func(context.Context) (*T, error)) (*T, error) {
	ns := owner.Namespace()
	if s.cache != nil {
		var hit T
		if s.cache.GetPoint(ctx, ns, id.String(), &hit) {
			return &hit, nil
		}
	}
	ch := s.group.DoChan(ns+":"+id.String(), func() (interface{}, error) {
		// Shared by every waiter; one caller leaving must not fail the rest.
		lctx := context.WithoutCancel(ctx)
		row, err := load(lctx)
		if err != nil {
			return nil, err
		}
		if row != nil && s.cache != nil {
			s.cache.SetPoint(lctx, ns, id.String(), row)
		}
		return row, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("find %s %s: %w", owner, id, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, fmt.Errorf("find %s %s: %w", owner, id, res.Err)
	}
	row, _ := res.Val.(*T)
	return row, nil
}

// findMany serves a filtered list from the versioned list cache. The key covers the
// filter only, so every page of one filter shares an entry.
func findMany[T any](ctx context.Context, s *directoryService, owner types.OwnerKind, f any, page Page, load func(context.Context) ([]*T, error)) ([]*T, error) {
	if err := page.validate(); err != nil {
		return nil, err
	}
	ns := owner.Namespace()
	key := ""
	if s.cache != nil {
		key = s.cache.ListKey(ctx, ns, "findMany", f)
		var hit []*T
		if s.cache.GetList(ctx, key, &hit) {
			return paginate(hit, page), nil
		}
	}
	rows, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("find many %s: %w", owner, err)
	}
	if s.cache != nil {
		s.cache.SetList(ctx, key, rows)
	}
	return paginate(rows, page), nil
}
