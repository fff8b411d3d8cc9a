package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/rehabdir-backend/internal/data/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
)

// FaultyTxRunner wraps a real runner and injects failures around the body.
//
// FailAfterBody is returned from inside the transaction once the body succeeded, so
// the wrapped runner really rolls back. FailFirst makes the first N bodies fail with
// FailFirstErr, which exercises callers that retry.
type FaultyTxRunner struct {
	Inner aggregates.TxRunner

	FailBegin     error
	FailAfterBody error
	FailFirst     int
	FailFirstErr  error

	mu        sync.Mutex
	Begins    int
	Bodies    int
	Commits   int
	Rollbacks int
}

var _ aggregates.TxRunner = (*FaultyTxRunner)(nil)

func (r *FaultyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.Begins++
	failBegin := r.FailBegin
	r.mu.Unlock()
	if failBegin != nil {
		return failBegin
	}

	body := func(dbc dbctx.Context) error {
		r.mu.Lock()
		r.Bodies++
		injected := r.Bodies <= r.FailFirst
		r.mu.Unlock()
		if injected {
			return r.FailFirstErr
		}
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return r.FailAfterBody
	}

	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	if err != nil {
		r.Rollbacks++
	} else {
		r.Commits++
	}
	r.mu.Unlock()
	return err
}
