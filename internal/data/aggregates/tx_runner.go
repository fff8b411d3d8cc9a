package aggregates

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbpkg "github.com/yungbote/rehabdir-backend/internal/data/db"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
)

// TxRunner owns the transaction boundary of one aggregate write. The body may run more
// than once, so it must not leak state outside the transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type TxOption func(*gormTxRunner)

// WithMaxAttempts bounds how often a transaction failing with a serialization failure,
// deadlock or lock timeout is re-run. 1 disables retries.
func WithMaxAttempts(n int) TxOption {
	return func(r *gormTxRunner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

func WithRetryBackoff(d time.Duration) TxOption {
	return func(r *gormTxRunner) { r.backoff = d }
}

type gormTxRunner struct {
	db          *gorm.DB
	maxAttempts int
	backoff     time.Duration
}

func NewGormTxRunner(db *gorm.DB, opts ...TxOption) TxRunner {
	r := &gormTxRunner{db: db, maxAttempts: 3, backoff: 25 * time.Millisecond}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	for attempt := 1; ; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
		if err == nil || attempt >= r.maxAttempts || !dbpkg.IsRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}
}
