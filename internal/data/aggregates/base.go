package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/observability"
	"github.com/yungbote/rehabdir-backend/internal/platform/ctxutil"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	ctx, span := observability.StartSpan(ctx, op, attribute.String("aggregate.op", op))
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := aggregateErrorStatus(mapped)
	span.SetAttributes(attribute.String("aggregate.status", status))
	if field := domainagg.FieldOf(mapped); field != "" {
		span.SetAttributes(attribute.String("aggregate.field", field))
	}
	observability.EndSpan(span, mapped)

	if mapped != nil {
		if domainagg.IsCode(mapped, domainagg.CodeConflict) || domainagg.IsCode(mapped, domainagg.CodeVocabularyConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
		deps.Log.Debug("aggregate write failed", "op", op, "code", status, "field", domainagg.FieldOf(mapped), "request_id", ctxutil.RequestID(ctx), "error", mapped)
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
