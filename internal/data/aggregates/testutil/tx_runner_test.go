package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/rehabdir-backend/internal/data/aggregates"
	repotest "github.com/yungbote/rehabdir-backend/internal/data/repos/testutil"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
)

func TestFaultyTxRunnerCommitsOnSuccess(t *testing.T) {
	r := &FaultyTxRunner{}
	called := false
	if err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called || r.Begins != 1 || r.Commits != 1 || r.Rollbacks != 0 {
		t.Fatalf("unexpected counters called=%v begin=%d commit=%d rollback=%d", called, r.Begins, r.Commits, r.Rollbacks)
	}
}

func TestFaultyTxRunnerFailAfterBodyRollsBackRealTx(t *testing.T) {
	db := repotest.DB(t)
	commitErr := errors.New("commit failed")
	r := &FaultyTxRunner{Inner: aggregates.NewGormTxRunner(db), FailAfterBody: commitErr}

	err := r.InTx(context.Background(), func(dbc dbctx.Context) error {
		return dbc.Tx.Create(&directory.Amenity{
			TermBase: directory.TermBase{DisplayName: "Pool"},
			SlugKey:  directory.SlugKey{Slug: "pool"},
		}).Error
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	var n int64
	if err := db.Model(&directory.Amenity{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected rollback, found %d amenities", n)
	}
	if r.Rollbacks != 1 || r.Commits != 0 {
		t.Fatalf("unexpected counters commit=%d rollback=%d", r.Commits, r.Rollbacks)
	}
}

func TestGormTxRunnerRetriesRetryableFailures(t *testing.T) {
	db := repotest.DB(t)
	locked := errors.New("database is locked")
	r := &FaultyTxRunner{
		Inner:        aggregates.NewGormTxRunner(db, aggregates.WithRetryBackoff(0)),
		FailFirst:    2,
		FailFirstErr: locked,
	}
	if err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if r.Bodies != 3 {
		t.Fatalf("expected 3 bodies, got %d", r.Bodies)
	}

	r = &FaultyTxRunner{
		Inner:        aggregates.NewGormTxRunner(db, aggregates.WithMaxAttempts(1)),
		FailFirst:    1,
		FailFirstErr: locked,
	}
	if err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil }); !errors.Is(err, locked) {
		t.Fatalf("expected locked error without retry, got %v", err)
	}
	if r.Bodies != 1 {
		t.Fatalf("expected 1 body, got %d", r.Bodies)
	}
}
