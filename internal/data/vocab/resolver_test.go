package vocab

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	"github.com/yungbote/rehabdir-backend/internal/data/repos/testutil"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
)

func strPtr(s string) *string { return &s }

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"sober_living":   "Sober Living",
		"dual-diagnosis": "Dual Diagnosis",
		"PHP":            "Php",
		"  detox ":       "Detox",
	}
	for in, want := range cases {
		if got := Humanize(in); got != want {
			t.Fatalf("Humanize(%q): want %q got %q", in, want, got)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	r := NewResolver(repos.NewVocabRepo(db, testutil.Logger(t)), testutil.Logger(t), nil)
	dbc := dbctx.Context{Ctx: ctx}

	first, err := r.Resolve(dbc, types.KindAmenity, domainagg.TermRef{Slug: " Pool "})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve(dbc, types.KindAmenity, domainagg.TermRef{Slug: "pool"})
	if err != nil {
		t.Fatalf("Resolve again: %v", err)
	}
	if first.TermID() != second.TermID() {
		t.Fatalf("expected same id, got %s and %s", first.TermID(), second.TermID())
	}
	if first.NaturalKey() != "pool" {
		t.Fatalf("expected normalized key, got %q", first.NaturalKey())
	}
	amenity, ok := first.(*types.Amenity)
	if !ok || amenity.DisplayName != "Pool" {
		t.Fatalf("expected humanized display name, got %#v", first)
	}

	byID, err := r.Resolve(dbc, types.KindAmenity, domainagg.TermRef{ID: testutil.PtrUUID(first.TermID())})
	if err != nil || byID.TermID() != first.TermID() {
		t.Fatalf("Resolve by id: %v", err)
	}

	_, err = r.Resolve(dbc, types.KindAmenity, domainagg.TermRef{ID: testutil.PtrUUID(uuid.New())})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown id without key: expected not_found, got %v", err)
	}
	_, err = r.Resolve(dbc, types.KindAmenity, domainagg.TermRef{})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("empty ref: expected validation, got %v", err)
	}
}

func TestCreateManyReusesExistingTerms(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	r := NewResolver(repos.NewVocabRepo(db, testutil.Logger(t)), testutil.Logger(t), nil)
	dbc := dbctx.Context{Ctx: ctx}

	testutil.SeedTerm(t, ctx, db, types.KindLevelOfCare, "residential")

	rows, updated, err := r.CreateMany(dbc, types.KindLevelOfCare, []domainagg.TermRef{
		{Slug: "residential", TermAttrs: types.TermAttrs{DisplayName: strPtr("Residential Treatment"), Type: strPtr("inpatient")}},
		{Slug: "residential"},
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected duplicates collapsed, got %d rows", len(rows))
	}
	if updated != 1 {
		t.Fatalf("expected one updated row, got %d", updated)
	}

	all, err := r.FindAll(dbc, types.KindLevelOfCare)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one residential row, got %d", len(all))
	}
	loc := all[0].(*types.LevelOfCare)
	if loc.DisplayName != "Residential Treatment" || loc.Type == nil || *loc.Type != "inpatient" {
		t.Fatalf("expected attrs applied to existing row, got %#v", loc)
	}

	rows, updated, err = r.CreateMany(dbc, types.KindLevelOfCare, []domainagg.TermRef{{Slug: "php"}, {Slug: "detox"}})
	if err != nil {
		t.Fatalf("CreateMany new: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected inserts to report no updates, got %d", updated)
	}
	if rows[0].NaturalKey() != "php" || rows[1].NaturalKey() != "detox" {
		t.Fatalf("expected input order preserved")
	}
	all, _ = r.FindAll(dbc, types.KindLevelOfCare)
	if len(all) != 3 || all[0].NaturalKey() != "detox" || all[2].NaturalKey() != "residential" {
		t.Fatalf("expected findAll ordered by key, got %d rows", len(all))
	}
}

func TestResolveRecoversFromCreateRace(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	existing := testutil.SeedTerm(t, ctx, db, types.KindService, "counseling")
	racy := &racyRepo{VocabRepo: repos.NewVocabRepo(db, log), misses: 1}
	r := NewResolver(racy, log, nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		row, err := r.Resolve(dbctx.Context{Ctx: ctx, Tx: tx}, types.KindService, domainagg.TermRef{Slug: "counseling"})
		if err != nil {
			return err
		}
		if row.TermID() != existing.TermID() {
			t.Fatalf("expected race to reuse existing id")
		}
		// The outer transaction must still accept statements.
		var n int64
		return tx.Model(&types.Service{}).Count(&n).Error
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestResolveReportsUnrecoverableConflict(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	testutil.SeedTerm(t, ctx, db, types.KindService, "counseling")
	racy := &racyRepo{VocabRepo: repos.NewVocabRepo(db, log), misses: 2}
	r := NewResolver(racy, log, nil)

	_, err := r.Resolve(dbctx.Context{Ctx: ctx}, types.KindService, domainagg.TermRef{Slug: "counseling"})
	if !domainagg.IsCode(err, domainagg.CodeVocabularyConflict) {
		t.Fatalf("expected vocabulary_conflict, got %v", err)
	}
}

func TestMemoResolvesOnce(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	counting := &racyRepo{VocabRepo: repos.NewVocabRepo(db, log)}
	memo := NewResolver(counting, log, nil).NewMemo()
	dbc := dbctx.Context{Ctx: ctx}

	a, err := memo.ResolveID(dbc, types.KindFeature, domainagg.TermRef{Slug: "equine"})
	if err != nil {
		t.Fatalf("ResolveID: %v", err)
	}
	b, err := memo.ResolveID(dbc, types.KindFeature, domainagg.TermRef{Slug: "Equine"})
	if err != nil || a != b {
		t.Fatalf("expected memoized id, err=%v", err)
	}
	if counting.lookups != 1 {
		t.Fatalf("expected one key lookup, got %d", counting.lookups)
	}
}

func TestMemoPrefetchBatchesKnownKeys(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	testutil.SeedTerm(t, ctx, db, types.KindAmenity, "pool")
	testutil.SeedTerm(t, ctx, db, types.KindAmenity, "sauna")

	counting := &racyRepo{VocabRepo: repos.NewVocabRepo(db, log)}
	memo := NewResolver(counting, log, nil).NewMemo()
	dbc := dbctx.Context{Ctx: ctx}
	refs := []domainagg.TermRef{{Slug: "Pool"}, {Slug: "sauna"}, {Slug: "gym"}}

	if err := memo.Prefetch(dbc, types.KindAmenity, refs); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if counting.batches != 1 {
		t.Fatalf("expected one batch lookup, got %d", counting.batches)
	}
	for _, ref := range refs {
		if _, err := memo.ResolveID(dbc, types.KindAmenity, ref); err != nil {
			t.Fatalf("ResolveID %s: %v", ref.Slug, err)
		}
	}
	// Only the unknown key falls through to a single lookup and create.
	if counting.lookups != 1 {
		t.Fatalf("expected one key lookup after prefetch, got %d", counting.lookups)
	}
	all, _ := NewResolver(counting, log, nil).FindAll(dbc, types.KindAmenity)
	if len(all) != 3 {
		t.Fatalf("expected gym created, got %d amenities", len(all))
	}
}

// racyRepo hides existing rows from the first `misses` key lookups, the way a concurrent
// insert looks to a reader that checked before the other writer committed.
type racyRepo struct {
	repos.VocabRepo
	misses  int
	lookups int
	batches int
}

func (r *racyRepo) GetByKeys(ctx context.Context, tx *gorm.DB, kind types.VocabKind, keys []string) ([]types.VocabTerm, error) {
	r.batches++
	return r.VocabRepo.GetByKeys(ctx, tx, kind, keys)
}

func (r *racyRepo) GetByKey(ctx context.Context, tx *gorm.DB, kind types.VocabKind, key string) (types.VocabTerm, error) {
	r.lookups++
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.VocabRepo.GetByKey(ctx, tx, kind, key)
}
