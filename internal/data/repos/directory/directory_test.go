package directory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/yungbote/rehabdir-backend/internal/data/repos/testutil"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
)

func TestVocabRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewVocabRepo(db, testutil.Logger(t))

	testutil.SeedTerm(t, ctx, db, types.KindAmenity, "pool")
	testutil.SeedTerm(t, ctx, db, types.KindAmenity, "gym")
	lang := testutil.SeedTerm(t, ctx, db, types.KindLanguage, "es")

	got, err := repo.GetByKey(ctx, nil, types.KindAmenity, "pool")
	if err != nil || got == nil || got.NaturalKey() != "pool" {
		t.Fatalf("GetByKey: got=%v err=%v", got, err)
	}
	missing, err := repo.GetByKey(ctx, nil, types.KindAmenity, "sauna")
	if err != nil || missing != nil {
		t.Fatalf("GetByKey(missing): got=%v err=%v", missing, err)
	}
	byID, err := repo.GetByID(ctx, nil, types.KindLanguage, lang.TermID())
	if err != nil || byID == nil || byID.NaturalKey() != "es" {
		t.Fatalf("GetByID: got=%v err=%v", byID, err)
	}

	all, err := repo.ListAll(ctx, nil, types.KindAmenity)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 || all[0].NaturalKey() != "gym" || all[1].NaturalKey() != "pool" {
		t.Fatalf("ListAll: expected [gym pool], got %d rows", len(all))
	}

	some, err := repo.GetByKeys(ctx, nil, types.KindAmenity, []string{"pool", "sauna"})
	if err != nil || len(some) != 1 {
		t.Fatalf("GetByKeys: got=%d err=%v", len(some), err)
	}

	if _, err := repo.ListAll(ctx, nil, types.VocabKind("nope")); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRootReposAndJoins(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	orgs := NewOrgRepo(db, log)
	campuses := NewCampusRepo(db, log)
	programs := NewProgramRepo(db, log)
	joins := NewJoinRepo(db, log)

	org := testutil.SeedOrg(t, ctx, db, "sunrise")
	camp := testutil.SeedCampus(t, ctx, db, org.ID, "sunrise-malibu", "Malibu", "CA")
	loc := testutil.SeedTerm(t, ctx, db, types.KindLevelOfCare, "residential")
	prog := testutil.SeedProgram(t, ctx, db, camp.ID, loc.TermID(), "sunrise-residential")
	pool := testutil.SeedTerm(t, ctx, db, types.KindAmenity, "pool")

	rel, ok := directory.RelationFor(types.OwnerOrg, "amenities")
	if !ok {
		t.Fatalf("missing org amenities relation")
	}
	for i := 0; i < 2; i++ {
		if err := joins.AddEdges(ctx, nil, rel, org.ID, []uuid.UUID{pool.TermID(), pool.TermID()}); err != nil {
			t.Fatalf("AddEdges: %v", err)
		}
	}
	ids, err := joins.ListTermIDs(ctx, nil, rel, org.ID)
	if err != nil || len(ids) != 1 || ids[0] != pool.TermID() {
		t.Fatalf("ListTermIDs: ids=%v err=%v", ids, err)
	}

	g, err := orgs.GetGraph(ctx, nil, org.ID)
	if err != nil || g == nil {
		t.Fatalf("GetGraph: %v", err)
	}
	if len(g.Amenities) != 1 || len(g.Campuses) != 1 || len(g.Campuses[0].Programs) != 1 {
		t.Fatalf("GetGraph: unexpected shape amenities=%d campuses=%d", len(g.Amenities), len(g.Campuses))
	}
	if g.Campuses[0].Programs[0].LevelOfCare == nil {
		t.Fatalf("GetGraph: program level of care not preloaded")
	}

	bySlug, err := campuses.GetBySlug(ctx, nil, "sunrise-malibu")
	if err != nil || bySlug == nil || bySlug.ID != camp.ID {
		t.Fatalf("GetBySlug: %v", err)
	}

	campIDs, err := campuses.IDsByOrgIDs(ctx, nil, []uuid.UUID{org.ID})
	if err != nil || len(campIDs) != 1 {
		t.Fatalf("IDsByOrgIDs: %v %v", campIDs, err)
	}
	progIDs, err := programs.IDsByCampusIDs(ctx, nil, campIDs)
	if err != nil || len(progIDs) != 1 || progIDs[0] != prog.ID {
		t.Fatalf("IDsByCampusIDs: %v %v", progIDs, err)
	}

	if err := orgs.UpdateFields(ctx, nil, org.ID, map[string]interface{}{"city": "Malibu"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	found, err := orgs.FindMany(ctx, nil, ListQuery{Where: clause.Eq{Column: clause.Column{Name: "city"}, Value: "Malibu"}})
	if err != nil || len(found) != 1 {
		t.Fatalf("FindMany: n=%d err=%v", len(found), err)
	}

	if err := joins.RemoveEdges(ctx, nil, rel, org.ID, []uuid.UUID{pool.TermID()}); err != nil {
		t.Fatalf("RemoveEdges: %v", err)
	}
	ids, _ = joins.ListTermIDs(ctx, nil, rel, org.ID)
	if len(ids) != 0 {
		t.Fatalf("expected no edges after remove, got %d", len(ids))
	}

	n, err := programs.DeleteByIDs(ctx, nil, progIDs)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: n=%d err=%v", n, err)
	}
}

func TestFinanceAndContentRepos(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	finance := NewFinanceRepo(db, log)
	content := NewContentRepo(db, log)

	org := testutil.SeedOrg(t, ctx, db, "harbor")
	payer := testutil.SeedTerm(t, ctx, db, types.KindInsurancePayer, "aetna")

	edge := &types.InsurancePayerEdge{TermID: payer.TermID(), NetworkStatus: directory.NetworkIn}
	edge.SetOwner(types.ScopeOrg, org.ID)
	if err := finance.CreatePayerEdges(ctx, nil, []*types.InsurancePayerEdge{edge}); err != nil {
		t.Fatalf("CreatePayerEdges: %v", err)
	}
	count := func(model interface{}) int64 {
		var n int64
		if err := db.Model(model).Where("scope = ? AND rehab_org_id = ?", types.ScopeOrg, org.ID).Count(&n).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		return n
	}
	if n := count(&types.InsurancePayerEdge{}); n != 1 {
		t.Fatalf("expected one payer edge, got %d", n)
	}

	item := &types.ContentItem{Kind: directory.ContentReview, Body: "good"}
	item.SetOwner(types.ScopeOrg, org.ID)
	if err := content.Create(ctx, nil, []*types.ContentItem{item}); err != nil {
		t.Fatalf("content Create: %v", err)
	}
	if n := count(&types.ContentItem{}); n != 1 {
		t.Fatalf("expected one content item, got %d", n)
	}

	if err := finance.DeleteByOwners(ctx, nil, types.ScopeOrg, []uuid.UUID{org.ID}); err != nil {
		t.Fatalf("finance DeleteByOwners: %v", err)
	}
	if err := content.DeleteByOwners(ctx, nil, types.ScopeOrg, []uuid.UUID{org.ID}); err != nil {
		t.Fatalf("content DeleteByOwners: %v", err)
	}
	if edges, items := count(&types.InsurancePayerEdge{}), count(&types.ContentItem{}); edges != 0 || items != 0 {
		t.Fatalf("expected owner rows removed, edges=%d items=%d", edges, items)
	}
}
