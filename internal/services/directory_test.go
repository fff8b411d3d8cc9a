package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/rehabdir-backend/internal/data/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/data/cache"
	"github.com/yungbote/rehabdir-backend/internal/data/filter"
	"github.com/yungbote/rehabdir-backend/internal/data/graph"
	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	"github.com/yungbote/rehabdir-backend/internal/data/repos/testutil"
	"github.com/yungbote/rehabdir-backend/internal/data/vocab"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/pkg/optional"
	"github.com/yungbote/rehabdir-backend/internal/services"
)

type fixture struct {
	db    *gorm.DB
	dir   services.DirectoryService
	vocab services.VocabService
}

func newFixture(t *testing.T, invalidation cache.PointInvalidation) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	mem := cache.NewMemory()
	t.Cleanup(mem.Close)
	layer := cache.NewLayer(mem, log, cache.LayerOptions{PointInvalidation: invalidation})
	resolver := vocab.NewResolver(set.Vocab, log, nil)
	agg := aggregates.NewDirectoryAggregate(aggregates.DirectoryDeps{
		BaseDeps: aggregates.BaseDeps{DB: db, Log: log},
		Repos:    set,
		Builder:  graph.NewBuilder(resolver, log),
		Cache:    layer,
	})
	return &fixture{
		db:    db,
		dir:   services.NewDirectoryService(db, log, agg, set, layer),
		vocab: services.NewVocabService(log, aggregates.NewGormTxRunner(db), resolver, layer),
	}
}

func orgInput(name, slug string) domainagg.OrgInput {
	return domainagg.OrgInput{Name: optional.Of(name), Slug: optional.Of(slug)}
}

func renameDirect(t *testing.T, db *gorm.DB, id uuid.UUID, name string) {
	t.Helper()
	require.NoError(t, db.Model(&types.RehabOrg{}).Where("id = ?", id).Update("name", name).Error)
}

func TestFindOrgByIDServesPointCache(t *testing.T) {
	f := newFixture(t, cache.PointInvalidationTTL)
	ctx := context.Background()

	org, err := f.dir.CreateOrg(ctx, orgInput("Harbor", "harbor"))
	require.NoError(t, err)

	got, err := f.dir.FindOrgByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "Harbor", got.Name)

	// A write that bypasses the engine is invisible until the entry expires.
	renameDirect(t, f.db, org.ID, "Harbor Renamed")
	got, err = f.dir.FindOrgByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "Harbor", got.Name)

	missing, err := f.dir.FindOrgByID(ctx, uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPointInvalidationOnWrite(t *testing.T) {
	f := newFixture(t, cache.PointInvalidationOnWrite)
	ctx := context.Background()

	org, err := f.dir.CreateOrg(ctx, orgInput("Harbor", "harbor"))
	require.NoError(t, err)
	_, err = f.dir.FindOrgByID(ctx, org.ID)
	require.NoError(t, err)

	_, err = f.dir.UpsertOrg(ctx, org.ID, domainagg.OrgInput{Name: optional.Of("Harbor Point")})
	require.NoError(t, err)
	got, err := f.dir.FindOrgByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "Harbor Point", got.Name)

	require.NoError(t, f.dir.DeleteOrg(ctx, org.ID))
	got, err = f.dir.FindOrgByID(ctx, org.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFindManyOrgsListCache(t *testing.T) {
	f := newFixture(t, cache.PointInvalidationTTL)
	ctx := context.Background()

	for _, slug := range []string{"cedar", "aspen", "birch"} {
		_, err := f.dir.CreateOrg(ctx, orgInput(slug, slug))
		require.NoError(t, err)
	}

	page, err := f.dir.FindManyOrgs(ctx, nil, services.Page{Skip: 1, Take: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "birch", page[0].Slug)

	// Rows inserted behind the engine's back do not bump the namespace.
	testutil.SeedOrg(t, ctx, f.db, "dogwood")
	all, err := f.dir.FindManyOrgs(ctx, nil, services.Page{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = f.dir.CreateOrg(ctx, orgInput("elm", "elm"))
	require.NoError(t, err)
	all, err = f.dir.FindManyOrgs(ctx, nil, services.Page{})
	require.NoError(t, err)
	require.Len(t, all, 5)

	filtered, err := f.dir.FindManyOrgs(ctx, &filter.OrgFilter{Slug: &filter.StringFilter{StartsWith: strPtr("e")}}, services.Page{})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	beyond, err := f.dir.FindManyOrgs(ctx, nil, services.Page{Skip: 50})
	require.NoError(t, err)
	require.Empty(t, beyond)

	_, err = f.dir.FindManyOrgs(ctx, nil, services.Page{Skip: -1})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	_, err = f.dir.FindManyOrgs(ctx, &filter.OrgFilter{OrderBy: []filter.OrderBy{{Field: "bogus"}}}, services.Page{})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
}

func TestFindManyProgramsAfterNestedCreate(t *testing.T) {
	f := newFixture(t, cache.PointInvalidationTTL)
	ctx := context.Background()

	before, err := f.dir.FindManyPrograms(ctx, nil, services.Page{})
	require.NoError(t, err)
	require.Empty(t, before)

	in := orgInput("Sunrise House", "sunrise-house")
	in.Campuses = []domainagg.CampusInput{{
		Name: optional.Of("Sunrise Malibu"), Slug: optional.Of("sunrise-malibu"),
		Street: optional.Of("1 Ocean Way"), City: optional.Of("Malibu"), State: optional.Of("CA"),
		PostalCode: optional.Of("90265"), Country: optional.Of("US"),
		Programs: []domainagg.ProgramInput{{
			Name: optional.Of("Residential"), Slug: optional.Of("sunrise-residential"),
			LevelOfCareSlug: optional.Of("residential"),
		}},
	}}
	_, err = f.dir.CreateOrg(ctx, in)
	require.NoError(t, err)

	after, err := f.dir.FindManyPrograms(ctx, nil, services.Page{})
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.NotNil(t, after[0].LevelOfCare)

	campuses, err := f.dir.FindManyCampuses(ctx, &filter.CampusFilter{State: &filter.StringFilter{Equals: strPtr("CA")}}, services.Page{})
	require.NoError(t, err)
	require.Len(t, campuses, 1)

	camp, err := f.dir.FindCampusByID(ctx, campuses[0].ID)
	require.NoError(t, err)
	require.Len(t, camp.Programs, 1)
	prog, err := f.dir.FindProgramByID(ctx, after[0].ID)
	require.NoError(t, err)
	require.Equal(t, "sunrise-residential", prog.Slug)
}

func harborWithCampus() domainagg.OrgInput {
	in := orgInput("Harbor", "harbor")
	in.Campuses = []domainagg.CampusInput{{
		Name: optional.Of("Harbor Main"), Slug: optional.Of("main"),
		Street: optional.Of("9 Pier Rd"), City: optional.Of("Portland"), State: optional.Of("ME"),
		PostalCode: optional.Of("04101"), Country: optional.Of("US"),
	}}
	return in
}

func TestParentListsSeeChildWrites(t *testing.T) {
	f := newFixture(t, cache.PointInvalidationTTL)
	ctx := context.Background()

	_, err := f.dir.CreateOrg(ctx, harborWithCampus())
	require.NoError(t, err)

	opioids := &filter.ProgramFilter{Substances: &filter.RelationFilter{SlugsIn: []string{"opioids"}}}
	orgs, err := f.dir.FindManyOrgs(ctx, &filter.OrgFilter{Programs: opioids}, services.Page{})
	require.NoError(t, err)
	require.Empty(t, orgs)
	campuses, err := f.dir.FindManyCampuses(ctx, &filter.CampusFilter{Programs: opioids}, services.Page{})
	require.NoError(t, err)
	require.Empty(t, campuses)

	prog, err := f.dir.CreateProgram(ctx, domainagg.ProgramInput{
		CampusSlug: optional.Of("main"), LevelOfCareSlug: optional.Of("residential"),
		Name: optional.Of("Harbor Residential"), Slug: optional.Of("harbor-residential"),
		Substances: []domainagg.TermRef{{Slug: "opioids"}},
	})
	require.NoError(t, err)

	orgs, err = f.dir.FindManyOrgs(ctx, &filter.OrgFilter{Programs: opioids}, services.Page{})
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	campuses, err = f.dir.FindManyCampuses(ctx, &filter.CampusFilter{Programs: opioids}, services.Page{})
	require.NoError(t, err)
	require.Len(t, campuses, 1)

	require.NoError(t, f.dir.DeleteProgram(ctx, prog.ID))
	orgs, err = f.dir.FindManyOrgs(ctx, &filter.OrgFilter{Programs: opioids}, services.Page{})
	require.NoError(t, err)
	require.Empty(t, orgs)
}

func TestVocabRenameRetiresCachedLists(t *testing.T) {
	f := newFixture(t, cache.PointInvalidationTTL)
	ctx := context.Background()

	_, err := f.dir.CreateOrg(ctx, harborWithCampus())
	require.NoError(t, err)
	_, err = f.dir.CreateProgram(ctx, domainagg.ProgramInput{
		CampusSlug: optional.Of("main"), LevelOfCareSlug: optional.Of("residential"),
		Name: optional.Of("Harbor Residential"), Slug: optional.Of("harbor-residential"),
	})
	require.NoError(t, err)

	before, err := f.dir.FindManyPrograms(ctx, nil, services.Page{})
	require.NoError(t, err)
	require.Len(t, before, 1)
	require.NotNil(t, before[0].LevelOfCare)
	require.NotEqual(t, "Residential Treatment", before[0].LevelOfCare.DisplayName)

	_, err = f.vocab.CreateMany(ctx, types.KindLevelOfCare, []domainagg.TermRef{{
		Slug: "residential", TermAttrs: types.TermAttrs{DisplayName: strPtr("Residential Treatment")},
	}})
	require.NoError(t, err)

	after, err := f.dir.FindManyPrograms(ctx, nil, services.Page{})
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, "Residential Treatment", after[0].LevelOfCare.DisplayName)
}

func TestVocabServiceSunriseHouse(t *testing.T) {
	f := newFixture(t, cache.PointInvalidationTTL)
	ctx := context.Background()

	first, err := f.vocab.CreateMany(ctx, types.KindLevelOfCare, []domainagg.TermRef{{Slug: "residential"}, {Slug: "detox"}})
	require.NoError(t, err)
	require.Len(t, first, 2)

	again, err := f.vocab.CreateMany(ctx, types.KindLevelOfCare, []domainagg.TermRef{{Slug: "Residential"}})
	require.NoError(t, err)
	require.Equal(t, first[0].TermID(), again[0].TermID())

	all, err := f.vocab.FindAll(ctx, types.KindLevelOfCare)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "detox", all[0].NaturalKey())

	_, err = f.vocab.FindAll(ctx, types.VocabKind("colors"))
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
	_, err = f.vocab.CreateMany(ctx, types.KindAmenity, []domainagg.TermRef{{}})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
}

func strPtr(s string) *string { return &s }
