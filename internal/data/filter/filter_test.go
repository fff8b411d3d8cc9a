package filter

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	"github.com/yungbote/rehabdir-backend/internal/data/repos/testutil"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func orgSlugs(rows []*types.RehabOrg) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Slug)
	}
	return out
}

func findOrgs(t *testing.T, db *gorm.DB, f *OrgFilter) []string {
	t.Helper()
	q, err := f.Query()
	require.NoError(t, err)
	rows, err := repos.NewOrgRepo(db, testutil.Logger(t)).FindMany(context.Background(), nil, q)
	require.NoError(t, err)
	return orgSlugs(rows)
}

func TestIntRangeBoundsAreInclusive(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	orgs := repos.NewOrgRepo(db, testutil.Logger(t))

	for slug, beds := range map[string]int{"b09": 9, "b10": 10, "b15": 15, "b20": 20, "b21": 21} {
		o := testutil.SeedOrg(t, ctx, db, slug)
		require.NoError(t, orgs.UpdateFields(ctx, nil, o.ID, map[string]interface{}{"bed_count": beds}))
	}

	got := findOrgs(t, db, &OrgFilter{BedCount: &IntRange{Min: intPtr(10), Max: intPtr(20)}})
	require.Equal(t, []string{"b10", "b15", "b20"}, got)

	got = findOrgs(t, db, &OrgFilter{BedCount: &IntRange{Min: intPtr(20)}})
	require.Equal(t, []string{"b20", "b21"}, got)
}

func TestSearchAndStringFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	orgs := repos.NewOrgRepo(db, testutil.Logger(t))

	a := testutil.SeedOrg(t, ctx, db, "sunrise-house")
	b := testutil.SeedOrg(t, ctx, db, "harbor-view")
	testutil.SeedOrg(t, ctx, db, "pines")
	require.NoError(t, orgs.UpdateFields(ctx, nil, a.ID, map[string]interface{}{"name": "Sunrise House", "city": "Malibu"}))
	require.NoError(t, orgs.UpdateFields(ctx, nil, b.ID, map[string]interface{}{"name": "Harbor View", "description": "Ocean 100% views near malibu"}))

	require.Equal(t, []string{"harbor-view", "sunrise-house"}, findOrgs(t, db, &OrgFilter{Search: strPtr("MALIBU")}))
	require.Equal(t, []string{"harbor-view"}, findOrgs(t, db, &OrgFilter{Search: strPtr("100%")}))
	require.Empty(t, findOrgs(t, db, &OrgFilter{Search: strPtr("50%")}))

	got := findOrgs(t, db, &OrgFilter{Name: &StringFilter{StartsWith: strPtr("sun"), CaseInsensitive: true}})
	require.Equal(t, []string{"sunrise-house"}, got)

	got = findOrgs(t, db, &OrgFilter{Slug: &StringFilter{In: []string{"pines", "harbor-view"}}})
	require.Equal(t, []string{"harbor-view", "pines"}, got)

	got = findOrgs(t, db, &OrgFilter{
		OR:  []OrgFilter{{Slug: &StringFilter{Equals: strPtr("pines")}}, {City: &StringFilter{Equals: strPtr("Malibu")}}},
		NOT: &OrgFilter{Slug: &StringFilter{Equals: strPtr("pines")}},
	})
	require.Equal(t, []string{"sunrise-house"}, got)

	got = findOrgs(t, db, &OrgFilter{OrderBy: []OrderBy{{Field: "slug", Desc: true}}})
	require.Equal(t, []string{"sunrise-house", "pines", "harbor-view"}, got)
}

func TestRelationFiltersAndHops(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	joins := repos.NewJoinRepo(db, log)

	sunrise := testutil.SeedOrg(t, ctx, db, "sunrise")
	harbor := testutil.SeedOrg(t, ctx, db, "harbor")
	camp := testutil.SeedCampus(t, ctx, db, sunrise.ID, "sunrise-malibu", "Malibu", "CA")
	testutil.SeedCampus(t, ctx, db, harbor.ID, "harbor-austin", "Austin", "TX")
	detox := testutil.SeedTerm(t, ctx, db, types.KindLevelOfCare, "detox")
	testutil.SeedTerm(t, ctx, db, types.KindLevelOfCare, "residential")
	testutil.SeedProgram(t, ctx, db, camp.ID, detox.TermID(), "sunrise-detox")

	pool := testutil.SeedTerm(t, ctx, db, types.KindAmenity, "pool")
	rel, _ := directory.RelationFor(types.OwnerOrg, "amenities")
	require.NoError(t, joins.AddEdges(ctx, nil, rel, harbor.ID, []uuid.UUID{pool.TermID()}))

	aetna := testutil.SeedTerm(t, ctx, db, types.KindInsurancePayer, "aetna")
	edge := &types.InsurancePayerEdge{TermID: aetna.TermID(), NetworkStatus: directory.NetworkIn}
	edge.SetOwner(types.ScopeOrg, sunrise.ID)
	require.NoError(t, repos.NewFinanceRepo(db, log).CreatePayerEdges(ctx, nil, []*types.InsurancePayerEdge{edge}))

	require.Equal(t, []string{"harbor"}, findOrgs(t, db, &OrgFilter{Amenities: &RelationFilter{SlugsIn: []string{"POOL"}}}))
	require.Equal(t, []string{"harbor"}, findOrgs(t, db, &OrgFilter{Amenities: &RelationFilter{IDsIn: []uuid.UUID{pool.TermID()}}}))
	require.Equal(t, []string{"sunrise"}, findOrgs(t, db, &OrgFilter{InsurancePayers: &RelationFilter{SlugsIn: []string{"aetna"}}}))

	// org -> campus -> program
	got := findOrgs(t, db, &OrgFilter{Programs: &ProgramFilter{LevelOfCare: &RelationFilter{SlugsIn: []string{"detox"}}}})
	require.Equal(t, []string{"sunrise"}, got)
	require.Empty(t, findOrgs(t, db, &OrgFilter{Programs: &ProgramFilter{LevelOfCare: &RelationFilter{SlugsIn: []string{"residential"}}}}))
	require.Equal(t, []string{"harbor"}, findOrgs(t, db, &OrgFilter{Campuses: &CampusFilter{State: &StringFilter{Equals: strPtr("TX")}}}))

	q, err := (&CampusFilter{Programs: &ProgramFilter{Slug: &StringFilter{Contains: strPtr("detox")}}}).Query()
	require.NoError(t, err)
	campuses, err := repos.NewCampusRepo(db, log).FindMany(ctx, nil, q)
	require.NoError(t, err)
	require.Len(t, campuses, 1)
	require.Equal(t, camp.ID, campuses[0].ID)
}

func TestOrderRejectsUnknownField(t *testing.T) {
	_, err := (&ProgramFilter{OrderBy: []OrderBy{{Field: "password"}}}).Query()
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	order, err := Order(types.OwnerProgram, nil)
	require.NoError(t, err)
	require.Len(t, order, 2)
	require.Equal(t, "name", order[0].Column.Name)
	require.Equal(t, "id", order[1].Column.Name)
}

func TestNilFilterCompilesToNoPredicate(t *testing.T) {
	var f *OrgFilter
	q, err := f.Query()
	require.NoError(t, err)
	require.Nil(t, q.Where)
	require.Nil(t, Compile("rehab_org", And{Or{}, And{}}))
	require.Nil(t, Compile("rehab_org", (&OrgFilter{}).Pred()))
}
