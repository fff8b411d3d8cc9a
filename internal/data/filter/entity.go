package filter

import (
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
)

type OrgFilter struct {
	ID            *IDFilter       `json:"id,omitempty"`
	Name          *StringFilter   `json:"name,omitempty"`
	Slug          *StringFilter   `json:"slug,omitempty"`
	NPI           *StringFilter   `json:"npi,omitempty"`
	City          *StringFilter   `json:"city,omitempty"`
	State         *StringFilter   `json:"state,omitempty"`
	PostalCode    *StringFilter   `json:"postalCode,omitempty"`
	FoundedYear   *IntRange       `json:"foundedYear,omitempty"`
	BedCount      *IntRange       `json:"bedCount,omitempty"`
	RatingAverage *FloatRange     `json:"ratingAverage,omitempty"`
	IsVerified    *BoolFilter     `json:"isVerified,omitempty"`
	IsActive      *BoolFilter     `json:"isActive,omitempty"`
	ParentCompany *RelationFilter `json:"parentCompany,omitempty"`

	Languages      *RelationFilter `json:"languages,omitempty"`
	Amenities      *RelationFilter `json:"amenities,omitempty"`
	LevelsOfCare   *RelationFilter `json:"levelsOfCare,omitempty"`
	Services       *RelationFilter `json:"services,omitempty"`
	Populations    *RelationFilter `json:"populations,omitempty"`
	Accreditations *RelationFilter `json:"accreditations,omitempty"`
	Features       *RelationFilter `json:"features,omitempty"`

	InsurancePayers *RelationFilter `json:"insurancePayers,omitempty"`
	PaymentOptions  *RelationFilter `json:"paymentOptions,omitempty"`

	// Campuses and Programs match orgs with at least one matching descendant.
	Campuses *CampusFilter  `json:"campuses,omitempty"`
	Programs *ProgramFilter `json:"programs,omitempty"`

	Search  *string    `json:"search,omitempty"`
	AND     []OrgFilter `json:"AND,omitempty"`
	OR      []OrgFilter `json:"OR,omitempty"`
	NOT     *OrgFilter  `json:"NOT,omitempty"`
	OrderBy []OrderBy   `json:"orderBy,omitempty"`
}

type CampusFilter struct {
	ID         *IDFilter     `json:"id,omitempty"`
	RehabOrgID *IDFilter     `json:"rehabOrgId,omitempty"`
	Name       *StringFilter `json:"name,omitempty"`
	Slug       *StringFilter `json:"slug,omitempty"`
	City       *StringFilter `json:"city,omitempty"`
	State      *StringFilter `json:"state,omitempty"`
	PostalCode *StringFilter `json:"postalCode,omitempty"`
	Country    *StringFilter `json:"country,omitempty"`
	BedCount   *IntRange     `json:"bedCount,omitempty"`
	Latitude   *FloatRange   `json:"latitude,omitempty"`
	Longitude  *FloatRange   `json:"longitude,omitempty"`
	IsActive   *BoolFilter   `json:"isActive,omitempty"`

	Environment  *RelationFilter `json:"environment,omitempty"`
	SettingStyle *RelationFilter `json:"settingStyle,omitempty"`
	LuxuryTier   *RelationFilter `json:"luxuryTier,omitempty"`

	Languages   *RelationFilter `json:"languages,omitempty"`
	Amenities   *RelationFilter `json:"amenities,omitempty"`
	Services    *RelationFilter `json:"services,omitempty"`
	Populations *RelationFilter `json:"populations,omitempty"`
	Features    *RelationFilter `json:"features,omitempty"`

	InsurancePayers *RelationFilter `json:"insurancePayers,omitempty"`
	PaymentOptions  *RelationFilter `json:"paymentOptions,omitempty"`

	Programs *ProgramFilter `json:"programs,omitempty"`

	Search  *string        `json:"search,omitempty"`
	AND     []CampusFilter `json:"AND,omitempty"`
	OR      []CampusFilter `json:"OR,omitempty"`
	NOT     *CampusFilter  `json:"NOT,omitempty"`
	OrderBy []OrderBy      `json:"orderBy,omitempty"`
}

type ProgramFilter struct {
	ID           *IDFilter       `json:"id,omitempty"`
	CampusID     *IDFilter       `json:"campusId,omitempty"`
	Name         *StringFilter   `json:"name,omitempty"`
	Slug         *StringFilter   `json:"slug,omitempty"`
	MinAge       *IntRange       `json:"minAge,omitempty"`
	MaxAge       *IntRange       `json:"maxAge,omitempty"`
	DurationDays *IntRange       `json:"durationDays,omitempty"`
	PriceMin     *FloatRange     `json:"priceMin,omitempty"`
	PriceMax     *FloatRange     `json:"priceMax,omitempty"`
	IsActive     *BoolFilter     `json:"isActive,omitempty"`
	LevelOfCare  *RelationFilter `json:"levelOfCare,omitempty"`

	DetoxServices *RelationFilter `json:"detoxServices,omitempty"`
	Services      *RelationFilter `json:"services,omitempty"`
	Populations   *RelationFilter `json:"populations,omitempty"`
	Languages     *RelationFilter `json:"languages,omitempty"`
	Amenities     *RelationFilter `json:"amenities,omitempty"`
	Features      *RelationFilter `json:"features,omitempty"`
	MATTypes      *RelationFilter `json:"matTypes,omitempty"`
	Substances    *RelationFilter `json:"substances,omitempty"`

	InsurancePayers *RelationFilter `json:"insurancePayers,omitempty"`
	PaymentOptions  *RelationFilter `json:"paymentOptions,omitempty"`

	Search  *string         `json:"search,omitempty"`
	AND     []ProgramFilter `json:"AND,omitempty"`
	OR      []ProgramFilter `json:"OR,omitempty"`
	NOT     *ProgramFilter  `json:"NOT,omitempty"`
	OrderBy []OrderBy       `json:"orderBy,omitempty"`
}

// termMatch matches a term id column against f, following into the vocabulary table
// for natural keys.
func termMatch(idColumn string, kind types.VocabKind, f *RelationFilter) Pred {
	spec, ok := directory.Spec(kind)
	if !ok {
		return In{Column: idColumn}
	}
	out := Or{}
	if len(f.IDsIn) > 0 {
		out = append(out, In{Column: idColumn, Values: uuidValues(f.IDsIn)})
	}
	if keys := stringValues(f.SlugsIn); len(keys) > 0 {
		out = append(out, Exists{
			Table:       spec.Table(),
			Link:        "id",
			OuterColumn: idColumn,
			Where:       In{Column: spec.KeyColumn, Values: keys, Fold: true},
		})
	}
	return out
}

// joinPred matches owners of kind with an edge in the named join relation.
func joinPred(owner types.OwnerKind, name string, f *RelationFilter) Pred {
	if f.empty() {
		return nil
	}
	rel, ok := directory.RelationFor(owner, name)
	if !ok {
		return nil
	}
	return Exists{Table: rel.JoinTable, Link: "owner_id", Where: termMatch("term_id", rel.Vocab, f)}
}

// financePred matches owners with a finance edge attached at their own scope.
func financePred(owner types.OwnerKind, table string, kind types.VocabKind, f *RelationFilter) Pred {
	if f.empty() {
		return nil
	}
	return Exists{Table: table, Link: owner.Scope().OwnerColumn(), Where: termMatch("term_id", kind, f)}
}

// refPred matches a single-valued reference column.
func refPred(column string, kind types.VocabKind, f *RelationFilter) Pred {
	if f.empty() {
		return nil
	}
	return termMatch(column, kind, f)
}

func (f *OrgFilter) Pred() Pred {
	if f == nil {
		return nil
	}
	out := And{
		f.ID.pred("id"),
		f.Name.pred("name"),
		f.Slug.pred("slug"),
		f.NPI.pred("npi"),
		f.City.pred("city"),
		f.State.pred("state"),
		f.PostalCode.pred("postal_code"),
		f.FoundedYear.pred("founded_year"),
		f.BedCount.pred("bed_count"),
		f.RatingAverage.pred("rating_average"),
		f.IsVerified.pred("is_verified"),
		f.IsActive.pred("is_active"),
		search(f.Search, "name", "legal_name", "description", "city", "state"),
	}
	if !f.ParentCompany.empty() {
		p := Or{}
		if len(f.ParentCompany.IDsIn) > 0 {
			p = append(p, In{Column: "parent_company_id", Values: uuidValues(f.ParentCompany.IDsIn)})
		}
		if keys := stringValues(f.ParentCompany.SlugsIn); len(keys) > 0 {
			p = append(p, Exists{
				Table:       directory.ParentCompany{}.TableName(),
				Link:        "id",
				OuterColumn: "parent_company_id",
				Where:       In{Column: "slug", Values: keys, Fold: true},
			})
		}
		out = append(out, p)
	}
	out = append(out,
		joinPred(types.OwnerOrg, "languages", f.Languages),
		joinPred(types.OwnerOrg, "amenities", f.Amenities),
		joinPred(types.OwnerOrg, "levelsOfCare", f.LevelsOfCare),
		joinPred(types.OwnerOrg, "services", f.Services),
		joinPred(types.OwnerOrg, "populations", f.Populations),
		joinPred(types.OwnerOrg, "accreditations", f.Accreditations),
		joinPred(types.OwnerOrg, "features", f.Features),
		financePred(types.OwnerOrg, directory.InsurancePayerEdge{}.TableName(), types.KindInsurancePayer, f.InsurancePayers),
		financePred(types.OwnerOrg, directory.PaymentOptionEdge{}.TableName(), types.KindPaymentOption, f.PaymentOptions),
	)
	if f.Campuses != nil {
		out = append(out, Exists{Table: types.OwnerCampus.Table(), Link: "rehab_org_id", Where: f.Campuses.Pred()})
	}
	if f.Programs != nil {
		out = append(out, Exists{
			Table: types.OwnerCampus.Table(),
			Link:  "rehab_org_id",
			Where: Exists{Table: types.OwnerProgram.Table(), Link: "campus_id", Where: f.Programs.Pred()},
		})
	}
	for i := range f.AND {
		out = append(out, f.AND[i].Pred())
	}
	if len(f.OR) > 0 {
		or := Or{}
		for i := range f.OR {
			or = append(or, f.OR[i].Pred())
		}
		out = append(out, or)
	}
	if f.NOT != nil {
		out = append(out, Not{P: f.NOT.Pred()})
	}
	return out
}

func (f *CampusFilter) Pred() Pred {
	if f == nil {
		return nil
	}
	out := And{
		f.ID.pred("id"),
		f.RehabOrgID.pred("rehab_org_id"),
		f.Name.pred("name"),
		f.Slug.pred("slug"),
		f.City.pred("city"),
		f.State.pred("state"),
		f.PostalCode.pred("postal_code"),
		f.Country.pred("country"),
		f.BedCount.pred("bed_count"),
		f.Latitude.pred("latitude"),
		f.Longitude.pred("longitude"),
		f.IsActive.pred("is_active"),
		search(f.Search, "name", "city", "state", "postal_code"),
		refPred("environment_id", types.KindEnvironment, f.Environment),
		refPred("setting_style_id", types.KindSettingStyle, f.SettingStyle),
		refPred("luxury_tier_id", types.KindLuxuryTier, f.LuxuryTier),
		joinPred(types.OwnerCampus, "languages", f.Languages),
		joinPred(types.OwnerCampus, "amenities", f.Amenities),
		joinPred(types.OwnerCampus, "services", f.Services),
		joinPred(types.OwnerCampus, "populations", f.Populations),
		joinPred(types.OwnerCampus, "features", f.Features),
		financePred(types.OwnerCampus, directory.InsurancePayerEdge{}.TableName(), types.KindInsurancePayer, f.InsurancePayers),
		financePred(types.OwnerCampus, directory.PaymentOptionEdge{}.TableName(), types.KindPaymentOption, f.PaymentOptions),
	}
	if f.Programs != nil {
		out = append(out, Exists{Table: types.OwnerProgram.Table(), Link: "campus_id", Where: f.Programs.Pred()})
	}
	for i := range f.AND {
		out = append(out, f.AND[i].Pred())
	}
	if len(f.OR) > 0 {
		or := Or{}
		for i := range f.OR {
			or = append(or, f.OR[i].Pred())
		}
		out = append(out, or)
	}
	if f.NOT != nil {
		out = append(out, Not{P: f.NOT.Pred()})
	}
	return out
}

func (f *ProgramFilter) Pred() Pred {
	if f == nil {
		return nil
	}
	out := And{
		f.ID.pred("id"),
		f.CampusID.pred("campus_id"),
		f.Name.pred("name"),
		f.Slug.pred("slug"),
		f.MinAge.pred("min_age"),
		f.MaxAge.pred("max_age"),
		f.DurationDays.pred("duration_days"),
		f.PriceMin.pred("price_min"),
		f.PriceMax.pred("price_max"),
		f.IsActive.pred("is_active"),
		search(f.Search, "name", "description"),
		refPred("level_of_care_id", types.KindLevelOfCare, f.LevelOfCare),
		joinPred(types.OwnerProgram, "detoxServices", f.DetoxServices),
		joinPred(types.OwnerProgram, "services", f.Services),
		joinPred(types.OwnerProgram, "populations", f.Populations),
		joinPred(types.OwnerProgram, "languages", f.Languages),
		joinPred(types.OwnerProgram, "amenities", f.Amenities),
		joinPred(types.OwnerProgram, "features", f.Features),
		joinPred(types.OwnerProgram, "matTypes", f.MATTypes),
		joinPred(types.OwnerProgram, "substances", f.Substances),
		financePred(types.OwnerProgram, directory.InsurancePayerEdge{}.TableName(), types.KindInsurancePayer, f.InsurancePayers),
		financePred(types.OwnerProgram, directory.PaymentOptionEdge{}.TableName(), types.KindPaymentOption, f.PaymentOptions),
	}
	for i := range f.AND {
		out = append(out, f.AND[i].Pred())
	}
	if len(f.OR) > 0 {
		or := Or{}
		for i := range f.OR {
			or = append(or, f.OR[i].Pred())
		}
		out = append(out, or)
	}
	if f.NOT != nil {
		out = append(out, Not{P: f.NOT.Pred()})
	}
	return out
}

var orderColumns = map[types.OwnerKind]map[string]string{
	types.OwnerOrg: {
		"name": "name", "slug": "slug", "city": "city", "state": "state",
		"foundedYear": "founded_year", "bedCount": "bed_count", "ratingAverage": "rating_average",
		"createdAt": "created_at", "updatedAt": "updated_at",
	},
	types.OwnerCampus: {
		"name": "name", "slug": "slug", "city": "city", "state": "state", "postalCode": "postal_code",
		"bedCount": "bed_count", "createdAt": "created_at", "updatedAt": "updated_at",
	},
	types.OwnerProgram: {
		"name": "name", "slug": "slug", "minAge": "min_age", "maxAge": "max_age",
		"durationDays": "duration_days", "priceMin": "price_min", "priceMax": "price_max",
		"createdAt": "created_at", "updatedAt": "updated_at",
	},
}

// Order maps orderBy onto whitelisted columns, always ending with id for a stable page
// boundary. An empty list yields name ASC, id ASC.
func Order(owner types.OwnerKind, orderBy []OrderBy) ([]clause.OrderByColumn, error) {
	table := owner.Table()
	allowed := orderColumns[owner]
	out := make([]clause.OrderByColumn, 0, len(orderBy)+1)
	if len(orderBy) == 0 {
		out = append(out, clause.OrderByColumn{Column: clause.Column{Table: table, Name: "name"}})
	}
	for _, o := range orderBy {
		col, ok := allowed[o.Field]
		if !ok {
			return nil, domainagg.Validation("filter.order", "orderBy", fmt.Sprintf("cannot order %s by %q", owner, o.Field))
		}
		out = append(out, clause.OrderByColumn{Column: clause.Column{Table: table, Name: col}, Desc: o.Desc})
	}
	return append(out, clause.OrderByColumn{Column: clause.Column{Table: table, Name: "id"}}), nil
}

func query(owner types.OwnerKind, p Pred, orderBy []OrderBy) (repos.ListQuery, error) {
	order, err := Order(owner, orderBy)
	if err != nil {
		return repos.ListQuery{}, err
	}
	return repos.ListQuery{Where: Compile(owner.Table(), p), Order: order}, nil
}

// Query compiles the filter into a list query. A nil filter matches every org.
func (f *OrgFilter) Query() (repos.ListQuery, error) {
	var orderBy []OrderBy
	if f != nil {
		orderBy = f.OrderBy
	}
	return query(types.OwnerOrg, f.Pred(), orderBy)
}

func (f *CampusFilter) Query() (repos.ListQuery, error) {
	var orderBy []OrderBy
	if f != nil {
		orderBy = f.OrderBy
	}
	return query(types.OwnerCampus, f.Pred(), orderBy)
}

func (f *ProgramFilter) Query() (repos.ListQuery, error) {
	var orderBy []OrderBy
	if f != nil {
		orderBy = f.OrderBy
	}
	return query(types.OwnerProgram, f.Pred(), orderBy)
}
