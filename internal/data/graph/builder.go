package graph

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/rehabdir-backend/internal/data/vocab"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
	"github.com/yungbote/rehabdir-backend/internal/pkg/optional"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
	"github.com/yungbote/rehabdir-backend/internal/platform/logger"
)

type Builder struct {
	resolver *vocab.Resolver
	log      *logger.Logger
}

func NewBuilder(resolver *vocab.Resolver, baseLog *logger.Logger) *Builder {
	return &Builder{resolver: resolver, log: baseLog.With("service", "GraphBuilder")}
}

// build is one graph build; the memo lives exactly as long as it does.
type build struct {
	dbc  dbctx.Context
	memo *vocab.Memo
}

func (b *Builder) start(dbc dbctx.Context) *build {
	return &build{dbc: dbc, memo: b.resolver.NewMemo()}
}

// Org builds the plan for an org payload, including nested campuses and programs.
// Callers validate the payload first.
func (b *Builder) Org(dbc dbctx.Context, in *domainagg.OrgInput) (*Plan, error) {
	return b.start(dbc).org(in)
}

func (b *Builder) Campus(dbc dbctx.Context, in *domainagg.CampusInput) (*Plan, error) {
	return b.start(dbc).campus(in, false)
}

func (b *Builder) Program(dbc dbctx.Context, in *domainagg.ProgramInput) (*Plan, error) {
	return b.start(dbc).program(in, false)
}

func (s *build) org(in *domainagg.OrgInput) (*Plan, error) {
	m := map[string]interface{}{}
	setString(m, "name", in.Name)
	setString(m, "slug", in.Slug)
	setString(m, "legal_name", in.LegalName)
	setString(m, "npi", in.NPI)
	setString(m, "description", in.Description)
	setString(m, "website", in.Website)
	setString(m, "phone", in.Phone)
	setString(m, "email", in.Email)
	setString(m, "street", in.Street)
	setString(m, "city", in.City)
	setString(m, "state", in.State)
	setString(m, "postal_code", in.PostalCode)
	setString(m, "country", in.Country)
	setValue(m, "latitude", in.Latitude)
	setValue(m, "longitude", in.Longitude)
	setValue(m, "founded_year", in.FoundedYear)
	setValue(m, "bed_count", in.BedCount)
	setValue(m, "rating_average", in.RatingAverage)
	setValue(m, "is_verified", in.IsVerified)
	setValue(m, "is_active", in.IsActive)
	setURLs(m, "source_urls", in.SourceURLs)
	setURLs(m, "gallery_urls", in.GalleryURLs)

	p := &Plan{Owner: types.OwnerOrg, Scalars: m}
	if op := parentCompanyOp(in.ParentCompany); op.Kind != RelAbsent {
		p.Refs = append(p.Refs, op)
	}
	if err := s.fill(p, in.VocabLists(), in.FinanceLists, in.ContentLists); err != nil {
		return nil, err
	}
	for i := range in.Campuses {
		child, err := s.campus(&in.Campuses[i], true)
		if err != nil {
			return nil, err
		}
		p.Children = append(p.Children, child)
	}
	return p, nil
}

func (s *build) campus(in *domainagg.CampusInput, nested bool) (*Plan, error) {
	m := map[string]interface{}{}
	setString(m, "name", in.Name)
	setString(m, "slug", in.Slug)
	setString(m, "description", in.Description)
	setString(m, "phone", in.Phone)
	setString(m, "street", in.Street)
	setString(m, "city", in.City)
	setString(m, "state", in.State)
	setString(m, "postal_code", in.PostalCode)
	setString(m, "country", in.Country)
	setValue(m, "latitude", in.Latitude)
	setValue(m, "longitude", in.Longitude)
	setValue(m, "bed_count", in.BedCount)
	setValue(m, "is_active", in.IsActive)
	setURLs(m, "gallery_urls", in.GalleryURLs)

	p := &Plan{Owner: types.OwnerCampus, Scalars: m}
	if !nested {
		p.Parent = CampusParent(in)
	}
	for _, ref := range []struct {
		column string
		kind   types.VocabKind
		f      optional.Field[domainagg.TermRef]
	}{
		{"environment_id", types.KindEnvironment, in.Environment},
		{"setting_style_id", types.KindSettingStyle, in.SettingStyle},
		{"luxury_tier_id", types.KindLuxuryTier, in.LuxuryTier},
	} {
		op, err := s.termOp(ref.column, ref.kind, ref.f)
		if err != nil {
			return nil, err
		}
		if op.Kind != RelAbsent {
			p.Refs = append(p.Refs, op)
		}
	}
	if err := s.fill(p, in.VocabLists(), in.FinanceLists, in.ContentLists); err != nil {
		return nil, err
	}
	for i := range in.Programs {
		child, err := s.program(&in.Programs[i], true)
		if err != nil {
			return nil, err
		}
		p.Children = append(p.Children, child)
	}
	return p, nil
}

func (s *build) program(in *domainagg.ProgramInput, nested bool) (*Plan, error) {
	m := map[string]interface{}{}
	setString(m, "name", in.Name)
	setString(m, "slug", in.Slug)
	setString(m, "description", in.Description)
	setValue(m, "min_age", in.MinAge)
	setValue(m, "max_age", in.MaxAge)
	setValue(m, "duration_days", in.DurationDays)
	setValue(m, "price_min", in.PriceMin)
	setValue(m, "price_max", in.PriceMax)
	setValue(m, "is_active", in.IsActive)

	p := &Plan{Owner: types.OwnerProgram, Scalars: m}
	if !nested {
		p.Parent = ProgramParent(in)
	}
	if in.LevelOfCareID.Set() || in.LevelOfCareSlug.Set() {
		ref := domainagg.TermRef{ID: in.LevelOfCareID.Ptr(), Slug: in.LevelOfCareSlug.Or("")}
		kind := RelConnectOrCreate
		if ref.Key() == "" {
			kind = RelConnect
		}
		id, err := s.memo.ResolveID(s.dbc, types.KindLevelOfCare, ref)
		if err != nil {
			return nil, err
		}
		p.Refs = append(p.Refs, RelationOp{Kind: kind, Column: "level_of_care_id", Vocab: types.KindLevelOfCare, ID: id, Slug: ref.Key()})
	}
	if err := s.fill(p, in.VocabLists(), in.FinanceLists, in.ContentLists); err != nil {
		return nil, err
	}
	return p, nil
}

// fill adds the join, finance and content parts shared by every owner kind.
func (s *build) fill(p *Plan, lists map[string][]domainagg.TermRef, fin domainagg.FinanceLists, content domainagg.ContentLists) error {
	for _, rel := range directory.Relations(p.Owner) {
		refs := lists[rel.Name]
		if refs == nil {
			continue
		}
		op, err := s.joinOp(rel, refs)
		if err != nil {
			return err
		}
		p.Joins = append(p.Joins, op)
	}

	if fin.InsurancePayers != nil {
		p.Payers = make([]*types.InsurancePayerEdge, 0, len(fin.InsurancePayers))
	}
	if fin.PaymentOptions != nil {
		p.Payments = make([]*types.PaymentOptionEdge, 0, len(fin.PaymentOptions))
	}
	for _, e := range fin.InsurancePayers {
		id, err := s.memo.ResolveID(s.dbc, types.KindInsurancePayer, e.Term)
		if err != nil {
			return err
		}
		status := directory.NetworkUnknown
		if e.NetworkStatus != nil {
			status = *e.NetworkStatus
		}
		p.Payers = append(p.Payers, &types.InsurancePayerEdge{
			TermID:        id,
			NetworkStatus: status,
			PriceMin:      e.PriceMin,
			PriceMax:      e.PriceMax,
			Notes:         e.Notes,
		})
	}
	for _, e := range fin.PaymentOptions {
		id, err := s.memo.ResolveID(s.dbc, types.KindPaymentOption, e.Term)
		if err != nil {
			return err
		}
		p.Payments = append(p.Payments, &types.PaymentOptionEdge{
			TermID:   id,
			PriceMin: e.PriceMin,
			PriceMax: e.PriceMax,
			Notes:    e.Notes,
		})
	}

	p.Content = append(p.Content, contentRows(directory.ContentReview, content.Reviews)...)
	p.Content = append(p.Content, contentRows(directory.ContentTestimonial, content.Testimonials)...)
	p.Content = append(p.Content, contentRows(directory.ContentStory, content.Stories)...)
	return nil
}

func (s *build) joinOp(rel types.Relation, refs []domainagg.TermRef) (JoinOp, error) {
	if err := s.memo.Prefetch(s.dbc, rel.Vocab, refs); err != nil {
		return JoinOp{}, err
	}
	ids := make([]uuid.UUID, 0, len(refs))
	seen := map[uuid.UUID]bool{}
	for _, ref := range refs {
		id, err := s.memo.ResolveID(s.dbc, rel.Vocab, ref)
		if err != nil {
			return JoinOp{}, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return JoinOp{Relation: rel, Mode: JoinCreateMany, TermIDs: ids}, nil
}

func (s *build) termOp(column string, kind types.VocabKind, f optional.Field[domainagg.TermRef]) (RelationOp, error) {
	switch {
	case !f.Present:
		return RelationOp{Kind: RelAbsent, Column: column}, nil
	case f.Null:
		return RelationOp{Kind: RelDisconnect, Column: column, Vocab: kind}, nil
	}
	id, err := s.memo.ResolveID(s.dbc, kind, f.Value)
	if err != nil {
		return RelationOp{}, err
	}
	return RelationOp{Kind: RelConnectOrCreate, Column: column, Vocab: kind, ID: id, Slug: f.Value.Key()}, nil
}

func parentCompanyOp(f optional.Field[domainagg.ParentCompanyInput]) RelationOp {
	const column = "parent_company_id"
	switch {
	case !f.Present:
		return RelationOp{Kind: RelAbsent, Column: column}
	case f.Null:
		return RelationOp{Kind: RelDisconnect, Column: column}
	}
	pc := f.Value
	pc.Slug = strings.TrimSpace(pc.Slug)
	if pc.Slug == "" && pc.ID != nil {
		return RelationOp{Kind: RelConnect, Column: column, ID: *pc.ID}
	}
	op := RelationOp{Kind: RelConnectOrCreate, Column: column, Slug: pc.Slug, Company: &pc}
	if pc.ID != nil {
		op.ID = *pc.ID
	}
	return op
}

// CampusParent is the org reference of a standalone campus payload.
func CampusParent(in *domainagg.CampusInput) RelationOp {
	return parentOp("rehab_org_id", in.RehabOrgID, in.RehabOrgSlug)
}

// ProgramParent is the campus reference of a standalone program payload.
func ProgramParent(in *domainagg.ProgramInput) RelationOp {
	return parentOp("campus_id", in.CampusID, in.CampusSlug)
}

func parentOp(column string, id optional.Field[uuid.UUID], slug optional.Field[string]) RelationOp {
	if v, ok := id.Get(); ok && v != uuid.Nil {
		return RelationOp{Kind: RelConnect, Column: column, ID: v}
	}
	if v, ok := slug.Get(); ok && strings.TrimSpace(v) != "" {
		return RelationOp{Kind: RelConnect, Column: column, Slug: strings.TrimSpace(v)}
	}
	return RelationOp{Kind: RelAbsent, Column: column}
}

func contentRows(kind types.ContentKind, items []domainagg.ContentInput) []*types.ContentItem {
	out := make([]*types.ContentItem, 0, len(items))
	for _, c := range items {
		out = append(out, &types.ContentItem{
			Kind:        kind,
			Title:       c.Title,
			Body:        c.Body,
			AuthorName:  c.AuthorName,
			Rating:      c.Rating,
			PublishedAt: c.PublishedAt,
		})
	}
	return out
}

func setString(m map[string]interface{}, column string, f optional.Field[string]) {
	if !f.Present {
		return
	}
	if f.Null {
		m[column] = nil
		return
	}
	m[column] = strings.TrimSpace(f.Value)
}

func setValue[T any](m map[string]interface{}, column string, f optional.Field[T]) {
	if !f.Present {
		return
	}
	if f.Null {
		m[column] = nil
		return
	}
	m[column] = f.Value
}

// setURLs stores null as an empty JSON array; the column is never SQL NULL.
func setURLs(m map[string]interface{}, column string, f optional.Field[[]string]) {
	if !f.Present {
		return
	}
	urls := make([]string, 0, len(f.Value))
	for _, u := range f.Value {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	m[column] = datatypes.JSONSlice[string](urls)
}
