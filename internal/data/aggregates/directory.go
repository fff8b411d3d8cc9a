package aggregates

import (
	"context"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/rehabdir-backend/internal/data/cache"
	"github.com/yungbote/rehabdir-backend/internal/data/graph"
	"github.com/yungbote/rehabdir-backend/internal/data/repos"
	"github.com/yungbote/rehabdir-backend/internal/data/vocab"
	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
	"github.com/yungbote/rehabdir-backend/internal/platform/dbctx"
)

// JoinPolicy decides what a supplied join collection does to existing edges on update.
type JoinPolicy string

const (
	// JoinAppend adds the supplied edges and keeps existing ones.
	JoinAppend JoinPolicy = "append"
	// JoinReplace makes the stored edges equal the supplied set.
	JoinReplace JoinPolicy = "replace"
)

func ParseJoinPolicy(s string) JoinPolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(JoinReplace)) {
		return JoinReplace
	}
	return JoinAppend
}

type DirectoryDeps struct {
	BaseDeps
	Repos   repos.Set
	Builder *graph.Builder
	// Cache is optional; without it committed writes bump nothing.
	Cache      *cache.Layer
	JoinPolicy JoinPolicy
}

type directoryAggregate struct {
	deps DirectoryDeps
}

func NewDirectoryAggregate(deps DirectoryDeps) domainagg.DirectoryAggregate {
	deps.BaseDeps = deps.BaseDeps.withDefaults()
	if deps.JoinPolicy == "" {
		deps.JoinPolicy = JoinAppend
	}
	return &directoryAggregate{deps: deps}
}

func (a *directoryAggregate) Contract() domainagg.Contract {
	return domainagg.DirectoryAggregateContract
}

// writeSet records the rows touched by a transaction so namespaces are bumped only
// after it commits.
type writeSet struct {
	order   []types.OwnerKind
	ids     map[types.OwnerKind][]string
	deleted map[types.OwnerKind]bool
}

func newWriteSet() *writeSet {
	return &writeSet{ids: map[types.OwnerKind][]string{}, deleted: map[types.OwnerKind]bool{}}
}

// reset clears state left by an earlier attempt of a retried transaction.
func (w *writeSet) reset() {
	w.order = w.order[:0]
	clear(w.ids)
	clear(w.deleted)
}

func (w *writeSet) add(owner types.OwnerKind, deleted bool, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	if _, ok := w.ids[owner]; !ok {
		w.order = append(w.order, owner)
	}
	for _, id := range ids {
		w.ids[owner] = append(w.ids[owner], id.String())
	}
	if deleted {
		w.deleted[owner] = true
	}
	for _, parent := range owner.Ancestors() {
		w.touch(parent)
	}
}

// touch marks a namespace for a version bump without point ids. Parent list keys
// embed descendant filters, so a child write must retire them too.
func (w *writeSet) touch(owner types.OwnerKind) {
	if _, ok := w.ids[owner]; ok {
		return
	}
	w.order = append(w.order, owner)
	w.ids[owner] = nil
}

func (a *directoryAggregate) flush(ctx context.Context, ws *writeSet) {
	contract := a.Contract()
	for _, owner := range ws.order {
		ns := owner.Namespace()
		if !contract.Invalidates(ns) {
			a.deps.Log.Warn("write touched a namespace outside the contract", "namespace", ns)
			continue
		}
		if a.deps.Cache != nil {
			a.deps.Cache.AfterWrite(ctx, ns, ws.ids[owner], ws.deleted[owner])
		}
		a.deps.Hooks.ObserveBump(ns)
	}
}

func (a *directoryAggregate) CreateOrg(ctx context.Context, in domainagg.OrgInput) (*types.RehabOrg, error) {
	return a.writeOrg(ctx, "directory.org.create", uuid.Nil, &in, false)
}

func (a *directoryAggregate) UpsertOrg(ctx context.Context, id uuid.UUID, in domainagg.OrgInput) (*types.RehabOrg, error) {
	return a.writeOrg(ctx, "directory.org.upsert", id, &in, true)
}

func (a *directoryAggregate) writeOrg(ctx context.Context, op string, id uuid.UUID, in *domainagg.OrgInput, upsert bool) (*types.RehabOrg, error) {
	ws := newWriteSet()
	err := executeWrite(ctx, a.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		ws.reset()
		existing, err := a.existing(dbc, op, types.OwnerOrg, id, upsert)
		if err != nil {
			return err
		}
		if err := graph.ValidateOrg(in, !existing); err != nil {
			return err
		}
		plan, err := a.deps.Builder.Org(dbc, in)
		if err != nil {
			return err
		}
		if existing {
			return a.updateRoot(dbc, op, plan, id, ws)
		}
		id, err = a.createRoot(dbc, op, plan, id, uuid.Nil, ws)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.flush(ctx, ws)
	return a.deps.Repos.Orgs.GetGraph(ctx, nil, id)
}

func (a *directoryAggregate) CreateCampus(ctx context.Context, in domainagg.CampusInput) (*types.RehabCampus, error) {
	return a.writeCampus(ctx, "directory.campus.create", uuid.Nil, &in, false)
}

func (a *directoryAggregate) UpsertCampus(ctx context.Context, id uuid.UUID, in domainagg.CampusInput) (*types.RehabCampus, error) {
	return a.writeCampus(ctx, "directory.campus.upsert", id, &in, true)
}

func (a *directoryAggregate) writeCampus(ctx context.Context, op string, id uuid.UUID, in *domainagg.CampusInput, upsert bool) (*types.RehabCampus, error) {
	ws := newWriteSet()
	err := executeWrite(ctx, a.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		ws.reset()
		existing, err := a.existing(dbc, op, types.OwnerCampus, id, upsert)
		if err != nil {
			return err
		}
		if err := graph.ValidateCampus(in, !existing); err != nil {
			return err
		}
		// The org is checked before the builder may create vocabulary terms.
		var parentID uuid.UUID
		if !existing {
			parentID, err = a.resolveParent(dbc, op, graph.CampusParent(in))
			if err != nil {
				return err
			}
		}
		plan, err := a.deps.Builder.Campus(dbc, in)
		if err != nil {
			return err
		}
		if existing {
			return a.updateRoot(dbc, op, plan, id, ws)
		}
		id, err = a.createRoot(dbc, op, plan, id, parentID, ws)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.flush(ctx, ws)
	return a.deps.Repos.Campuses.GetGraph(ctx, nil, id)
}

func (a *directoryAggregate) CreateProgram(ctx context.Context, in domainagg.ProgramInput) (*types.RehabProgram, error) {
	return a.writeProgram(ctx, "directory.program.create", uuid.Nil, &in, false)
}

func (a *directoryAggregate) UpsertProgram(ctx context.Context, id uuid.UUID, in domainagg.ProgramInput) (*types.RehabProgram, error) {
	return a.writeProgram(ctx, "directory.program.upsert", id, &in, true)
}

func (a *directoryAggregate) writeProgram(ctx context.Context, op string, id uuid.UUID, in *domainagg.ProgramInput, upsert bool) (*types.RehabProgram, error) {
	ws := newWriteSet()
	err := executeWrite(ctx, a.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		ws.reset()
		existing, err := a.existing(dbc, op, types.OwnerProgram, id, upsert)
		if err != nil {
			return err
		}
		if err := graph.ValidateProgram(in, !existing); err != nil {
			return err
		}
		var parentID uuid.UUID
		if !existing {
			parentID, err = a.resolveParent(dbc, op, graph.ProgramParent(in))
			if err != nil {
				return err
			}
		}
		plan, err := a.deps.Builder.Program(dbc, in)
		if err != nil {
			return err
		}
		if existing {
			return a.updateRoot(dbc, op, plan, id, ws)
		}
		id, err = a.createRoot(dbc, op, plan, id, parentID, ws)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.flush(ctx, ws)
	return a.deps.Repos.Programs.GetGraph(ctx, nil, id)
}

// existing reports whether an upsert targets a stored row. Creates always return false.
func (a *directoryAggregate) existing(dbc dbctx.Context, op string, owner types.OwnerKind, id uuid.UUID, upsert bool) (bool, error) {
	if !upsert {
		return false, nil
	}
	if id == uuid.Nil {
		return false, domainagg.Validation(op, "id", "upsert requires an id")
	}
	var (
		found bool
		err   error
	)
	switch owner {
	case types.OwnerCampus:
		var row *types.RehabCampus
		row, err = a.deps.Repos.Campuses.GetByID(dbc.Ctx, dbc.Tx, id)
		found = row != nil
	case types.OwnerProgram:
		var row *types.RehabProgram
		row, err = a.deps.Repos.Programs.GetByID(dbc.Ctx, dbc.Tx, id)
		found = row != nil
	default:
		var row *types.RehabOrg
		row, err = a.deps.Repos.Orgs.GetByID(dbc.Ctx, dbc.Tx, id)
		found = row != nil
	}
	return found, err
}

// resolveParent finds the org of a campus or the campus of a program by id or slug.
func (a *directoryAggregate) resolveParent(dbc dbctx.Context, op string, ref graph.RelationOp) (uuid.UUID, error) {
	if ref.Kind == graph.RelAbsent || (ref.ID == uuid.Nil && ref.Slug == "") {
		return uuid.Nil, domainagg.MissingRequiredField(op, parentField(ref.Column, false))
	}
	field, refText := parentField(ref.Column, false), ref.ID.String()
	if ref.ID == uuid.Nil {
		field, refText = parentField(ref.Column, true), ref.Slug
	}

	switch ref.Column {
	case "rehab_org_id":
		var row *types.RehabOrg
		var err error
		if ref.ID != uuid.Nil {
			row, err = a.deps.Repos.Orgs.GetByID(dbc.Ctx, dbc.Tx, ref.ID)
		} else {
			row, err = a.deps.Repos.Orgs.GetBySlug(dbc.Ctx, dbc.Tx, ref.Slug)
		}
		if err != nil {
			return uuid.Nil, err
		}
		if row == nil {
			return uuid.Nil, domainagg.ParentNotFound(op, field, refText)
		}
		return row.ID, nil
	case "campus_id":
		var row *types.RehabCampus
		var err error
		if ref.ID != uuid.Nil {
			row, err = a.deps.Repos.Campuses.GetByID(dbc.Ctx, dbc.Tx, ref.ID)
		} else {
			row, err = a.deps.Repos.Campuses.GetBySlug(dbc.Ctx, dbc.Tx, ref.Slug)
		}
		if err != nil {
			return uuid.Nil, err
		}
		if row == nil {
			return uuid.Nil, domainagg.ParentNotFound(op, field, refText)
		}
		// A campus always has an org; a dangling one means the graph is corrupt.
		org, err := a.deps.Repos.Orgs.GetByID(dbc.Ctx, dbc.Tx, row.RehabOrgID)
		if err != nil {
			return uuid.Nil, err
		}
		if org == nil {
			return uuid.Nil, domainagg.ParentNotFound(op, "rehabOrgId", row.RehabOrgID.String())
		}
		return row.ID, nil
	}
	return uuid.Nil, domainagg.NewError(domainagg.CodeInternal, op, "unknown parent column "+ref.Column, nil)
}

func parentField(column string, bySlug bool) string {
	name := "rehabOrg"
	if column == "campus_id" {
		name = "campus"
	}
	if bySlug {
		return name + "Slug"
	}
	return name + "Id"
}

func (a *directoryAggregate) createRoot(dbc dbctx.Context, op string, p *graph.Plan, id, parentID uuid.UUID, ws *writeSet) (uuid.UUID, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := time.Now().UTC()
	values := make(map[string]interface{}, len(p.Scalars)+8)
	for k, v := range p.Scalars {
		values[k] = v
	}
	values["id"] = id
	values["created_at"] = now
	values["updated_at"] = now
	if _, ok := values["is_active"]; !ok {
		values["is_active"] = true
	}
	if _, ok := values["gallery_urls"]; !ok && p.Owner != types.OwnerProgram {
		values["gallery_urls"] = datatypes.JSONSlice[string]{}
	}
	if err := a.applyRefs(dbc, op, p, values); err != nil {
		return uuid.Nil, err
	}

	var err error
	switch p.Owner {
	case types.OwnerOrg:
		if _, ok := values["is_verified"]; !ok {
			values["is_verified"] = false
		}
		if _, ok := values["source_urls"]; !ok {
			values["source_urls"] = datatypes.JSONSlice[string]{}
		}
		err = a.deps.Repos.Orgs.CreateFields(dbc.Ctx, dbc.Tx, values)
	case types.OwnerCampus:
		values["rehab_org_id"] = parentID
		err = a.deps.Repos.Campuses.CreateFields(dbc.Ctx, dbc.Tx, values)
	case types.OwnerProgram:
		values["campus_id"] = parentID
		err = a.deps.Repos.Programs.CreateFields(dbc.Ctx, dbc.Tx, values)
	}
	if err != nil {
		return uuid.Nil, err
	}
	if err := a.writeParts(dbc, p, id, false); err != nil {
		return uuid.Nil, err
	}
	ws.add(p.Owner, false, id)

	for _, child := range p.Children {
		if _, err := a.createRoot(dbc, op, child, uuid.Nil, id, ws); err != nil {
			return uuid.Nil, err
		}
	}
	return id, nil
}

func (a *directoryAggregate) updateRoot(dbc dbctx.Context, op string, p *graph.Plan, id uuid.UUID, ws *writeSet) error {
	values := make(map[string]interface{}, len(p.Scalars)+4)
	for k, v := range p.Scalars {
		values[k] = v
	}
	if err := a.applyRefs(dbc, op, p, values); err != nil {
		return err
	}
	if p.Parent.Kind == graph.RelConnect {
		parentID, err := a.resolveParent(dbc, op, p.Parent)
		if err != nil {
			return err
		}
		values[p.Parent.Column] = parentID
	}

	var err error
	switch p.Owner {
	case types.OwnerOrg:
		err = a.deps.Repos.Orgs.UpdateFields(dbc.Ctx, dbc.Tx, id, values)
	case types.OwnerCampus:
		err = a.deps.Repos.Campuses.UpdateFields(dbc.Ctx, dbc.Tx, id, values)
	case types.OwnerProgram:
		err = a.deps.Repos.Programs.UpdateFields(dbc.Ctx, dbc.Tx, id, values)
	}
	if err != nil {
		return err
	}
	if err := a.writeParts(dbc, p, id, true); err != nil {
		return err
	}
	ws.add(p.Owner, false, id)

	for _, child := range p.Children {
		if _, err := a.createRoot(dbc, op, child, uuid.Nil, id, ws); err != nil {
			return err
		}
	}
	return nil
}

// applyRefs writes single-valued references into values.
func (a *directoryAggregate) applyRefs(dbc dbctx.Context, op string, p *graph.Plan, values map[string]interface{}) error {
	for _, ref := range p.Refs {
		switch ref.Kind {
		case graph.RelDisconnect:
			values[ref.Column] = nil
		case graph.RelConnect, graph.RelConnectOrCreate:
			id := ref.ID
			if ref.Column == "parent_company_id" {
				var err error
				if id, err = a.parentCompany(dbc, op, ref); err != nil {
					return err
				}
			}
			values[ref.Column] = id
		}
	}
	return nil
}

func (a *directoryAggregate) parentCompany(dbc dbctx.Context, op string, ref graph.RelationOp) (uuid.UUID, error) {
	pcs := a.deps.Repos.ParentCompany
	if ref.Kind == graph.RelConnect {
		row, err := pcs.GetByID(dbc.Ctx, dbc.Tx, ref.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if row == nil {
			return uuid.Nil, domainagg.ParentNotFound(op, "parentCompany.id", ref.ID.String())
		}
		return row.ID, nil
	}

	in := ref.Company
	row, err := pcs.GetBySlug(dbc.Ctx, dbc.Tx, ref.Slug)
	if err != nil {
		return uuid.Nil, err
	}
	if row != nil {
		updates := map[string]interface{}{}
		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Website != nil {
			updates["website"] = *in.Website
		}
		if err := pcs.UpdateFields(dbc.Ctx, dbc.Tx, row.ID, updates); err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	}

	name := vocab.Humanize(ref.Slug)
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		name = strings.TrimSpace(*in.Name)
	}
	created := &types.ParentCompany{ID: ref.ID, Slug: ref.Slug, Name: name, Website: in.Website}
	if err := pcs.Create(dbc.Ctx, dbc.Tx, created); err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

// writeParts writes joins, finance edges and content for one owner row.
func (a *directoryAggregate) writeParts(dbc dbctx.Context, p *graph.Plan, ownerID uuid.UUID, update bool) error {
	replace := update && a.deps.JoinPolicy == JoinReplace
	joins := a.deps.Repos.Joins
	for _, j := range p.Joins {
		if !replace {
			if err := joins.AddEdges(dbc.Ctx, dbc.Tx, j.Relation, ownerID, j.TermIDs); err != nil {
				return err
			}
			continue
		}
		have, err := joins.ListTermIDs(dbc.Ctx, dbc.Tx, j.Relation, ownerID)
		if err != nil {
			return err
		}
		current := mapset.NewSet[uuid.UUID](have...)
		wanted := mapset.NewSet[uuid.UUID](j.TermIDs...)
		if err := joins.RemoveEdges(dbc.Ctx, dbc.Tx, j.Relation, ownerID, current.Difference(wanted).ToSlice()); err != nil {
			return err
		}
		if err := joins.AddEdges(dbc.Ctx, dbc.Tx, j.Relation, ownerID, wanted.Difference(current).ToSlice()); err != nil {
			return err
		}
	}

	scope := p.Owner.Scope()
	fin := a.deps.Repos.Finance
	if p.Payers != nil {
		if replace {
			if err := fin.DeletePayerEdges(dbc.Ctx, dbc.Tx, scope, ownerID); err != nil {
				return err
			}
		}
		for _, e := range p.Payers {
			e.SetOwner(scope, ownerID)
		}
		if err := fin.CreatePayerEdges(dbc.Ctx, dbc.Tx, p.Payers); err != nil {
			return err
		}
	}
	if p.Payments != nil {
		if replace {
			if err := fin.DeletePaymentEdges(dbc.Ctx, dbc.Tx, scope, ownerID); err != nil {
				return err
			}
		}
		for _, e := range p.Payments {
			e.SetOwner(scope, ownerID)
		}
		if err := fin.CreatePaymentEdges(dbc.Ctx, dbc.Tx, p.Payments); err != nil {
			return err
		}
	}

	for _, c := range p.Content {
		c.SetOwner(scope, ownerID)
	}
	return a.deps.Repos.Content.Create(dbc.Ctx, dbc.Tx, p.Content)
}

func (a *directoryAggregate) DeleteOrg(ctx context.Context, id uuid.UUID) error {
	const op = "directory.org.delete"
	ws := newWriteSet()
	err := executeWrite(ctx, a.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		ws.reset()
		row, err := a.deps.Repos.Orgs.GetByID(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return domainagg.NotFound(op, "org", id.String())
		}
		campusIDs, err := a.deps.Repos.Campuses.IDsByOrgIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if err := a.deleteCampuses(dbc, campusIDs, ws); err != nil {
			return err
		}
		return a.deleteRows(dbc, types.OwnerOrg, []uuid.UUID{id}, ws)
	})
	if err != nil {
		return err
	}
	a.flush(ctx, ws)
	return nil
}

func (a *directoryAggregate) DeleteCampus(ctx context.Context, id uuid.UUID) error {
	const op = "directory.campus.delete"
	ws := newWriteSet()
	err := executeWrite(ctx, a.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		ws.reset()
		row, err := a.deps.Repos.Campuses.GetByID(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return domainagg.NotFound(op, "campus", id.String())
		}
		return a.deleteCampuses(dbc, []uuid.UUID{id}, ws)
	})
	if err != nil {
		return err
	}
	a.flush(ctx, ws)
	return nil
}

func (a *directoryAggregate) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	const op = "directory.program.delete"
	ws := newWriteSet()
	err := executeWrite(ctx, a.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		ws.reset()
		row, err := a.deps.Repos.Programs.GetByID(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return domainagg.NotFound(op, "program", id.String())
		}
		return a.deleteRows(dbc, types.OwnerProgram, []uuid.UUID{id}, ws)
	})
	if err != nil {
		return err
	}
	a.flush(ctx, ws)
	return nil
}

func (a *directoryAggregate) deleteCampuses(dbc dbctx.Context, campusIDs []uuid.UUID, ws *writeSet) error {
	if len(campusIDs) == 0 {
		return nil
	}
	programIDs, err := a.deps.Repos.Programs.IDsByCampusIDs(dbc.Ctx, dbc.Tx, campusIDs)
	if err != nil {
		return err
	}
	if err := a.deleteRows(dbc, types.OwnerProgram, programIDs, ws); err != nil {
		return err
	}
	return a.deleteRows(dbc, types.OwnerCampus, campusIDs, ws)
}

// deleteRows removes owner rows with their joins, finance edges and content.
func (a *directoryAggregate) deleteRows(dbc dbctx.Context, owner types.OwnerKind, ids []uuid.UUID, ws *writeSet) error {
	if len(ids) == 0 {
		return nil
	}
	for _, rel := range directory.Relations(owner) {
		if err := a.deps.Repos.Joins.DeleteByOwners(dbc.Ctx, dbc.Tx, rel, ids); err != nil {
			return err
		}
	}
	if err := a.deps.Repos.Finance.DeleteByOwners(dbc.Ctx, dbc.Tx, owner.Scope(), ids); err != nil {
		return err
	}
	if err := a.deps.Repos.Content.DeleteByOwners(dbc.Ctx, dbc.Tx, owner.Scope(), ids); err != nil {
		return err
	}
	var err error
	switch owner {
	case types.OwnerOrg:
		_, err = a.deps.Repos.Orgs.DeleteByIDs(dbc.Ctx, dbc.Tx, ids)
	case types.OwnerCampus:
		_, err = a.deps.Repos.Campuses.DeleteByIDs(dbc.Ctx, dbc.Tx, ids)
	case types.OwnerProgram:
		_, err = a.deps.Repos.Programs.DeleteByIDs(dbc.Ctx, dbc.Tx, ids)
	}
	if err != nil {
		return err
	}
	ws.add(owner, true, ids...)
	return nil
}
