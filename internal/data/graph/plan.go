// Package graph turns org/campus/program payloads into write plans. It performs no I/O
// except vocabulary resolution.
package graph

import (
	"github.com/google/uuid"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
)

// RelationOpKind tags a single-valued relation write.
type RelationOpKind int

const (
	// RelAbsent leaves the relation untouched.
	RelAbsent RelationOpKind = iota
	// RelConnect points at an existing row by ID or Slug.
	RelConnect
	// RelConnectOrCreate points at a row by natural key, creating it when missing.
	RelConnectOrCreate
	// RelDisconnect clears the reference (explicit null).
	RelDisconnect
)

func (k RelationOpKind) String() string {
	switch k {
	case RelConnect:
		return "connect"
	case RelConnectOrCreate:
		return "connectOrCreate"
	case RelDisconnect:
		return "disconnect"
	default:
		return "absent"
	}
}

type RelationOp struct {
	Kind RelationOpKind
	// Column is the foreign key column on the owner row.
	Column string
	// Vocab is set for vocabulary references.
	Vocab types.VocabKind
	// ID is the target once known. Vocabulary references are resolved by the builder.
	ID   uuid.UUID
	Slug string
	// Company carries the payload of a parent company connect-or-create.
	Company *domainagg.ParentCompanyInput
}

type JoinMode string

const JoinCreateMany JoinMode = "createMany"

// JoinOp writes edges of one vocabulary relation. An empty TermIDs list is still a
// supplied collection.
type JoinOp struct {
	Relation types.Relation
	Mode     JoinMode
	TermIDs  []uuid.UUID
}

// Plan is everything one root write needs. Finance and content rows have no owner set;
// the engine assigns it once the root id is known.
type Plan struct {
	Owner   types.OwnerKind
	Scalars map[string]interface{}

	// Parent is the owning org (campus) or campus (program). Absent for orgs and for
	// nested children, whose parent is the enclosing plan.
	Parent RelationOp
	// Refs are the single-valued references on the row itself.
	Refs []RelationOp

	Joins []JoinOp
	// Payers and Payments are nil when the collection was not supplied.
	Payers   []*types.InsurancePayerEdge
	Payments []*types.PaymentOptionEdge
	Content  []*types.ContentItem

	Children []*Plan
}

// Ref returns the op for column, or an absent op.
func (p *Plan) Ref(column string) RelationOp {
	for _, r := range p.Refs {
		if r.Column == column {
			return r
		}
	}
	return RelationOp{Kind: RelAbsent, Column: column}
}

// Owners lists the owner kinds touched by p and its descendants.
func (p *Plan) Owners() []types.OwnerKind {
	seen := map[types.OwnerKind]bool{}
	var out []types.OwnerKind
	var walk func(*Plan)
	walk = func(n *Plan) {
		if !seen[n.Owner] {
			seen[n.Owner] = true
			out = append(out, n.Owner)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(p)
	return out
}
