package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope is the granularity a finance edge or content item is attached at.
type Scope string

const (
	ScopeOrg     Scope = "ORG"
	ScopeCampus  Scope = "CAMPUS"
	ScopeProgram Scope = "PROGRAM"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeOrg, ScopeCampus, ScopeProgram:
		return true
	}
	return false
}

// OwnerColumn is the foreign key column an owner of this scope is stored in.
func (s Scope) OwnerColumn() string {
	switch s {
	case ScopeCampus:
		return "campus_id"
	case ScopeProgram:
		return "program_id"
	default:
		return "rehab_org_id"
	}
}

type NetworkStatus string

const (
	NetworkIn      NetworkStatus = "IN_NETWORK"
	NetworkOut     NetworkStatus = "OUT_OF_NETWORK"
	NetworkUnknown NetworkStatus = "UNKNOWN"
)

// JoinEdge links one root entity to one vocabulary term. The table is chosen per relation.
type JoinEdge struct {
	OwnerID uuid.UUID `gorm:"type:uuid;column:owner_id;primaryKey"`
	TermID  uuid.UUID `gorm:"type:uuid;column:term_id;primaryKey"`
}

// EdgeOwner holds the owner columns shared by finance edges and content items.
// Exactly the column matching Scope is set.
type EdgeOwner struct {
	Scope      Scope      `gorm:"column:scope;not null;index" json:"scope"`
	RehabOrgID *uuid.UUID `gorm:"type:uuid;column:rehab_org_id;index" json:"rehabOrgId,omitempty"`
	CampusID   *uuid.UUID `gorm:"type:uuid;column:campus_id;index" json:"campusId,omitempty"`
	ProgramID  *uuid.UUID `gorm:"type:uuid;column:program_id;index" json:"programId,omitempty"`
}

// SetOwner points the edge at ownerID under scope, clearing the other owner columns.
func (o *EdgeOwner) SetOwner(scope Scope, ownerID uuid.UUID) {
	id := ownerID
	o.Scope = scope
	o.RehabOrgID, o.CampusID, o.ProgramID = nil, nil, nil
	switch scope {
	case ScopeOrg:
		o.RehabOrgID = &id
	case ScopeCampus:
		o.CampusID = &id
	case ScopeProgram:
		o.ProgramID = &id
	}
}

// OwnerID returns the id stored in the column matching Scope.
func (o EdgeOwner) OwnerID() uuid.UUID {
	var p *uuid.UUID
	switch o.Scope {
	case ScopeOrg:
		p = o.RehabOrgID
	case ScopeCampus:
		p = o.CampusID
	case ScopeProgram:
		p = o.ProgramID
	}
	if p == nil {
		return uuid.Nil
	}
	return *p
}

type InsurancePayerEdge struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EdgeOwner

	TermID uuid.UUID       `gorm:"type:uuid;column:term_id;not null;index" json:"termId"`
	Payer  *InsurancePayer `gorm:"constraint:OnDelete:CASCADE;foreignKey:TermID;references:ID" json:"payer,omitempty"`

	NetworkStatus NetworkStatus `gorm:"column:network_status;not null" json:"networkStatus"`
	PriceMin      *float64      `gorm:"column:price_min" json:"priceMin,omitempty"`
	PriceMax      *float64      `gorm:"column:price_max" json:"priceMax,omitempty"`
	Notes         *string       `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (InsurancePayerEdge) TableName() string { return "insurance_payer_edge" }

func (e *InsurancePayerEdge) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type PaymentOptionEdge struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EdgeOwner

	TermID uuid.UUID      `gorm:"type:uuid;column:term_id;not null;index" json:"termId"`
	Option *PaymentOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:TermID;references:ID" json:"option,omitempty"`

	PriceMin *float64 `gorm:"column:price_min" json:"priceMin,omitempty"`
	PriceMax *float64 `gorm:"column:price_max" json:"priceMax,omitempty"`
	Notes    *string  `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (PaymentOptionEdge) TableName() string { return "payment_option_edge" }

func (e *PaymentOptionEdge) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type ContentKind string

const (
	ContentReview      ContentKind = "REVIEW"
	ContentTestimonial ContentKind = "TESTIMONIAL"
	ContentStory       ContentKind = "STORY"
)

// ContentItem is an append-only review, testimonial or story.
type ContentItem struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EdgeOwner

	Kind        ContentKind `gorm:"column:kind;not null;index" json:"kind"`
	Title       *string     `gorm:"column:title" json:"title,omitempty"`
	Body        string      `gorm:"column:body;type:text;not null" json:"body"`
	AuthorName  *string     `gorm:"column:author_name" json:"authorName,omitempty"`
	Rating      *int        `gorm:"column:rating" json:"rating,omitempty"`
	PublishedAt *time.Time  `gorm:"column:published_at" json:"publishedAt,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (ContentItem) TableName() string { return "content_item" }

func (c *ContentItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
