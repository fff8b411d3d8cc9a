package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
	"github.com/yungbote/rehabdir-backend/internal/pkg/optional"
)

var DirectoryAggregateContract = Contract{
	Name:             "directory",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	Roots:            []string{"rehab_org", "rehab_campus", "rehab_program"},
	Namespaces: []string{
		directory.OwnerOrg.Namespace(),
		directory.OwnerCampus.Namespace(),
		directory.OwnerProgram.Namespace(),
	},
}

// DirectoryAggregate owns create/upsert/delete of the three root entity graphs.
//
// Write method failures return *aggregates.Error with codes:
// CodeMissingRequiredField, CodeParentNotFound, CodeNotFound, CodeValidation,
// CodeVocabularyConflict, CodeConflict, CodeRetryable, CodePersistence.
type DirectoryAggregate interface {
	Aggregate

	CreateOrg(ctx context.Context, in OrgInput) (*directory.RehabOrg, error)
	UpsertOrg(ctx context.Context, id uuid.UUID, in OrgInput) (*directory.RehabOrg, error)
	DeleteOrg(ctx context.Context, id uuid.UUID) error

	CreateCampus(ctx context.Context, in CampusInput) (*directory.RehabCampus, error)
	UpsertCampus(ctx context.Context, id uuid.UUID, in CampusInput) (*directory.RehabCampus, error)
	DeleteCampus(ctx context.Context, id uuid.UUID) error

	CreateProgram(ctx context.Context, in ProgramInput) (*directory.RehabProgram, error)
	UpsertProgram(ctx context.Context, id uuid.UUID, in ProgramInput) (*directory.RehabProgram, error)
	DeleteProgram(ctx context.Context, id uuid.UUID) error
}

// TermRef points at a vocabulary term by id, or by natural key (slug, or code for languages).
type TermRef struct {
	ID   *uuid.UUID `json:"id,omitempty"`
	Slug string     `json:"slug,omitempty"`
	Code string     `json:"code,omitempty"`
	directory.TermAttrs
}

// Key returns the natural key, preferring Code.
func (r TermRef) Key() string {
	if c := strings.TrimSpace(r.Code); c != "" {
		return c
	}
	return strings.TrimSpace(r.Slug)
}

type ParentCompanyInput struct {
	ID      *uuid.UUID `json:"id,omitempty"`
	Slug    string     `json:"slug,omitempty"`
	Name    *string    `json:"name,omitempty"`
	Website *string    `json:"website,omitempty" validate:"omitempty,url"`
}

// FinanceEdgeInput describes an insurance payer or payment option edge.
// Scope defaults to the owner's granularity.
type FinanceEdgeInput struct {
	Term          TermRef                  `json:"term"`
	Scope         *directory.Scope         `json:"scope,omitempty" validate:"omitempty,oneof=ORG CAMPUS PROGRAM"`
	NetworkStatus *directory.NetworkStatus `json:"networkStatus,omitempty" validate:"omitempty,oneof=IN_NETWORK OUT_OF_NETWORK UNKNOWN"`
	PriceMin      *float64                 `json:"priceMin,omitempty" validate:"omitempty,min=0"`
	PriceMax      *float64                 `json:"priceMax,omitempty" validate:"omitempty,min=0"`
	Notes         *string                  `json:"notes,omitempty"`
}

type ContentInput struct {
	Title       *string    `json:"title,omitempty"`
	Body        string     `json:"body" validate:"required"`
	AuthorName  *string    `json:"authorName,omitempty"`
	Rating      *int       `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// ContentLists groups the append-only collections every root carries.
type ContentLists struct {
	Reviews      []ContentInput `json:"reviews,omitempty" validate:"dive"`
	Testimonials []ContentInput `json:"testimonials,omitempty" validate:"dive"`
	Stories      []ContentInput `json:"stories,omitempty" validate:"dive"`
}

// FinanceLists groups the scoped finance edges every root carries.
type FinanceLists struct {
	InsurancePayers []FinanceEdgeInput `json:"insurancePayers,omitempty" validate:"dive"`
	PaymentOptions  []FinanceEdgeInput `json:"paymentOptions,omitempty" validate:"dive"`
}

type OrgInput struct {
	Name        optional.Field[string] `json:"name"`
	Slug        optional.Field[string] `json:"slug"`
	LegalName   optional.Field[string] `json:"legalName"`
	NPI         optional.Field[string] `json:"npi" validate:"omitempty,numeric,len=10"`
	Description optional.Field[string] `json:"description"`
	Website     optional.Field[string] `json:"website" validate:"omitempty,url"`
	Phone       optional.Field[string] `json:"phone"`
	Email       optional.Field[string] `json:"email" validate:"omitempty,email"`

	Street     optional.Field[string]  `json:"street"`
	City       optional.Field[string]  `json:"city"`
	State      optional.Field[string]  `json:"state"`
	PostalCode optional.Field[string]  `json:"postalCode"`
	Country    optional.Field[string]  `json:"country"`
	Latitude   optional.Field[float64] `json:"latitude" validate:"omitempty,latitude"`
	Longitude  optional.Field[float64] `json:"longitude" validate:"omitempty,longitude"`

	FoundedYear   optional.Field[int]     `json:"foundedYear" validate:"omitempty,min=1800,max=2100"`
	BedCount      optional.Field[int]     `json:"bedCount" validate:"omitempty,min=0"`
	RatingAverage optional.Field[float64] `json:"ratingAverage" validate:"omitempty,min=0,max=5"`
	IsVerified    optional.Field[bool]    `json:"isVerified"`
	IsActive      optional.Field[bool]    `json:"isActive"`

	SourceURLs  optional.Field[[]string] `json:"sourceUrls"`
	GalleryURLs optional.Field[[]string] `json:"galleryUrls"`

	ParentCompany optional.Field[ParentCompanyInput] `json:"parentCompany"`

	Languages      []TermRef `json:"languages,omitempty"`
	Amenities      []TermRef `json:"amenities,omitempty"`
	LevelsOfCare   []TermRef `json:"levelsOfCare,omitempty"`
	Services       []TermRef `json:"services,omitempty"`
	Populations    []TermRef `json:"populations,omitempty"`
	Accreditations []TermRef `json:"accreditations,omitempty"`
	Features       []TermRef `json:"features,omitempty"`

	FinanceLists
	ContentLists

	Campuses []CampusInput `json:"campuses,omitempty" validate:"dive"`
}

// VocabLists maps relation names to the supplied collections. Nil means not supplied.
func (in *OrgInput) VocabLists() map[string][]TermRef {
	return map[string][]TermRef{
		"languages":      in.Languages,
		"amenities":      in.Amenities,
		"levelsOfCare":   in.LevelsOfCare,
		"services":       in.Services,
		"populations":    in.Populations,
		"accreditations": in.Accreditations,
		"features":       in.Features,
	}
}

type CampusInput struct {
	RehabOrgID   optional.Field[uuid.UUID] `json:"rehabOrgId"`
	RehabOrgSlug optional.Field[string]    `json:"rehabOrgSlug"`

	Name        optional.Field[string] `json:"name"`
	Slug        optional.Field[string] `json:"slug"`
	Description optional.Field[string] `json:"description"`
	Phone       optional.Field[string] `json:"phone"`

	Street     optional.Field[string]  `json:"street"`
	City       optional.Field[string]  `json:"city"`
	State      optional.Field[string]  `json:"state"`
	PostalCode optional.Field[string]  `json:"postalCode"`
	Country    optional.Field[string]  `json:"country"`
	Latitude   optional.Field[float64] `json:"latitude" validate:"omitempty,latitude"`
	Longitude  optional.Field[float64] `json:"longitude" validate:"omitempty,longitude"`

	BedCount    optional.Field[int]      `json:"bedCount" validate:"omitempty,min=0"`
	IsActive    optional.Field[bool]     `json:"isActive"`
	GalleryURLs optional.Field[[]string] `json:"galleryUrls"`

	Environment  optional.Field[TermRef] `json:"environment"`
	SettingStyle optional.Field[TermRef] `json:"settingStyle"`
	LuxuryTier   optional.Field[TermRef] `json:"luxuryTier"`

	Languages   []TermRef `json:"languages,omitempty"`
	Amenities   []TermRef `json:"amenities,omitempty"`
	Services    []TermRef `json:"services,omitempty"`
	Populations []TermRef `json:"populations,omitempty"`
	Features    []TermRef `json:"features,omitempty"`

	FinanceLists
	ContentLists

	Programs []ProgramInput `json:"programs,omitempty" validate:"dive"`
}

func (in *CampusInput) VocabLists() map[string][]TermRef {
	return map[string][]TermRef{
		"languages":   in.Languages,
		"amenities":   in.Amenities,
		"services":    in.Services,
		"populations": in.Populations,
		"features":    in.Features,
	}
}

type ProgramInput struct {
	CampusID   optional.Field[uuid.UUID] `json:"campusId"`
	CampusSlug optional.Field[string]    `json:"campusSlug"`

	LevelOfCareID   optional.Field[uuid.UUID] `json:"levelOfCareId"`
	LevelOfCareSlug optional.Field[string]    `json:"levelOfCareSlug"`

	Name         optional.Field[string]  `json:"name"`
	Slug         optional.Field[string]  `json:"slug"`
	Description  optional.Field[string]  `json:"description"`
	MinAge       optional.Field[int]     `json:"minAge" validate:"omitempty,min=0,max=120"`
	MaxAge       optional.Field[int]     `json:"maxAge" validate:"omitempty,min=0,max=120"`
	DurationDays optional.Field[int]     `json:"durationDays" validate:"omitempty,min=1"`
	PriceMin     optional.Field[float64] `json:"priceMin" validate:"omitempty,min=0"`
	PriceMax     optional.Field[float64] `json:"priceMax" validate:"omitempty,min=0"`
	IsActive     optional.Field[bool]    `json:"isActive"`

	DetoxServices []TermRef `json:"detoxServices,omitempty"`
	Services      []TermRef `json:"services,omitempty"`
	Populations   []TermRef `json:"populations,omitempty"`
	Languages     []TermRef `json:"languages,omitempty"`
	Amenities     []TermRef `json:"amenities,omitempty"`
	Features      []TermRef `json:"features,omitempty"`
	MATTypes      []TermRef `json:"matTypes,omitempty"`
	Substances    []TermRef `json:"substances,omitempty"`

	FinanceLists
	ContentLists
}

func (in *ProgramInput) VocabLists() map[string][]TermRef {
	return map[string][]TermRef{
		"detoxServices": in.DetoxServices,
		"services":      in.Services,
		"populations":   in.Populations,
		"languages":     in.Languages,
		"amenities":     in.Amenities,
		"features":      in.Features,
		"matTypes":      in.MATTypes,
		"substances":    in.Substances,
	}
}
