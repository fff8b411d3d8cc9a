package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ParentCompany is a shared brand owner, connected or created by slug.
type ParentCompany struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Website   *string   `gorm:"column:website" json:"website,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (ParentCompany) TableName() string { return "parent_company" }

func (p *ParentCompany) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RehabOrg is the root brand entity.
type RehabOrg struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name        string  `gorm:"column:name;not null;index" json:"name"`
	Slug        string  `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	LegalName   *string `gorm:"column:legal_name" json:"legalName,omitempty"`
	NPI         *string `gorm:"column:npi;index" json:"npi,omitempty"`
	Description *string `gorm:"column:description;type:text" json:"description,omitempty"`
	Website     *string `gorm:"column:website" json:"website,omitempty"`
	Phone       *string `gorm:"column:phone" json:"phone,omitempty"`
	Email       *string `gorm:"column:email" json:"email,omitempty"`

	Street     *string  `gorm:"column:street" json:"street,omitempty"`
	City       *string  `gorm:"column:city;index" json:"city,omitempty"`
	State      *string  `gorm:"column:state;index" json:"state,omitempty"`
	PostalCode *string  `gorm:"column:postal_code" json:"postalCode,omitempty"`
	Country    *string  `gorm:"column:country" json:"country,omitempty"`
	Latitude   *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude  *float64 `gorm:"column:longitude" json:"longitude,omitempty"`

	FoundedYear   *int     `gorm:"column:founded_year" json:"foundedYear,omitempty"`
	BedCount      *int     `gorm:"column:bed_count" json:"bedCount,omitempty"`
	RatingAverage *float64 `gorm:"column:rating_average" json:"ratingAverage,omitempty"`
	IsVerified    bool     `gorm:"column:is_verified;not null" json:"isVerified"`
	IsActive      bool     `gorm:"column:is_active;not null" json:"isActive"`

	SourceURLs  datatypes.JSONSlice[string] `gorm:"column:source_urls" json:"sourceUrls"`
	GalleryURLs datatypes.JSONSlice[string] `gorm:"column:gallery_urls" json:"galleryUrls"`

	ParentCompanyID *uuid.UUID     `gorm:"type:uuid;column:parent_company_id;index" json:"parentCompanyId,omitempty"`
	ParentCompany   *ParentCompany `gorm:"constraint:OnDelete:SET NULL;foreignKey:ParentCompanyID;references:ID" json:"parentCompany,omitempty"`

	Campuses []RehabCampus `gorm:"foreignKey:RehabOrgID" json:"campuses,omitempty"`

	Languages      []Language      `gorm:"many2many:rehab_org_language;joinForeignKey:OwnerID;joinReferences:TermID" json:"languages,omitempty"`
	Amenities      []Amenity       `gorm:"many2many:rehab_org_amenity;joinForeignKey:OwnerID;joinReferences:TermID" json:"amenities,omitempty"`
	LevelsOfCare   []LevelOfCare   `gorm:"many2many:rehab_org_level_of_care;joinForeignKey:OwnerID;joinReferences:TermID" json:"levelsOfCare,omitempty"`
	Services       []Service       `gorm:"many2many:rehab_org_service;joinForeignKey:OwnerID;joinReferences:TermID" json:"services,omitempty"`
	Populations    []Population    `gorm:"many2many:rehab_org_population;joinForeignKey:OwnerID;joinReferences:TermID" json:"populations,omitempty"`
	Accreditations []Accreditation `gorm:"many2many:rehab_org_accreditation;joinForeignKey:OwnerID;joinReferences:TermID" json:"accreditations,omitempty"`
	Features       []Feature       `gorm:"many2many:rehab_org_feature;joinForeignKey:OwnerID;joinReferences:TermID" json:"features,omitempty"`

	InsurancePayers []InsurancePayerEdge `gorm:"foreignKey:RehabOrgID" json:"insurancePayers,omitempty"`
	PaymentOptions  []PaymentOptionEdge  `gorm:"foreignKey:RehabOrgID" json:"paymentOptions,omitempty"`
	Content         []ContentItem        `gorm:"foreignKey:RehabOrgID" json:"content,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (RehabOrg) TableName() string { return "rehab_org" }

func (o *RehabOrg) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
