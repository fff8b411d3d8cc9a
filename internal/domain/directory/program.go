package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RehabProgram is a care track at one campus with exactly one level of care.
type RehabProgram struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CampusID      uuid.UUID    `gorm:"type:uuid;column:campus_id;not null;index" json:"campusId"`
	LevelOfCareID uuid.UUID    `gorm:"type:uuid;column:level_of_care_id;not null;index" json:"levelOfCareId"`
	LevelOfCare   *LevelOfCare `gorm:"constraint:OnDelete:RESTRICT;foreignKey:LevelOfCareID;references:ID" json:"levelOfCare,omitempty"`

	Name         string   `gorm:"column:name;not null;index" json:"name"`
	Slug         string   `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Description  *string  `gorm:"column:description;type:text" json:"description,omitempty"`
	MinAge       *int     `gorm:"column:min_age" json:"minAge,omitempty"`
	MaxAge       *int     `gorm:"column:max_age" json:"maxAge,omitempty"`
	DurationDays *int     `gorm:"column:duration_days" json:"durationDays,omitempty"`
	PriceMin     *float64 `gorm:"column:price_min" json:"priceMin,omitempty"`
	PriceMax     *float64 `gorm:"column:price_max" json:"priceMax,omitempty"`
	IsActive     bool     `gorm:"column:is_active;not null" json:"isActive"`

	DetoxServices []DetoxService `gorm:"many2many:rehab_program_detox_service;joinForeignKey:OwnerID;joinReferences:TermID" json:"detoxServices,omitempty"`
	Services      []Service      `gorm:"many2many:rehab_program_service;joinForeignKey:OwnerID;joinReferences:TermID" json:"services,omitempty"`
	Populations   []Population   `gorm:"many2many:rehab_program_population;joinForeignKey:OwnerID;joinReferences:TermID" json:"populations,omitempty"`
	Languages     []Language     `gorm:"many2many:rehab_program_language;joinForeignKey:OwnerID;joinReferences:TermID" json:"languages,omitempty"`
	Amenities     []Amenity      `gorm:"many2many:rehab_program_amenity;joinForeignKey:OwnerID;joinReferences:TermID" json:"amenities,omitempty"`
	Features      []Feature      `gorm:"many2many:rehab_program_feature;joinForeignKey:OwnerID;joinReferences:TermID" json:"features,omitempty"`
	MATTypes      []MATType      `gorm:"many2many:rehab_program_mat_type;joinForeignKey:OwnerID;joinReferences:TermID" json:"matTypes,omitempty"`
	Substances    []Substance    `gorm:"many2many:rehab_program_substance;joinForeignKey:OwnerID;joinReferences:TermID" json:"substances,omitempty"`

	InsurancePayers []InsurancePayerEdge `gorm:"foreignKey:ProgramID" json:"insurancePayers,omitempty"`
	PaymentOptions  []PaymentOptionEdge  `gorm:"foreignKey:ProgramID" json:"paymentOptions,omitempty"`
	Content         []ContentItem        `gorm:"foreignKey:ProgramID" json:"content,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (RehabProgram) TableName() string { return "rehab_program" }

func (p *RehabProgram) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
