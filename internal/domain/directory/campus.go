package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RehabCampus is a physical site owned by exactly one RehabOrg.
type RehabCampus struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	RehabOrgID uuid.UUID `gorm:"type:uuid;column:rehab_org_id;not null;index" json:"rehabOrgId"`

	Name        string  `gorm:"column:name;not null;index" json:"name"`
	Slug        string  `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Description *string `gorm:"column:description;type:text" json:"description,omitempty"`
	Phone       *string `gorm:"column:phone" json:"phone,omitempty"`

	Street     string   `gorm:"column:street;not null" json:"street"`
	City       string   `gorm:"column:city;not null;index" json:"city"`
	State      string   `gorm:"column:state;not null;index" json:"state"`
	PostalCode string   `gorm:"column:postal_code;not null;index" json:"postalCode"`
	Country    string   `gorm:"column:country;not null" json:"country"`
	Latitude   *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude  *float64 `gorm:"column:longitude" json:"longitude,omitempty"`

	BedCount    *int                        `gorm:"column:bed_count" json:"bedCount,omitempty"`
	IsActive    bool                        `gorm:"column:is_active;not null" json:"isActive"`
	GalleryURLs datatypes.JSONSlice[string] `gorm:"column:gallery_urls" json:"galleryUrls"`

	EnvironmentID  *uuid.UUID    `gorm:"type:uuid;column:environment_id;index" json:"environmentId,omitempty"`
	Environment    *Environment  `gorm:"constraint:OnDelete:SET NULL;foreignKey:EnvironmentID;references:ID" json:"environment,omitempty"`
	SettingStyleID *uuid.UUID    `gorm:"type:uuid;column:setting_style_id;index" json:"settingStyleId,omitempty"`
	SettingStyle   *SettingStyle `gorm:"constraint:OnDelete:SET NULL;foreignKey:SettingStyleID;references:ID" json:"settingStyle,omitempty"`
	LuxuryTierID   *uuid.UUID    `gorm:"type:uuid;column:luxury_tier_id;index" json:"luxuryTierId,omitempty"`
	LuxuryTier     *LuxuryTier   `gorm:"constraint:OnDelete:SET NULL;foreignKey:LuxuryTierID;references:ID" json:"luxuryTier,omitempty"`

	Programs []RehabProgram `gorm:"foreignKey:CampusID" json:"programs,omitempty"`

	Languages   []Language   `gorm:"many2many:rehab_campus_language;joinForeignKey:OwnerID;joinReferences:TermID" json:"languages,omitempty"`
	Amenities   []Amenity    `gorm:"many2many:rehab_campus_amenity;joinForeignKey:OwnerID;joinReferences:TermID" json:"amenities,omitempty"`
	Services    []Service    `gorm:"many2many:rehab_campus_service;joinForeignKey:OwnerID;joinReferences:TermID" json:"services,omitempty"`
	Populations []Population `gorm:"many2many:rehab_campus_population;joinForeignKey:OwnerID;joinReferences:TermID" json:"populations,omitempty"`
	Features    []Feature    `gorm:"many2many:rehab_campus_feature;joinForeignKey:OwnerID;joinReferences:TermID" json:"features,omitempty"`

	InsurancePayers []InsurancePayerEdge `gorm:"foreignKey:CampusID" json:"insurancePayers,omitempty"`
	PaymentOptions  []PaymentOptionEdge  `gorm:"foreignKey:CampusID" json:"paymentOptions,omitempty"`
	Content         []ContentItem        `gorm:"foreignKey:CampusID" json:"content,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (RehabCampus) TableName() string { return "rehab_campus" }

func (c *RehabCampus) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
