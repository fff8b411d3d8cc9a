package directory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VocabKind names one shared lookup table.
type VocabKind string

const (
	KindLanguage       VocabKind = "language"
	KindAmenity        VocabKind = "amenity"
	KindLevelOfCare    VocabKind = "level_of_care"
	KindEnvironment    VocabKind = "environment"
	KindSettingStyle   VocabKind = "setting_style"
	KindLuxuryTier     VocabKind = "luxury_tier"
	KindInsurancePayer VocabKind = "insurance_payer"
	KindPaymentOption  VocabKind = "payment_option"
	KindDetoxService   VocabKind = "detox_service"
	KindService        VocabKind = "service"
	KindPopulation     VocabKind = "population"
	KindFeature        VocabKind = "feature"
	KindMATType        VocabKind = "mat_type"
	KindSubstance      VocabKind = "substance"
	KindAccreditation  VocabKind = "accreditation"
)

// TermAttrs carries the optional display and variant attributes of a vocabulary term.
// Attributes that do not apply to a kind are ignored.
type TermAttrs struct {
	DisplayName     *string `json:"displayName,omitempty"`
	Description     *string `json:"description,omitempty"`
	Type            *string `json:"type,omitempty"`
	Rank            *int    `json:"rank,omitempty"`
	MedicationClass *string `json:"medicationClass,omitempty"`
	Category        *string `json:"category,omitempty"`
	PayerType       *string `json:"payerType,omitempty"`
	CompanyName     *string `json:"companyName,omitempty"`
}

// VocabTerm is implemented by every vocabulary row type.
type VocabTerm interface {
	TableName() string
	TermID() uuid.UUID
	NaturalKey() string
	SetNaturalKey(key string)
	// Assign copies the supplied attrs onto the row and returns the changed columns.
	Assign(a TermAttrs) map[string]interface{}
}

// TermBase holds the columns shared by every vocabulary table.
type TermBase struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string    `gorm:"column:display_name;not null" json:"displayName"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (b *TermBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *TermBase) TermID() uuid.UUID { return b.ID }

func (b *TermBase) Assign(a TermAttrs) map[string]interface{} {
	out := map[string]interface{}{}
	if a.DisplayName != nil && strings.TrimSpace(*a.DisplayName) != "" {
		b.DisplayName = strings.TrimSpace(*a.DisplayName)
		out["display_name"] = b.DisplayName
	}
	if a.Description != nil {
		b.Description = a.Description
		out["description"] = *a.Description
	}
	return out
}

// SlugKey is the natural key of every kind except Language.
type SlugKey struct {
	Slug string `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
}

func (k *SlugKey) NaturalKey() string { return k.Slug }
func (k *SlugKey) SetNaturalKey(key string) { k.Slug = key }

type Language struct {
	TermBase
	Code string `gorm:"column:code;not null;uniqueIndex" json:"code"`
}

func (Language) TableName() string { return "language" }
func (l *Language) NaturalKey() string { return l.Code }
func (l *Language) SetNaturalKey(key string) { l.Code = key }

type Amenity struct {
	TermBase
	SlugKey
}

func (Amenity) TableName() string { return "amenity" }

type LevelOfCare struct {
	TermBase
	SlugKey
	Type *string `gorm:"column:type;index" json:"type,omitempty"`
}

func (LevelOfCare) TableName() string { return "level_of_care" }

func (l *LevelOfCare) Assign(a TermAttrs) map[string]interface{} {
	out := l.TermBase.Assign(a)
	if a.Type != nil {
		l.Type = a.Type
		out["type"] = *a.Type
	}
	return out
}

type Environment struct {
	TermBase
	SlugKey
}

func (Environment) TableName() string { return "environment" }

type SettingStyle struct {
	TermBase
	SlugKey
}

func (SettingStyle) TableName() string { return "setting_style" }

type LuxuryTier struct {
	TermBase
	SlugKey
	Rank *int `gorm:"column:rank" json:"rank,omitempty"`
}

func (LuxuryTier) TableName() string { return "luxury_tier" }

func (l *LuxuryTier) Assign(a TermAttrs) map[string]interface{} {
	out := l.TermBase.Assign(a)
	if a.Rank != nil {
		l.Rank = a.Rank
		out["rank"] = *a.Rank
	}
	return out
}

type InsurancePayer struct {
	TermBase
	SlugKey
	PayerType   *string `gorm:"column:payer_type;index" json:"payerType,omitempty"`
	CompanyName *string `gorm:"column:company_name" json:"companyName,omitempty"`
}

func (InsurancePayer) TableName() string { return "insurance_payer" }

func (p *InsurancePayer) Assign(a TermAttrs) map[string]interface{} {
	out := p.TermBase.Assign(a)
	if a.PayerType != nil {
		p.PayerType = a.PayerType
		out["payer_type"] = *a.PayerType
	}
	if a.CompanyName != nil {
		p.CompanyName = a.CompanyName
		out["company_name"] = *a.CompanyName
	}
	return out
}

type PaymentOption struct {
	TermBase
	SlugKey
}

func (PaymentOption) TableName() string { return "payment_option" }

type DetoxService struct {
	TermBase
	SlugKey
}

func (DetoxService) TableName() string { return "detox_service" }

type Service struct {
	TermBase
	SlugKey
}

func (Service) TableName() string { return "service" }

type Population struct {
	TermBase
	SlugKey
}

func (Population) TableName() string { return "population" }

type Feature struct {
	TermBase
	SlugKey
}

func (Feature) TableName() string { return "feature" }

type MATType struct {
	TermBase
	SlugKey
	MedicationClass *string `gorm:"column:medication_class" json:"medicationClass,omitempty"`
}

func (MATType) TableName() string { return "mat_type" }

func (m *MATType) Assign(a TermAttrs) map[string]interface{} {
	out := m.TermBase.Assign(a)
	if a.MedicationClass != nil {
		m.MedicationClass = a.MedicationClass
		out["medication_class"] = *a.MedicationClass
	}
	return out
}

type Substance struct {
	TermBase
	SlugKey
	Category *string `gorm:"column:category;index" json:"category,omitempty"`
}

func (Substance) TableName() string { return "substance" }

func (s *Substance) Assign(a TermAttrs) map[string]interface{} {
	out := s.TermBase.Assign(a)
	if a.Category != nil {
		s.Category = a.Category
		out["category"] = *a.Category
	}
	return out
}

type Accreditation struct {
	TermBase
	SlugKey
}

func (Accreditation) TableName() string { return "accreditation" }

// VocabSpec describes how to address one vocabulary table.
type VocabSpec struct {
	Kind      VocabKind
	KeyColumn string
	New       func() VocabTerm
	// NewSlice returns a pointer to an empty slice of the row type, for Find.
	NewSlice func() interface{}
	// Terms flattens the slice returned by NewSlice.
	Terms func(slice interface{}) []VocabTerm
}

func (s VocabSpec) Table() string { return s.New().TableName() }

func specFor[T any, PT interface {
	*T
	VocabTerm
}](kind VocabKind, keyColumn string) VocabSpec {
	return VocabSpec{
		Kind:      kind,
		KeyColumn: keyColumn,
		New:       func() VocabTerm { return PT(new(T)) },
		NewSlice:  func() interface{} { return &[]*T{} },
		Terms: func(slice interface{}) []VocabTerm {
			rows := *(slice.(*[]*T))
			out := make([]VocabTerm, 0, len(rows))
			for _, r := range rows {
				out = append(out, PT(r))
			}
			return out
		},
	}
}

var vocabSpecs = map[VocabKind]VocabSpec{
	KindLanguage:       specFor[Language](KindLanguage, "code"),
	KindAmenity:        specFor[Amenity](KindAmenity, "slug"),
	KindLevelOfCare:    specFor[LevelOfCare](KindLevelOfCare, "slug"),
	KindEnvironment:    specFor[Environment](KindEnvironment, "slug"),
	KindSettingStyle:   specFor[SettingStyle](KindSettingStyle, "slug"),
	KindLuxuryTier:     specFor[LuxuryTier](KindLuxuryTier, "slug"),
	KindInsurancePayer: specFor[InsurancePayer](KindInsurancePayer, "slug"),
	KindPaymentOption:  specFor[PaymentOption](KindPaymentOption, "slug"),
	KindDetoxService:   specFor[DetoxService](KindDetoxService, "slug"),
	KindService:        specFor[Service](KindService, "slug"),
	KindPopulation:     specFor[Population](KindPopulation, "slug"),
	KindFeature:        specFor[Feature](KindFeature, "slug"),
	KindMATType:        specFor[MATType](KindMATType, "slug"),
	KindSubstance:      specFor[Substance](KindSubstance, "slug"),
	KindAccreditation:  specFor[Accreditation](KindAccreditation, "slug"),
}

// Spec returns the table descriptor for kind.
func Spec(kind VocabKind) (VocabSpec, bool) {
	s, ok := vocabSpecs[kind]
	return s, ok
}

// VocabKinds lists every kind in a stable order.
func VocabKinds() []VocabKind {
	out := make([]VocabKind, 0, len(vocabSpecs))
	for k := range vocabSpecs {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// VocabModels returns one zero row per vocabulary table, for migrations.
func VocabModels() []interface{} {
	out := make([]interface{}, 0, len(vocabSpecs))
	for _, k := range VocabKinds() {
		out = append(out, vocabSpecs[k].New())
	}
	return out
}
