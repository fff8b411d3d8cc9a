package domain

import (
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
)

const (
	ScopeOrg     = directory.ScopeOrg
	ScopeCampus  = directory.ScopeCampus
	ScopeProgram = directory.ScopeProgram

	OwnerOrg     = directory.OwnerOrg
	OwnerCampus  = directory.OwnerCampus
	OwnerProgram = directory.OwnerProgram

	KindLanguage       = directory.KindLanguage
	KindAmenity        = directory.KindAmenity
	KindLevelOfCare    = directory.KindLevelOfCare
	KindEnvironment    = directory.KindEnvironment
	KindSettingStyle   = directory.KindSettingStyle
	KindLuxuryTier     = directory.KindLuxuryTier
	KindInsurancePayer = directory.KindInsurancePayer
	KindPaymentOption  = directory.KindPaymentOption
	KindDetoxService   = directory.KindDetoxService
	KindService        = directory.KindService
	KindPopulation     = directory.KindPopulation
	KindFeature        = directory.KindFeature
	KindMATType        = directory.KindMATType
	KindSubstance      = directory.KindSubstance
	KindAccreditation  = directory.KindAccreditation
)

type Scope = directory.Scope
type OwnerKind = directory.OwnerKind
type Relation = directory.Relation

type RehabOrg = directory.RehabOrg
type RehabCampus = directory.RehabCampus
type RehabProgram = directory.RehabProgram
type ParentCompany = directory.ParentCompany

type JoinEdge = directory.JoinEdge
type EdgeOwner = directory.EdgeOwner
type InsurancePayerEdge = directory.InsurancePayerEdge
type PaymentOptionEdge = directory.PaymentOptionEdge
type NetworkStatus = directory.NetworkStatus
type ContentItem = directory.ContentItem
type ContentKind = directory.ContentKind

type VocabKind = directory.VocabKind
type VocabSpec = directory.VocabSpec
type VocabTerm = directory.VocabTerm
type TermAttrs = directory.TermAttrs
type Language = directory.Language
type Amenity = directory.Amenity
type LevelOfCare = directory.LevelOfCare
type Environment = directory.Environment
type SettingStyle = directory.SettingStyle
type LuxuryTier = directory.LuxuryTier
type InsurancePayer = directory.InsurancePayer
type PaymentOption = directory.PaymentOption
type DetoxService = directory.DetoxService
type Service = directory.Service
type Population = directory.Population
type Feature = directory.Feature
type MATType = directory.MATType
type Substance = directory.Substance
type Accreditation = directory.Accreditation
