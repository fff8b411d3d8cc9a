package directory

// OwnerKind identifies one of the three root entity kinds.
type OwnerKind string

const (
	OwnerOrg     OwnerKind = "org"
	OwnerCampus  OwnerKind = "campus"
	OwnerProgram OwnerKind = "program"
)

func (k OwnerKind) Scope() Scope {
	switch k {
	case OwnerCampus:
		return ScopeCampus
	case OwnerProgram:
		return ScopeProgram
	default:
		return ScopeOrg
	}
}

func (k OwnerKind) Table() string {
	switch k {
	case OwnerCampus:
		return RehabCampus{}.TableName()
	case OwnerProgram:
		return RehabProgram{}.TableName()
	default:
		return RehabOrg{}.TableName()
	}
}

// Namespace is the read-cache namespace holding rows of this kind.
func (k OwnerKind) Namespace() string {
	switch k {
	case OwnerCampus:
		return "RehabCampus"
	case OwnerProgram:
		return "RehabProgram"
	default:
		return "RehabOrg"
	}
}

// Ancestors lists the kinds whose filters can reach into this kind.
func (k OwnerKind) Ancestors() []OwnerKind {
	switch k {
	case OwnerCampus:
		return []OwnerKind{OwnerOrg}
	case OwnerProgram:
		return []OwnerKind{OwnerOrg, OwnerCampus}
	default:
		return nil
	}
}

// Relation is one has-many vocabulary join of an owner kind.
type Relation struct {
	Owner OwnerKind
	// Name is the payload key, e.g. "levelsOfCare".
	Name string
	// Field is the association name on the owner struct, used for Preload.
	Field     string
	Vocab     VocabKind
	JoinTable string
}

func rel(owner OwnerKind, name, field string, vocab VocabKind) Relation {
	return Relation{
		Owner:     owner,
		Name:      name,
		Field:     field,
		Vocab:     vocab,
		JoinTable: "rehab_" + string(owner) + "_" + string(vocab),
	}
}

var relations = map[OwnerKind][]Relation{
	OwnerOrg: {
		rel(OwnerOrg, "languages", "Languages", KindLanguage),
		rel(OwnerOrg, "amenities", "Amenities", KindAmenity),
		rel(OwnerOrg, "levelsOfCare", "LevelsOfCare", KindLevelOfCare),
		rel(OwnerOrg, "services", "Services", KindService),
		rel(OwnerOrg, "populations", "Populations", KindPopulation),
		rel(OwnerOrg, "accreditations", "Accreditations", KindAccreditation),
		rel(OwnerOrg, "features", "Features", KindFeature),
	},
	OwnerCampus: {
		rel(OwnerCampus, "languages", "Languages", KindLanguage),
		rel(OwnerCampus, "amenities", "Amenities", KindAmenity),
		rel(OwnerCampus, "services", "Services", KindService),
		rel(OwnerCampus, "populations", "Populations", KindPopulation),
		rel(OwnerCampus, "features", "Features", KindFeature),
	},
	OwnerProgram: {
		rel(OwnerProgram, "detoxServices", "DetoxServices", KindDetoxService),
		rel(OwnerProgram, "services", "Services", KindService),
		rel(OwnerProgram, "populations", "Populations", KindPopulation),
		rel(OwnerProgram, "languages", "Languages", KindLanguage),
		rel(OwnerProgram, "amenities", "Amenities", KindAmenity),
		rel(OwnerProgram, "features", "Features", KindFeature),
		rel(OwnerProgram, "matTypes", "MATTypes", KindMATType),
		rel(OwnerProgram, "substances", "Substances", KindSubstance),
	},
}

// Relations returns the vocabulary joins of owner in declaration order.
func Relations(owner OwnerKind) []Relation {
	return relations[owner]
}

// RelationFor looks up a join by its payload name.
func RelationFor(owner OwnerKind, name string) (Relation, bool) {
	for _, r := range relations[owner] {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// Models returns every table model in migration order.
func Models() []interface{} {
	out := VocabModels()
	return append(out,
		&ParentCompany{},
		&RehabOrg{},
		&RehabCampus{},
		&RehabProgram{},
		&InsurancePayerEdge{},
		&PaymentOptionEdge{},
		&ContentItem{},
	)
}
