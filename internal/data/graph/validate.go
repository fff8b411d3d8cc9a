package graph

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/domain/directory"
	"github.com/yungbote/rehabdir-backend/internal/pkg/optional"
)

var payloadValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Absent and null optional fields validate as empty so omitempty skips them.
	v.RegisterCustomTypeFunc(fieldValue[string], optional.Field[string]{})
	v.RegisterCustomTypeFunc(fieldValue[int], optional.Field[int]{})
	v.RegisterCustomTypeFunc(fieldValue[float64], optional.Field[float64]{})
	v.RegisterCustomTypeFunc(fieldValue[bool], optional.Field[bool]{})
	v.RegisterCustomTypeFunc(fieldValue[[]string], optional.Field[[]string]{})
	v.RegisterCustomTypeFunc(fieldValue[uuid.UUID], optional.Field[uuid.UUID]{})
	return v
}

func fieldValue[T any](v reflect.Value) interface{} {
	f, ok := v.Interface().(optional.Field[T])
	if !ok || !f.Set() {
		return nil
	}
	return f.Value
}

// checkFormats runs the struct tag rules and reports the first failure.
func checkFormats(op string, in interface{}) error {
	err := payloadValidate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	msg := fmt.Sprintf("failed %q", fe.Tag())
	if fe.Param() != "" {
		msg = fmt.Sprintf("failed %q (%s)", fe.Tag(), fe.Param())
	}
	return domainagg.Validation(op, field, msg)
}

// requireString enforces a present, non-blank value on create and rejects an explicit
// null on update.
func requireString(op, field string, f optional.Field[string], create bool) error {
	if create {
		if v, ok := f.Get(); !ok || strings.TrimSpace(v) == "" {
			return domainagg.MissingRequiredField(op, field)
		}
		return nil
	}
	if f.Present && (f.Null || strings.TrimSpace(f.Value) == "") {
		return &domainagg.Error{Code: domainagg.CodeMissingRequiredField, Op: op, Field: field, Message: "cannot be cleared"}
	}
	return nil
}

func rejectNull[T any](op, field string, f optional.Field[T]) error {
	if f.Present && f.Null {
		return &domainagg.Error{Code: domainagg.CodeMissingRequiredField, Op: op, Field: field, Message: "cannot be cleared"}
	}
	return nil
}

func checkRange[T int | float64](op, field string, lo, hi optional.Field[T]) error {
	a, okA := lo.Get()
	b, okB := hi.Get()
	if okA && okB && a > b {
		return domainagg.Validation(op, field, fmt.Sprintf("min %v exceeds max %v", a, b))
	}
	return nil
}

func checkFinance(op string, owner directory.OwnerKind, lists domainagg.FinanceLists) error {
	check := func(name string, items []domainagg.FinanceEdgeInput) error {
		for i, e := range items {
			field := fmt.Sprintf("%s[%d]", name, i)
			if e.Scope != nil && *e.Scope != owner.Scope() {
				return domainagg.Validation(op, field+".scope",
					fmt.Sprintf("ScopeMismatch: %s edge cannot attach to a %s", *e.Scope, owner))
			}
			if e.PriceMin != nil && e.PriceMax != nil && *e.PriceMin > *e.PriceMax {
				return domainagg.Validation(op, field+".priceMin", "priceMin exceeds priceMax")
			}
			if e.Term.Key() == "" && (e.Term.ID == nil || *e.Term.ID == uuid.Nil) {
				return domainagg.MissingRequiredField(op, field+".term")
			}
		}
		return nil
	}
	if err := check("insurancePayers", lists.InsurancePayers); err != nil {
		return err
	}
	return check("paymentOptions", lists.PaymentOptions)
}

// ValidateOrg checks in without touching storage. Nested campuses and programs are
// always creates.
func ValidateOrg(in *domainagg.OrgInput, create bool) error {
	const op = "directory.org.validate"
	if in == nil {
		return domainagg.Validation(op, "", "payload required")
	}
	if err := checkFormats(op, in); err != nil {
		return err
	}
	if err := requireString(op, "name", in.Name, create); err != nil {
		return err
	}
	if err := requireString(op, "slug", in.Slug, create); err != nil {
		return err
	}
	if err := rejectNull(op, "isVerified", in.IsVerified); err != nil {
		return err
	}
	if err := rejectNull(op, "isActive", in.IsActive); err != nil {
		return err
	}
	if pc, ok := in.ParentCompany.Get(); ok {
		if (pc.ID == nil || *pc.ID == uuid.Nil) && strings.TrimSpace(pc.Slug) == "" {
			return domainagg.MissingRequiredField(op, "parentCompany.slug")
		}
	}
	if err := checkFinance(op, directory.OwnerOrg, in.FinanceLists); err != nil {
		return err
	}
	for i := range in.Campuses {
		if err := validateCampus(&in.Campuses[i], true, true); err != nil {
			return withPrefix(err, fmt.Sprintf("campuses[%d].", i))
		}
	}
	return nil
}

func ValidateCampus(in *domainagg.CampusInput, create bool) error {
	if in == nil {
		return domainagg.Validation("directory.campus.validate", "", "payload required")
	}
	if err := checkFormats("directory.campus.validate", in); err != nil {
		return err
	}
	return validateCampus(in, create, false)
}

func validateCampus(in *domainagg.CampusInput, create, nested bool) error {
	const op = "directory.campus.validate"
	for _, f := range []struct {
		name string
		v    optional.Field[string]
	}{
		{"name", in.Name}, {"slug", in.Slug}, {"street", in.Street}, {"city", in.City},
		{"state", in.State}, {"postalCode", in.PostalCode}, {"country", in.Country},
	} {
		if err := requireString(op, f.name, f.v, create); err != nil {
			return err
		}
	}
	if create && !nested && !in.RehabOrgID.Set() && strings.TrimSpace(in.RehabOrgSlug.Or("")) == "" {
		return domainagg.MissingRequiredField(op, "rehabOrgId")
	}
	if err := rejectNull(op, "rehabOrgId", in.RehabOrgID); err != nil {
		return err
	}
	if err := rejectNull(op, "isActive", in.IsActive); err != nil {
		return err
	}
	if err := checkFinance(op, directory.OwnerCampus, in.FinanceLists); err != nil {
		return err
	}
	for i := range in.Programs {
		if err := validateProgram(&in.Programs[i], true, true); err != nil {
			return withPrefix(err, fmt.Sprintf("programs[%d].", i))
		}
	}
	return nil
}

func ValidateProgram(in *domainagg.ProgramInput, create bool) error {
	if in == nil {
		return domainagg.Validation("directory.program.validate", "", "payload required")
	}
	if err := checkFormats("directory.program.validate", in); err != nil {
		return err
	}
	return validateProgram(in, create, false)
}

func validateProgram(in *domainagg.ProgramInput, create, nested bool) error {
	const op = "directory.program.validate"
	if err := requireString(op, "name", in.Name, create); err != nil {
		return err
	}
	if err := requireString(op, "slug", in.Slug, create); err != nil {
		return err
	}
	if create && !in.LevelOfCareID.Set() && strings.TrimSpace(in.LevelOfCareSlug.Or("")) == "" {
		return domainagg.MissingRequiredField(op, "levelOfCareSlug")
	}
	if create && !nested && !in.CampusID.Set() && strings.TrimSpace(in.CampusSlug.Or("")) == "" {
		return domainagg.MissingRequiredField(op, "campusId")
	}
	for _, c := range []struct {
		name    string
		cleared bool
	}{
		{"levelOfCareId", in.LevelOfCareID.Present && in.LevelOfCareID.Null},
		{"levelOfCareSlug", in.LevelOfCareSlug.Present && in.LevelOfCareSlug.Null},
		{"campusId", in.CampusID.Present && in.CampusID.Null},
		{"isActive", in.IsActive.Present && in.IsActive.Null},
	} {
		if c.cleared {
			return &domainagg.Error{Code: domainagg.CodeMissingRequiredField, Op: op, Field: c.name, Message: "cannot be cleared"}
		}
	}
	if err := checkRange(op, "minAge", in.MinAge, in.MaxAge); err != nil {
		return err
	}
	if err := checkRange(op, "priceMin", in.PriceMin, in.PriceMax); err != nil {
		return err
	}
	return checkFinance(op, directory.OwnerProgram, in.FinanceLists)
}

func withPrefix(err error, prefix string) error {
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		cp := *aggErr
		cp.Field = prefix + cp.Field
		return &cp
	}
	return err
}
