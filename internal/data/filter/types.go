// Package filter turns directory list filters into gorm clause expressions.
package filter

import (
	"strings"

	"github.com/google/uuid"
)

type IDFilter struct {
	Equals *uuid.UUID  `json:"equals,omitempty"`
	In     []uuid.UUID `json:"in,omitempty"`
}

type StringFilter struct {
	Equals          *string  `json:"equals,omitempty"`
	Contains        *string  `json:"contains,omitempty"`
	StartsWith      *string  `json:"startsWith,omitempty"`
	EndsWith        *string  `json:"endsWith,omitempty"`
	In              []string `json:"in,omitempty"`
	CaseInsensitive bool     `json:"caseInsensitive,omitempty"`
}

// IntRange bounds are inclusive.
type IntRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

type FloatRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type BoolFilter struct {
	Equals *bool `json:"equals,omitempty"`
}

// RelationFilter matches owners having at least one related term whose id or natural
// key is listed. Both lists together are OR'ed.
type RelationFilter struct {
	SlugsIn []string    `json:"slugsIn,omitempty"`
	IDsIn   []uuid.UUID `json:"idsIn,omitempty"`
}

func (f *RelationFilter) empty() bool {
	return f == nil || (len(f.SlugsIn) == 0 && len(f.IDsIn) == 0)
}

type OrderBy struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

func (f *IDFilter) pred(column string) Pred {
	if f == nil {
		return nil
	}
	out := And{}
	if f.Equals != nil {
		out = append(out, Cmp{Column: column, Op: OpEq, Value: *f.Equals})
	}
	if f.In != nil {
		out = append(out, In{Column: column, Values: uuidValues(f.In)})
	}
	return out
}

func (f *StringFilter) pred(column string) Pred {
	if f == nil {
		return nil
	}
	fold := f.CaseInsensitive
	out := And{}
	if f.Equals != nil {
		if fold {
			out = append(out, Like{Column: column, Pattern: EscapeLike(*f.Equals), Fold: true})
		} else {
			out = append(out, Cmp{Column: column, Op: OpEq, Value: *f.Equals})
		}
	}
	if f.Contains != nil {
		out = append(out, Like{Column: column, Pattern: "%" + EscapeLike(*f.Contains) + "%", Fold: fold})
	}
	if f.StartsWith != nil {
		out = append(out, Like{Column: column, Pattern: EscapeLike(*f.StartsWith) + "%", Fold: fold})
	}
	if f.EndsWith != nil {
		out = append(out, Like{Column: column, Pattern: "%" + EscapeLike(*f.EndsWith), Fold: fold})
	}
	if f.In != nil {
		vals := make([]interface{}, len(f.In))
		for i, s := range f.In {
			vals[i] = s
		}
		out = append(out, In{Column: column, Values: vals, Fold: fold})
	}
	return out
}

func (f *IntRange) pred(column string) Pred {
	if f == nil {
		return nil
	}
	out := And{}
	if f.Min != nil {
		out = append(out, Cmp{Column: column, Op: OpGte, Value: *f.Min})
	}
	if f.Max != nil {
		out = append(out, Cmp{Column: column, Op: OpLte, Value: *f.Max})
	}
	return out
}

func (f *FloatRange) pred(column string) Pred {
	if f == nil {
		return nil
	}
	out := And{}
	if f.Min != nil {
		out = append(out, Cmp{Column: column, Op: OpGte, Value: *f.Min})
	}
	if f.Max != nil {
		out = append(out, Cmp{Column: column, Op: OpLte, Value: *f.Max})
	}
	return out
}

func (f *BoolFilter) pred(column string) Pred {
	if f == nil || f.Equals == nil {
		return nil
	}
	return Cmp{Column: column, Op: OpEq, Value: *f.Equals}
}

// search is a case-insensitive contains over columns, OR'ed.
func search(q *string, columns ...string) Pred {
	if q == nil || strings.TrimSpace(*q) == "" {
		return nil
	}
	pattern := "%" + EscapeLike(strings.TrimSpace(*q)) + "%"
	out := Or{}
	for _, c := range columns {
		out = append(out, Like{Column: c, Pattern: pattern, Fold: true})
	}
	return out
}

func uuidValues(ids []uuid.UUID) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func stringValues(ss []string) []interface{} {
	out := make([]interface{}, 0, len(ss))
	for _, s := range ss {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
