package optional

import (
	"encoding/json"
	"testing"
)

type patch struct {
	Name  Field[string] `json:"name"`
	Beds  Field[int]    `json:"beds"`
	Notes Field[string] `json:"notes"`
}

func TestFieldDistinguishesOmittedFromNull(t *testing.T) {
	var p patch
	if err := json.Unmarshal([]byte(`{"name":"Sunrise","notes":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := p.Name.Get(); !ok || v != "Sunrise" {
		t.Fatalf("name: got=%q ok=%v", v, ok)
	}
	if p.Beds.Present {
		t.Fatalf("beds should be absent")
	}
	if !p.Notes.Present || !p.Notes.Null || p.Notes.Set() {
		t.Fatalf("notes should be present and null: %+v", p.Notes)
	}
	if p.Notes.Ptr() != nil {
		t.Fatalf("null field should have nil Ptr")
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Of(12)
	if f.Or(3) != 12 {
		t.Fatalf("Or on set field")
	}
	if (Field[int]{}).Or(3) != 3 {
		t.Fatalf("Or on absent field")
	}
	if n := Null[int](); !n.Present || !n.Null {
		t.Fatalf("Null constructor: %+v", n)
	}
	raw, err := json.Marshal(Of("x"))
	if err != nil || string(raw) != `"x"` {
		t.Fatalf("marshal: %s %v", raw, err)
	}
}
