// Package optional provides a JSON field that distinguishes "omitted" from "explicitly null".
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is absent until it is decoded or set. A decoded JSON null leaves it present with Null set.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Of returns a present, non-null field.
func Of[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Null returns a present field holding an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// Set reports whether a non-null value was supplied.
func (f Field[T]) Set() bool { return f.Present && !f.Null }

// Get returns the value and whether a non-null value was supplied.
func (f Field[T]) Get() (T, bool) { return f.Value, f.Set() }

// Ptr returns nil for absent or null, else a pointer to a copy of the value.
func (f Field[T]) Ptr() *T {
	if !f.Set() {
		return nil
	}
	v := f.Value
	return &v
}

// Or returns the value when set, else def.
func (f Field[T]) Or(def T) T {
	if f.Set() {
		return f.Value
	}
	return def
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
