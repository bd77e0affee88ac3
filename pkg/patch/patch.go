// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package patch provides a tri-state field for partial updates.

A JSON update body has three meaningful shapes for a field:

  - absent:  {}                  → [Unset], leave the stored value untouched
  - null:    {"excerpt": null}   → [Clear], remove the stored value
  - value:   {"excerpt": "..."}  → [Set],   replace the stored value

A nullable pointer cannot tell the first two apart, so update DTOs use
[Field] instead. The zero value of [Field] is Unset.
*/
package patch

import (
	"bytes"
	"encoding/json"
)

// State discriminates the three shapes of a [Field].
type State uint8

const (
	// Unset means the field was not supplied.
	Unset State = iota
	// Clear means the field was supplied as an explicit null.
	Clear
	// Assigned means the field was supplied with a value.
	Assigned
)

// String returns a readable name for logs and test output.
func (s State) String() string {
	switch s {
	case Clear:
		return "clear"
	case Assigned:
		return "set"
	default:
		return "unset"
	}
}

// Field is a tri-state optional value.
type Field[T any] struct {
	state State
	value T
}

// Set returns a Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: Assigned, value: v}
}

// Null returns a Field in the [Clear] state.
func Null[T any]() Field[T] {
	return Field[T]{state: Clear}
}

// State reports which of the three shapes f is in.
func (f Field[T]) State() State { return f.state }

// IsSet reports whether f carries a value.
func (f Field[T]) IsSet() bool { return f.state == Assigned }

// IsClear reports whether f is an explicit null.
func (f Field[T]) IsClear() bool { return f.state == Clear }

// IsZero reports whether f is Unset. It makes `json:",omitzero"` drop absent fields.
func (f Field[T]) IsZero() bool { return f.state == Unset }

// Get returns the value and whether one is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == Assigned
}

// Value returns the carried value, or the zero value of T when not Set.
func (f Field[T]) Value() T {
	if f.state != Assigned {
		var zero T
		return zero
	}
	return f.value
}

// Apply resolves f against the current value of a nullable field.
//
// Unset keeps current, Clear yields nil and Set yields a pointer to a copy of the value.
func (f Field[T]) Apply(current *T) *T {
	switch f.state {
	case Clear:
		return nil
	case Assigned:
		v := f.value
		return &v
	default:
		return current
	}
}

// MarshalJSON encodes Set as the value and every other state as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != Assigned {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON is only invoked for keys present in the payload, so it never
// produces Unset: null becomes Clear, anything else becomes Set.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state, f.value = Clear, zero
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	f.state, f.value = Assigned, v
	return nil
}
