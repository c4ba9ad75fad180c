// Package patch provides the exclude-unset update primitive: a field wrapper
// that tells "absent from the payload" apart from "explicitly null".
package patch

import "encoding/json"

// Field is a tri-state value for partial updates. Set reports whether the
// field appeared in the payload at all; Valid reports whether it carried a
// non-null value.
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Valid = false
		var zero T
		f.Value = zero
		return nil
	}
	if err := json.Unmarshal(b, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// Ptr returns the value as a nullable pointer: nil when the field was null.
func (f Field[T]) Ptr() *T {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Of builds a set, non-null field. Handy in tests and service callers.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

// Null builds a set-to-null field.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}
