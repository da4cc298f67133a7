package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NullableValue holds an optional comparable value such as an enum token or a
// confidence score.
type NullableValue[T comparable] struct {
	Value T
	Valid bool
}

// NullableValueFrom creates a valid NullableValue holding v.
func NullableValueFrom[T comparable](v T) NullableValue[T] {
	return NullableValue[T]{Value: v, Valid: true}
}

// NullValue creates an absent NullableValue.
func NullValue[T comparable]() NullableValue[T] {
	return NullableValue[T]{}
}

// Get returns the value and whether it was set.
func (nv NullableValue[T]) Get() (T, bool) {
	return nv.Value, nv.Valid
}

// Set assigns v and marks the value as present.
func (nv *NullableValue[T]) Set(v T) {
	nv.Value = v
	nv.Valid = true
}

// Clear marks the value as absent.
func (nv *NullableValue[T]) Clear() {
	var zero T
	nv.Value = zero
	nv.Valid = false
}

func (nv NullableValue[T]) IsNil() bool {
	return !nv.Valid
}

func (nv NullableValue[T]) IsZero() bool {
	return !nv.Valid
}

// Equals reports whether both values are absent, or both are present and equal.
func (nv NullableValue[T]) Equals(other NullableValue[T]) bool {
	if nv.Valid != other.Valid {
		return false
	}
	return !nv.Valid || nv.Value == other.Value
}

// Hash returns 0 for an absent value.
func (nv NullableValue[T]) Hash() uint64 {
	if !nv.Valid {
		return 0
	}
	return hashComparable(nv.Value)
}

func (nv NullableValue[T]) String() string {
	if !nv.Valid {
		return ""
	}
	return fmt.Sprint(nv.Value)
}

func (nv NullableValue[T]) MarshalJSON() ([]byte, error) {
	if nv.Valid {
		return json.Marshal(nv.Value)
	}
	return json.Marshal(nil)
}

func (nv *NullableValue[T]) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		nv.Clear()
		return nil
	}
	if err := json.Unmarshal(data, &nv.Value); err != nil {
		return err
	}
	nv.Valid = true
	return nil
}

var _ json.Marshaler = NullableValue[string]{}
var _ json.Unmarshaler = &NullableValue[string]{}
var _ Nullable = NullableValue[string]{}
