package types

import (
	"bytes"
	"encoding/json"
	"slices"
)

// NullableList is an ordered sequence with three states: absent, present and
// empty, present and populated.
type NullableList[T any] struct {
	Value []T
	Valid bool
}

// NullableListFrom returns a present list holding a copy of items.
func NullableListFrom[T any](items ...T) NullableList[T] {
	var nl NullableList[T]
	nl.Set(items)
	return nl
}

// EmptyList returns a present list with no elements.
func EmptyList[T any]() NullableList[T] {
	return NullableList[T]{Value: []T{}, Valid: true}
}

// NullList returns an absent list.
func NullList[T any]() NullableList[T] {
	return NullableList[T]{}
}

// Set replaces the whole list with a copy of items.
func (nl *NullableList[T]) Set(items []T) {
	nl.Value = append(make([]T, 0, len(items)), items...)
	nl.Valid = true
}

// Append adds elements, making the list present if it was absent.
func (nl *NullableList[T]) Append(items ...T) {
	if nl.Value == nil {
		nl.Value = make([]T, 0, len(items))
	}
	nl.Value = append(nl.Value, items...)
	nl.Valid = true
}

// Clear marks the list as absent.
func (nl *NullableList[T]) Clear() {
	nl.Value = nil
	nl.Valid = false
}

// Slice returns the elements, nil when absent.
func (nl NullableList[T]) Slice() []T {
	if !nl.Valid {
		return nil
	}
	return nl.Value
}

func (nl NullableList[T]) Len() int {
	return len(nl.Value)
}

func (nl NullableList[T]) IsNil() bool {
	return !nl.Valid
}

func (nl NullableList[T]) IsZero() bool {
	return !nl.Valid
}

// IsEmpty reports whether the list is present with no elements.
func (nl NullableList[T]) IsEmpty() bool {
	return nl.Valid && len(nl.Value) == 0
}

// EqualFunc compares two lists element by element in order using eq.
func (nl NullableList[T]) EqualFunc(other NullableList[T], eq func(a, b *T) bool) bool {
	if nl.Valid != other.Valid {
		return false
	}
	if !nl.Valid {
		return true
	}
	if len(nl.Value) != len(other.Value) {
		return false
	}
	for i := range nl.Value {
		if !eq(&nl.Value[i], &other.Value[i]) {
			return false
		}
	}
	return true
}

// HashFunc combines element hashes in order. An absent list hashes to 0.
func (nl NullableList[T]) HashFunc(hash func(*T) uint64) uint64 {
	if !nl.Valid {
		return 0
	}
	h := HashBool(true)
	for i := range nl.Value {
		h = HashCombine(h, hash(&nl.Value[i]))
	}
	return h
}

// Clone returns a shallow copy of the backing slice.
func (nl NullableList[T]) Clone() NullableList[T] {
	if !nl.Valid {
		return NullableList[T]{}
	}
	return NullableList[T]{Value: slices.Clone(nl.Value), Valid: true}
}

func (nl NullableList[T]) MarshalJSON() ([]byte, error) {
	if !nl.Valid {
		return json.Marshal(nil)
	}
	if nl.Value == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(nl.Value)
}

func (nl *NullableList[T]) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		nl.Clear()
		return nil
	}
	items := []T{}
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	nl.Value = items
	nl.Valid = true
	return nil
}

var _ json.Marshaler = NullableList[string]{}
var _ json.Unmarshaler = &NullableList[string]{}
var _ Nullable = NullableList[string]{}
