package types

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// NullableMap is a string-keyed map with three states: absent, present and
// empty, present and populated.
type NullableMap[V comparable] struct {
	Value map[string]V
	Valid bool
}

// NullableMapFrom returns a present map holding a copy of m. A nil m yields a
// present, empty map.
func NullableMapFrom[V comparable](m map[string]V) NullableMap[V] {
	var nm NullableMap[V]
	nm.Set(m)
	return nm
}

// EmptyMap returns a present map with no entries.
func EmptyMap[V comparable]() NullableMap[V] {
	return NullableMap[V]{Value: map[string]V{}, Valid: true}
}

// NullMap returns an absent map.
func NullMap[V comparable]() NullableMap[V] {
	return NullableMap[V]{}
}

// Set replaces the whole map with a copy of m. Existing keys are overwritten
// silently.
func (nm *NullableMap[V]) Set(m map[string]V) {
	nm.Value = make(map[string]V, len(m))
	maps.Copy(nm.Value, m)
	nm.Valid = true
}

// Add inserts one entry, making the map present if it was absent. It fails
// with ErrDuplicateKey when key already exists.
func (nm *NullableMap[V]) Add(key string, value V) error {
	if nm.Value == nil {
		nm.Value = map[string]V{}
	}
	if _, exists := nm.Value[key]; exists {
		return ErrDuplicateKey.Msg("duplicate key " + quote(key))
	}
	nm.Value[key] = value
	nm.Valid = true
	return nil
}

// Clear marks the map as absent.
func (nm *NullableMap[V]) Clear() {
	nm.Value = nil
	nm.Valid = false
}

// Get returns the value stored under key.
func (nm NullableMap[V]) Get(key string) (V, bool) {
	v, ok := nm.Value[key]
	return v, ok
}

// Map returns the underlying map, nil when absent.
func (nm NullableMap[V]) Map() map[string]V {
	if !nm.Valid {
		return nil
	}
	return nm.Value
}

func (nm NullableMap[V]) Len() int {
	return len(nm.Value)
}

// Keys returns the keys in sorted order.
func (nm NullableMap[V]) Keys() []string {
	return slices.Sorted(maps.Keys(nm.Value))
}

func (nm NullableMap[V]) IsNil() bool {
	return !nm.Valid
}

func (nm NullableMap[V]) IsZero() bool {
	return !nm.Valid
}

// IsEmpty reports whether the map is present with no entries.
func (nm NullableMap[V]) IsEmpty() bool {
	return nm.Valid && len(nm.Value) == 0
}

// Equals reports whether both maps are absent, or both are present with the
// same entries.
func (nm NullableMap[V]) Equals(other NullableMap[V]) bool {
	if nm.Valid != other.Valid {
		return false
	}
	if !nm.Valid {
		return true
	}
	return maps.Equal(nm.Value, other.Value)
}

// Hash is independent of iteration order. An absent map hashes to 0 and a
// present empty map to a non-zero constant.
func (nm NullableMap[V]) Hash() uint64 {
	if !nm.Valid {
		return 0
	}
	h := HashBool(true)
	for k, v := range nm.Value {
		h += HashString(k) ^ hashComparable(v)
	}
	return h
}

// Clone returns a deep copy so that the two maps never alias.
func (nm NullableMap[V]) Clone() NullableMap[V] {
	if !nm.Valid {
		return NullableMap[V]{}
	}
	return NullableMapFrom(nm.Value)
}

func (nm NullableMap[V]) MarshalJSON() ([]byte, error) {
	if !nm.Valid {
		return json.Marshal(nil)
	}
	if nm.Value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(nm.Value)
}

func (nm *NullableMap[V]) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		nm.Clear()
		return nil
	}
	m := map[string]V{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	nm.Value = m
	nm.Valid = true
	return nil
}

func quote(s string) string {
	return "'" + s + "'"
}

var _ json.Marshaler = NullableMap[string]{}
var _ json.Unmarshaler = &NullableMap[string]{}
var _ Nullable = NullableMap[string]{}
