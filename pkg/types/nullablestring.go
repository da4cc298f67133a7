package types

import "encoding/json"

// NullableString represents a string that may be absent.
// An empty string with Valid=true is present and differs from an absent value.
type NullableString struct {
	Value string
	Valid bool // Valid is true if Value was set
}

// String returns the string value if valid, or an empty string if absent.
func (ns NullableString) String() string {
	if ns.Valid {
		return ns.Value
	}
	return ""
}

// IsNil returns true if the NullableString is absent.
func (ns NullableString) IsNil() bool {
	return !ns.Valid
}

// IsZero reports whether the value is absent. encoding/json uses it for omitzero.
func (ns NullableString) IsZero() bool {
	return !ns.Valid
}

// Set assigns a string value to the NullableString and marks it as valid.
func (ns *NullableString) Set(value string) {
	ns.Value = value
	ns.Valid = true
}

// Clear marks the value as absent.
func (ns *NullableString) Clear() {
	ns.Value = ""
	ns.Valid = false
}

// Equals reports whether both values are absent, or both are present and equal.
func (ns NullableString) Equals(other NullableString) bool {
	if ns.Valid != other.Valid {
		return false
	}
	return !ns.Valid || ns.Value == other.Value
}

// Hash returns 0 for an absent value and the string hash otherwise.
func (ns NullableString) Hash() uint64 {
	if !ns.Valid {
		return 0
	}
	return HashString(ns.Value)
}

// MarshalJSON implements the json.Marshaler interface.
// Returns the string value as JSON if valid, or null if the value is absent.
func (ns NullableString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.Value)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// A JSON null leaves the value absent.
func (ns *NullableString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		ns.Value = ""
		ns.Valid = false
		return nil
	}
	ns.Valid = true
	return json.Unmarshal(data, &ns.Value)
}

// NullableStringFrom creates a valid NullableString holding s.
func NullableStringFrom(s string) NullableString {
	return NullableString{Value: s, Valid: true}
}

// NullString creates an absent NullableString.
func NullString() NullableString {
	return NullableString{Value: "", Valid: false}
}

var _ json.Marshaler = &NullableString{}   // Ensure NullableString implements json.Marshaler
var _ json.Unmarshaler = &NullableString{} // Ensure NullableString implements json.Unmarshaler
var _ Nullable = &NullableString{}         // Ensure NullableString implements Nullable interface
