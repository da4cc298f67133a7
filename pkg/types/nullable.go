// Package types provides nullable value holders for optional wire fields.
//
// Each holder distinguishes "never set" from a zero value, and the collection
// holders additionally distinguish "set to an empty collection" from both.
// That third state matters on the wire: an omitted collection leaves the
// server-side value untouched while an empty one clears it.
package types

// Nullable defines the interface for types that can represent an absent value.
type Nullable interface {
	// IsNil returns true if the value was never set (or was explicitly cleared).
	// A present zero value, such as an empty string or an empty map, is not nil.
	IsNil() bool
}
