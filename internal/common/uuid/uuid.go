// Package uuid generates time-ordered request identifiers. It wraps
// github.com/google/uuid with version 7 as the default.
package uuid

import "github.com/google/uuid"

type UUID = uuid.UUID

// New returns a new UUIDv7. Panics if the random source fails.
func New() UUID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id
}

// NewRequestID returns a UUIDv7 string for correlating log lines of a
// single runtime call. Request IDs sort by creation time.
func NewRequestID() string {
	return New().String()
}

// IsRequestID reports whether s parses as a UUIDv7.
func IsRequestID(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == uuid.Version(7)
}
