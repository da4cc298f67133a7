package apperrors

import (
	"strings"
)

// ValidationError describes one field that failed a constraint check.
type ValidationError struct {
	Field  string // json path of the offending field
	Value  any    // offending value
	ErrStr string // constraint description
}

func (ve ValidationError) Error() string {
	if len(ve.Field) > 0 {
		return ve.Field + ": " + ve.ErrStr
	}
	return ve.ErrStr
}

// ValidationErrors collects every failed constraint of one entity.
type ValidationErrors []ValidationError

func (ves ValidationErrors) Error() string {
	parts := make([]string, 0, len(ves))
	for _, ve := range ves {
		parts = append(parts, ve.Error())
	}
	return strings.Join(parts, "; ")
}

// Fields returns the offending field paths in report order.
func (ves ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ves))
	for _, ve := range ves {
		fields = append(fields, ve.Field)
	}
	return fields
}

// InQuotes returns s surrounded by single quotes.
func InQuotes(s string) string {
	return "'" + s + "'"
}
