package domain

import (
	"strings"
	"unique"
)

// InternedString is a value object that wraps a unique.Handle[string].
// Node identities are file paths and command names repeated across edges, records and loops,
// so they are interned once per process.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString creates a new InternedString from a string.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// Compare orders interned strings by their value.
func (is InternedString) Compare(other InternedString) int {
	if is == other {
		return 0
	}
	return strings.Compare(is.String(), other.String())
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
