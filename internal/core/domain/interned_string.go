package domain

import "unique"

// InternedString is a value object that wraps a unique.Handle[string].
// Project names and file paths repeat across cache keys, so they are interned.
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
// The zero InternedString returns the empty string.
func (is InternedString) String() string {
	if is.h == (unique.Handle[string]{}) {
		return ""
	}
	return is.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}
