package models

// String methods for custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// String returns the category tag.
func (c Category) String() string { return string(c) }
