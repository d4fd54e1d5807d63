package ir

import (
	"strconv"

	"coreforge/internal/types"
)

// Value is an opaque SSA-style handle: an integer id plus an optional
// display name and its static type. Values are indices into their owning
// Function's value arena, so copying a Value is cheap and equality is
// defined purely by ID — two Values are the same value iff their IDs
// match, regardless of Name or Type (which are cached display/debugging
// metadata, not identity).
type Value struct {
	ID   int
	Name string
	Type types.Type
}

// Equal reports whether v and o denote the same SSA value.
func (v Value) Equal(o Value) bool { return v.ID == o.ID }

func (v Value) String() string {
	if v.Name != "" {
		return v.Name
	}
	return "%" + strconv.Itoa(v.ID)
}
