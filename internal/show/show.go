package show

import (
	"errors"
)

// ErrNotFound is returned when a show id is not in the collection.
var ErrNotFound = errors.New("show not found")

// Show is a catalog entry. Cast is nil until it has been fetched; an empty
// non-nil slice means the show has no cast.
type Show struct {
	ID   int          `json:"id"`
	Name string       `json:"name"`
	Cast []CastMember `json:"cast,omitzero"`
}

// HasCast reports whether the cast has already been fetched.
func (s Show) HasCast() bool {
	return s.Cast != nil
}

// CastMember is one person attached to a show.
type CastMember struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Birthday *string `json:"birthday"`
}
