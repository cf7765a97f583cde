// Released under an MIT license. See LICENSE.

// Package special provides ember's undefined and null values.
package special

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
)

// T (special) is a value that carries no data other than its identity.
type T struct {
	name string
}

type special = T

//nolint:gochecknoglobals
var (
	Null      = &special{"null"}
	Undefined = &special{"undefined"}
)

// Bool returns false. Neither special value is true.
func (s *special) Bool() bool {
	return false
}

// Equal returns true if c is the same special value.
func (s *special) Equal(c cell.I) bool {
	return c == cell.I(s)
}

// Literal returns the literal representation of the special value s.
func (s *special) Literal() string {
	return s.name
}

// Name returns the type name for the special value s.
func (s *special) Name() string {
	if s == Null {
		return "object"
	}

	return s.name
}

// String returns the text of the special value s.
func (s *special) String() string {
	return s.name
}

// IsNullish returns true if c is null, undefined, or nil.
func IsNullish(c cell.I) bool {
	return c == nil || c == cell.I(Null) || c == cell.I(Undefined)
}

// OrUndefined returns c, or undefined if c is nil.
func OrUndefined(c cell.I) cell.I {
	if c == nil {
		return Undefined
	}

	return c
}
