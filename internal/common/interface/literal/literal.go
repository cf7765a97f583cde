// Released under an MIT license. See LICENSE.

// Package literal defines the interface for ember types that can be expressed as literals.
package literal

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
)

// I (literal) is any type that can be expressed as a literal.
type I interface {
	Literal() string
}

// String returns the literal string representation for a cell, if possible.
// Cells without a literal representation are shown by type name.
func String(c cell.I) string {
	if c == nil {
		return "<nil>"
	}

	l, ok := c.(I)
	if !ok {
		return "[" + c.Name() + "]"
	}

	return l.Literal()
}
