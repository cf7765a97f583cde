// Released under an MIT license. See LICENSE.

// Package truth defines the interface for ember types that have a truth value.
package truth

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
)

// I (truth) is anything that evaluates to a true or false value.
type I interface {
	Bool() bool
}

// Value returns the truth value for a cell. Cells that do not define one
// (objects, functions) are true.
func Value(c cell.I) bool {
	b, ok := c.(I)
	if !ok {
		return c != nil
	}

	return b.Bool()
}
