// Released under an MIT license. See LICENSE.

// Package boolean provides ember's boolean value type.
package boolean

import (
	"github.com/michaelmacinnis/ember/internal/common"
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/common/interface/truth"
)

const name = "boolean"

// T (boolean) is one of the two boolean values. Only True and False are
// ever created so booleans can be compared by identity.
type T struct {
	v bool
}

type boolean = T

//nolint:gochecknoglobals
var (
	False = &boolean{v: false}
	True  = &boolean{v: true}
)

// Bool returns True or False.
func Bool(b bool) cell.I {
	if b {
		return True
	}

	return False
}

// Bool returns the Go value of b.
func (b *boolean) Bool() bool {
	return b.v
}

// Equal returns true if c is the same boolean value.
func (b *boolean) Equal(c cell.I) bool {
	return c == cell.I(b)
}

// Literal returns the literal representation of b.
func (b *boolean) Literal() string {
	return b.String()
}

// Name returns the type name for booleans.
func (b *boolean) Name() string {
	return name
}

// String returns "true" or "false".
func (b *boolean) String() string {
	if b.v {
		return "true"
	}

	return "false"
}

// Is returns true if c is a *T.
func Is(c cell.I) bool {
	_, ok := c.(*boolean)
	return ok
}

// To returns a *T if c is a *T; Otherwise it panics.
func To(c cell.I) *boolean {
	if b, ok := c.(*boolean); ok {
		return b
	}

	panic("not a " + name)
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t boolean

	// The boolean type is a cell.
	_ = cell.I(&t)

	// The boolean type has a literal representation.
	_ = literal.I(&t)

	// The boolean type is a stringer.
	_ = common.Stringer(&t)

	// The boolean type has a truth value.
	_ = truth.I(&t)
}
