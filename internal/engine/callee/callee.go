// Released under an MIT license. See LICENSE.

// Package callee provides ember's callable values.
//
// The set of callee kinds is closed: a callee is either a script function,
// backed by a compiled unit and the scope it closed over, or a native
// function implemented in Go.
package callee

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/object"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/function"
	"github.com/michaelmacinnis/ember/internal/engine/scope"
)

const name = "function"

// Kind distinguishes script callees from native ones.
type Kind int

// Callee kinds.
const (
	Script Kind = iota
	Native
)

// Go is the signature of a native call or construct implementation.
// It receives the receiver and a view of the arguments that must not be
// retained after it returns.
type Go func(this cell.I, args []cell.I) (cell.I, error)

// T (callee) is a callable object.
type T struct {
	*object.T

	construct Go
	context   *scope.T
	function  *function.T
	kind      Kind
	label     string
	native    Go
}

type callee = T

// New creates a script callee for f closing over ctx. The callee gets a
// fresh prototype object for instances it constructs.
func New(f *function.T, ctx *scope.T, proto *object.T) *callee {
	c := &callee{
		T:        object.New(proto),
		context:  ctx,
		function: f,
		kind:     Script,
		label:    f.Name(),
	}

	instances := object.New(nil)
	instances.Define("constructor", c)

	c.Define("name", str.New(c.label))
	c.Define("prototype", instances)

	return c
}

// NewNative creates a native callee. A nil construct means the callee
// cannot be used with new.
func NewNative(label string, call, construct Go, proto *object.T) *callee {
	c := &callee{
		T:         object.New(proto),
		construct: construct,
		kind:      Native,
		label:     label,
		native:    call,
	}

	c.Define("name", str.New(label))

	return c
}

// Call returns the native call implementation.
func (c *callee) Call() Go {
	return c.native
}

// Construct returns the native construct implementation, or nil.
func (c *callee) Construct() Go {
	return c.construct
}

// Context returns the scope a script callee closed over.
func (c *callee) Context() *scope.T {
	return c.context
}

// Equal returns true if c is the same callee.
func (c *callee) Equal(o cell.I) bool {
	return o == cell.I(c)
}

// Function returns the descriptor for a script callee.
func (c *callee) Function() *function.T {
	return c.function
}

// IsConstructor returns true if the callee can be used with new.
func (c *callee) IsConstructor() bool {
	return c.kind == Script || c.construct != nil
}

// Kind returns whether c is a script or native callee.
func (c *callee) Kind() Kind {
	return c.kind
}

// Label returns the function's name.
func (c *callee) Label() string {
	return c.label
}

// Literal returns the literal representation of the callee c.
func (c *callee) Literal() string {
	return c.String()
}

// Name returns the type name for callees.
func (c *callee) Name() string {
	return name
}

// Object returns the callee's property storage.
func (c *callee) Object() *object.T {
	return c.T
}

// String returns the default string conversion for callees.
func (c *callee) String() string {
	if c.kind == Native {
		return "function " + c.label + "() { [native code] }"
	}

	return "function " + c.label + "() { [script code] }"
}

// Is returns true if c is a *T.
func Is(c cell.I) bool {
	_, ok := c.(*callee)
	return ok
}

// To returns a *T if c is a *T; Otherwise it panics.
func To(c cell.I) *callee {
	if f, ok := c.(*callee); ok {
		return f
	}

	panic("not a " + name)
}
