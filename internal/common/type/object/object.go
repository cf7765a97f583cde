// Released under an MIT license. See LICENSE.

// Package object provides ember's property bag type.
package object

import (
	"strings"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/common/struct/hash"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
)

const name = "object"

// T (object) maps property names to values and delegates missing
// properties to its prototype.
type T struct {
	proto *T
	props *hash.T
}

type object = T

// New creates an object with the prototype proto, which may be nil.
func New(proto *object) *object {
	return &object{proto: proto, props: hash.New()}
}

// Define sets the own property k of the object o to v.
func (o *object) Define(k string, v cell.I) {
	o.props.Set(k, v)
}

// Equal returns true if c is the same object.
func (o *object) Equal(c cell.I) bool {
	return c == cell.I(o)
}

// Get looks up k on the object o and then along its prototype chain.
func (o *object) Get(k string) (cell.I, bool) {
	for p := o; p != nil; p = p.proto {
		if v, ok := p.props.Get(k); ok {
			return v, true
		}
	}

	return special.Undefined, false
}

// Has returns true if k is an own property of the object o.
func (o *object) Has(k string) bool {
	_, ok := o.props.Get(k)

	return ok
}

// Keys returns the own property names of the object o in insertion order.
func (o *object) Keys() []string {
	return o.props.Keys()
}

// Literal returns the literal representation of the object o.
func (o *object) Literal() string {
	keys := o.props.Keys()
	if len(keys) == 0 {
		return "{}"
	}

	s := make([]string, len(keys))
	for i, k := range keys {
		v, _ := o.props.Get(k)
		if v == cell.I(o) {
			s[i] = k + ": {...}"
			continue
		}

		s[i] = k + ": " + literal.String(v)
	}

	return "{" + strings.Join(s, ", ") + "}"
}

// Name returns the type name for the object o.
func (o *object) Name() string {
	return name
}

// Prototype returns the object's prototype, or nil.
func (o *object) Prototype() *object {
	return o.proto
}

// SetPrototype replaces the object's prototype.
func (o *object) SetPrototype(proto *object) {
	o.proto = proto
}

// String returns the default string conversion for objects.
func (o *object) String() string {
	return "[object Object]"
}

// Is returns true if c is a *T.
func Is(c cell.I) bool {
	_, ok := c.(*object)
	return ok
}

// To returns a *T if c is a *T; Otherwise it panics.
func To(c cell.I) *object {
	if o, ok := c.(*object); ok {
		return o
	}

	panic("not an object")
}

// Getter is implemented by every value with named properties.
type Getter interface {
	Get(k string) (cell.I, bool)
}

// Setter is implemented by every value with writable named properties.
type Setter interface {
	Define(k string, v cell.I)
}
