// Released under an MIT license. See LICENSE.

// Package scope provides the runtime call context that holds an
// activation's bindings.
//
// A declarative scope stores one value per slot of its shape. The
// outermost scope is backed by the global object.
package scope

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/struct/ident"
	"github.com/michaelmacinnis/ember/internal/common/struct/shape"
	"github.com/michaelmacinnis/ember/internal/common/type/object"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
)

const name = "scope"

// T (scope) is a call context.
type T struct {
	global *object.T
	outer  *T
	shape  *shape.T
	slots  []cell.I
}

type scope = T

// Global creates the outermost scope backed by the object o.
func Global(o *object.T) *scope {
	return &scope{global: o}
}

// New creates a scope with one undefined slot for each slot of s.
func New(s *shape.T, outer *scope) *scope {
	slots := make([]cell.I, s.Size())
	for i := range slots {
		slots[i] = special.Undefined
	}

	return &scope{outer: outer, shape: s, slots: slots}
}

// Assign stores c in the nearest binding named k. If there is none the
// binding is created on the global object.
func (s *scope) Assign(k *ident.T, c cell.I) {
	for e := s; e != nil; e = e.outer {
		if e.global != nil {
			e.global.Define(k.String(), c)

			return
		}

		if i, ok := e.shape.Resolve(k); ok {
			e.slots[i] = c

			return
		}
	}
}

// Equal returns true if c is the same scope.
func (s *scope) Equal(c cell.I) bool {
	return c == cell.I(s)
}

// Get returns the value in slot i.
func (s *scope) Get(i int) cell.I {
	return s.slots[i]
}

// Global returns the global object at the end of the scope chain.
func (s *scope) Global() *object.T {
	e := s
	for e.outer != nil {
		e = e.outer
	}

	return e.global
}

// Lookup returns the value of the nearest binding named k.
func (s *scope) Lookup(k *ident.T) (cell.I, bool) {
	for e := s; e != nil; e = e.outer {
		if e.global != nil {
			if !e.global.Has(k.String()) {
				return special.Undefined, false
			}

			return e.global.Get(k.String())
		}

		if i, ok := e.shape.Resolve(k); ok {
			return e.slots[i], true
		}
	}

	return special.Undefined, false
}

// Name returns the type name for the scope s.
func (s *scope) Name() string {
	return name
}

// Outer returns the enclosing scope, or nil for the global scope.
func (s *scope) Outer() *scope {
	return s.outer
}

// Set stores c in slot i.
func (s *scope) Set(i int, c cell.I) {
	s.slots[i] = c
}

// Shape returns the layout of the scope s, or nil for the global scope.
func (s *scope) Shape() *shape.T {
	return s.shape
}

// Size returns the number of slots in the scope s.
func (s *scope) Size() int {
	return len(s.slots)
}

// Is returns true if c is a *T.
func Is(c cell.I) bool {
	_, ok := c.(*scope)
	return ok
}

// To returns a *T if c is a *T; Otherwise it panics.
func To(c cell.I) *scope {
	if s, ok := c.(*scope); ok {
		return s
	}

	panic("not a " + name)
}
