// Released under an MIT license. See LICENSE.

// Package function provides the per-interpreter descriptor for a compiled
// unit: its binding shape and whether it can take the fast call path.
package function

import (
	"github.com/michaelmacinnis/ember/internal/common/struct/shape"
	"github.com/michaelmacinnis/ember/internal/engine/unit"
)

// T (function) describes how activations of a unit are laid out.
type T struct {
	external    bool
	fast        bool
	formalSlots []int
	rebuilt     bool
	shape       *shape.T
	table       *shape.Table
	unit        *unit.T
}

type function = T

// Build creates the descriptor for u using the shapes in t.
//
// Locals are added to the root shape in order, then formals in order.
// When a formal name repeats, the right-most occurrence owns the name.
func Build(t *shape.Table, u *unit.T) *function {
	names := t.Names()

	s := t.Root()
	for _, l := range u.Locals {
		s = s.Extend(names.String(l), shape.NotConfigurable)
	}

	slots := make([]int, len(u.Formals))
	for i, f := range u.Formals {
		slots[i] = s.Size()
		s = s.Extend(names.String(f), shape.NotConfigurable)
	}

	return &function{
		external:    u.ExternalDependencies,
		fast:        u.SimpleCall,
		formalSlots: slots,
		shape:       s,
		table:       t,
		unit:        u,
	}
}

// Code returns the compiled code.
func (f *function) Code() []byte {
	return f.unit.Code
}

// FastPath returns true if every binding has a fixed slot.
func (f *function) FastPath() bool {
	return f.fast
}

// FormalSlot returns the slot for the i'th formal parameter.
func (f *function) FormalSlot(i int) int {
	return f.formalSlots[i]
}

// Formals returns the number of declared formal parameters.
func (f *function) Formals() int {
	return len(f.formalSlots)
}

// HasExternalDependencies returns true if the function reads bindings from
// an enclosing function.
func (f *function) HasExternalDependencies() bool {
	return f.external
}

// Name returns the unit's name.
func (f *function) Name() string {
	return f.unit.Name
}

// RebindFormals replaces the formal parameter list with names.
//
// The shape is rebuilt from the root. The names are added in reverse so
// that, when a name repeats, the left-most occurrence owns the name. The
// locals follow. The fast path is disabled permanently.
func (f *function) RebindFormals(names []string) {
	if f.rebuilt {
		panic("function: formals of " + f.Name() + " already rebound")
	}

	ids := f.table.Names()
	n := len(names)

	s := f.table.Root()
	for i := n - 1; i >= 0; i-- {
		s = s.Extend(ids.String(names[i]), shape.NotConfigurable)
	}

	slots := make([]int, n)
	for i := range slots {
		slots[i] = n - 1 - i
	}

	for _, l := range f.unit.Locals {
		s = s.Extend(ids.String(l), shape.NotConfigurable)
	}

	f.fast = false
	f.formalSlots = slots
	f.rebuilt = true
	f.shape = s
}

// Rebuilt returns true if the formals were rebound after compilation.
func (f *function) Rebuilt() bool {
	return f.rebuilt
}

// Shape returns the layout of the function's activations.
func (f *function) Shape() *shape.T {
	return f.shape
}

// Unit returns the compiled unit.
func (f *function) Unit() *unit.T {
	return f.unit
}
