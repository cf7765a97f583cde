// Released under an MIT license. See LICENSE.

// Package shape provides the slot layout shared by activation records.
//
// A shape maps identifiers to slot indices. Shapes are immutable and are
// created only by extending an existing shape with one more member. The
// table remembers every transition so that extending the same shape with
// the same name and attributes always yields the same shape. Functions
// whose bindings were added in the same order therefore share one shape and
// their layouts can be compared by pointer.
package shape

import (
	"github.com/michaelmacinnis/ember/internal/common/struct/ident"
)

// Attr holds the attribute bits of a member.
type Attr uint8

// Member attributes.
const (
	NotConfigurable Attr = 1 << iota
	ReadOnly
)

// Member is the slot and attributes bound to a name.
type Member struct {
	Attrs Attr
	Slot  int
}

// T (shape) is an immutable name to slot mapping.
type T struct {
	attrs  Attr
	name   *ident.T
	parent *T
	table  *Table

	members map[*ident.T]Member
	slots   []*ident.T // Key under which each slot is reachable.

	transitions map[transition]*T
}

type shape = T

type transition struct {
	attrs Attr
	name  *ident.T
}

// Table owns the shapes created for one interpreter.
type Table struct {
	count int
	names *ident.Table
	root  *shape
}

// NewTable creates a shape table whose keys are interned in names.
func NewTable(names *ident.Table) *Table {
	t := &Table{names: names}
	t.root = t.fresh(nil)

	return t
}

// Len returns the number of shapes created so far, including the root.
func (t *Table) Len() int {
	return t.count
}

// Names returns the identifier table used for keys.
func (t *Table) Names() *ident.Table {
	return t.names
}

// Root returns the empty shape that every call context starts from.
func (t *Table) Root() *shape {
	return t.root
}

func (t *Table) fresh(parent *shape) *shape {
	t.count++

	s := &shape{
		parent:      parent,
		table:       t,
		members:     map[*ident.T]Member{},
		transitions: map[transition]*shape{},
	}

	if parent != nil {
		for k, v := range parent.members {
			s.members[k] = v
		}

		s.slots = make([]*ident.T, len(parent.slots), len(parent.slots)+1)
		copy(s.slots, parent.slots)
	}

	return s
}

// Extend returns the shape formed by adding name with attrs to s.
//
// If name is already bound in s, a new slot is still allocated and the
// new binding takes the name. The binding it displaces moves to the first
// free shadow key (name followed by one or more ident.Shadow markers) so
// both remain addressable.
func (s *shape) Extend(name *ident.T, attrs Attr) *shape {
	k := transition{attrs: attrs, name: name}
	if next, ok := s.transitions[k]; ok {
		return next
	}

	next := s.table.fresh(s)
	next.attrs = attrs
	next.name = name

	slot := len(next.slots)

	if displaced, ok := next.members[name]; ok {
		shadow := s.table.names.Shadow(name)
		for {
			if _, taken := next.members[shadow]; !taken {
				break
			}

			shadow = s.table.names.Shadow(shadow)
		}

		next.members[shadow] = displaced
		next.slots[displaced.Slot] = shadow
	}

	next.members[name] = Member{Attrs: attrs, Slot: slot}
	next.slots = append(next.slots, name)

	s.transitions[k] = next

	return next
}

// Key returns the identifier under which slot is currently reachable.
func (s *shape) Key(slot int) *ident.T {
	if slot < 0 || slot >= len(s.slots) {
		return nil
	}

	return s.slots[slot]
}

// Lookup returns the member bound to name.
func (s *shape) Lookup(name *ident.T) (Member, bool) {
	m, ok := s.members[name]

	return m, ok
}

// Name returns the identifier added by the transition that created s.
// The root shape has no name.
func (s *shape) Name() *ident.T {
	return s.name
}

// Parent returns the shape that s extends, or nil for a root shape.
func (s *shape) Parent() *shape {
	return s.parent
}

// Resolve returns the slot bound to name.
func (s *shape) Resolve(name *ident.T) (int, bool) {
	m, ok := s.members[name]
	if !ok {
		return -1, false
	}

	return m.Slot, true
}

// Size returns the number of slots described by the shape s.
func (s *shape) Size() int {
	return len(s.slots)
}

// Table returns the table that owns the shape s.
func (s *shape) Table() *Table {
	return s.table
}

// Members returns the keys of s in slot order.
func (s *shape) Members() []*ident.T {
	m := make([]*ident.T, len(s.slots))
	copy(m, s.slots)

	return m
}
