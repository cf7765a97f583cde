// Released under an MIT license. See LICENSE.

// Package array provides ember's array type.
package array

import (
	"strings"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
)

const name = "object"

// T (array) is a growable sequence of cells.
type T struct {
	items []cell.I
}

type array = T

// New creates an array holding a copy of the cells in items.
func New(items ...cell.I) *array {
	a := &array{items: make([]cell.I, len(items))}
	copy(a.items, items)

	return a
}

// Append adds the cell c to the end of the array a.
func (a *array) Append(c cell.I) {
	a.items = append(a.items, c)
}

// Equal returns true if c is the same array.
func (a *array) Equal(c cell.I) bool {
	return c == cell.I(a)
}

// Get returns the element at index i, or undefined if i is out of range.
func (a *array) Get(i int) cell.I {
	if i < 0 || i >= len(a.items) {
		return special.Undefined
	}

	return special.OrUndefined(a.items[i])
}

// Items returns the array's elements. The slice is shared.
func (a *array) Items() []cell.I {
	return a.items
}

// Len returns the number of elements in the array a.
func (a *array) Len() int {
	return len(a.items)
}

// Literal returns the literal representation of the array a.
func (a *array) Literal() string {
	s := make([]string, len(a.items))
	for i, c := range a.items {
		if c == cell.I(a) {
			s[i] = "[...]"
			continue
		}

		s[i] = literal.String(special.OrUndefined(c))
	}

	return "[" + strings.Join(s, ", ") + "]"
}

// Name returns the type name for the array a.
func (a *array) Name() string {
	return name
}

// Pop removes and returns the last element, or undefined if a is empty.
func (a *array) Pop() cell.I {
	n := len(a.items)
	if n == 0 {
		return special.Undefined
	}

	c := a.items[n-1]
	a.items = a.items[:n-1]

	return special.OrUndefined(c)
}

// Set stores the cell c at index i, growing the array as needed.
func (a *array) Set(i int, c cell.I) {
	if i < 0 {
		return
	}

	for len(a.items) <= i {
		a.items = append(a.items, special.Undefined)
	}

	a.items[i] = c
}

// String returns the elements joined by commas.
func (a *array) String() string {
	s := make([]string, len(a.items))
	for i, c := range a.items {
		if c == nil || special.IsNullish(c) || c == cell.I(a) {
			continue
		}

		if st, ok := c.(interface{ String() string }); ok {
			s[i] = st.String()
		}
	}

	return strings.Join(s, ",")
}

// Is returns true if c is a *T.
func Is(c cell.I) bool {
	_, ok := c.(*array)
	return ok
}

// To returns a *T if c is a *T; Otherwise it panics.
func To(c cell.I) *array {
	if a, ok := c.(*array); ok {
		return a
	}

	panic("not an array")
}
