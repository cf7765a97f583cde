// Released under an MIT license. See LICENSE.

// Package hash provides ember's property table.
package hash

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
)

// T (hash) maps names to values. Values are stored densely in the order
// their names were first added.
type T struct {
	index  map[string]int
	keys   []string
	values []cell.I
}

type hash = T

// New creates a new hash.
func New() *hash {
	return &hash{index: map[string]int{}}
}

// Get retrieves the value associated with the name k in the hash h.
func (h *hash) Get(k string) (cell.I, bool) {
	i, ok := h.index[k]
	if !ok {
		return nil, false
	}

	return h.values[i], true
}

// Keys returns the names in the hash h in the order they were added.
// The caller must not modify the result.
func (h *hash) Keys() []string {
	return h.keys
}

// Len returns the number of entries in the hash h.
func (h *hash) Len() int {
	return len(h.keys)
}

// Set associates the name k with the cell v in the hash h. Replacing the
// value of an existing name keeps its position.
func (h *hash) Set(k string, v cell.I) {
	if i, ok := h.index[k]; ok {
		h.values[i] = v

		return
	}

	h.index[k] = len(h.keys)
	h.keys = append(h.keys, k)
	h.values = append(h.values, v)
}
