// Released under an MIT license. See LICENSE.

// Package cell defines the interface for all ember values.
package cell

// I (cell) is the basic unit of storage in ember. Every value stack slot,
// scope slot, and object property holds a cell.
type I interface {
	Equal(c I) bool
	Name() string
}
