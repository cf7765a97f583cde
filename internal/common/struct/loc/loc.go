// Released under an MIT license. See LICENSE.

// Package loc provides the type used to track the source of tokens and
// syntax tree nodes.
package loc

import (
	"strconv"
)

// T (loc) is a lexical location.
type T struct {
	Char int    // Character position (column).
	Line int    // Line number (row).
	Name string // Label for the source of this token.
}

type loc = T

// New creates a location at the start of the source labelled name.
func New(name string) T {
	return T{Char: 1, Line: 1, Name: name}
}

func (l *loc) String() string {
	if l == nil {
		return "<unknown>"
	}

	return l.Name + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Char)
}
