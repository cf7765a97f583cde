// Released under an MIT license. See LICENSE.

// Package reader encapsulates the ember lexer and parser.
package reader

import (
	"errors"
	"strings"

	"github.com/michaelmacinnis/ember/internal/reader/ast"
	"github.com/michaelmacinnis/ember/internal/reader/lexer"
	"github.com/michaelmacinnis/ember/internal/reader/parser"
)

// T (reader) accumulates lines until they form a complete program.
type T struct {
	depth int
	name  string
	text  strings.Builder
}

type reader = T

// New creates a new reader for name. Nesting deeper than depth is a
// syntax error.
func New(name string, depth int) *T {
	return &T{depth: depth, name: name}
}

// Parse parses text as a complete program labelled name.
func Parse(name, text string, depth int) (*ast.Program, error) {
	return parser.New(lexer.New(name, text).Token, depth).Parse()
}

// Pending returns true if the reader holds an incomplete program.
func (r *reader) Pending() bool {
	return r.text.Len() > 0
}

// Reset discards any incomplete program.
func (r *reader) Reset() {
	r.text.Reset()
}

// Scan adds line to the text read so far and returns a program on a
// complete parse or nil otherwise. If scan encounters a syntax error it
// returns the error and discards the text.
func (r *reader) Scan(line string) (*ast.Program, error) {
	r.text.WriteString(line)

	p, err := Parse(r.name, r.text.String(), r.depth)
	if errors.Is(err, parser.ErrIncomplete) {
		return nil, nil
	}

	r.text.Reset()

	return p, err
}
