// Released under an MIT license. See LICENSE.

// Package ident provides ember's identifier interning table.
//
// Every name used as a shape key is interned so that names can be compared
// by pointer. Each interpreter owns its own table.
package ident

import (
	"strings"

	"github.com/dop251/goja/unistring"
)

// Shadow is appended to a name to form the key for a displaced duplicate
// binding. It is a noncharacter and cannot appear in a source identifier.
const Shadow = '\uFFFE'

// T (ident) is an interned identifier.
type T struct {
	index int
	key   unistring.String
}

type ident = T

// Index returns the order in which the identifier was interned.
func (i *ident) Index() int {
	return i.index
}

// Shadowed returns true if the identifier is a mangled duplicate key.
func (i *ident) Shadowed() bool {
	return strings.HasSuffix(i.String(), string(Shadow))
}

// String returns the identifier's text.
func (i *ident) String() string {
	return i.key.String()
}

// Table maps raw names to interned identifiers.
type Table struct {
	all []*ident
	m   map[unistring.String]*ident
}

// NewTable creates an empty interning table.
func NewTable() *Table {
	return &Table{m: map[unistring.String]*ident{}}
}

// Intern returns the canonical identifier for the raw name b.
func (t *Table) Intern(b []byte) *ident {
	return t.String(string(b))
}

// Len returns the number of interned identifiers.
func (t *Table) Len() int {
	return len(t.all)
}

// Shadow returns the identifier formed by appending the shadow marker to i.
func (t *Table) Shadow(i *ident) *ident {
	return t.String(i.String() + string(Shadow))
}

// String returns the canonical identifier for the name s.
func (t *Table) String(s string) *ident {
	k := unistring.NewFromString(s)
	if i, ok := t.m[k]; ok {
		return i
	}

	i := &ident{index: len(t.all), key: k}

	t.all = append(t.all, i)
	t.m[k] = i

	return i
}
