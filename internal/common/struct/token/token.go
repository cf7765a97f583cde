// Released under an MIT license. See LICENSE.

// Package token is shared by the ember lexer and parser.
package token

import (
	"strconv"
	"unicode"

	"github.com/michaelmacinnis/ember/internal/common/struct/loc"
)

// Class is a token's type.
//
// Single character punctuation uses the character itself as its class.
type Class rune

// T (token) is a lexical item returned by the scanner.
type T struct {
	class  Class
	source loc.T
	value  string
}

type token = T

// Token classes.
const (
	Error Class = iota

	EOF Class = unicode.MaxRune + iota
	Identifier
	Incomplete
	Number
	Operator
	String
	Template
	TemplateHead
	TemplateMiddle
	TemplateTail
)

// New creates a new token.
func New(class Class, value string, source loc.T) *token {
	return &token{
		class:  class,
		source: source,
		value:  value,
	}
}

// String returns a string representation of Class. Useful for debugging.
func (c Class) String() string {
	switch c {
	case Error:
		return "Error"
	case EOF:
		return "EOF"
	case Identifier:
		return "Identifier"
	case Incomplete:
		return "Incomplete"
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	case String:
		return "String"
	case Template:
		return "Template"
	case TemplateHead:
		return "TemplateHead"
	case TemplateMiddle:
		return "TemplateMiddle"
	case TemplateTail:
		return "TemplateTail"
	}

	return strconv.QuoteRune(rune(c))
}

// Class returns the token's class.
func (t *token) Class() Class {
	return t.class
}

// Is returns true if the token t is any of the classes in cs.
func (t *token) Is(cs ...Class) bool {
	if t == nil {
		return false
	}

	for _, c := range cs {
		if t.class == c {
			return true
		}
	}

	return false
}

// IsOperator returns true if t is an operator with one of the values in vs.
func (t *token) IsOperator(vs ...string) bool {
	if !t.Is(Operator) {
		return false
	}

	for _, v := range vs {
		if t.value == v {
			return true
		}
	}

	return false
}

// IsWord returns true if t is an identifier with one of the values in vs.
func (t *token) IsWord(vs ...string) bool {
	if !t.Is(Identifier) {
		return false
	}

	for _, v := range vs {
		if t.value == v {
			return true
		}
	}

	return false
}

// Source returns the source location for this token.
func (t *token) Source() loc.T {
	return t.source
}

// String returns the token's string representation. Useful for debugging.
func (t *token) String() string {
	return strconv.Quote(t.value) + "(" +
		t.class.String() + "," +
		t.source.String() + ")"
}

// Value returns the token's string value.
func (t *token) Value() string {
	return t.value
}
