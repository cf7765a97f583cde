// Released under an MIT license. See LICENSE.

// Package exception provides ember's error value type.
package exception

import (
	"fmt"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
)

// Kind is the class of an error.
type Kind string

// Error kinds.
const (
	Error     Kind = "Error"
	Range     Kind = "RangeError"
	Reference Kind = "ReferenceError"
	Syntax    Kind = "SyntaxError"
	Type      Kind = "TypeError"
)

// T (exception) is an error raised by the engine or created by script code.
// A thrown value that is not an exception is carried in value.
type T struct {
	kind    Kind
	message string
	value   cell.I
}

type exception = T

// New creates an exception of kind k with the message msg.
func New(k Kind, msg string) *exception {
	return &exception{kind: k, message: msg}
}

// Newf creates an exception of kind k with a formatted message.
func Newf(k Kind, format string, args ...interface{}) *exception {
	return New(k, fmt.Sprintf(format, args...))
}

// Wrap returns c as an exception, wrapping any other thrown value.
func Wrap(c cell.I) *exception {
	if e, ok := c.(*exception); ok {
		return e
	}

	return &exception{value: special.OrUndefined(c)}
}

// Equal returns true if c is the same exception.
func (e *exception) Equal(c cell.I) bool {
	return c == cell.I(e)
}

// Error returns the text of the exception e.
func (e *exception) Error() string {
	if e.value != nil {
		return "Uncaught " + literal.String(e.value)
	}

	return e.String()
}

// Get returns the exception's name or message properties.
func (e *exception) Get(k string) (cell.I, bool) {
	switch k {
	case "name":
		return str.New(string(e.kind)), true
	case "message":
		return str.New(e.message), true
	}

	return special.Undefined, false
}

// Kind returns the class of the exception e.
func (e *exception) Kind() Kind {
	return e.kind
}

// Literal returns the literal representation of the exception e.
func (e *exception) Literal() string {
	return e.Error()
}

// Message returns the message of the exception e.
func (e *exception) Message() string {
	return e.message
}

// Name returns the type name for the exception e.
func (e *exception) Name() string {
	return "object"
}

// String returns the exception as "Kind: message".
func (e *exception) String() string {
	if e.message == "" {
		return string(e.kind)
	}

	return string(e.kind) + ": " + e.message
}

// Value returns the thrown value, which is the exception itself unless a
// non-exception value was wrapped.
func (e *exception) Value() cell.I {
	if e.value != nil {
		return e.value
	}

	return e
}

// Is returns true if c is a *T.
func Is(c cell.I) bool {
	_, ok := c.(*exception)
	return ok
}

// To returns a *T if c is a *T; Otherwise it panics.
func To(c cell.I) *exception {
	if e, ok := c.(*exception); ok {
		return e
	}

	panic("not an exception")
}
