// Released under an MIT license. See LICENSE.

package stack

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
)

// Frame is a call frame on a value stack.
type Frame struct {
	argc  int
	base  int
	stack *T
}

// Accumulator returns the frame's accumulator slot.
func (f Frame) Accumulator() cell.I {
	return f.get(Accumulator)
}

// Arg returns the i'th argument, or undefined if there is none.
func (f Frame) Arg(i int) cell.I {
	if i < 0 || i >= f.argc {
		return special.Undefined
	}

	return f.get(HeaderSize + i)
}

// Argc returns the number of arguments supplied.
func (f Frame) Argc() int {
	return f.argc
}

// Args returns a view of the arguments. The view is invalid once the
// stack grows.
func (f Frame) Args() []cell.I {
	start := f.base + HeaderSize

	return f.stack.slots[start : start+f.argc]
}

// Base returns the index of the frame's first slot.
func (f Frame) Base() int {
	return f.base
}

// Callee returns the value being called.
func (f Frame) Callee() cell.I {
	return f.get(Callee)
}

// Context returns the caller's context.
func (f Frame) Context() cell.I {
	return f.get(Context)
}

// SetAccumulator replaces the frame's accumulator slot.
func (f Frame) SetAccumulator(c cell.I) {
	f.set(Accumulator, c)
}

// SetArg replaces the i'th argument.
func (f Frame) SetArg(i int, c cell.I) {
	if i < 0 || i >= f.argc {
		panic("stack: argument index out of range")
	}

	f.set(HeaderSize+i, c)
}

// SetCallee replaces the value being called.
func (f Frame) SetCallee(c cell.I) {
	f.set(Callee, c)
}

// SetContext replaces the caller's context.
func (f Frame) SetContext(c cell.I) {
	f.set(Context, c)
}

// SetThis replaces the receiver.
func (f Frame) SetThis(c cell.I) {
	f.set(This, c)
}

// Size returns the number of slots occupied by the frame.
func (f Frame) Size() int {
	return HeaderSize + f.argc
}

// This returns the receiver.
func (f Frame) This() cell.I {
	return f.get(This)
}

// Valid returns true if f was built on a stack.
func (f Frame) Valid() bool {
	return f.stack != nil
}

func (f Frame) get(i int) cell.I {
	return f.stack.slots[f.base+i]
}

func (f Frame) set(i int, c cell.I) {
	f.stack.slots[f.base+i] = c
}
