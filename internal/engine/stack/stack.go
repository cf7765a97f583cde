// Released under an MIT license. See LICENSE.

// Package stack provides ember's value stack and the call frames built
// on it.
//
// A call frame is a header followed by its arguments, allocated as one
// contiguous block at the top of the stack. Frames are released in the
// reverse of the order they were built.
package stack

import (
	"fmt"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/engine/callee"
)

// Header slots.
const (
	Callee = iota
	Context
	Accumulator
	This
	Argc

	HeaderSize
)

// DefaultSlots is the slot limit used when none is configured.
const DefaultSlots = 1 << 20

const initial = 256

// T (stack) is one interpreter's value stack.
type T struct {
	limit int
	slots []cell.I
	top   int
}

type stack = T

// New creates a value stack that will not grow past limit slots.
func New(limit int) *stack {
	if limit <= 0 {
		limit = DefaultSlots
	}

	n := initial
	if n > limit {
		n = limit
	}

	return &stack{limit: limit, slots: make([]cell.I, n)}
}

// Exhausted returns the error reported when the stack cannot grow.
func Exhausted() error {
	return exception.New(exception.Range, "Maximum call stack size exceeded")
}

// Bare builds a frame for argc arguments with every header slot and
// argument undefined.
func (s *stack) Bare(argc int) (Frame, error) {
	base := s.top

	if err := s.reserve(HeaderSize + argc); err != nil {
		return Frame{}, err
	}

	for i := base; i < s.top; i++ {
		s.slots[i] = special.Undefined
	}

	s.slots[base+Argc] = num.Int(argc)

	return Frame{argc: argc, base: base, stack: s}, nil
}

// FromArgv builds a frame whose arguments are copied from argv.
// The receiver is this, or undefined if this is nil.
func (s *stack) FromArgv(argv []cell.I, this cell.I) (Frame, error) {
	f, err := s.Bare(len(argv))
	if err != nil {
		return f, err
	}

	copy(s.slots[f.base+HeaderSize:s.top], argv)

	f.SetThis(special.OrUndefined(this))

	return f, nil
}

// FromCallee builds a frame like FromArgv with the callee set to c.
// The callee may be any value. Invoking a value that is not callable is
// reported when the frame is invoked.
func (s *stack) FromCallee(c cell.I, argv []cell.I, this cell.I) (Frame, error) {
	f, err := s.FromArgv(argv, this)
	if err != nil {
		return f, err
	}

	f.SetCallee(c)

	return f, nil
}

// FromFunction builds a frame like Bare with the callee set to fn.
func (s *stack) FromFunction(fn *callee.T, argc int) (Frame, error) {
	f, err := s.Bare(argc)
	if err != nil {
		return f, err
	}

	f.SetCallee(fn)

	return f, nil
}

// Drop discards the top n values.
func (s *stack) Drop(n int) {
	s.Reset(s.top - n)
}

// Get returns the value in slot i.
func (s *stack) Get(i int) cell.I {
	return s.slots[i]
}

// Limit returns the maximum number of slots.
func (s *stack) Limit() int {
	return s.limit
}

// Mark returns the current top for a later Reset.
func (s *stack) Mark() int {
	return s.top
}

// Peek returns the value n slots below the top. Peek(0) is the top value.
func (s *stack) Peek(n int) cell.I {
	return s.slots[s.top-1-n]
}

// Pop removes and returns the top value.
func (s *stack) Pop() cell.I {
	if s.top == 0 {
		panic("stack: pop from empty stack")
	}

	s.top--

	c := s.slots[s.top]
	s.slots[s.top] = nil

	return c
}

// Push adds c to the top of the stack.
func (s *stack) Push(c cell.I) error {
	if err := s.reserve(1); err != nil {
		return err
	}

	s.slots[s.top-1] = c

	return nil
}

// Release tears down f. Every frame built after f must already have been
// released and any values pushed above it dropped.
func (s *stack) Release(f Frame) {
	if f.stack != s || f.base+f.Size() != s.top {
		panic(fmt.Sprintf(
			"stack: frame at %d of size %d released out of order (top %d)",
			f.base, f.Size(), s.top,
		))
	}

	s.Reset(f.base)
}

// Reset restores the top to mark, which must not be above the top.
func (s *stack) Reset(mark int) {
	if mark < 0 || mark > s.top {
		panic(fmt.Sprintf("stack: reset to %d with top %d", mark, s.top))
	}

	for i := mark; i < s.top; i++ {
		s.slots[i] = nil
	}

	s.top = mark
}

// Set replaces the value in slot i.
func (s *stack) Set(i int, c cell.I) {
	s.slots[i] = c
}

// Top returns the index of the next free slot.
func (s *stack) Top() int {
	return s.top
}

// Window returns a view of the top n values. The view is invalid once
// the stack grows.
func (s *stack) Window(n int) []cell.I {
	return s.slots[s.top-n : s.top]
}

func (s *stack) reserve(n int) error {
	need := s.top + n
	if need > s.limit {
		return Exhausted()
	}

	if need > len(s.slots) {
		size := 2 * len(s.slots)
		for size < need {
			size *= 2
		}

		if size > s.limit {
			size = s.limit
		}

		grown := make([]cell.I, size)
		copy(grown, s.slots[:s.top])
		s.slots = grown
	}

	s.top = need

	return nil
}
