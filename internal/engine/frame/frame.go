// Released under an MIT license. See LICENSE.

// Package frame provides ember's active frame chain.
//
// Each entry links a call frame on the value stack to the function
// driving it. The chain answers what is currently executing and how
// deeply calls are nested.
package frame

import (
	"fmt"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/struct/loc"
	"github.com/michaelmacinnis/ember/internal/engine/function"
	"github.com/michaelmacinnis/ember/internal/engine/stack"
)

// T (frame) is an entry in the active frame chain.
type T struct {
	data     stack.Frame
	depth    int
	function *function.T
	previous *frame
	source   loc.T
}

type frame = T

// Depth returns the number of entries in the chain ending at f.
func (f *frame) Depth() int {
	return f.depth
}

// Frame returns the call frame, which is not valid for entries that only
// record their parent.
func (f *frame) Frame() stack.Frame {
	return f.data
}

// Function returns the function driving the frame, or nil for natives and
// bare contexts.
func (f *frame) Function() *function.T {
	return f.function
}

// Loc returns the current location.
func (f *frame) Loc() *loc.T {
	return &f.source
}

// Previous returns the previous frame.
func (f *frame) Previous() *frame {
	return f.previous
}

// String returns a one line description of the frame f.
func (f *frame) String() string {
	n := "<native>"
	if f.function != nil {
		n = f.function.Name()
	}

	return n + " (" + f.source.String() + ")"
}

// Update sets the current lexical location.
func (f *frame) Update(source loc.T) {
	f.source = source
}

// Chain is an interpreter's active frame chain.
type Chain struct {
	head  *frame
	stack *stack.T
}

// NewChain creates an empty chain for frames built on s.
func NewChain(s *stack.T) *Chain {
	return &Chain{stack: s}
}

// Current returns the innermost frame, or nil if nothing is executing.
func (c *Chain) Current() *frame {
	return c.head
}

// Depth returns the number of frames in the chain.
func (c *Chain) Depth() int {
	if c.head == nil {
		return 0
	}

	return c.head.depth
}

// Link publishes data, driven by fn, as the current frame. The returned
// exit function restores the previous frame and should be deferred. The
// caller remains responsible for releasing data.
func (c *Chain) Link(data stack.Frame, fn *function.T) (exit func()) {
	return c.push(&frame{data: data, function: fn})
}

// Scoped pushes an entry for a caller that supplies only a context.
//
// With a context, a header-only call frame hosting ctx is carved at the
// top of the stack and published. Without one the entry only records its
// parent. The returned exit function restores the previous frame and
// releases anything carved; it must be deferred.
//
// On a normal return the carved frame must be the top of the stack. When
// exit runs while a panic unwinds, everything above the carved frame is
// dropped as well and the panic continues.
func (c *Chain) Scoped(ctx cell.I) (exit func(), err error) {
	if ctx == nil {
		return c.push(&frame{}), nil
	}

	data, err := c.stack.Bare(0)
	if err != nil {
		return func() {}, err
	}

	data.SetContext(ctx)

	pop := c.push(&frame{data: data})

	return func() {
		if x := recover(); x != nil {
			pop()
			c.stack.Reset(data.Base())
			panic(x)
		}

		pop()
		c.stack.Release(data)
	}, nil
}

// Trace returns a description of each frame, innermost first.
func (c *Chain) Trace() []string {
	t := make([]string, 0, c.Depth())

	c.Walk(func(f *frame) bool {
		t = append(t, f.String())

		return true
	})

	return t
}

// Walk calls visit for each frame, innermost first, until visit returns
// false.
func (c *Chain) Walk(visit func(*frame) bool) {
	for f := c.head; f != nil; f = f.previous {
		if !visit(f) {
			return
		}
	}
}

func (c *Chain) push(f *frame) func() {
	previous := c.head

	f.previous = previous
	f.depth = 1

	if previous != nil {
		f.depth = previous.depth + 1
		f.source = previous.source
	}

	c.head = f

	return func() {
		if c.head != f {
			panic(fmt.Sprintf("frame: exit at depth %d with depth %d current", f.depth, c.Depth()))
		}

		c.head = previous
	}
}
