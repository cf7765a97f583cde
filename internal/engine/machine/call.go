// Released under an MIT license. See LICENSE.

package machine

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/object"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/engine/callee"
	"github.com/michaelmacinnis/ember/internal/engine/scope"
	"github.com/michaelmacinnis/ember/internal/engine/stack"
	"github.com/michaelmacinnis/ember/internal/system/trace"
)

// Call invokes fn with the receiver this and a copy of args. It is the
// entry point for natives that call back into script code.
func (m *machine) Call(fn, this cell.I, args ...cell.I) cell.I {
	f, err := m.stack.FromCallee(fn, args, this)
	if err != nil {
		return m.fail(err)
	}

	r := m.Invoke(f)

	m.stack.Release(f)

	return r
}

// Construct invokes fn as a constructor with a copy of args.
func (m *machine) Construct(fn cell.I, args ...cell.I) cell.I {
	f, err := m.stack.FromCallee(fn, args, nil)
	if err != nil {
		return m.fail(err)
	}

	r := m.InvokeAsConstructor(f)

	m.stack.Release(f)

	return r
}

// Invoke calls the callee in the frame f. The frame stays on the stack;
// the caller releases it. If the result is undefined the caller must check
// for a pending exception.
func (m *machine) Invoke(f stack.Frame) cell.I {
	return m.invoke(f, false)
}

// InvokeAsConstructor calls the callee in the frame f as a constructor.
// A callee that cannot construct raises a TypeError.
func (m *machine) InvokeAsConstructor(f stack.Frame) cell.I {
	return m.invoke(f, true)
}

func (m *machine) invoke(f stack.Frame, construct bool) cell.I {
	c, ok := f.Callee().(*callee.T)
	if !ok {
		return m.typeError("%s is not a function", describe(f.Callee()))
	}

	if construct && !c.IsConstructor() {
		return m.typeError("%s is not a constructor", c.Label())
	}

	if m.chain.Depth() >= m.maxDepth {
		return m.fail(stack.Exhausted())
	}

	trace.T().Debugf("%s %s/%d at depth %d", verb(construct), c.Label(), f.Argc(), m.chain.Depth())

	if c.Kind() == callee.Native {
		return m.native(c, f, construct)
	}

	return m.script(c, f, construct)
}

func (m *machine) native(c *callee.T, f stack.Frame, construct bool) cell.I {
	exit := m.chain.Link(f, nil)
	defer exit()

	call := c.Call()
	if construct {
		call = c.Construct()
	}

	r, err := call(f.This(), f.Args())
	if err != nil {
		return m.fail(err)
	}

	return special.OrUndefined(r)
}

func (m *machine) script(c *callee.T, f stack.Frame, construct bool) cell.I {
	fn := c.Function()

	ctx := scope.New(fn.Shape(), c.Context())
	for i := 0; i < fn.Formals(); i++ {
		ctx.Set(fn.FormalSlot(i), f.Arg(i))
	}

	var instance *object.T

	this := f.This()

	switch {
	case construct:
		instance = object.New(m.instancePrototype(c))
		this = instance
	case special.IsNullish(this):
		this = m.global
	}

	exit := m.chain.Link(f, fn)
	defer exit()

	r := m.exec(m.activation(f, fn, ctx, this))

	if instance != nil && !m.HasException() && !isObject(r) {
		return instance
	}

	return r
}

func (m *machine) instancePrototype(c *callee.T) *object.T {
	if p, ok := c.Get("prototype"); ok && object.Is(p) {
		return object.To(p)
	}

	return m.protos[Object]
}

func verb(construct bool) string {
	if construct {
		return "construct"
	}

	return "call"
}
