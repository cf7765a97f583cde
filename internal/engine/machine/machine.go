// Released under an MIT license. See LICENSE.

// Package machine provides ember's bytecode interpreter.
//
// A machine owns everything an interpreter instance needs: the value
// stack, the active frame chain, the shape and identifier tables, and the
// global object. A machine must only be used by one goroutine at a time.
//
// Catchable failures do not unwind the Go stack. They set a pending
// exception on the machine that every caller checks, after Invoke or any
// other operation that can fail, before using the result.
package machine

import (
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/struct/ident"
	"github.com/michaelmacinnis/ember/internal/common/struct/shape"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/object"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/callee"
	"github.com/michaelmacinnis/ember/internal/engine/frame"
	"github.com/michaelmacinnis/ember/internal/engine/function"
	"github.com/michaelmacinnis/ember/internal/engine/scope"
	"github.com/michaelmacinnis/ember/internal/engine/stack"
	"github.com/michaelmacinnis/ember/internal/engine/unit"
	"github.com/michaelmacinnis/ember/internal/system/trace"
)

// DefaultDepth is the call depth limit used when none is configured.
const DefaultDepth = 10000

// Options configures a machine. Zero values select the defaults.
type Options struct {
	MaxCallDepth int
	StackSlots   int
}

// Prototype names.
const (
	Array    = "Array"
	Boolean  = "Boolean"
	Function = "Function"
	Number   = "Number"
	Object   = "Object"
	String   = "String"
)

// T (machine) is an interpreter instance.
type T struct {
	chain     *frame.Chain
	functions map[*unit.T]*function.T
	global    *object.T
	globals   *scope.T
	idents    map[*unit.T][]*ident.T
	maxDepth  int
	names     *ident.Table
	pending   cell.I
	protos    map[string]*object.T
	shapes    *shape.Table
	stack     *stack.T
}

type machine = T

// New creates a machine with an empty global object.
func New(o Options) *machine {
	if o.MaxCallDepth <= 0 {
		o.MaxCallDepth = DefaultDepth
	}

	names := ident.NewTable()
	values := stack.New(o.StackSlots)

	m := &machine{
		chain:     frame.NewChain(values),
		functions: map[*unit.T]*function.T{},
		idents:    map[*unit.T][]*ident.T{},
		maxDepth:  o.MaxCallDepth,
		names:     names,
		protos:    map[string]*object.T{},
		shapes:    shape.NewTable(names),
		stack:     values,
	}

	root := object.New(nil)
	m.protos[Object] = root

	for _, k := range []string{Array, Boolean, Function, Number, String} {
		m.protos[k] = object.New(root)
	}

	base := object.New(root)
	base.Define("name", str.New(string(exception.Error)))
	base.Define("message", str.New(""))
	m.protos[string(exception.Error)] = base

	kinds := []exception.Kind{
		exception.Range, exception.Reference, exception.Syntax, exception.Type,
	}
	for _, k := range kinds {
		p := object.New(base)
		p.Define("name", str.New(string(k)))
		m.protos[string(k)] = p
	}

	m.global = object.New(root)
	m.globals = scope.Global(m.global)

	return m
}

// Catch clears and returns the pending exception.
func (m *machine) Catch() cell.I {
	c := m.pending
	m.pending = nil

	return special.OrUndefined(c)
}

// Chain returns the machine's active frame chain.
func (m *machine) Chain() *frame.Chain {
	return m.chain
}

// Define creates or replaces the global named k.
func (m *machine) Define(k string, c cell.I) {
	m.global.Define(k, c)
}

// Exception returns the pending exception without clearing it.
func (m *machine) Exception() cell.I {
	return special.OrUndefined(m.pending)
}

// Function returns the descriptor for u, building it the first time u is
// seen.
func (m *machine) Function(u *unit.T) *function.T {
	f, ok := m.functions[u]
	if !ok {
		f = function.Build(m.shapes, u)
		m.functions[u] = f
	}

	return f
}

// Global returns the global object.
func (m *machine) Global() *object.T {
	return m.global
}

// Globals returns the outermost scope.
func (m *machine) Globals() *scope.T {
	return m.globals
}

// HasException returns true if an exception is pending.
func (m *machine) HasException() bool {
	return m.pending != nil
}

// Names returns the machine's identifier table.
func (m *machine) Names() *ident.Table {
	return m.names
}

// NewFunction creates a callee for the descriptor f closing over ctx.
func (m *machine) NewFunction(f *function.T, ctx *scope.T) *callee.T {
	c := callee.New(f, ctx, m.protos[Function])

	if p, ok := c.Get("prototype"); ok && object.Is(p) {
		object.To(p).SetPrototype(m.protos[Object])
	}

	return c
}

// NewNative creates a native callee. A nil construct means the callee
// cannot be used with new.
func (m *machine) NewNative(label string, call, construct callee.Go) *callee.T {
	return callee.NewNative(label, call, construct, m.protos[Function])
}

// Prototype returns the named built-in prototype: one of the names above
// or an error kind.
func (m *machine) Prototype(name string) *object.T {
	p, ok := m.protos[name]
	if !ok {
		panic("machine: no prototype " + name)
	}

	return p
}

// Shapes returns the machine's shape table.
func (m *machine) Shapes() *shape.Table {
	return m.shapes
}

// Stack returns the machine's value stack.
func (m *machine) Stack() *stack.T {
	return m.stack
}

// Throw makes c the pending exception and returns undefined.
func (m *machine) Throw(c cell.I) cell.I {
	m.pending = special.OrUndefined(c)

	trace.T().Debugf("throw %s", describe(m.pending))

	return special.Undefined
}

// Run executes the program unit u against the global scope and returns
// the value of its last expression statement.
//
// An exception left pending by the program is cleared and returned as an
// error.
func (m *machine) Run(u *unit.T) (cell.I, error) {
	exit, err := m.chain.Scoped(m.globals)
	if err != nil {
		return nil, err
	}
	defer exit()

	fn := m.Function(u)

	data, err := m.stack.FromFunction(m.NewFunction(fn, m.globals), 0)
	if err != nil {
		return nil, err
	}

	data.SetContext(m.globals)
	data.SetThis(m.global)

	r := func() cell.I {
		unlink := m.chain.Link(data, fn)
		defer unlink()

		return m.exec(m.activation(data, fn, m.globals, m.global))
	}()

	m.stack.Release(data)

	if m.HasException() {
		return nil, exception.Wrap(m.Catch())
	}

	return r, nil
}

func (m *machine) fail(err error) cell.I {
	if e, ok := err.(*exception.T); ok { //nolint:errorlint
		return m.Throw(e.Value())
	}

	return m.Throw(exception.New(exception.Error, err.Error()))
}

func (m *machine) identifiers(u *unit.T) []*ident.T {
	ids, ok := m.idents[u]
	if ok {
		return ids
	}

	ids = make([]*ident.T, len(u.Constants))

	for i, c := range u.Constants {
		if str.Is(c) {
			ids[i] = m.names.String(str.To(c).String())
		}
	}

	m.idents[u] = ids

	return ids
}

func (m *machine) typeError(format string, args ...interface{}) cell.I {
	return m.Throw(exception.Newf(exception.Type, format, args...))
}
