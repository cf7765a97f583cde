// Released under an MIT license. See LICENSE.

// Package compile translates ember syntax trees into compiled units.
//
// Each function becomes one unit. Names are resolved when the unit is
// compiled: bindings owned by the function use fixed slots when the
// function can take the fast call path, and are looked up by name
// otherwise. Names bound by an enclosing function are always looked up by
// name and mark the unit as having external dependencies. Everything else
// is global.
package compile

import (
	"math"
	"strconv"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/instr"
	"github.com/michaelmacinnis/ember/internal/engine/unit"
	"github.com/michaelmacinnis/ember/internal/reader/ast"
	"github.com/michaelmacinnis/ember/internal/system/trace"
)

type binding int

const (
	global binding = iota
	enclosing
	own
)

type loop struct {
	brk      instr.Label
	cont     instr.Label
	handlers int
}

type compiler struct {
	b        instr.Builder
	fast     bool
	globals  []string
	handlers int
	index    map[string]int
	loops    []loop
	names    map[string]bool
	outer    *compiler
	unit     *unit.T
}

// Dynamic compiles body as a function named name whose formal parameters,
// params, are bound when the function is created rather than when it is
// compiled. Bindings are always looked up by name.
func Dynamic(name string, params []string, body []ast.Node) (u *unit.T, err error) {
	defer recovered(&err)

	f := &ast.Function{Body: body, Name: name, Params: params}
	if len(body) > 0 {
		f.Loc = body[0].Source()
	}

	return compileFunction(nil, f, true, false), nil
}

// Program compiles p. The unit returns the value of the last expression
// statement executed.
func Program(p *ast.Program) (u *unit.T, err error) {
	defer recovered(&err)

	c := fresh(nil, &unit.T{Name: unit.Program, Source: p.Loc})

	functions := c.hoist(p.Body)

	for _, g := range c.globals {
		c.b.Emit(instr.DeclareName, c.constant(str.New(g)))
	}

	c.functions(functions)
	c.statements(p.Body)

	c.b.Emit(instr.LoadAcc)
	c.b.Emit(instr.Return)

	return c.finish(), nil
}

func compileFunction(outer *compiler, f *ast.Function, dynamic, expression bool) *unit.T {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}

	u := &unit.T{
		Dynamic: dynamic,
		Formals: f.Params,
		Name:    name,
		Source:  f.Loc,
	}
	u.SimpleCall = u.CanUseSimpleCall()

	c := fresh(outer, u)
	c.fast = u.SimpleCall

	for _, p := range f.Params {
		c.names[p] = true
	}

	functions := c.hoist(f.Body)

	if expression && f.Name != "" && !c.names[f.Name] {
		c.declare(f.Name)

		c.b.Emit(instr.LoadCallee)
		c.store(f.Name)
		c.b.Emit(instr.Pop)
	}

	c.functions(functions)
	c.statements(f.Body)

	c.b.Emit(instr.LoadUndefined)
	c.b.Emit(instr.Return)

	return c.finish()
}

func fresh(outer *compiler, u *unit.T) *compiler {
	return &compiler{
		index: map[string]int{},
		names: map[string]bool{},
		outer: outer,
		unit:  u,
	}
}

func recovered(err *error) {
	r := recover()
	if r == nil {
		return
	}

	e, ok := r.(*exception.T)
	if !ok {
		panic(r)
	}

	trace.Syntax().Debugf("compile: %s", e)

	*err = e
}

func fail(k exception.Kind, msg string) {
	panic(exception.New(k, msg))
}

func (c *compiler) closure(f *ast.Function, expression bool) {
	u := compileFunction(c, f, false, expression)

	c.unit.Units = append(c.unit.Units, u)
	c.b.Emit(instr.Closure, len(c.unit.Units)-1)
}

func (c *compiler) constant(v cell.I) int {
	var k string

	switch {
	case num.Is(v):
		k = "n" + strconv.FormatUint(math.Float64bits(num.To(v).Float()), 16)
	case str.Is(v):
		k = "s" + str.To(v).String()
	default:
		panic("compile: unexpected constant " + v.Name())
	}

	if i, ok := c.index[k]; ok {
		return i
	}

	i := len(c.unit.Constants)

	c.index[k] = i
	c.unit.Constants = append(c.unit.Constants, v)

	return i
}

func (c *compiler) declare(name string) {
	if c.names[name] {
		return
	}

	c.names[name] = true

	if c.program() {
		c.globals = append(c.globals, name)
	} else {
		c.unit.Locals = append(c.unit.Locals, name)
	}
}

func (c *compiler) finish() *unit.T {
	c.unit.Code = c.b.Bytes()

	return c.unit
}

// functions binds each hoisted function declaration before the body runs.
func (c *compiler) functions(fs []*ast.Function) {
	for _, f := range fs {
		c.closure(f, false)
		c.store(f.Name)
		c.b.Emit(instr.Pop)
	}
}

// hoist declares every variable and function declared in body, outside of
// nested functions, and returns the function declarations.
func (c *compiler) hoist(body []ast.Node) []*ast.Function {
	var fs []*ast.Function

	var walk func(n ast.Node)

	walk = func(n ast.Node) {
		switch n := n.(type) {
		case *ast.Block:
			for _, s := range n.Body {
				walk(s)
			}
		case *ast.For:
			walk(n.Init)
			walk(n.Body)
		case *ast.ForIn:
			if n.Declare {
				c.declare(n.Target.(*ast.Identifier).Name)
			}

			walk(n.Body)
		case *ast.FunctionDeclaration:
			c.declare(n.Function.Name)

			fs = append(fs, n.Function)
		case *ast.If:
			walk(n.Then)
			walk(n.Else)
		case *ast.Try:
			walk(n.Body)

			if !c.program() {
				c.declare(n.Param)
			}

			walk(n.Handler)
		case *ast.Var:
			for _, d := range n.Declarations {
				c.declare(d.Name)
			}
		case *ast.While:
			walk(n.Body)
		}
	}

	for _, s := range body {
		walk(s)
	}

	return fs
}

func (c *compiler) load(name string) {
	b := c.resolve(name)

	switch {
	case b == own && c.fast:
		slot, _ := c.unit.Slot(name)
		c.b.Emit(instr.LoadLocal, slot)
	case b == global && name == "undefined":
		c.b.Emit(instr.LoadUndefined)
	default:
		c.b.Emit(instr.LoadName, c.constant(str.New(name)))
	}
}

func (c *compiler) program() bool {
	return c.unit.Name == unit.Program && c.outer == nil
}

func (c *compiler) resolve(name string) binding {
	if c.names[name] && !c.program() {
		return own
	}

	for o := c.outer; o != nil; o = o.outer {
		if o.names[name] && !o.program() {
			c.unit.ExternalDependencies = true

			return enclosing
		}
	}

	return global
}

func (c *compiler) store(name string) {
	if c.resolve(name) == own && c.fast {
		slot, _ := c.unit.Slot(name)
		c.b.Emit(instr.StoreLocal, slot)

		return
	}

	c.b.Emit(instr.StoreName, c.constant(str.New(name)))
}
