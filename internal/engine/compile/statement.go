// Released under an MIT license. See LICENSE.

package compile

import (
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/instr"
	"github.com/michaelmacinnis/ember/internal/reader/ast"
)

func (c *compiler) statements(body []ast.Node) {
	for _, s := range body {
		c.statement(s)
	}
}

//nolint:cyclop,funlen
func (c *compiler) statement(n ast.Node) {
	switch n := n.(type) {
	case *ast.Block:
		c.statements(n.Body)
	case *ast.Break:
		l := c.innermost("Illegal break statement")
		c.unwind(l)
		c.b.Jump(instr.Jump, l.brk)
	case *ast.Continue:
		l := c.innermost("Illegal continue statement: no surrounding iteration statement")
		c.unwind(l)
		c.b.Jump(instr.Jump, l.cont)
	case *ast.Empty, *ast.FunctionDeclaration:
	case *ast.Expression:
		c.expression(n.Expr)

		if c.program() {
			c.b.Emit(instr.StoreAcc)
		} else {
			c.b.Emit(instr.Pop)
		}
	case *ast.For:
		c.forStatement(n)
	case *ast.ForIn:
		c.forIn(n)
	case *ast.If:
		c.ifStatement(n)
	case *ast.Return:
		if c.program() {
			fail(exception.Syntax, "Illegal return statement")
		}

		if n.Value == nil {
			c.b.Emit(instr.LoadUndefined)
		} else {
			c.expression(n.Value)
		}

		c.b.Emit(instr.Return)
	case *ast.Throw:
		c.expression(n.Value)
		c.b.Emit(instr.Throw)
	case *ast.Try:
		c.try(n)
	case *ast.Var:
		for _, d := range n.Declarations {
			if d.Init == nil {
				continue
			}

			c.expression(d.Init)
			c.store(d.Name)
			c.b.Emit(instr.Pop)
		}
	case *ast.While:
		l := c.enter()

		top := c.b.NewLabel()
		c.b.Mark(top)
		c.b.Mark(l.cont)

		c.expression(n.Test)
		c.b.Jump(instr.JumpFalse, l.brk)

		c.statement(n.Body)
		c.b.Jump(instr.Jump, top)

		c.leave(l)
	default:
		panic("compile: unexpected statement")
	}
}

func (c *compiler) enter() loop {
	l := loop{
		brk:      c.b.NewLabel(),
		cont:     c.b.NewLabel(),
		handlers: c.handlers,
	}

	c.loops = append(c.loops, l)

	return l
}

func (c *compiler) forIn(n *ast.ForIn) {
	if !reference(n.Target) {
		fail(exception.Reference, "Invalid left-hand side expression for 'in' expression")
	}

	c.expression(n.Object)
	c.b.Emit(instr.Keys)
	c.b.Emit(instr.LoadInt, 0)

	l := c.enter()

	top := c.b.NewLabel()
	c.b.Mark(top)

	// keys i -- keys i (i < keys.length)
	c.b.Emit(instr.Dup2)
	c.b.Emit(instr.Swap)
	c.b.Emit(instr.GetProp, c.constant(str.New("length")))
	c.b.Emit(instr.Lt)
	c.b.Jump(instr.JumpFalse, l.brk)

	c.b.Emit(instr.Dup2)
	c.b.Emit(instr.GetElem)
	c.assignTop(n.Target)
	c.b.Emit(instr.Pop)

	c.statement(n.Body)

	c.b.Mark(l.cont)
	c.b.Emit(instr.Increment)
	c.b.Jump(instr.Jump, top)

	c.leave(l)

	c.b.Emit(instr.Pop)
	c.b.Emit(instr.Pop)
}

func (c *compiler) forStatement(n *ast.For) {
	switch init := n.Init.(type) {
	case nil:
	case *ast.Expression:
		c.expression(init.Expr)
		c.b.Emit(instr.Pop)
	default:
		c.statement(init)
	}

	l := c.enter()

	top := c.b.NewLabel()
	c.b.Mark(top)

	if n.Test != nil {
		c.expression(n.Test)
		c.b.Jump(instr.JumpFalse, l.brk)
	}

	c.statement(n.Body)

	c.b.Mark(l.cont)

	if n.Update != nil {
		c.expression(n.Update)
		c.b.Emit(instr.Pop)
	}

	c.b.Jump(instr.Jump, top)

	c.leave(l)
}

func (c *compiler) ifStatement(n *ast.If) {
	end := c.b.NewLabel()

	c.expression(n.Test)

	if n.Else == nil {
		c.b.Jump(instr.JumpFalse, end)
		c.statement(n.Then)
		c.b.Mark(end)

		return
	}

	otherwise := c.b.NewLabel()

	c.b.Jump(instr.JumpFalse, otherwise)
	c.statement(n.Then)
	c.b.Jump(instr.Jump, end)

	c.b.Mark(otherwise)
	c.statement(n.Else)

	c.b.Mark(end)
}

func (c *compiler) innermost(msg string) loop {
	if len(c.loops) == 0 {
		fail(exception.Syntax, msg)
	}

	return c.loops[len(c.loops)-1]
}

func (c *compiler) leave(l loop) {
	c.b.Mark(l.brk)
	c.loops = c.loops[:len(c.loops)-1]
}

func (c *compiler) try(n *ast.Try) {
	handler := c.b.NewLabel()
	end := c.b.NewLabel()

	c.b.Jump(instr.SetHandler, handler)
	c.handlers++

	c.statement(n.Body)

	c.handlers--
	c.b.Emit(instr.PopHandler)
	c.b.Jump(instr.Jump, end)

	c.b.Mark(handler)
	c.b.Emit(instr.Catch)
	c.store(n.Param)
	c.b.Emit(instr.Pop)

	c.statement(n.Handler)

	c.b.Mark(end)
}

// unwind removes the exception handlers installed inside l.
func (c *compiler) unwind(l loop) {
	for i := l.handlers; i < c.handlers; i++ {
		c.b.Emit(instr.PopHandler)
	}
}
