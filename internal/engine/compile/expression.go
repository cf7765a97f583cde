// Released under an MIT license. See LICENSE.

package compile

import (
	"math"

	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/instr"
	"github.com/michaelmacinnis/ember/internal/reader/ast"
)

//nolint:gochecknoglobals
var (
	binaries = map[string]instr.Op{
		"+": instr.Add, "-": instr.Sub, "*": instr.Mul, "/": instr.Div,
		"%": instr.Mod, "**": instr.Exp,
		"<<": instr.Shl, ">>": instr.Shr, ">>>": instr.UShr,
		"&": instr.BitAnd, "|": instr.BitOr, "^": instr.BitXor,
		"==": instr.Eq, "!=": instr.Ne, "===": instr.StrictEq, "!==": instr.StrictNe,
		"<": instr.Lt, "<=": instr.Le, ">": instr.Gt, ">=": instr.Ge,
		"in": instr.In, "instanceof": instr.InstanceOf,
	}

	unaries = map[string]instr.Op{
		"-": instr.Neg, "+": instr.Plus, "!": instr.Not, "~": instr.BitNot,
		"typeof": instr.TypeOf,
	}
)

//nolint:cyclop,funlen
func (c *compiler) expression(n ast.Node) {
	switch n := n.(type) {
	case *ast.Array:
		for _, e := range n.Elements {
			c.expression(e)
		}

		c.b.Emit(instr.NewArray, len(n.Elements))
	case *ast.Assign:
		c.assign(n)
	case *ast.Binary:
		c.expression(n.Left)
		c.expression(n.Right)
		c.b.Emit(binaries[n.Op])
	case *ast.Boolean:
		if n.Value {
			c.b.Emit(instr.LoadTrue)
		} else {
			c.b.Emit(instr.LoadFalse)
		}
	case *ast.Call:
		c.call(n.Callee, func() int {
			for _, a := range n.Args {
				c.expression(a)
			}

			return len(n.Args)
		})
	case *ast.Conditional:
		otherwise := c.b.NewLabel()
		end := c.b.NewLabel()

		c.expression(n.Test)
		c.b.Jump(instr.JumpFalse, otherwise)
		c.expression(n.Then)
		c.b.Jump(instr.Jump, end)
		c.b.Mark(otherwise)
		c.expression(n.Else)
		c.b.Mark(end)
	case *ast.Function:
		c.closure(n, true)
	case *ast.Identifier:
		c.load(n.Name)
	case *ast.Index:
		c.expression(n.Object)
		c.expression(n.Index)
		c.b.Emit(instr.GetElem)
	case *ast.Logical:
		end := c.b.NewLabel()

		c.expression(n.Left)

		if n.Op == "&&" {
			c.b.Jump(instr.JumpFalseKeep, end)
		} else {
			c.b.Jump(instr.JumpTrueKeep, end)
		}

		c.expression(n.Right)
		c.b.Mark(end)
	case *ast.Member:
		c.expression(n.Object)
		c.b.Emit(instr.GetProp, c.constant(str.New(n.Property)))
	case *ast.New:
		c.expression(n.Callee)

		for _, a := range n.Args {
			c.expression(a)
		}

		c.b.Emit(instr.Construct, len(n.Args))
	case *ast.Null:
		c.b.Emit(instr.LoadNull)
	case *ast.Number:
		c.number(n.Value)
	case *ast.Object:
		c.b.Emit(instr.NewObject)

		for _, p := range n.Properties {
			c.expression(p.Value)
			c.b.Emit(instr.DefineField, c.constant(str.New(p.Key)))
		}
	case *ast.Sequence:
		for i, e := range n.Exprs {
			if i > 0 {
				c.b.Emit(instr.Pop)
			}

			c.expression(e)
		}
	case *ast.String:
		c.b.Emit(instr.LoadConst, c.constant(str.New(n.Value)))
	case *ast.TaggedTemplate:
		c.call(n.Tag, func() int {
			for _, s := range n.Quasi.Strings {
				c.b.Emit(instr.LoadConst, c.constant(str.New(s)))
			}

			c.b.Emit(instr.NewArray, len(n.Quasi.Strings))

			for _, e := range n.Quasi.Exprs {
				c.expression(e)
			}

			return 1 + len(n.Quasi.Exprs)
		})
	case *ast.Template:
		c.b.Emit(instr.LoadConst, c.constant(str.New(n.Strings[0])))

		for i, e := range n.Exprs {
			c.expression(e)
			c.b.Emit(instr.ToString)
			c.b.Emit(instr.Add)

			if s := n.Strings[i+1]; s != "" {
				c.b.Emit(instr.LoadConst, c.constant(str.New(s)))
				c.b.Emit(instr.Add)
			}
		}
	case *ast.This:
		c.b.Emit(instr.LoadThis)
	case *ast.Unary:
		c.unary(n)
	case *ast.Update:
		c.update(n)
	default:
		panic("compile: unexpected expression")
	}
}

func (c *compiler) assign(n *ast.Assign) {
	if a, ok := n.Target.(*ast.Array); ok && n.Op == "=" {
		c.expression(n.Value)
		c.destructure(a)

		return
	}

	if !reference(n.Target) {
		fail(exception.Reference, "left-hand side of assignment operator is not an lvalue")
	}

	if n.Op != "=" {
		op := binaries[n.Op[:len(n.Op)-1]]

		c.modify(n.Target, func() {
			c.expression(n.Value)
			c.b.Emit(op)
		})

		return
	}

	switch t := n.Target.(type) {
	case *ast.Identifier:
		c.expression(n.Value)
		c.store(t.Name)
	case *ast.Index:
		c.expression(t.Object)
		c.expression(t.Index)
		c.expression(n.Value)
		c.b.Emit(instr.SetElem)
	case *ast.Member:
		c.expression(t.Object)
		c.expression(n.Value)
		c.b.Emit(instr.SetProp, c.constant(str.New(t.Property)))
	}
}

// assignTop stores the value on top of the stack in target, leaving the
// value on the stack.
func (c *compiler) assignTop(target ast.Node) {
	switch t := target.(type) {
	case *ast.Array:
		c.destructure(t)
	case *ast.Identifier:
		c.store(t.Name)
	case *ast.Index:
		// v o i -- o i v
		c.expression(t.Object)
		c.expression(t.Index)
		c.b.Emit(instr.Rot3)
		c.b.Emit(instr.Rot3)
		c.b.Emit(instr.SetElem)
	case *ast.Member:
		c.expression(t.Object)
		c.b.Emit(instr.Swap)
		c.b.Emit(instr.SetProp, c.constant(str.New(t.Property)))
	default:
		fail(exception.Reference, "Binding target is not a reference.")
	}
}

// call emits a call to callee. Member and index callees supply the
// receiver. The args function emits the arguments and returns how many
// there are.
func (c *compiler) call(callee ast.Node, args func() int) {
	switch f := callee.(type) {
	case *ast.Member:
		c.expression(f.Object)

		k := c.constant(str.New(f.Property))
		c.b.Emit(instr.CallProperty, k, args())

		return
	case *ast.Index:
		c.expression(f.Object)
		c.b.Emit(instr.Dup)
		c.expression(f.Index)
		c.b.Emit(instr.GetElem)
		c.b.Emit(instr.Swap)
	default:
		c.expression(callee)
		c.b.Emit(instr.LoadUndefined)
	}

	c.b.Emit(instr.Call, args())
}

// destructure assigns each element of the array on top of the stack to
// the matching target, leaving the array on the stack.
func (c *compiler) destructure(a *ast.Array) {
	for i, e := range a.Elements {
		if !reference(e) {
			if _, ok := e.(*ast.Array); !ok {
				fail(exception.Reference, "Binding target is not a reference.")
			}
		}

		c.b.Emit(instr.Dup)
		c.b.Emit(instr.LoadInt, i)
		c.b.Emit(instr.GetElem)
		c.assignTop(e)
		c.b.Emit(instr.Pop)
	}
}

// modify emits code that reads target, runs change, which must leave the
// new value in place of the old, and writes the result back, leaving it
// on the stack.
func (c *compiler) modify(target ast.Node, change func()) {
	switch t := target.(type) {
	case *ast.Identifier:
		c.load(t.Name)
		change()
		c.store(t.Name)
	case *ast.Index:
		c.expression(t.Object)
		c.expression(t.Index)
		c.b.Emit(instr.Dup2)
		c.b.Emit(instr.GetElem)
		change()
		c.b.Emit(instr.SetElem)
	case *ast.Member:
		k := c.constant(str.New(t.Property))

		c.expression(t.Object)
		c.b.Emit(instr.Dup)
		c.b.Emit(instr.GetProp, k)
		change()
		c.b.Emit(instr.SetProp, k)
	}
}

func (c *compiler) number(f float64) {
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 && !math.Signbit(f) {
		c.b.Emit(instr.LoadInt, int(f))

		return
	}

	c.b.Emit(instr.LoadConst, c.constant(num.New(f)))
}

func (c *compiler) unary(n *ast.Unary) {
	switch n.Op {
	case "typeof":
		if id, ok := n.Operand.(*ast.Identifier); ok {
			b := c.resolve(id.Name)
			if b != own || !c.fast {
				c.b.Emit(instr.TypeOfName, c.constant(str.New(id.Name)))

				return
			}
		}
	case "void":
		c.expression(n.Operand)
		c.b.Emit(instr.Pop)
		c.b.Emit(instr.LoadUndefined)

		return
	}

	c.expression(n.Operand)
	c.b.Emit(unaries[n.Op])
}

func (c *compiler) update(n *ast.Update) {
	op := instr.Increment
	if n.Op == "--" {
		op = instr.Decrement
	}

	if !reference(n.Target) {
		if n.Prefix {
			fail(exception.Reference, "Prefix ++ operator applied to value that is not a reference.")
		}

		fail(exception.Reference, "Invalid left-hand side expression in postfix operation")
	}

	if n.Prefix {
		c.modify(n.Target, func() {
			c.b.Emit(op)
		})

		return
	}

	// The old value is kept beneath the reference being updated.
	switch t := n.Target.(type) {
	case *ast.Identifier:
		c.load(t.Name)
		c.b.Emit(instr.ToNumber)
		c.b.Emit(instr.Dup)
		c.b.Emit(op)
		c.store(t.Name)
		c.b.Emit(instr.Pop)
	case *ast.Index:
		// o i old old -- old o i old
		c.expression(t.Object)
		c.expression(t.Index)
		c.b.Emit(instr.Dup2)
		c.b.Emit(instr.GetElem)
		c.b.Emit(instr.ToNumber)
		c.b.Emit(instr.Dup)
		c.b.Emit(instr.Rot4)
		c.b.Emit(op)
		c.b.Emit(instr.SetElem)
		c.b.Emit(instr.Pop)
	case *ast.Member:
		// o old old -- old o old
		k := c.constant(str.New(t.Property))

		c.expression(t.Object)
		c.b.Emit(instr.Dup)
		c.b.Emit(instr.GetProp, k)
		c.b.Emit(instr.ToNumber)
		c.b.Emit(instr.Dup)
		c.b.Emit(instr.Rot3)
		c.b.Emit(op)
		c.b.Emit(instr.SetProp, k)
		c.b.Emit(instr.Pop)
	}
}

func reference(n ast.Node) bool {
	switch n.(type) {
	case *ast.Identifier, *ast.Index, *ast.Member:
		return true
	}

	return false
}
