// Released under an MIT license. See LICENSE.

package machine

import (
	"fmt"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/truth"
	"github.com/michaelmacinnis/ember/internal/common/struct/ident"
	"github.com/michaelmacinnis/ember/internal/common/type/array"
	"github.com/michaelmacinnis/ember/internal/common/type/boolean"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/common/type/object"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/callee"
	"github.com/michaelmacinnis/ember/internal/engine/function"
	"github.com/michaelmacinnis/ember/internal/engine/instr"
	"github.com/michaelmacinnis/ember/internal/engine/scope"
	"github.com/michaelmacinnis/ember/internal/engine/stack"
	"github.com/michaelmacinnis/ember/internal/engine/unit"
)

// An activation is the machine state for one executing unit.
type activation struct {
	ctx      *scope.T
	data     stack.Frame
	handlers []handler
	ids      []*ident.T
	this     cell.I
	unit     *unit.T
}

// A handler is where execution resumes when an exception is raised inside
// a try block, and the stack height to restore.
type handler struct {
	pc  int
	top int
}

func (m *machine) activation(data stack.Frame, fn *function.T, ctx *scope.T, this cell.I) *activation {
	u := fn.Unit()

	return &activation{
		ctx:  ctx,
		data: data,
		ids:  m.identifiers(u),
		this: this,
		unit: u,
	}
}

// exec runs a until it returns or an exception escapes it. Operands are
// pushed above a's frame; the stack is restored to the frame's end before
// exec returns.
func (m *machine) exec(a *activation) cell.I {
	base := m.stack.Top()

	if f := m.chain.Current(); f != nil {
		f.Update(a.unit.Source)
	}

	d := instr.NewDecoder(a.unit.Code)

	for d.Next() {
		r, done := m.step(a, d, d.Instruction())
		if done {
			m.stack.Reset(base)

			return r
		}

		if m.pending == nil {
			continue
		}

		n := len(a.handlers)
		if n == 0 {
			break
		}

		h := a.handlers[n-1]
		a.handlers = a.handlers[:n-1]

		m.stack.Reset(h.top)
		d.Seek(h.pc)
	}

	m.stack.Reset(base)

	return special.Undefined
}

//nolint:cyclop,funlen,gocognit,gocyclo,maintidx
func (m *machine) step(a *activation, d *instr.Decoder, i instr.Instruction) (cell.I, bool) {
	s := m.stack

	switch i.Op {
	case instr.LoadUndefined:
		m.push(special.Undefined)
	case instr.LoadNull:
		m.push(special.Null)
	case instr.LoadTrue:
		m.push(boolean.True)
	case instr.LoadFalse:
		m.push(boolean.False)
	case instr.LoadThis:
		m.push(a.this)
	case instr.LoadCallee:
		m.push(a.data.Callee())
	case instr.LoadConst:
		m.push(a.unit.Constants[i.Operand(0)])
	case instr.LoadInt:
		m.push(num.Int(i.Operand(0)))
	case instr.LoadLocal:
		m.push(a.ctx.Get(i.Operand(0)))
	case instr.StoreLocal:
		a.ctx.Set(i.Operand(0), s.Peek(0))
	case instr.LoadName:
		k := a.ids[i.Operand(0)]

		v, ok := a.ctx.Lookup(k)
		if !ok {
			m.Throw(exception.Newf(exception.Reference, "%s is not defined", k))

			break
		}

		m.push(v)
	case instr.StoreName:
		a.ctx.Assign(a.ids[i.Operand(0)], s.Peek(0))
	case instr.DeclareName:
		k := a.ids[i.Operand(0)].String()
		if !m.global.Has(k) {
			m.global.Define(k, special.Undefined)
		}
	case instr.TypeOfName:
		v, _ := a.ctx.Lookup(a.ids[i.Operand(0)])
		m.push(str.New(v.Name()))
	case instr.Closure:
		fn := m.Function(a.unit.Units[i.Operand(0)])
		m.push(m.NewFunction(fn, a.ctx))
	case instr.LoadAcc:
		m.push(a.data.Accumulator())
	case instr.StoreAcc:
		a.data.SetAccumulator(s.Pop())

	case instr.GetProp:
		o := s.Pop()
		m.push(m.getProp(o, key(a, i)))
	case instr.SetProp:
		v := s.Pop()
		o := s.Pop()
		m.setProp(o, key(a, i), v)
		m.push(v)
	case instr.GetElem:
		k := s.Pop()
		o := s.Pop()
		m.push(m.getElem(o, k))
	case instr.SetElem:
		v := s.Pop()
		k := s.Pop()
		o := s.Pop()
		m.setElem(o, k, v)
		m.push(v)
	case instr.NewArray:
		n := i.Operand(0)
		v := array.New(s.Window(n)...)
		s.Drop(n)
		m.push(v)
	case instr.NewObject:
		m.push(object.New(m.protos[Object]))
	case instr.DefineField:
		v := s.Pop()
		object.To(s.Peek(0)).Define(key(a, i), v)
	case instr.Keys:
		m.push(m.keys(s.Pop()))

	case instr.Neg:
		m.push(num.New(-m.toNumber(s.Pop())))
	case instr.Plus, instr.ToNumber:
		m.push(num.New(m.toNumber(s.Pop())))
	case instr.Not:
		m.push(boolean.Bool(!truth.Value(s.Pop())))
	case instr.BitNot:
		m.push(num.New(float64(^toInt32(m.toNumber(s.Pop())))))
	case instr.TypeOf:
		m.push(str.New(s.Pop().Name()))
	case instr.Increment:
		m.push(num.New(m.toNumber(s.Pop()) + 1))
	case instr.Decrement:
		m.push(num.New(m.toNumber(s.Pop()) - 1))
	case instr.ToString:
		m.push(str.New(m.toString(s.Pop())))

	case instr.Add, instr.Sub, instr.Mul, instr.Div, instr.Mod, instr.Exp,
		instr.Shl, instr.Shr, instr.UShr, instr.BitAnd, instr.BitOr, instr.BitXor,
		instr.Eq, instr.Ne, instr.StrictEq, instr.StrictNe,
		instr.Lt, instr.Le, instr.Gt, instr.Ge, instr.In, instr.InstanceOf:
		r := s.Pop()
		l := s.Pop()
		m.push(m.binary(i.Op, l, r))

	case instr.Pop:
		s.Pop()
	case instr.Dup:
		m.push(s.Peek(0))
	case instr.Dup2:
		l, r := s.Peek(1), s.Peek(0)
		m.push(l)
		m.push(r)
	case instr.Swap:
		t := s.Top()
		l, r := s.Get(t-2), s.Get(t-1)
		s.Set(t-2, r)
		s.Set(t-1, l)
	case instr.Rot3:
		t := s.Top()
		v := s.Get(t - 1)
		s.Set(t-1, s.Get(t-2))
		s.Set(t-2, s.Get(t-3))
		s.Set(t-3, v)
	case instr.Rot4:
		t := s.Top()
		v := s.Get(t - 1)
		s.Set(t-1, s.Get(t-2))
		s.Set(t-2, s.Get(t-3))
		s.Set(t-3, s.Get(t-4))
		s.Set(t-4, v)

	case instr.Jump:
		d.Seek(i.Target())
	case instr.JumpFalse:
		if !truth.Value(s.Pop()) {
			d.Seek(i.Target())
		}
	case instr.JumpTrue:
		if truth.Value(s.Pop()) {
			d.Seek(i.Target())
		}
	case instr.JumpFalseKeep:
		if !truth.Value(s.Peek(0)) {
			d.Seek(i.Target())
		} else {
			s.Pop()
		}
	case instr.JumpTrueKeep:
		if truth.Value(s.Peek(0)) {
			d.Seek(i.Target())
		} else {
			s.Pop()
		}

	case instr.Call:
		n := i.Operand(0)
		r := m.call(a, s.Peek(n+1), s.Peek(n), n, false)
		s.Drop(n + 2)
		m.push(r)
	case instr.CallProperty:
		k, n := key(a, i), i.Operand(1)
		o := s.Peek(n)

		fn := m.getProp(o, k)
		if m.HasException() {
			break
		}

		if !callee.Is(fn) {
			m.typeError("%s.%s is not a function", describe(o), k)

			break
		}

		r := m.call(a, fn, o, n, false)
		s.Drop(n + 1)
		m.push(r)
	case instr.Construct:
		n := i.Operand(0)
		r := m.call(a, s.Peek(n), nil, n, true)
		s.Drop(n + 1)
		m.push(r)
	case instr.Return:
		return s.Pop(), true
	case instr.Throw:
		m.Throw(s.Pop())
	case instr.SetHandler:
		a.handlers = append(a.handlers, handler{pc: i.Target(), top: s.Top()})
	case instr.PopHandler:
		a.handlers = a.handlers[:len(a.handlers)-1]
	case instr.Catch:
		m.push(m.Catch())

	default:
		panic(fmt.Sprintf("machine: unexpected %s at %d in %s", i, i.PC, a.unit.Name))
	}

	return nil, false
}

// call invokes fn with the top n values as arguments. The arguments are
// copied from the operand window into a new frame.
func (m *machine) call(a *activation, fn, this cell.I, n int, construct bool) cell.I {
	f, err := m.stack.FromCallee(fn, m.stack.Window(n), this)
	if err != nil {
		return m.fail(err)
	}

	f.SetContext(a.ctx)

	var r cell.I
	if construct {
		r = m.InvokeAsConstructor(f)
	} else {
		r = m.Invoke(f)
	}

	m.stack.Release(f)

	return r
}

func (m *machine) push(c cell.I) {
	if err := m.stack.Push(c); err != nil {
		m.fail(err)
	}
}

func key(a *activation, i instr.Instruction) string {
	return a.ids[i.Operand(0)].String()
}
