// Released under an MIT license. See LICENSE.

package machine_test

import (
	"testing"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/common/type/object"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/engine/callee"
	"github.com/michaelmacinnis/ember/internal/engine/compile"
	"github.com/michaelmacinnis/ember/internal/engine/machine"
	"github.com/michaelmacinnis/ember/internal/engine/stack"
	"github.com/michaelmacinnis/ember/internal/reader"
	"github.com/michaelmacinnis/ember/internal/reader/parser"
)

func add(this cell.I, args []cell.I) (cell.I, error) {
	sum := 0.0
	for _, a := range args {
		sum += num.To(a).Float()
	}

	return num.New(sum), nil
}

func run(t *testing.T, m *machine.T, source string) cell.I {
	t.Helper()

	p, err := reader.Parse("test", source, parser.DefaultDepth)
	if err != nil {
		t.Fatal(err)
	}

	u, err := compile.Program(p)
	if err != nil {
		t.Fatal(err)
	}

	r, err := m.Run(u)
	if err != nil {
		t.Fatal(err)
	}

	return r
}

func TestInvoke(t *testing.T) {
	m := machine.New(machine.Options{})
	s := m.Stack()

	f, err := s.FromCallee(m.NewNative("add", add, nil), []cell.I{num.Int(2), num.Int(3)}, nil)
	if err != nil {
		t.Fatal(err)
	}

	top := s.Top()

	r := m.Invoke(f)
	if m.HasException() {
		t.Fatalf("unexpected exception: %v", m.Catch())
	}

	if s.Top() != top {
		t.Fatalf("invoke moved the stack top from %d to %d", top, s.Top())
	}

	if !r.Equal(num.Int(5)) {
		t.Fatalf("expected 5, got %v", r)
	}

	s.Release(f)

	if s.Top() != 0 {
		t.Fatalf("expected empty stack, got top %d", s.Top())
	}
}

func TestInvokeAsConstructor(t *testing.T) {
	m := machine.New(machine.Options{})
	s := m.Stack()

	f, err := s.FromCallee(m.NewNative("add", add, nil), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	r := m.InvokeAsConstructor(f)
	s.Release(f)

	if r != cell.I(special.Undefined) || !m.HasException() {
		t.Fatal("expected a pending exception")
	}

	e, ok := m.Catch().(*exception.T)
	if !ok || e.Kind() != exception.Type || e.Message() != "add is not a constructor" {
		t.Fatalf("expected TypeError: add is not a constructor, got %v", e)
	}

	if m.HasException() {
		t.Fatal("Catch did not clear the pending exception")
	}

	build := func(_ cell.I, _ []cell.I) (cell.I, error) {
		return object.New(nil), nil
	}

	r = m.Construct(m.NewNative("make", nil, build))
	if m.HasException() || !object.Is(r) {
		t.Fatalf("expected an object, got %v", r)
	}
}

func TestScriptConstruct(t *testing.T) {
	m := machine.New(machine.Options{})

	run(t, m, "function P(a, b) { this.sum = a + b }")

	p, _ := m.Global().Get("P")

	r := m.Construct(p, num.Int(1), num.Int(2))
	if m.HasException() {
		t.Fatalf("unexpected exception: %v", m.Catch())
	}

	sum, _ := object.To(r).Get("sum")
	if !sum.Equal(num.Int(3)) {
		t.Fatalf("expected sum 3, got %v", sum)
	}

	if m.Stack().Top() != 0 {
		t.Fatalf("expected empty stack, got top %d", m.Stack().Top())
	}
}

func TestCallBack(t *testing.T) {
	m := machine.New(machine.Options{})

	var inner cell.I

	m.Define("twice", m.NewNative("twice", func(_ cell.I, args []cell.I) (cell.I, error) {
		f := args[0]

		a := m.Call(f, nil, num.Int(1))
		if m.HasException() {
			return nil, nil
		}

		inner = m.Call(f, nil, a)

		return inner, nil
	}, nil))

	r := run(t, m, "twice(function (n) { return n * 10 })")
	if !r.Equal(num.Int(100)) {
		t.Fatalf("expected 100, got %v", r)
	}

	if inner != r {
		t.Fatal("expected the native's result")
	}

	if m.Stack().Top() != 0 || m.Chain().Depth() != 0 {
		t.Fatalf("expected empty stack and chain, got %d %d", m.Stack().Top(), m.Chain().Depth())
	}
}

func TestFunctionCache(t *testing.T) {
	m := machine.New(machine.Options{})

	run(t, m, "function f() {}")

	f, _ := m.Global().Get("f")
	u := callee.To(f).Function().Unit()

	if m.Function(u) != callee.To(f).Function() {
		t.Fatal("expected one descriptor per unit")
	}
}

func TestDepthGuard(t *testing.T) {
	m := machine.New(machine.Options{MaxCallDepth: 3})

	var depth []int

	var rec cell.I

	rec = m.NewNative("rec", func(_ cell.I, _ []cell.I) (cell.I, error) {
		depth = append(depth, m.Chain().Depth())

		return m.Call(rec, nil), nil
	}, nil)

	m.Call(rec, nil)

	e, ok := m.Catch().(*exception.T)
	if !ok || e.String() != "RangeError: Maximum call stack size exceeded" {
		t.Fatalf("expected RangeError, got %v", e)
	}

	if len(depth) != 3 || depth[2] != 3 {
		t.Fatalf("expected three nested calls, got %v", depth)
	}

	if m.Stack().Top() != 0 {
		t.Fatalf("expected empty stack, got top %d", m.Stack().Top())
	}
}

func TestStackExhausted(t *testing.T) {
	m := machine.New(machine.Options{StackSlots: stack.HeaderSize + 1})

	m.Call(m.NewNative("add", add, nil), nil, num.Int(1), num.Int(2))

	if !m.HasException() {
		t.Fatal("expected a pending exception")
	}

	if e := m.Catch().(*exception.T); e.Kind() != exception.Range {
		t.Fatalf("expected RangeError, got %v", e)
	}
}
