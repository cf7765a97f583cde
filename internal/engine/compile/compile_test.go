// Released under an MIT license. See LICENSE.

package compile_test

import (
	"testing"

	"github.com/michaelmacinnis/ember/internal/engine/compile"
	"github.com/michaelmacinnis/ember/internal/engine/instr"
	"github.com/michaelmacinnis/ember/internal/engine/unit"
	"github.com/michaelmacinnis/ember/internal/reader"
	"github.com/michaelmacinnis/ember/internal/reader/parser"
)

func program(t *testing.T, source string) *unit.T {
	t.Helper()

	p, err := reader.Parse("test", source, parser.DefaultDepth)
	if err != nil {
		t.Fatalf("%q: %v", source, err)
	}

	u, err := compile.Program(p)
	if err != nil {
		t.Fatalf("%q: %v", source, err)
	}

	return u
}

func ops(u *unit.T) map[instr.Op]int {
	seen := map[instr.Op]int{}

	d := instr.NewDecoder(u.Code)
	for d.Next() {
		seen[d.Instruction().Op]++
	}

	return seen
}

func TestFastPath(t *testing.T) {
	u := program(t, "function f(a, b) { var c = a; var c; return c + b }")

	if len(u.Units) != 1 {
		t.Fatalf("expected 1 nested unit, got %d", len(u.Units))
	}

	f := u.Units[0]

	if len(f.Locals) != 1 || f.Locals[0] != "c" {
		t.Fatalf("expected locals [c], got %v", f.Locals)
	}

	if !f.SimpleCall {
		t.Fatal("expected f to use the simple call path")
	}

	if u.SimpleCall {
		t.Fatal("program bindings are looked up by name")
	}

	seen := ops(f)
	if seen[instr.LoadName] != 0 || seen[instr.StoreName] != 0 {
		t.Fatalf("expected no named access, got %v", seen)
	}

	if seen[instr.LoadLocal] != 3 || seen[instr.StoreLocal] != 1 {
		t.Fatalf("expected 3 loads and 1 store by slot, got %v", seen)
	}

	if f.ExternalDependencies {
		t.Fatal("f does not read enclosing bindings")
	}

	// Program level declarations are globals.
	if seen := ops(u); seen[instr.DeclareName] != 1 {
		t.Fatalf("expected f to be declared as a global, got %v", seen)
	}
}

func TestDuplicateFormals(t *testing.T) {
	f := program(t, "function f(x, x) { return x }").Units[0]

	if f.SimpleCall {
		t.Fatal("repeated formals must not use the simple call path")
	}

	if seen := ops(f); seen[instr.LoadLocal] != 0 || seen[instr.LoadName] != 1 {
		t.Fatalf("expected access by name, got %v", seen)
	}

	if slot, ok := f.Slot("x"); !ok || slot != 1 {
		t.Fatalf("expected x in slot 1, got %d %v", slot, ok)
	}
}

func TestExternalDependencies(t *testing.T) {
	u := program(t, "function outer(a) { return function inner() { return a + g } }")

	outer := u.Units[0]
	if outer.ExternalDependencies {
		t.Fatal("outer reads only its own and global bindings")
	}

	inner := outer.Units[0]
	if !inner.ExternalDependencies {
		t.Fatal("inner reads a binding from outer")
	}

	if inner.Name != "inner" || len(inner.Locals) != 1 || inner.Locals[0] != "inner" {
		t.Fatalf("expected inner to bind its own name, got %q %v", inner.Name, inner.Locals)
	}
}

func TestDynamic(t *testing.T) {
	p, err := reader.Parse("anonymous", "var t = a + b; return t", parser.DefaultDepth)
	if err != nil {
		t.Fatal(err)
	}

	u, err := compile.Dynamic("anonymous", []string{"a", "b"}, p.Body)
	if err != nil {
		t.Fatal(err)
	}

	if !u.Dynamic || u.SimpleCall {
		t.Fatal("dynamic units never use the simple call path")
	}

	if len(u.Formals) != 2 || len(u.Locals) != 1 {
		t.Fatalf("expected 2 formals and 1 local, got %v %v", u.Formals, u.Locals)
	}

	if seen := ops(u); seen[instr.LoadLocal] != 0 || seen[instr.StoreLocal] != 0 {
		t.Fatalf("expected access by name, got %v", seen)
	}
}

func TestErrors(t *testing.T) {
	for _, c := range []struct {
		source   string
		expected string
	}{
		{"++1", "ReferenceError: Prefix ++ operator applied to value that is not a reference."},
		{"--f()", "ReferenceError: Prefix ++ operator applied to value that is not a reference."},
		{"f()++", "ReferenceError: Invalid left-hand side expression in postfix operation"},
		{"1 = 2", "ReferenceError: left-hand side of assignment operator is not an lvalue"},
		{"[a] += 1", "ReferenceError: left-hand side of assignment operator is not an lvalue"},
		{"[a, 'b'] = c", "ReferenceError: Binding target is not a reference."},
		{"for (f() in o) ;", "ReferenceError: Invalid left-hand side expression for 'in' expression"},
		{"continue", "SyntaxError: Illegal continue statement: no surrounding iteration statement"},
	} {
		p, err := reader.Parse("test", c.source, parser.DefaultDepth)
		if err != nil {
			t.Fatalf("%q: %v", c.source, err)
		}

		_, err = compile.Program(p)
		if err == nil {
			t.Fatalf("%q: expected error %q", c.source, c.expected)
		}

		if err.Error() != c.expected {
			t.Fatalf("%q: expected error %q, got %q", c.source, c.expected, err.Error())
		}
	}
}

func TestConstants(t *testing.T) {
	u := program(t, "'a' + 'a' + 1.5 + 1.5 + 'b'")

	if len(u.Constants) != 3 {
		t.Fatalf("expected 3 distinct constants, got %d", len(u.Constants))
	}
}
