package function

import (
	"testing"

	"github.com/michaelmacinnis/ember/internal/common/struct/ident"
	"github.com/michaelmacinnis/ember/internal/common/struct/shape"
	"github.com/michaelmacinnis/ember/internal/engine/unit"
)

func setup() (*ident.Table, *shape.Table) {
	names := ident.NewTable()

	return names, shape.NewTable(names)
}

func TestBuildSharesShapes(t *testing.T) {
	_, table := setup()

	f := Build(table, &unit.T{Name: "f", SimpleCall: true, Locals: []string{"t"}, Formals: []string{"a", "b"}})
	g := Build(table, &unit.T{Name: "g", SimpleCall: true, Locals: []string{"t"}, Formals: []string{"a", "b"}})
	h := Build(table, &unit.T{Name: "h", SimpleCall: true, Locals: []string{"t"}, Formals: []string{"b", "a"}})

	if f.Shape() != g.Shape() {
		t.Fatal("expected identical layouts to share a shape")
	}

	if f.Shape() == h.Shape() {
		t.Fatal("expected different formal order to give a different shape")
	}

	if !f.FastPath() || f.Formals() != 2 {
		t.Fatalf("unexpected descriptor: fast %v, formals %d", f.FastPath(), f.Formals())
	}
}

func TestBuildMatchesStaticSlots(t *testing.T) {
	names, table := setup()

	u := &unit.T{Locals: []string{"i", "j"}, Formals: []string{"x", "y", "x"}}
	f := Build(table, u)

	for _, n := range []string{"i", "j", "x", "y"} {
		want, _ := u.Slot(n)

		got, ok := f.Shape().Resolve(names.String(n))
		if !ok || got != want {
			t.Fatalf("%s: shape slot %d, static slot %d", n, got, want)
		}
	}

	if f.FastPath() {
		t.Fatal("duplicate formals should not use the fast path")
	}

	for i, want := range []int{2, 3, 4} {
		if got := f.FormalSlot(i); got != want {
			t.Fatalf("formal %d: expected slot %d; got %d", i, want, got)
		}
	}
}

func TestRebindFormals(t *testing.T) {
	names, table := setup()

	f := Build(table, &unit.T{Name: "anonymous", Locals: []string{"v"}, Dynamic: true})
	f.RebindFormals([]string{"x", "y", "x"})

	if f.FastPath() || !f.Rebuilt() {
		t.Fatal("expected rebuilt slow path descriptor")
	}

	if f.Formals() != 3 {
		t.Fatalf("expected 3 formals; got %d", f.Formals())
	}

	x := names.String("x")

	slot, ok := f.Shape().Resolve(x)
	if !ok || slot != f.FormalSlot(0) {
		t.Fatalf("expected x to resolve to the first formal's slot %d; got %d", f.FormalSlot(0), slot)
	}

	shadow, ok := f.Shape().Resolve(names.Shadow(x))
	if !ok || shadow != f.FormalSlot(2) || shadow == slot {
		t.Fatalf("expected the second x in its own slot %d; got %d", f.FormalSlot(2), shadow)
	}

	if v, ok := f.Shape().Resolve(names.String("v")); !ok || v != 3 {
		t.Fatalf("expected local after formals; got %d", v)
	}
}

func TestRebindClearsFastPath(t *testing.T) {
	_, table := setup()

	f := Build(table, &unit.T{Formals: []string{"a"}, SimpleCall: true})
	if !f.FastPath() {
		t.Fatal("expected fast path before rebinding")
	}

	f.RebindFormals([]string{"a"})

	if f.FastPath() {
		t.Fatal("expected rebinding to clear the fast path")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected a second rebinding to panic")
		}
	}()

	f.RebindFormals([]string{"b"})
}

func TestBuildFollowsCompiler(t *testing.T) {
	_, table := setup()

	if f := Build(table, &unit.T{Formals: []string{"a"}}); f.FastPath() {
		t.Fatal("expected the slow path for a unit the compiler did not mark")
	}
}
