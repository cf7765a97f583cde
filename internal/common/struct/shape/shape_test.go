package shape

import (
	"testing"

	"github.com/michaelmacinnis/ember/internal/common/struct/ident"
)

func TestExtendIsHashConsed(t *testing.T) {
	names := ident.NewTable()
	table := NewTable(names)

	a, b := names.String("a"), names.String("b")

	s1 := table.Root().Extend(a, 0).Extend(b, NotConfigurable)
	s2 := table.Root().Extend(a, 0).Extend(b, NotConfigurable)

	if s1 != s2 {
		t.Fatal("expected identical sequences to share a shape")
	}

	if s3 := table.Root().Extend(a, 0).Extend(b, 0); s3 == s1 {
		t.Fatal("expected attributes to distinguish shapes")
	}

	if s4 := table.Root().Extend(b, NotConfigurable).Extend(a, 0); s4 == s1 {
		t.Fatal("expected order to distinguish shapes")
	}

	if table.Len() != 6 {
		t.Fatalf("expected 6 shapes; got %d", table.Len())
	}
}

func TestExtendDuplicate(t *testing.T) {
	names := ident.NewTable()
	table := NewTable(names)

	x, y := names.String("x"), names.String("y")

	s := table.Root().Extend(x, 0).Extend(y, 0).Extend(x, 0)

	if s.Size() != 3 {
		t.Fatalf("expected 3 slots; got %d", s.Size())
	}

	slot, ok := s.Resolve(x)
	if !ok || slot != 2 {
		t.Fatalf("expected x in slot 2; got %d, %v", slot, ok)
	}

	shadow := names.Shadow(x)

	slot, ok = s.Resolve(shadow)
	if !ok || slot != 0 {
		t.Fatalf("expected shadowed x in slot 0; got %d, %v", slot, ok)
	}

	if !shadow.Shadowed() || x.Shadowed() {
		t.Fatal("expected only the mangled key to be shadowed")
	}

	s = s.Extend(x, 0)

	if slot, _ = s.Resolve(x); slot != 3 {
		t.Fatalf("expected x in slot 3; got %d", slot)
	}

	if slot, _ = s.Resolve(shadow); slot != 0 {
		t.Fatalf("expected first shadow to stay in slot 0; got %d", slot)
	}

	if slot, _ = s.Resolve(names.Shadow(shadow)); slot != 2 {
		t.Fatalf("expected second shadow in slot 2; got %d", slot)
	}

	seen := map[int]bool{}
	for i, k := range s.Members() {
		got, ok := s.Resolve(k)
		if !ok || got != i {
			t.Fatalf("slot %d not reachable through %q", i, k.String())
		}

		seen[got] = true
	}

	if len(seen) != 4 {
		t.Fatalf("expected 4 addressable slots; got %d", len(seen))
	}
}

func TestParentAndName(t *testing.T) {
	names := ident.NewTable()
	table := NewTable(names)

	a := names.String("a")
	s := table.Root().Extend(a, ReadOnly)

	if s.Parent() != table.Root() || s.Name() != a {
		t.Fatal("unexpected parent or name")
	}

	m, ok := s.Lookup(a)
	if !ok || m.Attrs != ReadOnly || m.Slot != 0 {
		t.Fatalf("unexpected member %+v", m)
	}

	if _, ok := table.Root().Resolve(a); ok {
		t.Fatal("root shape should be empty")
	}

	if s.Key(5) != nil {
		t.Fatal("expected no key for an unknown slot")
	}
}
