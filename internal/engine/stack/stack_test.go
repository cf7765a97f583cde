package stack

import (
	"errors"
	"testing"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
)

func TestFrameSize(t *testing.T) {
	s := New(0)

	for _, n := range []int{0, 1, 100} {
		before := s.Top()

		f, err := s.Bare(n)
		if err != nil {
			t.Fatal(err)
		}

		if f.Size() != HeaderSize+n || s.Top()-before != HeaderSize+n {
			t.Fatalf("argc %d: expected %d slots; got %d", n, HeaderSize+n, s.Top()-before)
		}

		if f.Argc() != n || len(f.Args()) != n {
			t.Fatalf("argc %d: got %d", n, f.Argc())
		}

		s.Release(f)

		if s.Top() != before {
			t.Fatalf("argc %d: top %d after release; expected %d", n, s.Top(), before)
		}
	}
}

func TestFromArgv(t *testing.T) {
	s := New(0)

	argv := []cell.I{num.Int(1), str.New("two")}

	f, err := s.FromArgv(argv, nil)
	if err != nil {
		t.Fatal(err)
	}

	if f.This() != special.Undefined || f.Callee() != special.Undefined {
		t.Fatal("expected undefined header fields")
	}

	if !f.Arg(0).Equal(argv[0]) || !f.Arg(1).Equal(argv[1]) {
		t.Fatalf("arguments not copied: %v", f.Args())
	}

	if f.Arg(2) != special.Undefined {
		t.Fatal("expected missing argument to be undefined")
	}

	argv[0] = num.Int(7)

	if !f.Arg(0).Equal(num.Int(1)) {
		t.Fatal("expected arguments to be copied, not shared")
	}

	s.Release(f)
}

func TestFromCalleeBorrowedWindow(t *testing.T) {
	s := New(0)

	for i := 0; i < 3; i++ {
		if err := s.Push(num.Int(i)); err != nil {
			t.Fatal(err)
		}
	}

	mark := s.Mark()

	f, err := s.FromCallee(str.New("callee"), s.Window(3), special.Null)
	if err != nil {
		t.Fatal(err)
	}

	if f.Base() != mark || f.Argc() != 3 || !f.Arg(2).Equal(num.Int(2)) {
		t.Fatalf("unexpected frame at %d with %v", f.Base(), f.Args())
	}

	if f.This() != special.Null || !f.Callee().Equal(str.New("callee")) {
		t.Fatal("unexpected header")
	}

	s.Release(f)
	s.Drop(3)

	if s.Top() != 0 {
		t.Fatalf("expected empty stack; got top %d", s.Top())
	}
}

func TestGrowth(t *testing.T) {
	s := New(0)

	f, err := s.Bare(1000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetArg(999, num.Int(999))

	if !f.Arg(999).Equal(num.Int(999)) {
		t.Fatal("expected last argument to survive growth")
	}

	s.Release(f)
}

func TestExhaustion(t *testing.T) {
	s := New(HeaderSize + 10)

	f, err := s.Bare(10)
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Bare(0)

	var e *exception.T
	if !errors.As(err, &e) || e.String() != "RangeError: Maximum call stack size exceeded" {
		t.Fatalf("expected exhaustion error; got %v", err)
	}

	if s.Top() != f.Size() {
		t.Fatalf("failed build moved the top to %d", s.Top())
	}

	s.Release(f)
}

func TestLIFO(t *testing.T) {
	s := New(0)

	before := s.Top()

	a, _ := s.Bare(2)
	b, _ := s.Bare(3)

	s.Release(b)
	s.Release(a)

	if s.Top() != before {
		t.Fatalf("expected top %d; got %d", before, s.Top())
	}

	a, _ = s.Bare(2)
	_, _ = s.Bare(3)

	defer func() {
		if recover() == nil {
			t.Fatal("expected out of order release to panic")
		}
	}()

	s.Release(a)
}

func TestMarkReset(t *testing.T) {
	s := New(0)

	mark := s.Mark()

	_, _ = s.Bare(4)
	_ = s.Push(num.Int(1))

	s.Reset(mark)

	if s.Top() != mark {
		t.Fatalf("expected top %d; got %d", mark, s.Top())
	}
}
