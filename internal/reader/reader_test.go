package reader

import (
	"testing"
)

func TestScanContinuation(t *testing.T) {
	r := New("test", 0)

	p, err := r.Scan("function f() {\n")
	if p != nil || err != nil {
		t.Fatalf("expected continuation; got %v, %v", p, err)
	}

	if !r.Pending() {
		t.Fatal("expected pending text")
	}

	p, err = r.Scan("}\n")
	if err != nil {
		t.Fatal(err)
	}

	if p == nil || len(p.Body) != 1 {
		t.Fatalf("expected one statement; got %v", p)
	}

	if r.Pending() {
		t.Fatal("expected no pending text")
	}
}

func TestScanError(t *testing.T) {
	r := New("test", 0)

	if _, err := r.Scan("a b\n"); err == nil {
		t.Fatal("expected syntax error")
	}

	if r.Pending() {
		t.Fatal("expected text to be discarded")
	}
}
