// Released under an MIT license. See LICENSE.

package ui

import (
	"strings"
	"testing"

	"github.com/michaelmacinnis/ember/internal/engine"
	"github.com/michaelmacinnis/ember/internal/reader"
	"github.com/michaelmacinnis/ember/internal/reader/parser"
)

func TestSession(t *testing.T) {
	out := &strings.Builder{}

	s := &session{
		evaluator: engine.New(engine.Options{Output: out}),
		output:    out,
		reader:    reader.New("repl", parser.DefaultDepth),
	}

	steps := []struct {
		line   string
		prompt string
	}{
		{"var a = 20", primary},
		{"function f(x) {", secondary},
		{"  return x + a", secondary},
		{"}", primary},
		{"f(22)", primary},
		{"print('hi')", primary},
		{"b", primary},
		{"'abc", primary},
	}

	for _, step := range steps {
		s.input(step.line)

		if p := s.prompt(); p != step.prompt {
			t.Fatalf("after %q: expected prompt %q, got %q", step.line, step.prompt, p)
		}
	}

	expected := "42\nhi\nReferenceError: b is not defined\n"
	if got := out.String(); !strings.HasPrefix(got, expected) {
		t.Fatalf("expected output to start with %q, got %q", expected, got)
	}

	if strings.Count(out.String(), "\n") != 4 {
		t.Fatalf("expected a syntax error for the unterminated string, got %q", out.String())
	}
}

func TestAbort(t *testing.T) {
	out := &strings.Builder{}

	s := &session{
		evaluator: engine.New(engine.Options{Output: out}),
		output:    out,
		reader:    reader.New("repl", parser.DefaultDepth),
	}

	s.input("if (true) {")

	if s.prompt() != secondary {
		t.Fatal("expected a continuation prompt")
	}

	s.abort()

	if s.prompt() != primary {
		t.Fatal("expected abort to discard pending input")
	}

	s.input("1 + 1")

	if out.String() != "2\n" {
		t.Fatalf("expected 2, got %q", out.String())
	}
}
