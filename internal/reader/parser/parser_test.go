package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/reader/ast"
	"github.com/michaelmacinnis/ember/internal/reader/lexer"
	"github.com/michaelmacinnis/ember/internal/reader/parser"
)

const depthExceeded = "SyntaxError: Maximum statement or expression depth exceeded"

func parse(s string) (*ast.Program, error) {
	return parser.New(lexer.New("test", s).Token, parser.DefaultDepth).Parse()
}

func TestAccepted(t *testing.T) {
	for _, s := range []string{
		"var a = 1, b = 'two'; a + b",
		"function f(x, x) { return x }\nf(1, 2)",
		"if (a) b(); else { c() }",
		"for (var i = 0; i < 10; i++) { continue }",
		"for (var k in o) break",
		"while (x--) y += x",
		"try { throw new Error('e') } catch (e) { e.message }",
		"tag`a${b}c${d}e`",
		"[a, b] = [b, a]",
		"var o = {a: 1, 'b': [2, 3], c}; o.a",
		"x = y ? z : -w",
		"typeof q === 'undefined' || !q",
		"return\n",
		// Assignment targets are checked when binding names, not here.
		"[``]=1",
		"`a${1++}`",
		"8[++i][+++i]",
		"[1]=7[A=8=9]",
		"T||9[---L6i]",
		"a?b:[---Hi]",
	} {
		if _, err := parse(s); err != nil {
			t.Fatalf("%q: unexpected error: %v", s, err)
		}
	}
}

func TestAutomaticSemicolon(t *testing.T) {
	p, err := parse("a\n++b")
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Body) != 2 {
		t.Fatalf("expected 2 statements; got %d", len(p.Body))
	}

	u, ok := p.Body[1].(*ast.Expression).Expr.(*ast.Update)
	if !ok || !u.Prefix {
		t.Fatalf("expected prefix update; got %#v", p.Body[1])
	}
}

func TestDepthLeftRecursive(t *testing.T) {
	_, err := parse(strings.Repeat("`", 40000))
	expectSyntaxError(t, err, depthExceeded)
}

func TestDepthRightRecursive(t *testing.T) {
	_, err := parse(strings.Repeat("-", 200000) + "\nd")
	expectSyntaxError(t, err, depthExceeded)
}

func TestDepthLimit(t *testing.T) {
	s := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)

	if _, err := parser.New(lexer.New("test", s).Token, 100).Parse(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := parser.New(lexer.New("test", s).Token, 10).Parse()
	expectSyntaxError(t, err, depthExceeded)
}

func TestExpectedSemicolon(t *testing.T) {
	_, err := parse("var asmvalsLen = asmvals{{{{{ngth}}}}};")
	expectSyntaxError(t, err, "SyntaxError: Expected token `;'")
}

func TestIncomplete(t *testing.T) {
	for _, s := range []string{
		"function f() {",
		"if (a) {\n b()",
		"var s = 'abc",
		"x = `a${",
		"a +",
	} {
		if _, err := parse(s); !errors.Is(err, parser.ErrIncomplete) {
			t.Fatalf("%q: expected ErrIncomplete; got %v", s, err)
		}
	}
}

func TestPrecedence(t *testing.T) {
	p, err := parse("1 + 2 * 3")
	if err != nil {
		t.Fatal(err)
	}

	b := p.Body[0].(*ast.Expression).Expr.(*ast.Binary)
	if b.Op != "+" {
		t.Fatalf("expected + at the root; got %s", b.Op)
	}

	if r, ok := b.Right.(*ast.Binary); !ok || r.Op != "*" {
		t.Fatalf("expected * on the right; got %#v", b.Right)
	}
}

func TestTaggedTemplateChain(t *testing.T) {
	p, err := parse("````")
	if err != nil {
		t.Fatal(err)
	}

	tt, ok := p.Body[0].(*ast.Expression).Expr.(*ast.TaggedTemplate)
	if !ok {
		t.Fatalf("expected tagged template; got %#v", p.Body[0])
	}

	if _, ok := tt.Tag.(*ast.Template); !ok {
		t.Fatalf("expected template tag; got %#v", tt.Tag)
	}
}

func expectSyntaxError(t *testing.T, err error, msg string) {
	t.Helper()

	var e *exception.T
	if !errors.As(err, &e) {
		t.Fatalf("expected an exception; got %v", err)
	}

	if e.String() != msg {
		t.Fatalf("expected %q; got %q", msg, e.String())
	}
}
