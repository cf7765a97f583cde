// Released under an MIT license. See LICENSE.

package engine_test

import (
	"strings"
	"testing"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/engine"
	"github.com/michaelmacinnis/ember/internal/engine/machine"
)

type harness struct {
	*testing.T
	engine *engine.T
	output strings.Builder
}

func newHarness(t *testing.T, o engine.Options) *harness {
	h := &harness{T: t}

	o.Output = &h.output
	h.engine = engine.New(o)

	return h
}

func (h *harness) fails(source, expected string) {
	h.Helper()

	r, err := h.engine.Evaluate("test", source)
	if err == nil {
		h.Fatalf("%q: expected error %q, got %s", source, expected, literal.String(r))
	}

	if actual := err.Error(); actual != expected {
		h.Fatalf("%q: expected error %q, got %q", source, expected, actual)
	}

	s := h.engine.Machine().Stack()
	if s.Top() != 0 {
		h.Fatalf("%q: stack top is %d after error", source, s.Top())
	}

	if d := h.engine.Machine().Chain().Depth(); d != 0 {
		h.Fatalf("%q: frame chain depth is %d after error", source, d)
	}
}

func (h *harness) yields(source, expected string) {
	h.Helper()

	r, err := h.engine.Evaluate("test", source)
	if err != nil {
		h.Fatalf("%q: unexpected error: %v", source, err)
	}

	if actual := literal.String(r); actual != expected {
		h.Fatalf("%q: expected %s, got %s", source, expected, actual)
	}
}

func TestEvaluate(t *testing.T) {
	h := newHarness(t, engine.Options{})

	for _, c := range []struct {
		source   string
		expected string
	}{
		{"1 + 2", "3"},
		{"var s = 'a'; s + 1", `"a1"`},
		{"function f(a, b) { return a * b }\nf(6, 7)", "42"},
		{
			"function counter() { var n = 0; return function () { n++; return n } }\n" +
				"var c = counter(); c(); c()",
			"2",
		},
		{"var fact = function f(n) { return n <= 1 ? 1 : n * f(n - 1) }; fact(5)", "120"},
		{"var n = 3; `n=${n}!`", `"n=3!"`},
		{"function tag(s, v) { return s.join('|') + v }\ntag`a${1}b`", `"a|b1"`},
		{"var a = 1, b = 2; [a, b] = [b, a]; a * 10 + b", "21"},
		{"var o = {x: 1, y: 2}, s = ''; for (var k in o) s += k; s", `"xy"`},
		{"try { throw new Error('boom') } catch (e) { e.message }", `"boom"`},
		{"function P(x) { this.x = x }\nvar p = new P(4); p.x", "4"},
		{"p instanceof P", "true"},
		{
			"var i = 0, n = 0\n" +
				"while (true) { i++; if (i > 10) break; if (i % 2) continue; n += i }\n" +
				"n",
			"30",
		},
		{"var t = 0; for (var i = 1; i <= 4; i++) t += i; t", "10"},
		{"function f() { for (;;) { try { break } catch (e) {} } return 'out' }\nf()", `"out"`},
		{"typeof nope", `"undefined"`},
		{"null || 'x'", `"x"`},
		{"0 && 1", "0"},
		{"var o = {n: 5}; var old = o.n++; old * 100 + o.n", "506"},
		{"var a = [1]; a[0]++ + a[0]", "3"},
		{"var o = {n: 2}; o.n *= 5; o.n", "10"},
		{"var a = [1, 2]; a[1] += 3; a", "[1, 5]"},
		{"[1, 2, 3].length", "3"},
		{"'abc'.charAt(1) + 'abc'[2]", `"bc"`},
		{"1 == '1' && null == undefined && 1 !== '1'", "true"},
		{"-7 >>> 28", "15"},
		{"(5 & 3) | (1 << 4)", "17"},
		{"2 ** 3 ** 2", "512"},
		{"'x' in {x: 1}", "true"},
		{"var u; u", "undefined"},
	} {
		h.yields(c.source, c.expected)
	}
}

func TestPrint(t *testing.T) {
	h := newHarness(t, engine.Options{})

	h.yields("print('a', 1, [2, 3])", "undefined")

	if actual := h.output.String(); actual != "a 1 2,3\n" {
		t.Fatalf("expected printed %q, got %q", "a 1 2,3\n", actual)
	}
}

func TestDuplicateParameters(t *testing.T) {
	h := newHarness(t, engine.Options{})

	// Compiled parameter lists bind a repeated name to its last
	// occurrence.
	h.yields("function g(x, x) { return x }\ng(1, 2)", "2")

	// Parameter lists bound when the function is created bind a repeated
	// name to its first occurrence.
	h.yields(`new Function("x", "y", "x", "return x")(1, 2, 3)`, "1")
	h.yields(`Function("a, b", "return a + b")(2, 3)`, "5")
	h.yields(`Function("return this === undefined")()`, "false")

	h.fails(`Function("1a", "return 1")`, `SyntaxError: Invalid parameter name "1a"`)
	h.fails(`Function("return (")`, "SyntaxError: Unexpected end of input")
}

func TestNotAConstructor(t *testing.T) {
	h := newHarness(t, engine.Options{})

	h.fails("new print()", "TypeError: print is not a constructor")
	h.yields("try { new print() } catch (e) { e instanceof TypeError }", "true")
	h.yields("try { new print() } catch (e) { e.message }", `"print is not a constructor"`)
	h.fails("var x = 1; x()", "TypeError: 1 is not a function")
}

func TestRecursion(t *testing.T) {
	h := newHarness(t, engine.Options{
		Options: machine.Options{MaxCallDepth: 100},
	})

	h.fails("function r() { return r() }\nr()", "RangeError: Maximum call stack size exceeded")
	h.yields("try { r() } catch (e) { e instanceof RangeError }", "true")
	h.yields("1", "1")
}

func TestStackExhaustion(t *testing.T) {
	h := newHarness(t, engine.Options{
		Options: machine.Options{StackSlots: 64},
	})

	h.fails("function r(a, b, c) { return r(a, b, c) }\nr(1, 2, 3)",
		"RangeError: Maximum call stack size exceeded")
	h.yields("try { r() } catch (e) { e.name }", `"RangeError"`)
}

func TestReferenceErrors(t *testing.T) {
	h := newHarness(t, engine.Options{})

	prefix := "ReferenceError: Prefix ++ operator applied to value that is not a reference."

	for _, c := range []struct {
		source   string
		expected string
	}{
		{"8[++i][+++i]", prefix},
		{"`a${1++}`", "ReferenceError: Invalid left-hand side expression in postfix operation"},
		{"for (var f in ++!binaryMathg) ;", prefix},
		{"for (va() in obj) {}", "ReferenceError: Invalid left-hand side expression for 'in' expression"},
		{"[1]=7[A=8=9]", "ReferenceError: left-hand side of assignment operator is not an lvalue"},
		{"var asmvalsLen = asmvals{{{{{ngth}}}}};", "SyntaxError: Expected token `;'"},
		{"T||9[---L6i]", prefix},
		{"a?b:[---Hi]", prefix},
		{"[``]=1", "ReferenceError: Binding target is not a reference."},
		{"nope", "ReferenceError: nope is not defined"},
		{"return 1", "SyntaxError: Illegal return statement"},
		{"break", "SyntaxError: Illegal break statement"},
	} {
		h.fails(c.source, c.expected)
	}
}

func TestDepthLimit(t *testing.T) {
	h := newHarness(t, engine.Options{})

	const expected = "SyntaxError: Maximum statement or expression depth exceeded"

	h.fails(strings.Repeat("`", 40000), expected)
	h.fails(strings.Repeat("-", 200000)+"\nd", expected)

	h.yields("1", "1")
}

func TestUncaught(t *testing.T) {
	h := newHarness(t, engine.Options{})

	h.fails("throw 'bare'", `Uncaught "bare"`)
	h.fails("throw new RangeError('r')", "RangeError: r")
	h.fails("var o; o.x", "TypeError: Cannot read property 'x' of undefined")
}

func TestPrelude(t *testing.T) {
	h := newHarness(t, engine.Options{})

	h.yields("[1, 2, 3].map(function (n) { return n * 2 })", "[2, 4, 6]")
	h.yields("[1, 2, 3, 4].filter(function (n) { return n % 2 })", "[1, 3]")
	h.yields("[1, 2, 3].reduce(function (a, n) { return a + n })", "6")
	h.yields("[1, 2, 3].reduce(function (a, n) { return a + n }, 10)", "16")
	h.yields("var s = 0; [4, 5].forEach(function (n, i) { s += n * i }); s", "5")
	h.yields("['a', 'b'].indexOf('b') * 10 + [].indexOf(1)", "9")
	h.yields("[1, 2].some(function (n) { return n > 1 }) && ![1, 2].every(function (n) { return n > 1 })", "true")

	h.fails("[].reduce(function () {})", "TypeError: Reduce of empty array with no initial value")
	h.fails("[1].map(3)", "TypeError: 3 is not a function")
}

func (h *harness) settled(source string) {
	h.Helper()

	if top := h.engine.Machine().Stack().Top(); top != 0 {
		h.Fatalf("%q: stack top is %d after evaluation", source, top)
	}

	if d := h.engine.Machine().Chain().Depth(); d != 0 {
		h.Fatalf("%q: frame chain depth is %d after evaluation", source, d)
	}
}

func TestFunctionPrototype(t *testing.T) {
	h := newHarness(t, engine.Options{})

	const prelude = "this.marker = 7\nfunction f(a, b) { return this.k + a + b }\n" +
		"function g() { return this.marker }\n"

	for _, c := range []struct {
		source   string
		expected string
	}{
		{"f.apply({k: 1}, [2, 3])", "6"},
		{"f.call({k: 1}, 2, 3)", "6"},
		{"g.apply()", "7"},
		{"g.call()", "7"},
		{"g.apply(null, [])", "7"},
		{
			"var xs = [1, 2]\nfunction m(a, b) { a = 10; return a + b }\n" +
				"m.apply(null, xs) * 10 + xs[0]",
			"121",
		},
		{"function u(a) { return typeof a }\nu.apply({})", `"undefined"`},
		{"print.toString()", `"function print() { [native code] }"`},
		{"f.toString()", `"function f() { [script code] }"`},
	} {
		source := prelude + c.source

		h.yields(source, c.expected)
		h.settled(source)
	}
}

func TestNativePanic(t *testing.T) {
	h := newHarness(t, engine.Options{})

	m := h.engine.Machine()
	m.Define("boom", m.NewNative("boom", func(cell.I, []cell.I) (cell.I, error) {
		panic("boom")
	}, nil))

	h.fails("boom()", "internal error: boom")
	h.fails("function f(n) { return n ? f(n - 1) : boom() }\nf(3)", "internal error: boom")
	h.fails("[1].map(function () { return boom() })", "internal error: boom")

	h.yields("1 + 1", "2")
	h.settled("1 + 1")
}
