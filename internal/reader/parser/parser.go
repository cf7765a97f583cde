// Released under an MIT license. See LICENSE.

// Package parser provides a recursive descent parser for ember's script
// language.
package parser

import (
	"errors"

	"github.com/michaelmacinnis/ember/internal/common/struct/loc"
	"github.com/michaelmacinnis/ember/internal/common/struct/token"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/reader/ast"
)

// DefaultDepth is the nesting limit used when none is configured.
const DefaultDepth = 1000

// ErrIncomplete is returned when the text ends before the program does.
var ErrIncomplete = errors.New("incomplete input")

// T holds the state of the parser.
type T struct {
	ahead   int             // Lookahead count.
	depth   int             // Current statement or expression nesting.
	item    func() *token.T // Function to call to get another token.
	limit   int             // Maximum nesting.
	newline bool            // Line break before the lookahead token.
	noIn    bool            // Inside a for statement's first clause.
	token   *token.T        // Token lookahead.
}

// New creates a new parser that reads tokens by calling item.
// Nesting deeper than limit is a syntax error.
func New(item func() *token.T, limit int) *T {
	if limit <= 0 {
		limit = DefaultDepth
	}

	return &T{item: item, limit: limit}
}

// Parse consumes tokens until the end of input and returns the program.
// The error is ErrIncomplete or an *exception.T describing a syntax error.
func (p *T) Parse() (program *ast.Program, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		program = nil

		switch r := r.(type) {
		case *exception.T:
			err = r
		case error:
			if errors.Is(r, ErrIncomplete) {
				err = ErrIncomplete
			} else {
				err = exception.New(exception.Syntax, r.Error())
			}
		case string:
			err = exception.New(exception.Syntax, r)
		default:
			panic(r)
		}
	}()

	program = &ast.Program{At: p.at()}

	for !p.peek().Is(token.EOF) {
		program.Body = append(program.Body, p.statement())
	}

	return program, nil
}

func (p *T) at() ast.At {
	return ast.At{Loc: p.peek().Source()}
}

func (p *T) consume() *token.T {
	if p.ahead == 0 {
		panic("nothing to consume.")
	}

	t := p.token

	p.ahead = 0
	p.token = nil

	return t
}

func (p *T) enter() {
	p.depth++
	if p.depth > p.limit {
		panic(exception.New(
			exception.Syntax,
			"Maximum statement or expression depth exceeded",
		))
	}
}

func (p *T) expect(c token.Class) *token.T {
	t := p.peek()
	if t.Is(c) {
		return p.consume()
	}

	p.fail(t, "Expected token `"+string(rune(c))+"'")

	return nil
}

func (p *T) expectWord(w string) {
	t := p.peek()
	if t.IsWord(w) {
		p.consume()

		return
	}

	p.fail(t, "Expected token `"+w+"'")
}

func (p *T) fail(t *token.T, msg string) {
	if t.Is(token.EOF) {
		panic(ErrIncomplete)
	}

	panic(exception.New(exception.Syntax, msg))
}

func (p *T) identifier() string {
	t := p.peek()
	if !t.Is(token.Identifier) || reserved[t.Value()] {
		p.unexpected(t)
	}

	return p.consume().Value()
}

func (p *T) leave() {
	p.depth--
}

func (p *T) peek() *token.T {
	if p.ahead > 0 {
		return p.token
	}

	p.newline = false

	t := p.item()
	for t.Is('\n') {
		p.newline = true
		t = p.item()
	}

	switch {
	case t.Is(token.Incomplete):
		panic(ErrIncomplete)
	case t.Is(token.Error):
		panic(exception.New(exception.Syntax, t.Value()))
	}

	p.token = t
	p.ahead = 1

	return t
}

// terminator consumes the end of a statement. A statement ends at a
// semicolon, a line break, a closing brace, or the end of input.
func (p *T) terminator() {
	t := p.peek()

	switch {
	case t.Is(';'):
		p.consume()
	case p.newline, t.Is('}', token.EOF):
	default:
		p.fail(t, "Expected token `;'")
	}
}

func (p *T) unexpected(t *token.T) {
	p.fail(t, "Unexpected token `"+t.Value()+"'")
}

// Statements.

func (p *T) statement() ast.Node {
	p.enter()
	defer p.leave()

	t := p.peek()

	switch {
	case t.Is('{'):
		return p.block()
	case t.Is(';'):
		p.consume()

		return &ast.Empty{At: ast.At{Loc: t.Source()}}
	case t.IsWord("break"):
		p.consume()
		p.terminator()

		return &ast.Break{At: ast.At{Loc: t.Source()}}
	case t.IsWord("continue"):
		p.consume()
		p.terminator()

		return &ast.Continue{At: ast.At{Loc: t.Source()}}
	case t.IsWord("for"):
		return p.forStatement()
	case t.IsWord("function"):
		at := p.at()
		p.consume()

		return &ast.FunctionDeclaration{At: at, Function: p.function(at, true)}
	case t.IsWord("if"):
		return p.ifStatement()
	case t.IsWord("return"):
		return p.returnStatement()
	case t.IsWord("throw"):
		p.consume()

		if p.peek(); p.newline {
			p.fail(p.peek(), "Illegal newline after throw")
		}

		s := &ast.Throw{At: ast.At{Loc: t.Source()}, Value: p.expression()}
		p.terminator()

		return s
	case t.IsWord("try"):
		return p.tryStatement()
	case t.IsWord("var"):
		p.consume()

		s := p.variables(t.Source())
		p.terminator()

		return s
	case t.IsWord("while"):
		p.consume()
		p.expect('(')

		s := &ast.While{At: ast.At{Loc: t.Source()}, Test: p.expression()}

		p.expect(')')
		s.Body = p.statement()

		return s
	}

	s := &ast.Expression{At: p.at(), Expr: p.expression()}
	p.terminator()

	return s
}

func (p *T) block() *ast.Block {
	b := &ast.Block{At: p.at()}

	p.expect('{')

	for !p.peek().Is('}') {
		if p.peek().Is(token.EOF) {
			panic(ErrIncomplete)
		}

		b.Body = append(b.Body, p.statement())
	}

	p.consume()

	return b
}

func (p *T) forStatement() ast.Node {
	at := p.at()

	p.consume()
	p.expect('(')

	var init ast.Node

	p.noIn = true

	switch t := p.peek(); {
	case t.Is(';'):
	case t.IsWord("var"):
		p.consume()

		v := p.variables(t.Source())

		if p.peek().IsWord("in") {
			p.noIn = false

			if len(v.Declarations) != 1 || v.Declarations[0].Init != nil {
				p.fail(p.peek(), "Invalid left-hand side in for-in loop")
			}

			target := &ast.Identifier{At: v.At, Name: v.Declarations[0].Name}

			return p.forIn(at, target, true)
		}

		init = v
	default:
		e := p.expression()

		if p.peek().IsWord("in") {
			p.noIn = false

			return p.forIn(at, e, false)
		}

		init = &ast.Expression{At: ast.At{Loc: e.Source()}, Expr: e}
	}

	p.noIn = false

	s := &ast.For{At: at, Init: init}

	p.expect(';')

	if !p.peek().Is(';') {
		s.Test = p.expression()
	}

	p.expect(';')

	if !p.peek().Is(')') {
		s.Update = p.expression()
	}

	p.expect(')')

	s.Body = p.statement()

	return s
}

func (p *T) forIn(at ast.At, target ast.Node, declare bool) ast.Node {
	p.consume()

	s := &ast.ForIn{At: at, Declare: declare, Object: p.expression(), Target: target}

	p.expect(')')

	s.Body = p.statement()

	return s
}

func (p *T) function(at ast.At, named bool) *ast.Function {
	f := &ast.Function{At: at}

	if named || p.peek().Is(token.Identifier) {
		f.Name = p.identifier()
	}

	p.expect('(')

	for !p.peek().Is(')') {
		f.Params = append(f.Params, p.identifier())

		if !p.peek().Is(')') {
			p.expect(',')
		}
	}

	p.consume()

	saved := p.noIn
	p.noIn = false

	f.Body = p.block().Body

	p.noIn = saved

	return f
}

func (p *T) ifStatement() ast.Node {
	s := &ast.If{At: p.at()}

	p.consume()
	p.expect('(')

	s.Test = p.expression()

	p.expect(')')

	s.Then = p.statement()

	if p.peek().IsWord("else") {
		p.consume()

		s.Else = p.statement()
	}

	return s
}

func (p *T) returnStatement() ast.Node {
	s := &ast.Return{At: p.at()}

	p.consume()

	t := p.peek()
	if !p.newline && !t.Is(';', '}', token.EOF) {
		s.Value = p.expression()
	}

	p.terminator()

	return s
}

func (p *T) tryStatement() ast.Node {
	s := &ast.Try{At: p.at()}

	p.consume()

	s.Body = p.block()

	p.expectWord("catch")
	p.expect('(')

	s.Param = p.identifier()

	p.expect(')')

	s.Handler = p.block()

	return s
}

func (p *T) variables(l loc.T) *ast.Var {
	v := &ast.Var{At: ast.At{Loc: l}}

	for {
		d := ast.Declarator{Name: p.identifier()}

		if p.peek().IsOperator("=") {
			p.consume()

			d.Init = p.assignment()
		}

		v.Declarations = append(v.Declarations, d)

		if !p.peek().Is(',') {
			return v
		}

		p.consume()
	}
}

// Expressions.

func (p *T) expression() ast.Node {
	e := p.assignment()

	if !p.peek().Is(',') {
		return e
	}

	s := &ast.Sequence{At: ast.At{Loc: e.Source()}, Exprs: []ast.Node{e}}

	for p.peek().Is(',') {
		p.consume()

		s.Exprs = append(s.Exprs, p.assignment())
	}

	return s
}

func (p *T) assignment() ast.Node {
	p.enter()
	defer p.leave()

	e := p.conditional()

	t := p.peek()
	if t.Is(token.Operator) && assignments[t.Value()] {
		p.consume()

		return &ast.Assign{
			At:     ast.At{Loc: e.Source()},
			Op:     t.Value(),
			Target: e,
			Value:  p.assignment(),
		}
	}

	return e
}

func (p *T) conditional() ast.Node {
	e := p.binary(1)

	if !p.peek().Is('?') {
		return e
	}

	p.consume()

	saved := p.noIn
	p.noIn = false

	c := &ast.Conditional{At: ast.At{Loc: e.Source()}, Test: e, Then: p.assignment()}

	p.noIn = saved

	p.expect(':')

	c.Else = p.assignment()

	return c
}

func (p *T) binary(min int) ast.Node {
	e := p.unary()

	n := 0
	defer func() {
		p.depth -= n
	}()

	for {
		op, prec := p.operator()
		if prec < min {
			return e
		}

		p.consume()
		p.enter()
		n++

		var right ast.Node
		if op == "**" {
			right = p.binary(prec)
		} else {
			right = p.binary(prec + 1)
		}

		at := ast.At{Loc: e.Source()}

		if op == "&&" || op == "||" {
			e = &ast.Logical{At: at, Op: op, Left: e, Right: right}
		} else {
			e = &ast.Binary{At: at, Op: op, Left: e, Right: right}
		}
	}
}

func (p *T) operator() (string, int) {
	t := p.peek()

	switch {
	case t.Is(token.Operator):
		if prec, ok := precedence[t.Value()]; ok {
			return t.Value(), prec
		}
	case t.IsWord("instanceof"), t.IsWord("in") && !p.noIn:
		return t.Value(), precedence[t.Value()]
	}

	return "", 0
}

func (p *T) unary() ast.Node {
	t := p.peek()

	switch {
	case t.IsOperator("++", "--"):
		p.consume()
		p.enter()
		defer p.leave()

		return &ast.Update{
			At:     ast.At{Loc: t.Source()},
			Op:     t.Value(),
			Prefix: true,
			Target: p.unary(),
		}
	case t.IsOperator("!", "+", "-"), t.Is('~'), t.IsWord("typeof", "void"):
		p.consume()
		p.enter()
		defer p.leave()

		return &ast.Unary{
			At:      ast.At{Loc: t.Source()},
			Op:      t.Value(),
			Operand: p.unary(),
		}
	}

	return p.postfix()
}

func (p *T) postfix() ast.Node {
	e := p.call()

	t := p.peek()
	if t.IsOperator("++", "--") && !p.newline {
		p.consume()

		return &ast.Update{At: ast.At{Loc: e.Source()}, Op: t.Value(), Target: e}
	}

	return e
}

func (p *T) call() ast.Node {
	var e ast.Node

	if p.peek().IsWord("new") {
		e = p.construct()
	} else {
		e = p.primary()
	}

	return p.chain(e, true)
}

// chain parses the member accesses, calls, and tagged templates that follow
// e. Each link counts towards the nesting limit.
func (p *T) chain(e ast.Node, calls bool) ast.Node {
	n := 0
	defer func() {
		p.depth -= n
	}()

	for {
		t := p.peek()
		at := ast.At{Loc: e.Source()}

		switch {
		case t.Is('.'):
			p.consume()

			name := p.peek()
			if !name.Is(token.Identifier) {
				p.unexpected(name)
			}

			e = &ast.Member{At: at, Object: e, Property: p.consume().Value()}
		case t.Is('['):
			p.consume()

			saved := p.noIn
			p.noIn = false

			e = &ast.Index{At: at, Object: e, Index: p.expression()}

			p.noIn = saved

			p.expect(']')
		case t.Is('(') && calls:
			e = &ast.Call{At: at, Callee: e, Args: p.arguments()}
		case t.Is(token.Template, token.TemplateHead):
			e = &ast.TaggedTemplate{At: at, Tag: e, Quasi: p.template()}
		default:
			return e
		}

		p.enter()
		n++
	}
}

func (p *T) construct() ast.Node {
	at := p.at()

	p.consume()
	p.enter()
	defer p.leave()

	var callee ast.Node

	if p.peek().IsWord("new") {
		callee = p.construct()
	} else {
		callee = p.chain(p.primary(), false)
	}

	n := &ast.New{At: at, Callee: callee}

	if p.peek().Is('(') {
		n.Args = p.arguments()
	}

	return n
}

func (p *T) arguments() []ast.Node {
	p.expect('(')

	saved := p.noIn
	p.noIn = false

	args := []ast.Node{}

	for !p.peek().Is(')') {
		args = append(args, p.assignment())

		if !p.peek().Is(')') {
			p.expect(',')
		}
	}

	p.consume()

	p.noIn = saved

	return args
}

func (p *T) primary() ast.Node {
	t := p.peek()
	at := ast.At{Loc: t.Source()}

	switch {
	case t.Is(token.Number):
		p.consume()

		return &ast.Number{At: at, Value: num.Parse(t.Value())}
	case t.Is(token.String):
		p.consume()

		return &ast.String{At: at, Value: t.Value()}
	case t.Is(token.Template, token.TemplateHead):
		return p.template()
	case t.Is('('):
		p.consume()

		saved := p.noIn
		p.noIn = false

		e := p.expression()

		p.noIn = saved

		p.expect(')')

		return e
	case t.Is('['):
		return p.array()
	case t.Is('{'):
		return p.object()
	case t.IsWord("function"):
		p.consume()

		return p.function(at, false)
	case t.IsWord("false"), t.IsWord("true"):
		p.consume()

		return &ast.Boolean{At: at, Value: t.Value() == "true"}
	case t.IsWord("null"):
		p.consume()

		return &ast.Null{At: at}
	case t.IsWord("this"):
		p.consume()

		return &ast.This{At: at}
	}

	return &ast.Identifier{At: at, Name: p.identifier()}
}

func (p *T) array() ast.Node {
	a := &ast.Array{At: p.at()}

	p.consume()

	saved := p.noIn
	p.noIn = false

	for !p.peek().Is(']') {
		a.Elements = append(a.Elements, p.assignment())

		if !p.peek().Is(']') {
			p.expect(',')
		}
	}

	p.consume()

	p.noIn = saved

	return a
}

func (p *T) object() ast.Node {
	o := &ast.Object{At: p.at()}

	p.consume()

	saved := p.noIn
	p.noIn = false

	for !p.peek().Is('}') {
		t := p.peek()

		var key string

		switch {
		case t.Is(token.Identifier, token.String):
			key = t.Value()
		case t.Is(token.Number):
			key = num.Format(num.Parse(t.Value()))
		default:
			p.unexpected(t)
		}

		p.consume()

		var value ast.Node

		if p.peek().Is(':') {
			p.consume()

			value = p.assignment()
		} else if t.Is(token.Identifier) && !reserved[key] {
			value = &ast.Identifier{At: ast.At{Loc: t.Source()}, Name: key}
		} else {
			p.expect(':')
		}

		o.Properties = append(o.Properties, ast.Property{Key: key, Value: value})

		if !p.peek().Is('}') {
			p.expect(',')
		}
	}

	p.consume()

	p.noIn = saved

	return o
}

func (p *T) template() *ast.Template {
	t := p.consume()

	q := &ast.Template{At: ast.At{Loc: t.Source()}, Strings: []string{t.Value()}}
	if t.Is(token.Template) {
		return q
	}

	saved := p.noIn
	p.noIn = false

	for {
		q.Exprs = append(q.Exprs, p.expression())

		t = p.peek()
		if !t.Is(token.TemplateMiddle, token.TemplateTail) {
			p.unexpected(t)
		}

		p.consume()

		q.Strings = append(q.Strings, t.Value())

		if t.Is(token.TemplateTail) {
			p.noIn = saved

			return q
		}
	}
}

//nolint:gochecknoglobals
var (
	assignments = map[string]bool{
		"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
		"<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true, "^=": true,
	}

	precedence = map[string]int{
		"||": 1,
		"&&": 2,
		"|":  3,
		"^":  4,
		"&":  5,
		"==": 6, "!=": 6, "===": 6, "!==": 6,
		"<": 7, ">": 7, "<=": 7, ">=": 7, "in": 7, "instanceof": 7,
		"<<": 8, ">>": 8, ">>>": 8,
		"+": 9, "-": 9,
		"*": 10, "/": 10, "%": 10,
		"**": 11,
	}

	reserved = map[string]bool{
		"break": true, "catch": true, "continue": true, "else": true,
		"false": true, "for": true, "function": true, "if": true,
		"in": true, "instanceof": true, "new": true, "null": true,
		"return": true, "this": true, "throw": true, "true": true,
		"try": true, "typeof": true, "var": true, "void": true,
		"while": true,
	}
)
