// Released under an MIT license. See LICENSE.

// Package lexer provides a lexical scanner for ember's script language.
//
// The ember lexer adapts the state function approach used by Go's
// text/template lexer and described in detail in Rob Pike's talk
// "Lexical Scanning in Go". See https://talks.golang.org/2011/lex.slide
// for more information.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/michaelmacinnis/adapted"

	"github.com/michaelmacinnis/ember/internal/common/struct/loc"
	"github.com/michaelmacinnis/ember/internal/common/struct/token"
)

// T holds the state of the scanner.
type T struct {
	bytes string // Buffer being scanned.
	first int    // Index of the current token's first byte.
	index int    // Index of the current byte.

	braces []bool // True for each open brace that started a substitution.
	source loc.T  // Current position.
	start  loc.T  // Position of the current token's first byte.
	state  action // Current action.

	tokens chan *token.T
}

// New creates a new T for text. Label can be a file name or other identifier.
func New(label, text string) *T {
	l := &T{
		bytes:  text,
		source: loc.New(label),
		tokens: make(chan *token.T, 16),
	}

	l.start = l.source
	l.state = startState

	return l
}

// Text is used to return the text corresponding to the current token.
func (l *T) Text() string {
	return l.bytes[l.first:l.index]
}

// Token returns the next scanned token. Once the text is exhausted every
// call returns an EOF token.
func (l *T) Token() *token.T {
	for {
		select {
		case t := <-l.tokens:
			return t
		default:
			if l.state == nil {
				return token.New(token.EOF, "", l.source)
			}

			l.state = l.state(l)
		}
	}
}

type action func(*T) action

const eof = -1

func (l *T) accept(r rune, w int) {
	if r == '\n' {
		l.source.Line++
		l.source.Char = 1
	} else if r != eof {
		l.source.Char++
	}

	l.index += w
}

func (l *T) emit(c token.Class, v string) {
	t := token.New(c, v, l.start)

	l.tokens <- t
	l.skip()
}

func (l *T) fail(c token.Class, msg string) action {
	l.emit(c, msg)

	return nil
}

func (l *T) next() rune {
	r, w := l.peek()
	l.accept(r, w)

	return r
}

func (l *T) peek() (rune, int) {
	r, w := rune(eof), 0
	if l.index < len(l.bytes) {
		r, w = utf8.DecodeRuneInString(l.bytes[l.index:])
	}

	return r, w
}

func (l *T) skip() {
	l.first = l.index
	l.start = l.source
}

// T states.

func scanBlockComment(l *T) action {
	for {
		switch l.next() {
		case eof:
			return l.fail(token.Incomplete, "unterminated comment")
		case '*':
			if r, w := l.peek(); r == '/' {
				l.accept(r, w)
				l.skip()

				return startState
			}
		}
	}
}

func scanIdentifier(l *T) action {
	for {
		r, w := l.peek()
		if !isIdentifierPart(r) {
			l.emit(token.Identifier, l.Text())

			return startState
		}

		l.accept(r, w)
	}
}

func scanLineComment(l *T) action {
	for {
		r, w := l.peek()
		if r == eof || r == '\n' {
			l.skip()

			return startState
		}

		l.accept(r, w)
	}
}

func scanNumber(l *T) action {
	digits := "0123456789"

	if strings.HasPrefix(l.Text(), "0") {
		if r, w := l.peek(); r == 'x' || r == 'X' {
			l.accept(r, w)

			digits = "0123456789abcdefABCDEF"
		}
	}

	seen := strings.HasPrefix(l.Text(), ".")

	for {
		r, w := l.peek()

		switch {
		case strings.ContainsRune(digits, r):
		case r == '.' && !seen && len(digits) == 10:
			seen = true
		case (r == 'e' || r == 'E') && len(digits) == 10:
			l.accept(r, w)

			if r, w = l.peek(); r == '+' || r == '-' {
				l.accept(r, w)
			}

			continue
		default:
			if isIdentifierStart(r) {
				l.accept(r, w)

				return l.fail(token.Error, "Invalid or unexpected token")
			}

			l.emit(token.Number, l.Text())

			return startState
		}

		l.accept(r, w)
	}
}

func scanOperator(l *T) action {
	for {
		r, w := l.peek()
		if r == eof || !operators[l.Text()+string(r)] {
			l.emit(token.Operator, l.Text())

			return startState
		}

		l.accept(r, w)
	}
}

func scanQuoted(l *T, q rune) action {
	for {
		switch l.next() {
		case eof:
			return l.fail(token.Incomplete, "unterminated string literal")
		case '\n':
			return l.fail(token.Error, "Invalid or unexpected token")
		case '\\':
			if l.next() == eof {
				return l.fail(token.Incomplete, "unterminated string literal")
			}
		case q:
			text := l.Text()

			s, err := unescape(text[1 : len(text)-1])
			if err != nil {
				return l.fail(token.Error, "Invalid escape sequence")
			}

			l.emit(token.String, s)

			return startState
		}
	}
}

func scanDoubleQuoted(l *T) action {
	return scanQuoted(l, '"')
}

func scanSingleQuoted(l *T) action {
	return scanQuoted(l, '\'')
}

func scanTemplate(l *T) action {
	opened := l.Text()

	for {
		switch l.next() {
		case eof:
			return l.fail(token.Incomplete, "unterminated template literal")
		case '\\':
			if l.next() == eof {
				return l.fail(token.Incomplete, "unterminated template literal")
			}
		case '$':
			if r, w := l.peek(); r == '{' {
				l.accept(r, w)

				return l.template(opened, 2, token.TemplateHead, token.TemplateMiddle)
			}
		case '`':
			return l.template(opened, 1, token.Template, token.TemplateTail)
		}
	}
}

func (l *T) template(opened string, n int, first, rest token.Class) action {
	text := l.Text()

	s, err := unescape(text[1 : len(text)-n])
	if err != nil {
		return l.fail(token.Error, "Invalid escape sequence")
	}

	c := first
	if opened == "}" {
		c = rest
	}

	if n == 2 {
		l.braces = append(l.braces, true)
	}

	l.emit(c, s)

	return startState
}

func startState(l *T) action {
	for {
		r := l.next()

		switch r {
		case eof:
			return nil
		case '\t', '\r', '\v', '\f', ' ', '\u00a0', '\ufeff':
			l.skip()

			continue
		case '\n', '(', ')', ',', ':', ';', '?', '[', ']', '~':
			l.emit(token.Class(r), l.Text())

			return startState
		case '"':
			return scanDoubleQuoted
		case '\'':
			return scanSingleQuoted
		case '`':
			return scanTemplate
		case '{':
			l.braces = append(l.braces, false)
			l.emit('{', l.Text())

			return startState
		case '}':
			n := len(l.braces)
			if n > 0 {
				substitution := l.braces[n-1]
				l.braces = l.braces[:n-1]

				if substitution {
					return scanTemplate
				}
			}

			l.emit('}', l.Text())

			return startState
		case '.':
			if p, _ := l.peek(); unicode.IsDigit(p) {
				return scanNumber
			}

			l.emit('.', l.Text())

			return startState
		case '/':
			switch p, w := l.peek(); p {
			case '/':
				l.accept(p, w)

				return scanLineComment
			case '*':
				l.accept(p, w)

				return scanBlockComment
			}

			return scanOperator
		}

		switch {
		case r >= '0' && r <= '9':
			return scanNumber
		case isIdentifierStart(r):
			return scanIdentifier
		case strings.ContainsRune("!%&*+-<=>^|", r):
			return scanOperator
		}

		return l.fail(token.Error, "Invalid or unexpected token")
	}
}

// Helper functions.

//nolint:gochecknoglobals
var operators = map[string]bool{
	"!": true, "!=": true, "!==": true,
	"%": true, "%=": true,
	"&": true, "&&": true, "&=": true,
	"*": true, "**": true, "*=": true,
	"+": true, "++": true, "+=": true,
	"-": true, "--": true, "-=": true,
	"/": true, "/=": true,
	"<": true, "<<": true, "<<=": true, "<=": true,
	"=": true, "==": true, "===": true, "=>": true,
	">": true, ">=": true, ">>": true, ">>=": true, ">>>": true, ">>>=": true,
	"^": true, "^=": true,
	"|": true, "|=": true, "||": true,
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}

func isIdentifierStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

// unescape decodes the escape sequences in the body of a string or template.
// Escapes that only protect the following character are reduced to that
// character and escaped line breaks are removed before decoding.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])

			continue
		}

		i++

		switch c := s[i]; {
		case c == '\n':
		case c == '0' && (i+1 == len(s) || s[i+1] < '0' || s[i+1] > '9'):
			b.WriteString(`\x00`)
		case strings.IndexByte(`"'01234567U\abfnrtuvx`, c) >= 0:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return adapted.ActualBytes(b.String())
}
