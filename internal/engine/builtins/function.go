// Released under an MIT license. See LICENSE.

package builtins

import (
	"strings"
	"unicode"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/array"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/compile"
	"github.com/michaelmacinnis/ember/internal/engine/machine"
	"github.com/michaelmacinnis/ember/internal/reader"
)

func (i *installer) functions() {
	create := func(_ cell.I, args []cell.I) (cell.I, error) {
		return i.dynamic(args)
	}

	i.constructor(machine.Function, create, create)

	p := i.m.Prototype(machine.Function)

	i.method(p, "apply", func(this cell.I, args []cell.I) (cell.I, error) {
		var receiver cell.I = special.Undefined

		var list []cell.I

		if len(args) > 0 {
			receiver = args[0]
		}

		if len(args) > 1 && array.Is(args[1]) {
			list = array.To(args[1]).Items()
		}

		return i.m.Call(this, receiver, list...), nil
	})

	i.method(p, "call", func(this cell.I, args []cell.I) (cell.I, error) {
		if len(args) == 0 {
			return i.m.Call(this, special.Undefined), nil
		}

		// Call copies args[1:] into the new frame before anything else
		// is pushed.
		return i.m.Call(this, args[0], args[1:]...), nil
	})

	i.method(p, "toString", func(this cell.I, _ []cell.I) (cell.I, error) {
		return str.New(i.m.ToString(this)), nil
	})
}

// dynamic creates a function from parameter names and a body supplied as
// strings. The last argument is the body. Each earlier argument may name
// several parameters separated by commas.
//
// The body is compiled without formals. The formals are bound afterwards,
// so a repeated parameter name refers to its left-most occurrence.
func (i *installer) dynamic(args []cell.I) (cell.I, error) {
	body := ""

	var params []string

	if n := len(args); n > 0 {
		body = i.m.ToString(args[n-1])

		for _, a := range args[:n-1] {
			for _, p := range strings.Split(i.m.ToString(a), ",") {
				p = strings.TrimSpace(p)
				if !identifier(p) {
					return nil, exception.Newf(exception.Syntax, "Invalid parameter name %q", p)
				}

				params = append(params, p)
			}
		}
	}

	p, err := reader.Parse("anonymous", body, i.depth)
	if err != nil {
		return nil, syntax(err)
	}

	u, err := compile.Dynamic("anonymous", params, p.Body)
	if err != nil {
		return nil, err
	}

	fn := i.m.Function(u)
	fn.RebindFormals(params)

	return i.m.NewFunction(fn, i.m.Globals()), nil
}

func identifier(s string) bool {
	if s == "" {
		return false
	}

	for n, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case n > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}

func syntax(err error) error {
	if _, ok := err.(*exception.T); ok { //nolint:errorlint
		return err
	}

	return exception.New(exception.Syntax, "Unexpected end of input")
}
