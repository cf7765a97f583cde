// Released under an MIT license. See LICENSE.

// Package builtins installs ember's native functions on a machine.
package builtins

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/array"
	"github.com/michaelmacinnis/ember/internal/common/type/boolean"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/common/type/object"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/callee"
	"github.com/michaelmacinnis/ember/internal/engine/machine"
)

type installer struct {
	depth int
	m     *machine.T
	w     io.Writer
}

// Install defines the built-in globals on m. The print function writes to
// w. Source compiled by the Function constructor may nest no deeper than
// depth.
func Install(m *machine.T, w io.Writer, depth int) {
	i := &installer{depth: depth, m: m, w: w}

	m.Define("Infinity", num.New(math.Inf(1)))
	m.Define("NaN", num.New(math.NaN()))
	m.Define("undefined", special.Undefined)

	i.function("print", i.print)

	i.array()
	i.errors()
	i.functions()
	i.numbers()
	i.objects()
	i.strings()
}

// constructor defines a global constructor named label with the prototype
// registered under the same name.
func (i *installer) constructor(label string, call, construct callee.Go) *callee.T {
	c := i.m.NewNative(label, call, construct)

	p := i.m.Prototype(label)
	p.Define("constructor", c)
	c.Define("prototype", p)

	i.m.Define(label, c)

	return c
}

func (i *installer) function(label string, call callee.Go) {
	i.m.Define(label, i.m.NewNative(label, call, nil))
}

func (i *installer) method(p *object.T, label string, call callee.Go) {
	p.Define(label, i.m.NewNative(label, call, nil))
}

func (i *installer) print(_ cell.I, args []cell.I) (cell.I, error) {
	s := make([]string, len(args))
	for n, a := range args {
		s[n] = i.m.ToString(a)
	}

	_, err := fmt.Fprintln(i.w, strings.Join(s, " "))

	return special.Undefined, err
}

func (i *installer) array() {
	create := func(_ cell.I, args []cell.I) (cell.I, error) {
		if len(args) == 1 && num.Is(args[0]) {
			n := num.To(args[0]).Float()
			if n < 0 || n != float64(int(n)) {
				return nil, exception.New(exception.Range, "Invalid array length")
			}

			a := array.New()
			if n > 0 {
				a.Set(int(n)-1, special.Undefined)
			}

			return a, nil
		}

		return array.New(args...), nil
	}

	i.constructor(machine.Array, create, create)

	p := i.m.Prototype(machine.Array)

	i.method(p, "join", func(this cell.I, args []cell.I) (cell.I, error) {
		a, err := receiver(this, "join")
		if err != nil {
			return nil, err
		}

		sep := ","
		if len(args) > 0 && args[0] != cell.I(special.Undefined) {
			sep = i.m.ToString(args[0])
		}

		s := make([]string, a.Len())
		for n, v := range a.Items() {
			if !special.IsNullish(v) {
				s[n] = i.m.ToString(v)
			}
		}

		return str.New(strings.Join(s, sep)), nil
	})

	i.method(p, "pop", func(this cell.I, _ []cell.I) (cell.I, error) {
		a, err := receiver(this, "pop")
		if err != nil {
			return nil, err
		}

		return a.Pop(), nil
	})

	i.method(p, "push", func(this cell.I, args []cell.I) (cell.I, error) {
		a, err := receiver(this, "push")
		if err != nil {
			return nil, err
		}

		for _, v := range args {
			a.Append(v)
		}

		return num.Int(a.Len()), nil
	})
}

func (i *installer) errors() {
	kinds := []exception.Kind{
		exception.Error,
		exception.Range,
		exception.Reference,
		exception.Syntax,
		exception.Type,
	}

	for _, k := range kinds {
		k := k

		create := func(_ cell.I, args []cell.I) (cell.I, error) {
			msg := ""
			if len(args) > 0 && args[0] != cell.I(special.Undefined) {
				msg = i.m.ToString(args[0])
			}

			return exception.New(k, msg), nil
		}

		i.constructor(string(k), create, create)
	}

	i.method(i.m.Prototype(string(exception.Error)), "toString",
		func(this cell.I, _ []cell.I) (cell.I, error) {
			if e, ok := this.(*exception.T); ok {
				return str.New(e.String()), nil
			}

			return str.New(i.m.ToString(this)), nil
		},
	)
}

func (i *installer) numbers() {
	i.constructor(machine.Number,
		func(_ cell.I, args []cell.I) (cell.I, error) {
			if len(args) == 0 {
				return num.Int(0), nil
			}

			return num.New(i.m.ToNumber(args[0])), nil
		},
		nil,
	)

	i.method(i.m.Prototype(machine.Number), "toString",
		func(this cell.I, _ []cell.I) (cell.I, error) {
			return str.New(i.m.ToString(this)), nil
		},
	)
}

func (i *installer) objects() {
	c := i.constructor(machine.Object,
		func(_ cell.I, args []cell.I) (cell.I, error) {
			if len(args) > 0 && !special.IsNullish(args[0]) {
				return args[0], nil
			}

			return object.New(i.m.Prototype(machine.Object)), nil
		},
		func(_ cell.I, _ []cell.I) (cell.I, error) {
			return object.New(i.m.Prototype(machine.Object)), nil
		},
	)

	c.Define("keys", i.m.NewNative("keys", func(_ cell.I, args []cell.I) (cell.I, error) {
		keys := array.New()

		if len(args) > 0 && object.Is(args[0]) {
			for _, k := range object.To(args[0]).Keys() {
				keys.Append(str.New(k))
			}
		}

		return keys, nil
	}, nil))

	i.method(i.m.Prototype(machine.Object), "hasOwnProperty",
		func(this cell.I, args []cell.I) (cell.I, error) {
			if len(args) == 0 || !object.Is(this) {
				return boolean.False, nil
			}

			return boolean.Bool(object.To(this).Has(i.m.ToString(args[0]))), nil
		},
	)

	i.method(i.m.Prototype(machine.Object), "toString",
		func(this cell.I, _ []cell.I) (cell.I, error) {
			return str.New(i.m.ToString(this)), nil
		},
	)
}

func (i *installer) strings() {
	i.constructor(machine.String,
		func(_ cell.I, args []cell.I) (cell.I, error) {
			if len(args) == 0 {
				return str.New(""), nil
			}

			return str.New(i.m.ToString(args[0])), nil
		},
		nil,
	)

	p := i.m.Prototype(machine.String)

	i.method(p, "charAt", func(this cell.I, args []cell.I) (cell.I, error) {
		r := []rune(i.m.ToString(this))

		n := 0
		if len(args) > 0 {
			n = int(i.m.ToNumber(args[0]))
		}

		if n < 0 || n >= len(r) {
			return str.New(""), nil
		}

		return str.New(string(r[n])), nil
	})

	i.method(p, "indexOf", func(this cell.I, args []cell.I) (cell.I, error) {
		s := i.m.ToString(this)

		sub := "undefined"
		if len(args) > 0 {
			sub = i.m.ToString(args[0])
		}

		n := strings.Index(s, sub)
		if n > 0 {
			n = len([]rune(s[:n]))
		}

		return num.Int(n), nil
	})

	i.method(p, "toUpperCase", func(this cell.I, _ []cell.I) (cell.I, error) {
		return str.New(strings.ToUpper(i.m.ToString(this))), nil
	})

	i.method(p, "toLowerCase", func(this cell.I, _ []cell.I) (cell.I, error) {
		return str.New(strings.ToLower(i.m.ToString(this))), nil
	})
}

func receiver(this cell.I, method string) (*array.T, error) {
	if !array.Is(this) {
		return nil, exception.Newf(exception.Type, "Array.prototype.%s called on non-array", method)
	}

	return array.To(this), nil
}
