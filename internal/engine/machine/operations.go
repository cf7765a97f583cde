// Released under an MIT license. See LICENSE.

package machine

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/michaelmacinnis/ember/internal/common"
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/common/type/array"
	"github.com/michaelmacinnis/ember/internal/common/type/boolean"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/common/type/num"
	"github.com/michaelmacinnis/ember/internal/common/type/object"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine/callee"
	"github.com/michaelmacinnis/ember/internal/engine/instr"
)

// ToNumber converts c to a number.
func (m *machine) ToNumber(c cell.I) float64 {
	return m.toNumber(c)
}

// ToString converts c to a string.
func (m *machine) ToString(c cell.I) string {
	return m.toString(c)
}

// GetProperty returns the property k of c.
func (m *machine) GetProperty(c cell.I, k string) cell.I {
	return m.getProp(c, k)
}

func (m *machine) binary(op instr.Op, l, r cell.I) cell.I {
	switch op {
	case instr.Add:
		return m.add(l, r)
	case instr.Eq:
		return boolean.Bool(m.looseEqual(l, r))
	case instr.Ne:
		return boolean.Bool(!m.looseEqual(l, r))
	case instr.StrictEq:
		return boolean.Bool(l.Equal(r))
	case instr.StrictNe:
		return boolean.Bool(!l.Equal(r))
	case instr.Lt:
		return boolean.Bool(m.compare(l, r, func(c int) bool { return c < 0 }))
	case instr.Le:
		return boolean.Bool(m.compare(l, r, func(c int) bool { return c <= 0 }))
	case instr.Gt:
		return boolean.Bool(m.compare(l, r, func(c int) bool { return c > 0 }))
	case instr.Ge:
		return boolean.Bool(m.compare(l, r, func(c int) bool { return c >= 0 }))
	case instr.In:
		return m.in(l, r)
	case instr.InstanceOf:
		return m.instanceOf(l, r)
	}

	a, b := m.toNumber(l), m.toNumber(r)

	switch op {
	case instr.Sub:
		return num.New(a - b)
	case instr.Mul:
		return num.New(a * b)
	case instr.Div:
		return num.New(a / b)
	case instr.Mod:
		return num.New(math.Mod(a, b))
	case instr.Exp:
		return num.New(math.Pow(a, b))
	case instr.Shl:
		return num.New(float64(toInt32(a) << (toUint32(b) & 31)))
	case instr.Shr:
		return num.New(float64(toInt32(a) >> (toUint32(b) & 31)))
	case instr.UShr:
		return num.New(float64(toUint32(a) >> (toUint32(b) & 31)))
	case instr.BitAnd:
		return num.New(float64(toInt32(a) & toInt32(b)))
	case instr.BitOr:
		return num.New(float64(toInt32(a) | toInt32(b)))
	case instr.BitXor:
		return num.New(float64(toInt32(a) ^ toInt32(b)))
	}

	panic("machine: " + op.String() + " is not a binary operator")
}

func (m *machine) add(l, r cell.I) cell.I {
	l, r = primitive(l), primitive(r)

	if str.Is(l) || str.Is(r) {
		return str.New(m.toString(l) + m.toString(r))
	}

	return num.New(m.toNumber(l) + m.toNumber(r))
}

func (m *machine) compare(l, r cell.I, test func(int) bool) bool {
	l, r = primitive(l), primitive(r)

	if str.Is(l) && str.Is(r) {
		return test(strings.Compare(str.To(l).String(), str.To(r).String()))
	}

	a, b := m.toNumber(l), m.toNumber(r)

	switch {
	case math.IsNaN(a), math.IsNaN(b):
		return false
	case a < b:
		return test(-1)
	case a > b:
		return test(1)
	}

	return test(0)
}

func (m *machine) getElem(o, k cell.I) cell.I {
	if array.Is(o) {
		if i, ok := index(k); ok {
			return array.To(o).Get(i)
		}
	}

	return m.getProp(o, m.toString(k))
}

func (m *machine) getProp(o cell.I, k string) cell.I {
	switch {
	case special.IsNullish(o):
		return m.typeError("Cannot read property '%s' of %s", k, describe(special.OrUndefined(o)))
	case array.Is(o):
		a := array.To(o)
		if k == "length" {
			return num.Int(a.Len())
		}

		if i, err := strconv.Atoi(k); err == nil {
			return a.Get(i)
		}
	case str.Is(o):
		s := str.To(o).String()
		if k == "length" {
			return num.Int(utf8.RuneCountInString(s))
		}

		if i, err := strconv.Atoi(k); err == nil {
			if r := []rune(s); i >= 0 && i < len(r) {
				return str.New(string(r[i]))
			}

			return special.Undefined
		}
	case exception.Is(o):
		if v, ok := exception.To(o).Get(k); ok {
			return v
		}
	}

	g, ok := o.(object.Getter)
	if ok {
		if v, ok := g.Get(k); ok {
			return v
		}
	}

	if p := m.prototypeOf(o); p != nil {
		v, _ := p.Get(k)

		return v
	}

	return special.Undefined
}

func (m *machine) in(k, o cell.I) cell.I {
	name := m.toString(k)

	switch {
	case array.Is(o):
		if i, ok := index(k); ok {
			return boolean.Bool(i < array.To(o).Len())
		}

		return boolean.Bool(name == "length")
	case object.Is(o), callee.Is(o), exception.Is(o):
		_, ok := o.(object.Getter).Get(name)

		return boolean.Bool(ok)
	}

	return m.typeError("Cannot use 'in' operator to search for '%s' in %s", name, describe(o))
}

func (m *machine) instanceOf(v, f cell.I) cell.I {
	c, ok := f.(*callee.T)
	if !ok {
		return m.typeError("Right-hand side of 'instanceof' is not callable")
	}

	if !isObject(v) {
		return boolean.False
	}

	target, ok := c.Get("prototype")
	if !ok || !object.Is(target) {
		return boolean.False
	}

	for p := m.prototypeOf(v); p != nil; p = p.Prototype() {
		if p == object.To(target) {
			return boolean.True
		}
	}

	return boolean.False
}

// Keys returns an array of the enumerable property names of c.
func (m *machine) keys(c cell.I) cell.I {
	keys := array.New()

	switch {
	case array.Is(c):
		for i := 0; i < array.To(c).Len(); i++ {
			keys.Append(str.New(strconv.Itoa(i)))
		}
	case str.Is(c):
		for i := range []rune(str.To(c).String()) {
			keys.Append(str.New(strconv.Itoa(i)))
		}
	case object.Is(c):
		for _, k := range object.To(c).Keys() {
			keys.Append(str.New(k))
		}
	}

	return keys
}

func (m *machine) looseEqual(l, r cell.I) bool {
	switch {
	case special.IsNullish(l) || special.IsNullish(r):
		return special.IsNullish(l) && special.IsNullish(r)
	case boolean.Is(l):
		return m.looseEqual(num.New(m.toNumber(l)), r)
	case boolean.Is(r):
		return m.looseEqual(l, num.New(m.toNumber(r)))
	case isObject(l) && isObject(r):
		return l.Equal(r)
	}

	l, r = primitive(l), primitive(r)

	if num.Is(l) || num.Is(r) {
		return m.toNumber(l) == m.toNumber(r)
	}

	return l.Equal(r)
}

func (m *machine) prototypeOf(c cell.I) *object.T {
	switch c := c.(type) {
	case *object.T:
		return c.Prototype()
	case *callee.T:
		return c.Object().Prototype()
	case *exception.T:
		return m.protos[string(c.Kind())]
	}

	switch {
	case array.Is(c):
		return m.protos[Array]
	case boolean.Is(c):
		return m.protos[Boolean]
	case num.Is(c):
		return m.protos[Number]
	case str.Is(c):
		return m.protos[String]
	}

	return nil
}

func (m *machine) setElem(o, k, v cell.I) {
	if array.Is(o) {
		if i, ok := index(k); ok {
			array.To(o).Set(i, v)

			return
		}
	}

	m.setProp(o, m.toString(k), v)
}

func (m *machine) setProp(o cell.I, k string, v cell.I) {
	switch {
	case special.IsNullish(o):
		m.typeError("Cannot set property '%s' of %s", k, describe(special.OrUndefined(o)))
	case array.Is(o):
		if i, err := strconv.Atoi(k); err == nil {
			array.To(o).Set(i, v)
		}
	default:
		if s, ok := o.(object.Setter); ok {
			s.Define(k, v)
		}
	}
}

func (m *machine) toNumber(c cell.I) float64 {
	switch {
	case num.Is(c):
		return num.To(c).Float()
	case str.Is(c):
		return num.Parse(str.To(c).String())
	case boolean.Is(c):
		if boolean.To(c).Bool() {
			return 1
		}

		return 0
	case c == cell.I(special.Null):
		return 0
	case array.Is(c):
		return num.Parse(m.toString(c))
	}

	return math.NaN()
}

func (m *machine) toString(c cell.I) string {
	switch {
	case c == nil:
		return "undefined"
	case array.Is(c):
		items := array.To(c).Items()

		s := make([]string, len(items))
		for i, v := range items {
			if !special.IsNullish(v) && v != c {
				s[i] = m.toString(v)
			}
		}

		return strings.Join(s, ",")
	}

	if s, ok := common.String(c); ok {
		return s
	}

	return "[" + c.Name() + "]"
}

func describe(c cell.I) string {
	if str.Is(c) {
		return str.To(c).String()
	}

	return literal.String(c)
}

func index(k cell.I) (int, bool) {
	if !num.Is(k) {
		return 0, false
	}

	f := num.To(k).Float()
	i := int(f)

	return i, i >= 0 && float64(i) == f
}

func isObject(c cell.I) bool {
	switch {
	case array.Is(c), callee.Is(c), exception.Is(c), object.Is(c):
		return true
	}

	return false
}

func primitive(c cell.I) cell.I {
	if isObject(c) {
		return str.New(c.(interface{ String() string }).String())
	}

	return c
}

func toInt32(f float64) int32 {
	return int32(toUint32(f))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return uint32(int64(math.Mod(math.Trunc(f), 1<<32)))
}
