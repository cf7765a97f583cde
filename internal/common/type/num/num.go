// Released under an MIT license. See LICENSE.

// Package num provides ember's number type.
package num

import (
	"math"
	"strconv"
	"strings"

	"github.com/michaelmacinnis/ember/internal/common"
	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/common/interface/truth"
)

const name = "number"

// T (num) wraps Go's float64 type.
type T float64

type num = T

//nolint:gochecknoglobals
var small [256]num

// New creates a new num cell. Small integers are shared.
func New(f float64) cell.I {
	if i := int(f); float64(i) == f && i >= 0 && i < len(small) && !math.Signbit(f) {
		return &small[i]
	}

	n := num(f)

	return &n
}

// Int creates a num from the integer i.
func Int(i int) cell.I {
	return New(float64(i))
}

// Parse converts the text s to a num following the rules for
// string-to-number conversion: surrounding space is ignored, the empty
// string is zero, and anything unparsable is NaN.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		if u, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
			return float64(u)
		}

		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return f
}

// Bool returns the boolean value of the num n.
func (n *num) Bool() bool {
	f := n.Float()
	return f != 0 && !math.IsNaN(f)
}

// Equal returns true if c is the same number as the num n.
func (n *num) Equal(c cell.I) bool {
	return Is(c) && n.Float() == To(c).Float()
}

// Float returns the value of the num n as a float64.
func (n *num) Float() float64 {
	return float64(*n)
}

// Literal returns the literal representation of the num n.
func (n *num) Literal() string {
	return n.String()
}

// Name returns the type name for the num n.
func (n *num) Name() string {
	return name
}

// String returns the text of the num n.
func (n *num) String() string {
	return Format(n.Float())
}

// Format renders f the way script code sees it converted to a string.
func Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if math.Abs(f) < 1e21 && f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	a := math.Abs(f)
	if a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)

	i := strings.IndexByte(s, 'e')
	mantissa, exponent := s[:i], s[i+1:]

	sign := exponent[:1]
	exponent = strings.TrimLeft(exponent[1:], "0")

	return mantissa + "e" + sign + exponent
}

// Is returns true if c is a *T.
func Is(c cell.I) bool {
	_, ok := c.(*num)
	return ok
}

// To returns a *T if c is a *T; Otherwise it panics.
func To(c cell.I) *num {
	if n, ok := c.(*num); ok {
		return n
	}

	panic("not a " + name)
}

func init() { //nolint:gochecknoinits
	for i := range small {
		small[i] = num(i)
	}
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t num

	// The num type is a cell.
	_ = cell.I(&t)

	// The num type has a literal representation.
	_ = literal.I(&t)

	// The num type is a stringer.
	_ = common.Stringer(&t)

	// The num type has a truth value.
	_ = truth.I(&t)
}
