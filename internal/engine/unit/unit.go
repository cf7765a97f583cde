// Released under an MIT license. See LICENSE.

// Package unit defines the compiled form of a function.
package unit

import (
	"fmt"
	"io"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/common/struct/loc"
	"github.com/michaelmacinnis/ember/internal/engine/instr"
)

// Program is the name given to the unit compiled for a whole script.
const Program = "%program"

// T (unit) is one compiled function.
//
// The activation layout is the locals, in order, followed by the formals,
// in order. Locals never repeat and never name a formal.
type T struct {
	Code      []byte
	Constants []cell.I
	Formals   []string
	Locals    []string
	Name      string
	Source    loc.T
	Units     []*T // Nested functions, referenced by Closure.

	// Dynamic units have their formal parameter list bound after
	// compilation and never use the fast call path.
	Dynamic bool

	// SimpleCall is set by the compiler when every binding the unit
	// declares was resolved to a fixed slot.
	SimpleCall bool

	// ExternalDependencies is set when the unit reads bindings declared
	// by an enclosing function.
	ExternalDependencies bool
}

type unit = T

// CanUseSimpleCall returns true if every binding can be resolved to a
// fixed slot: no formal is repeated and the formals are known. The
// compiler records the answer in SimpleCall.
func (u *unit) CanUseSimpleCall() bool {
	if u.Dynamic {
		return false
	}

	seen := map[string]bool{}

	for _, f := range u.Formals {
		if seen[f] {
			return false
		}

		seen[f] = true
	}

	return true
}

// Disassemble writes the code for u, followed by the code for each nested
// unit, to w.
func (u *unit) Disassemble(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s(%d formals, %d locals) %s\n",
		u.Name, len(u.Formals), len(u.Locals), u.Source.String())
	if err != nil {
		return err
	}

	err = instr.Disassemble(w, u.Code, u.annotate)
	if err != nil {
		return err
	}

	for _, n := range u.Units {
		if err = n.Disassemble(w); err != nil {
			return err
		}
	}

	return nil
}

// Slot returns the fixed slot for name in the static layout.
// A repeated formal resolves to its right-most occurrence.
func (u *unit) Slot(name string) (int, bool) {
	for i := len(u.Formals) - 1; i >= 0; i-- {
		if u.Formals[i] == name {
			return len(u.Locals) + i, true
		}
	}

	for i, l := range u.Locals {
		if l == name {
			return i, true
		}
	}

	return -1, false
}

func (u *unit) annotate(i instr.Instruction) string {
	switch i.Op {
	case instr.LoadConst, instr.LoadName, instr.StoreName, instr.TypeOfName, instr.DeclareName,
		instr.GetProp, instr.SetProp, instr.DefineField, instr.CallProperty:
		if k := i.Operand(0); k >= 0 && k < len(u.Constants) {
			return literal.String(u.Constants[k])
		}
	case instr.Closure:
		if k := i.Operand(0); k >= 0 && k < len(u.Units) {
			return u.Units[k].Name
		}
	case instr.LoadLocal, instr.StoreLocal:
		s := i.Operand(0)
		if s < len(u.Locals) {
			return u.Locals[s]
		}

		if s -= len(u.Locals); s < len(u.Formals) {
			return u.Formals[s]
		}
	}

	return ""
}
