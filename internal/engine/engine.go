// Released under an MIT license. See LICENSE.

// Package engine provides an evaluator for ember code.
package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/exception"
	"github.com/michaelmacinnis/ember/internal/engine/boot"
	"github.com/michaelmacinnis/ember/internal/engine/builtins"
	"github.com/michaelmacinnis/ember/internal/engine/compile"
	"github.com/michaelmacinnis/ember/internal/engine/machine"
	"github.com/michaelmacinnis/ember/internal/engine/unit"
	"github.com/michaelmacinnis/ember/internal/reader"
	"github.com/michaelmacinnis/ember/internal/reader/ast"
	"github.com/michaelmacinnis/ember/internal/reader/parser"
	"github.com/michaelmacinnis/ember/internal/system/trace"
)

// Options configures an engine. Zero values select the defaults.
type Options struct {
	machine.Options

	// Depth limits statement and expression nesting.
	Depth int

	// Output receives everything printed by scripts.
	Output io.Writer
}

// T (engine) is a facade in front of the machinery for evaluating ember
// code.
type T struct {
	depth   int
	machine *machine.T
}

// New creates a new engine with the built-in globals installed and the
// prelude evaluated.
func New(o Options) *T {
	if o.Depth <= 0 {
		o.Depth = parser.DefaultDepth
	}

	if o.Output == nil {
		o.Output = os.Stdout
	}

	m := machine.New(o.Options)

	builtins.Install(m, o.Output, o.Depth)

	e := &T{depth: o.Depth, machine: m}

	if _, err := e.Evaluate("boot", boot.Script()); err != nil {
		panic("boot: " + err.Error())
	}

	return e
}

// Compile parses and compiles text.
func (e *T) Compile(name, text string) (*unit.T, error) {
	p, err := reader.Parse(name, text, e.depth)
	if err != nil {
		return nil, incomplete(err)
	}

	return compile.Program(p)
}

// Depth returns the nesting limit for code read by the engine.
func (e *T) Depth() int {
	return e.depth
}

// Evaluate parses, compiles, and runs text. It returns the value of the
// last expression statement.
func (e *T) Evaluate(name, text string) (cell.I, error) {
	u, err := e.Compile(name, text)
	if err != nil {
		return nil, err
	}

	return e.Run(u)
}

// Execute compiles and runs a parsed program.
func (e *T) Execute(p *ast.Program) (cell.I, error) {
	u, err := compile.Program(p)
	if err != nil {
		return nil, err
	}

	return e.Run(u)
}

// Machine returns the engine's interpreter.
func (e *T) Machine() *machine.T {
	return e.machine
}

// Run executes a compiled program. Internal failures are returned as
// errors and leave the engine usable.
func (e *T) Run(u *unit.T) (r cell.I, err error) {
	defer func() {
		x := recover()
		if x == nil {
			return
		}

		e.machine.Catch()

		trace.T().Errorf("internal error: %v", x)

		r, err = nil, fmt.Errorf("internal error: %v", x)
	}()

	return e.machine.Run(u)
}

func incomplete(err error) error {
	if errors.Is(err, parser.ErrIncomplete) {
		return exception.New(exception.Syntax, "Unexpected end of input")
	}

	return err
}
