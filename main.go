// Released under an MIT license. See LICENSE.

/*
Ember is a small embeddable script engine. Run a script with

	ember fib.js 20

evaluate a command with

	ember -c 'print(6 * 7)'

or start an interactive session by running ember with no arguments.

Settings are read from ~/.ember.yaml or the file named by $EMBER_CONFIG.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/type/array"
	"github.com/michaelmacinnis/ember/internal/common/type/str"
	"github.com/michaelmacinnis/ember/internal/engine"
	"github.com/michaelmacinnis/ember/internal/engine/compile"
	"github.com/michaelmacinnis/ember/internal/engine/machine"
	"github.com/michaelmacinnis/ember/internal/engine/unit"
	"github.com/michaelmacinnis/ember/internal/reader"
	"github.com/michaelmacinnis/ember/internal/reader/ast"
	"github.com/michaelmacinnis/ember/internal/system/config"
	"github.com/michaelmacinnis/ember/internal/system/options"
	"github.com/michaelmacinnis/ember/internal/system/trace"
	"github.com/michaelmacinnis/ember/internal/ui"
)

type evaluator struct {
	*engine.T

	disassemble bool
	listing     io.Writer
}

// Execute compiles and runs p, printing the compiled code first if asked.
func (e *evaluator) Execute(p *ast.Program) (cell.I, error) {
	u, err := compile.Program(p)
	if err != nil {
		return nil, err
	}

	return e.run(u)
}

func (e *evaluator) run(u *unit.T) (cell.I, error) {
	if e.disassemble {
		if err := u.Disassemble(e.listing); err != nil {
			return nil, err
		}
	}

	return e.Run(u)
}

func main() {
	options.Parse()

	os.Exit(run(os.Stdin, os.Stdout, os.Stderr))
}

func run(stdin io.Reader, stdout, stderr io.Writer) int {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)

		return 1
	}

	level := c.Trace
	if options.Trace() {
		level = "debug"
	}

	if level != "" {
		if err := trace.Enable(stderr, level); err != nil {
			fmt.Fprintln(stderr, err)

			return 1
		}
	}

	e := &evaluator{
		T: engine.New(engine.Options{
			Options: machine.Options{
				MaxCallDepth: c.Stack.Depth,
				StackSlots:   c.Stack.Slots,
			},
			Depth:  c.Syntax.Depth,
			Output: stdout,
		}),
		disassemble: options.Disassemble(),
		listing:     stdout,
	}

	args := array.New()
	for _, a := range options.Args() {
		args.Append(str.New(a))
	}

	e.Machine().Define("arguments", args)

	if options.Interactive() {
		if err := ui.Run(e, reader.New("repl", e.Depth()), c.History, stdout); err != nil {
			fmt.Fprintln(stderr, err)

			return 1
		}

		return 0
	}

	name, text := "command", options.Command()

	switch {
	case options.Script() != "":
		name = options.Script()

		b, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintln(stderr, err)

			return 1
		}

		text = string(b)
	case text == "":
		name = "stdin"

		b, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintln(stderr, err)

			return 1
		}

		text = string(b)
	}

	return evaluate(e, name, text, stderr)
}

func evaluate(e *evaluator, name, text string, stderr io.Writer) int {
	u, err := e.Compile(name, text)
	if err == nil {
		_, err = e.run(u)
	}

	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)

		return 1
	}

	return 0
}
