// Released under an MIT license. See LICENSE.

// Package options parses ember's command line.
package options

import (
	"os"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
)

// Version is reported by -v.
const Version = "ember 0.1.0"

//nolint:gochecknoglobals
var (
	args        []string
	command     string
	disassemble bool
	interactive bool
	script      string
	trace       bool
	usage       = `ember

Usage:
  ember [-dt] SCRIPT [ARGUMENTS...]
  ember [-dt] -c COMMAND [NAME [ARGUMENTS...]]
  ember [-dit] [-s [ARGUMENTS...]]
  ember -h
  ember -v

Arguments:
  ARGUMENTS  Values for the global arguments array.
  SCRIPT     Path to an ember script. Also used as arguments[0].
  NAME       Override arguments[0].

Options:
  -c, --command=COMMAND  Run the specified command.
  -d, --disassemble      Print compiled code before running it.
  -i, --interactive      Invert interactive mode.
  -s, --stdin            Read commands from stdin.
  -t, --trace            Trace calls and syntax errors to stderr.
  -h, --help             Display this help.
  -v, --version          Print ember version.

If ember's stdin is a TTY, and ember was invoked with no non-option operands
or was explicitly directed to evaluate commands from stdin, interactive mode
is enabled. Otherwise, it is disabled.
`
)

// Args returns the script name followed by any arguments.
func Args() []string {
	return args
}

// Command returns the text passed with -c.
func Command() string {
	return command
}

// Disassemble is true if compiled code should be printed.
func Disassemble() bool {
	return disassemble
}

// Interactive is true if ember should prompt for input.
func Interactive() bool {
	return interactive
}

// Parse parses os.Args.
func Parse() {
	parse(os.Args[1:], isatty.IsTerminal(os.Stdin.Fd()))
}

// Script returns the path of the script to run, if any.
func Script() string {
	return script
}

// Trace is true if tracing was requested.
func Trace() bool {
	return trace
}

func parse(argv []string, tty bool) {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpAndExit}

	opts, err := parser.ParseArgs(usage, argv, Version)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	interactive = false
	script = ""

	command, _ = opts.String("--command")

	name, _ := opts.String("NAME")
	if name == "" {
		name = "ember"
	}

	path, _ := opts.String("SCRIPT")
	if path != "" {
		name = path
		script = path
	} else if command == "" && tty {
		interactive = true
	}

	args, _ = opts["ARGUMENTS"].([]string)
	args = append([]string{name}, args...)

	invert, _ := opts.Bool("--interactive")
	interactive = interactive != invert

	disassemble, _ = opts.Bool("--disassemble")
	trace, _ = opts.Bool("--trace")
}
