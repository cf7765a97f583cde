// Released under an MIT license. See LICENSE.

package options

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		argv        []string
		tty         bool
		args        []string
		command     string
		disassemble bool
		interactive bool
		script      string
		trace       bool
	}{
		{
			argv: []string{"fib.js", "10"},
			tty:  true,
			args: []string{"fib.js", "10"}, script: "fib.js",
		},
		{
			argv: []string{"-dt", "fib.js"},
			args: []string{"fib.js"}, script: "fib.js",
			disassemble: true, trace: true,
		},
		{
			argv: []string{"-c", "print(1)"},
			tty:  true,
			args: []string{"ember"}, command: "print(1)",
		},
		{
			argv: []string{"-c", "print(1)", "name", "a", "b"},
			args: []string{"name", "a", "b"}, command: "print(1)",
		},
		{
			argv: []string{},
			tty:  true,
			args: []string{"ember"}, interactive: true,
		},
		{
			argv: []string{},
			args: []string{"ember"},
		},
		{
			argv: []string{"-i"},
			tty:  true,
			args: []string{"ember"},
		},
		{
			argv: []string{"-i"},
			args: []string{"ember"}, interactive: true,
		},
	}

	for _, test := range tests {
		parse(test.argv, test.tty)

		if !reflect.DeepEqual(Args(), test.args) {
			t.Errorf("%v: expected args %v, got %v", test.argv, test.args, Args())
		}

		if Command() != test.command {
			t.Errorf("%v: expected command %q, got %q", test.argv, test.command, Command())
		}

		if Disassemble() != test.disassemble {
			t.Errorf("%v: expected disassemble %v", test.argv, test.disassemble)
		}

		if Interactive() != test.interactive {
			t.Errorf("%v: expected interactive %v", test.argv, test.interactive)
		}

		if Script() != test.script {
			t.Errorf("%v: expected script %q, got %q", test.argv, test.script, Script())
		}

		if Trace() != test.trace {
			t.Errorf("%v: expected trace %v", test.argv, test.trace)
		}
	}
}
