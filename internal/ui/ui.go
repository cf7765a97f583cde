// Released under an MIT license. See LICENSE.

// Package ui provides a command-line interface for the ember language.
package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
	"github.com/michaelmacinnis/ember/internal/common/interface/literal"
	"github.com/michaelmacinnis/ember/internal/common/type/special"
	"github.com/michaelmacinnis/ember/internal/reader"
	"github.com/michaelmacinnis/ember/internal/reader/ast"
	"github.com/michaelmacinnis/ember/internal/system/history"
	"github.com/michaelmacinnis/ember/internal/system/trace"
)

const (
	primary   = "> "
	secondary = "... "
)

// Evaluator is the interface for things that want to process parsed
// programs.
type Evaluator interface {
	Execute(p *ast.Program) (cell.I, error)
}

// Run prompts for input until end of input, sending each complete program
// to e. History is loaded from and saved to the file at path, if not empty.
func Run(e Evaluator, r *reader.T, path string, w io.Writer) error {
	cooked, err := liner.TerminalMode()
	if err != nil {
		return err
	}

	cli := liner.NewLiner()
	defer cli.Close()

	uncooked, err := liner.TerminalMode()
	if err != nil {
		return err
	}

	if path != "" {
		if err := history.Load(path, cli.ReadHistory); err != nil {
			trace.T().Errorf("loading history: %v", err)
		}
	}

	cli.SetCtrlCAborts(true)

	s := &session{evaluator: e, reader: r, output: w}

	for {
		if err := uncooked.ApplyMode(); err != nil {
			return err
		}

		line, err := cli.Prompt(s.prompt())

		if merr := cooked.ApplyMode(); merr != nil {
			return merr
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			s.abort()

			continue
		} else if err != nil {
			fmt.Fprintln(w)

			break
		}

		if line != "" {
			cli.AppendHistory(line)
		}

		s.input(line)
	}

	if path != "" {
		return history.Save(path, cli.WriteHistory)
	}

	return nil
}

type session struct {
	evaluator Evaluator
	output    io.Writer
	reader    *reader.T
}

func (s *session) abort() {
	s.reader.Reset()
}

func (s *session) input(line string) {
	p, err := s.reader.Scan(line + "\n")
	if err != nil {
		fmt.Fprintln(s.output, err)

		return
	}

	if p == nil {
		return
	}

	c, err := s.evaluator.Execute(p)
	if err != nil {
		fmt.Fprintln(s.output, err)

		return
	}

	if c != nil && c != cell.I(special.Undefined) {
		fmt.Fprintln(s.output, literal.String(c))
	}
}

func (s *session) prompt() string {
	if s.reader.Pending() {
		return secondary
	}

	return primary
}
