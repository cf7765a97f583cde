// Released under an MIT license. See LICENSE.

package instr

import (
	"fmt"
	"io"
)

// Disassemble writes one line per instruction in code to w. If annotate
// is not nil its result, when not empty, is appended as a comment.
func Disassemble(w io.Writer, code []byte, annotate func(Instruction) string) error {
	d := NewDecoder(code)

	for d.Next() {
		i := d.Instruction()

		line := fmt.Sprintf("%6d  %-24s", i.PC, i.String())

		if i.Op.Relative() {
			line += fmt.Sprintf(" ; -> %d", i.Target())
		} else if annotate != nil {
			if s := annotate(i); s != "" {
				line += " ; " + s
			}
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
