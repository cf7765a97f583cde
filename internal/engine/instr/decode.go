// Released under an MIT license. See LICENSE.

package instr

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Instruction is one decoded instruction.
type Instruction struct {
	End      int // Offset of the byte after the instruction.
	Op       Op
	Operands [MaxOperands]int
	PC       int // Offset of the first byte, including any prefix.
	Wide     bool
}

// Operand returns the instruction's n'th operand.
func (i Instruction) Operand(n int) int {
	if n >= i.Op.Arity() {
		panic("instr: " + i.Op.String() + " has no operand " + strconv.Itoa(n))
	}

	return i.Operands[n]
}

// Target returns the absolute offset for a relative instruction.
func (i Instruction) Target() int {
	return i.End + i.Operand(0)
}

func (i Instruction) String() string {
	var b strings.Builder

	b.WriteString(i.Op.String())

	if i.Wide {
		b.WriteString(".w")
	}

	for n := 0; n < i.Op.Arity(); n++ {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(i.Operands[n]))
	}

	return b.String()
}

type state int

const (
	narrow state = iota
	widePending
)

// DecodeOne decodes the instruction at pc and returns it with the offset of
// the following instruction. Nop bytes before the instruction are skipped.
// If only padding remains the result has Op Nop and next is len(code).
//
// Malformed code is an internal error and panics: reading past the end,
// an unknown opcode, or a prefix followed by another prefix or by Nop.
func DecodeOne(code []byte, pc int) (Instruction, int) {
	s := narrow
	start := pc

	for {
		if pc >= len(code) {
			if s == narrow && pc == len(code) {
				return Instruction{End: pc, Op: Nop, PC: pc}, pc
			}

			panic(fmt.Sprintf("instr: decode past end of code at %d", pc))
		}

		op := Op(code[pc])
		pc++

		switch {
		case op == Nop && s == narrow:
			start = pc

			continue
		case op == Wide && s == narrow:
			s = widePending

			continue
		case op == Nop, op == Wide:
			panic(fmt.Sprintf("instr: %s after Wide at %d", op, pc-1))
		case !op.Valid():
			panic(fmt.Sprintf("instr: unknown opcode %d at %d", op, pc-1))
		}

		i := Instruction{Op: op, PC: start, Wide: s == widePending}

		width := Narrow
		if i.Wide {
			width = Extended
		}

		n := op.Arity()
		if pc+n*width > len(code) {
			panic(fmt.Sprintf("instr: %s operands past end of code at %d", op, pc))
		}

		for j := 0; j < n; j++ {
			if i.Wide {
				i.Operands[j] = int(int32(binary.LittleEndian.Uint32(code[pc:])))
			} else {
				i.Operands[j] = int(int8(code[pc]))
			}

			pc += width
		}

		i.End = pc

		return i, pc
	}
}

// Decoder walks a code buffer one instruction at a time.
type Decoder struct {
	code    []byte
	current Instruction
	pc      int
}

// NewDecoder creates a decoder positioned at the start of code.
func NewDecoder(code []byte) *Decoder {
	return &Decoder{code: code}
}

// Instruction returns the instruction decoded by the last call to Next.
func (d *Decoder) Instruction() Instruction {
	return d.current
}

// Next decodes the next instruction. It returns false, with the decoder
// positioned exactly at the end of the code, when none remain.
func (d *Decoder) Next() bool {
	if d.pc == len(d.code) {
		return false
	}

	i, next := DecodeOne(d.code, d.pc)

	d.pc = next

	if i.Op == Nop {
		return false
	}

	d.current = i

	return true
}

// PC returns the offset of the next instruction to decode.
func (d *Decoder) PC() int {
	return d.pc
}

// Seek positions the decoder at pc.
func (d *Decoder) Seek(pc int) {
	if pc < 0 || pc > len(d.code) {
		panic(fmt.Sprintf("instr: seek to %d outside code of length %d", pc, len(d.code)))
	}

	d.pc = pc
}
