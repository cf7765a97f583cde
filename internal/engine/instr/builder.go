// Released under an MIT license. See LICENSE.

package instr

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Label marks a position in code under construction.
type Label int

// Builder assembles instructions. Jumps refer to labels and are encoded
// as narrow as their final offsets allow.
type Builder struct {
	items  []item
	labels []int // Item index for each label, or -1 if not yet placed.
}

type kind int

const (
	instruction kind = iota
	label
	align
)

type item struct {
	kind     kind
	op       Op
	operands [MaxOperands]int
	target   Label // For relative instructions.
	value    int   // Label number or alignment.
	wide     bool
}

// Align pads with Nop until the next instruction starts at a multiple of n.
func (b *Builder) Align(n int) {
	b.items = append(b.items, item{kind: align, value: n})
}

// Emit appends an instruction with the given operands.
func (b *Builder) Emit(op Op, operands ...int) {
	if op.Relative() {
		panic("instr: " + op.String() + " needs a label")
	}

	if len(operands) != op.Arity() {
		panic(fmt.Sprintf("instr: %s takes %d operands, got %d", op, op.Arity(), len(operands)))
	}

	i := item{kind: instruction, op: op}
	for n, v := range operands {
		if v < math.MinInt32 || v > math.MaxInt32 {
			panic(fmt.Sprintf("instr: operand %d out of range", v))
		}

		i.operands[n] = v
		i.wide = i.wide || v < math.MinInt8 || v > math.MaxInt8
	}

	b.items = append(b.items, i)
}

// Jump appends a relative instruction whose target is l.
func (b *Builder) Jump(op Op, l Label) {
	if !op.Relative() {
		panic("instr: " + op.String() + " is not relative")
	}

	b.items = append(b.items, item{kind: instruction, op: op, target: l})
}

// Len returns the number of instructions emitted so far.
func (b *Builder) Len() int {
	n := 0

	for _, i := range b.items {
		if i.kind == instruction {
			n++
		}
	}

	return n
}

// Mark places l at the current position.
func (b *Builder) Mark(l Label) {
	if b.labels[l] != -1 {
		panic(fmt.Sprintf("instr: label %d placed twice", l))
	}

	b.labels[l] = len(b.items)
	b.items = append(b.items, item{kind: label, value: int(l)})
}

// NewLabel returns a label that has not yet been placed.
func (b *Builder) NewLabel() Label {
	b.labels = append(b.labels, -1)

	return Label(len(b.labels) - 1)
}

// Bytes encodes the instructions. Relative operands start narrow and are
// widened until every offset fits.
func (b *Builder) Bytes() []byte {
	for l, at := range b.labels {
		if at == -1 {
			panic(fmt.Sprintf("instr: label %d never placed", l))
		}
	}

	offsets := make([]int, len(b.items)+1)

	for changed := true; changed; {
		changed = false

		b.layout(offsets)

		for n := range b.items {
			i := &b.items[n]
			if i.kind != instruction || !i.op.Relative() || i.wide {
				continue
			}

			off := offsets[b.labels[i.target]] - offsets[n+1]
			if off < math.MinInt8 || off > math.MaxInt8 {
				i.wide = true
				changed = true
			}
		}
	}

	code := make([]byte, 0, offsets[len(b.items)])

	for n, i := range b.items {
		switch i.kind {
		case label:
		case align:
			for len(code) < offsets[n+1] {
				code = append(code, byte(Nop))
			}
		case instruction:
			if i.op.Relative() {
				i.operands[0] = offsets[b.labels[i.target]] - offsets[n+1]
			}

			code = encode(code, i)
		}
	}

	return code
}

func (b *Builder) layout(offsets []int) {
	pc := 0

	for n, i := range b.items {
		offsets[n] = pc

		switch i.kind {
		case label:
		case align:
			if r := pc % i.value; r != 0 {
				pc += i.value - r
			}
		case instruction:
			pc += i.op.Size(i.wide)
		}
	}

	offsets[len(b.items)] = pc
}

func encode(code []byte, i item) []byte {
	if i.wide {
		code = append(code, byte(Wide))
	}

	code = append(code, byte(i.op))

	for n := 0; n < i.op.Arity(); n++ {
		v := i.operands[n]

		if i.wide {
			var buf [Extended]byte

			binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)))
			code = append(code, buf[:]...)
		} else {
			code = append(code, byte(int8(v)))
		}
	}

	return code
}
