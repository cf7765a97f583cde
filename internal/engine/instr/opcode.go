// Released under an MIT license. See LICENSE.

// Package instr defines ember's variable-width instruction encoding.
//
// An instruction is an opcode byte followed by its operands. Operands are
// signed and one byte wide unless the instruction is preceded by the Wide
// prefix, in which case each operand is four bytes, little endian. Nop is a
// single padding byte that decoders skip.
package instr

import (
	"strconv"
)

// Op is an instruction opcode.
type Op byte

// Opcodes. The comment on each shows its operands and its effect on the
// value stack (before -- after).
const (
	Nop  Op = iota // Padding.
	Wide           // Prefix: the next instruction has four byte operands.

	LoadUndefined // -- undefined
	LoadNull      // -- null
	LoadTrue      // -- true
	LoadFalse     // -- false
	LoadThis      // -- this
	LoadConst     // k: -- constants[k]
	LoadInt       // n: -- n
	LoadLocal     // s: -- slots[s]
	StoreLocal    // s: v -- v
	LoadName      // k: -- value of the binding named constants[k]
	StoreName     // k: v -- v
	TypeOfName    // k: -- typeof name (undeclared names are "undefined")
	Closure       // k: -- function for the nested unit k
	LoadAcc       // -- accumulator
	StoreAcc      // v --

	GetProp     // k: o -- o[constants[k]]
	SetProp     // k: o v -- v
	GetElem     // o i -- o[i]
	SetElem     // o i v -- v
	NewArray    // n: v1 ... vn -- array
	NewObject   // -- object
	DefineField // k: o v -- o
	Keys        // o -- array of o's enumerable keys

	Neg       // v -- -v
	Plus      // v -- +v
	Not       // v -- !v
	BitNot    // v -- ~v
	TypeOf    // v -- typeof v
	Increment // v -- v+1 (numeric)
	Decrement // v -- v-1 (numeric)
	ToNumber  // v -- Number(v)
	ToString  // v -- String(v)

	Add        // a b -- a+b
	Sub        // a b -- a-b
	Mul        // a b -- a*b
	Div        // a b -- a/b
	Mod        // a b -- a%b
	Exp        // a b -- a**b
	Shl        // a b -- a<<b
	Shr        // a b -- a>>b
	UShr       // a b -- a>>>b
	BitAnd     // a b -- a&b
	BitOr      // a b -- a|b
	BitXor     // a b -- a^b
	Eq         // a b -- a==b
	Ne         // a b -- a!=b
	StrictEq   // a b -- a===b
	StrictNe   // a b -- a!==b
	Lt         // a b -- a<b
	Le         // a b -- a<=b
	Gt         // a b -- a>b
	Ge         // a b -- a>=b
	In         // a b -- a in b
	InstanceOf // a b -- a instanceof b

	Pop  // v --
	Dup  // v -- v v
	Dup2 // a b -- a b a b
	Swap // a b -- b a
	Rot3 // a b c -- c a b
	Rot4 // a b c d -- d a b c

	Jump          // off: --
	JumpFalse     // off: v --
	JumpTrue      // off: v --
	JumpFalseKeep // off: v -- v (jumps) or v -- (falls through)
	JumpTrueKeep  // off: v -- v (jumps) or v -- (falls through)

	Call         // n: f this a1 ... an -- result
	CallProperty // k n: o a1 ... an -- o[constants[k]](a1 ... an)
	Construct    // n: f a1 ... an -- result
	Return       // v --
	Throw        // v --
	SetHandler   // off: -- (exceptions resume at off)
	PopHandler   // --
	Catch        // -- exception

	DeclareName // k: -- (creates the global constants[k] if absent)
	LoadCallee  // -- the function being executed

	count
)

// MaxOperands is the most operands any instruction has.
const MaxOperands = 2

// Operand widths in bytes.
const (
	Narrow   = 1
	Extended = 4
)

//nolint:gochecknoglobals
var (
	arity = [count]int{
		LoadConst: 1, LoadInt: 1, LoadLocal: 1, StoreLocal: 1,
		LoadName: 1, StoreName: 1, TypeOfName: 1, Closure: 1,
		GetProp: 1, SetProp: 1, NewArray: 1, DefineField: 1,
		Jump: 1, JumpFalse: 1, JumpTrue: 1, JumpFalseKeep: 1, JumpTrueKeep: 1,
		Call: 1, CallProperty: 2, Construct: 1, SetHandler: 1,
		DeclareName: 1,
	}

	names = [count]string{
		Nop: "Nop", Wide: "Wide",
		LoadUndefined: "LoadUndefined", LoadNull: "LoadNull",
		LoadTrue: "LoadTrue", LoadFalse: "LoadFalse", LoadThis: "LoadThis",
		LoadConst: "LoadConst", LoadInt: "LoadInt",
		LoadLocal: "LoadLocal", StoreLocal: "StoreLocal",
		LoadName: "LoadName", StoreName: "StoreName",
		TypeOfName: "TypeOfName", Closure: "Closure",
		LoadAcc: "LoadAcc", StoreAcc: "StoreAcc",
		GetProp: "GetProp", SetProp: "SetProp",
		GetElem: "GetElem", SetElem: "SetElem",
		NewArray: "NewArray", NewObject: "NewObject",
		DefineField: "DefineField", Keys: "Keys",
		Neg: "Neg", Plus: "Plus", Not: "Not", BitNot: "BitNot",
		TypeOf: "TypeOf", Increment: "Increment", Decrement: "Decrement",
		ToNumber: "ToNumber", ToString: "ToString",
		Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Mod: "Mod",
		Exp: "Exp", Shl: "Shl", Shr: "Shr", UShr: "UShr",
		BitAnd: "BitAnd", BitOr: "BitOr", BitXor: "BitXor",
		Eq: "Eq", Ne: "Ne", StrictEq: "StrictEq", StrictNe: "StrictNe",
		Lt: "Lt", Le: "Le", Gt: "Gt", Ge: "Ge",
		In: "In", InstanceOf: "InstanceOf",
		Pop: "Pop", Dup: "Dup", Dup2: "Dup2", Swap: "Swap",
		Rot3: "Rot3", Rot4: "Rot4",
		Jump: "Jump", JumpFalse: "JumpFalse", JumpTrue: "JumpTrue",
		JumpFalseKeep: "JumpFalseKeep", JumpTrueKeep: "JumpTrueKeep",
		Call: "Call", CallProperty: "CallProperty", Construct: "Construct",
		Return: "Return", Throw: "Throw",
		SetHandler: "SetHandler", PopHandler: "PopHandler", Catch: "Catch",
		DeclareName: "DeclareName", LoadCallee: "LoadCallee",
	}
)

// Arity returns the number of operands taken by o.
func (o Op) Arity() int {
	return arity[o]
}

// Relative returns true if the operand of o is a code offset. Offsets are
// relative to the end of the instruction.
func (o Op) Relative() bool {
	switch o {
	case Jump, JumpFalse, JumpTrue, JumpFalseKeep, JumpTrueKeep, SetHandler:
		return true
	}

	return false
}

// String returns the name of the opcode o.
func (o Op) String() string {
	if o.Valid() {
		return names[o]
	}

	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Valid returns true if o is a defined opcode.
func (o Op) Valid() bool {
	return o < count
}

// Size returns the encoded size of o, including any prefix.
func (o Op) Size(wide bool) int {
	if wide {
		return 2 + Extended*o.Arity()
	}

	return 1 + Narrow*o.Arity()
}
