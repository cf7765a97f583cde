// Released under an MIT license. See LICENSE.

// Package ast defines the syntax tree produced by ember's parser.
package ast

import (
	"github.com/michaelmacinnis/ember/internal/common/struct/loc"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Source() loc.T
}

// At records where a node starts.
type At struct {
	Loc loc.T
}

// Source returns the location of the node.
func (a *At) Source() loc.T {
	return a.Loc
}

// Expressions.

type (
	// Array is an array literal or an array destructuring target.
	Array struct {
		At
		Elements []Node
	}

	// Assign is an assignment, simple or compound.
	Assign struct {
		At
		Op     string
		Target Node
		Value  Node
	}

	// Binary is an arithmetic, bitwise, relational or equality operation.
	Binary struct {
		At
		Op    string
		Left  Node
		Right Node
	}

	// Boolean is true or false.
	Boolean struct {
		At
		Value bool
	}

	// Call is a function call.
	Call struct {
		At
		Args   []Node
		Callee Node
	}

	// Conditional is the ternary operator.
	Conditional struct {
		At
		Else Node
		Test Node
		Then Node
	}

	// Function is a function expression or the body of a declaration.
	Function struct {
		At
		Body   []Node
		Name   string
		Params []string
	}

	// Identifier is a reference to a binding.
	Identifier struct {
		At
		Name string
	}

	// Index is a computed member access.
	Index struct {
		At
		Index  Node
		Object Node
	}

	// Logical is && or ||.
	Logical struct {
		At
		Op    string
		Left  Node
		Right Node
	}

	// Member is a named member access.
	Member struct {
		At
		Object   Node
		Property string
	}

	// New is a constructor call.
	New struct {
		At
		Args   []Node
		Callee Node
	}

	// Null is the null literal.
	Null struct {
		At
	}

	// Number is a numeric literal.
	Number struct {
		At
		Value float64
	}

	// Object is an object literal.
	Object struct {
		At
		Properties []Property
	}

	// Sequence is the comma operator.
	Sequence struct {
		At
		Exprs []Node
	}

	// String is a string literal.
	String struct {
		At
		Value string
	}

	// TaggedTemplate applies a tag function to a template.
	TaggedTemplate struct {
		At
		Quasi *Template
		Tag   Node
	}

	// Template is a template literal. There is always one more string than
	// there are substitutions.
	Template struct {
		At
		Exprs   []Node
		Strings []string
	}

	// This is the receiver.
	This struct {
		At
	}

	// Unary is a prefix operator other than ++ and --.
	Unary struct {
		At
		Op      string
		Operand Node
	}

	// Update is ++ or --.
	Update struct {
		At
		Op     string
		Prefix bool
		Target Node
	}
)

// Property is a member of an object literal.
type Property struct {
	Key   string
	Value Node
}

// Statements.

type (
	// Block is a braced list of statements.
	Block struct {
		At
		Body []Node
	}

	// Break exits the innermost loop.
	Break struct {
		At
	}

	// Continue starts the next iteration of the innermost loop.
	Continue struct {
		At
	}

	// Empty is a lone semicolon.
	Empty struct {
		At
	}

	// Expression is an expression evaluated for its effect or value.
	Expression struct {
		At
		Expr Node
	}

	// For is a three clause loop. Any clause may be nil.
	For struct {
		At
		Body   Node
		Init   Node
		Test   Node
		Update Node
	}

	// ForIn iterates over the keys of Object assigning each to Target.
	// When Declare is true Target is an Identifier declared with var.
	ForIn struct {
		At
		Body    Node
		Declare bool
		Object  Node
		Target  Node
	}

	// FunctionDeclaration binds a function in the enclosing scope.
	FunctionDeclaration struct {
		At
		Function *Function
	}

	// If is a conditional statement. Else may be nil.
	If struct {
		At
		Else Node
		Test Node
		Then Node
	}

	// Program is a complete script.
	Program struct {
		At
		Body []Node
	}

	// Return leaves the current function. Value may be nil.
	Return struct {
		At
		Value Node
	}

	// Throw raises an exception.
	Throw struct {
		At
		Value Node
	}

	// Try runs Body and, if it throws, Handler with Param bound.
	Try struct {
		At
		Body    *Block
		Handler *Block
		Param   string
	}

	// Var declares variables.
	Var struct {
		At
		Declarations []Declarator
	}

	// While is a pre-tested loop.
	While struct {
		At
		Body Node
		Test Node
	}
)

// Declarator is one name in a var statement. Init may be nil.
type Declarator struct {
	Init Node
	Name string
}
