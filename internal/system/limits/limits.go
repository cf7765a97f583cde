// Released under an MIT license. See LICENSE.

// Package limits derives ember's default nesting limits from the size of
// the process stack.
package limits

// Fallback is the stack size assumed when the real limit is unknown or
// unlimited.
const Fallback = 8 << 20

const (
	callBytes   = 800
	syntaxBytes = 8192
)

// CallDepth returns the default maximum number of nested calls.
func CallDepth() int {
	return clamp(Stack()/callBytes, 1000, 10000)
}

// Stack returns the size of the process stack in bytes.
func Stack() int {
	n, ok := stack()
	if !ok || n <= 0 {
		return Fallback
	}

	return n
}

// SyntaxDepth returns the default maximum nesting of parsed expressions.
func SyntaxDepth() int {
	return clamp(Stack()/syntaxBytes, 256, 1000)
}

func clamp(n, lo, hi int) int {
	switch {
	case n < lo:
		return lo
	case n > hi:
		return hi
	}

	return n
}
