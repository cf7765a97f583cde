// Released under an MIT license. See LICENSE.

package limits

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct{ n, lo, hi, want int }{
		{5, 1, 10, 5},
		{0, 1, 10, 1},
		{11, 1, 10, 10},
	}

	for _, test := range tests {
		if got := clamp(test.n, test.lo, test.hi); got != test.want {
			t.Errorf("clamp(%d, %d, %d) = %d, expected %d", test.n, test.lo, test.hi, got, test.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	if Stack() <= 0 {
		t.Fatalf("expected a positive stack size, got %d", Stack())
	}

	if d := CallDepth(); d < 1000 || d > 10000 {
		t.Errorf("call depth %d out of range", d)
	}

	if d := SyntaxDepth(); d < 256 || d > 1000 {
		t.Errorf("syntax depth %d out of range", d)
	}
}
