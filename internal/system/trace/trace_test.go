// Released under an MIT license. See LICENSE.

package trace

import (
	"strings"
	"testing"
)

func TestEnable(t *testing.T) {
	defer Disable()

	if Enabled() {
		t.Fatal("tracing enabled before Enable")
	}

	var b strings.Builder

	if err := Enable(&b, "debug"); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	if !Enabled() {
		t.Fatal("tracing not enabled after Enable")
	}

	T().Debugf("call %s", "f")
	Syntax().Infof("nesting %d", 3)

	out := b.String()
	for _, want := range []string{"call f", "nesting 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output %q does not contain %q", out, want)
		}
	}

	Disable()

	b.Reset()
	T().Errorf("dropped")

	if b.Len() != 0 {
		t.Errorf("expected no output after Disable, got %q", b.String())
	}
}
