// Released under an MIT license. See LICENSE.

package history

import (
	"io"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	err := Save(path, func(w io.Writer) (int, error) {
		return io.WriteString(w, "var a = 1\na + 1\n")
	})
	if err != nil {
		t.Fatal(err)
	}

	var got string

	err = Load(path, func(r io.Reader) (int, error) {
		b, err := io.ReadAll(r)
		got = string(b)

		return len(b), err
	})
	if err != nil {
		t.Fatal(err)
	}

	if got != "var a = 1\na + 1\n" {
		t.Errorf("unexpected history %q", got)
	}
}

func TestMissing(t *testing.T) {
	called := false

	err := Load(filepath.Join(t.TempDir(), "missing"), func(r io.Reader) (int, error) {
		called = true

		return 0, nil
	})
	if err != nil || called {
		t.Errorf("expected a missing file to be skipped, got %v", err)
	}
}
