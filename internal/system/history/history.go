// Released under an MIT license. See LICENSE.

// Package history persists REPL input between sessions.
package history

import (
	"errors"
	"io"
	"os"
)

// Load calls read with the contents of the history file at path. A missing
// file is not an error.
func Load(path string, read func(r io.Reader) (int, error)) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	_, err = read(f)
	if err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

// Save replaces the history file at path with what write produces.
func Save(path string, write func(w io.Writer) (int, error)) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	_, err = write(f)
	if err != nil {
		f.Close()

		return err
	}

	return f.Close()
}
