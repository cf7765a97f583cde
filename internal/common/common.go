// Released under an MIT license. See LICENSE.

// Package common defines interfaces shared by ember's cell types.
package common

import (
	"fmt"

	"github.com/michaelmacinnis/ember/internal/common/interface/cell"
)

type Stringer = fmt.Stringer

// String returns the string value for a cell, if it has one.
func String(c cell.I) (string, bool) {
	s, ok := c.(Stringer)
	if !ok {
		return "", false
	}

	return s.String(), true
}
