// Released under an MIT license. See LICENSE.

// Package boot provides the ember prelude: library code written in ember
// and run when an engine is created.
package boot

import _ "embed" // Blank import required by embed.

//go:embed boot.js
var script string //nolint:gochecknoglobals

// Script returns the prelude.
func Script() string {
	return script
}
