// Released under an MIT license. See LICENSE.

//go:build !unix

package limits

func stack() (int, bool) {
	return 0, false
}
