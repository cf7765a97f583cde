// Released under an MIT license. See LICENSE.

//go:build unix

package limits

import (
	"math"

	"golang.org/x/sys/unix"
)

func stack() (int, bool) {
	var rl unix.Rlimit

	if err := unix.Getrlimit(unix.RLIMIT_STACK, &rl); err != nil {
		return 0, false
	}

	if rl.Cur == unix.RLIM_INFINITY || rl.Cur > math.MaxInt32 {
		return 0, false
	}

	return int(rl.Cur), true
}
