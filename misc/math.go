package misc

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Abs returns the absolute value of x.
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp restricts x to [low, high].
func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// FloorMod is the modulo whose result takes the sign of n, so FloorMod(-1, 255) is 254.
func FloorMod(a int, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// Round rounds half away from zero.
func Round(x float64) int {
	return int(math.Round(x))
}
