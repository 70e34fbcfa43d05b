package common

import "math"

// InputEpsilon is the magnitude below which an analog axis counts as released.
const InputEpsilon = 0.01

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Sign returns -1, 0 or +1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Approach moves current toward target by at most maxDelta without overshooting.
func Approach(current, target, maxDelta float64) float64 {
	if maxDelta <= 0 {
		return current
	}
	d := target - current
	if math.Abs(d) <= maxDelta {
		return target
	}
	return current + Sign(d)*maxDelta
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearZero reports whether an input axis is inside the dead-zone.
func NearZero(v float64) bool {
	return math.Abs(v) <= InputEpsilon
}
