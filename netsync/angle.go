package netsync

import "math"

const twoPi = 2 * math.Pi

// NormalizeAngle wraps a into [-π, π] by whole turns.
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	if math.Abs(a) > 4*math.Pi {
		a = math.Remainder(a, twoPi)
	}
	for a > math.Pi {
		a -= twoPi
	}
	for a < -math.Pi {
		a += twoPi
	}
	return a
}

// LerpAngle moves from toward to by fraction t along the shorter arc.
// The result is not normalized.
func LerpAngle(from, to, t float64) float64 {
	return from + NormalizeAngle(to-from)*t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
