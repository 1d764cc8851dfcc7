package vmath

import "math"

// DegToRad converts degrees to radians
const DegToRad = math.Pi / 180

// MoveTowards moves current toward target by at most maxDelta without overshoot
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// Clamp01 clamps value to [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps value to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapAngle normalizes an angle to (-π, π]
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// ApproxEqual compares floats within an absolute tolerance
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
