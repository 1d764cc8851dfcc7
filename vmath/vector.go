package vmath

import "math"

// Vec2 is a float64 planar vector, X right and Y up
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero2 is the zero vector
var Zero2 = Vec2{}

func V2Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2Scale(v Vec2, s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// V2AddScaled returns a + v*s, the common "project along direction" form
func V2AddScaled(a, v Vec2, s float64) Vec2 {
	return Vec2{a.X + v.X*s, a.Y + v.Y*s}
}

func V2Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// V2MagSq returns squared magnitude without sqrt
func V2MagSq(v Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2Mag(v Vec2) float64 {
	return math.Sqrt(V2MagSq(v))
}

// V2Normalize returns unit vector, zero-safe
func V2Normalize(v Vec2) Vec2 {
	mag := V2Mag(v)
	if mag == 0 {
		return Vec2{}
	}
	inv := 1.0 / mag
	return Vec2{v.X * inv, v.Y * inv}
}

// V2IsZero reports whether both components are exactly zero
func V2IsZero(v Vec2) bool {
	return v.X == 0 && v.Y == 0
}

// V2Perpendicular returns vector rotated 90° counter-clockwise
func V2Perpendicular(v Vec2) Vec2 {
	return Vec2{-v.Y, v.X}
}

// V2Rotate rotates vector by angle in radians (CCW)
func V2Rotate(v Vec2, angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// V2DistSq returns squared distance between points
func V2DistSq(a, b Vec2) float64 {
	return V2MagSq(V2Sub(a, b))
}

func V2Dist(a, b Vec2) float64 {
	return math.Sqrt(V2DistSq(a, b))
}

// V2ClampMagnitude limits vector to maxMag while preserving direction
func V2ClampMagnitude(v Vec2, maxMag float64) Vec2 {
	magSq := V2MagSq(v)
	if magSq <= maxMag*maxMag || magSq == 0 {
		return v
	}
	return V2Scale(v, maxMag/math.Sqrt(magSq))
}

// HeadingVector returns the unit forward vector for a heading in radians (0 = +X, CCW)
func HeadingVector(heading float64) Vec2 {
	sin, cos := math.Sincos(heading)
	return Vec2{cos, sin}
}

// VectorHeading returns the heading of v in radians, 0 for the zero vector
func VectorHeading(v Vec2) float64 {
	if V2IsZero(v) {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}
