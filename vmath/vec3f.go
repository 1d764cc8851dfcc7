package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector
// Bodies live in 3D so the integrator stays general; the simulation plane is Z = const
type Vec3F struct {
	X, Y, Z float64
}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FXY projects onto the simulation plane
func V3FXY(v Vec3F) Vec2 {
	return Vec2{v.X, v.Y}
}

// V3FFrom2D lifts a planar point to 3D at height z
func V3FFrom2D(p Vec2, z float64) Vec3F {
	return Vec3F{X: p.X, Y: p.Y, Z: z}
}

// V3FOnPlane returns v with the out-of-plane coordinate forced to z
func V3FOnPlane(v Vec3F, z float64) Vec3F {
	v.Z = z
	return v
}
