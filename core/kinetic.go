package core

import "github.com/lixenwraith/vi-traffic/vmath"

// Kinetic is the motion state shared by a body and whatever drives it
type Kinetic struct {
	// Position is world-space; Z is the out-of-plane axis, pinned by the plane constraint
	Position vmath.Vec3F
	// Velocity is planar, units per second
	Velocity vmath.Vec2
	// Heading in radians, 0 = +X, counter-clockwise
	Heading float64
}

// Position2D returns the planar position
func (k *Kinetic) Position2D() vmath.Vec2 {
	return vmath.V3FXY(k.Position)
}

// Forward returns the unit heading vector
func (k *Kinetic) Forward() vmath.Vec2 {
	return vmath.HeadingVector(k.Heading)
}

// Speed returns the planar velocity magnitude
func (k *Kinetic) Speed() float64 {
	return vmath.V2Mag(k.Velocity)
}
