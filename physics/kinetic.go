package physics

import (
	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/vmath"
)

// ConstrainPlane pins the body to the z plane, discarding any out-of-plane drift
func ConstrainPlane(k *core.Kinetic, z float64) {
	k.Position = vmath.V3FOnPlane(k.Position, z)
}

// Integrate advances position by velocity over sec seconds
func Integrate(k *core.Kinetic, sec float64) {
	k.Position.X += k.Velocity.X * sec
	k.Position.Y += k.Velocity.Y * sec
}

// TurnTowards rotates heading toward desired by at most maxDelta radians
func TurnTowards(heading, desired, maxDelta float64) float64 {
	diff := vmath.WrapAngle(desired - heading)
	diff = vmath.Clamp(diff, -maxDelta, maxDelta)
	return vmath.WrapAngle(heading + diff)
}
