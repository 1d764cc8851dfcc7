package physics

import (
	"time"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/parameter"
	"github.com/lixenwraith/vi-traffic/vmath"
)

// SeekProfile defines the path follower's motion limits
type SeekProfile struct {
	MaxSpeed     float64 // Cruise speed (units/sec)
	Acceleration float64 // Speed change rate (units/sec²)
	TurnRate     float64 // Max heading change (rad/sec)

	// Arrival
	EndReachedDistance float64 // Distance at which the target counts as reached
	SlowdownDistance   float64 // Braking begins inside this distance (0 = disabled)

	PlaneZ float64
}

// DefaultSeekProfile returns the NPC defaults
func DefaultSeekProfile() SeekProfile {
	return SeekProfile{
		MaxSpeed:           parameter.NPCMaxSpeed,
		Acceleration:       parameter.NPCAcceleration,
		TurnRate:           parameter.NPCTurnRateDeg * vmath.DegToRad,
		EndReachedDistance: parameter.NPCEndReachedDistance,
		SlowdownDistance:   parameter.NPCSlowdownDistance,
		PlaneZ:             parameter.PlaneZ,
	}
}

// SeekDriver steers a body straight at its target, turning at a bounded rate
// and braking on approach; it holds no path, the target is the next point
type SeekDriver struct {
	body    *core.Body
	profile SeekProfile

	target    vmath.Vec2
	hasTarget bool
}

// NewSeekDriver binds a driver to the body it moves
func NewSeekDriver(body *core.Body, profile SeekProfile) *SeekDriver {
	return &SeekDriver{
		body:    body,
		profile: profile,
	}
}

// SetTarget replaces the steering target
func (d *SeekDriver) SetTarget(target vmath.Vec2) {
	d.target = target
	d.hasTarget = true
}

// Target returns the current target and whether one is set
func (d *SeekDriver) Target() (vmath.Vec2, bool) {
	return d.target, d.hasTarget
}

// HasReachedTarget reports whether the body is within the end-reached distance
func (d *SeekDriver) HasReachedTarget() bool {
	if !d.hasTarget {
		return false
	}
	r := d.profile.EndReachedDistance
	return vmath.V2DistSq(d.body.Position2D(), d.target) <= r*r
}

// Velocity returns the body's planar velocity
func (d *SeekDriver) Velocity() vmath.Vec2 {
	return d.body.Velocity
}

// Step integrates one frame of motion toward the target
func (d *SeekDriver) Step(dt time.Duration) {
	sec := dt.Seconds()
	if sec <= 0 {
		return
	}
	k := &d.body.Kinetic
	speed := k.Speed()
	p := &d.profile

	desiredSpeed := 0.0
	if d.hasTarget && !d.HasReachedTarget() {
		to := vmath.V2Sub(d.target, k.Position2D())
		dist := vmath.V2Mag(to)

		k.Heading = TurnTowards(k.Heading, vmath.VectorHeading(to), p.TurnRate*sec)

		desiredSpeed = p.MaxSpeed
		if p.SlowdownDistance > 0 && dist < p.SlowdownDistance {
			desiredSpeed *= dist / p.SlowdownDistance
		}
	}

	speed = vmath.MoveTowards(speed, desiredSpeed, p.Acceleration*sec)
	k.Velocity = vmath.V2Scale(k.Forward(), speed)

	Integrate(k, sec)
	ConstrainPlane(k, p.PlaneZ)
}
