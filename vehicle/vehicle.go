package vehicle

import (
	"time"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/parameter"
	"github.com/lixenwraith/vi-traffic/physics"
	"github.com/lixenwraith/vi-traffic/vmath"
)

// Profile defines the vehicle handling
type Profile struct {
	MaxSpeed     float64 // units/sec
	Acceleration float64 // speed gain under throttle, units/sec²
	Deceleration float64 // speed loss when coasting, units/sec²
	TurnSpeed    float64 // rad/sec at full speed factor
	PlaneZ       float64
}

// DefaultProfile returns the built-in handling
func DefaultProfile() Profile {
	return Profile{
		MaxSpeed:     parameter.VehicleMaxSpeed,
		Acceleration: parameter.VehicleAcceleration,
		Deceleration: parameter.VehicleDeceleration,
		TurnSpeed:    parameter.VehicleTurnSpeedDeg * vmath.DegToRad,
		PlaneZ:       parameter.PlaneZ,
	}
}

// Input is the driver's command, both axes in [-1, 1]
// Steer > 0 turns right (clockwise)
type Input struct {
	Throttle float64
	Steer    float64
}

// Controller applies player input to a vehicle body
type Controller struct {
	body    *core.Body
	profile Profile
	input   Input
	speed   float64 // Signed: negative is reverse
}

// NewController binds a controller to its body
func NewController(body *core.Body, profile Profile) *Controller {
	return &Controller{
		body:    body,
		profile: profile,
	}
}

// SetInput replaces the held command, clamping each axis
func (c *Controller) SetInput(in Input) {
	c.input = Input{
		Throttle: vmath.Clamp(in.Throttle, -1, 1),
		Steer:    vmath.Clamp(in.Steer, -1, 1),
	}
}

// Input returns the held command
func (c *Controller) Input() Input {
	return c.input
}

// Speed returns the signed forward speed
func (c *Controller) Speed() float64 {
	return c.speed
}

// Body returns the controlled body
func (c *Controller) Body() *core.Body {
	return c.body
}

// Step integrates one fixed frame: speed first, then rotation scaled by speed
func (c *Controller) Step(dt time.Duration) {
	sec := dt.Seconds()
	if sec <= 0 {
		return
	}
	p := &c.profile
	k := &c.body.Kinetic

	if abs(c.input.Throttle) > parameter.VehicleInputDeadzone {
		c.speed = vmath.MoveTowards(c.speed, c.input.Throttle*p.MaxSpeed, p.Acceleration*sec)
	} else {
		c.speed = vmath.MoveTowards(c.speed, 0, p.Deceleration*sec)
	}
	k.Velocity = vmath.V2Scale(k.Forward(), c.speed)

	// No turning while standing still
	speedFactor := vmath.Clamp01(vmath.V2Mag(k.Velocity) / (p.MaxSpeed * parameter.VehicleSpeedFactorFraction))
	k.Heading = vmath.WrapAngle(k.Heading - c.input.Steer*p.TurnSpeed*speedFactor*sec)

	physics.Integrate(k, sec)
	physics.ConstrainPlane(k, p.PlaneZ)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
