package vehicle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/vmath"
)

const frame = time.Second / 50

func newVehicle() (*core.Body, *Controller) {
	body := core.NewBody(core.CategoryVehicle, 1, vmath.Vec2{}, 0)
	return body, NewController(body, DefaultProfile())
}

func TestAcceleratesTowardMaxSpeed(t *testing.T) {
	body, c := newVehicle()
	c.SetInput(Input{Throttle: 1})

	c.Step(frame)
	assert.InDelta(t, 5*0.02, c.Speed(), 1e-9)

	for i := 0; i < 200; i++ {
		c.Step(frame)
	}
	assert.InDelta(t, 10, c.Speed(), 1e-9)
	assert.InDelta(t, 10, body.Speed(), 1e-9)
	assert.Greater(t, body.Position.X, 0.0)
}

func TestCoastsToStop(t *testing.T) {
	_, c := newVehicle()
	c.SetInput(Input{Throttle: 1})
	for i := 0; i < 50; i++ {
		c.Step(frame)
	}
	c.SetInput(Input{Throttle: 0.005})
	prev := c.Speed()
	c.Step(frame)
	assert.InDelta(t, prev-3*0.02, c.Speed(), 1e-9, "inside the deadzone counts as released")

	for i := 0; i < 500; i++ {
		c.Step(frame)
	}
	assert.Equal(t, 0.0, c.Speed())
}

func TestReverse(t *testing.T) {
	body, c := newVehicle()
	c.SetInput(Input{Throttle: -1})
	for i := 0; i < 20; i++ {
		c.Step(frame)
	}
	assert.Less(t, c.Speed(), 0.0)
	assert.Less(t, body.Position.X, 0.0)
}

func TestNoTurnWhenStationary(t *testing.T) {
	body, c := newVehicle()
	c.SetInput(Input{Steer: 1})
	c.Step(frame)
	assert.Equal(t, 0.0, body.Heading)
}

func TestSteerRightTurnsClockwise(t *testing.T) {
	body, c := newVehicle()
	c.SetInput(Input{Throttle: 1})
	for i := 0; i < 50; i++ {
		c.Step(frame)
	}
	c.SetInput(Input{Throttle: 1, Steer: 1})
	c.Step(frame)
	assert.Less(t, body.Heading, 0.0)

	c.SetInput(Input{Throttle: 1, Steer: -1})
	c.Step(frame)
	c.Step(frame)
	assert.Greater(t, body.Heading, 0.0)
}

func TestSpeedFactorScalesTurn(t *testing.T) {
	body, c := newVehicle()
	// One frame of throttle gives 0.1 u/s, a tenth of the full-authority speed
	c.SetInput(Input{Throttle: 1})
	c.Step(frame)
	c.SetInput(Input{Throttle: 1, Steer: 1})
	before := body.Heading
	c.Step(frame)

	full := DefaultProfile().TurnSpeed * 0.02
	turned := before - body.Heading
	assert.Greater(t, turned, 0.0)
	assert.Less(t, turned, full)
}

func TestInputClamped(t *testing.T) {
	_, c := newVehicle()
	c.SetInput(Input{Throttle: 3, Steer: -7})
	assert.Equal(t, Input{Throttle: 1, Steer: -1}, c.Input())
}

func TestPlaneKept(t *testing.T) {
	body, c := newVehicle()
	body.Position.Z = 4
	c.SetInput(Input{Throttle: 1})
	c.Step(frame)
	assert.Equal(t, 0.0, body.Position.Z)
}
