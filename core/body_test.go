package core

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/vi-traffic/vmath"
)

func TestCategoryMask(t *testing.T) {
	m := MaskOf(CategoryNPC, CategoryVehicle)
	assert.True(t, m.Has(CategoryNPC))
	assert.True(t, m.Has(CategoryVehicle))
	assert.False(t, m.Has(CategoryWaypoint))
	assert.False(t, m.Has(CategoryScenery))
	assert.Equal(t, m, ObstacleMask)
	assert.Equal(t, "vehicle", CategoryVehicle.String())
}

func TestNewBody(t *testing.T) {
	a := NewBody(CategoryNPC, 0.5, vmath.Vec2{X: 1, Y: 2}, 0)
	b := NewBody(CategoryNPC, 0.5, vmath.Vec2{X: 1, Y: 2}, 0)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, vmath.Vec2{X: 1, Y: 2}, a.Position2D())
	assert.Equal(t, 0.0, a.Position.Z)
}

func TestKineticForwardAndSpeed(t *testing.T) {
	k := Kinetic{Heading: math.Pi, Velocity: vmath.Vec2{X: 3, Y: 4}}
	f := k.Forward()
	assert.InDelta(t, -1, f.X, 1e-12)
	assert.InDelta(t, 0, f.Y, 1e-12)
	assert.InDelta(t, 5, k.Speed(), 1e-12)
}

func TestNewBodyWithID(t *testing.T) {
	id := uuid.MustParse("00000000-0000-4000-8000-000000000001")
	b := NewBodyWithID(id, CategoryVehicle, 1, vmath.Vec2{X: 3}, 2)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, CategoryVehicle, b.Category)
	assert.Equal(t, vmath.Vec3F{X: 3, Y: 0, Z: 2}, b.Position)
}
