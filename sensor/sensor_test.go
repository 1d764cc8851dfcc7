package sensor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/spatial"
	"github.com/lixenwraith/vi-traffic/vmath"
)

var east = vmath.Vec2{X: 1}

func obstacle(x, y float64) spatial.Entry {
	return spatial.Entry{ID: uuid.New(), Category: core.CategoryNPC, Position: vmath.Vec2{X: x, Y: y}, Radius: 0.5}
}

func TestDetectProjectsAhead(t *testing.T) {
	obs := obstacle(5, 0)
	cands := []spatial.Entry{obs}

	// Detection circle at (2,0) radius 2 does not reach the collider spanning [4.5,5.5]
	_, ok := Detect(vmath.Vec2{}, east, 2, 2, uuid.Nil, core.ObstacleMask, cands)
	assert.False(t, ok)

	// At (3,0) the circle reaches 5, overlapping
	hit, ok := Detect(vmath.Vec2{X: 1}, east, 2, 2, uuid.Nil, core.ObstacleMask, cands)
	require.True(t, ok)
	assert.Equal(t, obs.ID, hit.ID)
}

func TestDetectExcludesSelf(t *testing.T) {
	self := obstacle(2, 0)
	_, ok := Detect(vmath.Vec2{}, east, 2, 2, self.ID, core.ObstacleMask, []spatial.Entry{self})
	assert.False(t, ok)
}

func TestDetectMask(t *testing.T) {
	wp := obstacle(2, 0)
	wp.Category = core.CategoryWaypoint
	scenery := obstacle(2, 0)
	scenery.Category = core.CategoryScenery

	_, ok := Detect(vmath.Vec2{}, east, 2, 2, uuid.Nil, core.ObstacleMask, []spatial.Entry{wp, scenery})
	assert.False(t, ok)

	veh := obstacle(2, 0)
	veh.Category = core.CategoryVehicle
	hit, ok := Detect(vmath.Vec2{}, east, 2, 2, uuid.Nil, core.ObstacleMask, []spatial.Entry{wp, veh})
	require.True(t, ok)
	assert.Equal(t, veh.ID, hit.ID)
}

func TestDetectTieBreak(t *testing.T) {
	near := obstacle(2.5, 0)
	far := obstacle(3.5, 0)
	hit, ok := Detect(vmath.Vec2{}, east, 2, 2, uuid.Nil, core.ObstacleMask, []spatial.Entry{far, near})
	require.True(t, ok)
	assert.Equal(t, near.ID, hit.ID, "nearest to detection point wins")

	// Equidistant: lowest ID wins regardless of order
	a := obstacle(2, 1)
	b := obstacle(2, -1)
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	hit, ok = Detect(vmath.Vec2{}, east, 2, 2, uuid.Nil, core.ObstacleMask, []spatial.Entry{b, a})
	require.True(t, ok)
	assert.Equal(t, a.ID, hit.ID)

	hit, ok = Detect(vmath.Vec2{}, east, 2, 2, uuid.Nil, core.ObstacleMask, []spatial.Entry{a, b})
	require.True(t, ok)
	assert.Equal(t, a.ID, hit.ID)
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, Config{Radius: 2, Lookahead: 2})
	assert.ErrorIs(t, err, ErrMissingSource)

	grid := spatial.NewGrid(orb.Bound{Max: orb.Point{10, 10}}, 2)
	_, err = New(grid, Config{Radius: 0, Lookahead: 2})
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = New(grid, Config{Radius: 2, Lookahead: -1})
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	s, err := New(grid, Config{Radius: 2, Lookahead: 2})
	require.NoError(t, err)
	assert.Equal(t, core.ObstacleMask, s.Config().Mask)
}

func TestProximitySensorReading(t *testing.T) {
	grid := spatial.NewGrid(orb.Bound{Max: orb.Point{10, 10}}, 2)
	obs := obstacle(5, 0)
	grid.Rebuild([]spatial.Entry{obs})

	s, err := New(grid, Config{Radius: 2, Lookahead: 2})
	require.NoError(t, err)

	_, ok := s.Detect(vmath.Vec2{}, east, uuid.New())
	assert.False(t, ok)
	r := s.Last()
	assert.False(t, r.Detected)
	assert.Equal(t, vmath.Vec2{X: 2}, r.Point)
	assert.Equal(t, 2.0, r.Radius)

	hit, ok := s.Detect(vmath.Vec2{X: 1}, east, uuid.New())
	require.True(t, ok)
	assert.Equal(t, obs.ID, hit.ID)
	r = s.Last()
	assert.True(t, r.Detected)
	assert.Equal(t, obs.ID, r.Hit.ID)
	assert.Equal(t, vmath.Vec2{X: 3}, r.Point)
}
