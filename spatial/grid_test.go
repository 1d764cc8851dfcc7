package spatial

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/vmath"
)

func testBound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 20}}
}

func entry(cat core.Category, x, y, r float64) Entry {
	return Entry{ID: uuid.New(), Category: cat, Position: vmath.Vec2{X: x, Y: y}, Radius: r}
}

func TestNewGridDimensions(t *testing.T) {
	g := NewGrid(testBound(), 4)
	assert.Equal(t, 6, g.Width)
	assert.Equal(t, 6, g.Height)
	assert.Len(t, g.Cells, 36)
}

func TestQueryCircleOverlap(t *testing.T) {
	g := NewGrid(testBound(), 4)
	near := entry(core.CategoryNPC, 5, 0, 0.5)
	far := entry(core.CategoryNPC, 15, 15, 0.5)
	g.Rebuild([]Entry{near, far})

	got := g.QueryCircle(vmath.Vec2{X: 3, Y: 0}, 2, core.ObstacleMask, nil)
	require.Len(t, got, 1)
	assert.Equal(t, near.ID, got[0].ID)

	// Touching circles count as overlap
	got = g.QueryCircle(vmath.Vec2{X: 2.5, Y: 0}, 2, core.ObstacleMask, nil)
	assert.Len(t, got, 1)

	got = g.QueryCircle(vmath.Vec2{X: 2.4, Y: 0}, 2, core.ObstacleMask, nil)
	assert.Empty(t, got)
}

func TestQueryCircleMask(t *testing.T) {
	g := NewGrid(testBound(), 4)
	g.Rebuild([]Entry{
		entry(core.CategoryNPC, 5, 5, 0.5),
		entry(core.CategoryWaypoint, 5, 5, 0.5),
		entry(core.CategoryScenery, 5, 5, 0.5),
		entry(core.CategoryVehicle, 5, 5, 1),
	})

	got := g.QueryCircle(vmath.Vec2{X: 5, Y: 5}, 1, core.ObstacleMask, nil)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.True(t, core.ObstacleMask.Has(e.Category))
	}
}

func TestQueryCircleLargeRadiusAcrossCells(t *testing.T) {
	g := NewGrid(testBound(), 2)
	big := entry(core.CategoryVehicle, 10, 10, 6)
	g.Rebuild([]Entry{big})

	// Query circle sits several cells away from the center cell but overlaps the collider
	got := g.QueryCircle(vmath.Vec2{X: 10, Y: 3}, 1.5, core.ObstacleMask, nil)
	require.Len(t, got, 1)
	assert.Equal(t, big.ID, got[0].ID)
}

func TestOutOfBoundEntriesClampToEdge(t *testing.T) {
	g := NewGrid(testBound(), 4)
	out := entry(core.CategoryNPC, -3, -3, 0.5)
	g.Rebuild([]Entry{out})

	got := g.QueryCircle(vmath.Vec2{X: -2, Y: -2}, 1, core.ObstacleMask, nil)
	require.Len(t, got, 1)

	got = g.QueryCircle(vmath.Vec2{X: 1, Y: 1}, 1, core.ObstacleMask, nil)
	assert.Empty(t, got)
}

func TestCellOverflow(t *testing.T) {
	g := NewGrid(testBound(), 4)
	entries := make([]Entry, 0, MaxEntriesPerCell+5)
	for i := 0; i < MaxEntriesPerCell+5; i++ {
		entries = append(entries, entry(core.CategoryNPC, 1, 1, 0.2))
	}
	g.Rebuild(entries)

	assert.Equal(t, len(entries), g.Len())
	got := g.QueryCircle(vmath.Vec2{X: 1, Y: 1}, 0.5, core.ObstacleMask, nil)
	assert.Len(t, got, len(entries))
}

func TestRebuildClears(t *testing.T) {
	g := NewGrid(testBound(), 4)
	g.Rebuild([]Entry{entry(core.CategoryNPC, 1, 1, 0.5)})
	g.Rebuild(nil)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.QueryCircle(vmath.Vec2{X: 1, Y: 1}, 2, core.ObstacleMask, nil))
}

func TestEntryOf(t *testing.T) {
	b := core.NewBody(core.CategoryNPC, 0.5, vmath.Vec2{X: 2, Y: 3}, 0)
	e := EntryOf(b)
	assert.Equal(t, b.ID, e.ID)
	assert.Equal(t, vmath.Vec2{X: 2, Y: 3}, e.Position)
	assert.Equal(t, 0.5, e.Radius)
}
