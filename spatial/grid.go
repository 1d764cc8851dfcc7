package spatial

import (
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/vmath"
)

// MaxEntriesPerCell bounds the inline cell storage, further entries spill to the overflow list
const MaxEntriesPerCell = 15

// Entry is a body snapshot as seen by queries
type Entry struct {
	ID       uuid.UUID
	Category core.Category
	Position vmath.Vec2
	Radius   float64
}

// EntryOf snapshots a body
func EntryOf(b *core.Body) Entry {
	return Entry{
		ID:       b.ID,
		Category: b.Category,
		Position: b.Position2D(),
		Radius:   b.Radius,
	}
}

// Cell holds indices into the grid entry slice
type Cell struct {
	Count   uint8
	Indices [MaxEntriesPerCell]int32
}

// Grid is a dense uniform grid over a world-space bound, rebuilt from scratch every tick
// Positions outside the bound are clamped into edge cells so queries stay exact
type Grid struct {
	Width    int
	Height   int
	CellSize float64
	Cells    []Cell // index = y*Width + x

	origin    vmath.Vec2
	entries   []Entry
	overflow  []int32
	maxRadius float64
}

// NewGrid covers bound with square cells of cellSize
func NewGrid(bound orb.Bound, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	w := int(math.Ceil((bound.Right()-bound.Left())/cellSize)) + 1
	h := int(math.Ceil((bound.Top()-bound.Bottom())/cellSize)) + 1

	return &Grid{
		Width:    w,
		Height:   h,
		CellSize: cellSize,
		Cells:    make([]Cell, w*h),
		origin:   vmath.Vec2{X: bound.Left(), Y: bound.Bottom()},
	}
}

// cellOf maps a world position to clamped cell coordinates
func (g *Grid) cellOf(p vmath.Vec2) (int, int) {
	x := int(math.Floor((p.X - g.origin.X) / g.CellSize))
	y := int(math.Floor((p.Y - g.origin.Y) / g.CellSize))
	return clampInt(x, 0, g.Width-1), clampInt(y, 0, g.Height-1)
}

// Clear removes all entries
func (g *Grid) Clear() {
	for i := range g.Cells {
		g.Cells[i].Count = 0
	}
	g.entries = g.entries[:0]
	g.overflow = g.overflow[:0]
	g.maxRadius = 0
}

// Add inserts one entry
func (g *Grid) Add(e Entry) {
	idx := int32(len(g.entries))
	g.entries = append(g.entries, e)
	if e.Radius > g.maxRadius {
		g.maxRadius = e.Radius
	}

	x, y := g.cellOf(e.Position)
	cell := &g.Cells[y*g.Width+x]
	if cell.Count < MaxEntriesPerCell {
		cell.Indices[cell.Count] = idx
		cell.Count++
		return
	}
	g.overflow = append(g.overflow, idx)
}

// Rebuild replaces the content with a fresh snapshot
func (g *Grid) Rebuild(entries []Entry) {
	g.Clear()
	for _, e := range entries {
		g.Add(e)
	}
}

// Len returns the number of indexed entries
func (g *Grid) Len() int {
	return len(g.entries)
}

// QueryCircle appends to buf every entry in mask whose collider circle overlaps the query circle
func (g *Grid) QueryCircle(center vmath.Vec2, radius float64, mask core.CategoryMask, buf []Entry) []Entry {
	if len(g.entries) == 0 {
		return buf
	}

	reach := radius + g.maxRadius
	x0, y0 := g.cellOf(vmath.Vec2{X: center.X - reach, Y: center.Y - reach})
	x1, y1 := g.cellOf(vmath.Vec2{X: center.X + reach, Y: center.Y + reach})

	for y := y0; y <= y1; y++ {
		row := y * g.Width
		for x := x0; x <= x1; x++ {
			cell := &g.Cells[row+x]
			for i := uint8(0); i < cell.Count; i++ {
				buf = g.appendIfHit(buf, cell.Indices[i], center, radius, mask)
			}
		}
	}
	for _, idx := range g.overflow {
		buf = g.appendIfHit(buf, idx, center, radius, mask)
	}
	return buf
}

func (g *Grid) appendIfHit(buf []Entry, idx int32, center vmath.Vec2, radius float64, mask core.CategoryMask) []Entry {
	e := &g.entries[idx]
	if !mask.Has(e.Category) {
		return buf
	}
	if !vmath.CirclesOverlap(center, radius, e.Position, e.Radius) {
		return buf
	}
	return append(buf, *e)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
