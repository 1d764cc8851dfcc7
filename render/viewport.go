package render

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/lixenwraith/vi-traffic/vmath"
)

// Viewport maps world coordinates onto a cell rectangle
// One world unit spans twice as many columns as rows to keep circles round on terminal cells
type Viewport struct {
	bound  orb.Bound
	x0, y0 int // Top-left cell
	w, h   int
	scale  float64 // Columns per world unit
}

// NewViewport fits bound into a w x h cell area at (x0, y0)
func NewViewport(bound orb.Bound, x0, y0, w, h int) Viewport {
	bw := max(bound.Right()-bound.Left(), 1e-9)
	bh := max(bound.Top()-bound.Bottom(), 1e-9)
	scale := min(float64(w-1)/bw, float64(h-1)*vmath.TerminalAspectInv/bh)
	if scale <= 0 || math.IsInf(scale, 0) {
		scale = 1
	}
	return Viewport{bound: bound, x0: x0, y0: y0, w: w, h: h, scale: scale}
}

// ToCell converts a world point, ok is false outside the area
func (v Viewport) ToCell(p vmath.Vec2) (int, int, bool) {
	cx := v.x0 + int(math.Round((p.X-v.bound.Left())*v.scale))
	cy := v.y0 + int(math.Round((v.bound.Top()-p.Y)*v.scale*vmath.TerminalAspect))
	ok := cx >= v.x0 && cx < v.x0+v.w && cy >= v.y0 && cy < v.y0+v.h
	return cx, cy, ok
}

// Scale returns columns per world unit
func (v Viewport) Scale() float64 {
	return v.scale
}

// ArrowFor picks the arrow glyph nearest heading
func ArrowFor(heading float64) rune {
	octant := int(math.Round(vmath.WrapAngle(heading)/(math.Pi/4))) & 7
	return headingArrows[octant]
}
