package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"github.com/lixenwraith/vi-traffic/engine"
	"github.com/lixenwraith/vi-traffic/parameter"
	"github.com/lixenwraith/vi-traffic/status"
	"github.com/lixenwraith/vi-traffic/vmath"
)

// TerminalRenderer draws world snapshots on a tcell screen
type TerminalRenderer struct {
	screen  tcell.Screen
	bound   orb.Bound
	metrics *status.Registry

	// Toggles
	ShowDetection bool
	ShowLabels    bool
	Paused        bool
}

// NewTerminalRenderer renders the area inside bound, metrics may be nil
func NewTerminalRenderer(screen tcell.Screen, bound orb.Bound, metrics *status.Registry) *TerminalRenderer {
	return &TerminalRenderer{
		screen:        screen,
		bound:         bound,
		metrics:       metrics,
		ShowDetection: true,
		ShowLabels:    true,
	}
}

// RenderFrame draws one snapshot and shows it
func (r *TerminalRenderer) RenderFrame(snap *engine.Snapshot) {
	r.screen.Clear()
	width, height := r.screen.Size()
	base := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', base)

	mapHeight := height - parameter.StatusBarHeight
	if width < 4 || mapHeight < 2 {
		r.screen.Show()
		return
	}
	vp := NewViewport(r.bound, parameter.ViewMarginCells, 0, width-2*parameter.ViewMarginCells, mapHeight)

	// Back to front: sensors, waypoints, divert markers, bodies
	if r.ShowDetection {
		for i := range snap.Agents {
			a := &snap.Agents[i]
			color := RgbDetection
			if a.Detected {
				color = RgbDetectionHit
			}
			r.drawCircle(vp, a.Detection, a.DetectRange, base.Foreground(color))
		}
	}

	for _, wp := range snap.Waypoints {
		x, y, ok := vp.ToCell(wp.Position)
		if !ok {
			continue
		}
		r.screen.SetContent(x, y, GlyphWaypoint, nil, base.Foreground(RgbWaypoint))
		if r.ShowLabels {
			r.drawText(x+1, y, wp.Name, base.Foreground(RgbWaypointLabel), width)
		}
	}

	for i := range snap.Agents {
		a := &snap.Agents[i]
		if a.DivertPoint == nil {
			continue
		}
		if x, y, ok := vp.ToCell(*a.DivertPoint); ok {
			r.screen.SetContent(x, y, GlyphDivertPoint, nil, base.Foreground(RgbDivertPoint))
		}
	}

	for i := range snap.Agents {
		a := &snap.Agents[i]
		x, y, ok := vp.ToCell(a.Position)
		if !ok {
			continue
		}
		color := RgbAgentDirect
		if a.DivertPoint != nil {
			color = RgbAgentDiverting
		}
		r.screen.SetContent(x, y, ArrowFor(a.Heading), nil, base.Foreground(color).Bold(true))
	}

	if v := snap.Vehicle; v != nil {
		if x, y, ok := vp.ToCell(v.Position); ok {
			r.screen.SetContent(x, y, GlyphVehicle, nil, base.Foreground(RgbVehicle).Bold(true))
		}
	}

	r.drawStatusBar(snap, width, height-1)
	r.screen.Show()
}

// drawCircle plots the outline by sampling the perimeter at roughly one point per column
func (r *TerminalRenderer) drawCircle(vp Viewport, center vmath.Vec2, radius float64, style tcell.Style) {
	if radius <= 0 {
		return
	}
	steps := max(int(2*math.Pi*radius*vp.Scale()), 8)
	for i := 0; i < steps; i++ {
		p := vmath.V2AddScaled(center, vmath.HeadingVector(2*math.Pi*float64(i)/float64(steps)), radius)
		if x, y, ok := vp.ToCell(p); ok {
			r.screen.SetContent(x, y, GlyphDetection, nil, style)
		}
	}
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style, limit int) {
	for _, ch := range text {
		if x >= limit {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func (r *TerminalRenderer) drawStatusBar(snap *engine.Snapshot, width, row int) {
	style := tcell.StyleDefault.Background(RgbStatusBg).Foreground(RgbStatusText)
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, row, ' ', nil, style)
	}

	text := fmt.Sprintf(" tick %d | npc %d | diverting %d", snap.Tick, len(snap.Agents), snap.Diverting())
	if snap.Vehicle != nil {
		text += fmt.Sprintf(" | speed %.1f", snap.Vehicle.Speed)
	}
	if r.metrics != nil {
		text += fmt.Sprintf(" | arrivals %d | stalls %d",
			r.metrics.Ints.Get(status.MetricArrivals).Load(),
			r.metrics.Ints.Get(status.MetricStalls).Load())
	}
	if r.Paused {
		text += " | PAUSED"
	}
	r.drawText(0, row, text, style, width)
}
