package render

import "github.com/gdamore/tcell/v2"

// Palette
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background
	RgbGrid       = tcell.NewRGBColor(40, 42, 58) // Faint grid dots

	RgbWaypoint      = tcell.NewRGBColor(255, 215, 0)   // Gold
	RgbWaypointLabel = tcell.NewRGBColor(180, 180, 180) // Gray

	RgbAgentDirect    = tcell.NewRGBColor(100, 150, 255) // Blue
	RgbAgentDiverting = tcell.NewRGBColor(255, 80, 80)   // Red
	RgbDetection      = tcell.NewRGBColor(0, 139, 139)   // Dark cyan
	RgbDetectionHit   = tcell.NewRGBColor(0, 220, 220)   // Bright cyan
	RgbDivertPoint    = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbVehicle        = tcell.NewRGBColor(144, 238, 144) // Grass green

	RgbStatusBg   = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)
)

// Glyphs
const (
	GlyphWaypoint    = '◆'
	GlyphDivertPoint = 'x'
	GlyphVehicle     = '@'
	GlyphDetection   = '·'
)

// headingArrows index by octant, counter-clockwise from +X
var headingArrows = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
