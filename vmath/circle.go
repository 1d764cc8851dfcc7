package vmath

// Circle utilities for sensor and collider checks

// CircleContains returns true if point is inside or on the circle boundary
func CircleContains(center Vec2, radius float64, p Vec2) bool {
	return V2DistSq(center, p) <= radius*radius
}

// CirclesOverlap returns true if two circles intersect or touch
// A zero radius degenerates to point containment
func CirclesOverlap(c1 Vec2, r1 float64, c2 Vec2, r2 float64) bool {
	sum := r1 + r2
	return V2DistSq(c1, c2) <= sum*sum
}

// AspectRatio constants for terminal character cells (width:height = 1:2)
const (
	TerminalAspect    = 0.5
	TerminalAspectInv = 2.0
)
