package core

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/vi-traffic/vmath"
)

// Category classifies bodies for sensor queries
type Category uint8

const (
	CategoryNone Category = iota
	CategoryNPC
	CategoryVehicle
	CategoryWaypoint
	CategoryScenery
)

// String returns the lowercase category name
func (c Category) String() string {
	switch c {
	case CategoryNPC:
		return "npc"
	case CategoryVehicle:
		return "vehicle"
	case CategoryWaypoint:
		return "waypoint"
	case CategoryScenery:
		return "scenery"
	default:
		return "none"
	}
}

// CategoryMask is a bitset of categories
type CategoryMask uint16

// Mask returns the single-bit mask for c
func (c Category) Mask() CategoryMask {
	return 1 << CategoryMask(c)
}

// Has reports whether c is in the mask
func (m CategoryMask) Has(c Category) bool {
	return m&c.Mask() != 0
}

// MaskOf builds a mask from categories
func MaskOf(cats ...Category) CategoryMask {
	var m CategoryMask
	for _, c := range cats {
		m |= c.Mask()
	}
	return m
}

// ObstacleMask is the default set of categories an NPC steers around
var ObstacleMask = MaskOf(CategoryNPC, CategoryVehicle)

// Body is a simulated agent: identity, collider and motion
type Body struct {
	ID       uuid.UUID
	Category Category
	Radius   float64 // Collider radius
	Kinetic
}

// NewBody creates a body with a fresh random identity at a planar position
func NewBody(cat Category, radius float64, pos vmath.Vec2, z float64) *Body {
	return NewBodyWithID(uuid.New(), cat, radius, pos, z)
}

// NewBodyWithID creates a body with a caller-supplied identity
func NewBodyWithID(id uuid.UUID, cat Category, radius float64, pos vmath.Vec2, z float64) *Body {
	return &Body{
		ID:       id,
		Category: cat,
		Radius:   radius,
		Kinetic: Kinetic{
			Position: vmath.V3FFrom2D(pos, z),
		},
	}
}
