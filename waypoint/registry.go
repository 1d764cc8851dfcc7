package waypoint

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/paulmach/orb"

	"github.com/lixenwraith/vi-traffic/vmath"
)

var (
	ErrTooFewWaypoints   = errors.New("registry needs at least two waypoints")
	ErrDuplicateWaypoint = errors.New("duplicate waypoint name")
	ErrEmptyName         = errors.New("waypoint name is empty")
)

// Waypoint is a named fixed position, identity is the name
type Waypoint struct {
	Name     string
	Position vmath.Vec2
}

// Is reports whether both refer to the same waypoint
func (w Waypoint) Is(other Waypoint) bool {
	return w.Name == other.Name
}

// Point returns the position as an orb point
func (w Waypoint) Point() orb.Point {
	return orb.Point{w.Position.X, w.Position.Y}
}

// Registry is the immutable set of waypoints shared by all agents
type Registry struct {
	items  []Waypoint
	byName map[string]int
	bound  orb.Bound
}

// NewRegistry validates and copies the waypoints
func NewRegistry(items []Waypoint) (*Registry, error) {
	if len(items) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewWaypoints, len(items))
	}

	r := &Registry{
		items:  make([]Waypoint, len(items)),
		byName: make(map[string]int, len(items)),
	}
	copy(r.items, items)

	mp := make(orb.MultiPoint, 0, len(items))
	for i, w := range r.items {
		if w.Name == "" {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyName, i)
		}
		if _, dup := r.byName[w.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWaypoint, w.Name)
		}
		r.byName[w.Name] = i
		mp = append(mp, w.Point())
	}
	r.bound = mp.Bound()

	return r, nil
}

// All returns a copy of the waypoints in declaration order
func (r *Registry) All() []Waypoint {
	out := make([]Waypoint, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the waypoint count
func (r *Registry) Len() int {
	return len(r.items)
}

// Get looks up a waypoint by name
func (r *Registry) Get(name string) (Waypoint, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Waypoint{}, false
	}
	return r.items[i], true
}

// Random picks any waypoint uniformly, used for spawn placement
func (r *Registry) Random(rng *rand.Rand) Waypoint {
	return r.items[rng.IntN(len(r.items))]
}

// Bound returns the axis-aligned box around every waypoint
func (r *Registry) Bound() orb.Bound {
	return r.bound
}
