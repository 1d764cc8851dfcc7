package avoidance

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/vi-traffic/spatial"
	"github.com/lixenwraith/vi-traffic/vmath"
	"github.com/lixenwraith/vi-traffic/waypoint"
)

// State names in the avoidance graph
const (
	StateDirect    = "Direct"
	StateDiverting = "Diverting"
)

// Triggers fired by the controller
const (
	TriggerObstacle       = "Obstacle"
	TriggerDetourComplete = "DetourComplete"
)

// Driver is the path follower the controller commands
type Driver interface {
	SetTarget(target vmath.Vec2)
	HasReachedTarget() bool
	Velocity() vmath.Vec2
}

// Sensor reports the body ahead of an agent
type Sensor interface {
	Detect(pos, forward vmath.Vec2, self uuid.UUID) (spatial.Entry, bool)
}

// Waypoints is the read-only destination set
type Waypoints interface {
	All() []waypoint.Waypoint
}

// Selector picks the next destination
type Selector interface {
	SelectNext(current waypoint.Waypoint, all []waypoint.Waypoint) (waypoint.Waypoint, error)
}

// Anchor is the per-agent diversion point, rewritten each diverting tick
type Anchor struct {
	Point  vmath.Vec2
	Active bool
}

// ResumeReason tells why a diverting agent returned to its route
type ResumeReason string

const (
	ResumeDetourComplete ResumeReason = "detour_complete"
	ResumeStalled        ResumeReason = "stalled"
)

// Hooks observe controller events, nil members are skipped
type Hooks struct {
	OnArrive func(from, to waypoint.Waypoint)
	OnDivert func(obstacle spatial.Entry)
	OnResume func(reason ResumeReason)
}

// Stats counts controller events over its lifetime
type Stats struct {
	Arrivals          int
	Diversions        int
	DetourCompletions int
	StallRecoveries   int
	SelectFailures    int
	// RouteDistance sums the straight-line length of completed legs
	RouteDistance float64
}
