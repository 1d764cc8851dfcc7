package engine

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/vi-traffic/vmath"
)

// WaypointSnapshot is a named position for views
type WaypointSnapshot struct {
	Name     string     `json:"name"`
	Position vmath.Vec2 `json:"position"`
}

// AgentSnapshot is one NPC's navigation state, including its debug geometry
type AgentSnapshot struct {
	ID          uuid.UUID   `json:"id"`
	Position    vmath.Vec2  `json:"position"`
	Heading     float64     `json:"heading"`
	Speed       float64     `json:"speed"`
	Radius      float64     `json:"radius"`
	State       string      `json:"state"`
	StartPoint  string      `json:"start_point"`
	Destination string      `json:"destination"`
	Commanded   vmath.Vec2  `json:"commanded"`
	Detection   vmath.Vec2  `json:"detection_point"`
	DetectRange float64     `json:"detection_radius"`
	Detected    bool        `json:"detected"`
	DivertPoint *vmath.Vec2 `json:"divert_point,omitempty"`
}

// VehicleSnapshot is the player vehicle state
type VehicleSnapshot struct {
	ID       uuid.UUID  `json:"id"`
	Position vmath.Vec2 `json:"position"`
	Heading  float64    `json:"heading"`
	Speed    float64    `json:"speed"`
	Radius   float64    `json:"radius"`
}

// Snapshot is an immutable copy of the world after a step
type Snapshot struct {
	Tick      uint64             `json:"tick"`
	ElapsedMs int64              `json:"elapsed_ms"`
	Waypoints []WaypointSnapshot `json:"waypoints"`
	Agents    []AgentSnapshot    `json:"agents"`
	Vehicle   *VehicleSnapshot   `json:"vehicle,omitempty"`
}

// Snapshot copies the current state for renderers and the network hub
func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snap := Snapshot{
		Tick:      w.tick,
		ElapsedMs: w.elapsed.Milliseconds(),
		Waypoints: make([]WaypointSnapshot, 0, w.registry.Len()),
		Agents:    make([]AgentSnapshot, 0, len(w.agents)),
	}

	for _, wp := range w.registry.All() {
		snap.Waypoints = append(snap.Waypoints, WaypointSnapshot{Name: wp.Name, Position: wp.Position})
	}

	for _, a := range w.agents {
		reading := a.Sensor.Last()
		as := AgentSnapshot{
			ID:          a.Body.ID,
			Position:    a.Body.Position2D(),
			Heading:     a.Body.Heading,
			Speed:       a.Body.Speed(),
			Radius:      a.Body.Radius,
			State:       a.Controller.State(),
			StartPoint:  a.Controller.StartPoint().Name,
			Destination: a.Controller.Destination().Name,
			Commanded:   a.Controller.CommandedTarget(),
			Detection:   reading.Point,
			DetectRange: reading.Radius,
			Detected:    reading.Detected,
		}
		if p, ok := a.Controller.DivertPoint(); ok {
			as.DivertPoint = &p
		}
		snap.Agents = append(snap.Agents, as)
	}

	if w.vehicle != nil {
		b := w.vehicle.Body()
		snap.Vehicle = &VehicleSnapshot{
			ID:       b.ID,
			Position: b.Position2D(),
			Heading:  b.Heading,
			Speed:    w.vehicle.Speed(),
			Radius:   b.Radius,
		}
	}

	return snap
}

// Diverting counts diverting agents in the snapshot
func (s *Snapshot) Diverting() int {
	n := 0
	for i := range s.Agents {
		if s.Agents[i].DivertPoint != nil {
			n++
		}
	}
	return n
}
