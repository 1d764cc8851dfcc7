package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lixenwraith/vi-traffic/avoidance"
	"github.com/lixenwraith/vi-traffic/config"
	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/physics"
	"github.com/lixenwraith/vi-traffic/sensor"
	"github.com/lixenwraith/vi-traffic/spatial"
	"github.com/lixenwraith/vi-traffic/status"
	"github.com/lixenwraith/vi-traffic/vehicle"
	"github.com/lixenwraith/vi-traffic/vmath"
	"github.com/lixenwraith/vi-traffic/waypoint"
)

var ErrVehicleExists = errors.New("vehicle already spawned")

// Agent bundles one NPC body with its driver, sensor and controller
type Agent struct {
	Body       *core.Body
	Driver     *physics.SeekDriver
	Sensor     *sensor.ProximitySensor
	Anchor     *avoidance.Anchor
	Controller *avoidance.Controller
}

// Observer receives world events on the simulation goroutine, under the world lock
type Observer struct {
	OnDivert func(agent uuid.UUID, obstacle spatial.Entry)
	OnArrive func(agent uuid.UUID, from, to waypoint.Waypoint)
	OnResume func(agent uuid.UUID, reason avoidance.ResumeReason)
}

// World owns every simulated body and runs the per-tick ordering
type World struct {
	mu sync.RWMutex

	cfg      *config.Config
	registry *waypoint.Registry
	selector *waypoint.Selector
	spawnRng *rand.Rand
	idSource *rand.ChaCha8
	grid     *spatial.Grid
	graph    []byte

	agents  []*Agent
	vehicle *vehicle.Controller
	entries []spatial.Entry

	tick    uint64
	elapsed time.Duration

	logger   *log.Logger
	observer Observer
	metrics  *status.Registry
}

// Option customizes a World
type Option func(*World)

func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.logger = l }
}

func WithObserver(o Observer) Option {
	return func(w *World) { w.observer = o }
}

func WithMetrics(r *status.Registry) Option {
	return func(w *World) { w.metrics = r }
}

// NewWorld builds an empty world over registry, loading the avoidance graph override if configured
func NewWorld(cfg *config.Config, registry *waypoint.Registry, opts ...Option) (*World, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if registry == nil {
		return nil, avoidance.ErrMissingRegistry
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Sim.Seed
	w := &World{
		cfg:      cfg,
		registry: registry,
		selector: waypoint.NewSelector(rand.New(rand.NewPCG(seed, 1))),
		spawnRng: rand.New(rand.NewPCG(seed, 2)),
		idSource: newIDSource(seed),
		logger:   log.New(io.Discard),
		metrics:  status.NewRegistry(),
	}
	for _, opt := range opts {
		opt(w)
	}

	// Pad so agents detouring past edge waypoints stay in real cells
	pad := cfg.Sensor.Lookahead + cfg.Sensor.DetectionRadius + cfg.Avoidance.ForwardOffset
	w.grid = spatial.NewGrid(registry.Bound().Pad(pad), cfg.Sim.CellSize)

	if cfg.Avoidance.GraphFile != "" {
		data, err := os.ReadFile(cfg.Avoidance.GraphFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", avoidance.ErrGraph, err)
		}
		w.graph = data
	}

	return w, nil
}

// SpawnNPC places an NPC at a random waypoint and routes it to a random other one
func (w *World) SpawnNPC() (*Agent, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := w.registry.Random(w.spawnRng)
	return w.spawnLocked(start, nil)
}

// SpawnNPCRoute places an NPC at start heading for dest
func (w *World) SpawnNPCRoute(start, dest waypoint.Waypoint) (*Agent, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spawnLocked(start, &dest)
}

func (w *World) spawnLocked(start waypoint.Waypoint, dest *waypoint.Waypoint) (*Agent, error) {
	cfg := w.cfg
	id, err := w.newIDLocked()
	if err != nil {
		return nil, err
	}
	body := core.NewBodyWithID(id, core.CategoryNPC, cfg.NPC.Radius, start.Position, cfg.Plane.Z)

	sens, err := sensor.New(w.grid, sensor.Config{
		Radius:    cfg.Sensor.DetectionRadius,
		Lookahead: cfg.Sensor.Lookahead,
		Mask:      core.ObstacleMask,
	})
	if err != nil {
		return nil, err
	}

	driver := physics.NewSeekDriver(body, physics.SeekProfile{
		MaxSpeed:           cfg.NPC.MaxSpeed,
		Acceleration:       cfg.NPC.Acceleration,
		TurnRate:           cfg.NPC.TurnRateDeg * vmath.DegToRad,
		EndReachedDistance: cfg.NPC.EndReachedDistance,
		SlowdownDistance:   cfg.NPC.SlowdownDistance,
		PlaneZ:             cfg.Plane.Z,
	})

	agent := &Agent{
		Body:   body,
		Driver: driver,
		Sensor: sens,
		Anchor: &avoidance.Anchor{},
	}

	ctrl, err := avoidance.New(avoidance.Deps{
		Body:     body,
		Driver:   driver,
		Sensor:   sens,
		Registry: w.registry,
		Selector: w.selector,
		Anchor:   agent.Anchor,
		Logger:   w.logger,
		Hooks:    w.hooksFor(body.ID),
	}, avoidance.Config{
		SideMove:      cfg.Avoidance.SideMove,
		ForwardOffset: cfg.Avoidance.ForwardOffset,
		StallSpeed:    cfg.Avoidance.StallSpeed,
		PlaneZ:        cfg.Plane.Z,
		Graph:         w.graph,
	})
	if err != nil {
		return nil, err
	}
	agent.Controller = ctrl

	if dest != nil {
		err = ctrl.StartRoute(start, *dest)
	} else {
		err = ctrl.Start(start)
	}
	if err != nil {
		return nil, fmt.Errorf("start agent at %q: %w", start.Name, err)
	}

	// Face the first leg so the sensor looks along the route from the first tick
	body.Heading = vmath.VectorHeading(vmath.V2Sub(ctrl.Destination().Position, start.Position))

	w.agents = append(w.agents, agent)
	w.metrics.Ints.Get(status.MetricAgents).Store(int64(len(w.agents)))
	w.logger.Debug("spawned npc", "agent", body.ID.String()[:8], "start", start.Name, "destination", ctrl.Destination().Name)
	return agent, nil
}

// newIDSource derives the body identity stream from the sim seed so sensor tie-breaks replay
func newIDSource(seed uint64) *rand.ChaCha8 {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	copy(key[8:], "vi-traffic/ids")
	return rand.NewChaCha8(key)
}

func (w *World) newIDLocked() (uuid.UUID, error) {
	id, err := uuid.NewRandomFromReader(w.idSource)
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate body id: %w", err)
	}
	return id, nil
}

func (w *World) hooksFor(id uuid.UUID) avoidance.Hooks {
	return avoidance.Hooks{
		OnArrive: func(from, to waypoint.Waypoint) {
			w.metrics.Ints.Get(status.MetricArrivals).Add(1)
			if w.observer.OnArrive != nil {
				w.observer.OnArrive(id, from, to)
			}
		},
		OnDivert: func(obstacle spatial.Entry) {
			w.metrics.Ints.Get(status.MetricDiversions).Add(1)
			if w.observer.OnDivert != nil {
				w.observer.OnDivert(id, obstacle)
			}
		},
		OnResume: func(reason avoidance.ResumeReason) {
			switch reason {
			case avoidance.ResumeStalled:
				w.metrics.Ints.Get(status.MetricStalls).Add(1)
			case avoidance.ResumeDetourComplete:
				w.metrics.Ints.Get(status.MetricDetours).Add(1)
			}
			if w.observer.OnResume != nil {
				w.observer.OnResume(id, reason)
			}
		},
	}
}

// SpawnVehicle places the player vehicle at pos facing heading
func (w *World) SpawnVehicle(pos vmath.Vec2, heading float64) (*vehicle.Controller, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.vehicle != nil {
		return nil, ErrVehicleExists
	}
	id, err := w.newIDLocked()
	if err != nil {
		return nil, err
	}
	cfg := w.cfg.Vehicle
	body := core.NewBodyWithID(id, core.CategoryVehicle, cfg.Radius, pos, w.cfg.Plane.Z)
	body.Heading = heading

	w.vehicle = vehicle.NewController(body, vehicle.Profile{
		MaxSpeed:     cfg.MaxSpeed,
		Acceleration: cfg.Acceleration,
		Deceleration: cfg.Deceleration,
		TurnSpeed:    cfg.TurnSpeedDeg * vmath.DegToRad,
		PlaneZ:       w.cfg.Plane.Z,
	})
	return w.vehicle, nil
}

// SetVehicleInput updates the held vehicle command, no-op without a vehicle
func (w *World) SetVehicleInput(in vehicle.Input) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.vehicle != nil {
		w.vehicle.SetInput(in)
	}
}

// Step runs one tick: snapshot positions, control every agent, then integrate motion
// Sensors read the snapshot taken before any agent acts, so spawn order does not bias detection
func (w *World) Step(dt time.Duration) {
	started := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = w.entries[:0]
	for _, a := range w.agents {
		w.entries = append(w.entries, spatial.EntryOf(a.Body))
	}
	if w.vehicle != nil {
		w.entries = append(w.entries, spatial.EntryOf(w.vehicle.Body()))
	}
	w.grid.Rebuild(w.entries)

	for _, a := range w.agents {
		a.Controller.Tick(dt)
	}

	diverting := 0
	for _, a := range w.agents {
		a.Driver.Step(dt)
		if a.Controller.Diverting() {
			diverting++
		}
	}
	if w.vehicle != nil {
		w.vehicle.Step(dt)
		w.metrics.Floats.Get(status.MetricVehicleSpeed).Set(w.vehicle.Speed())
	}

	w.tick++
	w.elapsed += dt

	w.metrics.Ints.Get(status.MetricTicks).Store(int64(w.tick))
	w.metrics.Ints.Get(status.MetricDiverting).Store(int64(diverting))
	w.metrics.Floats.Get(status.MetricStepMicros).Set(float64(time.Since(started).Microseconds()))
}

// Agents returns the agents in spawn order
func (w *World) Agents() []*Agent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Agent, len(w.agents))
	copy(out, w.agents)
	return out
}

// Vehicle returns the player vehicle, nil if not spawned
func (w *World) Vehicle() *vehicle.Controller {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.vehicle
}

func (w *World) Registry() *waypoint.Registry {
	return w.registry
}

func (w *World) Metrics() *status.Registry {
	return w.metrics
}

// Tick returns the number of completed steps
func (w *World) Tick() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tick
}

// Stats sums controller counters over all agents
func (w *World) Stats() avoidance.Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var total avoidance.Stats
	for _, a := range w.agents {
		s := a.Controller.Stats()
		total.Arrivals += s.Arrivals
		total.Diversions += s.Diversions
		total.DetourCompletions += s.DetourCompletions
		total.StallRecoveries += s.StallRecoveries
		total.SelectFailures += s.SelectFailures
		total.RouteDistance += s.RouteDistance
	}
	return total
}
