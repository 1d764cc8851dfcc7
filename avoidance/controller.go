package avoidance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb/planar"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/fsm"
	"github.com/lixenwraith/vi-traffic/physics"
	"github.com/lixenwraith/vi-traffic/spatial"
	"github.com/lixenwraith/vi-traffic/vmath"
	"github.com/lixenwraith/vi-traffic/waypoint"
)

// Deps are the collaborators of one controller
type Deps struct {
	Body     *core.Body
	Driver   Driver
	Sensor   Sensor
	Registry Waypoints
	Selector Selector
	Anchor   *Anchor
	Logger   *log.Logger
	Hooks    Hooks
}

// Controller is the per-agent navigation and local-avoidance state machine
// Only the controller mutates its route; one controller per body
type Controller struct {
	body     *core.Body
	driver   Driver
	sensor   Sensor
	registry Waypoints
	selector Selector
	anchor   *Anchor
	logger   *log.Logger
	hooks    Hooks
	cfg      Config

	machine *fsm.Machine[*Controller]
	started bool

	startPoint  waypoint.Waypoint
	destination waypoint.Waypoint
	commanded   vmath.Vec2

	// Per-tick sensing result, read by actions and guards
	obstacle bool
	hit      spatial.Entry

	stats Stats
}

// New validates dependencies and compiles the state graph
func New(deps Deps, cfg Config) (*Controller, error) {
	switch {
	case deps.Body == nil:
		return nil, ErrMissingBody
	case deps.Driver == nil:
		return nil, ErrMissingDriver
	case deps.Sensor == nil:
		return nil, ErrMissingSensor
	case deps.Registry == nil:
		return nil, ErrMissingRegistry
	case deps.Selector == nil:
		return nil, ErrMissingSelector
	case deps.Anchor == nil:
		return nil, ErrMissingAnchor
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Controller{
		body:     deps.Body,
		driver:   deps.Driver,
		sensor:   deps.Sensor,
		registry: deps.Registry,
		selector: deps.Selector,
		anchor:   deps.Anchor,
		logger:   logger.WithPrefix("avoidance").With("agent", shortID(deps.Body)),
		hooks:    deps.Hooks,
		cfg:      cfg,
	}

	c.machine = fsm.NewMachine[*Controller]()
	registerBehaviors(c.machine)
	if err := c.machine.LoadConfig(cfg.graph()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGraph, err)
	}
	for _, name := range []string{StateDirect, StateDiverting} {
		if _, ok := c.machine.GetStateID(name); !ok {
			return nil, fmt.Errorf("%w: state %q not declared", ErrGraph, name)
		}
	}
	c.machine.OnTransition = func(from, to, trigger string) {
		c.logger.Debug("transition", "from", from, "to", to, "trigger", trigger)
	}

	return c, nil
}

// Start routes from start to a randomly selected destination
func (c *Controller) Start(start waypoint.Waypoint) error {
	dest, err := c.selector.SelectNext(start, c.registry.All())
	if err != nil {
		return fmt.Errorf("select first destination from %q: %w", start.Name, err)
	}
	return c.StartRoute(start, dest)
}

// StartRoute enters Direct toward dest, restarting the machine if already running
func (c *Controller) StartRoute(start, dest waypoint.Waypoint) error {
	if start.Is(dest) {
		return fmt.Errorf("%w: destination equals start %q", waypoint.ErrNoAlternateDestination, start.Name)
	}
	c.startPoint = start
	c.destination = dest
	c.obstacle = false

	if c.started {
		return c.machine.Reset(c)
	}
	if err := c.machine.Init(c); err != nil {
		return fmt.Errorf("%w: %w", ErrGraph, err)
	}
	c.started = true
	return nil
}

// Tick runs one control step: plane clamp, arrival, sensing, then state evaluation
func (c *Controller) Tick(dt time.Duration) {
	if !c.started {
		return
	}

	physics.ConstrainPlane(&c.body.Kinetic, c.cfg.PlaneZ)

	if c.driver.HasReachedTarget() {
		if c.Diverting() {
			c.machine.HandleEvent(c, TriggerDetourComplete)
		} else {
			c.advance()
		}
	}

	c.sense()
	if c.obstacle {
		c.machine.HandleEvent(c, TriggerObstacle)
	}

	c.machine.Update(c, dt)
}

// advance makes the reached destination the new start and commits the next leg
func (c *Controller) advance() {
	next, err := c.selector.SelectNext(c.destination, c.registry.All())
	if err != nil {
		// Registry is validated at setup; keep the route rather than stall the agent
		c.stats.SelectFailures++
		c.logger.Error("destination selection failed", "at", c.destination.Name, "err", err)
		return
	}

	from := c.destination
	c.stats.Arrivals++
	c.stats.RouteDistance += planar.Distance(c.startPoint.Point(), from.Point())

	c.startPoint = from
	c.destination = next
	c.commit(next.Position)

	c.logger.Debug("arrived", "at", from.Name, "next", next.Name)
	if c.hooks.OnArrive != nil {
		c.hooks.OnArrive(from, next)
	}
}

// sense records whether a body other than this agent is ahead
func (c *Controller) sense() {
	pos := c.body.Position2D()
	hit, ok := c.sensor.Detect(pos, c.body.Forward(), c.body.ID)
	c.obstacle = ok && hit.ID != c.body.ID && hit.Position != pos
	if c.obstacle {
		c.hit = hit
	} else {
		c.hit = spatial.Entry{}
	}
}

// commit hands p to the driver
func (c *Controller) commit(p vmath.Vec2) {
	c.commanded = p
	c.driver.SetTarget(p)
}

// divertPoint computes the lateral detour target from the current motion
func (c *Controller) divertPoint() vmath.Vec2 {
	moveDir := vmath.V2Normalize(c.driver.Velocity())
	if vmath.V2IsZero(moveDir) {
		moveDir = c.body.Forward()
	}
	lateral := vmath.V2Perpendicular(moveDir)

	p := vmath.V2AddScaled(c.body.Position2D(), moveDir, c.cfg.ForwardOffset)
	return vmath.V2AddScaled(p, lateral, c.cfg.SideMove)
}

// State returns the active state name
func (c *Controller) State() string {
	return c.machine.ActiveName()
}

// Diverting reports whether the commanded target is the diversion point
func (c *Controller) Diverting() bool {
	return c.machine.ActiveName() == StateDiverting
}

// CommandedTarget returns the point last handed to the driver
func (c *Controller) CommandedTarget() vmath.Vec2 {
	return c.commanded
}

// Destination returns the waypoint being routed to
func (c *Controller) Destination() waypoint.Waypoint {
	return c.destination
}

// StartPoint returns the waypoint the current leg began at
func (c *Controller) StartPoint() waypoint.Waypoint {
	return c.startPoint
}

// DivertPoint returns the diversion point while diverting
func (c *Controller) DivertPoint() (vmath.Vec2, bool) {
	return c.anchor.Point, c.anchor.Active
}

// Obstacle returns this tick's sensed obstacle
func (c *Controller) Obstacle() (spatial.Entry, bool) {
	return c.hit, c.obstacle
}

// Body returns the controlled body
func (c *Controller) Body() *core.Body {
	return c.body
}

// Stats returns lifetime counters
func (c *Controller) Stats() Stats {
	return c.stats
}

// TimeInState returns how long the active state has lasted
func (c *Controller) TimeInState() time.Duration {
	return c.machine.TimeInState()
}

// IsConfigurationError reports whether err came from construction
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func shortID(b *core.Body) string {
	if b == nil {
		return ""
	}
	return b.ID.String()[:8]
}
