package avoidance

import (
	"github.com/lixenwraith/vi-traffic/fsm"
	"github.com/lixenwraith/vi-traffic/vmath"
)

// registerBehaviors binds the graph's action and guard names
func registerBehaviors(m *fsm.Machine[*Controller]) {
	m.RegisterAction("ResumeRoute", resumeRoute)
	m.RegisterAction("CaptureRoute", captureRoute)
	m.RegisterAction("SteerAround", steerAround)
	m.RegisterAction("ReleaseAnchor", releaseAnchor)
	m.RegisterAction("NotifyResume", notifyResume)

	m.RegisterGuard("Stalled", stalled)
}

// resumeRoute commits the destination, entry action of Direct
func resumeRoute(c *Controller, _ map[string]any) {
	c.commit(c.destination.Position)
}

// captureRoute marks the start of a detour, the destination is kept as is
func captureRoute(c *Controller, _ map[string]any) {
	c.stats.Diversions++
	c.logger.Debug("diverting", "destination", c.destination.Name, "obstacle", c.hit.ID, "category", c.hit.Category)
	if c.hooks.OnDivert != nil {
		c.hooks.OnDivert(c.hit)
	}
}

// steerAround recomputes and commits the diversion point
func steerAround(c *Controller, _ map[string]any) {
	p := c.divertPoint()
	c.anchor.Point = p
	c.anchor.Active = true
	c.commit(p)
}

func releaseAnchor(c *Controller, _ map[string]any) {
	c.anchor.Active = false
}

func notifyResume(c *Controller, args map[string]any) {
	reason, _ := args["reason"].(string)
	r := ResumeReason(reason)
	switch r {
	case ResumeDetourComplete:
		c.stats.DetourCompletions++
	case ResumeStalled:
		c.stats.StallRecoveries++
	}
	c.logger.Debug("resuming route", "reason", r, "destination", c.destination.Name)
	if c.hooks.OnResume != nil {
		c.hooks.OnResume(r)
	}
}

// stalled is true when nothing is ahead and the driver has slowed below the threshold
func stalled(c *Controller) bool {
	if c.obstacle {
		return false
	}
	v := c.driver.Velocity()
	return vmath.V2MagSq(v) < c.cfg.StallSpeed*c.cfg.StallSpeed
}
