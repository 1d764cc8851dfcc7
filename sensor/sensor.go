package sensor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/parameter"
	"github.com/lixenwraith/vi-traffic/spatial"
	"github.com/lixenwraith/vi-traffic/vmath"
)

var (
	ErrMissingSource   = errors.New("sensor has no candidate source")
	ErrInvalidGeometry = errors.New("sensor geometry must be positive")
)

// CandidateSource pre-filters bodies near a circle
type CandidateSource interface {
	QueryCircle(center vmath.Vec2, radius float64, mask core.CategoryMask, buf []spatial.Entry) []spatial.Entry
}

// Config is the detection circle geometry
type Config struct {
	Radius    float64
	Lookahead float64
	Mask      core.CategoryMask
}

// Reading is the last detection, kept for debug views
type Reading struct {
	Point    vmath.Vec2
	Radius   float64
	Detected bool
	Hit      spatial.Entry
}

// DetectionPoint projects the detection circle center ahead of pos
func DetectionPoint(pos, forward vmath.Vec2, lookahead float64) vmath.Vec2 {
	return vmath.V2AddScaled(pos, forward, lookahead)
}

// Detect returns the candidate hit by the detection circle ahead of pos
// Candidates that are self or outside mask are skipped; among hits the one nearest the
// detection point wins, equal distances resolve by ascending ID bytes
func Detect(pos, forward vmath.Vec2, radius, lookahead float64, self uuid.UUID, mask core.CategoryMask, candidates []spatial.Entry) (spatial.Entry, bool) {
	point := DetectionPoint(pos, forward, lookahead)

	var (
		best     spatial.Entry
		bestDist float64
		found    bool
	)
	for _, c := range candidates {
		if c.ID == self || !mask.Has(c.Category) {
			continue
		}
		if !vmath.CirclesOverlap(point, radius, c.Position, c.Radius) {
			continue
		}
		d := vmath.V2DistSq(point, c.Position)
		if !found || d < bestDist || (d == bestDist && bytes.Compare(c.ID[:], best.ID[:]) < 0) {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

// ProximitySensor runs Detect against a candidate source and remembers the last reading
type ProximitySensor struct {
	source CandidateSource
	cfg    Config
	buf    []spatial.Entry
	last   Reading
}

// New validates geometry, a zero mask defaults to NPCs and vehicles
func New(source CandidateSource, cfg Config) (*ProximitySensor, error) {
	if source == nil {
		return nil, ErrMissingSource
	}
	if cfg.Radius <= 0 || cfg.Lookahead <= 0 {
		return nil, fmt.Errorf("%w: radius=%v lookahead=%v", ErrInvalidGeometry, cfg.Radius, cfg.Lookahead)
	}
	if cfg.Mask == 0 {
		cfg.Mask = core.ObstacleMask
	}
	return &ProximitySensor{
		source: source,
		cfg:    cfg,
		buf:    make([]spatial.Entry, 0, parameter.GridQueryBufferCap),
	}, nil
}

// Detect probes ahead of pos along forward, excluding self
func (s *ProximitySensor) Detect(pos, forward vmath.Vec2, self uuid.UUID) (spatial.Entry, bool) {
	point := DetectionPoint(pos, forward, s.cfg.Lookahead)
	s.buf = s.source.QueryCircle(point, s.cfg.Radius, s.cfg.Mask, s.buf[:0])

	hit, ok := Detect(pos, forward, s.cfg.Radius, s.cfg.Lookahead, self, s.cfg.Mask, s.buf)
	s.last = Reading{
		Point:    point,
		Radius:   s.cfg.Radius,
		Detected: ok,
		Hit:      hit,
	}
	return hit, ok
}

// Last returns the most recent reading
func (s *ProximitySensor) Last() Reading {
	return s.last
}

// Config returns the active geometry
func (s *ProximitySensor) Config() Config {
	return s.cfg
}
