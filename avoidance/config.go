package avoidance

import (
	"fmt"

	"github.com/lixenwraith/vi-traffic/asset"
	"github.com/lixenwraith/vi-traffic/parameter"
)

// Config holds the diversion geometry and recovery threshold
type Config struct {
	// SideMove is the lateral offset, positive steers left of travel
	SideMove float64
	// ForwardOffset pushes the diversion point ahead of the agent
	ForwardOffset float64
	// StallSpeed is the speed below which a clear diverting agent resumes
	StallSpeed float64
	// PlaneZ is the plane every tick clamps to
	PlaneZ float64
	// Graph is the state graph TOML, empty uses asset.DefaultAvoidanceFSMConfig
	Graph []byte
}

// DefaultConfig returns the built-in tunables
func DefaultConfig() Config {
	return Config{
		SideMove:      parameter.SideMove,
		ForwardOffset: parameter.ForwardOffset,
		StallSpeed:    parameter.StallSpeed,
		PlaneZ:        parameter.PlaneZ,
	}
}

func (c Config) validate() error {
	if c.ForwardOffset <= 0 {
		return fmt.Errorf("%w: forward offset %v", ErrInvalidTunable, c.ForwardOffset)
	}
	if c.SideMove == 0 {
		return fmt.Errorf("%w: side move is zero", ErrInvalidTunable)
	}
	if c.StallSpeed < 0 {
		return fmt.Errorf("%w: stall speed %v", ErrInvalidTunable, c.StallSpeed)
	}
	return nil
}

func (c Config) graph() []byte {
	if len(c.Graph) == 0 {
		return []byte(asset.DefaultAvoidanceFSMConfig)
	}
	return c.Graph
}
