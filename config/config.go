package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/vi-traffic/parameter"
	"github.com/lixenwraith/vi-traffic/vmath"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full tunable set of the simulation
type Config struct {
	Sensor    SensorConfig    `toml:"sensor" yaml:"sensor"`
	Avoidance AvoidanceConfig `toml:"avoidance" yaml:"avoidance"`
	Plane     PlaneConfig     `toml:"plane" yaml:"plane"`
	NPC       NPCConfig       `toml:"npc" yaml:"npc"`
	Vehicle   VehicleConfig   `toml:"vehicle" yaml:"vehicle"`
	Sim       SimConfig       `toml:"sim" yaml:"sim"`
	Scene     SceneConfig     `toml:"scene" yaml:"scene"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Network   NetworkConfig   `toml:"network" yaml:"network"`
	Audio     AudioConfig     `toml:"audio" yaml:"audio"`
}

type SensorConfig struct {
	DetectionRadius float64 `toml:"detection_radius" yaml:"detection_radius"`
	Lookahead       float64 `toml:"lookahead" yaml:"lookahead"`
}

type AvoidanceConfig struct {
	SideMove      float64 `toml:"side_move" yaml:"side_move"`
	ForwardOffset float64 `toml:"forward_offset" yaml:"forward_offset"`
	StallSpeed    float64 `toml:"stall_speed" yaml:"stall_speed"`
	// GraphFile overrides the built-in Direct/Diverting graph, empty uses the default
	GraphFile string `toml:"graph_file" yaml:"graph_file"`
}

type PlaneConfig struct {
	Z float64 `toml:"z" yaml:"z"`
}

type NPCConfig struct {
	Count              int     `toml:"count" yaml:"count"`
	Radius             float64 `toml:"radius" yaml:"radius"`
	MaxSpeed           float64 `toml:"max_speed" yaml:"max_speed"`
	Acceleration       float64 `toml:"acceleration" yaml:"acceleration"`
	TurnRateDeg        float64 `toml:"turn_rate_deg" yaml:"turn_rate_deg"`
	EndReachedDistance float64 `toml:"end_reached_distance" yaml:"end_reached_distance"`
	SlowdownDistance   float64 `toml:"slowdown_distance" yaml:"slowdown_distance"`
}

type VehicleConfig struct {
	Enabled      bool    `toml:"enabled" yaml:"enabled"`
	Radius       float64 `toml:"radius" yaml:"radius"`
	MaxSpeed     float64 `toml:"max_speed" yaml:"max_speed"`
	Acceleration float64 `toml:"acceleration" yaml:"acceleration"`
	Deceleration float64 `toml:"deceleration" yaml:"deceleration"`
	TurnSpeedDeg float64 `toml:"turn_speed_deg" yaml:"turn_speed_deg"`
}

type SimConfig struct {
	TickRate int     `toml:"tick_rate" yaml:"tick_rate"`
	Seed     uint64  `toml:"seed" yaml:"seed"`
	CellSize float64 `toml:"cell_size" yaml:"cell_size"`
}

// WaypointConfig is an inline waypoint declaration
type WaypointConfig struct {
	Name string  `toml:"name" yaml:"name"`
	X    float64 `toml:"x" yaml:"x"`
	Y    float64 `toml:"y" yaml:"y"`
}

// Position returns the waypoint position as a vector
func (w WaypointConfig) Position() vmath.Vec2 {
	return vmath.Vec2{X: w.X, Y: w.Y}
}

type SceneConfig struct {
	Waypoints []WaypointConfig `toml:"waypoints" yaml:"waypoints"`
	// WaypointFile is a GeoJSON FeatureCollection of named points, used when Waypoints is empty
	WaypointFile string `toml:"waypoint_file" yaml:"waypoint_file"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type NetworkConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Address string `toml:"address" yaml:"address"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled" yaml:"enabled"`
	Volume  float64 `toml:"volume" yaml:"volume"`
}

// Default returns the built-in tunables
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			DetectionRadius: parameter.DetectionRadius,
			Lookahead:       parameter.Lookahead,
		},
		Avoidance: AvoidanceConfig{
			SideMove:      parameter.SideMove,
			ForwardOffset: parameter.ForwardOffset,
			StallSpeed:    parameter.StallSpeed,
		},
		Plane: PlaneConfig{Z: parameter.PlaneZ},
		NPC: NPCConfig{
			Count:              parameter.NPCDefaultCount,
			Radius:             parameter.NPCRadius,
			MaxSpeed:           parameter.NPCMaxSpeed,
			Acceleration:       parameter.NPCAcceleration,
			TurnRateDeg:        parameter.NPCTurnRateDeg,
			EndReachedDistance: parameter.NPCEndReachedDistance,
			SlowdownDistance:   parameter.NPCSlowdownDistance,
		},
		Vehicle: VehicleConfig{
			Enabled:      true,
			Radius:       parameter.VehicleRadius,
			MaxSpeed:     parameter.VehicleMaxSpeed,
			Acceleration: parameter.VehicleAcceleration,
			Deceleration: parameter.VehicleDeceleration,
			TurnSpeedDeg: parameter.VehicleTurnSpeedDeg,
		},
		Sim: SimConfig{
			TickRate: parameter.TickRate,
			Seed:     1,
			CellSize: parameter.GridCellSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Network: NetworkConfig{
			Address: parameter.NetworkDefaultAddress,
		},
		Audio: AudioConfig{
			Volume: parameter.HornVolume,
		},
	}
}

// Load reads a config file over the defaults, format chosen by extension
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	// Relative scene paths resolve against the config file directory
	dir := filepath.Dir(path)
	if cfg.Scene.WaypointFile != "" && !filepath.IsAbs(cfg.Scene.WaypointFile) {
		cfg.Scene.WaypointFile = filepath.Join(dir, cfg.Scene.WaypointFile)
	}
	if cfg.Avoidance.GraphFile != "" && !filepath.IsAbs(cfg.Avoidance.GraphFile) {
		cfg.Avoidance.GraphFile = filepath.Join(dir, cfg.Avoidance.GraphFile)
	}

	return cfg, nil
}

// Decode parses data over the defaults and validates the result
// ext selects the format: ".toml", ".yaml" or ".yml"
func Decode(data []byte, ext string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every tunable
func (c *Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.Sensor.DetectionRadius > 0, "sensor.detection_radius must be > 0"},
		{c.Sensor.Lookahead > 0, "sensor.lookahead must be > 0"},
		{c.Avoidance.ForwardOffset > 0, "avoidance.forward_offset must be > 0"},
		{c.Avoidance.SideMove != 0, "avoidance.side_move must be non-zero"},
		{c.Avoidance.StallSpeed >= 0, "avoidance.stall_speed must be >= 0"},
		{c.NPC.Count >= 0, "npc.count must be >= 0"},
		{c.NPC.Radius > 0, "npc.radius must be > 0"},
		{c.NPC.MaxSpeed > 0, "npc.max_speed must be > 0"},
		{c.NPC.Acceleration > 0, "npc.acceleration must be > 0"},
		{c.NPC.TurnRateDeg > 0, "npc.turn_rate_deg must be > 0"},
		{c.NPC.EndReachedDistance > 0, "npc.end_reached_distance must be > 0"},
		{c.NPC.SlowdownDistance >= 0, "npc.slowdown_distance must be >= 0"},
		{c.Vehicle.Radius > 0, "vehicle.radius must be > 0"},
		{c.Vehicle.MaxSpeed > 0, "vehicle.max_speed must be > 0"},
		{c.Vehicle.Acceleration > 0, "vehicle.acceleration must be > 0"},
		{c.Vehicle.Deceleration > 0, "vehicle.deceleration must be > 0"},
		{c.Vehicle.TurnSpeedDeg > 0, "vehicle.turn_speed_deg must be > 0"},
		{c.Sim.TickRate > 0, "sim.tick_rate must be > 0"},
		{c.Sim.CellSize > 0, "sim.cell_size must be > 0"},
		{c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume must be within [0,1]"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, chk.name)
		}
	}

	if n := len(c.Scene.Waypoints); n == 1 {
		return fmt.Errorf("%w: scene.waypoints needs at least 2 entries, got %d", ErrInvalidConfig, n)
	}

	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}
