package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-traffic/config"
	"github.com/lixenwraith/vi-traffic/status"
	"github.com/lixenwraith/vi-traffic/vehicle"
	"github.com/lixenwraith/vi-traffic/waypoint"
)

func TestLoadRegistrySources(t *testing.T) {
	cfg := config.Default()
	reg, err := loadRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, 6, reg.Len(), "built-in plaza")

	cfg.Scene.Waypoints = []config.WaypointConfig{{Name: "A", X: 0, Y: 0}, {Name: "B", X: 5, Y: 0}}
	reg, err = loadRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	data, err := waypoint.MarshalGeoJSON([]waypoint.Waypoint{{Name: "X"}, {Name: "Y"}, {Name: "Z"}})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "scene.geojson")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg.Scene.Waypoints = nil
	cfg.Scene.WaypointFile = path
	reg, err = loadRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	cfg.Scene.Waypoints = []config.WaypointConfig{{Name: "Solo"}}
	_, err = loadRegistry(cfg)
	assert.ErrorIs(t, err, waypoint.ErrTooFewWaypoints)
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	cfg, err := loadConfig(options{
		npcs:     3,
		seed:     99,
		wsAddr:   "127.0.0.1:0",
		audio:    true,
		logLevel: "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.NPC.Count)
	assert.EqualValues(t, 99, cfg.Sim.Seed)
	assert.True(t, cfg.Network.Enabled)
	assert.Equal(t, "127.0.0.1:0", cfg.Network.Address)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = loadConfig(options{npcs: -1, configPath: filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)
}

func TestBuildWorldAndSimulate(t *testing.T) {
	cfg := config.Default()
	cfg.NPC.Count = 4
	cfg.Sim.Seed = 7

	reg, err := loadRegistry(cfg)
	require.NoError(t, err)
	metrics := status.NewRegistry()

	world, err := buildWorld(cfg, reg, log.New(io.Discard), metrics, nil)
	require.NoError(t, err)
	require.Len(t, world.Agents(), 4)
	require.NotNil(t, world.Vehicle())

	simulate(world, nil, time.Second/30, 300, nil)
	assert.EqualValues(t, 300, world.Tick())
	assert.EqualValues(t, 300, metrics.Ints.Get(status.MetricTicks).Load())
}

func TestSimulateStopsOnInterrupt(t *testing.T) {
	cfg := config.Default()
	cfg.NPC.Count = 1
	reg, err := loadRegistry(cfg)
	require.NoError(t, err)
	world, err := buildWorld(cfg, reg, log.New(io.Discard), status.NewRegistry(), nil)
	require.NoError(t, err)

	interrupt := make(chan os.Signal, 1)
	interrupt <- os.Interrupt
	simulate(world, nil, time.Second/30, 100, interrupt)
	assert.Zero(t, world.Tick())
}

func TestRunHeadlessRejectsZeroTicks(t *testing.T) {
	err := runHeadless(nil, nil, time.Second/30, 0, log.New(io.Discard))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestHeldInputExpires(t *testing.T) {
	var h heldInput
	now := time.Unix(100, 0)

	h.pressThrottle(1, now)
	h.pressSteer(-1, now)
	in, changed := h.current(now.Add(keyHold / 2))
	assert.True(t, changed)
	assert.Equal(t, vehicle.Input{Throttle: 1, Steer: -1}, in)

	_, changed = h.current(now.Add(keyHold / 2))
	assert.False(t, changed)

	// Repeat keeps throttle alive while steer lapses
	h.pressThrottle(1, now.Add(keyHold))
	in, changed = h.current(now.Add(keyHold + time.Millisecond))
	assert.True(t, changed)
	assert.Equal(t, vehicle.Input{Throttle: 1}, in)

	h.release()
	in, _ = h.current(now.Add(keyHold + 2*time.Millisecond))
	assert.Equal(t, vehicle.Input{}, in)
}
