package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lixenwraith/vi-traffic/asset"
	"github.com/lixenwraith/vi-traffic/audio"
	"github.com/lixenwraith/vi-traffic/avoidance"
	"github.com/lixenwraith/vi-traffic/config"
	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/engine"
	"github.com/lixenwraith/vi-traffic/network"
	"github.com/lixenwraith/vi-traffic/parameter"
	"github.com/lixenwraith/vi-traffic/spatial"
	"github.com/lixenwraith/vi-traffic/status"
	"github.com/lixenwraith/vi-traffic/vehicle"
	"github.com/lixenwraith/vi-traffic/vmath"
	"github.com/lixenwraith/vi-traffic/waypoint"
)

var (
	configFlag   = flag.String("config", "", "Config file (.toml, .yaml)")
	sceneFlag    = flag.String("scene", "", "GeoJSON waypoint file, overrides the config scene")
	npcsFlag     = flag.Int("npcs", -1, "NPC count, -1 keeps the config value")
	seedFlag     = flag.Uint64("seed", 0, "RNG seed, 0 keeps the config value")
	headlessFlag = flag.Bool("headless", false, "Run without a terminal view")
	ticksFlag    = flag.Int("ticks", 900, "Ticks to simulate in headless mode")
	wsFlag       = flag.String("ws", "", "Serve websocket snapshots on this address")
	audioFlag    = flag.Bool("audio", false, "Honk when an NPC starts diverting")
	logFlag      = flag.String("log", "", "Log level: debug, info, warn, error")
	logFileFlag  = flag.String("logfile", "", "Log file, the interactive view discards logs without one")
)

// options is the parsed command line, kept apart from flag globals for tests
type options struct {
	configPath string
	scenePath  string
	npcs       int
	seed       uint64
	headless   bool
	ticks      int
	wsAddr     string
	audio      bool
	logLevel   string
	logFile    string
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()
	opts := options{
		configPath: *configFlag,
		scenePath:  *sceneFlag,
		npcs:       *npcsFlag,
		seed:       *seedFlag,
		headless:   *headlessFlag,
		ticks:      *ticksFlag,
		wsAddr:     *wsFlag,
		audio:      *audioFlag,
		logLevel:   *logFlag,
		logFile:    *logFileFlag,
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "traffic-sandbox: %v\n", err)
		if errors.Is(err, avoidance.ErrConfiguration) || errors.Is(err, config.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logOut, closeLog, err := logWriter(opts)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := cfg.Log.NewLogger(logOut)

	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	metrics := status.NewRegistry()

	var horn *audio.HornPlayer
	if cfg.Audio.Enabled {
		horn = audio.NewHornPlayer(cfg.Audio.Volume)
		if err := horn.Init(); err != nil {
			logger.Warn("audio unavailable, continuing silent", "err", err)
		} else {
			defer horn.Close()
		}
	}

	world, err := buildWorld(cfg, registry, logger, metrics, horn)
	if err != nil {
		return err
	}

	var hub *network.Hub
	if cfg.Network.Enabled {
		netCfg := network.DefaultConfig()
		netCfg.Address = cfg.Network.Address
		hub = network.NewHub(netCfg, logger, metrics)
		hub.SetInputHandler(func(_ network.PeerID, in network.InputPayload) {
			world.SetVehicleInput(vehicle.Input{Throttle: in.Throttle, Steer: in.Steer})
		})
		svc := network.NewService(netCfg, hub, metrics)
		if err := svc.Start(); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = svc.Stop(ctx)
		}()
	}

	logger.Info("scene ready",
		"waypoints", registry.Len(),
		"npcs", cfg.NPC.Count,
		"vehicle", cfg.Vehicle.Enabled,
		"seed", cfg.Sim.Seed)

	interval := time.Second / time.Duration(cfg.Sim.TickRate)
	if opts.headless {
		return runHeadless(world, hub, interval, opts.ticks, logger)
	}
	return runInteractive(world, hub, interval)
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()

	// Flags win over file and environment
	if opts.scenePath != "" {
		cfg.Scene.Waypoints = nil
		cfg.Scene.WaypointFile = opts.scenePath
	}
	if opts.npcs >= 0 {
		cfg.NPC.Count = opts.npcs
	}
	if opts.seed != 0 {
		cfg.Sim.Seed = opts.seed
	}
	if opts.wsAddr != "" {
		cfg.Network.Enabled = true
		cfg.Network.Address = opts.wsAddr
	}
	if opts.audio {
		cfg.Audio.Enabled = true
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logWriter picks stderr for headless runs, the terminal view owns the screen otherwise
func logWriter(opts options) (io.Writer, func(), error) {
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if opts.headless {
		return os.Stderr, func() {}, nil
	}
	return io.Discard, func() {}, nil
}

// loadRegistry prefers inline waypoints, then the scene file, then the built-in plaza
func loadRegistry(cfg *config.Config) (*waypoint.Registry, error) {
	var (
		items []waypoint.Waypoint
		err   error
	)
	switch {
	case len(cfg.Scene.Waypoints) > 0:
		for _, wc := range cfg.Scene.Waypoints {
			items = append(items, waypoint.Waypoint{Name: wc.Name, Position: wc.Position()})
		}
	case cfg.Scene.WaypointFile != "":
		items, err = waypoint.LoadGeoJSONFile(cfg.Scene.WaypointFile)
	default:
		items, err = waypoint.LoadGeoJSON(asset.DefaultSceneGeoJSON)
	}
	if err != nil {
		return nil, err
	}
	return waypoint.NewRegistry(items)
}

// buildWorld spawns the configured NPCs and the vehicle at the scene center, horn may be nil
func buildWorld(cfg *config.Config, registry *waypoint.Registry, logger *log.Logger, metrics *status.Registry, horn *audio.HornPlayer) (*engine.World, error) {
	world, err := engine.NewWorld(cfg, registry,
		engine.WithLogger(logger.WithPrefix("engine")),
		engine.WithMetrics(metrics),
		engine.WithObserver(engine.Observer{
			OnDivert: func(uuid.UUID, spatial.Entry) {
				if horn != nil {
					horn.PlayHorn()
				}
			},
		}),
	)
	if err != nil {
		return nil, err
	}

	for range cfg.NPC.Count {
		if _, err := world.SpawnNPC(); err != nil {
			return nil, err
		}
	}
	if cfg.Vehicle.Enabled {
		c := registry.Bound().Center()
		if _, err := world.SpawnVehicle(vmath.Vec2{X: c[0], Y: c[1]}, 0); err != nil {
			return nil, err
		}
	}
	return world, nil
}

func runHeadless(world *engine.World, hub *network.Hub, interval time.Duration, ticks int, logger *log.Logger) error {
	if ticks <= 0 {
		return fmt.Errorf("%w: -ticks must be > 0 in headless mode", config.ErrInvalidConfig)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	started := time.Now()
	simulate(world, hub, interval, ticks, interrupt)

	stats := world.Stats()
	snap := world.Snapshot()
	logger.Info("run complete",
		"ticks", world.Tick(),
		"sim_time", time.Duration(world.Tick())*interval,
		"wall_time", time.Since(started).Round(time.Millisecond),
		"arrivals", stats.Arrivals,
		"diversions", stats.Diversions,
		"detours", stats.DetourCompletions,
		"stall_recoveries", stats.StallRecoveries,
		"select_failures", stats.SelectFailures,
		"diverting_now", snap.Diverting(),
		"route_distance", fmt.Sprintf("%.1f", stats.RouteDistance))
	return nil
}

// simulate steps as fast as possible, stopping early on interrupt
func simulate(world *engine.World, hub *network.Hub, interval time.Duration, ticks int, interrupt <-chan os.Signal) {
	for i := 1; i <= ticks; i++ {
		select {
		case <-interrupt:
			return
		default:
		}

		world.Step(interval)
		if hub != nil && i%parameter.NetworkSnapshotEveryTicks == 0 {
			snap := world.Snapshot()
			hub.Broadcast(&snap)
		}
	}
}
