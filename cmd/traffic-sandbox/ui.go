package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/engine"
	"github.com/lixenwraith/vi-traffic/network"
	"github.com/lixenwraith/vi-traffic/parameter"
	"github.com/lixenwraith/vi-traffic/render"
)

// runInteractive drives the world from a ClockScheduler and redraws on every tick
// Arrow keys drive the vehicle, p pauses, d toggles sensors, l toggles labels, q quits
func runInteractive(world *engine.World, hub *network.Hub, interval time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashScreen(screen)
	defer func() {
		core.SetCrashScreen(nil)
		screen.Fini()
	}()

	bound := world.Registry().Bound().Pad(parameter.ViewPadding)
	renderer := render.NewTerminalRenderer(screen, bound, world.Metrics())

	scheduler := engine.NewClockScheduler(world, nil, interval, func(tick uint64) {
		if hub != nil && tick%parameter.NetworkSnapshotEveryTicks == 0 {
			snap := world.Snapshot()
			hub.Broadcast(&snap)
		}
		// Wake the event loop to redraw, a full queue just skips a frame
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	scheduler.Start()
	defer scheduler.Stop()

	var held heldInput
	redraw := func() {
		if in, changed := held.current(time.Now()); changed {
			world.SetVehicleInput(in)
		}
		snap := world.Snapshot()
		renderer.Paused = scheduler.IsPaused()
		renderer.RenderFrame(&snap)
	}
	redraw()

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil

		case *tcell.EventResize:
			screen.Sync()
			redraw()

		case *tcell.EventInterrupt:
			redraw()

		case *tcell.EventKey:
			now := time.Now()
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil
			case tcell.KeyUp:
				held.pressThrottle(1, now)
			case tcell.KeyDown:
				held.pressThrottle(-1, now)
			case tcell.KeyLeft:
				held.pressSteer(-1, now)
			case tcell.KeyRight:
				held.pressSteer(1, now)
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q', 'Q':
					return nil
				case ' ':
					held.release()
				case 'p':
					if scheduler.IsPaused() {
						scheduler.Resume()
					} else {
						scheduler.Pause()
					}
				case 'd':
					renderer.ShowDetection = !renderer.ShowDetection
				case 'l':
					renderer.ShowLabels = !renderer.ShowLabels
				}
			}
			// Paused worlds still redraw so toggles show immediately
			redraw()
		}
	}
}
