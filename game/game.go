// Package game wires the collision core to its input source, telemetry and
// the raylib viewer.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pthm-cable/collide/camera"
	"github.com/pthm-cable/collide/components"
	"github.com/pthm-cable/collide/config"
	"github.com/pthm-cable/collide/input"
	"github.com/pthm-cable/collide/renderer"
	"github.com/pthm-cable/collide/systems"
	"github.com/pthm-cable/collide/telemetry"
	"github.com/pthm-cable/collide/ui"
)

// Options configures a Game beyond what config.yaml holds.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Workers        int // 0 = config value

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete application state.
type Game struct {
	world     *systems.World
	scheduler *systems.Scheduler
	source    *input.Source

	cancel    context.CancelFunc
	inputDone chan error

	// Last completed frame
	snapshot []systems.ParticleView
	last     systems.FrameStats

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// State
	paused          bool
	stepsPerUpdate  int
	emittersEnabled bool
	showGrid        bool
	showPerf        bool
	headless        bool

	// Rendering (nil in headless mode)
	camera           *camera.Camera
	particleRenderer *renderer.ParticleRenderer
	gridOverlay      *renderer.GridOverlay
	hud              *ui.HUD
	perfPanel        *ui.PerfPanel
	controls         *ui.ControlsPanel

	screenWidth, screenHeight float32
}

// config returns the global configuration.
func (g *Game) config() *config.Config {
	return config.Cfg()
}

// NewGameWithOptions builds the world, starts the workers and the input
// goroutine. config.Init must have been called.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	world, err := systems.NewWorld(cfg.SimWorld())
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Derived.Workers
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		world:          world,
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager:  om,
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		stepsPerUpdate: steps,
		headless:       opts.Headless,
		screenWidth:    float32(cfg.Screen.Width),
		screenHeight:   float32(cfg.Screen.Height),
	}

	g.scheduler = systems.NewScheduler(world, workers)
	g.source = input.NewSource(world.Ingest, g.scheduler.Signal(), opts.Seed)
	for _, spec := range emitterSpecs(cfg.Emitters) {
		g.source.AddEmitter(spec)
		g.emittersEnabled = g.emittersEnabled || spec.Emitter.Enabled
	}

	if !opts.Headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
		g.particleRenderer = renderer.NewParticleRenderer(float32(cfg.Particles.Radius))
		g.gridOverlay = renderer.NewGridOverlay(world.Grid)
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-260, 200)
		g.controls = ui.NewControlsPanel(int32(g.screenWidth)-260, 10, 250)
	}

	g.scheduler.Start()
	g.snapshot = g.scheduler.Snapshot(g.snapshot)

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.inputDone = make(chan error, 1)
	go func() {
		g.inputDone <- g.source.Run(ctx)
	}()

	slog.Info("world ready",
		"particles", world.State.Len(),
		"max_particles", world.State.Max(),
		"cols", world.Grid.Cols(),
		"rows", world.Grid.Rows(),
		"workers", g.scheduler.Workers(),
		"emitters", len(cfg.Emitters),
	)

	return g, nil
}

// emitterSpecs converts configured emitters, turning degrees into radians.
func emitterSpecs(defs []config.EmitterConfig) []input.EmitterSpec {
	specs := make([]input.EmitterSpec, 0, len(defs))
	for _, d := range defs {
		specs = append(specs, input.EmitterSpec{
			Name:     d.Name,
			Position: components.Position{X: float32(d.X), Y: float32(d.Y)},
			Emitter: components.Emitter{
				Interval:  d.Interval,
				Burst:     d.Burst,
				Remaining: d.Remaining,
				Speed:     float32(d.Speed),
				Heading:   float32(d.Heading * math.Pi / 180),
				Spread:    float32(d.Spread * math.Pi / 180),
				Color:     config.ColorOf(d.Color),
				Enabled:   d.Enabled,
			},
		})
	}
	return specs
}

// Frame returns the number of completed frames.
func (g *Game) Frame() uint64 {
	return g.scheduler.Frame()
}

// LastFrame returns the stats of the most recent frame.
func (g *Game) LastFrame() systems.FrameStats {
	return g.last
}

// Snapshot returns the view of the last completed frame. The slice is
// reused by the next update.
func (g *Game) Snapshot() []systems.ParticleView {
	return g.snapshot
}

// Kick asks the input side to override the velocity of a random share of
// the current particles.
func (g *Game) Kick() {
	cfg := g.config()
	g.source.RequestKick(g.world.State.Len(), cfg.Kick.Fraction, float32(cfg.Kick.Speed))
}

// ToggleEmitters switches every emitter on or off.
func (g *Game) ToggleEmitters() {
	g.emittersEnabled = !g.emittersEnabled
	g.source.SetEmittersEnabled(g.emittersEnabled)
}

// TogglePause pauses or resumes stepping in Update.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Paused reports whether Update is currently skipping frames.
func (g *Game) Paused() bool {
	return g.paused
}

// Unload stops the input goroutine, then the workers, then closes output.
func (g *Game) Unload() {
	g.cancel()
	select {
	case err := <-g.inputDone:
		if err != nil {
			slog.Error("input source failed", "error", err)
		}
	case <-time.After(5 * time.Second):
		slog.Warn("input source did not stop")
	}

	g.scheduler.Stop()

	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
