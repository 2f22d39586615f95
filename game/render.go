package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/collide/renderer"
	"github.com/pthm-cable/collide/telemetry"
	"github.com/pthm-cable/collide/ui"
)

// crowdedCell is the occupancy above which the grid overlay shades a cell.
const crowdedCell = 4

var perfPhases = []string{
	telemetry.PhaseMerge,
	telemetry.PhaseIntegrate,
	telemetry.PhaseCollide,
	telemetry.PhaseSnapshot,
	telemetry.PhaseTelemetry,
}

// Draw renders the last completed frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 18, A: 255})

	rl.BeginMode2D(renderer.Mode2D(g.camera))
	if g.showGrid {
		g.gridOverlay.Draw(crowdedCell)
	}
	g.particleRenderer.Draw(g.snapshot, g.camera)
	rl.EndMode2D()

	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders the HUD, perf panel and controls and applies control changes.
func (g *Game) drawUI() {
	w := g.world
	g.hud.Draw(ui.HUDData{
		Title:          "Collide",
		Frame:          g.scheduler.Frame(),
		Particles:      len(g.snapshot),
		MaxParticles:   w.State.Max(),
		Workers:        g.scheduler.Workers(),
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Collisions:     g.last.Collisions,
		Degenerate:     g.last.Degenerate,
		IngestPending:  w.Ingest.Len(),
		IngestCapacity: w.Config.IngestCapacity,
	})

	if g.showPerf {
		ps := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			Phases: perfPhases,
			Avg:    ps.PhaseAvg,
			Pct:    ps.PhasePct,
			Tick:   ps.AvgTickDuration,
		})
	}

	action := g.controls.Draw(ui.ControlsState{
		Paused:          g.paused,
		StepsPerUpdate:  g.stepsPerUpdate,
		EmittersEnabled: g.emittersEnabled,
	})
	if action.TogglePause {
		g.TogglePause()
	}
	if action.Kick {
		g.Kick()
	}
	if action.ToggleEmitters {
		g.ToggleEmitters()
	}
	g.stepsPerUpdate = action.StepsPerUpdate

	g.hud.DrawControls(int32(g.screenHeight),
		"[Space] pause  [,/.] steps  [K] kick  [E] emitters  [G] grid  [P] perf  [Tab] controls  [Arrows/Wheel] camera  [Home] reset")
}
