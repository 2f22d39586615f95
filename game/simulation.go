package game

import "github.com/pthm-cable/collide/telemetry"

// Update handles input and advances the simulation in graphics mode.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if g.paused {
		return
	}
	g.step()
}

// UpdateHeadless advances the simulation without touching raylib.
func (g *Game) UpdateHeadless() {
	g.step()
}

// step runs stepsPerUpdate frames and refreshes the snapshot.
func (g *Game) step() {
	g.perfCollector.StartTick()

	for i := 0; i < g.stepsPerUpdate; i++ {
		fs := g.scheduler.Step()
		g.perfCollector.AddFrame(fs)
		g.collector.RecordFrame(fs)
		g.last = fs
	}

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.snapshot = g.scheduler.Snapshot(g.snapshot)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}
