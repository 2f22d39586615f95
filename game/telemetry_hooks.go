package game

import "log/slog"

// flushTelemetry writes a stats window once enough frames have passed.
func (g *Game) flushTelemetry() {
	frame := g.scheduler.Frame()
	if !g.collector.ShouldFlush(frame) {
		return
	}

	// Workers are idle between Step calls.
	stats := g.collector.Flush(frame, g.world.State.Particles)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteFrames(stats); err != nil {
			slog.Error("failed to write frames", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, frame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
