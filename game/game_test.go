package game

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/collide/config"
	"github.com/pthm-cable/collide/telemetry"
)

func TestEmitterSpecs(t *testing.T) {
	specs := emitterSpecs([]config.EmitterConfig{
		{Name: "down", X: 10, Y: 20, Interval: 3, Burst: 2, Remaining: -1, Speed: 1.5, Heading: 90, Spread: 180, Color: [4]float64{1, 0, 0, 1}, Enabled: true},
		{Name: "off", Heading: 0},
	})
	require.Len(t, specs, 2)

	s := specs[0]
	assert.Equal(t, "down", s.Name)
	assert.Equal(t, float32(10), s.Position.X)
	assert.Equal(t, float32(20), s.Position.Y)
	assert.InDelta(t, math.Pi/2, float64(s.Emitter.Heading), 1e-6)
	assert.InDelta(t, math.Pi, float64(s.Emitter.Spread), 1e-6)
	assert.Equal(t, uint8(255), s.Emitter.Color.R)
	assert.True(t, s.Emitter.Enabled)
	assert.False(t, specs[1].Emitter.Enabled)
}

func TestHeadlessRun(t *testing.T) {
	config.MustInit("")
	out := filepath.Join(t.TempDir(), "run")

	var windows []telemetry.WindowStats
	g, err := NewGameWithOptions(Options{
		Seed:           1,
		OutputDir:      out,
		Headless:       true,
		StepsPerUpdate: 4,
		Workers:        2,
		StatsCallback:  func(ws telemetry.WindowStats) { windows = append(windows, ws) },
	})
	require.NoError(t, err)

	cfg := config.Cfg()
	require.Len(t, g.Snapshot(), cfg.Particles.Count)

	window := uint64(cfg.Telemetry.StatsWindow)
	for g.Frame() < 2*window {
		g.UpdateHeadless()
	}
	g.Unload()

	assert.Equal(t, 2*window, g.Frame())
	require.Len(t, windows, 2)
	assert.Equal(t, window, windows[0].WindowEnd)
	assert.Equal(t, int(window), windows[0].Frames)
	assert.Positive(t, windows[0].Collisions)

	// Default emitters are on, so the population grows.
	assert.Greater(t, len(g.Snapshot()), cfg.Particles.Count)
	w := cfg.Derived.WorldW32
	h := cfg.Derived.WorldH32
	for _, p := range g.Snapshot() {
		require.True(t, p.Pos.X >= 0 && p.Pos.X <= w && p.Pos.Y >= 0 && p.Pos.Y <= h, "particle at %v", p.Pos)
	}

	for _, name := range []string{"frames.csv", "perf.csv", "config.yaml"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestTogglesAndKick(t *testing.T) {
	config.MustInit("")
	g, err := NewGameWithOptions(Options{Headless: true, Workers: 1})
	require.NoError(t, err)
	defer g.Unload()

	assert.False(t, g.Paused())
	g.TogglePause()
	assert.True(t, g.Paused())

	assert.True(t, g.emittersEnabled)
	g.ToggleEmitters()
	assert.False(t, g.emittersEnabled)

	g.Kick()
	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}
	assert.Equal(t, uint64(4), g.Frame())
}
