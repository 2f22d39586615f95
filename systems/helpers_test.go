package systems

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/collide/components"
)

// newTestWorld builds a world and then places particles at exact positions.
func newTestWorld(t testing.TB, width, height, radius float32, pos, vel []components.Vec2) *World {
	t.Helper()
	w, err := NewWorld(WorldConfig{
		Width:        width,
		Height:       height,
		Radius:       radius,
		Count:        len(pos),
		MaxParticles: len(pos) + 64,
		Seed:         SeedConfig{Top: 0},
	})
	require.NoError(t, err)

	ps := w.State.Particles
	for i := range ps {
		ps[i].Pos = pos[i]
		if vel != nil {
			ps[i].Vel = vel[i]
		} else {
			ps[i].Vel = components.Vec2{}
		}
	}
	w.Grid.Rebuild(ps)
	return w
}

func requireInBounds(t testing.TB, w *World) {
	t.Helper()
	for i, p := range w.State.Particles {
		if p.Pos.X < 0 || p.Pos.X > w.Config.Width || p.Pos.Y < 0 || p.Pos.Y > w.Config.Height {
			t.Fatalf("particle %d out of bounds at (%f, %f)", i, p.Pos.X, p.Pos.Y)
		}
	}
}
