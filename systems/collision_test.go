package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/collide/components"
)

func dist(a, b components.Vec2) float32 {
	return a.Sub(b).Len()
}

func TestResolvePairSeparates(t *testing.T) {
	r := NewCollisionResolver(8, 1000, 800)
	ps := []Particle{
		{Pos: components.Vec2{X: 100, Y: 100}, Vel: components.Vec2{X: 3}},
		{Pos: components.Vec2{X: 104, Y: 100}, Vel: components.Vec2{Y: -1}},
	}

	assert.Equal(t, ContactResolved, r.ResolvePair(ps, 0, 1))
	assert.Equal(t, components.Vec2{X: 94, Y: 100}, ps[0].Pos)
	assert.Equal(t, components.Vec2{X: 110, Y: 100}, ps[1].Pos)
	assert.GreaterOrEqual(t, dist(ps[0].Pos, ps[1].Pos), float32(16))
	assert.True(t, ps[0].Vel.IsZero())
	assert.True(t, ps[1].Vel.IsZero())
}

func TestResolvePairNoContact(t *testing.T) {
	r := NewCollisionResolver(8, 1000, 800)
	ps := []Particle{
		{Pos: components.Vec2{X: 100, Y: 100}, Vel: components.Vec2{X: 1}},
		{Pos: components.Vec2{X: 116, Y: 100}, Vel: components.Vec2{X: -1}},
	}

	// Exactly touching is not an overlap.
	assert.Equal(t, ContactNone, r.ResolvePair(ps, 0, 1))
	assert.Equal(t, components.Vec2{X: 1}, ps[0].Vel)
	assert.Equal(t, ContactNone, r.ResolvePair(ps, 0, 0))
}

func TestResolvePairSymmetric(t *testing.T) {
	r := NewCollisionResolver(5, 500, 500)
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		a := components.Vec2{X: 100 + rng.Float32()*20, Y: 100 + rng.Float32()*20}
		b := components.Vec2{X: 100 + rng.Float32()*20, Y: 100 + rng.Float32()*20}

		forward := []Particle{{Pos: a}, {Pos: b}}
		backward := []Particle{{Pos: a}, {Pos: b}}
		c1 := r.ResolvePair(forward, 0, 1)
		c2 := r.ResolvePair(backward, 1, 0)

		require.Equal(t, c1, c2)
		require.Equal(t, forward, backward, "trial %d", trial)
	}
}

func TestResolvePairDegenerate(t *testing.T) {
	r := NewCollisionResolver(4, 100, 100)
	ps := []Particle{
		{Pos: components.Vec2{X: 50, Y: 50}, Vel: components.Vec2{X: 1}},
		{Pos: components.Vec2{X: 50, Y: 50}, Vel: components.Vec2{Y: 1}},
	}

	assert.Equal(t, ContactDegenerate, r.ResolvePair(ps, 1, 0))
	assert.Equal(t, components.Vec2{X: 54, Y: 50}, ps[0].Pos, "lower index moves toward +x")
	assert.Equal(t, components.Vec2{X: 46, Y: 50}, ps[1].Pos)
	assert.Equal(t, float32(8), dist(ps[0].Pos, ps[1].Pos))
	assert.True(t, ps[0].Vel.IsZero())
	assert.True(t, ps[1].Vel.IsZero())
}

func TestResolvePairClampsToDomain(t *testing.T) {
	r := NewCollisionResolver(4, 100, 100)
	ps := []Particle{
		{Pos: components.Vec2{X: 1, Y: 50}},
		{Pos: components.Vec2{X: 3, Y: 50}},
	}

	r.ResolvePair(ps, 0, 1)
	assert.Equal(t, float32(0), ps[0].Pos.X)
	assert.Equal(t, float32(8), ps[1].Pos.X, "partner absorbs the separation the wall blocked")
	assert.GreaterOrEqual(t, dist(ps[0].Pos, ps[1].Pos), float32(8))
}

func TestResolvePairWallAdjacent(t *testing.T) {
	tests := []struct {
		name   string
		a, b   components.Vec2
		wantA  components.Vec2
		wantB  components.Vec2
		wantCt Contact
	}{
		{
			name: "degenerate at right wall", a: components.Vec2{X: 100, Y: 50}, b: components.Vec2{X: 100, Y: 50},
			wantA: components.Vec2{X: 100, Y: 50}, wantB: components.Vec2{X: 92, Y: 50}, wantCt: ContactDegenerate,
		},
		{
			name: "degenerate at left wall", a: components.Vec2{X: 0, Y: 50}, b: components.Vec2{X: 0, Y: 50},
			wantA: components.Vec2{X: 8, Y: 50}, wantB: components.Vec2{X: 0, Y: 50}, wantCt: ContactDegenerate,
		},
		{
			name: "lower index pinned at left wall", a: components.Vec2{X: 1, Y: 50}, b: components.Vec2{X: 5, Y: 50},
			wantA: components.Vec2{X: 0, Y: 50}, wantB: components.Vec2{X: 8, Y: 50}, wantCt: ContactResolved,
		},
		{
			name: "higher index pinned at right wall", a: components.Vec2{X: 97, Y: 50}, b: components.Vec2{X: 99, Y: 50},
			wantA: components.Vec2{X: 92, Y: 50}, wantB: components.Vec2{X: 100, Y: 50}, wantCt: ContactResolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCollisionResolver(4, 100, 100)
			ps := []Particle{{Pos: tt.a}, {Pos: tt.b}}

			assert.Equal(t, tt.wantCt, r.ResolvePair(ps, 0, 1))
			assert.InDelta(t, tt.wantA.X, ps[0].Pos.X, 1e-4)
			assert.InDelta(t, tt.wantB.X, ps[1].Pos.X, 1e-4)
			assert.GreaterOrEqual(t, dist(ps[0].Pos, ps[1].Pos), float32(8)-1e-4)
			for _, p := range ps {
				assert.True(t, p.Pos.X >= 0 && p.Pos.X <= 100)
			}
		})
	}
}

func TestResolveCellCounts(t *testing.T) {
	r := NewCollisionResolver(4, 100, 100)
	ps := []Particle{
		{Pos: components.Vec2{X: 10, Y: 10}},
		{Pos: components.Vec2{X: 12, Y: 10}},
		{Pos: components.Vec2{X: 60, Y: 60}},
		{Pos: components.Vec2{X: 60, Y: 60}},
	}

	c, d := r.ResolveCell(ps, []int32{0, 1, 2, 3})
	assert.Equal(t, 2, c)
	assert.Equal(t, 1, d)

	c, d = r.ResolveCells(ps, []int32{0}, []int32{2})
	assert.Zero(t, c)
	assert.Zero(t, d)
}

func TestReflect(t *testing.T) {
	r := NewCollisionResolver(2, 200, 100)

	tests := []struct {
		name    string
		in      Particle
		wantPos components.Vec2
		wantVel components.Vec2
		hit     bool
	}{
		{
			name:    "inside",
			in:      Particle{Pos: components.Vec2{X: 10, Y: 10}, Vel: components.Vec2{X: 1, Y: 1}},
			wantPos: components.Vec2{X: 10, Y: 10},
			wantVel: components.Vec2{X: 1, Y: 1},
		},
		{
			name:    "past right",
			in:      Particle{Pos: components.Vec2{X: 206, Y: 10}, Vel: components.Vec2{X: 1}},
			wantPos: components.Vec2{X: 200, Y: 10},
			wantVel: components.Vec2{X: -1},
			hit:     true,
		},
		{
			name:    "past left and bottom",
			in:      Particle{Pos: components.Vec2{X: -3, Y: 120}, Vel: components.Vec2{X: -2, Y: 4}},
			wantPos: components.Vec2{X: 0, Y: 100},
			wantVel: components.Vec2{X: 2, Y: -4},
			hit:     true,
		},
		{
			name:    "past top",
			in:      Particle{Pos: components.Vec2{X: 50, Y: -1}, Vel: components.Vec2{Y: -1}},
			wantPos: components.Vec2{X: 50, Y: 0},
			wantVel: components.Vec2{Y: 1},
			hit:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			assert.Equal(t, tc.hit, r.Reflect(&p))
			assert.Equal(t, tc.wantPos, p.Pos)
			assert.Equal(t, tc.wantVel, p.Vel)
		})
	}
}
