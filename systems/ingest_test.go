package systems

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/collide/components"
)

func TestIngestDrainAppliesInOrder(t *testing.T) {
	s := NewState(4)
	s.spawn(components.Vec2{X: 1, Y: 1}, components.Vec2{}, components.Color{})

	b := NewIngestBuffer(16)
	red := components.Color{R: 255, A: 255}
	require.NoError(t, b.Enqueue(Spawn(components.Vec2{X: 5, Y: 5}, components.Vec2{X: 1}, red)))
	require.NoError(t, b.Enqueue(OverrideVelocity(0, components.Vec2{Y: 2})))
	require.NoError(t, b.Enqueue(OverridePosition(1, components.Vec2{X: 9, Y: 9})))
	assert.Equal(t, 3, b.Len())

	res := b.DrainInto(s)
	assert.Equal(t, DrainResult{Spawned: 1, Overridden: 2}, res)
	assert.Equal(t, 0, b.Len())

	require.Equal(t, 2, s.Len())
	assert.Equal(t, components.Vec2{X: 1, Y: 1}, s.Particles[0].Pos, "velocity override must not move the particle")
	assert.Equal(t, components.Vec2{Y: 2}, s.Particles[0].Vel)
	assert.Equal(t, components.Vec2{X: 9, Y: 9}, s.Particles[1].Pos)
	assert.Equal(t, components.Vec2{X: 1}, s.Particles[1].Vel)
	assert.Equal(t, red, s.Particles[1].Color)
	assert.Equal(t, noCell, s.Particles[1].Cell())

	// A second drain with nothing queued is a no-op.
	assert.Equal(t, DrainResult{}, b.DrainInto(s))
	assert.Equal(t, 2, s.Len())
}

func TestIngestRejects(t *testing.T) {
	s := NewState(1)
	s.spawn(components.Vec2{}, components.Vec2{}, components.Color{})

	b := NewIngestBuffer(8)
	require.NoError(t, b.Enqueue(OverrideVelocity(7, components.Vec2{X: 1})))
	require.NoError(t, b.Enqueue(Spawn(components.Vec2{}, components.Vec2{}, components.Color{})))

	res := b.DrainInto(s)
	assert.Equal(t, DrainResult{Rejected: 2}, res)
	assert.Equal(t, 1, s.Len())
}

func TestIngestEnqueueValidation(t *testing.T) {
	b := NewIngestBuffer(8)
	nan := float32(math.NaN())

	tests := []struct {
		name string
		u    Update
	}{
		{"negative index", OverrideVelocity(-1, components.Vec2{})},
		{"no fields", Update{Kind: UpdateOverride, Index: 0}},
		{"unknown kind", Update{Kind: 9}},
		{"nan position", Spawn(components.Vec2{X: nan}, components.Vec2{}, components.Color{})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, b.Enqueue(tc.u), ErrInvalidUpdate)
		})
	}
	assert.Equal(t, 0, b.Len())
}

func TestIngestCapacity(t *testing.T) {
	b := NewIngestBuffer(2)
	u := Spawn(components.Vec2{}, components.Vec2{}, components.Color{})
	require.NoError(t, b.Enqueue(u))
	require.NoError(t, b.Enqueue(u))
	assert.ErrorIs(t, b.Enqueue(u), ErrIngestFull)

	b.DrainInto(NewState(8))
	assert.NoError(t, b.Enqueue(u), "drain frees capacity")
}

// Concurrent producers and a draining consumer: every accepted update lands
// exactly once.
func TestIngestConcurrentNoLossNoDuplicate(t *testing.T) {
	const producers, perProducer = 4, 500
	s := NewState(producers * perProducer)
	b := NewIngestBuffer(producers * perProducer)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				pos := components.Vec2{X: float32(p), Y: float32(i)}
				if err := b.Enqueue(Spawn(pos, components.Vec2{}, components.Color{})); err != nil {
					t.Errorf("enqueue: %v", err)
					return
				}
			}
		}(p)
	}

	stop := make(chan struct{})
	drained := make(chan int)
	go func() {
		total := 0
		for {
			select {
			case <-stop:
				total += b.DrainInto(s).Spawned
				drained <- total
				return
			default:
				total += b.DrainInto(s).Spawned
			}
		}
	}()

	wg.Wait()
	close(stop)
	total := <-drained

	require.Equal(t, producers*perProducer, total)
	seen := make(map[components.Vec2]bool, total)
	for _, p := range s.Particles {
		assert.False(t, seen[p.Pos], "duplicate particle at %v", p.Pos)
		seen[p.Pos] = true
	}
}
