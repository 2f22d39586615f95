// Package input is the producer side of the ingest handoff. It keeps its own
// ECS world of emitters and pending kicks, and after every completed frame
// turns them into particle updates for the simulation core.
package input

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/collide/components"
	"github.com/pthm-cable/collide/systems"
)

// EmitterSpec describes an emitter to add to the input world.
type EmitterSpec struct {
	Name     string
	Position components.Position
	Emitter  components.Emitter
}

// Stats counts what the source has produced.
type Stats struct {
	Frames   uint64 // completions observed
	Enqueued int
	Dropped  int // rejected because the ingest buffer was full
}

// Source owns the input ECS world. Only the goroutine running Run (or the
// caller of Produce when Run is not used) may touch it; other goroutines
// talk to it through the request methods.
type Source struct {
	world         *ecs.World
	emitterMap    *ecs.Map2[components.Position, components.Emitter]
	emitterFilter *ecs.Filter2[components.Position, components.Emitter]
	kickMap       *ecs.Map1[components.Kick]
	kickFilter    *ecs.Filter1[components.Kick]

	ingest *systems.IngestBuffer
	signal *systems.FrameSignal
	rng    *rand.Rand

	requests chan func()
	updates  []systems.Update
	spent    []ecs.Entity
	stats    Stats
}

// NewSource creates a source feeding ingest and paced by signal.
func NewSource(ingest *systems.IngestBuffer, signal *systems.FrameSignal, seed int64) *Source {
	world := ecs.NewWorld()
	return &Source{
		world:         world,
		emitterMap:    ecs.NewMap2[components.Position, components.Emitter](world),
		emitterFilter: ecs.NewFilter2[components.Position, components.Emitter](world),
		kickMap:       ecs.NewMap1[components.Kick](world),
		kickFilter:    ecs.NewFilter1[components.Kick](world),
		ingest:        ingest,
		signal:        signal,
		rng:           rand.New(rand.NewSource(seed)),
		requests:      make(chan func(), 64),
	}
}

// AddEmitter registers an emitter. Safe from any goroutine.
func (s *Source) AddEmitter(spec EmitterSpec) {
	s.request(func() {
		pos, em := spec.Position, spec.Emitter
		s.emitterMap.NewEntity(&pos, &em)
	})
}

// SetEmittersEnabled turns every emitter on or off. Safe from any goroutine.
func (s *Source) SetEmittersEnabled(enabled bool) {
	s.request(func() {
		query := s.emitterFilter.Query()
		for query.Next() {
			_, em := query.Get()
			em.Enabled = enabled
		}
	})
}

// RequestKick gives a random fraction of the first n particles a new
// velocity of the given speed in a random direction. Safe from any goroutine.
func (s *Source) RequestKick(n int, fraction float64, speed float32) {
	s.request(func() {
		k := int(math.Ceil(float64(n) * fraction))
		if n <= 0 || k <= 0 {
			return
		}
		kick := components.Kick{Indices: make([]int, 0, k)}
		for _, i := range s.rng.Perm(n)[:min(k, n)] {
			kick.Indices = append(kick.Indices, i)
		}
		angle := s.rng.Float64() * 2 * math.Pi
		kick.Vel = components.Vec2{
			X: float32(math.Cos(angle)) * speed,
			Y: float32(math.Sin(angle)) * speed,
		}
		s.kickMap.NewEntity(&kick)
	})
}

// request hands fn to the owning goroutine. Requests beyond the queue
// capacity are dropped rather than blocking the UI.
func (s *Source) request(fn func()) {
	select {
	case s.requests <- fn:
	default:
		slog.Warn("input request dropped", "queued", len(s.requests))
	}
}

// Stats returns the production counters. Only meaningful from the owning
// goroutine or after Run has returned.
func (s *Source) Stats() Stats {
	return s.stats
}

// Run waits for each frame completion and enqueues that frame's updates,
// until ctx is cancelled.
func (s *Source) Run(ctx context.Context) error {
	var seen uint64
	for {
		frame, err := s.signal.Wait(ctx, seen)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		elapsed := int(frame - seen)
		seen = frame
		s.stats.Frames++

		for _, u := range s.Produce(elapsed) {
			if err := s.ingest.Enqueue(u); err != nil {
				if errors.Is(err, systems.ErrIngestFull) {
					s.stats.Dropped++
					continue
				}
				slog.Error("enqueue failed", "error", err)
				continue
			}
			s.stats.Enqueued++
		}
	}
}

// Produce applies pending requests, advances every emitter by frames ticks,
// consumes pending kicks and returns the resulting updates. The returned
// slice is reused by the next call.
func (s *Source) Produce(frames int) []systems.Update {
	s.applyRequests()
	s.updates = s.updates[:0]
	s.runEmitters(frames)
	s.runKicks()
	return s.updates
}

func (s *Source) applyRequests() {
	for {
		select {
		case fn := <-s.requests:
			fn()
		default:
			return
		}
	}
}

// runEmitters ticks every emitter and spawns its bursts.
func (s *Source) runEmitters(frames int) {
	query := s.emitterFilter.Query()
	for query.Next() {
		pos, em := query.Get()
		for f := 0; f < frames; f++ {
			for n := em.Tick(); n > 0; n-- {
				heading := float64(em.Heading)
				if em.Spread > 0 {
					heading += (s.rng.Float64()*2 - 1) * float64(em.Spread)
				}
				vel := components.Vec2{
					X: float32(math.Cos(heading)) * em.Speed,
					Y: float32(math.Sin(heading)) * em.Speed,
				}
				s.updates = append(s.updates, systems.Spawn(components.Vec2{X: pos.X, Y: pos.Y}, vel, em.Color))
			}
		}
	}
}

// runKicks turns every pending kick into velocity overrides and removes it.
func (s *Source) runKicks() {
	s.spent = s.spent[:0]
	query := s.kickFilter.Query()
	for query.Next() {
		kick := query.Get()
		for _, i := range kick.Indices {
			s.updates = append(s.updates, systems.OverrideVelocity(i, kick.Vel))
		}
		s.spent = append(s.spent, query.Entity())
	}
	// Entities cannot be removed while the query holds the world.
	for _, e := range s.spent {
		s.world.RemoveEntity(e)
	}
}

// EmitterCount returns the number of emitters. Owning goroutine only.
func (s *Source) EmitterCount() int {
	n := 0
	query := s.emitterFilter.Query()
	for query.Next() {
		n++
	}
	return n
}
