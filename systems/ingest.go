package systems

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/collide/components"
)

// Ingest errors returned by Enqueue.
var (
	ErrIngestFull    = errors.New("ingest buffer full")
	ErrInvalidUpdate = errors.New("invalid particle update")
)

// UpdateKind says whether an Update creates a particle or edits one.
type UpdateKind uint8

const (
	UpdateSpawn    UpdateKind = iota // append a new particle
	UpdateOverride                   // replace kinematic state of an existing particle
)

// UpdateField selects which kinematic fields an override replaces.
type UpdateField uint8

const (
	FieldPos UpdateField = 1 << iota
	FieldVel
)

// Update is one pending change produced by the input side.
type Update struct {
	Kind   UpdateKind
	Index  int         // target particle (overrides only)
	Fields UpdateField // overrides only; spawns always set both
	Pos    components.Vec2
	Vel    components.Vec2
	Color  components.Color // spawns only
}

// Spawn builds an update that appends a particle.
func Spawn(pos, vel components.Vec2, color components.Color) Update {
	return Update{Kind: UpdateSpawn, Fields: FieldPos | FieldVel, Pos: pos, Vel: vel, Color: color}
}

// OverrideVelocity builds an update that replaces particle i's velocity.
func OverrideVelocity(i int, vel components.Vec2) Update {
	return Update{Kind: UpdateOverride, Index: i, Fields: FieldVel, Vel: vel}
}

// OverridePosition builds an update that moves particle i.
func OverridePosition(i int, pos components.Vec2) Update {
	return Update{Kind: UpdateOverride, Index: i, Fields: FieldPos, Pos: pos}
}

func finite(v components.Vec2) bool {
	x, y := float64(v.X), float64(v.Y)
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

func (u Update) validate() error {
	switch u.Kind {
	case UpdateSpawn:
	case UpdateOverride:
		if u.Index < 0 {
			return fmt.Errorf("override index %d: %w", u.Index, ErrInvalidUpdate)
		}
		if u.Fields&(FieldPos|FieldVel) == 0 {
			return fmt.Errorf("override of %d selects no fields: %w", u.Index, ErrInvalidUpdate)
		}
	default:
		return fmt.Errorf("kind %d: %w", u.Kind, ErrInvalidUpdate)
	}
	if !finite(u.Pos) || !finite(u.Vel) {
		return fmt.Errorf("non-finite vector: %w", ErrInvalidUpdate)
	}
	return nil
}

// DrainResult counts what a DrainInto call did.
type DrainResult struct {
	Spawned    int
	Overridden int
	Rejected   int // out-of-range overrides and spawns past the arena capacity
}

// IngestBuffer is the bounded handoff between the input goroutine and the
// workers. Enqueue and DrainInto take the same mutex and never hold it
// longer than the call.
type IngestBuffer struct {
	mu       sync.Mutex
	pending  []Update
	spare    []Update
	capacity int
}

// NewIngestBuffer creates a buffer holding at most capacity updates.
func NewIngestBuffer(capacity int) *IngestBuffer {
	return &IngestBuffer{
		pending:  make([]Update, 0, capacity),
		spare:    make([]Update, 0, capacity),
		capacity: capacity,
	}
}

// Enqueue appends an update. Input side only.
func (b *IngestBuffer) Enqueue(u Update) error {
	if err := u.validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) >= b.capacity {
		return ErrIngestFull
	}
	b.pending = append(b.pending, u)
	return nil
}

// Len returns the number of queued updates.
func (b *IngestBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// DrainInto applies every queued update to s in order and empties the queue.
// Called by exactly one worker at the start of a frame.
func (b *IngestBuffer) DrainInto(s *State) DrainResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	var res DrainResult
	for _, u := range b.pending {
		switch u.Kind {
		case UpdateSpawn:
			if _, ok := s.spawn(u.Pos, u.Vel, u.Color); ok {
				res.Spawned++
			} else {
				res.Rejected++
			}
		case UpdateOverride:
			if u.Index >= len(s.Particles) {
				res.Rejected++
				continue
			}
			p := &s.Particles[u.Index]
			if u.Fields&FieldPos != 0 {
				p.Pos = u.Pos
			}
			if u.Fields&FieldVel != 0 {
				p.Vel = u.Vel
			}
			res.Overridden++
		}
	}

	// Swap buffers so the next frame's enqueues reuse memory.
	b.pending, b.spare = b.spare[:0], b.pending[:0]
	return res
}
