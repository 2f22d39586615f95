package components

// Position is the ECS position of an input-side entity (emitter origin).
type Position struct {
	X, Y float32
}

// Emitter spawns particles from its Position on a fixed frame interval.
type Emitter struct {
	Interval  int     // frames between bursts
	Burst     int     // particles per burst
	Remaining int     // particles left to emit (-1 = unlimited)
	Speed     float32 // initial speed in world units per frame
	Heading   float32 // radians; 0 points along +x
	Spread    float32 // max random deviation from Heading (radians)
	Color     Color
	Enabled   bool

	countdown int
}

// Tick advances the emitter by one frame and reports how many particles it
// should release now.
func (e *Emitter) Tick() int {
	if !e.Enabled || e.Remaining == 0 {
		return 0
	}
	if e.countdown > 0 {
		e.countdown--
		return 0
	}
	e.countdown = e.Interval
	n := e.Burst
	if e.Remaining > 0 && n > e.Remaining {
		n = e.Remaining
	}
	if e.Remaining > 0 {
		e.Remaining -= n
	}
	return n
}

// Kick is a one-shot velocity override for a set of particle indices.
// It is consumed (removed) after the frame it is applied on.
type Kick struct {
	Indices []int
	Vel     Vec2
}
