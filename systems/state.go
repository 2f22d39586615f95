package systems

import "github.com/pthm-cable/collide/components"

// noCell marks a particle that has not been bucketed yet.
const noCell = -1

// Particle is one record in the arena. Its index in State.Particles is its
// identity for the lifetime of the simulation.
type Particle struct {
	Pos   components.Vec2
	Vel   components.Vec2
	Color components.Color

	cell int32 // flat grid index recorded at the last bucketing, or noCell
}

// Cell returns the flat grid index the particle was last bucketed into.
func (p *Particle) Cell() int {
	return int(p.cell)
}

// ParticleView is the read-only per-particle data handed to renderers.
type ParticleView struct {
	Pos   components.Vec2
	Color components.Color
}

// State is the particle arena. Indices are never reused.
type State struct {
	Particles []Particle
	max       int
}

// NewState allocates an arena that can hold up to max particles.
func NewState(max int) *State {
	return &State{
		Particles: make([]Particle, 0, max),
		max:       max,
	}
}

// Len returns the number of live particles.
func (s *State) Len() int {
	return len(s.Particles)
}

// Max returns the arena capacity.
func (s *State) Max() int {
	return s.max
}

// spawn appends a particle and returns its index, or false when full.
func (s *State) spawn(pos, vel components.Vec2, color components.Color) (int, bool) {
	if len(s.Particles) >= s.max {
		return 0, false
	}
	s.Particles = append(s.Particles, Particle{Pos: pos, Vel: vel, Color: color, cell: noCell})
	return len(s.Particles) - 1, true
}

// Snapshot copies positions and colors into dst (reused when large enough).
// Only call it while no frame is in flight.
func (s *State) Snapshot(dst []ParticleView) []ParticleView {
	n := len(s.Particles)
	if cap(dst) < n {
		dst = make([]ParticleView, n)
	}
	dst = dst[:n]
	for i := range s.Particles {
		dst[i] = ParticleView{Pos: s.Particles[i].Pos, Color: s.Particles[i].Color}
	}
	return dst
}
