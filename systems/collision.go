package systems

import "github.com/pthm-cable/collide/components"

// Contact is the outcome of testing one pair.
type Contact uint8

const (
	ContactNone       Contact = iota // no overlap
	ContactResolved                  // overlap separated along the line of centers
	ContactDegenerate                // exact overlap, separated along +x
)

// CollisionResolver separates overlapping equal-radius particles and keeps
// them inside the domain.
//
// On contact both velocities are set to zero. This is a deliberately crude
// inelastic policy and does not conserve momentum or energy.
type CollisionResolver struct {
	radius     float32
	diameter   float32
	diameterSq float32
	width      float32
	height     float32
}

// NewCollisionResolver creates a resolver for the given radius and domain.
func NewCollisionResolver(radius, width, height float32) *CollisionResolver {
	d := 2 * radius
	return &CollisionResolver{
		radius:     radius,
		diameter:   d,
		diameterSq: d * d,
		width:      width,
		height:     height,
	}
}

// Radius returns the particle radius.
func (r *CollisionResolver) Radius() float32 {
	return r.radius
}

// ResolvePair tests particles a and b and separates them if they overlap.
// The pair is ordered by index first, so (a,b) and (b,a) give the same result.
func (r *CollisionResolver) ResolvePair(ps []Particle, a, b int) Contact {
	if a == b {
		return ContactNone
	}
	if a > b {
		a, b = b, a
	}
	pa, pb := &ps[a], &ps[b]

	d := pa.Pos.Sub(pb.Pos)
	distSq := d.LenSq()
	if distSq >= r.diameterSq {
		return ContactNone
	}

	contact := ContactResolved
	var n components.Vec2
	var overlap float32
	if distSq == 0 {
		// No line of centers; push the lower index toward +x.
		n = components.Vec2{X: 1}
		overlap = r.radius
		contact = ContactDegenerate
	} else {
		dist := d.Len()
		overlap = (r.diameter - dist) / 2
		n = d.Scale(1 / dist)
	}

	na := r.clamp(pa.Pos.Add(n.Scale(overlap)))
	nb := r.clamp(pb.Pos.Sub(n.Scale(overlap)))
	// Separation a wall eats from one side is pushed onto the partner.
	for i := 0; i < 3; i++ {
		short := shortfall(pa.Pos, pb.Pos, na, nb, n, overlap)
		if short <= 0 {
			break
		}
		nb = r.clamp(nb.Sub(n.Scale(short)))
		short = shortfall(pa.Pos, pb.Pos, na, nb, n, overlap)
		if short <= 0 {
			break
		}
		na = r.clamp(na.Add(n.Scale(short)))
	}
	pa.Pos = na
	pb.Pos = nb
	pa.Vel = components.Vec2{}
	pb.Vel = components.Vec2{}
	return contact
}

// ResolveCell runs every pair inside one cell.
func (r *CollisionResolver) ResolveCell(ps []Particle, occ []int32) (collisions, degenerate int) {
	for i := 0; i < len(occ); i++ {
		for j := i + 1; j < len(occ); j++ {
			switch r.ResolvePair(ps, int(occ[i]), int(occ[j])) {
			case ContactResolved:
				collisions++
			case ContactDegenerate:
				collisions++
				degenerate++
			}
		}
	}
	return collisions, degenerate
}

// ResolveCells runs every pair drawn from two distinct cells.
func (r *CollisionResolver) ResolveCells(ps []Particle, occA, occB []int32) (collisions, degenerate int) {
	for _, a := range occA {
		for _, b := range occB {
			switch r.ResolvePair(ps, int(a), int(b)) {
			case ContactResolved:
				collisions++
			case ContactDegenerate:
				collisions++
				degenerate++
			}
		}
	}
	return collisions, degenerate
}

// Reflect clamps p into the domain, negating the velocity component of each
// axis that was out of range. Returns true if anything changed.
func (r *CollisionResolver) Reflect(p *Particle) bool {
	hit := false
	if p.Pos.X < 0 {
		p.Pos.X = 0
		p.Vel.X = -p.Vel.X
		hit = true
	} else if p.Pos.X > r.width {
		p.Pos.X = r.width
		p.Vel.X = -p.Vel.X
		hit = true
	}
	if p.Pos.Y < 0 {
		p.Pos.Y = 0
		p.Vel.Y = -p.Vel.Y
		hit = true
	} else if p.Pos.Y > r.height {
		p.Pos.Y = r.height
		p.Vel.Y = -p.Vel.Y
		hit = true
	}
	return hit
}

// clamp keeps a corrected position inside the domain without touching velocity.
func (r *CollisionResolver) clamp(v components.Vec2) components.Vec2 {
	v.X = clampFloat(v.X, 0, r.width)
	v.Y = clampFloat(v.Y, 0, r.height)
	return v
}

// shortfall is how much of the 2*overlap separation along n the clamped
// positions na, nb still miss relative to the starting positions a, b.
func shortfall(a, b, na, nb, n components.Vec2, overlap float32) float32 {
	moved := na.Sub(a).Dot(n) + b.Sub(nb).Dot(n)
	return 2*overlap - moved
}
