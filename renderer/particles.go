// Package renderer draws frame snapshots with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/collide/camera"
	"github.com/pthm-cable/collide/components"
	"github.com/pthm-cable/collide/systems"
)

// ParticleRenderer draws snapshot particles as filled circles.
type ParticleRenderer struct {
	radius float32
}

// NewParticleRenderer creates a renderer for particles of the given radius.
func NewParticleRenderer(radius float32) *ParticleRenderer {
	return &ParticleRenderer{radius: radius}
}

// Draw renders the particles the camera can see. Must be called inside
// rl.BeginMode2D with a matching camera.
func (r *ParticleRenderer) Draw(particles []systems.ParticleView, cam *camera.Camera) {
	for i := range particles {
		p := &particles[i]
		if !cam.IsVisible(p.Pos.X, p.Pos.Y, r.radius) {
			continue
		}
		rl.DrawCircleV(rl.Vector2{X: p.Pos.X, Y: p.Pos.Y}, r.radius, toRL(p.Color))
	}
}

// Mode2D returns the raylib camera equivalent to cam.
func Mode2D(cam *camera.Camera) rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: cam.ViewportW / 2, Y: cam.ViewportH / 2},
		Target: rl.Vector2{X: cam.X, Y: cam.Y},
		Zoom:   cam.Zoom,
	}
}

func toRL(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
