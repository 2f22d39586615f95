package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/collide/systems"
)

// GridOverlay draws the spatial grid cell boundaries and occupancy.
type GridOverlay struct {
	grid  *systems.SpatialGrid
	line  rl.Color
	heavy rl.Color
}

// NewGridOverlay creates an overlay for grid.
func NewGridOverlay(grid *systems.SpatialGrid) *GridOverlay {
	return &GridOverlay{
		grid:  grid,
		line:  rl.Color{R: 60, G: 70, B: 80, A: 120},
		heavy: rl.Color{R: 200, G: 100, B: 100, A: 60},
	}
}

// Draw renders cell lines and shades cells holding more than crowd occupants.
// Must be called between frames.
func (o *GridOverlay) Draw(crowd int) {
	g := o.grid
	size := g.CellSize()
	cols, rows := g.Cols(), g.Rows()
	w := float32(cols) * size
	h := float32(rows) * size

	for i := 0; i < g.NumCells(); i++ {
		if len(g.Occupants(i)) > crowd {
			c := g.Coord(i)
			rl.DrawRectangle(int32(float32(c.X)*size), int32(float32(c.Y)*size), int32(size), int32(size), o.heavy)
		}
	}
	for x := 0; x <= cols; x++ {
		fx := float32(x) * size
		rl.DrawLineV(rl.Vector2{X: fx, Y: 0}, rl.Vector2{X: fx, Y: h}, o.line)
	}
	for y := 0; y <= rows; y++ {
		fy := float32(y) * size
		rl.DrawLineV(rl.Vector2{X: 0, Y: fy}, rl.Vector2{X: w, Y: fy}, o.line)
	}
}
