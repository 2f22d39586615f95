package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/collide/components"
)

// CellCoord is an integer grid coordinate.
type CellCoord struct {
	X, Y int
}

// SpatialGrid buckets particle indices into fixed square cells. Cells are
// stored row-major; the flat index (y*cols + x) is also the total order used
// for lock acquisition and for pair deduplication.
//
// The grid itself does no locking. Callers hold the matching CellLockTable
// entry around Insert and Remove.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	cells    [][]int32
}

// NewSpatialGrid creates a ceil(width/cellSize) x ceil(height/cellSize) grid.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(math.Ceil(float64(width / cellSize)))
	rows := int(math.Ceil(float64(height / cellSize)))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Cols returns the number of grid columns.
func (g *SpatialGrid) Cols() int { return g.cols }

// Rows returns the number of grid rows.
func (g *SpatialGrid) Rows() int { return g.rows }

// NumCells returns cols*rows.
func (g *SpatialGrid) NumCells() int { return len(g.cells) }

// CellSize returns the cell edge length.
func (g *SpatialGrid) CellSize() float32 { return g.cellSize }

// CellFor returns the cell containing pos, clamped to the grid.
func (g *SpatialGrid) CellFor(pos components.Vec2) CellCoord {
	col := int(pos.X / g.cellSize)
	row := int(pos.Y / g.cellSize)

	// Clamp to valid range
	if col < 0 || pos.X < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 || pos.Y < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return CellCoord{X: col, Y: row}
}

// CellIndex returns the flat index of the cell containing pos.
func (g *SpatialGrid) CellIndex(pos components.Vec2) int {
	return g.Index(g.CellFor(pos))
}

// Index converts a coordinate to its flat index.
func (g *SpatialGrid) Index(c CellCoord) int {
	return c.Y*g.cols + c.X
}

// Coord converts a flat index back to a coordinate.
func (g *SpatialGrid) Coord(idx int) CellCoord {
	return CellCoord{X: idx % g.cols, Y: idx / g.cols}
}

// Insert adds particle i to cell.
func (g *SpatialGrid) Insert(i, cell int) {
	g.cells[cell] = append(g.cells[cell], int32(i))
}

// Remove deletes particle i from cell. Order within a cell is not kept.
// Returns false if i was not in the cell.
func (g *SpatialGrid) Remove(i, cell int) bool {
	items := g.cells[cell]
	for k, v := range items {
		if v == int32(i) {
			last := len(items) - 1
			items[k] = items[last]
			g.cells[cell] = items[:last]
			return true
		}
	}
	return false
}

// Occupants returns the particle indices in cell. The slice aliases grid
// storage and is only stable while the cell is not being modified.
func (g *SpatialGrid) Occupants(cell int) []int32 {
	return g.cells[cell]
}

// neighborOffsets lists the 3x3 neighborhood in ascending flat-index order.
var neighborOffsets = [9][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors appends the in-range cells of the 3x3 neighborhood around cell,
// including cell itself, in ascending flat-index order.
func (g *SpatialGrid) Neighbors(cell int, dst []int) []int {
	c := g.Coord(cell)
	for _, off := range neighborOffsets {
		x, y := c.X+off[0], c.Y+off[1]
		if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
			continue
		}
		dst = append(dst, y*g.cols+x)
	}
	return dst
}

// Clear empties every cell.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Rebuild clears the grid and buckets every particle from scratch, recording
// each particle's cell. Only used before workers start.
func (g *SpatialGrid) Rebuild(particles []Particle) {
	g.Clear()
	for i := range particles {
		cell := g.CellIndex(particles[i].Pos)
		g.Insert(i, cell)
		particles[i].cell = int32(cell)
	}
}

// Verify checks that every particle appears in exactly one cell and that the
// cell is the one recorded on the particle. Intended for tests and debugging.
func (g *SpatialGrid) Verify(particles []Particle) error {
	seen := make([]int, len(particles))
	for cell, items := range g.cells {
		for _, v := range items {
			i := int(v)
			if i < 0 || i >= len(particles) {
				return fmt.Errorf("cell %d holds unknown particle %d", cell, i)
			}
			seen[i]++
			if int(particles[i].cell) != cell {
				return fmt.Errorf("particle %d found in cell %d, recorded in %d", i, cell, particles[i].cell)
			}
		}
	}
	for i, n := range seen {
		if n != 1 {
			return fmt.Errorf("particle %d appears in %d cells", i, n)
		}
	}
	return nil
}
