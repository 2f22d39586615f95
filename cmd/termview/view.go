package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/collide/systems"
)

// densityRunes maps cell occupancy to a glyph; the last entry covers every
// higher count.
var densityRunes = []rune{' ', '.', 'o', 'O', '@'}

var statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)

// view projects world coordinates onto the terminal grid, keeping the last
// row for the status line.
type view struct {
	worldW, worldH float32
	counts         []int
	colors         []tcell.Color
}

func newView(worldW, worldH float32) *view {
	return &view{worldW: worldW, worldH: worldH}
}

// cellOf maps a world position to a terminal column and row.
func (v *view) cellOf(x, y float32, cols, rows int) (int, int) {
	cx := int(x / v.worldW * float32(cols))
	cy := int(y / v.worldH * float32(rows))
	if cx >= cols {
		cx = cols - 1
	}
	if cy >= rows {
		cy = rows - 1
	}
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	return cx, cy
}

// draw renders the snapshot and status line and shows the screen.
func (v *view) draw(screen tcell.Screen, particles []systems.ParticleView, status string) {
	screen.Clear()

	cols, height := screen.Size()
	rows := height - 1
	if cols <= 0 || rows <= 0 {
		screen.Show()
		return
	}

	n := cols * rows
	if cap(v.counts) < n {
		v.counts = make([]int, n)
		v.colors = make([]tcell.Color, n)
	}
	v.counts = v.counts[:n]
	v.colors = v.colors[:n]
	clear(v.counts)

	for i := range particles {
		p := &particles[i]
		cx, cy := v.cellOf(p.Pos.X, p.Pos.Y, cols, rows)
		idx := cy*cols + cx
		v.counts[idx]++
		v.colors[idx] = tcell.NewRGBColor(int32(p.Color.R), int32(p.Color.G), int32(p.Color.B))
	}

	for idx, c := range v.counts {
		if c == 0 {
			continue
		}
		r := densityRunes[min(c, len(densityRunes)-1)]
		screen.SetContent(idx%cols, idx/cols, r, nil, tcell.StyleDefault.Foreground(v.colors[idx]))
	}

	x := 0
	for _, r := range status {
		if x >= cols {
			break
		}
		screen.SetContent(x, rows, r, nil, statusStyle)
		x++
	}
	for ; x < cols; x++ {
		screen.SetContent(x, rows, ' ', nil, statusStyle)
	}

	screen.Show()
}
