package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Frame          uint64
	Particles      int
	MaxParticles   int
	Workers        int
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Collisions     int64
	Degenerate     int64
	IngestPending  int
	IngestCapacity int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Frame: %d | Particles: %d/%d | Workers: %d", data.Frame, data.Particles, data.MaxParticles, data.Workers),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Steps: %dx | FPS: %d | Contacts: %d (%d degenerate)", data.StepsPerUpdate, data.FPS, data.Collisions, data.Degenerate),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	h.renderer.DrawFill(10, 95, "Ingest", data.IngestPending, data.IngestCapacity, 260)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds per-phase timings for display.
type PerfPanelData struct {
	Phases []string
	Avg    map[string]time.Duration
	Pct    map[string]float64
	Tick   time.Duration
}

// PerfPanel renders the phase timing panel.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Phase Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s", data.Tick.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range data.Phases {
		pct := data.Pct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, data.Avg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
