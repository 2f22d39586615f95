package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxStepsPerUpdate bounds the steps slider.
const MaxStepsPerUpdate = 10

// ControlsState is the panel's view of the simulation.
type ControlsState struct {
	Paused          bool
	StepsPerUpdate  int
	EmittersEnabled bool
}

// ControlsAction reports what the user changed this frame.
type ControlsAction struct {
	TogglePause    bool
	ToggleEmitters bool
	Kick           bool
	StepsPerUpdate int
}

// ControlsPanel renders the right-side raygui controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the panel and returns the user's changes.
func (c *ControlsPanel) Draw(state ControlsState) ControlsAction {
	action := ControlsAction{StepsPerUpdate: state.StepsPerUpdate}
	if !c.visible {
		return action
	}

	r := c.renderer
	padding := r.Theme.Padding
	inner := float32(c.width - padding*2)
	half := (inner - float32(padding)) / 2

	c.renderer.DrawPanel(c.x, c.y, c.width, 150)

	y := r.DrawSectionHeader(c.x+padding, c.y+padding, "Controls")
	px := float32(c.x + padding)
	py := float32(y + 4)

	if gui.Button(rl.Rectangle{X: px, Y: py, Width: half, Height: 26}, toggleText(state.Paused, "Resume", "Pause")) {
		action.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: px + half + float32(padding), Y: py, Width: half, Height: 26}, "Kick") {
		action.Kick = true
	}
	py += 34

	rl.DrawText(fmt.Sprintf("Steps per update: %d", state.StepsPerUpdate), int32(px), int32(py), r.Theme.FontSize, r.Theme.LabelColor)
	py += 16
	steps := gui.SliderBar(
		rl.Rectangle{X: px + 12, Y: py, Width: inner - 36, Height: 18},
		"1", fmt.Sprint(MaxStepsPerUpdate),
		float32(state.StepsPerUpdate), 1, MaxStepsPerUpdate,
	)
	action.StepsPerUpdate = clampSteps(int(steps + 0.5))
	py += 28

	if gui.Button(rl.Rectangle{X: px, Y: py, Width: inner, Height: 26}, toggleText(state.EmittersEnabled, "Emitters: on", "Emitters: off")) {
		action.ToggleEmitters = true
	}

	return action
}

func clampSteps(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxStepsPerUpdate {
		return MaxStepsPerUpdate
	}
	return n
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
