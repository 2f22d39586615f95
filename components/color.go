package components

// Color is an 8-bit RGBA color. It is set when a particle is created and never
// touched by the simulation afterwards.
type Color struct {
	R, G, B, A uint8
}

// ColorFromFloats converts normalized [0,1] channels to a Color.
func ColorFromFloats(r, g, b, a float32) Color {
	return Color{R: unit8(r), G: unit8(g), B: unit8(b), A: unit8(a)}
}

func unit8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
