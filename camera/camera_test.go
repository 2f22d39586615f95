package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1000, 800, 2000, 800)

	// Should be centered on world
	if cam.X != 1000 || cam.Y != 400 {
		t.Errorf("expected camera at (1000, 400), got (%f, %f)", cam.X, cam.Y)
	}
	// Width is the binding dimension
	if !near(cam.Zoom, 0.5) {
		t.Errorf("expected fit zoom 0.5, got %f", cam.Zoom)
	}
	if cam.MinZoom != cam.Zoom {
		t.Errorf("expected min zoom to equal fit zoom, got %f", cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1000, 800, 1000, 800)

	sx, sy := cam.WorldToScreen(500, 400)
	if !near(sx, 500) || !near(sy, 400) {
		t.Errorf("expected screen center (500, 400), got (%f, %f)", sx, sy)
	}

	// At fit zoom the world corners land on the screen corners
	sx, sy = cam.WorldToScreen(0, 0)
	if !near(sx, 0) || !near(sy, 0) {
		t.Errorf("expected origin at (0, 0), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1000, 800, 1000, 800)
	cam.SetZoom(2)
	cam.Pan(100, -50)

	testCases := []struct{ sx, sy float32 }{
		{500, 400}, // center
		{100, 100}, // top-left
		{900, 700}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInWorld(t *testing.T) {
	cam := New(1000, 800, 1000, 800)

	cam.Pan(-5000, -5000)
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera clamped to (0, 0), got (%f, %f)", cam.X, cam.Y)
	}

	cam.Pan(50000, 50000)
	if cam.X != 1000 || cam.Y != 800 {
		t.Errorf("expected camera clamped to (1000, 800), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1000, 800, 1000, 800)

	cam.ZoomBy(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.ZoomBy(0.0001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1000, 800, 1000, 800)
	cam.SetZoom(2) // visible area 500x400 around (500, 400)

	if !cam.IsVisible(500, 400, 1) {
		t.Error("expected center to be visible")
	}
	if cam.IsVisible(10, 10, 1) {
		t.Error("expected corner to be culled at 2x zoom")
	}
	// Radius widens the check
	if !cam.IsVisible(245, 400, 10) {
		t.Error("expected circle overlapping the left edge to be visible")
	}
}

func TestResizeRaisesMinZoom(t *testing.T) {
	cam := New(1000, 800, 1000, 800)
	cam.Resize(2000, 1600)

	if !near(cam.MinZoom, 2) {
		t.Errorf("expected min zoom 2 after resize, got %f", cam.MinZoom)
	}
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below min %f", cam.Zoom, cam.MinZoom)
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(minY, 0) || !near(maxX, 1000) || !near(maxY, 800) {
		t.Errorf("unexpected bounds (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}
