package components

import "testing"

func TestColorFromFloats(t *testing.T) {
	tests := []struct {
		r, g, b, a float32
		want       Color
	}{
		{0, 0, 0, 0, Color{}},
		{1, 1, 1, 1, Color{255, 255, 255, 255}},
		{0.2, 0.6, 1.0, 1.0, Color{51, 153, 255, 255}},
		{-1, 2, 0.5, 1, Color{0, 255, 128, 255}},
	}
	for _, tc := range tests {
		if got := ColorFromFloats(tc.r, tc.g, tc.b, tc.a); got != tc.want {
			t.Errorf("ColorFromFloats(%v, %v, %v, %v) = %v, want %v", tc.r, tc.g, tc.b, tc.a, got, tc.want)
		}
	}
}

func TestVec2(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	if a.Len() != 5 {
		t.Errorf("Len = %f, want 5", a.Len())
	}
	if a.LenSq() != 25 {
		t.Errorf("LenSq = %f, want 25", a.LenSq())
	}
	if got := a.Sub(Vec2{X: 1, Y: 1}).Add(Vec2{X: 1}); got != (Vec2{X: 3, Y: 3}) {
		t.Errorf("Sub/Add = %v", got)
	}
	if got := a.Scale(2).Dot(Vec2{X: 1, Y: 1}); got != 14 {
		t.Errorf("Dot = %f, want 14", got)
	}
	if !(Vec2{}).IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestEmitterTick(t *testing.T) {
	e := Emitter{Interval: 2, Burst: 3, Remaining: 7, Enabled: true}

	var got []int
	for i := 0; i < 10; i++ {
		got = append(got, e.Tick())
	}
	want := []int{3, 0, 0, 3, 0, 0, 1, 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tick sequence = %v, want %v", got, want)
		}
	}
	if e.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", e.Remaining)
	}

	unlimited := Emitter{Interval: 0, Burst: 2, Remaining: -1, Enabled: true}
	for i := 0; i < 5; i++ {
		if n := unlimited.Tick(); n != 2 {
			t.Fatalf("unlimited Tick = %d, want 2", n)
		}
	}

	disabled := Emitter{Burst: 2, Remaining: -1}
	if n := disabled.Tick(); n != 0 {
		t.Errorf("disabled Tick = %d, want 0", n)
	}
}
