package view

import (
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func TestScaleAt_Clamps(t *testing.T) {
	last := zoomScale(len(zoomSteps) - 1)
	tests := []struct {
		in   int
		want zoomScale
	}{
		{-3, 0},
		{3, 3},
		{99, last},
	}
	for _, tt := range tests {
		if got := scaleAt(tt.in); got != tt.want {
			t.Errorf("scaleAt(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := last.step(2); got != last {
		t.Errorf("expected stepping past the end to stay at %d, got %d", last, got)
	}
	if got := unitScale.step(-1).factor(); got != 0.75 {
		t.Errorf("expected 0.75 one step below 1, got %v", got)
	}
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		zoom float32
		want zoomScale
	}{
		{1, 1},
		{0.75, 0},
		{0.1, 0},
		{1.3, 2},
		{5, zoomScale(len(zoomSteps) - 1)},
		{0, unitScale},
		{-2, unitScale},
		{float32(math.NaN()), unitScale},
	}
	for _, tt := range tests {
		if got := scaleFor(tt.zoom); got != tt.want {
			t.Errorf("scaleFor(%v) = %d, want %d", tt.zoom, got, tt.want)
		}
	}
}

func TestZoomLevels_ReturnsCopy(t *testing.T) {
	levels := ZoomLevels()
	levels[0] = 42
	if zoomSteps[0] == 42 {
		t.Fatal("ZoomLevels should not expose the internal steps")
	}
}

func TestWheelSteps(t *testing.T) {
	var w wheelSteps
	tests := []struct {
		dy   float32
		want int
	}{
		{100, 2},
		// 20 left over plus 20 makes another notch.
		{20, 1},
		{-39, 0},
		{-41, -2},
		{float32(math.Inf(1)), 0},
	}
	for i, tt := range tests {
		if got := w.add(tt.dy); got != tt.want {
			t.Errorf("event %d (%v): expected %d steps, got %d", i, tt.dy, tt.want, got)
		}
	}
}

func TestZoomGesture_StepsOnScroll(t *testing.T) {
	test.NewApp()
	var steps []int
	z := newZoomGesture(func(s int) { steps = append(steps, s) })

	z.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 30)})
	if len(steps) != 0 {
		t.Fatalf("partial notch should not step, got %v", steps)
	}
	z.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 10)})
	if len(steps) != 1 || steps[0] != 1 {
		t.Fatalf("expected one step, got %v", steps)
	}
}

func TestZoomGesture_VisibleOnlyWithModifier(t *testing.T) {
	test.NewApp()
	z := newZoomGesture(nil)
	held := false
	z.held = func() bool { return held }

	if z.Visible() {
		t.Fatal("gesture should be invisible without the modifier")
	}
	held = true
	if !z.Visible() {
		t.Fatal("gesture should be visible while the modifier is held")
	}
	z.Hide()
	if z.Visible() {
		t.Fatal("a hidden gesture stays invisible")
	}
}
