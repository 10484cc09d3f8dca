package view

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// zoomSteps are the zoom factors a grid moves through, smallest first.
var zoomSteps = [...]float32{0.75, 1, 1.25, 1.5, 1.75, 2}

// ZoomLevels returns the zoom factors a grid steps through.
func ZoomLevels() []float32 {
	return append([]float32(nil), zoomSteps[:]...)
}

// zoomScale is a position in zoomSteps.
type zoomScale int

const unitScale zoomScale = 1

// scaleAt clamps i to a known step.
func scaleAt(i int) zoomScale {
	return zoomScale(min(max(i, 0), len(zoomSteps)-1))
}

// scaleFor returns the step whose factor is closest to factor. Factors that
// cannot scale a cell map to 1.
func scaleFor(factor float32) zoomScale {
	if math.IsNaN(float64(factor)) || factor <= 0 {
		return unitScale
	}
	best := zoomScale(0)
	for i, z := range zoomSteps {
		if abs32(z-factor) < abs32(best.factor()-factor) {
			best = zoomScale(i)
		}
	}
	return best
}

func (s zoomScale) factor() float32 {
	return zoomSteps[s]
}

func (s zoomScale) step(n int) zoomScale {
	return scaleAt(int(s) + n)
}

// wheelNotch is the scroll distance of one mouse wheel detent.
const wheelNotch = 40

// wheelSteps turns scroll deltas into whole zoom steps. Touchpads deliver
// many small deltas, so the remainder carries over to the next event.
type wheelSteps struct {
	rest float32
}

func (w *wheelSteps) add(dy float32) int {
	if math.IsNaN(float64(dy)) || math.IsInf(float64(dy), 0) {
		return 0
	}
	w.rest += dy
	n := int(w.rest / wheelNotch)
	w.rest -= float32(n) * wheelNotch
	return n
}

func zoomModifierHeld() bool {
	a := fyne.CurrentApp()
	if a == nil {
		return false
	}
	d, ok := a.Driver().(desktop.Driver)
	// Command on macOS, Control elsewhere.
	return ok && d.CurrentKeyModifiers()&(fyne.KeyModifierControl|fyne.KeyModifierShortcutDefault) != 0
}

// zoomGesture covers the scroll container. It reports itself visible only
// while the zoom modifier is held, so plain wheel events reach the scroller.
type zoomGesture struct {
	widget.BaseWidget

	wheel  wheelSteps
	held   func() bool
	onZoom func(steps int)
}

var _ fyne.Scrollable = (*zoomGesture)(nil)

func newZoomGesture(onZoom func(steps int)) *zoomGesture {
	z := &zoomGesture{held: zoomModifierHeld, onZoom: onZoom}
	z.ExtendBaseWidget(z)
	return z
}

func (z *zoomGesture) Visible() bool {
	return z.BaseWidget.Visible() && z.held()
}

func (z *zoomGesture) Scrolled(e *fyne.ScrollEvent) {
	if z.onZoom == nil {
		return
	}
	if n := z.wheel.add(e.Scrolled.DY); n != 0 {
		z.onZoom(n)
	}
}

func (z *zoomGesture) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}
