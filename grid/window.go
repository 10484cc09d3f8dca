package grid

// Viewport is the visible slice of the grid content.
type Viewport struct {
	ScrollPosition float32
	Height         float32
	BufferRows     int
}

// BufferPixels converts the buffer rows to pixels using the row pitch of cfg.
func (v Viewport) BufferPixels(cfg Config) float32 {
	if v.BufferRows <= 0 {
		return 0
	}
	return float32(v.BufferRows) * cfg.Normalize().RowPitch()
}

// Policy decides whether a cell whose top edge is at cellY lies in the
// lazy-load window.
type Policy interface {
	InWindow(cellY float32, v Viewport, bufferPx float32) bool
}

// RangePolicy realizes cells whose top edge falls between one buffer above
// the scroll position and one buffer below the bottom of the viewport.
type RangePolicy struct{}

// InWindow implements Policy.
func (RangePolicy) InWindow(cellY float32, v Viewport, bufferPx float32) bool {
	start := v.ScrollPosition - bufferPx
	end := v.ScrollPosition + v.Height + bufferPx
	return cellY >= start && cellY <= end
}

// EdgeDistancePolicy realizes cells within one buffer of the scroll anchor,
// above or below it. The viewport height does not widen the window, so a
// buffer shorter than the viewport leaves its lower part unrealized.
type EdgeDistancePolicy struct{}

// InWindow implements Policy.
func (EdgeDistancePolicy) InWindow(cellY float32, v Viewport, bufferPx float32) bool {
	above := v.ScrollPosition - cellY
	below := cellY - v.ScrollPosition
	return (above >= 0 && above <= bufferPx) || (below >= 0 && below <= bufferPx)
}

// Window is the lazy-load decision for one recomputation pass.
type Window struct {
	Policy           Policy
	Viewport         Viewport
	BufferPx         float32
	Lazy             bool
	UnmountOffScreen bool
}

// ShouldRealize reports whether the cell at cellY renders its real content.
// An unmeasured viewport fails open, and a cell that was realized before
// stays realized unless off-screen unmounting is on.
func (w Window) ShouldRealize(cellY float32, loaded bool) bool {
	if !w.Lazy {
		return true
	}
	if !(w.Viewport.Height > 0) {
		return true
	}
	if loaded && !w.UnmountOffScreen {
		return true
	}
	p := w.Policy
	if p == nil {
		p = RangePolicy{}
	}
	return p.InWindow(cellY, w.Viewport, w.BufferPx)
}
