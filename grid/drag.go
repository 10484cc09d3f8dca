package grid

// DragState is the phase of the drag protocol.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	// DragCommitted and DragCancelled are passed through on the way back to
	// DragIdle and are only visible to OnStateChange.
	DragCommitted
	DragCancelled
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragCommitted:
		return "committed"
	case DragCancelled:
		return "cancelled"
	}
	return "unknown"
}

type dragSession struct {
	key       any
	origin    int
	candidate int
	start     Point
	offset    Point
	geometry  Geometry
}

// DragCoordinator tracks at most one drag gesture and turns a release over
// another slot into a single reorder instruction. It never reorders
// anything itself. It is meant to be driven from one goroutine.
type DragCoordinator struct {
	onMove func(MoveEvent)

	// OnStateChange, when set, observes every transition including the
	// transient committed and cancelled states.
	OnStateChange func(DragState)

	state   DragState
	session *dragSession
}

// NewDragCoordinator creates a coordinator that reports reorders to onMove.
func NewDragCoordinator(onMove func(MoveEvent)) *DragCoordinator {
	return &DragCoordinator{onMove: onMove}
}

// State returns the current phase.
func (d *DragCoordinator) State() DragState {
	return d.state
}

// Dragging reports whether a session is active.
func (d *DragCoordinator) Dragging() bool {
	return d.session != nil
}

// DraggedKey returns the key of the item being dragged.
func (d *DragCoordinator) DraggedKey() (any, bool) {
	if d.session == nil {
		return nil, false
	}
	return d.session.key, true
}

// Start begins a session for the item at origin with the pointer at p, in
// content coordinates. It is rejected while another session is active or
// when origin is not a slot of g.
func (d *DragCoordinator) Start(key any, origin int, p Point, g Geometry) bool {
	if d.session != nil {
		return false
	}
	if origin < 0 || origin >= g.Count || !comparableKey(key) {
		return false
	}
	d.session = &dragSession{
		key:       key,
		origin:    origin,
		candidate: origin,
		start:     p,
		geometry:  g,
	}
	d.setState(DragDragging)
	return true
}

// Move tracks the pointer and returns the candidate slot under it. Leaving
// the grid area cancels the session, in which case ok is false.
func (d *DragCoordinator) Move(p Point) (candidate int, ok bool) {
	s := d.session
	if s == nil {
		return -1, false
	}
	if !s.geometry.Bounds().Contains(p) {
		d.Cancel()
		return -1, false
	}
	s.offset = p.Subtract(s.start)
	s.candidate = s.geometry.IndexAt(p)
	return s.candidate, true
}

// Origin returns the slot the dragged item started from.
func (d *DragCoordinator) Origin() (int, bool) {
	if d.session == nil {
		return -1, false
	}
	return d.session.origin, true
}

// Offset returns the visual displacement of key while it is being dragged.
func (d *DragCoordinator) Offset(key any) (Point, bool) {
	s := d.session
	if s == nil || !comparableKey(key) || s.key != key {
		return Point{}, false
	}
	return s.offset, true
}

// Release commits the session. When the candidate slot differs from the
// origin the reorder instruction is sent to onMove and returned.
func (d *DragCoordinator) Release() (MoveEvent, bool) {
	s := d.session
	if s == nil {
		return MoveEvent{}, false
	}
	d.session = nil

	d.setState(DragCommitted)
	defer d.setState(DragIdle)
	if s.candidate == s.origin || s.candidate < 0 {
		return MoveEvent{}, false
	}

	ev := MoveEvent{Key: s.key, From: s.origin, To: s.candidate}
	if d.onMove != nil {
		d.onMove(ev)
	}
	return ev, true
}

// Cancel abandons the session without a reorder; the item snaps back to
// its layout rectangle.
func (d *DragCoordinator) Cancel() {
	if d.session == nil {
		return
	}
	d.session = nil
	d.setState(DragCancelled)
	d.setState(DragIdle)
}

func (d *DragCoordinator) setState(s DragState) {
	d.state = s
	if d.OnStateChange != nil {
		d.OnStateChange(s)
	}
}
