package grid

import (
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
)

// Cell is one render slot of a snapshot. Cells keep the order of the host
// collection and are identified by Key across snapshots, so a renderer can
// move an existing cell instead of recreating it.
type Cell struct {
	Key   any
	Item  Item
	Index int // dense index, -1 when filtered

	Style       Style
	Placeholder bool
	Filtered    bool

	ItemsLength int
	DragEnabled bool
}

// Snapshot is the immutable result of one recomputation pass.
type Snapshot struct {
	Width       float32
	Geometry    Geometry
	TotalHeight float32
	Cells       []Cell

	// Suppressed is set while the container width is unknown; nothing
	// should be drawn.
	Suppressed bool
}

// Cell returns the cell of key.
func (s *Snapshot) Cell(key any) (Cell, bool) {
	if s == nil || !comparableKey(key) {
		return Cell{}, false
	}
	for _, c := range s.Cells {
		if c.Key == key {
			return c, true
		}
	}
	return Cell{}, false
}

// Controller owns the derived grid state and recomputes it whenever the
// container width, the item collection, the scroll position (lazy loading
// only) or the layout options change. Snapshots are replaced whole, so a
// reader never sees a half updated cell list.
type Controller struct {
	mu sync.Mutex

	opts       Options
	transition Transition
	measure    MeasureFunc

	width   float32
	loaded  map[any]struct{}
	rects   map[any]Rect
	mounted bool
	reading bool

	drag   *DragCoordinator
	resize *Debouncer

	snap    atomic.Pointer[Snapshot]
	subs    map[uint64]func(*Snapshot)
	nextSub uint64
}

// NewController creates a controller that reads the container width from
// measure. Nothing is laid out until Mount.
func NewController(opts Options, measure MeasureFunc) *Controller {
	c := &Controller{
		opts:    opts.withDefaults(),
		measure: measure,
		loaded:  make(map[any]struct{}),
		rects:   make(map[any]Rect),
		subs:    make(map[uint64]func(*Snapshot)),
	}
	c.transition = parseAnimation(c.opts.Animation)
	c.drag = NewDragCoordinator(c.emitMove)
	c.resize = NewDebouncer(c.opts.ResizeDebounce, c.onResize)
	c.snap.Store(&Snapshot{Suppressed: true})
	return c
}

func parseAnimation(s string) Transition {
	t, err := ParseTransition(s)
	if err != nil {
		fyne.LogError("Ignoring grid animation", err)
		return Transition{}
	}
	return t
}

// Mount measures the container and performs the first layout. Resize
// notifications are honoured from now on when the grid is responsive.
func (c *Controller) Mount() {
	c.mu.Lock()
	c.mounted = true
	c.resize.Reset()
	c.mu.Unlock()

	w := c.measureWidth()

	c.mu.Lock()
	c.width = w
	c.recomputeLocked()
	c.mu.Unlock()
	c.publish()
}

// Unmount stops listening for resizes and drops any pending one.
func (c *Controller) Unmount() {
	c.mu.Lock()
	c.mounted = false
	c.mu.Unlock()
	c.resize.Stop()
	c.drag.Cancel()
}

// NotifyResize tells a responsive, mounted grid that its container may have
// changed size. Bursts are coalesced and the width is read once the host
// has settled.
func (c *Controller) NotifyResize() {
	c.mu.Lock()
	ok := c.mounted && c.opts.Responsive
	c.mu.Unlock()
	if ok {
		c.resize.Trigger()
	}
}

// FlushResize runs a pending debounced resize immediately.
func (c *Controller) FlushResize() bool {
	return c.resize.Flush()
}

func (c *Controller) onResize() {
	c.mu.Lock()
	if c.reading || !c.mounted {
		c.mu.Unlock()
		return
	}
	c.reading = true
	deferFn := c.opts.Defer
	c.mu.Unlock()

	deferFn(c.readWidth)
}

func (c *Controller) readWidth() {
	w := c.measureWidth()

	c.mu.Lock()
	c.reading = false
	if !c.mounted || w == c.width {
		c.mu.Unlock()
		return
	}
	c.width = w
	c.recomputeLocked()
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) measureWidth() float32 {
	if c.measure == nil {
		return 0
	}
	return c.measure()
}

// Width returns the last measured container width.
func (c *Controller) Width() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// SetItems replaces the item collection.
func (c *Controller) SetItems(items []Item) {
	c.mu.Lock()
	c.opts.Items = items
	if debugChecks {
		for _, key := range Duplicates(items, c.opts.KeyProp) {
			fyne.LogError("Duplicate grid key", fmt.Errorf("key %v is used by more than one item", key))
		}
	}
	c.recomputeLocked()
	c.mu.Unlock()
	c.publish()
}

// SetScrollPosition records the scroll offset of the container. Only a
// lazily loading grid recomputes.
func (c *Controller) SetScrollPosition(y float32) {
	c.mu.Lock()
	if c.opts.ScrollPosition == y {
		c.mu.Unlock()
		return
	}
	c.opts.ScrollPosition = y
	if !c.opts.LazyLoad {
		c.mu.Unlock()
		return
	}
	c.recomputeLocked()
	c.mu.Unlock()
	c.publish()
}

// SetViewportHeight records the visible height of the container.
func (c *Controller) SetViewportHeight(h float32) {
	c.mu.Lock()
	if c.opts.ViewportHeight == h {
		c.mu.Unlock()
		return
	}
	c.opts.ViewportHeight = h
	if !c.opts.LazyLoad {
		c.mu.Unlock()
		return
	}
	c.recomputeLocked()
	c.mu.Unlock()
	c.publish()
}

// SetOptions replaces the configuration and recomputes when anything that
// affects the cells changed. ResizeDebounce only applies at construction.
func (c *Controller) SetOptions(opts Options) {
	opts = opts.withDefaults()

	c.mu.Lock()
	changed := c.opts.layoutChanged(opts)
	if opts.Animation != c.opts.Animation {
		c.transition = parseAnimation(opts.Animation)
	}
	c.opts = opts
	if changed {
		c.recomputeLocked()
	}
	c.mu.Unlock()
	if changed {
		c.publish()
	}
}

// Options returns the current configuration.
func (c *Controller) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// Refresh forces a recomputation with the current inputs.
func (c *Controller) Refresh() {
	c.mu.Lock()
	c.recomputeLocked()
	c.mu.Unlock()
	c.publish()
}

// Snapshot returns the latest computed state.
func (c *Controller) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Loaded reports whether key has been realized before.
func (c *Controller) Loaded(key any) bool {
	if !comparableKey(key) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.loaded[key]
	return ok
}

// Drag returns the drag coordinator shared by every cell.
func (c *Controller) Drag() *DragCoordinator {
	return c.drag
}

// Props builds the item view contract for cell.
func (c *Controller) Props(cell Cell) ItemProps {
	return ItemProps{
		Style:       cell.Style,
		Item:        cell.Item,
		Index:       cell.Index,
		Key:         cell.Key,
		ItemsLength: cell.ItemsLength,
		DragEnabled: cell.DragEnabled,
		Drag:        c.drag,
	}
}

// Subscribe calls fn with every new snapshot until the returned function is
// called.
func (c *Controller) Subscribe(fn func(*Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// publish hands the latest snapshot to every subscriber. A pass that lost a
// race to a newer one delivers the newer snapshot.
func (c *Controller) publish() {
	c.mu.Lock()
	s := c.snap.Load()
	subs := make([]func(*Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (c *Controller) emitMove(ev MoveEvent) {
	c.mu.Lock()
	onMove := c.opts.OnMove
	c.mu.Unlock()
	onMove(ev)
}

// recomputeLocked runs the whole pipeline and installs the result. The
// loaded set and the rectangle memory are built aside and swapped in at
// the end.
func (c *Controller) recomputeLocked() *Snapshot {
	o := c.opts
	if !(c.width > 0) {
		s := &Snapshot{Width: c.width, Suppressed: true}
		c.snap.Store(s)
		return s
	}

	index, owners := buildIndex(o.Items, o.KeyProp, o.SortProp, o.FilterProp)
	cfg := o.Config().Normalize()
	g := NewGeometry(c.width, index.Len(), cfg)

	win := Window{
		Policy: o.Policy,
		Viewport: Viewport{
			ScrollPosition: o.ScrollPosition,
			Height:         o.ViewportHeight,
			BufferRows:     o.BufferRows,
		},
		Lazy:             o.LazyLoad,
		UnmountOffScreen: o.UnmountOffScreen,
	}
	win.BufferPx = win.Viewport.BufferPixels(cfg)

	loaded := maps.Clone(c.loaded)
	rects := make(map[any]Rect, len(o.Items))
	cells := make([]Cell, 0, len(o.Items))
	for i, item := range o.Items {
		key := item.Prop(o.KeyProp)
		if !comparableKey(key) {
			continue
		}
		_, wasLoaded := loaded[key]

		idx, placed := index[key]
		if placed && owners[key] != i {
			continue
		}
		if !placed {
			if _, taken := rects[key]; taken {
				continue
			}
			r, seen := c.rects[key]
			if !seen {
				r = Rect{Width: cfg.CellWidth(), Height: cfg.CellHeight()}
			}
			rects[key] = r
			cell := Cell{Key: key, Item: item, Index: -1, Filtered: true, ItemsLength: len(o.Items)}
			if !o.LazyLoad || wasLoaded {
				cell.Style = itemStyle(r, c.transition, true)
			} else {
				cell.Placeholder = true
				cell.Style = emptyStyle(r, o.EmptyItemStyle)
				cell.Style.Opacity = 0
			}
			cells = append(cells, cell)
			continue
		}

		r := g.Rect(idx)
		rects[key] = r
		if !win.ShouldRealize(r.Y, wasLoaded) {
			cells = append(cells, Cell{
				Key:         key,
				Item:        item,
				Index:       idx,
				Style:       emptyStyle(r, o.EmptyItemStyle),
				Placeholder: true,
				ItemsLength: len(o.Items),
			})
			continue
		}

		loaded[key] = struct{}{}
		cells = append(cells, Cell{
			Key:         key,
			Item:        item,
			Index:       idx,
			Style:       itemStyle(r, c.transition, false),
			ItemsLength: len(o.Items),
			DragEnabled: o.DragEnabled,
		})
	}

	c.loaded = loaded
	c.rects = rects
	s := &Snapshot{
		Width:       c.width,
		Geometry:    g,
		TotalHeight: g.Height(),
		Cells:       cells,
	}
	c.snap.Store(s)
	return s
}
