package view

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xgrid/grid"
)

// AbsoluteGrid renders a grid.Controller with absolutely positioned cells
// inside a vertical scroll container. Cells are kept per key, so a reorder
// moves the existing objects to their new slots.
//
// All methods must be called on the fyne goroutine.
type AbsoluteGrid struct {
	widget.BaseWidget

	// OnZoomChanged is called after the zoom level changed.
	OnZoomChanged func(zoom float32)

	// Preferences, when set, receives the user adjustable options whenever
	// they change through the grid (zoom).
	Preferences fyne.Preferences

	ctrl        *grid.Controller
	items       ItemView
	placeholder PlaceholderView

	content   *fyne.Container
	contentSz *absoluteLayout
	scroll    *container.Scroll
	zoom      *zoomGesture
	indicator *dropIndicator

	cells map[any]*cell
	snap  *grid.Snapshot

	scale       zoomScale
	mounted     bool
	lastSize    fyne.Size
	unsubscribe func()
}

// NewAbsoluteGrid creates a grid drawing items with item. A nil Defer in
// opts is replaced by fyne.Do.
func NewAbsoluteGrid(opts grid.Options, item ItemView) *AbsoluteGrid {
	if opts.Defer == nil {
		opts.Defer = fyne.Do
	}
	g := &AbsoluteGrid{
		items:       item,
		placeholder: NewRectPlaceholder(),
		indicator:   newDropIndicator(),
		cells:       make(map[any]*cell),
		scale:       scaleFor(opts.Zoom),
	}
	g.contentSz = &absoluteLayout{}
	g.content = container.New(g.contentSz, g.indicator.object())
	g.scroll = container.NewVScroll(g.content)
	g.scroll.OnScrolled = func(p fyne.Position) {
		g.ctrl.SetScrollPosition(p.Y)
	}
	g.zoom = newZoomGesture(g.adjustZoom)

	g.ctrl = grid.NewController(opts, func() float32 {
		return g.Size().Width
	})
	g.ExtendBaseWidget(g)
	return g
}

// Controller returns the controller behind the grid.
func (g *AbsoluteGrid) Controller() *grid.Controller {
	return g.ctrl
}

// SetPlaceholder replaces the view used for cells outside the lazy-load
// window.
func (g *AbsoluteGrid) SetPlaceholder(p PlaceholderView) {
	if p == nil {
		p = NewRectPlaceholder()
	}
	g.placeholder = p
	for _, c := range g.cells {
		c.placeholder = nil
	}
	g.ctrl.Refresh()
}

// SetItems replaces the item collection.
func (g *AbsoluteGrid) SetItems(items []grid.Item) {
	g.ctrl.SetItems(items)
}

// Options returns the current grid configuration.
func (g *AbsoluteGrid) Options() grid.Options {
	return g.ctrl.Options()
}

// SetOptions replaces the grid configuration.
func (g *AbsoluteGrid) SetOptions(opts grid.Options) {
	if opts.Defer == nil {
		opts.Defer = fyne.Do
	}
	g.scale = scaleFor(opts.Zoom)
	g.ctrl.SetOptions(opts)
}

// ZoomLevel returns the index of the current zoom factor in ZoomLevels.
func (g *AbsoluteGrid) ZoomLevel() int {
	return int(g.scale)
}

// SetZoomLevel switches to the zoom factor at level, clamped to the known
// levels.
func (g *AbsoluteGrid) SetZoomLevel(level int) {
	g.setScale(scaleAt(level))
}

func (g *AbsoluteGrid) setScale(s zoomScale) {
	opts := g.ctrl.Options()
	if g.scale == s && opts.Zoom == s.factor() {
		return
	}
	g.scale = s
	opts.Zoom = s.factor()
	g.ctrl.SetOptions(opts)
	SaveOptions(g.Preferences, opts)

	if g.OnZoomChanged != nil {
		g.OnZoomChanged(opts.Zoom)
	}
}

// ZoomIn steps to the next larger zoom factor.
func (g *AbsoluteGrid) ZoomIn() {
	g.adjustZoom(1)
}

// ZoomOut steps to the next smaller zoom factor.
func (g *AbsoluteGrid) ZoomOut() {
	g.adjustZoom(-1)
}

func (g *AbsoluteGrid) adjustZoom(steps int) {
	if steps == 0 {
		return
	}
	g.setScale(g.scale.step(steps))
}

func (g *AbsoluteGrid) CreateRenderer() fyne.WidgetRenderer {
	g.unsubscribe = g.ctrl.Subscribe(g.apply)
	return &gridRenderer{g: g, stack: container.NewStack(g.scroll, g.zoom)}
}

// resized mounts the grid on its first real layout and afterwards feeds
// size changes to the controller.
func (g *AbsoluteGrid) resized(size fyne.Size) {
	widthChanged := abs32(size.Width-g.lastSize.Width) >= 0.5
	heightChanged := abs32(size.Height-g.lastSize.Height) >= 0.5
	if !widthChanged && !heightChanged {
		return
	}
	g.lastSize = size

	if heightChanged {
		g.ctrl.SetViewportHeight(size.Height)
	}
	if !g.mounted {
		if size.Width <= 0 {
			return
		}
		g.mounted = true
		g.ctrl.Mount()
		return
	}
	if widthChanged {
		g.ctrl.NotifyResize()
	}
}

func (g *AbsoluteGrid) unmount() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
	g.mounted = false
	g.lastSize = fyne.Size{}
	g.ctrl.Unmount()
	for _, c := range g.cells {
		c.stop()
	}
}

// apply draws s. Cells are matched by key; cells whose key disappeared are
// dropped.
func (g *AbsoluteGrid) apply(s *grid.Snapshot) {
	if s == nil {
		return
	}
	g.snap = s
	if s.Suppressed {
		for _, c := range g.cells {
			c.Hide()
		}
		g.indicator.hide()
		g.setContentSize(fyne.Size{})
		return
	}

	seen := make(map[any]struct{}, len(s.Cells))
	objects := make([]fyne.CanvasObject, 0, len(s.Cells)+1)
	var raised []fyne.CanvasObject
	for _, sc := range s.Cells {
		seen[sc.Key] = struct{}{}
		c, ok := g.cells[sc.Key]
		if !ok {
			c = newCell(g, sc.Key)
			g.cells[sc.Key] = c
		}
		style := g.updateCell(c, sc)
		if style.ZIndex > 0 {
			raised = append(raised, c)
		} else {
			objects = append(objects, c)
		}
	}
	for key, c := range g.cells {
		if _, ok := seen[key]; !ok {
			c.stop()
			delete(g.cells, key)
		}
	}

	objects = append(objects, g.indicator.object())
	g.content.Objects = append(objects, raised...)
	g.setContentSize(fyne.NewSize(s.Width, s.TotalHeight))
	g.content.Refresh()
}

func (g *AbsoluteGrid) updateCell(c *cell, sc grid.Cell) grid.Style {
	props := g.ctrl.Props(sc)
	c.props = props
	style := grid.BaseStyle(props)
	frame := style.Frame()
	c.Resize(frame.Size())

	if sc.Placeholder {
		obj := c.placeholder
		if obj == nil {
			obj = g.placeholder.CreateItem()
		}
		c.showPlaceholder(obj)
		g.placeholder.UpdateItem(obj, props)
	} else {
		obj := c.item
		if obj == nil {
			obj = g.items.CreateItem()
		}
		c.showItem(obj)
		g.items.UpdateItem(obj, props)
	}

	if style.Opacity <= 0 {
		c.Hide()
	} else {
		c.Show()
	}
	c.moveTo(frame.Position(), style.Transition)
	return style
}

func (g *AbsoluteGrid) setContentSize(size fyne.Size) {
	if g.contentSz.size == size {
		return
	}
	g.contentSz.size = size
	g.content.Resize(size.Max(g.scroll.Size()))
	g.scroll.Refresh()
}

func (g *AbsoluteGrid) cellDragged(c *cell, e *fyne.DragEvent) {
	d := g.ctrl.Drag()
	if !c.dragging {
		p := c.props
		if !p.DragEnabled || !p.Style.Interactive || p.Index < 0 || g.snap == nil {
			return
		}
		start := grid.PointFrom(c.Position().Add(e.Position.Subtract(e.Dragged)))
		if !d.Start(c.key, p.Index, start, g.snap.Geometry) {
			return
		}
		c.dragging = true
		c.dragPos = start
		g.apply(g.ctrl.Snapshot())
	}
	if !d.Dragging() {
		return
	}

	c.dragPos = c.dragPos.Add(grid.Point{X: e.Dragged.DX, Y: e.Dragged.DY})
	candidate, ok := d.Move(c.dragPos)
	if !ok {
		g.indicator.hide()
		g.apply(g.ctrl.Snapshot())
		return
	}
	if origin, _ := d.Origin(); candidate == origin {
		g.indicator.hide()
	} else {
		g.indicator.show(candidate, g.snap.Geometry.Rect(candidate))
	}
	c.moveTo(grid.BaseStyle(c.props).Frame().Position(), grid.Transition{})
}

func (g *AbsoluteGrid) cellDragEnd(c *cell) {
	if !c.dragging {
		return
	}
	c.dragging = false
	g.indicator.hide()
	g.ctrl.Drag().Release()
	g.apply(g.ctrl.Snapshot())
}

// absoluteLayout reports the content size computed by the controller and
// leaves child placement to the grid.
type absoluteLayout struct {
	size fyne.Size
}

func (l *absoluteLayout) Layout([]fyne.CanvasObject, fyne.Size) {}

func (l *absoluteLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return l.size
}

type gridRenderer struct {
	g     *AbsoluteGrid
	stack *fyne.Container
}

func (r *gridRenderer) Layout(size fyne.Size) {
	r.stack.Resize(size)
	r.g.resized(size)
}

func (r *gridRenderer) MinSize() fyne.Size {
	opts := r.g.ctrl.Options()
	cfg := opts.Config().Normalize()
	return fyne.NewSize(cfg.CellWidth(), cfg.CellHeight())
}

func (r *gridRenderer) Refresh() {
	r.stack.Refresh()
}

func (r *gridRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.stack}
}

func (r *gridRenderer) Destroy() {
	r.g.unmount()
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
