package view

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xgrid/grid"
)

// cell is the absolutely positioned wrapper of one key. It holds the item
// view and, for lazily loaded grids, the placeholder; only one of them is
// shown at a time.
type cell struct {
	widget.BaseWidget
	owner *AbsoluteGrid
	key   any

	item        fyne.CanvasObject
	placeholder fyne.CanvasObject
	props       grid.ItemProps

	placed bool
	target fyne.Position
	anim   *fyne.Animation

	dragging bool
	dragPos  grid.Point
}

func newCell(owner *AbsoluteGrid, key any) *cell {
	c := &cell{owner: owner, key: key}
	c.ExtendBaseWidget(c)
	return c
}

func (c *cell) CreateRenderer() fyne.WidgetRenderer {
	return &cellRenderer{c: c}
}

func (c *cell) showItem(obj fyne.CanvasObject) {
	c.item = obj
	c.item.Resize(c.Size())
	c.item.Show()
	if c.placeholder != nil {
		c.placeholder.Hide()
	}
}

func (c *cell) showPlaceholder(obj fyne.CanvasObject) {
	c.placeholder = obj
	c.placeholder.Resize(c.Size())
	c.placeholder.Show()
	if c.item != nil {
		c.item.Hide()
	}
}

// moveTo places the cell at pos, animating from where it is now when t
// names a transition and the cell is already on screen.
func (c *cell) moveTo(pos fyne.Position, t grid.Transition) {
	if c.placed && c.target == pos {
		return
	}
	c.stop()
	c.target = pos

	if !c.placed || t.IsZero() || !c.Visible() {
		c.placed = true
		c.Move(pos)
		return
	}

	c.anim = canvas.NewPositionAnimation(c.Position(), pos, t.Duration, c.Move)
	c.anim.Curve = curveFor(t.Curve)
	c.anim.Start()
}

func (c *cell) stop() {
	if c.anim != nil {
		c.anim.Stop()
		c.anim = nil
	}
}

func (c *cell) Dragged(e *fyne.DragEvent) {
	c.owner.cellDragged(c, e)
}

func (c *cell) DragEnd() {
	c.owner.cellDragEnd(c)
}

var _ fyne.Draggable = (*cell)(nil)

func curveFor(c grid.Curve) fyne.AnimationCurve {
	switch c {
	case grid.CurveLinear:
		return fyne.AnimationLinear
	case grid.CurveEaseIn:
		return fyne.AnimationEaseIn
	case grid.CurveEaseOut:
		return fyne.AnimationEaseOut
	}
	return fyne.AnimationEaseInOut
}

type cellRenderer struct {
	c *cell
}

func (r *cellRenderer) Layout(size fyne.Size) {
	for _, o := range r.Objects() {
		o.Resize(size)
		o.Move(fyne.NewPos(0, 0))
	}
}

func (r *cellRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *cellRenderer) Refresh() {
	for _, o := range r.Objects() {
		o.Refresh()
	}
}

func (r *cellRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, 2)
	if r.c.placeholder != nil {
		objs = append(objs, r.c.placeholder)
	}
	if r.c.item != nil {
		objs = append(objs, r.c.item)
	}
	return objs
}

func (r *cellRenderer) Destroy() {
	r.c.stop()
}
