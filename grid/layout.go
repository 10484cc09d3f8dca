package grid

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
)

// minExtent is the smallest item dimension or row pitch the engine will lay
// out with. Anything smaller is clamped up to it.
const minExtent = 1

// Point is a position in grid content coordinates.
type Point struct {
	X, Y float32
}

// PointFrom converts a fyne position.
func PointFrom(p fyne.Position) Point {
	return Point{X: p.X, Y: p.Y}
}

// Add returns p translated by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Subtract returns p translated by -o.
func (p Point) Subtract(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Rect is a cell rectangle in pixels.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Position returns the top-left corner as a fyne position.
func (r Rect) Position() fyne.Position {
	return fyne.NewPos(r.X, r.Y)
}

// Size returns the dimensions as a fyne size.
func (r Rect) Size() fyne.Size {
	return fyne.NewSize(r.Width, r.Height)
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() float32 {
	return r.X + r.Width
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() float32 {
	return r.Y + r.Height
}

// Contains reports whether p lies inside r. The left and top edges are
// inside, the right and bottom edges are outside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}

// Transform renders the position as a CSS translate3d transform.
func (r Rect) Transform() string {
	return fmt.Sprintf("translate3d(%gpx, %gpx, 0)", math.Round(float64(r.X)), math.Round(float64(r.Y)))
}

// Config is the item box of a grid.
type Config struct {
	ItemWidth      float32
	ItemHeight     float32
	VerticalMargin float32
	Zoom           float32
}

// Normalize returns c with a usable zoom, item dimensions of at least one
// pixel after zoom, and a row pitch of at least one pixel.
func (c Config) Normalize() Config {
	if !(c.Zoom > 0) || math.IsInf(float64(c.Zoom), 0) {
		c.Zoom = 1
	}
	if !(c.ItemWidth*c.Zoom >= minExtent) {
		c.ItemWidth = minExtent / c.Zoom
	}
	if !(c.ItemHeight*c.Zoom >= minExtent) {
		c.ItemHeight = minExtent / c.Zoom
	}
	if math.IsNaN(float64(c.VerticalMargin)) {
		c.VerticalMargin = 0
	}
	if c.ItemHeight*c.Zoom+c.VerticalMargin < minExtent {
		c.VerticalMargin = minExtent - c.ItemHeight*c.Zoom
	}
	return c
}

// CellWidth is the zoomed item width.
func (c Config) CellWidth() float32 {
	return c.ItemWidth * c.Zoom
}

// CellHeight is the zoomed item height.
func (c Config) CellHeight() float32 {
	return c.ItemHeight * c.Zoom
}

// RowPitch is the distance between the tops of two consecutive rows.
func (c Config) RowPitch() float32 {
	return c.CellHeight() + c.VerticalMargin
}

// Columns returns how many items fit in a row, never less than one.
func Columns(containerWidth, itemWidth, zoom float32) int {
	cell := Config{ItemWidth: itemWidth, ItemHeight: minExtent, Zoom: zoom}.Normalize().CellWidth()
	cols := math.Floor(float64(containerWidth) / float64(cell))
	if !(cols >= 1) {
		return 1
	}
	if cols > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(cols)
}

// CellRect returns the rectangle of the item at the dense index. Cells are
// laid out row-major, columns to a row.
func CellRect(index, columns int, cfg Config) Rect {
	cfg = cfg.Normalize()
	if columns < 1 {
		columns = 1
	}
	col := index % columns
	row := index / columns
	return Rect{
		X:      float32(col) * cfg.CellWidth(),
		Y:      float32(row) * cfg.RowPitch(),
		Width:  cfg.CellWidth(),
		Height: cfg.CellHeight(),
	}
}

// TotalHeight returns the content height of count items. The last row does
// not carry the trailing vertical margin.
func TotalHeight(count, columns int, cfg Config) float32 {
	if count <= 0 {
		return 0
	}
	cfg = cfg.Normalize()
	if columns < 1 {
		columns = 1
	}
	rows := (count + columns - 1) / columns
	h := float32(rows)*cfg.RowPitch() - cfg.VerticalMargin
	return max(h, cfg.CellHeight())
}

// IndexAt maps a content position back to the dense index of the slot below
// it. Positions outside the grid clamp to the nearest slot; -1 means there
// are no slots.
func IndexAt(p Point, columns, count int, cfg Config) int {
	if count <= 0 {
		return -1
	}
	cfg = cfg.Normalize()
	if columns < 1 {
		columns = 1
	}
	col := int(math.Floor(float64(p.X / cfg.CellWidth())))
	col = min(max(col, 0), columns-1)
	row := int(math.Floor(float64(p.Y / cfg.RowPitch())))
	row = max(row, 0)

	i := row*columns + col
	return min(i, count-1)
}

// Geometry is a computed layout: everything needed to place or hit-test the
// cells of one recomputation pass.
type Geometry struct {
	Width   float32
	Columns int
	Count   int
	Config  Config
}

// NewGeometry lays out count items in a container of the given width.
func NewGeometry(width float32, count int, cfg Config) Geometry {
	cfg = cfg.Normalize()
	return Geometry{
		Width:   width,
		Columns: Columns(width, cfg.ItemWidth, cfg.Zoom),
		Count:   max(count, 0),
		Config:  cfg,
	}
}

// Rect returns the rectangle of dense index i.
func (g Geometry) Rect(i int) Rect {
	return CellRect(i, g.Columns, g.Config)
}

// Height returns the total content height.
func (g Geometry) Height() float32 {
	return TotalHeight(g.Count, g.Columns, g.Config)
}

// IndexAt returns the slot under p, see IndexAt.
func (g Geometry) IndexAt(p Point) int {
	return IndexAt(p, g.Columns, g.Count, g.Config)
}

// Bounds is the content area, at least as wide as one row of cells.
func (g Geometry) Bounds() Rect {
	w := max(g.Width, float32(g.Columns)*g.Config.CellWidth())
	return Rect{Width: w, Height: g.Height()}
}
