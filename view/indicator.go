package view

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"

	"github.com/alexballas/xgrid/grid"
)

// dropIndicator outlines the slot a dragged cell would land in.
type dropIndicator struct {
	rect *canvas.Rectangle
	slot int
}

func newDropIndicator() *dropIndicator {
	d := &dropIndicator{rect: canvas.NewRectangle(color.Transparent), slot: -1}
	d.rect.StrokeColor = theme.Color(theme.ColorNamePrimary)
	d.rect.StrokeWidth = 2
	r, g, b, _ := theme.Color(theme.ColorNameFocus).RGBA()
	d.rect.FillColor = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 64}
	d.rect.Hide()
	return d
}

func (d *dropIndicator) show(slot int, r grid.Rect) {
	if d.slot == slot && d.rect.Visible() {
		return
	}
	d.slot = slot
	d.rect.Move(r.Position())
	d.rect.Resize(r.Size())
	d.rect.Show()
	d.rect.Refresh()
}

func (d *dropIndicator) hide() {
	d.slot = -1
	if !d.rect.Visible() {
		return
	}
	d.rect.Hide()
	d.rect.Refresh()
}

func (d *dropIndicator) object() fyne.CanvasObject {
	return d.rect
}
