package view

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"

	"github.com/alexballas/xgrid/grid"
)

// ItemView draws the real content of a cell. CreateItem is called once per
// key; UpdateItem is called on every snapshot that carries the key.
type ItemView interface {
	CreateItem() fyne.CanvasObject
	UpdateItem(obj fyne.CanvasObject, props grid.ItemProps)
}

// PlaceholderView draws cells outside the lazy-load window.
type PlaceholderView interface {
	CreateItem() fyne.CanvasObject
	UpdateItem(obj fyne.CanvasObject, props grid.ItemProps)
}

type funcItemView struct {
	create func() fyne.CanvasObject
	update func(fyne.CanvasObject, grid.ItemProps)
}

// NewItemView builds an ItemView from a pair of callbacks, in the manner of
// widget.NewList.
func NewItemView(create func() fyne.CanvasObject, update func(fyne.CanvasObject, grid.ItemProps)) ItemView {
	return &funcItemView{create: create, update: update}
}

func (v *funcItemView) CreateItem() fyne.CanvasObject {
	return v.create()
}

func (v *funcItemView) UpdateItem(obj fyne.CanvasObject, props grid.ItemProps) {
	if v.update != nil {
		v.update(obj, props)
	}
}

type rectPlaceholder struct{}

// NewRectPlaceholder returns the default placeholder: a flat rectangle. The
// empty item style may set "fill" to a color.Color and "radius" to a number.
func NewRectPlaceholder() PlaceholderView {
	return rectPlaceholder{}
}

func (rectPlaceholder) CreateItem() fyne.CanvasObject {
	return canvas.NewRectangle(placeholderFill())
}

func (rectPlaceholder) UpdateItem(obj fyne.CanvasObject, props grid.ItemProps) {
	r, ok := obj.(*canvas.Rectangle)
	if !ok {
		return
	}
	fill := placeholderFill()
	if c, ok := props.Style.Attrs["fill"].(color.Color); ok {
		fill = c
	}
	radius := float32(0)
	switch v := props.Style.Attrs["radius"].(type) {
	case float32:
		radius = v
	case float64:
		radius = float32(v)
	case int:
		radius = float32(v)
	}
	if r.FillColor == fill && r.CornerRadius == radius {
		return
	}
	r.FillColor = fill
	r.CornerRadius = radius
	r.Refresh()
}

func placeholderFill() color.Color {
	return theme.Color(theme.ColorNameInputBackground)
}
