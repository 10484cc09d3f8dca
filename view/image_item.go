package view

import (
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xgrid/grid"
)

const thumbnailDelay = 200 * time.Millisecond

// ImageItemView shows an image with a caption. It reads these item
// properties:
//
//	name   caption text
//	path   fyne.URI of the file; images get a generated thumbnail
//	thumb  fyne.URI or fyne.Resource drawn instead of the generated thumbnail
//	fill   canvas.ImageFill used with a thumb URI
type ImageItemView struct {
	Loader *ThumbnailLoader
}

// NewImageItemView returns an ImageItemView using the shared loader.
func NewImageItemView() *ImageItemView {
	return &ImageItemView{}
}

func (v *ImageItemView) loader() *ThumbnailLoader {
	if v.Loader == nil {
		v.Loader = Thumbnails()
	}
	return v.Loader
}

func (v *ImageItemView) CreateItem() fyne.CanvasObject {
	return newImageItem(v.loader())
}

func (v *ImageItemView) UpdateItem(obj fyne.CanvasObject, props grid.ItemProps) {
	item, ok := obj.(*imageItem)
	if !ok || props.Item == nil {
		return
	}
	name, _ := props.Item.Prop("name").(string)
	uri, _ := props.Item.Prop("path").(fyne.URI)
	item.set(name, uri, props.Item.Prop("thumb"), props.Item.Prop("fill"))
}

type imageItem struct {
	widget.BaseWidget
	loader *ThumbnailLoader

	icon       *widget.FileIcon
	customIcon *widget.Icon
	thumbnail  *canvas.Image
	label      *widget.Label

	currentPath string
	currentName string
	loadTimer   *time.Timer
}

func newImageItem(loader *ThumbnailLoader) *imageItem {
	item := &imageItem{
		loader:     loader,
		icon:       widget.NewFileIcon(nil),
		customIcon: widget.NewIcon(nil),
		thumbnail:  canvas.NewImageFromImage(nil),
		label:      widget.NewLabel(""),
	}
	item.thumbnail.FillMode = canvas.ImageFillContain
	item.thumbnail.Hide()
	item.customIcon.Hide()
	item.label.Alignment = fyne.TextAlignCenter
	item.label.Truncation = fyne.TextTruncateEllipsis
	item.ExtendBaseWidget(item)
	return item
}

func (i *imageItem) CreateRenderer() fyne.WidgetRenderer {
	return &imageItemRenderer{item: i}
}

func (i *imageItem) set(name string, u fyne.URI, thumb, fill any) {
	path := ""
	if u != nil {
		path = u.String()
	}
	if i.currentPath == path && i.currentName == name {
		return
	}
	i.currentPath = path
	i.currentName = name
	i.label.SetText(name)

	i.icon.SetURI(u)
	i.icon.Show()
	i.customIcon.Hide()
	i.thumbnail.Hide()
	i.thumbnail.Image = nil
	i.thumbnail.File = ""
	i.thumbnail.Refresh()
	if i.loadTimer != nil {
		i.loadTimer.Stop()
		i.loadTimer = nil
	}

	switch t := thumb.(type) {
	case fyne.Resource:
		i.customIcon.SetResource(t)
		i.icon.Hide()
		i.customIcon.Show()
		return
	case fyne.URI:
		i.thumbnail.File = t.Path()
		i.thumbnail.FillMode = canvas.ImageFillContain
		if f, ok := fill.(canvas.ImageFill); ok {
			i.thumbnail.FillMode = f
		}
		i.thumbnail.Refresh()
		i.icon.Hide()
		i.thumbnail.Show()
		return
	}

	if !IsThumbnailable(u) {
		return
	}
	if img := i.loader.LoadMemoryOnly(u.Path()); img != nil {
		i.showThumbnail(img)
		return
	}

	// Cells scrolled past quickly never reach the loader.
	i.loadTimer = time.AfterFunc(thumbnailDelay, func() {
		i.loader.Load(u, func(img *canvas.Image) {
			fyne.Do(func() {
				if i.currentPath != path || img == nil {
					return
				}
				i.showThumbnail(img)
			})
		})
	})
}

func (i *imageItem) showThumbnail(img *canvas.Image) {
	i.thumbnail.Image = img.Image
	i.thumbnail.FillMode = canvas.ImageFillContain
	i.thumbnail.Refresh()
	i.icon.Hide()
	i.thumbnail.Show()
}

// middleTruncate shortens name to fit limit by cutting the end of the base
// name and keeping the extension, e.g. "a-very-long-na...jpg".
func middleTruncate(name string, limit float32, measure func(string) float32) string {
	if measure(name) <= limit {
		return name
	}
	ext := filepath.Ext(name)
	dots := ".."

	head := limit - measure(dots) - measure(ext)
	if head <= 0 {
		return dots + ext
	}

	base := name[:len(name)-len(ext)]
	low, high := 0, len(base)
	best := 0
	for low <= high {
		mid := (low + high) / 2
		if measure(base[:mid]) <= head {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return base[:best] + dots + ext
}

type imageItemRenderer struct {
	item *imageItem
}

func (r *imageItemRenderer) Layout(size fyne.Size) {
	pad := theme.Padding()
	labelHeight := r.item.label.MinSize().Height
	imageSide := fyne.Min(size.Width-pad*2, size.Height-labelHeight-pad)
	if imageSide < 0 {
		imageSide = 0
	}
	imageSize := fyne.NewSquareSize(imageSide)
	imagePos := fyne.NewPos((size.Width-imageSide)/2, pad)

	for _, o := range []fyne.CanvasObject{r.item.icon, r.item.customIcon, r.item.thumbnail} {
		o.Resize(imageSize)
		o.Move(imagePos)
	}

	if app := fyne.CurrentApp(); app != nil && r.item.currentName != "" {
		style := r.item.label.TextStyle
		measure := func(s string) float32 {
			sz, _ := app.Driver().RenderedTextSize(s, theme.TextSize(), style, nil)
			return sz.Width
		}
		r.item.label.SetText(middleTruncate(r.item.currentName, size.Width-pad*4, measure))
	}
	r.item.label.Resize(fyne.NewSize(size.Width, labelHeight))
	r.item.label.Move(fyne.NewPos(0, size.Height-labelHeight))
}

func (r *imageItemRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *imageItemRenderer) Refresh() {
	r.item.icon.Refresh()
	r.item.customIcon.Refresh()
	r.item.thumbnail.Refresh()
	r.item.label.Refresh()
}

func (r *imageItemRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.item.icon, r.item.customIcon, r.item.thumbnail, r.item.label}
}

func (r *imageItemRenderer) Destroy() {
	if r.item.loadTimer != nil {
		r.item.loadTimer.Stop()
	}
}
