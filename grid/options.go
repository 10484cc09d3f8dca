package grid

import (
	"reflect"
	"time"
)

// Item is a record supplied by the host. The grid only reads the properties
// named by Options.KeyProp, Options.SortProp and Options.FilterProp and hands
// the whole record back to the item view untouched.
type Item interface {
	Prop(name string) any
}

// Props is a map backed Item.
type Props map[string]any

// Prop returns the value stored under name, or nil.
func (p Props) Prop(name string) any {
	return p[name]
}

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	c := make(Props, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// MoveEvent is the reorder instruction emitted after a committed drag.
type MoveEvent struct {
	Key  any
	From int
	To   int
}

// MeasureFunc returns the current container width in pixels.
type MeasureFunc func() float32

const (
	defaultItemSize       = 128
	defaultVerticalMargin = -1
	defaultBufferRows     = 4
	defaultAnimation      = "transform 300ms ease"
	defaultResizeDebounce = 150 * time.Millisecond
	defaultFrameDelay     = 66 * time.Millisecond
)

// Options is the configuration surface of a Controller.
type Options struct {
	Items []Item

	ItemWidth      float32
	ItemHeight     float32
	VerticalMargin float32
	Zoom           float32

	KeyProp    string
	SortProp   string
	FilterProp string

	// Animation names the transition attached to every item style,
	// e.g. "transform 300ms ease". Empty disables it.
	Animation string

	Responsive  bool
	DragEnabled bool
	OnMove      func(MoveEvent)

	BufferRows     int
	ScrollPosition float32
	ViewportHeight float32

	LazyLoad         bool
	UnmountOffScreen bool
	EmptyItemStyle   map[string]any

	// Policy decides which cells are inside the lazy-load window.
	// Nil means RangePolicy.
	Policy Policy

	// ResizeDebounce coalesces NotifyResize bursts. Zero means 150ms.
	ResizeDebounce time.Duration

	// Defer runs fn once the host layout has settled, on the goroutine that
	// owns the container. Nil uses a 66ms timer.
	Defer func(fn func())
}

// DefaultOptions returns Options holding the documented defaults: 128px
// square items, a -1px vertical margin, 4 buffer rows and a 300ms ease
// transform transition.
func DefaultOptions() Options {
	return Options{
		ItemWidth:      defaultItemSize,
		ItemHeight:     defaultItemSize,
		VerticalMargin: defaultVerticalMargin,
		Zoom:           1,
		KeyProp:        "key",
		SortProp:       "sort",
		FilterProp:     "filtered",
		Animation:      defaultAnimation,
		BufferRows:     defaultBufferRows,
	}
}

// withDefaults fills zero values that have no meaningful zero.
func (o Options) withDefaults() Options {
	if o.ItemWidth == 0 {
		o.ItemWidth = defaultItemSize
	}
	if o.ItemHeight == 0 {
		o.ItemHeight = defaultItemSize
	}
	if o.Zoom == 0 {
		o.Zoom = 1
	}
	if o.KeyProp == "" {
		o.KeyProp = "key"
	}
	if o.SortProp == "" {
		o.SortProp = "sort"
	}
	if o.FilterProp == "" {
		o.FilterProp = "filtered"
	}
	if o.BufferRows < 0 {
		o.BufferRows = 0
	}
	if o.ResizeDebounce <= 0 {
		o.ResizeDebounce = defaultResizeDebounce
	}
	if o.Policy == nil {
		o.Policy = RangePolicy{}
	}
	if o.OnMove == nil {
		o.OnMove = func(MoveEvent) {}
	}
	if o.Defer == nil {
		o.Defer = func(fn func()) {
			time.AfterFunc(defaultFrameDelay, fn)
		}
	}
	return o
}

// Config returns the layout configuration part of o.
func (o Options) Config() Config {
	return Config{
		ItemWidth:      o.ItemWidth,
		ItemHeight:     o.ItemHeight,
		VerticalMargin: o.VerticalMargin,
		Zoom:           o.Zoom,
	}
}

// layoutChanged reports whether moving from o to n requires a new layout pass.
// Items are compared by the slice header, the Go analogue of a reference
// change.
func (o Options) layoutChanged(n Options) bool {
	if o.Config() != n.Config() {
		return true
	}
	if o.KeyProp != n.KeyProp || o.SortProp != n.SortProp || o.FilterProp != n.FilterProp {
		return true
	}
	if o.Animation != n.Animation || o.DragEnabled != n.DragEnabled {
		return true
	}
	if o.LazyLoad != n.LazyLoad || o.UnmountOffScreen != n.UnmountOffScreen || o.BufferRows != n.BufferRows {
		return true
	}
	if n.LazyLoad && (o.ScrollPosition != n.ScrollPosition || o.ViewportHeight != n.ViewportHeight) {
		return true
	}
	if !samePolicy(o.Policy, n.Policy) {
		return true
	}
	return !sameItems(o.Items, n.Items)
}

func sameItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

func samePolicy(a, b Policy) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
