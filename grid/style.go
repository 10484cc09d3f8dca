package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadTransition is returned for transitions ParseTransition cannot read.
var ErrBadTransition = errors.New("grid: malformed transition")

// dragZIndex lifts the dragged cell above its neighbours.
const dragZIndex = 1000

// Curve names a timing function.
type Curve string

const (
	CurveLinear    Curve = "linear"
	CurveEase      Curve = "ease"
	CurveEaseIn    Curve = "ease-in"
	CurveEaseOut   Curve = "ease-out"
	CurveEaseInOut Curve = "ease-in-out"
)

// Transition is a named transition attached to a cell style.
type Transition struct {
	Property string
	Duration time.Duration
	Curve    Curve
}

// IsZero reports whether t animates nothing.
func (t Transition) IsZero() bool {
	return t.Duration <= 0
}

// String formats t the way ParseTransition reads it.
func (t Transition) String() string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %dms %s", t.Property, t.Duration.Milliseconds(), t.Curve)
}

// ParseTransition reads "<property> <duration> [curve]", for example
// "transform 300ms ease". Durations take an ms or s suffix. The empty string
// is the zero Transition.
func ParseTransition(s string) (Transition, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Transition{}, nil
	}
	if len(fields) < 2 || len(fields) > 3 {
		return Transition{}, fmt.Errorf("%w: %q", ErrBadTransition, s)
	}

	d, err := parseDuration(fields[1])
	if err != nil {
		return Transition{}, fmt.Errorf("%w: %q: %v", ErrBadTransition, s, err)
	}

	t := Transition{Property: fields[0], Duration: d, Curve: CurveEase}
	if len(fields) == 3 {
		switch c := Curve(fields[2]); c {
		case CurveLinear, CurveEase, CurveEaseIn, CurveEaseOut, CurveEaseInOut:
			t.Curve = c
		default:
			return Transition{}, fmt.Errorf("%w: unknown curve %q", ErrBadTransition, fields[2])
		}
	}
	return t, nil
}

func parseDuration(s string) (time.Duration, error) {
	var unit time.Duration
	var num string
	switch {
	case strings.HasSuffix(s, "ms"):
		unit, num = time.Millisecond, strings.TrimSuffix(s, "ms")
	case strings.HasSuffix(s, "s"):
		unit, num = time.Second, strings.TrimSuffix(s, "s")
	default:
		return 0, errors.New("duration needs an ms or s suffix")
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, errors.New("negative duration")
	}
	return time.Duration(f * float64(unit)), nil
}

// Style is the computed presentation of one cell. Rect is always the
// absolute layout position; Offset is a visual displacement on top of it.
type Style struct {
	Rect        Rect
	Offset      Point
	Transition  Transition
	ZIndex      int
	Opacity     float32
	Interactive bool

	// Attrs carries host specific extras, such as the empty item style
	// merged into placeholders.
	Attrs map[string]any
}

// Frame returns the rectangle the cell should be drawn at.
func (s Style) Frame() Rect {
	return s.Rect.Translate(s.Offset)
}

// itemStyle is the style of a placed or filtered real cell.
func itemStyle(r Rect, t Transition, filtered bool) Style {
	s := Style{Rect: r, Transition: t, Opacity: 1, Interactive: true}
	if filtered {
		s.Opacity = 0
		s.Interactive = false
	}
	return s
}

// emptyStyle merges the host's empty item style under the positional fields
// of a placeholder.
func emptyStyle(r Rect, attrs map[string]any) Style {
	s := Style{Rect: r, Opacity: 1}
	if len(attrs) > 0 {
		s.Attrs = make(map[string]any, len(attrs))
		for k, v := range attrs {
			s.Attrs[k] = v
		}
	}
	return s
}

// ItemProps is what an item view receives to draw one cell.
type ItemProps struct {
	Style       Style
	Item        Item
	Index       int
	Key         any
	ItemsLength int
	DragEnabled bool
	Drag        *DragCoordinator
}

// BaseStyle returns the style an item view should apply. While the cell is
// being dragged it follows the pointer above its neighbours without a
// transition; once released it falls back to its layout rectangle.
func BaseStyle(p ItemProps) Style {
	s := p.Style
	if p.Drag == nil || !p.DragEnabled {
		return s
	}
	if off, ok := p.Drag.Offset(p.Key); ok {
		s.Offset = off
		s.ZIndex = dragZIndex
		s.Transition = Transition{}
	}
	return s
}
