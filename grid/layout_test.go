package grid

import (
	"testing"
)

func TestColumns(t *testing.T) {
	tests := []struct {
		name  string
		width float32
		item  float32
		zoom  float32
		want  int
	}{
		{"exact fit", 300, 100, 1, 3},
		{"partial fit floors", 250, 100, 1, 2},
		{"narrower than one item", 50, 100, 1, 1},
		{"unmeasured", 0, 100, 1, 1},
		{"zoom in", 400, 100, 2, 2},
		{"zoom out", 400, 100, 0.5, 8},
		{"zero zoom treated as one", 300, 100, 0, 3},
		{"negative width", -20, 100, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Columns(tt.width, tt.item, tt.zoom); got != tt.want {
				t.Errorf("Columns(%v, %v, %v) = %d, want %d", tt.width, tt.item, tt.zoom, got, tt.want)
			}
		})
	}
}

func TestCellRect(t *testing.T) {
	cfg := Config{ItemWidth: 100, ItemHeight: 80, VerticalMargin: 10, Zoom: 1}

	tests := []struct {
		index int
		want  Rect
	}{
		{0, Rect{X: 0, Y: 0, Width: 100, Height: 80}},
		{1, Rect{X: 100, Y: 0, Width: 100, Height: 80}},
		{2, Rect{X: 200, Y: 0, Width: 100, Height: 80}},
		{3, Rect{X: 0, Y: 90, Width: 100, Height: 80}},
		{7, Rect{X: 100, Y: 180, Width: 100, Height: 80}},
	}
	for _, tt := range tests {
		if got := CellRect(tt.index, 3, cfg); got != tt.want {
			t.Errorf("CellRect(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}
}

func TestCellRect_ZoomScalesItemButNotMargin(t *testing.T) {
	cfg := Config{ItemWidth: 100, ItemHeight: 100, VerticalMargin: 5, Zoom: 1.5}
	got := CellRect(3, 2, cfg)
	want := Rect{X: 150, Y: 155, Width: 150, Height: 150}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestCellRect_TilesWithoutOverlap(t *testing.T) {
	cfg := Config{ItemWidth: 40, ItemHeight: 30, VerticalMargin: 0, Zoom: 1}
	for cols := 1; cols <= 6; cols++ {
		for n := 0; n <= 25; n++ {
			seen := map[[2]int]int{}
			for i := 0; i < n; i++ {
				r := CellRect(i, cols, cfg)
				col := int(r.X / cfg.ItemWidth)
				row := int(r.Y / cfg.ItemHeight)
				if col < 0 || col >= cols {
					t.Fatalf("cols=%d n=%d: index %d landed in column %d", cols, n, i, col)
				}
				if prev, ok := seen[[2]int{row, col}]; ok {
					t.Fatalf("cols=%d n=%d: indices %d and %d share a cell", cols, n, prev, i)
				}
				seen[[2]int{row, col}] = i
			}
			rows := (n + cols - 1) / cols
			for i := 0; i < n; i++ {
				r := CellRect(i, cols, cfg)
				if row := int(r.Y / cfg.ItemHeight); row >= rows {
					t.Fatalf("cols=%d n=%d: index %d in row %d beyond %d rows", cols, n, i, row, rows)
				}
			}
		}
	}
}

func TestTotalHeight(t *testing.T) {
	tests := []struct {
		name  string
		count int
		cols  int
		cfg   Config
		want  float32
	}{
		{"empty", 0, 3, Config{ItemWidth: 100, ItemHeight: 100, Zoom: 1}, 0},
		{"one row", 2, 2, Config{ItemWidth: 100, ItemHeight: 100, Zoom: 1}, 100},
		{"partial second row", 3, 2, Config{ItemWidth: 100, ItemHeight: 100, Zoom: 1}, 200},
		{"margin between rows only", 4, 2, Config{ItemWidth: 100, ItemHeight: 100, VerticalMargin: 10, Zoom: 1}, 210},
		{"negative margin overlaps", 4, 2, Config{ItemWidth: 128, ItemHeight: 128, VerticalMargin: -1, Zoom: 1}, 255},
		{"zoom", 1, 1, Config{ItemWidth: 100, ItemHeight: 100, Zoom: 2}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalHeight(tt.count, tt.cols, tt.cfg); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTotalHeight_NonDecreasing(t *testing.T) {
	configs := []Config{
		{ItemWidth: 100, ItemHeight: 100, VerticalMargin: 0, Zoom: 1},
		{ItemWidth: 128, ItemHeight: 128, VerticalMargin: -1, Zoom: 1},
		{ItemWidth: 50, ItemHeight: 20, VerticalMargin: 12, Zoom: 1.25},
		{ItemWidth: 50, ItemHeight: 20, VerticalMargin: -19, Zoom: 1},
	}
	for _, cfg := range configs {
		for cols := 1; cols <= 5; cols++ {
			prev := float32(-1)
			for n := 0; n <= 40; n++ {
				h := TotalHeight(n, cols, cfg)
				if h < prev {
					t.Fatalf("cfg=%+v cols=%d: height dropped from %v to %v at n=%d", cfg, cols, prev, h, n)
				}
				prev = h
			}
		}
	}
}

func TestConfigNormalize_ClampsDegenerateGeometry(t *testing.T) {
	cfg := Config{ItemWidth: 0, ItemHeight: -5, VerticalMargin: -500, Zoom: -1}.Normalize()
	if cfg.Zoom != 1 {
		t.Errorf("expected zoom to fall back to 1, got %v", cfg.Zoom)
	}
	if cfg.CellWidth() < minExtent || cfg.CellHeight() < minExtent {
		t.Errorf("expected positive cell size, got %vx%v", cfg.CellWidth(), cfg.CellHeight())
	}
	if cfg.RowPitch() < minExtent {
		t.Errorf("expected positive row pitch, got %v", cfg.RowPitch())
	}

	// A usable negative margin is left alone.
	ok := Config{ItemWidth: 128, ItemHeight: 128, VerticalMargin: -1, Zoom: 1}.Normalize()
	if ok.VerticalMargin != -1 {
		t.Errorf("expected margin -1 to survive, got %v", ok.VerticalMargin)
	}
}

func TestIndexAt_InvertsCellRect(t *testing.T) {
	cfg := Config{ItemWidth: 100, ItemHeight: 100, VerticalMargin: 0, Zoom: 1}
	const cols, count = 3, 10
	for i := 0; i < count; i++ {
		r := CellRect(i, cols, cfg)
		center := Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
		if got := IndexAt(center, cols, count, cfg); got != i {
			t.Errorf("IndexAt(center of %d) = %d", i, got)
		}
	}
}

func TestIndexAt_Clamps(t *testing.T) {
	cfg := Config{ItemWidth: 100, ItemHeight: 100, Zoom: 1}

	if got := IndexAt(Point{X: -50, Y: -50}, 3, 10, cfg); got != 0 {
		t.Errorf("expected 0 above the grid, got %d", got)
	}
	if got := IndexAt(Point{X: 9999, Y: 10}, 3, 10, cfg); got != 2 {
		t.Errorf("expected last column of the first row, got %d", got)
	}
	if got := IndexAt(Point{X: 250, Y: 390}, 3, 10, cfg); got != 9 {
		t.Errorf("expected clamp to the last item, got %d", got)
	}
	if got := IndexAt(Point{X: 10, Y: 10}, 3, 0, cfg); got != -1 {
		t.Errorf("expected -1 for an empty grid, got %d", got)
	}
}

func TestGeometry_TwoColumnsInNarrowContainer(t *testing.T) {
	g := NewGeometry(250, 2, Config{ItemWidth: 100, ItemHeight: 100, Zoom: 1})
	if g.Columns != 2 {
		t.Fatalf("expected 2 columns, got %d", g.Columns)
	}
	if got := g.Height(); got != 100 {
		t.Errorf("expected height 100, got %v", got)
	}
	if b := g.Bounds(); b.Width != 250 || b.Height != 100 {
		t.Errorf("unexpected bounds %+v", b)
	}
}

func TestRect_Transform(t *testing.T) {
	r := Rect{X: 100.4, Y: 257.6}
	if got, want := r.Transform(), "translate3d(100px, 258px, 0)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
