package view

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
)

func TestThumbnailLoader_GenerateCacheKey(t *testing.T) {
	tm := &ThumbnailLoader{}

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "test.png")
	_ = os.WriteFile(filePath, make([]byte, 100*1024), 0644)

	key1, err := tm.generateCacheKey(filePath)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	key2, err := tm.generateCacheKey(filePath)
	if err != nil {
		t.Fatalf("Failed to generate key2: %v", err)
	}
	if key1 != key2 {
		t.Errorf("Keys should be identical for same file: %s != %s", key1, key2)
	}

	time.Sleep(10 * time.Millisecond)
	now := time.Now()
	_ = os.Chtimes(filePath, now, now)

	key3, err := tm.generateCacheKey(filePath)
	if err != nil {
		t.Fatalf("Failed to generate key3: %v", err)
	}
	if key3 == key1 {
		t.Error("Key should change when modification time changes")
	}

	f, _ := os.OpenFile(filePath, os.O_WRONLY, 0644)
	f.Write([]byte("change"))
	f.Close()
	_ = os.Chtimes(filePath, now, now)

	key4, err := tm.generateCacheKey(filePath)
	if err != nil {
		t.Fatalf("Failed to generate key4: %v", err)
	}
	if key4 == key3 {
		t.Error("Key should change when first 32KB content changes")
	}

	if _, err := tm.generateCacheKey(tmpDir); err == nil {
		t.Error("Expected an error for a directory")
	}
}

func TestThumbnailLoader_CleanupCache(t *testing.T) {
	tmpDir := t.TempDir()
	tm := &ThumbnailLoader{cacheDir: tmpDir}

	oldSize := MaxCacheSize
	oldFiles := MaxCacheFiles
	MaxCacheSize = 100
	MaxCacheFiles = 5
	defer func() {
		MaxCacheSize = oldSize
		MaxCacheFiles = oldFiles
	}()

	for i := 0; i < 10; i++ {
		path := filepath.Join(tmpDir, string(rune('a'+i))+".jpg")
		_ = os.WriteFile(path, []byte("fake image data"), 0644)
		mtime := time.Now().Add(time.Duration(i-100) * time.Minute)
		_ = os.Chtimes(path, mtime, mtime)
	}

	tm.cleanupCache()

	// 80% of MaxCacheFiles is 4.
	files, _ := os.ReadDir(tmpDir)
	if len(files) > 4 {
		t.Errorf("Cleanup failed to evict enough files. Got %d, expected <= 4", len(files))
	}
	for _, f := range files {
		if f.Name() < "g.jpg" {
			t.Errorf("Cleanup kept an old file: %s", f.Name())
		}
	}
}

func TestLetterbox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, color.White)
		}
	}

	dst, err := letterbox(src, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := dst.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("expected a 128px square, got %v", b)
	}
	// Landscape: 128x64 centred, black bars above and below.
	if r, _, _, _ := dst.At(64, 10).RGBA(); r != 0 {
		t.Errorf("expected a black bar at the top, got %d", r)
	}
	if r, _, _, _ := dst.At(64, 64).RGBA(); r == 0 {
		t.Error("expected image content in the middle")
	}

	if _, err := letterbox(image.NewRGBA(image.Rect(0, 0, 0, 10)), 128); err == nil {
		t.Error("expected an error for an empty image")
	}
}

func TestIsThumbnailable(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/tmp/a.jpg", true},
		{"/tmp/a.JPEG", true},
		{"/tmp/a.png", true},
		{"/tmp/a.mp4", false},
		{"/tmp/folder", false},
	}
	for _, tt := range tests {
		if got := IsThumbnailable(storage.NewFileURI(tt.path)); got != tt.want {
			t.Errorf("IsThumbnailable(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if IsThumbnailable(nil) {
		t.Error("nil URI is not thumbnailable")
	}
}

func TestThumbnailLoader_LoadAndCache(t *testing.T) {
	test.NewApp()
	srcDir := t.TempDir()
	cacheDir := t.TempDir()

	path := filepath.Join(srcDir, "photo.png")
	img := image.NewRGBA(image.Rect(0, 0, 40, 80))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	m := NewThumbnailLoader(cacheDir)
	got := make(chan *canvas.Image, 1)
	m.Load(storage.NewFileURI(path), func(i *canvas.Image) { got <- i })

	select {
	case thumb := <-got:
		if b := thumb.Image.Bounds(); b.Dx() != thumbnailSize || b.Dy() != thumbnailSize {
			t.Fatalf("expected a %dpx thumbnail, got %v", thumbnailSize, b)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("thumbnail was never delivered")
	}

	if m.LoadMemoryOnly(path) == nil {
		t.Error("expected the thumbnail in memory")
	}
	files, _ := filepath.Glob(filepath.Join(cacheDir, "*.jpg"))
	if len(files) != 1 {
		t.Errorf("expected one cached file, got %d", len(files))
	}

	// A fresh loader finds it on disk without queueing.
	fresh := NewThumbnailLoader(cacheDir)
	hit := false
	fresh.Load(storage.NewFileURI(path), func(*canvas.Image) { hit = true })
	if !hit {
		t.Error("expected a synchronous disk cache hit")
	}
}

func TestThumbnailLoader_SaveToDiskRemovesFailedFile(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := t.TempDir()
	path := filepath.Join(srcDir, "photo.png")
	_ = os.WriteFile(path, []byte("x"), 0644)

	m := &ThumbnailLoader{cacheDir: cacheDir}
	// jpeg refuses images 65536px or wider.
	tooWide := image.NewRGBA(image.Rect(0, 0, 1<<16, 1))
	if err := m.saveToDisk(path, tooWide); err == nil {
		t.Fatal("expected an encode error")
	}
	if files, _ := os.ReadDir(cacheDir); len(files) != 0 {
		t.Errorf("expected no cache file after a failed encode, got %d", len(files))
	}

	if err := m.saveToDisk(path, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.loadFromDisk(path) == nil {
		t.Error("expected the saved thumbnail to load back")
	}
}
