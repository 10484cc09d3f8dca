package view

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"golang.org/x/image/draw"
)

const (
	thumbnailSize    = 128
	thumbnailQueue   = 100
	thumbnailWorkers = 4
)

var (
	MaxCacheSize  int64 = 500 * 1024 * 1024 // 500MB
	MaxCacheFiles int   = 10000
)

var errNotImage = errors.New("not a supported image")

type thumbnailRequest struct {
	uri      fyne.URI
	callback func(*canvas.Image)
}

// ThumbnailLoader scales images down to square letterboxed thumbnails. The
// most recent request is served first and only the newest requests are
// kept, so scrolling fast through a large grid does not build a backlog.
// Results are cached in memory and as JPEG files on disk.
type ThumbnailLoader struct {
	cache    sync.Map // map[string]*canvas.Image
	requests []thumbnailRequest
	reqLock  sync.Mutex
	reqCond  *sync.Cond
	cacheDir string
}

var (
	thumbnails *ThumbnailLoader
	once       sync.Once
)

// Thumbnails returns the shared loader, caching under the user cache dir.
func Thumbnails() *ThumbnailLoader {
	once.Do(func() {
		dir := ""
		if userCache, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(userCache, "xgrid")
		}
		thumbnails = NewThumbnailLoader(dir)
	})
	return thumbnails
}

// NewThumbnailLoader starts a loader caching in cacheDir. An empty cacheDir
// keeps thumbnails in memory only.
func NewThumbnailLoader(cacheDir string) *ThumbnailLoader {
	m := &ThumbnailLoader{
		requests: make([]thumbnailRequest, 0, thumbnailQueue),
		cacheDir: cacheDir,
	}
	m.reqCond = sync.NewCond(&m.reqLock)

	if m.cacheDir != "" {
		if err := os.MkdirAll(m.cacheDir, 0755); err != nil {
			fyne.LogError("Thumbnail cache unavailable", err)
			m.cacheDir = ""
		} else {
			go m.cleanupCache()
		}
	}

	for i := 0; i < thumbnailWorkers; i++ {
		go m.worker()
	}
	return m
}

// LoadMemoryOnly returns the thumbnail of path if it is already in memory.
func (m *ThumbnailLoader) LoadMemoryOnly(path string) *canvas.Image {
	if cached, ok := m.cache.Load(path); ok {
		return cached.(*canvas.Image)
	}
	return nil
}

// Load delivers the thumbnail of uri to callback, from a worker goroutine
// unless it was cached. Non-local or non-image URIs are ignored.
func (m *ThumbnailLoader) Load(uri fyne.URI, callback func(*canvas.Image)) {
	if !IsThumbnailable(uri) {
		return
	}

	path := uri.Path()
	if cached, ok := m.cache.Load(path); ok {
		callback(cached.(*canvas.Image))
		return
	}

	if img := m.loadFromDisk(path); img != nil {
		callback(img)
		return
	}

	m.reqLock.Lock()
	if len(m.requests) >= thumbnailQueue {
		m.requests = m.requests[1:]
	}
	m.requests = append(m.requests, thumbnailRequest{uri: uri, callback: callback})
	m.reqCond.Signal()
	m.reqLock.Unlock()
}

// Prewarm moves disk cached thumbnails of uris into memory in the background.
func (m *ThumbnailLoader) Prewarm(uris []fyne.URI) {
	if m.cacheDir == "" {
		return
	}

	go func() {
		for _, uri := range uris {
			if !IsThumbnailable(uri) {
				continue
			}
			path := uri.Path()
			if _, ok := m.cache.Load(path); ok {
				continue
			}
			m.loadFromDisk(path)
			// Spread the I/O out.
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

func (m *ThumbnailLoader) loadFromDisk(path string) *canvas.Image {
	if m.cacheDir == "" {
		return nil
	}
	key, err := m.generateCacheKey(path)
	if err != nil {
		return nil
	}
	img, err := loadImage(filepath.Join(m.cacheDir, key+".jpg"))
	if err != nil {
		return nil
	}
	canvasImg := canvas.NewImageFromImage(img)
	canvasImg.FillMode = canvas.ImageFillContain
	m.cache.Store(path, canvasImg)
	return canvasImg
}

func (m *ThumbnailLoader) worker() {
	for {
		m.reqLock.Lock()
		for len(m.requests) == 0 {
			m.reqCond.Wait()
		}
		last := len(m.requests) - 1
		req := m.requests[last]
		m.requests = m.requests[:last]
		m.reqLock.Unlock()

		path := req.uri.Path()
		if cached, ok := m.cache.Load(path); ok {
			req.callback(cached.(*canvas.Image))
			continue
		}

		img, err := generateThumbnail(path)
		if err != nil {
			fyne.LogError("Failed to create thumbnail for "+path, err)
			continue
		}

		canvasImg := canvas.NewImageFromImage(img)
		canvasImg.FillMode = canvas.ImageFillContain
		m.cache.Store(path, canvasImg)
		if err := m.saveToDisk(path, img); err != nil {
			fyne.LogError("Failed to cache thumbnail for "+path, err)
		}

		req.callback(canvasImg)
	}
}

// saveToDisk writes img to the disk cache. A partially written file is
// removed so it is never read back.
func (m *ThumbnailLoader) saveToDisk(path string, img image.Image) error {
	if m.cacheDir == "" {
		return nil
	}
	key, err := m.generateCacheKey(path)
	if err != nil {
		return err
	}
	name := filepath.Join(m.cacheDir, key+".jpg")
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	err = jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("cache thumbnail: %w", err)
	}
	return nil
}

func generateThumbnail(path string) (*image.RGBA, error) {
	src, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	return letterbox(src, thumbnailSize)
}

// letterbox scales src into a size×size black square, keeping its aspect
// ratio and centering it.
func letterbox(src image.Image, size int) (*image.RGBA, error) {
	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("empty image %dx%d", srcW, srcH)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{image.Black}, image.Point{}, draw.Src)

	var scaledW, scaledH int
	ratio := float64(srcW) / float64(srcH)
	if ratio > 1 {
		scaledW = size
		scaledH = int(float64(size) / ratio)
	} else {
		scaledH = size
		scaledW = int(float64(size) * ratio)
	}

	x := (size - scaledW) / 2
	y := (size - scaledH) / 2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+scaledW, y+scaledH), src, srcBounds, draw.Over, nil)
	return dst, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// IsThumbnailable reports whether the loader can make a thumbnail of uri.
func IsThumbnailable(uri fyne.URI) bool {
	if uri == nil || uri.Scheme() != "file" {
		return false
	}
	return isSupportedImage(strings.ToLower(filepath.Ext(uri.Path())))
}

func isSupportedImage(ext string) bool {
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}

func (m *ThumbnailLoader) generateCacheKey(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errNotImage
	}

	h := sha256.New()
	h.Write([]byte(absPath))
	h.Write([]byte(info.ModTime().String()))
	fmt.Fprintf(h, "%d", info.Size())

	// The first 32KB catch rewrites that keep size and mtime.
	f, err := os.Open(absPath)
	if err == nil {
		defer f.Close()
		buf := make([]byte, 32*1024)
		n, _ := f.Read(buf)
		h.Write(buf[:n])
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// cleanupCache evicts the oldest cached files until both limits are back
// under 80%.
func (m *ThumbnailLoader) cleanupCache() {
	if m.cacheDir == "" {
		return
	}

	files, err := os.ReadDir(m.cacheDir)
	if err != nil {
		return
	}

	type fileInfo struct {
		name string
		size int64
		time time.Time
	}

	var cachedFiles []fileInfo
	var totalSize int64

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".jpg" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		cachedFiles = append(cachedFiles, fileInfo{
			name: f.Name(),
			size: info.Size(),
			time: info.ModTime(),
		})
		totalSize += info.Size()
	}

	if totalSize <= MaxCacheSize && len(cachedFiles) <= MaxCacheFiles {
		return
	}

	slices.SortFunc(cachedFiles, func(a, b fileInfo) int {
		return a.time.Compare(b.time)
	})

	for len(cachedFiles) > 0 {
		if totalSize <= int64(float64(MaxCacheSize)*0.8) && len(cachedFiles) <= int(float64(MaxCacheFiles)*0.8) {
			break
		}
		f := cachedFiles[0]
		_ = os.Remove(filepath.Join(m.cacheDir, f.name))
		totalSize -= f.size
		cachedFiles = cachedFiles[1:]
	}
}
