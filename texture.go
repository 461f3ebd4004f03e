package sprig

import (
	"errors"
	"fmt"
)

// cacheEntry is one cached handle. refs counts the Textures currently using
// it; an evicted entry disposes its handle when refs drops to zero.
type cacheEntry struct {
	handle  Handle
	w, h    int
	refs    int
	evicted bool
	key     string
}

func (e *cacheEntry) acquire() {
	e.refs++
}

func (e *cacheEntry) release() {
	e.refs--
	if e.refs <= 0 && e.evicted && e.handle != nil {
		e.handle.Dispose()
		e.handle = nil
	}
}

type fontKey struct {
	name string
	size int
}

// TextureCache owns every image and text handle loaded for a game. Images are
// keyed by path; rendered text is keyed by text, then relative size, then
// color. Population is additive: a key is loaded once and reused until
// Cleanup. The cache is not safe for concurrent use; like the rest of the
// engine it lives on the game loop goroutine.
type TextureCache struct {
	loader  Loader
	runtime Runtime
	fonts   map[fontKey]Font
	images  map[string]*cacheEntry
	text    map[string]map[Rect]map[Color]*cacheEntry
}

// NewTextureCache creates an empty cache that loads through loader and
// resolves sizes against runtime's window.
func NewTextureCache(loader Loader, runtime Runtime) *TextureCache {
	return &TextureCache{
		loader:  loader,
		runtime: runtime,
		fonts:   make(map[fontKey]Font),
		images:  make(map[string]*cacheEntry),
		text:    make(map[string]map[Rect]map[Color]*cacheEntry),
	}
}

// ImageCount returns the number of cached image paths.
func (c *TextureCache) ImageCount() int {
	return len(c.images)
}

// TextCount returns the number of cached (text, size, color) entries.
func (c *TextureCache) TextCount() int {
	n := 0
	for _, bySize := range c.text {
		for _, byColor := range bySize {
			n += len(byColor)
		}
	}
	return n
}

// FontCount returns the number of registered (name, point size) fonts.
func (c *TextureCache) FontCount() int {
	return len(c.fonts)
}

func (c *TextureCache) windowSize() Rect {
	if c.runtime == nil {
		return Rect{}
	}
	return c.runtime.WindowSize()
}

// Cleanup clears both caches and closes every font. Handles no Texture
// references are disposed now; the rest are disposed when their last
// Texture is released.
func (c *TextureCache) Cleanup() {
	logger.Debug("texture cache cleanup", "images", len(c.images), "text", c.TextCount(), "fonts", len(c.fonts))
	for _, e := range c.images {
		c.evict(e)
	}
	for _, bySize := range c.text {
		for _, byColor := range bySize {
			for _, e := range byColor {
				c.evict(e)
			}
		}
	}
	for k, f := range c.fonts {
		if err := f.Close(); err != nil {
			logger.Warn("close font", "name", k.name, "size", k.size, "err", err)
		}
	}
	clear(c.images)
	clear(c.text)
	clear(c.fonts)
}

func (c *TextureCache) evict(e *cacheEntry) {
	e.evicted = true
	if e.refs <= 0 && e.handle != nil {
		e.handle.Dispose()
		e.handle = nil
	}
}

// --- Image loading ---

func (c *TextureCache) imageEntry(path string) (*cacheEntry, error) {
	if e, ok := c.images[path]; ok {
		return e, nil
	}
	img, err := c.loader.DecodeImage(path)
	if err != nil {
		return nil, &LoadError{Stage: StageDecode, Key: path, Err: err}
	}
	h, err := c.loader.Upload(img)
	if err != nil {
		return nil, &LoadError{Stage: StageUpload, Key: path, Err: err}
	}
	b := img.Bounds()
	e := &cacheEntry{handle: h, w: b.Dx(), h: b.Dy(), key: path}
	c.images[path] = e
	return e, nil
}

// --- Text loading ---

func (c *TextureCache) cachedText(text string, size Rect, color Color) (*cacheEntry, bool) {
	bySize, ok := c.text[text]
	if !ok {
		return nil, false
	}
	byColor, ok := bySize[size]
	if !ok {
		return nil, false
	}
	e, ok := byColor[color]
	return e, ok
}

func (c *TextureCache) storeText(text string, size Rect, color Color, e *cacheEntry) {
	bySize, ok := c.text[text]
	if !ok {
		bySize = make(map[Rect]map[Color]*cacheEntry)
		c.text[text] = bySize
	}
	byColor, ok := bySize[size]
	if !ok {
		byColor = make(map[Color]*cacheEntry)
		bySize[size] = byColor
	}
	byColor[color] = e
}

// font returns the named font at pointSize, registering it on first use.
func (c *TextureCache) font(name string, pointSize int) (Font, error) {
	k := fontKey{name: name, size: pointSize}
	if f, ok := c.fonts[k]; ok {
		return f, nil
	}
	if pointSize <= 0 {
		return nil, fmt.Errorf("invalid point size %d for font %q", pointSize, name)
	}
	f, err := c.loader.OpenFont(name, pointSize)
	if err != nil {
		return nil, err
	}
	c.fonts[k] = f
	return f, nil
}

func (c *TextureCache) textEntry(fontName, text string, size Rect, color Color, quality TextQuality) (*cacheEntry, error) {
	if e, ok := c.cachedText(text, size, color); ok {
		return e, nil
	}
	pointSize := int(Resolve(size, c.windowSize()).H)
	f, err := c.font(fontName, pointSize)
	if err != nil {
		logger.Error("font unavailable", "font", fontName, "size", pointSize, "text", text, "err", err)
		return nil, &LoadError{Stage: StageFont, Key: text, Err: err}
	}
	img, err := c.loader.RasterizeText(f, text, color, quality)
	if err != nil {
		return nil, &LoadError{Stage: StageDecode, Key: text, Err: err}
	}
	h, err := c.loader.Upload(img)
	if err != nil {
		return nil, &LoadError{Stage: StageUpload, Key: text, Err: err}
	}
	b := img.Bounds()
	e := &cacheEntry{handle: h, w: b.Dx(), h: b.Dy(), key: text}
	c.storeText(text, size, color, e)
	return e, nil
}

// --- Texture ---

type textureKind uint8

const (
	textureNone textureKind = iota
	textureImage
	textureText
)

// textureSource records how a texture was loaded so it can be serialized.
type textureSource struct {
	kind    textureKind
	path    string
	font    string
	text    string
	color   Color
	quality TextQuality
	size    Rect // requested size, before auto dimensions were filled
}

// Texture displays a cached handle. Size is the on-screen rect relative to
// the rect the texture is rendered into; Clip selects the part of the handle
// to draw, as percentages of its native size (zero means the whole image).
// A Texture never owns pixel data: its handle belongs to the TextureCache.
type Texture struct {
	cache *TextureCache
	entry *cacheEntry
	src   textureSource
	size  Rect
	clip  Rect
	flip  bool
}

// NewTexture creates an empty texture bound to cache.
func NewTexture(cache *TextureCache) *Texture {
	return &Texture{cache: cache}
}

// NewImageTexture creates a texture and loads the image at path into it.
func NewImageTexture(cache *TextureCache, path string, size, clip Rect) (*Texture, error) {
	t := NewTexture(cache)
	if err := t.LoadImage(path, size, clip); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTextTexture creates a texture and renders text into it.
func NewTextTexture(cache *TextureCache, font, text string, size Rect, color Color, quality TextQuality) (*Texture, error) {
	t := NewTexture(cache)
	if err := t.LoadText(font, text, size, color, quality); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadImage points t at the image at path, loading it into the cache on first
// use. Zero dimensions of size are filled from the image's native size. On
// error t is unchanged.
func (t *Texture) LoadImage(path string, size, clip Rect) error {
	if t.cache == nil {
		return &LoadError{Stage: StageDecode, Key: path, Err: ErrDetached}
	}
	e, err := t.cache.imageEntry(path)
	if err != nil {
		return err
	}
	t.bind(e)
	t.src = textureSource{kind: textureImage, path: path, size: size}
	t.size = FillAutoDimension(size, e.w, e.h, t.cache.windowSize())
	t.clip = clip
	return nil
}

// LoadText points t at text rendered with the named font, rasterizing it on
// first use of the (text, size, color) key. The font point size is the
// absolute height of size within the window. On error t is unchanged.
func (t *Texture) LoadText(font, text string, size Rect, color Color, quality TextQuality) error {
	if t.cache == nil {
		return &LoadError{Stage: StageFont, Key: text, Err: ErrDetached}
	}
	e, err := t.cache.textEntry(font, text, size, color, quality)
	if err != nil {
		return err
	}
	t.bind(e)
	t.src = textureSource{kind: textureText, font: font, text: text, color: color, quality: quality, size: size}
	t.size = FillAutoDimension(size, e.w, e.h, t.cache.windowSize())
	t.clip = Rect{}
	return nil
}

// bind takes a reference on e before dropping the current one so reloading
// the same key never disposes the shared handle.
func (t *Texture) bind(e *cacheEntry) {
	e.acquire()
	if t.entry != nil {
		t.entry.release()
	}
	t.entry = e
}

// Release drops t's reference to its cached handle.
func (t *Texture) Release() {
	if t.entry == nil {
		return
	}
	t.entry.release()
	t.entry = nil
}

// Handle returns the shared cached handle, or nil when nothing is loaded.
func (t *Texture) Handle() Handle {
	if t.entry == nil {
		return nil
	}
	return t.entry.handle
}

// NativeSize returns the pixel size of the loaded handle.
func (t *Texture) NativeSize() (w, h int) {
	if t.entry == nil {
		return 0, 0
	}
	return t.entry.w, t.entry.h
}

// Key returns the cache key of the loaded content: the path or the text.
func (t *Texture) Key() string {
	if t.entry == nil {
		return ""
	}
	return t.entry.key
}

// Size returns the on-screen rect relative to the render destination.
func (t *Texture) Size() Rect {
	return t.size
}

// SetSize sets the width and height. A zero argument keeps that dimension.
func (t *Texture) SetSize(w, h float64) {
	if w != 0 {
		t.size.W = w
	}
	if h != 0 {
		t.size.H = h
	}
}

// SetSizeRect replaces the size rect.
func (t *Texture) SetSizeRect(r Rect) {
	t.size = r
}

// Clip returns the clip rect.
func (t *Texture) Clip() Rect {
	return t.clip
}

// Flip reports whether t is always drawn mirrored.
func (t *Texture) Flip() bool {
	return t.flip
}

// SetFlip sets whether t is always drawn mirrored.
func (t *Texture) SetFlip(flip bool) {
	t.flip = flip
}

// Render draws t into dest, a rect relative to the window. The clip rect is
// resolved against the native pixel size and the size rect against dest.
// The texture is mirrored when flip or t.Flip() is set.
func (t *Texture) Render(dest Rect, flip bool) error {
	h := t.Handle()
	if h == nil {
		return &RenderError{Key: t.Key(), Err: ErrNoHandle}
	}
	if t.cache == nil || t.cache.runtime == nil || t.cache.runtime.Renderer() == nil {
		return &RenderError{Key: t.Key(), Err: ErrDetached}
	}
	window := t.cache.windowSize()
	dst := ResolveAbsolute(Rect{W: t.size.W, H: t.size.H}, dest, window)

	clip := t.clip
	if clip.IsZero() {
		clip = FullRect
	}
	src := Resolve(clip, Rect{W: float64(t.entry.w), H: float64(t.entry.h)})

	if err := t.cache.runtime.Renderer().Blit(h, src.Pixels(), dst.Pixels(), flip || t.flip); err != nil {
		return &RenderError{Key: t.Key(), Err: err}
	}
	return nil
}

// IsLoadError reports whether err is a LoadError at the given stage.
func IsLoadError(err error, stage LoadStage) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Stage == stage
}
