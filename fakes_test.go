package sprig

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"testing"
)

// --- Fake collaborators ---

type fakeHandle struct {
	w, h     int
	disposed bool
}

func (h *fakeHandle) Size() (int, int) { return h.w, h.h }
func (h *fakeHandle) Dispose()         { h.disposed = true }

type fakeFont struct {
	name   string
	size   int
	closed bool
}

func (f *fakeFont) Close() error {
	f.closed = true
	return nil
}

// fakeLoader serves images from memory and rasterizes text as blank images
// len(text)*size/2 wide and size tall.
type fakeLoader struct {
	images map[string]image.Image
	fonts  map[string]bool

	failUpload bool

	decodes, opens, rasterizes, uploads int
	handles                             []*fakeHandle
	opened                              []*fakeFont
}

var errFakeUpload = errors.New("fake upload failure")

func (l *fakeLoader) DecodeImage(path string) (image.Image, error) {
	l.decodes++
	img, ok := l.images[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return img, nil
}

func (l *fakeLoader) OpenFont(name string, size int) (Font, error) {
	l.opens++
	if !l.fonts[name] {
		return nil, fmt.Errorf("font %q: %w", name, ErrFontNotFound)
	}
	f := &fakeFont{name: name, size: size}
	l.opened = append(l.opened, f)
	return f, nil
}

func (l *fakeLoader) RasterizeText(f Font, text string, c Color, q TextQuality) (image.Image, error) {
	l.rasterizes++
	if text == "" {
		return nil, errors.New("empty text")
	}
	size := f.(*fakeFont).size
	return image.NewNRGBA(image.Rect(0, 0, len(text)*size/2, size)), nil
}

func (l *fakeLoader) Upload(img image.Image) (Handle, error) {
	if l.failUpload {
		return nil, errFakeUpload
	}
	l.uploads++
	b := img.Bounds()
	h := &fakeHandle{w: b.Dx(), h: b.Dy()}
	l.handles = append(l.handles, h)
	return h, nil
}

type blit struct {
	handle   Handle
	src, dst image.Rectangle
	flip     bool
}

type fakeRenderer struct {
	blits []blit
	err   error
}

func (r *fakeRenderer) Blit(h Handle, src, dst image.Rectangle, flip bool) error {
	if r.err != nil {
		return r.err
	}
	r.blits = append(r.blits, blit{handle: h, src: src, dst: dst, flip: flip})
	return nil
}

type fakeRuntime struct {
	window   Rect
	renderer *fakeRenderer
}

func (r *fakeRuntime) WindowSize() Rect    { return r.window }
func (r *fakeRuntime) Renderer() Renderer { return r.renderer }

type fakeBackend struct {
	*fakeLoader
	*fakeRuntime
}

// newFakeBackend returns a 640x480 backend with hero.png (64x32),
// bg.png (100x50) and the "default" font.
func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		fakeLoader: &fakeLoader{
			images: map[string]image.Image{
				"hero.png": image.NewNRGBA(image.Rect(0, 0, 64, 32)),
				"bg.png":   image.NewNRGBA(image.Rect(0, 0, 100, 50)),
			},
			fonts: map[string]bool{"default": true},
		},
		fakeRuntime: &fakeRuntime{
			window:   Rect{W: 640, H: 480},
			renderer: &fakeRenderer{},
		},
	}
}

// --- Helpers ---

func newTestCache() (*TextureCache, *fakeBackend) {
	b := newFakeBackend()
	return NewTextureCache(b, b), b
}

func newTestGame(t *testing.T) (*Game, *fakeBackend) {
	t.Helper()
	b := newFakeBackend()
	g := NewGame(b, RunConfig{Width: 640, Height: 480, ScreenshotDir: t.TempDir()})
	t.Cleanup(g.Shutdown)
	return g, b
}

// quietLogs discards package logs for the duration of the test.
func quietLogs(t *testing.T) {
	t.Helper()
	SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { SetLogger(nil) })
}

// newFrames returns an animation with n image frames of hero.png.
func newFrames(t *testing.T, cache *TextureCache, name string, n int, framesPerTexture uint) *Animation {
	t.Helper()
	a, err := NewAnimation(cache, name, "", framesPerTexture, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if err := a.AddImage("hero.png", Rect{W: 100, H: 100}, Rect{}); err != nil {
			t.Fatal(err)
		}
	}
	return a
}

// recorder is a Behavior that counts callbacks and returns configurable
// continuation flags.
type recorder struct {
	renders, loops, events int
	last                   Event
	loopResult             bool
	eventResult            bool
	order                  *[]string
	name                   string
}

func newRecorder(name string, order *[]string) *recorder {
	return &recorder{name: name, order: order, loopResult: true, eventResult: true}
}

func (r *recorder) note(kind string) {
	if r.order != nil {
		*r.order = append(*r.order, kind+":"+r.name)
	}
}

func (r *recorder) OnRender(*Element) bool {
	r.renders++
	r.note("render")
	return false
}

func (r *recorder) OnLoop(*Element) bool {
	r.loops++
	r.note("loop")
	return r.loopResult
}

func (r *recorder) OnEvent(_ *Element, ev Event) bool {
	r.events++
	r.last = ev
	r.note("event")
	return r.eventResult
}
