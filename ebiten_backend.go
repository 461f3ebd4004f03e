package sprig

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenBackend is the Backend used by a running game. Images are decoded
// from disk, text is rasterized on the CPU with a FontLibrary, and both are
// uploaded as ebiten images. Blits go to the target bound by Game.Draw.
type EbitenBackend struct {
	fonts  *FontLibrary
	width  int
	height int
	target *ebiten.Image
}

// NewEbitenBackend creates a backend for a width x height logical screen.
func NewEbitenBackend(width, height int) *EbitenBackend {
	return &EbitenBackend{
		fonts:  NewFontLibrary(),
		width:  width,
		height: height,
	}
}

// Fonts returns the font library OpenFont resolves names against.
func (b *EbitenBackend) Fonts() *FontLibrary {
	return b.fonts
}

// RegisterFont parses data and makes it available under name.
func (b *EbitenBackend) RegisterFont(name string, data []byte) error {
	return b.fonts.Register(name, data)
}

// SetTarget binds the image blits draw into.
func (b *EbitenBackend) SetTarget(target *ebiten.Image) {
	b.target = target
}

// --- Runtime ---

// WindowSize returns the logical screen rect.
func (b *EbitenBackend) WindowSize() Rect {
	return Rect{W: float64(b.width), H: float64(b.height)}
}

// Renderer returns b itself.
func (b *EbitenBackend) Renderer() Renderer {
	return b
}

var errNoTarget = errors.New("sprig: no render target bound")

// Blit draws the src region of h scaled into dst on the bound target.
func (b *EbitenBackend) Blit(h Handle, src, dst image.Rectangle, flip bool) error {
	if b.target == nil {
		return errNoTarget
	}
	eh, ok := h.(*ebitenHandle)
	if !ok {
		return fmt.Errorf("sprig: blit: handle %T not uploaded by this backend", h)
	}
	if eh.img == nil {
		return ErrNoHandle
	}
	if src.Empty() || dst.Empty() {
		return nil
	}
	sub := eh.img.SubImage(src).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	if flip {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(float64(src.Dx()), 0)
	}
	op.GeoM.Scale(float64(dst.Dx())/float64(src.Dx()), float64(dst.Dy())/float64(src.Dy()))
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	b.target.DrawImage(sub, op)
	return nil
}

// --- Loader ---

// DecodeImage reads a PNG, JPEG or GIF file.
func (b *EbitenBackend) DecodeImage(path string) (image.Image, error) {
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

// OpenFont opens the named font from the library.
func (b *EbitenBackend) OpenFont(name string, size int) (Font, error) {
	return b.fonts.Open(name, size)
}

// RasterizeText renders text on the CPU.
func (b *EbitenBackend) RasterizeText(f Font, text string, c Color, q TextQuality) (image.Image, error) {
	return rasterizeText(f, text, c, q)
}

// Upload copies img into a new ebiten image.
func (b *EbitenBackend) Upload(img image.Image) (Handle, error) {
	if img == nil {
		return nil, errors.New("sprig: upload nil image")
	}
	if r := img.Bounds(); r.Empty() {
		return nil, fmt.Errorf("sprig: upload empty image %v", r)
	}
	return &ebitenHandle{img: ebiten.NewImageFromImage(img)}, nil
}

// ebitenHandle owns one uploaded ebiten image.
type ebitenHandle struct {
	img *ebiten.Image
}

func (eh *ebitenHandle) Size() (w, h int) {
	if eh.img == nil {
		return 0, 0
	}
	b := eh.img.Bounds()
	return b.Dx(), b.Dy()
}

func (eh *ebitenHandle) Dispose() {
	if eh.img != nil {
		eh.img.Deallocate()
		eh.img = nil
	}
}
