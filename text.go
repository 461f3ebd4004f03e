package sprig

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFont is the name under which the Go Regular face is registered in
// every FontLibrary.
const DefaultFont = "default"

// solidThreshold is the coverage at or above which a TextSolid pixel is
// drawn fully opaque.
const solidThreshold = 0x80

// FontLibrary maps font names to parsed OpenType fonts and opens faces at a
// given point size.
type FontLibrary struct {
	fonts map[string]*opentype.Font
}

// NewFontLibrary creates a library holding only DefaultFont.
func NewFontLibrary() *FontLibrary {
	lib := &FontLibrary{fonts: make(map[string]*opentype.Font)}
	if err := lib.Register(DefaultFont, goregular.TTF); err != nil {
		panic("sprig: parse built-in font: " + err.Error())
	}
	return lib
}

// Register parses TTF or OTF data and stores it under name, replacing any
// font of the same name.
func (l *FontLibrary) Register(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("sprig: parse font %q: %w", name, err)
	}
	l.fonts[name] = f
	return nil
}

// Has reports whether name is registered.
func (l *FontLibrary) Has(name string) bool {
	_, ok := l.fonts[name]
	return ok
}

// Open returns a face for the named font at size points (72 DPI, so one
// point is one pixel).
func (l *FontLibrary) Open(name string, size int) (Font, error) {
	f, ok := l.fonts[name]
	if !ok {
		return nil, fmt.Errorf("sprig: font %q: %w", name, ErrFontNotFound)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("sprig: open font %q at %d: %w", name, size, err)
	}
	return &fontFace{name: name, size: size, face: face}, nil
}

// fontFace is the Font returned by FontLibrary.Open.
type fontFace struct {
	name string
	size int
	face font.Face
}

func (f *fontFace) Close() error {
	return f.face.Close()
}

// rasterizeText draws text on a single line into a new image sized to the
// text's advance and the face's ascent plus descent. TextSolid snaps glyph
// coverage to fully opaque or transparent; TextBlended keeps the
// anti-aliased edges.
func rasterizeText(f Font, text string, c Color, q TextQuality) (*image.NRGBA, error) {
	ff, ok := f.(*fontFace)
	if !ok {
		return nil, fmt.Errorf("sprig: rasterize %q: font %T not opened by a FontLibrary", text, f)
	}
	if text == "" {
		return nil, fmt.Errorf("sprig: rasterize: empty text")
	}
	m := ff.face.Metrics()
	w := font.MeasureString(ff.face, text).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sprig: rasterize %q: empty bounds %dx%d", text, w, h)
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: ff.face,
		Dot:  fixed.Point26_6{Y: m.Ascent},
	}
	d.DrawString(text)

	out := image.NewNRGBA(mask.Rect)
	for i, a := range mask.Pix {
		if q == TextSolid {
			if a >= solidThreshold {
				a = 0xff
			} else {
				a = 0
			}
		}
		if a == 0 {
			continue
		}
		p := out.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2] = c.R, c.G, c.B
		p[3] = uint8(uint16(a) * uint16(c.A) / 0xff)
	}
	return out, nil
}
