package sprig

import "image"

// Handle is an uploaded, renderable image owned by a TextureCache.
type Handle interface {
	// Size returns the native pixel dimensions.
	Size() (w, h int)
	// Dispose frees the underlying resource.
	Dispose()
}

// Font is an opaque font face returned by a Loader.
type Font interface {
	Close() error
}

// Loader decodes, rasterizes and uploads assets. Each method corresponds to
// one LoadStage so a TextureCache can report exactly where a load failed.
type Loader interface {
	// DecodeImage reads and decodes the image file at path.
	DecodeImage(path string) (image.Image, error)
	// OpenFont returns the named font at the given point size. Unknown
	// names fail with an error wrapping ErrFontNotFound.
	OpenFont(name string, size int) (Font, error)
	// RasterizeText renders text with f into a new image.
	RasterizeText(f Font, text string, c Color, q TextQuality) (image.Image, error)
	// Upload converts a decoded image into a renderable Handle.
	Upload(img image.Image) (Handle, error)
}

// Renderer draws handles into the current render target.
type Renderer interface {
	// Blit copies the src pixels of h into dst, mirrored horizontally
	// when flip is set.
	Blit(h Handle, src, dst image.Rectangle, flip bool) error
}

// Runtime is the window context: its size drives relative rect resolution
// and its renderer receives blits.
type Runtime interface {
	WindowSize() Rect
	Renderer() Renderer
}

// Backend is the full set of collaborators a Game needs.
type Backend interface {
	Loader
	Runtime
}
