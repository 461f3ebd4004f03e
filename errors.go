package sprig

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a name lookup misses.
	ErrNotFound = errors.New("sprig: not found")
	// ErrOutOfRange is returned when an index lookup misses.
	ErrOutOfRange = errors.New("sprig: index out of range")
	// ErrDuplicateName is returned when a unique container already holds a
	// child with the same name.
	ErrDuplicateName = errors.New("sprig: duplicate name")
	// ErrVetoed is returned when a container hook refuses an add or remove.
	ErrVetoed = errors.New("sprig: vetoed by hook")
	// ErrNoTextures is returned when an animation has no frames.
	ErrNoTextures = errors.New("sprig: animation has no textures")
	// ErrNoAnimations is returned when an element has no animations.
	ErrNoAnimations = errors.New("sprig: element has no animations")
	// ErrTypeMismatch is returned by the checked behavior casts.
	ErrTypeMismatch = errors.New("sprig: type mismatch")
	// ErrNoHandle is returned when rendering a texture that holds no image.
	ErrNoHandle = errors.New("sprig: texture has no handle")
	// ErrFontNotFound is returned by loaders when a font name is unknown.
	ErrFontNotFound = errors.New("sprig: font not found")
	// ErrDetached is returned when an operation needs an owner that is
	// missing or already destroyed.
	ErrDetached = errors.New("sprig: not attached")
	// ErrBuilder is returned when a builder is missing required fields.
	ErrBuilder = errors.New("sprig: incomplete builder")
)

// LoadStage identifies where an asset load failed.
type LoadStage int

const (
	StageDecode LoadStage = -1 // file decode or text rasterization
	StageUpload LoadStage = -2 // handle creation on the GPU
	StageFont   LoadStage = -3 // font lookup or registration
)

func (s LoadStage) String() string {
	switch s {
	case StageDecode:
		return "decode"
	case StageUpload:
		return "upload"
	case StageFont:
		return "font"
	default:
		return fmt.Sprintf("LoadStage(%d)", int(s))
	}
}

// LoadError reports a failed image or text load. The texture being loaded
// is left exactly as it was before the call.
type LoadError struct {
	Stage LoadStage
	Key   string // image path, or the text being rendered
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("sprig: load %q: %s stage: %v", e.Key, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Code returns the negative status code of the failing stage.
func (e *LoadError) Code() int { return int(e.Stage) }

// RenderError reports a failed blit.
type RenderError struct {
	Key string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("sprig: render %q: %v", e.Key, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
