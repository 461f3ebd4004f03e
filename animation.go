package sprig

import "fmt"

// TextureSetup is implemented by animation behaviors that populate their own
// frames. It runs once, after the animation is constructed.
type TextureSetup interface {
	SetupTextures(a *Animation) error
}

// EnvironmentSetup is implemented by animation behaviors that need to
// resolve references (shared textures, sibling state) before first use. It
// runs once, after SetupTextures.
type EnvironmentSetup interface {
	SetupEnvironment(a *Animation) error
}

// Animation is an ordered sequence of textures. Each frame is shown for
// FramesPerTexture ticks, then the animation advances, wrapping back to the
// first frame after the last.
type Animation struct {
	name        string
	description string
	behavior    any
	cache       *TextureCache

	textures         []*Texture
	currentIndex     int
	frameCounter     uint
	framesPerTexture uint
	setupDone        bool
}

// newAnimation builds the structure without running setup hooks.
func newAnimation(cache *TextureCache, name, description string, framesPerTexture uint, behavior any) *Animation {
	if framesPerTexture == 0 {
		framesPerTexture = 1
	}
	return &Animation{
		name:             name,
		description:      description,
		behavior:         behavior,
		cache:            cache,
		framesPerTexture: framesPerTexture,
	}
}

// NewAnimation creates an animation that loads its frames through cache and
// runs behavior's setup hooks, if it has any. behavior may be nil.
func NewAnimation(cache *TextureCache, name, description string, framesPerTexture uint, behavior any) (*Animation, error) {
	a := newAnimation(cache, name, description, framesPerTexture, behavior)
	if err := a.setup(); err != nil {
		a.Release()
		return nil, err
	}
	return a, nil
}

// setup runs the behavior hooks exactly once.
func (a *Animation) setup() error {
	if a.setupDone {
		return nil
	}
	if s, ok := a.behavior.(TextureSetup); ok {
		if err := s.SetupTextures(a); err != nil {
			a.setupDone = true
			return fmt.Errorf("sprig: setup textures of animation %q: %w", a.name, err)
		}
	}
	return a.setupEnvironment()
}

// setupEnvironment runs only the environment hook. Animations rebuilt from a
// document already carry their frames.
func (a *Animation) setupEnvironment() error {
	if a.setupDone {
		return nil
	}
	a.setupDone = true
	if s, ok := a.behavior.(EnvironmentSetup); ok {
		if err := s.SetupEnvironment(a); err != nil {
			return fmt.Errorf("sprig: setup environment of animation %q: %w", a.name, err)
		}
	}
	return nil
}

// Name returns the animation name, unique within its element.
func (a *Animation) Name() string {
	return a.name
}

// Description returns the free-form description.
func (a *Animation) Description() string {
	return a.description
}

// Behavior returns the value passed to NewAnimation.
func (a *Animation) Behavior() any {
	return a.behavior
}

// Cache returns the texture cache frames are loaded through.
func (a *Animation) Cache() *TextureCache {
	return a.cache
}

// --- Frames ---

// AddTexture appends t as the last frame. The animation takes ownership.
func (a *Animation) AddTexture(t *Texture) {
	a.textures = append(a.textures, t)
}

// AddImage loads an image frame and appends it.
func (a *Animation) AddImage(path string, size, clip Rect) error {
	t, err := NewImageTexture(a.cache, path, size, clip)
	if err != nil {
		return err
	}
	a.AddTexture(t)
	return nil
}

// AddText renders a text frame and appends it.
func (a *Animation) AddText(font, text string, size Rect, color Color, quality TextQuality) error {
	t, err := NewTextTexture(a.cache, font, text, size, color, quality)
	if err != nil {
		return err
	}
	a.AddTexture(t)
	return nil
}

// HasTexture reports whether a frame exists at index.
func (a *Animation) HasTexture(index int) bool {
	return index >= 0 && index < len(a.textures)
}

// NumTextures returns the frame count.
func (a *Animation) NumTextures() int {
	return len(a.textures)
}

// Textures returns the frames. The returned slice MUST NOT be mutated.
func (a *Animation) Textures() []*Texture {
	return a.textures
}

// TextureAt returns the frame at index.
func (a *Animation) TextureAt(index int) (*Texture, error) {
	if !a.HasTexture(index) {
		return nil, fmt.Errorf("sprig: texture %d of animation %q (count %d): %w",
			index, a.name, len(a.textures), ErrOutOfRange)
	}
	return a.textures[index], nil
}

// --- Playback ---

// CurrentTexture returns the frame being shown without advancing.
func (a *Animation) CurrentTexture() (*Texture, error) {
	if len(a.textures) == 0 {
		return nil, fmt.Errorf("sprig: animation %q: %w", a.name, ErrNoTextures)
	}
	return a.textures[a.currentIndex], nil
}

// NextTexture advances one tick and returns the frame now being shown.
func (a *Animation) NextTexture() (*Texture, error) {
	if len(a.textures) == 0 {
		return nil, fmt.Errorf("sprig: animation %q: %w", a.name, ErrNoTextures)
	}
	a.IncFrameCount()
	return a.textures[a.currentIndex], nil
}

// IncFrameCount advances one tick. Every FramesPerTexture ticks the current
// frame moves on, wrapping to the first frame after the last.
func (a *Animation) IncFrameCount() {
	if len(a.textures) == 0 {
		return
	}
	a.frameCounter++
	if a.frameCounter >= a.framesPerTexture {
		a.frameCounter = 0
		a.currentIndex = (a.currentIndex + 1) % len(a.textures)
	}
}

// Reset returns to the first frame.
func (a *Animation) Reset() {
	a.frameCounter = 0
	a.currentIndex = 0
}

// Index returns the current frame index.
func (a *Animation) Index() int {
	return a.currentIndex
}

// FramesPerTexture returns how many ticks each frame is shown for.
func (a *Animation) FramesPerTexture() uint {
	return a.framesPerTexture
}

// SetFramesPerTexture changes the frame rate. Zero is treated as one.
func (a *Animation) SetFramesPerTexture(frames uint) {
	if frames == 0 {
		frames = 1
	}
	a.framesPerTexture = frames
	if a.frameCounter >= frames {
		a.frameCounter = 0
	}
}

// Release drops every frame's reference to its cached handle and clears the
// frame list.
func (a *Animation) Release() {
	for _, t := range a.textures {
		t.Release()
	}
	a.textures = nil
	a.Reset()
}
