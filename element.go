package sprig

import (
	"fmt"
	"reflect"
)

// NoCollisionLayer marks an element that belongs to no collision layer.
// Layer 0 is an ordinary layer.
const NoCollisionLayer = -1

// Behavior supplies an element's per-frame callbacks. Each returns a
// continuation flag; see Scene for how the flags are used.
type Behavior interface {
	OnRender(e *Element) bool
	OnLoop(e *Element) bool
	OnEvent(e *Element, ev Event) bool
}

// DefaultBehavior renders the current animation's current texture, advances
// it once per loop, and ignores events. Embed it to override only some
// callbacks.
type DefaultBehavior struct{}

func (DefaultBehavior) OnRender(e *Element) bool { return e.RenderCurrent() }

func (DefaultBehavior) OnLoop(e *Element) bool {
	e.AdvanceCurrent()
	return true
}

func (DefaultBehavior) OnEvent(*Element, Event) bool { return true }

// ElementSetup is implemented by behaviors that need their scene before first
// use. SetupEnvironment runs once, when the element is added to a scene.
type ElementSetup interface {
	SetupEnvironment(e *Element) error
}

// Element is a renderable node in a Scene. It owns its animations, one of
// which is current, and keeps a render box and a collision box relative to
// the scene.
type Element struct {
	name     string
	behavior Behavior

	animations *Container[*Animation, *Scene]
	current    int

	renderBox      Rect
	collisionBox   Rect
	collisionLayer int
	flip           bool

	setupDone bool
	disposed  bool
}

// NewElement creates an element. A nil behavior means DefaultBehavior.
func NewElement(name string, behavior Behavior) *Element {
	if behavior == nil {
		behavior = DefaultBehavior{}
	}
	e := &Element{
		name:           name,
		behavior:       behavior,
		current:        -1,
		collisionLayer: NoCollisionLayer,
	}
	e.animations = NewContainer[*Animation, *Scene]("animation", true, ChildHooks[*Animation]{
		BeforeAdd:    e.beforeAddAnimation,
		BeforeRemove: e.beforeRemoveAnimation,
	})
	return e
}

// Name returns the element name, unique within its scene.
func (e *Element) Name() string {
	return e.name
}

// Behavior returns the element's callbacks.
func (e *Element) Behavior() Behavior {
	return e.behavior
}

// Scene returns the owning scene. ok is false when the element is detached
// or its scene has been destroyed.
func (e *Element) Scene() (s *Scene, ok bool) {
	s, ok = e.animations.Parent()
	if !ok || s == nil || s.destroyed {
		return nil, false
	}
	return s, true
}

// IsDisposed reports whether the element's scene destroyed it.
func (e *Element) IsDisposed() bool {
	return e.disposed
}

// --- Animations ---

func (e *Element) beforeAddAnimation(*Animation) bool {
	if e.animations.Len() == 0 {
		e.current = 0
	}
	return false
}

func (e *Element) beforeRemoveAnimation(a *Animation) bool {
	idx := e.animations.indexOfChild(a)
	remaining := e.animations.Len() - 1
	switch {
	case remaining == 0:
		e.current = -1
	case idx < e.current:
		e.current--
	case idx == e.current:
		e.current = 0
		next := e.animations.children[0]
		if idx == 0 {
			next = e.animations.children[1]
		}
		next.Reset()
	}
	return false
}

// AddAnimation runs a's setup hooks if they have not run yet and appends
// it. The first animation added becomes current.
func (e *Element) AddAnimation(a *Animation) error {
	if err := a.setup(); err != nil {
		return err
	}
	return e.animations.Add(a)
}

// AddAnimations adds each animation in order.
func (e *Element) AddAnimations(anims ...*Animation) error {
	for _, a := range anims {
		if err := e.AddAnimation(a); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAnimation detaches the named animation and returns it to the caller,
// who then owns its textures.
func (e *Element) RemoveAnimation(name string) (*Animation, error) {
	return e.animations.RemoveByName(name)
}

// RemoveAnimationAt detaches the animation at index.
func (e *Element) RemoveAnimationAt(index int) (*Animation, error) {
	return e.animations.RemoveAt(index)
}

// RemoveAllAnimations detaches every animation.
func (e *Element) RemoveAllAnimations() []*Animation {
	return e.animations.RemoveAll()
}

// Animation returns the named animation.
func (e *Element) Animation(name string) (*Animation, error) {
	return e.animations.Get(name)
}

// AnimationAt returns the animation at index.
func (e *Element) AnimationAt(index int) (*Animation, error) {
	return e.animations.At(index)
}

// AnimationIndex returns the index of the named animation.
func (e *Element) AnimationIndex(name string) (int, error) {
	return e.animations.Index(name)
}

// AnimationNameAt returns the name of the animation at index.
func (e *Element) AnimationNameAt(index int) (string, error) {
	return e.animations.NameAt(index)
}

// HasAnimation reports whether the named animation exists.
func (e *Element) HasAnimation(name string) bool {
	return e.animations.Has(name)
}

// Animations returns a snapshot of the animations.
func (e *Element) Animations() []*Animation {
	return e.animations.All()
}

// AnimationNames returns the animation names in order.
func (e *Element) AnimationNames() []string {
	return e.animations.Names()
}

// NumAnimations returns the animation count.
func (e *Element) NumAnimations() int {
	return e.animations.Len()
}

// CurrentAnimation returns the animation being played.
func (e *Element) CurrentAnimation() (*Animation, error) {
	if e.current < 0 {
		return nil, fmt.Errorf("sprig: element %q: %w", e.name, ErrNoAnimations)
	}
	return e.animations.At(e.current)
}

// CurrentAnimationIndex returns the current animation index, or -1 when the
// element has none.
func (e *Element) CurrentAnimationIndex() int {
	return e.current
}

// SetCurrentAnimation switches to the named animation and rewinds it.
func (e *Element) SetCurrentAnimation(name string) error {
	idx, err := e.animations.Index(name)
	if err != nil {
		return err
	}
	return e.SetCurrentAnimationAt(idx)
}

// SetCurrentAnimationAt switches to the animation at index and rewinds it.
func (e *Element) SetCurrentAnimationAt(index int) error {
	a, err := e.animations.At(index)
	if err != nil {
		return err
	}
	e.current = index
	a.Reset()
	return nil
}

// RenderCurrent draws the current texture of the current animation into the
// render box. An element with nothing to draw succeeds; a failed blit is
// logged and reported as false.
func (e *Element) RenderCurrent() bool {
	a, err := e.CurrentAnimation()
	if err != nil {
		return true
	}
	t, err := a.CurrentTexture()
	if err != nil {
		return true
	}
	if err := t.Render(e.renderBox, e.flip); err != nil {
		logger.Warn("render element", "element", e.name, "animation", a.Name(), "err", err)
		return false
	}
	return true
}

// AdvanceCurrent advances the current animation by one tick.
func (e *Element) AdvanceCurrent() {
	if a, err := e.CurrentAnimation(); err == nil {
		a.IncFrameCount()
	}
}

// --- Geometry ---

// RelativeRenderBox returns the stored render box, relative to the scene.
func (e *Element) RelativeRenderBox() Rect {
	return e.renderBox
}

// RelativeCollisionBox returns the stored collision box, relative to the scene.
func (e *Element) RelativeCollisionBox() Rect {
	return e.collisionBox
}

// SetRenderBox sets the render box, relative to the scene.
func (e *Element) SetRenderBox(r Rect) {
	e.renderBox = r
}

// SetCollisionBox sets the collision box, relative to the scene.
func (e *Element) SetCollisionBox(r Rect) {
	e.collisionBox = r
}

// RenderBox returns the render box in window pixels. A detached element
// returns its relative box unchanged.
func (e *Element) RenderBox() Rect {
	if s, ok := e.Scene(); ok {
		return Resolve(e.renderBox, s.Bounds())
	}
	return e.renderBox
}

// CollisionBox returns the collision box in window pixels. A detached element
// returns its relative box unchanged.
func (e *Element) CollisionBox() Rect {
	if s, ok := e.Scene(); ok {
		return Resolve(e.collisionBox, s.Bounds())
	}
	return e.collisionBox
}

// Flip reports whether the element is drawn mirrored.
func (e *Element) Flip() bool {
	return e.flip
}

// SetFlip sets whether the element is drawn mirrored.
func (e *Element) SetFlip(flip bool) {
	e.flip = flip
}

// CollisionLayer returns the element's layer id, or NoCollisionLayer.
func (e *Element) CollisionLayer() int {
	return e.collisionLayer
}

// SetCollisionLayer moves the element to another layer, updating its scene's
// layer index when attached. Negative ids mean no layer.
func (e *Element) SetCollisionLayer(layer int) {
	if layer < 0 {
		layer = NoCollisionLayer
	}
	if layer == e.collisionLayer {
		return
	}
	s, ok := e.Scene()
	if !ok {
		e.collisionLayer = layer
		return
	}
	if layer == NoCollisionLayer {
		s.RemoveFromCollisionLayer(e)
		e.collisionLayer = NoCollisionLayer
		return
	}
	s.unlinkLayer(e)
	e.collisionLayer = NoCollisionLayer
	s.AddToCollisionLayer(e, layer)
}

// --- Dispatch ---

// The dispatch methods wrap the behavior callbacks with bookkeeping that
// behaviors never have to call themselves.

func (e *Element) render(stats *frameStats) bool {
	if e.disposed {
		return true
	}
	if stats != nil {
		stats.rendered++
	}
	return e.behavior.OnRender(e)
}

func (e *Element) loop(stats *frameStats) bool {
	if e.disposed {
		return true
	}
	if stats != nil {
		stats.looped++
	}
	return e.behavior.OnLoop(e)
}

func (e *Element) event(ev Event) bool {
	if e.disposed {
		return true
	}
	return e.behavior.OnEvent(e, ev)
}

func (e *Element) setup() error {
	if e.setupDone {
		return nil
	}
	e.setupDone = true
	if s, ok := e.behavior.(ElementSetup); ok {
		if err := s.SetupEnvironment(e); err != nil {
			return fmt.Errorf("sprig: setup environment of element %q: %w", e.name, err)
		}
	}
	return nil
}

// dispose releases every texture and invalidates the scene reference.
func (e *Element) dispose() {
	for _, a := range e.animations.RemoveAll() {
		a.Release()
	}
	e.animations.ClearParent()
	e.disposed = true
}

// --- Checked casts ---

// BehaviorAs returns e's behavior as T, or ErrTypeMismatch.
func BehaviorAs[T any](e *Element) (T, error) {
	return checkedCast[T](e.behavior, "element", e.name)
}

// AnimationBehaviorAs returns the behavior of e's named animation as T.
func AnimationBehaviorAs[T any](e *Element, name string) (T, error) {
	a, err := e.Animation(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return checkedCast[T](a.behavior, "animation", name)
}

func checkedCast[T any](v any, kind, name string) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("sprig: %s %q has behavior %T, want %v: %w", kind, name, v, reflect.TypeFor[T](), ErrTypeMismatch)
	}
	return t, nil
}
