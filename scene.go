package sprig

import (
	"fmt"
	"slices"
)

// SceneEventKind identifies a SceneEvent.
type SceneEventKind uint8

const (
	SceneElementAdded   SceneEventKind = iota // an element joined the scene
	SceneElementRemoved                       // an element left the scene
	SceneLayerChanged                         // an element changed collision layer, possibly to NoCollisionLayer
	SceneEventDispatched                      // an Event was routed to the elements
)

// SceneEvent describes something that happened in a scene, for observers
// such as the ECS bridge in sprig/ecs.
type SceneEvent struct {
	Kind    SceneEventKind
	Scene   string
	Element string
	Layer   int
	Event   Event
}

// EventSink receives SceneEvents. When set on a Scene, element lifecycle,
// layer changes and dispatched events are forwarded to it.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// SceneSetup is implemented by values passed to NewSceneWithSetup. Both hooks
// run once, when the scene is added to a game or rebuilt from a document.
type SceneSetup interface {
	SetupEnvironment(s *Scene) error
	SetupElements(s *Scene) error
}

// Scene owns an ordered set of elements and routes render, loop and event
// callbacks to them in insertion order. It also indexes elements by
// collision layer.
type Scene struct {
	name     string
	elements *Container[*Element, *Game]
	layers   map[int][]*Element
	sink     EventSink

	setup     SceneSetup
	setupDone bool
	destroyed bool
}

// NewScene creates an empty scene.
func NewScene(name string) *Scene {
	return NewSceneWithSetup(name, nil)
}

// NewSceneWithSetup creates an empty scene whose setup hooks populate it.
func NewSceneWithSetup(name string, setup SceneSetup) *Scene {
	s := &Scene{
		name:   name,
		layers: make(map[int][]*Element),
		setup:  setup,
	}
	s.elements = NewContainer[*Element, *Game]("element", true, ChildHooks[*Element]{
		BeforeAdd:    s.beforeAddElement,
		BeforeRemove: s.beforeRemoveElement,
	})
	return s
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// Game returns the owning game. ok is false when the scene is detached.
func (s *Scene) Game() (g *Game, ok bool) {
	g, ok = s.elements.Parent()
	if !ok || g == nil {
		return nil, false
	}
	return g, true
}

// Bounds returns the absolute rect elements are resolved against: the
// window of the owning game, or the zero rect when detached.
func (s *Scene) Bounds() Rect {
	if g, ok := s.Game(); ok {
		return g.WindowSize()
	}
	return Rect{}
}

// SetEventSink sets the optional observer.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

func (s *Scene) emit(kind SceneEventKind, e *Element, layer int, ev Event) {
	if s.sink == nil {
		return
	}
	se := SceneEvent{Kind: kind, Scene: s.name, Layer: layer, Event: ev}
	if e != nil {
		se.Element = e.name
	}
	s.sink.EmitEvent(se)
}

// IsDestroyed reports whether Destroy has been called.
func (s *Scene) IsDestroyed() bool {
	return s.destroyed
}

// --- Elements ---

func (s *Scene) beforeAddElement(e *Element) bool {
	if s.destroyed || e.disposed {
		logger.Error("add element rejected: disposed", "scene", s.name, "element", e.name)
		return true
	}
	if owner, ok := e.Scene(); ok {
		logger.Error("add element rejected: already in a scene", "scene", s.name, "element", e.name, "owner", owner.name)
		return true
	}
	e.animations.SetParent(s)
	if e.collisionLayer >= 0 {
		s.layers[e.collisionLayer] = append(s.layers[e.collisionLayer], e)
	}
	return false
}

// beforeRemoveElement drops e from its collision layer before the container
// erases it, so the layer index never holds a detached element.
func (s *Scene) beforeRemoveElement(e *Element) bool {
	s.unlinkLayer(e)
	e.animations.ClearParent()
	s.emit(SceneElementRemoved, e, e.collisionLayer, Event{})
	return false
}

// AddElement appends e, registers its collision layer and runs its setup
// hook. If the hook fails e is removed again.
func (s *Scene) AddElement(e *Element) error {
	if err := s.elements.Add(e); err != nil {
		return err
	}
	if err := e.setup(); err != nil {
		if _, rmErr := s.elements.RemoveByName(e.name); rmErr != nil {
			logger.Error("roll back element", "scene", s.name, "element", e.name, "err", rmErr)
		}
		return err
	}
	s.emit(SceneElementAdded, e, e.collisionLayer, Event{})
	if g, ok := s.Game(); ok {
		g.debugCheckElementCount(s)
	}
	return nil
}

// AddElements adds each element in order, stopping at the first failure.
func (s *Scene) AddElements(elements ...*Element) error {
	for _, e := range elements {
		if err := s.AddElement(e); err != nil {
			return err
		}
	}
	return nil
}

// RemoveElement detaches the named element and returns it to the caller.
func (s *Scene) RemoveElement(name string) (*Element, error) {
	return s.elements.RemoveByName(name)
}

// RemoveElementAt detaches the element at index.
func (s *Scene) RemoveElementAt(index int) (*Element, error) {
	return s.elements.RemoveAt(index)
}

// RemoveAllElements detaches every element.
func (s *Scene) RemoveAllElements() []*Element {
	return s.elements.RemoveAll()
}

// Element returns the named element.
func (s *Scene) Element(name string) (*Element, error) {
	return s.elements.Get(name)
}

// ElementAt returns the element at index.
func (s *Scene) ElementAt(index int) (*Element, error) {
	return s.elements.At(index)
}

// ElementIndex returns the index of the named element.
func (s *Scene) ElementIndex(name string) (int, error) {
	return s.elements.Index(name)
}

// ElementNameAt returns the name of the element at index.
func (s *Scene) ElementNameAt(index int) (string, error) {
	return s.elements.NameAt(index)
}

// HasElement reports whether the named element exists.
func (s *Scene) HasElement(name string) bool {
	return s.elements.Has(name)
}

// Elements returns a snapshot of the elements in insertion order.
func (s *Scene) Elements() []*Element {
	return s.elements.All()
}

// ElementNames returns the element names in insertion order.
func (s *Scene) ElementNames() []string {
	return s.elements.Names()
}

// NumElements returns the element count.
func (s *Scene) NumElements() int {
	return s.elements.Len()
}

// ElementBehaviorAs returns the behavior of the named element as T.
func ElementBehaviorAs[T any](s *Scene, name string) (T, error) {
	e, err := s.Element(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return BehaviorAs[T](e)
}

// --- Dispatch ---

// OnRender calls every element's render callback in insertion order. The
// continuation flags are ignored: a failing element never hides the ones
// after it.
func (s *Scene) OnRender() {
	stats := s.stats()
	for _, e := range s.elements.All() {
		e.render(stats)
	}
}

// OnLoop calls each element's loop callback in insertion order and stops at
// the first one that returns false, which OnLoop then returns.
func (s *Scene) OnLoop() bool {
	stats := s.stats()
	for _, e := range s.elements.All() {
		if !e.loop(stats) {
			return false
		}
	}
	return true
}

// OnEvent routes ev to each element in insertion order and stops at the
// first handler that returns false, which OnEvent then returns.
func (s *Scene) OnEvent(ev Event) bool {
	s.emit(SceneEventDispatched, nil, NoCollisionLayer, ev)
	if stats := s.stats(); stats != nil {
		stats.events++
	}
	for _, e := range s.elements.All() {
		if !e.event(ev) {
			return false
		}
	}
	return true
}

func (s *Scene) stats() *frameStats {
	if g, ok := s.Game(); ok && g.debug {
		return &g.frame
	}
	return nil
}

func (s *Scene) runSetup() error {
	if s.setupDone || s.setup == nil {
		return nil
	}
	s.setupDone = true
	if err := s.setup.SetupEnvironment(s); err != nil {
		return fmt.Errorf("sprig: setup environment of scene %q: %w", s.name, err)
	}
	if err := s.setup.SetupElements(s); err != nil {
		return fmt.Errorf("sprig: setup elements of scene %q: %w", s.name, err)
	}
	return nil
}

// --- Collision layers ---

// AddToCollisionLayer records e in layer, moving it out of its previous
// layer first. Negative layers are ignored.
func (s *Scene) AddToCollisionLayer(e *Element, layer int) {
	if layer < 0 {
		return
	}
	if e.collisionLayer >= 0 && e.collisionLayer != layer {
		s.unlinkLayer(e)
	}
	e.collisionLayer = layer
	if slices.Contains(s.layers[layer], e) {
		return
	}
	s.layers[layer] = append(s.layers[layer], e)
	s.emit(SceneLayerChanged, e, layer, Event{})
}

// RemoveFromCollisionLayer drops e from the layer it records and reports
// the move to NoCollisionLayer to the event sink. A missing layer or element
// is logged and otherwise ignored. A layer left empty is deleted.
func (s *Scene) RemoveFromCollisionLayer(e *Element) {
	if s.unlinkLayer(e) {
		s.emit(SceneLayerChanged, e, NoCollisionLayer, Event{})
	}
}

// unlinkLayer removes e from the layer index without emitting.
func (s *Scene) unlinkLayer(e *Element) bool {
	layer := e.collisionLayer
	if layer < 0 {
		return false
	}
	members, ok := s.layers[layer]
	if !ok {
		logger.Warn("collision layer not found", "scene", s.name, "element", e.name, "layer", layer)
		return false
	}
	idx := slices.Index(members, e)
	if idx < 0 {
		logger.Warn("element not in collision layer", "scene", s.name, "element", e.name, "layer", layer)
		return false
	}
	members = slices.Delete(members, idx, idx+1)
	if len(members) == 0 {
		delete(s.layers, layer)
	} else {
		s.layers[layer] = members
	}
	return true
}

// CollisionLayer returns a snapshot of the elements in layer. Negative
// layers are always empty.
func (s *Scene) CollisionLayer(layer int) []*Element {
	if layer < 0 {
		return nil
	}
	return slices.Clone(s.layers[layer])
}

// HasCollisionLayer reports whether any element is recorded in layer.
func (s *Scene) HasCollisionLayer(layer int) bool {
	_, ok := s.layers[layer]
	return ok
}

// CollisionLayerIDs returns the populated layer ids in ascending order.
func (s *Scene) CollisionLayerIDs() []int {
	ids := make([]int, 0, len(s.layers))
	for id := range s.layers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Collisions returns the other elements in e's layer whose collision boxes
// intersect e's.
func (s *Scene) Collisions(e *Element) []*Element {
	if e.collisionLayer < 0 {
		return nil
	}
	box := e.CollisionBox()
	var hits []*Element
	for _, other := range s.layers[e.collisionLayer] {
		if other != e && box.Intersects(other.CollisionBox()) {
			hits = append(hits, other)
		}
	}
	return hits
}

// --- Teardown ---

// Destroy removes and disposes every element, releasing their textures and
// invalidating their scene references. The scene cannot be reused.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	for _, e := range s.elements.RemoveAll() {
		e.dispose()
	}
	clear(s.layers)
	s.elements.ClearParent()
	s.destroyed = true
}
