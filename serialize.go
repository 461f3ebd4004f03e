package sprig

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// Type discriminators used when no custom type is registered.
const (
	SceneType     = "SCENE"
	ElementType   = "ELEMENT"
	AnimationType = "ANIMATION"
)

// SceneDocument is the serialized form of a Scene.
type SceneDocument struct {
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Elements []ElementDocument `json:"elements"`
	Data     json.RawMessage   `json:"data,omitempty"`
}

// ElementDocument is the serialized form of an Element.
type ElementDocument struct {
	Type             string              `json:"type"`
	Name             string              `json:"name"`
	RenderBox        Rect                `json:"renderBox"`
	CollisionBox     Rect                `json:"collisionBox"`
	CollisionLayer   int                 `json:"collisionLayer"`
	Flip             bool                `json:"flip,omitempty"`
	CurrentAnimation int                 `json:"currentAnimation"`
	Animations       []AnimationDocument `json:"animations"`
	Data             json.RawMessage     `json:"data,omitempty"`
}

// AnimationDocument is the serialized form of an Animation.
type AnimationDocument struct {
	Type             string            `json:"type"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	FramesPerTexture uint              `json:"framesPerTexture"`
	Textures         []TextureDocument `json:"textures"`
	Data             json.RawMessage   `json:"data,omitempty"`
}

// TextureDocument is the serialized form of a Texture. Size is the size
// originally requested, so auto dimensions are refilled on load and text
// keeps its cache key. Display is the size rect at marshal time, which
// SetSize may have changed since; documents without it keep the loaded size.
type TextureDocument struct {
	Kind    string      `json:"kind"` // "image" or "text"
	Path    string      `json:"path,omitempty"`
	Font    string      `json:"font,omitempty"`
	Text    string      `json:"text,omitempty"`
	Color   Color       `json:"color"`
	Quality TextQuality `json:"quality,omitempty"`
	Size    Rect        `json:"size"`
	Display *Rect       `json:"display,omitempty"`
	Clip    Rect        `json:"clip"`
	Flip    bool        `json:"flip,omitempty"`
}

const (
	textureKindImage = "image"
	textureKindText  = "text"
)

// registryEntry maps a type name to a factory for its zero value.
type registryEntry[T any] struct {
	byName map[string]func() T
	byType map[reflect.Type]string
}

func newRegistryEntry[T any]() registryEntry[T] {
	return registryEntry[T]{
		byName: make(map[string]func() T),
		byType: make(map[reflect.Type]string),
	}
}

func (r registryEntry[T]) register(kind, name string, reserved string, factory func() T) error {
	if name == "" || name == reserved {
		return fmt.Errorf("sprig: register %s type %q: reserved name", kind, name)
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("sprig: register %s type %q: %w", kind, name, ErrDuplicateName)
	}
	typ := reflect.TypeOf(factory())
	if typ == nil {
		return fmt.Errorf("sprig: register %s type %q: factory returned nil", kind, name)
	}
	if prev, ok := r.byType[typ]; ok {
		return fmt.Errorf("sprig: register %s type %q: %v already registered as %q: %w", kind, name, typ, prev, ErrDuplicateName)
	}
	r.byName[name] = factory
	r.byType[typ] = name
	return nil
}

func (r registryEntry[T]) nameOf(v any) (string, bool) {
	name, ok := r.byType[reflect.TypeOf(v)]
	return name, ok
}

// Registry maps the "type" discriminator of documents to the behavior types
// that recreate them. Unregistered behaviors cannot be serialized.
type Registry struct {
	scenes     registryEntry[SceneSetup]
	elements   registryEntry[Behavior]
	animations registryEntry[any]
}

// NewRegistry creates an empty registry. DefaultBehavior elements, plain
// scenes and animations without behavior need no registration.
func NewRegistry() *Registry {
	return &Registry{
		scenes:     newRegistryEntry[SceneSetup](),
		elements:   newRegistryEntry[Behavior](),
		animations: newRegistryEntry[any](),
	}
}

// RegisterSceneType registers a scene setup type under name.
func (r *Registry) RegisterSceneType(name string, factory func() SceneSetup) error {
	return r.scenes.register("scene", name, SceneType, factory)
}

// RegisterElementType registers an element behavior type under name.
func (r *Registry) RegisterElementType(name string, factory func() Behavior) error {
	return r.elements.register("element", name, ElementType, factory)
}

// RegisterAnimationType registers an animation behavior type under name.
func (r *Registry) RegisterAnimationType(name string, factory func() any) error {
	return r.animations.register("animation", name, AnimationType, factory)
}

// --- Marshal ---

// MarshalDocument converts s into a document. Behaviors implementing
// json.Marshaler store their state under "data". reg may be nil when only
// default types are used.
func (s *Scene) MarshalDocument(reg *Registry) (SceneDocument, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	doc := SceneDocument{Type: SceneType, Name: s.name, Elements: []ElementDocument{}}
	if s.setup != nil {
		name, ok := reg.scenes.nameOf(s.setup)
		if !ok {
			return SceneDocument{}, fmt.Errorf("sprig: marshal scene %q: setup %T not registered: %w", s.name, s.setup, ErrNotFound)
		}
		doc.Type = name
		data, err := marshalData(s.setup)
		if err != nil {
			return SceneDocument{}, fmt.Errorf("sprig: marshal scene %q: %w", s.name, err)
		}
		doc.Data = data
	}
	for _, e := range s.elements.All() {
		ed, err := e.marshalDocument(reg)
		if err != nil {
			return SceneDocument{}, fmt.Errorf("sprig: marshal scene %q: %w", s.name, err)
		}
		doc.Elements = append(doc.Elements, ed)
	}
	return doc, nil
}

// MarshalScene encodes s as JSON via MarshalDocument.
func MarshalScene(s *Scene, reg *Registry) ([]byte, error) {
	doc, err := s.MarshalDocument(reg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (e *Element) marshalDocument(reg *Registry) (ElementDocument, error) {
	doc := ElementDocument{
		Type:             ElementType,
		Name:             e.name,
		RenderBox:        e.renderBox,
		CollisionBox:     e.collisionBox,
		CollisionLayer:   e.collisionLayer,
		Flip:             e.flip,
		CurrentAnimation: e.current,
		Animations:       []AnimationDocument{},
	}
	if _, ok := e.behavior.(DefaultBehavior); !ok {
		name, ok := reg.elements.nameOf(e.behavior)
		if !ok {
			return ElementDocument{}, fmt.Errorf("element %q: behavior %T not registered: %w", e.name, e.behavior, ErrNotFound)
		}
		doc.Type = name
	}
	data, err := marshalData(e.behavior)
	if err != nil {
		return ElementDocument{}, fmt.Errorf("element %q: %w", e.name, err)
	}
	doc.Data = data
	for _, a := range e.animations.All() {
		ad, err := a.marshalDocument(reg)
		if err != nil {
			return ElementDocument{}, fmt.Errorf("element %q: %w", e.name, err)
		}
		doc.Animations = append(doc.Animations, ad)
	}
	return doc, nil
}

func (a *Animation) marshalDocument(reg *Registry) (AnimationDocument, error) {
	doc := AnimationDocument{
		Type:             AnimationType,
		Name:             a.name,
		Description:      a.description,
		FramesPerTexture: a.framesPerTexture,
		Textures:         make([]TextureDocument, 0, len(a.textures)),
	}
	if a.behavior != nil {
		name, ok := reg.animations.nameOf(a.behavior)
		if !ok {
			return AnimationDocument{}, fmt.Errorf("animation %q: behavior %T not registered: %w", a.name, a.behavior, ErrNotFound)
		}
		doc.Type = name
		data, err := marshalData(a.behavior)
		if err != nil {
			return AnimationDocument{}, fmt.Errorf("animation %q: %w", a.name, err)
		}
		doc.Data = data
	}
	for i, t := range a.textures {
		td, err := t.document()
		if err != nil {
			return AnimationDocument{}, fmt.Errorf("animation %q: texture %d: %w", a.name, i, err)
		}
		doc.Textures = append(doc.Textures, td)
	}
	return doc, nil
}

func (t *Texture) document() (TextureDocument, error) {
	display := t.size
	doc := TextureDocument{Size: t.src.size, Display: &display, Clip: t.clip, Flip: t.flip}
	switch t.src.kind {
	case textureImage:
		doc.Kind = textureKindImage
		doc.Path = t.src.path
	case textureText:
		doc.Kind = textureKindText
		doc.Font = t.src.font
		doc.Text = t.src.text
		doc.Color = t.src.color
		doc.Quality = t.src.quality
	default:
		return TextureDocument{}, ErrNoHandle
	}
	return doc, nil
}

func marshalData(v any) (json.RawMessage, error) {
	m, ok := v.(json.Marshaler)
	if !ok {
		return nil, nil
	}
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal behavior %T: %w", v, err)
	}
	return data, nil
}

func unmarshalData(v any, data json.RawMessage) error {
	if len(data) == 0 {
		return nil
	}
	u, ok := v.(json.Unmarshaler)
	if !ok {
		return nil
	}
	if err := u.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("unmarshal behavior %T: %w", v, err)
	}
	return nil
}

// --- Unmarshal ---

// UnmarshalScene decodes a scene document and rebuilds the scene, loading
// every texture through cache. Environment hooks run after the structure is
// rebuilt; SetupTextures and SetupElements do not, since the document
// already holds what they would create. The returned scene is detached.
func UnmarshalScene(data []byte, cache *TextureCache, reg *Registry) (*Scene, error) {
	var doc SceneDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sprig: unmarshal scene: %w", err)
	}
	return NewSceneFromDocument(doc, cache, reg)
}

// NewSceneFromDocument rebuilds a scene from doc. See UnmarshalScene.
func NewSceneFromDocument(doc SceneDocument, cache *TextureCache, reg *Registry) (*Scene, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	if doc.Name == "" {
		logger.Warn("scene document has no name")
	}
	var setup SceneSetup
	if doc.Type != "" && doc.Type != SceneType {
		factory, ok := reg.scenes.byName[doc.Type]
		if !ok {
			return nil, fmt.Errorf("sprig: unmarshal scene %q: type %q: %w", doc.Name, doc.Type, ErrNotFound)
		}
		setup = factory()
		if err := unmarshalData(setup, doc.Data); err != nil {
			return nil, fmt.Errorf("sprig: unmarshal scene %q: %w", doc.Name, err)
		}
	}
	s := NewSceneWithSetup(doc.Name, setup)
	s.setupDone = true

	for _, ed := range doc.Elements {
		e, err := newElementFromDocument(ed, cache, reg)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("sprig: unmarshal scene %q: %w", doc.Name, err)
		}
		if err := s.AddElement(e); err != nil {
			e.dispose()
			s.Destroy()
			return nil, fmt.Errorf("sprig: unmarshal scene %q: %w", doc.Name, err)
		}
	}
	if setup != nil {
		if err := setup.SetupEnvironment(s); err != nil {
			s.Destroy()
			return nil, fmt.Errorf("sprig: setup environment of scene %q: %w", s.name, err)
		}
	}
	return s, nil
}

func newElementFromDocument(doc ElementDocument, cache *TextureCache, reg *Registry) (*Element, error) {
	var behavior Behavior = DefaultBehavior{}
	if doc.Type != "" && doc.Type != ElementType {
		factory, ok := reg.elements.byName[doc.Type]
		if !ok {
			return nil, fmt.Errorf("element %q: type %q: %w", doc.Name, doc.Type, ErrNotFound)
		}
		behavior = factory()
	}
	if err := unmarshalData(behavior, doc.Data); err != nil {
		return nil, fmt.Errorf("element %q: %w", doc.Name, err)
	}

	e := NewElement(doc.Name, behavior)
	e.renderBox = doc.RenderBox
	e.collisionBox = doc.CollisionBox
	e.collisionLayer = max(doc.CollisionLayer, NoCollisionLayer)
	e.flip = doc.Flip

	for _, ad := range doc.Animations {
		a, err := newAnimationFromDocument(ad, cache, reg)
		if err == nil {
			err = e.AddAnimation(a)
			if err != nil {
				a.Release()
			}
		}
		if err != nil {
			e.dispose()
			return nil, fmt.Errorf("element %q: %w", doc.Name, err)
		}
	}
	if doc.CurrentAnimation >= 0 && doc.CurrentAnimation < e.NumAnimations() {
		e.current = doc.CurrentAnimation
	}
	return e, nil
}

func newAnimationFromDocument(doc AnimationDocument, cache *TextureCache, reg *Registry) (*Animation, error) {
	var behavior any
	if doc.Type != "" && doc.Type != AnimationType {
		factory, ok := reg.animations.byName[doc.Type]
		if !ok {
			return nil, fmt.Errorf("animation %q: type %q: %w", doc.Name, doc.Type, ErrNotFound)
		}
		behavior = factory()
		if err := unmarshalData(behavior, doc.Data); err != nil {
			return nil, fmt.Errorf("animation %q: %w", doc.Name, err)
		}
	}

	a := newAnimation(cache, doc.Name, doc.Description, doc.FramesPerTexture, behavior)
	var errs []error
	for i, td := range doc.Textures {
		t, err := newTextureFromDocument(td, cache)
		if err != nil {
			errs = append(errs, fmt.Errorf("texture %d: %w", i, err))
			continue
		}
		a.AddTexture(t)
	}
	if err := errors.Join(errs...); err != nil {
		a.Release()
		return nil, fmt.Errorf("animation %q: %w", doc.Name, err)
	}
	if err := a.setupEnvironment(); err != nil {
		a.Release()
		return nil, err
	}
	return a, nil
}

func newTextureFromDocument(doc TextureDocument, cache *TextureCache) (*Texture, error) {
	var (
		t   *Texture
		err error
	)
	switch doc.Kind {
	case textureKindImage:
		t, err = NewImageTexture(cache, doc.Path, doc.Size, doc.Clip)
	case textureKindText:
		t, err = NewTextTexture(cache, doc.Font, doc.Text, doc.Size, doc.Color, doc.Quality)
	default:
		return nil, fmt.Errorf("unknown texture kind %q", doc.Kind)
	}
	if err != nil {
		return nil, err
	}
	if doc.Display != nil {
		t.SetSizeRect(*doc.Display)
	}
	t.flip = doc.Flip
	return t, nil
}
