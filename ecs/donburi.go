package ecs

import (
	"github.com/phanxgames/sprig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// SceneEventType is the Donburi event type for sprig scene events.
// Subscribe to this in your ECS systems to receive element lifecycle,
// layer and input events.
var SceneEventType = events.NewEventType[sprig.SceneEvent]()

// ElementRef identifies the sprig element an entity mirrors.
type ElementRef struct {
	Scene   string
	Element string
	Layer   int
}

// ElementComponent holds the ElementRef of mirrored entities.
var ElementComponent = donburi.NewComponentType[ElementRef]()

type elementKey struct {
	scene, element string
}

// DonburiSink publishes scene events into a world and keeps one entity per
// attached element.
type DonburiSink struct {
	world    donburi.World
	entities map[elementKey]donburi.Entity
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to SceneEventType and can be consumed with Subscribe and
// ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{
		world:    world,
		entities: make(map[elementKey]donburi.Entity),
	}
}

var _ sprig.EventSink = (*DonburiSink)(nil)

// EmitEvent mirrors the event into the world and publishes it.
func (s *DonburiSink) EmitEvent(event sprig.SceneEvent) {
	key := elementKey{scene: event.Scene, element: event.Element}
	switch event.Kind {
	case sprig.SceneElementAdded:
		s.remove(key)
		entity := s.world.Create(ElementComponent)
		ElementComponent.Set(s.world.Entry(entity), &ElementRef{
			Scene:   event.Scene,
			Element: event.Element,
			Layer:   event.Layer,
		})
		s.entities[key] = entity
	case sprig.SceneElementRemoved:
		s.remove(key)
	case sprig.SceneLayerChanged:
		if entity, ok := s.entities[key]; ok && s.world.Valid(entity) {
			ElementComponent.Get(s.world.Entry(entity)).Layer = event.Layer
		}
	}
	SceneEventType.Publish(s.world, event)
}

func (s *DonburiSink) remove(key elementKey) {
	entity, ok := s.entities[key]
	if !ok {
		return
	}
	if s.world.Valid(entity) {
		s.world.Remove(entity)
	}
	delete(s.entities, key)
}

// Entity returns the entity mirroring the named element.
func (s *DonburiSink) Entity(scene, element string) (donburi.Entity, bool) {
	entity, ok := s.entities[elementKey{scene: scene, element: element}]
	return entity, ok
}

// ElementsInLayer returns the refs of every mirrored element in layer.
func ElementsInLayer(world donburi.World, layer int) []ElementRef {
	var refs []ElementRef
	donburi.NewQuery(filter.Contains(ElementComponent)).Each(world, func(entry *donburi.Entry) {
		if ref := ElementComponent.Get(entry); ref.Layer == layer {
			refs = append(refs, *ref)
		}
	})
	return refs
}
