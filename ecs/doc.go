// Package ecs bridges sprig scene events into a [Donburi] world.
//
// [NewDonburiSink] returns a [sprig.EventSink] that publishes every
// [sprig.SceneEvent] to [SceneEventType] and mirrors each element that
// joins a scene as an entity carrying an [ElementRef] component, so ECS
// systems can query scene membership and collision layers.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
