// Package sprig is a small scene/element/animation engine for 2D games on
// [Ebitengine].
//
// A [Game] owns scenes. A [Scene] owns elements, routes render, loop and
// event callbacks to them in insertion order, and indexes them by collision
// layer. An [Element] owns animations, and an [Animation] is an ordered
// list of [Texture] frames. Textures share uploaded images through a
// [TextureCache] keyed by path, or by text, size and color for rendered
// text.
//
// # Relative rects
//
// Every geometry value is a [Rect] whose fields are percentages of a
// reference rect: an element's boxes are relative to the scene bounds (the
// window), and a texture's size is relative to the box it is drawn into.
// A zero width or height in a texture size is filled from the image's
// native aspect ratio.
//
// # Quick start
//
//	backend := sprig.NewEbitenBackend(640, 480)
//	game := sprig.NewGame(backend, sprig.RunConfig{Title: "Demo", Width: 640, Height: 480})
//
//	scene := sprig.NewScene("main")
//	game.AddScene(scene)
//
//	anim, _ := sprig.NewAnimation(game.Cache(), "idle", "", 10, nil)
//	anim.AddImage("hero.png", sprig.Rect{W: 100}, sprig.Rect{})
//
//	hero := sprig.NewElement("hero", nil)
//	hero.SetRenderBox(sprig.Rect{X: 45, Y: 40, W: 10, H: 20})
//	hero.AddAnimation(anim)
//	scene.AddElement(hero)
//
//	log.Fatal(sprig.Run(game))
//
// Sprite sheets exported as TexturePacker JSON load with [LoadAtlas];
// [Animation.AddAtlasFrames] turns numbered regions into frames.
//
// Behaviors customize elements: implement [Behavior], or embed
// [DefaultBehavior] and override only the callbacks you need.
//
// # Lookups and errors
//
// Name and index lookups never panic. Misses return errors wrapping
// [ErrNotFound] or [ErrOutOfRange] and are logged at error level through
// the package logger (see [SetLogger]). Asset failures return a
// [*LoadError] whose [LoadError.Code] identifies the failing stage.
//
// # Scripted runs
//
// [Game.InjectEvent] queues events consumed one per frame. [LoadTestScript]
// parses a JSON script of event, click, drag, wait, screenshot and scene
// steps; attach it with [Game.SetTestRunner]. Device input reaches a game
// only through an [InputSource] set with [Game.SetInput].
//
// [Ebitengine]: https://ebitengine.org
package sprig
