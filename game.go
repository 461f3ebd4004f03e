package sprig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds window and debug options for a Game.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	Debug         bool
	ScreenshotDir string
}

const (
	defaultWidth         = 640
	defaultHeight        = 480
	defaultScreenshotDir = "screenshots"
)

func (c RunConfig) withDefaults() RunConfig {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = defaultScreenshotDir
	}
	return c
}

// KeyValue is a read-only settings source, such as settings.INI.
type KeyValue interface {
	String(section, key string) (string, bool)
}

// ApplySettings overlays values from kv onto c:
//
//	[window] title, width, height
//	[debug]  fps, enabled
//
// Malformed numbers and booleans are logged and skipped.
func (c RunConfig) ApplySettings(kv KeyValue) RunConfig {
	if v, ok := kv.String("window", "title"); ok {
		c.Title = v
	}
	setInt := func(dst *int, section, key string) {
		v, ok := kv.String(section, key)
		if !ok {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Warn("invalid setting", "section", section, "key", key, "value", v, "err", err)
			return
		}
		*dst = n
	}
	setBool := func(dst *bool, section, key string) {
		v, ok := kv.String(section, key)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid setting", "section", section, "key", key, "value", v, "err", err)
			return
		}
		*dst = b
	}
	setInt(&c.Width, "window", "width")
	setInt(&c.Height, "window", "height")
	setBool(&c.ShowFPS, "debug", "fps")
	setBool(&c.Debug, "debug", "enabled")
	return c
}

// Game is the application root. It owns the scenes, the texture cache and
// the backend, and implements ebiten.Game by driving the current scene.
type Game struct {
	config  RunConfig
	backend Backend
	cache   *TextureCache

	scenes  *Container[*Scene, any]
	current int

	input           InputSource
	inputBuf        []Event
	injectQueue     []Event
	screenshotQueue []string
	testRunner      *TestRunner

	debug    bool
	frame    frameStats
	quit     bool
	shutdown bool
}

// NewGame creates a game that loads and renders through backend.
func NewGame(backend Backend, cfg RunConfig) *Game {
	cfg = cfg.withDefaults()
	g := &Game{
		config:  cfg,
		backend: backend,
		cache:   NewTextureCache(backend, backend),
		current: -1,
		debug:   cfg.Debug,
	}
	g.scenes = NewContainer[*Scene, any]("scene", true, ChildHooks[*Scene]{
		BeforeAdd:    g.beforeAddScene,
		BeforeRemove: g.beforeRemoveScene,
	})
	return g
}

// Config returns the run configuration.
func (g *Game) Config() RunConfig {
	return g.config
}

// Cache returns the texture cache every scene loads through.
func (g *Game) Cache() *TextureCache {
	return g.cache
}

// Backend returns the loader and runtime.
func (g *Game) Backend() Backend {
	return g.backend
}

// WindowSize returns the window rect in pixels.
func (g *Game) WindowSize() Rect {
	if g.backend != nil {
		return g.backend.WindowSize()
	}
	return Rect{W: float64(g.config.Width), H: float64(g.config.Height)}
}

// SetDebugMode enables or disables per-frame timing logs.
func (g *Game) SetDebugMode(enabled bool) {
	g.debug = enabled
}

// --- Scenes ---

func (g *Game) beforeAddScene(s *Scene) bool {
	if s.destroyed {
		logger.Error("add scene rejected: destroyed", "scene", s.name)
		return true
	}
	if _, ok := s.Game(); ok {
		logger.Error("add scene rejected: already in a game", "scene", s.name)
		return true
	}
	if g.scenes.Len() == 0 {
		g.current = 0
	}
	s.elements.SetParent(g)
	return false
}

func (g *Game) beforeRemoveScene(s *Scene) bool {
	idx := g.scenes.indexOfChild(s)
	switch {
	case g.scenes.Len() == 1:
		g.current = -1
	case idx < g.current:
		g.current--
	case idx == g.current:
		g.current = 0
	}
	s.elements.ClearParent()
	return false
}

// AddScene appends s and runs its setup hooks. The first scene added becomes
// current.
func (g *Game) AddScene(s *Scene) error {
	if err := g.scenes.Add(s); err != nil {
		return err
	}
	if err := s.runSetup(); err != nil {
		if _, rmErr := g.scenes.RemoveByName(s.name); rmErr != nil {
			logger.Error("roll back scene", "scene", s.name, "err", rmErr)
		}
		return err
	}
	return nil
}

// RemoveScene detaches the named scene and returns it to the caller.
func (g *Game) RemoveScene(name string) (*Scene, error) {
	return g.scenes.RemoveByName(name)
}

// Scene returns the named scene.
func (g *Game) Scene(name string) (*Scene, error) {
	return g.scenes.Get(name)
}

// SceneAt returns the scene at index.
func (g *Game) SceneAt(index int) (*Scene, error) {
	return g.scenes.At(index)
}

// HasScene reports whether the named scene exists.
func (g *Game) HasScene(name string) bool {
	return g.scenes.Has(name)
}

// SceneIndex returns the index of the named scene.
func (g *Game) SceneIndex(name string) (int, error) {
	return g.scenes.Index(name)
}

// Scenes returns a snapshot of the scenes.
func (g *Game) Scenes() []*Scene {
	return g.scenes.All()
}

// SceneNames returns the scene names in order.
func (g *Game) SceneNames() []string {
	return g.scenes.Names()
}

// NumScenes returns the scene count.
func (g *Game) NumScenes() int {
	return g.scenes.Len()
}

// CurrentScene returns the scene being run.
func (g *Game) CurrentScene() (*Scene, error) {
	if g.current < 0 {
		return nil, fmt.Errorf("sprig: no current scene: %w", ErrNotFound)
	}
	return g.scenes.At(g.current)
}

// SetCurrentScene switches to the named scene.
func (g *Game) SetCurrentScene(name string) error {
	idx, err := g.scenes.Index(name)
	if err != nil {
		return err
	}
	g.current = idx
	return nil
}

// --- ebiten.Game ---

// Update runs the test runner, routes one injected event (or, when none is
// queued, the polled device input) to the current scene and calls its loop
// callbacks. It returns ebiten.Termination once Quit has been
// called or a quit event was not handled.
func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	var t0 time.Time
	if g.debug {
		g.frame = frameStats{}
		t0 = time.Now()
	}
	if g.testRunner != nil {
		g.testRunner.step(g)
	}
	s, err := g.CurrentScene()
	if err != nil {
		g.injectQueue = g.injectQueue[:0]
		return nil
	}
	if !g.processInjectedEvents(s) {
		g.processInput(s)
	}
	if !g.quit {
		s.OnLoop()
	}
	if g.debug {
		g.frame.loopTime = time.Since(t0)
	}
	if g.quit {
		return ebiten.Termination
	}
	return nil
}

// Draw binds screen as the render target and renders the current scene.
func (g *Game) Draw(screen *ebiten.Image) {
	if t, ok := g.backend.(interface{ SetTarget(*ebiten.Image) }); ok {
		t.SetTarget(screen)
	}
	g.render()
	if g.config.ShowFPS {
		drawFPSOverlay(screen)
	}
	g.flushScreenshots(screen)
}

func (g *Game) render() {
	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}
	s, err := g.CurrentScene()
	if err != nil {
		return
	}
	s.OnRender()
	if g.debug {
		g.frame.renderTime = time.Since(t0)
		g.debugLog(g.frame)
	}
}

// Layout reports the configured window size as the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.Width, g.config.Height
}

// Quit makes the next Update return ebiten.Termination.
func (g *Game) Quit() {
	g.quit = true
}

// Shutdown destroys every scene and then clears the texture cache. It is
// safe to call more than once.
func (g *Game) Shutdown() {
	if g.shutdown {
		return
	}
	g.shutdown = true
	for _, s := range g.scenes.RemoveAll() {
		s.Destroy()
	}
	g.cache.Cleanup()
}

// Run opens a window for g and blocks until the game ends, then shuts it
// down.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.config.Width, g.config.Height)
	ebiten.SetWindowTitle(g.config.Title)
	defer g.Shutdown()
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("sprig: run game: %w", err)
	}
	return nil
}
