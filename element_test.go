package sprig

import (
	"errors"
	"slices"
	"testing"
)

// --- Animations ---

func TestElementFirstAnimationIsCurrent(t *testing.T) {
	cache, _ := newTestCache()
	e := NewElement("hero", nil)
	if _, err := e.CurrentAnimation(); !errors.Is(err, ErrNoAnimations) {
		t.Errorf("CurrentAnimation on empty = %v, want ErrNoAnimations", err)
	}
	if e.CurrentAnimationIndex() != -1 {
		t.Errorf("CurrentAnimationIndex = %d, want -1", e.CurrentAnimationIndex())
	}
	if err := e.AddAnimations(newFrames(t, cache, "idle", 1, 1), newFrames(t, cache, "walk", 2, 1)); err != nil {
		t.Fatal(err)
	}
	cur, err := e.CurrentAnimation()
	if err != nil || cur.Name() != "idle" {
		t.Errorf("CurrentAnimation = %v, %v", cur, err)
	}
	if got := e.AnimationNames(); !slices.Equal(got, []string{"idle", "walk"}) {
		t.Errorf("AnimationNames = %v", got)
	}
}

func TestElementSetCurrentAnimationResets(t *testing.T) {
	quietLogs(t)
	cache, _ := newTestCache()
	e := NewElement("hero", nil)
	walk := newFrames(t, cache, "walk", 3, 1)
	e.AddAnimations(newFrames(t, cache, "idle", 1, 1), walk)

	walk.IncFrameCount()
	if err := e.SetCurrentAnimation("walk"); err != nil {
		t.Fatal(err)
	}
	if walk.Index() != 0 {
		t.Error("switching should rewind the new animation")
	}
	if e.CurrentAnimationIndex() != 1 {
		t.Errorf("CurrentAnimationIndex = %d, want 1", e.CurrentAnimationIndex())
	}
	if err := e.SetCurrentAnimation("run"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown animation = %v, want ErrNotFound", err)
	}
	if err := e.SetCurrentAnimationAt(5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("bad index = %v, want ErrOutOfRange", err)
	}
}

func TestElementRemoveAnimationAdjustsCurrent(t *testing.T) {
	cache, _ := newTestCache()
	e := NewElement("hero", nil)
	a, b, c := newFrames(t, cache, "a", 1, 1), newFrames(t, cache, "b", 1, 1), newFrames(t, cache, "c", 1, 1)
	e.AddAnimations(a, b, c)
	e.SetCurrentAnimation("c")

	if _, err := e.RemoveAnimation("a"); err != nil {
		t.Fatal(err)
	}
	if cur, _ := e.CurrentAnimation(); cur != c {
		t.Error("removing an earlier animation should keep c current")
	}
	if _, err := e.RemoveAnimation("c"); err != nil {
		t.Fatal(err)
	}
	if cur, _ := e.CurrentAnimation(); cur != b {
		t.Error("removing the current animation should fall back to the first")
	}
	e.RemoveAllAnimations()
	if e.CurrentAnimationIndex() != -1 || e.NumAnimations() != 0 {
		t.Error("removing everything should leave no current animation")
	}
}

func TestElementDuplicateAnimation(t *testing.T) {
	quietLogs(t)
	cache, _ := newTestCache()
	e := NewElement("hero", nil)
	e.AddAnimation(newFrames(t, cache, "idle", 1, 1))
	if err := e.AddAnimation(newFrames(t, cache, "idle", 1, 1)); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate = %v, want ErrDuplicateName", err)
	}
}

// --- Default behavior ---

func TestDefaultBehaviorRendersAndAdvances(t *testing.T) {
	g, b := newTestGame(t)
	s := NewScene("main")
	g.AddScene(s)

	e := NewElement("hero", nil)
	e.SetRenderBox(Rect{X: 0, Y: 0, W: 50, H: 50})
	e.AddAnimation(newFrames(t, g.Cache(), "walk", 2, 1))
	s.AddElement(e)

	s.OnRender()
	if len(b.renderer.blits) != 1 {
		t.Fatalf("blits = %d, want 1", len(b.renderer.blits))
	}
	if got := b.renderer.blits[0].dst; got.Dx() != 320 || got.Dy() != 240 {
		t.Errorf("dst = %v, want 320x240", got)
	}
	s.OnLoop()
	cur, _ := e.CurrentAnimation()
	if cur.Index() != 1 {
		t.Errorf("loop should advance the current animation, index = %d", cur.Index())
	}
}

func TestRenderCurrentWithoutAnimations(t *testing.T) {
	e := NewElement("empty", nil)
	if !e.RenderCurrent() {
		t.Error("nothing to draw should still succeed")
	}
	e.AdvanceCurrent() // must not panic
}

func TestElementFlipPassedToRenderer(t *testing.T) {
	g, b := newTestGame(t)
	s := NewScene("main")
	g.AddScene(s)
	e := NewElement("hero", nil)
	e.AddAnimation(newFrames(t, g.Cache(), "walk", 1, 1))
	e.SetFlip(true)
	s.AddElement(e)
	s.OnRender()
	if !b.renderer.blits[0].flip {
		t.Error("element flip should reach the renderer")
	}
}

// --- Geometry ---

func TestElementBoxesResolveAgainstScene(t *testing.T) {
	g, _ := newTestGame(t)
	s := NewScene("main")
	g.AddScene(s)
	e := NewElement("hero", nil)
	e.SetRenderBox(Rect{X: 10, Y: 10, W: 50, H: 50})
	e.SetCollisionBox(Rect{X: 25, Y: 50, W: 25, H: 25})

	if e.RenderBox() != e.RelativeRenderBox() {
		t.Error("detached element should return its relative box")
	}
	s.AddElement(e)
	if got := e.RenderBox(); got != (Rect{X: 64, Y: 48, W: 320, H: 240}) {
		t.Errorf("RenderBox = %v", got)
	}
	if got := e.CollisionBox(); got != (Rect{X: 160, Y: 240, W: 160, H: 120}) {
		t.Errorf("CollisionBox = %v", got)
	}
}

// --- Setup & casts ---

type setupBehavior struct {
	DefaultBehavior
	calls int
	fail  bool
	scene *Scene
}

func (b *setupBehavior) SetupEnvironment(e *Element) error {
	b.calls++
	if b.fail {
		return errors.New("no environment")
	}
	b.scene, _ = e.Scene()
	return nil
}

func TestElementSetupRunsOnAdd(t *testing.T) {
	s := NewScene("main")
	beh := &setupBehavior{}
	e := NewElement("hero", beh)
	if err := s.AddElement(e); err != nil {
		t.Fatal(err)
	}
	if beh.calls != 1 || beh.scene != s {
		t.Errorf("setup calls=%d scene=%v", beh.calls, beh.scene)
	}
}

func TestElementSetupFailureRollsBack(t *testing.T) {
	s := NewScene("main")
	e := NewElement("hero", &setupBehavior{fail: true})
	e.SetCollisionLayer(2)
	if err := s.AddElement(e); err == nil {
		t.Fatal("expected setup error")
	}
	if s.HasElement("hero") || s.HasCollisionLayer(2) {
		t.Error("failed setup should leave the scene untouched")
	}
	if _, ok := e.Scene(); ok {
		t.Error("rolled back element should be detached")
	}
}

func TestBehaviorAs(t *testing.T) {
	beh := &setupBehavior{}
	e := NewElement("hero", beh)
	got, err := BehaviorAs[*setupBehavior](e)
	if err != nil || got != beh {
		t.Errorf("BehaviorAs = %v, %v", got, err)
	}
	if _, err := BehaviorAs[*recorder](e); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("mismatch = %v, want ErrTypeMismatch", err)
	}
	if _, err := BehaviorAs[DefaultBehavior](NewElement("plain", nil)); err != nil {
		t.Errorf("nil behavior should be DefaultBehavior: %v", err)
	}
}
