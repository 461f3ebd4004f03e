package sprig

import (
	"errors"
	"image"
	"testing"
)

// --- Image cache ---

func TestImageCacheSharesHandles(t *testing.T) {
	cache, b := newTestCache()

	t1, err := NewImageTexture(cache, "hero.png", Rect{W: 100, H: 100}, Rect{})
	if err != nil {
		t.Fatal(err)
	}
	t2, err := NewImageTexture(cache, "hero.png", Rect{W: 50, H: 50}, Rect{})
	if err != nil {
		t.Fatal(err)
	}
	if t1.Handle() != t2.Handle() {
		t.Error("same path should share one handle")
	}
	if cache.ImageCount() != 1 {
		t.Errorf("ImageCount = %d, want 1", cache.ImageCount())
	}
	if b.decodes != 1 || b.uploads != 1 {
		t.Errorf("decodes=%d uploads=%d, want 1 each", b.decodes, b.uploads)
	}
	if w, h := t1.NativeSize(); w != 64 || h != 32 {
		t.Errorf("NativeSize = %dx%d, want 64x32", w, h)
	}
	if t1.Key() != "hero.png" {
		t.Errorf("Key = %q", t1.Key())
	}

	if _, err := NewImageTexture(cache, "bg.png", Rect{W: 10}, Rect{}); err != nil {
		t.Fatal(err)
	}
	if cache.ImageCount() != 2 {
		t.Errorf("ImageCount = %d, want 2", cache.ImageCount())
	}
}

func TestImageAutoSize(t *testing.T) {
	cache, _ := newTestCache()
	tex, err := NewImageTexture(cache, "hero.png", Rect{W: 50}, Rect{})
	if err != nil {
		t.Fatal(err)
	}
	if got := tex.Size(); got != (Rect{W: 50, H: 25}) {
		t.Errorf("Size = %v, want {W:50 H:25}", got)
	}
}

// --- Load errors ---

func TestLoadImageErrors(t *testing.T) {
	quietLogs(t)

	t.Run("decode", func(t *testing.T) {
		cache, _ := newTestCache()
		tex := NewTexture(cache)
		err := tex.LoadImage("missing.png", FullRect, Rect{})
		var le *LoadError
		if !errors.As(err, &le) || le.Code() != -1 || le.Stage != StageDecode {
			t.Fatalf("err = %v, want decode LoadError", err)
		}
		if tex.Handle() != nil || cache.ImageCount() != 0 {
			t.Error("failed load must not mutate texture or cache")
		}
	})

	t.Run("upload", func(t *testing.T) {
		cache, b := newTestCache()
		tex, err := NewImageTexture(cache, "bg.png", FullRect, Rect{})
		if err != nil {
			t.Fatal(err)
		}
		b.failUpload = true
		err = tex.LoadImage("hero.png", Rect{W: 1, H: 1}, Rect{})
		if !IsLoadError(err, StageUpload) || !errors.Is(err, errFakeUpload) {
			t.Fatalf("err = %v, want upload LoadError", err)
		}
		if tex.Key() != "bg.png" || tex.Size() != FullRect {
			t.Error("failed reload must leave the previous content in place")
		}
		if cache.ImageCount() != 1 {
			t.Errorf("ImageCount = %d, want 1", cache.ImageCount())
		}
	})

	t.Run("font", func(t *testing.T) {
		cache, _ := newTestCache()
		tex := NewTexture(cache)
		err := tex.LoadText("nope", "hi", Rect{H: 10}, ColorWhite, TextSolid)
		var le *LoadError
		if !errors.As(err, &le) || le.Code() != -3 {
			t.Fatalf("err = %v, want font LoadError", err)
		}
		if !errors.Is(err, ErrFontNotFound) {
			t.Error("missing font should wrap ErrFontNotFound")
		}
		if cache.TextCount() != 0 || cache.FontCount() != 0 {
			t.Error("failed text load must not populate the cache")
		}
	})

	t.Run("zero point size", func(t *testing.T) {
		cache, _ := newTestCache()
		err := NewTexture(cache).LoadText("default", "hi", Rect{W: 10}, ColorWhite, TextSolid)
		if !IsLoadError(err, StageFont) || errors.Is(err, ErrFontNotFound) {
			t.Fatalf("err = %v, want font LoadError without ErrFontNotFound", err)
		}
	})

	t.Run("detached", func(t *testing.T) {
		err := NewTexture(nil).LoadImage("hero.png", FullRect, Rect{})
		if !errors.Is(err, ErrDetached) {
			t.Errorf("err = %v, want ErrDetached", err)
		}
	})
}

// --- Text cache ---

func TestTextCacheKeys(t *testing.T) {
	cache, b := newTestCache()
	red := Color{R: 255, A: 255}
	blue := Color{B: 255, A: 255}
	size := Rect{H: 10}

	r1, err := NewTextTexture(cache, "default", "Score", size, red, TextBlended)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := NewTextTexture(cache, "default", "Score", size, red, TextBlended)
	if err != nil {
		t.Fatal(err)
	}
	bl, err := NewTextTexture(cache, "default", "Score", size, blue, TextBlended)
	if err != nil {
		t.Fatal(err)
	}
	big, err := NewTextTexture(cache, "default", "Score", Rect{H: 20}, red, TextBlended)
	if err != nil {
		t.Fatal(err)
	}

	if r1.Handle() != r2.Handle() {
		t.Error("identical text keys should share a handle")
	}
	if r1.Handle() == bl.Handle() {
		t.Error("different colors should not share a handle")
	}
	if r1.Handle() == big.Handle() {
		t.Error("different sizes should not share a handle")
	}
	if cache.TextCount() != 3 {
		t.Errorf("TextCount = %d, want 3", cache.TextCount())
	}
	if b.rasterizes != 3 {
		t.Errorf("rasterizes = %d, want 3", b.rasterizes)
	}
	// 10% and 20% of a 480px window.
	if cache.FontCount() != 2 {
		t.Errorf("FontCount = %d, want 2", cache.FontCount())
	}
	if w, h := r1.NativeSize(); w != 5*48/2 || h != 48 {
		t.Errorf("NativeSize = %dx%d", w, h)
	}
	if got := r1.Size(); got.W != (10.0/48)*float64(5*48/2) {
		t.Errorf("auto width = %v", got.W)
	}
}

// --- Size mutation ---

func TestTextureSetSize(t *testing.T) {
	cache, _ := newTestCache()
	tex, err := NewImageTexture(cache, "hero.png", Rect{X: 1, Y: 2, W: 10, H: 20}, Rect{})
	if err != nil {
		t.Fatal(err)
	}
	tex.SetSize(30, 0)
	if got := tex.Size(); got != (Rect{X: 1, Y: 2, W: 30, H: 20}) {
		t.Errorf("SetSize(30, 0) = %v", got)
	}
	tex.SetSize(0, 40)
	if got := tex.Size(); got != (Rect{X: 1, Y: 2, W: 30, H: 40}) {
		t.Errorf("SetSize(0, 40) = %v", got)
	}
	tex.SetSizeRect(FullRect)
	if tex.Size() != FullRect {
		t.Errorf("SetSizeRect = %v", tex.Size())
	}
}

// --- Rendering ---

func TestTextureRender(t *testing.T) {
	cache, b := newTestCache()
	tex, err := NewImageTexture(cache, "hero.png", Rect{W: 100, H: 100}, Rect{})
	if err != nil {
		t.Fatal(err)
	}
	// Box covering the right half of a 640x480 window.
	if err := tex.Render(Rect{X: 50, Y: 0, W: 50, H: 100}, false); err != nil {
		t.Fatal(err)
	}
	got := b.renderer.blits[0]
	if got.src != image.Rect(0, 0, 64, 32) {
		t.Errorf("src = %v, want full image", got.src)
	}
	if got.dst != image.Rect(320, 0, 640, 480) {
		t.Errorf("dst = %v", got.dst)
	}
	if got.flip {
		t.Error("flip should be false")
	}
}

func TestTextureRenderClipAndFlip(t *testing.T) {
	cache, b := newTestCache()
	// Right half of the image.
	tex, err := NewImageTexture(cache, "hero.png", Rect{W: 100, H: 100}, Rect{X: 50, W: 50, H: 100})
	if err != nil {
		t.Fatal(err)
	}
	tex.SetFlip(true)
	if err := tex.Render(FullRect, false); err != nil {
		t.Fatal(err)
	}
	got := b.renderer.blits[0]
	if got.src != image.Rect(32, 0, 64, 32) {
		t.Errorf("src = %v, want right half", got.src)
	}
	if !got.flip {
		t.Error("texture flip should apply")
	}
}

func TestTextureRenderErrors(t *testing.T) {
	cache, b := newTestCache()
	if err := NewTexture(cache).Render(FullRect, false); !errors.Is(err, ErrNoHandle) {
		t.Errorf("empty texture render = %v, want ErrNoHandle", err)
	}
	tex, _ := NewImageTexture(cache, "hero.png", FullRect, Rect{})
	b.renderer.err = errors.New("gpu lost")
	var re *RenderError
	if err := tex.Render(FullRect, false); !errors.As(err, &re) || re.Key != "hero.png" {
		t.Errorf("render = %v, want RenderError for hero.png", err)
	}
}

// --- Lifetime ---

func TestCacheCleanupDefersReferencedHandles(t *testing.T) {
	quietLogs(t)
	cache, b := newTestCache()
	held, err := NewImageTexture(cache, "hero.png", FullRect, Rect{})
	if err != nil {
		t.Fatal(err)
	}
	dropped, err := NewImageTexture(cache, "bg.png", FullRect, Rect{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTextTexture(cache, "default", "hi", Rect{H: 10}, ColorWhite, TextSolid); err != nil {
		t.Fatal(err)
	}
	dropped.Release()

	cache.Cleanup()

	if cache.ImageCount() != 0 || cache.TextCount() != 0 || cache.FontCount() != 0 {
		t.Error("Cleanup should empty the cache")
	}
	heroHandle, bgHandle := b.handles[0], b.handles[1]
	if !bgHandle.disposed {
		t.Error("unreferenced handle should be disposed on cleanup")
	}
	if heroHandle.disposed {
		t.Error("referenced handle must survive cleanup")
	}
	if !b.opened[0].closed {
		t.Error("fonts should be closed on cleanup")
	}
	held.Release()
	if !heroHandle.disposed {
		t.Error("handle should be disposed when its last texture is released")
	}
}

func TestRebindSameKeyKeepsHandle(t *testing.T) {
	quietLogs(t)
	cache, b := newTestCache()
	tex, _ := NewImageTexture(cache, "hero.png", FullRect, Rect{})
	cache.Cleanup()
	// Reloading after cleanup creates a fresh entry.
	if err := tex.LoadImage("hero.png", FullRect, Rect{}); err != nil {
		t.Fatal(err)
	}
	if !b.handles[0].disposed {
		t.Error("old evicted handle should be disposed after rebind")
	}
	if tex.Handle() != Handle(b.handles[1]) {
		t.Error("texture should hold the new handle")
	}
}
