package sprig

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"hello", "hello"},
		{"my-screenshot", "my-screenshot"},
		{"file.png", "file.png"},
		{"has spaces", "has_spaces"},
		{"path/to/file", "path_to_file"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MiXeD_123", "MiXeD_123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.input); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	g, _ := newTestGame(t)
	g.Screenshot("first")
	g.Screenshot("second")
	if len(g.screenshotQueue) != 2 {
		t.Fatalf("expected 2 queued, got %d", len(g.screenshotQueue))
	}
	if g.screenshotQueue[0] != "first" || g.screenshotQueue[1] != "second" {
		t.Error("queue order mismatch")
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	g := NewGame(newFakeBackend(), RunConfig{})
	if g.Config().ScreenshotDir != "screenshots" {
		t.Errorf("expected default 'screenshots', got %q", g.Config().ScreenshotDir)
	}
}

func TestWriteScreenshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	paths, err := writeScreenshots(dir, []string{"title", "after click"}, img, now)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "20240305_140709_title.png"),
		filepath.Join(dir, "20240305_140709_after_click.png"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", decoded.Bounds())
	}
	if r, _, _, a := decoded.At(1, 1).RGBA(); r != 0xffff || a != 0xffff {
		t.Errorf("pixel = %v", decoded.At(1, 1))
	}
}

func TestWriteScreenshotsBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := writeScreenshots(filepath.Join(file, "sub"), []string{"x"}, image.NewNRGBA(image.Rect(0, 0, 1, 1)), time.Now()); err == nil {
		t.Error("expected error when the directory cannot be created")
	}
}

func TestUnpremultiply(t *testing.T) {
	src := []byte{
		0, 0, 0, 0, // transparent
		10, 20, 30, 255, // opaque
		64, 32, 0, 128, // half alpha
		200, 0, 0, 100, // overflow clamps
	}
	dst := make([]byte, len(src))
	unpremultiply(dst, src)
	want := []byte{
		0, 0, 0, 0,
		10, 20, 30, 255,
		127, 63, 0, 128,
		255, 0, 0, 100,
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}
