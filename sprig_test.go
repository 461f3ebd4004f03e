package sprig

import (
	"image"
	"testing"
)

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Rect.Intersects ---

func TestRectIntersects(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlap", Rect{5, 5, 10, 10}, true},
		{"contained", Rect{2, 2, 2, 2}, true},
		{"shared edge", Rect{10, 0, 5, 5}, true},
		{"apart", Rect{11, 0, 5, 5}, false},
		{"below", Rect{0, 20, 5, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.expect {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.expect)
			}
		})
	}
}

// --- Rect ordering & pixels ---

func TestRectLess(t *testing.T) {
	tests := []struct {
		a, b Rect
		want bool
	}{
		{Rect{1, 0, 0, 0}, Rect{2, 0, 0, 0}, true},
		{Rect{2, 0, 0, 0}, Rect{1, 9, 9, 9}, false},
		{Rect{1, 1, 0, 0}, Rect{1, 2, 0, 0}, true},
		{Rect{1, 1, 5, 0}, Rect{1, 1, 4, 0}, false},
		{Rect{1, 1, 5, 1}, Rect{1, 1, 5, 2}, true},
		{Rect{1, 1, 5, 2}, Rect{1, 1, 5, 2}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Less(tt.b); got != tt.want {
			t.Errorf("%v.Less(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRectPixelsTruncates(t *testing.T) {
	got := Rect{10.5, 20.9, 20.5, 5.99}.Pixels()
	if want := image.Rect(10, 20, 30, 25); got != want {
		t.Errorf("Pixels = %v, want %v", got, want)
	}
}

func TestRectIsZero(t *testing.T) {
	if !(Rect{}).IsZero() {
		t.Error("zero rect should be zero")
	}
	if (Rect{H: 1}).IsZero() {
		t.Error("non-zero rect reported zero")
	}
}

// --- Enums ---

func TestParseEventType(t *testing.T) {
	for _, et := range []EventType{EventCustom, EventKeyDown, EventKeyUp, EventPointerDown, EventPointerUp, EventPointerMove, EventQuit} {
		got, ok := ParseEventType(et.String())
		if !ok || got != et {
			t.Errorf("ParseEventType(%q) = %v, %v", et.String(), got, ok)
		}
	}
	if _, ok := ParseEventType("explode"); ok {
		t.Error("unknown name should not parse")
	}
}

func TestColorNRGBA(t *testing.T) {
	c := Color{R: 1, G: 2, B: 3, A: 4}.NRGBA()
	if c.R != 1 || c.G != 2 || c.B != 3 || c.A != 4 {
		t.Errorf("NRGBA = %v", c)
	}
}
