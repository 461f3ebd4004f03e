package sprig

import (
	"fmt"
	"image"
	"image/color"
)

// Color represents an RGBA color with 8-bit, non-premultiplied components.
// Colors are comparable and are used as part of the text cache key.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// ColorWhite is the default text color.
var ColorWhite = Color{255, 255, 255, 255}

// NRGBA converts c to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
//
// Depending on context a Rect is either absolute (pixels) or relative, in
// which case X, Y, W and H are percentages of a reference rectangle and a
// zero W or H means "derive automatically". Rects are comparable and are used
// as part of the text cache key.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FullRect covers the whole of its reference rectangle when used as a
// relative rect.
var FullRect = Rect{0, 0, 100, 100}

// IsZero reports whether every field of r is zero.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W &&
		r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H &&
		r.Y+r.H >= other.Y
}

// Less orders rects by X, then Y, then W, then H.
func (r Rect) Less(other Rect) bool {
	switch {
	case r.X != other.X:
		return r.X < other.X
	case r.Y != other.Y:
		return r.Y < other.Y
	case r.W != other.W:
		return r.W < other.W
	default:
		return r.H < other.H
	}
}

// Pixels converts an absolute rect to integer pixel bounds. Fractions are
// truncated toward zero on every field, so a rect at x=10.5 w=20.5 covers
// pixels [10, 30).
func (r Rect) Pixels() image.Rectangle {
	x, y := int(r.X), int(r.Y)
	return image.Rect(x, y, x+int(r.W), y+int(r.H))
}

func (r Rect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.W, r.H)
}

// TextQuality selects the text rasterization tier.
type TextQuality uint8

const (
	TextSolid   TextQuality = iota // fast, aliased glyph edges
	TextBlended                    // smooth, anti-aliased glyph edges
)

func (q TextQuality) String() string {
	switch q {
	case TextSolid:
		return "solid"
	case TextBlended:
		return "blended"
	default:
		return fmt.Sprintf("TextQuality(%d)", q)
	}
}

// EventType identifies a kind of event dispatched through a scene.
type EventType uint8

const (
	EventCustom      EventType = iota // application-defined, see Event.Name
	EventKeyDown                      // a key was pressed
	EventKeyUp                        // a key was released
	EventPointerDown                  // a pointer button was pressed
	EventPointerUp                    // a pointer button was released
	EventPointerMove                  // the pointer moved
	EventQuit                         // the host asked the game to stop
)

var eventTypeNames = [...]string{
	EventCustom:      "custom",
	EventKeyDown:     "keydown",
	EventKeyUp:       "keyup",
	EventPointerDown: "pointerdown",
	EventPointerUp:   "pointerup",
	EventPointerMove: "pointermove",
	EventQuit:        "quit",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// ParseEventType returns the EventType whose String form is name.
func ParseEventType(name string) (EventType, bool) {
	for i, n := range eventTypeNames {
		if n == name {
			return EventType(i), true
		}
	}
	return 0, false
}

// Event is an input or application event. The host translates device input
// into Events; the engine only routes them.
type Event struct {
	Type EventType
	Name string  // custom event name (EventCustom)
	Key  string  // key name (EventKeyDown, EventKeyUp)
	X, Y float64 // pointer position in window pixels
	Data any
}
