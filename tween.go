package sprig

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of an Element simultaneously.
// Create one via the convenience constructors and call Update(dt) each
// frame, typically from a behavior's OnLoop. If the target element is
// disposed, the group stops immediately.
//
// There is no global tween manager; behaviors own their groups.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Element
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields. If the target has been disposed, Done is set and nothing
// is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func tweenRect(e *Element, r *Rect, to Rect, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4, target: e}
	g.tweens[0] = gween.New(float32(r.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(r.Y), float32(to.Y), duration, fn)
	g.tweens[2] = gween.New(float32(r.W), float32(to.W), duration, fn)
	g.tweens[3] = gween.New(float32(r.H), float32(to.H), duration, fn)
	g.fields[0] = &r.X
	g.fields[1] = &r.Y
	g.fields[2] = &r.W
	g.fields[3] = &r.H
	return g
}

// TweenRenderBox animates the element's relative render box to the target
// rect over duration seconds using the easing function.
func TweenRenderBox(e *Element, to Rect, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenRect(e, &e.renderBox, to, duration, fn)
}

// TweenCollisionBox animates the element's relative collision box to the
// target rect over duration seconds using the easing function.
func TweenCollisionBox(e *Element, to Rect, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenRect(e, &e.collisionBox, to, duration, fn)
}

// TweenPosition animates only the position of the element's render box.
func TweenPosition(e *Element, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(e.renderBox.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(e.renderBox.Y), float32(toY), duration, fn)
	g.fields[0] = &e.renderBox.X
	g.fields[1] = &e.renderBox.Y
	return g
}
