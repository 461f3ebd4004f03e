package sprig

// InjectEvent queues ev for the current scene. Queued events are consumed
// one per frame, ahead of real input, so scripted runs see the same timing
// as a player.
func (g *Game) InjectEvent(ev Event) {
	g.injectQueue = append(g.injectQueue, ev)
}

// InjectKey queues a key press followed by its release. Consumes two frames.
func (g *Game) InjectKey(key string) {
	g.InjectEvent(Event{Type: EventKeyDown, Key: key})
	g.InjectEvent(Event{Type: EventKeyUp, Key: key})
}

// InjectPress queues a pointer press at the given window coordinates.
func (g *Game) InjectPress(x, y float64) {
	g.InjectEvent(Event{Type: EventPointerDown, X: x, Y: y})
}

// InjectMove queues a pointer move to the given window coordinates.
func (g *Game) InjectMove(x, y float64) {
	g.InjectEvent(Event{Type: EventPointerMove, X: x, Y: y})
}

// InjectRelease queues a pointer release at the given window coordinates.
func (g *Game) InjectRelease(x, y float64) {
	g.InjectEvent(Event{Type: EventPointerUp, X: x, Y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (g *Game) InjectClick(x, y float64) {
	g.InjectPress(x, y)
	g.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves and a release at (toX, toY). The sequence consumes
// frames frames; the minimum is 2.
func (g *Game) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	g.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		g.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	g.InjectRelease(toX, toY)
}

// PendingEvents returns the number of queued injected events.
func (g *Game) PendingEvents() int {
	return len(g.injectQueue)
}

// processInjectedEvents pops one queued event and dispatches it to s.
// Returns true if an event was consumed (real input should be skipped).
func (g *Game) processInjectedEvents(s *Scene) bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	ev := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]
	g.dispatch(s, ev)
	return true
}

// dispatch routes ev to s. A quit event no element handled stops the game.
func (g *Game) dispatch(s *Scene, ev Event) {
	if !s.OnEvent(ev) && ev.Type == EventQuit {
		g.quit = true
	}
}
