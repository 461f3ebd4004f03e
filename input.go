package sprig

// InputSource translates device state into Events once per frame. The
// engine only routes what a source reports; hosts supply the source.
type InputSource interface {
	Poll(buf []Event) []Event
}

// SetInput sets the source polled for real input each frame. nil disables
// polling, which is the default so headless games never touch the device.
func (g *Game) SetInput(src InputSource) {
	g.input = src
}

// processInput dispatches polled device events to s.
func (g *Game) processInput(s *Scene) {
	if g.input == nil {
		return
	}
	g.inputBuf = g.input.Poll(g.inputBuf[:0])
	for _, ev := range g.inputBuf {
		g.dispatch(s, ev)
		if g.quit {
			return
		}
	}
}
