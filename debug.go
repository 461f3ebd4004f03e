package sprig

import "time"

// frameStats holds per-frame timing and dispatch counts.
// Only populated when the game is in debug mode.
type frameStats struct {
	loopTime   time.Duration
	renderTime time.Duration
	looped     int
	rendered   int
	events     int
}

// debugLog logs one frame's stats.
func (g *Game) debugLog(stats frameStats) {
	if !g.debug {
		return
	}
	logger.Info("frame",
		"loop", stats.loopTime,
		"render", stats.renderTime,
		"total", stats.loopTime+stats.renderTime,
		"looped", stats.looped,
		"rendered", stats.rendered,
		"events", stats.events,
	)
}

// debugMaxElements is the element count above which AddElement warns.
const debugMaxElements = 1000

func (g *Game) debugCheckElementCount(s *Scene) {
	if g.debug && s.NumElements() > debugMaxElements {
		logger.Warn("scene element count exceeds threshold",
			"scene", s.name, "count", s.NumElements(), "threshold", debugMaxElements)
	}
}
