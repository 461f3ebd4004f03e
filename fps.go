package sprig

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay is reused across frames; 100x32 fits "FPS: 60.0\nTPS: 60.0".
var fpsOverlay *ebiten.Image

// drawFPSOverlay draws the current FPS and TPS in the top-left corner.
func drawFPSOverlay(screen *ebiten.Image) {
	if fpsOverlay == nil {
		fpsOverlay = ebiten.NewImage(100, 32)
	}
	fpsOverlay.Clear()
	// Semi-transparent background for readability
	fpsOverlay.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(fpsOverlay, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	screen.DrawImage(fpsOverlay, nil)
}
