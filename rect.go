package sprig

// Resolve maps relative into the space of reference. The fields of relative
// are percentages of reference: X and Y offset from reference's origin, W and
// H scale reference's size.
//
//	Resolve(Rect{50, 0, 50, 100}, Rect{0, 0, 800, 600}) == Rect{400, 0, 400, 600}
func Resolve(relative, reference Rect) Rect {
	return Rect{
		X: reference.X + relative.X*reference.W/100,
		Y: reference.Y + relative.Y*reference.H/100,
		W: relative.W * reference.W / 100,
		H: relative.H * reference.H / 100,
	}
}

// ResolveAbsolute resolves relative inside reference, where reference is
// itself relative to the window, and returns absolute window pixels.
func ResolveAbsolute(relative, reference, window Rect) Rect {
	return Resolve(Resolve(relative, reference), window)
}

// FillAutoDimension replaces zero dimensions of r using the native pixel size
// of the content it will display:
//
//   - W and H both zero: W = window.W / nativeW and H = window.H / nativeH.
//   - only H zero: H keeps the native aspect ratio, (W / nativeW) * nativeH.
//   - only W zero: W = (H / nativeH) * nativeW.
//
// A rect with both dimensions set is returned unchanged, as is any rect when
// the native size is not positive.
func FillAutoDimension(r Rect, nativeW, nativeH int, window Rect) Rect {
	if nativeW <= 0 || nativeH <= 0 {
		return r
	}
	w, h := float64(nativeW), float64(nativeH)
	switch {
	case r.W == 0 && r.H == 0:
		r.W = window.W / w
		r.H = window.H / h
	case r.H == 0:
		r.H = (r.W / w) * h
	case r.W == 0:
		r.W = (r.H / h) * w
	}
	return r
}
