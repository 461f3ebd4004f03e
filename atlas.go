package sprig

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// AtlasRegion is a named sub-rectangle of an atlas page, in page pixels.
type AtlasRegion struct {
	Page    int // index into Atlas.Pages
	X, Y    int
	W, H    int
	Rotated bool // stored 90 degrees clockwise; cannot be drawn by a Blit
}

// Atlas maps frame names to regions of one or more sprite sheet images.
type Atlas struct {
	// Pages holds the image path of each page, resolved against the
	// directory passed to LoadAtlas.
	Pages   []string
	regions map[string]AtlasRegion
}

// LoadAtlas parses TexturePacker JSON data. Page image names are joined to
// dir. Supports both the hash format (single "frames" object with
// "meta.image") and the array format ("textures" array with per-page frame
// lists).
func LoadAtlas(jsonData []byte, dir string) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("sprig: parse atlas: %w", err)
	}

	atlas := &Atlas{regions: make(map[string]AtlasRegion)}
	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, dir, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if probe.Meta.Image == "" {
			return nil, fmt.Errorf("sprig: parse atlas: hash format without meta.image")
		}
		atlas.Pages = []string{filepath.Join(dir, probe.Meta.Image)}
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("sprig: parse atlas: neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// Region returns the named region.
func (a *Atlas) Region(name string) (AtlasRegion, error) {
	r, ok := a.regions[name]
	if !ok {
		return AtlasRegion{}, fmt.Errorf("sprig: atlas region %q: %w", name, ErrNotFound)
	}
	return r, nil
}

// Len returns the region count.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// Names returns the names of the regions starting with prefix, sorted. Sheet
// exporters number frames ("walk_00", "walk_01"), so sorted order is
// playback order.
func (a *Atlas) Names(prefix string) []string {
	var names []string
	for name := range a.regions {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("sprig: parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.regions[name] = frameToRegion(f, page)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, dir string, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("sprig: parse atlas textures: %w", err)
	}
	for i, tex := range textures {
		atlas.Pages = append(atlas.Pages, filepath.Join(dir, tex.Image))
		for name, f := range tex.Frames {
			atlas.regions[name] = frameToRegion(f, i)
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page int) AtlasRegion {
	return AtlasRegion{
		Page:    page,
		X:       f.Frame.X,
		Y:       f.Frame.Y,
		W:       f.Frame.W,
		H:       f.Frame.H,
		Rotated: f.Rotated,
	}
}

// --- Loading frames ---

// LoadRegion points t at the named atlas region. The region becomes the clip
// rect and zero dimensions of size are filled from the region's pixel size.
// On error t is unchanged.
func (t *Texture) LoadRegion(atlas *Atlas, name string, size Rect) error {
	r, err := atlas.Region(name)
	if err != nil {
		return &LoadError{Stage: StageDecode, Key: name, Err: err}
	}
	if r.Rotated {
		return &LoadError{Stage: StageDecode, Key: name, Err: fmt.Errorf("rotated atlas regions are not supported")}
	}
	if r.Page < 0 || r.Page >= len(atlas.Pages) {
		return &LoadError{Stage: StageDecode, Key: name, Err: fmt.Errorf("page %d: %w", r.Page, ErrOutOfRange)}
	}
	if t.cache == nil {
		return &LoadError{Stage: StageDecode, Key: name, Err: ErrDetached}
	}
	path := atlas.Pages[r.Page]
	page, err := t.cache.imageEntry(path)
	if err != nil {
		return err
	}
	size = FillAutoDimension(size, r.W, r.H, t.cache.windowSize())
	return t.LoadImage(path, size, regionClip(r, page.w, page.h))
}

// regionClip converts r to percentages of a pageW x pageH image. A quarter
// pixel bias keeps Rect.Pixels truncation on the region's own edges.
func regionClip(r AtlasRegion, pageW, pageH int) Rect {
	if pageW <= 0 || pageH <= 0 {
		return Rect{}
	}
	const bias = 0.25
	w, h := float64(pageW), float64(pageH)
	return Rect{
		X: 100 * (float64(r.X) + bias) / w,
		Y: 100 * (float64(r.Y) + bias) / h,
		W: 100 * (float64(r.W) + bias) / w,
		H: 100 * (float64(r.H) + bias) / h,
	}
}

// AddAtlasFrames appends one frame per region whose name starts with prefix,
// in name order. Nothing is added unless every region loads.
func (a *Animation) AddAtlasFrames(atlas *Atlas, prefix string, size Rect) error {
	names := atlas.Names(prefix)
	if len(names) == 0 {
		return fmt.Errorf("sprig: atlas frames %q: %w", prefix, ErrNotFound)
	}
	frames := make([]*Texture, 0, len(names))
	for _, name := range names {
		t := NewTexture(a.cache)
		if err := t.LoadRegion(atlas, name, size); err != nil {
			for _, f := range frames {
				f.Release()
			}
			return err
		}
		frames = append(frames, t)
	}
	for _, f := range frames {
		a.AddTexture(f)
	}
	return nil
}
