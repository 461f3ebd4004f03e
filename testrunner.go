package sprig

import (
	"encoding/json"
	"fmt"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Type   string  `json:"type,omitempty"`
	Name   string  `json:"name,omitempty"`
	Key    string  `json:"key,omitempty"`
	Scene  string  `json:"scene,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected events, scene switches and screenshots
// across frames for automated runs. Attach to a Game via SetTestRunner.
//
// Supported actions:
//
//	event      {"type": "keydown", "key": "Space"} or {"type": "custom", "name": "fire"}
//	click      {"x": 10, "y": 20}
//	drag       {"fromX", "fromY", "toX", "toY", "frames"}
//	wait       {"frames": 30}
//	screenshot {"label": "title"}
//	scene      {"scene": "level1"}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Game via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("sprig: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("sprig: parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("sprig: parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st testStep) validate() error {
	switch st.Action {
	case "event":
		if _, ok := ParseEventType(st.Type); !ok {
			return fmt.Errorf("unknown event type %q", st.Type)
		}
	case "scene":
		if st.Scene == "" {
			return fmt.Errorf("scene action without scene name")
		}
	case "click", "drag", "wait", "screenshot":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func (st testStep) event() Event {
	t, _ := ParseEventType(st.Type)
	return Event{Type: t, Name: st.Name, Key: st.Key, X: st.X, Y: st.Y}
}

// SetTestRunner attaches a TestRunner to the game. Its step method runs at
// the start of every Update.
func (g *Game) SetTestRunner(runner *TestRunner) {
	g.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(g *Game) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(g.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "event":
		g.InjectEvent(st.event())
	case "click":
		g.InjectClick(st.X, st.Y)
	case "drag":
		g.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		g.Screenshot(st.Label)
	case "scene":
		if err := g.SetCurrentScene(st.Scene); err != nil {
			logger.Error("test script: switch scene", "scene", st.Scene, "err", err)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(g.injectQueue) == 0 {
		r.done = true
	}
}
