package headless

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/flateralus"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action   string                   `json:"action"`
	Label    string                   `json:"label,omitempty"`
	Values   flateralus.ControlValues `json:"values,omitempty"`
	Seed     uint64                   `json:"seed,omitempty"`
	Width    int                      `json:"width,omitempty"`
	Height   int                      `json:"height,omitempty"`
	Frames   int                      `json:"frames,omitempty"`
	Duration float32                  `json:"duration,omitempty"`
}

// scriptFile is the top-level JSON structure of a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences control updates, resizes and snapshots across frames of
// a headless application. Attach it with Renderer.SetScript.
//
// Actions: "update" and "stage" merge values into the animation or stage
// controls, "tween" eases the animation toward values over duration
// seconds, "reset" restores defaults, "randomize" draws values from seed,
// "resize" sets the stage size, "wait" skips frames and "snapshot" writes a
// PNG labeled label into the snapshot directory.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	written   []string
}

var scriptActions = map[string]bool{
	"update": true, "stage": true, "tween": true, "reset": true,
	"randomize": true, "resize": true, "wait": true, "snapshot": true,
}

// LoadScript parses a JSON script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether all steps have been executed.
func (s *Script) Done() bool { return s.done }

// Snapshots returns the paths written by snapshot steps so far.
func (s *Script) Snapshots() []string { return append([]string(nil), s.written...) }

// step executes at most one action. It is called once per frame before the
// frame is drawn, so a snapshot captures the previous frame.
func (s *Script) step(app *App, r *Renderer) error {
	if s.done {
		return nil
	}
	if s.waitCount > 0 {
		s.waitCount--
		return nil
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return nil
	}

	st := s.steps[s.cursor]
	s.cursor++

	if err := s.run(st, app, r); err != nil {
		s.done = true
		return fmt.Errorf("script step %d (%s): %w", s.cursor-1, st.Action, err)
	}
	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
	return nil
}

func (s *Script) run(st scriptStep, app *App, r *Renderer) error {
	anim := app.Animation()
	switch st.Action {
	case "update":
		if anim == nil {
			return nil
		}
		return anim.UpdateControls(st.Values)
	case "stage":
		return app.UpdateStageControls(st.Values)
	case "tween":
		if anim == nil {
			return nil
		}
		return anim.TweenControls(st.Values, st.Duration, ease.InOutQuad)
	case "reset":
		if anim == nil {
			return nil
		}
		return anim.Reset()
	case "randomize":
		if anim == nil {
			return nil
		}
		return anim.Randomize(rand.New(rand.NewPCG(st.Seed, st.Seed)))
	case "resize":
		return app.Resize(st.Width, st.Height)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "snapshot":
		path, err := r.SnapshotFrame(st.Label)
		if err != nil {
			return err
		}
		s.written = append(s.written, path)
	}
	return nil
}
