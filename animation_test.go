package flateralus

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// recorder is an AnimationHooks[string] that logs every hook call.
type recorder struct {
	calls      []string
	last       ControlValues
	initErr    error
	resetErr   error
	destroyErr error
	panicOn    string
	log        *[]string
}

func (r *recorder) record(name string) {
	r.calls = append(r.calls, name)
	if r.log != nil {
		*r.log = append(*r.log, name)
	}
	if r.panicOn == name {
		panic(name + " exploded")
	}
}

func (r *recorder) OnInit(ctx string, v ControlValues) error {
	r.record("init:" + ctx)
	r.last = v.Clone()
	return r.initErr
}

func (r *recorder) OnUpdate(ctx string, v ControlValues, dt float64) {
	r.record("update")
	r.last = v.Clone()
}

func (r *recorder) OnReset(ctx string, v ControlValues) error {
	r.record("reset")
	r.last = v.Clone()
	return r.resetErr
}

func (r *recorder) OnDestroy() error {
	r.record("destroy")
	return r.destroyErr
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

var speedManifest = MustCreateManifest(ManifestDefinition{
	ID: "speedy",
	Controls: []Control{
		Slider("speed", 5, Range(0, 10), Step(1)),
		Toggle("loop", true),
		Slider("seed", 1, Range(1, 100), Step(1), ResetsAnimation()),
		Select("shape", "circle", Choices("circle", "square")),
	},
})

func newTestAnimation(t *testing.T) (*Animation[string], *recorder) {
	t.Helper()
	h := &recorder{}
	a, err := NewAnimation[string](speedManifest, h, nil)
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}
	return a, h
}

func TestAnimationDefaults(t *testing.T) {
	a, _ := newTestAnimation(t)
	if a.State() != AnimationConstructed {
		t.Errorf("State = %v, want constructed", a.State())
	}
	v := a.ControlValues()
	if n, _ := v.Number("speed"); n != 5 {
		t.Errorf("speed = %v, want 5", n)
	}
	if b, _ := v.Bool("loop"); !b {
		t.Error("loop = false, want true")
	}
}

func TestAnimationInitialValues(t *testing.T) {
	h := &recorder{}
	a, err := NewAnimation[string](speedManifest, h, ControlValues{"speed": 8})
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := a.ControlValues().Number("speed"); n != 8 {
		t.Errorf("speed = %v, want 8", n)
	}
	if _, err := NewAnimation[string](speedManifest, h, ControlValues{"speed": 20}); !errors.Is(err, ErrInvalidControlValues) {
		t.Errorf("out-of-range initial: err = %v", err)
	}
	if _, err := NewAnimation[string](speedManifest, h, ControlValues{"nope": 1}); !errors.Is(err, ErrInvalidControlValues) {
		t.Errorf("unknown initial key: err = %v", err)
	}
	if _, err := NewAnimation[string](nil, h, nil); err == nil {
		t.Error("nil manifest accepted")
	}
	if _, err := NewAnimation[string](speedManifest, nil, nil); err == nil {
		t.Error("nil hooks accepted")
	}
}

func TestAnimationUpdateControls(t *testing.T) {
	a, _ := newTestAnimation(t)

	var seen []ControlValues
	a.SetOnControlsUpdated(func(v ControlValues) { seen = append(seen, v) })

	err := a.UpdateControls(ControlValues{"speed": 20})
	if !errors.Is(err, ErrInvalidControlValues) {
		t.Fatalf("err = %v, want ErrInvalidControlValues", err)
	}
	if n, _ := a.ControlValues().Number("speed"); n != 5 {
		t.Errorf("speed changed to %v after a rejected update", n)
	}
	if len(seen) != 0 {
		t.Errorf("observer fired %d times for a rejected update", len(seen))
	}

	if err := a.UpdateControls(ControlValues{"speed": 7}); err != nil {
		t.Fatalf("UpdateControls: %v", err)
	}
	if n, _ := a.ControlValues().Number("speed"); n != 7 {
		t.Errorf("speed = %v, want 7", n)
	}
	if b, _ := a.ControlValues().Bool("loop"); !b {
		t.Error("loop lost in merge")
	}
	if len(seen) != 1 {
		t.Fatalf("observer fired %d times, want 1", len(seen))
	}
	if len(seen[0]) != speedManifest.Len() {
		t.Errorf("observer got %d keys, want the full map", len(seen[0]))
	}

	// The observer receives a copy.
	seen[0]["speed"] = 0.0
	if n, _ := a.ControlValues().Number("speed"); n != 7 {
		t.Error("observer copy aliases the animation's values")
	}
}

func TestAnimationEmptyUpdateIsNoop(t *testing.T) {
	a, _ := newTestAnimation(t)
	fired := false
	a.SetOnControlsUpdated(func(ControlValues) { fired = true })
	if err := a.UpdateControls(nil); err != nil {
		t.Fatal(err)
	}
	if fired {
		t.Error("observer fired for an empty update")
	}
}

func TestAnimationObserverReplaced(t *testing.T) {
	a, _ := newTestAnimation(t)
	first, second := 0, 0
	a.SetOnControlsUpdated(func(ControlValues) { first++ })
	a.SetOnControlsUpdated(func(ControlValues) { second++ })
	_ = a.UpdateControls(ControlValues{"speed": 1})
	if first != 0 || second != 1 {
		t.Errorf("first=%d second=%d, want 0 and 1", first, second)
	}
	a.SetOnControlsUpdated(nil)
	_ = a.UpdateControls(ControlValues{"speed": 2})
	if second != 1 {
		t.Error("unregistered observer still called")
	}
}

func TestAnimationLifecycle(t *testing.T) {
	a, h := newTestAnimation(t)

	if err := a.Update(0.016); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Update before Init: err = %v", err)
	}
	if err := a.Init("ctx"); err != nil {
		t.Fatal(err)
	}
	if a.State() != AnimationInitialized {
		t.Errorf("State = %v, want initialized", a.State())
	}
	if c, ok := a.Context(); !ok || c != "ctx" {
		t.Errorf("Context = %q, %v", c, ok)
	}
	if err := a.Update(0.016); err != nil {
		t.Fatal(err)
	}

	a.setRunning(true, true)
	if a.State() != AnimationPaused {
		t.Errorf("State = %v, want paused", a.State())
	}
	if err := a.Update(0.016); err != nil {
		t.Fatal(err)
	}
	if h.count("update") != 1 {
		t.Errorf("update calls = %d, want 1 (paused update is a no-op)", h.count("update"))
	}

	a.setRunning(true, false)
	if a.State() != AnimationRunning {
		t.Errorf("State = %v, want running", a.State())
	}

	a.Destroy()
	if a.State() != AnimationDestroyed {
		t.Errorf("State = %v, want destroyed", a.State())
	}
	if _, ok := a.Context(); ok {
		t.Error("context kept after Destroy")
	}
	if err := a.Update(0.016); !errors.Is(err, ErrAnimationDestroyed) {
		t.Errorf("Update after Destroy: err = %v", err)
	}
	if err := a.UpdateControls(ControlValues{"speed": 1}); !errors.Is(err, ErrAnimationDestroyed) {
		t.Errorf("UpdateControls after Destroy: err = %v", err)
	}
	if err := a.Init("again"); !errors.Is(err, ErrAnimationDestroyed) {
		t.Errorf("Init after Destroy: err = %v", err)
	}
}

func TestAnimationInitFailure(t *testing.T) {
	h := &recorder{initErr: errors.New("no gpu")}
	a, _ := NewAnimation[string](speedManifest, h, nil)
	err := a.Init("ctx")
	if err == nil || !errors.Is(err, h.initErr) {
		t.Fatalf("err = %v, want wrapped init error", err)
	}
	if a.State() != AnimationConstructed {
		t.Errorf("State = %v, want constructed", a.State())
	}
	if _, ok := a.Context(); ok {
		t.Error("context bound after failed init")
	}
}

func TestAnimationReinit(t *testing.T) {
	a, h := newTestAnimation(t)
	_ = a.Init("one")
	_ = a.Init("two")
	if h.count("init:one") != 1 || h.count("init:two") != 1 {
		t.Errorf("calls = %v", h.calls)
	}
	if c, _ := a.Context(); c != "two" {
		t.Errorf("Context = %q, want two", c)
	}
}

func TestAnimationResetsAnimationControl(t *testing.T) {
	a, h := newTestAnimation(t)
	_ = a.Init("ctx")

	_ = a.UpdateControls(ControlValues{"speed": 3})
	if h.count("reset") != 0 {
		t.Error("plain control triggered OnReset")
	}
	_ = a.UpdateControls(ControlValues{"seed": 1})
	if h.count("reset") != 0 {
		t.Error("unchanged reset control triggered OnReset")
	}
	_ = a.UpdateControls(ControlValues{"seed": 42})
	if h.count("reset") != 1 {
		t.Errorf("reset calls = %d, want 1", h.count("reset"))
	}
	if n, _ := h.last.Number("seed"); n != 42 {
		t.Errorf("OnReset saw seed %v, want 42", n)
	}
	if h.count("init:ctx") != 1 {
		t.Error("UpdateControls re-ran OnInit")
	}
}

func TestAnimationResetsBeforeInit(t *testing.T) {
	a, h := newTestAnimation(t)
	if err := a.UpdateControls(ControlValues{"seed": 9}); err != nil {
		t.Fatal(err)
	}
	if h.count("reset") != 0 {
		t.Error("OnReset ran without a context")
	}
}

func TestAnimationReset(t *testing.T) {
	a, h := newTestAnimation(t)
	_ = a.Init("ctx")
	_ = a.UpdateControls(ControlValues{"speed": 9, "shape": "square"})

	notified := 0
	a.SetOnControlsUpdated(func(ControlValues) { notified++ })
	if err := a.Reset(); err != nil {
		t.Fatal(err)
	}
	if !a.ControlValues().Equal(DefaultControlValues(speedManifest)) {
		t.Errorf("values after Reset = %v", a.ControlValues())
	}
	if h.count("reset") != 1 || notified != 1 {
		t.Errorf("reset=%d notified=%d, want 1 and 1", h.count("reset"), notified)
	}
}

func TestAnimationResetWith(t *testing.T) {
	a, _ := newTestAnimation(t)
	full := DefaultControlValues(speedManifest).Merge(ControlValues{"speed": 2})
	if err := a.ResetWith(full); err != nil {
		t.Fatal(err)
	}
	if n, _ := a.ControlValues().Number("speed"); n != 2 {
		t.Errorf("speed = %v, want 2", n)
	}
	// A partial map is incomplete and rejected.
	if err := a.ResetWith(ControlValues{"speed": 3}); !errors.Is(err, ErrInvalidControlValues) {
		t.Errorf("partial ResetWith: err = %v", err)
	}
	if n, _ := a.ControlValues().Number("speed"); n != 2 {
		t.Errorf("speed = %v after rejected ResetWith, want 2", n)
	}
}

func TestAnimationResetError(t *testing.T) {
	a, h := newTestAnimation(t)
	_ = a.Init("ctx")
	h.resetErr = errors.New("boom")
	if err := a.Reset(); !errors.Is(err, h.resetErr) {
		t.Errorf("err = %v, want wrapped reset error", err)
	}
}

func TestAnimationDestroyIdempotent(t *testing.T) {
	a, h := newTestAnimation(t)
	_ = a.Init("ctx")
	a.Destroy()
	a.Destroy()
	if h.count("destroy") != 1 {
		t.Errorf("OnDestroy calls = %d, want 1", h.count("destroy"))
	}
}

func TestAnimationDestroyNeverInitialized(t *testing.T) {
	a, h := newTestAnimation(t)
	a.Destroy()
	if a.State() != AnimationDestroyed || h.count("destroy") != 1 {
		t.Errorf("State = %v, destroy calls = %d", a.State(), h.count("destroy"))
	}
}

func TestAnimationDestroyContainsFailures(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(nil)

	h := &recorder{panicOn: "destroy"}
	a, _ := NewAnimation[string](speedManifest, h, nil)
	_ = a.Init("ctx")
	a.Destroy()
	if a.State() != AnimationDestroyed {
		t.Errorf("State = %v, want destroyed", a.State())
	}

	h2 := &recorder{destroyErr: errors.New("leak")}
	b, _ := NewAnimation[string](speedManifest, h2, nil)
	b.Destroy()

	out := buf.String()
	if !strings.Contains(out, "destroy exploded") || !strings.Contains(out, "leak") {
		t.Errorf("log output = %q", out)
	}
}

func TestAnimationStateString(t *testing.T) {
	if s := AnimationPaused.String(); s != "paused" {
		t.Errorf("String = %q, want paused", s)
	}
	if s := AnimationState(42).String(); s != "AnimationState(42)" {
		t.Errorf("String = %q", s)
	}
}
