package flateralus

import (
	"fmt"
)

// AnimationState is the lifecycle state of an Animation.
type AnimationState uint8

const (
	AnimationConstructed AnimationState = iota // built, no rendering context yet
	AnimationInitialized                       // OnInit succeeded, loop not running
	AnimationRunning                           // the owning application's loop is ticking
	AnimationPaused                            // the loop is paused; state is kept
	AnimationDestroyed                         // terminal
)

func (s AnimationState) String() string {
	switch s {
	case AnimationConstructed:
		return "constructed"
	case AnimationInitialized:
		return "initialized"
	case AnimationRunning:
		return "running"
	case AnimationPaused:
		return "paused"
	case AnimationDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("AnimationState(%d)", uint8(s))
	}
}

// AnimationHooks is implemented by concrete animations. C is the rendering
// context type supplied by the renderer adapter (a canvas, an ebiten image,
// ...). The values passed to the hooks belong to the Animation and must not
// be modified or retained.
type AnimationHooks[C any] interface {
	// OnInit builds the animation's internal state for a new context.
	OnInit(ctx C, values ControlValues) error
	// OnUpdate draws one frame. dt is the frame time in seconds.
	OnUpdate(ctx C, values ControlValues, dt float64)
	// OnReset rebuilds internal state after Reset or after a change to a
	// control flagged ResetsAnimation.
	OnReset(ctx C, values ControlValues) error
	// OnDestroy releases resources. Errors and panics are logged, not propagated.
	OnDestroy() error
}

// Animation binds a manifest, its live control values and a set of hooks to
// a rendering context. An Animation is not safe for concurrent use; drive it
// from the goroutine that runs the render loop.
type Animation[C any] struct {
	manifest *Manifest
	schema   *ControlValuesSchema
	hooks    AnimationHooks[C]
	values   ControlValues

	ctx    C
	hasCtx bool
	state  AnimationState

	onControlsUpdated func(ControlValues)
	tween             *ControlTween
}

// NewAnimation validates initial (merged over the manifest defaults) and
// returns an Animation in the constructed state. A nil initial uses the
// defaults. Validation failures return an *InvalidControlValuesError.
func NewAnimation[C any](m *Manifest, hooks AnimationHooks[C], initial ControlValues) (*Animation[C], error) {
	if m == nil {
		return nil, fmt.Errorf("new animation: nil manifest")
	}
	if hooks == nil {
		return nil, fmt.Errorf("new animation %q: nil hooks", m.ID())
	}
	schema := CreateControlValuesSchema(m)
	values, err := schema.Parse(DefaultControlValues(m).Merge(initial))
	if err != nil {
		return nil, err
	}
	return &Animation[C]{
		manifest: m,
		schema:   schema,
		hooks:    hooks,
		values:   values,
	}, nil
}

// Manifest returns the animation's manifest.
func (a *Animation[C]) Manifest() *Manifest { return a.manifest }

// Schema returns the validator synthesized for the animation's manifest.
func (a *Animation[C]) Schema() *ControlValuesSchema { return a.schema }

// State returns the lifecycle state.
func (a *Animation[C]) State() AnimationState { return a.state }

// Context returns the rendering context bound by the last successful Init.
func (a *Animation[C]) Context() (C, bool) { return a.ctx, a.hasCtx }

// ControlValues returns a copy of the current values.
func (a *Animation[C]) ControlValues() ControlValues { return a.values.Clone() }

// SetOnControlsUpdated registers the single observer notified synchronously
// with a copy of the full value map after every successful mutation. A nil
// fn unregisters; registering replaces the previous observer.
func (a *Animation[C]) SetOnControlsUpdated(fn func(ControlValues)) {
	a.onControlsUpdated = fn
}

// Init binds ctx and runs OnInit. Calling Init again rebinds a new context
// and runs OnInit again; hooks that cannot rebuild should guard themselves.
func (a *Animation[C]) Init(ctx C) error {
	if a.state == AnimationDestroyed {
		return ErrAnimationDestroyed
	}
	if err := a.hooks.OnInit(ctx, a.values); err != nil {
		return fmt.Errorf("init animation %q: %w", a.manifest.ID(), err)
	}
	a.ctx = ctx
	a.hasCtx = true
	if a.state == AnimationConstructed {
		a.state = AnimationInitialized
	}
	return nil
}

// Update advances pending control tweens and runs OnUpdate. It is a no-op
// while paused and fails before Init or after Destroy.
func (a *Animation[C]) Update(dt float64) error {
	switch a.state {
	case AnimationConstructed:
		return ErrNotInitialized
	case AnimationDestroyed:
		return ErrAnimationDestroyed
	case AnimationPaused:
		return nil
	}
	if a.tween != nil {
		a.stepTween(dt)
	}
	a.hooks.OnUpdate(a.ctx, a.values, dt)
	return nil
}

// UpdateControls merges partial into the current values. The merged map is
// validated as a whole; on failure nothing changes and an
// *InvalidControlValuesError is returned. OnInit is not re-run, but a change
// to a control flagged ResetsAnimation runs OnReset.
func (a *Animation[C]) UpdateControls(partial ControlValues) error {
	if a.state == AnimationDestroyed {
		return ErrAnimationDestroyed
	}
	if len(partial) == 0 {
		return nil
	}
	next, err := a.schema.Parse(a.values.Merge(partial))
	if err != nil {
		return err
	}
	resets := false
	for name := range partial {
		c, ok := a.manifest.lookup(name)
		if ok && c.Base().ResetsAnimation && !valueEqual(a.values[name], next[name]) {
			resets = true
		}
	}
	if a.tween != nil {
		a.tween.cancel(partial)
	}
	a.values = next
	a.notify()
	if resets && a.hasCtx {
		return a.runReset()
	}
	return nil
}

// Reset restores the manifest defaults and runs OnReset.
func (a *Animation[C]) Reset() error {
	return a.ResetWith(nil)
}

// ResetWith replaces the values with a complete map (nil means the manifest
// defaults) and runs OnReset. Invalid maps leave the animation unchanged.
func (a *Animation[C]) ResetWith(values ControlValues) error {
	if a.state == AnimationDestroyed {
		return ErrAnimationDestroyed
	}
	if values == nil {
		values = DefaultControlValues(a.manifest)
	}
	next, err := a.schema.Parse(values)
	if err != nil {
		return err
	}
	a.tween = nil
	a.values = next
	a.notify()
	if a.hasCtx {
		return a.runReset()
	}
	return nil
}

// Destroy runs OnDestroy and marks the animation destroyed. It is idempotent
// and safe on an animation that was never initialized.
func (a *Animation[C]) Destroy() {
	if a.state == AnimationDestroyed {
		return
	}
	a.state = AnimationDestroyed
	a.tween = nil
	a.onControlsUpdated = nil
	contain(fmt.Sprintf("animation %q: destroy", a.manifest.ID()), a.hooks.OnDestroy)
	var zero C
	a.ctx = zero
	a.hasCtx = false
}

// setRunning moves an initialized animation between the running, paused and
// initialized states as its application's loop changes.
func (a *Animation[C]) setRunning(running, paused bool) {
	if a.state == AnimationConstructed || a.state == AnimationDestroyed {
		return
	}
	switch {
	case running && paused:
		a.state = AnimationPaused
	case running:
		a.state = AnimationRunning
	default:
		a.state = AnimationInitialized
	}
}

func (a *Animation[C]) runReset() error {
	if err := a.hooks.OnReset(a.ctx, a.values); err != nil {
		return fmt.Errorf("reset animation %q: %w", a.manifest.ID(), err)
	}
	return nil
}

func (a *Animation[C]) notify() {
	if a.onControlsUpdated != nil {
		a.onControlsUpdated(a.values.Clone())
	}
}
