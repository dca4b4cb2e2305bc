package flateralus

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ControlTween eases the number controls of an Animation toward target
// values. It is created by Animation.TweenControls and advanced by
// Animation.Update; there is no global tween manager.
type ControlTween struct {
	entries []tweenEntry
	Done    bool
}

type tweenEntry struct {
	name   string
	tween  *gween.Tween
	target float64
	lo, hi *float64
}

// update advances every entry by dt seconds and writes the eased values into
// values, clamped to the control bounds (easings such as ease.OutBack
// overshoot). It reports whether any value changed.
func (t *ControlTween) update(values ControlValues, dt float32) bool {
	if t.Done {
		return false
	}
	changed := false
	allDone := true
	for _, e := range t.entries {
		val, finished := e.tween.Update(dt)
		v := float64(val)
		if finished {
			v = e.target
		} else {
			allDone = false
		}
		if e.lo != nil {
			v = math.Max(v, *e.lo)
		}
		if e.hi != nil {
			v = math.Min(v, *e.hi)
		}
		if values[e.name] != v {
			values[e.name] = v
			changed = true
		}
	}
	t.Done = allDone
	return changed
}

// cancel drops the entries for controls present in partial.
func (t *ControlTween) cancel(partial ControlValues) {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if _, ok := partial[e.name]; !ok {
			kept = append(kept, e)
		}
	}
	t.entries = kept
	if len(t.entries) == 0 {
		t.Done = true
	}
}

// Active reports whether the tween still has entries to advance.
func (t *ControlTween) Active() bool {
	return t != nil && !t.Done && len(t.entries) > 0
}

// TweenControls validates target (merged over the current values) and eases
// the number controls it names over duration seconds using fn. Other
// controls, and numbers flagged ResetsAnimation, are applied at once. A
// non-positive duration applies everything at once. The observer fires once
// per Update tick while the tween runs.
func (a *Animation[C]) TweenControls(target ControlValues, duration float32, fn ease.TweenFunc) error {
	if a.state == AnimationDestroyed {
		return ErrAnimationDestroyed
	}
	next, err := a.schema.Parse(a.values.Merge(target))
	if err != nil {
		return err
	}
	if fn == nil {
		fn = ease.Linear
	}
	if duration <= 0 {
		return a.UpdateControls(target)
	}

	tw := &ControlTween{}
	immediate := make(ControlValues)
	for name := range target {
		c, _ := a.manifest.lookup(name)
		n, isNumber := c.(NumberControl)
		if !isNumber || n.ResetsAnimation {
			immediate[name] = next[name]
			continue
		}
		from, _ := a.values.Number(name)
		to := next[name].(float64)
		if from == to {
			continue
		}
		tw.entries = append(tw.entries, tweenEntry{
			name:   name,
			tween:  gween.New(float32(from), float32(to), duration, fn),
			target: to,
			lo:     n.Min,
			hi:     n.Max,
		})
	}
	if len(immediate) > 0 {
		if err := a.UpdateControls(immediate); err != nil {
			return err
		}
	}
	if len(tw.entries) > 0 {
		a.tween = tw
	}
	return nil
}

// TweenToRandom eases toward a fresh set of random values.
func (a *Animation[C]) TweenToRandom(r RandomSource, duration float32, fn ease.TweenFunc) error {
	return a.TweenControls(RandomControlValues(a.manifest, r), duration, fn)
}

// Randomize replaces every value with a random one.
func (a *Animation[C]) Randomize(r RandomSource) error {
	return a.UpdateControls(RandomControlValues(a.manifest, r))
}

// Tween returns the running control tween, or nil.
func (a *Animation[C]) Tween() *ControlTween {
	if !a.tween.Active() {
		return nil
	}
	return a.tween
}

func (a *Animation[C]) stepTween(dt float64) {
	if a.tween.update(a.values, float32(dt)) {
		a.notify()
	}
	if a.tween.Done {
		a.tween = nil
	}
}
