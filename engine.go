package flateralus

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// RandomSource supplies uniform samples in [0, 1). *rand.Rand from
// math/rand/v2 satisfies it; pass a seeded one for reproducible values.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultControlValues copies every control's default value into a new map.
// Group defaults are the author's literal lists; their length bounds are not
// checked here.
func DefaultControlValues(m *Manifest) ControlValues {
	out := make(ControlValues, len(m.controls))
	for _, c := range m.controls {
		name := c.Base().Name
		if _, dup := out[name]; dup {
			continue
		}
		out[name] = c.defaultValue()
	}
	return out
}

// RandomControlValues produces a value for every control that respects its
// declared constraints. A nil r uses the package-level generator. The result
// is deterministic for a deterministic r.
func RandomControlValues(m *Manifest, r RandomSource) ControlValues {
	if r == nil {
		r = globalSource{}
	}
	out := make(ControlValues, len(m.controls))
	for _, c := range m.controls {
		name := c.Base().Name
		if _, dup := out[name]; dup {
			continue
		}
		out[name] = RandomValue(c, r)
	}
	return out
}

// RandomValue produces a random value for a single control.
func RandomValue(c Control, r RandomSource) any {
	if r == nil {
		r = globalSource{}
	}
	switch c := c.(type) {
	case NumberControl:
		return randomNumber(c, r)
	case BooleanControl:
		return r.Float64() < 0.5
	case ColorControl:
		return randomHex(r)
	case SelectControl:
		return randomOption(c.Options, r)
	case GroupControl:
		return randomGroup(c, r)
	default:
		panic(fmt.Sprintf("flateralus: unknown control type %T", c))
	}
}

// numberParams returns the randomization bounds of a number control:
// min defaults to 0, max to 1 and step to 1.
func numberParams(c NumberControl) (lo, hi, step float64) {
	lo, hi, step = 0, 1, 1
	if c.Min != nil {
		lo = *c.Min
	}
	if c.Max != nil {
		hi = *c.Max
	}
	if c.Step != nil && *c.Step > 0 {
		step = *c.Step
	}
	return lo, hi, step
}

func randomNumber(c NumberControl, r RandomSource) float64 {
	lo, hi, step := numberParams(c)
	return Quantize(lo, hi, step, r.Float64())
}

// Quantize maps a uniform sample u in [0, 1) to
// lo + round(u * floor((hi-lo)/step)) * step. The result is step-aligned
// relative to lo and never exceeds hi. Degenerate bounds return lo.
func Quantize(lo, hi, step, u float64) float64 {
	if !(step > 0) || math.IsInf(step, 0) {
		step = 1
	}
	if !(hi > lo) {
		return lo
	}
	steps := math.Floor((hi - lo) / step)
	k := math.Round(u * steps)
	prec := decimals(step)
	if p := decimals(lo); p > prec {
		prec = p
	}
	for {
		v := roundTo(lo+k*step, prec)
		if v <= hi || k <= 0 {
			if v > hi {
				return lo
			}
			return v
		}
		k--
	}
}

// decimals returns the number of fractional digits of x's shortest
// representation, capped at 12.
func decimals(x float64) int {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return min(len(s)-i-1, 12)
}

func roundTo(x float64, prec int) float64 {
	p := math.Pow(10, float64(prec))
	return math.Round(x*p) / p
}

func randomHex(r RandomSource) string {
	v := int(r.Float64() * 0x1000000)
	if v > 0xffffff {
		v = 0xffffff
	}
	return fmt.Sprintf("#%06x", v)
}

// randomOption picks uniformly by index; an empty option list yields "".
func randomOption(opts []SelectOption, r RandomSource) string {
	if len(opts) == 0 {
		return ""
	}
	i := int(r.Float64() * float64(len(opts)))
	if i >= len(opts) {
		i = len(opts) - 1
	}
	return opts[i].Value
}

func randomGroup(g GroupControl, r RandomSource) []GroupItemValue {
	lo := 1
	if g.MinItems != nil {
		lo = max(*g.MinItems, 0)
	}
	hi := lo + 2
	if g.MaxItems != nil {
		hi = *g.MaxItems
	}
	if hi < lo {
		hi = lo
	}
	count := lo + int(r.Float64()*float64(hi-lo+1))
	if count > hi {
		count = hi
	}

	kinds := g.ItemKinds()
	items := make([]GroupItemValue, count)
	for i := range items {
		kind := ControlColor
		switch {
		case len(kinds) == 1:
			kind = kinds[0]
		case len(kinds) > 1:
			kind = kinds[min(int(r.Float64()*float64(len(kinds))), len(kinds)-1)]
		}
		items[i] = randomItem(g, kind, r)
	}
	return items
}

func randomItem(g GroupControl, kind ControlType, r RandomSource) GroupItemValue {
	tmpl, _ := g.Template(kind)
	switch kind {
	case ControlNumber:
		n, _ := tmpl.(NumberControl)
		lo, hi, step := numberParams(n)
		return GroupItemValue{
			Type:     ControlNumber,
			Value:    Quantize(lo, hi, step, r.Float64()),
			Metadata: map[string]any{"min": lo, "max": hi},
		}
	case ControlBoolean:
		return GroupItemValue{Type: ControlBoolean, Value: r.Float64() < 0.5}
	case ControlSelect:
		s, _ := tmpl.(SelectControl)
		return GroupItemValue{Type: ControlSelect, Value: randomOption(s.Options, r)}
	default:
		return GroupItemValue{
			Type:     ControlColor,
			Value:    randomHex(r),
			Metadata: map[string]any{"alpha": 1.0},
		}
	}
}
