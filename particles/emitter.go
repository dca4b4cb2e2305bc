package particles

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// particle holds per-particle simulation state. Managed by Emitter.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64 // remaining lifetime in seconds
	maxLife    float64 // initial lifetime (for computing t)
	startScale float64
	endScale   float64
	scale      float64
	startAlpha float64
	endAlpha   float64
	alpha      float64
	start      [3]float64
	end        [3]float64
	color      [3]float64
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are dropped when full.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float64
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial speeds in pixels per second.
	Speed Range
	// Angle is the range of emission angles in radians.
	Angle Range
	// StartScale and EndScale bound the scale interpolated over a lifetime.
	StartScale, EndScale Range
	// StartAlpha and EndAlpha bound the alpha interpolated over a lifetime.
	StartAlpha, EndAlpha Range
	// GravityX and GravityY are constant accelerations in pixels per second squared.
	GravityX, GravityY float64
	// Origin is the spawn point; Spread widens it to a rectangle centered on it.
	OriginX, OriginY float64
	SpreadX, SpreadY float64
	// Palette holds the birth colors; each particle picks one.
	Palette []color.NRGBA
	// EndColor is the tint at death.
	EndColor color.NRGBA
}

// Emitter is a pool of particles with CPU simulation.
type Emitter struct {
	config    EmitterConfig
	particles []particle
	alive     int
	emitAccum float64
	active    bool
	rng       *rand.Rand
}

// NewEmitter creates an emitter with a preallocated pool, drawing random
// numbers from a generator seeded with seed.
func NewEmitter(cfg EmitterConfig, seed uint64) *Emitter {
	n := cfg.MaxParticles
	if n <= 0 {
		n = 128
	}
	return &Emitter{
		config:    cfg,
		particles: make([]particle, n),
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Start begins emitting particles.
func (e *Emitter) Start() { e.active = true }

// Stop stops emitting; alive particles live out their lifetime.
func (e *Emitter) Stop() { e.active = false }

// IsActive reports whether the emitter spawns new particles.
func (e *Emitter) IsActive() bool { return e.active }

// AliveCount returns the number of alive particles.
func (e *Emitter) AliveCount() int { return e.alive }

// Capacity returns the pool size.
func (e *Emitter) Capacity() int { return len(e.particles) }

// SetConfig replaces the configuration. The pool is not resized.
func (e *Emitter) SetConfig(cfg EmitterConfig) { e.config = cfg }

// Update advances the simulation by dt seconds.
func (e *Emitter) Update(dt float64) {
	gx := e.config.GravityX * dt
	gy := e.config.GravityY * dt

	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt

		t := 1 - p.life/p.maxLife
		p.scale = lerp(p.startScale, p.endScale, t)
		p.alpha = lerp(p.startAlpha, p.endAlpha, t)
		for c := range p.color {
			p.color[c] = lerp(p.start[c], p.end[c], t)
		}
		i++
	}

	if e.active && e.config.EmitRate > 0 {
		e.emitAccum += e.config.EmitRate * dt
		for e.emitAccum >= 1 {
			e.emitAccum--
			if e.alive < len(e.particles) {
				e.spawn()
			}
		}
	}
}

// Each calls fn for every alive particle with its position, scale and color.
func (e *Emitter) Each(fn func(x, y, scale float64, col color.NRGBA)) {
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		fn(p.x, p.y, p.scale, color.NRGBA{
			R: unit8(p.color[0]),
			G: unit8(p.color[1]),
			B: unit8(p.color[2]),
			A: unit8(p.alpha),
		})
	}
}

func (e *Emitter) spawn() {
	p := &e.particles[e.alive]
	cfg := &e.config

	angle := cfg.Angle.sample(e.rng)
	speed := cfg.Speed.sample(e.rng)
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.x = cfg.OriginX + (e.rng.Float64()-0.5)*cfg.SpreadX
	p.y = cfg.OriginY + (e.rng.Float64()-0.5)*cfg.SpreadY

	p.life = cfg.Lifetime.sample(e.rng)
	if p.life <= 0 {
		p.life = 1
	}
	p.maxLife = p.life

	p.startScale = cfg.StartScale.sample(e.rng)
	p.endScale = cfg.EndScale.sample(e.rng)
	p.scale = p.startScale
	p.startAlpha = cfg.StartAlpha.sample(e.rng)
	p.endAlpha = cfg.EndAlpha.sample(e.rng)
	p.alpha = p.startAlpha

	start := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if n := len(cfg.Palette); n > 0 {
		start = cfg.Palette[min(int(e.rng.Float64()*float64(n)), n-1)]
	}
	p.start = rgb(start)
	p.end = rgb(cfg.EndColor)
	p.color = p.start

	e.alive++
}

func rgb(c color.NRGBA) [3]float64 {
	return [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// unit8 maps [0, 1] to a byte, clamping out-of-range input.
func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
