package flateralus

import (
	"context"
	"fmt"
	"time"
)

// Host is the surface an Application is mounted on (a window, a DOM
// container, an offscreen buffer). Its size seeds the stage dimensions.
type Host interface {
	Size() (width, height int)
}

// Renderer is the adapter contract implemented per rendering backend. C is
// the context handed to animations. An Application calls these methods from
// a single goroutine and never concurrently.
type Renderer[C any] interface {
	// CreateContext builds the rendering context on host. It returns once the
	// context accepts draw calls. stage holds the initial stage values.
	CreateContext(ctx context.Context, host Host, stage ControlValues) (C, error)
	// StartRenderLoop begins calling tick once per frame with the frame time
	// in seconds. A tick must complete before the next one is scheduled.
	StartRenderLoop(tick func(dt float64)) error
	// StopRenderLoop stops scheduling ticks. It is used for both stop and pause.
	StopRenderLoop()
	// ResumeRenderLoop resumes ticking after StopRenderLoop, reusing the tick
	// function passed to StartRenderLoop.
	ResumeRenderLoop()
	// HandleResize resizes the backing surface of c.
	HandleResize(c C, width, height int) error
	// DestroyContext releases c. Errors and panics are logged, not propagated.
	DestroyContext(c C) error
	// StageControlsManifest returns the application's stage manifest. A nil
	// result selects StageManifest.
	StageControlsManifest() *Manifest
}

// ApplicationConfig configures an Application.
type ApplicationConfig struct {
	// ID names the application in diagnostics. Defaults to "app".
	ID string
	// Debug logs averaged frame timings every few seconds of frames.
	Debug bool
	// StageValues overrides entries of the stage defaults.
	StageValues ControlValues
}

// Application owns a rendering context, one active Animation, the render
// loop and the stage control values. It is not safe for concurrent use.
type Application[C any] struct {
	id       string
	renderer Renderer[C]
	debug    bool

	ctx         C
	initialized bool
	running     bool
	paused      bool
	destroyed   bool
	ticking     bool

	animation *Animation[C]

	stageManifest  *Manifest
	stageSchema    *ControlValuesSchema
	stage          ControlValues
	onStageUpdated func(ControlValues)
	// sized is set once the stage size came from config or an update; the
	// host size then no longer overrides it.
	sized bool

	frame   uint64
	elapsed float64
	stats   frameStats
}

// NewApplication creates an uninitialized application over r. It fails when
// cfg.StageValues does not validate against the renderer's stage manifest.
func NewApplication[C any](r Renderer[C], cfg ApplicationConfig) (*Application[C], error) {
	if r == nil {
		return nil, fmt.Errorf("new application: nil renderer")
	}
	id := cfg.ID
	if id == "" {
		id = "app"
	}
	m := r.StageControlsManifest()
	if m == nil {
		m = StageManifest()
	}
	schema := CreateControlValuesSchema(m)
	stage, err := schema.Parse(DefaultControlValues(m).Merge(cfg.StageValues))
	if err != nil {
		return nil, fmt.Errorf("new application %q: stage controls: %w", id, err)
	}
	return &Application[C]{
		id:            id,
		renderer:      r,
		debug:         cfg.Debug,
		stageManifest: m,
		stageSchema:   schema,
		stage:         stage,
		sized:         hasStageSize(cfg.StageValues),
	}, nil
}

// Init creates the rendering context on host and initializes the attached
// animation, if any. The stage takes the host size unless a size was already
// configured or set through UpdateStageControls. An application is
// initialized at most once.
func (a *Application[C]) Init(ctx context.Context, host Host) error {
	if a.destroyed {
		return ErrApplicationDestroyed
	}
	if a.initialized {
		return ErrAlreadyInitialized
	}
	if host != nil && !a.sized {
		if w, h := host.Size(); w > 0 && h > 0 {
			if err := a.Resize(w, h); err != nil {
				return fmt.Errorf("init application %q: %w", a.id, err)
			}
		}
	}
	c, err := a.renderer.CreateContext(ctx, host, a.stage.Clone())
	if err != nil {
		return fmt.Errorf("init application %q: %w", a.id, err)
	}
	a.ctx = c
	a.initialized = true
	if a.animation != nil {
		return a.initAnimation()
	}
	return nil
}

// SetAnimation destroys the previously attached animation, attaches anim and,
// when the application is initialized, initializes anim with the context.
// An animation whose Init fails is destroyed and detached. Setting the
// attached animation again is a no-op; a nil anim detaches.
func (a *Application[C]) SetAnimation(anim *Animation[C]) error {
	if a.destroyed {
		return ErrApplicationDestroyed
	}
	if anim != nil && anim == a.animation {
		return nil
	}
	if prev := a.animation; prev != nil {
		prev.Destroy()
	}
	a.animation = anim
	if anim == nil || !a.initialized {
		return nil
	}
	return a.initAnimation()
}

// initAnimation binds the attached animation to the context. On failure the
// animation is destroyed and detached so ticks never reach it uninitialized.
func (a *Application[C]) initAnimation() error {
	anim := a.animation
	if err := anim.Init(a.ctx); err != nil {
		a.animation = nil
		anim.Destroy()
		return err
	}
	anim.setRunning(a.running, a.paused)
	return nil
}

// Animation returns the attached animation, or nil.
func (a *Application[C]) Animation() *Animation[C] { return a.animation }

// Context returns the rendering context once initialized.
func (a *Application[C]) Context() (C, bool) { return a.ctx, a.initialized }

// Start begins the render loop. It requires an initialized application and
// is a no-op while already running.
func (a *Application[C]) Start() error {
	switch {
	case a.destroyed:
		return ErrApplicationDestroyed
	case !a.initialized:
		return ErrNotInitialized
	case a.running:
		return nil
	}
	if err := a.renderer.StartRenderLoop(a.tick); err != nil {
		return fmt.Errorf("start application %q: %w", a.id, err)
	}
	a.running = true
	a.paused = false
	a.syncAnimation()
	return nil
}

// Stop halts the render loop without releasing the context.
func (a *Application[C]) Stop() {
	if !a.running {
		return
	}
	a.renderer.StopRenderLoop()
	a.running = false
	a.paused = false
	a.syncAnimation()
}

// Pause suspends ticking; Resume continues with all state preserved.
func (a *Application[C]) Pause() {
	if !a.running || a.paused {
		return
	}
	a.renderer.StopRenderLoop()
	a.paused = true
	a.syncAnimation()
}

// Resume continues a paused render loop.
func (a *Application[C]) Resume() {
	if !a.running || !a.paused {
		return
	}
	a.renderer.ResumeRenderLoop()
	a.paused = false
	a.syncAnimation()
}

// IsRunning reports whether ticks are being scheduled.
func (a *Application[C]) IsRunning() bool { return a.running && !a.paused }

// IsPaused reports whether the loop is started but paused.
func (a *Application[C]) IsPaused() bool { return a.running && a.paused }

// IsInitialized reports whether the rendering context exists.
func (a *Application[C]) IsInitialized() bool { return a.initialized }

// IsDestroyed reports whether Destroy has run.
func (a *Application[C]) IsDestroyed() bool { return a.destroyed }

// Frame returns the number of completed ticks.
func (a *Application[C]) Frame() uint64 { return a.frame }

// Elapsed returns the summed frame time of all ticks in seconds.
func (a *Application[C]) Elapsed() float64 { return a.elapsed }

// SetDebugMode toggles periodic frame timing logs.
func (a *Application[C]) SetDebugMode(enabled bool) {
	a.debug = enabled
	a.stats = frameStats{}
}

// StageControlsManifest returns the manifest of the stage values.
func (a *Application[C]) StageControlsManifest() *Manifest { return a.stageManifest }

// StageControlValues returns a copy of the stage values.
func (a *Application[C]) StageControlValues() ControlValues { return a.stage.Clone() }

// SetOnStageControlsUpdated registers the single stage observer; nil unregisters.
func (a *Application[C]) SetOnStageControlsUpdated(fn func(ControlValues)) {
	a.onStageUpdated = fn
}

// UpdateStageControls merges partial into the stage values after validating
// the merged map. A changed stage size is pushed to the renderer first; if
// that fails nothing changes.
func (a *Application[C]) UpdateStageControls(partial ControlValues) error {
	if a.destroyed {
		return ErrApplicationDestroyed
	}
	if len(partial) == 0 {
		return nil
	}
	next, err := a.stageSchema.Parse(a.stage.Merge(partial))
	if err != nil {
		return err
	}
	if a.initialized {
		w0, h0 := StageSize(a.stage)
		w1, h1 := StageSize(next)
		if (w0 != w1 || h0 != h1) && w1 > 0 && h1 > 0 {
			if err := a.renderer.HandleResize(a.ctx, w1, h1); err != nil {
				return fmt.Errorf("resize application %q: %w", a.id, err)
			}
		}
	}
	a.stage = next
	if hasStageSize(partial) {
		a.sized = true
	}
	if a.onStageUpdated != nil {
		a.onStageUpdated(a.stage.Clone())
	}
	return nil
}

// Resize translates a host resize into stage width and height updates,
// clamped to the stage manifest bounds.
func (a *Application[C]) Resize(width, height int) error {
	partial := make(ControlValues, 2)
	if _, ok := a.stageManifest.lookup(StageWidth); ok {
		partial[StageWidth] = clampToControl(a.stageManifest, StageWidth, float64(width))
	}
	if _, ok := a.stageManifest.lookup(StageHeight); ok {
		partial[StageHeight] = clampToControl(a.stageManifest, StageHeight, float64(height))
	}
	return a.UpdateStageControls(partial)
}

// Destroy stops the loop, destroys the animation and releases the context.
// Renderer failures are logged; Destroy always reaches the destroyed state
// and may be called repeatedly.
func (a *Application[C]) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	if a.running {
		contain(fmt.Sprintf("application %q: stop render loop", a.id), func() error {
			a.renderer.StopRenderLoop()
			return nil
		})
		a.running = false
		a.paused = false
	}
	if a.animation != nil {
		a.animation.Destroy()
		a.animation = nil
	}
	if a.initialized {
		ctx := a.ctx
		contain(fmt.Sprintf("application %q: destroy context", a.id), func() error {
			return a.renderer.DestroyContext(ctx)
		})
		var zero C
		a.ctx = zero
		a.initialized = false
	}
	a.onStageUpdated = nil
}

// tick runs one frame. Re-entrant calls are dropped so frames never overlap.
func (a *Application[C]) tick(dt float64) {
	if a.ticking || a.destroyed || !a.running || a.paused {
		return
	}
	a.ticking = true
	defer func() { a.ticking = false }()

	var t0 time.Time
	if a.debug {
		t0 = time.Now()
	}
	a.frame++
	a.elapsed += dt
	if a.animation != nil {
		_ = a.animation.Update(dt)
	}
	if a.debug {
		a.stats.record(time.Since(t0))
		a.stats.flush(a.id)
	}
}

func (a *Application[C]) syncAnimation() {
	if a.animation != nil {
		a.animation.setRunning(a.running, a.paused)
	}
}

func hasStageSize(values ControlValues) bool {
	_, w := values[StageWidth]
	_, h := values[StageHeight]
	return w || h
}
