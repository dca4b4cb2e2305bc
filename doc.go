// Package flateralus is a framework for parameterized real-time animations.
//
// An animation declares its tunable parameters in a [Manifest]: an ordered,
// immutable list of typed controls (numbers, booleans, colors, selects and
// groups of items). From the manifest the package derives default values,
// random values that respect every constraint, and a strict validator
// ([ControlValuesSchema]). Live values flow into a running [Animation]
// through [Animation.UpdateControls]; observers learn about every change.
//
// # Quick start
//
// Declare controls with the typed constructors and functional options:
//
//	manifest := flateralus.MustCreateManifest(flateralus.ManifestDefinition{
//		ID:   "particles",
//		Name: "Particles",
//		Controls: []flateralus.Control{
//			flateralus.Slider("count", 200, flateralus.Range(10, 2000), flateralus.Step(10), flateralus.ResetsAnimation()),
//			flateralus.Toggle("trails", true),
//			flateralus.Color("tint", "#ff8800"),
//			flateralus.Select("shape", "circle", flateralus.Choices("circle", "square")),
//		},
//	})
//
// Implement [AnimationHooks] for a rendering context type and wrap it:
//
//	anim, err := flateralus.NewAnimation[*ebiten.Image](manifest, &particles{}, nil)
//
// An [Application] owns the rendering context, the render loop and the stage
// values (background and canvas size). Rendering backends implement the
// [Renderer] contract; see the headless and ebitenapp packages.
//
//	app, _ := flateralus.NewApplication[*headless.Canvas](headless.New(headless.Config{}), flateralus.ApplicationConfig{})
//	_ = app.SetAnimation(anim)
//	_ = app.Init(ctx, nil)
//	_ = app.Start()
//
// # Values
//
// [ControlValues] maps control names to values: float64 for numbers, bool,
// color strings ("#rrggbb"), option values for selects and []GroupItemValue
// for groups. [ControlValuesSchema.Parse] normalizes decoded input (JSON
// numbers, []any item lists) into that shape. Validation failures are
// reported as *[InvalidControlValuesError] listing every offending field.
//
// # Tweens
//
// [Animation.TweenControls] eases numeric controls toward a target over
// several frames (via [gween]) and applies the rest at once.
//
// # Concurrency
//
// Applications and animations are driven from a single goroutine, the one
// running the render loop. Manifests are immutable and may be shared.
//
// [gween]: https://github.com/tanema/gween
package flateralus
