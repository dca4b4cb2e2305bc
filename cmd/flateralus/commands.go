package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/flateralus"
	"github.com/phanxgames/flateralus/headless"
	"github.com/phanxgames/flateralus/particles"
	"github.com/phanxgames/flateralus/settings"
)

// loadManifest resolves a -manifest flag: empty selects the particle
// manifest, "stage" the stage manifest, anything else is a file path.
func loadManifest(path string) (*flateralus.Manifest, error) {
	switch path {
	case "", particles.Manifest.ID():
		return particles.Manifest, nil
	case flateralus.StageManifestID:
		return flateralus.StageManifest(), nil
	default:
		return settings.ReadManifest(path)
	}
}

func runCheck(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("check", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("no manifest files")
	}
	failed := 0
	for _, path := range fs.Args() {
		m, err := settings.ReadManifest(path)
		if err != nil {
			failed++
			fmt.Fprintf(stdout, "FAIL %s\n%v\n", path, err)
			continue
		}
		fmt.Fprintf(stdout, "ok   %s (%s, %d controls)\n", path, m.ID(), m.Len())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d manifests invalid", failed, fs.NArg())
	}
	return nil
}

func runManifest(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("manifest", stderr)
	manifest := fs.String("manifest", "", `manifest file, "particles" or "stage"`)
	format := fs.String("format", "yaml", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := loadManifest(*manifest)
	if err != nil {
		return err
	}
	f, err := settings.ParseFormat(*format)
	if err != nil {
		return err
	}
	data, err := settings.EncodeManifest(m, f)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func runDefaults(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("defaults", stderr)
	manifest := fs.String("manifest", "", `manifest file, "particles" or "stage"`)
	format := fs.String("format", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := loadManifest(*manifest)
	if err != nil {
		return err
	}
	return writeDocument(stdout, *format, settings.Document{
		ManifestID:    m.ID(),
		ControlValues: flateralus.DefaultControlValues(m),
	})
}

func runRandom(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("random", stderr)
	manifest := fs.String("manifest", "", `manifest file, "particles" or "stage"`)
	format := fs.String("format", "json", "output format: json or yaml")
	seed := fs.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := loadManifest(*manifest)
	if err != nil {
		return err
	}
	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(s, s))
	return writeDocument(stdout, *format, settings.Document{
		ManifestID:    m.ID(),
		ControlValues: flateralus.RandomControlValues(m, r),
	})
}

func writeDocument(w io.Writer, format string, doc settings.Document) error {
	f, err := settings.ParseFormat(format)
	if err != nil {
		return err
	}
	data, err := settings.Encode(doc, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func runValidate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("validate", stderr)
	manifest := fs.String("manifest", "", `manifest file, "particles" or "stage"`)
	jobs := fs.Int("jobs", runtime.NumCPU(), "files validated in parallel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("no settings files")
	}
	m, err := loadManifest(*manifest)
	if err != nil {
		return err
	}

	files := fs.Args()
	results := make([]error, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*jobs, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := settings.Read(path)
			if err == nil {
				err = doc.Validate(m, flateralus.StageManifest())
			}
			results[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, path := range files {
		if results[i] != nil {
			failed++
			fmt.Fprintf(stdout, "FAIL %s\n%v\n", path, results[i])
			continue
		}
		fmt.Fprintf(stdout, "ok   %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents invalid", failed, len(files))
	}
	return nil
}

func runRender(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("render", stderr)
	settingsPath := fs.String("settings", "", "settings document to apply before rendering")
	scriptPath := fs.String("script", "", "JSON script of control changes and snapshots")
	frames := fs.Int("frames", 120, "frames to render (script runs stop when the script ends)")
	width := fs.Int("width", 640, "canvas width")
	height := fs.Int("height", 480, "canvas height")
	fps := fs.Int("fps", 60, "frames per second")
	seed := fs.Uint64("seed", 0, "particle seed (0 keeps the manifest value)")
	out := fs.String("out", "renders", "output directory")
	realtime := fs.Bool("realtime", false, "pace frames at -fps instead of rendering back to back")
	debug := fs.Bool("debug", false, "log frame timings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, r, err := headless.NewApp(headless.Config{
		Width:       *width,
		Height:      *height,
		FPS:         *fps,
		SnapshotDir: *out,
	}, flateralus.ApplicationConfig{ID: "render", Debug: *debug})
	if err != nil {
		return err
	}
	defer app.Destroy()

	anim, err := particles.New[*headless.Canvas](headless.Painter{}, nil)
	if err != nil {
		return err
	}
	if err := app.SetAnimation(anim); err != nil {
		return err
	}
	if *settingsPath != "" {
		doc, err := settings.Read(*settingsPath)
		if err != nil {
			return err
		}
		if err := settings.Apply(anim, app, doc); err != nil {
			return err
		}
	}
	if *seed != 0 {
		s := float64(*seed % 10000)
		if err := anim.UpdateControls(flateralus.ControlValues{particles.ControlSeed: max(s, 1)}); err != nil {
			return err
		}
	}
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			return err
		}
		script, err := headless.LoadScript(data)
		if err != nil {
			return err
		}
		r.SetScript(script)
		defer func() {
			for _, p := range script.Snapshots() {
				fmt.Fprintf(stdout, "wrote %s\n", p)
			}
		}()
	}

	if err := app.Init(ctx, r); err != nil {
		return err
	}
	if err := app.Start(); err != nil {
		return err
	}
	if *realtime {
		err = r.Run(ctx, *frames)
	} else {
		err = r.Render(*frames)
	}
	if err != nil {
		return err
	}

	final := filepath.Join(*out, "final.png")
	if err := r.Snapshot(final); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%d frames)\n", final, app.Frame())
	return nil
}
