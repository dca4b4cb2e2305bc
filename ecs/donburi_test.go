package ecs

import (
	"context"
	"testing"

	"github.com/yohamta/donburi"

	"github.com/phanxgames/flateralus"
)

var testManifest = flateralus.MustCreateManifest(flateralus.ManifestDefinition{
	ID: "ecs-test",
	Controls: []flateralus.Control{
		flateralus.Slider("speed", 1, flateralus.Range(0, 10)),
		flateralus.Toggle("loop", false),
	},
})

type nopHooks struct{}

func (nopHooks) OnInit(int, flateralus.ControlValues) error      { return nil }
func (nopHooks) OnUpdate(int, flateralus.ControlValues, float64) {}
func (nopHooks) OnReset(int, flateralus.ControlValues) error     { return nil }
func (nopHooks) OnDestroy() error                                { return nil }

type nopRenderer struct{}

func (nopRenderer) CreateContext(context.Context, flateralus.Host, flateralus.ControlValues) (int, error) {
	return 1, nil
}
func (nopRenderer) StartRenderLoop(func(float64)) error         { return nil }
func (nopRenderer) StopRenderLoop()                             {}
func (nopRenderer) ResumeRenderLoop()                           {}
func (nopRenderer) HandleResize(int, int, int) error            { return nil }
func (nopRenderer) DestroyContext(int) error                    { return nil }
func (nopRenderer) StageControlsManifest() *flateralus.Manifest { return nil }

func TestNewPublisher(t *testing.T) {
	if NewPublisher(donburi.NewWorld()) == nil {
		t.Fatal("NewPublisher returned nil")
	}
}

func TestObserve_PublishesControlChanges(t *testing.T) {
	world := donburi.NewWorld()
	anim, err := flateralus.NewAnimation[int](testManifest, nopHooks{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	Observe(world, anim)

	var received []ControlsUpdatedEvent
	ControlsUpdatedEventType.Subscribe(world, func(w donburi.World, e ControlsUpdatedEvent) {
		received = append(received, e)
	})

	if err := anim.UpdateControls(flateralus.ControlValues{"speed": 2.5}); err != nil {
		t.Fatal(err)
	}
	if err := anim.UpdateControls(flateralus.ControlValues{"loop": true}); err != nil {
		t.Fatal(err)
	}
	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before ProcessEvents, want 0", len(received))
	}
	ControlsUpdatedEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].ManifestID != "ecs-test" {
		t.Errorf("ManifestID = %q, want %q", received[0].ManifestID, "ecs-test")
	}
	if v, _ := received[0].Values.Number("speed"); v != 2.5 {
		t.Errorf("event 0 speed = %v, want 2.5", v)
	}
	if v, _ := received[1].Values.Bool("loop"); !v {
		t.Error("event 1 loop = false, want true")
	}
}

func TestObserve_InvalidUpdatePublishesNothing(t *testing.T) {
	world := donburi.NewWorld()
	anim, _ := flateralus.NewAnimation[int](testManifest, nopHooks{}, nil)
	Observe(world, anim)

	var count int
	ControlsUpdatedEventType.Subscribe(world, func(w donburi.World, e ControlsUpdatedEvent) {
		count++
	})
	if err := anim.UpdateControls(flateralus.ControlValues{"speed": 99}); err == nil {
		t.Fatal("expected validation error")
	}
	ControlsUpdatedEventType.ProcessEvents(world)
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestObserveStage(t *testing.T) {
	world := donburi.NewWorld()
	app, err := flateralus.NewApplication[int](nopRenderer{}, flateralus.ApplicationConfig{})
	if err != nil {
		t.Fatal(err)
	}
	ObserveStage(world, app)

	var received []StageUpdatedEvent
	StageUpdatedEventType.Subscribe(world, func(w donburi.World, e StageUpdatedEvent) {
		received = append(received, e)
	})

	if err := app.Resize(320, 200); err != nil {
		t.Fatal(err)
	}
	StageUpdatedEventType.ProcessEvents(world)

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].ManifestID != flateralus.StageManifestID {
		t.Errorf("ManifestID = %q, want %q", received[0].ManifestID, flateralus.StageManifestID)
	}
	w, h := flateralus.StageSize(received[0].Values)
	if w != 320 || h != 200 {
		t.Errorf("stage size = %dx%d, want 320x200", w, h)
	}
}

func TestPublisher_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	p := NewPublisher(world)

	var count1, count2 int
	ControlsUpdatedEventType.Subscribe(world, func(w donburi.World, e ControlsUpdatedEvent) {
		count1++
	})
	ControlsUpdatedEventType.Subscribe(world, func(w donburi.World, e ControlsUpdatedEvent) {
		count2++
	})

	p.ControlsUpdated("x", flateralus.ControlValues{})
	ControlsUpdatedEventType.ProcessEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("count1=%d count2=%d, want 1 and 1", count1, count2)
	}
}
