package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/flateralus"
)

// ControlsUpdatedEvent carries the full value map of an animation after a
// mutation.
type ControlsUpdatedEvent struct {
	ManifestID string
	Values     flateralus.ControlValues
}

// StageUpdatedEvent carries the full stage value map of an application after
// a mutation.
type StageUpdatedEvent struct {
	ManifestID string
	Values     flateralus.ControlValues
}

// ControlsUpdatedEventType is the Donburi event type for animation control
// changes.
var ControlsUpdatedEventType = events.NewEventType[ControlsUpdatedEvent]()

// StageUpdatedEventType is the Donburi event type for stage control changes.
var StageUpdatedEventType = events.NewEventType[StageUpdatedEvent]()

// Publisher queues control change events on a Donburi world.
type Publisher struct {
	world donburi.World
}

// NewPublisher creates a publisher for world.
func NewPublisher(world donburi.World) *Publisher {
	return &Publisher{world: world}
}

// ControlsUpdated publishes a ControlsUpdatedEvent.
func (p *Publisher) ControlsUpdated(manifestID string, values flateralus.ControlValues) {
	ControlsUpdatedEventType.Publish(p.world, ControlsUpdatedEvent{ManifestID: manifestID, Values: values})
}

// StageUpdated publishes a StageUpdatedEvent.
func (p *Publisher) StageUpdated(manifestID string, values flateralus.ControlValues) {
	StageUpdatedEventType.Publish(p.world, StageUpdatedEvent{ManifestID: manifestID, Values: values})
}

// Observe publishes every control change of anim to world.
func Observe[C any](world donburi.World, anim *flateralus.Animation[C]) *Publisher {
	p := NewPublisher(world)
	id := anim.Manifest().ID()
	anim.SetOnControlsUpdated(func(v flateralus.ControlValues) { p.ControlsUpdated(id, v) })
	return p
}

// ObserveStage publishes every stage change of app to world.
func ObserveStage[C any](world donburi.World, app *flateralus.Application[C]) *Publisher {
	p := NewPublisher(world)
	id := app.StageControlsManifest().ID()
	app.SetOnStageControlsUpdated(func(v flateralus.ControlValues) { p.StageUpdated(id, v) })
	return p
}
