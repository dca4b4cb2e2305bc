// Package ecs bridges flateralus control changes into a [Donburi] world.
//
// [Observe] registers an animation observer that publishes a
// [ControlsUpdatedEvent] for every successful control mutation;
// [ObserveStage] does the same for an application's stage values. ECS
// systems subscribe to [ControlsUpdatedEventType] or [StageUpdatedEventType]
// and drain the queue with ProcessEvents once per frame.
//
// Usage:
//
//	ecs.Observe(world, anim)
//	ecs.ControlsUpdatedEventType.Subscribe(world, func(w donburi.World, e ecs.ControlsUpdatedEvent) {
//		// react to e.Values
//	})
//
// Registering replaces the single observer slot of the animation or
// application.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
