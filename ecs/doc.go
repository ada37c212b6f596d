// Package ecs stores bough transform handles in a [Donburi] world.
//
// Entities spawned with [Spawn] carry a [Transform] component holding a
// bough.Handle. Game logic reads and writes spatial data through the shared
// *bough.Manager; [Despawn] frees the entity's transform subtree and removes
// every entity whose handle went stale with it, publishing a [Pruned] event
// for each.
//
// Usage:
//
//	world := donburi.NewWorld()
//	m := bough.NewManager()
//	ship := ecs.Spawn(world, m, nil)
//	turret := ecs.Spawn(world, m, ship)
//	m.SetAngle(ecs.HandleOf(turret), 30)
//
//	// once per tick
//	ecs.UpdateSystem(m)(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
