// Package bough is a 2D transform hierarchy for real-time scenes.
//
// Every object owns one transform record, addressed by a [Handle]. A record
// holds a local [Transform] (position, scale, rotation in degrees) and may be
// parented to another record, forming a forest. The [Manager] answers "where
// is this object in world space" every frame and supports reparenting,
// creation, and destruction without recomputing the whole scene.
//
// # Quick start
//
//	m := bough.NewManager()
//	ship := m.Alloc()
//	turret := m.Alloc()
//	m.SetParent(turret, ship)
//	m.SetPosition(ship, mgl64.Vec2{100, 50})
//	m.SetAngle(turret, 45)
//
//	// once per tick, before rendering:
//	m.UpdateWorldMatrices()
//	geo := m.WorldMatrix(turret)
//
// # Handles
//
// Handles are generational: freeing a record and allocating another that
// reuses its slot yields a different Handle, and any call with the old one
// panics. Use [Manager.Valid] to test a handle that may have been freed.
// Slots are reused most-recently-freed first.
//
// # Dirty tracking
//
// Every local mutation and every reparent marks the record dirty.
// [Manager.UpdateWorldMatrices] recomputes the cached world matrix of each
// dirty record and all of its descendants, parents before children, then
// clears the dirty set. [Manager.WorldPosition], [Manager.WorldScale] and
// [Manager.WorldAngle] walk the ancestor chain instead and are valid at any
// time.
//
// # Names
//
// Records can carry a non-unique name. [Manager.FindChildrenByName] and
// [Manager.FindPath] resolve child paths such as "arm/hand" the way scene
// tree lookups do in scripting layers.
//
// # Adapters
//
// Subpackages connect the manager to the rest of an engine. Property
// tweens live in this package ([TweenPosition] and friends, via [gween]);
// bough/ecs stores handles in a [Donburi] world; bough/luabind exposes the
// manager to gopher-lua scripts; bough/ebitenx converts world matrices to
// ebiten.GeoM.
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package bough
