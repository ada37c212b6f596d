package ecs

import (
	"fmt"

	"github.com/phanxgames/bough"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// Transform is the Donburi component holding an entity's transform handle.
var Transform = donburi.NewComponentType[bough.Handle]()

var withTransform = query.NewQuery(filter.Contains(Transform))

// Pruned is published once per entity removed by Prune or Despawn.
// Subscribe to it to release resources tied to the entity, then drain the
// queue with events.ProcessAllEvents.
type Pruned struct {
	Entity donburi.Entity
	Handle bough.Handle
}

// PrunedEventType is the Donburi event type for Pruned.
var PrunedEventType = events.NewEventType[Pruned]()

// Spawn creates an entity with a freshly allocated transform. If parent is
// non-nil the new transform is attached to the parent's transform. Panics
// before creating anything if parent's handle is stale.
func Spawn(w donburi.World, m *bough.Manager, parent *donburi.Entry) *donburi.Entry {
	var ph bough.Handle
	if parent != nil {
		ph = HandleOf(parent)
		if !m.Valid(ph) {
			panic(fmt.Sprintf("bough/ecs: parent entity holds stale %v", ph))
		}
	}
	entry := w.Entry(w.Create(Transform))
	h := m.Alloc()
	Transform.SetValue(entry, h)
	if parent != nil {
		m.SetParent(h, ph)
	}
	return entry
}

// HandleOf returns the transform handle stored on entry.
func HandleOf(entry *donburi.Entry) bough.Handle {
	return *Transform.Get(entry)
}

// Despawn frees entry's transform subtree and removes every entity that
// referenced a transform in it, entry included.
func Despawn(w donburi.World, m *bough.Manager, entry *donburi.Entry) {
	if h := HandleOf(entry); m.Valid(h) {
		m.Free(h)
	}
	Prune(w, m)
}

// Prune removes every entity whose transform handle is no longer valid and
// returns how many were removed.
func Prune(w donburi.World, m *bough.Manager) int {
	var stale []Pruned
	withTransform.Each(w, func(e *donburi.Entry) {
		if h := HandleOf(e); !m.Valid(h) {
			stale = append(stale, Pruned{Entity: e.Entity(), Handle: h})
		}
	})
	for _, p := range stale {
		w.Remove(p.Entity)
		PrunedEventType.Publish(w, p)
	}
	return len(stale)
}

// UpdateSystem returns a system that refreshes the manager's world matrices.
// Run it once per tick before any system that reads WorldMatrix.
func UpdateSystem(m *bough.Manager) func(w donburi.World) {
	return func(donburi.World) {
		m.UpdateWorldMatrices()
	}
}
