package bough

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Manager owns every transform record: local data, hierarchy, names, and the
// world-matrix cache. External code only ever holds Handles.
//
// A Manager is not safe for concurrent use. All mutation and the per-frame
// UpdateWorldMatrices call are expected to come from one goroutine.
type Manager struct {
	slots slotAllocator
	names nameIndex
	tree  hierarchy
	flat  flattener

	// world is indexed by slot. It only grows in Alloc.
	world []mgl64.Mat3

	opts  Options
	log   *zap.Logger
	stats FrameStats
}

// FrameStats describes one UpdateWorldMatrices pass. Duration is only
// measured in debug mode.
type FrameStats struct {
	Recomputed int
	Duration   time.Duration
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Capacity < 0 {
		o.Capacity = 0
	}
	return &Manager{
		slots: newSlotAllocator(o.Capacity),
		names: newNameIndex(o.Capacity),
		tree:  newHierarchy(o.Capacity),
		world: make([]mgl64.Mat3, 0, o.Capacity),
		opts:  o,
		log:   o.Logger,
	}
}

// --- Lifecycle ---

// Alloc creates a root transform with the default local transform. Freed
// slots are reused most-recently-freed first.
func (m *Manager) Alloc() Handle {
	h, grown := m.slots.alloc()
	if grown {
		m.tree.push()
		m.names.push()
		m.flat.push()
		m.world = append(m.world, mgl64.Ident3())
	}
	idx := h.Index()
	m.tree.add(idx)
	m.names.add(idx)
	m.world[idx] = mgl64.Ident3()
	return h
}

// Free destroys h and its entire subtree. Every handle into the subtree
// becomes stale.
func (m *Manager) Free(h Handle) {
	idx := m.slots.index(h)
	subtree := m.tree.slotAndDescendants(idx)
	for _, s := range subtree {
		m.names.remove(s)
	}
	for _, s := range subtree {
		m.tree.remove(s)
		m.slots.dealloc(m.slots.handle(s))
	}
	if m.opts.Debug && len(subtree) > 1 {
		m.log.Debug("freed subtree", zap.Stringer("root", h), zap.Int("count", len(subtree)))
	}
}

// Valid reports whether h refers to a live transform.
func (m *Manager) Valid(h Handle) bool {
	return m.slots.valid(h)
}

// Len returns the number of live transforms.
func (m *Manager) Len() int {
	return m.slots.live()
}

// --- Local transform ---

// Local returns h's local transform.
func (m *Manager) Local(h Handle) Transform {
	return m.slots.transform(h)
}

// SetLocal replaces h's local transform and marks it dirty.
func (m *Manager) SetLocal(h Handle, t Transform) {
	*m.slots.transformMut(h) = t
	m.tree.markDirty(h.Index())
}

// Position returns h's local position.
func (m *Manager) Position(h Handle) mgl64.Vec2 {
	return m.slots.transform(h).Position
}

// Scale returns h's local scale.
func (m *Manager) Scale(h Handle) mgl64.Vec2 {
	return m.slots.transform(h).Scale
}

// Angle returns h's local rotation in degrees.
func (m *Manager) Angle(h Handle) float64 {
	return m.slots.transform(h).Angle
}

// SetPosition sets h's local position and marks it dirty.
func (m *Manager) SetPosition(h Handle, p mgl64.Vec2) {
	m.slots.transformMut(h).Position = p
	m.tree.markDirty(h.Index())
}

// SetScale sets h's local scale and marks it dirty.
func (m *Manager) SetScale(h Handle, s mgl64.Vec2) {
	m.slots.transformMut(h).Scale = s
	m.tree.markDirty(h.Index())
}

// SetAngle sets h's local rotation (in degrees) and marks it dirty.
func (m *Manager) SetAngle(h Handle, deg float64) {
	m.slots.transformMut(h).Angle = deg
	m.tree.markDirty(h.Index())
}

// Translate offsets h's local position by d.
func (m *Manager) Translate(h Handle, d mgl64.Vec2) {
	t := m.slots.transformMut(h)
	t.Position = t.Position.Add(d)
	m.tree.markDirty(h.Index())
}

// Rotate adds deg to h's local rotation.
func (m *Manager) Rotate(h Handle, deg float64) {
	m.slots.transformMut(h).Angle += deg
	m.tree.markDirty(h.Index())
}

// --- Hierarchy ---

// SetParent makes child a child of parent and marks child dirty. Panics if
// parent is child or one of its descendants.
func (m *Manager) SetParent(child, parent Handle) {
	c := m.slots.index(child)
	p := m.slots.index(parent)
	m.tree.setParent(c, p)
	if m.opts.Debug {
		m.debugCheckTreeDepth(c)
		m.debugCheckChildCount(p)
	}
}

// Detach makes h a root and marks it dirty. No-op on the hierarchy if h is
// already a root.
func (m *Manager) Detach(h Handle) {
	m.tree.setParent(m.slots.index(h), noParent)
}

// Parent returns h's parent, if any.
func (m *Manager) Parent(h Handle) (Handle, bool) {
	p, ok := m.tree.parentOf(m.slots.index(h))
	if !ok {
		return 0, false
	}
	return m.slots.handle(p), true
}

// Parents returns h's ancestors from the immediate parent outward to the root.
func (m *Manager) Parents(h Handle) []Handle {
	return m.handles(m.tree.parents(m.slots.index(h)))
}

// Children returns h's direct children in attach order.
func (m *Manager) Children(h Handle) []Handle {
	return m.handles(m.tree.childrenOf(m.slots.index(h)))
}

// Descendants returns every descendant of h, parents before children. h
// itself is not included.
func (m *Manager) Descendants(h Handle) []Handle {
	return m.handles(m.tree.slotAndDescendants(m.slots.index(h))[1:])
}

// IsAncestorOf reports whether ancestor is h itself or one of h's ancestors.
func (m *Manager) IsAncestorOf(ancestor, h Handle) bool {
	return m.tree.isAncestor(m.slots.index(ancestor), m.slots.index(h))
}

// IsDirty reports whether h's cached world matrix is known to be stale.
// Descendants of a dirty node only report dirty once UpdateWorldMatrices has
// started processing them.
func (m *Manager) IsDirty(h Handle) bool {
	return m.tree.isDirty(m.slots.index(h))
}

// MarkDirty forces h and its subtree to be recomputed on the next update.
func (m *Manager) MarkDirty(h Handle) {
	m.tree.markDirty(m.slots.index(h))
}

// OrderedTransforms returns every live transform such that each appears
// after its parent.
func (m *Manager) OrderedTransforms() []Handle {
	return m.handles(m.tree.orderedTransforms())
}

func (m *Manager) handles(slots []uint32) []Handle {
	if len(slots) == 0 {
		return nil
	}
	out := make([]Handle, len(slots))
	for i, s := range slots {
		out[i] = m.slots.handle(s)
	}
	return out
}

// --- Names ---

// SetName sets h's name. An empty name clears it.
func (m *Manager) SetName(h Handle, name string) {
	m.names.setName(m.slots.index(h), name)
}

// Name returns h's name, or "" if unnamed.
func (m *Manager) Name(h Handle) string {
	return m.names.name(m.slots.index(h))
}

// FindByName returns every live transform named name, in no particular order.
func (m *Manager) FindByName(name string) []Handle {
	if name == "" {
		return nil
	}
	return m.handles(m.names.lookup(name))
}

// FindChildrenByName walks path from root, matching one direct child name
// per segment. The first child with a matching name wins. An empty path
// resolves to root itself.
func (m *Manager) FindChildrenByName(root Handle, path []string) (Handle, bool) {
	cur := m.slots.index(root)
	for _, seg := range path {
		if seg == "" {
			return 0, false
		}
		next, found := noParent, false
		m.tree.eachChild(cur, func(c uint32) bool {
			if m.names.name(c) == seg {
				next, found = c, true
				return false
			}
			return true
		})
		if !found {
			return 0, false
		}
		cur = next
	}
	return m.slots.handle(cur), true
}

// FindPath resolves a slash separated path such as "arm/hand/finger"
// relative to root.
func (m *Manager) FindPath(root Handle, path string) (Handle, bool) {
	if path == "" {
		return root, m.slots.valid(root)
	}
	return m.FindChildrenByName(root, strings.Split(path, "/"))
}

// PathOf returns the slash separated names from h's root down to h. Unnamed
// nodes appear as "#<index>".
func (m *Manager) PathOf(h Handle) string {
	idx := m.slots.index(h)
	chain := m.tree.parents(idx)
	parts := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		parts = append(parts, m.segment(chain[i]))
	}
	parts = append(parts, m.segment(idx))
	return strings.Join(parts, "/")
}

func (m *Manager) segment(slot uint32) string {
	if n := m.names.name(slot); n != "" {
		return n
	}
	return fmt.Sprintf("#%d", slot)
}

// --- Per-frame update ---

// UpdateWorldMatrices recomputes the cached world matrix of every dirty
// transform and every descendant of one, parents first, then clears all
// dirty bits. Call it once per tick before reading WorldMatrix.
func (m *Manager) UpdateWorldMatrices() FrameStats {
	var t0 time.Time
	if m.opts.Debug {
		t0 = time.Now()
	}

	order := m.flat.flatten(&m.tree)
	for _, s := range order {
		w := localMatrix(m.slots.transforms[s])
		if p, ok := m.tree.parentOf(s); ok {
			w = m.world[p].Mul3(w)
		}
		m.world[s] = w
	}
	m.tree.resetAllDirty()

	stats := FrameStats{Recomputed: len(order)}
	if m.opts.Debug {
		stats.Duration = time.Since(t0)
		m.debugLog(stats)
	}
	m.stats = stats
	return stats
}

// SetDebug toggles debug logging and tree shape checks at runtime.
func (m *Manager) SetDebug(enabled bool) {
	m.opts.Debug = enabled
}

// LastFrame returns the stats of the most recent UpdateWorldMatrices call.
func (m *Manager) LastFrame() FrameStats {
	return m.stats
}

// WorldMatrix returns h's cached world matrix as of the last
// UpdateWorldMatrices call.
func (m *Manager) WorldMatrix(h Handle) mgl64.Mat3 {
	return m.world[m.slots.index(h)]
}

// LocalToWorld converts a point in h's local space to world space using the
// cached matrix.
func (m *Manager) LocalToWorld(h Handle, p mgl64.Vec2) mgl64.Vec2 {
	return transformPoint(m.WorldMatrix(h), p)
}

// WorldToLocal converts a world-space point into h's local space using the
// cached matrix.
func (m *Manager) WorldToLocal(h Handle, p mgl64.Vec2) mgl64.Vec2 {
	return transformPoint(invertAffine(m.WorldMatrix(h)), p)
}
