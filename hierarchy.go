package bough

import "fmt"

// noParent marks a root slot.
const noParent = ^uint32(0)

// hierarchy stores parent/child adjacency, dirty bits, and depth per slot.
// Slots are plain indices here; handle validation happens in the Manager.
type hierarchy struct {
	parent     []uint32
	children   [][]uint32
	dirty      []bool
	depth      []int32
	registered []bool

	// dirtyList holds every slot whose dirty bit went from false to true since
	// the last reset. It may contain slots that were removed afterwards.
	dirtyList []uint32
}

func newHierarchy(capacity int) hierarchy {
	return hierarchy{
		parent:     make([]uint32, 0, capacity),
		children:   make([][]uint32, 0, capacity),
		dirty:      make([]bool, 0, capacity),
		depth:      make([]int32, 0, capacity),
		registered: make([]bool, 0, capacity),
	}
}

// push grows the per-slot arrays by one entry.
func (h *hierarchy) push() {
	h.parent = append(h.parent, noParent)
	h.children = append(h.children, nil)
	h.dirty = append(h.dirty, false)
	h.depth = append(h.depth, 0)
	h.registered = append(h.registered, false)
}

// add registers slot as a parentless, non-dirty node.
func (h *hierarchy) add(slot uint32) {
	h.parent[slot] = noParent
	h.children[slot] = h.children[slot][:0]
	h.dirty[slot] = false
	h.depth[slot] = 0
	h.registered[slot] = true
}

// remove detaches slot from its parent and unregisters it. Its own child list
// is dropped; callers retire the whole subtree.
func (h *hierarchy) remove(slot uint32) {
	h.detach(slot)
	h.children[slot] = h.children[slot][:0]
	h.dirty[slot] = false
	h.registered[slot] = false
}

// detach removes slot from its parent's child list without touching depth or
// dirty state.
func (h *hierarchy) detach(slot uint32) {
	p := h.parent[slot]
	if p == noParent {
		return
	}
	kids := h.children[p]
	for i, c := range kids {
		if c == slot {
			copy(kids[i:], kids[i+1:])
			h.children[p] = kids[:len(kids)-1]
			break
		}
	}
	h.parent[slot] = noParent
}

// setParent moves slot under parent, or makes it a root when parent is
// noParent. Panics if the move would create a cycle.
func (h *hierarchy) setParent(slot, parent uint32) {
	if parent != noParent && h.isAncestor(slot, parent) {
		panic(fmt.Sprintf("bough: parenting slot %d under %d would create a cycle", slot, parent))
	}
	h.detach(slot)
	if parent != noParent {
		h.parent[slot] = parent
		h.children[parent] = append(h.children[parent], slot)
		h.depth[slot] = h.depth[parent] + 1
	} else {
		h.depth[slot] = 0
	}
	h.refreshDepth(slot)
	h.markDirty(slot)
}

// refreshDepth recomputes depth for every descendant of slot.
func (h *hierarchy) refreshDepth(slot uint32) {
	for _, c := range h.children[slot] {
		h.depth[c] = h.depth[slot] + 1
		h.refreshDepth(c)
	}
}

func (h *hierarchy) parentOf(slot uint32) (uint32, bool) {
	p := h.parent[slot]
	return p, p != noParent
}

// parents returns the ancestor chain from the immediate parent outward to the
// root.
func (h *hierarchy) parents(slot uint32) []uint32 {
	var chain []uint32
	for p := h.parent[slot]; p != noParent; p = h.parent[p] {
		chain = append(chain, p)
	}
	return chain
}

// childrenOf returns the direct children. The returned slice MUST NOT be
// mutated by the caller.
func (h *hierarchy) childrenOf(slot uint32) []uint32 {
	return h.children[slot]
}

// eachChild calls fn for every direct child until fn returns false.
func (h *hierarchy) eachChild(slot uint32, fn func(child uint32) bool) {
	for _, c := range h.children[slot] {
		if !fn(c) {
			return
		}
	}
}

// slotAndDescendants returns slot followed by its descendants, breadth-first.
func (h *hierarchy) slotAndDescendants(slot uint32) []uint32 {
	out := []uint32{slot}
	for i := 0; i < len(out); i++ {
		out = append(out, h.children[out[i]]...)
	}
	return out
}

// isAncestor reports whether candidate is slot itself or one of its ancestors.
func (h *hierarchy) isAncestor(candidate, slot uint32) bool {
	for p := slot; p != noParent; p = h.parent[p] {
		if p == candidate {
			return true
		}
	}
	return false
}

func (h *hierarchy) isDirty(slot uint32) bool {
	return h.dirty[slot]
}

func (h *hierarchy) markDirty(slot uint32) {
	if h.dirty[slot] {
		return
	}
	h.dirty[slot] = true
	h.dirtyList = append(h.dirtyList, slot)
}

// resetAllDirty clears every dirty bit set since the last reset.
func (h *hierarchy) resetAllDirty() {
	for _, s := range h.dirtyList {
		h.dirty[s] = false
	}
	h.dirtyList = h.dirtyList[:0]
}

// roots returns every registered slot without a parent, in slot order.
func (h *hierarchy) roots() []uint32 {
	var out []uint32
	for i, ok := range h.registered {
		if ok && h.parent[i] == noParent {
			out = append(out, uint32(i))
		}
	}
	return out
}

// orderedTransforms returns every registered slot such that each appears
// after its parent. It is rebuilt from the current adjacency on each call, so
// it stays valid across setParent.
func (h *hierarchy) orderedTransforms() []uint32 {
	out := make([]uint32, 0, len(h.registered))
	for _, r := range h.roots() {
		out = append(out, h.slotAndDescendants(r)...)
	}
	return out
}
