package bough

import (
	"slices"
	"testing"
)

func newTestHierarchy(n int) *hierarchy {
	h := newHierarchy(n)
	for i := 0; i < n; i++ {
		h.push()
		h.add(uint32(i))
	}
	return &h
}

func TestHierarchyAddIsRootAndClean(t *testing.T) {
	h := newTestHierarchy(1)
	if _, ok := h.parentOf(0); ok {
		t.Error("new node should have no parent")
	}
	if h.isDirty(0) {
		t.Error("new node should not be dirty")
	}
}

func TestHierarchyAttachDetach(t *testing.T) {
	h := newTestHierarchy(4)
	const parent = 0
	for _, c := range []uint32{1, 2, 3} {
		h.setParent(c, parent)
	}
	if got := h.childrenOf(parent); !slices.Equal(got, []uint32{1, 2, 3}) {
		t.Fatalf("children = %v, want [1 2 3]", got)
	}

	remaining := []uint32{1, 2, 3}
	for _, c := range []uint32{2, 1, 3} {
		h.setParent(c, noParent)
		remaining = slices.DeleteFunc(remaining, func(s uint32) bool { return s == c })
		if got := h.childrenOf(parent); !slices.Equal(got, remaining) {
			t.Errorf("after detaching %d: children = %v, want %v", c, got, remaining)
		}
		if _, ok := h.parentOf(c); ok {
			t.Errorf("detached child %d still has a parent", c)
		}
	}
}

func TestHierarchyReparentMovesBetweenParents(t *testing.T) {
	h := newTestHierarchy(3)
	h.setParent(2, 0)
	h.setParent(2, 1)
	if len(h.childrenOf(0)) != 0 {
		t.Errorf("old parent still lists child: %v", h.childrenOf(0))
	}
	if got := h.childrenOf(1); !slices.Equal(got, []uint32{2}) {
		t.Errorf("new parent children = %v", got)
	}
	if p, _ := h.parentOf(2); p != 1 {
		t.Errorf("parent = %d, want 1", p)
	}
}

func TestHierarchySetParentMarksOnlyChildDirty(t *testing.T) {
	h := newTestHierarchy(4)
	h.setParent(1, 0)
	h.setParent(2, 0)
	h.resetAllDirty()

	h.setParent(2, 3)
	for slot, want := range []bool{false, false, true, false} {
		if got := h.isDirty(uint32(slot)); got != want {
			t.Errorf("dirty[%d] = %v, want %v", slot, got, want)
		}
	}
}

func TestHierarchyCyclePanics(t *testing.T) {
	h := newTestHierarchy(3)
	h.setParent(1, 0)
	h.setParent(2, 1)
	assertPanics(t, "cycle", func() { h.setParent(0, 2) })
	assertPanics(t, "cycle", func() { h.setParent(1, 1) })
}

func TestHierarchyParentsOrder(t *testing.T) {
	h := newTestHierarchy(4)
	h.setParent(1, 0)
	h.setParent(2, 1)
	h.setParent(3, 2)
	if got := h.parents(3); !slices.Equal(got, []uint32{2, 1, 0}) {
		t.Errorf("parents = %v, want immediate parent first [2 1 0]", got)
	}
	if got := h.parents(0); len(got) != 0 {
		t.Errorf("root parents = %v, want none", got)
	}
}

func TestHierarchyDepthFollowsReparent(t *testing.T) {
	h := newTestHierarchy(5)
	h.setParent(1, 0)
	h.setParent(2, 1)
	h.setParent(3, 4)
	h.setParent(4, 2) // moves subtree {4, 3} under depth-2 node
	for slot, want := range []int32{0, 1, 2, 4, 3} {
		if got := h.depth[slot]; got != want {
			t.Errorf("depth[%d] = %d, want %d", slot, got, want)
		}
	}
	h.setParent(4, noParent)
	if h.depth[4] != 0 || h.depth[3] != 1 {
		t.Errorf("after detach depth = %d/%d, want 0/1", h.depth[4], h.depth[3])
	}
}

func TestHierarchySlotAndDescendants(t *testing.T) {
	h := newTestHierarchy(6)
	h.setParent(1, 0)
	h.setParent(2, 0)
	h.setParent(3, 1)
	h.setParent(4, 3)
	got := h.slotAndDescendants(1)
	slices.Sort(got[1:])
	if !slices.Equal(got, []uint32{1, 3, 4}) {
		t.Errorf("slotAndDescendants(1) = %v", got)
	}
}

func TestHierarchyEachChildStops(t *testing.T) {
	h := newTestHierarchy(4)
	h.setParent(1, 0)
	h.setParent(2, 0)
	h.setParent(3, 0)
	var seen []uint32
	h.eachChild(0, func(c uint32) bool {
		seen = append(seen, c)
		return c != 2
	})
	if !slices.Equal(seen, []uint32{1, 2}) {
		t.Errorf("visited %v, want [1 2]", seen)
	}
}

func TestHierarchyRemoveUnregisters(t *testing.T) {
	h := newTestHierarchy(3)
	h.setParent(1, 0)
	h.setParent(2, 1)
	h.remove(2)
	h.remove(1)
	if len(h.childrenOf(0)) != 0 {
		t.Errorf("parent still has children: %v", h.childrenOf(0))
	}
	if got := h.orderedTransforms(); !slices.Equal(got, []uint32{0}) {
		t.Errorf("ordered = %v, want [0]", got)
	}
}

func TestOrderedTransformsSurvivesReparent(t *testing.T) {
	h := newTestHierarchy(6)
	// 5 -> 4 -> 3 chain built in reverse index order.
	h.setParent(4, 5)
	h.setParent(3, 4)
	h.setParent(1, 3)
	h.setParent(2, 0)
	h.setParent(0, 1)
	assertParentFirst(t, h, h.orderedTransforms())

	h.setParent(2, 5)
	h.setParent(4, noParent)
	assertParentFirst(t, h, h.orderedTransforms())
}

// assertParentFirst checks that order holds every registered slot exactly
// once and that each slot comes after its parent.
func assertParentFirst(t *testing.T, h *hierarchy, order []uint32) {
	t.Helper()
	pos := make(map[uint32]int, len(order))
	for i, s := range order {
		if _, dup := pos[s]; dup {
			t.Fatalf("slot %d appears twice in %v", s, order)
		}
		pos[s] = i
	}
	for i, reg := range h.registered {
		if !reg {
			continue
		}
		at, ok := pos[uint32(i)]
		if !ok {
			t.Fatalf("slot %d missing from %v", i, order)
		}
		if p, has := h.parentOf(uint32(i)); has && pos[p] > at {
			t.Errorf("slot %d at %d precedes its parent %d at %d", i, at, p, pos[p])
		}
	}
}
