package bough

import "slices"

// flattener turns the hierarchy's dirty bits into a visiting order in which
// every node appears after its parent. The order covers every dirty node and
// every descendant of a dirty node.
//
// Seeds are bucketed by depth and expanded shallowest first, so a seed whose
// ancestor is also dirty has already been emitted by the time its bucket is
// reached. Each cycle costs O(seeds + emitted + max depth).
type flattener struct {
	processed []bool
	order     []uint32
	buckets   [][]uint32
}

// push grows the scratch state by one slot.
func (f *flattener) push() {
	f.processed = append(f.processed, false)
	if cap(f.order) < len(f.processed) {
		f.order = slices.Grow(f.order, len(f.processed)-len(f.order))
	}
}

// flatten computes the visiting order for the current dirty set and marks
// every emitted descendant dirty. The returned slice is reused by the next
// call.
func (f *flattener) flatten(h *hierarchy) []uint32 {
	for _, s := range f.order {
		f.processed[s] = false
	}
	f.order = f.order[:0]
	for i := range f.buckets {
		f.buckets[i] = f.buckets[i][:0]
	}

	for _, s := range h.dirtyList {
		if !h.registered[s] || !h.dirty[s] {
			continue
		}
		d := int(h.depth[s])
		for len(f.buckets) <= d {
			f.buckets = append(f.buckets, nil)
		}
		f.buckets[d] = append(f.buckets[d], s)
	}

	for _, seeds := range f.buckets {
		for _, s := range seeds {
			if !f.processed[s] {
				f.emit(h, s)
			}
		}
	}
	return f.order
}

// emit appends the unprocessed part of s's subtree breadth-first.
func (f *flattener) emit(h *hierarchy, s uint32) {
	start := len(f.order)
	f.processed[s] = true
	f.order = append(f.order, s)
	for i := start; i < len(f.order); i++ {
		for _, c := range h.children[f.order[i]] {
			if f.processed[c] {
				continue
			}
			f.processed[c] = true
			h.markDirty(c)
			f.order = append(f.order, c)
		}
	}
}
