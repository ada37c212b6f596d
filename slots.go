package bough

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Handle identifies one transform record. The lower 32 bits hold the slot
// index and the upper 32 bits hold the generation the slot had when the handle
// was issued. The zero Handle is never issued.
type Handle uint64

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

// Index returns the dense slot index.
func (h Handle) Index() uint32 { return uint32(h) }

// Generation returns the slot generation captured in the handle.
func (h Handle) Generation() uint32 { return uint32(h >> 32) }

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h == 0 }

func (h Handle) String() string {
	if h.IsZero() {
		return "Handle(nil)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.Index(), h.Generation())
}

// Transform is a local 2D transform: position and scale relative to the
// parent, and rotation in degrees.
type Transform struct {
	Position mgl64.Vec2
	Scale    mgl64.Vec2
	Angle    float64
}

// DefaultTransform returns the identity transform: position (0,0), scale
// (1,1), angle 0.
func DefaultTransform() Transform {
	return Transform{Scale: mgl64.Vec2{1, 1}}
}

// slotAllocator owns the local transform data. Freed slots are reused in
// LIFO order and their generation is bumped on every reissue.
type slotAllocator struct {
	transforms  []Transform
	generations []uint32
	alive       []bool
	freeList    []uint32
}

func newSlotAllocator(capacity int) slotAllocator {
	return slotAllocator{
		transforms:  make([]Transform, 0, capacity),
		generations: make([]uint32, 0, capacity),
		alive:       make([]bool, 0, capacity),
	}
}

// alloc issues a handle. grown is true when a brand new slot was appended
// rather than a freed one reused.
func (a *slotAllocator) alloc() (h Handle, grown bool) {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.transforms[idx] = DefaultTransform()
		a.generations[idx]++
		a.alive[idx] = true
		return newHandle(idx, a.generations[idx]), false
	}
	idx := uint32(len(a.transforms))
	a.transforms = append(a.transforms, DefaultTransform())
	a.generations = append(a.generations, 1)
	a.alive = append(a.alive, true)
	return newHandle(idx, 1), true
}

// dealloc retires h. Backing data is left untouched until the slot is reused.
func (a *slotAllocator) dealloc(h Handle) {
	idx := a.index(h)
	a.alive[idx] = false
	a.freeList = append(a.freeList, idx)
}

// valid reports whether h refers to a live slot of the same generation.
func (a *slotAllocator) valid(h Handle) bool {
	idx := h.Index()
	if h.IsZero() || int(idx) >= len(a.transforms) {
		return false
	}
	return a.alive[idx] && a.generations[idx] == h.Generation()
}

// index validates h and returns its slot. Panics on out-of-range, freed or
// stale handles.
func (a *slotAllocator) index(h Handle) uint32 {
	idx := h.Index()
	if int(idx) >= len(a.transforms) {
		panic(fmt.Sprintf("bough: %v out of range (%d slots)", h, len(a.transforms)))
	}
	if !a.alive[idx] {
		panic(fmt.Sprintf("bough: %v refers to a freed slot", h))
	}
	if a.generations[idx] != h.Generation() {
		panic(fmt.Sprintf("bough: stale %v (slot is at generation %d)", h, a.generations[idx]))
	}
	return idx
}

// handle rebuilds the current handle for a live slot.
func (a *slotAllocator) handle(idx uint32) Handle {
	return newHandle(idx, a.generations[idx])
}

func (a *slotAllocator) transform(h Handle) Transform {
	return a.transforms[a.index(h)]
}

func (a *slotAllocator) transformMut(h Handle) *Transform {
	return &a.transforms[a.index(h)]
}

// len returns the number of slots ever created, live or free.
func (a *slotAllocator) len() int {
	return len(a.transforms)
}

// live returns the number of slots currently issued.
func (a *slotAllocator) live() int {
	return len(a.transforms) - len(a.freeList)
}
