package bough

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestHandleParts(t *testing.T) {
	h := newHandle(7, 3)
	if h.Index() != 7 || h.Generation() != 3 {
		t.Errorf("parts = (%d, %d), want (7, 3)", h.Index(), h.Generation())
	}
	if h.IsZero() {
		t.Error("non-zero handle reports IsZero")
	}
	if got := h.String(); got != "Handle(7:3)" {
		t.Errorf("String = %q", got)
	}
	if got := Handle(0).String(); got != "Handle(nil)" {
		t.Errorf("zero String = %q", got)
	}
}

func TestAllocDefaults(t *testing.T) {
	a := newSlotAllocator(0)
	h, grown := a.alloc()
	if !grown {
		t.Error("first alloc should grow")
	}
	if h.IsZero() {
		t.Fatal("alloc issued the zero handle")
	}
	if got := a.transform(h); got != DefaultTransform() {
		t.Errorf("transform = %+v, want default", got)
	}
}

func TestAllocReuseIsLIFO(t *testing.T) {
	a := newSlotAllocator(0)
	first := make([]Handle, 10)
	for i := range first {
		first[i], _ = a.alloc()
		if first[i].Index() != uint32(i) {
			t.Fatalf("alloc %d issued index %d", i, first[i].Index())
		}
	}
	for _, h := range first {
		a.dealloc(h)
	}
	for i := 0; i < 10; i++ {
		h, grown := a.alloc()
		if grown {
			t.Fatalf("alloc %d grew instead of reusing", i)
		}
		if want := uint32(9 - i); h.Index() != want {
			t.Errorf("realloc %d = index %d, want %d", i, h.Index(), want)
		}
	}
}

func TestReuseResetsTransform(t *testing.T) {
	a := newSlotAllocator(0)
	h, _ := a.alloc()
	a.transformMut(h).Position = mgl64.Vec2{3, 4}
	a.transformMut(h).Angle = 90
	a.dealloc(h)

	// Backing data survives until reuse.
	if a.transforms[h.Index()].Angle != 90 {
		t.Error("dealloc should not clear backing data")
	}

	h2, _ := a.alloc()
	if h2.Index() != h.Index() {
		t.Fatalf("expected slot %d to be reused, got %d", h.Index(), h2.Index())
	}
	if got := a.transform(h2); got != DefaultTransform() {
		t.Errorf("reused transform = %+v, want default", got)
	}
}

func TestStaleHandle(t *testing.T) {
	a := newSlotAllocator(0)
	h, _ := a.alloc()
	a.dealloc(h)
	if a.valid(h) {
		t.Error("freed handle reported valid")
	}
	assertPanics(t, "freed", func() { a.transform(h) })

	h2, _ := a.alloc()
	if h2 == h {
		t.Fatal("reused slot issued an identical handle")
	}
	if h2.Generation() != h.Generation()+1 {
		t.Errorf("generation = %d, want %d", h2.Generation(), h.Generation()+1)
	}
	if a.valid(h) {
		t.Error("stale handle reported valid after reuse")
	}
	assertPanics(t, "stale", func() { a.transform(h) })
}

func TestOutOfRangeHandle(t *testing.T) {
	a := newSlotAllocator(0)
	if a.valid(newHandle(5, 1)) {
		t.Error("out-of-range handle reported valid")
	}
	assertPanics(t, "out of range", func() { a.transform(newHandle(5, 1)) })
	if a.valid(0) {
		t.Error("zero handle reported valid")
	}
}

func TestLiveCount(t *testing.T) {
	a := newSlotAllocator(0)
	h1, _ := a.alloc()
	a.alloc()
	a.dealloc(h1)
	if a.len() != 2 || a.live() != 1 {
		t.Errorf("len/live = %d/%d, want 2/1", a.len(), a.live())
	}
}
