package ddcore

import "testing"

type intState int

func (s intState) Key() any { return int(s) }

func TestHandleCloneSharesRefCount(t *testing.T) {
	h := NewHandle(intState(7))
	if h.RefCount() != 1 {
		t.Fatalf("expected refcount 1, got %d", h.RefCount())
	}
	c := h.Clone()
	if h.RefCount() != 2 || c.RefCount() != 2 {
		t.Fatalf("expected refcount 2 after clone, got h=%d c=%d", h.RefCount(), c.RefCount())
	}
	if c.State() != h.State() {
		t.Fatalf("clone should share the same underlying state")
	}
	c.Release()
	if h.RefCount() != 1 {
		t.Fatalf("expected refcount 1 after release, got %d", h.RefCount())
	}
	h.Release()
	if h.RefCount() != 0 {
		t.Fatalf("expected refcount 0 after final release, got %d", h.RefCount())
	}
}

func TestHandleOverReleasePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on over-release")
		}
	}()
	h := NewHandle(intState(1))
	h.Release()
	h.Release()
}

func TestHandleKeyDelegatesToState(t *testing.T) {
	h := NewHandle(intState(42))
	if h.Key() != 42 {
		t.Fatalf("expected key 42, got %v", h.Key())
	}
}
