package arena

import (
	"bytes"
	"testing"

	"regionview/internal/graphics/device/devicetest"
)

func TestAllocAlignsOffsets(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	a := New(rec, "vertex", Config{InitialBytes: 64, MaxBytes: 64}, nil)

	first, ok := a.Alloc(3, 1)
	if !ok || first.Offset != 0 {
		t.Fatalf("first alloc: got %+v ok=%v", first, ok)
	}
	second, ok := a.Alloc(8, 16)
	if !ok || second.Offset != 16 {
		t.Fatalf("aligned alloc: got offset %d, want 16", second.Offset)
	}
	if a.Used() != 24 {
		t.Fatalf("used: got %d, want 24", a.Used())
	}
}

func TestGrowReplacesBufferAndKeepsContents(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	a := New(rec, "index", Config{InitialBytes: 8, MaxBytes: 1024}, nil)
	oldID := a.BufferObject().ID

	seg, _ := a.Alloc(4, 4)
	a.Upload(seg, []byte{1, 2, 3, 4})

	if _, ok := a.Alloc(20, 4); !ok {
		t.Fatalf("expected growth to succeed")
	}
	if a.Generation() != 1 {
		t.Fatalf("generation: got %d, want 1", a.Generation())
	}
	if a.BufferObject().ID == oldID {
		t.Fatalf("expected a new buffer object after growth")
	}
	if a.Capacity() != 32 {
		t.Fatalf("capacity: got %d, want 32", a.Capacity())
	}
	if got := rec.Bytes(a.BufferObject())[:4]; !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("contents not copied on growth: %v", got)
	}
}

func TestAllocFailsBeyondMax(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	a := New(rec, "vertex", Config{InitialBytes: 16, MaxBytes: 32}, nil)
	if _, ok := a.Alloc(64, 1); ok {
		t.Fatalf("expected allocation beyond max capacity to fail")
	}
	if a.Generation() != 0 {
		t.Fatalf("failed allocation must not replace the buffer")
	}
}

func TestFreeReclaimsTailOnly(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	a := New(rec, "vertex", Config{InitialBytes: 64, MaxBytes: 64}, nil)
	first, _ := a.Alloc(8, 1)
	second, _ := a.Alloc(8, 1)

	a.Free(second)
	if a.Used() != 8 {
		t.Fatalf("tail free: used %d, want 8", a.Used())
	}
	a.Alloc(8, 1)
	a.Free(first)
	if a.FragmentedBytes() != 8 {
		t.Fatalf("fragmented: got %d, want 8", a.FragmentedBytes())
	}
}
