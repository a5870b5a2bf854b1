package batch

import (
	"testing"

	"regionview/internal/graphics/device"
	"regionview/internal/render/arena"
	"regionview/internal/render/chunk"
)

// fullSection builds a section with every facing present, each facing one quad.
func fullSection(cx, cy, cz, regionIndex int, vertexOffset, indexOffset int, t device.IndexType) *chunk.Section {
	var parts [chunk.FacingCount]*chunk.ElementRange
	for f := 0; f < chunk.FacingCount; f++ {
		parts[f] = &chunk.ElementRange{
			ElementPointer: f * 6 * t.Stride(),
			ElementCount:   6,
			BaseVertex:     int32(f * 4),
			IndexType:      t,
		}
	}
	s := chunk.NewSection(cx, cy, cz, regionIndex)
	vseg := arena.Segment{Offset: vertexOffset, Length: 28 * chunk.VertexStride}
	iseg := arena.Segment{Offset: indexOffset, Length: 42 * t.Stride()}
	for _, p := range chunk.Passes {
		s.SetGraphicsState(p, chunk.NewGraphicsState(vseg, iseg, parts))
	}
	return s
}

func TestBuildParallelArraysEqualLength(t *testing.T) {
	a := NewAssembler(false)
	sections := []*chunk.Section{
		fullSection(0, 0, 0, 0, 0, 0, device.UnsignedShort),
		fullSection(1, 0, 0, 32, 28*chunk.VertexStride, 84, device.UnsignedShort),
		fullSection(2, 0, 0, 64, 56*chunk.VertexStride, 168, device.UnsignedByte),
	}
	if !a.Build(sections, chunk.PassSolid, chunk.NewCameraContext(8, 8, 8)) {
		t.Fatalf("expected a non-empty batch")
	}
	for _, it := range device.IndexTypes {
		b := a.Batch(it)
		if len(b.Pointers()) != b.Len() || len(b.BaseVertices()) != b.Len() || len(b.Segments()) != b.Len() {
			t.Fatalf("%s: parallel arrays differ in length", it)
		}
	}
	if got := a.Batch(device.UnsignedShort).Len(); got != 2*chunk.FacingCount {
		t.Fatalf("u16 entries: got %d, want %d", got, 2*chunk.FacingCount)
	}
	if got := a.Batch(device.UnsignedByte).Len(); got != chunk.FacingCount {
		t.Fatalf("u8 entries: got %d, want %d", got, chunk.FacingCount)
	}
}

func TestBuildEntryOffsets(t *testing.T) {
	a := NewAssembler(false)
	s := fullSection(0, 0, 0, 5, 10*chunk.VertexStride, 100, device.UnsignedInt)
	a.Build([]*chunk.Section{s}, chunk.PassSolid, chunk.CameraContext{})

	b := a.Batch(device.UnsignedInt)
	// Unassigned first: element pointer 6*6*4, base vertex 6*4.
	if b.Pointers()[0] != uintptr(100+6*6*4) {
		t.Fatalf("pointer: got %d", b.Pointers()[0])
	}
	if b.BaseVertices()[0] != 10+24 {
		t.Fatalf("base vertex: got %d, want 34", b.BaseVertices()[0])
	}
	if b.Segments()[0] != 5 {
		t.Fatalf("segment tag: got %d, want 5", b.Segments()[0])
	}
}

func TestFaceCullingEastWest(t *testing.T) {
	a := NewAssembler(true)
	s := fullSection(0, 0, 0, 0, 0, 0, device.UnsignedInt)
	// Inside the chunk on Y and Z so both faces of those axes pass.
	a.Build([]*chunk.Section{s}, chunk.PassSolid, chunk.NewCameraContext(20, 8, 8))

	b := a.Batch(device.UnsignedInt)
	has := func(f chunk.Facing) bool {
		want := uintptr(int(f) * 6 * 4)
		for _, p := range b.Pointers() {
			if p == want {
				return true
			}
		}
		return false
	}
	if !has(chunk.FacingEast) {
		t.Fatalf("east facing must be drawn when the camera is past x1")
	}
	if has(chunk.FacingWest) {
		t.Fatalf("west facing must be culled when the camera is past x2")
	}
	if !has(chunk.FacingUnassigned) {
		t.Fatalf("unassigned facing is never culled")
	}
	if b.Len() != 6 {
		t.Fatalf("entries: got %d, want 6", b.Len())
	}
}

func TestTranslucentReversesAndSkipsCulling(t *testing.T) {
	a := NewAssembler(true)
	sections := []*chunk.Section{
		fullSection(0, 0, 0, 1, 0, 0, device.UnsignedInt),
		fullSection(1, 0, 0, 2, 28*chunk.VertexStride, 168, device.UnsignedInt),
	}
	a.Build(sections, chunk.PassTranslucent, chunk.NewCameraContext(20, 8, 8))

	b := a.Batch(device.UnsignedInt)
	if b.Len() != 2*chunk.FacingCount {
		t.Fatalf("translucent entries: got %d, want %d", b.Len(), 2*chunk.FacingCount)
	}
	if b.Segments()[0] != 2 || b.Segments()[b.Len()-1] != 1 {
		t.Fatalf("translucent chunks not in reverse order: %v", b.Segments())
	}
}

func TestEmptyRegion(t *testing.T) {
	a := NewAssembler(true)
	sections := []*chunk.Section{chunk.NewSection(0, 0, 0, 0)}
	if a.Build(sections, chunk.PassSolid, chunk.CameraContext{}) {
		t.Fatalf("sections without graphics state must produce an empty batch")
	}
	if a.Build(nil, chunk.PassTranslucent, chunk.CameraContext{}) {
		t.Fatalf("no sections must produce an empty batch")
	}
}

func TestBuildClearsPreviousFrame(t *testing.T) {
	a := NewAssembler(false)
	s := fullSection(0, 0, 0, 0, 0, 0, device.UnsignedShort)
	a.Build([]*chunk.Section{s}, chunk.PassSolid, chunk.CameraContext{})
	a.Build([]*chunk.Section{s}, chunk.PassSolid, chunk.CameraContext{})
	if got := a.Batch(device.UnsignedShort).Len(); got != chunk.FacingCount {
		t.Fatalf("entries after rebuild: got %d, want %d", got, chunk.FacingCount)
	}
}

func BenchmarkBuild(b *testing.B) {
	a := NewAssembler(true)
	sections := make([]*chunk.Section, 0, 256)
	for i := 0; i < 256; i++ {
		sections = append(sections, fullSection(i%8, (i/8)%4, i/32, i, i*28*chunk.VertexStride, i*168, device.UnsignedInt))
	}
	camera := chunk.NewCameraContext(64, 32, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a.Build(sections, chunk.PassSolid, camera)
	}
}
