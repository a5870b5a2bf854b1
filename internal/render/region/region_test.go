package region

import (
	"testing"

	"regionview/internal/graphics/device"
	"regionview/internal/graphics/device/devicetest"
	"regionview/internal/render/arena"
	"regionview/internal/render/chunk"

	"github.com/go-gl/mathgl/mgl32"
)

func TestChunkIndexLayout(t *testing.T) {
	if got := ChunkIndex(0, 0, 1); got != 1 {
		t.Fatalf("z stride: got %d, want 1", got)
	}
	if got := ChunkIndex(0, 1, 0); got != Length {
		t.Fatalf("y stride: got %d, want %d", got, Length)
	}
	if got := ChunkIndex(1, 0, 0); got != Length*Height {
		t.Fatalf("x stride: got %d, want %d", got, Length*Height)
	}
	if got := ChunkIndex(Width-1, Height-1, Length-1); got != Size-1 {
		t.Fatalf("last slot: got %d, want %d", got, Size-1)
	}
}

func TestKeyForChunkNegative(t *testing.T) {
	tests := []struct {
		cx, cy, cz int
		want       Key
		local      int
	}{
		{0, 0, 0, Key{0, 0, 0}, 0},
		{-1, 0, 0, Key{-1, 0, 0}, ChunkIndex(7, 0, 0)},
		{8, -5, 17, Key{1, -2, 2}, ChunkIndex(0, 3, 1)},
	}
	for _, tt := range tests {
		if got := KeyForChunk(tt.cx, tt.cy, tt.cz); got != tt.want {
			t.Fatalf("KeyForChunk(%d,%d,%d) = %v, want %v", tt.cx, tt.cy, tt.cz, got, tt.want)
		}
		if got := LocalIndex(tt.cx, tt.cy, tt.cz); got != tt.local {
			t.Fatalf("LocalIndex(%d,%d,%d) = %d, want %d", tt.cx, tt.cy, tt.cz, got, tt.local)
		}
	}
}

func testMesh(cx, cy, cz int, vertices, indices int) *chunk.MeshData {
	m := &chunk.MeshData{X: cx, Y: cy, Z: cz, Bounds: chunk.BoundsForChunk(cx, cy, cz)}
	m.Passes[chunk.PassSolid] = &chunk.PassMesh{
		Vertices: make([]byte, vertices*chunk.VertexStride),
		Indices:  make([]byte, indices*4),
	}
	m.Passes[chunk.PassSolid].Parts[chunk.FacingUp] = &chunk.ElementRange{
		ElementCount: int32(indices),
		IndexType:    device.UnsignedInt,
	}
	return m
}

func TestTessellationInvalidatedAfterGrowth(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	m := NewManager(rec, arena.Config{InitialBytes: 64, MaxBytes: 1 << 20}, nil)

	m.Upload(testMesh(0, 0, 0, 2, 6))
	r := m.Region(Key{})
	a := r.Arenas()
	tess := rec.CreateTessellation(device.Triangles, nil)
	a.SetTessellation(chunk.PassSolid, tess)

	if got := a.Tessellation(rec, chunk.PassSolid); got != tess {
		t.Fatalf("expected cached tessellation before growth")
	}

	m.Upload(testMesh(1, 0, 0, 64, 96))
	if a.VertexBuffers.Generation() == 0 {
		t.Fatalf("expected vertex arena to grow")
	}
	if got := a.Tessellation(rec, chunk.PassSolid); got != nil {
		t.Fatalf("stale tessellation returned after growth")
	}
	if rec.Count(devicetest.OpDeleteTessellation) != 1 {
		t.Fatalf("stale tessellation not deleted")
	}
}

func TestUploadReplacesSegments(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	m := NewManager(rec, arena.Config{InitialBytes: 1024, MaxBytes: 1024}, nil)

	m.Upload(testMesh(0, 0, 0, 4, 6))
	m.Upload(testMesh(0, 0, 0, 4, 6))

	s := m.Section(0, 0, 0)
	if s == nil {
		t.Fatalf("section missing after upload")
	}
	st := s.GraphicsState(chunk.PassSolid)
	if st.VertexSegment().Offset != 0 || st.IndexSegment().Offset != 0 {
		t.Fatalf("re-upload of the tail chunk should reuse offset 0, got %+v %+v",
			st.VertexSegment(), st.IndexSegment())
	}
	if s.GraphicsState(chunk.PassTranslucent) != nil {
		t.Fatalf("empty pass must not get a graphics state")
	}
}

func TestRemoveDeletesEmptyRegion(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	m := NewManager(rec, arena.Config{InitialBytes: 256, MaxBytes: 256}, nil)
	m.Upload(testMesh(3, 1, 2, 4, 6))
	if m.RegionCount() != 1 {
		t.Fatalf("regions: got %d, want 1", m.RegionCount())
	}
	m.Remove(3, 1, 2)
	if m.RegionCount() != 0 {
		t.Fatalf("empty region kept after removal")
	}
	if rec.Count(devicetest.OpDeleteBuffer) != 2 {
		t.Fatalf("arena buffers not released: %d deletes", rec.Count(devicetest.OpDeleteBuffer))
	}
}

func TestRenderListOrder(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	m := NewManager(rec, arena.DefaultConfig, nil)
	for _, c := range [][3]int{{0, 0, 0}, {2, 0, 0}, {1, 0, 0}, {9, 0, 0}} {
		m.Upload(testMesh(c[0], c[1], c[2], 4, 6))
	}

	list := NewChunkRenderList()
	m.BuildRenderList(list, nil, chunk.NewCameraContext(0, 8, 8))

	if list.Len() != 2 {
		t.Fatalf("regions: got %d, want 2", list.Len())
	}
	front := list.Sorted(false)
	if front[0].Region.Key() != (Key{}) {
		t.Fatalf("nearest region not first: %v", front[0].Region.Key())
	}
	var xs []int
	for _, s := range front[0].Sections {
		xs = append(xs, s.X)
	}
	if len(xs) != 3 || xs[0] != 0 || xs[1] != 1 || xs[2] != 2 {
		t.Fatalf("sections not front to back: %v", xs)
	}

	back := list.Sorted(true)
	if back[0].Region.Key() != (Key{1, 0, 0}) {
		t.Fatalf("translucent order should start with the farthest region, got %v", back[0].Region.Key())
	}
}

func TestRenderListFrustumCulls(t *testing.T) {
	rec := devicetest.NewRecorder(0)
	m := NewManager(rec, arena.DefaultConfig, nil)
	m.Upload(testMesh(0, 0, 0, 4, 6))
	m.Upload(testMesh(0, 0, -4, 4, 6))

	f := &Frustum{}
	// Single plane keeping z >= 0.
	f.planes[0] = mgl32.Vec4{0, 0, 1, 0}
	for i := 1; i < len(f.planes); i++ {
		f.planes[i] = mgl32.Vec4{0, 0, 0, 1}
	}

	list := NewChunkRenderList()
	m.BuildRenderList(list, f, chunk.NewCameraContext(0, 0, 0))
	total := 0
	for _, e := range list.Sorted(false) {
		total += len(e.Sections)
	}
	if total != 1 {
		t.Fatalf("visible sections: got %d, want 1", total)
	}
}

func TestFrustumFromPerspective(t *testing.T) {
	projection := mgl32.Perspective(mgl32.DegToRad(70), 1, 0.1, 500)
	view := mgl32.LookAtV(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := NewFrustum(projection.Mul4(view))

	if !f.IntersectsBounds(chunk.BoundsForChunk(0, 0, -3)) {
		t.Fatalf("chunk in front of the camera must be visible")
	}
	if f.IntersectsBounds(chunk.BoundsForChunk(0, 0, 3)) {
		t.Fatalf("chunk behind the camera must be culled")
	}
	var none *Frustum
	if !none.IntersectsBounds(chunk.BoundsForChunk(0, 0, 3)) {
		t.Fatalf("nil frustum accepts everything")
	}
}
