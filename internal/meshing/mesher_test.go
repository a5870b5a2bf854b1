package meshing

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"regionview/internal/graphics/device"
	"regionview/internal/render/chunk"
	"regionview/internal/render/region"
	"regionview/internal/world"
)

func singleBlockWorld(b world.BlockType) *world.World {
	w := world.New(nil)
	w.SetBlock(3, 4, 5, b)
	return w
}

func TestSingleBlockMesh(t *testing.T) {
	w := singleBlockWorld(world.BlockTypeStone)
	mesh, err := BuildSectionMesh(w, world.ChunkCoord{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	solid := mesh.Passes[chunk.PassSolid]
	if solid.IsEmpty() {
		t.Fatalf("solid pass must not be empty")
	}
	if !mesh.Passes[chunk.PassTranslucent].IsEmpty() {
		t.Fatalf("stone must not produce translucent geometry")
	}
	if got := len(solid.Vertices) / chunk.VertexStride; got != 24 {
		t.Fatalf("vertices: got %d, want 24", got)
	}
	for _, f := range chunk.Directions {
		part := solid.Parts[f]
		if part == nil {
			t.Fatalf("facing %s missing", f)
		}
		if part.ElementCount != 6 || part.IndexType != device.UnsignedByte {
			t.Fatalf("facing %s: got %+v", f, part)
		}
		if part.ElementPointer%4 != 0 {
			t.Fatalf("facing %s pointer %d not 4-byte aligned", f, part.ElementPointer)
		}
	}
	if solid.Parts[chunk.FacingUnassigned] != nil {
		t.Fatalf("cube faces are never unassigned")
	}
}

func TestGreedyMergesOpaqueFaces(t *testing.T) {
	w := world.New(nil)
	for x := 0; x < 4; x++ {
		w.SetBlock(x, 0, 0, world.BlockTypeStone)
	}
	mesh, _ := BuildSectionMesh(w, world.ChunkCoord{})
	up := mesh.Passes[chunk.PassSolid].Parts[chunk.FacingUp]
	if up.ElementCount != 6 {
		t.Fatalf("four stones in a row should share one top quad, got %d indices", up.ElementCount)
	}
}

func TestTranslucentFacesStayPerBlock(t *testing.T) {
	w := world.New(nil)
	for x := 0; x < 4; x++ {
		w.SetBlock(x, 0, 0, world.BlockTypeWater)
	}
	mesh, _ := BuildSectionMesh(w, world.ChunkCoord{})
	pm := mesh.Passes[chunk.PassTranslucent]
	up := pm.Parts[chunk.FacingUp]
	if up.ElementCount != 4*6 {
		t.Fatalf("translucent top faces: got %d indices, want 24", up.ElementCount)
	}
	for _, f := range chunk.Directions {
		part := pm.Parts[f]
		if part == nil {
			continue
		}
		if part.IndexType != device.UnsignedInt || part.BaseVertex != 0 {
			t.Fatalf("translucent facing %s must use chunk-relative u32 indices: %+v", f, part)
		}
	}
	// Indices of later facings address vertices past the first facing.
	down := pm.Parts[chunk.FacingDown]
	first := binary.LittleEndian.Uint32(pm.Indices[down.ElementPointer:])
	if first < 16 {
		t.Fatalf("down facing indices must be offset past up facing vertices, got %d", first)
	}
}

func TestVerticesCarryRegionChunkIndex(t *testing.T) {
	w := world.New(nil)
	w.SetBlock(16*3+1, 16*2+1, 16*5+1, world.BlockTypeGlass)
	mesh, _ := BuildSectionMesh(w, world.ChunkCoord{X: 3, Y: 2, Z: 5})
	_, idx := chunk.DecodePosition(mesh.Passes[chunk.PassTranslucent].Vertices)
	if want := uint16(region.LocalIndex(3, 2, 5)); idx != want {
		t.Fatalf("chunk index: got %d, want %d", idx, want)
	}
}

func TestHiddenFacesAreSkipped(t *testing.T) {
	w := world.New(nil)
	w.SetBlock(0, 0, 0, world.BlockTypeStone)
	w.SetBlock(1, 0, 0, world.BlockTypeStone)
	mesh, _ := BuildSectionMesh(w, world.ChunkCoord{})
	east := mesh.Passes[chunk.PassSolid].Parts[chunk.FacingEast]
	if east.ElementCount != 6 {
		t.Fatalf("only the outer east face should remain, got %d indices", east.ElementCount)
	}
}

func TestBuildSectionMeshMissingChunk(t *testing.T) {
	_, err := BuildSectionMesh(world.New(nil), world.ChunkCoord{X: 9})
	if !errors.Is(err, ErrChunkMissing) {
		t.Fatalf("got %v, want ErrChunkMissing", err)
	}
}

func TestWorkerPoolMeshAll(t *testing.T) {
	w := world.New(world.NewGenerator(3, 20, true))
	coords := w.Generate(world.ChunkCoord{X: 0, Y: 0, Z: 0}, world.ChunkCoord{X: 1, Y: 2, Z: 1})

	pool := NewWorkerPool(3, 4)
	defer pool.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	results, err := pool.MeshAll(ctx, w, coords)
	if err != nil {
		t.Fatalf("MeshAll: %v", err)
	}
	if len(results) != len(coords) {
		t.Fatalf("results: got %d, want %d", len(results), len(coords))
	}
	for _, r := range results {
		if r.Error != nil || r.Mesh == nil {
			t.Fatalf("chunk %v: mesh %v err %v", r.Coord, r.Mesh, r.Error)
		}
	}
}

func BenchmarkBuildSectionMesh(b *testing.B) {
	w := world.New(world.NewGenerator(1337, 24, true))
	w.Generate(world.ChunkCoord{X: -1, Y: 0, Z: -1}, world.ChunkCoord{X: 1, Y: 2, Z: 1})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = BuildSectionMesh(w, world.ChunkCoord{X: 0, Y: 1, Z: 0})
	}
}
