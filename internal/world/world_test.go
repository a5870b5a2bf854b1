package world

import "testing"

func TestChunkSolidCount(t *testing.T) {
	c := NewChunk(0, 0, 0)
	if !c.IsEmpty() {
		t.Fatalf("new chunk must be empty")
	}
	c.SetBlock(1, 2, 3, BlockTypeStone)
	c.SetBlock(1, 2, 3, BlockTypeGlass)
	if c.IsEmpty() {
		t.Fatalf("chunk with a block must not be empty")
	}
	c.SetBlock(1, 2, 3, BlockTypeAir)
	if !c.IsEmpty() {
		t.Errorf("clearing the only block must empty the chunk")
	}
	if b := c.GetBlock(-1, 0, 0); b != BlockTypeAir {
		t.Errorf("out of range read: got %v, want air", b)
	}
}

func TestWorldBlockNegativeCoordinates(t *testing.T) {
	w := New(nil)
	coord := w.SetBlock(-1, -17, 5, BlockTypeWater)
	if coord != (ChunkCoord{-1, -2, 0}) {
		t.Fatalf("chunk coord: got %v", coord)
	}
	if b := w.Block(-1, -17, 5); b != BlockTypeWater {
		t.Errorf("Expected water at -1,-17,5, got %v", b)
	}
	if b := w.Block(-1, -16, 5); b != BlockTypeAir {
		t.Errorf("Expected air at -1,-16,5, got %v", b)
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(42, 20, true)
	b := NewGenerator(42, 20, true)
	for i := 0; i < 100; i++ {
		x, z := i*17-800, i*31-400
		if a.HeightAt(x, z) != b.HeightAt(x, z) {
			t.Fatalf("HeightAt(%d,%d) differs between identical generators", x, z)
		}
	}
}

func TestGeneratorFloodsBelowSeaLevel(t *testing.T) {
	g := NewGenerator(7, 20, false)
	// A column whose surface is under water.
	var wx, wz int
	found := false
	for i := 0; i < 4096 && !found; i++ {
		wx, wz = i%64, i/64
		found = g.HeightAt(wx, wz) < g.SeaLevel()-1
	}
	if !found {
		t.Skip("no submerged column in sampled area")
	}
	if b := g.blockAt(g.SeaLevel(), g.HeightAt(wx, wz), false); b != BlockTypeWater {
		t.Errorf("Expected water at sea level above submerged column, got %v", b)
	}
}

func TestGenerateSkipsEmptyChunks(t *testing.T) {
	w := New(NewGenerator(1, 20, true))
	coords := w.Generate(ChunkCoord{0, 0, 0}, ChunkCoord{0, 8, 0})
	if w.ChunkCount() != 9 {
		t.Fatalf("chunks stored: got %d, want 9", w.ChunkCount())
	}
	for _, c := range coords {
		if w.GetChunk(c).IsEmpty() {
			t.Errorf("Generate returned empty chunk %v", c)
		}
	}
	// Terrain never reaches y = 128.
	for _, c := range coords {
		if c.Y == 8 {
			t.Errorf("unexpected terrain in chunk %v", c)
		}
	}
}

func TestBlockClassification(t *testing.T) {
	if !BlockTypeWater.IsTranslucent() || !BlockTypeGlass.IsTranslucent() {
		t.Errorf("water and glass must be translucent")
	}
	if BlockTypeWater.IsOpaque() || !BlockTypeStone.IsOpaque() {
		t.Errorf("opacity classification wrong")
	}
	if !BlockTypeLeaves.IsCutout() {
		t.Errorf("leaves must be cutout")
	}
}

func BenchmarkPopulateChunk(b *testing.B) {
	g := NewGenerator(1337, 24, true)
	ch := NewChunk(0, 1, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.PopulateChunk(ch)
	}
}
