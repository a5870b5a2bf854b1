package world

// ChunkSize is the edge length of a cubic chunk in blocks.
const ChunkSize = 16

// ChunkVolume is the number of blocks in a chunk.
const ChunkVolume = ChunkSize * ChunkSize * ChunkSize

// ChunkCoord is a position on the chunk grid.
type ChunkCoord struct {
	X, Y, Z int
}

// Chunk is a 16x16x16 block volume.
type Chunk struct {
	X, Y, Z int
	blocks  [ChunkVolume]BlockType
	solid   int
}

// NewChunk creates an empty chunk at the specified chunk coordinates
func NewChunk(x, y, z int) *Chunk {
	return &Chunk{X: x, Y: y, Z: z}
}

// Coord returns the chunk's grid position.
func (c *Chunk) Coord() ChunkCoord {
	return ChunkCoord{c.X, c.Y, c.Z}
}

func index(x, y, z int) int {
	return x*ChunkSize*ChunkSize + y*ChunkSize + z
}

// GetBlock returns the block at local coordinates; outside the chunk is air.
func (c *Chunk) GetBlock(x, y, z int) BlockType {
	if x < 0 || x >= ChunkSize || y < 0 || y >= ChunkSize || z < 0 || z >= ChunkSize {
		return BlockTypeAir
	}
	return c.blocks[index(x, y, z)]
}

// SetBlock sets the block at local coordinates. Out-of-range writes are ignored.
func (c *Chunk) SetBlock(x, y, z int, b BlockType) {
	if x < 0 || x >= ChunkSize || y < 0 || y >= ChunkSize || z < 0 || z >= ChunkSize {
		return
	}
	i := index(x, y, z)
	old := c.blocks[i]
	if old == b {
		return
	}
	if old == BlockTypeAir {
		c.solid++
	} else if b == BlockTypeAir {
		c.solid--
	}
	c.blocks[i] = b
}

// IsEmpty reports whether every block is air.
func (c *Chunk) IsEmpty() bool {
	return c.solid == 0
}
