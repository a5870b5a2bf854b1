package world

import "math"

// Generator fills chunks from a noise heightmap, flooding everything below
// sea level with water and scattering glass pillars over dry land.
type Generator struct {
	seed        int64
	scale       float64
	baseHeight  int
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
	seaLevel    int
	glass       bool
}

// NewGenerator creates a generator with default terrain shape.
func NewGenerator(seed int64, seaLevel int, glass bool) *Generator {
	return &Generator{
		seed:        seed,
		scale:       1.0 / 48.0,
		baseHeight:  12,
		amp:         28,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
		seaLevel:    seaLevel,
		glass:       glass,
	}
}

// HeightAt computes the surface height (block Y) at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := octaveNoise2D(float64(worldX)*g.scale, float64(worldZ)*g.scale, g.seed, g.octaves, g.persistence, g.lacunarity)
	return max(int(math.Floor(float64(g.baseHeight)+n*g.amp)), 0)
}

// SeaLevel returns the water surface height.
func (g *Generator) SeaLevel() int {
	return g.seaLevel
}

// pillarAt reports whether a glass pillar stands on column (x, z).
func (g *Generator) pillarAt(worldX, worldZ int) bool {
	return g.glass && hash2(int64(worldX), int64(worldZ), g.seed^0x5DEECE66D)%97 == 0
}

// PopulateChunk fills c.
func (g *Generator) PopulateChunk(c *Chunk) {
	baseY := c.Y * ChunkSize
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			wx := c.X*ChunkSize + lx
			wz := c.Z*ChunkSize + lz
			height := g.HeightAt(wx, wz)
			pillar := g.pillarAt(wx, wz) && height >= g.seaLevel

			for ly := range ChunkSize {
				wy := baseY + ly
				c.SetBlock(lx, ly, lz, g.blockAt(wy, height, pillar))
			}
		}
	}
}

func (g *Generator) blockAt(wy, height int, pillar bool) BlockType {
	switch {
	case wy < height-3:
		return BlockTypeStone
	case wy < height:
		return BlockTypeDirt
	case wy == height && height < g.seaLevel+1:
		return BlockTypeSand
	case wy == height:
		return BlockTypeGrass
	case wy <= g.seaLevel:
		return BlockTypeWater
	case pillar && wy <= height+4:
		return BlockTypeGlass
	case pillar && wy == height+5:
		return BlockTypeLeaves
	default:
		return BlockTypeAir
	}
}
