package world

// BlockType identifies the material of one block.
type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeStone
	BlockTypeDirt
	BlockTypeGrass
	BlockTypeSand
	BlockTypeLeaves
	BlockTypeWater
	BlockTypeGlass
)

// IsOpaque reports whether the block hides the faces of its neighbours.
func (b BlockType) IsOpaque() bool {
	switch b {
	case BlockTypeStone, BlockTypeDirt, BlockTypeGrass, BlockTypeSand:
		return true
	}
	return false
}

// IsTranslucent reports whether the block is blended and must be drawn back to front.
func (b BlockType) IsTranslucent() bool {
	return b == BlockTypeWater || b == BlockTypeGlass
}

// IsCutout reports whether the block is alpha tested.
func (b BlockType) IsCutout() bool {
	return b == BlockTypeLeaves
}

// Color returns the base RGBA color of the block.
func (b BlockType) Color() [4]uint8 {
	switch b {
	case BlockTypeStone:
		return [4]uint8{125, 125, 125, 255}
	case BlockTypeDirt:
		return [4]uint8{134, 96, 67, 255}
	case BlockTypeGrass:
		return [4]uint8{95, 159, 53, 255}
	case BlockTypeSand:
		return [4]uint8{219, 207, 163, 255}
	case BlockTypeLeaves:
		return [4]uint8{60, 120, 40, 200}
	case BlockTypeWater:
		return [4]uint8{44, 90, 200, 150}
	case BlockTypeGlass:
		return [4]uint8{200, 230, 240, 90}
	default:
		return [4]uint8{}
	}
}

func (b BlockType) String() string {
	switch b {
	case BlockTypeAir:
		return "air"
	case BlockTypeStone:
		return "stone"
	case BlockTypeDirt:
		return "dirt"
	case BlockTypeGrass:
		return "grass"
	case BlockTypeSand:
		return "sand"
	case BlockTypeLeaves:
		return "leaves"
	case BlockTypeWater:
		return "water"
	case BlockTypeGlass:
		return "glass"
	default:
		return "unknown"
	}
}
