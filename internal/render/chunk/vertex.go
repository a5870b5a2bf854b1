package chunk

import (
	"encoding/binary"

	"regionview/internal/graphics/device"

	"github.com/go-gl/mathgl/mgl32"
)

// Chunk vertex layout, 16 bytes:
//
//	0  u16 x, y, z, chunk index
//	8  u8  r, g, b, a
//	12 u8  normal x+1, y+1, z+1, shade
const (
	VertexStride = 16

	// Positions are stored as u16 and decoded as raw*ModelScale + ModelOffset,
	// covering [-8, 24) around the chunk origin.
	ModelScale  float32 = 32.0 / 65536.0
	ModelOffset float32 = -8.0
)

// Attribute locations shared with the chunk shaders.
const (
	AttributePositionID uint32 = 0
	AttributeColor      uint32 = 1
	AttributeNormal     uint32 = 2
)

// VertexAttributes describes the chunk vertex layout for tessellation binding.
var VertexAttributes = []device.VertexAttribute{
	{Index: AttributePositionID, Components: 4, Type: device.AttributeUnsignedShort, Offset: 0},
	{Index: AttributeColor, Components: 4, Type: device.AttributeUnsignedByte, Normalized: true, Offset: 8},
	{Index: AttributeNormal, Components: 4, Type: device.AttributeUnsignedByte, Normalized: true, Offset: 12},
}

// Vertex is the unpacked form of one chunk vertex. Position is chunk-local.
type Vertex struct {
	Pos        mgl32.Vec3
	ChunkIndex uint16
	Color      [4]uint8
	Normal     [3]int8
	Shade      uint8
}

func encodePosition(v float32) uint16 {
	raw := (v - ModelOffset) / ModelScale
	if raw < 0 {
		return 0
	}
	if raw > 65535 {
		return 65535
	}
	return uint16(raw + 0.5)
}

// PutVertex encodes v into dst[:VertexStride].
func PutVertex(dst []byte, v Vertex) {
	for i, c := range v.Pos {
		binary.LittleEndian.PutUint16(dst[2*i:], encodePosition(c))
	}
	binary.LittleEndian.PutUint16(dst[6:], v.ChunkIndex)
	copy(dst[8:12], v.Color[:])
	dst[12] = byte(v.Normal[0] + 1)
	dst[13] = byte(v.Normal[1] + 1)
	dst[14] = byte(v.Normal[2] + 1)
	dst[15] = v.Shade
}

// DecodePosition returns the chunk-local position and chunk index stored in src.
func DecodePosition(src []byte) (pos mgl32.Vec3, chunkIndex uint16) {
	for i := range pos {
		pos[i] = float32(binary.LittleEndian.Uint16(src[2*i:]))*ModelScale + ModelOffset
	}
	return pos, binary.LittleEndian.Uint16(src[6:])
}
