// Package meshing turns world chunks into per-pass, per-facing chunk meshes
// ready for upload into region arenas.
package meshing

import (
	"errors"
	"fmt"

	"regionview/internal/graphics/device"
	"regionview/internal/render/chunk"
	"regionview/internal/render/region"
	"regionview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrChunkMissing is returned when the requested chunk has not been generated.
var ErrChunkMissing = errors.New("meshing: chunk not loaded")

// facingAxis describes the face plane of one facing: the normal axis, the
// two in-plane axes and the normal sign.
type facingAxis struct {
	d, u, v int
	sign    int
}

var facingAxes = [6]facingAxis{
	chunk.FacingUp:    {d: 1, u: 0, v: 2, sign: 1},
	chunk.FacingDown:  {d: 1, u: 0, v: 2, sign: -1},
	chunk.FacingEast:  {d: 0, u: 1, v: 2, sign: 1},
	chunk.FacingWest:  {d: 0, u: 1, v: 2, sign: -1},
	chunk.FacingSouth: {d: 2, u: 0, v: 1, sign: 1},
	chunk.FacingNorth: {d: 2, u: 0, v: 1, sign: -1},
}

var facingShade = [6]uint8{
	chunk.FacingUp:    255,
	chunk.FacingDown:  127,
	chunk.FacingEast:  204,
	chunk.FacingWest:  204,
	chunk.FacingSouth: 153,
	chunk.FacingNorth: 153,
}

// facingGeometry collects the quads of one facing of one pass.
type facingGeometry struct {
	vertices []byte
	quads    int
}

func (g *facingGeometry) vertexCount() int {
	return len(g.vertices) / chunk.VertexStride
}

type passGeometry [6]facingGeometry

func passFor(b world.BlockType) chunk.Pass {
	switch {
	case b.IsTranslucent():
		return chunk.PassTranslucent
	case b.IsCutout():
		return chunk.PassCutout
	default:
		return chunk.PassSolid
	}
}

// faceVisible reports whether the face of b toward neighbour n is drawn.
func faceVisible(b, n world.BlockType) bool {
	if n == world.BlockTypeAir {
		return true
	}
	return !n.IsOpaque() && n != b
}

// BuildSectionMesh meshes the chunk at c. Opaque and cutout faces are merged
// greedily per facing; translucent faces stay one quad per block face so they
// can be sorted individually. Neighbouring chunks are read through w for
// face visibility.
func BuildSectionMesh(w *world.World, c world.ChunkCoord) (*chunk.MeshData, error) {
	ch := w.GetChunk(c)
	if ch == nil {
		return nil, fmt.Errorf("%w: %v", ErrChunkMissing, c)
	}

	var geometry [chunk.PassCount]passGeometry
	chunkIndex := uint16(region.LocalIndex(c.X, c.Y, c.Z))
	base := [3]int{c.X * world.ChunkSize, c.Y * world.ChunkSize, c.Z * world.ChunkSize}

	var mask [world.ChunkSize * world.ChunkSize]world.BlockType
	for _, f := range chunk.Directions {
		ax := facingAxes[f]
		for layer := 0; layer < world.ChunkSize; layer++ {
			for u := 0; u < world.ChunkSize; u++ {
				for v := 0; v < world.ChunkSize; v++ {
					var p [3]int
					p[ax.d], p[ax.u], p[ax.v] = layer, u, v
					b := ch.GetBlock(p[0], p[1], p[2])
					mask[u*world.ChunkSize+v] = world.BlockTypeAir
					if b == world.BlockTypeAir {
						continue
					}
					p[ax.d] += ax.sign
					n := w.Block(base[0]+p[0], base[1]+p[1], base[2]+p[2])
					if faceVisible(b, n) {
						mask[u*world.ChunkSize+v] = b
					}
				}
			}
			emitLayer(&geometry, &mask, f, ax, layer, chunkIndex)
		}
	}

	mesh := &chunk.MeshData{
		X: c.X, Y: c.Y, Z: c.Z,
		Bounds: chunk.BoundsForChunk(c.X, c.Y, c.Z),
	}
	for _, pass := range chunk.Passes {
		mesh.Passes[pass] = assemblePass(&geometry[pass], pass.IsTranslucent())
	}
	return mesh, nil
}

// emitLayer greedily merges equal mask cells into rectangles, except for
// translucent blocks which are emitted cell by cell.
func emitLayer(geometry *[chunk.PassCount]passGeometry, mask *[world.ChunkSize * world.ChunkSize]world.BlockType, f chunk.Facing, ax facingAxis, layer int, chunkIndex uint16) {
	const n = world.ChunkSize
	for u := 0; u < n; u++ {
		for v := 0; v < n; {
			b := mask[u*n+v]
			if b == world.BlockTypeAir {
				v++
				continue
			}

			width, height := 1, 1
			if !b.IsTranslucent() {
				for v+height < n && mask[u*n+v+height] == b {
					height++
				}
			grow:
				for u+width < n {
					for k := 0; k < height; k++ {
						if mask[(u+width)*n+v+k] != b {
							break grow
						}
					}
					width++
				}
			}

			for du := 0; du < width; du++ {
				for dv := 0; dv < height; dv++ {
					mask[(u+du)*n+v+dv] = world.BlockTypeAir
				}
			}

			g := &geometry[passFor(b)][f]
			g.vertices = appendQuad(g.vertices, b, f, ax, layer, u, v, width, height, chunkIndex)
			g.quads++
			v += height
		}
	}
}

// appendQuad writes the four corners of a face rectangle, wound
// counter-clockwise when seen from outside.
func appendQuad(dst []byte, b world.BlockType, f chunk.Facing, ax facingAxis, layer, u, v, width, height int, chunkIndex uint16) []byte {
	var origin, du, dv mgl32.Vec3
	origin[ax.d], origin[ax.u], origin[ax.v] = float32(layer), float32(u), float32(v)
	if ax.sign > 0 {
		origin[ax.d]++
	}
	du[ax.u] = float32(width)
	dv[ax.v] = float32(height)

	corners := [4]mgl32.Vec3{origin, origin.Add(du), origin.Add(du).Add(dv), origin.Add(dv)}
	if (ax.sign > 0) == (ax.d == 1) {
		corners[1], corners[3] = corners[3], corners[1]
	}

	n := f.Normal()
	vert := chunk.Vertex{
		ChunkIndex: chunkIndex,
		Color:      b.Color(),
		Normal:     [3]int8{int8(n[0]), int8(n[1]), int8(n[2])},
		Shade:      facingShade[f],
	}
	for _, c := range corners {
		vert.Pos = c

		off := len(dst)
		dst = append(dst, make([]byte, chunk.VertexStride)...)
		chunk.PutVertex(dst[off:], vert)
	}
	return dst
}

// quadIndices are the two triangles of a quad.
var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// assemblePass concatenates the facings of one pass. Opaque facings get the
// narrowest index width for their own vertex count and a per-facing base
// vertex. Translucent facings share 32-bit indices relative to the chunk so
// any triangle of the chunk can be swapped with any other.
func assemblePass(g *passGeometry, translucent bool) *chunk.PassMesh {
	pm := &chunk.PassMesh{}
	for _, f := range chunk.Directions {
		fg := &g[f]
		if fg.quads == 0 {
			continue
		}

		firstVertex := len(pm.Vertices) / chunk.VertexStride
		pm.Vertices = append(pm.Vertices, fg.vertices...)

		indexType := device.UnsignedInt
		baseVertex := int32(firstVertex)
		indexBase := uint32(0)
		if translucent {
			baseVertex = 0
			indexBase = uint32(firstVertex)
		} else {
			indexType = device.IndexTypeForVertexCount(fg.vertexCount())
		}

		// Every facing starts on a 4-byte boundary regardless of width.
		for len(pm.Indices)%4 != 0 {
			pm.Indices = append(pm.Indices, 0)
		}
		pointer := len(pm.Indices)
		stride := indexType.Stride()
		pm.Indices = append(pm.Indices, make([]byte, fg.quads*6*stride)...)
		for q := 0; q < fg.quads; q++ {
			for k, idx := range quadIndices {
				at := pointer + (q*6+k)*stride
				indexType.PutIndex(pm.Indices[at:], indexBase+uint32(q*4)+idx)
			}
		}

		pm.Parts[f] = &chunk.ElementRange{
			ElementPointer: pointer,
			ElementCount:   int32(fg.quads * 6),
			BaseVertex:     baseVertex,
			IndexType:      indexType,
		}
	}
	if pm.IsEmpty() {
		return nil
	}
	return pm
}
