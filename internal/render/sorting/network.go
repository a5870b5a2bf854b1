package sorting

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Network runs the sort kernels on the CPU over buffer contents laid out the
// way the compute program sees them. Indices is sorted in place.
type Network struct {
	Vertices  []byte
	Indices   []byte
	ChunkInfo []byte

	ModelView   mgl32.Mat4
	ModelScale  float32
	ModelOffset float32

	WorkGroupWidth int
	Segments       *Segments
}

// Execute runs every stage of p over all segments.
func (n *Network) Execute(p Plan) {
	for _, s := range p.Stages {
		n.Dispatch(s, p.Groups, len(n.Segments.Meta))
	}
}

// Dispatch runs one stage with groups work groups over the first chunkCount
// segments.
func (n *Network) Dispatch(stage Stage, groups, chunkCount int) {
	threads := groups * n.WorkGroupWidth
	for c := 0; c < chunkCount && c < len(n.Segments.Meta); c++ {
		seg := n.Segments.Meta[c]
		count := int(seg.IndexCount / 3)
		if count < 2 {
			continue
		}
		switch stage.Type {
		case LocalBMS:
			for h := 2; h <= stage.Height; h *= 2 {
				n.pass(seg, count, threads, h, true)
				for hh := h / 2; hh > 1; hh /= 2 {
					n.pass(seg, count, threads, hh, false)
				}
			}
		case LocalDisperse:
			for hh := stage.Height; hh > 1; hh /= 2 {
				n.pass(seg, count, threads, hh, false)
			}
		case GlobalFlip:
			n.pass(seg, count, threads, stage.Height, true)
		case GlobalDisperse:
			n.pass(seg, count, threads, stage.Height, false)
		}
	}
}

// pass compare-exchanges every pair of one flip or disperse step.
func (n *Network) pass(seg SegmentMeta, count, threads, h int, flip bool) {
	half := h / 2
	for t := 0; t < threads; t++ {
		q := (2 * t / h) * h
		i := q + t%half
		j := i + half
		if flip {
			j = q + h - 1 - t%half
		}
		if j >= count {
			continue
		}
		pi, bi := n.locate(seg, i)
		pj, bj := n.locate(seg, j)
		if n.depth(pi, bi) < n.depth(pj, bj) {
			n.swap(pi, pj)
		}
	}
}

// locate returns the index-buffer position (in indices) and base vertex of
// triangle k of a segment.
func (n *Network) locate(seg SegmentMeta, k int) (int, int32) {
	s := n.Segments
	for e := seg.Offset; e < seg.Offset+seg.Count; e++ {
		tris := int(s.Counts[e] / 3)
		if k < tris {
			return int(s.Pointers[e]) + 3*k, s.BaseVertices[e]
		}
		k -= tris
	}
	return -1, 0
}

// depth is the squared view-space distance of a triangle's centroid.
func (n *Network) depth(pos int, baseVertex int32) float32 {
	var sum mgl32.Vec3
	for v := 0; v < 3; v++ {
		idx := int32(binary.LittleEndian.Uint32(n.Indices[(pos+v)*4:])) + baseVertex
		sum = sum.Add(n.position(int(idx)))
	}
	c := n.ModelView.Mul4x1(sum.Mul(1.0 / 3).Vec4(1)).Vec3()
	return c.Dot(c)
}

func (n *Network) position(vertex int) mgl32.Vec3 {
	src := n.Vertices[vertex*16:]
	p := mgl32.Vec3{
		float32(binary.LittleEndian.Uint16(src[0:]))*n.ModelScale + n.ModelOffset,
		float32(binary.LittleEndian.Uint16(src[2:]))*n.ModelScale + n.ModelOffset,
		float32(binary.LittleEndian.Uint16(src[4:]))*n.ModelScale + n.ModelOffset,
	}
	chunkIndex := int(binary.LittleEndian.Uint16(src[6:]))
	if off := chunkIndex * 16; off+12 <= len(n.ChunkInfo) {
		p = p.Add(mgl32.Vec3{
			math.Float32frombits(binary.LittleEndian.Uint32(n.ChunkInfo[off:])),
			math.Float32frombits(binary.LittleEndian.Uint32(n.ChunkInfo[off+4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(n.ChunkInfo[off+8:])),
		})
	}
	return p
}

func (n *Network) swap(a, b int) {
	var tmp [12]byte
	copy(tmp[:], n.Indices[a*4:a*4+12])
	copy(n.Indices[a*4:a*4+12], n.Indices[b*4:b*4+12])
	copy(n.Indices[b*4:b*4+12], tmp[:])
}

// DecodeSegments rebuilds packed segments from the raw metadata buffers.
func DecodeSegments(meta, pointers, counts, baseVertices []byte, chunkCount int) *Segments {
	s := &Segments{}
	entries := 0
	for c := 0; c < chunkCount && (c+1)*segmentMetaSize <= len(meta); c++ {
		off := c * segmentMetaSize
		m := SegmentMeta{
			Offset:     int32(binary.LittleEndian.Uint32(meta[off:])),
			Count:      int32(binary.LittleEndian.Uint32(meta[off+4:])),
			IndexCount: int32(binary.LittleEndian.Uint32(meta[off+8:])),
		}
		s.Meta = append(s.Meta, m)
		s.MaxIndexCount = max(s.MaxIndexCount, m.IndexCount)
		entries = max(entries, int(m.Offset+m.Count))
	}
	for e := 0; e < entries; e++ {
		s.Pointers = append(s.Pointers, int32(binary.LittleEndian.Uint32(pointers[e*4:])))
		s.Counts = append(s.Counts, int32(binary.LittleEndian.Uint32(counts[e*4:])))
		s.BaseVertices = append(s.BaseVertices, int32(binary.LittleEndian.Uint32(baseVertices[e*4:])))
	}
	return s
}
