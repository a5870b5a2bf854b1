// Package sorting reorders the triangles of translucent chunk geometry back
// to front on the GPU with a bitonic sorting network. One set of compute
// dispatches covers every chunk of a region at once.
package sorting

import (
	"encoding/binary"

	"regionview/internal/graphics/device"
	"regionview/internal/render/batch"
)

// SegmentMeta describes one chunk inside a packed batch. Offset and Count
// address the flattened entry arrays; IndexCount is the sum of the entries'
// element counts.
type SegmentMeta struct {
	Offset     int32
	Count      int32
	IndexCount int32
}

// segmentMetaSize is the std430 stride of the kernel's segment struct.
const segmentMetaSize = 12

// Segments is a batch split into per-chunk segments. Pointers are in 32-bit
// index units, the rest is copied from the batch unchanged.
type Segments struct {
	Meta         []SegmentMeta
	Pointers     []int32
	Counts       []int32
	BaseVertices []int32

	// MaxIndexCount is the largest IndexCount of any segment.
	MaxIndexCount int32
}

// Reset empties s, keeping capacity.
func (s *Segments) Reset() {
	s.Meta = s.Meta[:0]
	s.Pointers = s.Pointers[:0]
	s.Counts = s.Counts[:0]
	s.BaseVertices = s.BaseVertices[:0]
	s.MaxIndexCount = 0
}

// Len returns the number of entries across all segments.
func (s *Segments) Len() int {
	return len(s.Counts)
}

// Pack splits a 32-bit index batch into segments. A new segment starts
// wherever the segment tag changes, so every chunk's entries must be
// contiguous in the batch.
func Pack(b *batch.MultiDrawBatch, out *Segments) {
	out.Reset()

	pointers := b.Pointers()
	counts := b.Counts()
	baseVertices := b.BaseVertices()
	tags := b.Segments()

	stride := uintptr(device.UnsignedInt.Stride())
	for i, count := range counts {
		if i == 0 || tags[i] != tags[i-1] {
			out.Meta = append(out.Meta, SegmentMeta{Offset: int32(i)})
		}
		m := &out.Meta[len(out.Meta)-1]
		m.Count++
		m.IndexCount += count

		out.Pointers = append(out.Pointers, int32(pointers[i]/stride))
		out.Counts = append(out.Counts, count)
		out.BaseVertices = append(out.BaseVertices, baseVertices[i])
	}

	for _, m := range out.Meta {
		out.MaxIndexCount = max(out.MaxIndexCount, m.IndexCount)
	}
}

// UploadedSegments are the GPU copies of one packed batch.
type UploadedSegments struct {
	Meta         *device.Buffer
	Pointers     *device.Buffer
	Counts       *device.Buffer
	BaseVertices *device.Buffer
}

// Packer uploads packed segments through a ring of reusable buffers.
type Packer struct {
	cmd     device.CommandList
	ring    *BufferRing
	scratch []byte
}

// NewPacker creates a packer with a ring of depth frames.
func NewPacker(cmd device.CommandList, depth int) *Packer {
	return &Packer{cmd: cmd, ring: NewBufferRing(cmd, depth)}
}

// Upload writes s into the next ring slot and returns its buffers.
func (p *Packer) Upload(s *Segments) UploadedSegments {
	slot := p.ring.acquire()

	p.scratch = p.scratch[:0]
	for _, m := range s.Meta {
		p.scratch = binary.LittleEndian.AppendUint32(p.scratch, uint32(m.Offset))
		p.scratch = binary.LittleEndian.AppendUint32(p.scratch, uint32(m.Count))
		p.scratch = binary.LittleEndian.AppendUint32(p.scratch, uint32(m.IndexCount))
	}
	slot.write(p.cmd, ringMeta, p.scratch)

	slot.write(p.cmd, ringPointers, p.encode(s.Pointers))
	slot.write(p.cmd, ringCounts, p.encode(s.Counts))
	slot.write(p.cmd, ringBaseVertices, p.encode(s.BaseVertices))

	return UploadedSegments{
		Meta:         slot.buffers[ringMeta],
		Pointers:     slot.buffers[ringPointers],
		Counts:       slot.buffers[ringCounts],
		BaseVertices: slot.buffers[ringBaseVertices],
	}
}

// Delete frees the ring.
func (p *Packer) Delete() {
	p.ring.Delete()
}

func (p *Packer) encode(values []int32) []byte {
	p.scratch = p.scratch[:0]
	for _, v := range values {
		p.scratch = binary.LittleEndian.AppendUint32(p.scratch, uint32(v))
	}
	return p.scratch
}
