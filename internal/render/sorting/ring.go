package sorting

import "regionview/internal/graphics/device"

const (
	ringMeta = iota
	ringPointers
	ringCounts
	ringBaseVertices
	ringBufferCount
)

// DefaultRingDepth keeps one slot in flight per frame for three frames.
const DefaultRingDepth = 3

// minRingBytes is the smallest storage a ring buffer is created with.
const minRingBytes = 256

type ringSlot struct {
	buffers [ringBufferCount]*device.Buffer
}

// write uploads data into buffer i, growing its storage to the next power of
// two when it does not fit. Storage never shrinks.
func (s *ringSlot) write(cmd device.CommandList, i int, data []byte) {
	buf := s.buffers[i]
	if len(data) > buf.Size {
		size := max(buf.Size, minRingBytes)
		for size < len(data) {
			size *= 2
		}
		cmd.AllocateStorage(buf, size, device.StreamDraw)
	}
	if len(data) > 0 {
		cmd.UploadSubData(buf, 0, data)
	}
}

// BufferRing rotates through depth sets of metadata buffers so that a set is
// not rewritten while the GPU may still read it.
type BufferRing struct {
	cmd    device.CommandList
	slots  []ringSlot
	cursor int
}

// NewBufferRing allocates depth slots of empty buffers.
func NewBufferRing(cmd device.CommandList, depth int) *BufferRing {
	if depth < 1 {
		depth = 1
	}
	r := &BufferRing{cmd: cmd, slots: make([]ringSlot, depth)}
	for i := range r.slots {
		for j := range r.slots[i].buffers {
			r.slots[i].buffers[j] = cmd.CreateBuffer()
		}
	}
	return r
}

// acquire returns the slot to fill and advances the ring.
func (r *BufferRing) acquire() *ringSlot {
	s := &r.slots[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.slots)
	return s
}

// Depth returns the number of slots.
func (r *BufferRing) Depth() int {
	return len(r.slots)
}

// Delete frees every buffer of the ring.
func (r *BufferRing) Delete() {
	for i := range r.slots {
		for j, b := range r.slots[i].buffers {
			if b != nil {
				r.cmd.DeleteBuffer(b)
				r.slots[i].buffers[j] = nil
			}
		}
	}
}
