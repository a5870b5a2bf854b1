// Package batch turns the chunks of one region into multi-draw submissions:
// parallel pointer, count and base-vertex arrays per index width.
package batch

// MultiDrawBatch holds the pending sub-ranges of one index width for one
// region and pass. The four slices always have the same length. Segment tags
// name the chunk each entry came from, so consumers can find chunk boundaries
// without looking at base vertices.
type MultiDrawBatch struct {
	pointers     []uintptr
	counts       []int32
	baseVertices []int32
	segments     []int32
}

// NewMultiDrawBatch preallocates room for capacity entries.
func NewMultiDrawBatch(capacity int) *MultiDrawBatch {
	return &MultiDrawBatch{
		pointers:     make([]uintptr, 0, capacity),
		counts:       make([]int32, 0, capacity),
		baseVertices: make([]int32, 0, capacity),
		segments:     make([]int32, 0, capacity),
	}
}

// Begin clears the batch for a new region. Backing arrays are kept.
func (b *MultiDrawBatch) Begin() {
	b.pointers = b.pointers[:0]
	b.counts = b.counts[:0]
	b.baseVertices = b.baseVertices[:0]
	b.segments = b.segments[:0]
}

// Add appends one sub-range. pointer is a byte offset into the index buffer.
func (b *MultiDrawBatch) Add(pointer uintptr, count, baseVertex, segment int32) {
	b.pointers = append(b.pointers, pointer)
	b.counts = append(b.counts, count)
	b.baseVertices = append(b.baseVertices, baseVertex)
	b.segments = append(b.segments, segment)
}

// End marks the batch as complete. Slices stay valid until the next Begin.
func (b *MultiDrawBatch) End() {}

func (b *MultiDrawBatch) IsEmpty() bool { return len(b.counts) == 0 }
func (b *MultiDrawBatch) Len() int      { return len(b.counts) }

func (b *MultiDrawBatch) Pointers() []uintptr   { return b.pointers }
func (b *MultiDrawBatch) Counts() []int32       { return b.counts }
func (b *MultiDrawBatch) BaseVertices() []int32 { return b.baseVertices }
func (b *MultiDrawBatch) Segments() []int32     { return b.segments }
