package chunk

import "regionview/internal/graphics/device"

// ElementRange is one drawable sub-range of a chunk's indices for one facing.
// ElementPointer is a byte offset relative to the chunk's index segment and
// BaseVertex is relative to the chunk's vertex segment.
type ElementRange struct {
	ElementPointer int
	ElementCount   int32
	BaseVertex     int32
	IndexType      device.IndexType
}
