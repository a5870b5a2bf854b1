// Package arena hands out byte ranges of one growable GPU buffer. A region owns
// one arena for vertices and one for indices.
package arena

import (
	"log/slog"

	"regionview/internal/graphics/device"
)

// Segment is a byte range inside an arena's buffer.
type Segment struct {
	Offset int
	Length int
}

// End returns the first byte after the segment.
func (s Segment) End() int {
	return s.Offset + s.Length
}

// Config sizes an arena.
type Config struct {
	InitialBytes int
	MaxBytes     int
}

// DefaultConfig sizes arenas for one region of 256 chunks.
var DefaultConfig = Config{
	InitialBytes: 1 * 1024 * 1024,
	MaxBytes:     256 * 1024 * 1024,
}

// Arena is a bump allocator over a single buffer object. Growing replaces the
// buffer object and bumps Generation, so anything caching the handle (vertex
// array objects) must compare generations before reuse.
type Arena struct {
	name   string
	cmd    device.CommandList
	logger *slog.Logger

	buffer      *device.Buffer
	capacity    int
	maxCapacity int
	used        int
	fragmented  int
	generation  uint64
}

// New allocates the initial buffer store.
func New(cmd device.CommandList, name string, cfg Config, logger *slog.Logger) *Arena {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Arena{
		name:        name,
		cmd:         cmd,
		logger:      logger,
		capacity:    cfg.InitialBytes,
		maxCapacity: max(cfg.MaxBytes, cfg.InitialBytes),
	}
	a.buffer = cmd.CreateBuffer()
	cmd.AllocateStorage(a.buffer, a.capacity, device.DynamicDraw)
	return a
}

// Alloc reserves size bytes starting at a multiple of align. It returns false
// when the arena cannot grow far enough.
func (a *Arena) Alloc(size, align int) (Segment, bool) {
	if align <= 0 {
		align = 1
	}
	offset := (a.used + align - 1) / align * align
	required := offset + size
	if required > a.capacity && !a.grow(required) {
		return Segment{}, false
	}
	// Alignment padding is never handed out again.
	a.fragmented += offset - a.used
	a.used = required
	return Segment{Offset: offset, Length: size}, true
}

// Upload writes data at the start of seg.
func (a *Arena) Upload(seg Segment, data []byte) {
	if len(data) > seg.Length {
		data = data[:seg.Length]
	}
	a.cmd.UploadSubData(a.buffer, seg.Offset, data)
}

// Free releases seg. Only the most recent allocation is reclaimed; anything
// else is counted as fragmentation.
func (a *Arena) Free(seg Segment) {
	if seg.Length == 0 {
		return
	}
	if seg.End() == a.used {
		a.used = seg.Offset
		return
	}
	a.fragmented += seg.Length
}

// BufferObject returns the current buffer. The pointer changes when the arena grows.
func (a *Arena) BufferObject() *device.Buffer {
	return a.buffer
}

// Generation increments every time the buffer object is replaced.
func (a *Arena) Generation() uint64 {
	return a.generation
}

func (a *Arena) Used() int            { return a.used }
func (a *Arena) Capacity() int        { return a.capacity }
func (a *Arena) FragmentedBytes() int { return a.fragmented }

// Delete frees the buffer object.
func (a *Arena) Delete() {
	if a.buffer != nil {
		a.cmd.DeleteBuffer(a.buffer)
		a.buffer = nil
	}
}

// grow doubles the capacity until required fits, copying live bytes into a
// fresh buffer object.
func (a *Arena) grow(required int) bool {
	if required > a.maxCapacity {
		a.logger.Warn("arena out of capacity", "arena", a.name, "need", required, "max", a.maxCapacity)
		return false
	}

	newCap := max(a.capacity, 1)
	for newCap < required {
		newCap *= 2
	}
	newCap = min(newCap, a.maxCapacity)

	next := a.cmd.CreateBuffer()
	a.cmd.AllocateStorage(next, newCap, device.DynamicDraw)
	a.cmd.CopyBufferSubData(a.buffer, next, 0, 0, a.used)
	a.cmd.DeleteBuffer(a.buffer)

	a.buffer = next
	a.capacity = newCap
	a.generation++

	a.logger.Debug("arena grew", "arena", a.name, "bytes", newCap, "generation", a.generation)
	return true
}
