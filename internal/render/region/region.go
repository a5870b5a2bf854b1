// Package region groups chunks into fixed-size regions that share one vertex
// and one index arena, and orders them for rendering.
package region

import (
	"regionview/internal/graphics/device"
	"regionview/internal/render/arena"
	"regionview/internal/render/chunk"
)

// Region grid dimensions in chunks.
const (
	Width  = 8
	Height = 4
	Length = 8

	// Size is the number of chunk slots in a region.
	Size = Width * Height * Length
)

// ChunkIndex returns the slot of a chunk given its coordinates local to the region.
func ChunkIndex(x, y, z int) int {
	return x*Length*Height + y*Length + z
}

// Key identifies a region by region-grid coordinates.
type Key struct {
	X, Y, Z int
}

// KeyForChunk returns the region containing chunk (cx, cy, cz).
func KeyForChunk(cx, cy, cz int) Key {
	return Key{floorDiv(cx, Width), floorDiv(cy, Height), floorDiv(cz, Length)}
}

// LocalIndex returns the slot of chunk (cx, cy, cz) inside its region.
func LocalIndex(cx, cy, cz int) int {
	return ChunkIndex(floorMod(cx, Width), floorMod(cy, Height), floorMod(cz, Length))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// Region is a Width x Height x Length block of chunks sharing arenas.
type Region struct {
	key      Key
	sections [Size]*chunk.Section
	count    int
	arenas   *Arenas
}

// New creates an empty region without arenas.
func New(key Key) *Region {
	return &Region{key: key}
}

func (r *Region) Key() Key { return r.key }

// OriginX returns the world block coordinate of the region's minimum corner.
func (r *Region) OriginX() int { return r.key.X * Width * chunk.Size }
func (r *Region) OriginY() int { return r.key.Y * Height * chunk.Size }
func (r *Region) OriginZ() int { return r.key.Z * Length * chunk.Size }

// Arenas returns the region's buffers, or nil before the first upload.
func (r *Region) Arenas() *Arenas { return r.arenas }

// EnsureArenas creates the arenas on first use.
func (r *Region) EnsureArenas(newArena func(name string) *arena.Arena) *Arenas {
	if r.arenas == nil {
		r.arenas = &Arenas{
			VertexBuffers: newArena("vertex"),
			IndexBuffers:  newArena("index"),
		}
	}
	return r.arenas
}

// Section returns the section in slot idx.
func (r *Region) Section(idx int) *chunk.Section { return r.sections[idx] }

// SetSection places s in its slot, returning any previous occupant.
func (r *Region) SetSection(s *chunk.Section) *chunk.Section {
	idx := s.RegionIndex()
	old := r.sections[idx]
	if old == nil {
		r.count++
	}
	r.sections[idx] = s
	return old
}

// RemoveSection clears slot idx.
func (r *Region) RemoveSection(idx int) *chunk.Section {
	old := r.sections[idx]
	if old != nil {
		r.sections[idx] = nil
		r.count--
	}
	return old
}

// IsEmpty reports whether no chunk is stored in the region.
func (r *Region) IsEmpty() bool { return r.count == 0 }

// Delete releases the region's GPU resources.
func (r *Region) Delete(cmd device.CommandList) {
	if r.arenas != nil {
		r.arenas.Delete(cmd)
		r.arenas = nil
	}
}

// Arenas are the shared vertex and index buffers of a region plus the cached
// tessellation per pass.
type Arenas struct {
	VertexBuffers *arena.Arena
	IndexBuffers  *arena.Arena

	tessellations [chunk.PassCount]*device.Tessellation
	generations   [chunk.PassCount][2]uint64
}

// Tessellation returns the cached binding for pass. A binding created against
// buffer objects that have since been replaced is deleted and nil is returned.
func (a *Arenas) Tessellation(cmd device.CommandList, pass chunk.Pass) *device.Tessellation {
	t := a.tessellations[pass]
	if t == nil {
		return nil
	}
	if a.generations[pass] != a.currentGenerations() {
		cmd.DeleteTessellation(t)
		a.tessellations[pass] = nil
		return nil
	}
	return t
}

// SetTessellation caches t for pass against the current buffer objects.
func (a *Arenas) SetTessellation(pass chunk.Pass, t *device.Tessellation) {
	a.tessellations[pass] = t
	a.generations[pass] = a.currentGenerations()
}

func (a *Arenas) currentGenerations() [2]uint64 {
	return [2]uint64{a.VertexBuffers.Generation(), a.IndexBuffers.Generation()}
}

// Delete frees the tessellations and both arenas.
func (a *Arenas) Delete(cmd device.CommandList) {
	for i, t := range a.tessellations {
		if t != nil {
			cmd.DeleteTessellation(t)
			a.tessellations[i] = nil
		}
	}
	a.VertexBuffers.Delete()
	a.IndexBuffers.Delete()
}
