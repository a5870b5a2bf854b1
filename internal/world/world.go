// Package world stores voxel chunks and generates terrain for them.
package world

import (
	"sort"
	"sync"
)

// World is a sparse set of generated chunks. It is safe for concurrent reads
// from mesh workers while the main thread generates or edits chunks.
type World struct {
	mu        sync.RWMutex
	chunks    map[ChunkCoord]*Chunk
	generator *Generator
}

// New creates an empty world using g for generation. g may be nil.
func New(g *Generator) *World {
	return &World{chunks: make(map[ChunkCoord]*Chunk), generator: g}
}

// GetChunk returns the chunk at c, or nil.
func (w *World) GetChunk(c ChunkCoord) *Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.chunks[c]
}

// SetChunk stores ch, replacing any chunk at the same coordinates.
func (w *World) SetChunk(ch *Chunk) {
	w.mu.Lock()
	w.chunks[ch.Coord()] = ch
	w.mu.Unlock()
}

// Generate populates every chunk in the inclusive coordinate box that does
// not exist yet and returns the coordinates of the non-empty ones, sorted.
func (w *World) Generate(min, max ChunkCoord) []ChunkCoord {
	var out []ChunkCoord
	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			for z := min.Z; z <= max.Z; z++ {
				c := ChunkCoord{x, y, z}
				ch := w.GetChunk(c)
				if ch == nil {
					ch = NewChunk(x, y, z)
					if w.generator != nil {
						w.generator.PopulateChunk(ch)
					}
					w.SetChunk(ch)
				}
				if !ch.IsEmpty() {
					out = append(out, c)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

// Block returns the block at world coordinates. Missing chunks read as air.
func (w *World) Block(wx, wy, wz int) BlockType {
	c := ChunkCoord{floorDiv(wx, ChunkSize), floorDiv(wy, ChunkSize), floorDiv(wz, ChunkSize)}
	ch := w.GetChunk(c)
	if ch == nil {
		return BlockTypeAir
	}
	return ch.GetBlock(wx-c.X*ChunkSize, wy-c.Y*ChunkSize, wz-c.Z*ChunkSize)
}

// SetBlock edits the block at world coordinates, creating the chunk if needed.
// It returns the coordinates of the touched chunk.
func (w *World) SetBlock(wx, wy, wz int, b BlockType) ChunkCoord {
	c := ChunkCoord{floorDiv(wx, ChunkSize), floorDiv(wy, ChunkSize), floorDiv(wz, ChunkSize)}
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := w.chunks[c]
	if ch == nil {
		ch = NewChunk(c.X, c.Y, c.Z)
		w.chunks[c] = ch
	}
	ch.SetBlock(wx-c.X*ChunkSize, wy-c.Y*ChunkSize, wz-c.Z*ChunkSize, b)
	return c
}

// ChunkCount returns the number of stored chunks.
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
