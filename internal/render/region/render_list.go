package region

import "regionview/internal/render/chunk"

// RegionEntry is one region and the visible chunks to draw from it, in
// front-to-back order.
type RegionEntry struct {
	Region   *Region
	Sections []*chunk.Section
}

// ChunkRenderList is the ordered region -> chunks mapping for one frame. It is
// cleared and refilled every frame; slices are reused.
type ChunkRenderList struct {
	entries  []RegionEntry
	index    map[*Region]int
	reversed []RegionEntry
}

// NewChunkRenderList returns an empty list.
func NewChunkRenderList() *ChunkRenderList {
	return &ChunkRenderList{index: make(map[*Region]int)}
}

// Add appends s to the entry of r, creating the entry on first use.
func (l *ChunkRenderList) Add(r *Region, s *chunk.Section) {
	i, ok := l.index[r]
	if !ok {
		i = len(l.entries)
		l.index[r] = i
		if i < cap(l.entries) {
			l.entries = l.entries[:i+1]
			l.entries[i].Region = r
			l.entries[i].Sections = l.entries[i].Sections[:0]
		} else {
			l.entries = append(l.entries, RegionEntry{Region: r})
		}
	}
	l.entries[i].Sections = append(l.entries[i].Sections, s)
}

// Clear empties the list, keeping capacity.
func (l *ChunkRenderList) Clear() {
	l.entries = l.entries[:0]
	clear(l.index)
}

// Len returns the number of regions in the list.
func (l *ChunkRenderList) Len() int {
	return len(l.entries)
}

// Sorted returns the regions in traversal order: front to back, or back to
// front for translucent passes. The returned slice is only valid until the
// next call.
func (l *ChunkRenderList) Sorted(translucent bool) []RegionEntry {
	if !translucent {
		return l.entries
	}
	l.reversed = l.reversed[:0]
	for i := len(l.entries) - 1; i >= 0; i-- {
		l.reversed = append(l.reversed, l.entries[i])
	}
	return l.reversed
}
