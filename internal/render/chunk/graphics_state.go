package chunk

import "regionview/internal/render/arena"

// GraphicsState is the uploaded geometry of one chunk for one pass. It
// references, but does not own, the arena segments.
type GraphicsState struct {
	vertexSegment arena.Segment
	indexSegment  arena.Segment
	parts         [FacingCount]*ElementRange
}

// NewGraphicsState captures the segments and the per-facing ranges. Missing
// facings are nil.
func NewGraphicsState(vertex, index arena.Segment, parts [FacingCount]*ElementRange) *GraphicsState {
	return &GraphicsState{
		vertexSegment: vertex,
		indexSegment:  index,
		parts:         parts,
	}
}

func (s *GraphicsState) VertexSegment() arena.Segment { return s.vertexSegment }
func (s *GraphicsState) IndexSegment() arena.Segment  { return s.indexSegment }

// ModelPart returns the range for facing f, or nil when the chunk has no quads facing f.
func (s *GraphicsState) ModelPart(f Facing) *ElementRange {
	return s.parts[f]
}
