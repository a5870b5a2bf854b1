package chunk

// Size is the edge length of a chunk in blocks.
const Size = 16

// Section is one chunk as seen by the renderer: its grid position, bounds and
// the graphics state built for each pass.
type Section struct {
	X, Y, Z int

	regionIndex int
	bounds      RenderBounds
	states      [PassCount]*GraphicsState
}

// NewSection creates an empty section. regionIndex is the chunk's slot in its
// region grid and doubles as the draw-parameters record index.
func NewSection(x, y, z, regionIndex int) *Section {
	return &Section{
		X: x, Y: y, Z: z,
		regionIndex: regionIndex,
		bounds:      BoundsForChunk(x, y, z),
	}
}

// GraphicsState returns the state for pass, or nil when the chunk has no
// geometry in that pass.
func (s *Section) GraphicsState(p Pass) *GraphicsState {
	return s.states[p]
}

// SetGraphicsState replaces the state for pass and returns the previous one.
func (s *Section) SetGraphicsState(p Pass, st *GraphicsState) *GraphicsState {
	old := s.states[p]
	s.states[p] = st
	return old
}

func (s *Section) Bounds() RenderBounds     { return s.bounds }
func (s *Section) SetBounds(b RenderBounds) { s.bounds = b }
func (s *Section) RegionIndex() int         { return s.regionIndex }
