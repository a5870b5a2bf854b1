package chunk

// PassMesh is the geometry of one chunk for one pass as produced by the mesh
// builder. Parts are relative to the start of Vertices and Indices.
type PassMesh struct {
	Vertices []byte
	Indices  []byte
	Parts    [FacingCount]*ElementRange
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m *PassMesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// MeshData is a freshly built chunk mesh, one entry per pass.
type MeshData struct {
	X, Y, Z int
	Bounds  RenderBounds
	Passes  [PassCount]*PassMesh
}
