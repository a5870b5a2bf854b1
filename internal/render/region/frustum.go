package region

import (
	"regionview/internal/render/chunk"

	"github.com/go-gl/mathgl/mgl32"
)

// Frustum holds the six clip planes of a projection*view matrix. Each plane is
// (normal, distance) with a unit normal pointing inside.
type Frustum struct {
	planes [6]mgl32.Vec4
	// Margin inflates every tested box, in blocks.
	Margin float32
}

// NewFrustum extracts the planes from the combined projection*view matrix.
// Planes are stored in order: left, right, bottom, top, near, far.
func NewFrustum(clip mgl32.Mat4) *Frustum {
	r0, r1, r2, r3 := clip.Rows()

	f := &Frustum{Margin: 1.0}
	f.planes[0] = normalizePlane(r3.Add(r0))
	f.planes[1] = normalizePlane(r3.Sub(r0))
	f.planes[2] = normalizePlane(r3.Add(r1))
	f.planes[3] = normalizePlane(r3.Sub(r1))
	f.planes[4] = normalizePlane(r3.Add(r2))
	f.planes[5] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(p mgl32.Vec4) mgl32.Vec4 {
	l := p.Vec3().Len()
	if l == 0 {
		return p
	}
	return p.Mul(1 / l)
}

// IntersectsBounds tests a world-space box against all planes. A nil frustum
// accepts everything.
func (f *Frustum) IntersectsBounds(b chunk.RenderBounds) bool {
	if f == nil {
		return true
	}
	margin := mgl32.Vec3{f.Margin, f.Margin, f.Margin}
	lo, hi := b.Min.Sub(margin), b.Max.Add(margin)

	for _, p := range f.planes {
		// Select the positive vertex for this plane normal
		v := hi
		for i := range 3 {
			if p[i] < 0 {
				v[i] = lo[i]
			}
		}
		if p.Vec3().Dot(v)+p.W() < 0 {
			return false
		}
	}
	return true
}
