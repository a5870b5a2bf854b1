package batch

import (
	"regionview/internal/graphics/device"
	"regionview/internal/render/chunk"
	"regionview/internal/render/region"

	"github.com/go-gl/mathgl/mgl64"
)

// Assembler owns one scratch batch per index width and refills them for every
// region drawn. It is not safe for concurrent use.
type Assembler struct {
	batches     [device.IndexTypeCount]*MultiDrawBatch
	faceCulling bool
}

// NewAssembler creates an assembler sized for a full region with every facing
// present.
func NewAssembler(faceCulling bool) *Assembler {
	a := &Assembler{faceCulling: faceCulling}
	for i := range a.batches {
		a.batches[i] = NewMultiDrawBatch(chunk.FacingCount * region.Size)
	}
	return a
}

// SetFaceCulling toggles camera-relative culling of axis-aligned facings.
func (a *Assembler) SetFaceCulling(enabled bool) {
	a.faceCulling = enabled
}

// FaceCulling reports whether facing culling is on.
func (a *Assembler) FaceCulling() bool {
	return a.faceCulling
}

// Batch returns the scratch batch for index width t.
func (a *Assembler) Batch(t device.IndexType) *MultiDrawBatch {
	return a.batches[t]
}

// Build fills the batches from sections, which are in front-to-back order.
// Translucent passes walk the sections backwards and never cull by facing.
// It reports whether anything was emitted.
func (a *Assembler) Build(sections []*chunk.Section, pass chunk.Pass, camera chunk.CameraContext) bool {
	for _, b := range a.batches {
		b.Begin()
	}

	translucent := pass.IsTranslucent()
	cull := a.faceCulling && !translucent

	n := len(sections)
	for i := 0; i < n; i++ {
		s := sections[i]
		if translucent {
			s = sections[n-1-i]
		}
		state := s.GraphicsState(pass)
		if state == nil {
			continue
		}

		indexOffset := state.IndexSegment().Offset
		baseVertex := int32(state.VertexSegment().Offset / chunk.VertexStride)
		tag := int32(s.RegionIndex())

		a.addDrawCall(state.ModelPart(chunk.FacingUnassigned), indexOffset, baseVertex, tag)

		if !cull {
			for _, f := range chunk.Directions {
				a.addDrawCall(state.ModelPart(f), indexOffset, baseVertex, tag)
			}
			continue
		}

		b := s.Bounds()
		for _, f := range chunk.Directions {
			if facesCamera(f, b, camera.Pos) {
				a.addDrawCall(state.ModelPart(f), indexOffset, baseVertex, tag)
			}
		}
	}

	nonEmpty := false
	for _, b := range a.batches {
		b.End()
		nonEmpty = nonEmpty || !b.IsEmpty()
	}
	return nonEmpty
}

// facesCamera reports whether the camera is in front of the far face of b
// opposite f, measured along f's normal. Quads of f anywhere in the box can
// then face the camera.
func facesCamera(f chunk.Facing, b chunk.RenderBounds, camera mgl64.Vec3) bool {
	n := f.Normal()
	plane := b.Max
	if n.X()+n.Y()+n.Z() > 0 {
		plane = b.Min
	}
	var d float64
	for i := range n {
		d += float64(n[i]) * (camera[i] - float64(plane[i]))
	}
	return d > 0
}

func (a *Assembler) addDrawCall(part *chunk.ElementRange, indexOffset int, baseVertex, tag int32) {
	if part == nil {
		return
	}
	a.batches[part.IndexType].Add(
		uintptr(indexOffset+part.ElementPointer),
		part.ElementCount,
		baseVertex+part.BaseVertex,
		tag,
	)
}
