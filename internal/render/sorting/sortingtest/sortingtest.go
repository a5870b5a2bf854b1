// Package sortingtest runs the translucent sort kernels on the CPU whenever a
// recording device dispatches compute work.
package sortingtest

import (
	"regionview/internal/graphics/device"
	"regionview/internal/graphics/device/devicetest"
	"regionview/internal/render/sorting"
)

// Attach makes every dispatch recorded by rec execute the matching kernel
// against the buffers currently bound, so index buffers read back sorted.
func Attach(rec *devicetest.Recorder, workGroupWidth int) {
	rec.OnDispatch = func(r *devicetest.Recorder, d devicetest.Dispatch) {
		ssbo := func(binding uint32) []byte {
			return r.BytesOf(r.Bound(device.ShaderStorageBuffer, binding))
		}
		chunks := int(d.Groups[1])
		segments := sorting.DecodeSegments(
			ssbo(sorting.BindingSegments),
			ssbo(sorting.BindingPointers),
			ssbo(sorting.BindingCounts),
			ssbo(sorting.BindingBaseVertices),
			chunks,
		)
		n := sorting.Network{
			Vertices:       ssbo(sorting.BindingVertices),
			Indices:        ssbo(sorting.BindingIndices),
			ChunkInfo:      r.BytesOf(r.Bound(device.UniformBuffer, sorting.BindingDrawParameters)),
			ModelView:      d.Matrices[sorting.UniformModelView],
			ModelScale:     d.Floats[sorting.UniformModelScale],
			ModelOffset:    d.Floats[sorting.UniformModelOffset],
			WorkGroupWidth: workGroupWidth,
			Segments:       segments,
		}
		stage := sorting.Stage{
			Type:   sorting.ExecutionType(d.Uniforms[sorting.UniformExecutionType]),
			Height: int(d.Uniforms[sorting.UniformSortHeight]),
		}
		n.Dispatch(stage, int(d.Groups[0]), chunks)
	}
}
