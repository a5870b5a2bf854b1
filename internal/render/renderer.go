// Package render draws the chunks of every visible region with one
// multi-draw call per index width, resorting translucent geometry on the GPU
// beforehand.
package render

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"regionview/internal/graphics/device"
	"regionview/internal/profiling"
	"regionview/internal/render/batch"
	"regionview/internal/render/chunk"
	"regionview/internal/render/region"
	"regionview/internal/render/sorting"

	"github.com/go-gl/mathgl/mgl32"
)

// chunkInfoStride is the size of one draw-parameters record: x, y, z, pad.
const chunkInfoStride = 16

type passPrograms struct {
	draw   device.Program
	sort   device.Program
	sorter *sorting.Dispatcher
}

// RegionChunkRenderer draws a ChunkRenderList pass by pass.
type RegionChunkRenderer struct {
	cmd       device.CommandList
	logger    *slog.Logger
	opts      Options
	assembler *batch.Assembler
	chunkInfo *device.Buffer
	programs  [chunk.PassCount]passPrograms

	workGroupWidth int
}

// NewRegionChunkRenderer uploads the chunk-info buffer and compiles a draw
// program per pass. A sort program is compiled for the translucent pass when
// sorting is enabled and the device supports compute.
func NewRegionChunkRenderer(cmd device.CommandList, factory ProgramFactory, opts Options) (*RegionChunkRenderer, error) {
	r := &RegionChunkRenderer{
		cmd:       cmd,
		logger:    Logger(),
		opts:      opts,
		assembler: batch.NewAssembler(opts.FaceCulling),
	}

	r.chunkInfo = cmd.CreateBuffer()
	cmd.UploadData(r.chunkInfo, createChunkInfo(), device.StaticDraw)

	for _, pass := range chunk.Passes {
		p, err := factory.NewChunkProgram(pass)
		if err != nil {
			r.Delete()
			return nil, fmt.Errorf("chunk program for %s pass: %w", pass, err)
		}
		r.programs[pass].draw = p
	}

	caps := cmd.Capabilities()
	switch {
	case !opts.TranslucentSorting:
		r.logger.Info("translucent sorting disabled")
	case !caps.Compute:
		r.logger.Info("compute unsupported, translucent sorting skipped")
	default:
		r.workGroupWidth = clampWorkGroupWidth(opts.WorkGroupWidth, caps)
		prog, err := factory.NewSortProgram(r.workGroupWidth)
		if err != nil {
			r.Delete()
			return nil, fmt.Errorf("sort program: %w", err)
		}
		tp := &r.programs[chunk.PassTranslucent]
		tp.sort = prog
		tp.sorter = sorting.NewDispatcher(cmd, prog, r.chunkInfo, sorting.DispatcherConfig{
			WorkGroupWidth: r.workGroupWidth,
			FenceTimeout:   opts.SortFenceTimeout,
			Timing:         opts.SortTiming,
			TimingBudget:   opts.SortTimingBudget,
		}, r.logger)
		r.logger.Info("translucent sorting enabled", "workGroupWidth", r.workGroupWidth)
	}
	return r, nil
}

// SortsTranslucent reports whether translucent passes are resorted.
func (r *RegionChunkRenderer) SortsTranslucent() bool {
	return r.programs[chunk.PassTranslucent].sorter != nil
}

// WorkGroupWidth returns the local size the sort program was built with, or 0.
func (r *RegionChunkRenderer) WorkGroupWidth() int {
	return r.workGroupWidth
}

// SetFaceCulling toggles facing culling for subsequent frames.
func (r *RegionChunkRenderer) SetFaceCulling(enabled bool) {
	r.opts.FaceCulling = enabled
	r.assembler.SetFaceCulling(enabled)
}

// Render draws pass for every region of list. modelView is the camera view
// without translation; each region adds its own camera-relative offset.
func (r *RegionChunkRenderer) Render(modelView, projection mgl32.Mat4, list *region.ChunkRenderList, pass chunk.Pass, camera chunk.CameraContext) {
	defer profiling.Track("render.RegionChunkRenderer.Render")()

	progs := &r.programs[pass]
	shader := progs.draw
	shader.Bind()
	shader.SetMatrix4(UniformProjection, projection)
	shader.SetFloat(UniformModelScale, chunk.ModelScale)
	shader.SetFloat(UniformModelOffset, chunk.ModelOffset)
	shader.BindUniformBlock(BlockDrawParameters, BindingDrawParameters, r.chunkInfo)

	for _, entry := range list.Sorted(pass.IsTranslucent()) {
		arenas := entry.Region.Arenas()
		if arenas == nil {
			continue
		}
		if !r.assembler.Build(entry.Sections, pass, camera) {
			continue
		}

		matrix := regionModelView(modelView, entry.Region, camera)

		if progs.sorter != nil {
			shader.Unbind()
			if _, ok := progs.sorter.Sort(r.assembler.Batch(device.UnsignedInt), arenas, matrix); ok {
				r.recordSortTiming(progs.sorter)
			}
			shader.Bind()
		}

		shader.SetMatrix4(UniformModelView, matrix)

		tessellation := r.tessellationForRegion(arenas, pass)
		r.executeDrawBatches(tessellation)
	}

	shader.Unbind()
}

// executeDrawBatches issues one multi-draw per non-empty index width.
func (r *RegionChunkRenderer) executeDrawBatches(tessellation *device.Tessellation) {
	for _, t := range device.IndexTypes {
		b := r.assembler.Batch(t)
		if b.IsEmpty() {
			continue
		}
		r.cmd.MultiDrawElementsBaseVertex(tessellation, b.Pointers(), b.Counts(), b.BaseVertices(), t)
	}
}

// tessellationForRegion returns the cached binding for the region's arenas,
// creating it when missing or invalidated by arena growth.
func (r *RegionChunkRenderer) tessellationForRegion(arenas *region.Arenas, pass chunk.Pass) *device.Tessellation {
	if t := arenas.Tessellation(r.cmd, pass); t != nil {
		return t
	}
	t := r.cmd.CreateTessellation(device.Triangles, []device.TessellationBinding{
		{
			Target:     device.ArrayBuffer,
			Buffer:     arenas.VertexBuffers.BufferObject(),
			Stride:     chunk.VertexStride,
			Attributes: chunk.VertexAttributes,
		},
		{
			Target: device.ElementArrayBuffer,
			Buffer: arenas.IndexBuffers.BufferObject(),
		},
	})
	arenas.SetTessellation(pass, t)
	return t
}

func (r *RegionChunkRenderer) recordSortTiming(d *sorting.Dispatcher) {
	if t := d.Timer(); t != nil && t.Average() > 0 {
		profiling.RecordGPU("render.translucentSort", t.Average())
	}
}

// Delete frees the chunk-info buffer and every program.
func (r *RegionChunkRenderer) Delete() {
	for i := range r.programs {
		p := &r.programs[i]
		if p.sorter != nil {
			p.sorter.Delete()
			p.sorter = nil
		}
		if p.sort != nil {
			p.sort.Delete()
			p.sort = nil
		}
		if p.draw != nil {
			p.draw.Delete()
			p.draw = nil
		}
	}
	if r.chunkInfo != nil {
		r.cmd.DeleteBuffer(r.chunkInfo)
		r.chunkInfo = nil
	}
}

// regionModelView appends the camera-relative translation of the region origin.
func regionModelView(modelView mgl32.Mat4, reg *region.Region, camera chunk.CameraContext) mgl32.Mat4 {
	x := chunk.Translation(reg.OriginX(), camera.BlockX, camera.DeltaX)
	y := chunk.Translation(reg.OriginY(), camera.BlockY, camera.DeltaY)
	z := chunk.Translation(reg.OriginZ(), camera.BlockZ, camera.DeltaZ)
	return modelView.Mul4(mgl32.Translate3D(x, y, z))
}

// createChunkInfo lays out the chunk origin of every region slot, relative to
// the region origin.
func createChunkInfo() []byte {
	data := make([]byte, region.Size*chunkInfoStride)
	for x := 0; x < region.Width; x++ {
		for y := 0; y < region.Height; y++ {
			for z := 0; z < region.Length; z++ {
				i := region.ChunkIndex(x, y, z) * chunkInfoStride
				binary.LittleEndian.PutUint32(data[i:], math.Float32bits(float32(x*chunk.Size)))
				binary.LittleEndian.PutUint32(data[i+4:], math.Float32bits(float32(y*chunk.Size)))
				binary.LittleEndian.PutUint32(data[i+8:], math.Float32bits(float32(z*chunk.Size)))
			}
		}
	}
	return data
}

// clampWorkGroupWidth reduces requested to the largest power of two within
// the work-group size, invocation and shared memory limits of the device.
// Zero limits are ignored.
func clampWorkGroupWidth(requested int, caps device.Capabilities) int {
	if limit := caps.MaxComputeWorkGroupSizeX; limit > 0 {
		requested = min(requested, limit)
	}
	if limit := caps.MaxComputeWorkGroupInvocations; limit > 0 {
		requested = min(requested, limit)
	}
	if shared := caps.MaxComputeSharedMemorySize; shared > 0 {
		requested = min(requested, shared/sorting.SharedBytesPerInvocation)
	}
	w := 1
	for w*2 <= requested {
		w *= 2
	}
	return w
}
