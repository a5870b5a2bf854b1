package sorting

import (
	"log/slog"
	"time"

	"regionview/internal/graphics/device"
	"regionview/internal/render/batch"
	"regionview/internal/render/chunk"
	"regionview/internal/render/region"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader storage bindings of the sort program.
const (
	BindingVertices     uint32 = 1
	BindingIndices      uint32 = 2
	BindingSegments     uint32 = 3
	BindingPointers     uint32 = 4
	BindingCounts       uint32 = 5
	BindingBaseVertices uint32 = 6

	// BindingDrawParameters is the uniform block holding per-chunk offsets.
	BindingDrawParameters uint32 = 0
)

// Uniform names of the sort program.
const (
	UniformModelView     = "u_ModelViewMatrix"
	UniformModelScale    = "u_ModelScale"
	UniformModelOffset   = "u_ModelOffset"
	UniformExecutionType = "u_ExecutionType"
	UniformSortHeight    = "u_SortHeight"
	BlockDrawParameters  = "ubo_DrawParameters"
)

const stageBarrier = device.BarrierBufferUpdate | device.BarrierShaderStorage

// DispatcherConfig tunes a Dispatcher.
type DispatcherConfig struct {
	// WorkGroupWidth is the local size of the sort program.
	WorkGroupWidth int
	// FenceTimeout enables an advisory wait after each sort. Zero disables it.
	FenceTimeout time.Duration
	// Timing measures the sort sequence with GPU timer queries.
	Timing bool
	// TimingBudget is the average above which timing reports are warnings.
	// Zero warns on every report.
	TimingBudget time.Duration
	// TimerSamples is the averaging window. Zero means DefaultTimerSamples.
	TimerSamples int
	// RingDepth is the number of metadata buffer sets. Zero means DefaultRingDepth.
	RingDepth int
}

// Dispatcher issues the compute dispatches that resort a region's translucent
// index buffer in place.
type Dispatcher struct {
	cmd            device.CommandList
	program        device.Program
	drawParameters *device.Buffer
	logger         *slog.Logger

	workGroupWidth int
	fenceTimeout   time.Duration
	timingBudget   time.Duration

	packer   *Packer
	segments Segments
	timer    *Timer
}

// NewDispatcher creates a dispatcher driving program. drawParameters is bound
// as the per-chunk offset block. A nil logger discards output.
func NewDispatcher(cmd device.CommandList, program device.Program, drawParameters *device.Buffer, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	depth := cfg.RingDepth
	if depth <= 0 {
		depth = DefaultRingDepth
	}
	d := &Dispatcher{
		cmd:            cmd,
		program:        program,
		drawParameters: drawParameters,
		logger:         logger,
		workGroupWidth: cfg.WorkGroupWidth,
		fenceTimeout:   cfg.FenceTimeout,
		timingBudget:   cfg.TimingBudget,
		packer:         NewPacker(cmd, depth),
	}
	if cfg.Timing {
		d.timer = NewTimer(cmd, cfg.TimerSamples)
	}
	return d
}

// Sort reorders every chunk segment of b back to front. b must be the 32-bit
// index batch of a translucent pass whose ranges live in arenas. It returns
// the plan that was dispatched and false when there was nothing to sort.
func (d *Dispatcher) Sort(b *batch.MultiDrawBatch, arenas *region.Arenas, modelView mgl32.Mat4) (Plan, bool) {
	if b.IsEmpty() {
		return Plan{}, false
	}
	Pack(b, &d.segments)

	plan, err := PlanDispatch(int(d.segments.MaxIndexCount/3), d.workGroupWidth)
	if err != nil {
		d.logger.Debug("translucent sort skipped", "error", err)
		return Plan{}, false
	}

	bufs := d.packer.Upload(&d.segments)
	chunks := uint32(len(d.segments.Meta))

	d.program.Bind()
	d.program.SetMatrix4(UniformModelView, modelView)
	d.program.SetFloat(UniformModelScale, chunk.ModelScale)
	d.program.SetFloat(UniformModelOffset, chunk.ModelOffset)
	d.program.BindUniformBlock(BlockDrawParameters, BindingDrawParameters, d.drawParameters)

	d.cmd.BindBufferBase(device.ShaderStorageBuffer, BindingVertices, arenas.VertexBuffers.BufferObject())
	d.cmd.BindBufferBase(device.ShaderStorageBuffer, BindingIndices, arenas.IndexBuffers.BufferObject())
	d.cmd.BindBufferBase(device.ShaderStorageBuffer, BindingSegments, bufs.Meta)
	d.cmd.BindBufferBase(device.ShaderStorageBuffer, BindingPointers, bufs.Pointers)
	d.cmd.BindBufferBase(device.ShaderStorageBuffer, BindingCounts, bufs.Counts)
	d.cmd.BindBufferBase(device.ShaderStorageBuffer, BindingBaseVertices, bufs.BaseVertices)

	if d.timer != nil {
		d.timer.Begin()
	}
	for i, s := range plan.Stages {
		d.program.SetInt(UniformExecutionType, int32(s.Type))
		d.program.SetInt(UniformSortHeight, int32(s.Height))
		d.cmd.DispatchCompute(uint32(plan.Groups), chunks, 1)

		bits := stageBarrier
		if i == len(plan.Stages)-1 {
			bits |= device.BarrierElementArray
		}
		d.cmd.MemoryBarrier(bits)
	}
	if d.timer != nil {
		if avg, ok := d.timer.End(); ok {
			d.reportTiming(avg)
		}
	}
	d.program.Unbind()

	if d.fenceTimeout > 0 {
		d.awaitCompletion(len(plan.Stages))
	}

	d.logger.Debug("translucent sort dispatched",
		"chunks", chunks, "stages", len(plan.Stages), "groups", plan.Groups, "domain", plan.SortDomain)
	return plan, true
}

// awaitCompletion waits up to the fence budget and warns on overrun. The
// frame goes on either way.
func (d *Dispatcher) awaitCompletion(stages int) {
	fence := d.cmd.FenceSync()
	defer d.cmd.DeleteSync(fence)

	if status := d.cmd.ClientWaitSync(fence, d.fenceTimeout); status != device.SyncSignaled {
		d.logger.Warn("translucent sort exceeded budget",
			"status", status, "budget", d.fenceTimeout, "stages", stages)
	}
}

func (d *Dispatcher) reportTiming(avg time.Duration) {
	attrs := []any{"average", avg, "samples", d.timer.Samples(), "dropped", d.timer.Dropped()}
	if avg > d.timingBudget {
		d.logger.Warn("translucent sort over budget", append(attrs, "budget", d.timingBudget)...)
		return
	}
	d.logger.Info("translucent sort timing", attrs...)
}

// Timer returns the GPU timer, or nil when timing is off.
func (d *Dispatcher) Timer() *Timer {
	return d.timer
}

// Delete frees the metadata buffers and timer queries. The program is owned
// by the caller.
func (d *Dispatcher) Delete() {
	d.packer.Delete()
	if d.timer != nil {
		d.timer.Delete()
	}
}
