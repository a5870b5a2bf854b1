package device

import (
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// GLDevice submits commands to the current OpenGL context. It must only be used
// from the thread that owns the context.
type GLDevice struct {
	caps Capabilities
}

// NewGLDevice queries the context version and limits. gl.Init must have been called.
func NewGLDevice() *GLDevice {
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)

	d := &GLDevice{}
	if major > 4 || (major == 4 && minor >= 3) {
		var sizeX, invocations, shared int32
		gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_SIZE, 0, &sizeX)
		gl.GetIntegerv(gl.MAX_COMPUTE_WORK_GROUP_INVOCATIONS, &invocations)
		gl.GetIntegerv(gl.MAX_COMPUTE_SHARED_MEMORY_SIZE, &shared)
		d.caps = Capabilities{
			Compute:                        sizeX > 0,
			MaxComputeWorkGroupSizeX:       int(sizeX),
			MaxComputeWorkGroupInvocations: int(invocations),
			MaxComputeSharedMemorySize:     int(shared),
		}
	}
	return d
}

func (d *GLDevice) Capabilities() Capabilities {
	return d.caps
}

func (d *GLDevice) CreateBuffer() *Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	return &Buffer{ID: id}
}

func (d *GLDevice) UploadData(buf *Buffer, data []byte, usage BufferUsage) {
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buf.ID)
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(&data[0])
	}
	gl.BufferData(gl.COPY_WRITE_BUFFER, len(data), ptr, glUsage(usage))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	buf.Size = len(data)
}

func (d *GLDevice) UploadSubData(buf *Buffer, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buf.ID)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, offset, len(data), gl.Ptr(&data[0]))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

func (d *GLDevice) AllocateStorage(buf *Buffer, size int, usage BufferUsage) {
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buf.ID)
	gl.BufferData(gl.COPY_WRITE_BUFFER, size, nil, glUsage(usage))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	buf.Size = size
}

func (d *GLDevice) CopyBufferSubData(src, dst *Buffer, srcOffset, dstOffset, size int) {
	if size <= 0 {
		return
	}
	gl.BindBuffer(gl.COPY_READ_BUFFER, src.ID)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, dst.ID)
	gl.CopyBufferSubData(gl.COPY_READ_BUFFER, gl.COPY_WRITE_BUFFER, srcOffset, dstOffset, size)
	gl.BindBuffer(gl.COPY_READ_BUFFER, 0)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

func (d *GLDevice) DeleteBuffer(buf *Buffer) {
	if buf == nil || buf.ID == 0 {
		return
	}
	gl.DeleteBuffers(1, &buf.ID)
	buf.ID = 0
	buf.Size = 0
}

func (d *GLDevice) BindBufferBase(target BufferTarget, index uint32, buf *Buffer) {
	gl.BindBufferBase(glTarget(target), index, buf.ID)
}

func (d *GLDevice) CreateTessellation(primitive PrimitiveType, bindings []TessellationBinding) *Tessellation {
	t := &Tessellation{Primitive: primitive, Bindings: bindings}
	gl.GenVertexArrays(1, &t.ID)
	gl.BindVertexArray(t.ID)

	for _, b := range bindings {
		gl.BindBuffer(glTarget(b.Target), b.Buffer.ID)
		if b.Target != ArrayBuffer {
			continue
		}
		for _, a := range b.Attributes {
			gl.EnableVertexAttribArray(a.Index)
			if a.Integer {
				gl.VertexAttribIPointer(a.Index, a.Components, glAttributeType(a.Type), b.Stride, gl.PtrOffset(a.Offset))
			} else {
				gl.VertexAttribPointer(a.Index, a.Components, glAttributeType(a.Type), a.Normalized, b.Stride, gl.PtrOffset(a.Offset))
			}
		}
	}

	// The element buffer binding is VAO state and must stay bound until the VAO is unbound.
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return t
}

func (d *GLDevice) DeleteTessellation(t *Tessellation) {
	if t == nil || t.ID == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &t.ID)
	t.ID = 0
}

func (d *GLDevice) MultiDrawElementsBaseVertex(t *Tessellation, pointers []uintptr, counts []int32, baseVertices []int32, indexType IndexType) {
	if len(counts) == 0 {
		return
	}
	gl.BindVertexArray(t.ID)
	gl.MultiDrawElementsBaseVertex(gl.TRIANGLES, &counts[0], glIndexType(indexType),
		(*unsafe.Pointer)(unsafe.Pointer(&pointers[0])), int32(len(counts)), &baseVertices[0])
	gl.BindVertexArray(0)
}

func (d *GLDevice) DispatchCompute(x, y, z uint32) {
	gl.DispatchCompute(x, y, z)
}

func (d *GLDevice) MemoryBarrier(bits Barrier) {
	gl.MemoryBarrier(glBarrier(bits))
}

func (d *GLDevice) FenceSync() Fence {
	return Fence(gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0))
}

func (d *GLDevice) ClientWaitSync(f Fence, timeout time.Duration) SyncStatus {
	switch gl.ClientWaitSync(uintptr(f), gl.SYNC_FLUSH_COMMANDS_BIT, uint64(timeout.Nanoseconds())) {
	case gl.ALREADY_SIGNALED, gl.CONDITION_SATISFIED:
		return SyncSignaled
	case gl.TIMEOUT_EXPIRED:
		return SyncTimeout
	default:
		return SyncFailed
	}
}

func (d *GLDevice) DeleteSync(f Fence) {
	gl.DeleteSync(uintptr(f))
}

func (d *GLDevice) CreateQuery() Query {
	var id uint32
	gl.GenQueries(1, &id)
	return Query(id)
}

func (d *GLDevice) BeginTimeElapsed(q Query) {
	gl.BeginQuery(gl.TIME_ELAPSED, uint32(q))
}

func (d *GLDevice) EndTimeElapsed() {
	gl.EndQuery(gl.TIME_ELAPSED)
}

func (d *GLDevice) QueryResult(q Query) (time.Duration, bool) {
	var available int32
	gl.GetQueryObjectiv(uint32(q), gl.QUERY_RESULT_AVAILABLE, &available)
	if available == gl.FALSE {
		return 0, false
	}
	var ns uint64
	gl.GetQueryObjectui64v(uint32(q), gl.QUERY_RESULT, &ns)
	return time.Duration(ns), true
}

func (d *GLDevice) DeleteQuery(q Query) {
	id := uint32(q)
	gl.DeleteQueries(1, &id)
}

func glTarget(t BufferTarget) uint32 {
	switch t {
	case ArrayBuffer:
		return gl.ARRAY_BUFFER
	case ElementArrayBuffer:
		return gl.ELEMENT_ARRAY_BUFFER
	case UniformBuffer:
		return gl.UNIFORM_BUFFER
	case ShaderStorageBuffer:
		return gl.SHADER_STORAGE_BUFFER
	case CopyReadBuffer:
		return gl.COPY_READ_BUFFER
	default:
		return gl.COPY_WRITE_BUFFER
	}
}

func glUsage(u BufferUsage) uint32 {
	switch u {
	case StaticDraw:
		return gl.STATIC_DRAW
	case StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.DYNAMIC_DRAW
	}
}

func glIndexType(t IndexType) uint32 {
	switch t {
	case UnsignedByte:
		return gl.UNSIGNED_BYTE
	case UnsignedShort:
		return gl.UNSIGNED_SHORT
	default:
		return gl.UNSIGNED_INT
	}
}

func glAttributeType(t AttributeType) uint32 {
	switch t {
	case AttributeUnsignedByte:
		return gl.UNSIGNED_BYTE
	case AttributeUnsignedShort:
		return gl.UNSIGNED_SHORT
	case AttributeShort:
		return gl.SHORT
	default:
		return gl.FLOAT
	}
}

func glBarrier(bits Barrier) uint32 {
	var out uint32
	if bits&BarrierBufferUpdate != 0 {
		out |= gl.BUFFER_UPDATE_BARRIER_BIT
	}
	if bits&BarrierShaderStorage != 0 {
		out |= gl.SHADER_STORAGE_BARRIER_BIT
	}
	if bits&BarrierElementArray != 0 {
		out |= gl.ELEMENT_ARRAY_BARRIER_BIT
	}
	if bits&BarrierUniform != 0 {
		out |= gl.UNIFORM_BARRIER_BIT
	}
	if bits&BarrierCommand != 0 {
		out |= gl.COMMAND_BARRIER_BIT
	}
	return out
}
