// Package device wraps the subset of the GL command stream used by the chunk
// renderer behind a CommandList so the batching and sorting logic can be driven
// against either a live context or a recorder.
package device

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// BufferTarget selects the binding point a buffer is attached to.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
	UniformBuffer
	ShaderStorageBuffer
	CopyReadBuffer
	CopyWriteBuffer
)

// BufferUsage is the data store usage hint.
type BufferUsage int

const (
	StaticDraw BufferUsage = iota
	DynamicDraw
	StreamDraw
)

// Barrier is a bit set of memory barrier classes.
type Barrier uint32

const (
	BarrierBufferUpdate Barrier = 1 << iota
	BarrierShaderStorage
	BarrierElementArray
	BarrierUniform
	BarrierCommand

	BarrierAll = BarrierBufferUpdate | BarrierShaderStorage | BarrierElementArray | BarrierUniform | BarrierCommand
)

// Buffer is a GL buffer object. Size is the current data store size in bytes.
type Buffer struct {
	ID   uint32
	Size int
}

// PrimitiveType of a tessellation.
type PrimitiveType int

const (
	Triangles PrimitiveType = iota
)

// AttributeType is the component type of a vertex attribute.
type AttributeType int

const (
	AttributeUnsignedByte AttributeType = iota
	AttributeUnsignedShort
	AttributeShort
	AttributeFloat
)

// VertexAttribute describes one attribute inside an interleaved vertex.
type VertexAttribute struct {
	Index      uint32
	Components int32
	Type       AttributeType
	Normalized bool
	// Integer attributes are fetched as ints in the shader (glVertexAttribIPointer).
	Integer bool
	Offset  int
}

// TessellationBinding attaches a buffer to a tessellation. Attributes and Stride
// are only meaningful for ArrayBuffer bindings.
type TessellationBinding struct {
	Target     BufferTarget
	Buffer     *Buffer
	Stride     int32
	Attributes []VertexAttribute
}

// Tessellation is a vertex array object capturing a vertex and element buffer layout.
type Tessellation struct {
	ID        uint32
	Primitive PrimitiveType
	Bindings  []TessellationBinding
}

// Fence is an opaque GPU sync object.
type Fence uintptr

// SyncStatus is the result of waiting on a Fence.
type SyncStatus int

const (
	SyncSignaled SyncStatus = iota
	SyncTimeout
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case SyncSignaled:
		return "signaled"
	case SyncTimeout:
		return "timeout"
	default:
		return "failed"
	}
}

// Query is a GPU timer query object.
type Query uint32

// Capabilities reports the optional features of the context.
type Capabilities struct {
	// Compute is true when compute shaders and shader storage buffers are available.
	Compute bool
	// MaxComputeWorkGroupSizeX is the largest local_size_x accepted by the driver.
	MaxComputeWorkGroupSizeX int
	// MaxComputeWorkGroupInvocations bounds the product of the local sizes.
	MaxComputeWorkGroupInvocations int
	// MaxComputeSharedMemorySize is the shared memory of one work group, in bytes.
	MaxComputeSharedMemorySize int
}

// MinComputeSharedMemorySize is the shared memory every GL 4.3 context
// guarantees per work group.
const MinComputeSharedMemorySize = 32768

// CommandList issues commands to the GPU in submission order.
type CommandList interface {
	Capabilities() Capabilities

	CreateBuffer() *Buffer
	// UploadData replaces the whole data store of buf with data.
	UploadData(buf *Buffer, data []byte, usage BufferUsage)
	// UploadSubData writes data into an existing store at offset.
	UploadSubData(buf *Buffer, offset int, data []byte)
	// AllocateStorage resizes the data store of buf, discarding its contents.
	AllocateStorage(buf *Buffer, size int, usage BufferUsage)
	CopyBufferSubData(src, dst *Buffer, srcOffset, dstOffset, size int)
	DeleteBuffer(buf *Buffer)
	BindBufferBase(target BufferTarget, index uint32, buf *Buffer)

	CreateTessellation(primitive PrimitiveType, bindings []TessellationBinding) *Tessellation
	DeleteTessellation(t *Tessellation)
	// MultiDrawElementsBaseVertex draws len(counts) ranges from the element
	// buffer of t. pointers are byte offsets into that buffer.
	MultiDrawElementsBaseVertex(t *Tessellation, pointers []uintptr, counts []int32, baseVertices []int32, indexType IndexType)

	DispatchCompute(x, y, z uint32)
	MemoryBarrier(bits Barrier)

	FenceSync() Fence
	ClientWaitSync(f Fence, timeout time.Duration) SyncStatus
	DeleteSync(f Fence)

	CreateQuery() Query
	BeginTimeElapsed(q Query)
	EndTimeElapsed()
	// QueryResult returns the elapsed GPU time recorded by q, or false when
	// the result is not yet available.
	QueryResult(q Query) (time.Duration, bool)
	DeleteQuery(q Query)
}

// Program is a linked shader program with name-addressed uniforms.
type Program interface {
	Bind()
	Unbind()
	SetInt(name string, value int32)
	SetFloat(name string, value float32)
	SetMatrix4(name string, value mgl32.Mat4)
	// BindUniformBlock attaches buf to the named uniform block at binding.
	BindUniformBlock(name string, binding uint32, buf *Buffer)
	Delete()
}
