// Package devicetest provides an in-memory CommandList that records every
// command and keeps buffer contents on the CPU, for tests that must not touch GL.
package devicetest

import (
	"encoding/binary"
	"maps"
	"time"

	"regionview/internal/graphics/device"

	"github.com/go-gl/mathgl/mgl32"
)

// Op identifies a recorded command.
type Op string

const (
	OpCreateBuffer       Op = "createBuffer"
	OpUploadData         Op = "uploadData"
	OpUploadSubData      Op = "uploadSubData"
	OpAllocateStorage    Op = "allocateStorage"
	OpCopyBuffer         Op = "copyBuffer"
	OpDeleteBuffer       Op = "deleteBuffer"
	OpBindBufferBase     Op = "bindBufferBase"
	OpCreateTessellation Op = "createTessellation"
	OpDeleteTessellation Op = "deleteTessellation"
	OpMultiDraw          Op = "multiDraw"
	OpDispatch           Op = "dispatch"
	OpBarrier            Op = "barrier"
	OpFence              Op = "fence"
	OpWaitSync           Op = "waitSync"
	OpBeginQuery         Op = "beginQuery"
	OpEndQuery           Op = "endQuery"
	OpBindProgram        Op = "bindProgram"
	OpUnbindProgram      Op = "unbindProgram"
	OpSetUniform         Op = "setUniform"
)

// Call is one recorded command. Only the fields relevant to Op are set.
type Call struct {
	Op      Op
	Buffer  uint32
	Index   uint32
	Target  device.BufferTarget
	Barrier device.Barrier
	Groups  [3]uint32
	Name    string
	Int     int32
	Program string

	// Draw arguments, copied at record time.
	Tessellation uint32
	IndexType    device.IndexType
	Pointers     []uintptr
	Counts       []int32
	BaseVertices []int32
}

// Dispatch is a compute dispatch together with a snapshot of the uniforms of
// the program bound when it was issued.
type Dispatch struct {
	Groups   [3]uint32
	Program  string
	Uniforms map[string]int32
	Floats   map[string]float32
	Matrices map[string]mgl32.Mat4
}

// Recorder implements device.CommandList.
type Recorder struct {
	Caps  device.Capabilities
	Calls []Call

	// SyncStatus is returned by ClientWaitSync.
	SyncStatus device.SyncStatus
	// QueryTime is returned by QueryResult for every query.
	QueryTime time.Duration
	// QueryBusy makes that many upcoming QueryResult calls report the
	// result as unavailable.
	QueryBusy int
	// OnDispatch runs synchronously for every dispatch, after it is recorded.
	OnDispatch func(r *Recorder, d Dispatch)

	nextID   uint32
	store    map[uint32][]byte
	bindings map[device.BufferTarget]map[uint32]uint32
	bound    *Program
}

// NewRecorder returns a recorder reporting compute support with the given
// work-group limit and the minimum shared memory of a GL 4.3 context.
func NewRecorder(maxWorkGroupSizeX int) *Recorder {
	caps := device.Capabilities{
		Compute:                        maxWorkGroupSizeX > 0,
		MaxComputeWorkGroupSizeX:       maxWorkGroupSizeX,
		MaxComputeWorkGroupInvocations: maxWorkGroupSizeX,
	}
	if caps.Compute {
		caps.MaxComputeSharedMemorySize = device.MinComputeSharedMemorySize
	}
	return &Recorder{
		Caps:     caps,
		store:    make(map[uint32][]byte),
		bindings: make(map[device.BufferTarget]map[uint32]uint32),
	}
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

func (r *Recorder) Capabilities() device.Capabilities {
	return r.Caps
}

func (r *Recorder) CreateBuffer() *device.Buffer {
	b := &device.Buffer{ID: r.id()}
	r.store[b.ID] = nil
	r.Calls = append(r.Calls, Call{Op: OpCreateBuffer, Buffer: b.ID})
	return b
}

func (r *Recorder) UploadData(buf *device.Buffer, data []byte, usage device.BufferUsage) {
	r.store[buf.ID] = append([]byte(nil), data...)
	buf.Size = len(data)
	r.Calls = append(r.Calls, Call{Op: OpUploadData, Buffer: buf.ID, Int: int32(len(data))})
}

func (r *Recorder) UploadSubData(buf *device.Buffer, offset int, data []byte) {
	copy(r.store[buf.ID][offset:], data)
	r.Calls = append(r.Calls, Call{Op: OpUploadSubData, Buffer: buf.ID, Int: int32(len(data))})
}

func (r *Recorder) AllocateStorage(buf *device.Buffer, size int, usage device.BufferUsage) {
	r.store[buf.ID] = make([]byte, size)
	buf.Size = size
	r.Calls = append(r.Calls, Call{Op: OpAllocateStorage, Buffer: buf.ID, Int: int32(size)})
}

func (r *Recorder) CopyBufferSubData(src, dst *device.Buffer, srcOffset, dstOffset, size int) {
	copy(r.store[dst.ID][dstOffset:dstOffset+size], r.store[src.ID][srcOffset:srcOffset+size])
	r.Calls = append(r.Calls, Call{Op: OpCopyBuffer, Buffer: dst.ID, Index: src.ID, Int: int32(size)})
}

func (r *Recorder) DeleteBuffer(buf *device.Buffer) {
	delete(r.store, buf.ID)
	r.Calls = append(r.Calls, Call{Op: OpDeleteBuffer, Buffer: buf.ID})
	buf.ID = 0
	buf.Size = 0
}

func (r *Recorder) BindBufferBase(target device.BufferTarget, index uint32, buf *device.Buffer) {
	m := r.bindings[target]
	if m == nil {
		m = make(map[uint32]uint32)
		r.bindings[target] = m
	}
	m[index] = buf.ID
	r.Calls = append(r.Calls, Call{Op: OpBindBufferBase, Target: target, Index: index, Buffer: buf.ID})
}

func (r *Recorder) CreateTessellation(primitive device.PrimitiveType, bindings []device.TessellationBinding) *device.Tessellation {
	t := &device.Tessellation{ID: r.id(), Primitive: primitive, Bindings: bindings}
	r.Calls = append(r.Calls, Call{Op: OpCreateTessellation, Tessellation: t.ID})
	return t
}

func (r *Recorder) DeleteTessellation(t *device.Tessellation) {
	r.Calls = append(r.Calls, Call{Op: OpDeleteTessellation, Tessellation: t.ID})
	t.ID = 0
}

func (r *Recorder) MultiDrawElementsBaseVertex(t *device.Tessellation, pointers []uintptr, counts []int32, baseVertices []int32, indexType device.IndexType) {
	r.Calls = append(r.Calls, Call{
		Op:           OpMultiDraw,
		Tessellation: t.ID,
		IndexType:    indexType,
		Pointers:     append([]uintptr(nil), pointers...),
		Counts:       append([]int32(nil), counts...),
		BaseVertices: append([]int32(nil), baseVertices...),
	})
}

func (r *Recorder) DispatchCompute(x, y, z uint32) {
	d := Dispatch{
		Groups:   [3]uint32{x, y, z},
		Uniforms: map[string]int32{},
		Floats:   map[string]float32{},
		Matrices: map[string]mgl32.Mat4{},
	}
	if r.bound != nil {
		d.Program = r.bound.Name
		maps.Copy(d.Uniforms, r.bound.Ints)
		maps.Copy(d.Floats, r.bound.Floats)
		maps.Copy(d.Matrices, r.bound.Matrices)
	}
	r.Calls = append(r.Calls, Call{Op: OpDispatch, Groups: d.Groups, Program: d.Program})
	if r.OnDispatch != nil {
		r.OnDispatch(r, d)
	}
}

func (r *Recorder) MemoryBarrier(bits device.Barrier) {
	r.Calls = append(r.Calls, Call{Op: OpBarrier, Barrier: bits})
}

func (r *Recorder) FenceSync() device.Fence {
	id := r.id()
	r.Calls = append(r.Calls, Call{Op: OpFence, Index: id})
	return device.Fence(id)
}

func (r *Recorder) ClientWaitSync(f device.Fence, timeout time.Duration) device.SyncStatus {
	r.Calls = append(r.Calls, Call{Op: OpWaitSync, Index: uint32(f), Int: int32(timeout / time.Microsecond)})
	return r.SyncStatus
}

func (r *Recorder) DeleteSync(f device.Fence) {}

func (r *Recorder) CreateQuery() device.Query {
	return device.Query(r.id())
}

func (r *Recorder) BeginTimeElapsed(q device.Query) {
	r.Calls = append(r.Calls, Call{Op: OpBeginQuery, Index: uint32(q)})
}

func (r *Recorder) EndTimeElapsed() {
	r.Calls = append(r.Calls, Call{Op: OpEndQuery})
}

func (r *Recorder) QueryResult(q device.Query) (time.Duration, bool) {
	if r.QueryBusy > 0 {
		r.QueryBusy--
		return 0, false
	}
	return r.QueryTime, true
}

func (r *Recorder) DeleteQuery(q device.Query) {}

// Bytes returns the CPU copy of a buffer's contents.
func (r *Recorder) Bytes(buf *device.Buffer) []byte {
	return r.store[buf.ID]
}

// BytesOf returns the contents of the buffer with the given id.
func (r *Recorder) BytesOf(id uint32) []byte {
	return r.store[id]
}

// Bound returns the id of the buffer attached to target at index.
func (r *Recorder) Bound(target device.BufferTarget, index uint32) uint32 {
	return r.bindings[target][index]
}

// BoundInt32s decodes the buffer attached to target at index as little endian int32s.
func (r *Recorder) BoundInt32s(target device.BufferTarget, index uint32) []int32 {
	data := r.store[r.Bound(target, index)]
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

// Count returns how many calls with op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls with op, in order.
func (r *Recorder) Filter(op Op) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops the call log but keeps buffer contents and bindings.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Program implements device.Program on top of a Recorder.
type Program struct {
	Name     string
	Ints     map[string]int32
	Floats   map[string]float32
	Matrices map[string]mgl32.Mat4
	Blocks   map[string]uint32
	Deleted  bool

	rec *Recorder
}

// NewProgram creates a program whose uniform writes are logged to r.
func (r *Recorder) NewProgram(name string) *Program {
	return &Program{
		Name:     name,
		Ints:     map[string]int32{},
		Floats:   map[string]float32{},
		Matrices: map[string]mgl32.Mat4{},
		Blocks:   map[string]uint32{},
		rec:      r,
	}
}

func (p *Program) Bind() {
	p.rec.bound = p
	p.rec.Calls = append(p.rec.Calls, Call{Op: OpBindProgram, Program: p.Name})
}

func (p *Program) Unbind() {
	if p.rec.bound == p {
		p.rec.bound = nil
	}
	p.rec.Calls = append(p.rec.Calls, Call{Op: OpUnbindProgram, Program: p.Name})
}

func (p *Program) SetInt(name string, value int32) {
	p.Ints[name] = value
	p.rec.Calls = append(p.rec.Calls, Call{Op: OpSetUniform, Program: p.Name, Name: name, Int: value})
}

func (p *Program) SetFloat(name string, value float32) {
	p.Floats[name] = value
}

func (p *Program) SetMatrix4(name string, value mgl32.Mat4) {
	p.Matrices[name] = value
}

func (p *Program) BindUniformBlock(name string, binding uint32, buf *device.Buffer) {
	p.Blocks[name] = buf.ID
	p.rec.BindBufferBase(device.UniformBuffer, binding, buf)
}

func (p *Program) Delete() {
	p.Deleted = true
}
