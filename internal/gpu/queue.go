//go:build windows

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// Queue is an in-order submission channel of a Context. Commands submitted
// on a queue execute in submission order.
type Queue struct {
	ctx   *Context
	queue *wgpu.Queue
}

// Context returns the context the queue belongs to.
func (q *Queue) Context() *Context { return q.ctx }

func (q *Queue) released() bool { return q == nil || q.queue == nil }

func (q *Queue) release() {
	if q.queue != nil {
		q.queue.Release()
		q.queue = nil
	}
}

// submit submits command buffers and returns without waiting.
func (q *Queue) submit(cmds ...*wgpu.CommandBuffer) {
	q.queue.Submit(cmds...)
}

// upload copies data into dst through a temporary staging buffer.
// The copy is ordered after previously submitted work; the call does not wait.
func (q *Queue) upload(data []byte, dst *wgpu.Buffer) {
	size := uint64(len(data))
	staging := q.ctx.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()
	writeMapped(staging, data, size)

	encoder := q.ctx.dev.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, dst, 0, size)
	cmdBuffer := encoder.Finish(nil)
	q.submit(cmdBuffer)
}

// download reads size bytes of src back to host memory.
// Uses a pooled staging buffer since storage buffers can't be mapped directly.
// Blocks until all previously submitted work and the copy have completed.
func (q *Queue) download(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging, stagingSize := q.ctx.staging.Acquire(size)
	defer q.ctx.staging.Release(staging, stagingSize)

	encoder := q.ctx.dev.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	cmdBuffer := encoder.Finish(nil)
	q.submit(cmdBuffer)

	if err := staging.MapAsync(q.ctx.dev, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("gpu: failed to map staging buffer: %w", err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)
	staging.Unmap()

	return result, nil
}

// writeMapped copies data into a buffer created with MappedAtCreation and
// unmaps it. Bytes past len(data) are left zero.
func writeMapped(buffer *wgpu.Buffer, data []byte, size uint64) {
	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()
}
