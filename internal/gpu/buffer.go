//go:build windows

package gpu

import (
	"fmt"

	"github.com/born-ml/mapkernel/internal/dtype"
	"github.com/go-webgpu/webgpu/wgpu"
)

// bufferUsage is the usage of every kernel-visible buffer. WebGPU has no
// notion of read-only storage at allocation time; the access tag is what
// records the intent.
var bufferUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

// Buffer is a device buffer of n elements of T. A is the capability tag fixed
// at allocation; it decides which kernel arguments the buffer may be bound to.
type Buffer[T dtype.Element, A Access] struct {
	ctx    *Context
	buffer *wgpu.Buffer
	n      int
	size   uint64 // allocated bytes, see dtype.PaddedSize
}

// NewBuffer allocates a zero-initialised buffer of n elements.
func NewBuffer[T dtype.Element, A Access](ctx *Context, n int) (*Buffer[T, A], error) {
	return newBuffer[T, A](ctx, n, nil)
}

// NewBufferFrom allocates a buffer holding a copy of data.
func NewBufferFrom[T dtype.Element, A Access](ctx *Context, data []T) (*Buffer[T, A], error) {
	return newBuffer[T, A](ctx, len(data), dtype.Bytes(data))
}

func newBuffer[T dtype.Element, A Access](ctx *Context, n int, init []byte) (*Buffer[T, A], error) {
	if n < 0 {
		return nil, fmt.Errorf("gpu: negative buffer length %d", n)
	}
	if ctx == nil || ctx.released() {
		return nil, ErrReleased
	}

	size := dtype.PaddedSize(n, dtype.Of[T]())
	desc := &wgpu.BufferDescriptor{
		Usage: bufferUsage,
		Size:  size,
	}
	if init != nil {
		desc.MappedAtCreation = wgpu.True
	}
	var buffer *wgpu.Buffer
	if err := ctx.captureErrors(func() { buffer = ctx.dev.CreateBuffer(desc) }); err != nil {
		if buffer != nil {
			buffer.Release()
		}
		return nil, fmt.Errorf("gpu: failed to allocate %d bytes: %w", size, err)
	}
	if buffer == nil {
		return nil, fmt.Errorf("gpu: failed to allocate %d bytes", size)
	}
	if init != nil {
		writeMapped(buffer, init, size)
	}

	ctx.live.add(size)
	return &Buffer[T, A]{ctx: ctx, buffer: buffer, n: n, size: size}, nil
}

// Len returns the number of elements.
func (b *Buffer[T, A]) Len() int { return b.n }

// ByteSize returns the size of the elements in bytes, excluding padding.
func (b *Buffer[T, A]) ByteSize() int { return b.n * dtype.Of[T]().Size() }

// DataType returns the element type.
func (b *Buffer[T, A]) DataType() dtype.DataType { return dtype.Of[T]() }

// Access returns the kernel access flags of the buffer's tag.
func (b *Buffer[T, A]) Access() AccessFlags { return flagsOf[A]() }

// Context returns the context the buffer was allocated in.
func (b *Buffer[T, A]) Context() *Context { return b.ctx }

// Released reports whether Release has been called.
func (b *Buffer[T, A]) Released() bool { return b.buffer == nil }

// Write copies data into the buffer. It is queued on q behind previously
// submitted work and does not wait for completion.
func (b *Buffer[T, A]) Write(q *Queue, data []T) error {
	if b.buffer == nil {
		return ErrReleased
	}
	if q.released() {
		return ErrNilQueue
	}
	if len(data) != b.n {
		return fmt.Errorf("%w: %d != %d", ErrLength, len(data), b.n)
	}
	q.upload(dtype.Bytes(data), b.buffer)
	return nil
}

// Read copies the buffer back to host memory. It blocks until everything
// previously submitted on q has completed.
func (b *Buffer[T, A]) Read(q *Queue) ([]T, error) {
	if b.buffer == nil {
		return nil, ErrReleased
	}
	if q.released() {
		return nil, ErrNilQueue
	}
	data, err := q.download(b.buffer, b.size)
	if err != nil {
		return nil, err
	}
	return dtype.FromBytes[T](data, b.n), nil
}

// Release frees the device buffer. Calling Release more than once is a no-op.
func (b *Buffer[T, A]) Release() {
	if b.buffer == nil {
		return
	}
	b.buffer.Release()
	b.buffer = nil
	b.ctx.live.remove(b.size)
}

// storageBinding is what a Kernel needs to bind a storage argument.
type storageBinding struct {
	buffer   *wgpu.Buffer
	size     uint64
	elemSize int
	access   AccessFlags
}

// StorageArg is implemented by every Buffer instantiation.
type StorageArg interface {
	binding() storageBinding
}

func (b *Buffer[T, A]) binding() storageBinding {
	return storageBinding{
		buffer:   b.buffer,
		size:     b.size,
		elemSize: dtype.Of[T]().Size(),
		access:   flagsOf[A](),
	}
}
