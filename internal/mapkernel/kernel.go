//go:build windows

package mapkernel

import (
	"fmt"

	"github.com/born-ml/mapkernel/internal/dtype"
	"github.com/born-ml/mapkernel/internal/gpu"
)

// MapKernel is a MapProgram bound to one buffer and one scalar, ready to be
// enqueued any number of times.
//
// Each enqueue applies the operator again to the current contents of the
// buffer: two enqueues of Add with scalar s add 2s.
type MapKernel[T dtype.Element] struct {
	program    *MapProgram[T]
	queue      *gpu.Queue
	buffer     *gpu.Buffer[T, gpu.ReadWrite]
	scalar     T
	kernel     *gpu.Kernel
	workgroups uint32
}

// BuildKernel binds buffer and scalar to p. q is the default queue used by
// Enqueue(nil).
//
// The buffer must be tagged gpu.ReadWrite since the kernel reads and writes
// every element; buffers with any other tag do not compile. The program, queue
// and buffer must all come from the same context, which is not checked.
//
// Binding failures, including buffers longer than MaxLen, are returned as
// *gpu.BindError.
func BuildKernel[T dtype.Element](p *MapProgram[T], q *gpu.Queue, buffer *gpu.Buffer[T, gpu.ReadWrite], scalar T) (*MapKernel[T], error) {
	if p == nil {
		return nil, &gpu.BindError{Index: -1, Err: gpu.ErrReleased}
	}
	if buffer == nil {
		return nil, &gpu.BindError{Kernel: p.Label(), Index: bufferBinding, Err: gpu.ErrArgUnset}
	}

	kernel, err := gpu.NewKernel(p.program)
	if err != nil {
		return nil, err
	}

	groups, err := workgroups(buffer.Len())
	if err != nil {
		kernel.Release()
		return nil, &gpu.BindError{Kernel: p.Label(), Index: bufferBinding, Err: fmt.Errorf("%w: %w", gpu.ErrWorkSize, err)}
	}

	if err := bind(kernel, buffer, scalar); err != nil {
		kernel.Release()
		return nil, err
	}

	return &MapKernel[T]{
		program:    p,
		queue:      q,
		buffer:     buffer,
		scalar:     scalar,
		kernel:     kernel,
		workgroups: groups,
	}, nil
}

// bind sets the template's arguments in binding order.
func bind[T dtype.Element](kernel *gpu.Kernel, buffer *gpu.Buffer[T, gpu.ReadWrite], scalar T) error {
	if err := kernel.SetArgBuffer(bufferBinding, buffer); err != nil {
		return err
	}
	if err := kernel.SetArgBytes(paramsBinding, encodeParams(buffer.Len(), scalar)); err != nil {
		return err
	}
	return kernel.Bind()
}

// Enqueue submits the kernel on q, or on the queue given to BuildKernel if q
// is nil, over every element of the buffer. It returns once the work is
// submitted; read the buffer to wait for the result.
//
// Submission failures are returned as *gpu.EnqueueError.
func (k *MapKernel[T]) Enqueue(q *gpu.Queue) error {
	if q == nil {
		q = k.queue
	}
	if k.buffer.Released() {
		return &gpu.EnqueueError{Kernel: k.program.Label(), Err: gpu.ErrReleased}
	}
	return k.kernel.Enqueue(q, k.workgroups)
}

// Program returns the program the kernel was built from.
func (k *MapKernel[T]) Program() *MapProgram[T] { return k.program }

// Buffer returns the bound buffer.
func (k *MapKernel[T]) Buffer() *gpu.Buffer[T, gpu.ReadWrite] { return k.buffer }

// Scalar returns the bound scalar operand.
func (k *MapKernel[T]) Scalar() T { return k.scalar }

// Len returns the work size, the number of elements of the bound buffer.
func (k *MapKernel[T]) Len() int { return k.buffer.Len() }

// Release frees the kernel's own device resources. The program, queue and
// buffer stay owned by the caller. Calling Release more than once is a no-op.
func (k *MapKernel[T]) Release() {
	k.kernel.Release()
}
