//go:build windows

package gpu

import (
	"errors"

	"github.com/go-webgpu/webgpu/wgpu"
	"k8s.io/klog/v2"
)

var (
	errBindGroupRejected = errors.New("bind group rejected")
	errEncodingFailed    = errors.New("command encoding failed")
)

// kernelArg is one bound argument. Uniform arguments own their buffer.
type kernelArg struct {
	buffer *wgpu.Buffer
	size   uint64
	owned  bool
}

// Kernel is a Program with positional arguments bound to it, ready to be
// dispatched. Arguments are bound by index, as with clSetKernelArg; the only
// checks are those the program's declared layout makes possible.
type Kernel struct {
	program   *Program
	args      []kernelArg
	bindGroup *wgpu.BindGroup
	released  bool
}

// NewKernel creates an unbound kernel for p.
func NewKernel(p *Program) (*Kernel, error) {
	if p == nil || p.Released() {
		return nil, &BindError{Kernel: labelOf(p), Index: -1, Err: ErrReleased}
	}
	return &Kernel{
		program: p,
		args:    make([]kernelArg, len(p.layout)),
	}, nil
}

// Program returns the program the kernel was created from.
func (k *Kernel) Program() *Program { return k.program }

// SetArgBuffer binds a storage buffer to argument index.
func (k *Kernel) SetArgBuffer(index uint32, arg StorageArg) error {
	if err := k.settable(index); err != nil {
		return err
	}
	b := arg.binding()
	if b.buffer == nil {
		return k.bindError(int(index), ErrReleased)
	}
	if err := checkStorageArg(k.program.layout, index, b.elemSize, b.access); err != nil {
		return k.bindError(int(index), err)
	}
	k.setArg(index, kernelArg{buffer: b.buffer, size: b.size})
	return nil
}

// SetArgBytes binds a uniform parameter block to argument index. The data is
// copied into a device buffer owned by the kernel.
func (k *Kernel) SetArgBytes(index uint32, data []byte) error {
	if err := k.settable(index); err != nil {
		return err
	}
	if err := checkUniformArg(k.program.layout, index, len(data)); err != nil {
		return k.bindError(int(index), err)
	}
	buffer, size := k.program.ctx.createUniformBuffer(data)
	k.setArg(index, kernelArg{buffer: buffer, size: size, owned: true})
	return nil
}

// Bind creates the bind group from the current arguments. Every declared
// argument must be set. Arguments the device rejects, such as a buffer that
// does not match the shader's binding, are reported as a *BindError whose
// cause is a *DeviceError.
func (k *Kernel) Bind() (err error) {
	if k.released || k.program.Released() {
		return k.bindError(-1, ErrReleased)
	}
	for i, arg := range k.args {
		if arg.buffer == nil {
			return k.bindError(i, ErrArgUnset)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = k.bindError(-1, recovered(r))
		}
	}()

	entries := make([]wgpu.BindGroupEntry, len(k.args))
	for i, arg := range k.args {
		entries[i] = wgpu.BufferBindingEntry(uint32(i), arg.buffer, 0, arg.size) //nolint:gosec // G115: index fits uint32
	}
	ctx := k.program.ctx
	var bindGroup *wgpu.BindGroup
	scopeErr := ctx.captureErrors(func() {
		bindGroupLayout := k.program.pipeline.GetBindGroupLayout(0)
		if bindGroupLayout == nil {
			return
		}
		defer bindGroupLayout.Release()
		bindGroup = ctx.dev.CreateBindGroupSimple(bindGroupLayout, entries)
	})
	switch {
	case scopeErr != nil:
		if bindGroup != nil {
			bindGroup.Release()
		}
		return k.bindError(-1, scopeErr)
	case bindGroup == nil:
		return k.bindError(-1, errBindGroupRejected)
	}

	if k.bindGroup != nil {
		k.bindGroup.Release()
	}
	k.bindGroup = bindGroup
	return nil
}

// Enqueue dispatches workgroups along x on q and returns without waiting.
// Bind must have succeeded since the last argument change.
func (k *Kernel) Enqueue(q *Queue, workgroups uint32) (err error) {
	switch {
	case k.released || k.program.Released():
		return k.enqueueError(ErrReleased)
	case q.released():
		return k.enqueueError(ErrNilQueue)
	case k.bindGroup == nil:
		return k.enqueueError(ErrArgUnset)
	}

	defer func() {
		if r := recover(); r != nil {
			err = k.enqueueError(recovered(r))
		}
	}()

	var cmdBuffer *wgpu.CommandBuffer
	scopeErr := q.ctx.captureErrors(func() {
		encoder := q.ctx.dev.CreateCommandEncoder(nil)
		computePass := encoder.BeginComputePass(nil)
		computePass.SetPipeline(k.program.pipeline)
		computePass.SetBindGroup(0, k.bindGroup, nil)
		computePass.DispatchWorkgroups(workgroups, 1, 1)
		computePass.End()

		cmdBuffer = encoder.Finish(nil)
		if cmdBuffer != nil {
			q.submit(cmdBuffer)
		}
	})
	switch {
	case scopeErr != nil:
		return k.enqueueError(scopeErr)
	case cmdBuffer == nil:
		return k.enqueueError(errEncodingFailed)
	}

	klog.V(2).Infof("gpu: enqueued %q, %d workgroups", k.program.label, workgroups)
	return nil
}

// Release frees the bind group and the uniform buffers owned by the kernel.
// Storage buffers and the program are not released.
func (k *Kernel) Release() {
	if k.released {
		return
	}
	k.released = true
	if k.bindGroup != nil {
		k.bindGroup.Release()
		k.bindGroup = nil
	}
	for i := range k.args {
		k.clearArg(i)
	}
}

// Released reports whether Release has been called.
func (k *Kernel) Released() bool { return k.released }

func (k *Kernel) settable(index uint32) error {
	if k.released {
		return k.bindError(int(index), ErrReleased)
	}
	if int(index) >= len(k.args) {
		return k.bindError(int(index), ErrArgIndex)
	}
	return nil
}

func (k *Kernel) setArg(index uint32, arg kernelArg) {
	k.clearArg(int(index))
	k.args[index] = arg
	// Arguments changed; the bind group must be rebuilt.
	if k.bindGroup != nil {
		k.bindGroup.Release()
		k.bindGroup = nil
	}
}

func (k *Kernel) clearArg(i int) {
	if k.args[i].owned && k.args[i].buffer != nil {
		k.args[i].buffer.Release()
	}
	k.args[i] = kernelArg{}
}

func (k *Kernel) bindError(index int, err error) error {
	return &BindError{Kernel: k.program.label, Index: index, Err: err}
}

func (k *Kernel) enqueueError(err error) error {
	return &EnqueueError{Kernel: k.program.label, Err: err}
}

func labelOf(p *Program) string {
	if p == nil {
		return ""
	}
	return p.label
}
