//go:build windows

// Package gpu provides the device, context, queue and buffer types that map
// kernels run on.
//
// It is a thin layer over WebGPU that keeps the vocabulary of classic compute
// APIs:
//   - Platform: the native WebGPU instance
//   - Device: a physical adapter
//   - Context: a logical device owning buffers and programs
//   - Queue: the context's in-order submission queue
//
// Buffers carry their element type and a capability tag in their type:
//
//	env, err := gpu.Open(gpu.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer env.Release()
//
//	buf, err := gpu.NewBufferFrom[float32, gpu.ReadWrite](env.Context, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer buf.Release()
package gpu

import (
	"github.com/born-ml/mapkernel/internal/dtype"
	internalgpu "github.com/born-ml/mapkernel/internal/gpu"
)

type (
	// Options configure device selection.
	Options = internalgpu.Options
	// Platform is the entry point to the native WebGPU implementation.
	Platform = internalgpu.Platform
	// Device is a physical adapter.
	Device = internalgpu.Device
	// DeviceInfo describes an adapter.
	DeviceInfo = internalgpu.DeviceInfo
	// Context is a logical device.
	Context = internalgpu.Context
	// Queue is an in-order submission queue.
	Queue = internalgpu.Queue
	// Env bundles a platform, device, context and queue.
	Env = internalgpu.Env
	// MemoryStats represents GPU memory usage statistics.
	MemoryStats = internalgpu.MemoryStats

	// Element is the constraint of buffer element types.
	Element = dtype.Element
	// DataType is the runtime tag of an element type.
	DataType = dtype.DataType

	// Access is the capability tag of a buffer.
	Access = internalgpu.Access
	// AccessFlags describe what kernels may do with a buffer.
	AccessFlags = internalgpu.AccessFlags
	// ReadWrite tags buffers that kernels both read and write.
	ReadWrite = internalgpu.ReadWrite
	// ReadOnly tags buffers that kernels only read.
	ReadOnly = internalgpu.ReadOnly
	// WriteOnly tags buffers that kernels only write.
	WriteOnly = internalgpu.WriteOnly

	// CompileError reports that the device rejected program source.
	CompileError = internalgpu.CompileError
	// BindError reports that a kernel argument could not be bound.
	BindError = internalgpu.BindError
	// EnqueueError reports that a kernel could not be submitted.
	EnqueueError = internalgpu.EnqueueError
	// DeviceError is an error message reported by the device.
	DeviceError = internalgpu.DeviceError
)

// Buffer is a device buffer of elements of T tagged with access A.
type Buffer[T Element, A Access] = internalgpu.Buffer[T, A]

// Common errors.
var (
	ErrNotAvailable = internalgpu.ErrNotAvailable
	ErrNoAdapter    = internalgpu.ErrNoAdapter
	ErrReleased     = internalgpu.ErrReleased
	ErrNilQueue     = internalgpu.ErrNilQueue
	ErrLength       = internalgpu.ErrLength
	ErrArgSize      = internalgpu.ErrArgSize
	ErrArgAccess    = internalgpu.ErrArgAccess
	ErrArgUnset     = internalgpu.ErrArgUnset
	ErrWorkSize     = internalgpu.ErrWorkSize
)

// Open creates a platform, selects a device and creates a context on it.
// Call Release on the result when done.
func Open(opts Options) (*Env, error) {
	return internalgpu.Open(opts)
}

// NewPlatform creates a WebGPU instance.
func NewPlatform() (*Platform, error) {
	return internalgpu.NewPlatform()
}

// NewContext creates a logical device on d.
func NewContext(d *Device, label string) (*Context, error) {
	return internalgpu.NewContext(d, label)
}

// NewBuffer allocates a zero-initialised buffer of n elements.
func NewBuffer[T Element, A Access](ctx *Context, n int) (*Buffer[T, A], error) {
	return internalgpu.NewBuffer[T, A](ctx, n)
}

// NewBufferFrom allocates a buffer holding a copy of data.
func NewBufferFrom[T Element, A Access](ctx *Context, data []T) (*Buffer[T, A], error) {
	return internalgpu.NewBufferFrom[T, A](ctx, data)
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It is useful to skip GPU work gracefully:
//
//	if !gpu.IsAvailable() {
//	    return errNoGPU
//	}
func IsAvailable() bool {
	return internalgpu.IsAvailable()
}

// ListDevices returns information about the available adapters.
func ListDevices() ([]DeviceInfo, error) {
	return internalgpu.ListDevices()
}
