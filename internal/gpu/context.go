//go:build windows

package gpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"k8s.io/klog/v2"
)

// Context is a logical device. Buffers, programs and the queue created from a
// context are only valid with that context, and only while it is alive.
type Context struct {
	label    string
	device   *Device
	instance *wgpu.Instance // drives error scope callbacks
	dev      *wgpu.Device
	queue    *Queue

	// Staging buffers for device-to-host reads.
	staging *BufferPool

	live liveBuffers
}

// NewContext requests a logical device on d.
func NewContext(d *Device, label string) (ctx *Context, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			ctx = nil
			err = fmt.Errorf("%w: %v", ErrNotAvailable, r)
		}
	}()

	if d.adapter == nil || d.platform == nil || d.platform.instance == nil {
		return nil, ErrReleased
	}

	dev, err := d.adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to request device: %w", err)
	}

	queue := dev.GetQueue()
	if queue == nil {
		dev.Release()
		return nil, fmt.Errorf("gpu: failed to get queue")
	}

	if label == "" {
		label = d.info.Name
	}
	ctx = &Context{
		label:    label,
		device:   d,
		instance: d.platform.instance,
		dev:      dev,
		staging:  NewBufferPool(dev),
	}
	ctx.queue = &Queue{ctx: ctx, queue: queue}

	klog.V(1).Infof("gpu: context %q created on %s", label, d.info)
	return ctx, nil
}

// Label returns the context label.
func (c *Context) Label() string { return c.label }

// Device returns the device the context was created on.
func (c *Context) Device() *Device { return c.device }

// Queue returns the context's in-order command queue.
func (c *Context) Queue() *Queue { return c.queue }

// Release releases the queue, pooled staging buffers and the logical device.
// Buffers and programs must be released first.
func (c *Context) Release() {
	if c.staging != nil {
		c.staging.Clear()
		c.staging = nil
	}
	if c.queue != nil {
		c.queue.release()
		c.queue = nil
	}
	if c.dev != nil {
		if n := c.MemoryStats().ActiveBuffers; n > 0 {
			klog.Warningf("gpu: context %q released with %d live buffers", c.label, n)
		}
		c.dev.Release()
		c.dev = nil
	}
}

func (c *Context) released() bool { return c.dev == nil }

// MemoryStats is a snapshot of a context's device memory.
type MemoryStats struct {
	// Bytes held by live buffers, padding included.
	TotalAllocatedBytes uint64
	// Highest TotalAllocatedBytes seen.
	PeakMemoryBytes uint64
	// Buffers allocated and not yet released.
	ActiveBuffers int64
	// Staging pool counters, see BufferPool.Stats.
	PoolAllocated uint64
	PoolReleased  uint64
	PoolHits      uint64
	PoolMisses    uint64
	PooledBuffers int
}

// MemoryStats returns the current memory snapshot.
func (c *Context) MemoryStats() MemoryStats {
	stats := c.live.snapshot()
	if c.staging != nil {
		stats.PoolAllocated, stats.PoolReleased, stats.PoolHits, stats.PoolMisses, stats.PooledBuffers = c.staging.Stats()
	}
	return stats
}

// liveBuffers counts the Buffers of a context.
type liveBuffers struct {
	mu    sync.Mutex
	bytes uint64
	peak  uint64
	count int64
}

func (l *liveBuffers) add(size uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bytes += size
	l.count++
	l.peak = max(l.peak, l.bytes)
}

func (l *liveBuffers) remove(size uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bytes -= min(size, l.bytes)
	l.count--
}

func (l *liveBuffers) snapshot() MemoryStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return MemoryStats{TotalAllocatedBytes: l.bytes, PeakMemoryBytes: l.peak, ActiveBuffers: l.count}
}

// captureErrors runs f inside a validation and an out-of-memory error scope
// and returns the first error the device reported, as a *DeviceError.
// The scopes are popped even if f panics.
func (c *Context) captureErrors(f func()) (err error) {
	c.dev.PushErrorScope(wgpu.ErrorFilterOutOfMemory)
	c.dev.PushErrorScope(wgpu.ErrorFilterValidation)
	defer func() {
		validation := c.popErrorScope()
		outOfMemory := c.popErrorScope()
		switch {
		case validation != nil:
			err = validation
		case outOfMemory != nil:
			err = outOfMemory
		}
	}()
	f()
	return nil
}

func (c *Context) popErrorScope() error {
	errType, message, err := c.dev.PopErrorScopeAsync(c.instance)
	if err != nil {
		return err
	}
	switch errType {
	case wgpu.ErrorTypeNoError:
		return nil
	case wgpu.ErrorTypeValidation:
		return &DeviceError{Type: "validation", Message: message}
	case wgpu.ErrorTypeOutOfMemory:
		return &DeviceError{Type: "out-of-memory", Message: message}
	case wgpu.ErrorTypeInternal:
		return &DeviceError{Type: "internal", Message: message}
	default:
		return &DeviceError{Type: "unknown", Message: message}
	}
}

// createUniformBuffer creates a uniform buffer holding data.
// Uniform buffers are padded to 16-byte granularity.
func (c *Context) createUniformBuffer(data []byte) (*wgpu.Buffer, uint64) {
	size := uint64(alignUniform(len(data))) //nolint:gosec // G115: size is non-negative

	buffer := c.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	writeMapped(buffer, data, size)
	return buffer, size
}
