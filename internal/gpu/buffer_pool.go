//go:build windows

package gpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// stagingUsage is the usage of every pooled buffer: a copy target the host
// can map for reading.
var stagingUsage = wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst

// sizeClass buckets staging buffers by size.
type sizeClass int

const (
	smallClass  sizeClass = iota // < 4KB
	mediumClass                  // 4KB - 1MB
	largeClass                   // > 1MB
	numClasses
)

const (
	smallThreshold  = 4 * 1024    // 4KB
	mediumThreshold = 1024 * 1024 // 1MB
	maxPerClass     = 16          // Max pooled buffers per class
)

// pooledBuffer wraps a staging buffer with its allocated size.
type pooledBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

// BufferPool recycles host-mappable staging buffers used by Buffer.Read, so
// that repeated reads of same-sized buffers do not allocate.
type BufferPool struct {
	device  *wgpu.Device
	classes [numClasses][]pooledBuffer
	mu      sync.Mutex

	// Statistics
	totalAllocated uint64
	totalReleased  uint64
	poolHits       uint64
	poolMisses     uint64
}

// NewBufferPool creates a staging pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{device: device}
}

// Acquire returns a staging buffer of at least size bytes.
func (p *BufferPool) Acquire(size uint64) (*wgpu.Buffer, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	class := classify(size)
	pool := p.classes[class]
	for i, pb := range pool {
		if pb.size >= size {
			p.classes[class] = append(pool[:i], pool[i+1:]...)
			p.poolHits++
			return pb.buffer, pb.size
		}
	}

	p.poolMisses++
	p.totalAllocated++
	buffer := p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: stagingUsage,
		Size:  size,
	})
	return buffer, size
}

// Release returns a staging buffer to the pool. The buffer must be unmapped.
// If its class is full, the buffer is released immediately.
func (p *BufferPool) Release(buffer *wgpu.Buffer, size uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalReleased++
	class := classify(size)
	if len(p.classes[class]) >= maxPerClass {
		buffer.Release()
		return
	}
	p.classes[class] = append(p.classes[class], pooledBuffer{buffer: buffer, size: size})
}

// Clear releases all pooled buffers.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for class := range p.classes {
		for _, pb := range p.classes[class] {
			pb.buffer.Release()
		}
		p.classes[class] = nil
	}
}

// Stats returns statistics about pool usage.
func (p *BufferPool) Stats() (allocated, released, hits, misses uint64, pooledCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, pool := range p.classes {
		pooledCount += len(pool)
	}
	return p.totalAllocated, p.totalReleased, p.poolHits, p.poolMisses, pooledCount
}

func classify(size uint64) sizeClass {
	switch {
	case size < smallThreshold:
		return smallClass
	case size < mediumThreshold:
		return mediumClass
	default:
		return largeClass
	}
}
