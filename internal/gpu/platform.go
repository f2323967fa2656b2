//go:build windows

// Package gpu is a thin, OpenCL-flavoured layer over WebGPU.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// The layer keeps the shape of the classic compute API: a Platform yields
// Devices, a Device yields a Context, a Context owns a Queue, Buffers and
// Programs, and a Kernel binds positional arguments to a Program. Like that API,
// kernel arguments are positional; Program layouts only check what can be
// checked at bind time.
package gpu

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
	"k8s.io/klog/v2"
)

// Options configure device selection.
type Options struct {
	// LowPower prefers an integrated adapter. The default prefers the
	// high-performance adapter.
	LowPower bool
	// Label names the context in logs and errors.
	Label string
}

// Platform is the entry point to the native WebGPU implementation.
type Platform struct {
	instance *wgpu.Instance
}

// NewPlatform creates a WebGPU instance.
// Returns ErrNotAvailable if the wgpu-native library cannot be loaded.
func NewPlatform() (p *Platform, err error) {
	// The binding panics when wgpu_native cannot be loaded.
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = fmt.Errorf("%w: %v", ErrNotAvailable, r)
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAvailable, err)
	}
	return &Platform{instance: instance}, nil
}

// RequestDevice selects an adapter according to opts.
func (p *Platform) RequestDevice(opts Options) (*Device, error) {
	if p.instance == nil {
		return nil, ErrReleased
	}

	preference := wgpu.PowerPreferenceHighPerformance
	if opts.LowPower {
		preference = wgpu.PowerPreferenceLowPower
	}
	adapter, err := p.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: preference,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}

	d := &Device{platform: p, adapter: adapter, info: adapterInfo(adapter)}
	klog.V(1).Infof("gpu: selected adapter %s", d.info)
	return d, nil
}

// Release releases the instance. Devices and contexts obtained from the
// platform must be released first.
func (p *Platform) Release() {
	if p.instance != nil {
		p.instance.Release()
		p.instance = nil
	}
}

// Device is a physical adapter.
type Device struct {
	platform *Platform
	adapter  *wgpu.Adapter
	info     DeviceInfo
}

// Info returns information about the adapter.
func (d *Device) Info() DeviceInfo {
	return d.info
}

// Release releases the adapter.
func (d *Device) Release() {
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
}

// DeviceInfo describes an adapter. Fields the driver does not report are
// left empty.
type DeviceInfo struct {
	Vendor       string
	Name         string
	Description  string
	Architecture string
	Backend      string
	Type         string
	VendorID     uint32
	DeviceID     uint32
}

// String returns "name (vendor, backend)".
func (i DeviceInfo) String() string {
	name := i.Name
	if name == "" {
		name = "unknown device"
	}
	return fmt.Sprintf("%s (%s, %s)", name, i.Vendor, i.Backend)
}

// adapterInfo queries the adapter. A failed query yields an empty DeviceInfo
// rather than an error; device selection does not depend on it.
func adapterInfo(adapter *wgpu.Adapter) DeviceInfo {
	info, err := adapter.GetInfo()
	if err != nil || info == nil {
		klog.V(1).Infof("gpu: adapter info unavailable: %v", err)
		return DeviceInfo{Backend: backendName(wgpu.BackendTypeUndefined), Type: adapterTypeName(wgpu.AdapterTypeUnknown)}
	}
	return DeviceInfo{
		Vendor:       info.Vendor,
		Name:         info.Device,
		Description:  info.Description,
		Architecture: info.Architecture,
		Backend:      backendName(info.BackendType),
		Type:         adapterTypeName(info.AdapterType),
		VendorID:     info.VendorID,
		DeviceID:     info.DeviceID,
	}
}

func backendName(b wgpu.BackendType) string {
	switch b {
	case wgpu.BackendTypeNull:
		return "null"
	case wgpu.BackendTypeWebGPU:
		return "webgpu"
	case wgpu.BackendTypeD3D11:
		return "d3d11"
	case wgpu.BackendTypeD3D12:
		return "d3d12"
	case wgpu.BackendTypeMetal:
		return "metal"
	case wgpu.BackendTypeVulkan:
		return "vulkan"
	case wgpu.BackendTypeOpenGL:
		return "opengl"
	case wgpu.BackendTypeOpenGLES:
		return "opengles"
	default:
		return "undefined"
	}
}

func adapterTypeName(t wgpu.AdapterType) string {
	switch t {
	case wgpu.AdapterTypeDiscreteGPU:
		return "discrete"
	case wgpu.AdapterTypeIntegratedGPU:
		return "integrated"
	case wgpu.AdapterTypeCPU:
		return "cpu"
	default:
		return "unknown"
	}
}

// IsAvailable reports whether a platform can be created and yields an adapter.
func IsAvailable() bool {
	platform, err := NewPlatform()
	if err != nil {
		return false
	}
	defer platform.Release()

	device, err := platform.RequestDevice(Options{})
	if err != nil {
		return false
	}
	device.Release()
	return true
}

// ListDevices returns information about the available adapters.
//
// WebGPU has no adapter enumeration, so this reports the high-performance and
// the low-power adapter, once if they are the same.
func ListDevices() ([]DeviceInfo, error) {
	platform, err := NewPlatform()
	if err != nil {
		return nil, err
	}
	defer platform.Release()

	var out []DeviceInfo
	for _, lowPower := range []bool{false, true} {
		device, deviceErr := platform.RequestDevice(Options{LowPower: lowPower})
		if deviceErr != nil {
			continue
		}
		info := device.Info()
		device.Release()
		if len(out) == 0 || out[0] != info {
			out = append(out, info)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoAdapter
	}
	return out, nil
}

// Env bundles a platform, device, context and queue opened together.
type Env struct {
	Platform *Platform
	Device   *Device
	Context  *Context
	Queue    *Queue
}

// Open creates a platform, selects a device and creates a context on it.
func Open(opts Options) (*Env, error) {
	platform, err := NewPlatform()
	if err != nil {
		return nil, err
	}
	device, err := platform.RequestDevice(opts)
	if err != nil {
		platform.Release()
		return nil, err
	}
	ctx, err := NewContext(device, opts.Label)
	if err != nil {
		device.Release()
		platform.Release()
		return nil, err
	}
	return &Env{
		Platform: platform,
		Device:   device,
		Context:  ctx,
		Queue:    ctx.Queue(),
	}, nil
}

// Release releases the context, device and platform in reverse order.
func (e *Env) Release() {
	e.Context.Release()
	e.Device.Release()
	e.Platform.Release()
}
