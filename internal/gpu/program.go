//go:build windows

package gpu

import (
	"errors"
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
	"k8s.io/klog/v2"
)

// EntryPoint is the name of the compute entry point of every program.
const EntryPoint = "main"

var (
	errShaderRejected   = errors.New("shader module rejected")
	errPipelineRejected = errors.New("compute pipeline rejected")
)

// Program is compiled WGSL source together with its compute pipeline and the
// declared layout of its positional arguments.
type Program struct {
	label    string
	source   string
	layout   []ArgSpec
	ctx      *Context
	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline
}

// BuildProgram compiles source for the device behind ctx. layout declares the
// program's bindings in group 0, in binding order.
//
// A rejected source is reported as a *CompileError whose cause is a
// *DeviceError holding the compiler's message.
func BuildProgram(dev *Device, ctx *Context, label, source string, layout []ArgSpec) (p *Program, err error) {
	if ctx == nil || ctx.released() {
		return nil, &CompileError{Label: label, Source: source, Err: ErrReleased}
	}
	if dev == nil {
		dev = ctx.device
	}

	var (
		shader   *wgpu.ShaderModule
		pipeline *wgpu.ComputePipeline
	)
	release := func() {
		if pipeline != nil {
			pipeline.Release()
		}
		if shader != nil {
			shader.Release()
		}
	}
	defer func() {
		if r := recover(); r != nil {
			release()
			p = nil
			err = &CompileError{Label: label, Source: source, Err: recovered(r)}
		}
	}()

	klog.V(1).Infof("gpu: building program %q on %s", label, dev.Info())
	klog.V(2).Infof("gpu: program %q source:\n%s", label, source)

	// Invalid source yields invalid handles, not nil; the error scope is
	// where the compiler's message ends up.
	scopeErr := ctx.captureErrors(func() {
		shader = ctx.dev.CreateShaderModuleWGSL(source)
		if shader == nil {
			return
		}
		// Auto layout (nil): bindings are derived from the shader.
		pipeline = ctx.dev.CreateComputePipelineSimple(nil, shader, EntryPoint)
	})
	switch {
	case scopeErr != nil:
		release()
		return nil, &CompileError{Label: label, Source: source, Err: scopeErr}
	case shader == nil:
		release()
		return nil, &CompileError{Label: label, Source: source, Err: errShaderRejected}
	case pipeline == nil:
		release()
		return nil, &CompileError{Label: label, Source: source, Err: errPipelineRejected}
	}

	return &Program{
		label:    label,
		source:   source,
		layout:   append([]ArgSpec(nil), layout...),
		ctx:      ctx,
		shader:   shader,
		pipeline: pipeline,
	}, nil
}

// Label returns the program label.
func (p *Program) Label() string { return p.label }

// Source returns the source the program was compiled from.
func (p *Program) Source() string { return p.source }

// Layout returns a copy of the declared argument layout.
func (p *Program) Layout() []ArgSpec { return append([]ArgSpec(nil), p.layout...) }

// Released reports whether Release has been called.
func (p *Program) Released() bool { return p.pipeline == nil }

// Release frees the pipeline and shader module. Calling Release more than once
// is a no-op. Kernels created from the program fail to enqueue afterwards.
func (p *Program) Release() {
	if p.pipeline == nil {
		return
	}
	p.pipeline.Release()
	p.pipeline = nil
	p.shader.Release()
	p.shader = nil
	klog.V(1).Infof("gpu: released program %q", p.label)
}

func (p *Program) String() string {
	return fmt.Sprintf("program %q (%d args)", p.label, len(p.layout))
}
