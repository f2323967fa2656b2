//go:build windows

package mapkernel

import (
	"github.com/born-ml/mapkernel/internal/dtype"
	"github.com/born-ml/mapkernel/internal/gpu"
)

// MapProgram is a compiled program computing data[i] = data[i] OP scalar for
// every i, for one operator and one element type T.
//
// The device and context it was built with must outlive it. One program can
// back any number of MapKernels.
type MapProgram[T dtype.Element] struct {
	op      Op
	program *gpu.Program
}

// BuildProgram generates the map kernel source for op over T and compiles it
// on dev within ctx.
//
// Compilation failures are returned as *gpu.CompileError carrying the
// device's validation message.
func BuildProgram[T dtype.Element](dev *gpu.Device, op Op, ctx *gpu.Context) (*MapProgram[T], error) {
	dt := dtype.Of[T]()
	src, err := source(dt, op)
	if err != nil {
		return nil, &gpu.CompileError{Label: label(dt, op), Err: err}
	}

	program, err := gpu.BuildProgram(dev, ctx, label(dt, op), src, layout(dt))
	if err != nil {
		return nil, err
	}
	return &MapProgram[T]{op: op, program: program}, nil
}

// layout declares the template's bindings: the read_write element buffer,
// then the params block.
func layout(dt dtype.DataType) []gpu.ArgSpec {
	return []gpu.ArgSpec{
		bufferBinding: {Kind: gpu.ArgStorage, ElemSize: dt.Size(), Writable: true},
		paramsBinding: {Kind: gpu.ArgUniform, Size: paramsSize},
	}
}

// Op returns the operator the program was built for.
func (p *MapProgram[T]) Op() Op { return p.op }

// DataType returns the element type the program was built for.
func (p *MapProgram[T]) DataType() dtype.DataType { return dtype.Of[T]() }

// Source returns the generated WGSL source.
func (p *MapProgram[T]) Source() string { return p.program.Source() }

// Label returns the program label, e.g. "map_add_f32".
func (p *MapProgram[T]) Label() string { return p.program.Label() }

// Released reports whether Release has been called.
func (p *MapProgram[T]) Released() bool { return p.program.Released() }

// Release frees the compiled program. Calling Release more than once is a
// no-op. Kernels built from the program can no longer be enqueued.
func (p *MapProgram[T]) Release() {
	p.program.Release()
}
