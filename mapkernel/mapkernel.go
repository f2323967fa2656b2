//go:build windows

package mapkernel

import (
	"github.com/born-ml/mapkernel/gpu"
	"github.com/born-ml/mapkernel/internal/dtype"
	internalmk "github.com/born-ml/mapkernel/internal/mapkernel"
)

// MapProgram is a compiled map program for one Op and element type.
type MapProgram[T dtype.Element] = internalmk.MapProgram[T]

// MapKernel is a MapProgram bound to a buffer and a scalar.
type MapKernel[T dtype.Element] = internalmk.MapKernel[T]

// BuildProgram compiles the map kernel for op over T.
// Failures are returned as *gpu.CompileError.
func BuildProgram[T dtype.Element](dev *gpu.Device, op Op, ctx *gpu.Context) (*MapProgram[T], error) {
	return internalmk.BuildProgram[T](dev, op, ctx)
}

// BuildKernel binds buffer and scalar to p. q is the default queue for
// Enqueue(nil). Failures are returned as *gpu.BindError.
func BuildKernel[T dtype.Element](p *MapProgram[T], q *gpu.Queue, buffer *gpu.Buffer[T, gpu.ReadWrite], scalar T) (*MapKernel[T], error) {
	return internalmk.BuildKernel(p, q, buffer, scalar)
}
