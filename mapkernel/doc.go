// Package mapkernel runs element-wise "map" kernels on the GPU: every element
// of a buffer is combined with one scalar by a fixed operator,
// data[i] = data[i] OP scalar.
//
// The package only offers this one kernel shape, which lets it tie the kernel
// source, the argument layout and the buffer access mode together in the
// types:
//   - the source is generated from an Op and the element type T
//   - arguments are bound in a fixed order by BuildKernel, never by index
//   - BuildKernel only accepts buffers tagged gpu.ReadWrite
//
// Example:
//
//	env, _ := gpu.Open(gpu.Options{})
//	defer env.Release()
//
//	program, _ := mapkernel.BuildProgram[float32](env.Device, mapkernel.Add, env.Context)
//	defer program.Release()
//
//	buf, _ := gpu.NewBufferFrom[float32, gpu.ReadWrite](env.Context, data)
//	defer buf.Release()
//
//	kernel, _ := mapkernel.BuildKernel(program, env.Queue, buf, 10)
//	defer kernel.Release()
//
//	_ = kernel.Enqueue(nil)
//	result, _ := buf.Read(env.Queue)
//
// Programs, kernels and buffers are not safe for concurrent use.
package mapkernel
