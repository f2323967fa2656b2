//go:build windows

package mapkernel

import (
	"testing"

	"github.com/born-ml/mapkernel/internal/dtype"
	"github.com/born-ml/mapkernel/internal/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openEnv(t *testing.T) *gpu.Env {
	t.Helper()
	if !gpu.IsAvailable() {
		t.Skip("WebGPU not available on this system")
	}
	env, err := gpu.Open(gpu.Options{Label: t.Name()})
	require.NoError(t, err)
	t.Cleanup(env.Release)
	return env
}

func filled[T dtype.Element](n int, v T) []T {
	data := make([]T, n)
	for i := range data {
		data[i] = v
	}
	return data
}

// run builds op over a buffer of n copies of v, enqueues it repeat times and
// reads the buffer back.
func run[T dtype.Element](t *testing.T, env *gpu.Env, op Op, n int, v, s T, repeat int) []T {
	t.Helper()

	program, err := BuildProgram[T](env.Device, op, env.Context)
	require.NoError(t, err)
	defer program.Release()

	buffer, err := gpu.NewBufferFrom[T, gpu.ReadWrite](env.Context, filled(n, v))
	require.NoError(t, err)
	defer buffer.Release()

	kernel, err := BuildKernel(program, env.Queue, buffer, s)
	require.NoError(t, err)
	defer kernel.Release()

	for range repeat {
		require.NoError(t, kernel.Enqueue(env.Queue))
	}

	got, err := buffer.Read(env.Queue)
	require.NoError(t, err)
	require.Len(t, got, n)
	return got
}

func TestEveryOpCompilesFloat32(t *testing.T) {
	env := openEnv(t)
	for _, op := range Ops() {
		program, err := BuildProgram[float32](env.Device, op, env.Context)
		require.NoError(t, err, op)
		assert.Equal(t, op, program.Op())
		assert.Equal(t, dtype.Float32, program.DataType())
		assert.Equal(t, label(dtype.Float32, op), program.Label())
		program.Release()
		program.Release()
		assert.True(t, program.Released())
	}
}

func TestAddScenario(t *testing.T) {
	env := openEnv(t)

	got := run(t, env, Add, 1<<20, float32(0), float32(10), 1)
	for i, v := range got {
		if v != 10 {
			t.Fatalf("index %d: got %v, want 10", i, v)
		}
	}
}

func TestMultiplyScenario(t *testing.T) {
	env := openEnv(t)

	got := run(t, env, Multiply, 1000, float32(2), float32(3), 1)
	assert.Equal(t, filled(1000, float32(6)), got)
}

func TestRoundTripFloat32(t *testing.T) {
	env := openEnv(t)

	const v, s = float32(7.5), float32(2.5)
	for _, op := range Ops() {
		t.Run(op.String(), func(t *testing.T) {
			got := run(t, env, op, 513, v, s, 1)
			want := Apply(op, v, s)
			for i := range got {
				require.InDelta(t, want, got[i], 1e-5, "index %d", i)
			}
		})
	}
}

func TestRoundTripIntegers(t *testing.T) {
	env := openEnv(t)

	for _, op := range Ops() {
		t.Run(op.String()+"_i32", func(t *testing.T) {
			got := run(t, env, op, 300, int32(-9), int32(4), 1)
			assert.Equal(t, filled(300, Apply(op, int32(-9), 4)), got)
		})
		t.Run(op.String()+"_u32", func(t *testing.T) {
			got := run(t, env, op, 300, uint32(9), uint32(4), 1)
			assert.Equal(t, filled(300, Apply(op, uint32(9), 4)), got)
		})
	}
}

func TestIntegerByZero(t *testing.T) {
	env := openEnv(t)

	assert.Equal(t, filled(10, int32(7)), run(t, env, Divide, 10, int32(7), int32(0), 1))
	assert.Equal(t, filled(10, int32(0)), run(t, env, Modulo, 10, int32(7), int32(0), 1))
	assert.Equal(t, filled(10, uint32(0)), run(t, env, Modulo, 10, uint32(7), uint32(0), 1))
}

func TestModuloFloat32(t *testing.T) {
	env := openEnv(t)

	got := run(t, env, Modulo, 256, float32(-7.5), float32(2), 1)
	assert.Equal(t, filled(256, float32(-1.5)), got)
}

func TestRepeatComposes(t *testing.T) {
	env := openEnv(t)

	const v, s = float32(1), float32(3)
	for _, op := range Ops() {
		t.Run(op.String(), func(t *testing.T) {
			got := run(t, env, op, 64, v, s, 2)
			want := Apply(op, Apply(op, v, s), s)
			for i := range got {
				require.InDelta(t, want, got[i], 1e-5, "index %d", i)
			}
		})
	}
}

func TestZeroLength(t *testing.T) {
	env := openEnv(t)

	got := run(t, env, Add, 0, float32(0), float32(1), 1)
	assert.Empty(t, got)
}

func TestOneProgramManyKernels(t *testing.T) {
	env := openEnv(t)

	program, err := BuildProgram[int32](env.Device, Subtract, env.Context)
	require.NoError(t, err)
	defer program.Release()

	a, err := gpu.NewBufferFrom[int32, gpu.ReadWrite](env.Context, []int32{10, 20})
	require.NoError(t, err)
	defer a.Release()
	b, err := gpu.NewBufferFrom[int32, gpu.ReadWrite](env.Context, []int32{1, 2, 3})
	require.NoError(t, err)
	defer b.Release()

	ka, err := BuildKernel(program, env.Queue, a, 5)
	require.NoError(t, err)
	defer ka.Release()
	kb, err := BuildKernel(program, env.Queue, b, -1)
	require.NoError(t, err)
	defer kb.Release()

	assert.Equal(t, int32(5), ka.Scalar())
	assert.Equal(t, 3, kb.Len())
	assert.Same(t, program, kb.Program())
	assert.Same(t, b, kb.Buffer())

	require.NoError(t, ka.Enqueue(nil))
	require.NoError(t, kb.Enqueue(nil))

	gotA, err := a.Read(env.Queue)
	require.NoError(t, err)
	assert.Equal(t, []int32{5, 15}, gotA)

	gotB, err := b.Read(env.Queue)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 3, 4}, gotB)
}

func TestEnqueueAfterRelease(t *testing.T) {
	env := openEnv(t)

	program, err := BuildProgram[float32](env.Device, Add, env.Context)
	require.NoError(t, err)
	defer program.Release()

	buffer, err := gpu.NewBuffer[float32, gpu.ReadWrite](env.Context, 4)
	require.NoError(t, err)
	defer buffer.Release()

	kernel, err := BuildKernel(program, env.Queue, buffer, 1)
	require.NoError(t, err)

	var enqueueErr *gpu.EnqueueError

	program.Release()
	err = kernel.Enqueue(nil)
	require.ErrorAs(t, err, &enqueueErr)
	assert.ErrorIs(t, err, gpu.ErrReleased)

	kernel.Release()
	kernel.Release()
	err = kernel.Enqueue(nil)
	assert.ErrorIs(t, err, gpu.ErrReleased)

	_, err = BuildKernel(program, env.Queue, buffer, 1)
	var bindErr *gpu.BindError
	require.ErrorAs(t, err, &bindErr)
	assert.ErrorIs(t, err, gpu.ErrReleased)
}

func TestBuildKernelTooLong(t *testing.T) {
	env := openEnv(t)

	program, err := BuildProgram[uint32](env.Device, Add, env.Context)
	require.NoError(t, err)
	defer program.Release()

	buffer, err := gpu.NewBuffer[uint32, gpu.ReadWrite](env.Context, MaxLen+1)
	require.NoError(t, err)
	defer buffer.Release()

	_, err = BuildKernel(program, env.Queue, buffer, 1)
	var bindErr *gpu.BindError
	require.ErrorAs(t, err, &bindErr)
	assert.ErrorIs(t, err, gpu.ErrWorkSize)
}

func TestBuildKernelNilBuffer(t *testing.T) {
	env := openEnv(t)

	program, err := BuildProgram[float32](env.Device, Divide, env.Context)
	require.NoError(t, err)
	defer program.Release()

	_, err = BuildKernel(program, env.Queue, nil, 1)
	assert.ErrorIs(t, err, gpu.ErrArgUnset)
}

func TestBuildProgramInvalidOp(t *testing.T) {
	env := openEnv(t)

	_, err := BuildProgram[float32](env.Device, Op(99), env.Context)
	var compileErr *gpu.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.ErrorIs(t, err, ErrInvalidOp)
}

// The buffer argument of BuildKernel only accepts *gpu.Buffer[T, gpu.ReadWrite].
// Each of the following fails to compile:
//
//	BuildKernel(program, queue, float32(1), buffer)     // scalar where the buffer goes
//	BuildKernel(program, queue, readOnlyBuffer, 1)      // *gpu.Buffer[float32, gpu.ReadOnly]
//	BuildKernel(program, queue, int32Buffer, float32(1)) // element type differs from the program
//
// The assignment below pins the signature so that loosening it breaks the build.
var _ func(*MapProgram[float32], *gpu.Queue, *gpu.Buffer[float32, gpu.ReadWrite], float32) (*MapKernel[float32], error) = BuildKernel[float32]
