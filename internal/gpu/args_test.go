package gpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLayout = []ArgSpec{
	{Kind: ArgStorage, ElemSize: 4, Writable: true},
	{Kind: ArgUniform, Size: 8},
	{Kind: ArgStorage, ElemSize: 2},
}

func TestCheckStorageArg(t *testing.T) {
	tests := []struct {
		name     string
		index    uint32
		elemSize int
		flags    AccessFlags
		want     error
	}{
		{"ok read_write", 0, 4, ReadWrite{}.Flags(), nil},
		{"read only into writable", 0, 4, ReadOnly{}.Flags(), ErrArgAccess},
		{"write only into writable", 0, 4, WriteOnly{}.Flags(), nil},
		{"element size", 0, 2, ReadWrite{}.Flags(), ErrArgSize},
		{"uniform slot", 1, 4, ReadWrite{}.Flags(), ErrArgKind},
		{"read only slot", 2, 2, ReadOnly{}.Flags(), nil},
		{"out of range", 3, 4, ReadWrite{}.Flags(), ErrArgIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStorageArg(testLayout, tt.index, tt.elemSize, tt.flags)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckUniformArg(t *testing.T) {
	assert.NoError(t, checkUniformArg(testLayout, 1, 8))
	assert.ErrorIs(t, checkUniformArg(testLayout, 1, 16), ErrArgSize)
	assert.ErrorIs(t, checkUniformArg(testLayout, 0, 8), ErrArgKind)
	assert.ErrorIs(t, checkUniformArg(testLayout, 9, 8), ErrArgIndex)
}

func TestAlignUniform(t *testing.T) {
	assert.Equal(t, 16, alignUniform(1))
	assert.Equal(t, 16, alignUniform(8))
	assert.Equal(t, 16, alignUniform(16))
	assert.Equal(t, 32, alignUniform(17))
}

func TestAccessFlags(t *testing.T) {
	assert.Equal(t, "read_write", flagsOf[ReadWrite]().String())
	assert.Equal(t, "read", flagsOf[ReadOnly]().String())
	assert.Equal(t, "write", flagsOf[WriteOnly]().String())
	assert.Equal(t, "none", AccessFlags(0).String())
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("rejected")

	var err error = &CompileError{Label: "map_add_f32", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "map_add_f32")

	err = fmt.Errorf("wrapped: %w", &BindError{Kernel: "k", Index: 1, Err: ErrArgSize})
	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, 1, bindErr.Index)
	assert.ErrorIs(t, err, ErrArgSize)
	assert.Equal(t, `gpu: bind "k" arg 1: argument size mismatch`, bindErr.Error())
	assert.Equal(t, `gpu: bind "k": gpu: object already released`,
		(&BindError{Kernel: "k", Index: -1, Err: ErrReleased}).Error())

	err = &EnqueueError{Kernel: "k", Err: ErrNilQueue}
	assert.ErrorIs(t, err, ErrNilQueue)
}

func TestRecovered(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, cause, recovered(cause))
	assert.EqualError(t, recovered("dll not found"), "dll not found")
}

func TestDeviceError(t *testing.T) {
	msg := "Shader 'map' parsing error: expected ';', found '}'"
	var err error = &CompileError{Label: "map", Err: &DeviceError{Type: "validation", Message: msg}}

	var devErr *DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.Equal(t, msg, devErr.Error(), "driver message is kept verbatim")
	assert.Equal(t, "validation", devErr.Type)
	assert.Equal(t, "out-of-memory error", (&DeviceError{Type: "out-of-memory"}).Error())
}
