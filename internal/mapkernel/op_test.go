package mapkernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpsClosed(t *testing.T) {
	ops := Ops()
	require.Len(t, ops, int(numOps))
	for i, op := range ops {
		assert.Equal(t, Op(i), op)
		assert.True(t, op.Valid())
		assert.NotPanics(t, func() { _ = op.Snippet() })
	}
	assert.False(t, Op(-1).Valid())
	assert.False(t, numOps.Valid())
	assert.Equal(t, "Op(7)", Op(7).String())
	assert.Panics(t, func() { _ = Op(7).Snippet() })
}

func TestParseOp(t *testing.T) {
	for _, op := range Ops() {
		parsed, err := ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	tests := map[string]Op{"+": Add, "-": Subtract, "*": Multiply, "/": Divide, "%": Modulo, " MUL ": Multiply, "div": Divide, "mod": Modulo}
	for s, want := range tests {
		got, err := ParseOp(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseOp("pow")
	assert.ErrorIs(t, err, ErrInvalidOp)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "data[idx] += params.scalar;", Add.Snippet())
	assert.Equal(t, "data[idx] -= params.scalar;", Subtract.Snippet())
	assert.Equal(t, "data[idx] *= params.scalar;", Multiply.Snippet())
	assert.Equal(t, "data[idx] /= params.scalar;", Divide.Snippet())
	assert.Equal(t, "data[idx] %= params.scalar;", Modulo.Snippet())
}

func TestApplyFloat32(t *testing.T) {
	assert.Equal(t, float32(10), Apply(Add, float32(0), 10))
	assert.Equal(t, float32(6), Apply(Multiply, float32(2), 3))
	assert.Equal(t, float32(-1.5), Apply(Subtract, float32(1), 2.5))
	assert.Equal(t, float32(0.25), Apply(Divide, float32(1), 4))
	assert.True(t, math.IsInf(float64(Apply(Divide, float32(1), 0)), 1))
}

func TestApplyIntegers(t *testing.T) {
	assert.Equal(t, int32(math.MinInt32), Apply(Add, int32(math.MaxInt32), 1), "wraps")
	assert.Equal(t, uint32(math.MaxUint32), Apply(Subtract, uint32(0), 1), "wraps")
	assert.Equal(t, int32(-3), Apply(Divide, int32(-7), 2), "truncates toward zero")
	assert.Equal(t, int32(7), Apply(Divide, int32(7), 0), "division by zero yields the dividend")
	assert.Equal(t, uint32(7), Apply(Divide, uint32(7), 0))
	assert.Equal(t, int32(math.MinInt32), Apply(Divide, int32(math.MinInt32), -1))
}

func TestApplyModulo(t *testing.T) {
	assert.Equal(t, float32(1.5), Apply(Modulo, float32(7.5), 2))
	assert.Equal(t, float32(-1.5), Apply(Modulo, float32(-7.5), 2), "sign follows the dividend")
	assert.True(t, math.IsNaN(float64(Apply(Modulo, float32(1), 0))))

	assert.Equal(t, int32(1), Apply(Modulo, int32(7), 3))
	assert.Equal(t, int32(-1), Apply(Modulo, int32(-7), 3), "truncated remainder")
	assert.Equal(t, int32(1), Apply(Modulo, int32(7), -3))
	assert.Equal(t, int32(0), Apply(Modulo, int32(7), 0), "remainder by zero yields 0")
	assert.Equal(t, int32(0), Apply(Modulo, int32(math.MinInt32), -1))

	assert.Equal(t, uint32(2), Apply(Modulo, uint32(17), 5))
	assert.Equal(t, uint32(0), Apply(Modulo, uint32(17), 0))
}

func TestApplyRepeatComposes(t *testing.T) {
	v, s := float32(1), float32(3)
	once := Apply(Add, v, s)
	twice := Apply(Add, once, s)
	assert.Equal(t, float32(7), twice)
}
