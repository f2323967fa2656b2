package mapkernel

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/mapkernel/internal/dtype"
)

// ErrInvalidOp is returned for Op values outside the enumeration.
var ErrInvalidOp = errors.New("mapkernel: invalid op")

// Op is a binary arithmetic operator applied as buffer[i] = buffer[i] OP scalar.
//
// Adding an operator means adding a constant here and its cases in String,
// Snippet and Apply.
type Op int

// Supported operators.
const (
	Add Op = iota
	Subtract
	Multiply
	Divide
	Modulo
	numOps
)

// Ops returns every operator in declaration order.
func Ops() []Op {
	return []Op{Add, Subtract, Multiply, Divide, Modulo}
}

// Valid reports whether op is one of the declared operators.
func (op Op) Valid() bool {
	return op >= Add && op < numOps
}

// String returns the lower-case operator name.
func (op Op) String() string {
	switch op {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	case Modulo:
		return "modulo"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// ParseOp returns the operator named s. Both names ("add") and symbols ("+")
// are accepted.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+":
		return Add, nil
	case "subtract", "sub", "-":
		return Subtract, nil
	case "multiply", "mul", "*":
		return Multiply, nil
	case "divide", "div", "/":
		return Divide, nil
	case "modulo", "mod", "%":
		return Modulo, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOp, s)
}

// Snippet returns the WGSL statement applying op to element idx of data.
// It is the only operator-specific part of the kernel source.
func (op Op) Snippet() string {
	switch op {
	case Add:
		return "data[idx] += params.scalar;"
	case Subtract:
		return "data[idx] -= params.scalar;"
	case Multiply:
		return "data[idx] *= params.scalar;"
	case Divide:
		return "data[idx] /= params.scalar;"
	case Modulo:
		return "data[idx] %= params.scalar;"
	default:
		panic(fmt.Sprintf("mapkernel: no snippet for %s", op))
	}
}

// Apply computes a OP b on the host with the device's arithmetic: integers
// wrap, integer division by zero yields a and integer remainder by zero yields
// 0. Float remainder truncates toward zero, like math.Mod.
func Apply[T dtype.Element](op Op, a, b T) T {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		if b == 0 && !dtype.Of[T]().IsFloat() {
			return a
		}
		// MinInt32 / -1 overflows to MinInt32 in both Go and WGSL.
		return a / b
	case Modulo:
		return modulo(a, b)
	default:
		panic(fmt.Sprintf("mapkernel: cannot apply %s", op))
	}
}

func modulo[T dtype.Element](a, b T) T {
	var r any
	switch x := any(a).(type) {
	case float32:
		r = float32(math.Mod(float64(x), float64(any(b).(float32))))
	case int32:
		y := any(b).(int32)
		if y == 0 {
			return 0
		}
		r = x % y
	case uint32:
		y := any(b).(uint32)
		if y == 0 {
			return 0
		}
		r = x % y
	}
	return r.(T)
}
