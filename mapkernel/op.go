package mapkernel

import (
	"github.com/born-ml/mapkernel/internal/dtype"
	internalmk "github.com/born-ml/mapkernel/internal/mapkernel"
)

// Op is a binary arithmetic operator: Add, Subtract, Multiply, Divide or Modulo.
type Op = internalmk.Op

// Supported operators.
const (
	Add      = internalmk.Add
	Subtract = internalmk.Subtract
	Multiply = internalmk.Multiply
	Divide   = internalmk.Divide
	Modulo   = internalmk.Modulo
)

// MaxLen is the largest buffer a map kernel covers.
const MaxLen = internalmk.MaxLen

// ErrInvalidOp is returned for Op values outside the enumeration.
var ErrInvalidOp = internalmk.ErrInvalidOp

// Ops returns every operator.
func Ops() []Op { return internalmk.Ops() }

// ParseOp returns the operator named s ("add", "+", ...).
func ParseOp(s string) (Op, error) { return internalmk.ParseOp(s) }

// Apply computes a OP b on the host with the same arithmetic as the device.
func Apply[T dtype.Element](op Op, a, b T) T { return internalmk.Apply(op, a, b) }

// Source returns the WGSL source of the map kernel for op over T.
func Source[T dtype.Element](op Op) (string, error) { return internalmk.Source[T](op) }
