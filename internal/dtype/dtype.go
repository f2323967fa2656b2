// Package dtype describes the element types that can live in a device buffer.
//
// An element type must exist on both sides of the host/device boundary: it is a Go
// type on the host and a WGSL scalar type on the device, with the same byte size
// and little-endian layout. All of them are 32-bit.
package dtype

import (
	"encoding/binary"
	"math"
)

// Element is a constraint for supported buffer element types.
// It uses Go generics to ensure compile-time type safety.
type Element interface {
	float32 | int32 | uint32
}

// DataType represents runtime type information for buffer elements.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Int32
	Uint32
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32, Uint32:
		return 4
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	default:
		return "unknown"
	}
}

// WGSL returns the device-side scalar type name.
func (dt DataType) WGSL() string {
	switch dt {
	case Float32:
		return "f32"
	case Int32:
		return "i32"
	case Uint32:
		return "u32"
	default:
		panic("unknown data type")
	}
}

// IsFloat reports whether the type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32
}

// IsSigned reports whether the type can hold negative values.
func (dt DataType) IsSigned() bool {
	return dt != Uint32
}

// Parse returns the DataType for a Go or WGSL type name.
func Parse(name string) (DataType, bool) {
	switch name {
	case "float32", "f32":
		return Float32, true
	case "int32", "i32":
		return Int32, true
	case "uint32", "u32":
		return Uint32, true
	}
	return 0, false
}

// Of returns the DataType of T.
func Of[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case int32:
		return Int32
	case uint32:
		return Uint32
	default:
		panic("unsupported type")
	}
}

// Put writes v to dst in little-endian order. dst must hold at least
// Of[T]().Size() bytes.
func Put[T Element](dst []byte, v T) {
	switch x := any(v).(type) {
	case float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(x))
	case int32:
		binary.LittleEndian.PutUint32(dst, uint32(x)) //nolint:gosec // G115: bit reinterpretation
	case uint32:
		binary.LittleEndian.PutUint32(dst, x)
	}
}

// Get reads a little-endian T from src.
func Get[T Element](src []byte) T {
	var v T
	switch p := any(&v).(type) {
	case *float32:
		*p = math.Float32frombits(binary.LittleEndian.Uint32(src))
	case *int32:
		*p = int32(binary.LittleEndian.Uint32(src)) //nolint:gosec // G115: bit reinterpretation
	case *uint32:
		*p = binary.LittleEndian.Uint32(src)
	}
	return v
}

// Bytes encodes data into a byte slice of PaddedSize(len(data), Of[T]()) bytes.
// Padding bytes are zero.
func Bytes[T Element](data []T) []byte {
	size := Of[T]().Size()
	out := make([]byte, PaddedSize(len(data), Of[T]()))
	for i, v := range data {
		Put(out[i*size:], v)
	}
	return out
}

// FromBytes decodes the first n elements of src.
func FromBytes[T Element](src []byte, n int) []T {
	size := Of[T]().Size()
	out := make([]T, n)
	for i := range out {
		out[i] = Get[T](src[i*size:])
	}
	return out
}

// PaddedSize returns the device allocation size for n elements of dt.
// Device buffers are sized in multiples of 4 bytes and are never empty.
func PaddedSize(n int, dt DataType) uint64 {
	size := uint64(n) * uint64(dt.Size()) //nolint:gosec // G115: n is a non-negative length
	size = (size + 3) &^ 3
	if size == 0 {
		size = 4
	}
	return size
}
