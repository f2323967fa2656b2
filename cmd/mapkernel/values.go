//go:build windows

package main

import (
	"fmt"
	"math"

	"github.com/born-ml/mapkernel/internal/dtype"
)

// checkRange rejects flag values that an integer element type cannot hold.
// Converting such a float64 to an integer type is implementation-defined.
func checkRange(dt dtype.DataType, name string, x float64) error {
	var lo, hi float64
	switch dt {
	case dtype.Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	case dtype.Uint32:
		lo, hi = 0, math.MaxUint32
	default:
		return nil
	}
	if math.IsNaN(x) || x < lo || x > hi {
		return fmt.Errorf("%s %v out of range for %s", name, x, dt)
	}
	return nil
}

// convert converts a flag value to T. Integer values are truncated toward zero.
func convert[T dtype.Element](x float64) T {
	var v T
	switch p := any(&v).(type) {
	case *float32:
		*p = float32(x)
	case *int32:
		*p = int32(x)
	case *uint32:
		*p = uint32(x)
	}
	return v
}

// approxEqual compares device and host results. Device float division and
// remainder are allowed a few ULP of error; NaN equals NaN.
func approxEqual[T dtype.Element](got, want T, dt dtype.DataType) bool {
	if !dt.IsFloat() {
		return got == want
	}
	g, w := toFloat64(got), toFloat64(want)
	if g == w || (math.IsNaN(g) && math.IsNaN(w)) {
		return true
	}
	return math.Abs(g-w) <= 1e-5*math.Max(1, math.Abs(w))
}

func toFloat64[T dtype.Element](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case int32:
		return float64(x)
	case uint32:
		return float64(x)
	}
	return 0
}
