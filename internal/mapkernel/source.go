package mapkernel

import (
	"encoding/binary"
	"fmt"

	"github.com/born-ml/mapkernel/internal/dtype"
)

const (
	// workgroupSize is the number of invocations per workgroup.
	workgroupSize = 256
	// maxWorkgroups is the WebGPU default maxComputeWorkgroupsPerDimension.
	maxWorkgroups = 65535
	// MaxLen is the largest buffer a map kernel covers in one dispatch.
	MaxLen = workgroupSize * maxWorkgroups
)

// Binding indices of the kernel template. The buffer always comes first.
const (
	bufferBinding = 0
	paramsBinding = 1
)

// paramsSize is the byte size of the Params struct: size (u32) at offset 0,
// scalar at offset 4, rounded up to the struct's 4-byte alignment.
const paramsSize = 8

// mapTemplate is the single kernel all map programs are generated from.
// Verbs: %[1]s element type, %[2]d workgroup size, %[3]s operator snippet.
const mapTemplate = `@group(0) @binding(0) var<storage, read_write> data: array<%[1]s>;

struct Params {
    size: u32,
    scalar: %[1]s,
}
@group(0) @binding(1) var<uniform> params: Params;

@compute @workgroup_size(%[2]d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        %[3]s
    }
}
`

// Source returns the WGSL source of the map kernel for op over T.
func Source[T dtype.Element](op Op) (string, error) {
	return source(dtype.Of[T](), op)
}

func source(dt dtype.DataType, op Op) (string, error) {
	if !op.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidOp, int(op))
	}
	return fmt.Sprintf(mapTemplate, dt.WGSL(), workgroupSize, op.Snippet()), nil
}

// label names the program for op over dt, e.g. "map_add_f32".
func label(dt dtype.DataType, op Op) string {
	return fmt.Sprintf("map_%s_%s", op, dt.WGSL())
}

// encodeParams lays out the Params uniform for n elements and scalar.
func encodeParams[T dtype.Element](n int, scalar T) []byte {
	params := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(params[0:4], uint32(n)) //nolint:gosec // G115: n is checked against MaxLen
	dtype.Put(params[4:], scalar)
	return params
}

// workgroups returns the number of workgroups covering n elements.
func workgroups(n int) (uint32, error) {
	if n < 0 || n > MaxLen {
		return 0, fmt.Errorf("%d elements, limit %d", n, MaxLen)
	}
	return uint32((n + workgroupSize - 1) / workgroupSize), nil //nolint:gosec // G115: bounded by maxWorkgroups
}
