package gpu

// ArgKind is the kind of a positional kernel argument.
type ArgKind int

// Argument kinds.
const (
	// ArgStorage is a storage buffer (var<storage>).
	ArgStorage ArgKind = iota
	// ArgUniform is a small by-value parameter block (var<uniform>).
	ArgUniform
)

// String returns the WGSL address space of the kind.
func (k ArgKind) String() string {
	switch k {
	case ArgStorage:
		return "storage"
	case ArgUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// ArgSpec declares one positional argument of a program. The argument's
// binding index in group 0 is its position in the layout.
type ArgSpec struct {
	Kind ArgKind
	// ElemSize is the element byte size of a storage argument.
	ElemSize int
	// Size is the byte size of a uniform argument.
	Size int
	// Writable marks storage arguments the program writes to.
	Writable bool
}

// uniformAlign is the size granularity of uniform buffers.
const uniformAlign = 16

// alignUniform rounds size up to the uniform buffer granularity.
func alignUniform(size int) int {
	return (size + uniformAlign - 1) &^ (uniformAlign - 1)
}

// checkStorageArg validates a storage buffer against the declared argument.
func checkStorageArg(layout []ArgSpec, index uint32, elemSize int, flags AccessFlags) error {
	if int(index) >= len(layout) {
		return ErrArgIndex
	}
	arg := layout[index]
	if arg.Kind != ArgStorage {
		return ErrArgKind
	}
	if arg.ElemSize != elemSize {
		return ErrArgSize
	}
	if arg.Writable && !flags.CanWrite() {
		return ErrArgAccess
	}
	return nil
}

// checkUniformArg validates a uniform parameter block against the declared argument.
func checkUniformArg(layout []ArgSpec, index uint32, size int) error {
	if int(index) >= len(layout) {
		return ErrArgIndex
	}
	arg := layout[index]
	if arg.Kind != ArgUniform {
		return ErrArgKind
	}
	if arg.Size != size {
		return ErrArgSize
	}
	return nil
}
