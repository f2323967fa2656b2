package gpu

import "strings"

// AccessFlags describe what a kernel may do with a buffer.
type AccessFlags uint8

// Access flag bits.
const (
	KernelRead AccessFlags = 1 << iota
	KernelWrite
)

// CanRead reports whether kernels may read the buffer.
func (f AccessFlags) CanRead() bool { return f&KernelRead != 0 }

// CanWrite reports whether kernels may write the buffer.
func (f AccessFlags) CanWrite() bool { return f&KernelWrite != 0 }

// String returns "read", "write", "read_write" or "none".
func (f AccessFlags) String() string {
	var parts []string
	if f.CanRead() {
		parts = append(parts, "read")
	}
	if f.CanWrite() {
		parts = append(parts, "write")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "_")
}

// Access is the capability tag carried by a Buffer's type. The tag is fixed
// at allocation, so a function that takes *Buffer[T, ReadWrite] can only
// ever receive buffers allocated for kernel reads and writes.
type Access interface {
	ReadWrite | ReadOnly | WriteOnly
	Flags() AccessFlags
}

// ReadWrite tags buffers that kernels both read and write.
type ReadWrite struct{}

// ReadOnly tags buffers that kernels only read.
type ReadOnly struct{}

// WriteOnly tags buffers that kernels only write.
type WriteOnly struct{}

// Flags implements Access.
func (ReadWrite) Flags() AccessFlags { return KernelRead | KernelWrite }

// Flags implements Access.
func (ReadOnly) Flags() AccessFlags { return KernelRead }

// Flags implements Access.
func (WriteOnly) Flags() AccessFlags { return KernelWrite }

func flagsOf[A Access]() AccessFlags {
	var a A
	return a.Flags()
}
