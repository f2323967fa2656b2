package gpu

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotAvailable = errors.New("gpu: native library not available")
	ErrNoAdapter    = errors.New("gpu: no adapter available")
	ErrReleased     = errors.New("gpu: object already released")
	ErrNilQueue     = errors.New("gpu: nil queue")
	ErrLength       = errors.New("gpu: data length does not match buffer length")

	ErrArgIndex  = errors.New("argument index out of range")
	ErrArgKind   = errors.New("argument kind mismatch")
	ErrArgSize   = errors.New("argument size mismatch")
	ErrArgAccess = errors.New("buffer access does not allow kernel writes")
	ErrArgUnset  = errors.New("argument not set")
	ErrWorkSize  = errors.New("work size exceeds dispatch limit")
)

// CompileError reports that the device rejected program source.
type CompileError struct {
	Label  string // Program label
	Source string // Source text handed to the compiler
	Err    error  // Cause reported by the binding
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("gpu: compile %q: %v", e.Label, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error { return e.Err }

// BindError reports that a kernel argument could not be bound.
// Index is -1 when the failure is not tied to one argument.
type BindError struct {
	Kernel string
	Index  int
	Err    error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("gpu: bind %q: %v", e.Kernel, e.Err)
	}
	return fmt.Sprintf("gpu: bind %q arg %d: %v", e.Kernel, e.Index, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BindError) Unwrap() error { return e.Err }

// EnqueueError reports that a kernel could not be submitted.
type EnqueueError struct {
	Kernel string
	Err    error
}

// Error implements the error interface.
func (e *EnqueueError) Error() string {
	return fmt.Sprintf("gpu: enqueue %q: %v", e.Kernel, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EnqueueError) Unwrap() error { return e.Err }

// DeviceError is an error the device reported inside an error scope.
// Message is the driver's text, unchanged.
type DeviceError struct {
	Type    string // "validation", "out-of-memory", "internal" or "unknown"
	Message string
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	if e.Message == "" {
		return e.Type + " error"
	}
	return e.Message
}

// recovered turns a value recovered from a binding panic into an error.
func recovered(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
