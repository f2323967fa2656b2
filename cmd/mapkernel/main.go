//go:build windows

// Package main provides the mapkernel CLI.
//
// Usage:
//
//	mapkernel version
//	mapkernel devices
//	mapkernel run -op add -type f32 -n 1048576 -init 0 -scalar 10 -repeat 1
//
// run builds the map kernel, enqueues it, reads the buffer back and checks
// every element against the host arithmetic.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/born-ml/mapkernel/gpu"
	"github.com/born-ml/mapkernel/internal/dtype"
	"github.com/born-ml/mapkernel/internal/verify"
	"github.com/born-ml/mapkernel/mapkernel"
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("mapkernel %s\n", version)
	case "devices":
		err = devices()
	case "run":
		err = run(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapkernel: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("mapkernel - element-wise GPU map kernels")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  devices    List GPU adapters")
	fmt.Println("  run        Build, enqueue and verify a map kernel (run -h for flags)")
}

func devices() error {
	infos, err := gpu.ListDevices()
	if err != nil {
		return err
	}
	for i, info := range infos {
		fmt.Printf("Device %d: %s\n", i, info)
		fmt.Printf("  Description:  %s\n", info.Description)
		fmt.Printf("  Architecture: %s\n", info.Architecture)
		fmt.Printf("  Type:         %s\n", info.Type)
		fmt.Printf("  VendorID:     0x%04X\n", info.VendorID)
		fmt.Printf("  DeviceID:     0x%04X\n", info.DeviceID)
	}
	return nil
}

// runConfig holds the flags of the run command.
type runConfig struct {
	op       mapkernel.Op
	dt       dtype.DataType
	n        int
	initial  float64
	scalar   float64
	repeat   int
	lowPower bool
}

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	opName := fs.String("op", "add", "Operator: add, subtract, multiply, divide, modulo")
	typeName := fs.String("type", "f32", "Element type: f32, i32, u32")
	n := fs.Int("n", 1<<20, "Number of elements")
	initial := fs.Float64("init", 0, "Initial value of every element")
	scalar := fs.Float64("scalar", 10, "Scalar operand")
	repeat := fs.Int("repeat", 1, "Number of enqueues")
	lowPower := fs.Bool("low-power", false, "Prefer the low-power adapter")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	op, err := mapkernel.ParseOp(*opName)
	if err != nil {
		return err
	}
	dt, ok := dtype.Parse(*typeName)
	if !ok {
		return fmt.Errorf("unknown element type %q", *typeName)
	}
	if *n < 0 || *repeat < 0 {
		return fmt.Errorf("-n and -repeat must not be negative")
	}
	if err := checkRange(dt, "-init", *initial); err != nil {
		return err
	}
	if err := checkRange(dt, "-scalar", *scalar); err != nil {
		return err
	}

	cfg := runConfig{op: op, dt: dt, n: *n, initial: *initial, scalar: *scalar, repeat: *repeat, lowPower: *lowPower}
	switch dt {
	case dtype.Float32:
		return runTyped[float32](cfg)
	case dtype.Int32:
		return runTyped[int32](cfg)
	default:
		return runTyped[uint32](cfg)
	}
}

func runTyped[T dtype.Element](cfg runConfig) error {
	env, err := gpu.Open(gpu.Options{LowPower: cfg.lowPower, Label: "mapkernel-cli"})
	if err != nil {
		return err
	}
	defer env.Release()

	fmt.Printf("Device:  %s\n", env.Device.Info())

	v, s := convert[T](cfg.initial), convert[T](cfg.scalar)
	data := make([]T, cfg.n)
	for i := range data {
		data[i] = v
	}

	start := time.Now()
	program, err := mapkernel.BuildProgram[T](env.Device, cfg.op, env.Context)
	if err != nil {
		return err
	}
	defer program.Release()
	fmt.Printf("Program: %s (built in %v)\n", program.Label(), time.Since(start).Round(time.Microsecond))

	buffer, err := gpu.NewBufferFrom[T, gpu.ReadWrite](env.Context, data)
	if err != nil {
		return err
	}
	defer buffer.Release()
	fmt.Printf("Buffer:  %s elements, %s\n", humanize.Comma(int64(cfg.n)), humanize.IBytes(uint64(buffer.ByteSize()))) //nolint:gosec // G115: sizes are non-negative

	kernel, err := mapkernel.BuildKernel(program, env.Queue, buffer, s)
	if err != nil {
		return err
	}
	defer kernel.Release()

	start = time.Now()
	for range cfg.repeat {
		if err := kernel.Enqueue(nil); err != nil {
			return err
		}
	}
	got, err := buffer.Read(env.Queue)
	if err != nil {
		return err
	}
	fmt.Printf("Ran:     %d enqueue(s) + read in %v\n", cfg.repeat, time.Since(start).Round(time.Microsecond))

	want := v
	for range cfg.repeat {
		want = mapkernel.Apply(cfg.op, want, s)
	}
	equal := func(a, b T) bool { return approxEqual(a, b, cfg.dt) }
	report := verify.All(got, want, equal, verify.DefaultConfig())
	if !report.OK() {
		for _, i := range report.Indices {
			fmt.Printf("  index %d: got %v, want %v\n", i, got[i], want)
		}
		return fmt.Errorf("%s of %s elements differ from %v", humanize.Comma(int64(report.Mismatches)), humanize.Comma(int64(cfg.n)), want)
	}
	fmt.Printf("OK:      every element equals %v\n", want)
	return nil
}
