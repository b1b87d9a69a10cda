// Command bfjit compiles a brainfuck program straight to native code
// and runs it, wiring the program's "." and "," against the process's
// stdout and stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"

	"github.com/LowCostCustoms/bf-jit/internal/abi"
	"github.com/LowCostCustoms/bf-jit/internal/driver"
	"github.com/LowCostCustoms/bf-jit/internal/reader"
)

const defaultHeapSize = 1048576

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bfjit", flag.ContinueOnError)
	heapSize := fs.Int("heap-size", env.Int("BFJIT_HEAP_SIZE", defaultHeapSize), "tape size in bytes")
	verbose := fs.Bool("v", env.Bool("BFJIT_VERBOSE"), "log the program name and tape size to stderr before compiling")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bfjit [-heap-size N] [-v] <program.bf>")
		return 2
	}

	if *heapSize <= 0 {
		fmt.Fprintf(os.Stderr, "bfjit: heap size must be positive, got %d\n", *heapSize)
		return 2
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bfjit: %v\n", err)
		return 1
	}
	defer f.Close()

	result, err := compileAndRun(f, *heapSize, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bfjit: %v\n", err)
		return 1
	}

	if result != abi.Success {
		fmt.Fprintf(os.Stderr, "bfjit: %v\n", result)
		return 1
	}
	return 0
}

func compileAndRun(src *os.File, heapSize int, verbose bool) (abi.Result, error) {
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	in := bufio.NewReader(os.Stdin)

	ctx := &abi.Context{
		Write: func(b byte) abi.Result {
			if err := out.WriteByte(b); err != nil {
				return abi.WriteError
			}
			return abi.Success
		},
		Read: func(p *byte) abi.Result {
			b, err := in.ReadByte()
			if err != nil {
				return abi.ReadError
			}
			*p = b
			return abi.Success
		},
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "bfjit: compiling %s with a %d byte tape\n", src.Name(), heapSize)
	}

	fn, err := driver.Compile(ctx, reader.NewFile(src))
	if err != nil {
		return 0, fmt.Errorf("compile: %w", err)
	}

	heap := make([]byte, heapSize)
	result, err := fn.Invoke(heap)
	if err != nil {
		return 0, fmt.Errorf("run: %w", err)
	}

	if err := out.Flush(); err != nil {
		return 0, fmt.Errorf("flush output: %w", err)
	}

	return result, nil
}
