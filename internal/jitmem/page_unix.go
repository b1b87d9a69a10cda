//go:build !windows

// Package jitmem allocates anonymous, executable memory pages for
// generated machine code. It is the compiler driver's mechanism for
// materializing a callable native entry point after linking, in the
// shape of CodePage/HotReloadManager, built on golang.org/x/sys/unix
// rather than raw syscall.Syscall.
package jitmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Page is one anonymous mmap'd region of executable memory. It is
// process-lifetime unless explicitly Freed; callers must not invoke
// code inside a Page after Free returns.
type Page struct {
	mem  []byte
	addr uintptr
}

// Alloc reserves a zeroed, writable page-aligned region at least size
// bytes long. Call Finalize once the code has been written into it to
// flip it read-execute, matching W^X hygiene.
func Alloc(size int) (*Page, error) {
	if size <= 0 {
		return nil, fmt.Errorf("jitmem: size must be positive, got %d", size)
	}

	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("jitmem: mmap failed: %w", err)
	}

	return &Page{mem: mem, addr: sliceAddr(mem)}, nil
}

// Write copies code into the page. It must be called before Finalize.
func (p *Page) Write(code []byte) error {
	if len(code) > len(p.mem) {
		return fmt.Errorf("jitmem: code size %d exceeds page size %d", len(code), len(p.mem))
	}
	copy(p.mem, code)
	return nil
}

// Finalize switches the page from writable to executable. After this
// call the page must not be written to again.
func (p *Page) Finalize() error {
	if err := unix.Mprotect(p.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("jitmem: mprotect failed: %w", err)
	}
	return nil
}

// Addr returns the address of the first byte of the page.
func (p *Page) Addr() uintptr {
	return p.addr
}

// Free unmaps the page. Invoking code inside the page after Free is
// undefined; generated code is owned by the driver that produced it.
func (p *Page) Free() error {
	if p.mem == nil {
		return nil
	}
	err := unix.Munmap(p.mem)
	p.mem = nil
	p.addr = 0
	if err != nil {
		return fmt.Errorf("jitmem: munmap failed: %w", err)
	}
	return nil
}
