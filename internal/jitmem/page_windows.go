//go:build windows

package jitmem

import "fmt"

// Page mirrors the unix implementation's shape so callers compile on
// Windows, split the same way page_unix.go is from page_windows.go.
// Only the execution-page path is unimplemented here — lexing, IR
// construction, and compilation are platform-independent.
type Page struct{}

func Alloc(size int) (*Page, error) {
	return nil, fmt.Errorf("jitmem: executable page allocation is not implemented on windows")
}

func (p *Page) Write(code []byte) error { return fmt.Errorf("jitmem: unsupported on windows") }

func (p *Page) Finalize() error { return fmt.Errorf("jitmem: unsupported on windows") }

func (p *Page) Addr() uintptr { return 0 }

func (p *Page) Free() error { return nil }
