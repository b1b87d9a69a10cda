//go:build !windows

package jitmem

import "testing"

func TestAllocWriteFinalizeFree(t *testing.T) {
	// mov eax, 7 ; ret
	code := []byte{0xB8, 0x07, 0x00, 0x00, 0x00, 0xC3}

	page, err := Alloc(len(code))
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	defer page.Free()

	if err := page.Write(code); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := page.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if page.Addr() == 0 {
		t.Fatal("Addr() returned 0 after a successful Alloc")
	}
}

func TestAllocRejectsNonPositiveSize(t *testing.T) {
	if _, err := Alloc(0); err == nil {
		t.Fatal("Alloc(0) returned no error")
	}
	if _, err := Alloc(-1); err == nil {
		t.Fatal("Alloc(-1) returned no error")
	}
}

func TestWriteRejectsOversizedCode(t *testing.T) {
	page, err := Alloc(4)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	defer page.Free()

	if err := page.Write(make([]byte, 8)); err == nil {
		t.Fatal("Write accepted code larger than the page")
	}
}

func TestFreeIsIdempotent(t *testing.T) {
	page, err := Alloc(4)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := page.Free(); err != nil {
		t.Fatalf("first Free failed: %v", err)
	}
	if err := page.Free(); err != nil {
		t.Fatalf("second Free failed: %v", err)
	}
}
