package abi

import "testing"

func TestResultString(t *testing.T) {
	cases := map[Result]string{
		Success:        "Success",
		WriteError:     "WriteError",
		ReadError:      "ReadError",
		MemoryUnderrun: "MemoryUnderrun",
		OutOfMemory:    "OutOfMemory",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", r, got, want)
		}
	}
	if got := Result(99).String(); got != "Unknown" {
		t.Errorf("Result(99).String() = %q, want %q", got, "Unknown")
	}
}

func TestResultNumericValuesAreStableABI(t *testing.T) {
	cases := []struct {
		r    Result
		want int64
	}{
		{Success, 0},
		{WriteError, 1},
		{ReadError, 2},
		{MemoryUnderrun, 3},
		{OutOfMemory, 4},
	}
	for _, c := range cases {
		if int64(c.r) != c.want {
			t.Errorf("%v = %d, want %d", c.r, int64(c.r), c.want)
		}
	}
}
