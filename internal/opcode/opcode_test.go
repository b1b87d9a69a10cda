package opcode

import "testing"

func TestFromByte(t *testing.T) {
	cases := []struct {
		in   byte
		want Opcode
		ok   bool
	}{
		{'+', Inc, true},
		{'-', Dec, true},
		{'>', Next, true},
		{'<', Prev, true},
		{'[', Jz, true},
		{']', Jnz, true},
		{'.', Write, true},
		{',', Read, true},
		{'x', Invalid, false},
		{'\n', Invalid, false},
	}

	for _, c := range cases {
		got, ok := FromByte(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("FromByte(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestString(t *testing.T) {
	if got := Inc.String(); got == "" {
		t.Error("Inc.String() returned empty string")
	}
	if got := Opcode(99).String(); got != "Invalid" && got == "" {
		t.Errorf("unknown opcode String() = %q, want a non-empty fallback", got)
	}
}
