package driver

import (
	"bytes"
	"testing"

	"github.com/LowCostCustoms/bf-jit/internal/abi"
	"github.com/LowCostCustoms/bf-jit/internal/reader"
)

func TestCompileRejectsNilContext(t *testing.T) {
	if _, err := Compile(nil, reader.NewString("")); err == nil {
		t.Fatal("Compile succeeded with a nil context")
	}
}

func TestCompileRejectsNilCallbacks(t *testing.T) {
	if _, err := Compile(&abi.Context{}, reader.NewString("")); err == nil {
		t.Fatal("Compile succeeded with nil callbacks")
	}
}

func TestCompileRejectsNilReader(t *testing.T) {
	ctx := &abi.Context{
		Write: func(b byte) abi.Result { return abi.Success },
		Read:  func(p *byte) abi.Result { return abi.Success },
	}
	if _, err := Compile(ctx, nil); err == nil {
		t.Fatal("Compile succeeded with a nil reader")
	}
}

func TestCompileAndInvoke(t *testing.T) {
	var out bytes.Buffer
	ctx := &abi.Context{
		Write: func(b byte) abi.Result { out.WriteByte(b); return abi.Success },
		Read:  func(p *byte) abi.Result { *p = 'A'; return abi.Success },
	}

	fn, err := Compile(ctx, reader.NewString(",."))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	result, err := fn.Invoke(make([]byte, 1))
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result != abi.Success {
		t.Fatalf("result = %v, want Success", result)
	}
	if out.String() != "A" {
		t.Errorf("output = %q, want %q", out.String(), "A")
	}
}
