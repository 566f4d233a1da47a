package baseline_test

import (
	"bytes"
	"testing"

	"quill/internal/asm"
	"quill/internal/baseline"
	"quill/internal/trace"
	"quill/internal/value"
)

func newEngine() *baseline.Engine {
	return baseline.New(trace.New("test"))
}

func TestArithmeticProgram(t *testing.T) {
	mod := asm.New().PushInt(2).PushInt(3).Multiply().PushInt(1).Add().Return().Module()
	eng := newEngine()
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 7 {
		t.Fatalf("got %v, want 7", result)
	}
}

func TestDivisionByZeroIsArithmeticError(t *testing.T) {
	mod := asm.New().PushInt(1).PushInt(0).Divide().Return().Module()
	eng := newEngine()
	if _, err := eng.Execute(mod); err == nil {
		t.Fatal("expected an error")
	}
}

func TestVariableQualifiedNameAlwaysResolvesGlobally(t *testing.T) {
	mod := asm.New().
		Jump("main").
		Func("setLocal", "x").
		LoadVar("x").
		StoreVar("app.state").
		PushInt(0).
		Return().
		Label("main").
		PushInt(99).
		Call("setLocal", 1).
		Pop().
		LoadVar("app.state").
		Return().
		Module()

	eng := newEngine()
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 99 {
		t.Fatalf("got %v, want 99 (dotted name resolves globally even inside a frame)", result)
	}
}

func TestPrintWritesDisplayStringWithoutNewline(t *testing.T) {
	var buf bytes.Buffer
	mod := asm.New().PushString("hello").Print().PushNull().Return().Module()
	eng := newEngine()
	eng.Stdout = &buf
	if _, err := eng.Execute(mod); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if buf.String() != "hello" {
		t.Fatalf("got %q, want %q", buf.String(), "hello")
	}
}

func TestUnknownCalleePushesNull(t *testing.T) {
	mod := asm.New().PushInt(1).Call("ghost", 1).Return().Module()
	eng := newEngine()
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsNull() {
		t.Fatalf("got %v, want Null", result)
	}
}

func TestExitReturnsTopOfStackWithoutPopping(t *testing.T) {
	mod := asm.New().PushInt(7).Exit().Module()
	eng := newEngine()
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 7 {
		t.Fatalf("got %v, want 7", result)
	}
}

func TestBuiltinLenAcrossKinds(t *testing.T) {
	eng := newEngine()
	cases := []struct {
		arg  value.Value
		want int64
	}{
		{value.String("hello"), 5},
		{value.Array([]value.Value{value.Int(1), value.Int(2)}), 2},
		{value.Map(map[string]value.Value{"a": value.Int(1)}), 1},
	}
	for _, c := range cases {
		got, err := eng.CallBuiltin("len", []value.Value{c.arg})
		if err != nil {
			t.Fatalf("len(%v): %v", c.arg, err)
		}
		if !got.IsInt() || got.AsInt() != c.want {
			t.Fatalf("len(%v) = %v, want %d", c.arg, got, c.want)
		}
	}
}
