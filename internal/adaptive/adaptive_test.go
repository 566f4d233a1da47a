package adaptive

import (
	"bytes"
	"testing"

	"quill/internal/asm"
	"quill/internal/profiler"
	"quill/internal/trace"
)

func TestRegisterFileResetsAfterSpecializedRun(t *testing.T) {
	mod := asm.New().PushInt(1).PushInt(2).Add().PushInt(3).Add().Return().Module()

	eng := New(2, trace.New("test"))
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 6 {
		t.Fatalf("got %v, want 6", result)
	}

	for i, v := range eng.registers {
		if !v.IsNull() {
			t.Fatalf("register %d not reset to Null: %v", i, v)
		}
	}
	if eng.allocator.FreeCount() != NumRegisters {
		t.Fatalf("allocator has %d free registers, want %d", eng.allocator.FreeCount(), NumRegisters)
	}
}

func TestSpecializationCacheHitsOnSecondRun(t *testing.T) {
	mod := asm.New().PushInt(1).PushInt(2).Add().PushInt(3).Add().Return().Module()

	eng := New(2, trace.New("test"))
	if _, err := eng.Execute(mod); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if _, err := eng.Execute(mod); err != nil {
		t.Fatalf("second execute: %v", err)
	}

	stats := eng.Stats()
	if stats.CacheHits == 0 {
		t.Fatalf("expected at least one cache hit on the second run, got stats %+v", stats)
	}
	if stats.HotPathCount != 1 {
		t.Fatalf("expected exactly one distinct specialized region, got %d", stats.HotPathCount)
	}
}

func TestFingerprintStableAcrossRuns(t *testing.T) {
	mod := asm.New().PushInt(1).PushInt(2).Add().Return().Module()
	a := profiler.FingerprintModule(mod, 2)
	b := profiler.FingerprintModule(mod, 2)
	if a != b {
		t.Fatalf("fingerprint not stable: %d != %d", a, b)
	}
}

func TestAllocatorReuseAfterReset(t *testing.T) {
	a := NewAllocator()
	first := a.Next("x")
	a.Reset()
	second := a.Next("x")
	if first != second {
		t.Fatalf("expected deterministic allocation after reset, got %d then %d", first, second)
	}
}

func TestMixedIntFloatAddDeoptimizesExactlyOnce(t *testing.T) {
	// No type profile exists on the first run, so the Add specializes
	// to AddIntReg; the Number operand fails the guard, and the run
	// restarts under baseline with the correct Number-fallback result.
	mod := asm.New().
		PushInt(5).
		PushNumber(3.0).
		Add().
		PushInt(0).
		Add().
		Return().
		Module()

	eng := New(2, trace.New("test"))
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsFloat() || result.AsFloat() != 8.0 {
		t.Fatalf("got %v, want float 8.0", result)
	}
	if got := eng.Stats().Deoptimizations; got != 1 {
		t.Fatalf("got %d deoptimizations, want exactly 1", got)
	}
}

func TestDeoptimizedRegionRespecializesFromTypeFeedback(t *testing.T) {
	// All-float arithmetic: the first run guesses Integer, deoptimizes,
	// and the restarted baseline run records float feedback at every
	// arithmetic offset. The dropped cache entry forces a re-translate
	// on the second run, which now picks the Float specializations and
	// completes without deoptimizing.
	mod := asm.New().
		PushNumber(1.5).
		PushNumber(2.5).
		Add().
		PushNumber(1.0).
		Add().
		Return().
		Module()

	eng := New(2, trace.New("test"))
	first, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	second, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}

	if !first.IsFloat() || first.AsFloat() != 5.0 {
		t.Fatalf("first run got %v, want 5.0", first)
	}
	if !second.IsFloat() || second.AsFloat() != 5.0 {
		t.Fatalf("second run got %v, want 5.0", second)
	}

	stats := eng.Stats()
	if stats.Deoptimizations != 1 {
		t.Fatalf("got %d deoptimizations, want 1", stats.Deoptimizations)
	}
	if stats.SpecializedExecutions != 1 {
		t.Fatalf("got %d specialized executions, want 1", stats.SpecializedExecutions)
	}
}

func TestTranslateEmitsAddIntRegForIntegerAdd(t *testing.T) {
	mod := asm.New().PushInt(5).PushInt(3).Add().PushInt(10).Add().Return().Module()

	ops := translate(mod.Instructions, profiler.New(), NewAllocator(), nil)
	found := false
	for _, op := range ops {
		if op.Kind == OpAddIntReg {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an AddIntReg in the specialized sequence")
	}
}

func TestVariableCacheRecordsTypeStableAccess(t *testing.T) {
	mod := asm.New().
		PushInt(7).
		StoreVar("x").
		LoadVar("x").
		PushInt(1).
		Add().
		Return().
		Module()

	eng := New(2, trace.New("test"))
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 8 {
		t.Fatalf("got %v, want 8", result)
	}

	entry, ok := eng.cache.Variable("x")
	if !ok {
		t.Fatal("expected a variable-cache entry for x")
	}
	if entry.ObservedKind != "int" {
		t.Fatalf("observed kind %q, want int", entry.ObservedKind)
	}
	if entry.Version != 0 {
		t.Fatalf("version %d, want 0 for a type-stable variable", entry.Version)
	}
	if entry.AccessCount == 0 {
		t.Fatal("expected a non-zero access count")
	}
}

func TestVariableCacheVersionBumpsOnTypeShift(t *testing.T) {
	mod := asm.New().
		PushInt(7).
		StoreVar("x").
		PushString("hello").
		StoreVar("x").
		LoadVar("x").
		Return().
		Module()

	eng := New(2, trace.New("test"))
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsString() || result.AsString() != "hello" {
		t.Fatalf("got %v, want \"hello\"", result)
	}

	entry, ok := eng.cache.Variable("x")
	if !ok {
		t.Fatal("expected a variable-cache entry for x")
	}
	if entry.Version < 1 {
		t.Fatalf("version %d, want >= 1 after int -> string shift", entry.Version)
	}
}

func TestVariableCacheVersionIsMonotonic(t *testing.T) {
	c := NewInlineCache()
	kinds := []string{"int", "string", "int", "int", "float", "float", "null"}
	var last uint32
	for _, k := range kinds {
		e := c.RecordVariable("v", k)
		if e.Version < last {
			t.Fatalf("version decreased from %d to %d", last, e.Version)
		}
		last = e.Version
	}
	c.Invalidate("v")
	e, _ := c.Variable("v")
	if e.Version <= last {
		t.Fatalf("Invalidate must bump the version past %d, got %d", last, e.Version)
	}
}

func TestLevelOneSkipsInlineCaching(t *testing.T) {
	mod := asm.New().
		PushInt(7).
		StoreVar("x").
		LoadVar("x").
		PushInt(1).
		Add().
		Return().
		Module()

	eng := New(1, trace.New("test"))
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 8 {
		t.Fatalf("got %v, want 8", result)
	}
	if n := eng.Stats().VariableCacheEntries; n != 0 {
		t.Fatalf("level 1 must not populate the inline cache, got %d entries", n)
	}
}

func TestCallableCacheRecordsBuiltin(t *testing.T) {
	mod := asm.New().
		PushString("hi").
		Call("len", 1).
		PushInt(0).
		Add().
		PushInt(0).
		Add().
		Return().
		Module()

	eng := New(2, trace.New("test"))
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 2 {
		t.Fatalf("got %v, want 2", result)
	}

	entry, ok := eng.cache.Callable("len")
	if !ok {
		t.Fatal("expected a callable-cache entry for len")
	}
	if !entry.IsBuiltin {
		t.Fatal("len must be recorded as a builtin")
	}
	if entry.CallCount == 0 {
		t.Fatal("expected a non-zero call count")
	}
}

func TestSpecializedBuiltinCallStaysInRegisterTier(t *testing.T) {
	var buf bytes.Buffer
	mod := asm.New().
		PushInt(1).
		PushInt(2).
		Add().
		PushInt(3).
		Add().
		Call("println", 1).
		Return().
		Module()

	eng := New(2, trace.New("test"))
	eng.baseline.Stdout = &buf
	if _, err := eng.Execute(mod); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if buf.String() != "6\n" {
		t.Fatalf("println wrote %q, want %q", buf.String(), "6\n")
	}
	stats := eng.Stats()
	if stats.Deoptimizations != 0 {
		t.Fatalf("builtin fast call must not deoptimize, got %d", stats.Deoptimizations)
	}
	if stats.SpecializedExecutions != 1 {
		t.Fatalf("got %d specialized executions, want 1", stats.SpecializedExecutions)
	}
}

func TestDivisionByZeroInsideSpecializedRunSurfacesError(t *testing.T) {
	mod := asm.New().
		PushInt(1).
		PushInt(0).
		Divide().
		PushInt(1).
		Add().
		Return().
		Module()

	eng := New(2, trace.New("test"))
	if _, err := eng.Execute(mod); err == nil {
		t.Fatal("expected a division-by-zero error to surface through the adaptive tier")
	}
	// The zero divisor fails the DivideIntReg guard, so the error is
	// produced by the deoptimized baseline run, not the specialized one.
	if eng.Stats().Deoptimizations == 0 {
		t.Fatal("expected the divide to deoptimize before erroring")
	}
}

func TestTranslateUnsupportedInstructionDeoptimizes(t *testing.T) {
	// Dup has no specialized form, so reaching it inside a specialized
	// run must deoptimize to baseline but still land on the correct
	// baseline answer: (6+3) duplicated and added to itself, 18.
	mod := asm.New().
		PushInt(6).
		PushInt(3).
		Add().
		Dup().
		Add().
		Return().
		Module()

	eng := New(2, trace.New("test"))
	result, err := eng.Execute(mod)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 18 {
		t.Fatalf("got %v, want 18", result)
	}
	if eng.Stats().Deoptimizations == 0 {
		t.Fatal("expected a deoptimization")
	}
}
