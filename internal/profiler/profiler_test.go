package profiler_test

import (
	"testing"

	"quill/internal/asm"
	"quill/internal/profiler"
	"quill/internal/value"
)

func TestShouldSpecializeByArithmeticDensity(t *testing.T) {
	mod := asm.New().PushInt(1).PushInt(2).Add().PushInt(3).Add().Return().Module()
	c := profiler.New()
	if !c.ShouldSpecialize(mod.Instructions, 0, len(mod.Instructions)) {
		t.Fatal("expected region with 2 arithmetic ops to be eligible")
	}
}

func TestShouldSpecializeRejectsShortRegions(t *testing.T) {
	mod := asm.New().PushInt(1).PushInt(2).Add().Return().Module()
	c := profiler.New()
	if c.ShouldSpecialize(mod.Instructions, 0, len(mod.Instructions)) {
		t.Fatal("a region shorter than 5 instructions must never specialize")
	}
}

func TestFingerprintEqualForStructurallyIdenticalModules(t *testing.T) {
	a := asm.New().PushInt(5).PushInt(3).Add().PushInt(10).Add().Return().Module()
	b := asm.New().PushInt(5).PushInt(3).Add().PushInt(10).Add().Return().Module()
	if profiler.FingerprintModule(a, 2) != profiler.FingerprintModule(b, 2) {
		t.Fatal("structurally identical modules must fingerprint-equal")
	}
}

func TestFingerprintDistinguishesMeaningfulEdits(t *testing.T) {
	base := asm.New().PushInt(5).PushInt(3).Add().PushInt(10).Add().Return().Module()
	swappedOp := asm.New().PushInt(5).PushInt(3).Subtract().PushInt(10).Add().Return().Module()
	changedImm := asm.New().PushInt(5).PushInt(4).Add().PushInt(10).Add().Return().Module()

	fp := profiler.FingerprintModule(base, 2)
	if profiler.FingerprintModule(swappedOp, 2) == fp {
		t.Fatal("swapping Add for Subtract must change the fingerprint")
	}
	if profiler.FingerprintModule(changedImm, 2) == fp {
		t.Fatal("changing an immediate must change the fingerprint")
	}

	callA := asm.New().PushInt(1).Call("alpha", 1).PushInt(1).Call("alpha", 1).Return().Module()
	callB := asm.New().PushInt(1).Call("beta", 1).PushInt(1).Call("beta", 1).Return().Module()
	if profiler.FingerprintModule(callA, 2) == profiler.FingerprintModule(callB, 2) {
		t.Fatal("renaming a called function must change the fingerprint")
	}
}

func TestDominantTypeRequiresEightyPercent(t *testing.T) {
	c := profiler.New()
	for i := 0; i < 7; i++ {
		c.RecordType(3, value.Int(1))
	}
	for i := 0; i < 3; i++ {
		c.RecordType(3, value.Float(1))
	}

	p, ok := c.TypeProfileAt(3)
	if !ok {
		t.Fatal("expected a type profile at offset 3")
	}
	if _, ok := p.DominantType(); ok {
		t.Fatal("7/10 int samples must not clear the 80% threshold")
	}

	for i := 0; i < 8; i++ {
		c.RecordType(3, value.Int(1))
	}
	p, _ = c.TypeProfileAt(3)
	if dom, ok := p.DominantType(); !ok || dom != "int" {
		t.Fatalf("expected int dominance at 15/18 samples, got %q ok=%v", dom, ok)
	}
}

func TestShouldSpecializeByExecutionCount(t *testing.T) {
	mod := asm.New().PushInt(1).Print().PushInt(1).Print().PushNull().Return().Module()
	c := profiler.New()
	if c.ShouldSpecialize(mod.Instructions, 0, len(mod.Instructions)) {
		t.Fatal("cold region with no density signal should not specialize yet")
	}
	for i := 0; i < int(profiler.DefaultSpecializationThreshold); i++ {
		c.RecordExecution(0)
	}
	if !c.ShouldSpecialize(mod.Instructions, 0, len(mod.Instructions)) {
		t.Fatal("expected specialization once the offset's execution count reaches the threshold")
	}
}

func TestFingerprintDiffersOnDifferentPrograms(t *testing.T) {
	a := asm.New().PushInt(1).PushInt(2).Add().Return().Module()
	b := asm.New().PushInt(1).PushInt(3).Add().Return().Module()
	if profiler.FingerprintModule(a, 1) == profiler.FingerprintModule(b, 1) {
		t.Fatal("different immediates must not collide")
	}
}

func TestFingerprintVariesWithOptimizationLevel(t *testing.T) {
	mod := asm.New().PushInt(1).Return().Module()
	if profiler.FingerprintModule(mod, 1) == profiler.FingerprintModule(mod, 2) {
		t.Fatal("fingerprint must be sensitive to optimization level")
	}
}

func TestTypeProfileDominantType(t *testing.T) {
	c := profiler.New()
	for i := 0; i < 9; i++ {
		c.RecordType(0, value.Int(1))
	}
	c.RecordType(0, value.String("x"))
	p, ok := c.TypeProfileAt(0)
	if !ok {
		t.Fatal("expected a type profile at offset 0")
	}
	dominant, ok := p.DominantType()
	if !ok || dominant != "int" {
		t.Fatalf("got (%q, %v), want (int, true)", dominant, ok)
	}
}

func TestTypeProfilePolymorphicHasNoDominant(t *testing.T) {
	c := profiler.New()
	c.RecordType(0, value.Int(1))
	c.RecordType(0, value.String("x"))
	p, _ := c.TypeProfileAt(0)
	if _, ok := p.DominantType(); ok {
		t.Fatal("a 50/50 split must not report a dominant type")
	}
}
