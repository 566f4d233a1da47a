// Package adaptive implements Tier 1/2: the register-based specialized
// interpreter that the profiler promotes hot IR into, and that
// deoptimizes back to Tier 0 (internal/baseline) by full restart on any
// type-guard failure or untranslatable instruction.
package adaptive

import (
	"quill/internal/baseline"
	"quill/internal/ir"
	"quill/internal/profiler"
	"quill/internal/trace"
	"quill/internal/value"
)

// Engine wraps a baseline.Engine with the profiling, caching, and
// register-file state that turns it into the adaptive tier. Optimization
// level 0 runs everything on baseline; level 1 enables specialization
// but resolves variables and callables the slow way on every access;
// level 2 adds the inline caches and their guarded fast paths.
type Engine struct {
	baseline *baseline.Engine
	counters *profiler.Counters
	cache    *InlineCache
	specs    *SpecializationCache

	registers RegisterFile
	allocator *Allocator

	level  int
	tracer *trace.Tracer

	stats Stats
}

// New returns an adaptive-tier Engine at the given optimization level,
// sharing tracer with the baseline engine it wraps. At level 1 and
// above the baseline engine gets a feedback hook installed so that
// profiling piggybacks on every Tier 0 run, including the runs this
// tier delegates or deoptimizes to.
func New(level int, tracer *trace.Tracer) *Engine {
	e := &Engine{
		baseline:  baseline.New(tracer),
		counters:  profiler.New(),
		cache:     NewInlineCache(),
		specs:     NewSpecializationCache(),
		allocator: NewAllocator(),
		level:     level,
		tracer:    tracer,
	}
	if level >= 1 {
		e.baseline.SetHook(feedback{e})
	}
	return e
}

// icEnabled reports whether inline caching is active; level 1 keeps
// specialization but resolves every variable and callable the slow way.
func (e *Engine) icEnabled() bool { return e.level >= 2 }

// feedback adapts the baseline's ExecHook to the profiler's counters
// and (at level 2) the inline caches.
type feedback struct{ e *Engine }

func (f feedback) OnInstruction(pc int, instr ir.Instruction) {
	f.e.counters.RecordExecution(pc)
}

func (f feedback) OnOperands(pc int, a, b value.Value) {
	f.e.counters.RecordType(pc, a)
	f.e.counters.RecordType(pc, b)
}

func (f feedback) OnVariable(name string, v value.Value) {
	if f.e.icEnabled() {
		f.e.cache.RecordVariable(name, v.Kind().String())
	}
}

func (f feedback) OnCall(name string) {
	f.e.counters.RecordCall(name)
	if !f.e.icEnabled() {
		return
	}
	if f.e.baseline.IsBuiltin(name) {
		f.e.cache.RecordCallable(name, -1, 0, true)
		return
	}
	if offset, ok := f.e.baseline.Functions()[name]; ok {
		f.e.cache.RecordCallable(name, offset, len(f.e.baseline.Params()[name]), false)
	}
}

// Baseline exposes the wrapped Tier 0 engine, e.g. so the host can set
// clean-output mode or register a function's parameter list once.
func (e *Engine) Baseline() *baseline.Engine { return e.baseline }

// Stats returns a snapshot of the engine's lifetime counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.VariableCacheEntries = e.cache.VariableEntryCount()
	s.CallableCacheEntries = e.cache.CallableEntryCount()
	s.PropertyCacheEntries = e.cache.PropertyEntryCount()
	s.HotPathCount = e.specs.Len()
	return s
}

// Execute runs mod, specializing it into the register tier when eligible
// and transparently deoptimizing back to baseline on any guard failure.
// At level 0 it always runs baseline directly.
func (e *Engine) Execute(mod *ir.Module) (value.Value, error) {
	if e.level == 0 {
		e.stats.BaselineExecutions++
		return e.baseline.Execute(mod)
	}

	fingerprint := profiler.FingerprintModule(mod, e.level)

	if ops, hit := e.specs.Get(fingerprint); hit {
		e.stats.CacheHits++
		return e.runOrDeopt(mod, fingerprint, ops)
	}

	e.stats.CacheMisses++
	if !e.counters.ShouldSpecialize(mod.Instructions, 0, len(mod.Instructions)) {
		e.stats.BaselineExecutions++
		return e.baseline.Execute(mod)
	}

	var cache *InlineCache
	if e.icEnabled() {
		cache = e.cache
	}
	ops := translate(mod.Instructions, e.counters, e.allocator, cache)
	e.specs.Put(fingerprint, ops)
	if e.tracer.Enabled() {
		e.tracer.Infof("specialized %d instructions under fingerprint %016x", len(ops), fingerprint)
	}
	return e.runOrDeopt(mod, fingerprint, ops)
}

// runOrDeopt runs a specialized operation stream; on deoptimization it
// restarts the whole module under baseline — never a partial resume,
// since the register state has no defined mapping back to the operand
// stack mid-run — and drops the cached sequence so the next run
// re-translates against the type feedback the restart just collected.
func (e *Engine) runOrDeopt(mod *ir.Module, fingerprint uint64, ops []SpecializedOp) (value.Value, error) {
	if err := e.baseline.Prime(mod); err != nil {
		return value.Null, err
	}
	e.allocator.Reset()
	e.registers.Reset()

	result, deopted, err := e.runSpecialized(ops)
	e.registers.Reset()

	if err != nil {
		return value.Null, err
	}
	if deopted {
		e.stats.Deoptimizations++
		e.specs.Drop(fingerprint)
		if e.tracer.Enabled() {
			e.tracer.Infof("deoptimized fingerprint %016x, restarting under baseline", fingerprint)
		}
		e.stats.BaselineExecutions++
		return e.baseline.Execute(mod)
	}
	e.stats.SpecializedExecutions++
	return result, nil
}
