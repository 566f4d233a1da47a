// Package quill implements the core execution engine of a small
// statically-oriented scripting language: a baseline stack interpreter,
// a profiler/specializer, and a register-based adaptive interpreter
// that deoptimizes back to baseline on any guard failure. The
// surrounding toolchain — lexer, parser, semantic analysis, module
// system, CLI, native codegen — lives outside this module.
package quill

import (
	"fmt"

	"github.com/google/uuid"

	"quill/internal/adaptive"
	"quill/internal/enginerr"
	"quill/internal/ir"
	"quill/internal/trace"
	"quill/internal/value"
)

// Engine is the core's single public entry point: construct at an
// optimization level, optionally register function parameter names and
// clean-output mode, then Run an IR module.
type Engine struct {
	id     uuid.UUID
	tier   *adaptive.Engine
	tracer *trace.Tracer
}

// New constructs an Engine at the given optimization level: 0 runs the
// baseline interpreter only, 1 and 2 both enable profiling and
// specialization into the adaptive tier.
func New(optimizationLevel int) *Engine {
	id := uuid.New()
	tracer := trace.New(id.String())
	return &Engine{
		id:     id,
		tier:   adaptive.New(optimizationLevel, tracer),
		tracer: tracer,
	}
}

// ID returns the engine's instance identifier, stable for its lifetime
// and surfaced in trace output so a host running many engines can
// correlate trace lines back to a specific instance.
func (e *Engine) ID() uuid.UUID { return e.id }

// SetCleanOutput suppresses the engine's own diagnostic output,
// leaving only what the running program itself prints.
func (e *Engine) SetCleanOutput(clean bool) {
	e.tracer.SetQuiet(clean)
	e.tier.Baseline().SetCleanOutput(clean)
}

// RegisterFunctionParams records a function's ordered parameter names
// ahead of Run, as the excluded compiler/packager would have done when
// it emitted the IR.
func (e *Engine) RegisterFunctionParams(name string, params []string) {
	e.tier.Baseline().RegisterParams(name, params)
}

// Stats returns the adaptive tier's lifetime counters: baseline vs.
// specialized execution counts, deoptimizations, and inline-cache
// occupancy. At optimization level 0 every run counts as baseline.
func (e *Engine) Stats() adaptive.Stats { return e.tier.Stats() }

// Run executes mod to completion, returning its process-style exit
// code and any unrecovered engine error. A panic inside a specialized
// run (e.g. a negative jump target in a malformed IR module)
// is recovered and reported as an engine-level error rather than
// propagated as a Go panic — the core's only panic boundary.
func (e *Engine) Run(mod *ir.Module) (exitCode int, err error) {
	defer func() {
		if r := recover(); r != nil {
			exitCode = 1
			err = enginerr.New(enginerr.Panic, "engine %s: execution panicked: %v", e.id, r)
		}
	}()

	result, runErr := e.tier.Execute(mod)
	if runErr != nil {
		return 1, runErr
	}
	return exitCodeOf(result), nil
}

// exitCodeOf converts the value left by a module's Exit/top-level
// Return into a process exit code: integers pass through, everything
// else (including Null, the common case of a module with no explicit
// exit) is success.
func exitCodeOf(v value.Value) int {
	if v.IsInt() {
		return int(v.AsInt())
	}
	return 0
}

func (e *Engine) String() string {
	return fmt.Sprintf("quill.Engine{id=%s}", e.id)
}
