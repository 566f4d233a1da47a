// Package baseline implements Tier 0: the classic stack-based
// interpreter that the adaptive tier profiles, specializes from, and
// deoptimizes back to.
package baseline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"quill/internal/enginerr"
	"quill/internal/ir"
	"quill/internal/trace"
	"quill/internal/value"
)

// Frame is a call-frame record: the offset to resume the caller at, and
// the callee's local variable environment. Frames form a strict
// ownership stack — no back-references beyond ReturnOffset — so they
// are destroyed outright on Return.
type Frame struct {
	ReturnOffset int
	Locals       map[string]value.Value
}

// Builtin is a builtin function's implementation. It receives its
// already-popped, in-order arguments and the engine they run against
// (for I/O and clean-output checks).
type Builtin func(eng *Engine, args []value.Value) (value.Value, error)

// ExecHook receives execution feedback from the dispatch loop. The
// adaptive tier installs one to piggyback its profiling counters and
// inline caches on Tier 0 without Tier 0 knowing about either.
type ExecHook interface {
	// OnInstruction is called before each instruction dispatches.
	OnInstruction(pc int, instr ir.Instruction)
	// OnOperands is called with the two operands of an arithmetic or
	// comparison instruction, before they are popped.
	OnOperands(pc int, a, b value.Value)
	// OnVariable is called with the value a LoadVar resolved or a
	// StoreVar is about to write.
	OnVariable(name string, v value.Value)
	// OnCall is called for every Call instruction, builtin or not.
	OnCall(name string)
}

// Engine is the Tier 0 interpreter's execution state: an operand stack,
// a global environment, a call stack of frames, the function address
// table, and the builtin dispatcher. It is single-use per Execute call
// in spirit, but Prime allows callers (notably the adaptive tier, on
// deoptimization) to restart the same engine instance from scratch.
type Engine struct {
	stack   []value.Value
	globals map[string]value.Value
	frames  []Frame

	functions map[string]int
	params    map[string][]string
	builtins  map[string]Builtin

	cleanOutput bool
	tracer      *trace.Tracer
	hook        ExecHook

	Stdout io.Writer
	Stdin  *bufio.Reader
}

// New returns a ready-to-run Engine with the standard builtin set
// registered.
func New(tracer *trace.Tracer) *Engine {
	eng := &Engine{
		stack:     make([]value.Value, 0, 256),
		globals:   make(map[string]value.Value),
		functions: make(map[string]int),
		params:    make(map[string][]string),
		builtins:  make(map[string]Builtin),
		tracer:    tracer,
		Stdout:    os.Stdout,
		Stdin:     bufio.NewReader(os.Stdin),
	}
	registerBuiltins(eng)
	return eng
}

// SetCleanOutput suppresses the engine's own diagnostic traces.
func (e *Engine) SetCleanOutput(clean bool) { e.cleanOutput = clean }

// SetHook installs (or, with nil, removes) the execution feedback hook.
func (e *Engine) SetHook(h ExecHook) { e.hook = h }

// RegisterParams records a function's ordered parameter names, as the
// excluded compiler would do ahead of execution.
func (e *Engine) RegisterParams(name string, params []string) {
	e.params[name] = append([]string{}, params...)
}

// Functions exposes the function address table built by the indexing
// pre-pass, read-only, for the profiler/adaptive tier's callable cache.
func (e *Engine) Functions() map[string]int { return e.functions }

// Params exposes the registered parameter lists, read-only.
func (e *Engine) Params() map[string][]string { return e.params }

// IsBuiltin reports whether name is a registered builtin.
func (e *Engine) IsBuiltin(name string) bool {
	_, ok := e.builtins[name]
	return ok
}

// CallBuiltin invokes a registered builtin by name. Callers (including
// the adaptive tier's CallFunctionFast) must check IsBuiltin first.
func (e *Engine) CallBuiltin(name string, args []value.Value) (value.Value, error) {
	fn, ok := e.builtins[name]
	if !ok {
		return value.Null, enginerr.New(enginerr.Runtime, "unknown builtin %q", name)
	}
	return fn(e, args)
}

// resetExecutionState clears the stack, globals, and call frames
// without discarding registered functions/params/builtins — this is the
// restart path a deoptimization uses to re-run the same module under
// baseline from scratch.
func (e *Engine) resetExecutionState() {
	e.stack = e.stack[:0]
	e.globals = make(map[string]value.Value)
	e.frames = nil
}

// GetVar resolves a variable: a name containing '.' always resolves
// globally (it is a qualified reference); otherwise an active frame's
// locals are preferred, falling back to globals; at the top level,
// globals are used directly.
func (e *Engine) GetVar(name string) (value.Value, bool) {
	if strings.Contains(name, ".") {
		v, ok := e.globals[name]
		return v, ok
	}
	if len(e.frames) > 0 {
		locals := e.frames[len(e.frames)-1].Locals
		if v, ok := locals[name]; ok {
			return v, true
		}
	}
	v, ok := e.globals[name]
	return v, ok
}

// SetVar stores a variable using the same resolution rule as GetVar.
func (e *Engine) SetVar(name string, v value.Value) {
	if strings.Contains(name, ".") {
		e.globals[name] = v
		return
	}
	if len(e.frames) > 0 {
		e.frames[len(e.frames)-1].Locals[name] = v
		return
	}
	e.globals[name] = v
}

// InFrame reports whether a call frame is currently active.
func (e *Engine) InFrame() bool { return len(e.frames) > 0 }

func (e *Engine) push(v value.Value) { e.stack = append(e.stack, v) }

func (e *Engine) pop() value.Value {
	if len(e.stack) == 0 {
		return value.Null
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v
}

func (e *Engine) peek() value.Value {
	if len(e.stack) == 0 {
		return value.Null
	}
	return e.stack[len(e.stack)-1]
}

// Execute runs mod under the baseline interpreter to completion (or
// error), and returns the final value left on the stack — the top
// frame's Return value, or, if execution fell off the end of the
// instruction array without an explicit Return, whatever is on top of
// the operand stack (Null when the stack is empty).
func (e *Engine) Execute(mod *ir.Module) (result value.Value, err error) {
	if err := e.Prime(mod); err != nil {
		return value.Null, err
	}
	return e.run(mod, 0)
}

// Prime resets execution state and runs both pre-passes (function
// indexing, then restricted module-init) without entering the main
// dispatch loop. The adaptive tier calls this before running a
// specialized operation stream, since that stream bypasses run
// entirely but still needs the same function table and module-level
// globals baseline would have established.
func (e *Engine) Prime(mod *ir.Module) error {
	e.resetExecutionState()
	if err := e.indexFunctions(mod); err != nil {
		return err
	}
	e.runModuleInit(mod)
	return nil
}

// ExecuteFrom runs mod starting at pc. A pc of 0 is a full Execute:
// state is reset and both pre-passes run again. Any other pc resumes
// the dispatch loop against the current state, without re-running the
// module-init pre-pass or clearing globals. Deoptimization recovery is
// always a full restart of the IR module rather than a partial resume;
// ExecuteFrom exists to make that contract explicit rather than
// implicit in run's signature.
func (e *Engine) ExecuteFrom(mod *ir.Module, pc int) (value.Value, error) {
	if pc == 0 {
		return e.Execute(mod)
	}
	return e.run(mod, pc)
}

func (e *Engine) indexFunctions(mod *ir.Module) error {
	e.functions = make(map[string]int, len(mod.Functions))
	for i, instr := range mod.Instructions {
		if instr.Op != ir.DefineFunction {
			continue
		}
		if _, exists := e.functions[instr.Str]; exists {
			return enginerr.New(enginerr.Runtime, "function %q defined more than once", instr.Str)
		}
		e.functions[instr.Str] = i
	}
	// Seed from the module's own table too (programmatically-built IR,
	// e.g. via internal/asm, populates Functions directly).
	for name, offset := range mod.Functions {
		if _, exists := e.functions[name]; !exists {
			e.functions[name] = offset
		}
	}
	for name, params := range mod.Params {
		if _, exists := e.params[name]; !exists {
			e.params[name] = params
		}
	}
	return nil
}

// runModuleInit executes the restricted Push*/StoreVar subset from
// offset 0 up to the first DefineFunction, establishing module-level
// constants, then clears the operand stack.
func (e *Engine) runModuleInit(mod *ir.Module) {
	for _, instr := range mod.Instructions {
		if instr.Op == ir.DefineFunction {
			break
		}
		switch instr.Op {
		case ir.PushInteger:
			e.push(value.Int(instr.Int))
		case ir.PushNumber:
			e.push(value.Float(instr.Float))
		case ir.PushString:
			e.push(value.String(instr.Str))
		case ir.PushBoolean:
			e.push(value.Bool(instr.Bool))
		case ir.PushNull:
			e.push(value.Null)
		case ir.StoreVar:
			e.globals[instr.Str] = e.pop()
		}
	}
	e.stack = e.stack[:0]
}

// run is the main dispatch loop, shared by Execute and the adaptive
// tier's restart path.
func (e *Engine) run(mod *ir.Module, pc int) (value.Value, error) {
	code := mod.Instructions
	for pc < len(code) {
		instr := code[pc]
		if e.tracer.Enabled() {
			e.tracer.Debugf("baseline pc=%d op=%s", pc, instr.Op)
		}
		if e.hook != nil {
			e.hook.OnInstruction(pc, instr)
			if isProfiledBinary(instr.Op) && len(e.stack) >= 2 {
				e.hook.OnOperands(pc, e.stack[len(e.stack)-2], e.stack[len(e.stack)-1])
			}
		}

		next := pc + 1
		var err error
		switch instr.Op {
		case ir.PushInteger:
			e.push(value.Int(instr.Int))
		case ir.PushNumber:
			e.push(value.Float(instr.Float))
		case ir.PushString:
			e.push(value.String(instr.Str))
		case ir.PushBoolean:
			e.push(value.Bool(instr.Bool))
		case ir.PushNull:
			e.push(value.Null)
		case ir.Pop:
			e.pop()
		case ir.Dup:
			e.push(e.peek())
		case ir.Swap:
			b := e.pop()
			a := e.pop()
			e.push(b)
			e.push(a)

		case ir.LoadVar:
			v, ok := e.GetVar(instr.Str)
			if !ok {
				v = value.Null
			}
			if e.hook != nil {
				e.hook.OnVariable(instr.Str, v)
			}
			e.push(v)
		case ir.StoreVar:
			v := e.pop()
			if e.hook != nil {
				e.hook.OnVariable(instr.Str, v)
			}
			e.SetVar(instr.Str, v)
		case ir.SetGlobal:
			e.globals[instr.Str] = e.pop()

		case ir.Add:
			b, a := e.pop(), e.pop()
			e.push(value.Add(a, b))
		case ir.Subtract:
			b, a := e.pop(), e.pop()
			e.push(value.Subtract(a, b))
		case ir.Multiply:
			b, a := e.pop(), e.pop()
			e.push(value.Multiply(a, b))
		case ir.Divide:
			b, a := e.pop(), e.pop()
			var r value.Value
			r, err = value.Divide(a, b)
			if err != nil {
				return value.Null, enginerr.Wrap(enginerr.Arithmetic, err, "division by zero")
			}
			e.push(r)
		case ir.Modulo:
			b, a := e.pop(), e.pop()
			var r value.Value
			r, err = value.Modulo(a, b)
			if err != nil {
				return value.Null, enginerr.Wrap(enginerr.Arithmetic, err, "modulo by zero")
			}
			e.push(r)
		case ir.Power:
			b, a := e.pop(), e.pop()
			e.push(powValue(a, b))
		case ir.Negate:
			e.push(value.Negate(e.pop()))
		case ir.FloorDiv:
			b, a := e.pop(), e.pop()
			var r value.Value
			r, err = value.FloorDiv(a, b)
			if err != nil {
				return value.Null, enginerr.Wrap(enginerr.Arithmetic, err, "division by zero")
			}
			e.push(r)

		case ir.BitwiseAnd:
			b, a := e.pop(), e.pop()
			e.push(value.Int(a.ToInteger() & b.ToInteger()))
		case ir.BitwiseOr:
			b, a := e.pop(), e.pop()
			e.push(value.Int(a.ToInteger() | b.ToInteger()))
		case ir.BitwiseXor:
			b, a := e.pop(), e.pop()
			e.push(value.Int(a.ToInteger() ^ b.ToInteger()))
		case ir.BitwiseNot:
			a := e.pop()
			e.push(value.Int(^a.ToInteger()))
		case ir.LeftShift:
			b, a := e.pop(), e.pop()
			e.push(value.Int(a.ToInteger() << uint(b.ToInteger())))
		case ir.RightShift:
			b, a := e.pop(), e.pop()
			e.push(value.Int(a.ToInteger() >> uint(b.ToInteger())))

		case ir.Equal:
			b, a := e.pop(), e.pop()
			e.push(value.Bool(value.Equal(a, b)))
		case ir.NotEqual:
			b, a := e.pop(), e.pop()
			e.push(value.Bool(!value.Equal(a, b)))
		case ir.Less:
			b, a := e.pop(), e.pop()
			e.push(compareBool(a, b, func(c int) bool { return c < 0 }))
		case ir.LessEqual:
			b, a := e.pop(), e.pop()
			e.push(compareBool(a, b, func(c int) bool { return c <= 0 }))
		case ir.Greater:
			b, a := e.pop(), e.pop()
			e.push(compareBool(a, b, func(c int) bool { return c > 0 }))
		case ir.GreaterEqual:
			b, a := e.pop(), e.pop()
			e.push(compareBool(a, b, func(c int) bool { return c >= 0 }))

		case ir.And:
			b, a := e.pop(), e.pop()
			e.push(value.Bool(a.IsTruthy() && b.IsTruthy()))
		case ir.Or:
			b, a := e.pop(), e.pop()
			e.push(value.Bool(a.IsTruthy() || b.IsTruthy()))
		case ir.Not:
			e.push(value.Not(e.pop()))

		case ir.Jump:
			next = instr.Target
		case ir.JumpIfFalse:
			if !e.pop().IsTruthy() {
				next = instr.Target
			}
		case ir.JumpIfTrue:
			if e.pop().IsTruthy() {
				next = instr.Target
			}
		case ir.Label, ir.DefineFunction:
			// No-op at execution time; meaningful only to the pre-passes.

		case ir.Call:
			next, err = e.call(instr, pc)
			if err != nil {
				return value.Null, err
			}

		case ir.Return:
			v := e.pop()
			if len(e.frames) == 0 {
				e.push(v)
				return v, nil
			}
			top := e.frames[len(e.frames)-1]
			e.frames = e.frames[:len(e.frames)-1]
			e.push(v)
			next = top.ReturnOffset

		case ir.Print:
			fmt.Fprint(e.Stdout, e.pop().ToDisplayString())
		case ir.ReadInput:
			line, _ := e.Stdin.ReadString('\n')
			e.push(value.String(strings.TrimRight(line, "\r\n")))
		case ir.Sleep:
			sleepFor(e.pop())
		case ir.Exit:
			return e.peek(), nil

		default:
			return value.Null, enginerr.New(enginerr.InvalidOperation, "unhandled IR opcode %s", instr.Op)
		}

		pc = next
	}

	if len(e.stack) == 0 {
		return value.Null, nil
	}
	return e.peek(), nil
}

// call implements the Call convention: builtin dispatch, user function
// invocation (with lenient arity), or a lenient Null push for an
// unknown name.
func (e *Engine) call(instr ir.Instruction, pc int) (nextPC int, err error) {
	name := instr.Str
	if e.hook != nil {
		e.hook.OnCall(name)
	}
	if e.IsBuiltin(name) {
		args := e.popArgs(instr.Argc)
		result, err := e.CallBuiltin(name, args)
		if err != nil {
			return 0, err
		}
		e.push(result)
		return pc + 1, nil
	}

	offset, ok := e.functions[name]
	if !ok {
		// Unknown callees push Null rather than error; callers that want
		// strictness can pre-validate the module's call targets.
		e.push(value.Null)
		return pc + 1, nil
	}

	args := e.popArgs(instr.Argc)
	paramNames := e.params[name]
	locals := make(map[string]value.Value, len(paramNames))
	for i, p := range paramNames {
		if i < len(args) {
			locals[p] = args[i]
		} else {
			locals[p] = value.Null
		}
	}
	e.frames = append(e.frames, Frame{ReturnOffset: pc + 1, Locals: locals})
	return offset, nil
}

// popArgs pops n values and restores their original left-to-right order.
func (e *Engine) popArgs(n int) []value.Value {
	args := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = e.pop()
	}
	return args
}

// isProfiledBinary reports whether op is one of the two-operand
// arithmetic/comparison instructions the hook samples type feedback
// from.
func isProfiledBinary(op ir.OpCode) bool {
	switch op {
	case ir.Add, ir.Subtract, ir.Multiply, ir.Divide, ir.Modulo, ir.Power, ir.FloorDiv,
		ir.Equal, ir.NotEqual, ir.Less, ir.LessEqual, ir.Greater, ir.GreaterEqual:
		return true
	default:
		return false
	}
}

func compareBool(a, b value.Value, test func(int) bool) value.Value {
	c, ok := value.Compare(a, b)
	if !ok {
		return value.Null
	}
	return value.Bool(test(c))
}

// powValue computes exponentiation through the Number domain; like
// Divide/Modulo/FloorDiv, the result is always Number.
func powValue(a, b value.Value) value.Value {
	an, aok := a.ToNumber()
	bn, bok := b.ToNumber()
	if !aok || !bok {
		return value.Null
	}
	return value.Float(ipow(an, bn))
}
