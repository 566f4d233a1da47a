// Package asm provides a minimal fluent builder for IR modules, used by
// tests and by callers that assemble IR programmatically rather than
// through the excluded parser/compiler pipeline.
package asm

import "quill/internal/ir"

// Builder accumulates instructions and function metadata into an
// ir.Module. It tracks label offsets so jumps can be patched by name
// instead of by hand-counted index, the way a real compiler would.
type Builder struct {
	mod    *ir.Module
	labels map[string]int
	// pending records (instruction index, label name) for jump/loop
	// targets referenced before the label they point to was emitted.
	pending []pendingJump
}

type pendingJump struct {
	index int
	label string
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{
		mod:    ir.NewModule(),
		labels: make(map[string]int),
	}
}

func (b *Builder) emit(instr ir.Instruction) *Builder {
	b.mod.Instructions = append(b.mod.Instructions, instr)
	return b
}

func (b *Builder) PushInt(v int64) *Builder    { return b.emit(ir.Instruction{Op: ir.PushInteger, Int: v}) }
func (b *Builder) PushNumber(v float64) *Builder { return b.emit(ir.Instruction{Op: ir.PushNumber, Float: v}) }
func (b *Builder) PushString(v string) *Builder  { return b.emit(ir.Instruction{Op: ir.PushString, Str: v}) }
func (b *Builder) PushBool(v bool) *Builder      { return b.emit(ir.Instruction{Op: ir.PushBoolean, Bool: v}) }
func (b *Builder) PushNull() *Builder            { return b.emit(ir.Instruction{Op: ir.PushNull}) }
func (b *Builder) Pop() *Builder                 { return b.emit(ir.Instruction{Op: ir.Pop}) }
func (b *Builder) Dup() *Builder                 { return b.emit(ir.Instruction{Op: ir.Dup}) }
func (b *Builder) Swap() *Builder                { return b.emit(ir.Instruction{Op: ir.Swap}) }

func (b *Builder) LoadVar(name string) *Builder   { return b.emit(ir.Instruction{Op: ir.LoadVar, Str: name}) }
func (b *Builder) StoreVar(name string) *Builder  { return b.emit(ir.Instruction{Op: ir.StoreVar, Str: name}) }
func (b *Builder) SetGlobal(name string) *Builder { return b.emit(ir.Instruction{Op: ir.SetGlobal, Str: name}) }

func (b *Builder) Add() *Builder          { return b.emit(ir.Instruction{Op: ir.Add}) }
func (b *Builder) Subtract() *Builder     { return b.emit(ir.Instruction{Op: ir.Subtract}) }
func (b *Builder) Multiply() *Builder     { return b.emit(ir.Instruction{Op: ir.Multiply}) }
func (b *Builder) Divide() *Builder       { return b.emit(ir.Instruction{Op: ir.Divide}) }
func (b *Builder) Modulo() *Builder       { return b.emit(ir.Instruction{Op: ir.Modulo}) }
func (b *Builder) Power() *Builder        { return b.emit(ir.Instruction{Op: ir.Power}) }
func (b *Builder) Negate() *Builder       { return b.emit(ir.Instruction{Op: ir.Negate}) }
func (b *Builder) FloorDiv() *Builder     { return b.emit(ir.Instruction{Op: ir.FloorDiv}) }

func (b *Builder) BitwiseAnd() *Builder { return b.emit(ir.Instruction{Op: ir.BitwiseAnd}) }
func (b *Builder) BitwiseOr() *Builder  { return b.emit(ir.Instruction{Op: ir.BitwiseOr}) }
func (b *Builder) BitwiseXor() *Builder { return b.emit(ir.Instruction{Op: ir.BitwiseXor}) }
func (b *Builder) BitwiseNot() *Builder { return b.emit(ir.Instruction{Op: ir.BitwiseNot}) }
func (b *Builder) LeftShift() *Builder  { return b.emit(ir.Instruction{Op: ir.LeftShift}) }
func (b *Builder) RightShift() *Builder { return b.emit(ir.Instruction{Op: ir.RightShift}) }

func (b *Builder) Equal() *Builder        { return b.emit(ir.Instruction{Op: ir.Equal}) }
func (b *Builder) NotEqual() *Builder     { return b.emit(ir.Instruction{Op: ir.NotEqual}) }
func (b *Builder) Less() *Builder         { return b.emit(ir.Instruction{Op: ir.Less}) }
func (b *Builder) LessEqual() *Builder    { return b.emit(ir.Instruction{Op: ir.LessEqual}) }
func (b *Builder) Greater() *Builder      { return b.emit(ir.Instruction{Op: ir.Greater}) }
func (b *Builder) GreaterEqual() *Builder { return b.emit(ir.Instruction{Op: ir.GreaterEqual}) }

func (b *Builder) And() *Builder { return b.emit(ir.Instruction{Op: ir.And}) }
func (b *Builder) Or() *Builder  { return b.emit(ir.Instruction{Op: ir.Or}) }
func (b *Builder) Not() *Builder { return b.emit(ir.Instruction{Op: ir.Not}) }

func (b *Builder) Print() *Builder     { return b.emit(ir.Instruction{Op: ir.Print}) }
func (b *Builder) ReadInput() *Builder { return b.emit(ir.Instruction{Op: ir.ReadInput}) }
func (b *Builder) Sleep() *Builder     { return b.emit(ir.Instruction{Op: ir.Sleep}) }
func (b *Builder) Exit() *Builder      { return b.emit(ir.Instruction{Op: ir.Exit}) }
func (b *Builder) Return() *Builder    { return b.emit(ir.Instruction{Op: ir.Return}) }

// Call emits Call(name, argc). argc is not validated against a Func
// declaration here — arity mismatches are the interpreter's business,
// which binds missing positions to Null.
func (b *Builder) Call(name string, argc int) *Builder {
	return b.emit(ir.Instruction{Op: ir.Call, Str: name, Argc: argc})
}

// Label records the current instruction index under name for later
// Jump/JumpIfFalse/JumpIfTrue resolution, and also emits a Label
// instruction (a no-op at execution time, kept for IR fidelity).
func (b *Builder) Label(name string) *Builder {
	b.labels[name] = len(b.mod.Instructions)
	return b.emit(ir.Instruction{Op: ir.Label, Str: name})
}

func (b *Builder) jumpTo(op ir.OpCode, label string) *Builder {
	index := len(b.mod.Instructions)
	b.emit(ir.Instruction{Op: op})
	if target, ok := b.labels[label]; ok {
		b.mod.Instructions[index].Target = target
	} else {
		b.pending = append(b.pending, pendingJump{index: index, label: label})
	}
	return b
}

func (b *Builder) Jump(label string) *Builder        { return b.jumpTo(ir.Jump, label) }
func (b *Builder) JumpIfFalse(label string) *Builder { return b.jumpTo(ir.JumpIfFalse, label) }
func (b *Builder) JumpIfTrue(label string) *Builder  { return b.jumpTo(ir.JumpIfTrue, label) }

// Func begins a function definition at the current offset, registering
// its name and parameter list in the module's function tables and
// emitting the corresponding DefineFunction instruction.
func (b *Builder) Func(name string, params ...string) *Builder {
	offset := len(b.mod.Instructions)
	b.mod.Functions[name] = offset
	b.mod.Params[name] = append([]string{}, params...)
	return b.emit(ir.Instruction{Op: ir.DefineFunction, Str: name, Target: offset})
}

// Module finalizes and returns the assembled IR module, resolving any
// jump targets that referenced a label emitted after the jump.
func (b *Builder) Module() *ir.Module {
	for _, p := range b.pending {
		if target, ok := b.labels[p.label]; ok {
			b.mod.Instructions[p.index].Target = target
		}
	}
	b.pending = nil
	return b.mod
}
