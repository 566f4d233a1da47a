package adaptive

import (
	"quill/internal/ir"
	"quill/internal/profiler"
)

// translate converts an IR instruction sequence into a parallel stream
// of specialized operations, one entry per input instruction.
// Instructions with no specialized equivalent become
// OpUnsupported entries at the same index; the adaptive dispatch loop
// deoptimizes whenever it reaches one. A shadow operand stack of
// register indices stands in for the IR's value stack, discharging the
// stack discipline into register assignments at translation time
// rather than at run time.
func translate(instrs []ir.Instruction, counters *profiler.Counters, alloc *Allocator, cache *InlineCache) []SpecializedOp {
	ops := make([]SpecializedOp, len(instrs))
	var regs []uint8

	pushReg := func(r uint8) { regs = append(regs, r) }
	popReg := func() (uint8, bool) {
		if len(regs) == 0 {
			return 0, false
		}
		r := regs[len(regs)-1]
		regs = regs[:len(regs)-1]
		return r, true
	}
	pop2Reg := func() (uint8, uint8, bool) {
		if len(regs) < 2 {
			return 0, 0, false
		}
		b := regs[len(regs)-1]
		a := regs[len(regs)-2]
		regs = regs[:len(regs)-2]
		return a, b, true
	}
	unsupported := func(i int, instr ir.Instruction) {
		ops[i] = SpecializedOp{Kind: OpUnsupported, Original: instr.Op}
		// The stack-to-register shadowing is no longer trustworthy past an
		// untranslatable instruction, so drop it; any later instruction
		// that needs an operand register becomes unsupported too and the
		// cascade forces a deoptimization as soon as dispatch reaches it.
		regs = regs[:0]
	}

	for i, instr := range instrs {
		switch instr.Op {
		case ir.PushInteger:
			r := alloc.Next("")
			ops[i] = SpecializedOp{Kind: OpLoadImmediate, Dest: r, Imm: instr.Int, Original: instr.Op}
			pushReg(r)

		case ir.PushNumber:
			r := alloc.Next("")
			ops[i] = SpecializedOp{Kind: OpLoadImmediate, Dest: r, FImm: instr.Float, IsFloatImm: true, Original: instr.Op}
			pushReg(r)

		case ir.LoadVar:
			r := alloc.Next(instr.Str)
			if entry, ok := cachedVariable(cache, instr.Str); ok {
				ops[i] = SpecializedOp{Kind: OpLoadVarFast, Dest: r, Name: instr.Str, CacheVersion: entry.Version, Original: instr.Op}
			} else {
				ops[i] = SpecializedOp{Kind: OpLoadReg, Dest: r, Name: instr.Str, Original: instr.Op}
			}
			pushReg(r)

		case ir.StoreVar:
			src, ok := popReg()
			if !ok {
				unsupported(i, instr)
				continue
			}
			if entry, ok := cachedVariable(cache, instr.Str); ok {
				ops[i] = SpecializedOp{Kind: OpStoreVarFast, Src1: src, Name: instr.Str, CacheVersion: entry.Version, Original: instr.Op}
			} else {
				ops[i] = SpecializedOp{Kind: OpStoreReg, Src1: src, Name: instr.Str, Original: instr.Op}
			}

		case ir.Add, ir.Subtract, ir.Multiply, ir.Divide:
			a, b, ok := pop2Reg()
			if !ok {
				unsupported(i, instr)
				continue
			}
			dest := alloc.Next("")
			kind := arithKind(instr.Op, dominantOf(counters, i))
			ops[i] = SpecializedOp{Kind: kind, Dest: dest, Src1: a, Src2: b, Original: instr.Op}
			pushReg(dest)

		case ir.Equal, ir.NotEqual, ir.Less, ir.LessEqual, ir.Greater, ir.GreaterEqual:
			a, b, ok := pop2Reg()
			if !ok {
				unsupported(i, instr)
				continue
			}
			dest := alloc.Next("")
			kind := compareKind(dominantOf(counters, i))
			ops[i] = SpecializedOp{Kind: kind, Dest: dest, Src1: a, Src2: b, Cmp: instr.Op, Original: instr.Op}
			pushReg(dest)

		case ir.JumpIfFalse:
			src, ok := popReg()
			if !ok {
				unsupported(i, instr)
				continue
			}
			ops[i] = SpecializedOp{Kind: OpJumpIfFalseReg, Src1: src, Target: instr.Target, Original: instr.Op}

		case ir.JumpIfTrue:
			src, ok := popReg()
			if !ok {
				unsupported(i, instr)
				continue
			}
			ops[i] = SpecializedOp{Kind: OpJumpIfTrueReg, Src1: src, Target: instr.Target, Original: instr.Op}

		case ir.Return:
			// The adaptive tier never pushes a real call frame (see
			// OpCallFunctionFast), so every Return it can legally reach is a
			// top-level return: it always terminates the run rather than
			// resuming a caller.
			src, ok := popReg()
			if !ok {
				unsupported(i, instr)
				continue
			}
			ops[i] = SpecializedOp{Kind: OpReturnReg, Src1: src, Original: instr.Op}

		case ir.Call:
			if len(regs) < instr.Argc {
				unsupported(i, instr)
				continue
			}
			argRegs := append([]uint8{}, regs[len(regs)-instr.Argc:]...)
			regs = regs[:len(regs)-instr.Argc]
			ops[i] = SpecializedOp{Kind: OpCallFunctionFast, Name: instr.Str, Argc: instr.Argc, ArgRegs: argRegs, Original: instr.Op}
			// A call's result is left on the (shadow) stack as a fresh
			// register so any immediately-following StoreVar/arithmetic
			// still translates; the dispatch loop fills it in at run time.
			dest := alloc.Next("")
			ops[i].Dest = dest
			pushReg(dest)

		default:
			unsupported(i, instr)
		}
	}
	return ops
}

// cachedVariable consults the inline cache when inline caching is
// enabled; a nil cache (optimization level 1) always misses, so every
// variable access translates to the slow LoadReg/StoreReg forms.
func cachedVariable(cache *InlineCache, name string) (*VariableCacheEntry, bool) {
	if cache == nil {
		return nil, false
	}
	return cache.Variable(name)
}

func dominantOf(counters *profiler.Counters, pc int) string {
	if counters == nil {
		return ""
	}
	p, ok := counters.TypeProfileAt(pc)
	if !ok {
		return ""
	}
	t, ok := p.DominantType()
	if !ok {
		return ""
	}
	return t
}

func arithKind(op ir.OpCode, dominant string) SpecializedKind {
	isFloat := dominant == "float"
	switch op {
	case ir.Add:
		if isFloat {
			return OpAddFloatReg
		}
		return OpAddIntReg
	case ir.Subtract:
		if isFloat {
			return OpSubtractFloatReg
		}
		return OpSubtractIntReg
	case ir.Multiply:
		if isFloat {
			return OpMultiplyFloatReg
		}
		return OpMultiplyIntReg
	case ir.Divide:
		if isFloat {
			return OpDivideFloatReg
		}
		return OpDivideIntReg
	default:
		return OpUnsupported
	}
}

func compareKind(dominant string) SpecializedKind {
	switch dominant {
	case "float":
		return OpCompareFloatReg
	case "string":
		return OpCompareStringReg
	default:
		return OpCompareIntReg
	}
}
